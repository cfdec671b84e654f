package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/certbind-io/winrm-certbind/internal/certstore"
	"github.com/certbind-io/winrm-certbind/internal/config"
	"github.com/certbind-io/winrm-certbind/internal/logging"
	"github.com/certbind-io/winrm-certbind/internal/metrics"
	"github.com/certbind-io/winrm-certbind/internal/platform"
	"github.com/certbind-io/winrm-certbind/internal/probe"
	"github.com/certbind-io/winrm-certbind/internal/reconcile"
	"github.com/certbind-io/winrm-certbind/internal/state"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run one listener reconciliation pass",
	Long: `Run a single reconciliation pass against the local host and exit.

Exit codes:
  0  listener already optimal, upgraded, or newly created
  1  existing listener has no valid replacement, or the selected
     certificate is expired
  2  configuration or maintenance-log initialization failed
  3  no listener and no eligible certificate (cannot bootstrap)
  4  listener creation failed at the platform level

Example:
  winrm-certbind run -c C:\ProgramData\CertBind\certbind.yaml`,
	RunE: runRun,
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
	// Load and validate configuration
	cfg, err := config.Load(viper.GetViper())
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if validationErr := cfg.Validate(); validationErr != nil {
		return fmt.Errorf("invalid configuration: %w", validationErr)
	}

	logger := logging.NewConsoleLogger(cfg.Log.Level)
	defer logger.Sync() //nolint:errcheck // stderr sync failure is unactionable

	// The maintenance log must be writable before anything is touched; an
	// unavailable sink aborts the run.
	sink, err := newSink(cfg)
	if err != nil {
		return fmt.Errorf("maintenance log unavailable: %w", err)
	}
	defer sink.Close() //nolint:errcheck

	ctx := context.Background()
	provider := platform.NewProvider(logger)

	identity, err := resolveIdentity(ctx, provider, cfg)
	if err != nil {
		return fmt.Errorf("failed to resolve host identity: %w", err)
	}
	logger.Info("starting reconciliation",
		zap.String("computer_name", identity.ComputerName),
		zap.String("fqdn", identity.FQDN),
	)

	stateMgr := loadState(cfg, logger)

	clock := platform.SystemClock{}
	reconciler := reconcile.New(
		provider,
		certstore.NewSelector(identity.ComputerName),
		clock,
		sink,
		logger,
		identity,
	)

	result := reconciler.Reconcile(ctx)
	exitCode = result.Outcome.ExitCode()

	if cfg.Verify.Enabled && result.Outcome.Success() && result.BoundThumbprint != "" {
		verifyListener(ctx, cfg, result.BoundThumbprint, logger)
	}

	recordMetrics(cfg, result, clock, logger)
	saveState(stateMgr, result, clock, logger)

	return nil
}

// newSink opens the configured maintenance-log backend.
func newSink(cfg *config.Config) (logging.Sink, error) {
	switch cfg.Log.Backend {
	case logging.BackendEventLog:
		return logging.NewEventLogSink()
	default:
		return logging.NewFileSink(cfg.Log.FilePath)
	}
}

// resolveIdentity reads the platform identity and applies config overrides.
func resolveIdentity(ctx context.Context, provider platform.Provider, cfg *config.Config) (platform.Identity, error) {
	identity := platform.Identity{
		ComputerName: cfg.Host.ComputerName,
		FQDN:         cfg.Host.FQDN,
	}
	if identity.ComputerName != "" && identity.FQDN != "" {
		return identity, nil
	}

	resolved, err := provider.HostIdentity(ctx)
	if err != nil {
		return platform.Identity{}, err
	}
	if identity.ComputerName == "" {
		identity.ComputerName = resolved.ComputerName
	}
	if identity.FQDN == "" {
		identity.FQDN = resolved.FQDN
	}
	return identity, nil
}

// verifyListener probes the freshly reconciled listener. The result is
// advisory: it is logged but never changes the exit code.
func verifyListener(ctx context.Context, cfg *config.Config, thumbprint string, logger *zap.Logger) {
	p := probe.New(cfg.Listener.Port, cfg.Verify.Timeout, logger)
	res := p.Verify(ctx, thumbprint)

	switch {
	case !res.Reachable:
		logger.Warn("listener verification probe could not connect",
			zap.Int("port", cfg.Listener.Port),
			zap.String("error", res.Error),
		)
	case !res.ThumbprintMatch:
		logger.Warn("listener serves an unexpected certificate",
			zap.String("expected", thumbprint),
			zap.String("served", res.ServedThumbprint),
			zap.String("served_subject", res.ServedSubject),
		)
	default:
		logger.Info("listener verified",
			zap.String("thumbprint", res.ServedThumbprint),
			zap.Time("expires", res.ServedNotAfter),
		)
	}
}

func recordMetrics(cfg *config.Config, result reconcile.Result, clock platform.Clock, logger *zap.Logger) {
	if cfg.Metrics.TextfilePath == "" {
		return
	}

	recorder := metrics.NewRecorder()
	recorder.Record(result.Outcome.String(), result.Outcome.ExitCode(), result.EligibleCount,
		result.BoundNotAfter, clock.Now())

	if err := recorder.WriteTextfile(cfg.Metrics.TextfilePath); err != nil {
		logger.Warn("failed to export metrics", zap.Error(err))
	}
}

func loadState(cfg *config.Config, logger *zap.Logger) *state.Manager {
	if cfg.State.Dir == "" {
		return nil
	}

	mgr := state.NewManager(cfg.State.Dir)
	if err := mgr.Load(); err != nil {
		logger.Warn("failed to load last-run state", zap.Error(err))
	}
	if mgr.HasState() {
		logger.Debug("previous run",
			zap.String("outcome", mgr.LastOutcome()),
			zap.String("bound_thumbprint", mgr.BoundThumbprint()),
			zap.Time("at", mgr.LastRunAt()),
		)
	}
	return mgr
}

func saveState(mgr *state.Manager, result reconcile.Result, clock platform.Clock, logger *zap.Logger) {
	if mgr == nil {
		return
	}

	mgr.RecordRun(result.Outcome.String(), result.Outcome.ExitCode(), result.BoundThumbprint, clock.Now())
	if err := mgr.Save(); err != nil {
		logger.Warn("failed to save last-run state", zap.Error(err))
	}
}
