// Package reconcile converges the WinRM HTTPS listener on the best
// eligible machine certificate: leave it alone, swap the certificate by
// recreating the listener, create a missing listener, or report a terminal
// failure. One pass per process invocation, no retries, no locking against
// concurrent runs (external serialization is assumed).
package reconcile

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/certbind-io/winrm-certbind/internal/certstore"
	"github.com/certbind-io/winrm-certbind/internal/logging"
	"github.com/certbind-io/winrm-certbind/internal/platform"
)

// component is the subsystem name stamped on maintenance-log records.
const component = "ListenerReconciler"

// Result is what one pass produced. BoundThumbprint is set for the
// converged outcomes and names the certificate the listener ends up with.
type Result struct {
	Outcome         Outcome
	BoundThumbprint string
	BoundNotAfter   time.Time
	Detail          string
	EligibleCount   int
}

// Reconciler drives one reconciliation pass.
type Reconciler struct {
	provider platform.Provider
	selector *certstore.Selector
	clock    platform.Clock
	sink     logging.Sink
	logger   *zap.Logger
	identity platform.Identity
}

// New creates a Reconciler. The identity is resolved once by the caller so
// the core never reads ambient host state on its own.
func New(provider platform.Provider, selector *certstore.Selector, clock platform.Clock, sink logging.Sink, logger *zap.Logger, identity platform.Identity) *Reconciler {
	return &Reconciler{
		provider: provider,
		selector: selector,
		clock:    clock,
		sink:     sink,
		logger:   logger,
		identity: identity,
	}
}

// Reconcile runs one pass and returns the terminal result. Exactly one
// maintenance-log record is emitted per call, matching the returned
// outcome.
func (r *Reconciler) Reconcile(ctx context.Context) Result {
	listener, err := r.provider.HTTPSListener(ctx)
	if err != nil {
		return r.finish(Result{
			Outcome: OutcomeProvisioningFailed,
			Detail:  fmt.Sprintf("failed to query HTTPS listener: %v", err),
		})
	}

	certs, err := r.provider.Certificates(ctx)
	if err != nil {
		return r.finish(Result{
			Outcome: OutcomeProvisioningFailed,
			Detail:  fmt.Sprintf("failed to enumerate certificate store: %v", err),
		})
	}

	best := r.selector.SelectBest(certs)
	eligible := r.countEligible(certs)

	if listener != nil {
		return r.reconcileExisting(ctx, listener, best, eligible)
	}
	return r.bootstrap(ctx, best, eligible)
}

// countEligible counts store certificates passing the eligibility filters.
func (r *Reconciler) countEligible(certs []certstore.Certificate) int {
	n := 0
	for _, c := range certs {
		if r.selector.Eligible(c) {
			n++
		}
	}
	return n
}

// reconcileExisting handles the listener-present half of the state machine.
func (r *Reconciler) reconcileExisting(ctx context.Context, listener *platform.Listener, best *certstore.Certificate, eligible int) Result {
	if best == nil {
		return r.finish(Result{
			Outcome: OutcomeNoReplacement,
			Detail: fmt.Sprintf("HTTPS listener is bound to %s but no eligible certificate exists to validate the binding",
				listener.Thumbprint),
		})
	}

	if certstore.SameThumbprint(best.Thumbprint, listener.Thumbprint) {
		return r.finish(Result{
			Outcome:         OutcomeAlreadyOptimal,
			BoundThumbprint: listener.Thumbprint,
			BoundNotAfter:   best.NotAfter,
			EligibleCount:   eligible,
			Detail: fmt.Sprintf("HTTPS listener already bound to best certificate %s (expires %s)",
				best.Thumbprint, best.NotAfter.Format("2006-01-02")),
		})
	}

	// Recreate rather than update in place: an existing listener may carry
	// a stale hostname from prior misconfiguration, and a fresh create
	// guarantees a consistent binding.
	r.logger.Info("upgrading listener certificate",
		zap.String("current", listener.Thumbprint),
		zap.String("best", best.Thumbprint),
	)

	if err := r.provider.DeleteHTTPSListener(ctx); err != nil {
		return r.finish(Result{
			Outcome: OutcomeProvisioningFailed,
			Detail:  fmt.Sprintf("failed to delete HTTPS listener for upgrade: %v", err),
		})
	}

	if err := r.provider.CreateHTTPSListener(ctx, r.identity.FQDN, best.Thumbprint); err != nil {
		// The old listener is already gone. No rollback; the next run
		// retries from the no-listener state.
		return r.finish(Result{
			Outcome: OutcomeProvisioningFailed,
			Detail:  fmt.Sprintf("failed to recreate HTTPS listener with certificate %s: %v", best.Thumbprint, err),
		})
	}

	return r.finish(Result{
		Outcome:         OutcomeUpgraded,
		BoundThumbprint: best.Thumbprint,
		BoundNotAfter:   best.NotAfter,
		EligibleCount:   eligible,
		Detail: fmt.Sprintf("replaced HTTPS listener certificate %s with %s (expires %s)",
			listener.Thumbprint, best.Thumbprint, best.NotAfter.Format("2006-01-02")),
	})
}

// bootstrap handles the no-listener half of the state machine.
func (r *Reconciler) bootstrap(ctx context.Context, best *certstore.Certificate, eligible int) Result {
	if best == nil {
		return r.finish(Result{
			Outcome: OutcomeNoCertificate,
			Detail:  "no HTTPS listener and no eligible certificate in the machine store",
		})
	}

	if certstore.IsExpired(*best, r.clock.Now()) {
		return r.finish(Result{
			Outcome: OutcomeCertificateExpired,
			Detail: fmt.Sprintf("best certificate %s expired %s; refusing to create listener",
				best.Thumbprint, best.NotAfter.Format("2006-01-02")),
		})
	}

	if err := r.provider.CreateHTTPSListener(ctx, r.identity.FQDN, best.Thumbprint); err != nil {
		return r.finish(Result{
			Outcome: OutcomeProvisioningFailed,
			Detail:  fmt.Sprintf("failed to create HTTPS listener with certificate %s: %v", best.Thumbprint, err),
		})
	}

	return r.finish(Result{
		Outcome:         OutcomeCreated,
		BoundThumbprint: best.Thumbprint,
		BoundNotAfter:   best.NotAfter,
		EligibleCount:   eligible,
		Detail: fmt.Sprintf("created HTTPS listener for %s bound to certificate %s (expires %s)",
			r.identity.FQDN, best.Thumbprint, best.NotAfter.Format("2006-01-02")),
	})
}

// finish emits the single maintenance-log record for the result.
func (r *Reconciler) finish(res Result) Result {
	severity := logging.Info
	if !res.Outcome.Success() {
		severity = logging.Error
	}

	if err := r.sink.Log(severity, res.Detail, component); err != nil {
		r.logger.Error("failed to write maintenance log record", zap.Error(err))
	}

	r.logger.Info("reconciliation finished",
		zap.String("outcome", res.Outcome.String()),
		zap.Int("exit_code", res.Outcome.ExitCode()),
		zap.String("detail", res.Detail),
	)

	return res
}
