package cmd

import (
	"github.com/spf13/cobra"

	"github.com/certbind-io/winrm-certbind/internal/cmd/initcmd"
)

var (
	initOutputPath     string
	initNonInteractive bool
)

// initCmd represents the init command
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a new winrm-certbind configuration",
	Long: `Interactively create a new winrm-certbind configuration file.

The wizard will guide you through setting up:
  • Maintenance log backend (file or Windows event log)
  • Host identity overrides (computer name, FQDN)
  • Listener port and post-run verification probe
  • Optional metrics textfile and last-run state paths

Examples:
  # Interactive mode (default)
  winrm-certbind init

  # Specify output path
  winrm-certbind init -o C:\ProgramData\CertBind\certbind.yaml

  # Non-interactive mode (for imaging/scripting)
  WCB_LOG_BACKEND=eventlog winrm-certbind init --non-interactive

Environment variables for non-interactive mode:
  WCB_LOG_BACKEND    (optional) Maintenance log backend: file or eventlog (default: file)
  WCB_LOG_FILE_PATH  (optional) Log file path for the file backend
  WCB_LOG_LEVEL      (optional) Console log level (default: info)
  WCB_LISTENER_PORT  (optional) HTTPS listener port (default: 5986)
  WCB_VERIFY_ENABLED (optional) Enable the post-run TLS probe (default: false)
  WCB_METRICS_PATH   (optional) Prometheus textfile output path
  WCB_STATE_DIR      (optional) Last-run state directory`,
	RunE: runInit,
}

func init() {
	rootCmd.AddCommand(initCmd)

	initCmd.Flags().StringVarP(&initOutputPath, "output", "o", "./certbind.yaml",
		"Output path for the configuration file")
	initCmd.Flags().BoolVar(&initNonInteractive, "non-interactive", false,
		"Run in non-interactive mode using environment variables")
}

func runInit(_ *cobra.Command, _ []string) error {
	if initNonInteractive {
		return initcmd.RunNonInteractive(initOutputPath)
	}

	wizard := initcmd.NewWizard()
	wizard.SetOutputPath(initOutputPath)
	return wizard.Run()
}
