// Package cmd provides CLI commands for winrm-certbind.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile string
	verbose bool
)

// exitCode is the process exit code the run command decided on. It stays 0
// unless the reconciliation pass or initialization says otherwise.
var exitCode int

// ExitCodeInitFailure covers configuration and logging-sink failures that
// abort before any reconciliation happens. The reconciliation outcomes own
// codes 0, 1, 3 and 4.
const ExitCodeInitFailure = 2

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "winrm-certbind",
	Short: "winrm-certbind - WinRM HTTPS listener certificate maintenance",
	Long: `winrm-certbind keeps the local WinRM HTTPS listener bound to the best
available TLS server certificate in the machine store.

One invocation performs one reconciliation pass: it leaves an optimal
listener alone, recreates it with a better certificate, creates a missing
listener, or reports a terminal failure through the exit code and one
maintenance-log record. Schedule it from a startup or logon task:
  winrm-certbind run -c C:\ProgramData\CertBind\certbind.yaml`,
	SilenceUsage: true,
}

// Execute runs the CLI and returns the process exit code.
func Execute() int {
	if err := rootCmd.Execute(); err != nil {
		if exitCode == 0 {
			exitCode = ExitCodeInitFailure
		}
	}
	return exitCode
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default: ./certbind.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")

	// Bind flags to viper
	//nolint:errcheck // error is ignored because the flag is guaranteed to exist
	viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag
		viper.SetConfigFile(cfgFile)
	} else {
		// Search for config in current directory
		viper.AddConfigPath(".")
		viper.AddConfigPath(`C:\ProgramData\CertBind`)
		viper.SetConfigType("yaml")
		viper.SetConfigName("certbind")
	}

	// Read environment variables with WCB_ prefix
	viper.SetEnvPrefix("WCB")
	viper.AutomaticEnv()

	// If a config file is found, read it in
	if err := viper.ReadInConfig(); err == nil {
		if verbose {
			fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
		}
	}
}
