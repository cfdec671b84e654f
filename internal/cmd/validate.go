package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/certbind-io/winrm-certbind/internal/config"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the configuration file",
	Long: `Validate the configuration file without touching the listener.

Example:
  winrm-certbind validate -c C:\ProgramData\CertBind\certbind.yaml`,
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	// Load configuration
	cfg, err := config.Load(viper.GetViper())
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}

	fmt.Println("Configuration is valid!")
	fmt.Printf("  Log backend:   %s\n", cfg.Log.Backend)
	if cfg.Log.Backend == "file" {
		fmt.Printf("  Log file:      %s\n", cfg.Log.FilePath)
	}
	fmt.Printf("  Listener port: %d\n", cfg.Listener.Port)
	fmt.Printf("  Verify probe:  %t\n", cfg.Verify.Enabled)
	if cfg.Metrics.TextfilePath != "" {
		fmt.Printf("  Metrics file:  %s\n", cfg.Metrics.TextfilePath)
	}

	return nil
}
