// Package initcmd provides the interactive init command wizard.
package initcmd

import (
	"fmt"
	"strconv"
	"time"

	"github.com/certbind-io/winrm-certbind/internal/config"
	"github.com/certbind-io/winrm-certbind/internal/logging"
)

// WizardState holds all collected input during the wizard.
type WizardState struct {
	// Output configuration
	ConfigPath    string
	OverwriteFile bool

	// Maintenance log configuration
	LogBackend  string
	LogFilePath string
	LogLevel    string

	// Host identity overrides (empty means resolve from the platform)
	ComputerName string
	FQDN         string

	// Listener and verification configuration
	ListenerPortStr string
	VerifyEnabled   bool
	VerifyTimeout   string

	// Optional output paths
	MetricsPath string
	StateDir    string
}

// NewWizardState creates a new WizardState with sensible defaults.
func NewWizardState() *WizardState {
	return &WizardState{
		ConfigPath:      "./certbind.yaml",
		LogBackend:      logging.BackendFile,
		LogFilePath:     `C:\ProgramData\CertBind\certbind.log`,
		LogLevel:        "info",
		ListenerPortStr: "5986",
		VerifyEnabled:   false,
		VerifyTimeout:   "10s",
	}
}

// ToConfig converts the wizard state to a config.Config struct.
func (s *WizardState) ToConfig() (*config.Config, error) {
	port := 5986
	if s.ListenerPortStr != "" {
		p, err := strconv.Atoi(s.ListenerPortStr)
		if err != nil {
			return nil, fmt.Errorf("invalid listener port: %w", err)
		}
		port = p
	}

	timeout, err := time.ParseDuration(s.VerifyTimeout)
	if err != nil {
		timeout = 10 * time.Second
	}

	filePath := s.LogFilePath
	if s.LogBackend != logging.BackendFile {
		filePath = ""
	}

	cfg := &config.Config{
		Log: config.LogConfig{
			Backend:  s.LogBackend,
			FilePath: filePath,
			Level:    s.LogLevel,
		},
		Host: config.HostConfig{
			ComputerName: s.ComputerName,
			FQDN:         s.FQDN,
		},
		Listener: config.ListenerConfig{
			Port: port,
		},
		Verify: config.VerifyConfig{
			Enabled: s.VerifyEnabled,
			Timeout: timeout,
		},
		Metrics: config.MetricsConfig{
			TextfilePath: s.MetricsPath,
		},
		State: config.StateConfig{
			Dir: s.StateDir,
		},
	}

	return cfg, nil
}
