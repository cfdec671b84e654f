// Package config handles configuration loading and validation for winrm-certbind.
package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"

	"github.com/certbind-io/winrm-certbind/internal/logging"
)

// Config represents the complete tool configuration
type Config struct {
	Log      LogConfig      `mapstructure:"log"`
	Host     HostConfig     `mapstructure:"host"`
	Listener ListenerConfig `mapstructure:"listener"`
	Verify   VerifyConfig   `mapstructure:"verify"`
	Metrics  MetricsConfig  `mapstructure:"metrics"`
	State    StateConfig    `mapstructure:"state"`
}

// LogConfig selects the maintenance-log backend and console verbosity
type LogConfig struct {
	Backend  string `mapstructure:"backend"`   // file | eventlog
	FilePath string `mapstructure:"file_path"` // required for the file backend
	Level    string `mapstructure:"level"`     // console diagnostics level
}

// HostConfig optionally overrides the ambient host identity. Empty values
// mean "resolve from the platform"; overrides exist for testing and for
// hosts with broken name resolution.
type HostConfig struct {
	ComputerName string `mapstructure:"computer_name"`
	FQDN         string `mapstructure:"fqdn"`
}

// ListenerConfig holds listener parameters used by the verification probe
type ListenerConfig struct {
	Port int `mapstructure:"port"`
}

// VerifyConfig controls the post-reconciliation TLS probe
// Fields are ordered for optimal memory alignment
type VerifyConfig struct {
	Timeout time.Duration `mapstructure:"timeout"`
	Enabled bool          `mapstructure:"enabled"`
}

// MetricsConfig controls the Prometheus textfile export
type MetricsConfig struct {
	TextfilePath string `mapstructure:"textfile_path"` // empty disables export
}

// StateConfig controls last-run state persistence
type StateConfig struct {
	Dir string `mapstructure:"dir"` // empty disables persistence
}

// Load reads configuration from viper
func Load(v *viper.Viper) (*Config, error) {
	setDefaults(v)

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return cfg, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	v.SetDefault("log.backend", logging.BackendFile)
	v.SetDefault("log.file_path", `C:\ProgramData\CertBind\certbind.log`)
	v.SetDefault("log.level", "info")

	v.SetDefault("listener.port", 5986)

	v.SetDefault("verify.enabled", false)
	v.SetDefault("verify.timeout", "10s")
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if err := c.validateLog(); err != nil {
		return fmt.Errorf("log: %w", err)
	}

	if err := c.validateListener(); err != nil {
		return fmt.Errorf("listener: %w", err)
	}

	if err := c.validateVerify(); err != nil {
		return fmt.Errorf("verify: %w", err)
	}

	return nil
}

func (c *Config) validateLog() error {
	switch c.Log.Backend {
	case logging.BackendFile:
		if c.Log.FilePath == "" {
			return fmt.Errorf("file_path is required for the file backend")
		}
	case logging.BackendEventLog:
		// No file path needed; source registration happens at open time.
	default:
		return fmt.Errorf("backend must be one of: %s, %s", logging.BackendFile, logging.BackendEventLog)
	}

	validLogLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true,
	}
	if !validLogLevels[c.Log.Level] {
		return fmt.Errorf("level must be one of: debug, info, warn, error")
	}

	return nil
}

func (c *Config) validateListener() error {
	if c.Listener.Port < 1 || c.Listener.Port > 65535 {
		return fmt.Errorf("port must be between 1 and 65535")
	}
	return nil
}

func (c *Config) validateVerify() error {
	if !c.Verify.Enabled {
		return nil
	}
	if c.Verify.Timeout < time.Second {
		return fmt.Errorf("timeout must be at least 1 second")
	}
	return nil
}
