package initcmd

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/certbind-io/winrm-certbind/internal/config"
)

// configDocument mirrors config.Config with yaml tags so the generated file
// matches the keys viper expects on load.
type configDocument struct {
	Log struct {
		Backend  string `yaml:"backend"`
		FilePath string `yaml:"file_path,omitempty"`
		Level    string `yaml:"level"`
	} `yaml:"log"`
	Host struct {
		ComputerName string `yaml:"computer_name,omitempty"`
		FQDN         string `yaml:"fqdn,omitempty"`
	} `yaml:"host,omitempty"`
	Listener struct {
		Port int `yaml:"port"`
	} `yaml:"listener"`
	Verify struct {
		Enabled bool   `yaml:"enabled"`
		Timeout string `yaml:"timeout"`
	} `yaml:"verify"`
	Metrics struct {
		TextfilePath string `yaml:"textfile_path,omitempty"`
	} `yaml:"metrics,omitempty"`
	State struct {
		Dir string `yaml:"dir,omitempty"`
	} `yaml:"state,omitempty"`
}

// WriteConfig serializes the configuration and writes it to path, creating
// the parent directory if needed.
func WriteConfig(cfg *config.Config, path string) error {
	var doc configDocument
	doc.Log.Backend = cfg.Log.Backend
	doc.Log.FilePath = cfg.Log.FilePath
	doc.Log.Level = cfg.Log.Level
	doc.Host.ComputerName = cfg.Host.ComputerName
	doc.Host.FQDN = cfg.Host.FQDN
	doc.Listener.Port = cfg.Listener.Port
	doc.Verify.Enabled = cfg.Verify.Enabled
	doc.Verify.Timeout = cfg.Verify.Timeout.String()
	doc.Metrics.TextfilePath = cfg.Metrics.TextfilePath
	doc.State.Dir = cfg.State.Dir

	data, err := yaml.Marshal(&doc)
	if err != nil {
		return fmt.Errorf("failed to serialize configuration: %w", err)
	}

	dir := filepath.Dir(path)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	return nil
}

// FileExists reports whether path exists and is a regular file.
func FileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.Mode().IsRegular()
}
