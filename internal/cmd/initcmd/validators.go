package initcmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// ValidateConfigPath validates the output file path.
func ValidateConfigPath(path string) error {
	if path == "" {
		return fmt.Errorf("config path is required")
	}

	// Check if directory exists or can be created
	dir := filepath.Dir(path)
	if dir != "." && dir != "" {
		info, err := os.Stat(dir)
		if err != nil {
			if os.IsNotExist(err) {
				// Directory doesn't exist, check if we can create it
				return nil // We'll create it during write
			}
			return fmt.Errorf("cannot access directory: %w", err)
		}
		if !info.IsDir() {
			return fmt.Errorf("'%s' is not a directory", dir)
		}
	}

	return nil
}

// ValidateLogFilePath validates the maintenance log file path.
func ValidateLogFilePath(path string) error {
	if path == "" {
		return fmt.Errorf("log file path is required for the file backend")
	}

	if strings.ContainsAny(path, "\n\r\t") {
		return fmt.Errorf("path cannot contain newlines or tabs")
	}

	return nil
}

// ValidateComputerName validates an optional computer name override.
func ValidateComputerName(name string) error {
	if name == "" {
		return nil // Will resolve from the platform
	}

	if len(name) > 63 {
		return fmt.Errorf("computer name must be at most 63 characters")
	}

	if strings.ContainsAny(name, " \\/:*?\"<>|") {
		return fmt.Errorf("computer name contains invalid characters")
	}

	return nil
}

// ValidateFQDN validates an optional fully qualified domain name override.
func ValidateFQDN(fqdn string) error {
	if fqdn == "" {
		return nil // Will resolve from the platform
	}

	if strings.Contains(fqdn, " ") {
		return fmt.Errorf("FQDN cannot contain spaces")
	}

	if strings.Contains(fqdn, "://") {
		return fmt.Errorf("FQDN should not include a protocol (use 'host.example.com')")
	}

	fqdn = strings.ToLower(fqdn)
	for _, c := range fqdn {
		if !((c >= 'a' && c <= 'z') || (c >= '0' && c <= '9') || c == '.' || c == '-') {
			return fmt.Errorf("FQDN contains invalid character: '%c'", c)
		}
	}

	return nil
}

// ValidatePort validates a port number string.
func ValidatePort(portStr string) error {
	if portStr == "" {
		return nil // Will use default 5986
	}

	port, err := strconv.Atoi(portStr)
	if err != nil {
		return fmt.Errorf("port must be a number")
	}

	if port < 1 || port > 65535 {
		return fmt.Errorf("port must be between 1 and 65535")
	}

	return nil
}

// ValidateTimeout validates a duration string such as "10s".
func ValidateTimeout(timeoutStr string) error {
	if timeoutStr == "" {
		return nil // Will use default
	}

	d, err := time.ParseDuration(timeoutStr)
	if err != nil {
		return fmt.Errorf("timeout must be a duration such as '10s'")
	}

	if d < time.Second {
		return fmt.Errorf("timeout must be at least 1 second")
	}

	return nil
}

// ValidateOptionalPath validates an optional file or directory path.
func ValidateOptionalPath(path string) error {
	if path == "" {
		return nil // Feature disabled
	}

	if strings.ContainsAny(path, "\n\r\t") {
		return fmt.Errorf("path cannot contain newlines or tabs")
	}

	return nil
}
