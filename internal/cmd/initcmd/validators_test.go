package initcmd

import (
	"testing"
)

func TestValidateConfigPath(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		wantErr bool
	}{
		{"valid relative", "./certbind.yaml", false},
		{"valid current dir", "certbind.yaml", false},
		{"valid nonexistent dir", "./does-not-exist-yet/certbind.yaml", false},
		{"empty", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateConfigPath(tt.path)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateConfigPath(%q) error = %v, wantErr %v", tt.path, err, tt.wantErr)
			}
		})
	}
}

func TestValidateLogFilePath(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		wantErr bool
	}{
		{"valid windows path", `C:\ProgramData\CertBind\certbind.log`, false},
		{"valid relative", "certbind.log", false},
		{"empty", "", true},
		{"with newline", "cert\nbind.log", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateLogFilePath(tt.path)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateLogFilePath(%q) error = %v, wantErr %v", tt.path, err, tt.wantErr)
			}
		})
	}
}

func TestValidateComputerName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid simple", "HOST01", false},
		{"valid with hyphen", "WEB-SRV-01", false},
		{"empty (auto-detect)", "", false},
		{"too long", string(make([]byte, 64)), true},
		{"with space", "HOST 01", true},
		{"with backslash", `DOMAIN\HOST01`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateComputerName(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateComputerName(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateFQDN(t *testing.T) {
	tests := []struct {
		name    string
		fqdn    string
		wantErr bool
	}{
		{"valid", "host01.corp.example.com", false},
		{"valid uppercase", "HOST01.CORP.EXAMPLE.COM", false},
		{"valid with hyphen", "web-srv-01.example.com", false},
		{"empty (auto-detect)", "", false},
		{"with space", "host 01.example.com", true},
		{"with protocol", "https://host01.example.com", true},
		{"with invalid char", "host_01.example.com", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateFQDN(tt.fqdn)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateFQDN(%q) error = %v, wantErr %v", tt.fqdn, err, tt.wantErr)
			}
		})
	}
}

func TestValidatePort(t *testing.T) {
	tests := []struct {
		name    string
		portStr string
		wantErr bool
	}{
		{"valid 5986", "5986", false},
		{"valid 443", "443", false},
		{"valid 1", "1", false},
		{"valid 65535", "65535", false},
		{"empty (default)", "", false},
		{"zero", "0", true},
		{"negative", "-1", true},
		{"too high", "65536", true},
		{"not a number", "abc", true},
		{"float", "5986.5", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePort(tt.portStr)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePort(%q) error = %v, wantErr %v", tt.portStr, err, tt.wantErr)
			}
		})
	}
}

func TestValidateTimeout(t *testing.T) {
	tests := []struct {
		name       string
		timeoutStr string
		wantErr    bool
	}{
		{"valid seconds", "10s", false},
		{"valid minutes", "1m", false},
		{"empty (default)", "", false},
		{"below one second", "500ms", true},
		{"not a duration", "ten seconds", true},
		{"bare number", "10", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateTimeout(tt.timeoutStr)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateTimeout(%q) error = %v, wantErr %v", tt.timeoutStr, err, tt.wantErr)
			}
		})
	}
}

func TestValidateOptionalPath(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		wantErr bool
	}{
		{"valid", `C:\ProgramData\CertBind\certbind.prom`, false},
		{"empty (disabled)", "", false},
		{"with tab", "path\twith\ttabs", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateOptionalPath(tt.path)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateOptionalPath(%q) error = %v, wantErr %v", tt.path, err, tt.wantErr)
			}
		})
	}
}
