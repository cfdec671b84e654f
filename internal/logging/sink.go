// Package logging provides the maintenance-log collaborator: one structured
// record per run outcome, written either to a local file or to the Windows
// Application event log. Console diagnostics are separate and use zap.
package logging

import "fmt"

// Severity classifies a maintenance-log record.
type Severity int

// Severity levels, with the numeric codes the file record format uses.
const (
	Info    Severity = 1
	Warning Severity = 2
	Error   Severity = 3
)

// String returns the severity name.
func (s Severity) String() string {
	switch s {
	case Info:
		return "info"
	case Warning:
		return "warning"
	case Error:
		return "error"
	default:
		return fmt.Sprintf("severity(%d)", int(s))
	}
}

// Sink receives maintenance-log records. Implementations must be usable
// from a single goroutine; the tool writes one record per terminal outcome
// plus occasional progress records.
type Sink interface {
	// Log writes one record. component names the writing subsystem.
	Log(severity Severity, message, component string) error

	// Close releases the sink. Safe to call once after the run.
	Close() error
}

// Backend names for sink selection in configuration.
const (
	BackendFile     = "file"
	BackendEventLog = "eventlog"
)
