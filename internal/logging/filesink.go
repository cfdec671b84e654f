package logging

import (
	"fmt"
	"os"
	"os/user"
	"path/filepath"
	"time"
)

// FileSink appends one single-line structured record per call to a local
// log file. The record layout is the fixed-field trace format Windows
// management tooling expects: message, time, date, component, execution
// context identity, severity code, and thread id.
type FileSink struct {
	file    *os.File
	context string
	now     func() time.Time
}

// NewFileSink opens (or creates) the log file for appending. The parent
// directory is created if missing. The execution-context identity is
// resolved once at open time.
func NewFileSink(path string) (*FileSink, error) {
	if path == "" {
		return nil, fmt.Errorf("log file path is required")
	}

	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create log directory: %w", err)
		}
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}

	return &FileSink{
		file:    f,
		context: currentIdentity(),
		now:     func() time.Time { return time.Now() },
	}, nil
}

// Log appends one record.
func (s *FileSink) Log(severity Severity, message, component string) error {
	ts := s.now()

	record := fmt.Sprintf(
		"<![LOG[%s]LOG]!><time=%q date=%q component=%q context=%q type=\"%d\" thread=\"%d\">\r\n",
		message,
		ts.Format("15:04:05.000-0700"),
		ts.Format("01-02-2006"),
		component,
		s.context,
		int(severity),
		currentThreadID(),
	)

	if _, err := s.file.WriteString(record); err != nil {
		return fmt.Errorf("failed to append log record: %w", err)
	}
	return nil
}

// Close closes the underlying file.
func (s *FileSink) Close() error {
	return s.file.Close()
}

// currentIdentity returns the account the process runs as, or "unknown"
// when the lookup fails (e.g. stripped-down service contexts).
func currentIdentity() string {
	u, err := user.Current()
	if err != nil || u.Username == "" {
		return "unknown"
	}
	return u.Username
}
