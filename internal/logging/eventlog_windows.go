//go:build windows

package logging

import (
	"fmt"
	"strings"

	"golang.org/x/sys/windows/svc/eventlog"
)

// Fixed event source and identifier for Application-log records. Consumers
// key alerting off the source name, so both stay constant across versions.
const (
	eventSource = "WinRM-CertBind"
	eventID     = 3301
)

// EventLogSink writes records to the Windows Application event log.
type EventLogSink struct {
	log *eventlog.Log
}

// NewEventLogSink registers the event source if needed and opens it.
// Registration failing because the source already exists is not an error;
// anything else makes the sink unavailable, which is fatal to the run.
func NewEventLogSink() (*EventLogSink, error) {
	err := eventlog.InstallAsEventCreate(eventSource, eventlog.Info|eventlog.Warning|eventlog.Error)
	if err != nil && !strings.Contains(err.Error(), "already exists") {
		return nil, fmt.Errorf("failed to register event source %s: %w", eventSource, err)
	}

	log, err := eventlog.Open(eventSource)
	if err != nil {
		return nil, fmt.Errorf("failed to open event log: %w", err)
	}

	return &EventLogSink{log: log}, nil
}

// Log writes one entry under the fixed source and event id.
func (s *EventLogSink) Log(severity Severity, message, component string) error {
	msg := fmt.Sprintf("[%s] %s", component, message)

	var err error
	switch severity {
	case Warning:
		err = s.log.Warning(eventID, msg)
	case Error:
		err = s.log.Error(eventID, msg)
	default:
		err = s.log.Info(eventID, msg)
	}
	if err != nil {
		return fmt.Errorf("failed to write event log entry: %w", err)
	}
	return nil
}

// Close closes the event log handle.
func (s *EventLogSink) Close() error {
	return s.log.Close()
}
