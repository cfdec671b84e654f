//go:build !windows

package logging

import "fmt"

// EventLogSink is unavailable off Windows.
type EventLogSink struct{}

// NewEventLogSink always fails off Windows; the caller treats an
// unavailable sink as fatal before reconciliation starts.
func NewEventLogSink() (*EventLogSink, error) {
	return nil, fmt.Errorf("event log sink requires Windows")
}

// Log is unreachable off Windows.
func (s *EventLogSink) Log(severity Severity, message, component string) error {
	return fmt.Errorf("event log sink requires Windows")
}

// Close is a no-op.
func (s *EventLogSink) Close() error { return nil }
