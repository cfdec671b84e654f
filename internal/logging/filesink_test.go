package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func newTestSink(t *testing.T) (*FileSink, string) {
	t.Helper()

	path := filepath.Join(t.TempDir(), "certbind.log")
	sink, err := NewFileSink(path)
	if err != nil {
		t.Fatalf("NewFileSink() error = %v", err)
	}
	t.Cleanup(func() { sink.Close() })

	// Pin the clock so the record fields are predictable.
	sink.now = func() time.Time {
		return time.Date(2026, 3, 15, 9, 30, 0, 0, time.UTC)
	}
	return sink, path
}

func TestFileSink_RecordFields(t *testing.T) {
	sink, path := newTestSink(t)

	if err := sink.Log(Info, "listener already optimal", "Reconciler"); err != nil {
		t.Fatalf("Log() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	record := string(data)

	for _, want := range []string{
		"<![LOG[listener already optimal]LOG]!>",
		`time="09:30:00.000+0000"`,
		`date="03-15-2026"`,
		`component="Reconciler"`,
		`type="1"`,
		`thread="`,
		`context="`,
	} {
		if !strings.Contains(record, want) {
			t.Errorf("record missing %s\nrecord: %s", want, record)
		}
	}
}

func TestFileSink_SeverityCodes(t *testing.T) {
	sink, path := newTestSink(t)

	if err := sink.Log(Warning, "warn msg", "Reconciler"); err != nil {
		t.Fatalf("Log() error = %v", err)
	}
	if err := sink.Log(Error, "error msg", "Reconciler"); err != nil {
		t.Fatalf("Log() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}

	lines := strings.Split(strings.TrimRight(string(data), "\r\n"), "\r\n")
	if len(lines) != 2 {
		t.Fatalf("len(lines) = %v, want 2", len(lines))
	}
	if !strings.Contains(lines[0], `type="2"`) {
		t.Errorf("warning record missing type=\"2\": %s", lines[0])
	}
	if !strings.Contains(lines[1], `type="3"`) {
		t.Errorf("error record missing type=\"3\": %s", lines[1])
	}
}

func TestFileSink_OneLinePerRecord(t *testing.T) {
	sink, path := newTestSink(t)

	for i := 0; i < 3; i++ {
		if err := sink.Log(Info, "record", "Selector"); err != nil {
			t.Fatalf("Log() error = %v", err)
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}

	got := strings.Count(string(data), "\r\n")
	if got != 3 {
		t.Errorf("line terminator count = %v, want 3", got)
	}
}

func TestFileSink_CreatesParentDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "certbind.log")

	sink, err := NewFileSink(path)
	if err != nil {
		t.Fatalf("NewFileSink() error = %v", err)
	}
	defer sink.Close()

	if _, err := os.Stat(path); err != nil {
		t.Errorf("log file not created: %v", err)
	}
}

func TestFileSink_EmptyPathRejected(t *testing.T) {
	if _, err := NewFileSink(""); err == nil {
		t.Error("NewFileSink(\"\") error = nil, want error")
	}
}

func TestSeverity_String(t *testing.T) {
	tests := []struct {
		sev  Severity
		want string
	}{
		{Info, "info"},
		{Warning, "warning"},
		{Error, "error"},
	}
	for _, tt := range tests {
		if got := tt.sev.String(); got != tt.want {
			t.Errorf("Severity(%d).String() = %v, want %v", int(tt.sev), got, tt.want)
		}
	}
}
