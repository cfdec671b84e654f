// Package state persists a small last-run record to disk. The record is
// informational only: operators and the next run's logs can see what the
// previous pass did, but the reconciliation decision never reads it.
package state

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// State holds the persisted last-run record.
type State struct {
	LastOutcome     string    `json:"last_outcome,omitempty"`
	LastExitCode    int       `json:"last_exit_code"`
	BoundThumbprint string    `json:"bound_thumbprint,omitempty"`
	LastRunAt       time.Time `json:"last_run_at,omitempty"`
	LastUpdated     time.Time `json:"last_updated"`
}

// Manager handles state persistence
type Manager struct {
	filePath string
	state    *State
	mu       sync.RWMutex
}

// stateFileName is the name of the state file inside the state directory
const stateFileName = "certbind-state.json"

// NewManager creates a state manager rooted at the given directory.
func NewManager(stateDir string) *Manager {
	return &Manager{
		filePath: filepath.Join(stateDir, stateFileName),
		state:    &State{},
	}
}

// Load reads state from disk
// Returns nil if file doesn't exist (first run)
// Returns error if file exists but cannot be read/parsed
func (m *Manager) Load() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	data, err := os.ReadFile(m.filePath)
	if err != nil {
		if os.IsNotExist(err) {
			// First run, no state file yet
			m.state = &State{}
			return nil
		}
		return fmt.Errorf("failed to read state file: %w", err)
	}

	state := &State{}
	if err := json.Unmarshal(data, state); err != nil {
		// State file corrupted, treat as first run but surface the problem
		m.state = &State{}
		return fmt.Errorf("failed to parse state file (treating as first run): %w", err)
	}

	m.state = state
	return nil
}

// Save writes state to disk with owner-only permissions.
func (m *Manager) Save() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.state.LastUpdated = time.Now().UTC()

	data, err := json.MarshalIndent(m.state, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal state: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(m.filePath), 0o755); err != nil {
		return fmt.Errorf("failed to create state directory: %w", err)
	}

	if err := os.WriteFile(m.filePath, data, 0o600); err != nil {
		return fmt.Errorf("failed to write state file: %w", err)
	}

	return nil
}

// RecordRun updates the last-run fields (call Save() to persist).
func (m *Manager) RecordRun(outcome string, exitCode int, boundThumbprint string, ranAt time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state.LastOutcome = outcome
	m.state.LastExitCode = exitCode
	m.state.BoundThumbprint = boundThumbprint
	m.state.LastRunAt = ranAt.UTC()
}

// LastOutcome returns the persisted outcome of the previous run.
func (m *Manager) LastOutcome() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state.LastOutcome
}

// BoundThumbprint returns the thumbprint the previous run left bound.
func (m *Manager) BoundThumbprint() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state.BoundThumbprint
}

// LastRunAt returns when the previous run finished.
func (m *Manager) LastRunAt() time.Time {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state.LastRunAt
}

// HasState returns true if there is persisted state (not first run)
func (m *Manager) HasState() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state.LastOutcome != ""
}

// FilePath returns the path to the state file
func (m *Manager) FilePath() string {
	return m.filePath
}
