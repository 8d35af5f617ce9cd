package state

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

const stateFileName = "backend.json"

// Run records the processes owned by one application run, so that a crashed
// host's backend can still be found and stopped.
type Run struct {
	HostPID     int       `json:"host_pid"`
	SpawnPID    int       `json:"spawn_pid"`
	ReportedPID int       `json:"reported_pid,omitempty"`
	Command     string    `json:"command"`
	AppRoot     string    `json:"app_root"`
	StartedAt   time.Time `json:"started_at"`
}

// Targets returns the distinct PIDs recorded for the run, spawn PID first.
func (r Run) Targets() []int {
	var pids []int
	if r.SpawnPID > 0 {
		pids = append(pids, r.SpawnPID)
	}
	if r.ReportedPID > 0 && r.ReportedPID != r.SpawnPID {
		pids = append(pids, r.ReportedPID)
	}
	return pids
}

// Store persists the current Run
type Store struct {
	mu   sync.Mutex
	path string
}

// Open returns a store rooted at dir, creating the directory if needed
func Open(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create state directory: %w", err)
	}
	return &Store{path: filepath.Join(dir, stateFileName)}, nil
}

// Path returns the state file location
func (s *Store) Path() string {
	return s.path
}

// Load returns the recorded run. ok is false when nothing is recorded.
func (s *Store) Load() (run Run, ok bool, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return Run{}, false, nil
	}
	if err != nil {
		return Run{}, false, fmt.Errorf("failed to read state file: %w", err)
	}

	if err := json.Unmarshal(data, &run); err != nil {
		return Run{}, false, fmt.Errorf("failed to parse state file: %w", err)
	}
	return run, true, nil
}

// Save persists run atomically
func (s *Store) Save(run Run) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.MarshalIndent(run, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal state: %w", err)
	}

	// Atomic write
	tempPath := s.path + ".tmp"
	if err := os.WriteFile(tempPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write temp state file: %w", err)
	}

	if err := os.Rename(tempPath, s.path); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to rename state file: %w", err)
	}

	return nil
}

// Update loads the recorded run, applies fn and saves the result. A missing
// record starts from the zero Run.
func (s *Store) Update(fn func(*Run)) error {
	run, _, err := s.Load()
	if err != nil {
		return err
	}
	fn(&run)
	return s.Save(run)
}

// Clear removes the recorded run
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove state file: %w", err)
	}
	return nil
}
