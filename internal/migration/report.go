package migration

import "sync"

// Report describes the outcome of the startup migration. It is constructed
// once by Engine.Run and never mutated afterwards; the zero value means
// "not yet evaluated" and is the safe fallback when no run has happened.
type Report struct {
	LegacyPathDetected bool   `json:"legacy_path_detected"`
	MarkerPresent      bool   `json:"marker_present"`
	MigrationAttempted bool   `json:"migration_attempted"`
	MigrationCompleted bool   `json:"migration_completed"`
	MigrationError     string `json:"migration_error,omitempty"`
	LegacyDBPath       string `json:"legacy_db_path,omitempty"`
	NewDBPath          string `json:"new_db_path,omitempty"`
}

// Holder is a lock-guarded container for the process-wide Report. It is
// passed through the application rather than held in a package global so
// tests can construct independent instances.
type Holder struct {
	mu     sync.Mutex
	report Report
}

// NewHolder creates an empty Holder. Report reads before Set return the
// zero-value Report.
func NewHolder() *Holder {
	return &Holder{}
}

// Set stores the startup report. Called once, after Engine.Run.
func (h *Holder) Set(r Report) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.report = r
}

// Report returns a copy of the stored report. Safe for concurrent use; the
// lock is held only for the copy, never across I/O.
func (h *Holder) Report() Report {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.report
}
