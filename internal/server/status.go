package server

import "sync"

// Progress is a point-in-time snapshot of an in-flight scheduler run,
// the fields /status reports.
type Progress struct {
	Round       int     `json:"round"`
	NSeamsTotal int     `json:"n_seams_total"`
	Cost        int     `json:"cost"`
	Done        bool    `json:"done"`
}

// Tracker is a mutex-guarded box a scheduler run publishes its
// progress into and the status handler reads from; it decouples the
// HTTP surface from soam/scheduler so the latter has no server
// dependency.
type Tracker struct {
	mu       sync.RWMutex
	progress Progress
}

func NewTracker() *Tracker { return &Tracker{} }

// Update replaces the current snapshot. Called by the runner driving
// the scheduler after every round.
func (t *Tracker) Update(p Progress) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.progress = p
}

// Snapshot returns the current progress.
func (t *Tracker) Snapshot() Progress {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.progress
}
