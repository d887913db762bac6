package watch

import (
	"sync"
	"time"
)

// maxHistory bounds the number of retained run records
const maxHistory = 100

// RunRecord describes one completed or failed run
type RunRecord struct {
	StartedAt    time.Time
	FinishedAt   time.Time
	Success      bool
	Websites     int
	PagesChecked int
	Inaccessible int
	ErrorMessage string
}

// Duration returns how long the run took
func (r RunRecord) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}

// RunHistory keeps recent run records in memory for the lifetime of the process
type RunHistory struct {
	runs []RunRecord
	mu   sync.RWMutex
}

// NewRunHistory creates an empty history
func NewRunHistory() *RunHistory {
	return &RunHistory{runs: make([]RunRecord, 0)}
}

// Record appends rec, dropping the oldest record beyond maxHistory
func (h *RunHistory) Record(rec RunRecord) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.runs = append(h.runs, rec)
	if len(h.runs) > maxHistory {
		h.runs = h.runs[len(h.runs)-maxHistory:]
	}
}

// Last returns the most recent record
func (h *RunHistory) Last() (RunRecord, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if len(h.runs) == 0 {
		return RunRecord{}, false
	}
	return h.runs[len(h.runs)-1], true
}

// Len returns the number of retained records
func (h *RunHistory) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.runs)
}

// NextRunTime returns when the next run is due
func (h *RunHistory) NextRunTime(interval time.Duration) time.Time {
	last, ok := h.Last()
	if !ok {
		return time.Now()
	}
	return last.StartedAt.Add(interval)
}

// Runs returns a copy of the retained records, oldest first
func (h *RunHistory) Runs() []RunRecord {
	h.mu.RLock()
	defer h.mu.RUnlock()

	result := make([]RunRecord, len(h.runs))
	copy(result, h.runs)
	return result
}
