package metrics

import (
	"sync"
	"time"
)

// Progress tracks how many jobs of a batch have been processed.
//
// The total is set during discovery and frozen by Start; the monitor must not
// read it before then. Processed is advanced by the coordinator only and
// never exceeds the total. Done is closed once, when processed reaches total.
type Progress struct {
	mu        sync.RWMutex
	total     int
	processed int
	startedAt time.Time
	started   bool
	done      chan struct{}
	now       func() time.Time
}

// ProgressSnapshot is a consistent copy of the progress state.
type ProgressSnapshot struct {
	Total     int
	Processed int
	StartedAt time.Time
}

// NewProgress creates progress state using the wall clock.
func NewProgress() *Progress {
	return NewProgressWithClock(time.Now)
}

// NewProgressWithClock creates progress state that stamps its start time with now.
func NewProgressWithClock(now func() time.Time) *Progress {
	return &Progress{
		done: make(chan struct{}),
		now:  now,
	}
}

// SetTotal sets the number of jobs. It panics when called after Start.
func (p *Progress) SetTotal(n int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.started {
		panic("metrics: SetTotal called after Start")
	}
	if n < 0 {
		n = 0
	}
	p.total = n
}

// Start freezes the total and records the start time. A batch with no jobs
// is done immediately.
func (p *Progress) Start() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.started {
		return
	}
	p.started = true
	p.startedAt = p.now()
	if p.total == 0 {
		close(p.done)
	}
}

// Started reports whether Start has been called.
func (p *Progress) Started() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.started
}

// Advance records one processed job and returns the new processed count.
// It reports false, without changing anything, if the batch has not been
// started or is already complete.
func (p *Progress) Advance() (int, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.started || p.processed >= p.total {
		return p.processed, false
	}
	p.processed++
	if p.processed == p.total {
		close(p.done)
	}
	return p.processed, true
}

// Done is closed when every job has been processed.
func (p *Progress) Done() <-chan struct{} {
	return p.done
}

// Snapshot returns a thread-safe copy of the progress state.
func (p *Progress) Snapshot() ProgressSnapshot {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return ProgressSnapshot{
		Total:     p.total,
		Processed: p.processed,
		StartedAt: p.startedAt,
	}
}
