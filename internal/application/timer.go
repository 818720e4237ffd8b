package application

import "time"

// ScopedTimer owns at most one pending callback. Resetting or stopping it
// guarantees the previous callback never runs, even when that callback was
// already queued on the loop when Stop was called.
type ScopedTimer struct {
	sched   Scheduler
	gen     uint64
	pending Timer
}

// NewScopedTimer creates a ScopedTimer on sched.
func NewScopedTimer(sched Scheduler) *ScopedTimer {
	return &ScopedTimer{sched: sched}
}

// Reset cancels any pending callback and schedules fn after d.
func (t *ScopedTimer) Reset(d time.Duration, fn func()) {
	t.Stop()

	gen := t.gen
	t.pending = t.sched.AfterFunc(d, func() {
		if gen != t.gen {
			return
		}
		t.pending = nil
		fn()
	})
}

// Stop cancels the pending callback, if any.
func (t *ScopedTimer) Stop() {
	t.gen++
	if t.pending != nil {
		t.pending.Stop()
		t.pending = nil
	}
}

// Pending reports whether a callback is scheduled.
func (t *ScopedTimer) Pending() bool {
	return t.pending != nil
}
