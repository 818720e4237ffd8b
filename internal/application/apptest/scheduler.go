// Package apptest provides a deterministic scheduler for driving the
// controllers step by step in tests.
package apptest

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/ericfisherdev/gencheck/internal/application"
)

// Compile-time interface satisfaction checks.
var (
	_ application.Scheduler = (*Scheduler)(nil)
	_ application.Executor  = (*Scheduler)(nil)
)

// Scheduler queues background work and timers until the test releases them.
// Everything runs on the calling goroutine. Do, Flush, Step and Advance
// serialize on a mutex so HTTP handlers and the test goroutine can share one
// Scheduler; Go and AfterFunc are only called from inside those entry points
// or from the test goroutine itself.
type Scheduler struct {
	mu     sync.Mutex
	now    time.Duration
	work   []func() func()
	timers []*timer
	seq    int
}

type timer struct {
	at      time.Duration
	seq     int
	fn      func()
	stopped bool
	fired   bool
}

func (t *timer) Stop() bool {
	if t.stopped || t.fired {
		return false
	}
	t.stopped = true
	return true
}

// New creates an empty Scheduler at time zero.
func New() *Scheduler {
	return &Scheduler{}
}

// Go queues work until Flush.
func (s *Scheduler) Go(work func() func()) {
	s.work = append(s.work, work)
}

// AfterFunc registers fn to run when the clock passes d from now.
func (s *Scheduler) AfterFunc(d time.Duration, fn func()) application.Timer {
	s.seq++
	t := &timer{at: s.now + d, seq: s.seq, fn: fn}
	s.timers = append(s.timers, t)
	return t
}

// Do runs fn immediately.
func (s *Scheduler) Do(_ context.Context, fn func()) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn()
	return nil
}

// Post runs fn immediately, like Do without a context.
func (s *Scheduler) Post(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn()
}

// InFlight returns the number of queued background work items.
func (s *Scheduler) InFlight() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.work)
}

// Flush runs every queued work item and its continuation, including work
// queued by those continuations.
func (s *Scheduler) Flush() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for len(s.work) > 0 {
		w := s.work[0]
		s.work = s.work[1:]
		if then := w(); then != nil {
			then()
		}
	}
}

// Step runs only the oldest queued work item and its continuation. It reports
// whether there was anything to run.
func (s *Scheduler) Step() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.work) == 0 {
		return false
	}
	w := s.work[0]
	s.work = s.work[1:]
	if then := w(); then != nil {
		then()
	}
	return true
}

// Advance moves the clock forward by d and fires due timers in deadline order.
func (s *Scheduler) Advance(d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	target := s.now + d
	for {
		due := s.nextDue(target)
		if due == nil {
			break
		}
		s.now = due.at
		due.fired = true
		due.fn()
	}
	s.now = target
}

// PendingTimers returns the number of timers that have neither fired nor
// been stopped.
func (s *Scheduler) PendingTimers() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, t := range s.timers {
		if !t.stopped && !t.fired {
			n++
		}
	}
	return n
}

func (s *Scheduler) nextDue(limit time.Duration) *timer {
	var live []*timer
	for _, t := range s.timers {
		if !t.stopped && !t.fired {
			live = append(live, t)
		}
	}
	s.timers = live

	sort.Slice(live, func(i, j int) bool {
		if live[i].at != live[j].at {
			return live[i].at < live[j].at
		}
		return live[i].seq < live[j].seq
	})
	if len(live) == 0 || live[0].at > limit {
		return nil
	}
	return live[0]
}
