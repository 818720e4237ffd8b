// Package application contains the client controllers and the single-threaded
// event loop that drives them.
package application

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// Timer is a pending callback created by Scheduler.AfterFunc.
type Timer interface {
	// Stop prevents the callback from being scheduled. It reports whether the
	// timer was still pending.
	Stop() bool
}

// Scheduler is the execution model the controllers run on. Controller state is
// only touched from tasks the scheduler runs on its loop; work passed to Go runs
// elsewhere and hands its continuation back to the loop.
type Scheduler interface {
	// Go runs work off the loop and then runs the returned continuation on
	// the loop. A nil continuation is skipped.
	Go(work func() func())

	// AfterFunc runs fn on the loop once d has elapsed.
	AfterFunc(d time.Duration, fn func()) Timer
}

// Executor runs fn on the loop and waits for it to finish. Driving adapters
// use it to read view state or deliver user actions from their own goroutines.
type Executor interface {
	Do(ctx context.Context, fn func()) error
}

// Compile-time interface satisfaction checks.
var (
	_ Scheduler = (*EventLoop)(nil)
	_ Executor  = (*EventLoop)(nil)
)

// EventLoop is a cooperative single-threaded task queue. Tasks run one at a
// time in submission order on the goroutine that called Run. After each batch
// of tasks the registered observers are notified.
type EventLoop struct {
	mu        sync.Mutex
	queue     []func()
	observers []func()
	wake      chan struct{}
	logger    *slog.Logger
}

// NewEventLoop creates an idle EventLoop. Call Run to start processing.
func NewEventLoop(logger *slog.Logger) *EventLoop {
	return &EventLoop{
		wake:   make(chan struct{}, 1),
		logger: logger,
	}
}

// Observe registers fn to run on the loop after every batch of tasks.
func (l *EventLoop) Observe(fn func()) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.observers = append(l.observers, fn)
}

// Post enqueues fn. It never blocks, so tasks may post further tasks.
func (l *EventLoop) Post(fn func()) {
	l.mu.Lock()
	l.queue = append(l.queue, fn)
	l.mu.Unlock()

	select {
	case l.wake <- struct{}{}:
	default:
	}
}

// Go runs work on a new goroutine and posts its continuation.
func (l *EventLoop) Go(work func() func()) {
	go func() {
		then := work()
		if then != nil {
			l.Post(then)
		}
	}()
}

// AfterFunc posts fn once d has elapsed.
func (l *EventLoop) AfterFunc(d time.Duration, fn func()) Timer {
	return time.AfterFunc(d, func() { l.Post(fn) })
}

// Do posts fn and blocks until it has run or ctx is done.
func (l *EventLoop) Do(ctx context.Context, fn func()) error {
	done := make(chan struct{})
	l.Post(func() {
		defer close(done)
		fn()
	})

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("waiting for event loop: %w", ctx.Err())
	}
}

// Run processes tasks until ctx is canceled. Pending tasks are dropped on exit.
func (l *EventLoop) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			l.logger.Info("event loop stopped")
			return
		case <-l.wake:
		}

		for {
			fn, ok := l.next()
			if !ok {
				break
			}
			l.runTask(fn)
		}

		l.mu.Lock()
		observers := append([]func(){}, l.observers...)
		l.mu.Unlock()
		for _, o := range observers {
			l.runTask(o)
		}
	}
}

func (l *EventLoop) next() (func(), bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.queue) == 0 {
		return nil, false
	}
	fn := l.queue[0]
	l.queue[0] = nil
	l.queue = l.queue[1:]
	return fn, true
}

// runTask runs fn and recovers from panics so one faulty task cannot stop
// the loop.
func (l *EventLoop) runTask(fn func()) {
	defer func() {
		if v := recover(); v != nil {
			l.logger.Error("panic recovered in event loop task", "panic", v)
		}
	}()
	fn()
}
