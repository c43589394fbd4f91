// Package debounce coalesces bursts of calls into a single dispatch after a
// quiet period.
package debounce

import (
	"sync"
	"time"
)

// Handle is a scheduled dispatch that can be stopped before it fires.
type Handle interface {
	Stop() bool
}

// Scheduler schedules a function to run after a delay. The system
// implementation runs on real timers; tests substitute a simulated clock.
type Scheduler interface {
	Schedule(d time.Duration, fn func()) Handle
}

type systemScheduler struct{}

func (systemScheduler) Schedule(d time.Duration, fn func()) Handle {
	return time.AfterFunc(d, fn)
}

// SystemScheduler returns a Scheduler backed by time.AfterFunc.
func SystemScheduler() Scheduler {
	return systemScheduler{}
}

// Debouncer delays a dispatch until no new call has arrived for the full
// quiet period. Only the most recent call's function fires. It performs no
// I/O itself.
type Debouncer struct {
	mu      sync.Mutex
	quiet   time.Duration
	sched   Scheduler
	pending Handle
}

// New creates a Debouncer on the system clock.
func New(quiet time.Duration) *Debouncer {
	return NewWithScheduler(quiet, SystemScheduler())
}

// NewWithScheduler creates a Debouncer on the given scheduler.
func NewWithScheduler(quiet time.Duration, sched Scheduler) *Debouncer {
	return &Debouncer{quiet: quiet, sched: sched}
}

// Do schedules fn to run after the quiet period, replacing any pending
// dispatch that has not fired yet.
func (d *Debouncer) Do(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.pending != nil {
		d.pending.Stop()
	}
	d.pending = d.sched.Schedule(d.quiet, fn)
}

// Cancel stops a pending dispatch so it never fires. Safe to call when
// nothing is pending.
func (d *Debouncer) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.pending != nil {
		d.pending.Stop()
		d.pending = nil
	}
}
