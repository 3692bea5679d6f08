// Package debounce provides a trailing-edge debouncer that can be cancelled or flushed.
package debounce

import (
	"sync"
	"time"

	"github.com/ZacxDev/video-region-editor/internal/clock"
)

// Debouncer delays delivery of the most recent value until no new value has arrived
// for the configured duration.
type Debouncer[T any] struct {
	mu       sync.Mutex
	clock    clock.Clock
	duration time.Duration
	emit     func(T)

	timer   clock.Timer
	value   T
	pending bool
	gen     uint64
}

// New creates a debouncer that hands the latest value to emit.
func New[T any](c clock.Clock, d time.Duration, emit func(T)) *Debouncer[T] {
	if c == nil {
		c = clock.Real{}
	}
	return &Debouncer[T]{clock: c, duration: d, emit: emit}
}

// Push replaces the pending value and restarts the quiet period.
func (d *Debouncer[T]) Push(v T) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
	}
	d.value = v
	d.pending = true
	d.gen++
	gen := d.gen
	d.timer = d.clock.AfterFunc(d.duration, func() { d.fire(gen) })
}

func (d *Debouncer[T]) fire(gen uint64) {
	d.mu.Lock()
	if !d.pending || gen != d.gen {
		// superseded by a later Push, Cancel or Flush
		d.mu.Unlock()
		return
	}
	v := d.take()
	d.mu.Unlock()

	d.emit(v)
}

// Cancel discards the pending value. Reports whether anything was pending.
func (d *Debouncer[T]) Cancel() bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.pending {
		return false
	}
	if d.timer != nil {
		d.timer.Stop()
	}
	d.take()
	return true
}

// Flush emits the pending value now instead of waiting. Reports whether anything was emitted.
func (d *Debouncer[T]) Flush() bool {
	d.mu.Lock()
	if !d.pending {
		d.mu.Unlock()
		return false
	}
	if d.timer != nil {
		d.timer.Stop()
	}
	v := d.take()
	d.mu.Unlock()

	d.emit(v)
	return true
}

// Pending reports whether a value is waiting to be emitted.
func (d *Debouncer[T]) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.pending
}

// take clears the pending slot. Caller holds mu.
func (d *Debouncer[T]) take() T {
	v := d.value
	var zero T
	d.value = zero
	d.pending = false
	d.timer = nil
	d.gen++
	return v
}
