// Package syncbridge reconciles a locally edited draft with a value owned elsewhere.
//
// Local edits are applied immediately and reported to the owner through a
// debounced callback. A new value pushed by the owner wins over any edit that
// has not been reported yet.
package syncbridge

import (
	"log"
	"sync"
	"time"

	"github.com/ZacxDev/video-region-editor/internal/clock"
	"github.com/ZacxDev/video-region-editor/internal/debounce"
)

// State of a bridge between two events.
type State int

const (
	// Idle: local matches the owner and nothing is pending.
	Idle State = iota
	// LocalDirty: local changed and an emission is waiting on the debounce timer.
	LocalDirty
	// ExternalOverride: an owner value is replacing local state. Only observable
	// from inside the override.
	ExternalOverride
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case LocalDirty:
		return "local-dirty"
	case ExternalOverride:
		return "external-override"
	}
	return "unknown"
}

// Shape tells the bridge how to normalize values of T.
type Shape[T comparable] struct {
	Sanitize func(T) T
	Default  func() T
}

// Options configures a bridge.
type Options[T comparable] struct {
	Shape   Shape[T]
	Initial *T
	// OnChange receives debounced local edits. It must not call back into the bridge.
	OnChange     func(T)
	DebounceTime time.Duration
	Clock        clock.Clock
	Verbose      bool
	Name         string
}

// draft is a proposed value tagged with the override epoch it was made in.
type draft[T comparable] struct {
	value T
	epoch uint64
}

// Bridge holds the draft value for one editor instance.
type Bridge[T comparable] struct {
	// emitting orders owner notifications against overrides
	emitting sync.Mutex

	mu         sync.Mutex
	shape      Shape[T]
	onChange   func(T)
	debouncer  *debounce.Debouncer[draft[T]]
	local      T
	lastSynced T
	epoch      uint64
	state      State
	closed     bool
	verbose    bool
	name       string
}

// New seeds a bridge from the initial value, or from the shape default when nil.
func New[T comparable](opts Options[T]) *Bridge[T] {
	b := &Bridge[T]{
		shape:    opts.Shape,
		onChange: opts.OnChange,
		verbose:  opts.Verbose,
		name:     opts.Name,
	}
	b.local = b.resolve(opts.Initial)
	b.lastSynced = b.local
	b.debouncer = debounce.New(opts.Clock, opts.DebounceTime, b.emit)
	return b
}

func (b *Bridge[T]) resolve(v *T) T {
	if v == nil {
		return b.shape.Sanitize(b.shape.Default())
	}
	return b.shape.Sanitize(*v)
}

// Value returns the current draft.
func (b *Bridge[T]) Value() T {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.local
}

// State returns the reconciliation state.
func (b *Bridge[T]) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

// Propose stores a locally computed value and schedules its emission.
// Reports whether the draft changed.
func (b *Bridge[T]) Propose(v T) bool {
	v = b.shape.Sanitize(v)

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed || v == b.local {
		return false
	}
	b.local = v
	b.state = LocalDirty
	// pushed under mu so the pending draft is always the newest local value
	b.debouncer.Push(draft[T]{value: v, epoch: b.epoch})
	return true
}

// SetControlled reconciles a value pushed by the owner. nil means the shape default.
// A value equal to the last synced one is ignored so an owner re-sending stale
// props does not undo a pending edit.
func (b *Bridge[T]) SetControlled(v *T) bool {
	next := b.resolve(v)

	b.emitting.Lock()
	defer b.emitting.Unlock()
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed || next == b.lastSynced {
		return false
	}

	b.state = ExternalOverride
	b.override(next)
	if b.verbose {
		log.Printf("%s: external value %v applied", b.name, next)
	}
	return true
}

// Reset drops any pending edit and returns to the shape default, for an owner that
// has just cleared its value. Unlike SetControlled it applies even when the owner
// was already at the default. Reports whether the draft changed.
func (b *Bridge[T]) Reset() bool {
	def := b.resolve(nil)

	b.emitting.Lock()
	defer b.emitting.Unlock()
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return false
	}
	changed := b.local != def
	b.override(def)
	if b.verbose {
		log.Printf("%s: reset to %v", b.name, def)
	}
	return changed
}

// override replaces local state with an owner value. Drafts proposed before it are
// stale from here on. Caller holds emitting and mu.
func (b *Bridge[T]) override(v T) {
	b.epoch++
	if b.debouncer.Cancel() && b.verbose {
		log.Printf("%s: dropped pending edit %v", b.name, b.local)
	}
	b.local = v
	b.lastSynced = v
	b.state = Idle
}

func (b *Bridge[T]) emit(d draft[T]) {
	b.emitting.Lock()
	defer b.emitting.Unlock()

	b.mu.Lock()
	if d.epoch != b.epoch {
		// fired before an override landed
		b.mu.Unlock()
		if b.verbose {
			log.Printf("%s: discarding stale edit %v", b.name, d.value)
		}
		return
	}
	b.lastSynced = d.value
	if !b.debouncer.Pending() {
		b.state = Idle
	}
	b.mu.Unlock()

	if b.verbose {
		log.Printf("%s: emitting %v", b.name, d.value)
	}
	if b.onChange != nil {
		b.onChange(d.value)
	}
}

// Close flushes any pending emission and stops accepting values. Safe to call repeatedly.
func (b *Bridge[T]) Close() {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return
	}
	b.closed = true
	b.mu.Unlock()

	b.debouncer.Flush()
}
