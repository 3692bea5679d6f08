// Package editor composes drag tracking, constraint rules and owner synchronization
// into the interactive region editors: the cropper, the focal point selector and the
// trim scrubber.
package editor

import (
	"log"
	"sync"
	"time"

	"golang.org/x/exp/slices"

	"github.com/ZacxDev/video-region-editor/internal/clock"
	"github.com/ZacxDev/video-region-editor/internal/config"
	"github.com/ZacxDev/video-region-editor/internal/constraint"
	"github.com/ZacxDev/video-region-editor/internal/pointer"
	"github.com/ZacxDev/video-region-editor/internal/syncbridge"
	"github.com/ZacxDev/video-region-editor/pkg/types"
)

// Shape describes one kind of editable value.
type Shape[T comparable] struct {
	Name     string
	Sanitize func(T) T
	Default  func() T
	Rules    constraint.Table[T]
	// WholeHandles move the entire value and do not stop event propagation.
	WholeHandles []types.Handle
}

// Options are the owner-facing inputs of an editor.
type Options[T comparable] struct {
	// Initial is the controlled value at mount time; nil selects the shape default.
	Initial  *T
	OnChange func(T)
	// DebounceTime overrides the default debounce window when positive.
	DebounceTime time.Duration
	Bounds       pointer.BoundsProvider
	Clock        clock.Clock
	Verbose      bool
}

// Editor is a generic constrained drag editor for values of T.
type Editor[T comparable] struct {
	shape   Shape[T]
	bridge  *syncbridge.Bridge[T]
	drag    *pointer.Controller[T]
	verbose bool

	onStart func(types.Handle)
	onEnd   func(types.Handle, bool, types.Point)

	mu       sync.Mutex
	teardown pointer.Teardown
	closed   bool
}

// New builds an editor for shape.
func New[T comparable](shape Shape[T], opts Options[T]) *Editor[T] {
	debounceTime := opts.DebounceTime
	if debounceTime <= 0 {
		debounceTime = config.DefaultDebounceTime
	}

	e := &Editor[T]{shape: shape, verbose: opts.Verbose}
	e.bridge = syncbridge.New(syncbridge.Options[T]{
		Shape:        syncbridge.Shape[T]{Sanitize: shape.Sanitize, Default: shape.Default},
		Initial:      opts.Initial,
		OnChange:     opts.OnChange,
		DebounceTime: debounceTime,
		Clock:        opts.Clock,
		Verbose:      opts.Verbose,
		Name:         shape.Name,
	})
	e.drag = pointer.NewController(pointer.Options[T]{
		Bounds:       opts.Bounds,
		Snapshot:     e.bridge.Value,
		OnStart:      e.handleStart,
		OnDrag:       e.handleDrag,
		OnEnd:        e.handleEnd,
		WholeHandles: shape.WholeHandles,
	})
	return e
}

func (e *Editor[T]) handleStart(handle types.Handle) {
	if e.verbose {
		log.Printf("%s: drag start on %s", e.shape.Name, handle)
	}
	if e.onStart != nil {
		e.onStart(handle)
	}
}

func (e *Editor[T]) handleDrag(handle types.Handle, in constraint.DragInput, start T) {
	next, ok := e.shape.Rules.Apply(handle, in, start)
	if !ok {
		return
	}
	e.bridge.Propose(next)
}

func (e *Editor[T]) handleEnd(handle types.Handle, moved bool, pos types.Point) {
	if e.verbose {
		log.Printf("%s: drag end on %s (moved=%v)", e.shape.Name, handle, moved)
	}
	if e.onEnd != nil {
		e.onEnd(handle, moved, pos)
	}
}

// Name returns the shape name.
func (e *Editor[T]) Name() string { return e.shape.Name }

// Value returns the current draft, which may be ahead of the owner.
func (e *Editor[T]) Value() T { return e.bridge.Value() }

// State returns the synchronization state.
func (e *Editor[T]) State() syncbridge.State { return e.bridge.State() }

// SetControlled pushes a new owner value. nil resets to the default.
func (e *Editor[T]) SetControlled(v *T) bool { return e.bridge.SetControlled(v) }

// Reset drops any pending edit and returns to the default, for an owner that has
// just cleared its value.
func (e *Editor[T]) Reset() bool { return e.bridge.Reset() }

// Propose applies a value computed outside a drag, such as a keyboard nudge.
func (e *Editor[T]) Propose(v T) bool { return e.bridge.Propose(v) }

// Drag exposes the pointer controller so a front end can feed events directly.
func (e *Editor[T]) Drag() *pointer.Controller[T] { return e.drag }

// Handles lists every handle the editor responds to, sorted.
func (e *Editor[T]) Handles() []types.Handle {
	handles := e.shape.Rules.Handles()
	for _, h := range e.shape.WholeHandles {
		if !slices.Contains(handles, h) {
			handles = append(handles, h)
		}
	}
	slices.Sort(handles)
	return handles
}

// Mount subscribes to pointer events. Mounting twice replaces the earlier subscriptions.
func (e *Editor[T]) Mount(window *pointer.Target, handles map[types.Handle]*pointer.Target) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return
	}
	if e.teardown != nil {
		e.teardown()
	}
	e.teardown = e.drag.Mount(window, handles)
}

// Unmount removes every listener, abandons any drag and flushes the pending change.
func (e *Editor[T]) Unmount() {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return
	}
	e.closed = true
	teardown := e.teardown
	e.teardown = nil
	e.mu.Unlock()

	if teardown != nil {
		teardown()
	}
	e.drag.Cancel()
	e.bridge.Close()
}
