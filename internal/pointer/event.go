// Package pointer turns mouse and touch events into drag sessions measured in
// percent units of a container.
package pointer

import (
	"sync"

	"github.com/ZacxDev/video-region-editor/pkg/types"
)

// EventKind identifies a pointer event.
type EventKind int

const (
	MouseDown EventKind = iota
	MouseMove
	MouseUp
	TouchStart
	TouchMove
	TouchEnd
)

func (k EventKind) String() string {
	switch k {
	case MouseDown:
		return "mousedown"
	case MouseMove:
		return "mousemove"
	case MouseUp:
		return "mouseup"
	case TouchStart:
		return "touchstart"
	case TouchMove:
		return "touchmove"
	case TouchEnd:
		return "touchend"
	}
	return "unknown"
}

// IsTouch reports whether the kind belongs to the touch family.
func (k EventKind) IsTouch() bool {
	return k == TouchStart || k == TouchMove || k == TouchEnd
}

// Event is a single mouse or touch event in client pixels.
type Event struct {
	Kind           EventKind
	ClientX        float64
	ClientY        float64
	Touches        []types.Point
	ChangedTouches []types.Point

	stopped bool
}

// StopPropagation keeps the event from reaching parent targets.
func (e *Event) StopPropagation() { e.stopped = true }

// Stopped reports whether propagation was stopped.
func (e *Event) Stopped() bool { return e.stopped }

// Position returns the client position of an event. Touch events read the first
// active touch, then the first changed touch, and fall back to the origin.
func Position(e *Event) types.Point {
	if !e.Kind.IsTouch() {
		return types.Point{X: e.ClientX, Y: e.ClientY}
	}
	if len(e.Touches) > 0 {
		return e.Touches[0]
	}
	if len(e.ChangedTouches) > 0 {
		return e.ChangedTouches[0]
	}
	return types.Point{}
}

// Listener handles an event dispatched to a target.
type Listener func(*Event)

type listenerEntry struct {
	id uint64
	fn Listener
}

// Target is an element events can be dispatched to. Events bubble to the parent
// unless a listener stops propagation.
type Target struct {
	Name   string
	parent *Target

	mu        sync.Mutex
	listeners map[EventKind][]listenerEntry
	nextID    uint64
}

// NewTarget creates a target nested under parent (nil for a root such as the window).
func NewTarget(name string, parent *Target) *Target {
	return &Target{Name: name, parent: parent, listeners: make(map[EventKind][]listenerEntry)}
}

// Parent returns the enclosing target.
func (t *Target) Parent() *Target { return t.parent }

// On registers fn for kind and returns the handle that removes it.
func (t *Target) On(kind EventKind, fn Listener) Subscription {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.nextID++
	id := t.nextID
	t.listeners[kind] = append(t.listeners[kind], listenerEntry{id: id, fn: fn})
	return Subscription{id: id, target: t, kind: kind}
}

// ListenerCount returns how many listeners are registered across all kinds.
func (t *Target) ListenerCount() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	n := 0
	for _, l := range t.listeners {
		n += len(l)
	}
	return n
}

// Dispatch delivers e to this target and then to its ancestors.
func (t *Target) Dispatch(e *Event) {
	for cur := t; cur != nil && !e.stopped; cur = cur.parent {
		cur.mu.Lock()
		entries := append([]listenerEntry(nil), cur.listeners[e.Kind]...)
		cur.mu.Unlock()

		for _, l := range entries {
			l.fn(e)
		}
	}
}

func (t *Target) remove(kind EventKind, id uint64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	s := t.listeners[kind]
	for i := range s {
		if s[i].id == id {
			copy(s[i:], s[i+1:])
			s[len(s)-1] = listenerEntry{}
			t.listeners[kind] = s[:len(s)-1]
			return
		}
	}
}

// Subscription removes a registered listener.
type Subscription struct {
	id     uint64
	target *Target
	kind   EventKind
}

// Remove unregisters the listener. Calling it again is a no-op.
func (s Subscription) Remove() {
	if s.target == nil {
		return
	}
	s.target.remove(s.kind, s.id)
}
