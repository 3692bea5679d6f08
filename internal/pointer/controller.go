package pointer

import (
	"sync"

	"github.com/ZacxDev/video-region-editor/internal/constraint"
	"github.com/ZacxDev/video-region-editor/pkg/types"
)

// BoundsProvider reports the container's client rectangle. It is queried on every
// event so layout changes during a drag are picked up.
type BoundsProvider interface {
	Bounds() types.Rect
}

// BoundsFunc adapts a function to BoundsProvider.
type BoundsFunc func() types.Rect

func (f BoundsFunc) Bounds() types.Rect { return f() }

// Percent maps a client position into container-relative fractions.
// A zero-sized container maps everything to 0.
func Percent(p types.Point, r types.Rect) types.Point {
	var out types.Point
	if r.Width > 0 {
		out.X = (p.X - r.Left) / r.Width
	}
	if r.Height > 0 {
		out.Y = (p.Y - r.Top) / r.Height
	}
	return out
}

// Session is the state of one drag, from press to release.
type Session[T any] struct {
	Handle types.Handle
	// StartPosition is nil until a position has been recorded.
	StartPosition *types.Point
	Start         T
	Last          types.Point
	Moved         bool
}

// Options configures a Controller.
type Options[T any] struct {
	Bounds BoundsProvider
	// Snapshot captures the value being edited when a drag starts.
	Snapshot func() T
	// OnStart is called once a session is open.
	OnStart func(handle types.Handle)
	// OnDrag receives every move of an active drag.
	OnDrag func(handle types.Handle, in constraint.DragInput, start T)
	// OnEnd is called when the pointer is released.
	OnEnd func(handle types.Handle, moved bool, position types.Point)
	// WholeHandles grab the entire region and let events bubble. Defaults to HandleAll.
	WholeHandles []types.Handle
}

// Controller owns the drag session of one editor.
type Controller[T any] struct {
	opts  Options[T]
	whole map[types.Handle]bool

	mu      sync.Mutex
	session *Session[T]
}

// NewController creates a drag controller.
func NewController[T any](opts Options[T]) *Controller[T] {
	whole := opts.WholeHandles
	if whole == nil {
		whole = []types.Handle{types.HandleAll}
	}
	c := &Controller[T]{opts: opts, whole: make(map[types.Handle]bool, len(whole))}
	for _, h := range whole {
		c.whole[h] = true
	}
	return c
}

func (c *Controller[T]) percent(e *Event) types.Point {
	var r types.Rect
	if c.opts.Bounds != nil {
		r = c.opts.Bounds.Bounds()
	}
	return Percent(Position(e), r)
}

// OnDragStart opens a session on handle.
func (c *Controller[T]) OnDragStart(e *Event, handle types.Handle) {
	if !c.whole[handle] {
		// keep the parent move-everything listener from starting a second drag
		e.StopPropagation()
	}

	pos := c.percent(e)
	var start T
	if c.opts.Snapshot != nil {
		start = c.opts.Snapshot()
	}

	c.mu.Lock()
	c.session = &Session[T]{Handle: handle, StartPosition: &pos, Start: start, Last: pos}
	c.mu.Unlock()

	if c.opts.OnStart != nil {
		c.opts.OnStart(handle)
	}
}

// OnDragMove feeds a move into the active session. Without a session it does nothing.
func (c *Controller[T]) OnDragMove(e *Event) {
	pos := c.percent(e)

	c.mu.Lock()
	s := c.session
	if s == nil {
		c.mu.Unlock()
		return
	}
	if s.StartPosition == nil {
		p := pos
		s.StartPosition = &p
	}
	if pos != *s.StartPosition {
		s.Moved = true
	}
	s.Last = pos
	handle, in, start := s.Handle, s.input(), s.Start
	c.mu.Unlock()

	if c.opts.OnDrag != nil {
		c.opts.OnDrag(handle, in, start)
	}
}

// Redrag replays the last known pointer position. Used by frame loops that change
// how a position maps to a value without a new pointer event.
func (c *Controller[T]) Redrag() bool {
	c.mu.Lock()
	s := c.session
	if s == nil || s.StartPosition == nil {
		c.mu.Unlock()
		return false
	}
	handle, in, start := s.Handle, s.input(), s.Start
	c.mu.Unlock()

	if c.opts.OnDrag != nil {
		c.opts.OnDrag(handle, in, start)
	}
	return true
}

// OnDragEnd closes the session.
func (c *Controller[T]) OnDragEnd() {
	c.mu.Lock()
	s := c.session
	c.session = nil
	c.mu.Unlock()

	if s != nil && c.opts.OnEnd != nil {
		c.opts.OnEnd(s.Handle, s.Moved, s.Last)
	}
}

// Cancel drops the session without reporting an end.
func (c *Controller[T]) Cancel() {
	c.mu.Lock()
	c.session = nil
	c.mu.Unlock()
}

// Active returns the handle being dragged, or HandleNone.
func (c *Controller[T]) Active() types.Handle {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session == nil {
		return types.HandleNone
	}
	return c.session.Handle
}

// LastPosition returns the most recent pointer position of the active session.
func (c *Controller[T]) LastPosition() (types.Point, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session == nil {
		return types.Point{}, false
	}
	return c.session.Last, true
}

func (s *Session[T]) input() constraint.DragInput {
	return constraint.DragInput{
		Delta:    types.Point{X: s.Last.X - s.StartPosition.X, Y: s.Last.Y - s.StartPosition.Y},
		Position: s.Last,
	}
}

// Teardown releases everything acquired by Mount. Safe to call more than once.
type Teardown func()

// Mount subscribes press listeners on each handle target and move/release listeners on
// window. The returned teardown removes them all and abandons any drag in progress.
func (c *Controller[T]) Mount(window *Target, handles map[types.Handle]*Target) Teardown {
	var subs []Subscription

	for h, target := range handles {
		handle := h
		start := func(e *Event) { c.OnDragStart(e, handle) }
		subs = append(subs,
			target.On(MouseDown, start),
			target.On(TouchStart, start),
		)
	}

	move := func(e *Event) { c.OnDragMove(e) }
	end := func(*Event) { c.OnDragEnd() }
	subs = append(subs,
		window.On(MouseMove, move),
		window.On(TouchMove, move),
		window.On(MouseUp, end),
		window.On(TouchEnd, end),
	)

	var once sync.Once
	return func() {
		once.Do(func() {
			for _, s := range subs {
				s.Remove()
			}
			c.Cancel()
		})
	}
}
