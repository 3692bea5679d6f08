package terminal

import (
	"log"
	"sync/atomic"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/pkg/errors"

	"github.com/ZacxDev/video-region-editor/internal/clock"
	"github.com/ZacxDev/video-region-editor/internal/pointer"
	"github.com/ZacxDev/video-region-editor/pkg/types"
)

// Options configures a Session.
type Options struct {
	// OnReset is called when the user asks to drop the edit back to its default.
	OnReset func()
	// RedrawInterval paces redraws while the editor changes on its own, such as
	// during timeline auto-scroll. Zero disables them.
	RedrawInterval time.Duration
	Clock          clock.Clock
	Verbose        bool
}

// Session runs one view on a tcell screen.
type Session struct {
	screen tcell.Screen
	view   View
	window *pointer.Target
	opts   Options

	down  atomic.Bool
	lastX int
	lastY int
}

// NewScreen creates and initializes the terminal screen with mouse reporting.
func NewScreen() (tcell.Screen, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, errors.Wrap(err, "failed to create screen")
	}
	if err := screen.Init(); err != nil {
		return nil, errors.Wrap(err, "failed to initialize screen")
	}
	screen.EnableMouse(tcell.MouseButtonEvents | tcell.MouseDragEvents)
	return screen, nil
}

// New lays out view for screen and mounts it.
func New(screen tcell.Screen, view View, opts Options) *Session {
	if opts.Clock == nil {
		opts.Clock = clock.Real{}
	}
	s := &Session{
		screen: screen,
		view:   view,
		window: pointer.NewTarget("window", nil),
		opts:   opts,
	}
	w, h := screen.Size()
	view.Resize(w, h)
	view.Mount(s.window)
	return s
}

// Window returns the root event target.
func (s *Session) Window() *pointer.Target { return s.window }

// HandleEvent applies one terminal event and reports whether the session should end.
func (s *Session) HandleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventResize:
		w, h := ev.Size()
		s.view.Resize(w, h)
		s.screen.Sync()

	case *tcell.EventMouse:
		x, y := ev.Position()
		s.handleMouse(x, y, ev.Buttons()&tcell.Button1 != 0)

	case *tcell.EventKey:
		return s.handleKey(ev)

	case *tcell.EventInterrupt:
		if fn, ok := ev.Data().(func()); ok {
			fn()
		}
	}
	return false
}

// Post queues fn to run on the goroutine handling screen events. A full queue
// drops it.
func Post(screen tcell.Screen, fn func()) {
	if err := screen.PostEvent(tcell.NewEventInterrupt(fn)); err != nil {
		log.Printf("terminal: dropped posted event: %v", err)
	}
}

func (s *Session) handleMouse(x, y int, pressed bool) {
	moved := x != s.lastX || y != s.lastY
	s.lastX, s.lastY = x, y

	switch {
	case pressed && !s.down.Load():
		s.down.Store(true)
		handle := s.view.HitTest(x, y)
		if handle == types.HandleNone {
			return
		}
		if s.opts.Verbose {
			log.Printf("terminal: press on %s at %d,%d", handle, x, y)
		}
		if target := s.view.Target(handle); target != nil {
			target.Dispatch(cellEvent(pointer.MouseDown, x, y))
		}

	case pressed && s.down.Load():
		if moved {
			s.window.Dispatch(cellEvent(pointer.MouseMove, x, y))
		}

	case !pressed && s.down.Load():
		s.down.Store(false)
		if moved {
			s.window.Dispatch(cellEvent(pointer.MouseMove, x, y))
		}
		s.window.Dispatch(cellEvent(pointer.MouseUp, x, y))
	}
}

func cellEvent(kind pointer.EventKind, x, y int) *pointer.Event {
	return &pointer.Event{Kind: kind, ClientX: float64(x), ClientY: float64(y)}
}

func (s *Session) handleKey(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return true
	case tcell.KeyLeft:
		s.view.Nudge(-1, 0)
	case tcell.KeyRight:
		s.view.Nudge(1, 0)
	case tcell.KeyUp:
		s.view.Nudge(0, -1)
	case tcell.KeyDown:
		s.view.Nudge(0, 1)
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'q':
			return true
		case 'r':
			if s.opts.OnReset != nil {
				s.opts.OnReset()
			}
		}
	}
	return false
}

// Draw renders the view and the status line.
func (s *Session) Draw() {
	s.screen.Clear()
	s.view.Draw(s.screen)
	drawStatus(s.screen, s.view.Status()+"  arrows: nudge  r: reset  q: quit")
	s.screen.Show()
}

// Run processes events until the user quits or the screen closes.
func (s *Session) Run() {
	stop := make(chan struct{})
	defer close(stop)
	if s.opts.RedrawInterval > 0 {
		go s.redraw(stop)
	}

	s.Draw()
	for {
		ev := s.screen.PollEvent()
		if ev == nil || s.HandleEvent(ev) {
			return
		}
		s.Draw()
	}
}

func (s *Session) redraw(stop <-chan struct{}) {
	ticker := s.opts.Clock.NewTicker(s.opts.RedrawInterval)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C():
			if s.down.Load() {
				s.screen.PostEvent(tcell.NewEventInterrupt(nil))
			}
		}
	}
}

// Close unmounts the view, which flushes any pending edit to its owner.
func (s *Session) Close() {
	s.view.Unmount()
}
