package editor

import (
	"log"
	"sync"
	"time"

	"github.com/ZacxDev/video-region-editor/internal/config"
	"github.com/ZacxDev/video-region-editor/internal/constraint"
	"github.com/ZacxDev/video-region-editor/internal/region"
	"github.com/ZacxDev/video-region-editor/internal/timeline"
	"github.com/ZacxDev/video-region-editor/pkg/types"
)

// TrimOptions configures a TrimScrubber.
type TrimOptions struct {
	Options[types.TrimInterval]

	AssetDuration         float64
	VisibleSeconds        float64
	FieldPlaybackDuration float64
	AudioExtension        bool
	PlaybackTime          float64
	// FrameInterval is the auto-scroll frame period; zero uses the default frame rate.
	FrameInterval time.Duration
	// OnSeek is called when a click without movement lands on the timeline.
	OnSeek func(seconds float64)
	// Schedule, when set, receives each auto-scroll frame instead of running it on
	// the frame loop goroutine. A front end with its own event loop posts the frame
	// there so drags and frames never run concurrently.
	Schedule func(frame func())
}

// TrimScrubber edits a trim interval on a scrollable timeline.
type TrimScrubber struct {
	*Editor[types.TrimInterval]

	mu         sync.Mutex
	params     constraint.TrimParams
	scroll     *timeline.ScrollController
	dragOffset float64
	onSeek     func(float64)
	loop       *timeline.Loop
	verbose    bool
}

// NewTrimScrubber creates a scrubber. The default selection starts at zero and spans
// the longest allowed clip.
func NewTrimScrubber(opts TrimOptions) *TrimScrubber {
	t := &TrimScrubber{
		params: constraint.TrimParams{
			AssetDuration:         opts.AssetDuration,
			VisibleSeconds:        opts.VisibleSeconds,
			FieldPlaybackDuration: opts.FieldPlaybackDuration,
			AudioExtension:        opts.AudioExtension,
			PlaybackTime:          opts.PlaybackTime,
		},
		onSeek:  opts.OnSeek,
		verbose: opts.Verbose,
	}
	t.scroll = timeline.NewScrollController(timeline.NewViewport(t.params.Visible(), opts.AssetDuration))

	shape := Shape[types.TrimInterval]{
		Name: "trim",
		Sanitize: func(v types.TrimInterval) types.TrimInterval {
			return region.SanitizeInterval(v, t.Params().Bounds())
		},
		Default: func() types.TrimInterval {
			return region.FullInterval(t.Params().Bounds())
		},
		Rules:        constraint.TrimRules(t.Params),
		WholeHandles: []types.Handle{types.HandleZone, types.HandleTrack},
	}
	t.Editor = New(shape, opts.Options)
	t.Editor.onStart = t.dragStarted
	t.Editor.onEnd = t.dragEnded

	interval := opts.FrameInterval
	if interval <= 0 {
		interval = config.DefaultEditorOptions().FrameInterval()
	}
	tick := func() { t.Frame() }
	if opts.Schedule != nil {
		schedule := opts.Schedule
		tick = func() { schedule(func() { t.Frame() }) }
	}
	t.loop = timeline.NewLoop(opts.Clock, interval, tick)

	sel := t.Value()
	t.mu.Lock()
	t.scroll.Viewport.Reveal(sel.StartTime)
	t.dragOffset = t.scroll.Viewport.Offset
	t.mu.Unlock()

	return t
}

// Params returns the live trim parameters, including the current scroll position.
func (t *TrimScrubber) Params() constraint.TrimParams {
	t.mu.Lock()
	defer t.mu.Unlock()
	p := t.params
	p.ViewportOffset = t.scroll.Viewport.Offset
	p.DragScroll = t.scroll.Viewport.Offset - t.dragOffset
	return p
}

// Viewport returns a copy of the visible timeline window.
func (t *TrimScrubber) Viewport() timeline.Viewport {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.scroll.Viewport
}

// SetPlaybackTime moves the playback indicator used as a snap target.
func (t *TrimScrubber) SetPlaybackTime(seconds float64) {
	t.mu.Lock()
	t.params.PlaybackTime = region.Clamp(seconds, 0, t.params.AssetDuration)
	t.mu.Unlock()
}

// PlaybackTime returns the playback indicator position.
func (t *TrimScrubber) PlaybackTime() float64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.params.PlaybackTime
}

// SetFieldPlaybackDuration changes the field duration that drives the maximum clip
// length and the default-duration snap target.
func (t *TrimScrubber) SetFieldPlaybackDuration(seconds float64) {
	t.mu.Lock()
	t.params.FieldPlaybackDuration = seconds
	t.mu.Unlock()
}

func (t *TrimScrubber) dragStarted(types.Handle) {
	t.mu.Lock()
	t.dragOffset = t.scroll.Viewport.Offset
	t.mu.Unlock()

	t.loop.Start()
}

func (t *TrimScrubber) dragEnded(handle types.Handle, moved bool, pos types.Point) {
	t.loop.Stop()

	t.mu.Lock()
	t.dragOffset = t.scroll.Viewport.Offset
	t.mu.Unlock()

	if moved || (handle != types.HandleZone && handle != types.HandleTrack) {
		return
	}

	p := t.Params()
	seek := region.Round4(p.TimeAt(pos.X))
	t.SetPlaybackTime(seek)
	if t.verbose {
		log.Printf("trim: seek to %.3fs", seek)
	}
	if t.onSeek != nil {
		t.onSeek(seek)
	}
}

// Frame runs one auto-scroll step. When the viewport moves, the held handle is
// re-applied at the unchanged pointer position so it follows the scroll.
func (t *TrimScrubber) Frame() bool {
	handle := t.drag.Active()
	if handle == types.HandleNone {
		return false
	}

	sel := t.Value()
	t.mu.Lock()
	moved := t.scroll.Step(sel, handle)
	t.mu.Unlock()

	if moved {
		t.drag.Redrag()
	}
	return moved
}

// Nudge shifts the whole selection by one keyboard step of the visible timeline
// and scrolls to keep its start in view.
func (t *TrimScrubber) Nudge(dir int) bool {
	p := t.Params()
	step := float64(dir) * config.NudgeStep * p.Visible()
	if !t.Propose(constraint.ShiftZone(p, t.Value(), step)) {
		return false
	}
	sel := t.Value()
	t.mu.Lock()
	t.scroll.Viewport.Reveal(sel.StartTime)
	t.dragOffset = t.scroll.Viewport.Offset
	t.mu.Unlock()
	return true
}

// Unmount stops the frame loop and then unmounts the editor.
func (t *TrimScrubber) Unmount() {
	t.loop.Stop()
	t.Editor.Unmount()
}
