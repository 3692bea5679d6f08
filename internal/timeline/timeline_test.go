package timeline

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/ZacxDev/video-region-editor/internal/clock"
	"github.com/ZacxDev/video-region-editor/pkg/types"
)

const delta = 1e-9

func TestViewportBounds(t *testing.T) {
	assert := assert.New(t)

	v := NewViewport(20, 100)
	assert.Equal(80.0, v.MaxOffset())

	v.ScrollTo(-5)
	assert.Zero(v.Offset, "Expected offset clamped to 0")
	v.ScrollTo(500)
	assert.Equal(80.0, v.Offset, "Expected offset clamped to the maximum")

	v = NewViewport(50, 10)
	assert.Equal(10.0, v.Visible, "Expected visible shortened to the asset")
	assert.Zero(v.MaxOffset())
}

func TestViewportReveal(t *testing.T) {
	v := NewViewport(20, 100)

	v.Reveal(50)
	assert.Equal(t, 30.0, v.Offset, "Expected t=50 at the right edge")
	v.Reveal(10)
	assert.Equal(t, 10.0, v.Offset)
	v.Reveal(15)
	assert.Equal(t, 10.0, v.Offset, "Visible time should not scroll")
}

func TestScrollLeftZone(t *testing.T) {
	v := NewViewport(20, 100)
	v.ScrollTo(40)
	s := NewScrollController(v)

	// zone is 1s wide, max shift 0.65s; start sits 0.5s into the zone
	assert.True(t, s.Step(types.TrimInterval{StartTime: 40.5, EndTime: 50}, types.HandleStart))
	assert.InDelta(t, 39.5, s.Viewport.Offset, delta)

	// deep intrusion is capped per frame
	s.Step(types.TrimInterval{StartTime: 30, EndTime: 50}, types.HandleStart)
	assert.InDelta(t, 39.5-0.65, s.Viewport.Offset, delta, "Expected shift capped at 0.65")
}

func TestScrollRightZone(t *testing.T) {
	s := NewScrollController(NewViewport(20, 100))

	assert.True(t, s.Step(types.TrimInterval{StartTime: 5, EndTime: 19.8}, types.HandleEnd))
	assert.InDelta(t, 0.65, s.Viewport.Offset, delta, "Expected capped shift")

	// the start handle never pushes the viewport right
	before := s.Viewport.Offset
	s.Step(types.TrimInterval{StartTime: 5, EndTime: 20.6}, types.HandleStart)
	assert.Equal(t, before, s.Viewport.Offset, "Start handle should not scroll right")
}

func TestScrollClampsAtEnds(t *testing.T) {
	s := NewScrollController(NewViewport(20, 100))

	assert.False(t, s.Step(types.TrimInterval{StartTime: 0, EndTime: 10}, types.HandleStart),
		"Viewport at zero cannot scroll further left")

	s.Viewport.ScrollTo(80)
	assert.False(t, s.Step(types.TrimInterval{StartTime: 90, EndTime: 100}, types.HandleEnd),
		"Viewport at max offset cannot scroll further right")
}

func TestScrollNeverMovesWhenAssetFits(t *testing.T) {
	s := NewScrollController(NewViewport(30, 30))
	for i := 0; i < 10; i++ {
		if s.Step(types.TrimInterval{StartTime: 0, EndTime: 30}, types.HandleZone) {
			t.Fatal("Viewport covering the whole asset must not scroll")
		}
	}
	assert.Zero(t, s.Viewport.Offset)
}

func TestLoopTicksUntilStopped(t *testing.T) {
	var ticks int32
	got := make(chan struct{}, 16)
	l := NewLoop(nil, time.Millisecond, func() {
		atomic.AddInt32(&ticks, 1)
		select {
		case got <- struct{}{}:
		default:
		}
	})

	l.Start()
	l.Start()
	select {
	case <-got:
	case <-time.After(time.Second):
		t.Fatal("Timed out waiting for a frame")
	}

	l.Stop()
	l.Stop()
	assert.False(t, l.Running(), "Loop should not be running after Stop")

	after := atomic.LoadInt32(&ticks)
	time.Sleep(10 * time.Millisecond)
	assert.Equal(t, after, atomic.LoadInt32(&ticks), "Loop ticked after Stop returned")
}

func TestLoopWithManualClock(t *testing.T) {
	clk := clock.NewManual(time.Unix(0, 0))
	ticked := make(chan struct{}, 1)
	l := NewLoop(clk, 16*time.Millisecond, func() { ticked <- struct{}{} })

	l.Start()
	defer l.Stop()

	clk.Advance(16 * time.Millisecond)
	select {
	case <-ticked:
	case <-time.After(time.Second):
		t.Fatal("Expected a tick after advancing one frame")
	}
}
