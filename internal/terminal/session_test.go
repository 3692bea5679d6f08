package terminal

import (
	"strings"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ZacxDev/video-region-editor/internal/clock"
	"github.com/ZacxDev/video-region-editor/internal/editor"
	"github.com/ZacxDev/video-region-editor/pkg/types"
)

func newScreen(t *testing.T, w, h int) tcell.SimulationScreen {
	t.Helper()
	s := tcell.NewSimulationScreen("")
	require.NoError(t, s.Init(), "Failed to init simulation screen")
	s.SetSize(w, h)
	t.Cleanup(s.Fini)
	return s
}

func press(x, y int) *tcell.EventMouse { return tcell.NewEventMouse(x, y, tcell.Button1, tcell.ModNone) }
func release(x, y int) *tcell.EventMouse { return tcell.NewEventMouse(x, y, tcell.ButtonNone, tcell.ModNone) }

func key(k tcell.Key, r rune) *tcell.EventKey { return tcell.NewEventKey(k, r, tcell.ModNone) }

const delta = 1e-6

func row(s tcell.SimulationScreen, y int) string {
	cells, w, _ := s.GetContents()
	var b strings.Builder
	for x := 0; x < w; x++ {
		if r := cells[y*w+x].Runes; len(r) > 0 {
			b.WriteRune(r[0])
		}
	}
	return b.String()
}

func newCropSession(t *testing.T, changes *[]types.NormalizedRegion) (*Session, *editor.Cropper, tcell.SimulationScreen) {
	screen := newScreen(t, 42, 23)
	area := NewArea()
	crop := editor.NewCropper(editor.Options[types.NormalizedRegion]{
		OnChange: func(v types.NormalizedRegion) { *changes = append(*changes, v) },
		Bounds:   area,
		Clock:    clock.NewManual(time.Unix(0, 0)),
	})
	return New(screen, NewCropView(crop, area), Options{}), crop, screen
}

func TestCropHitTest(t *testing.T) {
	var changes []types.NormalizedRegion
	s, _, _ := newCropSession(t, &changes)
	defer s.Close()

	tests := []struct {
		x, y int
		want types.Handle
	}{
		{1, 1, types.HandleTopLeft},
		{40, 20, types.HandleBottomRight},
		{20, 1, types.HandleTop},
		{1, 10, types.HandleLeft},
		{20, 10, types.HandleAll},
		{0, 0, types.HandleNone},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, s.view.HitTest(tt.x, tt.y), "HitTest(%d,%d)", tt.x, tt.y)
	}
}

func TestCropMouseDrag(t *testing.T) {
	var changes []types.NormalizedRegion
	s, crop, _ := newCropSession(t, &changes)

	s.HandleEvent(press(40, 20))
	s.HandleEvent(press(20, 10))
	s.HandleEvent(release(20, 10))

	got := crop.Value()
	assert.Zero(t, got.X)
	assert.Zero(t, got.Y)
	assert.InDelta(t, 0.5, got.Width, delta, "Expected bottom-right drag to halve the region")
	assert.InDelta(t, 0.5, got.Height, delta, "Expected bottom-right drag to halve the region")

	s.HandleEvent(key(tcell.KeyRight, 0))
	assert.InDelta(t, 0.01, crop.Value().X, delta, "Expected nudge")

	s.Close()
	require.Len(t, changes, 1, "Expected close to flush the last edit")
	assert.InDelta(t, 0.01, changes[0].X, delta)
}

func TestPressOutsideIgnored(t *testing.T) {
	var changes []types.NormalizedRegion
	s, crop, _ := newCropSession(t, &changes)
	defer s.Close()

	crop.SetControlled(&types.NormalizedRegion{X: 0.5, Y: 0.5, Width: 0.2, Height: 0.2})
	s.HandleEvent(press(2, 2))
	s.HandleEvent(press(30, 15))
	s.HandleEvent(release(30, 15))

	assert.Equal(t, types.NormalizedRegion{X: 0.5, Y: 0.5, Width: 0.2, Height: 0.2}, crop.Value(), "Expected no change")
}

func TestCropDraw(t *testing.T) {
	var changes []types.NormalizedRegion
	s, _, screen := newCropSession(t, &changes)
	defer s.Close()

	s.Draw()

	assert.True(t, strings.HasPrefix(row(screen, 1), "│■"), "Expected a handle at the region corner, got %q", row(screen, 1))
	assert.Contains(t, row(screen, 22), "crop x=0.0000", "Expected crop status line")
}

func TestKeys(t *testing.T) {
	resets := 0
	screen := newScreen(t, 42, 23)
	area := NewArea()
	crop := editor.NewCropper(editor.Options[types.NormalizedRegion]{Bounds: area})
	s := New(screen, NewCropView(crop, area), Options{OnReset: func() { resets++ }})
	defer s.Close()

	assert.False(t, s.HandleEvent(key(tcell.KeyRune, 'r')), "Reset must not end the session")
	assert.Equal(t, 1, resets)
	assert.True(t, s.HandleEvent(key(tcell.KeyRune, 'q')), "Expected q to end the session")
	assert.True(t, s.HandleEvent(key(tcell.KeyEscape, 0)), "Expected escape to end the session")
}

func TestFocalPress(t *testing.T) {
	screen := newScreen(t, 42, 23)
	area := NewArea()
	focal := editor.NewFocalPointSelector(editor.Options[types.NormalizedPoint]{
		Bounds: area,
		Clock:  clock.NewManual(time.Unix(0, 0)),
	})
	s := New(screen, NewFocalView(focal, area), Options{})
	defer s.Close()

	s.HandleEvent(press(11, 6))
	s.HandleEvent(release(11, 6))

	assert.Equal(t, types.NormalizedPoint{X: 0.25, Y: 0.25}, focal.Value())

	s.Draw()
	assert.Contains(t, row(screen, 22), "focal x=0.2500", "Expected focal status line")
}

func newTrimSession(t *testing.T, changes *[]types.TrimInterval, seeks *[]float64) (*Session, *editor.TrimScrubber) {
	screen := newScreen(t, 42, 10)
	area := NewArea()
	trim := editor.NewTrimScrubber(editor.TrimOptions{
		Options: editor.Options[types.TrimInterval]{
			OnChange: func(v types.TrimInterval) { *changes = append(*changes, v) },
			Bounds:   area,
			Clock:    clock.NewManual(time.Unix(0, 0)),
		},
		AssetDuration:         100,
		VisibleSeconds:        20,
		FieldPlaybackDuration: 10,
		OnSeek:                func(s float64) { *seeks = append(*seeks, s) },
	})
	return New(screen, NewTrimView(trim, area), Options{}), trim
}

func TestTrimHitTest(t *testing.T) {
	var changes []types.TrimInterval
	var seeks []float64
	s, _ := newTrimSession(t, &changes, &seeks)
	defer s.Close()

	tests := []struct {
		x, y int
		want types.Handle
	}{
		{1, 5, types.HandleStart},
		{21, 5, types.HandleEnd},
		{11, 5, types.HandleZone},
		{31, 5, types.HandleTrack},
		{11, 4, types.HandleNone},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, s.view.HitTest(tt.x, tt.y), "HitTest(%d,%d)", tt.x, tt.y)
	}
}

func TestTrimMouse(t *testing.T) {
	var changes []types.TrimInterval
	var seeks []float64
	s, trim := newTrimSession(t, &changes, &seeks)

	s.HandleEvent(press(11, 5))
	s.HandleEvent(press(15, 5))
	s.HandleEvent(release(15, 5))

	assert.Equal(t, types.TrimInterval{StartTime: 2, EndTime: 12}, trim.Value(), "Expected zone drag")

	s.HandleEvent(press(31, 5))
	s.HandleEvent(release(31, 5))
	assert.Equal(t, []float64{15}, seeks)

	s.Close()
	assert.Equal(t, []types.TrimInterval{{StartTime: 2, EndTime: 12}}, changes, "Expected close to flush the zone drag")
}

func TestInterruptRunsPostedFunc(t *testing.T) {
	var changes []types.NormalizedRegion
	s, crop, screen := newCropSession(t, &changes)
	defer s.Close()

	crop.SetControlled(&types.NormalizedRegion{X: 0.5, Y: 0.5, Width: 0.2, Height: 0.2})
	Post(screen, func() { crop.Nudge(1, 0) })

	// skip any resize the screen queued on init
	var ev tcell.Event
	for ev = screen.PollEvent(); ev != nil; ev = screen.PollEvent() {
		if _, ok := ev.(*tcell.EventInterrupt); ok {
			break
		}
	}
	require.IsType(t, &tcell.EventInterrupt{}, ev)

	assert.False(t, s.HandleEvent(ev), "A posted func must not end the session")
	assert.InDelta(t, 0.51, crop.Value().X, delta, "Expected the posted func to run")

	assert.False(t, s.HandleEvent(tcell.NewEventInterrupt(nil)), "A bare redraw wakeup must be ignored")
}
