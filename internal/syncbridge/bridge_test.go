package syncbridge

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ZacxDev/video-region-editor/internal/clock"
	"github.com/ZacxDev/video-region-editor/internal/region"
	"github.com/ZacxDev/video-region-editor/pkg/types"
)

type recorder struct {
	mu     sync.Mutex
	values []types.NormalizedRegion
}

func (r *recorder) onChange(v types.NormalizedRegion) {
	r.mu.Lock()
	r.values = append(r.values, v)
	r.mu.Unlock()
}

var regionShape = Shape[types.NormalizedRegion]{
	Sanitize: region.SanitizeRegion,
	Default:  region.FullRegion,
}

var intShape = Shape[int]{
	Sanitize: func(v int) int { return v },
	Default:  func() int { return 0 },
}

func newRegionBridge(initial *types.NormalizedRegion) (*Bridge[types.NormalizedRegion], *clock.Manual, *recorder) {
	clk := clock.NewManual(time.Unix(0, 0))
	rec := &recorder{}
	b := New(Options[types.NormalizedRegion]{
		Shape:        regionShape,
		Initial:      initial,
		OnChange:     rec.onChange,
		DebounceTime: 100 * time.Millisecond,
		Clock:        clk,
		Name:         "crop",
	})
	return b, clk, rec
}

// heldClock keeps timer callbacks so a test can fire them on its own goroutine.
type heldClock struct {
	mu  sync.Mutex
	fns []func()
}

type heldTimer struct{}

func (heldTimer) Stop() bool { return true }

func (c *heldClock) Now() time.Time { return time.Unix(0, 0) }

func (c *heldClock) AfterFunc(_ time.Duration, fn func()) clock.Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.fns = append(c.fns, fn)
	return heldTimer{}
}

func (c *heldClock) NewTicker(d time.Duration) clock.Ticker {
	return clock.NewManual(time.Unix(0, 0)).NewTicker(d)
}

func (c *heldClock) last() func() {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.fns[len(c.fns)-1]
}

func TestBridgeDefaultsWhenNil(t *testing.T) {
	b, _, _ := newRegionBridge(nil)
	assert.Equal(t, region.FullRegion(), b.Value())
	assert.Equal(t, Idle, b.State())
}

func TestBridgeSanitizesInitial(t *testing.T) {
	b, _, _ := newRegionBridge(&types.NormalizedRegion{X: 0.5, Y: 0, Width: 2, Height: 1})
	assert.Equal(t, types.NormalizedRegion{X: 0.5, Y: 0, Width: 0.5, Height: 1}, b.Value())
}

func TestBridgeDebouncesTrailingValue(t *testing.T) {
	b, clk, rec := newRegionBridge(nil)

	v1 := types.NormalizedRegion{X: 0.1, Y: 0.1, Width: 0.5, Height: 0.5}
	v2 := types.NormalizedRegion{X: 0.2, Y: 0.1, Width: 0.5, Height: 0.5}
	v3 := types.NormalizedRegion{X: 0.3, Y: 0.1, Width: 0.5, Height: 0.5}

	for _, v := range []types.NormalizedRegion{v1, v2, v3} {
		b.Propose(v)
		clk.Advance(20 * time.Millisecond)
	}

	assert.Equal(t, v3, b.Value(), "Local value should update immediately")
	assert.Equal(t, LocalDirty, b.State())

	clk.Advance(100 * time.Millisecond)
	require.Equal(t, []types.NormalizedRegion{v3}, rec.values, "Expected exactly one onChange with v3")
	assert.Equal(t, Idle, b.State(), "Expected idle after emission")
}

func TestBridgeIgnoresUnchangedProposal(t *testing.T) {
	b, clk, rec := newRegionBridge(nil)

	assert.False(t, b.Propose(region.FullRegion()), "Proposing the current value should be a no-op")
	clk.Advance(time.Second)
	assert.Empty(t, rec.values)
}

func TestBridgeExternalOverrideCancelsPending(t *testing.T) {
	b, clk, rec := newRegionBridge(nil)

	b.Propose(types.NormalizedRegion{X: 0.4, Y: 0.4, Width: 0.2, Height: 0.2})
	clk.Advance(50 * time.Millisecond)

	reset := types.NormalizedRegion{X: 0.1, Y: 0.2, Width: 0.3, Height: 0.4}
	require.True(t, b.SetControlled(&reset), "SetControlled should apply a new owner value")
	assert.Equal(t, reset, b.Value(), "Expected local to reflect the owner value")

	clk.Advance(time.Second)
	assert.Empty(t, rec.values, "Cancelled edit must never reach onChange")
	assert.Equal(t, Idle, b.State())
}

func TestBridgeStaleControlledDoesNotClobberEdit(t *testing.T) {
	initial := types.NormalizedRegion{X: 0.1, Y: 0.1, Width: 0.5, Height: 0.5}
	b, clk, rec := newRegionBridge(&initial)

	edit := types.NormalizedRegion{X: 0.2, Y: 0.1, Width: 0.5, Height: 0.5}
	b.Propose(edit)

	// owner re-renders with the value it already had
	assert.False(t, b.SetControlled(&initial), "Re-sending the last synced value should be ignored")
	assert.Equal(t, edit, b.Value(), "Expected pending edit to survive")

	clk.Advance(100 * time.Millisecond)
	assert.Equal(t, []types.NormalizedRegion{edit}, rec.values)

	// echo of the emitted value is a no-op
	assert.False(t, b.SetControlled(&edit), "Echo of emitted value should be ignored")
}

func TestBridgeNilControlledResetsToDefault(t *testing.T) {
	initial := types.NormalizedRegion{X: 0.1, Y: 0.1, Width: 0.5, Height: 0.5}
	b, _, _ := newRegionBridge(&initial)

	require.True(t, b.SetControlled(nil), "Expected nil controlled value to reset to default")
	assert.Equal(t, region.FullRegion(), b.Value())
}

func TestBridgeFiredEmissionAfterOverrideIsDropped(t *testing.T) {
	var changes []int
	b := New(Options[int]{Shape: intShape, OnChange: func(v int) { changes = append(changes, v) }, Clock: &heldClock{}})

	b.Propose(1)
	// the timer has already taken this draft when the owner pushes its value
	fired := draft[int]{value: 1, epoch: b.epoch}

	seven := 7
	require.True(t, b.SetControlled(&seven))
	b.emit(fired)

	assert.Empty(t, changes, "A draft from before the override must not reach onChange")
	assert.Equal(t, 7, b.Value())
	assert.False(t, b.SetControlled(&seven), "Expected the owner value to stay last synced")
}

func TestBridgeOverrideRacingFiredTimer(t *testing.T) {
	for i := 0; i < 100; i++ {
		clk := &heldClock{}
		var mu sync.Mutex
		var changes []int
		b := New(Options[int]{
			Shape:    intShape,
			OnChange: func(v int) { mu.Lock(); changes = append(changes, v); mu.Unlock() },
			Clock:    clk,
		})
		b.Propose(1)

		// hold the emission after the timer took its value
		b.mu.Lock()
		fired := make(chan struct{})
		go func(fire func()) {
			fire()
			close(fired)
		}(clk.last())
		require.Eventually(t, func() bool { return !b.debouncer.Pending() }, time.Second, time.Millisecond)

		seven := 7
		applied := make(chan bool, 1)
		go func() { applied <- b.SetControlled(&seven) }()
		b.mu.Unlock()

		<-fired
		require.True(t, <-applied)

		assert.Equal(t, 7, b.Value(), "round %d", i)
		assert.False(t, b.SetControlled(&seven), "round %d: owner value overwritten by a stale emission", i)
		mu.Lock()
		assert.LessOrEqual(t, len(changes), 1, "round %d", i)
		mu.Unlock()
	}
}

func TestBridgeConcurrentProposalsFlushLatest(t *testing.T) {
	for round := 0; round < 50; round++ {
		clk := clock.NewManual(time.Unix(0, 0))
		var mu sync.Mutex
		var changes []int
		b := New(Options[int]{
			Shape:        intShape,
			OnChange:     func(v int) { mu.Lock(); changes = append(changes, v); mu.Unlock() },
			DebounceTime: time.Second,
			Clock:        clk,
		})

		var wg sync.WaitGroup
		for g := 1; g <= 4; g++ {
			wg.Add(1)
			go func(g int) {
				defer wg.Done()
				for i := 1; i <= 100; i++ {
					b.Propose(g*1000 + i)
				}
			}(g)
		}
		wg.Wait()
		b.Close()

		mu.Lock()
		require.Len(t, changes, 1, "round %d", round)
		assert.Equal(t, b.Value(), changes[0], "round %d: flushed value is not the latest draft", round)
		mu.Unlock()
	}
}

func TestBridgeResetDropsPendingEdit(t *testing.T) {
	b, clk, rec := newRegionBridge(nil)

	b.Propose(types.NormalizedRegion{X: 0.3, Y: 0.3, Width: 0.2, Height: 0.2})
	// the owner is already at the default, so a nil push is ignored
	assert.False(t, b.SetControlled(nil))

	assert.True(t, b.Reset(), "Reset should drop the edit")
	assert.Equal(t, region.FullRegion(), b.Value())
	assert.Equal(t, Idle, b.State())

	clk.Advance(time.Second)
	assert.Empty(t, rec.values, "Dropped edit must never reach onChange")
	assert.False(t, b.Reset(), "Second Reset has nothing to change")
}

func TestBridgeCloseFlushes(t *testing.T) {
	b, clk, rec := newRegionBridge(nil)

	last := types.NormalizedRegion{X: 0.25, Y: 0.25, Width: 0.5, Height: 0.5}
	b.Propose(types.NormalizedRegion{X: 0.2, Y: 0.2, Width: 0.5, Height: 0.5})
	b.Propose(last)
	b.Close()

	require.Equal(t, []types.NormalizedRegion{last}, rec.values, "Expected flush of latest value on close")

	b.Close()
	clk.Advance(time.Second)
	assert.Len(t, rec.values, 1, "Expected exactly one emission")
	assert.False(t, b.Propose(region.FullRegion()), "Closed bridge should reject proposals")
}
