// Package terminal is a tcell front end for the region editors. Mouse events
// become pointer events on hit-tested handle targets; arrow keys nudge.
package terminal

import (
	"math"
	"sync"

	"github.com/ZacxDev/video-region-editor/pkg/types"
)

// Area is the on-screen container of an editor, in cells. It satisfies
// pointer.BoundsProvider so drags are measured against the current layout.
type Area struct {
	mu   sync.Mutex
	rect types.Rect
}

// NewArea returns an empty area. Views size it on the first resize.
func NewArea() *Area { return &Area{} }

func (a *Area) Bounds() types.Rect {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.rect
}

func (a *Area) Set(r types.Rect) {
	a.mu.Lock()
	a.rect = r
	a.mu.Unlock()
}

// cells returns the integer cell bounds of the area.
func (a *Area) cells() (left, top, width, height int) {
	r := a.Bounds()
	return int(r.Left), int(r.Top), int(r.Width), int(r.Height)
}

// canvasRect is the editing surface for spatial editors: everything inside the
// border except the status line.
func canvasRect(width, height int) types.Rect {
	return types.Rect{
		Left:   1,
		Top:    1,
		Width:  float64(max(width-2, 0)),
		Height: float64(max(height-3, 0)),
	}
}

// trackRect is the single timeline row of the trim view.
func trackRect(width, height int) types.Rect {
	return types.Rect{
		Left:   1,
		Top:    float64(height / 2),
		Width:  float64(max(width-2, 0)),
		Height: 1,
	}
}

// cellSpan maps a normalized span onto length cells starting at start and
// returns the first and last covered cell.
func cellSpan(pos, size float64, start, length int) (int, int) {
	a := start + int(math.Round(pos*float64(length)))
	b := start + int(math.Round((pos+size)*float64(length))) - 1
	if b < a {
		b = a
	}
	return a, b
}
