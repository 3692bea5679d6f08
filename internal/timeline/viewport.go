package timeline

import (
	"math"

	"github.com/ZacxDev/video-region-editor/internal/config"
	"github.com/ZacxDev/video-region-editor/internal/region"
	"github.com/ZacxDev/video-region-editor/pkg/types"
)

// Viewport is the visible window onto a longer timeline, in seconds.
type Viewport struct {
	Offset        float64
	Visible       float64
	AssetDuration float64
}

// NewViewport creates a viewport at offset zero. A visible width longer than the
// asset is shortened to the asset.
func NewViewport(visible, assetDuration float64) Viewport {
	assetDuration = math.Max(assetDuration, 0)
	if visible <= 0 || visible > assetDuration {
		visible = assetDuration
	}
	return Viewport{Visible: visible, AssetDuration: assetDuration}
}

// MaxOffset is the furthest the viewport can scroll.
func (v Viewport) MaxOffset() float64 {
	return math.Max(0, v.AssetDuration-v.Visible)
}

// ZoneWidth is the width of each auto-scroll zone.
func (v Viewport) ZoneWidth() float64 {
	return config.ScrollZoneRatio * v.Visible
}

// MaxShift caps how far the viewport moves in one frame.
func (v Viewport) MaxShift() float64 {
	return config.MaxShiftPerFrameRatio * v.ZoneWidth()
}

// End is the last visible second.
func (v Viewport) End() float64 {
	return v.Offset + v.Visible
}

// ScrollTo sets the offset, clamped into range.
func (v *Viewport) ScrollTo(offset float64) {
	v.Offset = region.Clamp(offset, 0, v.MaxOffset())
}

// Reveal scrolls the minimum amount needed to show t.
func (v *Viewport) Reveal(t float64) {
	switch {
	case t < v.Offset:
		v.ScrollTo(t)
	case t > v.End():
		v.ScrollTo(t - v.Visible)
	}
}

// ScrollController keeps the dragged handle on screen.
type ScrollController struct {
	Viewport Viewport
}

// NewScrollController wraps a viewport.
func NewScrollController(v Viewport) *ScrollController {
	return &ScrollController{Viewport: v}
}

// Step runs one animation frame for the active handle and reports whether the
// viewport moved. A start handle inside the left zone scrolls left, an end handle
// inside the right zone scrolls right; a zone drag does both.
func (s *ScrollController) Step(sel types.TrimInterval, handle types.Handle) bool {
	v := &s.Viewport
	zone := v.ZoneWidth()
	if zone <= 0 || v.MaxOffset() == 0 {
		return false
	}
	before := v.Offset

	if handle == types.HandleStart || handle == types.HandleZone {
		leftEdge := v.Offset + zone
		if sel.StartTime < leftEdge {
			shift := math.Min(leftEdge-sel.StartTime, v.MaxShift())
			v.ScrollTo(v.Offset - shift)
		}
	}
	if handle == types.HandleEnd || handle == types.HandleZone {
		rightEdge := v.End() - zone
		if sel.EndTime > rightEdge && v.Offset == before {
			shift := math.Min(sel.EndTime-rightEdge, v.MaxShift())
			v.ScrollTo(v.Offset + shift)
		}
	}

	return v.Offset != before
}
