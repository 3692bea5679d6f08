package constraint

import (
	"github.com/ZacxDev/video-region-editor/internal/region"
	"github.com/ZacxDev/video-region-editor/pkg/types"
)

// FocalPointRules places the point under the pointer, ignoring the drag start.
func FocalPointRules() Table[types.NormalizedPoint] {
	place := func(in DragInput, _ types.NormalizedPoint) types.NormalizedPoint {
		return region.SanitizePoint(types.NormalizedPoint{X: in.Position.X, Y: in.Position.Y})
	}
	return Table[types.NormalizedPoint]{
		types.HandlePoint: place,
		types.HandleAll:   place,
	}
}

// Nudge shifts a point by (dx, dy) and sanitizes the result.
func Nudge(p types.NormalizedPoint, dx, dy float64) types.NormalizedPoint {
	return region.SanitizePoint(types.NormalizedPoint{X: p.X + dx, Y: p.Y + dy})
}
