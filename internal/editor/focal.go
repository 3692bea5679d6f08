package editor

import (
	"github.com/ZacxDev/video-region-editor/internal/config"
	"github.com/ZacxDev/video-region-editor/internal/constraint"
	"github.com/ZacxDev/video-region-editor/internal/region"
	"github.com/ZacxDev/video-region-editor/pkg/types"
)

// FocalPointSelector edits a focal point. Pressing anywhere on the surface places
// the point; dragging keeps it under the pointer.
type FocalPointSelector struct {
	*Editor[types.NormalizedPoint]
}

// FocalPointShape returns the focal point shape.
func FocalPointShape() Shape[types.NormalizedPoint] {
	return Shape[types.NormalizedPoint]{
		Name:         "focal-point",
		Sanitize:     region.SanitizePoint,
		Default:      region.CenterPoint,
		Rules:        constraint.FocalPointRules(),
		WholeHandles: []types.Handle{types.HandlePoint, types.HandleAll},
	}
}

// NewFocalPointSelector creates a selector centered by default.
func NewFocalPointSelector(opts Options[types.NormalizedPoint]) *FocalPointSelector {
	f := &FocalPointSelector{Editor: New(FocalPointShape(), opts)}
	// a press places the point even before the pointer moves
	f.Editor.onStart = func(types.Handle) { f.Editor.drag.Redrag() }
	return f
}

// Nudge moves the point by one keyboard step in the given direction.
func (f *FocalPointSelector) Nudge(dirX, dirY int) bool {
	return f.Propose(constraint.Nudge(f.Value(), float64(dirX)*config.NudgeStep, float64(dirY)*config.NudgeStep))
}
