package editor

import (
	"github.com/ZacxDev/video-region-editor/internal/config"
	"github.com/ZacxDev/video-region-editor/internal/constraint"
	"github.com/ZacxDev/video-region-editor/internal/region"
	"github.com/ZacxDev/video-region-editor/pkg/types"
)

// Cropper edits a crop rectangle.
type Cropper struct {
	*Editor[types.NormalizedRegion]
}

// CropShape returns the crop shape. A nil defaultRegion uses the full container.
func CropShape(defaultRegion func() types.NormalizedRegion) Shape[types.NormalizedRegion] {
	if defaultRegion == nil {
		defaultRegion = region.FullRegion
	}
	return Shape[types.NormalizedRegion]{
		Name:         "crop",
		Sanitize:     region.SanitizeRegion,
		Default:      defaultRegion,
		Rules:        constraint.CropRules(),
		WholeHandles: []types.Handle{types.HandleAll},
	}
}

// NewCropper creates a cropper whose default is the full container.
func NewCropper(opts Options[types.NormalizedRegion]) *Cropper {
	return &Cropper{Editor: New(CropShape(nil), opts)}
}

// NewAspectCropper creates a cropper whose default is the largest centered region of
// aspectW:aspectH inside a sourceW x sourceH frame.
func NewAspectCropper(aspectW, aspectH, sourceW, sourceH float64, opts Options[types.NormalizedRegion]) *Cropper {
	def := func() types.NormalizedRegion {
		return constraint.CenteredRegion(aspectW, aspectH, sourceW, sourceH)
	}
	return &Cropper{Editor: New(CropShape(def), opts)}
}

// Move translates the crop by (dx, dy) as if the whole region were dragged.
func (c *Cropper) Move(dx, dy float64) bool {
	next, _ := c.Editor.shape.Rules.Apply(types.HandleAll, constraint.DragInput{
		Delta: types.Point{X: dx, Y: dy},
	}, c.Value())
	return c.Propose(next)
}

// Resize moves the bottom-right corner by (dw, dh).
func (c *Cropper) Resize(dw, dh float64) bool {
	next, _ := c.Editor.shape.Rules.Apply(types.HandleBottomRight, constraint.DragInput{
		Delta: types.Point{X: dw, Y: dh},
	}, c.Value())
	return c.Propose(next)
}

// Nudge moves by one keyboard step in the given direction.
func (c *Cropper) Nudge(dirX, dirY int) bool {
	return c.Move(float64(dirX)*config.NudgeStep, float64(dirY)*config.NudgeStep)
}
