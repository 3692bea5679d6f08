package constraint

import (
	"github.com/ZacxDev/video-region-editor/internal/config"
	"github.com/ZacxDev/video-region-editor/internal/region"
	"github.com/ZacxDev/video-region-editor/pkg/types"
)

type edge int

const (
	edgeNone edge = iota
	edgeMin       // left or top: opposite edge pinned
	edgeMax       // right or bottom: origin pinned
)

// CropRules returns the rule table for the crop rectangle.
func CropRules() Table[types.NormalizedRegion] {
	return Table[types.NormalizedRegion]{
		types.HandleTopLeft:     edgeRule(edgeMin, edgeMin),
		types.HandleTop:         edgeRule(edgeNone, edgeMin),
		types.HandleTopRight:    edgeRule(edgeMax, edgeMin),
		types.HandleRight:       edgeRule(edgeMax, edgeNone),
		types.HandleBottomRight: edgeRule(edgeMax, edgeMax),
		types.HandleBottom:      edgeRule(edgeNone, edgeMax),
		types.HandleBottomLeft:  edgeRule(edgeMin, edgeMax),
		types.HandleLeft:        edgeRule(edgeMin, edgeNone),
		types.HandleAll:         translateRule,
	}
}

func translateRule(in DragInput, s types.NormalizedRegion) types.NormalizedRegion {
	return region.SanitizeRegion(types.NormalizedRegion{
		X:      region.Clamp(s.X+in.Delta.X, 0, 1-s.Width),
		Y:      region.Clamp(s.Y+in.Delta.Y, 0, 1-s.Height),
		Width:  s.Width,
		Height: s.Height,
	})
}

func edgeRule(horizontal, vertical edge) Rule[types.NormalizedRegion] {
	return func(in DragInput, s types.NormalizedRegion) types.NormalizedRegion {
		x, w := resizeAxis(horizontal, s.X, s.Width, in.Delta.X)
		y, h := resizeAxis(vertical, s.Y, s.Height, in.Delta.Y)
		return region.SanitizeRegion(types.NormalizedRegion{X: x, Y: y, Width: w, Height: h})
	}
}

// resizeAxis moves one edge of the [pos, pos+size] segment by d.
func resizeAxis(e edge, pos, size, d float64) (float64, float64) {
	switch e {
	case edgeMin:
		far := pos + size
		pos = region.Clamp(pos+d, 0, far-config.MinSize)
		return pos, far - pos
	case edgeMax:
		return pos, region.Clamp(size+d, config.MinSize, 1-pos)
	}
	return pos, size
}

// CenteredRegion returns the largest region of the given pixel aspect ratio that fits a
// container of containerW x containerH, centered.
func CenteredRegion(aspectW, aspectH, containerW, containerH float64) types.NormalizedRegion {
	if aspectW <= 0 || aspectH <= 0 || containerW <= 0 || containerH <= 0 {
		return region.FullRegion()
	}

	target := aspectW / aspectH
	source := containerW / containerH

	w, h := 1.0, 1.0
	if source > target {
		// container wider than target: trim the sides
		w = target / source
	} else {
		h = source / target
	}

	return region.SanitizeRegion(types.NormalizedRegion{
		X:      (1 - w) / 2,
		Y:      (1 - h) / 2,
		Width:  w,
		Height: h,
	})
}
