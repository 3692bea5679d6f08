package region

import (
	"math"

	"golang.org/x/exp/constraints"

	"github.com/ZacxDev/video-region-editor/internal/config"
	"github.com/ZacxDev/video-region-editor/pkg/types"
)

// Clamp limits v to [lo, hi]. NaN collapses to lo. When lo > hi, lo wins.
func Clamp[T constraints.Float](v, lo, hi T) T {
	if v != v || v < lo {
		return lo
	}
	if v > hi {
		if hi < lo {
			return lo
		}
		return hi
	}
	return v
}

var scale = math.Pow10(config.Precision)

// Round4 rounds to the precision kept by every sanitized value.
func Round4(v float64) float64 {
	r := math.Round(v*scale) / scale
	if r == 0 {
		// drop negative zero so structural equality holds
		return 0
	}
	return r
}

// FullRegion covers the whole container.
func FullRegion() types.NormalizedRegion {
	return types.NormalizedRegion{X: 0, Y: 0, Width: 1, Height: 1}
}

// CenterPoint is the default focal point.
func CenterPoint() types.NormalizedPoint {
	return types.NormalizedPoint{X: 0.5, Y: 0.5}
}

// SanitizeRegion clamps each axis independently and rounds it.
// The result always satisfies x+width <= 1, y+height <= 1 and width, height >= MinSize.
func SanitizeRegion(r types.NormalizedRegion) types.NormalizedRegion {
	x, w := sanitizeAxis(r.X, r.Width)
	y, h := sanitizeAxis(r.Y, r.Height)
	return types.NormalizedRegion{X: x, Y: y, Width: w, Height: h}
}

func sanitizeAxis(pos, size float64) (float64, float64) {
	pos = Round4(Clamp(pos, 0, 1-config.MinSize))
	size = Round4(Clamp(size, config.MinSize, 1-pos))
	return pos, size
}

// SanitizePoint clamps both coordinates to [0,1] and rounds them.
func SanitizePoint(p types.NormalizedPoint) types.NormalizedPoint {
	return types.NormalizedPoint{
		X: Round4(Clamp(p.X, 0, 1)),
		Y: Round4(Clamp(p.Y, 0, 1)),
	}
}

// IntervalBounds carries the limits a trim interval is sanitized against.
type IntervalBounds struct {
	AssetDuration float64
	MinDuration   float64
	MaxDuration   float64
}

func (b IntervalBounds) normalized() IntervalBounds {
	if b.AssetDuration != b.AssetDuration || b.AssetDuration < 0 {
		b.AssetDuration = 0
	}
	if b.MaxDuration <= 0 || b.MaxDuration != b.MaxDuration || b.MaxDuration > b.AssetDuration {
		b.MaxDuration = b.AssetDuration
	}
	b.MinDuration = Clamp(b.MinDuration, 0, b.MaxDuration)
	return b
}

// FullInterval selects from zero up to the longest allowed clip.
func FullInterval(b IntervalBounds) types.TrimInterval {
	b = b.normalized()
	return types.TrimInterval{StartTime: 0, EndTime: Round4(b.MaxDuration)}
}

// SanitizeInterval clamps the interval into the asset and pushes its duration into
// [MinDuration, MaxDuration]. A short interval grows its end first, then its start;
// a long one loses time from the end.
func SanitizeInterval(t types.TrimInterval, b IntervalBounds) types.TrimInterval {
	b = b.normalized()

	start := Clamp(t.StartTime, 0, b.AssetDuration)
	end := Clamp(t.EndTime, start, b.AssetDuration)

	if end-start < b.MinDuration {
		end = math.Min(start+b.MinDuration, b.AssetDuration)
		if end-start < b.MinDuration {
			start = math.Max(0, end-b.MinDuration)
		}
	}
	if end-start > b.MaxDuration {
		end = start + b.MaxDuration
	}

	start = Round4(start)
	end = Round4(end)
	if end > Round4(b.AssetDuration) {
		end = Round4(b.AssetDuration)
	}
	return types.TrimInterval{StartTime: start, EndTime: end}
}
