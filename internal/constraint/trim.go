package constraint

import (
	"math"

	"github.com/ZacxDev/video-region-editor/internal/config"
	"github.com/ZacxDev/video-region-editor/internal/region"
	"github.com/ZacxDev/video-region-editor/pkg/types"
)

// TrimParams is the live context the trim rules read on every drag event.
type TrimParams struct {
	AssetDuration         float64
	VisibleSeconds        float64
	FieldPlaybackDuration float64
	// AudioExtension allows clips longer than the field when audio can cover the gap.
	AudioExtension bool
	PlaybackTime   float64
	ViewportOffset float64
	// DragScroll is how far the viewport scrolled since the current drag started.
	DragScroll float64
}

// Visible returns the visible timeline length, defaulting to the whole asset.
func (p TrimParams) Visible() float64 {
	if p.VisibleSeconds <= 0 || p.VisibleSeconds > p.AssetDuration {
		return math.Max(p.AssetDuration, 0)
	}
	return p.VisibleSeconds
}

// MinClipDuration is the shortest selectable clip.
func (p TrimParams) MinClipDuration() float64 {
	return config.MinClipRatio * p.Visible()
}

// MaxClipDuration is the longest selectable clip. Without a field duration the asset bounds it.
func (p TrimParams) MaxClipDuration() float64 {
	if p.FieldPlaybackDuration <= 0 {
		return math.Max(p.AssetDuration, 0)
	}
	if p.AudioExtension {
		return p.FieldPlaybackDuration * config.AudioExtensionFactor
	}
	return p.FieldPlaybackDuration
}

// SnapThreshold is how close a handle must get to a snap target to land on it.
func (p TrimParams) SnapThreshold() float64 {
	return config.SnapThresholdRatio * p.Visible()
}

// Bounds converts the params into sanitize bounds.
func (p TrimParams) Bounds() region.IntervalBounds {
	return region.IntervalBounds{
		AssetDuration: p.AssetDuration,
		MinDuration:   p.MinClipDuration(),
		MaxDuration:   p.MaxClipDuration(),
	}
}

// TimeAt converts a horizontal percent position on the visible timeline into seconds.
func (p TrimParams) TimeAt(percentX float64) float64 {
	return p.ViewportOffset + region.Clamp(percentX, 0, 1)*p.Visible()
}

// TrimRules returns the trim table. params is read on every call so playback time
// and scrolling are always current.
func TrimRules(params func() TrimParams) Table[types.TrimInterval] {
	return Table[types.TrimInterval]{
		types.HandleStart: func(in DragInput, s types.TrimInterval) types.TrimInterval {
			p := params()
			return MoveStart(p, s, p.TimeAt(in.Position.X))
		},
		types.HandleEnd: func(in DragInput, s types.TrimInterval) types.TrimInterval {
			p := params()
			return MoveEnd(p, s, p.TimeAt(in.Position.X))
		},
		types.HandleZone: func(in DragInput, s types.TrimInterval) types.TrimInterval {
			p := params()
			return ShiftZone(p, s, in.Delta.X*p.Visible()+p.DragScroll)
		},
	}
}

// MoveStart places the start handle at t, keeping the end fixed.
func MoveStart(p TrimParams, s types.TrimInterval, t float64) types.TrimInterval {
	lo := math.Max(0, s.EndTime-p.MaxClipDuration())
	hi := s.EndTime - p.MinClipDuration()

	t = region.Clamp(t, lo, hi)
	t = snap(t, p.defaultTarget(s.EndTime, -1), p.PlaybackTime, p.SnapThreshold())
	t = region.Clamp(t, lo, hi)

	return region.SanitizeInterval(types.TrimInterval{StartTime: t, EndTime: s.EndTime}, p.Bounds())
}

// MoveEnd places the end handle at t, keeping the start fixed.
func MoveEnd(p TrimParams, s types.TrimInterval, t float64) types.TrimInterval {
	lo := s.StartTime + p.MinClipDuration()
	hi := math.Min(p.AssetDuration, s.StartTime+p.MaxClipDuration())

	t = region.Clamp(t, lo, hi)
	t = snap(t, p.defaultTarget(s.StartTime, 1), p.PlaybackTime, p.SnapThreshold())
	t = region.Clamp(t, lo, hi)

	return region.SanitizeInterval(types.TrimInterval{StartTime: s.StartTime, EndTime: t}, p.Bounds())
}

// ShiftZone moves the whole selection by shift seconds without changing its length.
func ShiftZone(p TrimParams, s types.TrimInterval, shift float64) types.TrimInterval {
	shift = region.Clamp(shift, -s.StartTime, p.AssetDuration-s.EndTime)
	return region.SanitizeInterval(types.TrimInterval{
		StartTime: s.StartTime + shift,
		EndTime:   s.EndTime + shift,
	}, p.Bounds())
}

// defaultTarget is the handle time that makes the clip exactly the field duration,
// measured from the pinned handle in direction dir. NaN when the field has no duration.
func (p TrimParams) defaultTarget(pinned, dir float64) float64 {
	if p.FieldPlaybackDuration <= 0 {
		return math.NaN()
	}
	return pinned + dir*p.FieldPlaybackDuration
}

// snap lands t on the default-duration target, else on the playback indicator.
// The default-duration target wins when both are in range.
func snap(t, defaultTarget, playback, threshold float64) float64 {
	if threshold <= 0 {
		return t
	}
	if math.Abs(t-defaultTarget) < threshold {
		return defaultTarget
	}
	if math.Abs(t-playback) < threshold {
		return playback
	}
	return t
}
