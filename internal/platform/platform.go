// Package platform holds the publishing presets an edit can target. A preset
// seeds the default crop with its frame aspect and caps the trim length.
package platform

import (
	"fmt"
	"math"
	"sync"

	"golang.org/x/exp/slices"

	"github.com/ZacxDev/video-region-editor/internal/constraint"
	"github.com/ZacxDev/video-region-editor/pkg/types"
)

// Preset describes the output limits of one platform.
type Preset struct {
	Name string
	// Width and Height are the maximum frame; their ratio is the target aspect.
	Width  int
	Height int
	// MaxDuration is in seconds.
	MaxDuration  float64
	MaxFileSize  int64
	VideoCodec   string
	AudioCodec   string
	VideoBitrate string
	AudioBitrate string
	OutputFormat string
	Portrait     bool
}

// Aspect returns the preset frame aspect as width, height.
func (p Preset) Aspect() (float64, float64) {
	return float64(p.Width), float64(p.Height)
}

// DefaultCrop is the largest centered region of the preset aspect inside a
// sourceW x sourceH frame.
func (p Preset) DefaultCrop(sourceW, sourceH int) types.NormalizedRegion {
	w, h := p.Aspect()
	return constraint.CenteredRegion(w, h, float64(sourceW), float64(sourceH))
}

// CapDuration limits a field playback duration to what the platform accepts.
// Zero means the field has no duration of its own and yields the platform maximum.
func (p Preset) CapDuration(seconds float64) float64 {
	if p.MaxDuration <= 0 {
		return seconds
	}
	if seconds <= 0 {
		return p.MaxDuration
	}
	return math.Min(seconds, p.MaxDuration)
}

// OutputSize scales a cropped frame down to fit the preset, keeping even dimensions.
func (p Preset) OutputSize(width, height int) (int, int) {
	if width <= 0 || height <= 0 || p.Width <= 0 || p.Height <= 0 {
		return even(width), even(height)
	}
	scale := math.Min(1, math.Min(float64(p.Width)/float64(width), float64(p.Height)/float64(height)))
	return even(int(float64(width) * scale)), even(int(float64(height) * scale))
}

func even(n int) int {
	if n < 2 {
		return 2
	}
	return n - n%2
}

var (
	mu      sync.RWMutex
	presets = make(map[string]Preset)
)

// Register adds or replaces a preset.
func Register(p Preset) {
	mu.Lock()
	defer mu.Unlock()
	presets[p.Name] = p
}

// Get returns a preset by name.
func Get(name string) (Preset, error) {
	mu.RLock()
	defer mu.RUnlock()
	p, ok := presets[name]
	if !ok {
		return Preset{}, fmt.Errorf("unsupported platform: %s", name)
	}
	return p, nil
}

// Names returns the registered preset names in sorted order.
func Names() []string {
	mu.RLock()
	defer mu.RUnlock()
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
