package config

import (
	"os"
	"strconv"
	"time"
)

// EditorOptions defines options shared by every interactive region editor
type EditorOptions struct {
	DebounceTime time.Duration
	FrameRate    int
	Verbose      bool
}

// SessionOptions defines options for an interactive terminal session
type SessionOptions struct {
	ConfigPath string
	Field      string
	AssetPath  string
	Platform   string

	// Trim only; zero keeps the document value
	PlaybackDuration float64
	VisibleSeconds   float64
	AudioExtension   bool

	Editor EditorOptions
}

// RenderOptions defines options for rendering an edited field with ffmpeg
type RenderOptions struct {
	ConfigPath   string
	Field        string
	OutputPath   string
	OutputFormat string // "mp4" or "webm"
	Platform     string
	Verbose      bool
}

const (
	// Smallest crop width/height as a fraction of the container
	MinSize = 0.01

	// Decimal places kept by sanitize
	Precision = 4

	// Trailing-edge debounce applied to outbound changes
	DefaultDebounceTime = 100 * time.Millisecond

	// Frame loop rate while a trim handle is held
	DefaultFrameRate = 60

	// Trim ratios, relative to the visible timeline seconds
	MinClipRatio       = 0.05
	SnapThresholdRatio = 0.02

	// Extra clip length allowed when audio can extend past the field duration
	AudioExtensionFactor = 1.25

	// Auto-scroll zone width as a fraction of the viewport, and the per-frame cap
	// as a fraction of the zone width
	ScrollZoneRatio       = 0.05
	MaxShiftPerFrameRatio = 0.65

	// Keyboard nudge step for the terminal session
	NudgeStep = 0.01
)

// Environment variables read by FromEnv
const (
	EnvDebounceMS = "REGION_EDITOR_DEBOUNCE_MS"
	EnvFrameRate  = "REGION_EDITOR_FPS"
	EnvVerbose    = "REGION_EDITOR_VERBOSE"
)

// DefaultEditorOptions returns the built-in editor defaults
func DefaultEditorOptions() EditorOptions {
	return EditorOptions{
		DebounceTime: DefaultDebounceTime,
		FrameRate:    DefaultFrameRate,
	}
}

// FromEnv overlays environment overrides on the defaults. Unparseable values are ignored.
func FromEnv() EditorOptions {
	opts := DefaultEditorOptions()

	if v := os.Getenv(EnvDebounceMS); v != "" {
		if ms, err := strconv.Atoi(v); err == nil && ms >= 0 {
			opts.DebounceTime = time.Duration(ms) * time.Millisecond
		}
	}
	if v := os.Getenv(EnvFrameRate); v != "" {
		if fps, err := strconv.Atoi(v); err == nil && fps > 0 {
			opts.FrameRate = fps
		}
	}
	if v := os.Getenv(EnvVerbose); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			opts.Verbose = b
		}
	}

	return opts
}

// FrameInterval converts a frame rate into a tick interval
func (o EditorOptions) FrameInterval() time.Duration {
	fps := o.FrameRate
	if fps <= 0 {
		fps = DefaultFrameRate
	}
	return time.Second / time.Duration(fps)
}
