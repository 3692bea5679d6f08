// Package replay drives an editor from a recorded pointer script without a
// terminal. Time only moves on "wait" steps, so a replay is deterministic.
package replay

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/exp/slices"

	"github.com/ZacxDev/video-region-editor/internal/clock"
	"github.com/ZacxDev/video-region-editor/internal/editor"
	"github.com/ZacxDev/video-region-editor/internal/pointer"
	"github.com/ZacxDev/video-region-editor/internal/syncbridge"
	"github.com/ZacxDev/video-region-editor/pkg/types"
)

// Step types.
const (
	StepMouseDown  = "mousedown"
	StepMouseMove  = "mousemove"
	StepMouseUp    = "mouseup"
	StepTouchStart = "touchstart"
	StepTouchMove  = "touchmove"
	StepTouchEnd   = "touchend"
	StepWait       = "wait"
	StepFrame      = "frame"
	StepControlled = "controlled"
	StepUnmount    = "unmount"
)

// Step is one scripted action.
type Step struct {
	Type   string       `json:"type"`
	Handle types.Handle `json:"handle,omitempty"`
	X      float64      `json:"x,omitempty"`
	Y      float64      `json:"y,omitempty"`

	Touches        []types.Point `json:"touches,omitempty"`
	ChangedTouches []types.Point `json:"changedTouches,omitempty"`

	// Ms is the wait length.
	Ms int `json:"ms,omitempty"`
	// Value is the owner value of a controlled step; null resets to the default.
	Value json.RawMessage `json:"value,omitempty"`
}

// TrimSetup carries the timeline context of a trim script.
type TrimSetup struct {
	AssetDuration         float64 `json:"assetDuration"`
	VisibleSeconds        float64 `json:"visibleSeconds,omitempty"`
	FieldPlaybackDuration float64 `json:"fieldPlaybackDuration,omitempty"`
	AudioExtension        bool    `json:"audioExtension,omitempty"`
	PlaybackTime          float64 `json:"playbackTime,omitempty"`
}

// Script is a full replay.
type Script struct {
	// Editor is "crop", "focal" or "trim".
	Editor     string          `json:"editor"`
	Container  types.Rect      `json:"container"`
	Initial    json.RawMessage `json:"initial,omitempty"`
	DebounceMs int             `json:"debounceMs,omitempty"`
	Trim       *TrimSetup      `json:"trim,omitempty"`
	Steps      []Step          `json:"steps"`
}

// Parse decodes a script.
func Parse(data []byte) (*Script, error) {
	var s Script
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, errors.Wrap(err, "failed to parse replay script")
	}
	if len(s.Steps) == 0 {
		return nil, fmt.Errorf("replay script has no steps")
	}
	return &s, nil
}

// Snapshot is the editor state after one step.
type Snapshot struct {
	Step  int    `json:"step"`
	Type  string `json:"type"`
	Value any    `json:"value"`
	State string `json:"state"`
}

// Result is everything a replay observed.
type Result struct {
	Snapshots []Snapshot `json:"snapshots"`
	Changes   []any      `json:"changes"`
	Seeks     []float64  `json:"seeks,omitempty"`
}

// target is what the runner needs from an editor.
type target[T comparable] interface {
	Mount(window *pointer.Target, handles map[types.Handle]*pointer.Target)
	Unmount()
	SetControlled(v *T) bool
	Handles() []types.Handle
	Value() T
	State() syncbridge.State
}

// framer is implemented by editors with an auto-scroll frame.
type framer interface {
	Frame() bool
}

// Play runs script against a freshly built editor.
func Play(script *Script) (*Result, error) {
	clk := clock.NewManual(time.Unix(0, 0))
	bounds := pointer.BoundsFunc(func() types.Rect { return script.Container })
	res := &Result{}

	switch script.Editor {
	case "crop":
		opts := editor.Options[types.NormalizedRegion]{Bounds: bounds, Clock: clk}
		if err := setup(script, &opts, res); err != nil {
			return nil, err
		}
		return res, run[types.NormalizedRegion](script, editor.NewCropper(opts), clk, res)

	case "focal":
		opts := editor.Options[types.NormalizedPoint]{Bounds: bounds, Clock: clk}
		if err := setup(script, &opts, res); err != nil {
			return nil, err
		}
		return res, run[types.NormalizedPoint](script, editor.NewFocalPointSelector(opts), clk, res)

	case "trim":
		if script.Trim == nil {
			return nil, fmt.Errorf("trim script needs a trim section")
		}
		opts := editor.TrimOptions{
			Options:               editor.Options[types.TrimInterval]{Bounds: bounds, Clock: clk},
			AssetDuration:         script.Trim.AssetDuration,
			VisibleSeconds:        script.Trim.VisibleSeconds,
			FieldPlaybackDuration: script.Trim.FieldPlaybackDuration,
			AudioExtension:        script.Trim.AudioExtension,
			PlaybackTime:          script.Trim.PlaybackTime,
			OnSeek:                func(s float64) { res.Seeks = append(res.Seeks, s) },
			// frames only run on explicit frame steps
			Schedule: func(func()) {},
		}
		if err := setup(script, &opts.Options, res); err != nil {
			return nil, err
		}
		return res, run[types.TrimInterval](script, editor.NewTrimScrubber(opts), clk, res)
	}
	return nil, fmt.Errorf("unknown editor: %q", script.Editor)
}

func setup[T comparable](script *Script, opts *editor.Options[T], res *Result) error {
	if script.DebounceMs > 0 {
		opts.DebounceTime = time.Duration(script.DebounceMs) * time.Millisecond
	}
	initial, err := decode[T](script.Initial)
	if err != nil {
		return errors.Wrap(err, "invalid initial value")
	}
	opts.Initial = initial
	opts.OnChange = func(v T) { res.Changes = append(res.Changes, v) }
	return nil
}

// decode returns nil for an absent or null value.
func decode[T any](raw json.RawMessage) (*T, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, err
	}
	return &v, nil
}

func run[T comparable](script *Script, ed target[T], clk *clock.Manual, res *Result) error {
	window := pointer.NewTarget("window", nil)
	handles := make(map[types.Handle]*pointer.Target)
	known := ed.Handles()
	for i, st := range script.Steps {
		if st.Handle == types.HandleNone || handles[st.Handle] != nil {
			continue
		}
		if !slices.Contains(known, st.Handle) {
			return fmt.Errorf("step %d: %s editor has no %q handle", i, script.Editor, st.Handle)
		}
		handles[st.Handle] = pointer.NewTarget(string(st.Handle), window)
	}
	ed.Mount(window, handles)
	unmounted := false
	defer func() {
		if !unmounted {
			ed.Unmount()
		}
	}()

	for i, st := range script.Steps {
		switch st.Type {
		case StepMouseDown, StepTouchStart:
			h := handles[st.Handle]
			if h == nil {
				return fmt.Errorf("step %d: %s needs a handle", i, st.Type)
			}
			h.Dispatch(event(st))

		case StepMouseMove, StepMouseUp, StepTouchMove, StepTouchEnd:
			window.Dispatch(event(st))

		case StepWait:
			clk.Advance(time.Duration(st.Ms) * time.Millisecond)

		case StepFrame:
			if f, ok := ed.(framer); ok {
				f.Frame()
			}

		case StepControlled:
			v, err := decode[T](st.Value)
			if err != nil {
				return errors.Wrapf(err, "step %d: invalid controlled value", i)
			}
			ed.SetControlled(v)

		case StepUnmount:
			ed.Unmount()
			unmounted = true

		default:
			return fmt.Errorf("step %d: unknown step type %q", i, st.Type)
		}

		res.Snapshots = append(res.Snapshots, Snapshot{
			Step:  i,
			Type:  st.Type,
			Value: ed.Value(),
			State: ed.State().String(),
		})
	}
	return nil
}

func event(st Step) *pointer.Event {
	kinds := map[string]pointer.EventKind{
		StepMouseDown:  pointer.MouseDown,
		StepMouseMove:  pointer.MouseMove,
		StepMouseUp:    pointer.MouseUp,
		StepTouchStart: pointer.TouchStart,
		StepTouchMove:  pointer.TouchMove,
		StepTouchEnd:   pointer.TouchEnd,
	}
	return &pointer.Event{
		Kind:           kinds[st.Type],
		ClientX:        st.X,
		ClientY:        st.Y,
		Touches:        st.Touches,
		ChangedTouches: st.ChangedTouches,
	}
}
