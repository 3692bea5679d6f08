// Package constraint maps drag input onto region values according to the active handle.
package constraint

import (
	"golang.org/x/exp/slices"

	"github.com/ZacxDev/video-region-editor/pkg/types"
)

// DragInput is what a drag contributes to a rule, all in percent units of the container.
type DragInput struct {
	// Delta since the drag started.
	Delta types.Point
	// Position of the pointer right now.
	Position types.Point
}

// Rule computes a new value from the snapshot taken when the drag started.
type Rule[T any] func(in DragInput, start T) T

// Table maps handles to their rules.
type Table[T any] map[types.Handle]Rule[T]

// Apply runs the rule registered for handle. Reports false when the handle has no rule.
func (t Table[T]) Apply(handle types.Handle, in DragInput, start T) (T, bool) {
	rule, ok := t[handle]
	if !ok {
		return start, false
	}
	return rule(in, start), true
}

// Handles returns the handles with a rule, sorted.
func (t Table[T]) Handles() []types.Handle {
	handles := make([]types.Handle, 0, len(t))
	for h := range t {
		handles = append(handles, h)
	}
	slices.Sort(handles)
	return handles
}
