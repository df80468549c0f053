package binding

import (
	"fmt"

	"github.com/dshills/keybind/internal/input/key"
)

// ActionBinding binds an action name to a chord.
type ActionBinding struct {
	// Action is the action name (e.g. "Jump").
	Action string

	// Chord is the key and the modifiers held with it.
	Chord key.Chord
}

// NewActionBinding creates an action binding.
func NewActionBinding(action string, chord key.Chord) ActionBinding {
	return ActionBinding{Action: action, Chord: chord}
}

// Key returns the bound key.
func (b ActionBinding) Key() key.Key {
	return b.Chord.Key
}

// String returns a representation like "Jump=SpaceBar".
func (b ActionBinding) String() string {
	return fmt.Sprintf("%s=%s", b.Action, b.Chord)
}

// AxisBinding binds an axis name to a key at a scale.
type AxisBinding struct {
	// Axis is the axis name (e.g. "MoveForward").
	Axis string

	// Key is the bound input. Axis bindings never carry modifiers.
	Key key.Key

	// Scale multiplies the input value. Buttons typically use 1 or -1.
	Scale float32
}

// NewAxisBinding creates an axis binding.
func NewAxisBinding(axis string, k key.Key, scale float32) AxisBinding {
	return AxisBinding{Axis: axis, Key: k, Scale: scale}
}

// String returns a representation like "MoveForward(-1)=S".
func (b AxisBinding) String() string {
	return fmt.Sprintf("%s(%g)=%s", b.Axis, b.Scale, b.Key)
}

// TrackedAction is an action binding that remembers whether it still equals
// the base preset's value at its slot.
type TrackedAction struct {
	ActionBinding
	IsDefault bool
}

// TrackedAxis is an axis binding that remembers whether it still equals the
// base preset's value at its slot.
type TrackedAxis struct {
	AxisBinding
	IsDefault bool
}

// Track wraps b with the given default flag.
func (b ActionBinding) Track(isDefault bool) TrackedAction {
	return TrackedAction{ActionBinding: b, IsDefault: isDefault}
}

// Track wraps b with the given default flag.
func (b AxisBinding) Track(isDefault bool) TrackedAxis {
	return TrackedAxis{AxisBinding: b, IsDefault: isDefault}
}
