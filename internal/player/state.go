// Package player holds the per-player binding state: the chosen base preset,
// the override delta recorded against it and the active key group.
//
// A State is not safe for concurrent use. Callers serialize access to one
// State; distinct States are independent.
package player

import (
	"github.com/dshills/keybind/internal/input/binding"
	"github.com/dshills/keybind/internal/input/key"
	"github.com/dshills/keybind/internal/preset"
)

// Presets supplies base layouts by tag.
type Presets interface {
	Get(tag string) binding.Layout
}

// Env carries the collaborators every State operation reads from.
type Env struct {
	// Config is the binding policy. It must be set.
	Config binding.Config

	// Presets resolves PresetTag. A nil Presets gives every tag an empty base.
	Presets Presets
}

// State is one player's bindings, stored as a delta against a base preset.
type State struct {
	// ID identifies the player in the store.
	ID string

	// PresetTag names the base preset.
	PresetTag string

	// Overrides holds the player's changes and unbound markers.
	Overrides binding.Layout

	// KeyGroup is the key group the player is currently using.
	KeyGroup key.Group
}

// New creates a state with no overrides.
func New(id, presetTag string, group key.Group) *State {
	return &State{ID: id, PresetTag: presetTag, KeyGroup: group}
}

// Base returns a copy of the base layout for the state's preset.
func (s *State) Base(env Env) binding.Layout {
	if env.Presets == nil || s.PresetTag == preset.NullTag {
		return binding.Layout{}
	}
	return env.Presets.Get(s.PresetTag)
}

// Effective returns the bindings the player currently experiences.
func (s *State) Effective(env Env) binding.Layout {
	cfg := mustConfig(env)
	return binding.BuildEffective(cfg, s.Base(env), s.Overrides)
}

// RebindAction binds b in the given slot. Whatever the new binding displaces
// in the effective layout is recorded as an unbound marker so it stays
// displaced, and overrides that now match the base are pruned.
//
// With anyGroup set, b replaces the action's bindings in every key group
// instead of only its own.
func (s *State) RebindAction(env Env, b binding.ActionBinding, slot int, anyGroup bool) {
	cfg := mustConfig(env)
	base := s.Base(env)

	isDefault := false
	if base.HasSlot(slot) {
		for _, a := range base.Slot(slot).FindAllActions(cfg, b.Action, key.NoGroup) {
			if a == b {
				isDefault = true
				break
			}
		}
	}
	tracked := b.Track(isDefault)

	effective := binding.BuildEffective(cfg, base, s.Overrides)
	evicted := effective.ReplaceAction(cfg, tracked, slot, anyGroup)

	s.Overrides.MergeUnbound(cfg, evicted)
	s.Overrides.ReplaceAction(cfg, tracked, slot, anyGroup)
	s.Overrides.RemoveRedundant(cfg, base)
}

// RebindAxis is RebindAction for axis bindings.
func (s *State) RebindAxis(env Env, b binding.AxisBinding, slot int, anyGroup bool) {
	cfg := mustConfig(env)
	base := s.Base(env)

	isDefault := false
	if base.HasSlot(slot) {
		for _, a := range base.Slot(slot).FindAllAxes(cfg, b.Axis, b.Scale, key.NoGroup) {
			if a == b {
				isDefault = true
				break
			}
		}
	}
	tracked := b.Track(isDefault)

	effective := binding.BuildEffective(cfg, base, s.Overrides)
	evicted := effective.ReplaceAxis(cfg, tracked, slot, anyGroup)

	s.Overrides.MergeUnbound(cfg, evicted)
	s.Overrides.ReplaceAxis(cfg, tracked, slot, anyGroup)
	s.Overrides.RemoveRedundant(cfg, base)
}

// SetKeyGroup makes g the active key group and reports whether it changed.
func (s *State) SetKeyGroup(g key.Group) bool {
	if s.KeyGroup == g {
		return false
	}
	s.KeyGroup = g
	return true
}

// SetPreset switches the base preset and discards the overrides, which were
// recorded against the old base. It reports whether the tag changed.
func (s *State) SetPreset(tag string) bool {
	if s.PresetTag == tag {
		return false
	}
	s.PresetTag = tag
	s.Overrides = binding.Layout{}
	return true
}

// SetNullPreset selects the empty base.
func (s *State) SetNullPreset() bool {
	return s.SetPreset(preset.NullTag)
}

// Consolidate refreshes overrides still flagged as defaults from the current
// base. Run it once after loading a saved state.
func (s *State) Consolidate(env Env) {
	cfg := mustConfig(env)
	s.Overrides.ConsolidateDefaults(cfg, s.Base(env))
}

// Clone returns a deep copy of s.
func (s *State) Clone() *State {
	out := *s
	out.Overrides = s.Overrides.Clone()
	return &out
}

// Action returns the effective binding for name in slot within group.
// A negative slot searches every slot and returns the first one holding a
// bound key.
func (s *State) Action(env Env, name string, slot int, group key.Group) (binding.ActionBinding, bool) {
	effective := s.Effective(env)
	if slot >= 0 {
		return effective.Action(env.Config, slot, name, group)
	}
	for i := range effective.Slots {
		if b, ok := effective.Action(env.Config, i, name, group); ok && !b.Chord.IsNone() {
			return b, true
		}
	}
	return binding.ActionBinding{}, false
}

// Axis returns the effective binding for name at scale in slot within group.
// A negative slot behaves as in Action.
func (s *State) Axis(env Env, name string, scale float32, slot int, group key.Group) (binding.AxisBinding, bool) {
	effective := s.Effective(env)
	if slot >= 0 {
		return effective.Axis(env.Config, slot, name, scale, group)
	}
	for i := range effective.Slots {
		if b, ok := effective.Axis(env.Config, i, name, scale, group); ok && !b.Key.IsNone() {
			return b, true
		}
	}
	return binding.AxisBinding{}, false
}

// Actions returns the effective binding for name in every slot that has one.
func (s *State) Actions(env Env, name string, group key.Group) []binding.ActionBinding {
	effective := s.Effective(env)
	var result []binding.ActionBinding
	for i := range effective.Slots {
		if b, ok := effective.Action(env.Config, i, name, group); ok {
			result = append(result, b)
		}
	}
	return result
}

// Axes returns the effective binding for name at scale in every slot that
// has one.
func (s *State) Axes(env Env, name string, scale float32, group key.Group) []binding.AxisBinding {
	effective := s.Effective(env)
	var result []binding.AxisBinding
	for i := range effective.Slots {
		if b, ok := effective.Axis(env.Config, i, name, scale, group); ok {
			result = append(result, b)
		}
	}
	return result
}

// BindingsByKey returns every effective binding on k, with any modifiers.
func (s *State) BindingsByKey(env Env, k key.Key) ([]binding.ActionBinding, []binding.AxisBinding) {
	if k.IsNone() {
		return nil, nil
	}
	actions, axes := s.Flat(env)

	var ra []binding.ActionBinding
	for _, a := range actions {
		if a.Key() == k {
			ra = append(ra, a)
		}
	}
	var rx []binding.AxisBinding
	for _, a := range axes {
		if a.Key == k {
			rx = append(rx, a)
		}
	}
	return ra, rx
}

// Flat returns the distinct bound entries of the effective layout, in slot
// order, without markers or keyless bindings.
func (s *State) Flat(env Env) ([]binding.ActionBinding, []binding.AxisBinding) {
	effective := s.Effective(env)
	return effective.Actions(false), effective.Axes(false)
}

func mustConfig(env Env) binding.Config {
	if env.Config == nil {
		panic("player: operation without a binding config")
	}
	return env.Config
}
