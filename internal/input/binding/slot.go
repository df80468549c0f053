package binding

import (
	"github.com/dshills/keybind/internal/input/key"
)

// Slot is one bucket of bindings within a Layout.
//
// UnboundActions and UnboundAxes are markers: an entry means "explicitly not
// bound here" for its name, key group and scale. The key a marker carries is
// only used to derive its key group.
type Slot struct {
	Actions        []TrackedAction
	Axes           []TrackedAxis
	UnboundActions []TrackedAction
	UnboundAxes    []TrackedAxis
}

// Clone returns a deep copy of s.
func (s Slot) Clone() Slot {
	return Slot{
		Actions:        cloneSlice(s.Actions),
		Axes:           cloneSlice(s.Axes),
		UnboundActions: cloneSlice(s.UnboundActions),
		UnboundAxes:    cloneSlice(s.UnboundAxes),
	}
}

// IsEmpty returns true if s holds no bindings and no markers.
func (s Slot) IsEmpty() bool {
	return len(s.Actions) == 0 && len(s.Axes) == 0 &&
		len(s.UnboundActions) == 0 && len(s.UnboundAxes) == 0
}

// FindAllActions returns every action binding named name whose key belongs to
// group. key.NoGroup matches any group.
func (s Slot) FindAllActions(cfg Config, name string, group key.Group) []ActionBinding {
	group = filterGroup(cfg, group)

	var result []ActionBinding
	for _, a := range s.Actions {
		if actionMatches(cfg, a.ActionBinding, name, group) {
			result = append(result, a.ActionBinding)
		}
	}
	return result
}

// FindAllAxes returns every axis binding named name at scale whose key belongs
// to group. Bindings on continuous-axis keys match every scale.
func (s Slot) FindAllAxes(cfg Config, name string, scale float32, group key.Group) []AxisBinding {
	return s.findAxes(cfg, name, scale, false, group)
}

// FindAllAxesAnyScale returns every axis binding named name whose key belongs
// to group, regardless of scale.
func (s Slot) FindAllAxesAnyScale(cfg Config, name string, group key.Group) []AxisBinding {
	return s.findAxes(cfg, name, 0, true, group)
}

func (s Slot) findAxes(cfg Config, name string, scale float32, anyScale bool, group key.Group) []AxisBinding {
	group = filterGroup(cfg, group)

	var result []AxisBinding
	for _, a := range s.Axes {
		if axisMatches(cfg, a.AxisBinding, name, scale, anyScale, group) {
			result = append(result, a.AxisBinding)
		}
	}
	return result
}

// FindFirstAction returns the most recently inserted match of FindAllActions.
func (s Slot) FindFirstAction(cfg Config, name string, group key.Group) (ActionBinding, bool) {
	all := s.FindAllActions(cfg, name, group)
	if len(all) == 0 {
		return ActionBinding{}, false
	}
	return all[len(all)-1], true
}

// FindFirstAxis returns the most recently inserted match of FindAllAxes.
func (s Slot) FindFirstAxis(cfg Config, name string, scale float32, group key.Group) (AxisBinding, bool) {
	all := s.FindAllAxes(cfg, name, scale, group)
	if len(all) == 0 {
		return AxisBinding{}, false
	}
	return all[len(all)-1], true
}

// ReplaceAction removes every action binding sharing b's name within b's key
// group (any group if anyGroup), inserts b and clears the matching unbound
// marker. The removed bindings are returned as unbound markers. A keyed b
// also drops keyless bindings of its name, which are not returned.
func (s *Slot) ReplaceAction(cfg Config, b TrackedAction, anyGroup bool) Slot {
	group := key.NoGroup
	if !anyGroup {
		group = cfg.KeyGroupOf(b.Key())
	}

	var evicted Slot
	s.Actions, evicted.Actions = partition(s.Actions, func(a TrackedAction) bool {
		return actionMatches(cfg, a.ActionBinding, b.Action, group)
	})
	if !b.Chord.IsNone() {
		s.Actions, _ = partition(s.Actions, func(a TrackedAction) bool {
			return a.Action == b.Action && a.Chord.IsNone()
		})
	}
	s.Actions = append(s.Actions, b)
	s.removeUnboundActions(cfg, b.Action, group)

	return evicted.ToUnbound()
}

// ReplaceAxis is ReplaceAction for axes. A continuous-axis binding replaces
// every scale of its axis and clears markers at every scale; a button binding
// replaces and clears only its own scale.
func (s *Slot) ReplaceAxis(cfg Config, b TrackedAxis, anyGroup bool) Slot {
	isAxisKey := cfg.IsAxisKey(b.Key)
	group := key.NoGroup
	if !anyGroup {
		group = cfg.KeyGroupOf(b.Key)
	}

	var evicted Slot
	s.Axes, evicted.Axes = partition(s.Axes, func(a TrackedAxis) bool {
		return axisMatches(cfg, a.AxisBinding, b.Axis, b.Scale, isAxisKey, group)
	})
	if !b.Key.IsNone() {
		s.Axes, _ = partition(s.Axes, func(a TrackedAxis) bool {
			return a.Key.IsNone() && axisMatches(cfg, a.AxisBinding, b.Axis, b.Scale, isAxisKey, key.NoGroup)
		})
	}
	s.Axes = append(s.Axes, b)

	// A button leaves axis-key markers alone: they still suppress the other
	// scales of the axis.
	s.removeUnboundAxes(cfg, b.Axis, b.Scale, group, !isAxisKey, isAxisKey)

	return evicted.ToUnbound()
}

// UnbindChord removes every action bound to exactly k with mods. With no
// modifiers held it also removes every axis bound to k. The removed bindings
// are returned as unbound markers.
func (s *Slot) UnbindChord(k key.Key, mods key.Modifier) Slot {
	var evicted Slot
	s.Actions, evicted.Actions = partition(s.Actions, func(a TrackedAction) bool {
		return a.Chord.Matches(k, mods)
	})
	if mods.ReachesAxes() {
		s.Axes, evicted.Axes = partition(s.Axes, func(a TrackedAxis) bool {
			return a.Key == k
		})
	}
	return evicted.ToUnbound()
}

// ToUnbound returns a slot holding every real binding of s as an unbound
// marker.
func (s Slot) ToUnbound() Slot {
	return Slot{
		UnboundActions: cloneSlice(s.Actions),
		UnboundAxes:    cloneSlice(s.Axes),
	}
}

// RemoveRedundant drops entries that make no difference on top of base: real
// bindings base already has, and markers for targets base does not bind.
func (s *Slot) RemoveRedundant(cfg Config, base Slot) {
	s.Actions, _ = partition(s.Actions, func(a TrackedAction) bool {
		return containsAction(base.Actions, a.ActionBinding)
	})

	s.Axes, _ = partition(s.Axes, func(a TrackedAxis) bool {
		if !containsAxis(base.Axes, a.AxisBinding) {
			return false
		}
		// Not redundant while it re-binds a scale of an unbound axis key.
		for _, u := range s.UnboundAxes {
			if u.Axis == a.Axis && cfg.IsAxisKey(u.Key) {
				return false
			}
		}
		return true
	})

	// A base continuous-axis binding matches every scale, so a marker at
	// any scale of that axis is kept.
	s.UnboundActions, _ = partition(s.UnboundActions, func(u TrackedAction) bool {
		b, ok := base.FindFirstAction(cfg, u.Action, cfg.KeyGroupOf(u.Key()))
		return !ok || b.Chord.IsNone()
	})
	s.UnboundAxes, _ = partition(s.UnboundAxes, func(u TrackedAxis) bool {
		b, ok := base.FindFirstAxis(cfg, u.Axis, u.Scale, cfg.KeyGroupOf(u.Key))
		return !ok || b.Key.IsNone()
	})
}

// RemoveEmptyMarkers drops unbound markers that carry no key.
func (s *Slot) RemoveEmptyMarkers() {
	s.UnboundActions, _ = partition(s.UnboundActions, func(u TrackedAction) bool {
		return u.Chord.IsNone()
	})
	s.UnboundAxes, _ = partition(s.UnboundAxes, func(u TrackedAxis) bool {
		return u.Key.IsNone()
	})
}

// FindUnbound returns markers for every binding in source whose name s does
// not bind at all.
func (s Slot) FindUnbound(cfg Config, source Slot) Slot {
	var result Slot
	for _, a := range source.Actions {
		if len(s.FindAllActions(cfg, a.Action, key.NoGroup)) == 0 {
			result.UnboundActions = append(result.UnboundActions, a)
		}
	}
	for _, a := range source.Axes {
		if len(s.FindAllAxes(cfg, a.Axis, a.Scale, key.NoGroup)) == 0 {
			result.UnboundAxes = append(result.UnboundAxes, a)
		}
	}
	return result
}

// MarkAllDefault flags every real binding in s as a default.
func (s *Slot) MarkAllDefault() {
	for i := range s.Actions {
		s.Actions[i].IsDefault = true
	}
	for i := range s.Axes {
		s.Axes[i].IsDefault = true
	}
}

// Append adds every binding and marker of other to s.
func (s *Slot) Append(other Slot) {
	s.Actions = append(s.Actions, other.Actions...)
	s.Axes = append(s.Axes, other.Axes...)
	s.UnboundActions = append(s.UnboundActions, other.UnboundActions...)
	s.UnboundAxes = append(s.UnboundAxes, other.UnboundAxes...)
}

// Equal reports whether s and other hold the same entries in the same order.
// IsDefault flags are not compared.
func (s Slot) Equal(other Slot) bool {
	return equalActions(s.Actions, other.Actions) &&
		equalAxes(s.Axes, other.Axes) &&
		equalActions(s.UnboundActions, other.UnboundActions) &&
		equalAxes(s.UnboundAxes, other.UnboundAxes)
}

func (s *Slot) removeUnboundActions(cfg Config, name string, group key.Group) {
	s.UnboundActions, _ = partition(s.UnboundActions, func(u TrackedAction) bool {
		return actionMatches(cfg, u.ActionBinding, name, group)
	})
}

func (s *Slot) removeUnboundAxes(cfg Config, name string, scale float32, group key.Group, ignoreAxisKeys, anyScale bool) {
	s.UnboundAxes, _ = partition(s.UnboundAxes, func(u TrackedAxis) bool {
		return axisRemovable(cfg, u.AxisBinding, name, scale, group, ignoreAxisKeys, anyScale)
	})
}

func (s *Slot) removeActions(cfg Config, name string, group key.Group) {
	s.Actions, _ = partition(s.Actions, func(a TrackedAction) bool {
		return actionMatches(cfg, a.ActionBinding, name, group)
	})
}

func (s *Slot) removeAxes(cfg Config, name string, scale float32, group key.Group, anyScale bool) {
	s.Axes, _ = partition(s.Axes, func(a TrackedAxis) bool {
		return axisRemovable(cfg, a.AxisBinding, name, scale, group, false, anyScale)
	})
}

// actionMatches is the lookup rule for actions.
func actionMatches(cfg Config, a ActionBinding, name string, group key.Group) bool {
	return a.Action == name && inGroup(cfg, a.Key(), group)
}

// axisMatches is the lookup rule for axes: a continuous-axis key spans
// every scale.
func axisMatches(cfg Config, a AxisBinding, name string, scale float32, anyScale bool, group key.Group) bool {
	return a.Axis == name &&
		(anyScale || a.Scale == scale || cfg.IsAxisKey(a.Key)) &&
		inGroup(cfg, a.Key, group)
}

// axisRemovable is the removal rule for axes. Unlike axisMatches, scales
// compare exactly unless anyScale is set.
func axisRemovable(cfg Config, a AxisBinding, name string, scale float32, group key.Group, ignoreAxisKeys, anyScale bool) bool {
	if ignoreAxisKeys && cfg.IsAxisKey(a.Key) {
		return false
	}
	return a.Axis == name && (anyScale || a.Scale == scale) && inGroup(cfg, a.Key, group)
}

func containsAction(list []TrackedAction, b ActionBinding) bool {
	for _, a := range list {
		if a.ActionBinding == b {
			return true
		}
	}
	return false
}

func containsAxis(list []TrackedAxis, b AxisBinding) bool {
	for _, a := range list {
		if a.AxisBinding == b {
			return true
		}
	}
	return false
}

func equalActions(a, b []TrackedAction) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].ActionBinding != b[i].ActionBinding {
			return false
		}
	}
	return true
}

func equalAxes(a, b []TrackedAxis) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].AxisBinding != b[i].AxisBinding {
			return false
		}
	}
	return true
}

// partition splits list into the entries to keep and the entries for which
// drop returns true, preserving order. The kept slice never aliases list.
func partition[T any](list []T, drop func(T) bool) (kept, dropped []T) {
	for _, v := range list {
		if drop(v) {
			dropped = append(dropped, v)
		} else {
			kept = append(kept, v)
		}
	}
	return kept, dropped
}

func cloneSlice[T any](s []T) []T {
	if s == nil {
		return nil
	}
	out := make([]T, len(s))
	copy(out, s)
	return out
}
