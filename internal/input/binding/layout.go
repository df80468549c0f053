package binding

import (
	"fmt"
	"io"
	"strings"

	"github.com/dshills/keybind/internal/input/key"
)

// Layout is an ordered list of slots. It represents either a base preset or
// an override delta.
type Layout struct {
	Slots []Slot
}

// NewLayout creates a layout from slots.
func NewLayout(slots ...Slot) Layout {
	return Layout{Slots: slots}
}

// BucketAssign packs flat default bindings into slots. Each binding goes to
// the first slot that does not already bind its name within its key group
// (and scale, for axes); a new slot is appended when none qualifies.
func BucketAssign(cfg Config, actions []ActionBinding, axes []AxisBinding) Layout {
	var l Layout
	for _, a := range actions {
		group := cfg.KeyGroupOf(a.Key())
		target := -1
		for i := range l.Slots {
			if len(l.Slots[i].FindAllActions(cfg, a.Action, group)) == 0 {
				target = i
				break
			}
		}
		if target < 0 {
			target = len(l.Slots)
		}
		s := l.slotAt(target)
		s.Actions = append(s.Actions, a.Track(false))
	}

	for _, a := range axes {
		group := cfg.KeyGroupOf(a.Key)
		anyScale := cfg.IsAxisKey(a.Key)
		target := -1
		for i := range l.Slots {
			if len(l.Slots[i].findAxes(cfg, a.Axis, a.Scale, anyScale, group)) == 0 {
				target = i
				break
			}
		}
		if target < 0 {
			target = len(l.Slots)
		}
		s := l.slotAt(target)
		s.Axes = append(s.Axes, a.Track(false))
	}
	return l
}

// Len returns the number of slots.
func (l Layout) Len() int {
	return len(l.Slots)
}

// HasSlot returns true if index i exists.
func (l Layout) HasSlot(i int) bool {
	return i >= 0 && i < len(l.Slots)
}

// Slot returns slot i, or an empty slot if i is out of range.
func (l Layout) Slot(i int) Slot {
	if !l.HasSlot(i) {
		return Slot{}
	}
	return l.Slots[i]
}

// EnsureLen grows l with empty slots until it has at least n.
func (l *Layout) EnsureLen(n int) {
	for len(l.Slots) < n {
		l.Slots = append(l.Slots, Slot{})
	}
}

// slotAt grows l to include index i and returns a pointer to that slot.
func (l *Layout) slotAt(i int) *Slot {
	l.EnsureLen(i + 1)
	return &l.Slots[i]
}

// Clone returns a deep copy of l.
func (l Layout) Clone() Layout {
	if l.Slots == nil {
		return Layout{}
	}
	out := Layout{Slots: make([]Slot, len(l.Slots))}
	for i, s := range l.Slots {
		out.Slots[i] = s.Clone()
	}
	return out
}

// Action returns the most recent action binding for name in slot i.
func (l Layout) Action(cfg Config, i int, name string, group key.Group) (ActionBinding, bool) {
	if !l.HasSlot(i) {
		return ActionBinding{}, false
	}
	return l.Slots[i].FindFirstAction(cfg, name, group)
}

// Axis returns the most recent axis binding for name at scale in slot i.
func (l Layout) Axis(cfg Config, i int, name string, scale float32, group key.Group) (AxisBinding, bool) {
	if !l.HasSlot(i) {
		return AxisBinding{}, false
	}
	return l.Slots[i].FindFirstAxis(cfg, name, scale, group)
}

// Actions returns every distinct action binding across all slots, in slot
// order. Bindings without a key are skipped unless includeNone is set.
func (l Layout) Actions(includeNone bool) []ActionBinding {
	var result []ActionBinding
	seen := make(map[ActionBinding]bool)
	for _, s := range l.Slots {
		for _, a := range s.Actions {
			if (!includeNone && a.Chord.IsNone()) || seen[a.ActionBinding] {
				continue
			}
			seen[a.ActionBinding] = true
			result = append(result, a.ActionBinding)
		}
	}
	return result
}

// Axes returns every distinct axis binding across all slots, in slot order.
// Bindings without a key are skipped unless includeNone is set.
func (l Layout) Axes(includeNone bool) []AxisBinding {
	var result []AxisBinding
	seen := make(map[AxisBinding]bool)
	for _, s := range l.Slots {
		for _, a := range s.Axes {
			if (!includeNone && a.Key.IsNone()) || seen[a.AxisBinding] {
				continue
			}
			seen[a.AxisBinding] = true
			result = append(result, a.AxisBinding)
		}
	}
	return result
}

// Total returns the number of distinct bindings, including keyless ones.
func (l Layout) Total() int {
	return len(l.Actions(true)) + len(l.Axes(true))
}

// GroupsToUnbind returns every existing slot that must not share a key with
// slot src.
func (l Layout) GroupsToUnbind(cfg Config, src int) []int {
	var result []int
	for i := range l.Slots {
		if cfg.UniqueBetween(src, i) {
			result = append(result, i)
		}
	}
	return result
}

// UnbindChord removes the chord from each of the given slots and returns the
// removed bindings as unbound markers at their slot index.
func (l *Layout) UnbindChord(k key.Key, mods key.Modifier, slots []int) Layout {
	var evicted Layout
	for _, i := range slots {
		if !l.HasSlot(i) {
			continue
		}
		evicted.slotAt(i).Append(l.Slots[i].UnbindChord(k, mods))
	}
	return evicted
}

// ReplaceAction stores b in slot i, evicting its chord across the uniqueness
// scope of i and any binding of the same action in slot i. A negative i
// means slot 0. The evictions are returned as unbound markers.
func (l *Layout) ReplaceAction(cfg Config, b TrackedAction, i int, anyGroup bool) Layout {
	if i < 0 {
		i = 0
	}

	var evicted Layout
	// Keyless bindings may repeat freely.
	if !b.Chord.IsNone() {
		evicted = l.UnbindChord(b.Key(), b.Chord.Modifiers, l.GroupsToUnbind(cfg, i))
	}
	evicted.slotAt(i).Append(l.slotAt(i).ReplaceAction(cfg, b, anyGroup))
	return evicted
}

// ReplaceAxis stores b in slot i; it is the axis form of ReplaceAction.
func (l *Layout) ReplaceAxis(cfg Config, b TrackedAxis, i int, anyGroup bool) Layout {
	if i < 0 {
		i = 0
	}

	var evicted Layout
	if !b.Key.IsNone() {
		evicted = l.UnbindChord(b.Key, key.ModNone, l.GroupsToUnbind(cfg, i))
	}
	evicted.slotAt(i).Append(l.slotAt(i).ReplaceAxis(cfg, b, anyGroup))
	return evicted
}

// MergeUnbound copies every unbound marker of overrides into the matching
// slot of l, replacing any marker l already holds for the same target.
func (l *Layout) MergeUnbound(cfg Config, overrides Layout) {
	for i, o := range overrides.Slots {
		for _, u := range o.UnboundActions {
			s := l.slotAt(i)
			s.removeUnboundActions(cfg, u.Action, cfg.KeyGroupOf(u.Key()))
			s.UnboundActions = append(s.UnboundActions, u)
		}
		for _, u := range o.UnboundAxes {
			s := l.slotAt(i)
			s.removeUnboundAxes(cfg, u.Axis, u.Scale, cfg.KeyGroupOf(u.Key), !cfg.IsAxisKey(u.Key), false)
			s.UnboundAxes = append(s.UnboundAxes, u)
		}
	}
}

// ApplyUnbound deletes every real binding targeted by an unbound marker in
// its slot, then clears all markers. A marker on a continuous-axis key
// removes every scale of its axis.
func (l *Layout) ApplyUnbound(cfg Config) {
	for i := range l.Slots {
		s := &l.Slots[i]
		for _, u := range s.UnboundActions {
			s.removeActions(cfg, u.Action, cfg.KeyGroupOf(u.Key()))
		}
		s.UnboundActions = nil

		for _, u := range s.UnboundAxes {
			s.removeAxes(cfg, u.Axis, u.Scale, cfg.KeyGroupOf(u.Key), cfg.IsAxisKey(u.Key))
		}
		s.UnboundAxes = nil
	}
}

// MergeBindings replaces every real binding of overrides into l at the same
// slot. Evictions are discarded.
func (l *Layout) MergeBindings(cfg Config, overrides Layout) {
	for i, o := range overrides.Slots {
		for _, a := range o.Actions {
			l.ReplaceAction(cfg, a, i, false)
		}
		for _, a := range o.Axes {
			l.ReplaceAxis(cfg, a, i, false)
		}
	}
}

// RemoveRedundant prunes each slot of l against the same slot of base.
// Slots base does not have are left alone.
func (l *Layout) RemoveRedundant(cfg Config, base Layout) {
	for i := range l.Slots {
		if base.HasSlot(i) {
			l.Slots[i].RemoveRedundant(cfg, base.Slots[i])
		}
	}
}

// ConsolidateDefaults refreshes every binding flagged IsDefault from the
// value base currently holds at the same slot, name, key group and scale.
// Default entries base no longer binds are dropped.
func (l *Layout) ConsolidateDefaults(cfg Config, base Layout) {
	for i := range l.Slots {
		s := &l.Slots[i]

		actions := s.Actions[:0:0]
		for _, a := range s.Actions {
			if a.IsDefault {
				def, ok := base.Action(cfg, i, a.Action, cfg.KeyGroupOf(a.Key()))
				if !ok {
					continue
				}
				a = def.Track(true)
			}
			actions = append(actions, a)
		}
		s.Actions = actions

		axes := s.Axes[:0:0]
		for _, a := range s.Axes {
			if a.IsDefault {
				def, ok := base.Axis(cfg, i, a.Axis, a.Scale, cfg.KeyGroupOf(a.Key))
				if !ok {
					continue
				}
				a = def.Track(true)
			}
			axes = append(axes, a)
		}
		s.Axes = axes
	}
}

// MarkAllDefault flags every real binding in l as a default.
func (l *Layout) MarkAllDefault() {
	for i := range l.Slots {
		l.Slots[i].MarkAllDefault()
	}
}

// ToUnbound returns a layout holding every real binding of l as an unbound
// marker at the same slot.
func (l Layout) ToUnbound() Layout {
	out := Layout{Slots: make([]Slot, len(l.Slots))}
	for i, s := range l.Slots {
		out.Slots[i] = s.ToUnbound()
	}
	return out
}

// FindUnbound returns markers for every binding source holds that l does not
// bind by name in the same slot. Slots l does not have yield nothing.
func (l Layout) FindUnbound(cfg Config, source Layout) Layout {
	var out Layout
	for i, src := range source.Slots {
		s := out.slotAt(i)
		if l.HasSlot(i) {
			*s = l.Slots[i].FindUnbound(cfg, src)
		}
	}
	return out
}

// RemoveEmptyMarkers drops unbound markers without a key from every slot.
func (l *Layout) RemoveEmptyMarkers() {
	for i := range l.Slots {
		l.Slots[i].RemoveEmptyMarkers()
	}
}

// Equal reports whether l and other hold the same entries slot by slot.
func (l Layout) Equal(other Layout) bool {
	if len(l.Slots) != len(other.Slots) {
		return false
	}
	for i := range l.Slots {
		if !l.Slots[i].Equal(other.Slots[i]) {
			return false
		}
	}
	return true
}

// Dump writes a readable listing of every slot to w.
func (l Layout) Dump(w io.Writer) {
	if len(l.Slots) == 0 {
		fmt.Fprintln(w, "slots: none")
		return
	}
	for i, s := range l.Slots {
		fmt.Fprintf(w, "slot %d:\n", i)
		dumpList(w, "actions", s.Actions, func(a TrackedAction) string { return trackedString(a.ActionBinding.String(), a.IsDefault) })
		dumpList(w, "axes", s.Axes, func(a TrackedAxis) string { return trackedString(a.AxisBinding.String(), a.IsDefault) })
		dumpList(w, "unbound actions", s.UnboundActions, func(a TrackedAction) string { return a.ActionBinding.String() })
		dumpList(w, "unbound axes", s.UnboundAxes, func(a TrackedAxis) string { return a.AxisBinding.String() })
	}
}

// String returns the Dump output.
func (l Layout) String() string {
	var sb strings.Builder
	l.Dump(&sb)
	return sb.String()
}

func dumpList[T any](w io.Writer, title string, list []T, format func(T) string) {
	if len(list) == 0 {
		return
	}
	fmt.Fprintf(w, "  %s:\n", title)
	for _, v := range list {
		fmt.Fprintf(w, "    %s\n", format(v))
	}
}

func trackedString(s string, isDefault bool) string {
	if isDefault {
		return s + " (default)"
	}
	return s
}
