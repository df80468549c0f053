// Package router holds the live dispatch table a player's input is resolved
// against.
//
// The table is fed the flat effective bindings of a player. Bindings added
// with AddAction or AddAxis were installed by something other than the
// binding engine (a debug console, a cheat overlay). Those whose names are
// preserved survive every Apply; everything else Apply replaces wholesale.
package router

import (
	"slices"
	"sync"

	"github.com/dshills/keybind/internal/input/binding"
	"github.com/dshills/keybind/internal/input/key"
)

// Table maps chords to actions and keys to axes.
// It is safe for concurrent use.
type Table struct {
	mu sync.RWMutex

	// Installed directly, kept across Apply when preserved.
	extActions []binding.ActionBinding
	extAxes    []binding.AxisBinding

	// Installed by the last Apply.
	appliedActions []binding.ActionBinding
	appliedAxes    []binding.AxisBinding

	// Rebuilt after every change.
	actions []binding.ActionBinding
	axes    []binding.AxisBinding
	byChord map[key.Chord][]string
	byKey   map[key.Key][]binding.AxisBinding
}

// New creates an empty table.
func New() *Table {
	t := &Table{}
	t.rebuild()
	return t
}

// Apply replaces the bindings of the previous Apply with the given ones and
// drops every directly installed binding whose name is not preserved. A
// preserved binding identical to one of the given bindings is kept once.
func (t *Table) Apply(actions []binding.ActionBinding, axes []binding.AxisBinding, preservedActions, preservedAxes []string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.extActions = slices.DeleteFunc(t.extActions, func(a binding.ActionBinding) bool {
		return !slices.Contains(preservedActions, a.Action) || slices.Contains(actions, a)
	})
	t.appliedActions = slices.Clone(actions)

	t.extAxes = slices.DeleteFunc(t.extAxes, func(a binding.AxisBinding) bool {
		return !slices.Contains(preservedAxes, a.Axis) || slices.Contains(axes, a)
	})
	t.appliedAxes = slices.Clone(axes)

	t.rebuild()
}

// AddAction installs an action binding directly.
func (t *Table) AddAction(b binding.ActionBinding) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.extActions = append(t.extActions, b)
	t.rebuild()
}

// AddAxis installs an axis binding directly.
func (t *Table) AddAxis(b binding.AxisBinding) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.extAxes = append(t.extAxes, b)
	t.rebuild()
}

// Clear removes every binding, preserved or not.
func (t *Table) Clear() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.extActions, t.appliedActions = nil, nil
	t.extAxes, t.appliedAxes = nil, nil
	t.rebuild()
}

// ActionsFor returns the names of the actions bound to exactly c.
func (t *Table) ActionsFor(c key.Chord) []string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return slices.Clone(t.byChord[c])
}

// AxesFor returns the axis bindings driven by k.
func (t *Table) AxesFor(k key.Key) []binding.AxisBinding {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return slices.Clone(t.byKey[k])
}

// Actions returns every action binding in installation order.
func (t *Table) Actions() []binding.ActionBinding {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return slices.Clone(t.actions)
}

// Axes returns every axis binding in installation order.
func (t *Table) Axes() []binding.AxisBinding {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return slices.Clone(t.axes)
}

// Len returns the number of bindings in the table.
func (t *Table) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.actions) + len(t.axes)
}

func (t *Table) rebuild() {
	t.actions = slices.Concat(t.extActions, t.appliedActions)
	t.axes = slices.Concat(t.extAxes, t.appliedAxes)

	t.byChord = make(map[key.Chord][]string, len(t.actions))
	for _, a := range t.actions {
		if a.Chord.IsNone() || slices.Contains(t.byChord[a.Chord], a.Action) {
			continue
		}
		t.byChord[a.Chord] = append(t.byChord[a.Chord], a.Action)
	}

	t.byKey = make(map[key.Key][]binding.AxisBinding, len(t.axes))
	for _, a := range t.axes {
		if a.Key.IsNone() {
			continue
		}
		t.byKey[a.Key] = append(t.byKey[a.Key], a)
	}
}
