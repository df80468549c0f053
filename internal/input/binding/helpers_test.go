package binding

import (
	"sort"
	"testing"

	"github.com/dshills/keybind/internal/input/key"
)

const (
	groupKBM     key.Group = "KeyboardMouse"
	groupGamepad key.Group = "Gamepad"

	stickY key.Key = "GamepadRightStickY"
)

// testConfig classifies gamepad keys as Gamepad and everything else as
// KeyboardMouse.
type testConfig struct {
	allowMultiple bool
	links         [][]int
	reported      []error
}

func (c *testConfig) KeyGroupOf(k key.Key) key.Group {
	switch {
	case k.IsNone():
		return key.NoGroup
	case k.IsGamepad():
		return groupGamepad
	default:
		return groupKBM
	}
}

func (c *testConfig) IsKeyGroupDefined(g key.Group) bool {
	return g == groupKBM || g == groupGamepad
}

func (c *testConfig) IsAxisKey(k key.Key) bool {
	switch k {
	case key.MouseX, key.MouseY, key.GamepadLeftX, key.GamepadLeftY, stickY:
		return true
	}
	return false
}

func (c *testConfig) UniqueBetween(a, b int) bool {
	if !c.allowMultiple {
		return true
	}
	for _, set := range c.links {
		if containsInt(set, a) && containsInt(set, b) {
			return true
		}
	}
	return false
}

func (c *testConfig) Report(err error) {
	c.reported = append(c.reported, err)
}

func containsInt(list []int, v int) bool {
	for _, x := range list {
		if x == v {
			return true
		}
	}
	return false
}

func act(name string, k key.Key) TrackedAction {
	return NewActionBinding(name, key.NewChord(k, key.ModNone)).Track(false)
}

func actMod(name string, k key.Key, mods key.Modifier) TrackedAction {
	return NewActionBinding(name, key.NewChord(k, mods)).Track(false)
}

func axis(name string, k key.Key, scale float32) TrackedAxis {
	return NewAxisBinding(name, k, scale).Track(false)
}

func actionKeys(list []TrackedAction) []string {
	var out []string
	for _, a := range list {
		out = append(out, a.ActionBinding.String())
	}
	sort.Strings(out)
	return out
}

func axisKeys(list []TrackedAxis) []string {
	var out []string
	for _, a := range list {
		out = append(out, a.AxisBinding.String())
	}
	sort.Strings(out)
	return out
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// assertSameBindings compares the real bindings of two layouts slot by slot,
// ignoring order within a slot.
func assertSameBindings(t *testing.T, got, want Layout) {
	t.Helper()
	n := max(got.Len(), want.Len())
	for i := 0; i < n; i++ {
		g, w := got.Slot(i), want.Slot(i)
		if ga, wa := actionKeys(g.Actions), actionKeys(w.Actions); !equalStrings(ga, wa) {
			t.Errorf("slot %d actions = %v, want %v", i, ga, wa)
		}
		if ga, wa := axisKeys(g.Axes), axisKeys(w.Axes); !equalStrings(ga, wa) {
			t.Errorf("slot %d axes = %v, want %v", i, ga, wa)
		}
	}
}

func sortedCopy(in []string) []string {
	if in == nil {
		return nil
	}
	out := append([]string(nil), in...)
	sort.Strings(out)
	return out
}
