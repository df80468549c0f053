package key

import "strings"

// Modifier is the set of modifier flags held with a chord's key: the
// shift, ctrl, alt and cmd booleans of a captured key press packed into
// one value.
type Modifier uint8

const (
	// ModNone indicates no modifiers.
	ModNone Modifier = 0

	ModShift Modifier = 1 << iota
	ModCtrl
	ModAlt
	// ModCmd is Command on macOS and the Windows key elsewhere.
	ModCmd
)

// modifierLabels lists the flags in display order.
var modifierLabels = []struct {
	mod   Modifier
	label string
}{
	{ModCtrl, "Ctrl"},
	{ModAlt, "Alt"},
	{ModShift, "Shift"},
	{ModCmd, "Cmd"},
}

// modifierNames maps lower-case names accepted in chord strings.
var modifierNames = map[string]Modifier{
	"shift":   ModShift,
	"ctrl":    ModCtrl,
	"control": ModCtrl,
	"alt":     ModAlt,
	"option":  ModAlt,
	"cmd":     ModCmd,
	"command": ModCmd,
	"meta":    ModCmd,
	"win":     ModCmd,
}

// modifierKeys maps the physical modifier keys to the flag they raise.
var modifierKeys = map[Key]Modifier{
	LeftShift:    ModShift,
	RightShift:   ModShift,
	LeftControl:  ModCtrl,
	RightControl: ModCtrl,
	LeftAlt:      ModAlt,
	RightAlt:     ModAlt,
	LeftCommand:  ModCmd,
	RightCommand: ModCmd,
}

// ModifierOf returns the flag raised by pressing k, or ModNone when k is
// not a modifier key.
func ModifierOf(k Key) Modifier {
	return modifierKeys[k]
}

// Has reports whether every flag in mod is set in m.
func (m Modifier) Has(mod Modifier) bool {
	return mod != ModNone && m&mod == mod
}

// HasCtrl reports whether Ctrl is held.
func (m Modifier) HasCtrl() bool {
	return m.Has(ModCtrl)
}

// With returns m with mod added.
func (m Modifier) With(mod Modifier) Modifier {
	return m | mod
}

// Without returns m with mod removed.
func (m Modifier) Without(mod Modifier) Modifier {
	return m &^ mod
}

// IsEmpty reports whether no flag is set.
func (m Modifier) IsEmpty() bool {
	return m == ModNone
}

// ReachesAxes reports whether a chord held with m can collide with axis
// bindings on the same key. Axis bindings never carry modifiers, so only a
// bare key press can.
func (m Modifier) ReachesAxes() bool {
	return m.IsEmpty()
}

// String returns the flags joined in "Ctrl+Alt+Shift+Cmd" order.
func (m Modifier) String() string {
	var parts []string
	for _, l := range modifierLabels {
		if m.Has(l.mod) {
			parts = append(parts, l.label)
		}
	}
	return strings.Join(parts, "+")
}

// lookupModifier returns the flag named name, case-insensitively.
func lookupModifier(name string) (Modifier, bool) {
	m, ok := modifierNames[strings.ToLower(strings.TrimSpace(name))]
	return m, ok
}
