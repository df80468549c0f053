package key

// Chord is a key plus the modifiers that must be held with it.
// Only action bindings carry modifiers; axis bindings use ModNone.
type Chord struct {
	Key       Key
	Modifiers Modifier
}

// NewChord creates a chord from a key and modifiers. A modifier key does not
// carry its own flag: LeftShift captured with Shift held is plain LeftShift.
func NewChord(k Key, mods Modifier) Chord {
	return Chord{Key: k, Modifiers: mods.Without(ModifierOf(k))}
}

// IsNone returns true if the chord has no key.
func (c Chord) IsNone() bool {
	return c.Key.IsNone()
}

// Matches reports whether c is exactly k with mods held.
func (c Chord) Matches(k Key, mods Modifier) bool {
	return c.Key == k && c.Modifiers == mods
}

// String returns the chord in "Ctrl+Shift+Key" form.
func (c Chord) String() string {
	if c.Modifiers.IsEmpty() {
		return c.Key.String()
	}
	return c.Modifiers.String() + "+" + c.Key.String()
}
