package key

import (
	"errors"
	"fmt"
	"strings"
)

// Parse errors
var (
	ErrEmptySpec   = errors.New("empty chord specification")
	ErrInvalidSpec = errors.New("invalid chord specification")
)

// ParseChord parses a chord specification such as "Ctrl+Shift+F" or "SpaceBar".
//
// All but the last "+" separated part must be modifier names. The last part is
// the key name and is normalized with FromName. "None" parses to the empty
// chord.
func ParseChord(spec string) (Chord, error) {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return Chord{}, ErrEmptySpec
	}

	parts := strings.Split(spec, "+")
	var mods Modifier
	for _, p := range parts[:len(parts)-1] {
		mod, ok := lookupModifier(p)
		if !ok {
			return Chord{}, fmt.Errorf("%w: unknown modifier %q", ErrInvalidSpec, strings.TrimSpace(p))
		}
		mods = mods.With(mod)
	}

	keyPart := strings.TrimSpace(parts[len(parts)-1])
	if keyPart == "" {
		return Chord{}, fmt.Errorf("%w: missing key in %q", ErrInvalidSpec, spec)
	}

	k := FromName(keyPart)
	if k.IsNone() {
		if !mods.IsEmpty() {
			return Chord{}, fmt.Errorf("%w: modifiers without a key in %q", ErrInvalidSpec, spec)
		}
		return Chord{}, nil
	}
	return NewChord(k, mods), nil
}

// MustParseChord parses a chord specification and panics on error.
// Use only for known-valid specs in initialization code and tests.
func MustParseChord(spec string) Chord {
	c, err := ParseChord(spec)
	if err != nil {
		panic("invalid chord specification: " + spec + ": " + err.Error())
	}
	return c
}
