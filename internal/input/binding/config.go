package binding

import "github.com/dshills/keybind/internal/input/key"

// Config is the read-only policy every binding operation consults.
type Config interface {
	// KeyGroupOf returns the group classifying k, or key.NoGroup.
	KeyGroupOf(k key.Key) key.Group

	// IsKeyGroupDefined returns true if g names a configured key group.
	IsKeyGroupDefined(g key.Group) bool

	// IsAxisKey returns true if k is a continuous-axis input.
	IsAxisKey(k key.Key) bool

	// UniqueBetween returns true if a key may not be bound in both slot a
	// and slot b at once.
	UniqueBetween(a, b int) bool
}

// Reporter is implemented by configs that want to hear about lookups the
// engine tolerated but considers a configuration error.
type Reporter interface {
	Report(err error)
}

// filterGroup returns the group a lookup should filter by. An undefined group
// is reported to cfg and treated as no classification.
func filterGroup(cfg Config, g key.Group) key.Group {
	if g.IsNone() || cfg.IsKeyGroupDefined(g) {
		return g
	}
	if r, ok := cfg.(Reporter); ok {
		r.Report(&KeyGroupError{Group: g})
	}
	return key.NoGroup
}

// inGroup reports whether k belongs to g, where NoGroup matches anything.
func inGroup(cfg Config, k key.Key, g key.Group) bool {
	return g.IsNone() || cfg.KeyGroupOf(k) == g
}
