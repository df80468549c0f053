package config

import (
	"errors"
	"slices"

	"github.com/dshills/keybind/internal/input/binding"
	"github.com/dshills/keybind/internal/input/key"
	"github.com/dshills/keybind/internal/logging"
	"github.com/dshills/keybind/internal/suggest"
)

// KeyGroup classifies input keys, usually by device family.
type KeyGroup struct {
	// Tag names the group.
	Tag key.Group `toml:"tag"`
	// UseGamepadKeys makes every gamepad key a member.
	UseGamepadKeys bool `toml:"use_gamepad_keys"`
	// UseNonGamepadKeys makes every keyboard and mouse key a member.
	UseNonGamepadKeys bool `toml:"use_non_gamepad_keys"`
	// Keys lists additional members.
	Keys []key.Key `toml:"keys"`
}

// Contains reports whether k belongs to the group.
func (g KeyGroup) Contains(k key.Key) bool {
	gamepad := k.IsGamepad()
	if gamepad && g.UseGamepadKeys {
		return true
	}
	if !gamepad && g.UseNonGamepadKeys {
		return true
	}
	return slices.Contains(g.Keys, k)
}

// KeyScale pairs a button with the axis value it produces.
type KeyScale struct {
	Key   key.Key `toml:"key"`
	Scale float32 `toml:"scale"`
}

// AxisAssociation relates a continuous-axis key to the buttons that stand in
// for it.
type AxisAssociation struct {
	AxisKey key.Key    `toml:"axis_key"`
	Buttons []KeyScale `toml:"buttons"`
}

// Config is the binding policy.
type Config struct {
	// KeyGroups are checked in order; a key belongs to the first group
	// containing it.
	KeyGroups []KeyGroup `toml:"key_groups"`

	// DefaultKeyGroupTag is the group new players start with. Empty means
	// the first entry of KeyGroups.
	DefaultKeyGroupTag key.Group `toml:"default_key_group"`

	AxisAssociations []AxisAssociation `toml:"axis_associations"`

	// AllowMultipleBindingsPerKey lets one key drive several bindings
	// unless the slots involved share a link set.
	AllowMultipleBindingsPerKey bool `toml:"allow_multiple_bindings_per_key"`

	// AllowModifierKeys permits Shift, Ctrl, Alt and Cmd on action chords.
	AllowModifierKeys bool `toml:"allow_modifier_keys"`

	// SlotLinks are sets of slot indices that never share a key.
	SlotLinks [][]int `toml:"slot_links"`

	// PreservedActions and PreservedAxes are never removed from the live
	// router when bindings are applied.
	PreservedActions []string `toml:"preserved_actions"`
	PreservedAxes    []string `toml:"preserved_axes"`

	// AllowedKeys restricts binding to the listed keys when non-empty.
	AllowedKeys []key.Key `toml:"allowed_keys"`
	// DisallowedKeys can never be bound.
	DisallowedKeys []key.Key `toml:"disallowed_keys"`

	PresetDir     string `toml:"preset_dir"`
	DefaultPreset string `toml:"default_preset"`
	LogLevel      string `toml:"log_level"`

	logger *logging.Logger
}

var (
	_ binding.Config   = (*Config)(nil)
	_ binding.Reporter = (*Config)(nil)
)

// SetLogger sets the logger that receives diagnostics.
func (c *Config) SetLogger(l *logging.Logger) {
	c.logger = l
}

// KeyGroupOf returns the first group containing k, or key.NoGroup.
func (c *Config) KeyGroupOf(k key.Key) key.Group {
	if k.IsNone() {
		return key.NoGroup
	}
	for _, g := range c.KeyGroups {
		if g.Contains(k) {
			return g.Tag
		}
	}
	return key.NoGroup
}

// IsKeyGroupDefined returns true if g names a configured key group.
func (c *Config) IsKeyGroupDefined(g key.Group) bool {
	if g.IsNone() {
		return false
	}
	for _, kg := range c.KeyGroups {
		if kg.Tag == g {
			return true
		}
	}
	return false
}

// DefaultKeyGroup returns the group new players start with.
func (c *Config) DefaultKeyGroup() key.Group {
	if !c.DefaultKeyGroupTag.IsNone() {
		return c.DefaultKeyGroupTag
	}
	if len(c.KeyGroups) > 0 {
		return c.KeyGroups[0].Tag
	}
	return key.NoGroup
}

// KeyGroupTags returns the defined group tags in order.
func (c *Config) KeyGroupTags() []string {
	tags := make([]string, 0, len(c.KeyGroups))
	for _, g := range c.KeyGroups {
		tags = append(tags, string(g.Tag))
	}
	return tags
}

// IsAxisKey returns true if k is the axis key of some association.
func (c *Config) IsAxisKey(k key.Key) bool {
	if k.IsNone() {
		return false
	}
	for _, a := range c.AxisAssociations {
		if a.AxisKey == k {
			return true
		}
	}
	return false
}

// AxisForButton returns the axis key and scale a button stands in for.
func (c *Config) AxisForButton(k key.Key) (key.Key, float32, bool) {
	if k.IsNone() {
		return key.None, 0, false
	}
	for _, a := range c.AxisAssociations {
		for _, b := range a.Buttons {
			if b.Key == k {
				return a.AxisKey, b.Scale, true
			}
		}
	}
	return key.None, 0, false
}

// ButtonForAxis returns the button producing scale on the axis key.
func (c *Config) ButtonForAxis(axisKey key.Key, scale float32) (key.Key, bool) {
	for _, a := range c.AxisAssociations {
		if a.AxisKey != axisKey {
			continue
		}
		for _, b := range a.Buttons {
			if b.Scale == scale {
				return b.Key, true
			}
		}
		return key.None, false
	}
	return key.None, false
}

// UniqueBetween reports whether slots a and b may not share a key.
func (c *Config) UniqueBetween(a, b int) bool {
	if !c.AllowMultipleBindingsPerKey {
		return true
	}
	for _, link := range c.SlotLinks {
		if slices.Contains(link, a) && slices.Contains(link, b) {
			return true
		}
	}
	return false
}

// IsKeyAllowed reports whether k may be bound at all.
func (c *Config) IsKeyAllowed(k key.Key) bool {
	if len(c.AllowedKeys) > 0 && !slices.Contains(c.AllowedKeys, k) {
		return false
	}
	return !slices.Contains(c.DisallowedKeys, k)
}

// PreservedActionNames returns the action names the router must keep.
func (c *Config) PreservedActionNames() []string {
	return slices.Clone(c.PreservedActions)
}

// PreservedAxisNames returns the axis names the router must keep.
func (c *Config) PreservedAxisNames() []string {
	return slices.Clone(c.PreservedAxes)
}

// Report logs a configuration problem the engine tolerated.
func (c *Config) Report(err error) {
	log := logging.OrNull(c.logger)

	var kgErr *binding.KeyGroupError
	if errors.As(err, &kgErr) {
		log.Warn("%v%s", err, suggest.Hint(string(kgErr.Group), c.KeyGroupTags()))
		return
	}
	log.Warn("%v", err)
}

// Clone returns a deep copy of c sharing its logger.
func (c *Config) Clone() *Config {
	out := *c
	out.KeyGroups = make([]KeyGroup, len(c.KeyGroups))
	for i, g := range c.KeyGroups {
		g.Keys = slices.Clone(g.Keys)
		out.KeyGroups[i] = g
	}
	out.AxisAssociations = make([]AxisAssociation, len(c.AxisAssociations))
	for i, a := range c.AxisAssociations {
		a.Buttons = slices.Clone(a.Buttons)
		out.AxisAssociations[i] = a
	}
	out.SlotLinks = make([][]int, len(c.SlotLinks))
	for i, l := range c.SlotLinks {
		out.SlotLinks[i] = slices.Clone(l)
	}
	out.PreservedActions = slices.Clone(c.PreservedActions)
	out.PreservedAxes = slices.Clone(c.PreservedAxes)
	out.AllowedKeys = slices.Clone(c.AllowedKeys)
	out.DisallowedKeys = slices.Clone(c.DisallowedKeys)
	return &out
}
