package preset

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/dshills/keybind/internal/config/loader"
	"github.com/dshills/keybind/internal/input/binding"
	"github.com/dshills/keybind/internal/input/key"
)

// Preset is a named base layout of default bindings.
type Preset struct {
	// Tag identifies the preset.
	Tag string
	// Title is a display name.
	Title string
	// Layout holds the default bindings, every one flagged default.
	Layout binding.Layout
	// Source is the file the preset was read from, if any.
	Source string
}

// FromDefaults builds a preset from a flat default list. Bindings are packed
// into slots so that repeated names land in successive slots.
func FromDefaults(cfg binding.Config, tag string, actions []binding.ActionBinding, axes []binding.AxisBinding) Preset {
	layout := binding.BucketAssign(cfg, actions, axes)
	layout.MarkAllDefault()
	return Preset{Tag: tag, Layout: layout}
}

// FromLayout builds a preset from explicit slots.
func FromLayout(tag string, layout binding.Layout) Preset {
	layout = layout.Clone()
	layout.MarkAllDefault()
	return Preset{Tag: tag, Layout: layout}
}

// File is the on-disk form of a preset.
//
// Either Slots lists the bindings of each slot explicitly, or Actions and
// Axes give a flat list that is packed into slots. In TOML, axis scales
// must be written as floats (1.0, not 1). A .lua preset returns a table of
// the same shape.
type File struct {
	Tag     string       `toml:"tag" yaml:"tag"`
	Title   string       `toml:"title" yaml:"title"`
	Actions []ActionSpec `toml:"actions" yaml:"actions"`
	Axes    []AxisSpec   `toml:"axes" yaml:"axes"`
	Slots   []SlotSpec   `toml:"slots" yaml:"slots"`
}

// ActionSpec is one action binding, with its chord written as "Ctrl+F".
type ActionSpec struct {
	Name  string `toml:"name" yaml:"name"`
	Chord string `toml:"chord" yaml:"chord"`
}

// AxisSpec is one axis binding.
type AxisSpec struct {
	Name  string  `toml:"name" yaml:"name"`
	Key   string  `toml:"key" yaml:"key"`
	Scale float32 `toml:"scale" yaml:"scale"`
}

// SlotSpec lists the bindings of one slot.
type SlotSpec struct {
	Actions []ActionSpec `toml:"actions" yaml:"actions"`
	Axes    []AxisSpec   `toml:"axes" yaml:"axes"`
}

// Build converts the file into a preset. The tag defaults to fallbackTag.
func (f *File) Build(cfg binding.Config, fallbackTag string) (Preset, error) {
	tag := f.Tag
	if tag == "" {
		tag = fallbackTag
	}
	if tag == NullTag {
		return Preset{}, fmt.Errorf("%w: %q", ErrReservedTag, tag)
	}

	var p Preset
	if len(f.Slots) > 0 {
		slots := make([]binding.Slot, 0, len(f.Slots))
		for i, s := range f.Slots {
			actions, err := parseActions(s.Actions)
			if err != nil {
				return Preset{}, fmt.Errorf("slot %d: %w", i, err)
			}
			slot := binding.Slot{}
			for _, a := range actions {
				slot.Actions = append(slot.Actions, a.Track(true))
			}
			for _, a := range parseAxes(s.Axes) {
				slot.Axes = append(slot.Axes, a.Track(true))
			}
			slots = append(slots, slot)
		}
		p = FromLayout(tag, binding.NewLayout(slots...))
	} else {
		actions, err := parseActions(f.Actions)
		if err != nil {
			return Preset{}, err
		}
		p = FromDefaults(cfg, tag, actions, parseAxes(f.Axes))
	}

	p.Title = f.Title
	return p, nil
}

func parseActions(specs []ActionSpec) ([]binding.ActionBinding, error) {
	out := make([]binding.ActionBinding, 0, len(specs))
	for _, s := range specs {
		chord, err := key.ParseChord(s.Chord)
		if err != nil {
			return nil, fmt.Errorf("action %s: %w", s.Name, err)
		}
		out = append(out, binding.NewActionBinding(s.Name, chord))
	}
	return out, nil
}

func parseAxes(specs []AxisSpec) []binding.AxisBinding {
	out := make([]binding.AxisBinding, 0, len(specs))
	for _, s := range specs {
		out = append(out, binding.NewAxisBinding(s.Name, key.FromName(s.Key), s.Scale))
	}
	return out
}

// LoadFile reads the preset file at path. The tag defaults to the file name
// without its extension.
func LoadFile(fsys loader.FileSystem, cfg binding.Config, path string) (Preset, error) {
	dec := loader.DecoderFor(path)
	if dec == nil {
		return Preset{}, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}

	data, err := fsys.ReadFile(path)
	if err != nil {
		return Preset{}, fmt.Errorf("reading preset %s: %w", path, err)
	}

	var f File
	if err := dec.Decode(path, data, &f); err != nil {
		return Preset{}, err
	}

	p, err := f.Build(cfg, TagFromPath(path))
	if err != nil {
		return Preset{}, fmt.Errorf("loading preset %s: %w", path, err)
	}
	p.Source = path
	return p, nil
}

// TagFromPath returns the file name of path without its extension.
func TagFromPath(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// IsPresetFile reports whether path has a preset file extension.
func IsPresetFile(path string) bool {
	return loader.DecoderFor(path) != nil
}
