package store

import (
	"fmt"

	"github.com/dshills/keybind/internal/input/binding"
	"github.com/dshills/keybind/internal/input/key"
	"github.com/dshills/keybind/internal/player"
)

// CurrentVersion is the record layout written by this package.
// Records without a version predate it and may need Migrate.
const CurrentVersion = 1

// Record is the stored form of a player state.
type Record struct {
	Version  int          `yaml:"version"`
	ID       string       `yaml:"id"`
	Preset   string       `yaml:"preset"`
	KeyGroup string       `yaml:"key_group,omitempty"`
	Slots    []SlotRecord `yaml:"slots,omitempty"`

	// PlayerIndex identified players before string IDs existed.
	PlayerIndex *int `yaml:"player_index,omitempty"`

	// Snapshot is the full preset copy older records kept instead of a delta.
	Snapshot *LegacyPreset `yaml:"legacy_preset,omitempty"`
}

// SlotRecord is the stored form of one slot.
type SlotRecord struct {
	Actions        []ActionRecord `yaml:"actions,omitempty"`
	Axes           []AxisRecord   `yaml:"axes,omitempty"`
	UnboundActions []ActionRecord `yaml:"unbound_actions,omitempty"`
	UnboundAxes    []AxisRecord   `yaml:"unbound_axes,omitempty"`
}

// ActionRecord stores an action binding with its chord in "Ctrl+Key" form.
type ActionRecord struct {
	Action  string `yaml:"action"`
	Chord   string `yaml:"chord"`
	Default bool   `yaml:"default,omitempty"`
}

// AxisRecord stores an axis binding.
type AxisRecord struct {
	Axis    string  `yaml:"axis"`
	Key     string  `yaml:"key"`
	Scale   float32 `yaml:"scale"`
	Default bool    `yaml:"default,omitempty"`
}

// LegacyPreset is the preset snapshot of a pre-delta record.
type LegacyPreset struct {
	Tag   string       `yaml:"tag"`
	Slots []SlotRecord `yaml:"slots"`
}

// NewRecord encodes s at CurrentVersion.
func NewRecord(s *player.State) *Record {
	return &Record{
		Version:  CurrentVersion,
		ID:       s.ID,
		Preset:   s.PresetTag,
		KeyGroup: string(s.KeyGroup),
		Slots:    encodeLayout(s.Overrides),
	}
}

// IsLegacy reports whether r still carries fields Migrate converts.
func (r *Record) IsLegacy() bool {
	return r.Snapshot != nil || (r.ID == "" && r.PlayerIndex != nil)
}

// State decodes r. Legacy fields are ignored; use Migrate to honor them.
func (r *Record) State() (*player.State, error) {
	overrides, err := decodeLayout(r.Slots)
	if err != nil {
		return nil, fmt.Errorf("decoding record %q: %w", r.ID, err)
	}
	s := player.New(r.ID, r.Preset, key.Group(r.KeyGroup))
	s.Overrides = overrides
	return s, nil
}

// Clone returns a deep copy of r.
func (r *Record) Clone() *Record {
	out := *r
	out.Slots = cloneSlots(r.Slots)
	if r.PlayerIndex != nil {
		idx := *r.PlayerIndex
		out.PlayerIndex = &idx
	}
	if r.Snapshot != nil {
		snap := LegacyPreset{Tag: r.Snapshot.Tag, Slots: cloneSlots(r.Snapshot.Slots)}
		out.Snapshot = &snap
	}
	return &out
}

func cloneSlots(slots []SlotRecord) []SlotRecord {
	if slots == nil {
		return nil
	}
	out := make([]SlotRecord, len(slots))
	for i, s := range slots {
		out[i] = SlotRecord{
			Actions:        append([]ActionRecord(nil), s.Actions...),
			Axes:           append([]AxisRecord(nil), s.Axes...),
			UnboundActions: append([]ActionRecord(nil), s.UnboundActions...),
			UnboundAxes:    append([]AxisRecord(nil), s.UnboundAxes...),
		}
	}
	return out
}

func encodeLayout(l binding.Layout) []SlotRecord {
	if len(l.Slots) == 0 {
		return nil
	}
	out := make([]SlotRecord, len(l.Slots))
	for i, s := range l.Slots {
		out[i] = SlotRecord{
			Actions:        encodeActions(s.Actions),
			Axes:           encodeAxes(s.Axes),
			UnboundActions: encodeActions(s.UnboundActions),
			UnboundAxes:    encodeAxes(s.UnboundAxes),
		}
	}
	return out
}

func encodeActions(list []binding.TrackedAction) []ActionRecord {
	var out []ActionRecord
	for _, a := range list {
		out = append(out, ActionRecord{Action: a.Action, Chord: a.Chord.String(), Default: a.IsDefault})
	}
	return out
}

func encodeAxes(list []binding.TrackedAxis) []AxisRecord {
	var out []AxisRecord
	for _, a := range list {
		out = append(out, AxisRecord{Axis: a.Axis, Key: string(a.Key), Scale: a.Scale, Default: a.IsDefault})
	}
	return out
}

func decodeLayout(slots []SlotRecord) (binding.Layout, error) {
	var l binding.Layout
	for i, sr := range slots {
		var s binding.Slot
		var err error
		if s.Actions, err = decodeActions(sr.Actions); err != nil {
			return binding.Layout{}, fmt.Errorf("slot %d: %w", i, err)
		}
		if s.UnboundActions, err = decodeActions(sr.UnboundActions); err != nil {
			return binding.Layout{}, fmt.Errorf("slot %d: %w", i, err)
		}
		s.Axes = decodeAxes(sr.Axes)
		s.UnboundAxes = decodeAxes(sr.UnboundAxes)
		l.Slots = append(l.Slots, s)
	}
	return l, nil
}

func decodeActions(list []ActionRecord) ([]binding.TrackedAction, error) {
	var out []binding.TrackedAction
	for _, a := range list {
		c, err := key.ParseChord(a.Chord)
		if err != nil {
			return nil, fmt.Errorf("action %q: %w", a.Action, err)
		}
		out = append(out, binding.NewActionBinding(a.Action, c).Track(a.Default))
	}
	return out, nil
}

func decodeAxes(list []AxisRecord) []binding.TrackedAxis {
	var out []binding.TrackedAxis
	for _, a := range list {
		out = append(out, binding.NewAxisBinding(a.Axis, key.Key(a.Key), a.Scale).Track(a.Default))
	}
	return out
}
