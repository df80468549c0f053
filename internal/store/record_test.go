package store

import (
	"errors"
	"testing"

	"github.com/dshills/keybind/internal/config"
	"github.com/dshills/keybind/internal/input/binding"
	"github.com/dshills/keybind/internal/input/key"
	"github.com/dshills/keybind/internal/player"
	"github.com/dshills/keybind/internal/preset"
)

func intPtr(v int) *int {
	return &v
}

func TestRecordStateRoundTrip(t *testing.T) {
	cfg := config.Default()
	env := player.Env{Config: cfg}

	s := player.New("alice", preset.NullTag, "Gamepad")
	s.RebindAction(env, binding.NewActionBinding("Jump", key.MustParseChord("Ctrl+Shift+J")), 0, false)
	s.RebindAction(env, binding.NewActionBinding("Fire", key.MustParseChord("J")), 0, false)
	s.RebindAxis(env, binding.NewAxisBinding("Look", key.GamepadRightY, -1), 1, false)
	s.Overrides.Slots[0].UnboundActions = append(s.Overrides.Slots[0].UnboundActions,
		binding.NewActionBinding("Crouch", key.Chord{}).Track(false))

	got, err := NewRecord(s).State()
	if err != nil {
		t.Fatalf("State() error = %v", err)
	}
	if got.ID != s.ID || got.PresetTag != s.PresetTag || got.KeyGroup != s.KeyGroup {
		t.Errorf("State() = %+v, want %+v", got, s)
	}
	if !got.Overrides.Equal(s.Overrides) {
		t.Errorf("Overrides = %v, want %v", got.Overrides, s.Overrides)
	}
}

func TestRecordKeepsDefaultFlags(t *testing.T) {
	s := player.New("alice", "default", key.NoGroup)
	s.Overrides = binding.NewLayout(binding.Slot{
		Actions: []binding.TrackedAction{binding.NewActionBinding("Jump", key.NewChord(key.SpaceBar, key.ModNone)).Track(true)},
	})

	got, err := NewRecord(s).State()
	if err != nil {
		t.Fatalf("State() error = %v", err)
	}
	if !got.Overrides.Slots[0].Actions[0].IsDefault {
		t.Error("IsDefault lost in round trip")
	}
}

func TestRecordBadChord(t *testing.T) {
	rec := &Record{ID: "alice", Slots: []SlotRecord{{
		Actions: []ActionRecord{{Action: "Jump", Chord: "Hyper+J"}},
	}}}
	_, err := rec.State()
	if !errors.Is(err, key.ErrInvalidSpec) {
		t.Errorf("State() error = %v, want ErrInvalidSpec", err)
	}
}

func TestRecordIsLegacy(t *testing.T) {
	tests := []struct {
		name string
		rec  Record
		want bool
	}{
		{"current", Record{Version: CurrentVersion, ID: "alice"}, false},
		{"index only", Record{PlayerIndex: intPtr(0)}, true},
		{"index with id", Record{ID: "alice", PlayerIndex: intPtr(0)}, false},
		{"snapshot", Record{ID: "alice", Snapshot: &LegacyPreset{Tag: "default"}}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.rec.IsLegacy(); got != tt.want {
				t.Errorf("IsLegacy() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRecordClone(t *testing.T) {
	rec := sampleRecord("alice")
	rec.PlayerIndex = intPtr(2)
	rec.Snapshot = &LegacyPreset{Tag: "default", Slots: []SlotRecord{{Actions: []ActionRecord{{Action: "Jump", Chord: "SpaceBar"}}}}}

	c := rec.Clone()
	c.Slots[0].Actions[0].Action = "Changed"
	*c.PlayerIndex = 5
	c.Snapshot.Slots[0].Actions[0].Chord = "Enter"

	if rec.Slots[0].Actions[0].Action != "Jump" {
		t.Error("Clone shares slots")
	}
	if *rec.PlayerIndex != 2 {
		t.Error("Clone shares PlayerIndex")
	}
	if rec.Snapshot.Slots[0].Actions[0].Chord != "SpaceBar" {
		t.Error("Clone shares snapshot")
	}
}
