package binding

import (
	"errors"
	"testing"

	"github.com/dshills/keybind/internal/input/key"
)

func TestSlotFindAllActions(t *testing.T) {
	cfg := &testConfig{}
	s := Slot{Actions: []TrackedAction{
		act("Jump", key.SpaceBar),
		act("Fire", key.LeftMouseButton),
		act("Jump", key.GamepadFaceBottom),
	}}

	tests := []struct {
		name  string
		group key.Group
		want  int
	}{
		{"Jump", key.NoGroup, 2},
		{"Jump", groupKBM, 1},
		{"Jump", groupGamepad, 1},
		{"Fire", groupGamepad, 0},
		{"Crouch", key.NoGroup, 0},
	}

	for _, tt := range tests {
		if got := s.FindAllActions(cfg, tt.name, tt.group); len(got) != tt.want {
			t.Errorf("FindAllActions(%q, %v) = %v, want %d results", tt.name, tt.group, got, tt.want)
		}
	}

	first, ok := s.FindFirstAction(cfg, "Jump", key.NoGroup)
	if !ok || first.Key() != key.GamepadFaceBottom {
		t.Errorf("FindFirstAction = %v, %v; want the most recent Jump", first, ok)
	}
	if len(cfg.reported) != 0 {
		t.Errorf("reported = %v, want none", cfg.reported)
	}
}

func TestSlotUndefinedKeyGroup(t *testing.T) {
	cfg := &testConfig{}
	s := Slot{Actions: []TrackedAction{act("Jump", key.SpaceBar), act("Jump", key.GamepadFaceBottom)}}

	got := s.FindAllActions(cfg, "Jump", "Steering")
	if len(got) != 2 {
		t.Errorf("FindAllActions with undefined group = %v, want every Jump", got)
	}
	if len(cfg.reported) != 1 {
		t.Fatalf("reported %d errors, want 1", len(cfg.reported))
	}
	if !errors.Is(cfg.reported[0], ErrUndefinedKeyGroup) {
		t.Errorf("reported %v, want ErrUndefinedKeyGroup", cfg.reported[0])
	}
	var kgErr *KeyGroupError
	if !errors.As(cfg.reported[0], &kgErr) || kgErr.Group != "Steering" {
		t.Errorf("reported %v, want KeyGroupError for Steering", cfg.reported[0])
	}
}

func TestSlotFindAllAxes(t *testing.T) {
	cfg := &testConfig{}
	s := Slot{Axes: []TrackedAxis{
		axis("MoveForward", "W", 1),
		axis("MoveForward", "S", -1),
		axis("MoveForward", key.GamepadLeftY, 1),
	}}

	tests := []struct {
		scale float32
		group key.Group
		want  []string
	}{
		{1, key.NoGroup, []string{"MoveForward(1)=Gamepad_LeftY", "MoveForward(1)=W"}},
		{-1, key.NoGroup, []string{"MoveForward(-1)=S", "MoveForward(1)=Gamepad_LeftY"}},
		{-1, groupKBM, []string{"MoveForward(-1)=S"}},
		{0.5, groupKBM, nil},
	}

	for _, tt := range tests {
		got := s.FindAllAxes(cfg, "MoveForward", tt.scale, tt.group)
		var names []string
		for _, a := range got {
			names = append(names, a.String())
		}
		if !equalStrings(sortedCopy(names), tt.want) {
			t.Errorf("FindAllAxes(%g, %v) = %v, want %v", tt.scale, tt.group, names, tt.want)
		}
	}

	if got := s.FindAllAxesAnyScale(cfg, "MoveForward", key.NoGroup); len(got) != 3 {
		t.Errorf("FindAllAxesAnyScale = %v, want 3 results", got)
	}
}

func TestSlotReplaceAction(t *testing.T) {
	cfg := &testConfig{}

	t.Run("same key group", func(t *testing.T) {
		s := Slot{
			Actions:        []TrackedAction{act("Jump", key.SpaceBar), act("Jump", key.GamepadFaceBottom)},
			UnboundActions: []TrackedAction{act("Jump", "Up"), act("Jump", key.GamepadFaceTop)},
		}

		evicted := s.ReplaceAction(cfg, act("Jump", "E"), false)

		if got := actionKeys(s.Actions); !equalStrings(got, []string{"Jump=E", "Jump=Gamepad_FaceButton_Bottom"}) {
			t.Errorf("Actions = %v", got)
		}
		if got := actionKeys(s.UnboundActions); !equalStrings(got, []string{"Jump=Gamepad_FaceButton_Top"}) {
			t.Errorf("UnboundActions = %v, want only the gamepad marker", got)
		}
		if len(evicted.Actions) != 0 {
			t.Errorf("evicted.Actions = %v, want none", evicted.Actions)
		}
		if got := actionKeys(evicted.UnboundActions); !equalStrings(got, []string{"Jump=SpaceBar"}) {
			t.Errorf("evicted.UnboundActions = %v", got)
		}
	})

	t.Run("any key group", func(t *testing.T) {
		s := Slot{Actions: []TrackedAction{act("Jump", key.SpaceBar), act("Jump", key.GamepadFaceBottom)}}

		evicted := s.ReplaceAction(cfg, act("Jump", "E"), true)

		if got := actionKeys(s.Actions); !equalStrings(got, []string{"Jump=E"}) {
			t.Errorf("Actions = %v", got)
		}
		if len(evicted.UnboundActions) != 2 {
			t.Errorf("evicted = %v, want both Jump bindings", evicted.UnboundActions)
		}
	})
}

func TestSlotReplaceDropsKeyless(t *testing.T) {
	cfg := &testConfig{}
	s := Slot{
		Actions: []TrackedAction{act("Jump", key.None), act("Fire", key.None)},
		Axes:    []TrackedAxis{axis("MoveForward", key.None, 1), axis("MoveForward", key.None, -1)},
	}

	evicted := s.ReplaceAction(cfg, act("Jump", key.SpaceBar), false)
	if got := actionKeys(s.Actions); !equalStrings(got, []string{"Fire=None", "Jump=SpaceBar"}) {
		t.Errorf("Actions = %v", got)
	}
	if len(evicted.UnboundActions) != 0 {
		t.Errorf("evicted.UnboundActions = %v, want none", evicted.UnboundActions)
	}

	s.ReplaceAxis(cfg, axis("MoveForward", "W", 1), false)
	if len(s.Axes) != 2 || s.Axes[0].Scale != -1 || s.Axes[1].Key != "W" {
		t.Errorf("Axes = %v, want the -1 keyless entry and W", s.Axes)
	}

	s.ReplaceAction(cfg, act("Fire", key.None), false)
	if got := actionKeys(s.Actions); !equalStrings(got, []string{"Fire=None", "Jump=SpaceBar"}) {
		t.Errorf("Actions after keyless replace = %v", got)
	}
}

func TestSlotReplaceAxis(t *testing.T) {
	cfg := &testConfig{}
	newSlot := func() Slot {
		return Slot{
			Axes: []TrackedAxis{axis("Look", "Up", 1), axis("Look", "Down", -1)},
			UnboundAxes: []TrackedAxis{
				axis("Look", "X", 1),
				axis("Look", "Y", -1),
				axis("Look", key.MouseY, 1),
			},
		}
	}

	t.Run("button replaces only its scale", func(t *testing.T) {
		s := newSlot()
		evicted := s.ReplaceAxis(cfg, axis("Look", "I", 1), false)

		if got := axisKeys(s.Axes); !equalStrings(got, []string{"Look(-1)=Down", "Look(1)=I"}) {
			t.Errorf("Axes = %v", got)
		}
		if got := axisKeys(evicted.UnboundAxes); !equalStrings(got, []string{"Look(1)=Up"}) {
			t.Errorf("evicted = %v", got)
		}
		if got := axisKeys(s.UnboundAxes); !equalStrings(got, []string{"Look(-1)=Y", "Look(1)=MouseY"}) {
			t.Errorf("UnboundAxes = %v, want the other scale and the axis-key marker kept", got)
		}
	})

	t.Run("axis key replaces every scale", func(t *testing.T) {
		s := newSlot()
		evicted := s.ReplaceAxis(cfg, axis("Look", key.MouseY, 1), false)

		if got := axisKeys(s.Axes); !equalStrings(got, []string{"Look(1)=MouseY"}) {
			t.Errorf("Axes = %v", got)
		}
		if got := axisKeys(evicted.UnboundAxes); !equalStrings(got, []string{"Look(-1)=Down", "Look(1)=Up"}) {
			t.Errorf("evicted = %v", got)
		}
		if len(s.UnboundAxes) != 0 {
			t.Errorf("UnboundAxes = %v, want all cleared", s.UnboundAxes)
		}
	})
}

func TestSlotUnbindChord(t *testing.T) {
	s := Slot{
		Actions: []TrackedAction{
			act("Fire", key.LeftMouseButton),
			actMod("Aim", key.LeftMouseButton, key.ModCtrl),
			actMod("Ping", key.LeftMouseButton, key.ModCmd),
		},
		Axes: []TrackedAxis{axis("Zoom", key.LeftMouseButton, 1)},
	}

	ctrl := s.Clone()
	evicted := ctrl.UnbindChord(key.LeftMouseButton, key.ModCtrl)
	if got := actionKeys(evicted.UnboundActions); !equalStrings(got, []string{"Aim=Ctrl+LeftMouseButton"}) {
		t.Errorf("Ctrl evicted = %v", got)
	}
	if len(ctrl.Axes) != 1 {
		t.Error("a modified chord must not evict axis bindings")
	}

	plain := s.Clone()
	evicted = plain.UnbindChord(key.LeftMouseButton, key.ModNone)
	if got := actionKeys(evicted.UnboundActions); !equalStrings(got, []string{"Fire=LeftMouseButton"}) {
		t.Errorf("plain evicted actions = %v", got)
	}
	if got := axisKeys(evicted.UnboundAxes); !equalStrings(got, []string{"Zoom(1)=LeftMouseButton"}) {
		t.Errorf("plain evicted axes = %v", got)
	}
	if len(plain.Actions) != 2 || len(plain.Axes) != 0 {
		t.Errorf("after plain unbind: actions %v axes %v", plain.Actions, plain.Axes)
	}
}

func TestSlotRemoveRedundant(t *testing.T) {
	cfg := &testConfig{}

	t.Run("real bindings", func(t *testing.T) {
		base := Slot{Actions: []TrackedAction{act("Jump", key.SpaceBar)}}
		s := Slot{Actions: []TrackedAction{act("Jump", key.SpaceBar), act("Fire", "E")}}
		s.RemoveRedundant(cfg, base)
		if got := actionKeys(s.Actions); !equalStrings(got, []string{"Fire=E"}) {
			t.Errorf("Actions = %v", got)
		}
	})

	t.Run("markers", func(t *testing.T) {
		base := Slot{Actions: []TrackedAction{act("Fire", key.LeftMouseButton)}}
		s := Slot{UnboundActions: []TrackedAction{act("Fire", key.LeftMouseButton), act("Crouch", "C")}}
		s.RemoveRedundant(cfg, base)
		if got := actionKeys(s.UnboundActions); !equalStrings(got, []string{"Fire=LeftMouseButton"}) {
			t.Errorf("UnboundActions = %v", got)
		}
	})

	t.Run("marker shielded by base axis key", func(t *testing.T) {
		base := Slot{Axes: []TrackedAxis{axis("Look", key.MouseY, 1)}}
		s := Slot{UnboundAxes: []TrackedAxis{axis("Look", "Down", -1), axis("Turn", "Left", -1)}}
		s.RemoveRedundant(cfg, base)
		if got := axisKeys(s.UnboundAxes); !equalStrings(got, []string{"Look(-1)=Down"}) {
			t.Errorf("UnboundAxes = %v", got)
		}
	})

	t.Run("axis overriding an unbound axis key", func(t *testing.T) {
		base := Slot{Axes: []TrackedAxis{axis("MoveForward", "W", 1), axis("MoveForward", key.MouseY, 1)}}
		s := Slot{
			Axes:        []TrackedAxis{axis("MoveForward", "W", 1)},
			UnboundAxes: []TrackedAxis{axis("MoveForward", key.MouseY, 1)},
		}
		s.RemoveRedundant(cfg, base)
		if len(s.Axes) != 1 {
			t.Errorf("Axes = %v, want W kept", s.Axes)
		}
		if len(s.UnboundAxes) != 1 {
			t.Errorf("UnboundAxes = %v, want the axis-key marker kept", s.UnboundAxes)
		}
	})
}

func TestSlotToUnboundAndDefaults(t *testing.T) {
	s := Slot{
		Actions: []TrackedAction{act("Jump", key.SpaceBar)},
		Axes:    []TrackedAxis{axis("MoveForward", "W", 1)},
	}
	s.MarkAllDefault()
	if !s.Actions[0].IsDefault || !s.Axes[0].IsDefault {
		t.Error("MarkAllDefault should flag every binding")
	}

	u := s.ToUnbound()
	if len(u.Actions) != 0 || len(u.Axes) != 0 {
		t.Error("ToUnbound should hold no real bindings")
	}
	if len(u.UnboundActions) != 1 || len(u.UnboundAxes) != 1 {
		t.Errorf("ToUnbound = %+v", u)
	}

	plain := Slot{
		Actions: []TrackedAction{act("Jump", key.SpaceBar)},
		Axes:    []TrackedAxis{axis("MoveForward", "W", 1)},
	}
	if !s.Equal(plain) {
		t.Error("Equal should ignore IsDefault")
	}
}

func TestSlotRemoveEmptyMarkers(t *testing.T) {
	s := Slot{
		UnboundActions: []TrackedAction{act("Jump", key.None), act("Fire", key.LeftMouseButton)},
		UnboundAxes:    []TrackedAxis{axis("Look", key.None, 1)},
	}
	s.RemoveEmptyMarkers()
	if len(s.UnboundActions) != 1 || s.UnboundActions[0].Action != "Fire" {
		t.Errorf("UnboundActions = %v", s.UnboundActions)
	}
	if len(s.UnboundAxes) != 0 {
		t.Errorf("UnboundAxes = %v", s.UnboundAxes)
	}
}
