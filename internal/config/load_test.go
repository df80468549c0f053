package config

import (
	"errors"
	"testing"
	"testing/fstest"

	"github.com/dshills/keybind/internal/input/key"
)

func TestLoad_File(t *testing.T) {
	memfs := fstest.MapFS{
		"keybind.toml": {Data: []byte(`
allow_multiple_bindings_per_key = true
allow_modifier_keys = false
slot_links = [[0, 1]]
preserved_actions = ["Pause"]
disallowed_keys = ["Escape"]
preset_dir = "presets"
default_key_group = "Pad"

[[key_groups]]
tag = "Keys"
use_non_gamepad_keys = true

[[key_groups]]
tag = "Pad"
use_gamepad_keys = true

[[axis_associations]]
axis_key = "MouseY"
buttons = [{ key = "MouseUp", scale = 1.0 }, { key = "MouseDown", scale = -1.0 }]
`)},
	}

	cfg, err := Load("keybind.toml", WithFS(memfs), WithEnvLoader(nil))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if !cfg.AllowMultipleBindingsPerKey {
		t.Error("AllowMultipleBindingsPerKey = false, want true")
	}
	if cfg.AllowModifierKeys {
		t.Error("AllowModifierKeys = true, want false")
	}
	if !cfg.UniqueBetween(0, 1) || cfg.UniqueBetween(0, 2) {
		t.Error("slot links not applied")
	}
	if got := cfg.KeyGroupOf(key.GamepadFaceTop); got != "Pad" {
		t.Errorf("KeyGroupOf(FaceTop) = %q, want Pad", got)
	}
	if got := cfg.DefaultKeyGroup(); got != "Pad" {
		t.Errorf("DefaultKeyGroup() = %q, want Pad", got)
	}
	if len(cfg.AxisAssociations) != 1 || !cfg.IsAxisKey(key.MouseY) || cfg.IsAxisKey(key.MouseX) {
		t.Errorf("AxisAssociations = %v, want only MouseY", cfg.AxisAssociations)
	}
	if cfg.IsKeyAllowed(key.Escape) {
		t.Error("Escape should be disallowed")
	}
	if cfg.PresetDir != "presets" {
		t.Errorf("PresetDir = %q, want presets", cfg.PresetDir)
	}
	// Unset in the file, so the default survives.
	if cfg.DefaultPreset != "default" {
		t.Errorf("DefaultPreset = %q, want default", cfg.DefaultPreset)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	cfg, err := Load("missing.toml", WithFS(fstest.MapFS{}), WithEnvLoader(nil))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(cfg.KeyGroups) != 2 || cfg.AllowMultipleBindingsPerKey || !cfg.AllowModifierKeys {
		t.Errorf("missing file did not yield defaults: %+v", cfg)
	}
}

func TestLoad_ParseError(t *testing.T) {
	memfs := fstest.MapFS{
		"keybind.toml": {Data: []byte("allow_modifier_keys = maybe\n")},
	}

	_, err := Load("keybind.toml", WithFS(memfs), WithEnvLoader(nil))
	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("Load error = %v, want *ParseError", err)
	}
}

func TestLoad_Env(t *testing.T) {
	t.Setenv("KEYBIND_ALLOW_MULTIPLE_BINDINGS", "yes")
	t.Setenv("KEYBIND_ALLOW_MODIFIER_KEYS", "false")
	t.Setenv("KEYBIND_PRESET_DIR", "/etc/keybind/presets")
	t.Setenv("KEYBIND_LOG_LEVEL", "debug")
	t.Setenv("KEYBIND_DISALLOWED_KEYS", "esc, lmb")

	cfg, err := Load("", WithFS(fstest.MapFS{}))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if !cfg.AllowMultipleBindingsPerKey {
		t.Error("AllowMultipleBindingsPerKey = false, want true")
	}
	if cfg.AllowModifierKeys {
		t.Error("AllowModifierKeys = true, want false")
	}
	if cfg.PresetDir != "/etc/keybind/presets" {
		t.Errorf("PresetDir = %q", cfg.PresetDir)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %q, want debug", cfg.LogLevel)
	}
	if cfg.IsKeyAllowed(key.Escape) || cfg.IsKeyAllowed(key.LeftMouseButton) {
		t.Errorf("DisallowedKeys = %v, want Escape and LeftMouseButton", cfg.DisallowedKeys)
	}
}

func TestLoad_EnvTypeMismatch(t *testing.T) {
	t.Setenv("KEYBIND_ALLOW_MODIFIER_KEYS", "sometimes")

	_, err := Load("", WithFS(fstest.MapFS{}))
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("Load error = %v, want *ValidationError", err)
	}
	if ve.Code != ErrCodeTypeMismatch {
		t.Errorf("Code = %v, want %v", ve.Code, ErrCodeTypeMismatch)
	}
}

func TestLoad_Invalid(t *testing.T) {
	memfs := fstest.MapFS{
		"keybind.toml": {Data: []byte(`
default_key_group = "Gamepd"
slot_links = [[0, -1]]

[[key_groups]]
tag = "Gamepad"
use_gamepad_keys = true

[[key_groups]]
tag = "Gamepad"
`)},
	}

	_, err := Load("keybind.toml", WithFS(memfs), WithEnvLoader(nil))
	if !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("Load error = %v, want ErrInvalidConfig", err)
	}
}
