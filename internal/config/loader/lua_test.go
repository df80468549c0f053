package loader

import (
	"errors"
	"slices"
	"testing"
	"time"
)

func TestLuaDecoder_Decode(t *testing.T) {
	script := []byte(`
local keys = {}
for i = 1, 3 do
  keys[#keys + 1] = "F" .. i
end
return {
  name = string.lower("GAMEPAD"),
  enabled = true,
  keys = keys,
  groups = { { tag = "Gamepad" } },
}
`)

	var cfg sampleConfig
	if err := (LuaDecoder{}).Decode("gamepad.lua", script, &cfg); err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if cfg.Name != "gamepad" || !cfg.Enabled {
		t.Errorf("cfg = %+v, want name gamepad enabled", cfg)
	}
	if want := []string{"F1", "F2", "F3"}; !slices.Equal(cfg.Keys, want) {
		t.Errorf("Keys = %v, want %v", cfg.Keys, want)
	}
	if len(cfg.Groups) != 1 || cfg.Groups[0].Tag != "Gamepad" {
		t.Errorf("Groups = %v, want [Gamepad]", cfg.Groups)
	}
}

func TestLuaDecoder_NoResult(t *testing.T) {
	cfg := sampleConfig{Name: "kept"}
	if err := (LuaDecoder{}).Decode("empty.lua", []byte("local x = 1\n"), &cfg); err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if cfg.Name != "kept" {
		t.Errorf("Name = %q, want %q", cfg.Name, "kept")
	}
}

func TestLuaDecoder_Sandbox(t *testing.T) {
	script := []byte(`return { keys = { type(io), type(os), type(dofile), type(loadstring) } }`)

	var cfg sampleConfig
	if err := (LuaDecoder{}).Decode("sandbox.lua", script, &cfg); err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	for i, got := range cfg.Keys {
		if got != "nil" {
			t.Errorf("Keys[%d] = %q, want nil", i, got)
		}
	}
}

func TestLuaDecoder_Errors(t *testing.T) {
	tests := []struct {
		name     string
		script   string
		timeout  time.Duration
		wantLine int
	}{
		{"runtime error", "local x = 1\nerror(\"boom\")\n", 0, 2},
		{"syntax error", "return {\n", 0, 0},
		{"not a table", "return 42\n", 0, 0},
		{"runaway script", "while true do end\n", 50 * time.Millisecond, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var cfg sampleConfig
			err := (LuaDecoder{Timeout: tt.timeout}).Decode("bad.lua", []byte(tt.script), &cfg)
			var pe *ParseError
			if !errors.As(err, &pe) {
				t.Fatalf("error = %v, want *ParseError", err)
			}
			if tt.wantLine > 0 && pe.Line != tt.wantLine {
				t.Errorf("Line = %d, want %d", pe.Line, tt.wantLine)
			}
		})
	}
}
