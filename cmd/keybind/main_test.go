package main

import (
	"bytes"
	"flag"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
)

const defaultPreset = `title = "Default"

[[actions]]
name = "Jump"
chord = "SpaceBar"

[[actions]]
name = "Fire"
chord = "LeftMouseButton"

[[axes]]
name = "MoveForward"
key = "W"
scale = 1.0
`

func setup(t *testing.T) (presets, profiles string) {
	t.Helper()
	dir := t.TempDir()
	presets = filepath.Join(dir, "presets")
	if err := os.MkdirAll(presets, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(presets, "default.toml"), []byte(defaultPreset), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(presets, "southpaw.yaml"), []byte("title: Southpaw\nactions:\n  - name: Jump\n    chord: RightMouseButton\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	return presets, filepath.Join(dir, "profiles")
}

func runCmd(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := run(args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestRunVersion(t *testing.T) {
	code, out, _ := runCmd(t, "-version")
	if code != 0 {
		t.Fatalf("exit code = %d, want 0", code)
	}
	if !strings.HasPrefix(out, "keybind dev") {
		t.Errorf("output = %q, want version line", out)
	}
}

func TestRunUsageErrors(t *testing.T) {
	presets, profiles := setup(t)
	tests := []struct {
		name string
		args []string
	}{
		{"no command", nil},
		{"unknown command", []string{"-presets", presets, "-store", profiles, "frobnicate"}},
		{"bad log level", []string{"-log-level", "loud", "show"}},
		{"missing chord", []string{"-presets", presets, "-store", profiles, "bind-action", "Jump"}},
		{"bad scale", []string{"-presets", presets, "-store", profiles, "bind-axis", "MoveForward", "S", "fast"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if code, _, _ := runCmd(t, tt.args...); code != 2 {
				t.Errorf("exit code = %d, want 2", code)
			}
		})
	}
}

func TestRunPresets(t *testing.T) {
	presets, _ := setup(t)
	code, out, errOut := runCmd(t, "-presets", presets, "presets")
	if code != 0 {
		t.Fatalf("exit code = %d, stderr = %s", code, errOut)
	}
	if !strings.Contains(out, "* default\tDefault\t3 bindings") {
		t.Errorf("output = %q, want default marked", out)
	}
	if !strings.Contains(out, "  southpaw\tSouthpaw\t1 bindings") {
		t.Errorf("output = %q, want southpaw listed", out)
	}
}

func TestRunShowDefaults(t *testing.T) {
	presets, profiles := setup(t)
	code, out, errOut := runCmd(t, "-presets", presets, "-store", profiles, "show")
	if code != 0 {
		t.Fatalf("exit code = %d, stderr = %s", code, errOut)
	}
	for _, want := range []string{
		"player local, preset default, key group KeyboardMouse",
		"0\taction\tJump=SpaceBar",
		"0\taxis\tMoveForward(1)=W",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output = %q, want %q", out, want)
		}
	}
}

func TestRunBindPersists(t *testing.T) {
	presets, profiles := setup(t)
	base := []string{"-presets", presets, "-store", profiles, "-player", "p1"}

	if code, _, errOut := runCmd(t, append(base, "bind-action", "Jump", "Enter")...); code != 0 {
		t.Fatalf("bind-action exit code = %d, stderr = %s", code, errOut)
	}
	if code, _, errOut := runCmd(t, append(base, "bind-axis", "MoveForward", "Up", "1.0", "-slot", "1")...); code != 0 {
		t.Fatalf("bind-axis exit code = %d, stderr = %s", code, errOut)
	}

	code, out, errOut := runCmd(t, append(base, "show")...)
	if code != 0 {
		t.Fatalf("show exit code = %d, stderr = %s", code, errOut)
	}
	if !strings.Contains(out, "0\taction\tJump=Enter") {
		t.Errorf("output = %q, want rebound Jump", out)
	}
	if strings.Contains(out, "Jump=SpaceBar") {
		t.Errorf("output = %q, want SpaceBar replaced", out)
	}
	if !strings.Contains(out, "1\taxis\tMoveForward(1)=Up") {
		t.Errorf("output = %q, want MoveForward in slot 1", out)
	}

	code, out, _ = runCmd(t, "-store", profiles, "players")
	if code != 0 || strings.TrimSpace(out) != "p1" {
		t.Errorf("players = %q (exit %d), want p1", out, code)
	}
}

func TestRunBindRejectsSlot(t *testing.T) {
	presets, profiles := setup(t)
	base := []string{"-presets", presets, "-store", profiles, "-player", "p1"}

	for _, slot := range []string{"-1", "2000000000"} {
		code, _, errOut := runCmd(t, append(base, "bind-action", "Jump", "Enter", "-slot", slot)...)
		if code != 1 {
			t.Errorf("slot %s: exit code = %d, want 1", slot, code)
		}
		if !strings.Contains(errOut, "slot out of range") {
			t.Errorf("slot %s: stderr = %q, want slot out of range", slot, errOut)
		}
	}
}

func TestRunUnbindAndPreset(t *testing.T) {
	presets, profiles := setup(t)
	base := []string{"-presets", presets, "-store", profiles}

	code, out, errOut := runCmd(t, append(base, "unbind-action", "Fire")...)
	if code != 0 {
		t.Fatalf("unbind-action exit code = %d, stderr = %s", code, errOut)
	}
	if strings.Contains(out, "Fire=") {
		t.Errorf("output = %q, want Fire unbound", out)
	}

	code, out, errOut = runCmd(t, append(base, "preset", "southpaw")...)
	if code != 0 {
		t.Fatalf("preset exit code = %d, stderr = %s", code, errOut)
	}
	if !strings.Contains(out, "Jump=RightMouseButton") {
		t.Errorf("output = %q, want southpaw bindings", out)
	}

	if code, _, _ := runCmd(t, append(base, "preset", "missing")...); code != 1 {
		t.Errorf("unknown preset exit code = %d, want 1", code)
	}
}

func TestRunKeyGroupSuggestion(t *testing.T) {
	presets, profiles := setup(t)
	code, _, errOut := runCmd(t, "-presets", presets, "-store", profiles, "key-group", "Gampad")
	if code != 1 {
		t.Fatalf("exit code = %d, want 1", code)
	}
	if !strings.Contains(errOut, "Gamepad") {
		t.Errorf("stderr = %q, want suggestion", errOut)
	}
}

func TestParseInterspersed(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		wantPos  []string
		wantSlot int
		wantAny  bool
	}{
		{"flags last", []string{"Jump", "Enter", "-slot", "2"}, []string{"Jump", "Enter"}, 2, false},
		{"flags first", []string{"-any-group", "-slot", "1", "Jump", "Enter"}, []string{"Jump", "Enter"}, 1, true},
		{"negative number", []string{"MoveForward", "S", "-1", "-slot", "1"}, []string{"MoveForward", "S", "-1"}, 1, false},
		{"no flags", []string{"Jump"}, []string{"Jump"}, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := flag.NewFlagSet("test", flag.ContinueOnError)
			slot := fs.Int("slot", 0, "")
			anyGroup := fs.Bool("any-group", false, "")
			pos, err := parseInterspersed(fs, tt.args)
			if err != nil {
				t.Fatalf("parseInterspersed() error = %v", err)
			}
			if !slices.Equal(pos, tt.wantPos) {
				t.Errorf("positional = %v, want %v", pos, tt.wantPos)
			}
			if *slot != tt.wantSlot {
				t.Errorf("slot = %d, want %d", *slot, tt.wantSlot)
			}
			if *anyGroup != tt.wantAny {
				t.Errorf("any-group = %v, want %v", *anyGroup, tt.wantAny)
			}
		})
	}
}
