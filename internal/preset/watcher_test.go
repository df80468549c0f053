package preset

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/dshills/keybind/internal/config"
	"github.com/dshills/keybind/internal/input/key"
)

func waitReload(t *testing.T, ch <-chan Reload) Reload {
	t.Helper()
	select {
	case r := <-ch:
		return r
	case <-time.After(5 * time.Second):
		t.Fatal("timeout waiting for preset reload")
		return Reload{}
	}
}

func TestWatcher_ReloadAndRemove(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "default.toml")
	writeFile := func(content string) {
		t.Helper()
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatalf("WriteFile failed: %v", err)
		}
	}
	writeFile("[[actions]]\nname = \"Jump\"\nchord = \"SpaceBar\"\n")

	cfg := config.Default()
	c := NewCatalog()
	if _, err := c.LoadDir(cfg, dir); err != nil {
		t.Fatalf("LoadDir failed: %v", err)
	}

	reloads := make(chan Reload, 10)
	w, err := NewWatcher(c, cfg, dir,
		WithDebounce(20*time.Millisecond),
		WithReloadHandler(func(r Reload) { reloads <- r }))
	if err != nil {
		t.Fatalf("NewWatcher failed: %v", err)
	}
	defer w.Close()

	writeFile("[[actions]]\nname = \"Jump\"\nchord = \"Enter\"\n")

	r := waitReload(t, reloads)
	if r.Err != nil || r.Tag != "default" || r.Removed {
		t.Fatalf("reload = %+v, want default reloaded", r)
	}
	p, _ := c.Lookup("default")
	if b, ok := p.Layout.Slot(0).FindFirstAction(cfg, "Jump", key.NoGroup); !ok || b.Key() != key.Enter {
		t.Errorf("Jump after reload = %v, %v, want Enter", b, ok)
	}

	if err := os.Remove(path); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}
	r = waitReload(t, reloads)
	if !r.Removed || r.Tag != "default" {
		t.Fatalf("reload = %+v, want default removed", r)
	}
	if c.Has("default") {
		t.Error("catalog still has removed preset")
	}
}

func TestWatcher_BadFileReported(t *testing.T) {
	dir := t.TempDir()
	cfg := config.Default()
	c := NewCatalog()

	reloads := make(chan Reload, 10)
	w, err := NewWatcher(c, cfg, dir,
		WithDebounce(20*time.Millisecond),
		WithReloadHandler(func(r Reload) { reloads <- r }))
	if err != nil {
		t.Fatalf("NewWatcher failed: %v", err)
	}

	if err := os.WriteFile(filepath.Join(dir, "ignored.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "bad.yaml"), []byte("actions: [\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	r := waitReload(t, reloads)
	if r.Err == nil || filepath.Base(r.Path) != "bad.yaml" {
		t.Errorf("reload = %+v, want bad.yaml error", r)
	}

	if err := w.Close(); err != nil {
		t.Errorf("Close failed: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Errorf("second Close failed: %v", err)
	}
}

func TestNewWatcher_MissingDir(t *testing.T) {
	_, err := NewWatcher(NewCatalog(), config.Default(), filepath.Join(t.TempDir(), "missing"))
	if err == nil {
		t.Error("NewWatcher on a missing directory returned no error")
	}
}
