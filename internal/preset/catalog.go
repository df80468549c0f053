// Package preset provides the catalog of named base presets.
//
// A preset is a layout of default bindings shared by every player who
// selects it. The catalog keeps presets in registration order; looking up an
// unknown tag falls back to the first preset, and the reserved NullTag always
// yields an empty layout. Presets can be read from TOML or YAML files and
// hot-reloaded by a Watcher.
package preset

import (
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"sort"
	"sync"

	"github.com/dshills/keybind/internal/config/loader"
	"github.com/dshills/keybind/internal/input/binding"
	"github.com/dshills/keybind/internal/logging"
	"github.com/dshills/keybind/internal/suggest"
)

// NullTag selects the empty preset.
const NullTag = "null"

// Catalog holds presets by tag. It is safe for concurrent use.
type Catalog struct {
	mu      sync.RWMutex
	presets []Preset
	index   map[string]int

	fs     loader.FileSystem
	logger *logging.Logger
}

// Option configures a Catalog.
type Option func(*Catalog)

// WithLogger sets the catalog's logger.
func WithLogger(l *logging.Logger) Option {
	return func(c *Catalog) {
		c.logger = l
	}
}

// WithFS sets the file system preset files are read from.
func WithFS(fs loader.FileSystem) Option {
	return func(c *Catalog) {
		c.fs = fs
	}
}

// NewCatalog creates a catalog holding presets, in order.
func NewCatalog(opts ...Option) *Catalog {
	c := &Catalog{
		index: make(map[string]int),
		fs:    loader.DefaultFS(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = logging.OrNull(c.logger).WithComponent("preset")
	return c
}

// Add registers a preset. The tag must be unique and not NullTag.
func (c *Catalog) Add(p Preset) error {
	if p.Tag == NullTag {
		return fmt.Errorf("%w: %q", ErrReservedTag, p.Tag)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.index[p.Tag]; ok {
		return fmt.Errorf("%w: %q", ErrDuplicatePreset, p.Tag)
	}
	c.index[p.Tag] = len(c.presets)
	c.presets = append(c.presets, p)
	return nil
}

// Put registers p, replacing any preset with the same tag in place.
func (c *Catalog) Put(p Preset) error {
	if p.Tag == NullTag {
		return fmt.Errorf("%w: %q", ErrReservedTag, p.Tag)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if i, ok := c.index[p.Tag]; ok {
		c.presets[i] = p
		return nil
	}
	c.index[p.Tag] = len(c.presets)
	c.presets = append(c.presets, p)
	return nil
}

// Remove unregisters the preset with tag.
func (c *Catalog) Remove(tag string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	i, ok := c.index[tag]
	if !ok {
		return false
	}
	c.presets = slices.Delete(c.presets, i, i+1)
	delete(c.index, tag)
	for j := i; j < len(c.presets); j++ {
		c.index[c.presets[j].Tag] = j
	}
	return true
}

// RemoveSource unregisters the preset read from path and returns its tag.
func (c *Catalog) RemoveSource(path string) (string, bool) {
	c.mu.RLock()
	tag, found := "", false
	for _, p := range c.presets {
		if p.Source != "" && p.Source == path {
			tag, found = p.Tag, true
			break
		}
	}
	c.mu.RUnlock()

	if !found || !c.Remove(tag) {
		return "", false
	}
	return tag, true
}

// Lookup returns the preset registered under tag, without fallback.
func (c *Catalog) Lookup(tag string) (Preset, error) {
	if tag == NullTag {
		return Preset{Tag: NullTag}, nil
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	i, ok := c.index[tag]
	if !ok {
		return Preset{}, fmt.Errorf("%w: %q%s", ErrPresetNotFound, tag, suggest.Hint(tag, c.tagsLocked()))
	}
	return c.presets[i], nil
}

// Resolve returns the preset for tag. An unknown tag falls back to the first
// registered preset, or the null preset when the catalog is empty.
func (c *Catalog) Resolve(tag string) Preset {
	p, err := c.Lookup(tag)
	if err == nil {
		return p
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	if len(c.presets) == 0 {
		c.logger.Warn("%v, using the null preset", err)
		return Preset{Tag: NullTag}
	}
	first := c.presets[0]
	c.logger.Warn("%v, falling back to %q", err, first.Tag)
	return first
}

// Get returns a copy of the layout Resolve selects for tag.
func (c *Catalog) Get(tag string) binding.Layout {
	return c.Resolve(tag).Layout.Clone()
}

// Has reports whether tag is registered, counting NullTag.
func (c *Catalog) Has(tag string) bool {
	if tag == NullTag {
		return true
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.index[tag]
	return ok
}

// First returns the tag of the first preset, or NullTag.
func (c *Catalog) First() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if len(c.presets) == 0 {
		return NullTag
	}
	return c.presets[0].Tag
}

// Tags returns the registered tags in order.
func (c *Catalog) Tags() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.tagsLocked()
}

func (c *Catalog) tagsLocked() []string {
	tags := make([]string, len(c.presets))
	for i, p := range c.presets {
		tags[i] = p.Tag
	}
	return tags
}

// Presets returns every preset in order.
func (c *Catalog) Presets() []Preset {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Clone(c.presets)
}

// Len returns the number of registered presets.
func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.presets)
}

// LoadFile reads one preset file and registers it with Put.
func (c *Catalog) LoadFile(cfg binding.Config, path string) (Preset, error) {
	p, err := LoadFile(c.fs, cfg, path)
	if err != nil {
		return Preset{}, err
	}
	if err := c.Put(p); err != nil {
		return Preset{}, err
	}
	c.logger.Debug("loaded preset %q from %s", p.Tag, path)
	return p, nil
}

// LoadDir registers every preset file in dir, in file name order. Files that
// fail to load are skipped; their errors are returned joined.
func (c *Catalog) LoadDir(cfg binding.Config, dir string) (int, error) {
	entries, err := c.fs.ReadDir(dir)
	if err != nil {
		return 0, fmt.Errorf("reading preset directory %s: %w", dir, err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() && IsPresetFile(e.Name()) {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	var errs []error
	loaded := 0
	for _, name := range names {
		path := name
		if dir != "." && dir != "" {
			path = filepath.Join(dir, name)
		}
		if _, err := c.LoadFile(cfg, path); err != nil {
			c.logger.Error("%v", err)
			errs = append(errs, err)
			continue
		}
		loaded++
	}

	c.logger.Info("loaded %d presets from %s", loaded, dir)
	return loaded, errors.Join(errs...)
}
