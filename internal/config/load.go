package config

import (
	"fmt"

	"github.com/dshills/keybind/internal/config/loader"
	"github.com/dshills/keybind/internal/input/key"
	"github.com/dshills/keybind/internal/logging"
)

// EnvPrefix is the prefix of environment variables that override settings.
const EnvPrefix = "KEYBIND_"

// Option configures Load.
type Option func(*loadOptions)

type loadOptions struct {
	fs     loader.FileSystem
	env    *loader.EnvLoader
	logger *logging.Logger
	strict bool
}

// WithLogger sets the logger the loaded config reports diagnostics to.
func WithLogger(l *logging.Logger) Option {
	return func(o *loadOptions) {
		o.logger = l
	}
}

// WithFS reads the config file from fs instead of the OS file system.
func WithFS(fs loader.FileSystem) Option {
	return func(o *loadOptions) {
		o.fs = fs
	}
}

// WithEnvLoader replaces the environment loader. Nil disables environment
// overrides.
func WithEnvLoader(env *loader.EnvLoader) Option {
	return func(o *loadOptions) {
		o.env = env
	}
}

// WithStrict rejects unknown keys in the config file.
func WithStrict(strict bool) Option {
	return func(o *loadOptions) {
		o.strict = strict
	}
}

// fileConfig mirrors Config with optional scalars so settings absent from
// the file keep their defaults.
type fileConfig struct {
	KeyGroups                   []KeyGroup        `toml:"key_groups"`
	DefaultKeyGroup             *key.Group        `toml:"default_key_group"`
	AxisAssociations            []AxisAssociation `toml:"axis_associations"`
	AllowMultipleBindingsPerKey *bool             `toml:"allow_multiple_bindings_per_key"`
	AllowModifierKeys           *bool             `toml:"allow_modifier_keys"`
	SlotLinks                   [][]int           `toml:"slot_links"`
	PreservedActions            []string          `toml:"preserved_actions"`
	PreservedAxes               []string          `toml:"preserved_axes"`
	AllowedKeys                 []key.Key         `toml:"allowed_keys"`
	DisallowedKeys              []key.Key         `toml:"disallowed_keys"`
	PresetDir                   *string           `toml:"preset_dir"`
	DefaultPreset               *string           `toml:"default_preset"`
	LogLevel                    *string           `toml:"log_level"`
}

// Load reads the policy from the TOML file at path, applies KEYBIND_*
// environment overrides, and validates the result. A missing file yields
// Default with environment overrides applied. An empty path skips the file.
func Load(path string, opts ...Option) (*Config, error) {
	o := loadOptions{
		fs:  loader.DefaultFS(),
		env: loader.NewEnvLoader(EnvPrefix),
	}
	for _, opt := range opts {
		opt(&o)
	}
	log := logging.OrNull(o.logger).WithComponent("config")

	cfg := Default()
	cfg.SetLogger(o.logger)

	if path != "" {
		var fc fileConfig
		tl := loader.NewTOMLLoaderWithFS(o.fs, path)
		if o.strict {
			tl.Strict()
		}
		found, err := tl.Load(&fc)
		if err != nil {
			return nil, err
		}
		if found {
			fc.apply(cfg)
			log.Debug("loaded %s", path)
		} else {
			log.Info("config file %s not found, using defaults", path)
		}
	}

	if o.env != nil {
		overrides, err := o.env.Load()
		if err != nil {
			return nil, fmt.Errorf("loading environment: %w", err)
		}
		if err := cfg.applyOverrides(overrides, log); err != nil {
			return nil, err
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (fc *fileConfig) apply(cfg *Config) {
	if fc.KeyGroups != nil {
		cfg.KeyGroups = fc.KeyGroups
	}
	if fc.DefaultKeyGroup != nil {
		cfg.DefaultKeyGroupTag = *fc.DefaultKeyGroup
	}
	if fc.AxisAssociations != nil {
		cfg.AxisAssociations = fc.AxisAssociations
	}
	if fc.AllowMultipleBindingsPerKey != nil {
		cfg.AllowMultipleBindingsPerKey = *fc.AllowMultipleBindingsPerKey
	}
	if fc.AllowModifierKeys != nil {
		cfg.AllowModifierKeys = *fc.AllowModifierKeys
	}
	if fc.SlotLinks != nil {
		cfg.SlotLinks = fc.SlotLinks
	}
	if fc.PreservedActions != nil {
		cfg.PreservedActions = fc.PreservedActions
	}
	if fc.PreservedAxes != nil {
		cfg.PreservedAxes = fc.PreservedAxes
	}
	if fc.AllowedKeys != nil {
		cfg.AllowedKeys = fc.AllowedKeys
	}
	if fc.DisallowedKeys != nil {
		cfg.DisallowedKeys = fc.DisallowedKeys
	}
	if fc.PresetDir != nil {
		cfg.PresetDir = *fc.PresetDir
	}
	if fc.DefaultPreset != nil {
		cfg.DefaultPreset = *fc.DefaultPreset
	}
	if fc.LogLevel != nil {
		cfg.LogLevel = *fc.LogLevel
	}
}

// applyOverrides sets scalar and list settings from environment values.
func (c *Config) applyOverrides(overrides map[string]any, log *logging.Logger) error {
	for name, val := range overrides {
		var ok bool
		switch name {
		case "allow_multiple_bindings_per_key":
			c.AllowMultipleBindingsPerKey, ok = loader.Bool(val)
		case "allow_modifier_keys":
			c.AllowModifierKeys, ok = loader.Bool(val)
		case "preset_dir":
			c.PresetDir, ok = loader.String(val)
		case "default_preset":
			c.DefaultPreset, ok = loader.String(val)
		case "log_level":
			c.LogLevel, ok = loader.String(val)
		case "default_key_group":
			var s string
			s, ok = loader.String(val)
			c.DefaultKeyGroupTag = key.Group(s)
		case "preserved_actions":
			c.PreservedActions, ok = loader.Strings(val)
		case "preserved_axes":
			c.PreservedAxes, ok = loader.Strings(val)
		case "allowed_keys":
			var names []string
			names, ok = loader.Strings(val)
			c.AllowedKeys = keysFromNames(names)
		case "disallowed_keys":
			var names []string
			names, ok = loader.Strings(val)
			c.DisallowedKeys = keysFromNames(names)
		default:
			log.Debug("ignoring unknown environment setting %s", name)
			continue
		}
		if !ok {
			return &ValidationError{
				Field:   name,
				Message: "environment value has the wrong type",
				Value:   val,
				Code:    ErrCodeTypeMismatch,
			}
		}
		log.Debug("environment override %s=%v", name, val)
	}
	return nil
}

func keysFromNames(names []string) []key.Key {
	if names == nil {
		return nil
	}
	keys := make([]key.Key, 0, len(names))
	for _, n := range names {
		keys = append(keys, key.FromName(n))
	}
	return keys
}
