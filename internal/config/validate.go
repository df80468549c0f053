package config

import (
	"errors"
	"fmt"

	"github.com/dshills/keybind/internal/logging"
	"github.com/dshills/keybind/internal/suggest"
)

// Validate checks the policy for internal consistency. Every problem found
// is returned, joined; each one matches ErrInvalidConfig.
func (c *Config) Validate() error {
	var errs []error

	seen := make(map[string]bool, len(c.KeyGroups))
	for i, g := range c.KeyGroups {
		field := fmt.Sprintf("key_groups[%d].tag", i)
		if g.Tag.IsNone() {
			errs = append(errs, &ValidationError{Field: field, Message: "tag is required", Value: "", Code: ErrCodeRequiredMissing})
			continue
		}
		if seen[string(g.Tag)] {
			errs = append(errs, &ValidationError{Field: field, Message: "duplicate key group", Value: g.Tag, Code: ErrCodeDuplicate})
		}
		seen[string(g.Tag)] = true
	}

	if tag := c.DefaultKeyGroupTag; !tag.IsNone() && !c.IsKeyGroupDefined(tag) {
		errs = append(errs, &ValidationError{
			Field:   "default_key_group",
			Message: "key group is not defined" + suggest.Hint(string(tag), c.KeyGroupTags()),
			Value:   tag,
			Code:    ErrCodeUndefinedReference,
		})
	}

	for i, a := range c.AxisAssociations {
		if a.AxisKey.IsNone() {
			errs = append(errs, &ValidationError{
				Field:   fmt.Sprintf("axis_associations[%d].axis_key", i),
				Message: "axis key is required",
				Value:   "",
				Code:    ErrCodeRequiredMissing,
			})
		}
	}

	for i, link := range c.SlotLinks {
		for _, slot := range link {
			if slot < 0 {
				errs = append(errs, &ValidationError{
					Field:   fmt.Sprintf("slot_links[%d]", i),
					Message: "slot index must not be negative",
					Value:   slot,
					Code:    ErrCodeOutOfRange,
				})
			}
		}
	}

	if _, ok := logging.ParseLevel(c.LogLevel); !ok {
		errs = append(errs, &ValidationError{
			Field:   "log_level",
			Message: "unknown log level" + suggest.Hint(c.LogLevel, []string{"debug", "info", "warn", "error"}),
			Value:   c.LogLevel,
			Code:    ErrCodeInvalidEnum,
		})
	}

	return errors.Join(errs...)
}
