package store

import (
	"strconv"

	"github.com/dshills/keybind/internal/player"
)

// Migrate decodes r, converting legacy fields on the way. It reports whether
// anything was converted, in which case the caller should save the result.
//
// A legacy player index becomes the ID when the record has none. A legacy
// preset snapshot becomes a delta against the snapshot's preset as it exists
// now: bindings the snapshot lacked turn into unbound markers, the
// snapshot's bindings are laid over them, and whatever the preset already
// provides is pruned. The snapshot is ignored if the record also has
// overrides.
func Migrate(env player.Env, r *Record) (*player.State, bool, error) {
	s, err := r.State()
	if err != nil {
		return nil, false, err
	}

	migrated := false
	if s.ID == "" && r.PlayerIndex != nil && *r.PlayerIndex >= 0 {
		s.ID = strconv.Itoa(*r.PlayerIndex)
		migrated = true
	}

	if r.Snapshot != nil {
		migrated = true
		if len(r.Snapshot.Slots) > 0 && s.Overrides.Total() == 0 {
			old, err := decodeLayout(r.Snapshot.Slots)
			if err != nil {
				return nil, false, &MigrationError{ID: s.ID, Err: err}
			}

			cfg := env.Config
			s.PresetTag = r.Snapshot.Tag
			base := s.Base(env)

			overrides := old.FindUnbound(cfg, base)
			overrides.MergeBindings(cfg, old)
			overrides.RemoveRedundant(cfg, base)
			s.Overrides = overrides
		}
	}
	return s, migrated, nil
}
