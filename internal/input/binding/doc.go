// Package binding implements layered input bindings and their merge engine.
//
// A player's effective bindings are computed by laying a small override delta
// on top of a shared base preset. The delta can add bindings, remove them
// (tombstone markers), and remember which of its entries still equal the
// preset default.
//
// # Key Concepts
//
// ActionBinding: Binds an action name to a Chord (key plus modifiers).
//
// AxisBinding: Binds an axis name to a key at a scale. A key that is itself a
// continuous axis (a stick or the mouse) spans every scale of its axis name.
//
// TrackedAction / TrackedAxis: A binding plus an IsDefault flag recording
// that the value currently equals what the base preset supplies.
//
// Slot: One bucket of bindings plus two lists of unbound markers. Markers only
// identify a target by name, key group and scale; the key they carry is not a
// binding.
//
// Layout: An ordered list of slots. The slot index is the primary, secondary
// or tertiary binding for the same action or axis.
//
// # Merging
//
// BuildEffective clones the base layout, transplants and applies the
// override's unbound markers, and finally lays the override's real bindings on
// top. Inserting a binding evicts every binding that shares its chord across
// the uniqueness scope reported by Config.UniqueBetween.
//
// # Usage
//
//	base := binding.BucketAssign(cfg, defaults.Actions, defaults.Axes)
//	base.MarkAllDefault()
//
//	effective := binding.BuildEffective(cfg, base, overrides)
//	jump, ok := effective.Slot(0).FindFirstAction(cfg, "Jump", key.NoGroup)
//
// Every operation takes the Config explicitly. Layouts and slots are values;
// Clone before mutating a layout that is shared.
package binding
