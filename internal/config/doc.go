// Package config provides the binding policy consulted by every keybind
// operation.
//
// A Config classifies input keys into key groups, relates continuous-axis
// keys to the buttons that stand in for them, decides which binding slots
// must keep a key unique, and names the actions and axes the live router
// must never drop. *Config implements binding.Config and binding.Reporter.
//
// # Configuration Files
//
// Policy is read from TOML:
//
//	allow_multiple_bindings_per_key = true
//	slot_links = [[0, 1]]
//	preserved_actions = ["Pause"]
//	disallowed_keys = ["Escape"]
//
//	[[key_groups]]
//	tag = "KeyboardMouse"
//	use_non_gamepad_keys = true
//
//	[[key_groups]]
//	tag = "Gamepad"
//	use_gamepad_keys = true
//
//	[[axis_associations]]
//	axis_key = "MouseY"
//	buttons = [{ key = "MouseScrollUp", scale = 1.0 }, { key = "MouseScrollDown", scale = -1.0 }]
//
// Keys left out of the file keep the values from Default. KEYBIND_*
// environment variables override scalar settings after the file is read.
//
// # Basic Usage
//
//	cfg, err := config.Load("keybind.toml", config.WithLogger(logger))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	effective := binding.BuildEffective(cfg, base, overrides)
package config
