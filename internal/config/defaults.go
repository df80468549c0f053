package config

import "github.com/dshills/keybind/internal/input/key"

// Default returns the built-in policy: keyboard/mouse and gamepad key
// groups, the stick and mouse axis associations, modifiers allowed, and one
// binding per key.
func Default() *Config {
	return &Config{
		KeyGroups: []KeyGroup{
			{Tag: "KeyboardMouse", UseNonGamepadKeys: true},
			{Tag: "Gamepad", UseGamepadKeys: true},
		},
		AxisAssociations:            DefaultAxisAssociations(),
		AllowMultipleBindingsPerKey: false,
		AllowModifierKeys:           true,
		DefaultPreset:               "default",
		LogLevel:                    "info",
	}
}

// DefaultAxisAssociations returns the stick and mouse associations.
// The right stick's vertical axis is inverted.
func DefaultAxisAssociations() []AxisAssociation {
	return []AxisAssociation{
		{AxisKey: key.GamepadLeftX, Buttons: []KeyScale{
			{Key: key.GamepadLeftStickRight, Scale: 1},
			{Key: key.GamepadLeftStickLeft, Scale: -1},
		}},
		{AxisKey: key.GamepadLeftY, Buttons: []KeyScale{
			{Key: key.GamepadLeftStickUp, Scale: 1},
			{Key: key.GamepadLeftStickDown, Scale: -1},
		}},
		{AxisKey: key.GamepadRightX, Buttons: []KeyScale{
			{Key: key.GamepadRightStickRight, Scale: 1},
			{Key: key.GamepadRightStickLeft, Scale: -1},
		}},
		{AxisKey: key.GamepadRightY, Buttons: []KeyScale{
			{Key: key.GamepadRightStickUp, Scale: -1},
			{Key: key.GamepadRightStickDown, Scale: 1},
		}},
		{AxisKey: key.MouseX, Buttons: []KeyScale{
			{Key: key.MouseRight, Scale: 1},
			{Key: key.MouseLeft, Scale: -1},
		}},
		{AxisKey: key.MouseY, Buttons: []KeyScale{
			{Key: key.MouseUp, Scale: 1},
			{Key: key.MouseDown, Scale: -1},
		}},
		{AxisKey: key.MouseWheelAxis, Buttons: []KeyScale{
			{Key: key.MouseWheelUp, Scale: 1},
			{Key: key.MouseWheelDown, Scale: -1},
		}},
	}
}
