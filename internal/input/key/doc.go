// Package key provides input symbol, modifier and chord types for the binding
// system.
//
// This package defines the fundamental types for representing physical input:
//
//   - Key: Names a physical input symbol (keyboard key, mouse button, gamepad
//     button or axis)
//   - Modifier: Represents held modifier keys (Shift, Ctrl, Alt, Cmd)
//   - Chord: A key plus the modifiers that must be held with it
//   - Group: A key-group tag used to classify keys into device families
//
// # Chord Specifications
//
// Chords can be written in the usual "+" separated form:
//
//   - Simple keys: "SpaceBar", "W", "LeftMouseButton", "Gamepad_FaceButton_Bottom"
//   - With modifiers: "Ctrl+S", "Alt+F4", "Ctrl+Shift+P"
//   - Aliases: "space" -> SpaceBar, "lmb" -> LeftMouseButton, "esc" -> Escape
//
// Key names that are not known aliases are kept verbatim so that any input
// symbol the host application exposes can be bound.
package key
