package key

import (
	"strings"
)

// Key identifies a physical input symbol by name.
// The zero value is the empty key, which binds nothing.
type Key string

// None is the empty key.
const None Key = ""

// Common input symbols.
const (
	SpaceBar  Key = "SpaceBar"
	Enter     Key = "Enter"
	Escape    Key = "Escape"
	Tab       Key = "Tab"
	BackSpace Key = "BackSpace"
	Delete    Key = "Delete"

	LeftShift    Key = "LeftShift"
	RightShift   Key = "RightShift"
	LeftControl  Key = "LeftControl"
	RightControl Key = "RightControl"
	LeftAlt      Key = "LeftAlt"
	RightAlt     Key = "RightAlt"
	LeftCommand  Key = "LeftCommand"
	RightCommand Key = "RightCommand"

	Up    Key = "Up"
	Down  Key = "Down"
	Left  Key = "Left"
	Right Key = "Right"

	LeftMouseButton   Key = "LeftMouseButton"
	RightMouseButton  Key = "RightMouseButton"
	MiddleMouseButton Key = "MiddleMouseButton"
	MouseWheelUp      Key = "MouseScrollUp"
	MouseWheelDown    Key = "MouseScrollDown"
	MouseX            Key = "MouseX"
	MouseY            Key = "MouseY"
	MouseWheelAxis    Key = "MouseWheelAxis"
	MouseUp           Key = "MouseUp"
	MouseDown         Key = "MouseDown"
	MouseLeft         Key = "MouseLeft"
	MouseRight        Key = "MouseRight"

	GamepadLeftX            Key = "Gamepad_LeftX"
	GamepadLeftY            Key = "Gamepad_LeftY"
	GamepadRightX           Key = "Gamepad_RightX"
	GamepadRightY           Key = "Gamepad_RightY"
	GamepadLeftTriggerAxis  Key = "Gamepad_LeftTriggerAxis"
	GamepadRightTriggerAxis Key = "Gamepad_RightTriggerAxis"
	GamepadFaceBottom       Key = "Gamepad_FaceButton_Bottom"
	GamepadFaceRight        Key = "Gamepad_FaceButton_Right"
	GamepadFaceLeft         Key = "Gamepad_FaceButton_Left"
	GamepadFaceTop          Key = "Gamepad_FaceButton_Top"
	GamepadLeftShoulder     Key = "Gamepad_LeftShoulder"
	GamepadRightShoulder    Key = "Gamepad_RightShoulder"
	GamepadLeftStickUp      Key = "Gamepad_LeftStick_Up"
	GamepadLeftStickDown    Key = "Gamepad_LeftStick_Down"
	GamepadRightStickUp     Key = "Gamepad_RightStick_Up"
	GamepadRightStickDown   Key = "Gamepad_RightStick_Down"
	GamepadLeftStickLeft    Key = "Gamepad_LeftStick_Left"
	GamepadLeftStickRight   Key = "Gamepad_LeftStick_Right"
	GamepadRightStickLeft   Key = "Gamepad_RightStick_Left"
	GamepadRightStickRight  Key = "Gamepad_RightStick_Right"
)

// IsNone returns true if k is the empty key.
// "None" is accepted as a spelling of the empty key.
func (k Key) IsNone() bool {
	return k == None || strings.EqualFold(string(k), "none")
}

// IsGamepad returns true if k is a gamepad button or axis.
func (k Key) IsGamepad() bool {
	return strings.HasPrefix(string(k), "Gamepad")
}

// IsMouse returns true if k is a mouse button, wheel or axis.
func (k Key) IsMouse() bool {
	s := string(k)
	return strings.HasPrefix(s, "Mouse") || strings.HasSuffix(s, "MouseButton")
}

// IsModifier returns true if k is itself a modifier key.
func (k Key) IsModifier() bool {
	switch k {
	case LeftShift, RightShift, LeftControl, RightControl,
		LeftAlt, RightAlt, LeftCommand, RightCommand:
		return true
	}
	return false
}

// String returns the key name.
func (k Key) String() string {
	if k.IsNone() {
		return "None"
	}
	return string(k)
}

// keyNameMap maps lowercase aliases to canonical keys.
var keyNameMap = map[string]Key{
	"none":        None,
	"space":       SpaceBar,
	"spacebar":    SpaceBar,
	"enter":       Enter,
	"return":      Enter,
	"cr":          Enter,
	"escape":      Escape,
	"esc":         Escape,
	"tab":         Tab,
	"backspace":   BackSpace,
	"bs":          BackSpace,
	"delete":      Delete,
	"del":         Delete,
	"up":          Up,
	"down":        Down,
	"left":        Left,
	"right":       Right,
	"lshift":      LeftShift,
	"rshift":      RightShift,
	"lctrl":       LeftControl,
	"rctrl":       RightControl,
	"lalt":        LeftAlt,
	"ralt":        RightAlt,
	"lmb":         LeftMouseButton,
	"rmb":         RightMouseButton,
	"mmb":         MiddleMouseButton,
	"wheelup":     MouseWheelUp,
	"wheeldown":   MouseWheelDown,
	"mousex":      MouseX,
	"mousey":      MouseY,
	"mousewheel":  MouseWheelAxis,
	"leftx":       GamepadLeftX,
	"lefty":       GamepadLeftY,
	"rightx":      GamepadRightX,
	"righty":      GamepadRightY,
	"facebottom":  GamepadFaceBottom,
	"faceright":   GamepadFaceRight,
	"faceleft":    GamepadFaceLeft,
	"facetop":     GamepadFaceTop,
	"lb":          GamepadLeftShoulder,
	"rb":          GamepadRightShoulder,
	"lefttrigger": GamepadLeftTriggerAxis,
}

// FromName returns the canonical Key for a name.
// Known aliases are matched case-insensitively; single letters and digits are
// upper-cased; any other name is returned unchanged.
func FromName(name string) Key {
	name = strings.TrimSpace(name)
	if k, ok := keyNameMap[strings.ToLower(name)]; ok {
		return k
	}
	if len(name) == 1 {
		return Key(strings.ToUpper(name))
	}
	return Key(name)
}
