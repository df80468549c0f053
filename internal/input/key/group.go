package key

// Group is a key-group tag classifying keys into device families
// (for example "KeyboardMouse" and "Gamepad").
type Group string

// NoGroup is the unclassified group. Used as a filter it matches any group.
const NoGroup Group = ""

// IsNone returns true if g is the unclassified group.
func (g Group) IsNone() bool {
	return g == NoGroup
}

// String returns the group tag, or "None" for the unclassified group.
func (g Group) String() string {
	if g == NoGroup {
		return "None"
	}
	return string(g)
}
