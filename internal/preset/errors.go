package preset

import "errors"

// Errors returned by preset operations.
var (
	// ErrPresetNotFound indicates no preset has the requested tag.
	ErrPresetNotFound = errors.New("preset not found")

	// ErrDuplicatePreset indicates a preset with the same tag already exists.
	ErrDuplicatePreset = errors.New("duplicate preset")

	// ErrReservedTag indicates a preset tried to use the null preset's tag.
	ErrReservedTag = errors.New("reserved preset tag")

	// ErrUnsupportedFormat indicates a preset file with an unknown extension.
	ErrUnsupportedFormat = errors.New("unsupported preset format")
)
