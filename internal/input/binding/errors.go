package binding

import (
	"errors"
	"fmt"

	"github.com/dshills/keybind/internal/input/key"
)

// ErrUndefinedKeyGroup indicates a lookup named a key group the config does
// not define. The lookup proceeds as if no group had been given.
var ErrUndefinedKeyGroup = errors.New("undefined key group")

// KeyGroupError reports an undefined key group.
type KeyGroupError struct {
	Group key.Group
}

// Error implements the error interface.
func (e *KeyGroupError) Error() string {
	return fmt.Sprintf("key group %q is not defined", string(e.Group))
}

// Unwrap returns ErrUndefinedKeyGroup.
func (e *KeyGroupError) Unwrap() error {
	return ErrUndefinedKeyGroup
}
