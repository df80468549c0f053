package manager

import (
	"errors"
	"fmt"
)

// MaxSlots bounds the slot index accepted by the rebind operations.
const MaxSlots = 64

// Manager errors.
var (
	// ErrPlayerNotRegistered indicates an operation on an unknown player.
	ErrPlayerNotRegistered = errors.New("player not registered")

	// ErrKeyNotAllowed indicates a key the config forbids binding.
	ErrKeyNotAllowed = errors.New("key not allowed")

	// ErrModifiersNotAllowed indicates a chord with modifiers while modifier
	// keys are disabled.
	ErrModifiersNotAllowed = errors.New("modifier keys not allowed")

	// ErrSlotOutOfRange indicates a negative slot or one at or above MaxSlots.
	ErrSlotOutOfRange = errors.New("slot out of range")

	// ErrClosed indicates the manager has been closed.
	ErrClosed = errors.New("manager closed")
)

// OperationError represents an error that occurred during an operation on a
// player.
type OperationError struct {
	Op     string // Operation name (e.g., "register", "rebind_action")
	Player string // Player ID, if any
	Err    error  // Underlying error
}

func newOpError(op, player string, err error) *OperationError {
	return &OperationError{Op: op, Player: player, Err: err}
}

func (e *OperationError) Error() string {
	if e == nil {
		return ""
	}
	msg := e.Op
	if e.Player != "" {
		msg = fmt.Sprintf("%s %s", e.Op, e.Player)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *OperationError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Is matches both the wrapper itself and the wrapped error.
func (e *OperationError) Is(target error) bool {
	if e == nil {
		return false
	}
	if t, ok := target.(*OperationError); ok {
		return e == t
	}
	return errors.Is(e.Err, target)
}
