package busobj

import "errors"

// Sentinel errors for object and bus operations.
var (
	ErrInvalidPath        = errors.New("busobj: invalid object path")
	ErrObjectClosed       = errors.New("busobj: object is closed")
	ErrDuplicateInterface = errors.New("busobj: interface already registered")
	ErrNotRegistered      = errors.New("busobj: interface not registered")
	ErrEmptyInterfaceName = errors.New("busobj: empty interface name")
)

// IsDuplicateInterface checks if err is a registration collision.
func IsDuplicateInterface(err error) bool {
	return errors.Is(err, ErrDuplicateInterface)
}

// IsNotRegistered checks if err is an unregister of an unknown interface.
func IsNotRegistered(err error) bool {
	return errors.Is(err, ErrNotRegistered)
}
