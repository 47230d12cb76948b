// Package wire defines the notification frames a bus transport exchanges
// for object existence signaling, encoded with msgpack.
//
// A frame carries one operation: an interface registration, an interface
// removal, or one of the three existence notifications. Frames have no
// payload beyond the path and interface names - property values and method
// arguments are serialized elsewhere.
package wire

import (
	"errors"
	"fmt"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/buslab/busobj"
)

// Op identifies the operation a frame carries.
type Op string

// Frame operations.
const (
	OpRegister       Op = "register"
	OpUnregister     Op = "unregister"
	OpObjectAdded    Op = "object-added"
	OpObjectRemoved  Op = "object-removed"
	OpInterfaceAdded Op = "interface-added"
)

// MaxFrameBytes bounds decode memory use.
const MaxFrameBytes = 1 << 20

// Decode/encode failure modes.
var (
	ErrUnknownOp     = errors.New("wire: unknown op")
	ErrBadPath     = errors.New("wire: invalid object path")
	ErrMissingName   = errors.New("wire: op requires an interface name")
	ErrFrameTooLarge = errors.New("wire: frame exceeds size limit")
)

// Frame is one notification message.
//
// Interface is set for register, unregister, and interface-added frames.
// Interfaces is set for object-added frames and names every interface the
// object exposes, in composition order. Descriptor accompanies register
// frames only.
type Frame struct {
	Op         Op                 `msgpack:"op"`
	Path       string             `msgpack:"path"`
	Interface  string             `msgpack:"iface,omitempty"`
	Interfaces []string           `msgpack:"ifaces,omitempty"`
	Descriptor *busobj.Descriptor `msgpack:"desc,omitempty"`
}

// Marshal validates and encodes a frame.
func Marshal(f Frame) ([]byte, error) {
	if err := validate(f); err != nil {
		return nil, err
	}
	b, err := msgpack.Marshal(f)
	if err != nil {
		return nil, fmt.Errorf("wire: marshal: %w", err)
	}
	if len(b) > MaxFrameBytes {
		return nil, ErrFrameTooLarge
	}
	return b, nil
}

// Unmarshal decodes and validates a frame.
func Unmarshal(b []byte) (Frame, error) {
	if len(b) > MaxFrameBytes {
		return Frame{}, ErrFrameTooLarge
	}
	var f Frame
	if err := msgpack.Unmarshal(b, &f); err != nil {
		return Frame{}, fmt.Errorf("wire: unmarshal: %w", err)
	}
	if err := validate(f); err != nil {
		return Frame{}, err
	}
	return f, nil
}

func validate(f Frame) error {
	switch f.Op {
	case OpRegister, OpUnregister, OpInterfaceAdded:
		if f.Interface == "" {
			return fmt.Errorf("%w: %s", ErrMissingName, f.Op)
		}
	case OpObjectAdded, OpObjectRemoved:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownOp, f.Op)
	}
	if !busobj.ValidPath(f.Path) {
		return fmt.Errorf("%w: %q", ErrBadPath, f.Path)
	}
	return nil
}
