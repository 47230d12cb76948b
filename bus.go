package busobj

import "strings"

// Bus is the transport collaborator a composite object lives on.
//
// busobj does not connect, frame, or route messages itself - it consumes a
// bus through this contract and orchestrates object identity and existence
// signaling on top of it. Implementations must broadcast the notifications
// synchronously: each call either completes or returns the transport's
// error unchanged. busobj never retries, suppresses, or logs failures.
//
// A Bus value is typically shared by many objects on the same connection;
// implementations decide their own thread-safety (see adapters/wsbus for a
// WebSocket-backed implementation and RecordingBus for an in-memory one).
type Bus interface {
	// RegisterInterface registers one interface's descriptor at a path.
	// Called by interface modules during their own construction. A second
	// registration for the same (path, interface name) pair must fail with
	// an error matching ErrDuplicateInterface.
	RegisterInterface(path string, desc Descriptor) error

	// UnregisterInterface removes a previously registered interface.
	UnregisterInterface(path, name string) error

	// EmitObjectAdded broadcasts that path now exposes the given set of
	// interfaces, as a single notification.
	EmitObjectAdded(path string, interfaces []string) error

	// EmitObjectRemoved broadcasts that path no longer exists.
	EmitObjectRemoved(path string) error

	// EmitInterfaceAdded broadcasts that a single interface appeared at an
	// already-existing path.
	EmitInterfaceAdded(path, name string) error
}

// Arg describes one method or signal argument.
type Arg struct {
	Name string
	Type string
}

// Method describes one callable method on an interface.
type Method struct {
	Name    string
	Args    []Arg
	Returns []Arg
}

// Property describes one readable/writable property on an interface.
type Property struct {
	Name string
	Type string
}

// Signal describes one broadcast signal an interface may emit.
type Signal struct {
	Name string
	Args []Arg
}

// Descriptor describes a single protocol interface: its dotted name plus
// the methods, properties, and signals it exposes. The descriptor is what
// an interface module registers with the bus; it is also the input to the
// lib/generator code generator.
type Descriptor struct {
	Name       string
	Methods    []Method
	Properties []Property
	Signals    []Signal
}

// ValidPath reports whether path is a well-formed object path: absolute,
// slash-separated, with elements limited to [A-Za-z0-9_], and no trailing
// slash. The root path "/" is valid.
func ValidPath(path string) bool {
	if path == "" || path[0] != '/' {
		return false
	}
	if path == "/" {
		return true
	}
	if strings.HasSuffix(path, "/") {
		return false
	}
	for _, elem := range strings.Split(path[1:], "/") {
		if elem == "" {
			return false
		}
		for _, r := range elem {
			if !isPathRune(r) {
				return false
			}
		}
	}
	return true
}

func isPathRune(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z':
		return true
	case r >= 'A' && r <= 'Z':
		return true
	case r >= '0' && r <= '9':
		return true
	case r == '_':
		return true
	}
	return false
}
