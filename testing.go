package busobj

import (
	"fmt"
	"sync"
)

// EventKind labels one recorded bus call.
type EventKind string

// Event kinds recorded by RecordingBus.
const (
	EventRegister       EventKind = "register"
	EventUnregister     EventKind = "unregister"
	EventObjectAdded    EventKind = "object-added"
	EventObjectRemoved  EventKind = "object-removed"
	EventInterfaceAdded EventKind = "interface-added"
)

// Event is one bus call observed by a RecordingBus.
type Event struct {
	Kind       EventKind
	Path       string
	Name       string   // interface name, for register/unregister/interface-added
	Interfaces []string // interface set, for object-added
}

// RecordingBus is an in-memory Bus for tests. It records every call in
// order, enforces the registration rules a real bus enforces (duplicate
// registration fails, unregistering an unknown interface fails), and lets
// tests inject failures without needing a transport:
//
//	bus := busobj.NewRecordingBus()
//	obj, err := busobj.New(bus, "/sensors/0", def)
//	...
//	if bus.ObjectAdded("/sensors/0") != 1 { ... }
//
// Failure injection targets an interface name (registration) or an event
// kind (emission):
//
//	bus.FailRegister["com.buslab.sensors.Power"] = errors.New("vtable slot taken")
//	bus.FailEmit[busobj.EventObjectAdded] = errors.New("connection lost")
//
// All methods are safe for concurrent use.
type RecordingBus struct {
	// FailRegister maps interface name to the error RegisterInterface
	// should return for it.
	FailRegister map[string]error

	// FailEmit maps an emission kind to the error that emission should
	// return.
	FailEmit map[EventKind]error

	mu         sync.Mutex
	events     []Event
	registered map[string]map[string]Descriptor
}

// NewRecordingBus creates an empty recording bus.
func NewRecordingBus() *RecordingBus {
	return &RecordingBus{
		FailRegister: make(map[string]error),
		FailEmit:     make(map[EventKind]error),
		registered:   make(map[string]map[string]Descriptor),
	}
}

// RegisterInterface implements Bus.
func (b *RecordingBus) RegisterInterface(path string, desc Descriptor) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err := b.FailRegister[desc.Name]; err != nil {
		return err
	}
	if _, ok := b.registered[path][desc.Name]; ok {
		return fmt.Errorf("%w: %s at %s", ErrDuplicateInterface, desc.Name, path)
	}
	if b.registered[path] == nil {
		b.registered[path] = make(map[string]Descriptor)
	}
	b.registered[path][desc.Name] = desc
	b.events = append(b.events, Event{Kind: EventRegister, Path: path, Name: desc.Name})
	return nil
}

// UnregisterInterface implements Bus.
func (b *RecordingBus) UnregisterInterface(path, name string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, ok := b.registered[path][name]; !ok {
		return fmt.Errorf("%w: %s at %s", ErrNotRegistered, name, path)
	}
	delete(b.registered[path], name)
	b.events = append(b.events, Event{Kind: EventUnregister, Path: path, Name: name})
	return nil
}

// EmitObjectAdded implements Bus.
func (b *RecordingBus) EmitObjectAdded(path string, interfaces []string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err := b.FailEmit[EventObjectAdded]; err != nil {
		return err
	}
	names := make([]string, len(interfaces))
	copy(names, interfaces)
	b.events = append(b.events, Event{Kind: EventObjectAdded, Path: path, Interfaces: names})
	return nil
}

// EmitObjectRemoved implements Bus.
func (b *RecordingBus) EmitObjectRemoved(path string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err := b.FailEmit[EventObjectRemoved]; err != nil {
		return err
	}
	b.events = append(b.events, Event{Kind: EventObjectRemoved, Path: path})
	return nil
}

// EmitInterfaceAdded implements Bus.
func (b *RecordingBus) EmitInterfaceAdded(path, name string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err := b.FailEmit[EventInterfaceAdded]; err != nil {
		return err
	}
	b.events = append(b.events, Event{Kind: EventInterfaceAdded, Path: path, Name: name})
	return nil
}

// Events returns a copy of every recorded event, in call order.
func (b *RecordingBus) Events() []Event {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]Event, len(b.events))
	copy(out, b.events)
	return out
}

// Kinds returns the recorded event kinds, in call order.
func (b *RecordingBus) Kinds() []EventKind {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]EventKind, len(b.events))
	for n, e := range b.events {
		out[n] = e.Kind
	}
	return out
}

// ObjectAdded counts object-added notifications recorded for path.
func (b *RecordingBus) ObjectAdded(path string) int {
	return b.count(EventObjectAdded, path, "")
}

// ObjectRemoved counts object-removed notifications recorded for path.
func (b *RecordingBus) ObjectRemoved(path string) int {
	return b.count(EventObjectRemoved, path, "")
}

// InterfaceAdded counts interface-added notifications for name at path.
func (b *RecordingBus) InterfaceAdded(path, name string) int {
	return b.count(EventInterfaceAdded, path, name)
}

// Registered reports whether name is currently registered at path.
func (b *RecordingBus) Registered(path, name string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	_, ok := b.registered[path][name]
	return ok
}

// Reset discards recorded events. Registrations and failure injections are
// kept, so a test can clear construction noise before exercising teardown.
func (b *RecordingBus) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = nil
}

func (b *RecordingBus) count(kind EventKind, path, name string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	n := 0
	for _, e := range b.events {
		if e.Kind == kind && e.Path == path && (name == "" || e.Name == name) {
			n++
		}
	}
	return n
}
