package busobj

import "fmt"

// Action selects which existence notification, if any, Object construction
// emits once every module is built.
type Action int

const (
	// ActionEmitObjectAdded announces the whole object (the union of all
	// composed interfaces) as a single notification. The default.
	ActionEmitObjectAdded Action = iota

	// ActionEmitInterfaceAdded announces each composed interface
	// individually, in list order, without announcing the object itself.
	// Use when the object's existence was already announced through some
	// other path and only the new interfaces need broadcasting.
	ActionEmitInterfaceAdded

	// ActionDeferEmit emits nothing. The caller announces the object
	// manually via EmitObjectAdded once custom initialization (typically
	// property population) is complete, so observers never see an object
	// whose initial state is not yet valid.
	ActionDeferEmit
)

// Option configures Object construction.
type Option func(*objectOptions)

type objectOptions struct {
	action Action
}

// WithAction sets the emission action evaluated after construction.
func WithAction(a Action) Option {
	return func(o *objectOptions) {
		o.action = a
	}
}

// WithDeferSignal is a convenience switch: true maps to ActionDeferEmit,
// false to ActionEmitObjectAdded.
func WithDeferSignal(deferSignal bool) Option {
	return func(o *objectOptions) {
		if deferSignal {
			o.action = ActionDeferEmit
		} else {
			o.action = ActionEmitObjectAdded
		}
	}
}

// Object is a composite bus object: several independently defined interface
// modules aggregated under one object path, with the existence/removal
// signaling protocol driven around their combined lifetime.
//
// An Object has exactly one owner. It must not be copied; the bus
// registrations and the removed notification are attributable to this one
// value, and Close must be called by the owner exactly once when the object
// should disappear from the bus. Construction and Close are not safe for
// concurrent use on the same Object; the shared Bus underneath carries its
// own thread-safety contract.
//
// The object-removed notification is emitted if and only if an
// object-added notification was previously emitted successfully, and at
// most once.
type Object struct {
	bus            Bus
	path           string
	action         Action
	ifaces         []Interface
	removalPending bool
	closed         bool
}

// New constructs a composite object at path from def.
//
// Every module is constructed first, in list order, each receiving the same
// (bus, path) pair - so all registrations exist before any notification is
// broadcast. Then the configured Action runs. If a module constructor or
// the emission fails, already-constructed modules are released in reverse
// order and the error is returned; the bus is left exactly as it was.
func New(bus Bus, path string, def Definition, opts ...Option) (*Object, error) {
	if !ValidPath(path) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidPath, path)
	}

	cfg := objectOptions{action: ActionEmitObjectAdded}
	for _, opt := range opts {
		opt(&cfg)
	}
	o := &Object{bus: bus, path: path, action: cfg.action}

	ifaces, err := composeAll(bus, path, def)
	if err != nil {
		return nil, err
	}
	o.ifaces = ifaces

	if err := o.checkAction(); err != nil {
		releaseAll(o.ifaces)
		return nil, err
	}
	return o, nil
}

// checkAction runs once, right after composition.
func (o *Object) checkAction() error {
	switch o.action {
	case ActionEmitObjectAdded:
		return o.EmitObjectAdded()
	case ActionEmitInterfaceAdded:
		for _, m := range o.ifaces {
			if err := m.EmitAdded(); err != nil {
				return err
			}
		}
	}
	// ActionDeferEmit: nothing.
	return nil
}

// EmitObjectAdded broadcasts the object-added notification, naming every
// composed interface, and arms the removed notification for Close.
//
// The call is idempotent: once an added notification has succeeded, further
// calls are no-ops. On emission failure the object stays unannounced - the
// error is returned, no state changes, and Close will not emit a removed
// notification for an object observers never heard about.
func (o *Object) EmitObjectAdded() error {
	if o.closed {
		return ErrObjectClosed
	}
	if o.removalPending {
		return nil
	}
	if err := o.bus.EmitObjectAdded(o.path, o.Names()); err != nil {
		return fmt.Errorf("busobj: emit object added %s: %w", o.path, err)
	}
	o.removalPending = true
	return nil
}

// Close tears the object down. If the object was announced, the
// object-removed notification is emitted first, while the bus and path are
// still fully valid; then every module is released in reverse construction
// order. Close is idempotent - only the first call does anything.
//
// Module release proceeds even when the removed emission fails; the
// emission error takes precedence in the return value.
func (o *Object) Close() error {
	if o.closed {
		return nil
	}
	o.closed = true

	var emitErr error
	if o.removalPending {
		if err := o.bus.EmitObjectRemoved(o.path); err != nil {
			emitErr = fmt.Errorf("busobj: emit object removed %s: %w", o.path, err)
		}
	}
	relErr := releaseAll(o.ifaces)
	if emitErr != nil {
		return emitErr
	}
	return relErr
}

// Path returns the object path.
func (o *Object) Path() string {
	return o.path
}

// Announced reports whether a whole-object added notification has been
// emitted successfully (and therefore whether Close will emit removed).
func (o *Object) Announced() bool {
	return o.removalPending
}

// Names returns the composed interface names in construction order.
func (o *Object) Names() []string {
	names := make([]string, len(o.ifaces))
	for n, m := range o.ifaces {
		names[n] = m.Name()
	}
	return names
}

// Interface returns the composed module with the given interface name.
func (o *Object) Interface(name string) (Interface, bool) {
	for _, m := range o.ifaces {
		if m.Name() == name {
			return m, true
		}
	}
	return nil, false
}

// Interfaces returns the composed modules in construction order. The slice
// is a copy; the modules are not.
func (o *Object) Interfaces() []Interface {
	out := make([]Interface, len(o.ifaces))
	copy(out, o.ifaces)
	return out
}

// Find returns the first composed module of concrete type T:
//
//	power, ok := busobj.Find[*sensors.Power](obj)
//
// This is the typed counterpart of Interface for callers that composed
// known module types and want their full API back, not just the
// composition contract.
func Find[T Interface](o *Object) (T, bool) {
	for _, m := range o.ifaces {
		if t, ok := m.(T); ok {
			return t, true
		}
	}
	var zero T
	return zero, false
}
