package busobj

import "fmt"

// Interface is the composition contract an interface module satisfies.
//
// An interface module implements one named protocol interface at an object
// path. It registers its descriptor with the bus during construction (see
// Constructor) and is owned exclusively by the Object that composed it, for
// the object's entire lifetime.
type Interface interface {
	// Name returns the dotted interface name, e.g. "com.buslab.sensors.Power".
	Name() string

	// EmitAdded announces only this interface's addition at its path.
	EmitAdded() error

	// Release undoes the module's bus registration. Called by the owning
	// Object during teardown, after any object-removed notification, and
	// during construction rollback.
	Release() error
}

// Constructor builds one interface module at a path on a bus. Construction
// registers the module's descriptor; if registration fails, the constructor
// returns the error and must leave nothing behind on the bus.
//
// Constructors are the unit of composition: an ordered list of them forms a
// Definition, and Object construction runs them in list order.
type Constructor func(bus Bus, path string) (Interface, error)

// Iface is the embeddable base for interface modules.
//
// Modules embed *Iface to gain the Interface contract plus a small property
// store, keeping their own code down to typed accessors and behavior:
//
//	type Power struct {
//	    *busobj.Iface
//	}
//
//	func NewPower(bus busobj.Bus, path string) (busobj.Interface, error) {
//	    base, err := busobj.NewIface(bus, path, powerDescriptor)
//	    if err != nil {
//	        return nil, err
//	    }
//	    return &Power{Iface: base}, nil
//	}
//
// The property store exists so callers using the deferred-signal workflow
// can populate initial state before the object is announced. It is not
// synchronized: an Iface belongs to one object and one owning goroutine.
type Iface struct {
	bus   Bus
	path  string
	desc  Descriptor
	props map[string]any
}

// NewIface registers desc at path and returns the module base. Registration
// failure is returned unchanged apart from context; nothing is retried.
func NewIface(bus Bus, path string, desc Descriptor) (*Iface, error) {
	if desc.Name == "" {
		return nil, ErrEmptyInterfaceName
	}
	if err := bus.RegisterInterface(path, desc); err != nil {
		return nil, fmt.Errorf("busobj: register %s at %s: %w", desc.Name, path, err)
	}
	return &Iface{
		bus:   bus,
		path:  path,
		desc:  desc,
		props: make(map[string]any),
	}, nil
}

// Name returns the interface name from the descriptor.
func (i *Iface) Name() string {
	return i.desc.Name
}

// Path returns the object path the module is registered at.
func (i *Iface) Path() string {
	return i.path
}

// Descriptor returns the registered descriptor.
func (i *Iface) Descriptor() Descriptor {
	return i.desc
}

// EmitAdded announces this interface's addition at its path.
func (i *Iface) EmitAdded() error {
	if err := i.bus.EmitInterfaceAdded(i.path, i.desc.Name); err != nil {
		return fmt.Errorf("busobj: emit interface added %s at %s: %w", i.desc.Name, i.path, err)
	}
	return nil
}

// Release unregisters the interface from the bus.
func (i *Iface) Release() error {
	if err := i.bus.UnregisterInterface(i.path, i.desc.Name); err != nil {
		return fmt.Errorf("busobj: unregister %s at %s: %w", i.desc.Name, i.path, err)
	}
	return nil
}

// Property returns a stored property value.
func (i *Iface) Property(name string) (any, bool) {
	v, ok := i.props[name]
	return v, ok
}

// SetProperty stores a property value.
func (i *Iface) SetProperty(name string, value any) {
	i.props[name] = value
}
