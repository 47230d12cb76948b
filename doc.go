// Package busobj manages the lifecycle of composite bus objects: addressable
// endpoints on an inter-process message bus that aggregate several
// independently defined protocol-interface implementations under one object
// path, and announce their existence to observers as a single atomic act.
//
// # Core Concepts
//
// An interface module implements one named protocol interface. It satisfies
// the small Interface contract and is built by a Constructor that registers
// the module's Descriptor with the bus:
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
// A Definition is the fixed, ordered list of constructors composed into one
// object. Object construction builds every module in list order - so all
// vtable registrations exist before any signal goes out - and teardown
// releases them in reverse. If a constructor fails partway, the modules
// already built are rolled back in reverse order and nothing was announced.
//
//	obj, err := busobj.New(bus, "/sensors/0",
//	    busobj.Compose(sensors.NewPower, sensors.NewTemperature))
//
// # Existence Signaling
//
// Construction takes an emission action deciding what observers are told:
//
//   - ActionEmitObjectAdded (default): one object-added notification naming
//     the union of all composed interfaces.
//   - ActionEmitInterfaceAdded: one interface-added notification per module,
//     in list order, for objects whose existence is already known.
//   - ActionDeferEmit: nothing - the caller populates initial state first,
//     then calls EmitObjectAdded itself.
//
// EmitObjectAdded is idempotent, and a successful call arms the removed
// notification: Close emits object-removed exactly once, before releasing
// the modules, and only for objects that were actually announced. A failed
// added emission leaves the object unannounced, so no spurious removed
// notification can follow.
//
// # Error Handling
//
// busobj is a thin orchestration layer. Collaborator failures - registration
// rejected, emission failing because the connection dropped - propagate
// unchanged to the immediate caller; there is no retry, suppression, or
// logging here. Policy belongs to the application.
//
// # Testing
//
// RecordingBus is an in-memory Bus that records every notification and
// supports failure injection, so lifecycle behavior is testable without a
// transport. A WebSocket-backed Bus lives in adapters/wsbus, and the
// lib/generator package (driven by cmd/busobj) generates typed interface
// modules from YAML descriptors.
package busobj
