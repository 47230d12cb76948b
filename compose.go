package busobj

import "fmt"

// Definition is the fixed, ordered list of interface modules that make up a
// composite object. The set is decided when the definition is built; Object
// construction runs the constructors in list order and teardown releases
// the modules in reverse.
type Definition []Constructor

// Compose builds a Definition from constructors, preserving order:
//
//	def := busobj.Compose(sensors.NewPower, sensors.NewTemperature)
//	obj, err := busobj.New(bus, "/sensors/0", def)
//
// An empty Definition is legal and composes to an object with no
// interfaces.
func Compose(ctors ...Constructor) Definition {
	return Definition(ctors)
}

// composeAll constructs every module in def, in order, each with the same
// (bus, path) pair. If a constructor fails, the modules built so far are
// released in reverse order and the constructor's error is returned; no
// notification of any kind has been emitted at that point.
func composeAll(bus Bus, path string, def Definition) ([]Interface, error) {
	ifaces := make([]Interface, 0, len(def))
	for n, ctor := range def {
		m, err := ctor(bus, path)
		if err != nil {
			releaseAll(ifaces)
			return nil, fmt.Errorf("busobj: compose %s: module %d: %w", path, n, err)
		}
		ifaces = append(ifaces, m)
	}
	return ifaces, nil
}

// releaseAll releases modules in reverse construction order. Every module
// is released even if an earlier release fails; the first error wins.
func releaseAll(ifaces []Interface) error {
	var first error
	for n := len(ifaces) - 1; n >= 0; n-- {
		if err := ifaces[n].Release(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
