package busobj

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCtor(name string) Constructor {
	return func(bus Bus, path string) (Interface, error) {
		return NewIface(bus, path, Descriptor{Name: name})
	}
}

func TestNewEmitsObjectAdded(t *testing.T) {
	bus := NewRecordingBus()

	obj, err := New(bus, "/sensors/0", Compose(
		testCtor("com.buslab.sensors.Power"),
		testCtor("com.buslab.sensors.Temperature"),
	))
	require.NoError(t, err)

	assert.Equal(t, 1, bus.ObjectAdded("/sensors/0"))
	assert.Equal(t, 0, bus.InterfaceAdded("/sensors/0", "com.buslab.sensors.Power"))
	assert.Equal(t, 0, bus.InterfaceAdded("/sensors/0", "com.buslab.sensors.Temperature"))
	assert.True(t, obj.Announced())

	// The added notification carries the full interface set, in list order,
	// and goes out only after both registrations.
	assert.Equal(t, []EventKind{EventRegister, EventRegister, EventObjectAdded}, bus.Kinds())
	events := bus.Events()
	assert.Equal(t, []string{
		"com.buslab.sensors.Power",
		"com.buslab.sensors.Temperature",
	}, events[2].Interfaces)

	require.NoError(t, obj.Close())
	assert.Equal(t, 1, bus.ObjectRemoved("/sensors/0"))

	// Removal goes out before the modules unregister, in reverse order.
	assert.Equal(t, []EventKind{
		EventRegister, EventRegister, EventObjectAdded,
		EventObjectRemoved, EventUnregister, EventUnregister,
	}, bus.Kinds())
	events = bus.Events()
	assert.Equal(t, "com.buslab.sensors.Temperature", events[4].Name)
	assert.Equal(t, "com.buslab.sensors.Power", events[5].Name)
}

func TestNewEmitInterfaceAdded(t *testing.T) {
	bus := NewRecordingBus()

	obj, err := New(bus, "/sensors/1", Compose(
		testCtor("a.B"),
		testCtor("a.C"),
		testCtor("a.D"),
	), WithAction(ActionEmitInterfaceAdded))
	require.NoError(t, err)

	assert.Equal(t, 0, bus.ObjectAdded("/sensors/1"))
	assert.Equal(t, 1, bus.InterfaceAdded("/sensors/1", "a.B"))
	assert.Equal(t, 1, bus.InterfaceAdded("/sensors/1", "a.C"))
	assert.Equal(t, 1, bus.InterfaceAdded("/sensors/1", "a.D"))
	assert.False(t, obj.Announced())

	// Per-interface notifications follow list order.
	events := bus.Events()
	var names []string
	for _, e := range events {
		if e.Kind == EventInterfaceAdded {
			names = append(names, e.Name)
		}
	}
	assert.Equal(t, []string{"a.B", "a.C", "a.D"}, names)

	require.NoError(t, obj.Close())
	assert.Equal(t, 0, bus.ObjectRemoved("/sensors/1"))
}

func TestNewDeferEmit(t *testing.T) {
	bus := NewRecordingBus()

	obj, err := New(bus, "/sensors/2", Compose(testCtor("a.B")),
		WithAction(ActionDeferEmit))
	require.NoError(t, err)

	assert.Equal(t, 0, bus.ObjectAdded("/sensors/2"))
	assert.Equal(t, 0, bus.InterfaceAdded("/sensors/2", "a.B"))
	assert.False(t, obj.Announced())

	require.NoError(t, obj.EmitObjectAdded())
	assert.Equal(t, 1, bus.ObjectAdded("/sensors/2"))
	assert.True(t, obj.Announced())

	// Second call is a no-op.
	require.NoError(t, obj.EmitObjectAdded())
	assert.Equal(t, 1, bus.ObjectAdded("/sensors/2"))

	require.NoError(t, obj.Close())
	assert.Equal(t, 1, bus.ObjectRemoved("/sensors/2"))
}

func TestWithDeferSignal(t *testing.T) {
	bus := NewRecordingBus()

	obj, err := New(bus, "/a", Compose(testCtor("a.B")), WithDeferSignal(true))
	require.NoError(t, err)
	assert.Equal(t, 0, bus.ObjectAdded("/a"))
	require.NoError(t, obj.Close())

	obj, err = New(bus, "/b", Compose(testCtor("a.B")), WithDeferSignal(false))
	require.NoError(t, err)
	assert.Equal(t, 1, bus.ObjectAdded("/b"))
	require.NoError(t, obj.Close())
}

func TestConstructorFailureRollsBack(t *testing.T) {
	bus := NewRecordingBus()
	boom := errors.New("vtable slot taken")
	bus.FailRegister["a.D"] = boom

	_, err := New(bus, "/sensors/3", Compose(
		testCtor("a.B"),
		testCtor("a.C"),
		testCtor("a.D"),
	))
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)

	// Modules built before the failure unwind in reverse order, and no
	// notification of any kind went out.
	assert.Equal(t, []EventKind{
		EventRegister, EventRegister,
		EventUnregister, EventUnregister,
	}, bus.Kinds())
	events := bus.Events()
	assert.Equal(t, "a.C", events[2].Name)
	assert.Equal(t, "a.B", events[3].Name)
	assert.False(t, bus.Registered("/sensors/3", "a.B"))
	assert.False(t, bus.Registered("/sensors/3", "a.C"))
}

func TestEmissionFailureDuringConstruction(t *testing.T) {
	bus := NewRecordingBus()
	lost := errors.New("connection lost")
	bus.FailEmit[EventObjectAdded] = lost

	_, err := New(bus, "/sensors/4", Compose(testCtor("a.B")))
	require.Error(t, err)
	assert.ErrorIs(t, err, lost)

	// The aggregate unwound and nothing remains registered; since the
	// added notification never succeeded, no removed can ever follow.
	assert.False(t, bus.Registered("/sensors/4", "a.B"))
	assert.Equal(t, 0, bus.ObjectAdded("/sensors/4"))
	assert.Equal(t, 0, bus.ObjectRemoved("/sensors/4"))
}

func TestEmissionFailureLeavesObjectUnannounced(t *testing.T) {
	bus := NewRecordingBus()

	obj, err := New(bus, "/sensors/5", Compose(testCtor("a.B")),
		WithAction(ActionDeferEmit))
	require.NoError(t, err)

	lost := errors.New("connection lost")
	bus.FailEmit[EventObjectAdded] = lost

	err = obj.EmitObjectAdded()
	require.Error(t, err)
	assert.ErrorIs(t, err, lost)
	assert.False(t, obj.Announced())

	// The failure did not corrupt state: once the bus recovers, the same
	// call succeeds and arms removal as usual.
	delete(bus.FailEmit, EventObjectAdded)
	require.NoError(t, obj.EmitObjectAdded())
	assert.True(t, obj.Announced())

	require.NoError(t, obj.Close())
	assert.Equal(t, 1, bus.ObjectRemoved("/sensors/5"))
}

func TestCloseWithoutAnnounceEmitsNoRemoved(t *testing.T) {
	bus := NewRecordingBus()

	obj, err := New(bus, "/sensors/6", Compose(testCtor("a.B")),
		WithAction(ActionDeferEmit))
	require.NoError(t, err)

	require.NoError(t, obj.Close())
	assert.Equal(t, 0, bus.ObjectRemoved("/sensors/6"))
	assert.False(t, bus.Registered("/sensors/6", "a.B"))
}

func TestCloseIdempotent(t *testing.T) {
	bus := NewRecordingBus()

	obj, err := New(bus, "/sensors/7", Compose(testCtor("a.B")))
	require.NoError(t, err)

	require.NoError(t, obj.Close())
	require.NoError(t, obj.Close())
	assert.Equal(t, 1, bus.ObjectRemoved("/sensors/7"))
}

func TestInterfaceAddedThenManualObjectAdded(t *testing.T) {
	// The per-interface action does not arm removal, so a later manual
	// whole-object announcement still emits once.
	bus := NewRecordingBus()

	obj, err := New(bus, "/sensors/8", Compose(testCtor("a.B")),
		WithAction(ActionEmitInterfaceAdded))
	require.NoError(t, err)

	require.NoError(t, obj.EmitObjectAdded())
	assert.Equal(t, 1, bus.ObjectAdded("/sensors/8"))

	require.NoError(t, obj.Close())
	assert.Equal(t, 1, bus.ObjectRemoved("/sensors/8"))
}

func TestEmitObjectAddedAfterClose(t *testing.T) {
	bus := NewRecordingBus()

	obj, err := New(bus, "/sensors/9", Compose(testCtor("a.B")))
	require.NoError(t, err)
	require.NoError(t, obj.Close())

	assert.ErrorIs(t, obj.EmitObjectAdded(), ErrObjectClosed)
}

func TestNewRejectsInvalidPath(t *testing.T) {
	bus := NewRecordingBus()

	_, err := New(bus, "sensors/0", Compose(testCtor("a.B")))
	assert.ErrorIs(t, err, ErrInvalidPath)

	// Nothing touched the bus.
	assert.Empty(t, bus.Events())
}

func TestEmptyDefinition(t *testing.T) {
	bus := NewRecordingBus()

	obj, err := New(bus, "/empty", Compose())
	require.NoError(t, err)
	assert.Empty(t, obj.Names())
	assert.Equal(t, 1, bus.ObjectAdded("/empty"))

	require.NoError(t, obj.Close())
	assert.Equal(t, 1, bus.ObjectRemoved("/empty"))
}

func TestCloseReturnsRemovedEmissionError(t *testing.T) {
	bus := NewRecordingBus()

	obj, err := New(bus, "/sensors/10", Compose(testCtor("a.B")))
	require.NoError(t, err)

	lost := errors.New("connection lost")
	bus.FailEmit[EventObjectRemoved] = lost

	err = obj.Close()
	require.Error(t, err)
	assert.ErrorIs(t, err, lost)

	// Module release still ran.
	assert.False(t, bus.Registered("/sensors/10", "a.B"))
}

type powerModule struct {
	*Iface
}

type temperatureModule struct {
	*Iface
}

func TestInterfaceAndFind(t *testing.T) {
	bus := NewRecordingBus()

	obj, err := New(bus, "/sensors/11", Compose(
		func(bus Bus, path string) (Interface, error) {
			base, err := NewIface(bus, path, Descriptor{Name: "a.Power"})
			if err != nil {
				return nil, err
			}
			return &powerModule{Iface: base}, nil
		},
		func(bus Bus, path string) (Interface, error) {
			base, err := NewIface(bus, path, Descriptor{Name: "a.Temperature"})
			if err != nil {
				return nil, err
			}
			return &temperatureModule{Iface: base}, nil
		},
	))
	require.NoError(t, err)
	defer obj.Close()

	assert.Equal(t, []string{"a.Power", "a.Temperature"}, obj.Names())

	m, ok := obj.Interface("a.Temperature")
	require.True(t, ok)
	assert.Equal(t, "a.Temperature", m.Name())

	_, ok = obj.Interface("a.Missing")
	assert.False(t, ok)

	power, ok := Find[*powerModule](obj)
	require.True(t, ok)
	assert.Equal(t, "a.Power", power.Name())

	_, ok = Find[*struct{ Interface }](obj)
	assert.False(t, ok)

	assert.Len(t, obj.Interfaces(), 2)
}
