package busobj

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComposeAllOrder(t *testing.T) {
	bus := NewRecordingBus()

	ifaces, err := composeAll(bus, "/x", Compose(
		testCtor("a.First"),
		testCtor("a.Second"),
		testCtor("a.Third"),
	))
	require.NoError(t, err)
	require.Len(t, ifaces, 3)

	events := bus.Events()
	require.Len(t, events, 3)
	assert.Equal(t, "a.First", events[0].Name)
	assert.Equal(t, "a.Second", events[1].Name)
	assert.Equal(t, "a.Third", events[2].Name)
}

func TestComposeAllEmpty(t *testing.T) {
	bus := NewRecordingBus()

	ifaces, err := composeAll(bus, "/x", nil)
	require.NoError(t, err)
	assert.Empty(t, ifaces)
	assert.Empty(t, bus.Events())
}

func TestComposeAllRollback(t *testing.T) {
	bus := NewRecordingBus()
	boom := errors.New("registration rejected")
	bus.FailRegister["a.Second"] = boom

	_, err := composeAll(bus, "/x", Compose(
		testCtor("a.First"),
		testCtor("a.Second"),
	))
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)

	assert.Equal(t, []EventKind{EventRegister, EventUnregister}, bus.Kinds())
	assert.False(t, bus.Registered("/x", "a.First"))
}

func TestReleaseAllKeepsGoingOnError(t *testing.T) {
	first := errors.New("first failure")
	released := []string{}

	mk := func(name string, err error) Interface {
		return &trackedModule{name: name, err: err, released: &released}
	}

	err := releaseAll([]Interface{
		mk("a", nil),
		mk("b", first),
		mk("c", nil),
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, first)

	// Reverse order, and the failure did not stop the rest.
	assert.Equal(t, []string{"c", "b", "a"}, released)
}

type trackedModule struct {
	name     string
	err      error
	released *[]string
}

func (m *trackedModule) Name() string     { return m.name }
func (m *trackedModule) EmitAdded() error { return nil }

func (m *trackedModule) Release() error {
	*m.released = append(*m.released, m.name)
	return m.err
}
