package registry

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEventSetIsIdempotentAndRunsOnFireOnce(t *testing.T) {
	calls := 0
	ev := NewEvent(func() { calls++ })
	require.False(t, ev.Fired())
	ev.Set()
	ev.Set()
	require.True(t, ev.Fired())
	require.Equal(t, 1, calls)

	select {
	case <-ev.Done():
	default:
		t.Fatal("Done channel should be closed after Set")
	}
}

func TestNotifyEngineArmReplacesSameSubscriber(t *testing.T) {
	n := newNotifyEngine()
	ev1 := NewEvent(nil)
	ev2 := NewEvent(nil)
	n.Arm(1, 100, 1, 0xFFFF, true, ev1)
	n.Arm(1, 100, 1, 0xFFFF, true, ev2)
	require.Len(t, n.subs[1], 1)
	require.Same(t, ev2, n.subs[1][0].event)
}

func TestNotifyEngineRemoveAllForKeySignalsOutstanding(t *testing.T) {
	n := newNotifyEngine()
	ev := NewEvent(nil)
	n.Arm(5, 1, 1, 0xFFFF, false, ev)
	n.RemoveAllForKey(5)
	require.True(t, ev.Fired())
	require.Empty(t, n.subs[5])
}
