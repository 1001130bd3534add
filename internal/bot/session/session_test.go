package session

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStateDefaultsToIdle(t *testing.T) {
	m := NewManager()
	require.Equal(t, StateIdle, m.State(100))
	require.False(t, m.InProgress(100))
	require.False(t, m.ForwardSuspended(100))
}

func TestSetStateTransitions(t *testing.T) {
	m := NewManager()

	m.SetState(100, StateMainMenu)
	require.Equal(t, StateMainMenu, m.State(100))
	require.False(t, m.InProgress(100))

	m.SetState(100, StateBinding)
	require.Equal(t, StateBinding, m.State(100))
	require.True(t, m.InProgress(100))

	m.SetState(100, StateTypingDescription)
	require.True(t, m.InProgress(100))
}

func TestSessionsAreIsolatedPerUser(t *testing.T) {
	m := NewManager()

	m.SetState(100, StateBinding)
	require.Equal(t, StateIdle, m.State(200))
	require.False(t, m.InProgress(200))
}

func TestSelectChannel(t *testing.T) {
	m := NewManager()

	m.SetState(100, StateUserChannels)
	m.SelectChannel(100, -100123, "Alpha")

	sess := m.Get(100)
	require.Equal(t, int64(-100123), sess.SelectedChannelID)
	require.Equal(t, "Alpha", sess.SelectedChannelTitle)
	require.Equal(t, StateUserChannels, sess.State)
}

func TestForwardSuspendedToggle(t *testing.T) {
	m := NewManager()

	m.SetForwardSuspended(100, true)
	require.True(t, m.ForwardSuspended(100))

	m.SetForwardSuspended(100, false)
	require.False(t, m.ForwardSuspended(100))
}

func TestResetDropsEverything(t *testing.T) {
	m := NewManager()

	m.SetState(100, StateBinding)
	m.SelectChannel(100, -100123, "Alpha")
	m.SetForwardSuspended(100, true)

	m.Reset(100)

	sess := m.Get(100)
	require.Equal(t, StateIdle, sess.State)
	require.Zero(t, sess.SelectedChannelID)
	require.Empty(t, sess.SelectedChannelTitle)
	require.False(t, sess.ForwardSuspended)
}

func TestGetReturnsCopy(t *testing.T) {
	m := NewManager()
	m.SetState(100, StateMainMenu)

	sess := m.Get(100)
	sess.State = StateBinding
	sess.SelectedChannelID = -1

	require.Equal(t, StateMainMenu, m.State(100))
	require.Zero(t, m.Get(100).SelectedChannelID)
}
