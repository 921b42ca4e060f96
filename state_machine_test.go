package session_test

import (
	"testing"

	"github.com/goliatone/go-session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStateMachineAllowedTransitions(t *testing.T) {
	sm := session.NewStateMachine()

	tests := []struct {
		from, to session.Status
		allowed  bool
	}{
		{session.StatusAnonymous, session.StatusAuthenticating, true},
		{session.StatusAuthenticating, session.StatusAuthenticated, true},
		{session.StatusAuthenticating, session.StatusAnonymous, true},
		{session.StatusAuthenticated, session.StatusAuthenticating, true},
		{session.StatusAuthenticated, session.StatusAnonymous, true},
		{session.StatusAnonymous, session.StatusAuthenticated, false},
		{session.Status("bogus"), session.StatusAuthenticated, false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.allowed, sm.Can(tt.from, tt.to), "%s -> %s", tt.from, tt.to)
	}
}

func TestStateMachineSelfTransitionsAllowed(t *testing.T) {
	sm := session.NewStateMachine()

	for _, status := range []session.Status{
		session.StatusAnonymous,
		session.StatusAuthenticating,
		session.StatusAuthenticated,
	} {
		assert.True(t, sm.Can(status, status), status)
	}
}

func TestStateMachineTransition(t *testing.T) {
	sm := session.NewStateMachine()

	status, err := sm.Transition(session.StatusAnonymous, session.StatusAuthenticating)
	require.NoError(t, err)
	assert.Equal(t, session.StatusAuthenticating, status)

	status, err = sm.Transition(session.StatusAnonymous, session.StatusAuthenticated)
	require.Error(t, err)
	assert.Equal(t, session.StatusAnonymous, status, "failed transitions return the current status")
}

func TestStateMachineTransitionRejectsEmptyTarget(t *testing.T) {
	sm := session.NewStateMachine()

	status, err := sm.Transition(session.StatusAuthenticated, "")
	require.Error(t, err)
	assert.Equal(t, session.StatusAuthenticated, status)
}

func TestStateMachineForcedTransition(t *testing.T) {
	sm := session.NewStateMachine()

	status, err := sm.Transition(session.StatusAnonymous, session.StatusAuthenticated, session.WithForce())
	require.NoError(t, err)
	assert.Equal(t, session.StatusAuthenticated, status)

	// Force never bypasses the empty-target check.
	_, err = sm.Transition(session.StatusAnonymous, "", session.WithForce())
	require.Error(t, err)
}
