package session_test

import (
	"testing"

	"github.com/goliatone/go-session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithLoadingBracketsAction(t *testing.T) {
	var trace []bool
	err := session.WithLoading(func(v bool) {
		trace = append(trace, v)
	}, func() error {
		require.Equal(t, []bool{true}, trace)
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, []bool{true, false}, trace)
}

func TestWithLoadingClearsFlagOnError(t *testing.T) {
	var trace []bool
	err := session.WithLoading(func(v bool) {
		trace = append(trace, v)
	}, func() error {
		return assert.AnError
	})

	assert.ErrorIs(t, err, assert.AnError)
	assert.Equal(t, []bool{true, false}, trace)
}

func TestWithLoadingClearsFlagOnPanic(t *testing.T) {
	var trace []bool
	assert.Panics(t, func() {
		session.WithLoading(func(v bool) {
			trace = append(trace, v)
		}, func() error {
			panic("boom")
		})
	})

	assert.Equal(t, []bool{true, false}, trace)
}
