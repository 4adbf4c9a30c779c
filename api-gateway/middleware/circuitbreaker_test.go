package middleware

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCircuitBreaker(t *testing.T) {
	failing := func() error { return errors.New("backend down") }
	ok := func() error { return nil }

	t.Run("opens after consecutive failures", func(t *testing.T) {
		cb := NewCircuitBreaker(3, time.Minute)

		for i := 0; i < 3; i++ {
			assert.Error(t, cb.Call(failing))
		}
		assert.Equal(t, StateOpen, cb.State())

		err := cb.Call(ok)
		assert.Error(t, err, "open breaker rejects without calling")
	})

	t.Run("success resets the failure count while closed", func(t *testing.T) {
		cb := NewCircuitBreaker(3, time.Minute)

		require.Error(t, cb.Call(failing))
		require.Error(t, cb.Call(failing))
		require.NoError(t, cb.Call(ok))
		require.Error(t, cb.Call(failing))
		require.Error(t, cb.Call(failing))

		assert.Equal(t, StateClosed, cb.State())
	})

	t.Run("recovers through half-open", func(t *testing.T) {
		cb := NewCircuitBreaker(1, 10*time.Millisecond)

		require.Error(t, cb.Call(failing))
		require.Equal(t, StateOpen, cb.State())

		time.Sleep(20 * time.Millisecond)

		// Three successful probes close the circuit again.
		for i := 0; i < 3; i++ {
			require.NoError(t, cb.Call(ok))
		}
		assert.Equal(t, StateClosed, cb.State())
	})

	t.Run("half-open failure reopens", func(t *testing.T) {
		cb := NewCircuitBreaker(1, 10*time.Millisecond)

		require.Error(t, cb.Call(failing))
		time.Sleep(20 * time.Millisecond)

		require.Error(t, cb.Call(failing))
		assert.Equal(t, StateOpen, cb.State())
	})
}
