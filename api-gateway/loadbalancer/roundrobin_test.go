package loadbalancer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRoundRobin(t *testing.T) {
	t.Run("rotates through instances", func(t *testing.T) {
		rr := NewRoundRobin([]string{"http://a", "http://b", "http://c"})

		assert.Equal(t, "http://a", rr.Next())
		assert.Equal(t, "http://b", rr.Next())
		assert.Equal(t, "http://c", rr.Next())
		assert.Equal(t, "http://a", rr.Next())
	})

	t.Run("empty pool falls back to the default instance", func(t *testing.T) {
		rr := NewRoundRobin(nil)
		assert.Equal(t, 1, rr.Len())
		assert.NotEmpty(t, rr.Next())
	})

	t.Run("instances returns a copy", func(t *testing.T) {
		rr := NewRoundRobin([]string{"http://a"})
		instances := rr.Instances()
		instances[0] = "mutated"
		assert.Equal(t, "http://a", rr.Next())
	})
}
