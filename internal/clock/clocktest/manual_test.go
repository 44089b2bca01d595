package clocktest

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestManual_FiresInOrderAndHonoursStop(t *testing.T) {
	start := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	m := New(start)
	var fired []string

	m.AfterFunc(2*time.Second, func() { fired = append(fired, "two") })
	m.AfterFunc(1*time.Second, func() {
		fired = append(fired, "one")
		m.AfterFunc(500*time.Millisecond, func() { fired = append(fired, "chained") })
	})
	stopped := m.AfterFunc(1500*time.Millisecond, func() { fired = append(fired, "stopped") })
	assert.True(t, stopped.Stop())
	assert.False(t, stopped.Stop())

	m.Advance(2 * time.Second)

	assert.Equal(t, []string{"one", "chained", "two"}, fired)
	assert.Equal(t, start.Add(2*time.Second), m.Now())
	assert.Equal(t, 0, m.Pending())
}
