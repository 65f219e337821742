package chime

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManualClock_AdvanceFiresDueTimersInOrder(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	clock := NewManualClock(start)

	var order []string
	clock.AfterFunc(3*time.Second, func() { order = append(order, "c") })
	clock.AfterFunc(1*time.Second, func() { order = append(order, "a") })
	clock.AfterFunc(2*time.Second, func() { order = append(order, "b") })

	clock.Advance(5 * time.Second)

	assert.Equal(t, []string{"a", "b", "c"}, order)
	assert.Equal(t, start.Add(5*time.Second), clock.Now())
}

func TestManualClock_AdvanceOnlyFiresDueTimers(t *testing.T) {
	start := time.Now()
	clock := NewManualClock(start)

	fired := false
	clock.AfterFunc(10*time.Second, func() { fired = true })

	clock.Advance(5 * time.Second)
	assert.False(t, fired)

	clock.Advance(5 * time.Second)
	assert.True(t, fired)
}

func TestManualClock_StopPreventsFiring(t *testing.T) {
	clock := NewManualClock(time.Now())

	fired := false
	timer := clock.AfterFunc(time.Second, func() { fired = true })

	stopped := timer.Stop()
	require.True(t, stopped)

	clock.Advance(2 * time.Second)
	assert.False(t, fired)

	assert.False(t, timer.Stop(), "stopping an already-stopped timer reports false")
}

func TestManualClock_SetJumpsDirectlyToTime(t *testing.T) {
	start := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)
	clock := NewManualClock(start)

	fired := false
	clock.AfterFunc(time.Hour, func() { fired = true })

	clock.Set(start.Add(2 * time.Hour))
	assert.True(t, fired)
	assert.Equal(t, start.Add(2*time.Hour), clock.Now())
}
