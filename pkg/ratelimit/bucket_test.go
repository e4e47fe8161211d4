package ratelimit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLimits() map[EndpointClass]Limits {
	return map[EndpointClass]Limits{
		ClassGeneration: {Capacity: 2, RefillRate: 1},
		ClassDefault:    {Capacity: 5, RefillRate: 5},
	}
}

func TestAllowWithinCapacity(t *testing.T) {
	l := NewLimiter(testLimits(), time.Minute)
	d := l.Allow("client-a", ClassGeneration)
	assert.True(t, d.Allowed)
	assert.Equal(t, float64(1), d.Remaining)
}

func TestAllowRejectsOverCapacity(t *testing.T) {
	l := NewLimiter(testLimits(), time.Minute)
	require.True(t, l.Allow("client-a", ClassGeneration).Allowed)
	require.True(t, l.Allow("client-a", ClassGeneration).Allowed)

	d := l.Allow("client-a", ClassGeneration)
	assert.False(t, d.Allowed)
	assert.Greater(t, d.RetryAfter, time.Duration(0))
}

func TestBucketsArePerClientIndependent(t *testing.T) {
	l := NewLimiter(testLimits(), time.Minute)
	require.True(t, l.Allow("client-a", ClassGeneration).Allowed)
	require.True(t, l.Allow("client-a", ClassGeneration).Allowed)
	assert.False(t, l.Allow("client-a", ClassGeneration).Allowed)

	// A different client has its own untouched bucket.
	assert.True(t, l.Allow("client-b", ClassGeneration).Allowed)
}

func TestBucketsArePerClassIndependent(t *testing.T) {
	l := NewLimiter(testLimits(), time.Minute)
	require.True(t, l.Allow("client-a", ClassGeneration).Allowed)
	require.True(t, l.Allow("client-a", ClassGeneration).Allowed)
	assert.False(t, l.Allow("client-a", ClassGeneration).Allowed)

	assert.True(t, l.Allow("client-a", ClassDefault).Allowed)
}

func TestUnknownClassFallsBackToDefaultLimits(t *testing.T) {
	l := NewLimiter(testLimits(), time.Minute)
	d := l.Allow("client-a", EndpointClass("mystery"))
	assert.True(t, d.Allowed)
	assert.Equal(t, float64(4), d.Remaining)
}

func TestStaleBucketsAreGarbageCollected(t *testing.T) {
	l := NewLimiter(testLimits(), time.Millisecond)
	l.Allow("client-a", ClassGeneration)
	assert.Equal(t, 1, l.Len())

	time.Sleep(5 * time.Millisecond)
	l.Allow("client-b", ClassGeneration)
	assert.Equal(t, 1, l.Len(), "client-a's stale bucket should have been reclaimed")
}

func TestAllowNConsumesMultipleTokens(t *testing.T) {
	l := NewLimiter(testLimits(), time.Minute)
	d := l.AllowN("client-a", ClassGeneration, 2)
	assert.True(t, d.Allowed)
	assert.Equal(t, float64(0), d.Remaining)

	assert.False(t, l.Allow("client-a", ClassGeneration).Allowed)
}
