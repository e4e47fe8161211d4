package cache

import (
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFingerprintIsDeterministic(t *testing.T) {
	stack := map[string]string{"frontend": "react", "backend": "fastapi"}
	a := Fingerprint([]byte("img"), "a description", stack, "proj", "single")
	b := Fingerprint([]byte("img"), "a description", stack, "proj", "single")
	assert.Equal(t, a, b)
}

func TestFingerprintStackKeyOrderIsIrrelevant(t *testing.T) {
	a := Fingerprint(nil, "d", map[string]string{"frontend": "react", "backend": "go"}, "p", "single")
	b := Fingerprint(nil, "d", map[string]string{"backend": "go", "frontend": "react"}, "p", "single")
	assert.Equal(t, a, b)
}

func TestFingerprintDistinguishesPipelineMode(t *testing.T) {
	a := Fingerprint([]byte("img"), "d", nil, "p", "single")
	b := Fingerprint([]byte("img"), "d", nil, "p", "chained")
	assert.NotEqual(t, a, b)
}

func TestFingerprintDistinguishesDescription(t *testing.T) {
	a := Fingerprint([]byte("img"), "one", nil, "p", "single")
	b := Fingerprint([]byte("img"), "two", nil, "p", "single")
	assert.NotEqual(t, a, b)
}

func TestMemoryStoreMissThenHit(t *testing.T) {
	s := NewMemoryStore(DefaultConfig())
	_, ok := s.Get("k")
	assert.False(t, ok)

	require.NoError(t, s.Set("k", []byte("v")))
	v, ok := s.Get("k")
	assert.True(t, ok)
	assert.Equal(t, []byte("v"), v)

	stats := s.Stats()
	assert.Equal(t, int64(1), stats.Hits)
	assert.Equal(t, int64(1), stats.Misses)
}

func TestMemoryStoreEvictsLeastRecentlyUsed(t *testing.T) {
	s := NewMemoryStore(Config{MaxSize: 2, TTL: time.Hour})
	require.NoError(t, s.Set("a", []byte("1")))
	require.NoError(t, s.Set("b", []byte("2")))

	// Touch "a" so "b" becomes the least-recently-used entry.
	_, _ = s.Get("a")

	require.NoError(t, s.Set("c", []byte("3")))

	_, ok := s.Get("b")
	assert.False(t, ok, "b should have been evicted")

	_, ok = s.Get("a")
	assert.True(t, ok)
	_, ok = s.Get("c")
	assert.True(t, ok)
}

func TestMemoryStoreExpiresByTTL(t *testing.T) {
	s := NewMemoryStore(Config{MaxSize: 10, TTL: time.Millisecond})
	require.NoError(t, s.Set("k", []byte("v")))
	time.Sleep(5 * time.Millisecond)

	_, ok := s.Get("k")
	assert.False(t, ok)
}

func TestMemoryStoreDelete(t *testing.T) {
	s := NewMemoryStore(DefaultConfig())
	require.NoError(t, s.Set("k", []byte("v")))
	require.NoError(t, s.Delete("k"))
	_, ok := s.Get("k")
	assert.False(t, ok)
}

func TestRedisStoreRoundTrip(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	s := NewRedisStore(client, "mockforge:cache:", DefaultConfig())

	_, ok := s.Get("k")
	assert.False(t, ok)

	require.NoError(t, s.Set("k", []byte("v")))
	v, ok := s.Get("k")
	assert.True(t, ok)
	assert.Equal(t, []byte("v"), v)

	require.NoError(t, s.Delete("k"))
	_, ok = s.Get("k")
	assert.False(t, ok)
}

func TestRedisStoreRespectsTTL(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	s := NewRedisStore(client, "mockforge:cache:", Config{TTL: time.Second, MaxSize: 10})

	require.NoError(t, s.Set("k", []byte("v")))
	mr.FastForward(2 * time.Second)

	_, ok := s.Get("k")
	assert.False(t, ok)
}
