// Package ratelimit implements a per-client, per-endpoint-class token
// bucket. It is hand-rolled rather than built on golang.org/x/time/rate
// because callers need to inspect bucket state directly (remaining tokens,
// retry-after hint) for response headers — x/time/rate deliberately hides
// that. The mutex-guarded map with lazy expiry follows the same shape as
// the teacher's runbook.Cache: no background goroutine, expiry checked and
// cleaned up opportunistically on access.
package ratelimit

import (
	"sync"
	"time"
)

// bucket tracks one (client, endpoint class) pair's token state.
type bucket struct {
	capacity   float64
	refillRate float64 // tokens per second
	tokens     float64
	lastRefill time.Time
}

func (b *bucket) refill(now time.Time) {
	elapsed := now.Sub(b.lastRefill).Seconds()
	if elapsed <= 0 {
		return
	}
	b.tokens += elapsed * b.refillRate
	if b.tokens > b.capacity {
		b.tokens = b.capacity
	}
	b.lastRefill = now
}

// Decision is the outcome of an Allow check.
type Decision struct {
	Allowed    bool
	Remaining  float64
	RetryAfter time.Duration
}

// EndpointClass groups endpoints that share a quota — spec §6.6 rate-limits
// generation endpoints separately and more strictly than read-only ones.
type EndpointClass string

const (
	ClassGeneration EndpointClass = "generation"
	ClassDefault    EndpointClass = "default"
)

// Limits configures capacity and refill rate per endpoint class.
type Limits struct {
	Capacity   float64
	RefillRate float64
}

// Limiter holds one bucket per (client, class) key.
type Limiter struct {
	mu      sync.Mutex
	buckets map[string]*bucket
	limits  map[EndpointClass]Limits
	// staleAfter bounds how long an idle bucket survives before GC reclaims
	// it — otherwise every distinct client ever seen leaks memory forever.
	staleAfter time.Duration
}

// NewLimiter builds a limiter from a class→limits map. Classes not present
// fall back to ClassDefault's limits, then to a permissive default.
func NewLimiter(limits map[EndpointClass]Limits, staleAfter time.Duration) *Limiter {
	if staleAfter <= 0 {
		staleAfter = 10 * time.Minute
	}
	return &Limiter{
		buckets:    make(map[string]*bucket),
		limits:     limits,
		staleAfter: staleAfter,
	}
}

func (l *Limiter) limitsFor(class EndpointClass) Limits {
	if lim, ok := l.limits[class]; ok {
		return lim
	}
	if lim, ok := l.limits[ClassDefault]; ok {
		return lim
	}
	return Limits{Capacity: 60, RefillRate: 1}
}

func key(client string, class EndpointClass) string {
	return string(class) + "\x00" + client
}

// Allow consumes one token for (client, class) if available.
func (l *Limiter) Allow(client string, class EndpointClass) Decision {
	return l.AllowN(client, class, 1)
}

// AllowN consumes n tokens, for endpoints whose cost varies (e.g. chained
// generation costing more than a single-stage request).
func (l *Limiter) AllowN(client string, class EndpointClass, n float64) Decision {
	now := time.Now()
	lim := l.limitsFor(class)

	l.mu.Lock()
	defer l.mu.Unlock()

	l.gcLocked(now)

	k := key(client, class)
	b, ok := l.buckets[k]
	if !ok {
		b = &bucket{capacity: lim.Capacity, refillRate: lim.RefillRate, tokens: lim.Capacity, lastRefill: now}
		l.buckets[k] = b
	}
	b.refill(now)

	if b.tokens >= n {
		b.tokens -= n
		return Decision{Allowed: true, Remaining: b.tokens}
	}

	deficit := n - b.tokens
	var retryAfter time.Duration
	if b.refillRate > 0 {
		retryAfter = time.Duration(deficit/b.refillRate*1000) * time.Millisecond
	}
	return Decision{Allowed: false, Remaining: b.tokens, RetryAfter: retryAfter}
}

// gcLocked removes buckets that have been idle past staleAfter. Called
// opportunistically from Allow rather than via a background goroutine,
// matching the lazy-expiry style the teacher's cache package uses.
func (l *Limiter) gcLocked(now time.Time) {
	for k, b := range l.buckets {
		if now.Sub(b.lastRefill) > l.staleAfter {
			delete(l.buckets, k)
		}
	}
}

// Len reports the number of live buckets, for tests and metrics.
func (l *Limiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.buckets)
}
