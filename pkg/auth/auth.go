// Package auth checks bearer tokens against a configured set of allowed
// API keys. When auth is required but no keys were configured, an
// ephemeral key is generated at startup and logged once — the operator's
// only chance to see it, the same "fail loud at boot, not silently at
// request time" posture the teacher's config loader uses for missing
// required settings.
package auth

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"log/slog"
	"strings"
)

// Checker validates bearer tokens against an allowed set.
type Checker struct {
	required bool
	keys     map[string][]byte // key -> sha-independent raw bytes for constant-time compare
}

// NewChecker builds a Checker from configured keys. If required is true and
// keys is empty, an ephemeral key is generated and logged once so the
// deployment is still usable without failing startup outright.
func NewChecker(required bool, keys []string) *Checker {
	c := &Checker{required: required, keys: make(map[string][]byte)}

	for _, k := range keys {
		k = strings.TrimSpace(k)
		if k != "" {
			c.keys[k] = []byte(k)
		}
	}

	if required && len(c.keys) == 0 {
		ephemeral := generateKey()
		c.keys[ephemeral] = []byte(ephemeral)
		slog.Info("no API keys configured; generated an ephemeral key for this run only",
			"api_key", ephemeral)
	}

	return c
}

// generateKey produces a 32-byte random hex token via crypto/rand — never
// math/rand, since this value gates request authorization.
func generateKey() string {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand.Read failing means the OS entropy source is broken;
		// there is no safe fallback, so panic rather than issue a weak key.
		panic("auth: failed to generate ephemeral key: " + err.Error())
	}
	return hex.EncodeToString(buf)
}

// Required reports whether requests must present a valid bearer token.
func (c *Checker) Required() bool {
	return c.required
}

// Check validates a raw Authorization header value ("Bearer <token>").
// Comparison is constant-time to avoid leaking key material through
// response-time side channels.
func (c *Checker) Check(authorizationHeader string) bool {
	if !c.required {
		return true
	}

	token, ok := strings.CutPrefix(authorizationHeader, "Bearer ")
	if !ok {
		return false
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return false
	}

	want, ok := c.keys[token]
	if !ok {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(token), want) == 1
}
