package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
)

// Key is a canonical fingerprint. Requests carrying a custom prompt never
// compute one — the pipeline bypasses the cache entirely in that case.
type Key string

// Fingerprint hashes the canonical form of the cacheable request fields.
// mode distinguishes the single-stage and chained pipelines so a cached
// chained-generation response is never served back for a single-stage
// request that happens to share the same image/description/stack.
func Fingerprint(imageBytes []byte, description string, stack map[string]string, projectName string, mode string) Key {
	h := sha256.New()
	h.Write(imageBytes)
	h.Write([]byte{0})
	h.Write([]byte(description))
	h.Write([]byte{0})

	keys := make([]string, 0, len(stack))
	for k := range stack {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		h.Write([]byte(k))
		h.Write([]byte{'='})
		h.Write([]byte(stack[k]))
		h.Write([]byte{0})
	}

	h.Write([]byte(projectName))
	h.Write([]byte{0})
	h.Write([]byte(mode))

	return Key(hex.EncodeToString(h.Sum(nil)))
}
