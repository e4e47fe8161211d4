// Package sanitize applies non-destructive cleanup to untrusted request
// input: stripping null bytes, clamping length, and eliding markup patterns
// that could behave as XSS if ever reflected back into an HTML context.
// Elision, never rejection — matching the masking package's defensive
// posture of degrading output rather than failing the whole request.
package sanitize

import (
	"log/slog"
	"strings"
	"unicode/utf8"
)

// DefaultMaxDescriptionLength bounds the request description and similar free
// text fields. Requests over this are clamped, not rejected.
const DefaultMaxDescriptionLength = 10000

// Result reports what a Text call changed, so callers can log or
// surface a warning without re-deriving it from the before/after strings.
type Result struct {
	Text           string
	NullBytesFound bool
	Truncated      bool
	PatternsFired  []string
}

// Text strips null bytes, elides XSS-shaped markup, and clamps to maxLen
// runes (DefaultMaxDescriptionLength when maxLen <= 0).
func Text(input string, maxLen int) Result {
	if maxLen <= 0 {
		maxLen = DefaultMaxDescriptionLength
	}

	res := Result{Text: input}

	if strings.ContainsRune(input, 0) {
		res.NullBytesFound = true
		res.Text = strings.ReplaceAll(res.Text, "\x00", "")
	}

	for _, p := range xssPatterns {
		if p.Regex.MatchString(res.Text) {
			res.PatternsFired = append(res.PatternsFired, p.Name)
			res.Text = p.Regex.ReplaceAllString(res.Text, p.Replacement)
		}
	}

	if utf8.RuneCountInString(res.Text) > maxLen {
		runes := []rune(res.Text)
		res.Text = string(runes[:maxLen])
		res.Truncated = true
	}

	if res.NullBytesFound || res.Truncated || len(res.PatternsFired) > 0 {
		slog.Warn("sanitized request text",
			"null_bytes_found", res.NullBytesFound,
			"truncated", res.Truncated,
			"patterns_fired", res.PatternsFired,
		)
	}

	return res
}
