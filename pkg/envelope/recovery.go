package envelope

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// Parse applies the recovery chain from spec §4.4 and returns the decoded
// envelope plus diagnostics describing which tier succeeded:
//  1. Strip leading/trailing whitespace and fenced-code delimiters.
//  2. If non-JSON preamble remains, locate the first balanced top-level
//     {...} substring.
//  3. Attempt JSON decode; on failure apply conservative quote/escape
//     repairs and retry once.
//  4. If still failing, return a *ParseError.
//
// Repair is conservative by design (Design Notes §9): it never invents file
// content. On ambiguity it is the caller's job to fall back to empty-stage
// semantics rather than this package guessing at missing data.
func Parse(raw string) (*Envelope, *Diagnostics, error) {
	diag := &Diagnostics{Tier: TierClean}

	candidate := strings.TrimSpace(raw)

	stripped := stripFences(candidate)
	if stripped != candidate {
		diag.FenceStripped = true
		diag.Tier = TierFenceStripped
		candidate = stripped
	}

	if env, err := decode(candidate); err == nil {
		return env, diag, nil
	}

	balanced, ok := extractBalancedObject(candidate)
	if ok && balanced != candidate {
		diag.BalancedFound = true
		diag.Tier = TierBalancedExtract
		candidate = balanced
		if env, err := decode(candidate); err == nil {
			return env, diag, nil
		}
	}

	repaired := conservativeRepair(candidate)
	if repaired != candidate {
		diag.RepairApplied = true
		diag.Tier = TierConservativeRepair
		if env, err := decode(repaired); err == nil {
			return env, diag, nil
		}
	}

	return nil, diag, &ParseError{Raw: raw, Reason: "no recovery tier produced valid JSON"}
}

// stripFences removes a single leading/trailing markdown code fence
// (``` or ```json) if the whole body is wrapped in one.
func stripFences(s string) string {
	trimmed := strings.TrimSpace(s)
	if !strings.HasPrefix(trimmed, "```") {
		return s
	}
	lines := strings.SplitN(trimmed, "\n", 2)
	if len(lines) < 2 {
		return s
	}
	body := lines[1]
	if idx := strings.LastIndex(body, "```"); idx >= 0 {
		body = body[:idx]
	}
	return strings.TrimSpace(body)
}

// extractBalancedObject locates the first balanced top-level {...}
// substring, treating quoted string regions as opaque so braces inside
// string literals never unbalance the scan. An opening brace that is never
// closed (e.g. a stray "{" in preamble text) is skipped and the scan
// restarts at the next one.
func extractBalancedObject(s string) (string, bool) {
	for start := strings.IndexByte(s, '{'); start >= 0; {
		if obj, ok := balancedFrom(s, start); ok {
			return obj, true
		}
		next := strings.IndexByte(s[start+1:], '{')
		if next < 0 {
			break
		}
		start += next + 1
	}
	return "", false
}

// balancedFrom scans from the '{' at start to its matching '}'.
func balancedFrom(s string, start int) (string, bool) {
	depth := 0
	inString := false
	escaped := false

	for i := start; i < len(s); i++ {
		c := s[i]

		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}

		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[start : i+1], true
			}
		}
	}
	return "", false
}

// conservativeRepair applies a small, deliberately limited set of textual
// repairs: normalizing curly quotes the model sometimes emits instead of
// straight quotes, and stripping trailing commas before a closing brace or
// bracket — both are cosmetic JSON violations, never a content rewrite.
func conservativeRepair(s string) string {
	repl := strings.NewReplacer(
		"“", `"`, "”", `"`,
		"‘", "'", "’", "'",
	)
	s = repl.Replace(s)
	s = stripTrailingCommas(s)
	return s
}

func stripTrailingCommas(s string) string {
	var sb strings.Builder
	inString := false
	escaped := false

	for i := 0; i < len(s); i++ {
		c := s[i]
		if inString {
			sb.WriteByte(c)
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}

		if c == '"' {
			inString = true
			sb.WriteByte(c)
			continue
		}

		if c == ',' {
			// Look ahead past whitespace for a closing brace/bracket.
			j := i + 1
			for j < len(s) && (s[j] == ' ' || s[j] == '\n' || s[j] == '\t' || s[j] == '\r') {
				j++
			}
			if j < len(s) && (s[j] == '}' || s[j] == ']') {
				continue // drop the trailing comma
			}
		}

		sb.WriteByte(c)
	}
	return sb.String()
}

// decode performs the strict JSON decode, then tolerantly back-fills any
// field encoding/json's strict typing rejected (e.g. a dependency list given
// as a single string instead of an array) using gjson/sjson, rather than
// failing the whole envelope over one malformed optional field.
func decode(s string) (*Envelope, error) {
	var env Envelope
	if err := json.Unmarshal([]byte(s), &env); err == nil {
		if env.Files == nil {
			return nil, fmt.Errorf("envelope: missing mandatory \"files\" field")
		}
		return &env, nil
	}

	// Strict decode failed — attempt a tolerant field-by-field extraction
	// using gjson, normalizing shapes sjson/gjson can read even when the
	// overall document has minor structural issues elsewhere.
	if !gjson.Valid(s) {
		return nil, fmt.Errorf("envelope: invalid JSON")
	}

	filesResult := gjson.Get(s, "files")
	if !filesResult.Exists() || !filesResult.IsArray() {
		return nil, fmt.Errorf("envelope: missing mandatory \"files\" array")
	}

	var files []GeneratedFile
	for _, f := range filesResult.Array() {
		files = append(files, GeneratedFile{
			Path:        f.Get("path").String(),
			Content:     f.Get("content").String(),
			Description: f.Get("description").String(),
		})
	}

	normalized, err := sjson.Set("{}", "files", files)
	if err != nil {
		return nil, fmt.Errorf("envelope: normalizing files: %w", err)
	}

	var env2 Envelope
	if err := json.Unmarshal([]byte(normalized), &env2); err != nil {
		return nil, fmt.Errorf("envelope: re-decoding normalized files: %w", err)
	}

	env2.Dependencies = stringSliceMap(gjson.Get(s, "dependencies"))
	env2.ProjectStructure = stringSliceMap(gjson.Get(s, "project_structure"))
	for _, v := range gjson.Get(s, "setup_instructions").Array() {
		env2.SetupInstructions = append(env2.SetupInstructions, v.String())
	}

	return &env2, nil
}

func stringSliceMap(result gjson.Result) map[string][]string {
	if !result.Exists() || !result.IsObject() {
		return nil
	}
	out := make(map[string][]string)
	result.ForEach(func(key, value gjson.Result) bool {
		var list []string
		for _, v := range value.Array() {
			list = append(list, v.String())
		}
		out[key.String()] = list
		return true
	})
	return out
}
