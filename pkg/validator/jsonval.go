package validator

import "encoding/json"

// validateJSON is the one language where a real, strict parser exists in the
// standard library — there is no reason to hand-roll a heuristic here.
func validateJSON(src string) []string {
	var v any
	if err := json.Unmarshal([]byte(src), &v); err != nil {
		return []string{"invalid JSON: " + err.Error()}
	}
	return nil
}
