// Package suggest computes "did you mean" hints for mistyped enum values.
package suggest

import (
	"fmt"
	"strings"

	"github.com/agext/levenshtein"
)

// Best returns the candidate closest to received by normalized Levenshtein
// distance, or false when no candidate is close enough to be a plausible
// correction. Comparison trims whitespace and ignores case; the returned
// value keeps the candidate's original form.
//
// The cutoff is max(3, len(received)/2): short inputs tolerate up to three
// edits, longer inputs scale with half their length so wildly different
// strings never produce a nonsensical hint.
func Best(received string, candidates []any) (any, bool) {
	needle := normalize(received)
	if needle == "" || len(candidates) == 0 {
		return nil, false
	}

	bestDistance := -1
	var best any
	for _, candidate := range candidates {
		distance := levenshtein.Distance(needle, normalize(stringify(candidate)), nil)
		if bestDistance < 0 || distance < bestDistance {
			bestDistance = distance
			best = candidate
		}
	}

	if bestDistance < 0 || bestDistance > cutoff(needle) {
		return nil, false
	}
	return best, true
}

// BestString is Best restricted to string candidates.
func BestString(received string, candidates []string) (string, bool) {
	anys := make([]any, len(candidates))
	for i, c := range candidates {
		anys[i] = c
	}
	match, ok := Best(received, anys)
	if !ok {
		return "", false
	}
	s, ok := match.(string)
	return s, ok
}

func cutoff(needle string) int {
	half := len(needle) / 2
	if half < 3 {
		return 3
	}
	return half
}

func normalize(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}

func stringify(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case nil:
		return ""
	default:
		return fmt.Sprint(v)
	}
}
