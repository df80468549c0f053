// Package suggest finds the closest known name for a misspelled one.
package suggest

import (
	"strings"

	"github.com/agnivade/levenshtein"
)

// maxRatio is the largest edit distance, relative to the longer name,
// still treated as a likely typo.
const maxRatio = 0.4

// Closest returns the candidate nearest to name, compared case-insensitively.
// It returns false when name is empty or nothing is close enough.
func Closest(name string, candidates []string) (string, bool) {
	if name == "" {
		return "", false
	}

	upper := strings.ToUpper(name)
	best := ""
	bestRatio := 1.0
	for _, c := range candidates {
		if c == "" {
			continue
		}
		dist := levenshtein.ComputeDistance(upper, strings.ToUpper(c))
		ratio := float64(dist) / float64(max(len(name), len(c)))
		if ratio < bestRatio {
			best, bestRatio = c, ratio
		}
	}

	if best == "" || bestRatio >= maxRatio {
		return "", false
	}
	return best, true
}

// Hint formats Closest as a "did you mean" suffix, or returns "".
func Hint(name string, candidates []string) string {
	if c, ok := Closest(name, candidates); ok {
		return ` (did you mean "` + c + `"?)`
	}
	return ""
}
