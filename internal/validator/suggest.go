package validator

import (
	"strings"

	"github.com/shubham184/fabric-data-transformation/pkg/core"
)

// suggestTable finds the closest known model name to an unresolved
// table reference, ported from the original's positional
// common-character similarity heuristic (not edit distance).
func suggestTable(table string, byName map[string]*core.Model) string {
	tableLower := strings.ToLower(table)
	best, bestScore := "", 0.0
	for name := range byName {
		score := positionalSimilarity(tableLower, strings.ToLower(name))
		if score > bestScore && score > 0.5 {
			bestScore, best = score, name
		}
	}
	return best
}

// suggestColumn finds the closest available column name to an
// unresolved column reference: exact case-insensitive match first,
// then substring containment, then positional similarity above a 0.6
// threshold.
func suggestColumn(column string, available []string) string {
	columnLower := strings.ToLower(column)
	for _, candidate := range available {
		if strings.ToLower(candidate) == columnLower {
			return candidate
		}
	}
	for _, candidate := range available {
		candidateLower := strings.ToLower(candidate)
		if strings.Contains(candidateLower, columnLower) || strings.Contains(columnLower, candidateLower) {
			return candidate
		}
	}
	best, bestScore := "", 0.0
	for _, candidate := range available {
		candidateLower := strings.ToLower(candidate)
		score := positionalSimilarity(columnLower, candidateLower)
		if score > bestScore && score > 0.6 {
			bestScore, best = score, candidate
		}
	}
	return best
}

// positionalSimilarity is the fraction of positions where a and b
// share the same byte, divided by the longer string's length —
// deliberately not Levenshtein, matching the original's cheap
// zip-and-count approach.
func positionalSimilarity(a, b string) float64 {
	if a == "" || b == "" {
		return 0
	}
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	common := 0
	for i := 0; i < n; i++ {
		if a[i] == b[i] {
			common++
		}
	}
	longer := len(a)
	if len(b) > longer {
		longer = len(b)
	}
	return float64(common) / float64(longer)
}
