// Package textmetrics holds the low-level string measures used by the analyzer:
// edit distance, similarity ratio, keyword extraction and sanitization.
package textmetrics

import (
	"regexp"
	"sort"
	"strings"
)

// DefaultKeywordLimit is the number of keywords returned when no limit is given
const DefaultKeywordLimit = 6

// minKeywordLength is the shortest word that can become a keyword
const minKeywordLength = 4

var nonAlnum = regexp.MustCompile(`[^a-z0-9\s]`)

// Similarity returns 1 - editDistance(longer, shorter)/len(longer), in [0,1].
// Two empty strings are identical.
func Similarity(a, b string) float64 {
	longer, shorter := b, a
	if len([]rune(a)) > len([]rune(b)) {
		longer, shorter = a, b
	}

	n := len([]rune(longer))
	if n == 0 {
		return 1.0
	}

	score := float64(n-EditDistance(longer, shorter)) / float64(n)
	if score < 0 {
		return 0
	}
	return score
}

// EditDistance is the case-insensitive Levenshtein distance between a and b
func EditDistance(a, b string) int {
	s := []rune(strings.ToLower(a))
	t := []rune(strings.ToLower(b))

	if len(s) == 0 {
		return len(t)
	}
	if len(t) == 0 {
		return len(s)
	}

	row := make([]int, len(t)+1)
	for j := range row {
		row[j] = j
	}

	for i := 1; i <= len(s); i++ {
		diag := row[0]
		row[0] = i
		for j := 1; j <= len(t); j++ {
			above := row[j]
			cost := 1
			if s[i-1] == t[j-1] {
				cost = 0
			}
			row[j] = min(row[j]+1, row[j-1]+1, diag+cost)
			diag = above
		}
	}

	return row[len(t)]
}

// ExtractKeywords returns up to max words of more than three characters ordered
// by descending frequency. Ties keep the order in which words first appear.
func ExtractKeywords(text string, max int) []string {
	if max <= 0 {
		max = DefaultKeywordLimit
	}

	words := strings.Fields(nonAlnum.ReplaceAllString(strings.ToLower(text), " "))

	counts := make(map[string]int)
	var order []string
	for _, w := range words {
		if len(w) < minKeywordLength {
			continue
		}
		if counts[w] == 0 {
			order = append(order, w)
		}
		counts[w]++
	}

	sort.SliceStable(order, func(i, j int) bool {
		return counts[order[i]] > counts[order[j]]
	})

	if len(order) > max {
		order = order[:max]
	}
	if order == nil {
		return []string{}
	}
	return order
}

// SanitizeText collapses Unicode whitespace runs into single spaces and trims
// the result
func SanitizeText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
