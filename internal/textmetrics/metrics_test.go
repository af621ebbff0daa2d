package textmetrics

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEditDistance(t *testing.T) {
	tests := []struct {
		a, b     string
		expected int
	}{
		{"", "", 0},
		{"abc", "", 3},
		{"", "abc", 3},
		{"kitten", "sitting", 3},
		{"flaw", "lawn", 2},
		{"Note", "note", 0},
		{"gumbo", "gambol", 2},
		{"café", "cafe", 1},
	}

	for _, tt := range tests {
		t.Run(tt.a+"_"+tt.b, func(t *testing.T) {
			assert.Equal(t, tt.expected, EditDistance(tt.a, tt.b))
			assert.Equal(t, tt.expected, EditDistance(tt.b, tt.a))
		})
	}
}

func TestSimilarity(t *testing.T) {
	assert.Equal(t, 1.0, Similarity("", ""))
	assert.Equal(t, 1.0, Similarity("learning", "learning"))
	assert.Equal(t, 1.0, Similarity("Learning", "learning"))
	assert.Equal(t, 0.0, Similarity("a", "b"))
	assert.InDelta(t, 4.0/7.0, Similarity("kitten", "sitting"), 1e-9)
	assert.InDelta(t, 0.0, Similarity("", "abc"), 1e-9)
}

func TestSimilarityBounds(t *testing.T) {
	inputs := []string{"", "a", "ab", "note", "notes", "completely different", "ÄÖÜ", "refactor", "refactoring"}
	for _, a := range inputs {
		for _, b := range inputs {
			s := Similarity(a, b)
			assert.GreaterOrEqual(t, s, 0.0, "%q vs %q", a, b)
			assert.LessOrEqual(t, s, 1.0, "%q vs %q", a, b)
			assert.Equal(t, s, Similarity(b, a), "%q vs %q", a, b)
		}
		assert.Equal(t, 1.0, Similarity(a, a))
	}
}

func TestExtractKeywords(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		max      int
		expected []string
	}{
		{
			name:     "empty",
			text:     "",
			max:      5,
			expected: []string{},
		},
		{
			name:     "short words are discarded",
			text:     "the cat sat on the mat the cat ran",
			max:      3,
			expected: []string{},
		},
		{
			name:     "frequency order",
			text:     "graph theory graph nodes graph theory",
			max:      5,
			expected: []string{"graph", "theory", "nodes"},
		},
		{
			name:     "ties keep first-seen order",
			text:     "zebra apple mango apple zebra mango",
			max:      3,
			expected: []string{"zebra", "apple", "mango"},
		},
		{
			name:     "punctuation and case are normalized",
			text:     "Python! python, PYTHON; rust.",
			max:      6,
			expected: []string{"python", "rust"},
		},
		{
			name:     "limit applies",
			text:     "alpha bravo charlie delta echo foxtrot golf hotel",
			max:      2,
			expected: []string{"alpha", "bravo"},
		},
		{
			name:     "non-positive limit uses default",
			text:     "alpha bravo charlie delta echo foxtrot golf hotel",
			max:      0,
			expected: []string{"alpha", "bravo", "charlie", "delta", "echo", "foxtrot"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ExtractKeywords(tt.text, tt.max))
		})
	}
}

func TestExtractKeywordsDeterministic(t *testing.T) {
	text := "notes about memory recall and memory palaces and recall drills"
	first := ExtractKeywords(text, 4)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, ExtractKeywords(text, 4))
	}
	assert.Equal(t, []string{"memory", "recall", "notes", "about"}, first)
}

func TestSanitizeText(t *testing.T) {
	assert.Equal(t, "", SanitizeText(""))
	assert.Equal(t, "", SanitizeText("  \n\t "))
	assert.Equal(t, "a b c", SanitizeText("  a \n\n b\t\tc "))
	assert.Equal(t, "one line", SanitizeText("one line"))
	assert.Equal(t, "non breaking", SanitizeText("\u00a0non\u00a0\u00a0breaking\u2003"))
	assert.Equal(t, "ideographic space", SanitizeText("ideographic\u3000space"))
}
