package analyzer

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eoinhurrell/mindmeld/internal/cache"
	"github.com/eoinhurrell/mindmeld/internal/model"
	"github.com/eoinhurrell/mindmeld/internal/observe"
)

func TestAnalyzer_EmptyText(t *testing.T) {
	a := NewAnalyzer()

	for _, text := range []string{"", "   ", "\n\t"} {
		got := a.Analyze(text)
		assert.Equal(t, 0, got.WordCount)
		assert.Equal(t, 0.0, got.Complexity)
		assert.Equal(t, 0.0, got.Sentiment)
		assert.Equal(t, model.ToneNeutral, got.EmotionalTone)
		assert.Equal(t, []string{}, got.KeyTopics)
		assert.Equal(t, []string{}, got.ActionItems)
		assert.Equal(t, []model.KeywordScore{}, got.KeywordScores)
	}
}

func TestAnalyzer_ActionItemsScenario(t *testing.T) {
	a := NewAnalyzer()
	got := a.Analyze("I need to refactor the login module. Also fix the bug in payment flow.")

	assert.Equal(t, []string{
		"I need to refactor the login module",
		"Also fix the bug in payment flow",
	}, got.ActionItems)
	assert.Equal(t, 14, got.WordCount)
	assert.InDelta(t, -1/2.25, got.Sentiment, 1e-9)
	assert.Equal(t, model.ToneNegative, got.EmotionalTone)
}

func TestAnalyzer_Idempotent(t *testing.T) {
	a := NewAnalyzer()
	text := `Graph databases store relationships directly.
	Graph traversal is fast; indexes help. We should improve query planning and fix the error budget.`

	first := a.Analyze(text)
	second := a.Analyze(text)

	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("Analyze() not idempotent (-first +second):\n%s", diff)
	}
}

func TestAnalyzer_TopicsAndScores(t *testing.T) {
	a := NewAnalyzer()
	got := a.Analyze("graph graph graph nodes. Graph")

	assert.Equal(t, []string{"graph", "nodes"}, got.KeyTopics)
	assert.Equal(t, []model.KeywordScore{
		{Word: "graph", Score: 0.6},
		{Word: "nodes", Score: 0.2},
	}, got.KeywordScores)
}

func TestAnalyzer_TopicLimit(t *testing.T) {
	a := NewAnalyzer()
	got := a.Analyze("alpha bravo charlie delta echoes foxtrot golfing hotel india")

	assert.Len(t, got.KeyTopics, TopicLimit)
	assert.Len(t, got.KeywordScores, KeywordLimit)
	assert.Equal(t, got.KeyTopics[0], got.KeywordScores[0].Word)
}

func TestKeywordScoresSaturate(t *testing.T) {
	text := strings.Repeat("memory ", 12)
	scores := KeywordScores(text, []string{"memory"})

	require.Len(t, scores, 1)
	assert.Equal(t, 1.0, scores[0].Score)
}

func TestComplexity(t *testing.T) {
	assert.Equal(t, 0.0, Complexity(nil))
	assert.Equal(t, 1.0, Complexity([]string{"a", "b", "c"}))
	assert.Equal(t, 0.5, Complexity([]string{"a", "a", "b", "b"}))
}

func TestActionItems(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected []string
	}{
		{
			name:     "short clauses dropped",
			text:     "Yes. No way. Call the bank today.",
			expected: []string{"Call the bank today"},
		},
		{
			name:     "semicolons split",
			text:     "write the draft now; send it to Sam; done",
			expected: []string{"write the draft now", "send it to Sam"},
		},
		{
			name:     "only first six clauses considered",
			text:     "a. b. c. d. e. f. this one is long enough.",
			expected: []string{},
		},
		{
			name: "capped at four",
			text: "one two three. four five six. seven eight nine. ten eleven twelve. more words here.",
			expected: []string{
				"one two three", "four five six", "seven eight nine", "ten eleven twelve",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ActionItems(tt.text))
		})
	}
}

func TestSentimentBounds(t *testing.T) {
	all := strings.Join(positiveLexicon, " ")
	assert.Equal(t, 1.0, Sentiment(all))

	none := strings.Join(negativeLexicon, " ")
	assert.Equal(t, -1.0, Sentiment(none))

	assert.Equal(t, 0.0, Sentiment("good bad"))
	assert.InDelta(t, 2/2.25, Sentiment("Great SUCCESS"), 1e-9)
}

func TestToneOfBoundaries(t *testing.T) {
	assert.Equal(t, model.ToneNeutral, ToneOf(0.25))
	assert.Equal(t, model.TonePositive, ToneOf(0.2500001))
	assert.Equal(t, model.ToneNeutral, ToneOf(-0.25))
	assert.Equal(t, model.ToneNegative, ToneOf(-0.2500001))
	assert.Equal(t, model.ToneNeutral, ToneOf(0))
}

func TestResolvePrefersStoredAnalysis(t *testing.T) {
	stored := model.EmptyAnalysis()
	stored.KeyTopics = []string{"stored"}
	note := model.Note{ID: "n1", Content: "fresh content words"}.WithAnalysis(stored)

	assert.Equal(t, []string{"stored"}, Resolve(NewAnalyzer(), note).KeyTopics)

	note.Analysis = nil
	assert.Equal(t, []string{"fresh", "content", "words"}, Resolve(NewAnalyzer(), note).KeyTopics)
}

type countingAnalyzer struct {
	calls int
}

func (c *countingAnalyzer) Analyze(text string) model.ContentAnalysis {
	c.calls++
	return NewAnalyzer().Analyze(text)
}

func TestCached(t *testing.T) {
	inner := &countingAnalyzer{}
	metrics := observe.NewMetrics("test")
	c := NewCached(inner, cache.DefaultConfig[model.ContentAnalysis](), metrics)

	text := "Spaced repetition improves long term memory retention"
	first := c.Analyze(text)
	first.KeyTopics[0] = "mutated"

	second := c.Analyze(text)
	assert.Equal(t, 1, inner.calls)
	assert.Equal(t, "spaced", second.KeyTopics[0])
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.Analyses))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.CacheHits))
	assert.Equal(t, int64(1), c.Stats().Hits)

	c.Invalidate(text)
	c.Analyze(text)
	assert.Equal(t, 2, inner.calls)
}

func TestCached_StartCleanup(t *testing.T) {
	now := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	clk := &steppedClock{now: now}
	c := NewCached(&countingAnalyzer{}, cache.Config[model.ContentAnalysis]{DefaultTTL: time.Minute, Clock: clk}, nil)
	c.Analyze("Graphs connect nodes")
	clk.set(now.Add(time.Hour))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	c.StartCleanup(ctx, 5*time.Millisecond)

	assert.Eventually(t, func() bool {
		return c.Stats().Size == 0
	}, time.Second, 5*time.Millisecond)
	assert.Equal(t, int64(1), c.Stats().Expirations)
}

type steppedClock struct {
	mu  sync.Mutex
	now time.Time
}

func (s *steppedClock) Now() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.now
}

func (s *steppedClock) set(t time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = t
}
