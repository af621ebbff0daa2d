package flashcards

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eoinhurrell/mindmeld/internal/clock"
	"github.com/eoinhurrell/mindmeld/internal/model"
	"github.com/eoinhurrell/mindmeld/internal/observe"
	"github.com/eoinhurrell/mindmeld/internal/rng"
)

var testNow = time.Date(2024, 5, 10, 8, 30, 0, 0, time.UTC)

func newTestGenerator(seed uint64) *Generator {
	return NewGenerator(
		WithClock(clock.Fixed(testNow)),
		WithRand(rng.NewSeeded(seed)),
	)
}

func TestGenerate_Empty(t *testing.T) {
	g := newTestGenerator(1)

	assert.Equal(t, []model.Flashcard{}, g.Generate(nil, model.StyleVisual))
	assert.Equal(t, []model.Flashcard{}, g.Generate([]model.Note{}, model.StyleBalanced))
}

func TestGenerate_ActionNote(t *testing.T) {
	note := model.Note{
		ID:       "n1",
		Title:    "Sprint",
		Content:  "I need to refactor the login module. Also fix the bug in payment flow.",
		Category: model.CategoryProject,
	}

	cards := newTestGenerator(1).Generate([]model.Note{note}, model.StyleVisual)

	require.Len(t, cards, 4)

	assert.Equal(t, `What are the next actionable steps recommended in "Sprint"?`, cards[0].Question)
	assert.Equal(t, "• I need to refactor the login module\n• Also fix the bug in payment flow", cards[0].Answer)
	assert.Equal(t, "List the concrete steps or tasks suggested.", cards[0].Hint)
	assert.Equal(t, 3, cards[0].Difficulty)

	assert.Equal(t, "Fill in the blank: I _____ to refactor the login module.", cards[1].Question)
	assert.Equal(t, "need", cards[1].Answer)
	assert.Equal(t, "Look for the important term related to this sentence: N... (Try drawing a mind map)", cards[1].Hint)

	assert.Equal(t, "Explain the key concepts: need, refactor, login", cards[2].Question)
	assert.Equal(t, note.Content, cards[2].Answer)
	assert.True(t, strings.HasSuffix(cards[2].Hint, " (Try drawing a mind map)"))

	assert.Equal(t, `What actionable steps are suggested in: "Sprint"?`, cards[3].Question)
	assert.Equal(t, "Focus on verbs and specific tasks.", cards[3].Hint)
	assert.Equal(t, 5, cards[3].Difficulty)

	for _, c := range cards {
		assert.Equal(t, "n1", c.NoteID)
		assert.Equal(t, model.CategoryProject, c.Category)
		assert.False(t, c.Learned)
		assert.Nil(t, c.LastReviewed)
		assert.Zero(t, c.ReviewCount)
		assert.Zero(t, c.MasteryLevel)
		assert.Equal(t, testNow.Add(24*time.Hour), c.NextReviewDue)
		assert.Equal(t, []string{"need", "refactor", "login", "module", "also"}, c.Tags)
		assert.True(t, strings.HasPrefix(c.ID, "flashcard_n1_1715329800000_0_"), c.ID)
		assert.Len(t, strings.TrimPrefix(c.ID, "flashcard_n1_1715329800000_0_"), 4)
	}
}

func TestGenerate_NoKeywordsFallsBackToSummary(t *testing.T) {
	note := model.Note{ID: "n1", Content: "ok"}

	cards := newTestGenerator(1).Generate([]model.Note{note}, model.StyleAuditory)

	require.Len(t, cards, 2)
	assert.Equal(t, "Summarize the main point of this note.", cards[0].Question)
	assert.Equal(t, "State the thesis or core conclusion in one or two sentences. (Explain it aloud)", cards[0].Hint)
	assert.Equal(t, `Summarize the main point of: "this note"`, cards[1].Question)
	assert.Equal(t, "Identify the thesis or main conclusion. (Explain it aloud)", cards[1].Hint)
	assert.Equal(t, "ok", cards[1].Answer)
	assert.Equal(t, model.CategoryGeneral, cards[1].Category)
}

func TestGenerate_BalancedStyleAddsNoSuffix(t *testing.T) {
	note := model.Note{ID: "n1", Content: "ok"}

	cards := newTestGenerator(1).Generate([]model.Note{note}, model.StyleBalanced)

	for _, c := range cards {
		assert.NotContains(t, c.Hint, "(")
	}
}

func TestGenerate_DeduplicatesQuestions(t *testing.T) {
	content := "Spaced repetition strengthens memory over time. Review cards daily for best results."
	notes := []model.Note{
		{ID: "a", Content: content},
		{ID: "b", Content: content},
	}

	cards := newTestGenerator(1).Generate(notes, model.StyleKinesthetic)

	seen := make(map[string]bool)
	for _, c := range cards {
		assert.False(t, seen[c.Question], "duplicate question %q", c.Question)
		seen[c.Question] = true
		assert.Equal(t, "a", c.NoteID)
	}
	assert.NotEmpty(t, cards)
}

func TestGenerate_SortedByDifficulty(t *testing.T) {
	notes := []model.Note{
		{ID: "a", Content: "Write the report; email the team; book the venue for friday"},
		{ID: "b", Content: "ok"},
		{ID: "c", Content: "alpha alpha alpha alpha alpha alpha alpha alpha beta"},
	}

	cards := newTestGenerator(1).Generate(notes, model.StyleVisual)

	for i := 1; i < len(cards); i++ {
		assert.LessOrEqual(t, cards[i-1].Difficulty, cards[i].Difficulty)
	}
}

func TestGenerate_DeterministicWithFixedSources(t *testing.T) {
	notes := []model.Note{
		{ID: "a", Title: "Graphs", Content: "Graph traversal visits every vertex once. Breadth first search uses a queue."},
		{ID: "b", Content: "Remember to water the plants; call the landlord about the heating"},
	}

	first := newTestGenerator(42).Generate(notes, model.StyleVisual)
	second := newTestGenerator(42).Generate(notes, model.StyleVisual)

	assert.Equal(t, first, second)
}

type panicOn struct{ id string }

func (p panicOn) Analyze(text string) model.ContentAnalysis {
	if text == p.id {
		panic("cannot analyze")
	}
	return model.EmptyAnalysis()
}

func TestGenerate_BadNoteIsSkipped(t *testing.T) {
	rec := &observe.Recorder{}
	g := NewGenerator(
		WithClock(clock.Fixed(testNow)),
		WithRand(rng.NewSeeded(1)),
		WithAnalyzer(panicOn{id: "boom"}),
		WithObserver(rec),
	)

	cards := g.Generate([]model.Note{
		{ID: "bad", Content: "boom"},
		{ID: "good", Content: "fine"},
	}, model.StyleVisual)

	require.NotEmpty(t, cards)
	for _, c := range cards {
		assert.Equal(t, "good", c.NoteID)
	}
	assert.Equal(t, []string{"flashcards.note"}, rec.Operations())
}

func TestDifficulty(t *testing.T) {
	assert.Equal(t, 1, difficulty(1, 2, 0))
	assert.Equal(t, 2, difficulty(1, 2, 0.3))
	assert.Equal(t, 3, difficulty(1, 2, 1))
	assert.Equal(t, 5, difficulty(2, 3, 1))
	assert.Equal(t, 4, difficulty(2, 3, 0.5))
}
