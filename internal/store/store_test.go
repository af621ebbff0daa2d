package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eoinhurrell/mindmeld/internal/model"
)

var testNow = time.Date(2024, 5, 10, 8, 30, 0, 0, time.UTC)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(context.Background(), Memory)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func card(id, noteID string, due time.Time) model.Flashcard {
	return model.Flashcard{
		ID:            id,
		NoteID:        noteID,
		Question:      "What is " + id + "?",
		Answer:        "An answer",
		Hint:          "Think visually",
		Difficulty:    2,
		NextReviewDue: due,
		Category:      model.CategoryTechnical,
		Tags:          []string{"graphs"},
	}
}

func TestStore_Flashcards(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	later := card("b", "n1", testNow.Add(time.Hour))
	sooner := card("a", "n2", testNow)
	require.NoError(t, s.SaveFlashcards(ctx, []model.Flashcard{later, sooner}))

	cards, err := s.Flashcards(ctx)
	require.NoError(t, err)
	assert.Empty(t, cmp.Diff([]model.Flashcard{sooner, later}, cards))
}

func TestStore_FlashcardUpdate(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)
	c := card("a", "n1", testNow)
	require.NoError(t, s.SaveFlashcards(ctx, []model.Flashcard{c}))

	reviewed := testNow.Add(time.Minute)
	c.Learned = true
	c.LastReviewed = &reviewed
	c.ReviewCount = 1
	c.MasteryLevel = 1
	c.Tags = nil
	require.NoError(t, s.SaveFlashcards(ctx, []model.Flashcard{c}))

	got, err := s.Flashcard(ctx, "a")
	require.NoError(t, err)
	assert.Empty(t, cmp.Diff(c, got, cmpopts.EquateEmpty()))
}

func TestStore_FlashcardNotFound(t *testing.T) {
	_, err := openTestStore(t).Flashcard(context.Background(), "missing")

	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStore_ReplaceNoteFlashcards(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)
	require.NoError(t, s.SaveFlashcards(ctx, []model.Flashcard{
		card("old1", "n1", testNow),
		card("old2", "n1", testNow),
		card("keep", "n2", testNow),
	}))

	require.NoError(t, s.ReplaceNoteFlashcards(ctx, "n1", []model.Flashcard{card("new", "n1", testNow)}))

	cards, err := s.Flashcards(ctx)
	require.NoError(t, err)
	ids := []string{}
	for _, c := range cards {
		ids = append(ids, c.ID)
	}
	assert.Equal(t, []string{"keep", "new"}, ids)
}

func TestStore_DeleteNoteFlashcards(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)
	require.NoError(t, s.SaveFlashcards(ctx, []model.Flashcard{card("a", "n1", testNow), card("b", "n1", testNow)}))

	n, err := s.DeleteNoteFlashcards(ctx, "n1")
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	cards, err := s.Flashcards(ctx)
	require.NoError(t, err)
	assert.Empty(t, cards)
}

func TestStore_State(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	fresh, err := s.LoadState(ctx)
	require.NoError(t, err)
	assert.Equal(t, model.NewMentorState(), fresh)

	completed := testNow.Add(-time.Hour)
	state := model.NewMentorState()
	state.XP = 130
	state.Level = 2
	state.Badges = []string{"hard_challenge"}
	state.Progress = model.Progress{Overall: 12, Knowledge: 5}
	state.CurrentChallenge = &model.Challenge{ID: "challenge_1", Title: "Connect", Status: model.ChallengeActive, AssignedAt: testNow}
	state.CompletedChallenges = []model.Challenge{{ID: "challenge_0", Status: model.ChallengeCompleted, CompletedAt: &completed}}
	state.Session = []model.Message{{ID: "m1", Text: "hi", Type: model.MessageUser, Timestamp: testNow}}
	require.NoError(t, s.SaveState(ctx, state, testNow))

	loaded, err := s.LoadState(ctx)
	require.NoError(t, err)
	assert.Empty(t, cmp.Diff(state, loaded, cmpopts.EquateEmpty()))

	state.XP = 140
	require.NoError(t, s.SaveState(ctx, state, testNow))
	loaded, err = s.LoadState(ctx)
	require.NoError(t, err)
	assert.Equal(t, 140, loaded.XP)
}

func TestStore_Analysis(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)
	a := model.ContentAnalysis{
		KeyTopics:     []string{"technology"},
		KeywordScores: []model.KeywordScore{{Word: "graph", Score: 1}},
		Complexity:    0.4,
		WordCount:     12,
		EmotionalTone: model.ToneNeutral,
		ActionItems:   []string{},
	}

	_, ok, err := s.Analysis(ctx, "n1", "h1")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.SaveAnalysis(ctx, "n1", "h1", a))

	got, ok, err := s.Analysis(ctx, "n1", "h1")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, a, got)

	_, ok, err = s.Analysis(ctx, "n1", "h2")
	require.NoError(t, err)
	assert.False(t, ok, "stale hash")
}

func TestStore_DeleteNote(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)
	require.NoError(t, s.SaveFlashcards(ctx, []model.Flashcard{card("a", "n1", testNow), card("b", "n2", testNow)}))
	require.NoError(t, s.SaveAnalysis(ctx, "n1", "h", model.EmptyAnalysis()))

	require.NoError(t, s.DeleteNote(ctx, "n1"))

	cards, err := s.Flashcards(ctx)
	require.NoError(t, err)
	require.Len(t, cards, 1)
	assert.Equal(t, "b", cards[0].ID)
	_, ok, err := s.Analysis(ctx, "n1", "h")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestStore_OpenFile(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), ".mindmeld", "mindmeld.db")

	s, err := Open(ctx, path)
	require.NoError(t, err)
	require.NoError(t, s.SaveFlashcards(ctx, []model.Flashcard{card("a", "n1", testNow)}))
	require.NoError(t, s.Close())

	reopened, err := Open(ctx, path)
	require.NoError(t, err)
	defer reopened.Close()
	assert.Equal(t, path, reopened.Path())

	cards, err := reopened.Flashcards(ctx)
	require.NoError(t, err)
	assert.Len(t, cards, 1)
}
