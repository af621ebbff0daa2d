package engine

import (
	"context"
	stderrors "errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eoinhurrell/mindmeld/internal/clock"
	"github.com/eoinhurrell/mindmeld/internal/config"
	"github.com/eoinhurrell/mindmeld/internal/errors"
	"github.com/eoinhurrell/mindmeld/internal/model"
	"github.com/eoinhurrell/mindmeld/internal/observe"
	"github.com/eoinhurrell/mindmeld/internal/rng"
	"github.com/eoinhurrell/mindmeld/internal/store"
)

var testNow = time.Date(2024, 5, 10, 8, 30, 0, 0, time.UTC)

const (
	graphNote = `---
id: graphs
title: Graph Theory
category: technical
created: 2024-05-09
---
Graph algorithms explore nodes and edges. Dijkstra computes shortest paths between nodes.
We should implement a graph library and test the algorithms.`

	treeNote = `---
id: trees
title: Tree Structures
category: technical
created: 2024-05-08
---
Trees are graphs without cycles. Binary trees store nodes with two children and algorithms traverse nodes.`
)

type fixture struct {
	dir    string
	engine *Engine
	store  *store.Store
	rec    *observe.Recorder
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	dir := t.TempDir()
	writeFile(t, dir, "graphs.md", graphNote)
	writeFile(t, dir, "trees.md", treeNote)

	s, err := store.Open(context.Background(), store.Memory)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	cfg := config.DefaultConfig()
	cfg.Vault.Path = dir
	cfg.Performance.MaxWorkers = 2

	rec := &observe.Recorder{}
	e := New(cfg,
		WithClock(clock.Fixed(testNow)),
		WithRand(rng.NewSeeded(7)),
		WithObserver(rec),
		WithStore(s),
	)
	return &fixture{dir: dir, engine: e, store: s, rec: rec}
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func (f *fixture) notes(t *testing.T) []model.Note {
	t.Helper()
	notes, err := f.engine.Notes(context.Background())
	require.NoError(t, err)
	return notes
}

func TestEngine_Notes(t *testing.T) {
	f := newFixture(t)

	notes := f.notes(t)

	require.Len(t, notes, 2)
	assert.Equal(t, "graphs", notes[0].ID, "most recent first")
	assert.Equal(t, "trees", notes[1].ID)
	for _, n := range notes {
		require.NotNil(t, n.Analysis, n.ID)
		assert.Greater(t, n.Analysis.WordCount, 0)
	}
	assert.Empty(t, f.rec.Events())
}

func TestEngine_Notes_MissingVault(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Vault.Path = filepath.Join(t.TempDir(), "missing")

	_, err := New(cfg).Notes(context.Background())

	var userErr errors.UserError
	require.True(t, stderrors.As(err, &userErr))
	assert.Equal(t, errors.ErrCodeFileNotFound, userErr.Code)
	assert.Equal(t, 2, errors.ExitCode(err))
}

func TestEngine_AnalyzeAll_ReusesStoredAnalyses(t *testing.T) {
	f := newFixture(t)
	notes := []model.Note{
		{ID: "a", Content: "Graph algorithms explore nodes."},
		{ID: "b", Content: "Trees are graphs without cycles."},
	}

	first, err := f.engine.AnalyzeAll(context.Background(), notes)
	require.NoError(t, err)
	assert.Equal(t, int64(2), f.engine.CacheStats().Sets)

	second, err := f.engine.AnalyzeAll(context.Background(), notes)
	require.NoError(t, err)
	assert.Equal(t, int64(2), f.engine.CacheStats().Sets)
	assert.Equal(t, int64(2), f.engine.CacheStats().Misses, "stored analyses skip the analyzer")
	assert.Equal(t, first, second)
	assert.Nil(t, notes[0].Analysis, "input notes are not modified")
}

func TestEngine_AnalyzeAll_KeepsExisting(t *testing.T) {
	f := newFixture(t)
	preset := model.EmptyAnalysis()
	preset.KeyTopics = []string{"preset"}
	notes := []model.Note{model.Note{ID: "a", Content: "Graph algorithms"}.WithAnalysis(preset)}

	out, err := f.engine.AnalyzeAll(context.Background(), notes)

	require.NoError(t, err)
	assert.Equal(t, []string{"preset"}, out[0].Analysis.KeyTopics)
}

func TestEngine_AnalyzeAll_Cancelled(t *testing.T) {
	f := newFixture(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := f.engine.AnalyzeAll(ctx, []model.Note{{ID: "a", Content: "x"}})

	assert.ErrorIs(t, err, context.Canceled)
}

func TestEngine_Connections(t *testing.T) {
	f := newFixture(t)
	notes := f.notes(t)

	conns, err := f.engine.Connections(notes, "graphs")
	require.NoError(t, err)
	for _, c := range conns {
		assert.NotEqual(t, "graphs", c.ID)
	}

	_, err = f.engine.Connections(notes, "nope")
	var userErr errors.UserError
	require.True(t, stderrors.As(err, &userErr))
	assert.Equal(t, errors.ErrCodeNoteNotFound, userErr.Code)
}

func TestEngine_MindMap(t *testing.T) {
	f := newFixture(t)

	m := f.engine.MindMap(f.notes(t), "")

	assert.Equal(t, "Your Knowledge Network", m.CentralTopic)
	assert.NotEmpty(t, m.Nodes)
}

func TestEngine_Profile_StyleOverride(t *testing.T) {
	f := newFixture(t)
	f.engine.Config().Mentor.LearningStyle = "kinesthetic"

	profile := f.engine.Profile(f.notes(t))

	assert.Equal(t, model.StyleKinesthetic, profile.LearningStyle)
}

func TestEngine_SyncFlashcards(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	notes := f.notes(t)

	result, err := f.engine.SyncFlashcards(ctx, notes, model.StyleVisual, false)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Notes)
	assert.Greater(t, result.Generated, 0)

	stored, err := f.store.Flashcards(ctx)
	require.NoError(t, err)
	assert.Len(t, stored, result.Generated)

	again, err := f.engine.SyncFlashcards(ctx, notes, model.StyleVisual, false)
	require.NoError(t, err)
	assert.Equal(t, SyncResult{}, again, "notes with cards are left alone")

	pruned, err := f.engine.SyncFlashcards(ctx, notes[:1], model.StyleVisual, false)
	require.NoError(t, err)
	assert.Equal(t, 0, pruned.Notes)
	assert.Greater(t, pruned.Removed, 0)

	remaining, err := f.store.Flashcards(ctx)
	require.NoError(t, err)
	for _, c := range remaining {
		assert.Equal(t, "graphs", c.NoteID)
	}
}

func TestEngine_ReviewFlashcard(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	_, err := f.engine.SyncFlashcards(ctx, f.notes(t), model.StyleBalanced, false)
	require.NoError(t, err)

	due, err := f.engine.DueFlashcards(ctx)
	require.NoError(t, err)
	assert.Empty(t, due, "new cards are due after the first review interval")

	cards, err := f.store.Flashcards(ctx)
	require.NoError(t, err)
	reviewed, err := f.engine.ReviewFlashcard(ctx, cards[0].ID, true)
	require.NoError(t, err)
	assert.True(t, reviewed.Learned)
	assert.Equal(t, 1, reviewed.ReviewCount)

	stored, err := f.store.Flashcard(ctx, cards[0].ID)
	require.NoError(t, err)
	assert.Equal(t, 1, stored.MasteryLevel)

	_, err = f.engine.ReviewFlashcard(ctx, "missing", true)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestEngine_WithoutStore(t *testing.T) {
	cfg := config.DefaultConfig()
	e := New(cfg)

	_, err := e.SyncFlashcards(context.Background(), nil, model.StyleBalanced, false)
	assert.ErrorContains(t, err, "no flashcard store")

	_, err = e.State(context.Background(), nil)
	assert.Error(t, err)
}
