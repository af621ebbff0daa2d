package watcher

import (
	"context"
	"io"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/eoinhurrell/mindmeld/internal/clock"
	"github.com/eoinhurrell/mindmeld/internal/config"
	"github.com/eoinhurrell/mindmeld/internal/engine"
	"github.com/eoinhurrell/mindmeld/internal/model"
	"github.com/eoinhurrell/mindmeld/internal/rng"
	"github.com/eoinhurrell/mindmeld/internal/store"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

const graphNote = `---
id: graphs
title: Graph Theory
category: technical
created: 2024-05-09
---
Graph algorithms explore nodes and edges. Dijkstra computes shortest paths between nodes.`

// startWatcher runs w in the background and stops it when the test ends
func startWatcher(t *testing.T, w *Watcher) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()
	t.Cleanup(func() {
		cancel()
		select {
		case err := <-done:
			assert.NoError(t, err)
		case <-time.After(5 * time.Second):
			t.Error("watcher did not stop")
		}
	})
}

// awaitBatch rewrites the file until a batch arrives, since the watch is
// registered asynchronously
func awaitBatch(t *testing.T, batches <-chan []Change, write func()) []Change {
	t.Helper()
	var got []Change
	require.Eventually(t, func() bool {
		select {
		case got = <-batches:
			return true
		default:
			write()
			return false
		}
	}, 5*time.Second, 50*time.Millisecond)
	return got
}

func channelHandler() (Handler, <-chan []Change) {
	batches := make(chan []Change, 16)
	return HandlerFunc(func(_ context.Context, changes []Change) error {
		batches <- changes
		return nil
	}), batches
}

func TestWatcher_ReportsMarkdownChanges(t *testing.T) {
	dir := t.TempDir()
	handler, batches := channelHandler()
	startWatcher(t, New(dir, handler, WithDebounce(20*time.Millisecond)))

	path := filepath.Join(dir, "note.md")
	batch := awaitBatch(t, batches, func() {
		_ = os.WriteFile(path, []byte("# note"), 0o644)
	})

	require.Len(t, batch, 1)
	assert.Equal(t, Change{Path: "note.md"}, batch[0])

	require.NoError(t, os.Remove(path))
	timeout := time.After(5 * time.Second)
	for {
		select {
		case next := <-batches:
			if len(next) == 1 && next[0].Removed {
				assert.Equal(t, Change{Path: "note.md", Removed: true}, next[0])
				return
			}
		case <-timeout:
			t.Fatal("no batch for removal")
		}
	}
}

func TestWatcher_IgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	handler, batches := channelHandler()
	ignored := func(rel string) bool { return strings.HasPrefix(rel, "skip") }
	startWatcher(t, New(dir, handler, WithDebounce(20*time.Millisecond), WithIgnore(ignored)))

	batch := awaitBatch(t, batches, func() {
		_ = os.WriteFile(filepath.Join(dir, "image.png"), []byte("png"), 0o644)
		_ = os.WriteFile(filepath.Join(dir, "skip.md"), []byte("skip"), 0o644)
		_ = os.WriteFile(filepath.Join(dir, "kept.md"), []byte("kept"), 0o644)
	})

	assert.Equal(t, []Change{{Path: "kept.md"}}, batch)
}

func TestWatcher_WatchesNewDirectories(t *testing.T) {
	dir := t.TempDir()
	handler, batches := channelHandler()
	startWatcher(t, New(dir, handler, WithDebounce(20*time.Millisecond)))

	sub := filepath.Join(dir, "sub")
	batch := awaitBatch(t, batches, func() {
		_ = os.MkdirAll(sub, 0o755)
		_ = os.WriteFile(filepath.Join(sub, "deep.md"), []byte("deep"), 0o644)
	})

	assert.Contains(t, batch, Change{Path: "sub/deep.md"})
}

func TestWatcher_MissingRoot(t *testing.T) {
	handler, _ := channelHandler()
	w := New(filepath.Join(t.TempDir(), "missing"), handler)

	err := w.Run(context.Background())

	assert.Error(t, err)
}

func TestNew_Defaults(t *testing.T) {
	handler, _ := channelHandler()

	w := New(".", handler, WithDebounce(-time.Second))

	assert.Equal(t, DefaultDebounce, w.debounce)
	assert.NotNil(t, w.limiter)
	assert.False(t, w.ignored("anything"))
}

func TestDrain(t *testing.T) {
	pending := map[string]bool{"b.md": true, "a.md": false}

	batch := drain(pending)

	assert.Equal(t, []Change{{Path: "a.md"}, {Path: "b.md", Removed: true}}, batch)
	assert.Empty(t, pending)
}

func newTestEngine(t *testing.T, dir string) (*engine.Engine, *store.Store) {
	t.Helper()
	s, err := store.Open(context.Background(), store.Memory)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	cfg := config.DefaultConfig()
	cfg.Vault.Path = dir
	cfg.Performance.MaxWorkers = 2
	e := engine.New(cfg,
		engine.WithClock(clock.Fixed(time.Date(2024, 5, 10, 8, 30, 0, 0, time.UTC))),
		engine.WithRand(rng.NewSeeded(3)),
		engine.WithStore(s),
	)
	return e, s
}

func TestRefresher_Handle(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "graphs.md"), []byte(graphNote), 0o644))
	e, s := newTestEngine(t, dir)
	r := NewRefresher(e, model.StyleBalanced)

	require.NoError(t, r.Handle(ctx, []Change{{Path: "graphs.md"}}))

	cards, err := s.Flashcards(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, cards)
	for _, c := range cards {
		assert.Equal(t, "graphs", c.NoteID)
	}
	assert.Equal(t, int64(1), e.CacheStats().Size)

	edited := graphNote + "\nBreadth-first search visits nodes level by level."
	require.NoError(t, os.WriteFile(filepath.Join(dir, "graphs.md"), []byte(edited), 0o644))
	require.NoError(t, r.Handle(ctx, []Change{{Path: "graphs.md"}}))
	assert.Equal(t, int64(1), e.CacheStats().Deletes, "stale analysis dropped")
	assert.Equal(t, int64(1), e.CacheStats().Size)

	require.NoError(t, os.Remove(filepath.Join(dir, "graphs.md")))
	require.NoError(t, r.Handle(ctx, []Change{{Path: "graphs.md", Removed: true}}))

	cards, err = s.Flashcards(ctx)
	require.NoError(t, err)
	assert.Empty(t, cards)
	assert.Equal(t, int64(2), e.CacheStats().Deletes)
	assert.Equal(t, int64(0), e.CacheStats().Size)
}

func TestRefresher_SkipsUnparseableNotes(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.md"), []byte("---\nid: [\n---\nbody"), 0o644))
	e, _ := newTestEngine(t, dir)

	err := NewRefresher(e, model.StyleBalanced).Handle(ctx, []Change{{Path: "bad.md"}})

	assert.NoError(t, err)
}

func TestServe(t *testing.T) {
	registry := prometheus.NewRegistry()
	counter := prometheus.NewCounter(prometheus.CounterOpts{Name: "test_total", Help: "test"})
	registry.MustRegister(counter)
	counter.Inc()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- Serve(ctx, ln, registry) }()

	client := &http.Client{Transport: &http.Transport{DisableKeepAlives: true}}
	resp, err := client.Get("http://" + ln.Addr().String() + "/metrics")
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "test_total 1")

	cancel()
	assert.NoError(t, <-done)
}
