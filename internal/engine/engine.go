// Package engine wires the analysis core to its collaborators: the vault,
// the store, the analysis cache and the worker pool.
package engine

import (
	"context"
	stderrors "errors"
	"fmt"
	"io/fs"
	"time"

	"go.uber.org/zap"

	"github.com/eoinhurrell/mindmeld/internal/analyzer"
	"github.com/eoinhurrell/mindmeld/internal/cache"
	"github.com/eoinhurrell/mindmeld/internal/clock"
	"github.com/eoinhurrell/mindmeld/internal/config"
	"github.com/eoinhurrell/mindmeld/internal/connections"
	"github.com/eoinhurrell/mindmeld/internal/errors"
	"github.com/eoinhurrell/mindmeld/internal/flashcards"
	"github.com/eoinhurrell/mindmeld/internal/mentor"
	"github.com/eoinhurrell/mindmeld/internal/mindmap"
	"github.com/eoinhurrell/mindmeld/internal/model"
	"github.com/eoinhurrell/mindmeld/internal/observe"
	"github.com/eoinhurrell/mindmeld/internal/rng"
	"github.com/eoinhurrell/mindmeld/internal/store"
	"github.com/eoinhurrell/mindmeld/internal/vault"
	"github.com/eoinhurrell/mindmeld/internal/workerpool"
)

// MetricsNamespace prefixes every exported metric
const MetricsNamespace = "mindmeld"

// Engine is the composition root used by the CLI and the watcher
type Engine struct {
	config  *config.Config
	logger  *zap.Logger
	clock   clock.Clock
	rng     rng.Source
	obs     observe.Observer
	metrics *observe.Metrics
	store   *store.Store

	vault     *vault.Vault
	analyzer  *analyzer.Cached
	pool      *workerpool.Pool
	finder    *connections.Finder
	builder   *mindmap.Builder
	generator *flashcards.Generator
	mentor    *mentor.System
}

// Option configures an Engine
type Option func(*Engine)

// WithLogger sets the logger fallbacks and progress are reported to
func WithLogger(logger *zap.Logger) Option {
	return func(e *Engine) { e.logger = logger }
}

// WithClock sets the time source
func WithClock(c clock.Clock) Option {
	return func(e *Engine) { e.clock = c }
}

// WithRand sets the randomness source
func WithRand(r rng.Source) Option {
	return func(e *Engine) { e.rng = r }
}

// WithObserver adds an observer alongside the logger and metrics
func WithObserver(obs observe.Observer) Option {
	return func(e *Engine) { e.obs = obs }
}

// WithStore persists analyses and flashcards in s
func WithStore(s *store.Store) Option {
	return func(e *Engine) { e.store = s }
}

// New builds an engine for cfg
func New(cfg *config.Config, opts ...Option) *Engine {
	e := &Engine{config: cfg}
	for _, opt := range opts {
		opt(e)
	}
	if e.logger == nil {
		e.logger = zap.NewNop()
	}
	e.clock = clock.Or(e.clock)
	e.rng = rng.Or(e.rng)
	e.metrics = observe.NewMetrics(MetricsNamespace)

	observers := observe.Multi{observe.NewZapObserver(e.logger), e.metrics}
	if e.obs != nil {
		observers = append(observers, e.obs)
	}
	e.obs = observers

	cacheConfig := cache.DefaultConfig[model.ContentAnalysis]()
	if cfg.Cache.MaxSize > 0 {
		cacheConfig.MaxSize = cfg.Cache.MaxSize
	}
	if ttl := cfg.CacheTTL(); ttl > 0 {
		cacheConfig.DefaultTTL = ttl
	}
	cacheConfig.Clock = e.clock
	e.analyzer = analyzer.NewCached(
		analyzer.NewAnalyzer(analyzer.WithObserver(e.obs)),
		cacheConfig,
		e.metrics,
	)

	poolConfig := workerpool.DefaultConfig()
	if cfg.Performance.MaxWorkers > 0 {
		poolConfig.MaxWorkers = cfg.Performance.MaxWorkers
	}
	e.pool = workerpool.New(poolConfig)
	e.vault = vault.New(cfg.Vault.Path, cfg.Vault.IgnorePatterns)
	e.finder = connections.NewFinder(e.analyzer, e.obs)
	e.builder = mindmap.NewBuilder(e.analyzer, e.obs)
	e.generator = flashcards.NewGenerator(
		flashcards.WithAnalyzer(e.analyzer),
		flashcards.WithClock(e.clock),
		flashcards.WithRand(e.rng),
		flashcards.WithObserver(e.obs),
	)
	e.mentor = mentor.New(
		mentor.WithAnalyzer(e.analyzer),
		mentor.WithClock(e.clock),
		mentor.WithRand(e.rng),
		mentor.WithObserver(e.obs),
	)
	return e
}

// Config returns the configuration the engine was built with
func (e *Engine) Config() *config.Config { return e.config }

// Logger returns the engine logger
func (e *Engine) Logger() *zap.Logger { return e.logger }

// Clock returns the engine time source
func (e *Engine) Clock() clock.Clock { return e.clock }

// Metrics returns the engine collectors
func (e *Engine) Metrics() *observe.Metrics { return e.metrics }

// Store returns the store, which may be nil
func (e *Engine) Store() *store.Store { return e.store }

// Vault returns the note vault
func (e *Engine) Vault() *vault.Vault { return e.vault }

// Mentor returns the mentor system
func (e *Engine) Mentor() *mentor.System { return e.mentor }

// CacheStats reports the analysis cache
func (e *Engine) CacheStats() cache.Stats { return e.analyzer.Stats() }

// StartCacheCleanup expires stale cached analyses every interval until ctx
// is done
func (e *Engine) StartCacheCleanup(ctx context.Context, interval time.Duration) {
	e.analyzer.StartCleanup(ctx, interval)
}

// ForgetAnalysis drops the cached analysis of content that is no longer in
// the vault
func (e *Engine) ForgetAnalysis(content string) {
	e.analyzer.Invalidate(content)
}

// PoolStats reports the worker pool
func (e *Engine) PoolStats() workerpool.Stats { return e.pool.Stats() }

// Notes loads every vault note with its analysis attached
func (e *Engine) Notes(ctx context.Context) ([]model.Note, error) {
	notes, err := e.vault.Notes(ctx)
	if stderrors.Is(err, fs.ErrNotExist) {
		return nil, errors.NewVaultNotFoundError(e.vault.Root())
	}
	if err != nil {
		return nil, err
	}
	for _, pe := range e.vault.ParseErrors() {
		e.logger.Warn("skipping note", zap.String("file", pe.Path), zap.Error(pe.Error))
	}
	return e.AnalyzeAll(ctx, notes)
}

// AnalyzeAll attaches an analysis to every note in parallel, keeping order.
// Existing analyses are kept. With a store, analyses of unchanged content
// are read back instead of recomputed.
func (e *Engine) AnalyzeAll(ctx context.Context, notes []model.Note) ([]model.Note, error) {
	start := time.Now()
	out, err := workerpool.Map(ctx, e.pool, notes, func(ctx context.Context, n model.Note) (model.Note, error) {
		if n.Analysis != nil {
			return n, nil
		}
		a, err := e.analyze(ctx, n)
		if err != nil {
			return n, err
		}
		return n.WithAnalysis(a), nil
	})
	if err != nil {
		return nil, fmt.Errorf("analyzing notes: %w", err)
	}

	poolStats, cacheStats := e.PoolStats(), e.CacheStats()
	e.logger.Debug("analyzed notes",
		zap.Int("notes", len(notes)),
		zap.Int("workers", e.pool.Workers()),
		zap.Int("peak_workers", poolStats.PeakWorkers),
		zap.Float64("cache_hit_ratio", cacheStats.HitRatio),
		zap.Duration("duration", time.Since(start)),
	)
	return out, nil
}

func (e *Engine) analyze(ctx context.Context, n model.Note) (model.ContentAnalysis, error) {
	if e.store == nil {
		return e.analyzer.Analyze(n.Content), nil
	}

	hash := cache.ContentKey(n.Content)
	if a, ok, err := e.store.Analysis(ctx, n.ID, hash); err != nil {
		return model.ContentAnalysis{}, err
	} else if ok {
		return a, nil
	}

	a := e.analyzer.Analyze(n.Content)
	if err := e.store.SaveAnalysis(ctx, n.ID, hash, a); err != nil {
		return model.ContentAnalysis{}, err
	}
	return a, nil
}

// FindNote returns the note with id
func FindNote(notes []model.Note, id string) (model.Note, error) {
	for _, n := range notes {
		if n.ID == id {
			return n, nil
		}
	}
	return model.Note{}, errors.NewNoteNotFoundError(id)
}

// Connections ranks the notes related to the note with targetID
func (e *Engine) Connections(notes []model.Note, targetID string) ([]model.Connection, error) {
	if _, err := FindNote(notes, targetID); err != nil {
		return nil, err
	}
	return e.finder.Find(notes, targetID), nil
}

// MindMap builds the knowledge graph of notes
func (e *Engine) MindMap(notes []model.Note, focus string) model.MindMap {
	return e.builder.Build(notes, focus)
}

// Style is the configured flashcard hint style
func (e *Engine) Style() model.LearningStyle {
	style, _ := model.ParseLearningStyle(e.config.Flashcards.Style)
	return style
}

// Flashcards generates cards for notes in the given style
func (e *Engine) Flashcards(notes []model.Note, style model.LearningStyle) []model.Flashcard {
	return e.generator.Generate(notes, style)
}

// Profile derives the learner profile from notes. A configured learning
// style replaces the derived one.
func (e *Engine) Profile(notes []model.Note) model.UserProfile {
	profile := e.mentor.InitializeUserProfile(notes)
	if style, ok := model.ParseLearningStyle(e.config.Mentor.LearningStyle); ok {
		profile.LearningStyle = style
	}
	return profile
}
