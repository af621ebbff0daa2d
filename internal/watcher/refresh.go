package watcher

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/eoinhurrell/mindmeld/internal/engine"
	"github.com/eoinhurrell/mindmeld/internal/model"
)

// Refresher keeps stored flashcards in step with the vault
type Refresher struct {
	engine *engine.Engine
	style  model.LearningStyle

	// content of each note as of the last batch, by note id
	content map[string]string
}

// NewRefresher creates a refresher generating cards in style
func NewRefresher(e *engine.Engine, style model.LearningStyle) *Refresher {
	return &Refresher{engine: e, style: style, content: map[string]string{}}
}

// Remember records the current notes so the next batch can drop the cached
// analyses of content that changed or disappeared
func (r *Refresher) Remember(notes []model.Note) {
	content := make(map[string]string, len(notes))
	for _, n := range notes {
		content[n.ID] = n.Content
	}
	r.content = content
}

// forgetStale invalidates cached analyses of edited and removed notes
func (r *Refresher) forgetStale(byID map[string]model.Note) int {
	forgotten := 0
	for id, old := range r.content {
		if n, ok := byID[id]; ok && n.Content == old {
			continue
		}
		r.engine.ForgetAnalysis(old)
		forgotten++
	}
	return forgotten
}

// Handle regenerates the cards of changed notes and drops those of removed
// ones. Notes that fail to parse are logged and skipped.
func (r *Refresher) Handle(ctx context.Context, changes []Change) error {
	logger := r.engine.Logger()

	notes, err := r.engine.Notes(ctx)
	if err != nil {
		return fmt.Errorf("loading vault: %w", err)
	}
	byID := make(map[string]model.Note, len(notes))
	for _, n := range notes {
		byID[n.ID] = n
	}
	forgotten := r.forgetStale(byID)
	r.Remember(notes)

	refreshed, generated := 0, 0
	for _, c := range changes {
		if c.Removed {
			continue
		}
		loaded, err := r.engine.Vault().Load(c.Path)
		if err != nil {
			logger.Warn("skipping changed note", zap.String("file", c.Path), zap.Error(err))
			continue
		}
		n, ok := byID[loaded.ID]
		if !ok {
			continue
		}
		count, err := r.engine.RefreshNote(ctx, n, r.style)
		if err != nil {
			return fmt.Errorf("refreshing %s: %w", c.Path, err)
		}
		refreshed++
		generated += count
	}

	result, err := r.engine.SyncFlashcards(ctx, notes, r.style, false)
	if err != nil {
		return err
	}

	r.engine.Metrics().Refreshes.Inc()
	logger.Info("vault refreshed",
		zap.Int("changes", len(changes)),
		zap.Int("refreshed", refreshed),
		zap.Int("generated", generated+result.Generated),
		zap.Int("removed", result.Removed),
		zap.Int("forgotten", forgotten),
	)
	return nil
}
