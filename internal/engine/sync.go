package engine

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/eoinhurrell/mindmeld/internal/flashcards"
	"github.com/eoinhurrell/mindmeld/internal/model"
)

// SyncResult counts the changes made by a flashcard sync
type SyncResult struct {
	Notes     int `json:"notes" yaml:"notes"`
	Generated int `json:"generated" yaml:"generated"`
	Removed   int `json:"removed" yaml:"removed"`
}

func (e *Engine) requireStore() error {
	if e.store == nil {
		return fmt.Errorf("no flashcard store configured")
	}
	return nil
}

// SyncFlashcards stores cards for notes that have none and drops the cards
// of notes that no longer exist. With regenerate every note's cards are
// replaced, which resets review progress.
func (e *Engine) SyncFlashcards(ctx context.Context, notes []model.Note, style model.LearningStyle, regenerate bool) (SyncResult, error) {
	var result SyncResult
	if err := e.requireStore(); err != nil {
		return result, err
	}

	existing, err := e.store.Flashcards(ctx)
	if err != nil {
		return result, err
	}
	hasCards := make(map[string]bool)
	for _, c := range existing {
		hasCards[c.NoteID] = true
	}

	live := make(map[string]bool, len(notes))
	for _, n := range notes {
		live[n.ID] = true
		if hasCards[n.ID] && !regenerate {
			continue
		}
		generated, err := e.RefreshNote(ctx, n, style)
		if err != nil {
			return result, err
		}
		result.Notes++
		result.Generated += generated
	}

	for noteID := range hasCards {
		if live[noteID] {
			continue
		}
		removed := len(flashcards.ForNote(existing, noteID))
		if err := e.store.DeleteNote(ctx, noteID); err != nil {
			return result, err
		}
		result.Removed += removed
	}

	e.logger.Info("synced flashcards",
		zap.Int("notes", result.Notes),
		zap.Int("generated", result.Generated),
		zap.Int("removed", result.Removed),
	)
	return result, nil
}

// RefreshNote replaces the stored cards of n with freshly generated ones
func (e *Engine) RefreshNote(ctx context.Context, n model.Note, style model.LearningStyle) (int, error) {
	if err := e.requireStore(); err != nil {
		return 0, err
	}
	cards := e.generator.Generate([]model.Note{n}, style)
	if err := e.store.ReplaceNoteFlashcards(ctx, n.ID, cards); err != nil {
		return 0, err
	}
	return len(cards), nil
}

// RemoveNote deletes everything stored for noteID
func (e *Engine) RemoveNote(ctx context.Context, noteID string) error {
	if err := e.requireStore(); err != nil {
		return err
	}
	return e.store.DeleteNote(ctx, noteID)
}

// DueFlashcards returns the stored cards due for review
func (e *Engine) DueFlashcards(ctx context.Context) ([]model.Flashcard, error) {
	if err := e.requireStore(); err != nil {
		return nil, err
	}
	cards, err := e.store.Flashcards(ctx)
	if err != nil {
		return nil, err
	}
	return flashcards.Due(cards, e.clock.Now()), nil
}

// ReviewFlashcard records a review of the stored card with id
func (e *Engine) ReviewFlashcard(ctx context.Context, id string, gotIt bool) (model.Flashcard, error) {
	if err := e.requireStore(); err != nil {
		return model.Flashcard{}, err
	}
	card, err := e.store.Flashcard(ctx, id)
	if err != nil {
		return model.Flashcard{}, err
	}
	reviewed := flashcards.Review(card, gotIt, e.clock.Now())
	if err := e.store.SaveFlashcards(ctx, []model.Flashcard{reviewed}); err != nil {
		return model.Flashcard{}, err
	}
	return reviewed, nil
}
