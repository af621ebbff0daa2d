package flashcards

import (
	"time"

	"github.com/eoinhurrell/mindmeld/internal/model"
)

// MaxMastery bounds a card's mastery level
const MaxMastery = 5

// Review records one review of card and returns the updated card.
// A remembered card gains mastery and is next due after that many days;
// a forgotten card is due again in a day.
func Review(card model.Flashcard, gotIt bool, now time.Time) model.Flashcard {
	card.Tags = append([]string{}, card.Tags...)
	card.ReviewCount++

	if !gotIt {
		card.Learned = false
		card.NextReviewDue = now.Add(FirstReview)
		return card
	}

	reviewed := now
	card.Learned = true
	card.LastReviewed = &reviewed
	card.MasteryLevel = min(MaxMastery, card.MasteryLevel+1)
	card.NextReviewDue = now.AddDate(0, 0, card.MasteryLevel)
	return card
}

// Due returns the cards whose next review is at or before now, in input order
func Due(cards []model.Flashcard, now time.Time) []model.Flashcard {
	out := []model.Flashcard{}
	for _, c := range cards {
		if !c.NextReviewDue.After(now) {
			out = append(out, c)
		}
	}
	return out
}

// ForNote returns the cards generated from noteID
func ForNote(cards []model.Flashcard, noteID string) []model.Flashcard {
	out := []model.Flashcard{}
	for _, c := range cards {
		if c.NoteID == noteID {
			out = append(out, c)
		}
	}
	return out
}

// WithoutNote returns the cards not generated from noteID
func WithoutNote(cards []model.Flashcard, noteID string) []model.Flashcard {
	out := []model.Flashcard{}
	for _, c := range cards {
		if c.NoteID != noteID {
			out = append(out, c)
		}
	}
	return out
}
