package model

import "time"

// LearningStyle is the sensory channel a learner favours
type LearningStyle string

const (
	StyleVisual      LearningStyle = "visual"
	StyleAuditory    LearningStyle = "auditory"
	StyleKinesthetic LearningStyle = "kinesthetic"
	StyleBalanced    LearningStyle = "balanced"
)

// ParseLearningStyle maps a string onto a LearningStyle. ok is false for unknown values.
func ParseLearningStyle(s string) (LearningStyle, bool) {
	switch LearningStyle(s) {
	case StyleVisual, StyleAuditory, StyleKinesthetic, StyleBalanced:
		return LearningStyle(s), true
	}
	return StyleBalanced, false
}

// Flashcard is a generated study artifact referencing the note it came from
type Flashcard struct {
	ID            string     `json:"id" yaml:"id"`
	NoteID        string     `json:"note_id" yaml:"note_id"`
	Question      string     `json:"question" yaml:"question"`
	Answer        string     `json:"answer" yaml:"answer"`
	Hint          string     `json:"hint" yaml:"hint"`
	Difficulty    int        `json:"difficulty" yaml:"difficulty"`
	Learned       bool       `json:"learned" yaml:"learned"`
	LastReviewed  *time.Time `json:"last_reviewed,omitempty" yaml:"last_reviewed,omitempty"`
	ReviewCount   int        `json:"review_count" yaml:"review_count"`
	MasteryLevel  int        `json:"mastery_level" yaml:"mastery_level"`
	NextReviewDue time.Time  `json:"next_review_due" yaml:"next_review_due"`
	Category      Category   `json:"category" yaml:"category"`
	Tags          []string   `json:"tags" yaml:"tags"`
}
