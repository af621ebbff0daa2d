// Package flashcards turns notes into spaced-repetition study cards.
package flashcards

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/eoinhurrell/mindmeld/internal/analyzer"
	"github.com/eoinhurrell/mindmeld/internal/clock"
	"github.com/eoinhurrell/mindmeld/internal/model"
	"github.com/eoinhurrell/mindmeld/internal/observe"
	"github.com/eoinhurrell/mindmeld/internal/rng"
	"github.com/eoinhurrell/mindmeld/internal/textmetrics"
)

const (
	// FirstReview is the delay before a new card is due
	FirstReview = 24 * time.Hour
	// MaxDifficulty bounds card difficulty
	MaxDifficulty = 5

	styledCards = 2
	idSuffixLen = 4
)

// Generator builds flashcards from notes
type Generator struct {
	analyzer analyzer.ContentAnalyzer
	clock    clock.Clock
	rng      rng.Source
	obs      observe.Observer
}

// Option configures a Generator
type Option func(*Generator)

// WithAnalyzer sets the analyzer used for notes without a stored analysis
func WithAnalyzer(a analyzer.ContentAnalyzer) Option {
	return func(g *Generator) { g.analyzer = a }
}

// WithClock sets the time source for ids and review dates
func WithClock(c clock.Clock) Option {
	return func(g *Generator) { g.clock = c }
}

// WithRand sets the randomness used for id suffixes
func WithRand(r rng.Source) Option {
	return func(g *Generator) { g.rng = r }
}

// WithObserver reports fallbacks to obs
func WithObserver(obs observe.Observer) Option {
	return func(g *Generator) { g.obs = obs }
}

// NewGenerator creates a generator with system time and randomness unless overridden
func NewGenerator(opts ...Option) *Generator {
	g := &Generator{}
	for _, opt := range opts {
		opt(g)
	}
	g.obs = observe.Or(g.obs)
	g.clock = clock.Or(g.clock)
	g.rng = rng.Or(g.rng)
	if g.analyzer == nil {
		g.analyzer = analyzer.NewAnalyzer(analyzer.WithObserver(g.obs))
	}
	return g
}

// Generate builds cards for every note, drops cards whose question repeats an
// earlier one and orders the rest by ascending difficulty
func (g *Generator) Generate(notes []model.Note, style model.LearningStyle) []model.Flashcard {
	return observe.Guard(g.obs, "flashcards.generate", []model.Flashcard{}, func() []model.Flashcard {
		now := g.clock.Now()

		var cards []model.Flashcard
		for i, n := range notes {
			cards = append(cards, observe.Guard(g.obs, "flashcards.note", []model.Flashcard(nil), func() []model.Flashcard {
				return g.forNote(n, i, style, now)
			})...)
		}

		return dedupAndSort(cards)
	})
}

func (g *Generator) forNote(n model.Note, index int, style model.LearningStyle, now time.Time) []model.Flashcard {
	a := analyzer.Resolve(g.analyzer, n)

	keywords := a.KeyTopics
	if len(keywords) == 0 {
		keywords = textmetrics.ExtractKeywords(n.Content, textmetrics.DefaultKeywordLimit)
	}

	title := textmetrics.SanitizeText(n.Title)
	base := difficulty(1, 2, a.Complexity)

	card := func(q, answer, hint string, diff int) model.Flashcard {
		category := n.Category
		if category == "" {
			category = model.CategoryGeneral
		}
		return model.Flashcard{
			ID:            fmt.Sprintf("flashcard_%s_%d_%d_%s", n.ID, now.UnixMilli(), index, g.rng.Suffix(idSuffixLen)),
			NoteID:        n.ID,
			Question:      q,
			Answer:        answer,
			Hint:          hint,
			Difficulty:    diff,
			NextReviewDue: now.Add(FirstReview),
			Category:      category,
			Tags:          append([]string{}, a.KeyTopics...),
		}
	}

	var cards []model.Flashcard

	primary := QuestionFromAnalysis(n, a)
	if primary.Question != "" {
		cards = append(cards, card(primary.Question, primary.Answer, primary.Hint, base))
	}

	if len(a.ActionItems) > 0 {
		cards = append(cards, card(
			"What actionable steps are suggested in: "+quotedOr(title, `"this note"`)+"?",
			bullets(a.ActionItems),
			"Focus on verbs and specific tasks.",
			difficulty(2, 3, a.Complexity),
		))
	}

	if len(keywords) > 0 {
		top := keywords[0]
		if s, ok := firstSentenceWith(n.Content, top); ok && len([]rune(s)) > minClozeLength {
			cards = append(cards, card(
				"Fill in the blank: "+cloze(s, top),
				top,
				"Look for the important term related to this sentence: "+initial(top)+"...",
				base,
			))
		}

		concepts := keywords[:min(3, len(keywords))]
		cards = append(cards, card(
			"Explain the key concepts: "+strings.Join(concepts, ", "),
			model.Excerpt(n.Content, conceptExcerpt),
			"Summarize the definitions and relationships between these concepts.",
			base,
		))
	} else {
		cards = append(cards, card(
			"Summarize the main point of: "+quotedOr(title, `"this note"`),
			model.Excerpt(n.Content, conceptExcerpt),
			"Identify the thesis or main conclusion.",
			base,
		))
	}

	if suffix := styleHint(style); suffix != "" {
		for i := max(0, len(cards)-styledCards); i < len(cards); i++ {
			cards[i].Hint += suffix
		}
	}

	return cards
}

// firstSentenceWith returns the first sentence of content containing the
// lowercase keyword
func firstSentenceWith(content, keyword string) (string, bool) {
	for _, s := range Sentences(content) {
		if strings.Contains(strings.ToLower(s), keyword) {
			return s, true
		}
	}
	return "", false
}

func difficulty(base int, factor, complexity float64) int {
	return min(MaxDifficulty, base+int(math.Ceil(complexity*factor)))
}

func styleHint(style model.LearningStyle) string {
	switch style {
	case model.StyleVisual:
		return " (Try drawing a mind map)"
	case model.StyleAuditory:
		return " (Explain it aloud)"
	case model.StyleKinesthetic:
		return " (Build a simple example)"
	case model.StyleBalanced:
		return ""
	}
	return ""
}

func dedupAndSort(cards []model.Flashcard) []model.Flashcard {
	out := make([]model.Flashcard, 0, len(cards))
	seen := make(map[string]bool, len(cards))
	for _, c := range cards {
		if seen[c.Question] {
			continue
		}
		seen[c.Question] = true
		out = append(out, c)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Difficulty < out[j].Difficulty
	})
	return out
}
