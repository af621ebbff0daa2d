// Package analyzer derives a ContentAnalysis feature vector from note text.
package analyzer

import (
	"regexp"
	"strings"

	"github.com/eoinhurrell/mindmeld/internal/model"
	"github.com/eoinhurrell/mindmeld/internal/observe"
	"github.com/eoinhurrell/mindmeld/internal/textmetrics"
)

const (
	// KeywordLimit is the number of keywords scored per analysis
	KeywordLimit = 8
	// TopicLimit is the number of keywords kept as key topics
	TopicLimit = 5

	keywordSaturation = 5.0
	actionCandidates  = 6
	actionLimit       = 4
	toneThreshold     = 0.25
)

var (
	positiveLexicon = []string{"good", "great", "improve", "positive", "success", "benefit", "increase", "win", "helpful"}
	negativeLexicon = []string{"bad", "problem", "issue", "error", "fail", "difficult", "bug", "reduce", "loss"}

	clauseSeparator = regexp.MustCompile(`[\n.;]`)
)

// ContentAnalyzer is implemented by anything that can analyze note text
type ContentAnalyzer interface {
	Analyze(text string) model.ContentAnalysis
}

// Analyzer computes content analyses. It is stateless and safe for concurrent use.
type Analyzer struct {
	obs observe.Observer
}

// Option configures an Analyzer
type Option func(*Analyzer)

// WithObserver reports fallbacks to obs
func WithObserver(obs observe.Observer) Option {
	return func(a *Analyzer) {
		a.obs = obs
	}
}

// NewAnalyzer creates a new analyzer
func NewAnalyzer(opts ...Option) *Analyzer {
	a := &Analyzer{obs: observe.Nop{}}
	for _, opt := range opts {
		opt(a)
	}
	a.obs = observe.Or(a.obs)
	return a
}

// Analyze derives the analysis of text. It never fails; on an internal
// error the empty analysis is returned and the observer is notified.
func (a *Analyzer) Analyze(text string) model.ContentAnalysis {
	return observe.Guard(a.obs, "analyze", model.EmptyAnalysis(), func() model.ContentAnalysis {
		return analyze(text)
	})
}

func analyze(text string) model.ContentAnalysis {
	cleaned := textmetrics.SanitizeText(text)
	keywords := textmetrics.ExtractKeywords(cleaned, KeywordLimit)

	topics := keywords
	if len(topics) > TopicLimit {
		topics = topics[:TopicLimit]
	}

	tokens := strings.Fields(cleaned)
	sentiment := Sentiment(cleaned)

	return model.ContentAnalysis{
		KeyTopics:     append([]string{}, topics...),
		KeywordScores: KeywordScores(cleaned, keywords),
		Complexity:    Complexity(tokens),
		WordCount:     len(tokens),
		EmotionalTone: ToneOf(sentiment),
		ActionItems:   ActionItems(cleaned),
		Sentiment:     sentiment,
	}
}

// KeywordScores counts whole-word occurrences of each keyword in text,
// scaled so that five occurrences saturate at 1
func KeywordScores(text string, keywords []string) []model.KeywordScore {
	scores := make([]model.KeywordScore, 0, len(keywords))
	for _, w := range keywords {
		re, err := regexp.Compile(`\b` + regexp.QuoteMeta(w) + `\b`)
		count := 0
		if err == nil {
			count = len(re.FindAllStringIndex(text, -1))
		}
		scores = append(scores, model.KeywordScore{
			Word:  w,
			Score: min(1, float64(count)/keywordSaturation),
		})
	}
	return scores
}

// Complexity is the ratio of distinct tokens to tokens
func Complexity(tokens []string) float64 {
	if len(tokens) == 0 {
		return 0
	}
	unique := make(map[string]struct{}, len(tokens))
	for _, t := range tokens {
		unique[t] = struct{}{}
	}
	return min(1, float64(len(unique))/float64(len(tokens)))
}

// ActionItems returns up to four clauses of more than two words, taken from
// the first six non-empty clauses of text
func ActionItems(text string) []string {
	var clauses []string
	for _, part := range clauseSeparator.Split(text, -1) {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		clauses = append(clauses, part)
		if len(clauses) == actionCandidates {
			break
		}
	}

	items := []string{}
	for _, c := range clauses {
		if len(strings.Split(c, " ")) > 2 {
			items = append(items, c)
		}
		if len(items) == actionLimit {
			break
		}
	}
	return items
}

// Sentiment scores lexicon presence in text, normalized into [-1,1]
func Sentiment(text string) float64 {
	lower := strings.ToLower(text)

	score := 0
	for _, w := range positiveLexicon {
		if strings.Contains(lower, w) {
			score++
		}
	}
	for _, w := range negativeLexicon {
		if strings.Contains(lower, w) {
			score--
		}
	}

	norm := max(1, float64(len(positiveLexicon)+len(negativeLexicon))/8)
	return max(-1, min(1, float64(score)/norm))
}

// ToneOf maps a sentiment score onto its tone label
func ToneOf(sentiment float64) model.Tone {
	switch {
	case sentiment > toneThreshold:
		return model.TonePositive
	case sentiment < -toneThreshold:
		return model.ToneNegative
	default:
		return model.ToneNeutral
	}
}

// Resolve returns the note's precomputed analysis, or analyzes its content
func Resolve(a ContentAnalyzer, n model.Note) model.ContentAnalysis {
	if n.Analysis != nil {
		return *n.Analysis
	}
	return a.Analyze(n.Content)
}

// Clone returns a deep copy of an analysis
func Clone(a model.ContentAnalysis) model.ContentAnalysis {
	a.KeyTopics = append([]string{}, a.KeyTopics...)
	a.KeywordScores = append([]model.KeywordScore{}, a.KeywordScores...)
	a.ActionItems = append([]string{}, a.ActionItems...)
	return a
}
