// Package connections ranks the notes most related to a target note.
package connections

import (
	"math"
	"sort"

	"github.com/eoinhurrell/mindmeld/internal/analyzer"
	"github.com/eoinhurrell/mindmeld/internal/model"
	"github.com/eoinhurrell/mindmeld/internal/observe"
	"github.com/eoinhurrell/mindmeld/internal/textmetrics"
)

const (
	// MaxResults caps the ranked output
	MaxResults = 50
	// MinStrength is the exclusive lower bound for a retained connection
	MinStrength = 0.05

	topicWeight        = 40.0
	toneBonus          = 20.0
	complexityBonus    = 15.0
	complexityWindow   = 0.2
	keywordPairWeight  = 15.0
	keywordCap         = 30.0
	keywordSimilarity  = 0.7
	semanticKeywordMax = 8

	titlePrefix   = 30
	excerptLength = 160
)

// Finder ranks connections between notes
type Finder struct {
	analyzer analyzer.ContentAnalyzer
	obs      observe.Observer
}

// NewFinder creates a finder. A nil analyzer uses the default analyzer.
func NewFinder(a analyzer.ContentAnalyzer, obs observe.Observer) *Finder {
	if a == nil {
		a = analyzer.NewAnalyzer(analyzer.WithObserver(obs))
	}
	return &Finder{analyzer: a, obs: observe.Or(obs)}
}

// Find returns the notes related to targetID ordered by descending strength.
// Ties keep input order. The result is empty when fewer than two notes exist
// or the target is missing.
func (f *Finder) Find(notes []model.Note, targetID string) []model.Connection {
	return observe.Guard(f.obs, "connections.find", []model.Connection{}, func() []model.Connection {
		return f.find(notes, targetID)
	})
}

func (f *Finder) find(notes []model.Note, targetID string) []model.Connection {
	out := []model.Connection{}
	if len(notes) < 2 {
		return out
	}

	target, ok := findNote(notes, targetID)
	if !ok {
		return out
	}

	base := analyzer.Resolve(f.analyzer, target)
	baseKeywords := textmetrics.ExtractKeywords(target.Content, semanticKeywordMax)

	for _, n := range notes {
		if n.ID == targetID {
			continue
		}

		conn, ok := observe.Guard(f.obs, "connections.score", noConnection, func() scored {
			other := analyzer.Resolve(f.analyzer, n)
			score := Score(base, other, baseKeywords, textmetrics.ExtractKeywords(n.Content, semanticKeywordMax))
			strength := math.Max(0, math.Min(1, score/100))
			if strength <= MinStrength {
				return noConnection
			}
			return scored{
				conn: model.Connection{
					ID:       n.ID,
					Title:    n.DisplayTitle(titlePrefix),
					Excerpt:  model.Truncate(n.Content, excerptLength),
					Strength: strength,
					Score:    score,
				},
				ok: true,
			}
		}).unpack()
		if ok {
			out = append(out, conn)
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Strength > out[j].Strength
	})

	if len(out) > MaxResults {
		out = out[:MaxResults]
	}
	return out
}

// Score is the raw connection score between two analyses. Keywords are the
// semantic keywords extracted from each note's content. Score(a,b) == Score(b,a).
func Score(a, b model.ContentAnalysis, keywordsA, keywordsB []string) float64 {
	score := float64(TopicOverlap(a.KeyTopics, b.KeyTopics)) * topicWeight

	if a.EmotionalTone != "" && a.EmotionalTone == b.EmotionalTone {
		score += toneBonus
	}
	if math.Abs(a.Complexity-b.Complexity) < complexityWindow {
		score += complexityBonus
	}

	return score + math.Min(keywordCap, float64(similarPairs(keywordsA, keywordsB))*keywordPairWeight)
}

// TopicOverlap counts topics of a that also appear in b
func TopicOverlap(a, b []string) int {
	set := make(map[string]struct{}, len(b))
	for _, t := range b {
		set[t] = struct{}{}
	}

	n := 0
	for _, t := range a {
		if _, ok := set[t]; ok {
			n++
		}
	}
	return n
}

// Affinity is the weighted blend of topic overlap, sentiment similarity and
// complexity similarity used for mind map edges
func Affinity(a, b model.ContentAnalysis) (strength float64, overlap int) {
	overlap = TopicOverlap(a.KeyTopics, b.KeyTopics)
	sentimentSimilarity := 1 - math.Abs(a.Sentiment-b.Sentiment)/2
	complexitySimilarity := 1 - math.Abs(a.Complexity-b.Complexity)
	return float64(overlap)*0.4 + sentimentSimilarity*0.3 + complexitySimilarity*0.3, overlap
}

func similarPairs(a, b []string) int {
	n := 0
	for _, x := range a {
		for _, y := range b {
			if textmetrics.Similarity(x, y) > keywordSimilarity {
				n++
			}
		}
	}
	return n
}

func findNote(notes []model.Note, id string) (model.Note, bool) {
	for _, n := range notes {
		if n.ID == id {
			return n, true
		}
	}
	return model.Note{}, false
}

type scored struct {
	conn model.Connection
	ok   bool
}

var noConnection = scored{}

func (s scored) unpack() (model.Connection, bool) {
	return s.conn, s.ok
}
