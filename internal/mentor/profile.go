package mentor

import (
	"regexp"
	"strings"

	"github.com/eoinhurrell/mindmeld/internal/model"
	"github.com/eoinhurrell/mindmeld/internal/observe"
)

var (
	visualWords      = []string{"see", "look", "visual", "picture", "diagram", "chart", "graph", "color", "shape"}
	verbalWords      = []string{"say", "tell", "speak", "discuss", "explain", "describe", "word", "language"}
	kinestheticWords = []string{"do", "make", "build", "create", "move", "action", "practice", "hands-on"}
	detailWords      = []string{"specifically", "exactly", "precisely", "detail", "particular", "specific"}
	bigPictureWords  = []string{"overall", "generally", "broadly", "big", "picture", "strategy", "vision"}

	whitespace = regexp.MustCompile(`\s+`)
)

const (
	consistencyNotes   = 20
	engagedNoteLength  = 100
	growthWindow       = 5
	analyticalAbove    = 0.7
	practicalBelow     = 0.3
	achievementAbove   = 0.3
	wordsPerPatternRun = 100
)

// DefaultProfile is the profile of a learner with no notes
func DefaultProfile() model.UserProfile {
	return model.UserProfile{
		LearningStyle:     model.StyleBalanced,
		ConsistencyScore:  0.3,
		EngagementLevel:   0.5,
		PreferredTopics:   []string{},
		CognitivePattern:  model.CognitiveBalanced,
		MotivationPattern: model.MotivationExploratory,
	}
}

// InitializeUserProfile derives the learner profile from the full note history
func (s *System) InitializeUserProfile(notes []model.Note) model.UserProfile {
	return observe.Guard(s.obs, "mentor.profile", DefaultProfile(), func() model.UserProfile {
		return s.profile(notes)
	})
}

func (s *System) profile(notes []model.Note) model.UserProfile {
	if len(notes) == 0 {
		return DefaultProfile()
	}

	patterns := AnalyzeWritingPatterns(notes)

	contents := make([]string, len(notes))
	engaged := 0
	for i, n := range notes {
		contents[i] = n.Content
		if len([]rune(n.Content)) > engagedNoteLength {
			engaged++
		}
	}
	overall := s.analyzer.Analyze(strings.Join(contents, " "))

	analyses := s.analyses(notes)
	avg := averageComplexity(analyses)

	cognitive := model.CognitiveBalanced
	switch {
	case avg > analyticalAbove:
		cognitive = model.CognitiveAnalytical
	case avg < practicalBelow:
		cognitive = model.CognitivePractical
	}

	motivation := model.MotivationExploratory
	if overall.Sentiment > achievementAbove {
		motivation = model.MotivationAchievement
	}

	n := float64(len(notes))
	return model.UserProfile{
		LearningStyle:     dominantStyle(patterns),
		ConsistencyScore:  min(1, n/consistencyNotes),
		EngagementLevel:   min(1, float64(engaged)/n),
		KnowledgeDepth:    min(1, avg),
		GrowthRate:        growthRate(analyses),
		LearningPatterns:  patterns,
		PreferredTopics:   append([]string{}, overall.KeyTopics...),
		CognitivePattern:  cognitive,
		MotivationPattern: motivation,
	}
}

// dominantStyle picks the sensory channel with a strictly greatest score
func dominantStyle(p model.WritingPatterns) model.LearningStyle {
	v, a, k := p.VisualScore, p.VerbalScore, p.KinestheticScore
	switch {
	case v > a && v > k:
		return model.StyleVisual
	case a > v && a > k:
		return model.StyleAuditory
	case k > v && k > a:
		return model.StyleKinesthetic
	default:
		return model.StyleBalanced
	}
}

// growthRate compares the complexity of the most recent notes with the oldest
func growthRate(analyses []model.ContentAnalysis) float64 {
	recent := analyses[:min(growthWindow, len(analyses))]
	oldest := analyses[max(0, len(analyses)-growthWindow):]

	var recentSum, oldestSum float64
	for _, a := range recent {
		recentSum += a.Complexity
	}
	for _, a := range oldest {
		oldestSum += a.Complexity
	}
	return min(1, recentSum/max(1, oldestSum))
}

// AnalyzeWritingPatterns scores word-list presence across notes. Sensory and
// focus scores are normalized per hundred words; every score is capped at 1.
func AnalyzeWritingPatterns(notes []model.Note) model.WritingPatterns {
	var p model.WritingPatterns
	if len(notes) == 0 {
		return p
	}

	totalWords, questions, actionWords := 0, 0, 0
	for _, n := range notes {
		content := strings.ToLower(n.Content)
		totalWords += len(whitespace.Split(content, -1))
		questions += strings.Count(content, "?")

		kinesthetic := hits(content, kinestheticWords)
		actionWords += kinesthetic

		p.VisualScore += float64(hits(content, visualWords))
		p.VerbalScore += float64(hits(content, verbalWords))
		p.KinestheticScore += float64(kinesthetic)
		p.DetailOriented += float64(hits(content, detailWords))
		p.BigPicture += float64(hits(content, bigPictureWords))
	}

	count := float64(len(notes))
	norm := max(1, float64(totalWords)/wordsPerPatternRun)

	return model.WritingPatterns{
		VisualScore:       min(1, p.VisualScore/norm),
		VerbalScore:       min(1, p.VerbalScore/norm),
		KinestheticScore:  min(1, p.KinestheticScore/norm),
		DetailOriented:    min(1, p.DetailOriented/norm),
		BigPicture:        min(1, p.BigPicture/norm),
		QuestionFrequency: min(1, float64(questions)/count),
		ActionOrientation: min(1, float64(actionWords)/count),
	}
}

func hits(content string, words []string) int {
	n := 0
	for _, w := range words {
		if strings.Contains(content, w) {
			n++
		}
	}
	return n
}
