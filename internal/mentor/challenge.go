package mentor

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/eoinhurrell/mindmeld/internal/model"
	"github.com/eoinhurrell/mindmeld/internal/observe"
)

// ChallengeCategory is the skill a challenge exercises
type ChallengeCategory string

const (
	CategoryCreativity ChallengeCategory = "creativity"
	CategoryAnalysis   ChallengeCategory = "analysis"
	CategorySynthesis  ChallengeCategory = "synthesis"
)

// ChallengeWindow is how long a learner has to finish a challenge
const ChallengeWindow = 24 * time.Hour

const (
	recentNoteWindow = 5
	complexNoteAbove = 0.6
	beginnerBelow    = 0.3
	hardAbove        = 0.7
	firstNoteTitle   = "First Note Creation"
)

type challengeTemplate struct {
	title           string
	description     string
	xp              int
	minutes         int
	successCriteria string
	tags            []string
}

func templates(c ChallengeCategory) []challengeTemplate {
	switch c {
	case CategoryCreativity:
		return []challengeTemplate{
			{"Idea Fusion Challenge", "Combine three unrelated concepts from your notes into one innovative solution", 30, 45,
				"Create a coherent concept combining all three ideas", []string{"creativity", "innovation", "synthesis"}},
			{"Perspective Shifting", "Rewrite a technical note for a complete beginner audience", 40, 60,
				"Make the concept understandable without jargon", []string{"communication", "simplification", "empathy"}},
		}
	case CategoryAnalysis:
		return []challengeTemplate{
			{"Pattern Recognition Mastery", "Analyze your last 15 notes and identify at least 5 recurring patterns", 35, 50,
				"Document patterns with specific examples", []string{"analysis", "patterns", "insights"}},
			{"Root Cause Investigation", `Take a problem from your notes and trace it through 5 levels of "why"`, 45, 75,
				"Create a detailed cause-effect chain", []string{"problem-solving", "depth", "investigation"}},
		}
	case CategorySynthesis:
		return []challengeTemplate{
			{"Knowledge Integration", "Connect 5 different notes into a coherent story or framework", 35, 55,
				"Create meaningful connections between all notes", []string{"synthesis", "integration", "framework"}},
			{"Concept Mapping", "Create a comprehensive mind map connecting 10+ related notes", 50, 90,
				"Map with clear hierarchy and connections", []string{"visualization", "organization", "comprehension"}},
		}
	}
	return nil
}

var (
	creativeVocabulary   = []string{"idea", "imagine", "design", "invent", "brainstorm", "create", "innovat", "story"}
	analyticalVocabulary = []string{"analy", "data", "evidence", "measure", "compare", "because", "research", "metric"}
)

// GenerateAdaptiveChallenge picks a challenge suited to the learner's recent
// notes and consistency. recent lists recently completed challenges, most
// recent last; the last title is not repeated when another template exists.
func (s *System) GenerateAdaptiveChallenge(profile model.UserProfile, recent []model.Challenge, notes []model.Note) model.Challenge {
	now := s.clock.Now()
	return observe.Guard(s.obs, "mentor.challenge", firstNoteChallenge(timeID(now), now), func() model.Challenge {
		return s.challenge(profile, recent, notes, now)
	})
}

func firstNoteChallenge(id string, now time.Time) model.Challenge {
	return model.Challenge{
		ID:              id,
		Title:           firstNoteTitle,
		Description:     "Create your first note to start your knowledge journey",
		Difficulty:      model.DifficultyBeginner,
		XP:              10,
		TimeEstimate:    "10 minutes",
		SuccessCriteria: "Create one note with at least 50 words",
		Tags:            []string{"foundation", "getting-started"},
		FocusArea:       "general",
		AssignedAt:      now,
		DueDate:         now.Add(ChallengeWindow),
		Status:          model.ChallengeActive,
	}
}

func (s *System) challenge(profile model.UserProfile, recent []model.Challenge, notes []model.Note, now time.Time) model.Challenge {
	if len(notes) == 0 {
		return firstNoteChallenge(s.challengeID(now), now)
	}

	category := s.challengeCategory(notes[:min(recentNoteWindow, len(notes))])
	difficulty := DifficultyFor(profile.ConsistencyScore)
	options := templates(category)

	pick := s.rng.Intn(len(options))
	if len(recent) > 0 && len(options) > 1 && options[pick].title == recent[len(recent)-1].Title {
		pick = (pick + 1) % len(options)
	}
	t := options[pick]

	xpMul, timeMul := multipliers(difficulty)
	return model.Challenge{
		ID:              s.challengeID(now),
		Title:           t.title,
		Description:     t.description,
		Difficulty:      difficulty,
		XP:              int(math.Round(float64(t.xp) * xpMul)),
		TimeEstimate:    fmt.Sprintf("%d minutes", int(math.Round(float64(t.minutes)*timeMul))),
		SuccessCriteria: t.successCriteria,
		Tags:            append([]string{}, t.tags...),
		FocusArea:       string(category),
		AssignedAt:      now,
		DueDate:         now.Add(ChallengeWindow),
		Status:          model.ChallengeActive,
	}
}

// challengeCategory counts creative, analytical and complex notes; a strict
// maximum chooses the category, otherwise creativity
func (s *System) challengeCategory(notes []model.Note) ChallengeCategory {
	var creative, analytical, complex int
	for i, a := range s.analyses(notes) {
		n := notes[i]
		content := strings.ToLower(n.Content)

		if n.Category == model.CategoryIdea || containsAny(content, creativeVocabulary) {
			creative++
		}
		if n.Category == model.CategoryResearch || n.Category == model.CategoryTechnical || containsAny(content, analyticalVocabulary) {
			analytical++
		}
		if a.Complexity > complexNoteAbove {
			complex++
		}
	}

	switch {
	case analytical > creative && analytical > complex:
		return CategoryAnalysis
	case complex > creative && complex > analytical:
		return CategorySynthesis
	default:
		return CategoryCreativity
	}
}

// DifficultyFor maps a consistency score onto a challenge tier
func DifficultyFor(consistency float64) model.Difficulty {
	switch {
	case consistency < beginnerBelow:
		return model.DifficultyBeginner
	case consistency > hardAbove:
		return model.DifficultyHard
	default:
		return model.DifficultyMedium
	}
}

func multipliers(d model.Difficulty) (xp, duration float64) {
	switch d {
	case model.DifficultyBeginner:
		return 0.7, 0.8
	case model.DifficultyHard:
		return 1.3, 1.2
	case model.DifficultyMedium:
		return 1, 1
	}
	return 1, 1
}

const challengeSuffixLen = 9

func (s *System) challengeID(now time.Time) string {
	return fmt.Sprintf("%s_%s", timeID(now), s.rng.Suffix(challengeSuffixLen))
}

func timeID(now time.Time) string {
	return fmt.Sprintf("challenge_%d", now.UnixMilli())
}
