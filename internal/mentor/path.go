package mentor

import (
	"github.com/eoinhurrell/mindmeld/internal/model"
	"github.com/eoinhurrell/mindmeld/internal/observe"
)

// PathLevel is the learner's stage along a learning path
type PathLevel string

const (
	LevelBeginner     PathLevel = "beginner"
	LevelIntermediate PathLevel = "intermediate"
	LevelAdvanced     PathLevel = "advanced"
)

// PathStep is one stage of a learning path
type PathStep struct {
	Step     int    `json:"step" yaml:"step"`
	Action   string `json:"action" yaml:"action"`
	Duration string `json:"duration" yaml:"duration"`
	Focus    string `json:"focus" yaml:"focus"`
}

// Milestone is a checkpoint and the badge it earns
type Milestone struct {
	Milestone string `json:"milestone" yaml:"milestone"`
	Reward    string `json:"reward" yaml:"reward"`
}

// SuccessMetrics are the targets a learning path aims for
type SuccessMetrics struct {
	NotesTarget       int `json:"notes_target" yaml:"notes_target"`
	ConnectionsTarget int `json:"connections_target" yaml:"connections_target"`
	MasteryTarget     int `json:"mastery_target" yaml:"mastery_target"`
}

// LearningPath is a style-specific plan for the coming weeks
type LearningPath struct {
	Level               PathLevel      `json:"level" yaml:"level"`
	Path                []PathStep     `json:"path" yaml:"path"`
	EstimatedCompletion string         `json:"estimated_completion" yaml:"estimated_completion"`
	Milestones          []Milestone    `json:"milestones" yaml:"milestones"`
	FocusAreas          []string       `json:"focus_areas" yaml:"focus_areas"`
	SuccessMetrics      SuccessMetrics `json:"success_metrics" yaml:"success_metrics"`
}

const (
	intermediateFrom = 30
	advancedFrom     = 70
	pathFocusAreas   = 3
)

// LevelFor maps overall progress (0..100) to a path level
func LevelFor(progress float64) PathLevel {
	switch {
	case progress < intermediateFrom:
		return LevelBeginner
	case progress < advancedFrom:
		return LevelIntermediate
	default:
		return LevelAdvanced
	}
}

// GenerateLearningPath builds a path for the profile's learning style.
// Milestones depend on whether the learner has set any goals.
func (s *System) GenerateLearningPath(profile model.UserProfile, goals []model.Goal, progress float64) LearningPath {
	return observe.Guard(s.obs, "mentor.path", fallbackPath(), func() LearningPath {
		return learningPath(profile, goals, progress)
	})
}

// fallbackPath is the path of a new learner with no goals
func fallbackPath() LearningPath {
	return learningPath(DefaultProfile(), nil, 0)
}

func learningPath(profile model.UserProfile, goals []model.Goal, progress float64) LearningPath {
	focus := []string{"general learning"}
	if len(profile.PreferredTopics) > 0 {
		focus = append([]string{}, profile.PreferredTopics[:min(pathFocusAreas, len(profile.PreferredTopics))]...)
	}

	return LearningPath{
		Level:               LevelFor(progress),
		Path:                pathSteps(profile.LearningStyle),
		EstimatedCompletion: "4-6 weeks",
		Milestones:          milestones(len(goals) > 0),
		FocusAreas:          focus,
		SuccessMetrics: SuccessMetrics{
			NotesTarget:       20,
			ConnectionsTarget: 10,
			MasteryTarget:     5,
		},
	}
}

func pathSteps(style model.LearningStyle) []PathStep {
	switch style {
	case model.StyleVisual:
		return []PathStep{
			{1, "Create visual mind maps for your notes", "1 week", "visualization"},
			{2, "Use color coding for different topics", "3 days", "organization"},
			{3, "Create diagrams for complex concepts", "2 weeks", "comprehension"},
		}
	case model.StyleAuditory:
		return []PathStep{
			{1, "Record yourself explaining key concepts", "1 week", "verbalization"},
			{2, "Discuss notes with others or teach concepts", "2 weeks", "communication"},
			{3, "Create audio summaries of your notes", "1 week", "synthesis"},
		}
	case model.StyleKinesthetic:
		return []PathStep{
			{1, "Create physical representations of concepts", "1 week", "tactile"},
			{2, "Apply concepts through practical projects", "3 weeks", "application"},
			{3, "Build prototypes or models of ideas", "2 weeks", "creation"},
		}
	case model.StyleBalanced:
	}
	return []PathStep{
		{1, "Combine multiple learning methods", "1 week", "integration"},
		{2, "Create multi-modal study materials", "2 weeks", "diversity"},
		{3, "Teach concepts using different approaches", "2 weeks", "adaptation"},
	}
}

func milestones(hasGoals bool) []Milestone {
	if hasGoals {
		return []Milestone{
			{"Complete first learning step", "🚀 Starter Badge"},
			{"Apply learning to a specific goal", "🎯 Goal-Oriented Badge"},
			{"Create comprehensive project", "🏆 Mastery Badge"},
		}
	}
	return []Milestone{
		{"Complete 5 learning sessions", "⭐ Consistency Badge"},
		{"Master 3 key concepts", "🧠 Knowledge Builder Badge"},
		{"Teach someone a concept", "👥 Mentor Badge"},
	}
}
