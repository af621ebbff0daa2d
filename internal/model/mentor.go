package model

import "time"

// CognitivePattern describes how a learner processes material
type CognitivePattern string

const (
	CognitiveAnalytical CognitivePattern = "analytical"
	CognitivePractical  CognitivePattern = "practical"
	CognitiveBalanced   CognitivePattern = "balanced"
)

// MotivationPattern describes what drives a learner
type MotivationPattern string

const (
	MotivationAchievement MotivationPattern = "achievement"
	MotivationExploratory MotivationPattern = "exploratory"
)

// WritingPatterns holds word-list hit rates derived from a note history
type WritingPatterns struct {
	VisualScore       float64 `json:"visual_score" yaml:"visual_score"`
	VerbalScore       float64 `json:"verbal_score" yaml:"verbal_score"`
	KinestheticScore  float64 `json:"kinesthetic_score" yaml:"kinesthetic_score"`
	DetailOriented    float64 `json:"detail_oriented" yaml:"detail_oriented"`
	BigPicture        float64 `json:"big_picture" yaml:"big_picture"`
	QuestionFrequency float64 `json:"question_frequency" yaml:"question_frequency"`
	ActionOrientation float64 `json:"action_orientation" yaml:"action_orientation"`
}

// UserProfile is the learner model recomputed from the full note history
type UserProfile struct {
	LearningStyle     LearningStyle     `json:"learning_style" yaml:"learning_style"`
	ConsistencyScore  float64           `json:"consistency_score" yaml:"consistency_score"`
	EngagementLevel   float64           `json:"engagement_level" yaml:"engagement_level"`
	KnowledgeDepth    float64           `json:"knowledge_depth" yaml:"knowledge_depth"`
	GrowthRate        float64           `json:"growth_rate" yaml:"growth_rate"`
	LearningPatterns  WritingPatterns   `json:"learning_patterns" yaml:"learning_patterns"`
	PreferredTopics   []string          `json:"preferred_topics" yaml:"preferred_topics"`
	CognitivePattern  CognitivePattern  `json:"cognitive_pattern" yaml:"cognitive_pattern"`
	MotivationPattern MotivationPattern `json:"motivation_pattern" yaml:"motivation_pattern"`
}

// Difficulty is the tier of a challenge
type Difficulty string

const (
	DifficultyBeginner Difficulty = "beginner"
	DifficultyMedium   Difficulty = "medium"
	DifficultyHard     Difficulty = "hard"
)

// ChallengeStatus tracks whether a challenge is still open
type ChallengeStatus string

const (
	ChallengeActive    ChallengeStatus = "active"
	ChallengeCompleted ChallengeStatus = "completed"
)

// Challenge is a recommended, gamified learning task
type Challenge struct {
	ID              string          `json:"id" yaml:"id"`
	Title           string          `json:"title" yaml:"title"`
	Description     string          `json:"description" yaml:"description"`
	Difficulty      Difficulty      `json:"difficulty" yaml:"difficulty"`
	XP              int             `json:"xp" yaml:"xp"`
	TimeEstimate    string          `json:"time_estimate" yaml:"time_estimate"`
	SuccessCriteria string          `json:"success_criteria" yaml:"success_criteria"`
	Tags            []string        `json:"tags" yaml:"tags"`
	FocusArea       string          `json:"focus_area" yaml:"focus_area"`
	AssignedAt      time.Time       `json:"assigned_at" yaml:"assigned_at"`
	DueDate         time.Time       `json:"due_date" yaml:"due_date"`
	Status          ChallengeStatus `json:"status" yaml:"status"`
	Progress        int             `json:"progress" yaml:"progress"`
	CompletedAt     *time.Time      `json:"completed_at,omitempty" yaml:"completed_at,omitempty"`
}

// GoalStatus tracks a learner goal
type GoalStatus string

const (
	GoalActive    GoalStatus = "active"
	GoalCompleted GoalStatus = "completed"
)

// Goal is a learner-defined objective
type Goal struct {
	ID          string     `json:"id" yaml:"id"`
	Name        string     `json:"name" yaml:"name"`
	Status      GoalStatus `json:"status" yaml:"status"`
	Progress    float64    `json:"progress" yaml:"progress"`
	CompletedAt *time.Time `json:"completed_at,omitempty" yaml:"completed_at,omitempty"`
}

// MessageType tags who authored a conversation message
type MessageType string

const (
	MessageUser   MessageType = "user"
	MessageMentor MessageType = "mentor"
	MessageSystem MessageType = "system"
)

// Message is a single turn of the mentor conversation
type Message struct {
	ID                string      `json:"id,omitempty" yaml:"id,omitempty"`
	Text              string      `json:"text" yaml:"text"`
	Type              MessageType `json:"type" yaml:"type"`
	Timestamp         time.Time   `json:"timestamp" yaml:"timestamp"`
	SuggestedActions  []string    `json:"suggested_actions,omitempty" yaml:"suggested_actions,omitempty"`
	FollowUpQuestions []string    `json:"follow_up_questions,omitempty" yaml:"follow_up_questions,omitempty"`
	Confidence        float64     `json:"confidence,omitempty" yaml:"confidence,omitempty"`
}

// Progress holds the percentage meters shown on the dashboard, each in [0,100]
type Progress struct {
	Overall     float64 `json:"overall" yaml:"overall"`
	Knowledge   float64 `json:"knowledge" yaml:"knowledge"`
	Consistency float64 `json:"consistency" yaml:"consistency"`
	Depth       float64 `json:"depth" yaml:"depth"`
	Connections float64 `json:"connections" yaml:"connections"`
}

// MentorState is the persisted gamification state of a learner
type MentorState struct {
	Profile             UserProfile `json:"profile" yaml:"profile"`
	Progress            Progress    `json:"progress" yaml:"progress"`
	Streak              int         `json:"streak" yaml:"streak"`
	XP                  int         `json:"xp" yaml:"xp"`
	Level               int         `json:"level" yaml:"level"`
	Badges              []string    `json:"badges" yaml:"badges"`
	Goals               []Goal      `json:"goals" yaml:"goals"`
	CurrentChallenge    *Challenge  `json:"current_challenge,omitempty" yaml:"current_challenge,omitempty"`
	CompletedChallenges []Challenge `json:"completed_challenges" yaml:"completed_challenges"`
	Session             []Message   `json:"session" yaml:"session"`
}

// NewMentorState returns the state of a learner who has just started
func NewMentorState() MentorState {
	return MentorState{
		Streak:              1,
		Level:               1,
		Badges:              []string{},
		Goals:               []Goal{},
		CompletedChallenges: []Challenge{},
		Session:             []Message{},
	}
}

// ActiveGoal returns the first active goal
func ActiveGoal(goals []Goal) (Goal, bool) {
	for _, g := range goals {
		if g.Status == GoalActive {
			return g, true
		}
	}
	return Goal{}, false
}
