package mentor

import "strings"

// Intent classifies what a learner is asking the mentor about
type Intent string

const (
	IntentLearningMethod   Intent = "learning_method"
	IntentGoalAchievement  Intent = "goal_achievement"
	IntentProblemSolving   Intent = "problem_solving"
	IntentNoteOrganization Intent = "note_organization"
	IntentTimeManagement   Intent = "time_management"
	IntentMotivation       Intent = "motivation"
	IntentConnectionMaking Intent = "connection_making"
	IntentCreativity       Intent = "creativity"
	IntentSkillImprovement Intent = "skill_improvement"
	IntentMemory           Intent = "memory"
	IntentComprehension    Intent = "comprehension"
	IntentGeneralAdvice    Intent = "general_advice"
)

type intentRule struct {
	intent Intent
	all    []string
	any    []string
}

// first matching rule wins
var intentRules = []intentRule{
	{IntentLearningMethod, []string{"how"}, []string{"learn", "study"}},
	{IntentGoalAchievement, nil, []string{"goal", "achieve", "target"}},
	{IntentProblemSolving, nil, []string{"problem", "stuck", "help"}},
	{IntentNoteOrganization, []string{"note"}, []string{"organize", "manage"}},
	{IntentTimeManagement, nil, []string{"time", "busy", "schedule"}},
	{IntentMotivation, nil, []string{"motivat", "energy", "tired"}},
	{IntentConnectionMaking, nil, []string{"connect", "relate", "link"}},
	{IntentCreativity, nil, []string{"create", "idea", "innovate"}},
	{IntentSkillImprovement, nil, []string{"improve", "better", "enhance"}},
	{IntentMemory, nil, []string{"remember", "forget", "recall"}},
	{IntentComprehension, nil, []string{"understand", "comprehend", "grasp"}},
}

// DetermineIntent classifies message by case-insensitive substring rules
func DetermineIntent(message string) Intent {
	msg := strings.ToLower(message)
	for _, r := range intentRules {
		if containsAll(msg, r.all) && containsAny(msg, r.any) {
			return r.intent
		}
	}
	return IntentGeneralAdvice
}

func containsAll(s string, words []string) bool {
	for _, w := range words {
		if !strings.Contains(s, w) {
			return false
		}
	}
	return true
}

func containsAny(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}

// SuggestedActions are the quick replies attached to a mentor response
func SuggestedActions(i Intent) []string {
	switch i {
	case IntentLearningMethod:
		return []string{"Test myself", "Space my review", "Teach it out loud"}
	case IntentGoalAchievement:
		return []string{"Define tiny step", "Track progress", "Review weekly"}
	case IntentProblemSolving:
		return []string{"Simplify the problem", "Try one small fix", "Take a breath"}
	case IntentNoteOrganization:
		return []string{"Add tags", "Archive old notes", "Connect ideas"}
	case IntentMotivation:
		return []string{"Do a 2-min starter", "Celebrate small win", "Review progress"}
	case IntentTimeManagement:
		return []string{"Use 15-min timer", "Single-task only", "Plan breaks"}
	case IntentConnectionMaking, IntentCreativity, IntentSkillImprovement,
		IntentMemory, IntentComprehension, IntentGeneralAdvice:
		return []string{"Ask about learning", "Review my notes", "Set a tiny goal"}
	}
	return []string{"Ask about learning", "Review my notes", "Set a tiny goal"}
}

// FollowUpQuestions are the prompts attached to a mentor response
func FollowUpQuestions(i Intent) []string {
	switch i {
	case IntentLearningMethod:
		return []string{"What topic are you focusing on?", "Want a custom study plan?"}
	case IntentGoalAchievement:
		return []string{"What’s your #1 goal right now?", "Need help breaking it down?"}
	case IntentProblemSolving:
		return []string{"Can you describe the block?", "Want a fresh perspective?"}
	case IntentNoteOrganization:
		return []string{"Want tagging suggestions?", "Should we clean up old notes?"}
	case IntentTimeManagement, IntentMotivation, IntentConnectionMaking, IntentCreativity,
		IntentSkillImprovement, IntentMemory, IntentComprehension, IntentGeneralAdvice:
		return []string{"What’s on your mind?", "How can I support you today?"}
	}
	return []string{"What’s on your mind?", "How can I support you today?"}
}

// StudyActions are longer-form study strategies for an intent
func StudyActions(i Intent) []string {
	switch i {
	case IntentLearningMethod:
		return []string{"Create flashcards", "Teach someone", "Apply knowledge"}
	case IntentGoalAchievement:
		return []string{"Break into milestones", "Set deadlines", "Track progress"}
	case IntentProblemSolving:
		return []string{"Break it down", "Seek perspectives", "Experiment"}
	case IntentNoteOrganization:
		return []string{"Create categories", "Add tags", "Weekly review"}
	case IntentTimeManagement, IntentMotivation, IntentConnectionMaking, IntentCreativity,
		IntentSkillImprovement, IntentMemory, IntentComprehension, IntentGeneralAdvice:
		return []string{"Review patterns", "Set learning goal", "Connect concepts"}
	}
	return []string{"Review patterns", "Set learning goal", "Connect concepts"}
}

// DeepFollowUps are reflective questions for an intent
func DeepFollowUps(i Intent) []string {
	switch i {
	case IntentLearningMethod:
		return []string{
			"What specific topic do you want to master next?",
			"How do you prefer to test your understanding?",
			"What learning obstacles have you faced recently?",
		}
	case IntentGoalAchievement:
		return []string{
			"What's the smallest step you can take today?",
			"How will you measure progress this week?",
			"What resources do you need to succeed?",
		}
	case IntentProblemSolving:
		return []string{
			"Have you faced similar challenges before?",
			"Who could provide valuable perspective on this?",
			"What assumptions might be limiting your solution?",
		}
	case IntentNoteOrganization, IntentTimeManagement, IntentMotivation, IntentConnectionMaking,
		IntentCreativity, IntentSkillImprovement, IntentMemory, IntentComprehension, IntentGeneralAdvice:
		return generalDeepFollowUps()
	}
	return generalDeepFollowUps()
}

func generalDeepFollowUps() []string {
	return []string{
		"What area of knowledge management interests you most?",
		"How can I better support your learning journey?",
		"What recent insight has been most valuable to you?",
	}
}
