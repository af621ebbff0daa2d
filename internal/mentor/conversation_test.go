package mentor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eoinhurrell/mindmeld/internal/model"
)

func TestDetermineIntent(t *testing.T) {
	tests := []struct {
		message string
		want    Intent
	}{
		{"How can I study better?", IntentLearningMethod},
		{"I have a problem with my code", IntentProblemSolving},
		{"My GOAL is to finish the course", IntentGoalAchievement},
		{"How do I organize my notes?", IntentNoteOrganization},
		{"I'm always busy", IntentTimeManagement},
		{"I feel tired", IntentMotivation},
		{"How do these ideas relate?", IntentConnectionMaking},
		{"I want to invent a new idea", IntentCreativity},
		{"Can I enhance my writing?", IntentSkillImprovement},
		{"I forget things", IntentMemory},
		{"I can't grasp this", IntentComprehension},
		{"hello there", IntentGeneralAdvice},
		{"", IntentGeneralAdvice},
	}

	for _, tt := range tests {
		t.Run(tt.message, func(t *testing.T) {
			assert.Equal(t, tt.want, DetermineIntent(tt.message))
		})
	}
}

func TestIntentTables(t *testing.T) {
	intents := []Intent{
		IntentLearningMethod, IntentGoalAchievement, IntentProblemSolving, IntentNoteOrganization,
		IntentTimeManagement, IntentMotivation, IntentConnectionMaking, IntentCreativity,
		IntentSkillImprovement, IntentMemory, IntentComprehension, IntentGeneralAdvice,
	}
	for _, i := range intents {
		assert.Len(t, SuggestedActions(i), 3, i)
		assert.Len(t, FollowUpQuestions(i), 2, i)
		assert.Len(t, StudyActions(i), 3, i)
		assert.Len(t, DeepFollowUps(i), 3, i)
	}

	assert.Equal(t, []string{"Create flashcards", "Teach someone", "Apply knowledge"}, StudyActions(IntentLearningMethod))
	assert.Equal(t, DeepFollowUps(IntentGeneralAdvice), DeepFollowUps(IntentMemory))
}

func TestGreeting(t *testing.T) {
	assert.Equal(t, "Good morning", greeting(0))
	assert.Equal(t, "Good morning", greeting(11))
	assert.Equal(t, "Good afternoon", greeting(12))
	assert.Equal(t, "Good afternoon", greeting(16))
	assert.Equal(t, "Good evening", greeting(17))
	assert.Equal(t, "Good evening", greeting(23))
}

func TestProcessUserMessage_LearningMethod(t *testing.T) {
	s := newTestSystem(1)
	ctx := Context{
		Notes:   []model.Note{analyzed("n1", "", model.ContentAnalysis{KeyTopics: []string{"graphs"}})},
		Profile: model.UserProfile{LearningStyle: model.StyleVisual},
		Streak:  5,
	}

	msg := s.ProcessUserMessage("How should I study this?", ctx)

	assert.Equal(t, model.MessageMentor, msg.Type)
	assert.Equal(t, testNow, msg.Timestamp)
	assert.Equal(t, ReplyConfidence, msg.Confidence)
	assert.Contains(t, msg.Text, "Good morning! 👋 You’re on a 5-day streak—amazing consistency! \n\n")
	assert.Contains(t, msg.Text, "**graphs**")
	assert.Contains(t, msg.Text, "**visual** styles")
	assert.Equal(t, SuggestedActions(IntentLearningMethod), msg.SuggestedActions)
	assert.Equal(t, FollowUpQuestions(IntentLearningMethod), msg.FollowUpQuestions)
}

func TestProcessUserMessage_NoStreakLineForNewLearner(t *testing.T) {
	msg := newTestSystem(1).ProcessUserMessage("How should I study this?", Context{})

	assert.NotContains(t, msg.Text, "streak")
	assert.Contains(t, msg.Text, "**your current focus**")
	assert.Contains(t, msg.Text, "**multiple** styles")
}

func TestProcessUserMessage_Goal(t *testing.T) {
	s := newTestSystem(1)

	t.Run("no active goal", func(t *testing.T) {
		msg := s.ProcessUserMessage("I have a goal", Context{})
		assert.Contains(t, msg.Text, "I will [verb] [object] by [date].")
	})

	t.Run("messy middle", func(t *testing.T) {
		ctx := Context{Goals: []model.Goal{
			{Name: "Old", Status: model.GoalCompleted, Progress: 100},
			{Name: "Ship the thesis", Status: model.GoalActive, Progress: 50},
		}}
		msg := s.ProcessUserMessage("How close am I to my target?", ctx)
		assert.Contains(t, msg.Text, "**“Ship the thesis”**")
		assert.Contains(t, msg.Text, "messy middle")
	})

	t.Run("nearly done", func(t *testing.T) {
		ctx := Context{Goals: []model.Goal{{Name: "Ship", Status: model.GoalActive, Progress: 90}}}
		msg := s.ProcessUserMessage("goal check", ctx)
		assert.Contains(t, msg.Text, "final 5%")
	})
}

func TestProcessUserMessage_ShortInput(t *testing.T) {
	for _, input := range []string{"", "  ", "ok"} {
		msg := newTestSystem(1).ProcessUserMessage(input, Context{Progress: model.Progress{Overall: 80}})

		assert.Contains(t, msg.Text, "You’re really leveling up! ")
		assert.Contains(t, msg.Text, "\n1. Review your latest note?\n2. Check in on your active goal?\n3. Get a quick learning tip?")
		assert.Equal(t, shortInputActions, msg.SuggestedActions)
		assert.Zero(t, msg.Confidence)
	}
}

func TestProcessUserMessage_GeneralUsesMessageTopics(t *testing.T) {
	s, rec := newRecordingSystem(fixedAnalyzer{model.ContentAnalysis{
		KeyTopics: []string{"pottery", "glaze"},
		Sentiment: -0.5,
	}})

	msg := s.ProcessUserMessage("hello there", Context{})

	assert.Contains(t, msg.Text, "Thanks for sharing about *pottery, glaze*.")
	assert.Contains(t, msg.Text, "This sounds tough")
	assert.Empty(t, rec.Events())
}

func TestProcessUserMessage_FailureFallsBack(t *testing.T) {
	s, rec := newRecordingSystem(panicAnalyzer{})

	msg := s.ProcessUserMessage("hello there", Context{})

	require.Equal(t, FallbackReply(testNow), msg)
	assert.Equal(t, []string{"mentor.reply"}, rec.Operations())
}

func TestContextFromState(t *testing.T) {
	state := model.NewMentorState()
	state.Streak = 4
	state.Goals = []model.Goal{{Name: "g", Status: model.GoalActive}}
	notes := []model.Note{{ID: "n"}}

	ctx := ContextFromState(state, notes)

	assert.Equal(t, 4, ctx.Streak)
	assert.Equal(t, state.Goals, ctx.Goals)
	assert.Equal(t, notes, ctx.Notes)
}
