package mentor

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eoinhurrell/mindmeld/internal/model"
)

func TestRecordNote(t *testing.T) {
	s := newTestSystem(1)
	state := model.NewMentorState()
	state.Progress = model.Progress{Overall: 99, Knowledge: 10, Consistency: 50}
	before := cloneState(state)

	next, msg := s.RecordNote(state, model.ContentAnalysis{KeyTopics: []string{"graphs", "trees"}, Complexity: 0.456})

	assert.Equal(t, 10, next.XP)
	assert.Equal(t, model.Progress{Overall: 100, Knowledge: 15, Consistency: 52}, next.Progress)
	assert.Equal(t, "📝 Note created! AI detected 2 key topics: graphs, trees. Complexity: 46%", msg.Text)
	assert.Equal(t, model.MessageSystem, msg.Type)
	assert.Equal(t, "note_created_1715329800000", msg.ID)
	assert.Equal(t, []model.Message{msg}, next.Session)
	assert.Empty(t, cmp.Diff(before, state, cmpopts.EquateEmpty()), "input state must not change")
}

func TestRecordExchange(t *testing.T) {
	s := newTestSystem(1)
	state := model.NewMentorState()
	user := model.Message{Text: "hi", Type: model.MessageUser, Timestamp: testNow}
	reply := s.ProcessUserMessage("How should I study?", Context{})

	next := s.RecordExchange(state, user, reply)

	assert.Equal(t, 5, next.XP)
	assert.Equal(t, 2.0, next.Progress.Overall)
	require.Len(t, next.Session, 2)
	assert.Equal(t, user, next.Session[0])
	assert.Equal(t, "resp_1715329800000", next.Session[1].ID)
	assert.Empty(t, state.Session)
}

func TestChallengeLifecycle(t *testing.T) {
	s := newTestSystem(1)
	state := model.NewMentorState()
	state.XP = 80
	challenge := model.Challenge{
		Title:        "Concept Mapping",
		Description:  "Map it",
		Difficulty:   model.DifficultyHard,
		XP:           65,
		TimeEstimate: "108 minutes",
		Tags:         []string{"visualization", "organization"},
		Status:       model.ChallengeActive,
	}

	started, startMsg := s.StartChallenge(state, challenge)
	require.NotNil(t, started.CurrentChallenge)
	assert.Nil(t, state.CurrentChallenge)
	assert.Equal(t, "🎯 New challenge started: \"Concept Mapping\"\nDifficulty: hard\nXP Reward: 65\nTime estimate: 108 minutes\nMap it", startMsg.Text)

	done, msg, ok := s.CompleteChallenge(started)
	require.True(t, ok)

	assert.Equal(t, 145, done.XP)
	assert.Equal(t, 2, done.Level)
	assert.Equal(t, 2, done.Streak)
	assert.Equal(t, 8.0, done.Progress.Overall)
	assert.Equal(t, []string{"hard_challenge"}, done.Badges)
	assert.Nil(t, done.CurrentChallenge)
	require.Len(t, done.CompletedChallenges, 1)

	archived := done.CompletedChallenges[0]
	assert.Equal(t, model.ChallengeCompleted, archived.Status)
	require.NotNil(t, archived.CompletedAt)
	assert.Equal(t, testNow, *archived.CompletedAt)

	assert.Equal(t, "🏆 Challenge completed! +65 XP\nYou've demonstrated visualization, organization and are now at 145 total XP. 🎊 Level up to 2!", msg.Text)
	assert.Len(t, done.Session, 2)

	assert.NotNil(t, started.CurrentChallenge, "completing must not mutate the input state")
}

func TestCompleteChallenge_NoLevelUp(t *testing.T) {
	s := newTestSystem(1)
	state := model.NewMentorState()
	state, _ = s.StartChallenge(state, model.Challenge{Difficulty: model.DifficultyBeginner, XP: 10})

	done, msg, ok := s.CompleteChallenge(state)

	require.True(t, ok)
	assert.Equal(t, 1, done.Level)
	assert.Equal(t, "🏆 Challenge completed! +10 XP\nYou've demonstrated valuable skills and are now at 10 total XP.", msg.Text)
}

func TestCompleteChallenge_NoCurrent(t *testing.T) {
	state := model.NewMentorState()

	next, _, ok := newTestSystem(1).CompleteChallenge(state)

	assert.False(t, ok)
	assert.Equal(t, state, next)
}

func TestLevelForXP(t *testing.T) {
	assert.Equal(t, 1, LevelForXP(0))
	assert.Equal(t, 1, LevelForXP(99))
	assert.Equal(t, 2, LevelForXP(100))
	assert.Equal(t, 4, LevelForXP(350))
}
