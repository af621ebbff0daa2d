package mentor

import (
	"fmt"
	"math"
	"strings"

	"github.com/eoinhurrell/mindmeld/internal/model"
)

const (
	noteXP          = 10
	exchangeXP      = 5
	xpPerLevel      = 100
	maxProgress     = 100
	badgeSuffix     = "_challenge"
	fallbackSkills  = "valuable skills"
	noteOverall     = 3
	noteKnowledge   = 5
	noteConsistency = 2
	replyOverall    = 2
	completeOverall = 8
)

// LevelForXP is the level reached with xp experience points
func LevelForXP(xp int) int {
	return xp/xpPerLevel + 1
}

// RecordNote rewards a newly created note and appends a system message
// describing its analysis
func (s *System) RecordNote(state model.MentorState, a model.ContentAnalysis) (model.MentorState, model.Message) {
	now := s.clock.Now()
	next := cloneState(state)
	next.XP += noteXP
	next.Progress.Overall = addProgress(next.Progress.Overall, noteOverall)
	next.Progress.Knowledge = addProgress(next.Progress.Knowledge, noteKnowledge)
	next.Progress.Consistency = addProgress(next.Progress.Consistency, noteConsistency)

	msg := model.Message{
		ID: fmt.Sprintf("note_created_%d", now.UnixMilli()),
		Text: fmt.Sprintf("📝 Note created! AI detected %d key topics: %s. Complexity: %d%%",
			len(a.KeyTopics), strings.Join(a.KeyTopics, ", "), int(math.Round(a.Complexity*100))),
		Type:      model.MessageSystem,
		Timestamp: now,
	}
	next.Session = append(next.Session, msg)
	return next, msg
}

// RecordExchange appends a user message and the mentor's reply to the session
func (s *System) RecordExchange(state model.MentorState, user, reply model.Message) model.MentorState {
	next := cloneState(state)
	next.XP += exchangeXP
	next.Progress.Overall = addProgress(next.Progress.Overall, replyOverall)
	if reply.ID == "" {
		reply.ID = fmt.Sprintf("resp_%d", s.clock.Now().UnixMilli())
	}
	next.Session = append(next.Session, user, reply)
	return next
}

// StartChallenge makes c the current challenge
func (s *System) StartChallenge(state model.MentorState, c model.Challenge) (model.MentorState, model.Message) {
	now := s.clock.Now()
	next := cloneState(state)
	current := cloneChallenge(c)
	next.CurrentChallenge = &current

	msg := model.Message{
		ID: fmt.Sprintf("challenge_start_%d", now.UnixMilli()),
		Text: fmt.Sprintf("🎯 New challenge started: %q\nDifficulty: %s\nXP Reward: %d\nTime estimate: %s\n%s",
			c.Title, c.Difficulty, c.XP, c.TimeEstimate, c.Description),
		Type:      model.MessageSystem,
		Timestamp: now,
	}
	next.Session = append(next.Session, msg)
	return next, msg
}

// CompleteChallenge archives the current challenge and pays out its reward.
// ok is false when there is no current challenge.
func (s *System) CompleteChallenge(state model.MentorState) (next model.MentorState, msg model.Message, ok bool) {
	if state.CurrentChallenge == nil {
		return state, model.Message{}, false
	}
	now := s.clock.Now()
	next = cloneState(state)

	done := cloneChallenge(*state.CurrentChallenge)
	completedAt := now
	done.CompletedAt = &completedAt
	done.Status = model.ChallengeCompleted
	done.Progress = 100

	prevLevel := max(1, state.Level)
	next.XP += done.XP
	next.Level = LevelForXP(next.XP)
	next.Streak++
	next.Progress.Overall = addProgress(next.Progress.Overall, completeOverall)
	next.Badges = append(next.Badges, string(done.Difficulty)+badgeSuffix)
	next.CompletedChallenges = append(next.CompletedChallenges, done)
	next.CurrentChallenge = nil

	skills := fallbackSkills
	if len(done.Tags) > 0 {
		skills = strings.Join(done.Tags, ", ")
	}
	text := fmt.Sprintf("🏆 Challenge completed! +%d XP\nYou've demonstrated %s and are now at %d total XP.", done.XP, skills, next.XP)
	if next.Level > prevLevel {
		text += fmt.Sprintf(" 🎊 Level up to %d!", next.Level)
	}

	msg = model.Message{
		ID:        fmt.Sprintf("ach_%d", now.UnixMilli()),
		Text:      text,
		Type:      model.MessageSystem,
		Timestamp: now,
	}
	next.Session = append(next.Session, msg)
	return next, msg, true
}

func addProgress(v, delta float64) float64 {
	return min(maxProgress, v+delta)
}

func cloneState(s model.MentorState) model.MentorState {
	out := s
	out.Profile.PreferredTopics = append([]string{}, s.Profile.PreferredTopics...)
	out.Badges = append([]string{}, s.Badges...)
	out.Goals = append([]model.Goal{}, s.Goals...)
	out.Session = append([]model.Message{}, s.Session...)
	out.CompletedChallenges = make([]model.Challenge, len(s.CompletedChallenges))
	for i, c := range s.CompletedChallenges {
		out.CompletedChallenges[i] = cloneChallenge(c)
	}
	if s.CurrentChallenge != nil {
		c := cloneChallenge(*s.CurrentChallenge)
		out.CurrentChallenge = &c
	}
	return out
}

func cloneChallenge(c model.Challenge) model.Challenge {
	c.Tags = append([]string{}, c.Tags...)
	if c.CompletedAt != nil {
		t := *c.CompletedAt
		c.CompletedAt = &t
	}
	return c
}
