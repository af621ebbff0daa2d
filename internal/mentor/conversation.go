package mentor

import (
	"fmt"
	"strings"
	"time"

	"github.com/eoinhurrell/mindmeld/internal/analyzer"
	"github.com/eoinhurrell/mindmeld/internal/model"
	"github.com/eoinhurrell/mindmeld/internal/observe"
)

// ReplyConfidence is attached to every templated reply
const ReplyConfidence = 0.95

// Context is everything a reply may draw on. Notes are most recent first.
type Context struct {
	Notes    []model.Note
	Goals    []model.Goal
	Profile  model.UserProfile
	Streak   int
	Progress model.Progress
}

// ContextFromState builds a reply context from persisted state
func ContextFromState(state model.MentorState, notes []model.Note) Context {
	return Context{
		Notes:    notes,
		Goals:    state.Goals,
		Profile:  state.Profile,
		Streak:   state.Streak,
		Progress: state.Progress,
	}
}

var (
	shortInputActions   = []string{"Review your latest note?", "Check in on your active goal?", "Get a quick learning tip?"}
	shortInputFollowUps = []string{"What’s on your mind?", "Need a nudge?"}
)

// FallbackReply is the reply used when a response cannot be produced
func FallbackReply(now time.Time) model.Message {
	return model.Message{
		Text:              "Hey! I'm your AI mentor—here to help you learn and grow. 😊\n\nWhat would you like to work on today?",
		Type:              model.MessageMentor,
		Timestamp:         now,
		SuggestedActions:  []string{"Ask about learning", "Organize notes", "Set a goal"},
		FollowUpQuestions: []string{"What’s on your mind?", "Need study tips?", "Feeling stuck?"},
	}
}

// ProcessUserMessage answers a learner message. It never fails; internal
// errors produce FallbackReply.
func (s *System) ProcessUserMessage(message string, ctx Context) model.Message {
	now := s.clock.Now()
	return observe.Guard(s.obs, "mentor.reply", FallbackReply(now), func() model.Message {
		return s.reply(message, ctx, now)
	})
}

func (s *System) reply(message string, ctx Context, now time.Time) model.Message {
	var b strings.Builder
	b.WriteString(greeting(now.Hour()))
	b.WriteString("! 👋 ")

	streak := ctx.Streak
	if streak == 0 {
		streak = 1
	}
	if streak > 3 {
		fmt.Fprintf(&b, "You’re on a %d-day streak—amazing consistency! ", streak)
	}
	if ctx.Progress.Overall > 70 {
		b.WriteString("You’re really leveling up! ")
	}
	b.WriteString("\n\n")

	if len(strings.TrimSpace(message)) < 3 {
		b.WriteString("No worries—you don’t need a perfect question. Even saying *“I’m stuck”* is enough. 💙\n\nHow about we...")
		for i, a := range shortInputActions {
			fmt.Fprintf(&b, "\n%d. %s", i+1, a)
		}
		return model.Message{
			Text:              b.String(),
			Type:              model.MessageMentor,
			Timestamp:         now,
			SuggestedActions:  append([]string{}, shortInputActions...),
			FollowUpQuestions: append([]string{}, shortInputFollowUps...),
		}
	}

	intent := DetermineIntent(message)
	b.WriteString(s.body(intent, message, ctx))

	return model.Message{
		Text:              b.String(),
		Type:              model.MessageMentor,
		Timestamp:         now,
		SuggestedActions:  SuggestedActions(intent),
		FollowUpQuestions: FollowUpQuestions(intent),
		Confidence:        ReplyConfidence,
	}
}

func greeting(hour int) string {
	switch {
	case hour < 12:
		return "Good morning"
	case hour < 17:
		return "Good afternoon"
	default:
		return "Good evening"
	}
}

func (s *System) body(intent Intent, message string, ctx Context) string {
	switch intent {
	case IntentLearningMethod:
		topic := "your current focus"
		if len(ctx.Notes) > 0 {
			if a := analyzer.Resolve(s.analyzer, ctx.Notes[0]); len(a.KeyTopics) > 0 {
				topic = a.KeyTopics[0]
			}
		}
		style := string(ctx.Profile.LearningStyle)
		if style == "" {
			style = "multiple"
		}
		return "You’ve got great notes on **" + topic + "**—here’s how to lock that in:\n\n" +
			"• **Test yourself** *before* re-reading (it feels harder, but works better!)\n" +
			"• **Space it out**: review today, then in 2 days\n" +
			"• Since you learn best with **" + style + "** styles, try explaining it out loud *while* sketching key ideas."

	case IntentGoalAchievement:
		goal, ok := model.ActiveGoal(ctx.Goals)
		if !ok {
			return "Goals thrive on clarity + tiny steps. Try this:\n\n" +
				"1. Write your goal as: “I will [verb] [object] by [date].”\n" +
				"2. What’s the *very first* 2-minute action? Do it now."
		}
		head := "Love that you’re focused on **“" + goal.Name + "”**! 🎯\n\n"
		switch {
		case goal.Progress < 30:
			return head + "Start with the tiniest possible win—like opening the project file or writing one sentence. Momentum starts with *motion*, not motivation."
		case goal.Progress < 80:
			return head + "You’re in the messy middle—this is where growth happens! 🌱 Pick *one* 15-minute action to move the needle today."
		default:
			return head + "You’re so close! What’s the final 5% you need to cross the finish line?"
		}

	case IntentProblemSolving:
		return "Feeling stuck? That’s your brain growing. 💪\n\n" +
			"Try this:\n→ Write the problem in **7 words or fewer**.\n" +
			"→ Ask: *“What’s the smallest piece I can solve right now?”*\n\n" +
			"You’ve untangled tough things before—this is just one more."

	case IntentNoteOrganization:
		head := "Your notes are your second brain—let’s keep them tidy! ✨\n\n"
		if len(ctx.Notes) > 10 {
			return head +
				"• **Archive or delete** anything older than 30 days you haven’t revisited\n" +
				"• **Tag consistently** (e.g., #idea, #question, #action)\n" +
				"• Once a week, **connect related notes** using the “Connections” tab"
		}
		return head +
			"• Give every note a clear **title**\n" +
			"• Use **#tags** for easy filtering later\n" +
			"• Group by theme—your future self will thank you!"

	case IntentMotivation:
		return "Motivation follows action—not the other way around. So…\n\n" +
			"👉 Open the doc.\n👉 Write one sentence.\n👉 That’s a win.\n\n" +
			"Progress > perfection. You’ve got this."

	case IntentTimeManagement:
		return "Time isn’t the issue—**focus** is. ⏳\n\n" +
			"Try the **15-minute rule**:\n1. Set a timer\n2. Work on *one thing only*\n3. When it rings, stop and breathe\n\n" +
			"You’ll often keep going—but even if you don’t, you’ve won the day."

	case IntentConnectionMaking, IntentCreativity, IntentSkillImprovement,
		IntentMemory, IntentComprehension, IntentGeneralAdvice:
		return s.generalBody(message)
	}
	return s.generalBody(message)
}

func (s *System) generalBody(message string) string {
	a := s.analyzer.Analyze(message)

	topics := strings.Join(a.KeyTopics, ", ")
	if topics == "" {
		topics = "your thoughts"
	}

	var b strings.Builder
	b.WriteString("Thanks for sharing about *" + topics + "*.\n\n")
	switch {
	case a.Sentiment < -0.2:
		b.WriteString("This sounds tough—I’m proud of you for facing it. 💙\n\n")
	case a.Sentiment > 0.3:
		b.WriteString("Your energy is contagious! 🔥\n\n")
	}
	b.WriteString("Here’s what I’d suggest:\n" +
		"• If it’s **learning**: test yourself, don’t just re-read\n" +
		"• If it’s **creating**: start messy—edit later\n" +
		"• If it’s **planning**: break it into a 2-minute starter task\n\n" +
		"Want me to tailor this more? Just tell me your goal or topic.")
	return b.String()
}
