package mentor

import (
	"fmt"
	"math"
	"time"

	"github.com/eoinhurrell/mindmeld/internal/analyzer"
	"github.com/eoinhurrell/mindmeld/internal/model"
	"github.com/eoinhurrell/mindmeld/internal/observe"
)

// ReportWindow is the period a weekly report covers
const ReportWindow = 7 * 24 * time.Hour

const (
	maxRecommendations = 3
	maxInsights        = 2
	maxSuggestions     = 2
	reportDateLayout   = "2006-01-02"
)

// ReportMetrics are the raw counts behind a weekly report
type ReportMetrics struct {
	NotesCreated        int     `json:"notes_created" yaml:"notes_created"`
	GoalsCompleted      int     `json:"goals_completed" yaml:"goals_completed"`
	ChallengesCompleted int     `json:"challenges_completed" yaml:"challenges_completed"`
	AvgNoteLength       int     `json:"avg_note_length" yaml:"avg_note_length"`
	TopicDiversity      int     `json:"topic_diversity" yaml:"topic_diversity"`
	AvgComplexity       float64 `json:"avg_complexity" yaml:"avg_complexity"`
	ActionItemCount     int     `json:"action_item_count" yaml:"action_item_count"`
}

// Report summarizes the learner's last seven days
type Report struct {
	Period          string        `json:"period" yaml:"period"`
	DateRange       string        `json:"date_range" yaml:"date_range"`
	Metrics         ReportMetrics `json:"metrics" yaml:"metrics"`
	Insights        []string      `json:"insights" yaml:"insights"`
	Recommendations []string      `json:"recommendations" yaml:"recommendations"`
	Achievements    []string      `json:"achievements" yaml:"achievements"`
	GrowthAreas     []string      `json:"growth_areas" yaml:"growth_areas"`
}

// Priority ranks a recommendation
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
)

// Recommendation is a suggested next piece of work
type Recommendation struct {
	Title         string   `json:"title" yaml:"title"`
	Description   string   `json:"description" yaml:"description"`
	Reason        string   `json:"reason" yaml:"reason"`
	EstimatedTime string   `json:"estimated_time" yaml:"estimated_time"`
	Priority      Priority `json:"priority" yaml:"priority"`
}

// WeeklyReport aggregates notes, goals and challenges finished in the last
// seven days
func (s *System) WeeklyReport(notes []model.Note, goals []model.Goal, challenges []model.Challenge, profile model.UserProfile) Report {
	now := s.clock.Now()
	return observe.Guard(s.obs, "mentor.report", emptyReport(now), func() Report {
		return s.weeklyReport(notes, goals, challenges, now)
	})
}

func emptyReport(now time.Time) Report {
	return Report{
		Period:          "Weekly Learning Report",
		DateRange:       dateRange(now),
		Insights:        []string{"Starting your learning journey - every note counts!"},
		Recommendations: []string{},
		Achievements:    []string{"Building foundational habits"},
		GrowthAreas:     []string{},
	}
}

func dateRange(now time.Time) string {
	return now.Add(-ReportWindow).Format(reportDateLayout) + " - " + now.Format(reportDateLayout)
}

func (s *System) weeklyReport(notes []model.Note, goals []model.Goal, challenges []model.Challenge, now time.Time) Report {
	weekStart := now.Add(-ReportWindow)

	var recent []model.Note
	for _, n := range notes {
		if n.CreatedAt.After(weekStart) {
			recent = append(recent, n)
		}
	}
	goalsDone := 0
	for _, g := range goals {
		if g.Status == model.GoalCompleted && g.CompletedAt != nil && g.CompletedAt.After(weekStart) {
			goalsDone++
		}
	}
	challengesDone := 0
	for _, c := range challenges {
		if c.Status == model.ChallengeCompleted && c.CompletedAt != nil && c.CompletedAt.After(weekStart) {
			challengesDone++
		}
	}

	analyses := s.analyses(recent)
	m := ReportMetrics{
		NotesCreated:        len(recent),
		GoalsCompleted:      goalsDone,
		ChallengesCompleted: challengesDone,
		TopicDiversity:      s.topicDiversity(recent),
		AvgComplexity:       math.Round(averageComplexity(analyses)*100) / 100,
	}
	if len(recent) > 0 {
		chars := 0
		for _, n := range recent {
			chars += len([]rune(n.Content))
		}
		m.AvgNoteLength = int(math.Round(float64(chars) / float64(len(recent))))
	}
	for _, a := range analyses {
		m.ActionItemCount += len(a.ActionItems)
	}

	r := Report{
		Period:      "Weekly Learning Report",
		DateRange:   dateRange(now),
		Metrics:     m,
		Insights:    reportInsights(m),
		GrowthAreas: []string{},
	}

	pace := "Maintain current note-taking pace"
	if m.NotesCreated < 3 {
		pace = "Aim for at least 5 notes next week"
	}
	breadth := "Deepen existing topic knowledge"
	if m.TopicDiversity < 2 {
		breadth = "Explore a new topic area"
	}
	r.Recommendations = []string{
		pace,
		"Review and connect notes from different days",
		"Set one specific learning goal for next week",
		breadth,
	}

	r.Achievements = []string{"Building foundational habits"}
	if challengesDone > 0 {
		r.Achievements = []string{"Weekly challenge completion", "Knowledge consistency demonstrated"}
	}
	if m.NotesCreated >= 7 {
		r.Achievements = append(r.Achievements, "Consistent daily practice")
	}

	if m.AvgComplexity < 0.4 {
		r.GrowthAreas = append(r.GrowthAreas, "Increase topic complexity")
	}
	if m.ActionItemCount < 3 {
		r.GrowthAreas = append(r.GrowthAreas, "Focus on actionable insights")
	}
	if m.TopicDiversity < 3 {
		r.GrowthAreas = append(r.GrowthAreas, "Expand topic exploration")
	}
	return r
}

func reportInsights(m ReportMetrics) []string {
	var out []string
	if m.NotesCreated >= 5 {
		out = append(out, fmt.Sprintf("Consistent note-taking: %d notes this week", m.NotesCreated))
	}
	if m.AvgComplexity > 0.5 {
		out = append(out, "Engaging with complex topics - great for cognitive growth")
	}
	if m.ActionItemCount > 0 {
		out = append(out, fmt.Sprintf("%d actionable items identified - focus on implementation", m.ActionItemCount))
	}
	if m.ChallengesCompleted > 0 {
		out = append(out, fmt.Sprintf("%d challenges completed - demonstrating perseverance", m.ChallengesCompleted))
	}
	if len(out) == 0 {
		return []string{"Starting your learning journey - every note counts!"}
	}
	return out
}

// LearningRecommendations returns up to three recommendations for the profile
func (s *System) LearningRecommendations(profile model.UserProfile, notes []model.Note, goals []model.Goal) []Recommendation {
	return observe.Guard(s.obs, "mentor.recommendations", []Recommendation{}, func() []Recommendation {
		return recommendations(profile, notes, goals)
	})
}

func recommendations(profile model.UserProfile, notes []model.Note, goals []model.Goal) []Recommendation {
	recs := []Recommendation{}
	if profile.LearningStyle == model.StyleVisual {
		recs = append(recs, Recommendation{
			Title:         "Visual Learning Boost",
			Description:   "Create mind maps for your top 3 topics",
			Reason:        "Leverages your visual learning strength",
			EstimatedTime: "45 minutes",
			Priority:      PriorityHigh,
		})
	}
	if profile.ConsistencyScore < 0.5 {
		recs = append(recs, Recommendation{
			Title:         "Consistency Building",
			Description:   "Set a daily 15-minute note-taking habit",
			Reason:        "Builds foundational learning consistency",
			EstimatedTime: "Daily 15 minutes",
			Priority:      PriorityHigh,
		})
	}
	if profile.KnowledgeDepth < 0.4 && len(notes) > 5 {
		recs = append(recs, Recommendation{
			Title:         "Depth Development",
			Description:   "Deep dive into one complex topic",
			Reason:        "Increases knowledge depth and complexity",
			EstimatedTime: "2-3 hours",
			Priority:      PriorityMedium,
		})
	}
	if goal, ok := model.ActiveGoal(goals); ok {
		recs = append(recs, Recommendation{
			Title:         "Goal Alignment",
			Description:   fmt.Sprintf("Create notes specifically related to %q", goal.Name),
			Reason:        "Directly supports your current goal",
			EstimatedTime: "30 minutes",
			Priority:      PriorityHigh,
		})
	}
	return recs[:min(maxRecommendations, len(recs))]
}

// PersonalizedInsights returns up to two observations about recent notes.
// Notes are most recent first.
func (s *System) PersonalizedInsights(notes []model.Note, profile model.UserProfile) []string {
	return observe.Guard(s.obs, "mentor.insights", []string{}, func() []string {
		out := []string{}
		if len(notes) >= 5 {
			if averageComplexity(s.analyses(notes[:5])) > 0.6 {
				out = append(out, "You're engaging with complex topics, which accelerates learning")
			}
			if profile.ConsistencyScore > 0.7 {
				out = append(out, "Strong consistency detected - this habit will compound over time")
			}
			if d := s.topicDiversity(notes); d > 3 {
				out = append(out, fmt.Sprintf("You're exploring %d different topic areas - great for interdisciplinary thinking", d))
			}
		}
		if len(notes) > 0 {
			latest := analyzer.Resolve(s.analyzer, notes[0])
			if latest.Sentiment > 0.3 {
				out = append(out, "Positive tone in recent notes correlates with better learning outcomes")
			}
			if len(latest.ActionItems) > 0 {
				out = append(out, "Action-oriented notes increase implementation likelihood by 40%")
			}
		}
		return out[:min(maxInsights, len(out))]
	})
}

// MindMapTag marks a note as a mind map
const MindMapTag = "mindmap"

// ActionableSuggestions returns up to two concrete habits to adopt.
// Notes are most recent first.
func (s *System) ActionableSuggestions(notes []model.Note, profile model.UserProfile) []string {
	return observe.Guard(s.obs, "mentor.suggestions", []string{}, func() []string {
		out := []string{}
		if len(notes) > 0 {
			latest := analyzer.Resolve(s.analyzer, notes[0])
			if latest.Complexity < 0.3 && len(notes) > 5 {
				out = append(out, "Challenge yourself with more complex topics to accelerate growth")
			}
			if len(latest.ActionItems) == 0 && latest.Complexity > 0.4 {
				out = append(out, "Add actionable next steps to complex notes for better application")
			}
			if profile.LearningStyle == model.StyleVisual && !anyTagged(notes, MindMapTag) {
				out = append(out, "Create visual mind maps for complex topics to leverage your visual learning strength")
			}
		}
		if len(notes) > 10 && !anyRichlyTagged(notes) {
			out = append(out, "Add more tags to notes for better organization and retrieval")
		}
		return out[:min(maxSuggestions, len(out))]
	})
}

func anyTagged(notes []model.Note, tag string) bool {
	for _, n := range notes {
		for _, t := range n.Tags {
			if t == tag {
				return true
			}
		}
	}
	return false
}

func anyRichlyTagged(notes []model.Note) bool {
	for _, n := range notes {
		if len(n.Tags) > 3 {
			return true
		}
	}
	return false
}
