package engine

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/eoinhurrell/mindmeld/internal/errors"
	"github.com/eoinhurrell/mindmeld/internal/mentor"
	"github.com/eoinhurrell/mindmeld/internal/model"
)

// State loads the persisted mentor state with a profile derived from notes
func (e *Engine) State(ctx context.Context, notes []model.Note) (model.MentorState, error) {
	if err := e.requireStore(); err != nil {
		return model.MentorState{}, err
	}
	state, err := e.store.LoadState(ctx)
	if err != nil {
		return model.MentorState{}, err
	}
	state.Profile = e.Profile(notes)
	return state, nil
}

// SaveState persists the mentor state
func (e *Engine) SaveState(ctx context.Context, state model.MentorState) error {
	if err := e.requireStore(); err != nil {
		return err
	}
	return e.store.SaveState(ctx, state, e.clock.Now())
}

// AddNote writes a new note to the vault, stores its flashcards and
// credits the learner. Missing id, timestamps and category are filled in.
func (e *Engine) AddNote(ctx context.Context, n model.Note, notes []model.Note) (string, model.Message, error) {
	now := e.clock.Now()
	if n.ID == "" {
		id, err := uuid.NewRandomFromReader(e.rng)
		if err != nil {
			return "", model.Message{}, fmt.Errorf("generating note id: %w", err)
		}
		n.ID = id.String()
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = now
	}
	if n.UpdatedAt.IsZero() {
		n.UpdatedAt = n.CreatedAt
	}
	if n.Category == "" {
		n.Category = model.CategoryGeneral
	}

	path, err := e.vault.Save(n)
	if err != nil {
		return "", model.Message{}, err
	}

	analyzed, err := e.AnalyzeAll(ctx, []model.Note{n})
	if err != nil {
		return path, model.Message{}, err
	}
	n = analyzed[0]

	if _, err := e.RefreshNote(ctx, n, e.Style()); err != nil {
		return path, model.Message{}, err
	}
	state, err := e.State(ctx, append([]model.Note{n}, notes...))
	if err != nil {
		return path, model.Message{}, err
	}
	state, msg := e.mentor.RecordNote(state, *n.Analysis)
	if err := e.SaveState(ctx, state); err != nil {
		return path, model.Message{}, err
	}

	e.logger.Info("added note", zap.String("id", n.ID), zap.String("path", path))
	return path, msg, nil
}

// Chat answers a learner message and records the exchange
func (e *Engine) Chat(ctx context.Context, notes []model.Note, text string) (model.Message, error) {
	state, err := e.State(ctx, notes)
	if err != nil {
		return model.Message{}, err
	}

	user := model.Message{
		ID:        fmt.Sprintf("msg_%d", e.clock.Now().UnixMilli()),
		Text:      text,
		Type:      model.MessageUser,
		Timestamp: e.clock.Now(),
	}
	reply := e.mentor.ProcessUserMessage(text, mentor.ContextFromState(state, notes))

	if err := e.SaveState(ctx, e.mentor.RecordExchange(state, user, reply)); err != nil {
		return model.Message{}, err
	}
	return reply, nil
}

// NewChallenge assigns an adaptive challenge unless one is already active
func (e *Engine) NewChallenge(ctx context.Context, notes []model.Note) (model.Challenge, model.Message, error) {
	state, err := e.State(ctx, notes)
	if err != nil {
		return model.Challenge{}, model.Message{}, err
	}
	if state.CurrentChallenge != nil && state.CurrentChallenge.Status == model.ChallengeActive {
		return *state.CurrentChallenge, model.Message{}, nil
	}

	c := e.mentor.GenerateAdaptiveChallenge(state.Profile, state.CompletedChallenges, notes)
	state, msg := e.mentor.StartChallenge(state, c)
	if err := e.SaveState(ctx, state); err != nil {
		return model.Challenge{}, model.Message{}, err
	}
	return c, msg, nil
}

// CompleteChallenge completes the active challenge and saves the reward
func (e *Engine) CompleteChallenge(ctx context.Context, notes []model.Note) (model.MentorState, model.Message, error) {
	state, err := e.State(ctx, notes)
	if err != nil {
		return model.MentorState{}, model.Message{}, err
	}

	next, msg, ok := e.mentor.CompleteChallenge(state)
	if !ok {
		return state, model.Message{}, errors.NewNoChallengeError()
	}
	if err := e.SaveState(ctx, next); err != nil {
		return model.MentorState{}, model.Message{}, err
	}
	return next, msg, nil
}

// Report builds the weekly report from the notes and saved state
func (e *Engine) Report(ctx context.Context, notes []model.Note) (mentor.Report, error) {
	state, err := e.State(ctx, notes)
	if err != nil {
		return mentor.Report{}, err
	}
	return e.mentor.WeeklyReport(notes, state.Goals, state.CompletedChallenges, state.Profile), nil
}

// LearningPath plans the next steps from the saved goals and progress
func (e *Engine) LearningPath(ctx context.Context, notes []model.Note) (mentor.LearningPath, error) {
	state, err := e.State(ctx, notes)
	if err != nil {
		return mentor.LearningPath{}, err
	}
	return e.mentor.GenerateLearningPath(state.Profile, state.Goals, state.Progress.Overall), nil
}

// AddGoal records a new active goal
func (e *Engine) AddGoal(ctx context.Context, notes []model.Note, name string) (model.Goal, error) {
	if name == "" {
		return model.Goal{}, errors.NewMissingFieldError("name", "")
	}
	state, err := e.State(ctx, notes)
	if err != nil {
		return model.Goal{}, err
	}

	goal := model.Goal{
		ID:     fmt.Sprintf("goal_%d_%d", e.clock.Now().UnixMilli(), len(state.Goals)),
		Name:   name,
		Status: model.GoalActive,
	}
	state.Goals = append(append([]model.Goal{}, state.Goals...), goal)
	if err := e.SaveState(ctx, state); err != nil {
		return model.Goal{}, err
	}
	return goal, nil
}

// CompleteGoal marks the goal with id completed
func (e *Engine) CompleteGoal(ctx context.Context, notes []model.Note, id string) (model.Goal, error) {
	state, err := e.State(ctx, notes)
	if err != nil {
		return model.Goal{}, err
	}

	goals := append([]model.Goal{}, state.Goals...)
	for i, g := range goals {
		if g.ID != id {
			continue
		}
		now := e.clock.Now()
		g.Status = model.GoalCompleted
		g.Progress = 100
		g.CompletedAt = &now
		goals[i] = g
		state.Goals = goals
		if err := e.SaveState(ctx, state); err != nil {
			return model.Goal{}, err
		}
		return g, nil
	}
	return model.Goal{}, errors.NewInvalidValueError("goal", fmt.Sprintf("no goal with id %q", id), "")
}

// Guidance bundles the mentor's advice for the current vault
type Guidance struct {
	Insights        []string                `json:"insights" yaml:"insights"`
	Suggestions     []string                `json:"suggestions" yaml:"suggestions"`
	Recommendations []mentor.Recommendation `json:"recommendations" yaml:"recommendations"`
}

// Guidance derives insights, suggestions and recommendations from notes and
// the saved goals
func (e *Engine) Guidance(ctx context.Context, notes []model.Note) (Guidance, error) {
	state, err := e.State(ctx, notes)
	if err != nil {
		return Guidance{}, err
	}
	return Guidance{
		Insights:        e.mentor.PersonalizedInsights(notes, state.Profile),
		Suggestions:     e.mentor.ActionableSuggestions(notes, state.Profile),
		Recommendations: e.mentor.LearningRecommendations(state.Profile, notes, state.Goals),
	}, nil
}
