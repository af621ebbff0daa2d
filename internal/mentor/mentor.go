// Package mentor models the learner from their notes and drives the mentor
// conversation, challenges, learning paths and reports.
//
// Every exported method is total. Internal failures are reported to the
// configured observer and replaced by a well-formed fallback value.
package mentor

import (
	"github.com/eoinhurrell/mindmeld/internal/analyzer"
	"github.com/eoinhurrell/mindmeld/internal/clock"
	"github.com/eoinhurrell/mindmeld/internal/model"
	"github.com/eoinhurrell/mindmeld/internal/observe"
	"github.com/eoinhurrell/mindmeld/internal/rng"
)

// System is the mentor. It holds no conversation state; callers persist
// MentorState and pass it back in.
type System struct {
	analyzer analyzer.ContentAnalyzer
	clock    clock.Clock
	rng      rng.Source
	obs      observe.Observer
}

// Option configures a System
type Option func(*System)

// WithAnalyzer sets the analyzer used for notes without a stored analysis
func WithAnalyzer(a analyzer.ContentAnalyzer) Option {
	return func(s *System) { s.analyzer = a }
}

// WithClock sets the time source for greetings, timestamps and due dates
func WithClock(c clock.Clock) Option {
	return func(s *System) { s.clock = c }
}

// WithRand sets the randomness used for challenge picks and ids
func WithRand(r rng.Source) Option {
	return func(s *System) { s.rng = r }
}

// WithObserver reports fallbacks to obs
func WithObserver(obs observe.Observer) Option {
	return func(s *System) { s.obs = obs }
}

// New creates a mentor with system time and randomness unless overridden
func New(opts ...Option) *System {
	s := &System{}
	for _, opt := range opts {
		opt(s)
	}
	s.obs = observe.Or(s.obs)
	s.clock = clock.Or(s.clock)
	s.rng = rng.Or(s.rng)
	if s.analyzer == nil {
		s.analyzer = analyzer.NewAnalyzer(analyzer.WithObserver(s.obs))
	}
	return s
}

func (s *System) analyses(notes []model.Note) []model.ContentAnalysis {
	out := make([]model.ContentAnalysis, len(notes))
	for i, n := range notes {
		out[i] = analyzer.Resolve(s.analyzer, n)
	}
	return out
}

func (s *System) topicDiversity(notes []model.Note) int {
	topics := make(map[string]struct{})
	for _, a := range s.analyses(notes) {
		for _, t := range a.KeyTopics {
			topics[t] = struct{}{}
		}
	}
	return len(topics)
}

func averageComplexity(analyses []model.ContentAnalysis) float64 {
	if len(analyses) == 0 {
		return 0
	}
	sum := 0.0
	for _, a := range analyses {
		sum += a.Complexity
	}
	return sum / float64(len(analyses))
}
