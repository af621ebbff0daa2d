package mentor

import (
	"time"

	"github.com/eoinhurrell/mindmeld/internal/analyzer"
	"github.com/eoinhurrell/mindmeld/internal/clock"
	"github.com/eoinhurrell/mindmeld/internal/model"
	"github.com/eoinhurrell/mindmeld/internal/observe"
	"github.com/eoinhurrell/mindmeld/internal/rng"
)

// Friday morning
var testNow = time.Date(2024, 5, 10, 8, 30, 0, 0, time.UTC)

type fixedAnalyzer struct {
	a model.ContentAnalysis
}

func (f fixedAnalyzer) Analyze(string) model.ContentAnalysis {
	return analyzer.Clone(f.a)
}

type panicAnalyzer struct{}

func (panicAnalyzer) Analyze(string) model.ContentAnalysis {
	panic("analyzer exploded")
}

func newTestSystem(seed uint64, opts ...Option) *System {
	base := []Option{
		WithClock(clock.Fixed(testNow)),
		WithRand(rng.NewSeeded(seed)),
	}
	return New(append(base, opts...)...)
}

func newRecordingSystem(a analyzer.ContentAnalyzer) (*System, *observe.Recorder) {
	rec := &observe.Recorder{}
	return newTestSystem(1, WithAnalyzer(a), WithObserver(rec)), rec
}

func analyzed(id, content string, a model.ContentAnalysis) model.Note {
	return model.Note{ID: id, Content: content, CreatedAt: testNow}.WithAnalysis(a)
}
