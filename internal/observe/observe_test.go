package observe

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestGuardReturnsValue(t *testing.T) {
	rec := &Recorder{}
	got := Guard(rec, "op", -1, func() int { return 7 })

	assert.Equal(t, 7, got)
	assert.Empty(t, rec.Events())
}

func TestGuardRecoversPanic(t *testing.T) {
	rec := &Recorder{}
	got := Guard(rec, "analyze", []string{}, func() []string {
		panic("boom")
	})

	assert.Equal(t, []string{}, got)
	assert.Equal(t, []string{"analyze"}, rec.Operations())
	assert.Contains(t, rec.Events()[0].Err.Error(), "boom")
}

func TestGuardErr(t *testing.T) {
	rec := &Recorder{}
	got := GuardErr(rec, "load", "default", func() (string, error) {
		return "", errors.New("missing")
	})

	assert.Equal(t, "default", got)
	assert.Equal(t, []string{"load"}, rec.Operations())
}

func TestGuardNilObserver(t *testing.T) {
	assert.NotPanics(t, func() {
		Guard(nil, "op", 0, func() int { panic(errors.New("x")) })
	})
}

func TestZapObserverLogsWarning(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	obs := NewZapObserver(zap.New(core))

	obs.Fallback("mindmap", errors.New("bad note"))

	entries := logs.All()
	assert.Len(t, entries, 1)
	assert.Equal(t, "fallback taken", entries[0].Message)
	assert.Equal(t, "mindmap", entries[0].ContextMap()["operation"])
}

func TestMetricsCountsFallbacks(t *testing.T) {
	m := NewMetrics("test")
	Multi{m, Nop{}}.Fallback("flashcards", errors.New("x"))
	m.Fallback("flashcards", nil)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Fallbacks.WithLabelValues("flashcards")))
}
