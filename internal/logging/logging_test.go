package logging

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestNew(t *testing.T) {
	tests := []struct {
		level  string
		format string
		want   zapcore.Level
	}{
		{"debug", "console", zapcore.DebugLevel},
		{"info", "json", zapcore.InfoLevel},
		{"warn", "", zapcore.WarnLevel},
		{"error", "JSON", zapcore.ErrorLevel},
	}

	for _, tt := range tests {
		t.Run(tt.level+"/"+tt.format, func(t *testing.T) {
			logger, err := New(tt.level, tt.format)
			require.NoError(t, err)

			assert.True(t, logger.Core().Enabled(tt.want))
			assert.False(t, logger.Core().Enabled(tt.want-1))
		})
	}
}

func TestNew_BadLevel(t *testing.T) {
	_, err := New("loud", "json")

	assert.ErrorContains(t, err, "parsing log level")
}

func TestLevel(t *testing.T) {
	assert.Equal(t, "error", Level("debug", true, true))
	assert.Equal(t, "debug", Level("warn", true, false))
	assert.Equal(t, "warn", Level("warn", false, false))
	assert.Equal(t, "info", Level("", false, false))
}

func TestNewWriter(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWriter(&buf, zapcore.InfoLevel)

	logger.Debug("hidden")
	logger.Info("refreshed", zap.Int("cards", 3))

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), `"msg":"refreshed"`)
	assert.Contains(t, buf.String(), `"cards":3`)
}
