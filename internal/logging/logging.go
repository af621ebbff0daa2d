// Package logging builds the zap logger used by the CLI.
package logging

import (
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New builds a logger. Format "json" selects the production encoder,
// anything else the human-readable development console.
func New(level, format string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("parsing log level: %w", err)
	}

	var cfg zap.Config
	switch strings.ToLower(format) {
	case "json", "prod", "production":
		cfg = zap.NewProductionConfig()
	default:
		cfg = zap.NewDevelopmentConfig()
		cfg.DisableStacktrace = true
	}
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}

	return cfg.Build()
}

// Level picks the effective level from the configured one and the
// --verbose and --quiet flags
func Level(configured string, verbose, quiet bool) string {
	switch {
	case quiet:
		return "error"
	case verbose:
		return "debug"
	case configured == "":
		return "info"
	default:
		return configured
	}
}

// NewWriter builds a JSON logger writing to w, for commands that capture
// their own output
func NewWriter(w io.Writer, level zapcore.Level) *zap.Logger {
	enc := zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())
	return zap.New(zapcore.NewCore(enc, zapcore.AddSync(w), level))
}
