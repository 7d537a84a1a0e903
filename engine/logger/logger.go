package logger

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New builds a zap logger at the given level.
// Development mode uses the human-readable console encoder with caller information,
// otherwise the production JSON encoder is used.
//
// Parameters:
//   - level: the minimum level to emit ("debug", "info", "warn", "error")
//   - development: true to use the development console configuration
//
// Returns:
//   - *zap.Logger: the configured logger
//   - error: error if the level string is invalid or the logger cannot be built
func New(level string, development bool) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}

	cfg := zap.NewProductionConfig()
	if development {
		cfg = zap.NewDevelopmentConfig()
	}
	cfg.Level = zap.NewAtomicLevelAt(lvl)

	l, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}
	return l, nil
}

// OrNop returns l, or a no-op logger when l is nil.
//
// Parameters:
//   - l: a possibly nil logger
//
// Returns:
//   - *zap.Logger: a usable logger
func OrNop(l *zap.Logger) *zap.Logger {
	if l == nil {
		return zap.NewNop()
	}
	return l
}
