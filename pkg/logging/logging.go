// Package logging builds the service logger: a zap core exposed through ectologger.
package logging

import (
	"fmt"

	"github.com/Gobusters/ectologger"
	"github.com/Gobusters/ectologger/zapadapter"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewLogger returns the ectologger used by every layer and a flush func for shutdown.
// pretty switches to zap's development console encoder.
func NewLogger(appName, level string, pretty bool) (ectologger.Logger, func() error, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}

	cfg := zap.NewProductionConfig()
	if pretty {
		cfg = zap.NewDevelopmentConfig()
	}
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.InitialFields = map[string]any{"app": appName}

	zapLogger, err := cfg.Build()
	if err != nil {
		return nil, nil, fmt.Errorf("build zap logger: %w", err)
	}

	return zapadapter.NewZapEctoLogger(zapLogger, nil), zapLogger.Sync, nil
}
