package logger

import (
	"go.uber.org/zap"
)

// Log is the process-wide logger. It is a no-op logger until Initialize is called.
var Log *zap.Logger = zap.NewNop()

// Initialize builds a production logger at the given level and installs it as Log.
func Initialize(level string) error {
	lvl, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return err
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = lvl

	zl, err := cfg.Build()
	if err != nil {
		return err
	}

	Log = zl
	return nil
}
