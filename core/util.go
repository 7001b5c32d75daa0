package core

import (
	"context"
	"log/slog"
)

// LevelTrace is the log level rewrite passes report individual rewrites at.
const LevelTrace slog.Level = slog.LevelInfo + 1

// Trace logs msg at LevelTrace, tagged with the pass that produced it.
func Trace(pass, msg string, args ...any) {
	ctx := context.Background()

	logger := slog.Default()
	if !logger.Enabled(ctx, LevelTrace) {
		return
	}

	logger.Log(ctx, LevelTrace, msg, append([]any{"pass", pass}, args...)...)
}
