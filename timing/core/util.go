package core

import (
	"context"
	"fmt"
	"log/slog"
)

// LevelTrace is below Debug and carries one record per retired instruction.
const LevelTrace slog.Level = slog.LevelDebug - 4

// Trace logs msg at LevelTrace on logger, or on the default logger if
// logger is nil.
func Trace(logger *slog.Logger, msg string, args ...any) {
	if logger == nil {
		logger = slog.Default()
	}
	logger.Log(context.Background(), LevelTrace, msg, args...)
}

func hex(v uint32) string {
	return fmt.Sprintf("0x%08x", v)
}
