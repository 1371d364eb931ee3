package helpers

import (
	"context"
	"log/slog"

	"github.com/GregMSThompson/goalaura-backend/pkg/logger"
)

// TestCtx returns a context carrying a discarding debug-level logger.
func TestCtx() context.Context {
	log := slog.New(logger.NewTestHandler(slog.LevelDebug))
	return logger.ToContext(context.Background(), log)
}
