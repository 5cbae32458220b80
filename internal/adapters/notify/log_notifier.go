package notify

import (
	"context"

	"go.uber.org/zap"

	"github.com/mikey/llm-reply-agent/internal/core"
)

// LogNotifier writes events to the process log. Used in development and as
// the fallback when no external channel is configured.
type LogNotifier struct {
	logger *zap.Logger
}

// NewLogNotifier creates a new log notifier
func NewLogNotifier(logger *zap.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

// Notify logs one event.
func (n *LogNotifier) Notify(_ context.Context, kind core.EventKind, payload map[string]any) error {
	n.logger.Info("Notification",
		zap.String("kind", string(kind)),
		zap.Any("payload", payload))
	return nil
}
