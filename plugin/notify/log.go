package notify

import (
	"context"
	"log/slog"
)

// LogSender writes notifications to the log. It is registered when no push
// channel is configured so messages are never lost silently.
type LogSender struct {
	logger *slog.Logger
}

// NewLogSender creates a log sender.
func NewLogSender(logger *slog.Logger) *LogSender {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogSender{logger: logger}
}

// Send logs message.
func (s *LogSender) Send(_ context.Context, message string, metadata map[string]any) error {
	s.logger.Info("notification", "message", message, "metadata", metadata)
	return nil
}

// Name returns the sender name.
func (s *LogSender) Name() string {
	return "log"
}
