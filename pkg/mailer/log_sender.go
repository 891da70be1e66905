package mailer

import (
	"context"

	"github.com/wrapntrack/wrapntrack-backend/pkg/logger"
)

// LogSender logs messages instead of delivering them. Used when no mail
// provider is configured, typically in dev and tests.
type LogSender struct {
	logg *logger.Logger
}

// NewLogSender builds the log-only sender.
func NewLogSender(logg *logger.Logger) *LogSender {
	return &LogSender{logg: logg}
}

// Send writes the message to the log.
func (s *LogSender) Send(ctx context.Context, msg Message) error {
	if s == nil || s.logg == nil {
		return nil
	}
	ctx = s.logg.WithFields(ctx, map[string]any{
		"to":      msg.To,
		"subject": msg.Subject,
	})
	s.logg.Info(ctx, "mail delivery skipped, no provider configured")
	return nil
}
