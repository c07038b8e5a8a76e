package notify

import (
	"context"

	"go.uber.org/zap"

	"coursework_service/internal/domain"
	"coursework_service/pkg/logger"
)

// ConsoleSink logs notifications instead of sending them.
type ConsoleSink struct {
	log *logger.Logger
}

func NewConsoleSink(log *logger.Logger) *ConsoleSink {
	return &ConsoleSink{log: log}
}

func (s *ConsoleSink) Send(ctx context.Context, n domain.Notification) error {
	fields := []zap.Field{
		zap.String("recipient", n.Recipient),
		zap.Strings("cc", n.Cc),
		zap.String("subject", n.Subject),
		zap.String("body", n.Body),
	}
	if n.Attachment != nil {
		fields = append(fields,
			zap.String("attachment", n.Attachment.Filename),
			zap.Int("attachment_bytes", len(n.Attachment.Content)),
		)
	}
	logger.FromContext(ctx, s.log).Info("notification", fields...)
	return nil
}
