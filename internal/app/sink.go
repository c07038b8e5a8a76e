package app

import (
	"fmt"

	configs "coursework_service/config"
	"coursework_service/internal/notify"
	"coursework_service/internal/service"
	"coursework_service/pkg/kafka"
	"coursework_service/pkg/logger"
)

// NewNotificationSink builds the configured mail backend wrapped in
// transport retries. The returned close func is never nil.
func NewNotificationSink(cfg *configs.Config, log *logger.Logger) (service.NotificationSink, func() error, error) {
	noop := func() error { return nil }

	var (
		sink    service.NotificationSink
		closeFn = noop
	)
	switch cfg.Mail.Backend {
	case configs.MailBackendConsole:
		sink = notify.NewConsoleSink(log)
	case configs.MailBackendKafka:
		producer, err := kafka.NewProducer(kafka.Config{
			Brokers:      cfg.Kafka.Brokers,
			WriteTimeout: cfg.Kafka.WriteTimeout,
		})
		if err != nil {
			return nil, noop, fmt.Errorf("failed to create Kafka producer: %w", err)
		}
		sink = notify.NewKafkaSink(producer, cfg.Kafka.Topic)
		closeFn = producer.Close
	case configs.MailBackendSendGrid:
		sink = notify.NewSendGridSink(
			cfg.Mail.SendGridKey,
			cfg.Mail.SendGridHost,
			cfg.Mail.FromName,
			cfg.Mail.FromAddress,
		)
	default:
		return nil, noop, fmt.Errorf("unknown mail backend %q", cfg.Mail.Backend)
	}

	if cfg.Mail.RetryAttempts > 1 {
		sink = notify.NewRetryingSink(sink, cfg.Mail.RetryAttempts, cfg.Mail.RetryDelay)
	}
	return sink, closeFn, nil
}
