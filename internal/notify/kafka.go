// Package notify delivers notifications produced by the return and turn-in
// flows.
package notify

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"

	"coursework_service/internal/domain"
	"coursework_service/internal/errdefs"
)

const DefaultTopic = "coursework-notifications"

type Event struct {
	ID             string   `json:"id"`
	Recipient      string   `json:"recipient"`
	Cc             []string `json:"cc,omitempty"`
	Subject        string   `json:"subject"`
	Body           string   `json:"body"`
	AttachmentName string   `json:"attachment_name,omitempty"`
	Attachment     []byte   `json:"attachment,omitempty"`
}

type publisher interface {
	Send(ctx context.Context, topic, key string, message interface{}) error
}

// KafkaSink publishes notifications for a mail relay to pick up.
type KafkaSink struct {
	producer publisher
	topic    string
}

func NewKafkaSink(producer publisher, topic string) *KafkaSink {
	if topic == "" {
		topic = DefaultTopic
	}
	return &KafkaSink{producer: producer, topic: topic}
}

func (s *KafkaSink) Send(ctx context.Context, n domain.Notification) error {
	id, err := uuid.NewV7()
	if err != nil {
		return fmt.Errorf("%w: %v", errdefs.ErrTransportFailure, err)
	}

	event := Event{
		ID:        id.String(),
		Recipient: n.Recipient,
		Cc:        n.Cc,
		Subject:   n.Subject,
		Body:      n.Body,
	}
	if n.Attachment != nil {
		event.AttachmentName = n.Attachment.Filename
		event.Attachment = n.Attachment.Content
	}

	if err := s.producer.Send(ctx, s.topic, n.Recipient, event); err != nil {
		return classifyKafkaError(err)
	}
	return nil
}

func classifyKafkaError(err error) error {
	if isKafkaAuthError(err) {
		return fmt.Errorf("%w: %v", errdefs.ErrAuthFailure, err)
	}
	return fmt.Errorf("%w: %v", errdefs.ErrTransportFailure, err)
}

func isKafkaAuthError(err error) bool {
	var werrs kafka.WriteErrors
	if errors.As(err, &werrs) {
		for _, e := range werrs {
			if e != nil && isKafkaAuthError(e) {
				return true
			}
		}
		return false
	}

	var kerr kafka.Error
	if errors.As(err, &kerr) {
		switch kerr {
		case kafka.SASLAuthenticationFailed,
			kafka.TopicAuthorizationFailed,
			kafka.ClusterAuthorizationFailed,
			kafka.IllegalSASLState,
			kafka.UnsupportedSASLMechanism:
			return true
		}
	}
	return false
}
