package notify

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"coursework_service/internal/domain"
	"coursework_service/internal/errdefs"
)

type mockPublisher struct {
	mock.Mock
}

func (m *mockPublisher) Send(ctx context.Context, topic, key string, message interface{}) error {
	args := m.Called(ctx, topic, key, message)
	return args.Error(0)
}

func TestKafkaSink_Send(t *testing.T) {
	ctx := context.Background()
	n := domain.Notification{
		Recipient:  "s1@uni.edu",
		Cc:         []string{"ta@uni.edu"},
		Subject:    "graded",
		Body:       "body",
		Attachment: &domain.Attachment{Filename: "s1-hw01.ipynb", Content: []byte("{}")},
	}

	t.Run("publishes event", func(t *testing.T) {
		pub := new(mockPublisher)
		sink := NewKafkaSink(pub, "")

		pub.On("Send", ctx, DefaultTopic, "s1@uni.edu", mock.MatchedBy(func(e Event) bool {
			_, err := uuid.Parse(e.ID)
			return err == nil &&
				e.Recipient == "s1@uni.edu" &&
				e.AttachmentName == "s1-hw01.ipynb" &&
				string(e.Attachment) == "{}" &&
				len(e.Cc) == 1
		})).Return(nil)

		require.NoError(t, sink.Send(ctx, n))
		pub.AssertExpectations(t)
	})

	tests := []struct {
		name string
		err  error
		want error
	}{
		{"broker down", errors.New("dial tcp: connection refused"), errdefs.ErrTransportFailure},
		{"sasl", fmt.Errorf("failed to write message: %w", kafka.SASLAuthenticationFailed), errdefs.ErrAuthFailure},
		{"topic acl in batch", fmt.Errorf("failed to write message: %w",
			kafka.WriteErrors{nil, kafka.TopicAuthorizationFailed}), errdefs.ErrAuthFailure},
		{"leader moved", kafka.NotLeaderForPartition, errdefs.ErrTransportFailure},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pub := new(mockPublisher)
			pub.On("Send", ctx, "custom", mock.Anything, mock.Anything).Return(tt.err)

			err := NewKafkaSink(pub, "custom").Send(ctx, n)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}
