package notify

import (
	"context"
	"errors"
	"time"

	"coursework_service/internal/domain"
	"coursework_service/internal/errdefs"
	"coursework_service/pkg/retry"
)

type sender interface {
	Send(ctx context.Context, n domain.Notification) error
}

// RetryingSink retries transport failures of next. Auth failures are
// returned at once.
type RetryingSink struct {
	next      sender
	attempts  int
	baseDelay time.Duration
}

func NewRetryingSink(next sender, attempts int, baseDelay time.Duration) *RetryingSink {
	if attempts <= 0 {
		attempts = 1
	}
	return &RetryingSink{next: next, attempts: attempts, baseDelay: baseDelay}
}

func (s *RetryingSink) Send(ctx context.Context, n domain.Notification) error {
	return retry.Do(ctx, s.attempts, s.baseDelay, isTransient, func() error {
		return s.next.Send(ctx, n)
	})
}

func isTransient(err error) bool {
	return errors.Is(err, errdefs.ErrTransportFailure)
}
