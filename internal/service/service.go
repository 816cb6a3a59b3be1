package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/nikolayk812/flashcheckout/internal/domain"
	"github.com/nikolayk812/flashcheckout/internal/port"
)

// DefaultContentionRetries bounds the reruns of a unit of work that lost a lock race.
const DefaultContentionRetries = 3

type clock func() time.Time

func utcNow() time.Time {
	return time.Now().UTC()
}

// publish is best-effort: it runs after commit and failures are only logged.
func publish(ctx context.Context, sink port.EventSink, method string, events ...domain.Event) {
	for _, event := range events {
		if err := sink.Publish(ctx, event); err != nil {
			slog.Error("publish event",
				"method", method,
				"event_type", event.Type,
				"order_id", event.OrderID,
				"error", err,
			)
		}
	}
}

// retryOnContention reruns fn with exponential backoff while it fails with a ContentionError.
// Any other error stops the loop and is returned as is.
func retryOnContention(ctx context.Context, retries uint64, fn func() error) error {
	operation := func() error {
		err := fn()
		if err == nil {
			return nil
		}

		var contention *domain.ContentionError
		if errors.As(err, &contention) {
			return err
		}
		return backoff.Permanent(err)
	}

	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = 10 * time.Millisecond
	policy.MaxInterval = 200 * time.Millisecond

	return backoff.Retry(operation, backoff.WithContext(backoff.WithMaxRetries(policy, retries), ctx))
}
