package events

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/nikolayk812/flashcheckout/internal/domain"
	"github.com/nikolayk812/flashcheckout/internal/port"
)

// LogSink writes every event to the default logger.
type LogSink struct{}

func (LogSink) Publish(_ context.Context, event domain.Event) error {
	slog.Info("order event",
		"method", "LogSink.Publish",
		"event_type", event.Type,
		"order_id", event.OrderID,
		"occurred_at", event.OccurredAt,
	)
	return nil
}

// Fanout publishes to every sink, even after one fails.
type Fanout []port.EventSink

func (f Fanout) Publish(ctx context.Context, event domain.Event) error {
	var errs []error

	for i, sink := range f {
		if err := sink.Publish(ctx, event); err != nil {
			errs = append(errs, fmt.Errorf("sink[%d]: %w", i, err))
		}
	}

	return errors.Join(errs...)
}
