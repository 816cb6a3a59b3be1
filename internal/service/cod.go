package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/nikolayk812/flashcheckout/internal/domain"
	"github.com/nikolayk812/flashcheckout/internal/port"
)

type CodInput struct {
	OrderID uuid.UUID
	Actor   string
	Notes   string
}

// Cod runs the cash-on-delivery verification of an order.
// The order row is locked before the verification row.
type Cod struct {
	tx      port.TxRunner
	events  port.EventSink
	retries uint64
	now     clock
}

func NewCod(tx port.TxRunner, events port.EventSink, retries uint64) (*Cod, error) {
	if tx == nil {
		return nil, errors.New("tx runner is nil")
	}
	if events == nil {
		return nil, errors.New("events is nil")
	}

	return &Cod{
		tx:      tx,
		events:  events,
		retries: retries,
		now:     utcNow,
	}, nil
}

func (c *Cod) Get(ctx context.Context, orderID uuid.UUID) (domain.CodVerification, error) {
	var cod domain.CodVerification

	err := c.tx.WithinTx(ctx, func(ctx context.Context, store port.Store) error {
		found, err := store.Orders.GetCodVerification(ctx, orderID)
		if err != nil {
			return fmt.Errorf("orders.GetCodVerification: %w", err)
		}

		cod = found
		return nil
	})

	return cod, err
}

func (c *Cod) MarkVerified(ctx context.Context, input CodInput) (domain.CodVerification, error) {
	return c.update(ctx, input, func(ctx context.Context, store port.Store, order *domain.Order, cod *domain.CodVerification) ([]domain.Event, error) {
		if err := cod.MarkVerified(input.Actor, input.Notes, c.now()); err != nil {
			return nil, err
		}

		if err := store.Orders.SetCodVerified(ctx, order.ID, true); err != nil {
			return nil, fmt.Errorf("orders.SetCodVerified: %w", err)
		}

		return []domain.Event{domain.NewCodEvent(domain.EventCodVerified, *cod, input.Actor)}, nil
	})
}

// MarkRejected closes the verification; the order itself is left for an explicit cancel.
func (c *Cod) MarkRejected(ctx context.Context, input CodInput) (domain.CodVerification, error) {
	return c.update(ctx, input, func(_ context.Context, _ port.Store, _ *domain.Order, cod *domain.CodVerification) ([]domain.Event, error) {
		if err := cod.MarkRejected(input.Actor, input.Notes, c.now()); err != nil {
			return nil, err
		}

		return []domain.Event{domain.NewCodEvent(domain.EventCodRejected, *cod, input.Actor)}, nil
	})
}

// MarkDeliveredAndPaid settles the verification and walks the order forward to delivered,
// one validated hop at a time.
func (c *Cod) MarkDeliveredAndPaid(ctx context.Context, input CodInput) (domain.CodVerification, error) {
	return c.update(ctx, input, func(ctx context.Context, store port.Store, order *domain.Order, cod *domain.CodVerification) ([]domain.Event, error) {
		now := c.now()

		if err := cod.MarkDeliveredAndPaid(now); err != nil {
			return nil, err
		}

		events := []domain.Event{domain.NewCodEvent(domain.EventCodDeliveredAndPaid, *cod, input.Actor)}

		if order.Status == domain.OrderStatusDelivered {
			return events, nil
		}

		path, err := domain.ForwardPath(order.Status, domain.OrderStatusDelivered)
		if err != nil {
			return nil, fmt.Errorf("domain.ForwardPath: %w", err)
		}

		for _, next := range path {
			change, err := transition(ctx, store, order, next, input.Actor, "cash on delivery settled", now)
			if err != nil {
				return nil, fmt.Errorf("transition[%s]: %w", next, err)
			}
			events = append(events, domain.NewOrderStatusChangedEvent(change))
		}

		return events, nil
	})
}

type codStep func(ctx context.Context, store port.Store, order *domain.Order, cod *domain.CodVerification) ([]domain.Event, error)

func (c *Cod) update(ctx context.Context, input CodInput, step codStep) (domain.CodVerification, error) {
	var (
		cod    domain.CodVerification
		events []domain.Event
	)

	if input.Actor == "" {
		return cod, domain.ErrEmptyActor
	}

	err := retryOnContention(ctx, c.retries, func() error {
		return c.tx.WithinTx(ctx, func(ctx context.Context, store port.Store) error {
			order, err := store.Orders.GetOrderForUpdate(ctx, input.OrderID)
			if err != nil {
				return fmt.Errorf("orders.GetOrderForUpdate: %w", err)
			}

			locked, err := store.Orders.GetCodVerificationForUpdate(ctx, input.OrderID)
			if err != nil {
				return fmt.Errorf("orders.GetCodVerificationForUpdate: %w", err)
			}

			events, err = step(ctx, store, &order, &locked)
			if err != nil {
				return err
			}

			if err := store.Orders.UpdateCodVerification(ctx, locked); err != nil {
				return fmt.Errorf("orders.UpdateCodVerification: %w", err)
			}

			cod = locked
			return nil
		})
	})
	if err != nil {
		return domain.CodVerification{}, err
	}

	publish(ctx, c.events, "Cod.update", events...)

	return cod, nil
}
