package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/nikolayk812/flashcheckout/internal/domain"
	"github.com/nikolayk812/flashcheckout/internal/port"
)

type TransitionInput struct {
	OrderID uuid.UUID
	To      domain.OrderStatus
	Actor   string
	Note    string
}

// Lifecycle drives orders through the status graph.
type Lifecycle struct {
	tx      port.TxRunner
	events  port.EventSink
	retries uint64
	now     clock
}

func NewLifecycle(tx port.TxRunner, events port.EventSink, retries uint64) (*Lifecycle, error) {
	if tx == nil {
		return nil, errors.New("tx runner is nil")
	}
	if events == nil {
		return nil, errors.New("events is nil")
	}

	return &Lifecycle{
		tx:      tx,
		events:  events,
		retries: retries,
		now:     utcNow,
	}, nil
}

func (l *Lifecycle) Transition(ctx context.Context, input TransitionInput) (domain.Order, error) {
	var (
		order  domain.Order
		change domain.StatusChange
	)

	if input.Actor == "" {
		return order, domain.ErrEmptyActor
	}

	// the order is re-read under its lock on every attempt
	err := retryOnContention(ctx, l.retries, func() error {
		return l.tx.WithinTx(ctx, func(ctx context.Context, store port.Store) error {
			locked, err := store.Orders.GetOrderForUpdate(ctx, input.OrderID)
			if err != nil {
				return fmt.Errorf("orders.GetOrderForUpdate: %w", err)
			}

			change, err = transition(ctx, store, &locked, input.To, input.Actor, input.Note, l.now())
			if err != nil {
				return err
			}

			order = locked
			return nil
		})
	})
	if err != nil {
		return domain.Order{}, err
	}

	publish(ctx, l.events, "Lifecycle.Transition", domain.NewOrderStatusChangedEvent(change))

	return order, nil
}

func (l *Lifecycle) History(ctx context.Context, orderID uuid.UUID) ([]domain.StatusChange, error) {
	var history []domain.StatusChange

	err := l.tx.WithinTx(ctx, func(ctx context.Context, store port.Store) error {
		if _, err := store.Orders.GetOrder(ctx, orderID); err != nil {
			return fmt.Errorf("orders.GetOrder: %w", err)
		}

		changes, err := store.Orders.GetStatusHistory(ctx, orderID)
		if err != nil {
			return fmt.Errorf("orders.GetStatusHistory: %w", err)
		}

		history = changes
		return nil
	})
	if err != nil {
		return nil, err
	}

	return history, nil
}

// transition applies one edge to a locked order, appends the history entry and,
// on cancellation, returns every line's reservation to the ledger.
func transition(ctx context.Context, store port.Store, order *domain.Order, to domain.OrderStatus, actor, note string, now time.Time) (domain.StatusChange, error) {
	from := order.Status

	if err := order.ApplyTransition(to, now); err != nil {
		return domain.StatusChange{}, err
	}

	if err := store.Orders.UpdateOrderStatus(ctx, *order); err != nil {
		return domain.StatusChange{}, fmt.Errorf("orders.UpdateOrderStatus: %w", err)
	}

	change, err := store.Orders.AppendStatusChange(ctx, domain.StatusChange{
		OrderID:   order.ID,
		From:      from,
		To:        to,
		Actor:     actor,
		Note:      note,
		CreatedAt: now,
	})
	if err != nil {
		return domain.StatusChange{}, fmt.Errorf("orders.AppendStatusChange: %w", err)
	}

	if to == domain.OrderStatusCancelled {
		for _, item := range releaseOrder(order.Items) {
			if err := store.Ledger.Release(ctx, item.Reservation()); err != nil {
				return domain.StatusChange{}, fmt.Errorf("product[%s]: ledger.Release: %w", item.ProductID, err)
			}
		}
	}

	return change, nil
}

// releaseOrder sorts items by product id so concurrent cancellations lock product rows in the same order.
func releaseOrder(items []domain.OrderItem) []domain.OrderItem {
	sorted := slices.Clone(items)
	slices.SortStableFunc(sorted, func(a, b domain.OrderItem) int {
		return bytes.Compare(a.ProductID[:], b.ProductID[:])
	})
	return sorted
}
