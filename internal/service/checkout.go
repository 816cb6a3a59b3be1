package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/nikolayk812/flashcheckout/internal/domain"
	"github.com/nikolayk812/flashcheckout/internal/port"
	"github.com/nikolayk812/flashcheckout/internal/pricing"
	"github.com/samber/lo"
	"golang.org/x/text/currency"
)

const DefaultMaxLines = 50

type CheckoutConfig struct {
	Currency       currency.Unit
	MaxLines       int
	DeliveryFee    domain.DeliveryFeeRule
	Tax            domain.TaxRule
	ReserveRetries uint64
}

type LineRequest struct {
	ProductID uuid.UUID
	Quantity  int
}

type CreateOrderInput struct {
	Customer      domain.CustomerInfo
	Delivery      domain.DeliveryInfo
	PaymentMethod string
	Lines         []LineRequest
}

// Checkout builds orders: prices lines, reserves stock and persists the snapshot in one transaction.
type Checkout struct {
	tx     port.TxRunner
	orders port.OrderReader
	events port.EventSink
	cfg    CheckoutConfig
	now    clock
}

func NewCheckout(tx port.TxRunner, orders port.OrderReader, events port.EventSink, cfg CheckoutConfig) (*Checkout, error) {
	if tx == nil {
		return nil, errors.New("tx runner is nil")
	}
	if orders == nil {
		return nil, errors.New("orders is nil")
	}
	if events == nil {
		return nil, errors.New("events is nil")
	}
	if cfg.Tax == nil {
		cfg.Tax = domain.ZeroTax{}
	}
	if cfg.MaxLines <= 0 || cfg.MaxLines > DefaultMaxLines {
		cfg.MaxLines = DefaultMaxLines
	}

	return &Checkout{
		tx:     tx,
		orders: orders,
		events: events,
		cfg:    cfg,
		now:    utcNow,
	}, nil
}

func (c *Checkout) CreateOrder(ctx context.Context, input CreateOrderInput) (domain.Order, error) {
	var order domain.Order

	method, err := c.validate(input)
	if err != nil {
		return order, err
	}

	err = retryOnContention(ctx, c.cfg.ReserveRetries, func() error {
		return c.tx.WithinTx(ctx, func(ctx context.Context, store port.Store) error {
			created, err := c.createOrder(ctx, store, input, method)
			if err != nil {
				return err
			}
			order = created
			return nil
		})
	})
	if err != nil {
		var contention *domain.ContentionError
		if errors.As(err, &contention) {
			return domain.Order{}, &domain.OutOfStockError{
				ProductID: contention.ProductID,
				Requested: contention.Requested,
			}
		}
		return domain.Order{}, err
	}

	publish(ctx, c.events, "Checkout.CreateOrder", domain.NewOrderCreatedEvent(order))

	return order, nil
}

func (c *Checkout) validate(input CreateOrderInput) (domain.PaymentMethod, error) {
	if len(input.Lines) == 0 {
		return "", domain.ErrEmptyOrder
	}
	if len(input.Lines) > c.cfg.MaxLines {
		return "", fmt.Errorf("%w: %d lines, at most %d allowed", domain.ErrTooManyLines, len(input.Lines), c.cfg.MaxLines)
	}

	for i, line := range input.Lines {
		if line.Quantity < 1 {
			return "", fmt.Errorf("line[%d]: %w", i, domain.ErrInvalidQuantity)
		}
		if line.ProductID == uuid.Nil {
			return "", fmt.Errorf("line[%d]: %w", i, domain.ErrProductNotFound)
		}
	}

	method, err := domain.ToPaymentMethod(input.PaymentMethod)
	if err != nil {
		return "", err
	}

	if strings.TrimSpace(input.Customer.Name) == "" || strings.TrimSpace(input.Customer.Phone) == "" {
		return "", domain.ErrInvalidContact
	}

	return method, nil
}

func (c *Checkout) createOrder(ctx context.Context, store port.Store, input CreateOrderInput, method domain.PaymentMethod) (domain.Order, error) {
	now := c.now()

	// priced against the transaction so the read sees reservations made by earlier lines
	resolver, err := pricing.NewResolver(store.Discounts)
	if err != nil {
		return domain.Order{}, fmt.Errorf("pricing.NewResolver: %w", err)
	}

	pricer, err := pricing.NewPricer(resolver)
	if err != nil {
		return domain.Order{}, fmt.Errorf("pricing.NewPricer: %w", err)
	}

	items := make([]domain.OrderItem, 0, len(input.Lines))

	for i, line := range input.Lines {
		qty := domain.Quantity(line.Quantity)

		product, err := store.Catalog.GetProduct(ctx, line.ProductID)
		if err != nil {
			return domain.Order{}, fmt.Errorf("line[%d]: catalog.GetProduct: %w", i, err)
		}

		if !product.Active {
			return domain.Order{}, &domain.ProductInactiveError{ProductID: product.ID}
		}

		if product.Price.Currency != c.cfg.Currency {
			return domain.Order{}, fmt.Errorf("line[%d]: %w", i, domain.ErrCurrencyMismatch)
		}

		linePricing, err := pricer.PriceLine(ctx, product, qty, now)
		if err != nil {
			return domain.Order{}, fmt.Errorf("line[%d]: pricer.PriceLine: %w", i, err)
		}

		if _, err := store.Ledger.Reserve(ctx, product.ID, qty, linePricing.DiscountLineID, now); err != nil {
			return domain.Order{}, fmt.Errorf("line[%d]: ledger.Reserve: %w", i, err)
		}

		items = append(items, domain.NewOrderItem(product, qty, linePricing))
	}

	order := c.assemble(input, method, items, now)

	orderID, err := store.Orders.InsertOrder(ctx, order)
	if err != nil {
		return domain.Order{}, fmt.Errorf("orders.InsertOrder: %w", err)
	}

	if order.IsCashOnDelivery {
		if _, err := store.Orders.InsertCodVerification(ctx, domain.NewCodVerification(orderID)); err != nil {
			return domain.Order{}, fmt.Errorf("orders.InsertCodVerification: %w", err)
		}
	}

	created, err := store.Orders.GetOrder(ctx, orderID)
	if err != nil {
		return domain.Order{}, fmt.Errorf("orders.GetOrder: %w", err)
	}

	return created, nil
}

// assemble computes the aggregates once, from the final line snapshots.
func (c *Checkout) assemble(input CreateOrderInput, method domain.PaymentMethod, items []domain.OrderItem, now time.Time) domain.Order {
	zero := domain.ZeroMoney(c.cfg.Currency)

	subtotal := lo.Reduce(items, func(acc domain.Money, item domain.OrderItem, _ int) domain.Money {
		return acc.Add(item.TotalPrice)
	}, zero)

	savings := lo.Reduce(items, func(acc domain.Money, item domain.OrderItem, _ int) domain.Money {
		return acc.Add(item.Savings)
	}, zero)

	deliveryFee := c.cfg.DeliveryFee.Fee(subtotal, input.Delivery.Zone)
	tax := c.cfg.Tax.Tax(subtotal)
	discountAmount := zero

	return domain.Order{
		Number:          domain.NewOrderNumber(now),
		Customer:        input.Customer,
		Delivery:        input.Delivery,
		Subtotal:        subtotal,
		Tax:             tax,
		DeliveryFee:     deliveryFee,
		DiscountAmount:  discountAmount,
		Total:           subtotal.Add(tax).Add(deliveryFee).Sub(discountAmount),
		DiscountSavings: savings,
		Status:          domain.OrderStatusPending,
		PaymentMethod:   method,
		PaymentStatus:   domain.PaymentStatusPending,

		IsCashOnDelivery: method == domain.PaymentMethodCashOnDelivery,
		HasDiscountedItems: lo.SomeBy(items, func(item domain.OrderItem) bool {
			return item.IsDiscounted
		}),
		Items:     items,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func (c *Checkout) GetOrder(ctx context.Context, orderID uuid.UUID) (domain.Order, error) {
	order, err := c.orders.GetOrder(ctx, orderID)
	if err != nil {
		return domain.Order{}, fmt.Errorf("orders.GetOrder: %w", err)
	}

	return order, nil
}

func (c *Checkout) SearchOrders(ctx context.Context, filter domain.OrderFilter) ([]domain.Order, error) {
	orders, err := c.orders.SearchOrders(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("orders.SearchOrders: %w", err)
	}

	return orders, nil
}

// UpdateNotes sets admin notes and the tracking number; status is untouched.
func (c *Checkout) UpdateNotes(ctx context.Context, orderID uuid.UUID, notes string, trackingNumber *string) (domain.Order, error) {
	var order domain.Order

	err := c.tx.WithinTx(ctx, func(ctx context.Context, store port.Store) error {
		if err := store.Orders.UpdateOrderNotes(ctx, orderID, notes, trackingNumber); err != nil {
			return fmt.Errorf("orders.UpdateOrderNotes: %w", err)
		}

		updated, err := store.Orders.GetOrder(ctx, orderID)
		if err != nil {
			return fmt.Errorf("orders.GetOrder: %w", err)
		}

		order = updated
		return nil
	})
	if err != nil {
		return domain.Order{}, err
	}

	publish(ctx, c.events, "Checkout.UpdateNotes", domain.NewOrderNotesUpdatedEvent(order))

	return order, nil
}
