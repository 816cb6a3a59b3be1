package domain

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type PaymentMethod string

const (
	PaymentMethodMpesa          PaymentMethod = "mpesa"
	PaymentMethodAirtelMoney    PaymentMethod = "airtel_money"
	PaymentMethodCashOnDelivery PaymentMethod = "cash_on_delivery"
)

var validPaymentMethods = map[PaymentMethod]struct{}{
	PaymentMethodMpesa:          {},
	PaymentMethodAirtelMoney:    {},
	PaymentMethodCashOnDelivery: {},
}

func ToPaymentMethod(s string) (PaymentMethod, error) {
	method := PaymentMethod(s)
	if _, ok := validPaymentMethods[method]; ok {
		return method, nil
	}

	return "", ErrInvalidPaymentMethod
}

type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusCompleted PaymentStatus = "completed"
	PaymentStatusFailed    PaymentStatus = "failed"
	PaymentStatusRefunded  PaymentStatus = "refunded"
)

func ToPaymentStatus(s string) (PaymentStatus, error) {
	switch status := PaymentStatus(s); status {
	case PaymentStatusPending, PaymentStatusCompleted, PaymentStatusFailed, PaymentStatusRefunded:
		return status, nil
	}

	return "", errors.New("invalid payment status")
}

type CustomerInfo struct {
	Name  string
	Email string
	Phone string
}

type DeliveryInfo struct {
	Address string
	City    string
	Zone    string
	Notes   string
}

type Order struct {
	ID       uuid.UUID
	Number   string
	Customer CustomerInfo
	Delivery DeliveryInfo

	Subtotal        Money
	Tax             Money
	DeliveryFee     Money
	DiscountAmount  Money
	Total           Money
	DiscountSavings Money

	Status             OrderStatus
	PaymentMethod      PaymentMethod
	PaymentStatus      PaymentStatus
	IsCashOnDelivery   bool
	HasDiscountedItems bool
	CodVerified        bool

	TrackingNumber *string
	AdminNotes     string

	Items []OrderItem

	ConfirmedAt *time.Time
	DeliveredAt *time.Time
	CancelledAt *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// OrderItem is an immutable snapshot of a product at purchase time.
type OrderItem struct {
	ID              uuid.UUID
	ProductID       uuid.UUID
	ProductName     string
	ProductSKU      string
	ProductCategory string
	ProductImageURL *string

	UnitPrice      Money
	Quantity       Quantity
	TotalPrice     Money
	IsDiscounted   bool
	OriginalPrice  *Money
	DiscountPct    *decimal.Decimal
	Savings        Money
	DiscountLineID *uuid.UUID

	CreatedAt time.Time
}

func (i OrderItem) Reservation() Reservation {
	return Reservation{
		ProductID:      i.ProductID,
		Quantity:       i.Quantity,
		DiscountLineID: i.DiscountLineID,
	}
}

// CheckTotals verifies total == subtotal + tax + delivery fee - discount amount and total >= 0.
func (o Order) CheckTotals() error {
	expected := o.Subtotal.Add(o.Tax).Add(o.DeliveryFee).Sub(o.DiscountAmount)

	if !expected.Amount.Equal(o.Total.Amount) {
		return fmt.Errorf("total %s does not match components %s", o.Total, expected)
	}
	if o.Total.IsNegative() {
		return fmt.Errorf("total %s is negative", o.Total)
	}
	return nil
}

// ApplyTransition moves the order along the transition graph and stamps lifecycle timestamps.
// Timestamps already set are never overwritten.
func (o *Order) ApplyTransition(to OrderStatus, now time.Time) error {
	if to == OrderStatusCancelled && !o.Status.IsCancellable() {
		return fmt.Errorf("%w: %w", ErrNotCancellable, &InvalidTransitionError{From: o.Status, To: to})
	}
	if !CanTransition(o.Status, to) {
		return &InvalidTransitionError{From: o.Status, To: to}
	}

	o.Status = to
	o.UpdatedAt = now

	switch to {
	case OrderStatusConfirmed:
		o.ConfirmedAt = stampOnce(o.ConfirmedAt, now)
	case OrderStatusDelivered:
		o.DeliveredAt = stampOnce(o.DeliveredAt, now)
		if o.PaymentMethod == PaymentMethodCashOnDelivery {
			o.PaymentStatus = PaymentStatusCompleted
		}
	case OrderStatusCancelled:
		o.CancelledAt = stampOnce(o.CancelledAt, now)
	case OrderStatusRefunded:
		o.PaymentStatus = PaymentStatusRefunded
	}

	return nil
}

func stampOnce(current *time.Time, now time.Time) *time.Time {
	if current != nil {
		return current
	}
	return &now
}

// StatusChange is one append-only audit entry.
type StatusChange struct {
	ID      uuid.UUID
	OrderID uuid.UUID
	From    OrderStatus
	To      OrderStatus
	Actor   string
	Note    string

	CreatedAt time.Time
}
