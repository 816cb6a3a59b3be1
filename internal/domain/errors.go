package domain

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

var (
	ErrNotFound             = errors.New("not found")
	ErrProductNotFound      = errors.New("product not found")
	ErrEmptyOrder           = errors.New("order has no lines")
	ErrTooManyLines         = errors.New("order has too many lines")
	ErrInvalidQuantity      = errors.New("quantity must be at least 1")
	ErrInvalidPaymentMethod = errors.New("invalid payment method")
	ErrInvalidContact       = errors.New("customer name and phone are required")
	ErrCurrencyMismatch     = errors.New("product currency differs from store currency")
	ErrNotCancellable       = errors.New("order is not cancellable")
	ErrEmptyActor           = errors.New("actor is empty")
)

// OutOfStockError reports the shortfall of a reservation.
// DiscountLineID is set when the discount cap, not the product stock, ran out.
type OutOfStockError struct {
	ProductID      uuid.UUID
	DiscountLineID *uuid.UUID
	Available      Quantity
	Requested      Quantity
}

func (e *OutOfStockError) Error() string {
	if e.DiscountLineID != nil {
		return fmt.Sprintf("product %s out of stock: discount line %s has %d available, %d requested",
			e.ProductID, *e.DiscountLineID, e.Available, e.Requested)
	}
	return fmt.Sprintf("product %s out of stock: %d available, %d requested", e.ProductID, e.Available, e.Requested)
}

type ProductInactiveError struct {
	ProductID uuid.UUID
}

func (e *ProductInactiveError) Error() string {
	return fmt.Sprintf("product %s is inactive", e.ProductID)
}

type InvalidTransitionError struct {
	From OrderStatus
	To   OrderStatus
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid order transition %s -> %s", e.From, e.To)
}

type InvalidCodTransitionError struct {
	From CodStatus
	To   CodStatus
}

func (e *InvalidCodTransitionError) Error() string {
	return fmt.Sprintf("invalid cod verification transition %s -> %s", e.From, e.To)
}

// ContentionError marks a ledger operation that lost a lock race (deadlock, lock timeout).
// Callers retry it. Checkout surfaces it as OutOfStockError when retries run out.
type ContentionError struct {
	ProductID uuid.UUID
	Requested Quantity
	Err       error
}

func (e *ContentionError) Error() string {
	return fmt.Sprintf("contention on product %s: %v", e.ProductID, e.Err)
}

func (e *ContentionError) Unwrap() error {
	return e.Err
}
