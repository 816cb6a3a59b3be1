package domain

import (
	"time"

	"github.com/google/uuid"
)

// Product is the catalog view the checkout core reads.
type Product struct {
	ID       uuid.UUID
	SKU      string
	Name     string
	Category string
	ImageURL *string
	Price    Money
	Stock    Quantity
	Active   bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Reservation is stock taken from a product and, if discounted, from a discount line.
type Reservation struct {
	ProductID      uuid.UUID
	Quantity       Quantity
	DiscountLineID *uuid.UUID
}
