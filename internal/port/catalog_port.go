package port

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/nikolayk812/flashcheckout/internal/domain"
)

// ProductCatalog is the contract of the external catalog.
// Only the StockLedger may call AdjustStock.
type ProductCatalog interface {
	GetProduct(ctx context.Context, productID uuid.UUID) (domain.Product, error)
	InsertProduct(ctx context.Context, product domain.Product) (uuid.UUID, error)
	AdjustStock(ctx context.Context, productID uuid.UUID, delta int) (domain.Quantity, error)
}

type StockLedger interface {
	Reserve(ctx context.Context, productID uuid.UUID, qty domain.Quantity, discountLineID *uuid.UUID, at time.Time) (domain.Reservation, error)
	Release(ctx context.Context, r domain.Reservation) error
}
