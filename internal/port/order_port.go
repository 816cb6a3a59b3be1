package port

import (
	"context"

	"github.com/google/uuid"
	"github.com/nikolayk812/flashcheckout/internal/domain"
)

type OrderReader interface {
	GetOrder(ctx context.Context, orderID uuid.UUID) (domain.Order, error)
	SearchOrders(ctx context.Context, filter domain.OrderFilter) ([]domain.Order, error)
}

type OrderRepository interface {
	OrderReader

	// GetOrderForUpdate locks the order row until the surrounding transaction ends.
	GetOrderForUpdate(ctx context.Context, orderID uuid.UUID) (domain.Order, error)

	InsertOrder(ctx context.Context, order domain.Order) (uuid.UUID, error)

	UpdateOrderStatus(ctx context.Context, order domain.Order) error
	UpdateOrderNotes(ctx context.Context, orderID uuid.UUID, notes string, trackingNumber *string) error
	SetCodVerified(ctx context.Context, orderID uuid.UUID, verified bool) error

	AppendStatusChange(ctx context.Context, change domain.StatusChange) (domain.StatusChange, error)
	GetStatusHistory(ctx context.Context, orderID uuid.UUID) ([]domain.StatusChange, error)

	InsertCodVerification(ctx context.Context, cod domain.CodVerification) (domain.CodVerification, error)
	GetCodVerification(ctx context.Context, orderID uuid.UUID) (domain.CodVerification, error)
	GetCodVerificationForUpdate(ctx context.Context, orderID uuid.UUID) (domain.CodVerification, error)
	UpdateCodVerification(ctx context.Context, cod domain.CodVerification) error
}
