package port

import (
	"context"

	"github.com/nikolayk812/flashcheckout/internal/domain"
)

// Store groups repositories bound to one transaction.
type Store struct {
	Orders    OrderRepository
	Discounts DiscountRepository
	Catalog   ProductCatalog
	Ledger    StockLedger
}

type TxRunner interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context, store Store) error) error
}

type EventSink interface {
	Publish(ctx context.Context, event domain.Event) error
}
