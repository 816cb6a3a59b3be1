package pricing

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/nikolayk812/flashcheckout/internal/domain"
	"github.com/shopspring/decimal"
)

type Pricer struct {
	resolver *Resolver
}

func NewPricer(resolver *Resolver) (*Pricer, error) {
	if resolver == nil {
		return nil, errors.New("resolver is nil")
	}

	return &Pricer{resolver: resolver}, nil
}

// PriceLine prices qty units of the product at 'at'. It has no side effects and
// must be called again right before reserving stock.
func (p *Pricer) PriceLine(ctx context.Context, product domain.Product, qty domain.Quantity, at time.Time) (domain.LinePricing, error) {
	if qty < 1 {
		return domain.LinePricing{}, domain.ErrInvalidQuantity
	}

	discount, err := p.resolver.Resolve(ctx, product.ID, at)
	if err != nil {
		return domain.LinePricing{}, fmt.Errorf("resolver.Resolve: %w", err)
	}

	if discount == nil {
		return fullPrice(product, qty), nil
	}

	unitPrice := discount.Line.DiscountedPrice
	if !unitPrice.SameCurrency(product.Price) {
		return domain.LinePricing{}, fmt.Errorf("discount line %s: %w", discount.Line.ID, domain.ErrCurrencyMismatch)
	}

	// a snapshot at or above the current list price no longer discounts anything
	perUnitSavings := product.Price.Sub(unitPrice).Max0()
	if perUnitSavings.IsZero() {
		return fullPrice(product, qty), nil
	}

	originalPrice := product.Price
	lineID := discount.Line.ID

	return domain.LinePricing{
		UnitPrice:      unitPrice,
		OriginalPrice:  &originalPrice,
		DiscountPct:    discount.Pct(),
		IsDiscounted:   true,
		Savings:        perUnitSavings.Mul(qty),
		LineTotal:      unitPrice.Mul(qty),
		DiscountLineID: &lineID,
	}, nil
}

func fullPrice(product domain.Product, qty domain.Quantity) domain.LinePricing {
	return domain.LinePricing{
		UnitPrice:   product.Price,
		DiscountPct: decimal.Zero,
		Savings:     domain.ZeroMoney(product.Price.Currency),
		LineTotal:   product.Price.Mul(qty),
	}
}
