package domain

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrInvalidOffer    = errors.New("invalid discount offer")
	ErrOfferExpired    = errors.New("discount offer expired")
	ErrDiscountOverlap = errors.New("product already has an active discount in this window")

	hundred = decimal.NewFromInt(100)
)

type OfferState string

const (
	OfferStateUpcoming OfferState = "upcoming"
	OfferStateRunning  OfferState = "running"
	OfferStateExpired  OfferState = "expired"
)

// DiscountOffer is a time-boxed flash sale.
type DiscountOffer struct {
	ID          uuid.UUID
	Name        string
	DiscountPct decimal.Decimal
	PriceCap    *decimal.Decimal
	StartsAt    time.Time
	EndsAt      time.Time
	Active      bool
	Priority    int

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (o DiscountOffer) Validate(now time.Time) error {
	if o.Name == "" {
		return fmt.Errorf("%w: name is empty", ErrInvalidOffer)
	}
	if err := validatePct(o.DiscountPct); err != nil {
		return err
	}
	if o.PriceCap != nil && o.PriceCap.IsNegative() {
		return fmt.Errorf("%w: price cap is negative", ErrInvalidOffer)
	}
	if !o.StartsAt.Before(o.EndsAt) {
		return fmt.Errorf("%w: start must be before end", ErrInvalidOffer)
	}
	if !o.EndsAt.After(now) {
		return fmt.Errorf("%w: end must be in the future", ErrInvalidOffer)
	}
	return nil
}

// State is derived from the window only; the active flag is not considered.
func (o DiscountOffer) State(now time.Time) OfferState {
	switch {
	case now.Before(o.StartsAt):
		return OfferStateUpcoming
	case now.Before(o.EndsAt):
		return OfferStateRunning
	default:
		return OfferStateExpired
	}
}

func (o DiscountOffer) IsRunning(at time.Time) bool {
	return o.Active && o.State(at) == OfferStateRunning
}

// DiscountOfferLine includes one product in one offer.
type DiscountOfferLine struct {
	ID                  uuid.UUID
	OfferID             uuid.UUID
	ProductID           uuid.UUID
	DiscountPctOverride *decimal.Decimal
	BasePrice           Money
	DiscountedPrice     Money
	StockCap            *Quantity
	Sold                Quantity
	Active              bool
	SoldOutAt           *time.Time

	CreatedAt time.Time
}

func (l DiscountOfferLine) EffectivePct(offer DiscountOffer) decimal.Decimal {
	if l.DiscountPctOverride != nil {
		return *l.DiscountPctOverride
	}
	return offer.DiscountPct
}

// Remaining reports capped capacity left; ok is false for uncapped lines.
func (l DiscountOfferLine) Remaining() (remaining Quantity, ok bool) {
	if l.StockCap == nil {
		return 0, false
	}
	if l.Sold >= *l.StockCap {
		return 0, true
	}
	return *l.StockCap - l.Sold, true
}

func (l DiscountOfferLine) HasCapacity(q Quantity) bool {
	remaining, capped := l.Remaining()
	return !capped || remaining >= q
}

// ActiveDiscount is a line together with the offer it belongs to.
type ActiveDiscount struct {
	Line  DiscountOfferLine
	Offer DiscountOffer
}

func (d ActiveDiscount) Pct() decimal.Decimal {
	return d.Line.EffectivePct(d.Offer)
}

// DiscountedPrice returns max(0, base - min(base*pct/100, cap)).
// The reduction is rounded to two decimal places.
func DiscountedPrice(base, pct decimal.Decimal, priceCap *decimal.Decimal) decimal.Decimal {
	reduction := base.Mul(pct).Div(hundred).Round(2)
	if priceCap != nil && reduction.GreaterThan(*priceCap) {
		reduction = *priceCap
	}

	price := base.Sub(reduction)
	if price.IsNegative() {
		return decimal.Zero
	}
	return price
}

func validatePct(pct decimal.Decimal) error {
	if pct.IsNegative() || pct.GreaterThan(hundred) {
		return fmt.Errorf("%w: discount percentage %s is outside 0..100", ErrInvalidOffer, pct.String())
	}
	// stored as NUMERIC(5,2)
	if !pct.Equal(pct.Round(2)) {
		return fmt.Errorf("%w: discount percentage %s has more than two decimal places", ErrInvalidOffer, pct.String())
	}
	return nil
}

// NewDiscountOfferLine snapshots the product price and computes the discounted price.
func NewDiscountOfferLine(offer DiscountOffer, product Product, pctOverride *decimal.Decimal, stockCap *Quantity) (DiscountOfferLine, error) {
	var l DiscountOfferLine

	if pctOverride != nil {
		if err := validatePct(*pctOverride); err != nil {
			return l, err
		}
	}
	if stockCap != nil && *stockCap <= 0 {
		return l, fmt.Errorf("%w: stock cap must be positive", ErrInvalidOffer)
	}

	l = DiscountOfferLine{
		OfferID:             offer.ID,
		ProductID:           product.ID,
		DiscountPctOverride: pctOverride,
		BasePrice:           product.Price,
		StockCap:            stockCap,
		Active:              true,
	}

	l.DiscountedPrice = NewMoney(
		DiscountedPrice(product.Price.Amount, l.EffectivePct(offer), offer.PriceCap),
		product.Price.Currency,
	)

	return l, nil
}
