package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/nikolayk812/flashcheckout/internal/domain"
	"github.com/nikolayk812/flashcheckout/internal/port"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

type NewOffer struct {
	Name        string
	DiscountPct decimal.Decimal
	PriceCap    *decimal.Decimal
	StartsAt    time.Time
	EndsAt      time.Time
	Priority    int
}

type AddLineInput struct {
	OfferID     uuid.UUID
	ProductID   uuid.UUID
	DiscountPct *decimal.Decimal
	StockCap    *int
}

// Offers administers flash sales and their product lines.
type Offers struct {
	tx  port.TxRunner
	now clock
}

func NewOffers(tx port.TxRunner) (*Offers, error) {
	if tx == nil {
		return nil, errors.New("tx runner is nil")
	}

	return &Offers{
		tx:  tx,
		now: utcNow,
	}, nil
}

func (s *Offers) CreateOffer(ctx context.Context, input NewOffer) (domain.DiscountOffer, error) {
	offer := domain.DiscountOffer{
		Name:        input.Name,
		DiscountPct: input.DiscountPct,
		PriceCap:    input.PriceCap,
		StartsAt:    input.StartsAt,
		EndsAt:      input.EndsAt,
		Active:      true,
		Priority:    input.Priority,
	}

	if err := offer.Validate(s.now()); err != nil {
		return domain.DiscountOffer{}, err
	}

	var created domain.DiscountOffer

	err := s.tx.WithinTx(ctx, func(ctx context.Context, store port.Store) error {
		inserted, err := store.Discounts.InsertOffer(ctx, offer)
		if err != nil {
			return fmt.Errorf("discounts.InsertOffer: %w", err)
		}

		created = inserted
		return nil
	})

	return created, err
}

func (s *Offers) GetOffer(ctx context.Context, offerID uuid.UUID) (domain.DiscountOffer, error) {
	var offer domain.DiscountOffer

	err := s.tx.WithinTx(ctx, func(ctx context.Context, store port.Store) error {
		found, err := store.Discounts.GetOffer(ctx, offerID)
		if err != nil {
			return fmt.Errorf("discounts.GetOffer: %w", err)
		}

		offer = found
		return nil
	})

	return offer, err
}

// AddLine includes a product in an offer. A product may belong to at most one
// active offer per time window.
func (s *Offers) AddLine(ctx context.Context, input AddLineInput) (domain.DiscountOfferLine, error) {
	var stockCap *domain.Quantity
	if input.StockCap != nil {
		stockCap = lo.ToPtr(domain.Quantity(*input.StockCap))
	}

	var created domain.DiscountOfferLine

	err := s.tx.WithinTx(ctx, func(ctx context.Context, store port.Store) error {
		offer, err := store.Discounts.GetOffer(ctx, input.OfferID)
		if err != nil {
			return fmt.Errorf("discounts.GetOffer: %w", err)
		}

		if !offer.Active || offer.State(s.now()) == domain.OfferStateExpired {
			return domain.ErrOfferExpired
		}

		product, err := store.Catalog.GetProduct(ctx, input.ProductID)
		if err != nil {
			return fmt.Errorf("catalog.GetProduct: %w", err)
		}

		overlapping, err := store.Discounts.OverlappingLines(ctx, product.ID, offer.StartsAt, offer.EndsAt)
		if err != nil {
			return fmt.Errorf("discounts.OverlappingLines: %w", err)
		}

		if len(overlapping) > 0 {
			return fmt.Errorf("%w: offer %s", domain.ErrDiscountOverlap, overlapping[0].Offer.ID)
		}

		line, err := domain.NewDiscountOfferLine(offer, product, input.DiscountPct, stockCap)
		if err != nil {
			return err
		}

		inserted, err := store.Discounts.InsertLine(ctx, line)
		if err != nil {
			return fmt.Errorf("discounts.InsertLine: %w", err)
		}

		created = inserted
		return nil
	})

	return created, err
}

func (s *Offers) DeactivateOffer(ctx context.Context, offerID uuid.UUID) error {
	return s.tx.WithinTx(ctx, func(ctx context.Context, store port.Store) error {
		if err := store.Discounts.DeactivateOffer(ctx, offerID); err != nil {
			return fmt.Errorf("discounts.DeactivateOffer: %w", err)
		}
		return nil
	})
}

// DeactivateExpired switches off every offer whose window has closed.
func (s *Offers) DeactivateExpired(ctx context.Context) (int64, error) {
	var n int64

	err := s.tx.WithinTx(ctx, func(ctx context.Context, store port.Store) error {
		count, err := store.Discounts.DeactivateExpiredOffers(ctx, s.now())
		if err != nil {
			return fmt.Errorf("discounts.DeactivateExpiredOffers: %w", err)
		}

		n = count
		return nil
	})
	if err != nil {
		return 0, err
	}

	if n > 0 {
		slog.Info("deactivated expired offers", "method", "Offers.DeactivateExpired", "count", n)
	}

	return n, nil
}
