package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nikolayk812/flashcheckout/internal/db"
	"github.com/nikolayk812/flashcheckout/internal/domain"
	"github.com/nikolayk812/flashcheckout/internal/port"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
)

type discountRepository struct {
	q    *db.Queries
	dbtx db.DBTX
}

func NewDiscount(pool *pgxpool.Pool) port.DiscountRepository {
	return &discountRepository{
		q:    db.New(pool),
		dbtx: pool,
	}
}

func NewDiscountWithTx(tx pgx.Tx) port.DiscountRepository {
	return &discountRepository{
		q:    db.New(tx),
		dbtx: tx,
	}
}

func (r *discountRepository) InsertOffer(ctx context.Context, offer domain.DiscountOffer) (domain.DiscountOffer, error) {
	priority, err := toInt32(offer.Priority)
	if err != nil {
		return domain.DiscountOffer{}, fmt.Errorf("priority: %w", err)
	}

	row, err := r.q.InsertDiscountOffer(ctx, db.InsertDiscountOfferParams{
		Name:           offer.Name,
		DiscountPct:    offer.DiscountPct,
		PriceCapAmount: toNullDecimal(offer.PriceCap),
		StartsAt:       offer.StartsAt,
		EndsAt:         offer.EndsAt,
		Active:         offer.Active,
		Priority:       priority,
	})
	if err != nil {
		return domain.DiscountOffer{}, fmt.Errorf("q.InsertDiscountOffer: %w", err)
	}

	return mapDBOfferToDomain(row), nil
}

func (r *discountRepository) GetOffer(ctx context.Context, offerID uuid.UUID) (domain.DiscountOffer, error) {
	row, err := r.q.GetDiscountOffer(ctx, offerID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.DiscountOffer{}, fmt.Errorf("q.GetDiscountOffer: %w", domain.ErrNotFound)
		}
		return domain.DiscountOffer{}, fmt.Errorf("q.GetDiscountOffer: %w", err)
	}

	return mapDBOfferToDomain(row), nil
}

func (r *discountRepository) DeactivateOffer(ctx context.Context, offerID uuid.UUID) error {
	tag, err := r.q.DeactivateDiscountOffer(ctx, offerID)
	if err != nil {
		return fmt.Errorf("q.DeactivateDiscountOffer: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}

	return nil
}

func (r *discountRepository) DeactivateExpiredOffers(ctx context.Context, now time.Time) (int64, error) {
	n, err := r.q.DeactivateExpiredOffers(ctx, now)
	if err != nil {
		return 0, fmt.Errorf("q.DeactivateExpiredOffers: %w", err)
	}

	return n, nil
}

func (r *discountRepository) InsertLine(ctx context.Context, line domain.DiscountOfferLine) (domain.DiscountOfferLine, error) {
	var stockCap *int32
	if line.StockCap != nil {
		c, err := toInt32(line.StockCap.Int())
		if err != nil {
			return domain.DiscountOfferLine{}, fmt.Errorf("stockCap: %w", err)
		}
		stockCap = &c
	}

	row, err := r.q.InsertDiscountOfferLine(ctx, db.InsertDiscountOfferLineParams{
		OfferID:               line.OfferID,
		ProductID:             line.ProductID,
		DiscountPct:           toNullDecimal(line.DiscountPctOverride),
		BasePriceAmount:       line.BasePrice.Amount,
		DiscountedPriceAmount: line.DiscountedPrice.Amount,
		PriceCurrency:         line.BasePrice.Currency.String(),
		StockCap:              stockCap,
	})
	if err != nil {
		return domain.DiscountOfferLine{}, fmt.Errorf("q.InsertDiscountOfferLine: %w", err)
	}

	result, err := mapDBLineToDomain(row)
	if err != nil {
		return domain.DiscountOfferLine{}, fmt.Errorf("mapDBLineToDomain: %w", err)
	}

	return result, nil
}

func (r *discountRepository) GetLine(ctx context.Context, lineID uuid.UUID) (domain.DiscountOfferLine, error) {
	row, err := r.q.GetDiscountOfferLine(ctx, lineID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.DiscountOfferLine{}, fmt.Errorf("q.GetDiscountOfferLine: %w", domain.ErrNotFound)
		}
		return domain.DiscountOfferLine{}, fmt.Errorf("q.GetDiscountOfferLine: %w", err)
	}

	result, err := mapDBLineToDomain(row)
	if err != nil {
		return domain.DiscountOfferLine{}, fmt.Errorf("mapDBLineToDomain: %w", err)
	}

	return result, nil
}

func (r *discountRepository) CandidateLines(ctx context.Context, productID uuid.UUID, at time.Time) ([]domain.ActiveDiscount, error) {
	rows, err := r.q.GetCandidateLines(ctx, db.GetCandidateLinesParams{
		ProductID: productID,
		At:        at,
	})
	if err != nil {
		return nil, fmt.Errorf("q.GetCandidateLines: %w", err)
	}

	result, err := mapRows(rows, func(row db.GetCandidateLinesRow) (domain.ActiveDiscount, error) {
		return mapDBLineWithOfferToDomain(db.LockDiscountLineRow(row))
	})
	if err != nil {
		return nil, fmt.Errorf("mapRows: %w", err)
	}

	return result, nil
}

func (r *discountRepository) OverlappingLines(ctx context.Context, productID uuid.UUID, start, end time.Time) ([]domain.ActiveDiscount, error) {
	rows, err := r.q.GetOverlappingLines(ctx, db.GetOverlappingLinesParams{
		ProductID: productID,
		EndsAt:    end,
		StartsAt:  start,
	})
	if err != nil {
		return nil, fmt.Errorf("q.GetOverlappingLines: %w", err)
	}

	result, err := mapRows(rows, func(row db.GetOverlappingLinesRow) (domain.ActiveDiscount, error) {
		return mapDBLineWithOfferToDomain(db.LockDiscountLineRow(row))
	})
	if err != nil {
		return nil, fmt.Errorf("mapRows: %w", err)
	}

	return result, nil
}

func mapRows[R, T any](rows []R, fn func(R) (T, error)) ([]T, error) {
	result := make([]T, 0, len(rows))
	for i, row := range rows {
		item, err := fn(row)
		if err != nil {
			return nil, fmt.Errorf("row[%d]: %w", i, err)
		}
		result = append(result, item)
	}
	return result, nil
}

func mapDBOfferToDomain(row db.DiscountOffer) domain.DiscountOffer {
	return domain.DiscountOffer{
		ID:          row.ID,
		Name:        row.Name,
		DiscountPct: row.DiscountPct,
		PriceCap:    fromNullDecimal(row.PriceCapAmount),
		StartsAt:    row.StartsAt,
		EndsAt:      row.EndsAt,
		Active:      row.Active,
		Priority:    int(row.Priority),
		CreatedAt:   row.CreatedAt,
		UpdatedAt:   row.UpdatedAt,
	}
}

func mapDBLineToDomain(row db.DiscountOfferLine) (domain.DiscountOfferLine, error) {
	parsedCurrency, err := currency.ParseISO(row.PriceCurrency)
	if err != nil {
		return domain.DiscountOfferLine{}, fmt.Errorf("currency[%s] is not valid: %w", row.PriceCurrency, err)
	}

	var stockCap *domain.Quantity
	if row.StockCap != nil {
		stockCap = lo.ToPtr(domain.Quantity(*row.StockCap))
	}

	return domain.DiscountOfferLine{
		ID:                  row.ID,
		OfferID:             row.OfferID,
		ProductID:           row.ProductID,
		DiscountPctOverride: fromNullDecimal(row.DiscountPct),
		BasePrice:           domain.Money{Amount: row.BasePriceAmount, Currency: parsedCurrency},
		DiscountedPrice:     domain.Money{Amount: row.DiscountedPriceAmount, Currency: parsedCurrency},
		StockCap:            stockCap,
		Sold:                domain.Quantity(row.Sold),
		Active:              row.Active,
		SoldOutAt:           row.SoldOutAt,
		CreatedAt:           row.CreatedAt,
	}, nil
}

func mapDBLineWithOfferToDomain(row db.LockDiscountLineRow) (domain.ActiveDiscount, error) {
	line, err := mapDBLineToDomain(db.DiscountOfferLine{
		ID:                    row.ID,
		OfferID:               row.OfferID,
		ProductID:             row.ProductID,
		DiscountPct:           row.DiscountPct,
		BasePriceAmount:       row.BasePriceAmount,
		DiscountedPriceAmount: row.DiscountedPriceAmount,
		PriceCurrency:         row.PriceCurrency,
		StockCap:              row.StockCap,
		Sold:                  row.Sold,
		Active:                row.Active,
		SoldOutAt:             row.SoldOutAt,
		CreatedAt:             row.CreatedAt,
	})
	if err != nil {
		return domain.ActiveDiscount{}, err
	}

	offer := mapDBOfferToDomain(db.DiscountOffer{
		ID:             row.OfferID,
		Name:           row.OfferName,
		DiscountPct:    row.OfferDiscountPct,
		PriceCapAmount: row.OfferPriceCapAmount,
		StartsAt:       row.OfferStartsAt,
		EndsAt:         row.OfferEndsAt,
		Active:         row.OfferActive,
		Priority:       row.OfferPriority,
		CreatedAt:      row.OfferCreatedAt,
		UpdatedAt:      row.OfferUpdatedAt,
	})

	return domain.ActiveDiscount{Line: line, Offer: offer}, nil
}

func toNullDecimal(d *decimal.Decimal) decimal.NullDecimal {
	if d == nil {
		return decimal.NullDecimal{}
	}
	return decimal.NullDecimal{Decimal: *d, Valid: true}
}

func fromNullDecimal(d decimal.NullDecimal) *decimal.Decimal {
	if !d.Valid {
		return nil
	}
	return &d.Decimal
}
