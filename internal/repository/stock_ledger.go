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
)

type LedgerOptions struct {
	// ReactivateOnRelease makes a line that was switched off for being sold out
	// eligible again once a release frees capacity. Manually deactivated lines stay off.
	ReactivateOnRelease bool
}

// stockLedger is the only writer of products.stock and discount_offer_lines.sold.
// Rows are always locked product first, then discount line.
type stockLedger struct {
	dbtx db.DBTX
	opts LedgerOptions
}

func NewStockLedger(pool *pgxpool.Pool, opts LedgerOptions) port.StockLedger {
	return &stockLedger{
		dbtx: pool,
		opts: opts,
	}
}

func NewStockLedgerWithTx(tx pgx.Tx, opts LedgerOptions) port.StockLedger {
	return &stockLedger{
		dbtx: tx,
		opts: opts,
	}
}

func (l *stockLedger) Reserve(ctx context.Context, productID uuid.UUID, qty domain.Quantity, discountLineID *uuid.UUID, at time.Time) (domain.Reservation, error) {
	if qty < 1 {
		return domain.Reservation{}, domain.ErrInvalidQuantity
	}

	reservation, err := withTx(ctx, l.dbtx, func(q *db.Queries) (domain.Reservation, error) {
		return l.reserve(ctx, q, productID, qty, discountLineID, at)
	})
	if err != nil {
		return domain.Reservation{}, asContention(err, productID, qty)
	}

	return reservation, nil
}

func (l *stockLedger) reserve(ctx context.Context, q *db.Queries, productID uuid.UUID, qty domain.Quantity, discountLineID *uuid.UUID, at time.Time) (domain.Reservation, error) {
	var reservation domain.Reservation

	product, err := lockProduct(ctx, q, productID)
	if err != nil {
		return reservation, err
	}

	if !product.Active {
		return reservation, &domain.ProductInactiveError{ProductID: productID}
	}

	available := domain.Quantity(product.Stock)
	if available < qty {
		return reservation, &domain.OutOfStockError{
			ProductID: productID,
			Available: available,
			Requested: qty,
		}
	}

	if discountLineID != nil {
		if err := l.reserveLine(ctx, q, productID, *discountLineID, qty, at); err != nil {
			return reservation, err
		}
	}

	if _, err := q.AdjustProductStock(ctx, db.AdjustProductStockParams{
		Delta: -int32(qty),
		ID:    productID,
	}); err != nil {
		return reservation, fmt.Errorf("q.AdjustProductStock: %w", err)
	}

	return domain.Reservation{
		ProductID:      productID,
		Quantity:       qty,
		DiscountLineID: discountLineID,
	}, nil
}

// reserveLine re-checks the line under its row lock: the pricing read happened without locks.
func (l *stockLedger) reserveLine(ctx context.Context, q *db.Queries, productID, lineID uuid.UUID, qty domain.Quantity, at time.Time) error {
	d, err := lockLine(ctx, q, productID, lineID)
	if err != nil {
		return err
	}

	line := d.Line

	if !line.Active || !d.Offer.IsRunning(at) {
		return &domain.OutOfStockError{
			ProductID:      productID,
			DiscountLineID: &lineID,
			Available:      0,
			Requested:      qty,
		}
	}

	if !line.HasCapacity(qty) {
		remaining, _ := line.Remaining()
		return &domain.OutOfStockError{
			ProductID:      productID,
			DiscountLineID: &lineID,
			Available:      remaining,
			Requested:      qty,
		}
	}

	line.Sold += qty
	if remaining, capped := line.Remaining(); capped && remaining == 0 {
		line.Active = false
		line.SoldOutAt = &at
	}

	return updateLineSold(ctx, q, line)
}

func (l *stockLedger) Release(ctx context.Context, r domain.Reservation) error {
	if r.Quantity < 1 {
		return domain.ErrInvalidQuantity
	}

	_, err := withTx(ctx, l.dbtx, noResult(func(q *db.Queries) error {
		return l.release(ctx, q, r)
	}))
	if err != nil {
		return asContention(err, r.ProductID, r.Quantity)
	}

	return nil
}

func (l *stockLedger) release(ctx context.Context, q *db.Queries, r domain.Reservation) error {
	if _, err := lockProduct(ctx, q, r.ProductID); err != nil {
		return err
	}

	if r.DiscountLineID != nil {
		d, err := lockLine(ctx, q, r.ProductID, *r.DiscountLineID)
		if err != nil {
			return err
		}

		line := d.Line

		line.Sold -= min(r.Quantity, line.Sold)

		if l.opts.ReactivateOnRelease && !line.Active && line.SoldOutAt != nil {
			if remaining, capped := line.Remaining(); !capped || remaining > 0 {
				line.Active = true
				line.SoldOutAt = nil
			}
		}

		if err := updateLineSold(ctx, q, line); err != nil {
			return err
		}
	}

	if _, err := q.AdjustProductStock(ctx, db.AdjustProductStockParams{
		Delta: int32(r.Quantity),
		ID:    r.ProductID,
	}); err != nil {
		return fmt.Errorf("q.AdjustProductStock: %w", err)
	}

	return nil
}

func lockProduct(ctx context.Context, q *db.Queries, productID uuid.UUID) (db.Product, error) {
	product, err := q.LockProduct(ctx, productID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return product, fmt.Errorf("q.LockProduct: %w", domain.ErrProductNotFound)
		}
		return product, fmt.Errorf("q.LockProduct: %w", err)
	}

	return product, nil
}

func lockLine(ctx context.Context, q *db.Queries, productID, lineID uuid.UUID) (domain.ActiveDiscount, error) {
	row, err := q.LockDiscountLine(ctx, lineID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ActiveDiscount{}, fmt.Errorf("q.LockDiscountLine: %w", domain.ErrNotFound)
		}
		return domain.ActiveDiscount{}, fmt.Errorf("q.LockDiscountLine: %w", err)
	}

	if row.ProductID != productID {
		return domain.ActiveDiscount{}, fmt.Errorf("discount line %s does not belong to product %s", lineID, productID)
	}

	d, err := mapDBLineWithOfferToDomain(row)
	if err != nil {
		return d, fmt.Errorf("mapDBLineWithOfferToDomain: %w", err)
	}

	return d, nil
}

func updateLineSold(ctx context.Context, q *db.Queries, line domain.DiscountOfferLine) error {
	sold, err := toInt32(line.Sold.Int())
	if err != nil {
		return fmt.Errorf("sold: %w", err)
	}

	if err := q.UpdateDiscountLineSold(ctx, db.UpdateDiscountLineSoldParams{
		ID:        line.ID,
		Sold:      sold,
		Active:    line.Active,
		SoldOutAt: line.SoldOutAt,
	}); err != nil {
		return fmt.Errorf("q.UpdateDiscountLineSold: %w", err)
	}

	return nil
}

func asContention(err error, productID uuid.UUID, qty domain.Quantity) error {
	if !IsRetryable(err) {
		return err
	}

	return &domain.ContentionError{
		ProductID: productID,
		Requested: qty,
		Err:       err,
	}
}
