package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nikolayk812/flashcheckout/internal/db"
	"github.com/nikolayk812/flashcheckout/internal/port"
)

// withTx executes fn within a transaction if the repository was created with a pool,
// or uses the existing transaction if the repository was created with a transaction
func withTx[T any](ctx context.Context, dbtx db.DBTX, fn func(q *db.Queries) (T, error)) (_ T, txErr error) {
	var zero T

	// Already in a transaction, just use it
	if tx, ok := dbtx.(pgx.Tx); ok {
		return fn(db.New(tx))
	}

	pool, ok := dbtx.(*pgxpool.Pool)
	if !ok {
		return zero, fmt.Errorf("dbtx is neither pgx.Tx nor *pgxpool.Pool: %T", dbtx)
	}

	tx, err := pool.Begin(ctx)
	if err != nil {
		return zero, fmt.Errorf("pool.Begin: %w", err)
	}

	defer func() {
		if txErr != nil {
			rollbackErr := tx.Rollback(ctx)
			if rollbackErr != nil && !errors.Is(rollbackErr, pgx.ErrTxClosed) {
				txErr = errors.Join(txErr, fmt.Errorf("tx.Rollback: %w", rollbackErr))
			}
		}
	}()

	result, err := fn(db.New(tx))
	if err != nil {
		return zero, err
	}

	if err := tx.Commit(ctx); err != nil {
		return zero, fmt.Errorf("tx.Commit: %w", err)
	}

	return result, nil
}

// noResult adapts a func without a result value to withTx.
func noResult(fn func(q *db.Queries) error) func(q *db.Queries) (struct{}, error) {
	return func(q *db.Queries) (struct{}, error) {
		return struct{}{}, fn(q)
	}
}

type txRunner struct {
	pool   *pgxpool.Pool
	ledger LedgerOptions
}

func NewTxRunner(pool *pgxpool.Pool, ledger LedgerOptions) port.TxRunner {
	return &txRunner{
		pool:   pool,
		ledger: ledger,
	}
}

// WithinTx runs fn with repositories bound to a single transaction.
// The transaction commits when fn returns nil and rolls back otherwise.
func (r *txRunner) WithinTx(ctx context.Context, fn func(ctx context.Context, store port.Store) error) (txErr error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("pool.Begin: %w", err)
	}

	defer func() {
		if txErr != nil {
			rollbackErr := tx.Rollback(ctx)
			if rollbackErr != nil && !errors.Is(rollbackErr, pgx.ErrTxClosed) {
				txErr = errors.Join(txErr, fmt.Errorf("tx.Rollback: %w", rollbackErr))
			}
		}
	}()

	store := port.Store{
		Orders:    NewOrderWithTx(tx),
		Discounts: NewDiscountWithTx(tx),
		Catalog:   NewCatalogWithTx(tx),
		Ledger:    NewStockLedgerWithTx(tx, r.ledger),
	}

	if err := fn(ctx, store); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("tx.Commit: %w", err)
	}

	return nil
}

// Postgres error codes for lock races that are safe to retry.
const (
	pgSerializationFailure = "40001"
	pgDeadlockDetected     = "40P01"
	pgLockNotAvailable     = "55P03"
)

func IsRetryable(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}

	switch pgErr.Code {
	case pgSerializationFailure, pgDeadlockDetected, pgLockNotAvailable:
		return true
	}
	return false
}
