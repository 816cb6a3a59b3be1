// Package pgtest starts a throwaway Postgres with the schema applied, for integration tests.
package pgtest

import (
	"context"
	"fmt"
	"path/filepath"
	"runtime"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
)

const image = "postgres:17-alpine"

func StartPostgres(ctx context.Context) (testcontainers.Container, string, error) {
	container, err := postgres.Run(ctx, image,
		postgres.WithDatabase("flashcheckout"),
		postgres.WithUsername("user"),
		postgres.WithPassword("password"),
		postgres.WithInitScripts(migrations()...),
		postgres.BasicWaitStrategies(),
	)
	if err != nil {
		return nil, "", fmt.Errorf("postgres.Run: %w", err)
	}

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		return container, "", fmt.Errorf("container.ConnectionString: %w", err)
	}

	return container, connStr, nil
}

// Truncate empties every table, children first.
func Truncate(ctx context.Context, pool *pgxpool.Pool) error {
	_, err := pool.Exec(ctx, `TRUNCATE cod_verifications, order_status_history, order_items, orders,
		discount_offer_lines, discount_offers, products`)
	if err != nil {
		return fmt.Errorf("pool.Exec: %w", err)
	}
	return nil
}

func migrations() []string {
	_, file, _, _ := runtime.Caller(0)
	dir := filepath.Join(filepath.Dir(file), "..", "db", "migrations")

	matches, _ := filepath.Glob(filepath.Join(dir, "*.sql"))
	return matches
}
