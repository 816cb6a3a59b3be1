package repository

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nikolayk812/flashcheckout/internal/db"
	"github.com/nikolayk812/flashcheckout/internal/domain"
	"github.com/nikolayk812/flashcheckout/internal/port"
	"golang.org/x/text/currency"
)

type catalogRepository struct {
	q    *db.Queries
	dbtx db.DBTX
}

func NewCatalog(pool *pgxpool.Pool) port.ProductCatalog {
	return &catalogRepository{
		q:    db.New(pool),
		dbtx: pool,
	}
}

func NewCatalogWithTx(tx pgx.Tx) port.ProductCatalog {
	return &catalogRepository{
		q:    db.New(tx),
		dbtx: tx, // use provided transaction instead
	}
}

func (r *catalogRepository) GetProduct(ctx context.Context, productID uuid.UUID) (domain.Product, error) {
	var p domain.Product

	dbProduct, err := r.q.GetProduct(ctx, productID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return p, fmt.Errorf("q.GetProduct: %w", domain.ErrProductNotFound)
		}
		return p, fmt.Errorf("q.GetProduct: %w", err)
	}

	p, err = mapDBProductToDomain(dbProduct)
	if err != nil {
		return p, fmt.Errorf("mapDBProductToDomain: %w", err)
	}

	return p, nil
}

func (r *catalogRepository) InsertProduct(ctx context.Context, product domain.Product) (uuid.UUID, error) {
	if product.SKU == "" {
		return uuid.Nil, errors.New("sku is empty")
	}

	stock, err := toInt32(product.Stock.Int())
	if err != nil {
		return uuid.Nil, fmt.Errorf("stock: %w", err)
	}

	productID, err := r.q.InsertProduct(ctx, db.InsertProductParams{
		Sku:           product.SKU,
		Name:          product.Name,
		Category:      product.Category,
		ImageUrl:      product.ImageURL,
		PriceAmount:   product.Price.Amount,
		PriceCurrency: product.Price.Currency.String(),
		Stock:         stock,
		Active:        product.Active,
	})
	if err != nil {
		return uuid.Nil, fmt.Errorf("q.InsertProduct: %w", err)
	}

	return productID, nil
}

// AdjustStock adds delta to the product stock and refuses to go below zero.
func (r *catalogRepository) AdjustStock(ctx context.Context, productID uuid.UUID, delta int) (domain.Quantity, error) {
	d, err := toInt32(delta)
	if err != nil {
		return 0, fmt.Errorf("delta: %w", err)
	}

	stock, err := r.q.AdjustProductStock(ctx, db.AdjustProductStockParams{
		Delta: d,
		ID:    productID,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, fmt.Errorf("q.AdjustProductStock: %w", domain.ErrProductNotFound)
		}
		return 0, fmt.Errorf("q.AdjustProductStock: %w", err)
	}

	return domain.Quantity(stock), nil
}

func mapDBProductToDomain(row db.Product) (domain.Product, error) {
	parsedCurrency, err := currency.ParseISO(row.PriceCurrency)
	if err != nil {
		return domain.Product{}, fmt.Errorf("currency[%s] is not valid: %w", row.PriceCurrency, err)
	}

	return domain.Product{
		ID:        row.ID,
		SKU:       row.Sku,
		Name:      row.Name,
		Category:  row.Category,
		ImageURL:  row.ImageUrl,
		Price:     domain.Money{Amount: row.PriceAmount, Currency: parsedCurrency},
		Stock:     domain.Quantity(row.Stock),
		Active:    row.Active,
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}, nil
}

func toInt32(n int) (int32, error) {
	if n > math.MaxInt32 || n < math.MinInt32 {
		return 0, fmt.Errorf("%d overflows int32", n)
	}
	return int32(n), nil
}
