package repository_test

import (
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/google/uuid"
	"github.com/nikolayk812/flashcheckout/internal/domain"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"golang.org/x/text/currency"
)

var storeCurrency = currency.MustParseISO("KES")

func money(amount float64) domain.Money {
	return domain.NewMoney(decimal.NewFromFloat(amount).Round(2), storeCurrency)
}

func randomProduct(stock int) domain.Product {
	return domain.Product{
		SKU:      gofakeit.UUID(),
		Name:     gofakeit.ProductName(),
		Category: gofakeit.ProductCategory(),
		ImageURL: lo.ToPtr(gofakeit.URL()),
		Price:    money(gofakeit.Price(100, 10_000)),
		Stock:    domain.Quantity(stock),
		Active:   true,
	}
}

func randomItem(discounted bool) domain.OrderItem {
	qty := domain.Quantity(gofakeit.IntRange(1, 5))
	unit := money(gofakeit.Price(10, 1_000))

	item := domain.OrderItem{
		ProductID:       uuid.MustParse(gofakeit.UUID()),
		ProductName:     gofakeit.ProductName(),
		ProductSKU:      gofakeit.UUID(),
		ProductCategory: gofakeit.ProductCategory(),
		UnitPrice:       unit,
		Quantity:        qty,
		TotalPrice:      unit.Mul(qty),
		Savings:         domain.ZeroMoney(storeCurrency),
	}

	if discounted {
		original := unit.Add(money(5))
		item.IsDiscounted = true
		item.OriginalPrice = &original
		item.DiscountPct = lo.ToPtr(decimal.NewFromInt(10))
		item.Savings = money(5).Mul(qty)
		item.DiscountLineID = lo.ToPtr(uuid.MustParse(gofakeit.UUID()))
		item.ProductImageURL = lo.ToPtr(gofakeit.URL())
	}

	return item
}

func randomOrder() domain.Order {
	items := []domain.OrderItem{randomItem(false), randomItem(true)}

	subtotal := items[0].TotalPrice.Add(items[1].TotalPrice)
	fee := money(250)
	zero := domain.ZeroMoney(storeCurrency)

	return domain.Order{
		Number: domain.NewOrderNumber(time.Now()),
		Customer: domain.CustomerInfo{
			Name:  gofakeit.Name(),
			Email: gofakeit.Email(),
			Phone: gofakeit.Phone(),
		},
		Delivery: domain.DeliveryInfo{
			Address: gofakeit.Street(),
			City:    gofakeit.City(),
			Zone:    gofakeit.State(),
			Notes:   gofakeit.Sentence(5),
		},
		Subtotal:           subtotal,
		Tax:                zero,
		DeliveryFee:        fee,
		DiscountAmount:     zero,
		Total:              subtotal.Add(fee),
		DiscountSavings:    items[1].Savings,
		Status:             domain.OrderStatusPending,
		PaymentMethod:      domain.PaymentMethodMpesa,
		PaymentStatus:      domain.PaymentStatusPending,
		HasDiscountedItems: true,
		Items:              items,
	}
}

func assertOrder(t *testing.T, expected, actual domain.Order) {
	t.Helper()

	opts := cmp.Options{
		cmp.Comparer(func(x, y currency.Unit) bool {
			return x.String() == y.String()
		}),
		cmp.Comparer(func(x, y decimal.Decimal) bool {
			return x.Equal(y)
		}),
		cmpopts.IgnoreFields(domain.Order{}, "ID", "CreatedAt", "UpdatedAt", "ConfirmedAt", "DeliveredAt", "CancelledAt"),
		cmpopts.IgnoreFields(domain.OrderItem{}, "ID", "CreatedAt"),
		cmpopts.EquateEmpty(),
	}

	diff := cmp.Diff(expected, actual, opts)
	assert.Empty(t, diff)
}
