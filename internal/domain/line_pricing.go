package domain

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LinePricing is the price of a prospective line item at one instant.
type LinePricing struct {
	UnitPrice      Money
	OriginalPrice  *Money
	DiscountPct    decimal.Decimal
	IsDiscounted   bool
	Savings        Money
	LineTotal      Money
	DiscountLineID *uuid.UUID
}

func NewOrderItem(p Product, qty Quantity, pricing LinePricing) OrderItem {
	item := OrderItem{
		ProductID:       p.ID,
		ProductName:     p.Name,
		ProductSKU:      p.SKU,
		ProductCategory: p.Category,
		ProductImageURL: p.ImageURL,
		UnitPrice:       pricing.UnitPrice,
		Quantity:        qty,
		TotalPrice:      pricing.LineTotal,
		IsDiscounted:    pricing.IsDiscounted,
		OriginalPrice:   pricing.OriginalPrice,
		Savings:         pricing.Savings,
		DiscountLineID:  pricing.DiscountLineID,
	}

	if pricing.IsDiscounted {
		pct := pricing.DiscountPct
		item.DiscountPct = &pct
	}

	return item
}
