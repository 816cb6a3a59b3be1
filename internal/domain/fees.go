package domain

import (
	"slices"
	"strings"

	"github.com/shopspring/decimal"
)

// DeliveryFeeRule charges RemoteFee for remote zones, nothing at or above
// FreeThreshold, and FlatFee otherwise.
type DeliveryFeeRule struct {
	FreeThreshold decimal.Decimal
	FlatFee       decimal.Decimal
	RemoteFee     decimal.Decimal
	RemoteZones   []string
}

func (r DeliveryFeeRule) Fee(subtotal Money, zone string) Money {
	if r.isRemote(zone) {
		return NewMoney(r.RemoteFee, subtotal.Currency)
	}
	if subtotal.Amount.GreaterThanOrEqual(r.FreeThreshold) {
		return ZeroMoney(subtotal.Currency)
	}
	return NewMoney(r.FlatFee, subtotal.Currency)
}

func (r DeliveryFeeRule) isRemote(zone string) bool {
	zone = strings.TrimSpace(zone)
	if zone == "" {
		return false
	}
	return slices.ContainsFunc(r.RemoteZones, func(z string) bool {
		return strings.EqualFold(z, zone)
	})
}

type TaxRule interface {
	Tax(subtotal Money) Money
}

type ZeroTax struct{}

func (ZeroTax) Tax(subtotal Money) Money {
	return ZeroMoney(subtotal.Currency)
}

// FlatRateTax applies Rate (0.18 for 18%) to the subtotal, rounded to two places.
type FlatRateTax struct {
	Rate decimal.Decimal
}

func (t FlatRateTax) Tax(subtotal Money) Money {
	return NewMoney(subtotal.Amount.Mul(t.Rate).Round(2), subtotal.Currency)
}
