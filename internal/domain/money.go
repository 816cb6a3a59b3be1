package domain

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
)

// Money is a fixed-point amount in a single currency.
// Arithmetic helpers assume both operands share the currency of the receiver.
type Money struct {
	Amount   decimal.Decimal
	Currency currency.Unit
}

func NewMoney(amount decimal.Decimal, cur currency.Unit) Money {
	return Money{Amount: amount, Currency: cur}
}

func ZeroMoney(cur currency.Unit) Money {
	return Money{Amount: decimal.Zero, Currency: cur}
}

func (m Money) Add(o Money) Money {
	return Money{Amount: m.Amount.Add(o.Amount), Currency: m.Currency}
}

func (m Money) Sub(o Money) Money {
	return Money{Amount: m.Amount.Sub(o.Amount), Currency: m.Currency}
}

func (m Money) Mul(q Quantity) Money {
	return Money{Amount: m.Amount.Mul(q.Decimal()), Currency: m.Currency}
}

func (m Money) IsZero() bool {
	return m.Amount.IsZero()
}

func (m Money) IsNegative() bool {
	return m.Amount.IsNegative()
}

// Max0 clamps a negative amount to zero.
func (m Money) Max0() Money {
	if m.IsNegative() {
		return ZeroMoney(m.Currency)
	}
	return m
}

func (m Money) Equal(o Money) bool {
	return m.Amount.Equal(o.Amount) && m.Currency.String() == o.Currency.String()
}

func (m Money) SameCurrency(o Money) bool {
	return m.Currency.String() == o.Currency.String()
}

func (m Money) String() string {
	return fmt.Sprintf("%s %s", m.Amount.StringFixed(2), m.Currency.String())
}

type moneyJSON struct {
	Amount   decimal.Decimal `json:"amount"`
	Currency string          `json:"currency"`
}

func (m Money) MarshalJSON() ([]byte, error) {
	return json.Marshal(moneyJSON{Amount: m.Amount, Currency: m.Currency.String()})
}

func (m *Money) UnmarshalJSON(data []byte) error {
	var raw moneyJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("json.Unmarshal: %w", err)
	}

	parsedCurrency, err := currency.ParseISO(raw.Currency)
	if err != nil {
		return fmt.Errorf("currency[%s] is not valid: %w", raw.Currency, err)
	}

	m.Amount = raw.Amount
	m.Currency = parsedCurrency
	return nil
}

var ErrNegativeQuantity = errors.New("quantity is negative")

// Quantity is a non-negative count of units.
type Quantity int

func NewQuantity(n int) (Quantity, error) {
	if n < 0 {
		return 0, ErrNegativeQuantity
	}
	return Quantity(n), nil
}

func (q Quantity) Int() int {
	return int(q)
}

func (q Quantity) Decimal() decimal.Decimal {
	return decimal.NewFromInt(int64(q))
}
