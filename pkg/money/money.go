// Package money provides currency-safe arithmetic for utility bills using
// integer minor units. Amounts arrive as decimals from the spreadsheet and
// are totalled here so rounding happens once per value.
package money

import (
	"encoding/json"
	"errors"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// Currency codes used by the water dashboards (ISO-4217).
const (
	BRL = "BRL" // Brazilian Real
	EUR = "EUR"
	USD = "USD"
)

// ErrCurrencyMismatch is returned when combining values of different currencies.
var ErrCurrencyMismatch = errors.New("currency mismatch")

// Money is a monetary value with its currency.
type Money struct {
	m *money.Money
}

// New creates Money from minor units (centavos) and a currency code.
func New(amountCents int64, currencyCode string) *Money {
	return &Money{m: money.New(amountCents, currencyCode)}
}

// NewFromDecimal creates Money from a decimal, rounding half away from zero
// to the currency's minor unit.
func NewFromDecimal(amount decimal.Decimal, currencyCode string) *Money {
	currency := money.GetCurrency(currencyCode)
	if currency == nil {
		currencyCode = BRL
		currency = money.GetCurrency(BRL)
	}

	multiplier := decimal.New(1, int32(currency.Fraction))
	cents := amount.Mul(multiplier).Round(0).IntPart()
	return New(cents, currencyCode)
}

// Zero returns a zero value in the given currency.
func Zero(currencyCode string) *Money {
	return New(0, currencyCode)
}

// Amount returns the amount in minor units.
func (m *Money) Amount() int64 {
	if m == nil || m.m == nil {
		return 0
	}
	return m.m.Amount()
}

// Currency returns the ISO-4217 code.
func (m *Money) Currency() string {
	if m == nil || m.m == nil {
		return ""
	}
	return m.m.Currency().Code
}

func (m *Money) IsZero() bool {
	return m == nil || m.m == nil || m.m.IsZero()
}

func (m *Money) IsPositive() bool {
	return m != nil && m.m != nil && m.m.IsPositive()
}

// Add returns m + other. Nil operands count as zero.
func (m *Money) Add(other *Money) (*Money, error) {
	if m == nil || m.m == nil {
		return other, nil
	}
	if other == nil || other.m == nil {
		return m, nil
	}

	result, err := m.m.Add(other.m)
	if err != nil {
		return nil, ErrCurrencyMismatch
	}
	return &Money{m: result}, nil
}

// Sum adds values in one currency. An empty input yields zero.
func Sum(currencyCode string, values ...*Money) (*Money, error) {
	total := Zero(currencyCode)
	for _, v := range values {
		var err error
		if total, err = total.Add(v); err != nil {
			return nil, err
		}
	}
	return total, nil
}

// DivideDecimal divides by a decimal, rounding to the minor unit.
// A zero divisor yields zero.
func (m *Money) DivideDecimal(divisor decimal.Decimal) *Money {
	if m == nil || m.m == nil || divisor.IsZero() {
		return Zero(m.Currency())
	}
	return NewFromDecimal(m.ToDecimal().Div(divisor), m.Currency())
}

// PercentageOf returns m as a percentage of total, to two places.
func (m *Money) PercentageOf(total *Money) decimal.Decimal {
	if m == nil || total == nil || total.IsZero() {
		return decimal.Zero
	}
	return m.ToDecimal().Div(total.ToDecimal()).Mul(decimal.NewFromInt(100)).Round(2)
}

// Display returns the amount formatted for its currency (e.g. "R$1.234,56").
func (m *Money) Display() string {
	if m == nil || m.m == nil {
		return ""
	}
	return m.m.Display()
}

// String returns the amount as a plain decimal string (e.g. "1234.56").
func (m *Money) String() string {
	return m.ToDecimal().StringFixed(m.fraction())
}

// ToDecimal converts to a decimal in major units.
func (m *Money) ToDecimal() decimal.Decimal {
	if m == nil || m.m == nil {
		return decimal.Zero
	}
	return decimal.New(m.m.Amount(), -m.fraction())
}

func (m *Money) fraction() int32 {
	if m == nil || m.m == nil {
		return 2
	}
	return int32(m.m.Currency().Fraction)
}

func (m *Money) MarshalJSON() ([]byte, error) {
	if m == nil || m.m == nil {
		return json.Marshal(nil)
	}
	return json.Marshal(map[string]any{
		"amount":   m.String(),
		"currency": m.Currency(),
		"display":  m.Display(),
	})
}
