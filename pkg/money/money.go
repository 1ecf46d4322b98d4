// Package money formats and sums statement amounts in integer minor units
// using go-money, so totals never drift through float arithmetic.
package money

import (
	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// INR is the currency of every supported statement
const INR = "INR"

// Money represents a monetary value with currency.
// It wraps go-money for safe arithmetic and shopspring/decimal for conversions.
type Money struct {
	m *money.Money
}

// New creates a new Money value from minor units and a currency code.
func New(amountMinor int64, currencyCode string) *Money {
	return &Money{m: money.New(amountMinor, currencyCode)}
}

// NewFromDecimal creates Money from a decimal amount, rounding half away from
// zero to the currency's minor unit.
func NewFromDecimal(amount decimal.Decimal, currencyCode string) *Money {
	currency := money.GetCurrency(currencyCode)
	if currency == nil {
		currency = money.GetCurrency(INR)
		currencyCode = INR
	}

	multiplier := decimal.New(1, int32(currency.Fraction))
	minor := amount.Mul(multiplier).Round(0).IntPart()

	return New(minor, currencyCode)
}

// Zero returns a zero Money value for the given currency
func Zero(currencyCode string) *Money {
	return New(0, currencyCode)
}

// Add adds two Money values. Returns error if currencies don't match.
func (m *Money) Add(other *Money) (*Money, error) {
	if m == nil || m.m == nil {
		return other, nil
	}
	if other == nil || other.m == nil {
		return m, nil
	}

	result, err := m.m.Add(other.m)
	if err != nil {
		return nil, err
	}
	return &Money{m: result}, nil
}

// Sum totals amounts in one currency
func Sum(currencyCode string, amounts ...decimal.Decimal) *Money {
	total := Zero(currencyCode)
	for _, a := range amounts {
		// same currency by construction
		total, _ = total.Add(NewFromDecimal(a, currencyCode))
	}
	return total
}

// Display returns a formatted string for display (e.g., "₹1,234.56")
func (m *Money) Display() string {
	if m == nil || m.m == nil {
		return Zero(INR).Display()
	}
	return m.m.Display()
}

// ToDecimal converts to decimal.Decimal for precise calculations
func (m *Money) ToDecimal() decimal.Decimal {
	if m == nil || m.m == nil {
		return decimal.Zero
	}
	currency := m.m.Currency()
	return decimal.New(m.m.Amount(), -int32(currency.Fraction))
}
