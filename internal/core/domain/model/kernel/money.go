package kernel

import (
	"orderdesk/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

// Money is a non-negative decimal amount in the marketplace currency.
// The zero value is a valid zero amount.
type Money struct {
	amount decimal.Decimal
}

// NewMoney wraps a decimal amount, rejecting negative values.
func NewMoney(amount decimal.Decimal) (Money, error) {
	if amount.IsNegative() {
		return Money{}, errs.NewValueIsOutOfRangeError("amount", amount.String(), 0, "unbounded")
	}
	return Money{amount: amount}, nil
}

// MoneyFromString parses a decimal string such as "1250.50".
func MoneyFromString(s string) (Money, error) {
	if s == "" {
		return Money{}, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, errs.NewValueIsInvalidErrorWithCause("amount", err)
	}
	return NewMoney(d)
}

// MustMoney is NewMoney for literals known to be valid; it panics otherwise.
func MustMoney(s string) Money {
	m, err := MoneyFromString(s)
	if err != nil {
		panic(err)
	}
	return m
}

// Decimal returns the underlying decimal value.
func (m Money) Decimal() decimal.Decimal {
	return m.amount
}

// Add returns the sum of both amounts.
func (m Money) Add(other Money) Money {
	return Money{amount: m.amount.Add(other.amount)}
}

// IsZero reports whether the amount is zero.
func (m Money) IsZero() bool {
	return m.amount.IsZero()
}

// Equal compares amounts numerically, so "10" equals "10.00".
func (m Money) Equal(other Money) bool {
	return m.amount.Equal(other.amount)
}

// String renders the amount with two fractional digits.
func (m Money) String() string {
	return m.amount.StringFixed(2)
}
