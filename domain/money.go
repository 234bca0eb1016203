package domain

import (
	"github.com/shopspring/decimal"
)

// =============================================================================
// MONEY - Currency amount backed by decimal.Decimal
// =============================================================================

// Money is a currency amount. It wraps decimal.Decimal so that sums,
// shares and report totals are exact.
type Money struct {
	Value decimal.Decimal
}

func NewMoney(value float64) Money { return Money{Value: decimal.NewFromFloat(value)} }

func MoneyFromInt(value int) Money { return Money{Value: decimal.NewFromInt(int64(value))} }

func MoneyFromDecimal(d decimal.Decimal) Money { return Money{Value: d} }

// MustParseMoney parses a decimal string, panicking on malformed input.
// For trusted values only (stored data, literals in fixtures and tests).
func MustParseMoney(s string) Money {
	return Money{Value: decimal.RequireFromString(s)}
}

func (m Money) Add(o Money) Money           { return Money{Value: m.Value.Add(o.Value)} }
func (m Money) Sub(o Money) Money           { return Money{Value: m.Value.Sub(o.Value)} }
func (m Money) Mul(s decimal.Decimal) Money { return Money{Value: m.Value.Mul(s)} }
func (m Money) Div(s decimal.Decimal) Money { return Money{Value: m.Value.Div(s)} }
func (m Money) Neg() Money                  { return Money{Value: m.Value.Neg()} }
func (m Money) IsZero() bool                { return m.Value.IsZero() }
func (m Money) IsNegative() bool            { return m.Value.IsNegative() }
func (m Money) IsPositive() bool            { return m.Value.IsPositive() }
func (m Money) Equal(o Money) bool          { return m.Value.Equal(o.Value) }
func (m Money) GreaterThan(o Money) bool    { return m.Value.GreaterThan(o.Value) }
func (m Money) LessThan(o Money) bool       { return m.Value.LessThan(o.Value) }

// String renders with two decimal places, the display convention for
// currency throughout the system.
func (m Money) String() string { return m.Value.StringFixed(2) }

func (m Money) MarshalJSON() ([]byte, error) { return m.Value.MarshalJSON() }

func (m *Money) UnmarshalJSON(b []byte) error { return m.Value.UnmarshalJSON(b) }
