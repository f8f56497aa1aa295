package valueobject

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Currency represents a currency code (ISO 4217)
type Currency string

const (
	NGN Currency = "NGN" // Nigerian Naira (default)
	USD Currency = "USD" // US Dollar
	GBP Currency = "GBP" // British Pound
)

// DefaultCurrency is the currency every ledger amount is recorded in
const DefaultCurrency = NGN

// MoneyPlaces is the number of decimal places a monetary amount keeps
const MoneyPlaces int32 = 2

var hundred = decimal.NewFromInt(100)

// Round2 rounds to two decimal places, half away from zero on the cent boundary.
// Round2(Round2(x)) == Round2(x).
func Round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(MoneyPlaces)
}

// Round2Float rounds a float amount through decimal arithmetic
func Round2Float(f float64) decimal.Decimal {
	return Round2(decimal.NewFromFloat(f))
}

// Sum adds amounts and rounds the result
func Sum(amounts ...decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, a := range amounts {
		total = total.Add(a)
	}
	return Round2(total)
}

// Percentage returns Round2(d * percent / 100)
func Percentage(d, percent decimal.Decimal) decimal.Decimal {
	return Round2(d.Mul(percent).Div(hundred))
}

// Ratio returns Round2(part / whole * 100), or zero when whole is zero
func Ratio(part, whole decimal.Decimal) decimal.Decimal {
	if whole.IsZero() {
		return decimal.Zero
	}
	return Round2(part.Div(whole).Mul(hundred))
}

const nairaSign = "₦"

// FormatNaira renders an amount as naira with thousands separators, e.g. ₦1,234.50
func FormatNaira(d decimal.Decimal) string {
	d = Round2(d)
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Abs()
	}
	whole := d.Truncate(0)
	cents := d.Sub(whole).Shift(2).IntPart()

	p := message.NewPrinter(language.English)
	return fmt.Sprintf("%s%s%s.%02d", sign, nairaSign, p.Sprintf("%d", whole.IntPart()), cents)
}

// Money is a value object representing monetary amounts
// It is immutable - all operations return new Money instances
type Money struct {
	amount   decimal.Decimal
	currency Currency
}

// NewMoney creates a new Money with the specified amount and currency
func NewMoney(amount decimal.Decimal, currency Currency) (Money, error) {
	if currency == "" {
		return Money{}, errors.New("currency cannot be empty")
	}
	return Money{
		amount:   Round2(amount),
		currency: currency,
	}, nil
}

// NewMoneyFromString creates Money from a string representation
func NewMoneyFromString(amount string, currency Currency) (Money, error) {
	d, err := decimal.NewFromString(amount)
	if err != nil {
		return Money{}, fmt.Errorf("invalid amount string: %w", err)
	}
	return NewMoney(d, currency)
}

// NewMoneyNGN creates Money in NGN
func NewMoneyNGN(amount decimal.Decimal) Money {
	return Money{amount: Round2(amount), currency: NGN}
}

// NewMoneyNGNFromFloat creates Money in NGN from float64
func NewMoneyNGNFromFloat(amount float64) Money {
	return Money{amount: Round2Float(amount), currency: NGN}
}

// Zero returns a zero-value Money in the specified currency
func Zero(currency Currency) Money {
	return Money{amount: decimal.Zero, currency: currency}
}

// Amount returns the decimal amount
func (m Money) Amount() decimal.Decimal {
	return m.amount
}

// Currency returns the currency code
func (m Money) Currency() Currency {
	return m.currency
}

// IsZero returns true if the amount is zero
func (m Money) IsZero() bool {
	return m.amount.IsZero()
}

// IsPositive returns true if the amount is positive
func (m Money) IsPositive() bool {
	return m.amount.IsPositive()
}

// IsNegative returns true if the amount is negative
func (m Money) IsNegative() bool {
	return m.amount.IsNegative()
}

// Add returns a new Money with the sum of both amounts
// Returns error if currencies don't match
func (m Money) Add(other Money) (Money, error) {
	if m.currency != other.currency {
		return Money{}, fmt.Errorf("cannot add money with different currencies: %s and %s", m.currency, other.currency)
	}
	return Money{
		amount:   Round2(m.amount.Add(other.amount)),
		currency: m.currency,
	}, nil
}

// Subtract returns a new Money with the difference
// Returns error if currencies don't match
func (m Money) Subtract(other Money) (Money, error) {
	if m.currency != other.currency {
		return Money{}, fmt.Errorf("cannot subtract money with different currencies: %s and %s", m.currency, other.currency)
	}
	return Money{
		amount:   Round2(m.amount.Sub(other.amount)),
		currency: m.currency,
	}, nil
}

// Multiply returns a new Money multiplied by the given factor
func (m Money) Multiply(factor decimal.Decimal) Money {
	return Money{
		amount:   Round2(m.amount.Mul(factor)),
		currency: m.currency,
	}
}

// Negate returns a new Money with the sign reversed
func (m Money) Negate() Money {
	return Money{
		amount:   m.amount.Neg(),
		currency: m.currency,
	}
}

// Abs returns a new Money with the absolute value
func (m Money) Abs() Money {
	return Money{
		amount:   m.amount.Abs(),
		currency: m.currency,
	}
}

// Equals returns true if both Money values are equal (same amount and currency)
func (m Money) Equals(other Money) bool {
	return m.currency == other.currency && m.amount.Equal(other.amount)
}

// GreaterThan returns true if this Money is greater than the other
func (m Money) GreaterThan(other Money) (bool, error) {
	if m.currency != other.currency {
		return false, fmt.Errorf("cannot compare money with different currencies: %s and %s", m.currency, other.currency)
	}
	return m.amount.GreaterThan(other.amount), nil
}

// String returns a string representation of the Money
func (m Money) String() string {
	return fmt.Sprintf("%s %s", m.currency, m.amount.StringFixed(MoneyPlaces))
}

// Float64 returns the amount as a float64 (may lose precision)
func (m Money) Float64() float64 {
	return m.amount.InexactFloat64()
}

// MarshalJSON implements json.Marshaler
func (m Money) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Amount   float64  `json:"amount"`
		Currency Currency `json:"currency"`
	}{
		Amount:   m.amount.InexactFloat64(),
		Currency: m.currency,
	})
}

// Value implements driver.Valuer for database storage
// Stores as a numeric value (amount only)
func (m Money) Value() (driver.Value, error) {
	return m.amount.StringFixed(MoneyPlaces), nil
}

// Scan implements sql.Scanner for database retrieval.
// Only the amount is stored; currency defaults to DefaultCurrency.
func (m *Money) Scan(value any) error {
	if value == nil {
		m.amount = decimal.Zero
		m.currency = DefaultCurrency
		return nil
	}

	var d decimal.Decimal
	if err := d.Scan(value); err != nil {
		return fmt.Errorf("cannot scan %T into Money: %w", value, err)
	}
	m.amount = Round2(d)
	if m.currency == "" {
		m.currency = DefaultCurrency
	}
	return nil
}
