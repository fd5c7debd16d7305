package valueobject

import (
	"database/sql/driver"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Currency represents a currency code (ISO 4217)
type Currency string

const (
	USD Currency = "USD" // US Dollar
	EUR Currency = "EUR" // Euro
	GBP Currency = "GBP" // British Pound
	CAD Currency = "CAD" // Canadian Dollar
	AUD Currency = "AUD" // Australian Dollar
)

// DefaultCurrency is the default currency for the storefront
const DefaultCurrency = USD

// Money is a value object representing a monetary amount in minor units
// (cents for USD). It is immutable - all operations return new instances.
type Money struct {
	amount   int64
	currency Currency
}

// NewMoney creates a new Money with the specified minor-unit amount
func NewMoney(amount int64, currency Currency) (Money, error) {
	if currency == "" {
		return Money{}, errors.New("currency cannot be empty")
	}
	return Money{
		amount:   amount,
		currency: currency,
	}, nil
}

// NewMoneyUSD creates Money in USD
func NewMoneyUSD(amount int64) Money {
	return Money{amount: amount, currency: USD}
}

// Zero returns a zero-value Money in the specified currency
func Zero(currency Currency) Money {
	return Money{amount: 0, currency: currency}
}

// Amount returns the minor-unit amount
func (m Money) Amount() int64 {
	return m.amount
}

// Currency returns the currency code
func (m Money) Currency() Currency {
	return m.currency
}

// IsZero returns true if the amount is zero
func (m Money) IsZero() bool {
	return m.amount == 0
}

// IsPositive returns true if the amount is positive
func (m Money) IsPositive() bool {
	return m.amount > 0
}

// IsNegative returns true if the amount is negative
func (m Money) IsNegative() bool {
	return m.amount < 0
}

// Add returns a new Money with the sum of both amounts
// Returns error if currencies don't match
func (m Money) Add(other Money) (Money, error) {
	if m.currency != other.currency {
		return Money{}, fmt.Errorf("currency mismatch: %s vs %s", m.currency, other.currency)
	}
	return Money{amount: m.amount + other.amount, currency: m.currency}, nil
}

// Sub returns a new Money with the difference of both amounts
// Returns error if currencies don't match
func (m Money) Sub(other Money) (Money, error) {
	if m.currency != other.currency {
		return Money{}, fmt.Errorf("currency mismatch: %s vs %s", m.currency, other.currency)
	}
	return Money{amount: m.amount - other.amount, currency: m.currency}, nil
}

// Mul returns a new Money multiplied by an integer quantity
func (m Money) Mul(qty int64) Money {
	return Money{amount: m.amount * qty, currency: m.currency}
}

// Percent returns the given percentage of the amount, rounded half up
// to the nearest minor unit. The percentage may carry fractional digits.
func (m Money) Percent(pct decimal.Decimal) Money {
	amount := decimal.NewFromInt(m.amount).
		Mul(pct).
		Div(decimal.NewFromInt(100)).
		Round(0)
	return Money{amount: amount.IntPart(), currency: m.currency}
}

// Min returns the smaller of the two amounts
// Returns error if currencies don't match
func (m Money) Min(other Money) (Money, error) {
	if m.currency != other.currency {
		return Money{}, fmt.Errorf("currency mismatch: %s vs %s", m.currency, other.currency)
	}
	if other.amount < m.amount {
		return other, nil
	}
	return m, nil
}

// Equals returns true if both amount and currency match
func (m Money) Equals(other Money) bool {
	return m.amount == other.amount && m.currency == other.currency
}

// String returns a human-readable representation, e.g. "12.50 USD"
func (m Money) String() string {
	return fmt.Sprintf("%s %s", decimal.NewFromInt(m.amount).Shift(-2).StringFixed(2), m.currency)
}

// Value implements driver.Valuer for database persistence
func (m Money) Value() (driver.Value, error) {
	return m.amount, nil
}

// Scan implements sql.Scanner for database loading
func (m *Money) Scan(value interface{}) error {
	if value == nil {
		m.amount = 0
		m.currency = DefaultCurrency
		return nil
	}
	v, ok := value.(int64)
	if !ok {
		return fmt.Errorf("cannot scan %T into Money", value)
	}
	m.amount = v
	m.currency = DefaultCurrency
	return nil
}
