package money

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var ErrCurrencyMismatch = errors.New("currency mismatch")

// Money is an exact amount in a currency's minor unit (e.g. cents). It never
// holds a binary float; rate math goes through decimal and is rounded back to
// the minor unit exactly once per derived quantity.
type Money struct {
	amount   int64
	currency string
}

func New(amount int64, currency string) Money {
	return Money{amount: amount, currency: currency}
}

func Zero(currency string) Money {
	return Money{currency: currency}
}

// FromDecimal rounds d to the nearest minor unit, half away from zero.
func FromDecimal(d decimal.Decimal, currency string) Money {
	return Money{amount: d.Round(0).IntPart(), currency: currency}
}

func (m Money) Amount() int64 {
	return m.amount
}

func (m Money) Currency() string {
	return m.currency
}

func (m Money) Decimal() decimal.Decimal {
	return decimal.NewFromInt(m.amount)
}

func (m Money) Add(o Money) (Money, error) {
	if err := m.sameCurrency(o); err != nil {
		return Money{}, err
	}
	return Money{amount: m.amount + o.amount, currency: m.currency}, nil
}

func (m Money) Sub(o Money) (Money, error) {
	if err := m.sameCurrency(o); err != nil {
		return Money{}, err
	}
	return Money{amount: m.amount - o.amount, currency: m.currency}, nil
}

// MulRate applies a percentage rate over the given basis (e.g. rate=10,
// basis=100 means 10%) and rounds the result to the minor unit once.
func (m Money) MulRate(rate decimal.Decimal, basis int64) Money {
	product := m.Decimal().Mul(rate).Div(decimal.NewFromInt(basis))
	return FromDecimal(product, m.currency)
}

func (m Money) Cmp(o Money) (int, error) {
	if err := m.sameCurrency(o); err != nil {
		return 0, err
	}
	switch {
	case m.amount < o.amount:
		return -1, nil
	case m.amount > o.amount:
		return 1, nil
	}
	return 0, nil
}

func (m Money) LessThan(o Money) (bool, error) {
	c, err := m.Cmp(o)
	return c < 0, err
}

func (m Money) IsNegative() bool {
	return m.amount < 0
}

func (m Money) IsZero() bool {
	return m.amount == 0
}

func (m Money) IsPositive() bool {
	return m.amount > 0
}

func (m Money) String() string {
	return fmt.Sprintf("%d %s", m.amount, m.currency)
}

func (m Money) sameCurrency(o Money) error {
	if m.currency != o.currency {
		return fmt.Errorf("%w: %s vs %s", ErrCurrencyMismatch, m.currency, o.currency)
	}
	return nil
}
