package money

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestAddSub(t *testing.T) {
	a := New(5000, "KES")
	b := New(1500, "KES")

	sum, err := a.Add(b)
	assert.NoError(t, err)
	assert.Equal(t, int64(6500), sum.Amount())

	diff, err := a.Sub(b)
	assert.NoError(t, err)
	assert.Equal(t, int64(3500), diff.Amount())
}

func TestCurrencyMismatch(t *testing.T) {
	a := New(100, "KES")
	b := New(100, "UGX")

	_, err := a.Add(b)
	assert.ErrorIs(t, err, ErrCurrencyMismatch)

	_, err = a.Sub(b)
	assert.ErrorIs(t, err, ErrCurrencyMismatch)

	_, err = a.Cmp(b)
	assert.ErrorIs(t, err, ErrCurrencyMismatch)
}

func TestMulRate(t *testing.T) {
	tests := []struct {
		name     string
		amount   int64
		rate     string
		basis    int64
		expected int64
	}{
		{name: "Ten percent", amount: 100000, rate: "10", basis: 100, expected: 10000},
		{name: "Rounds half up", amount: 5, rate: "50", basis: 100, expected: 3},
		{name: "Rounds down below half", amount: 100, rate: "1.4", basis: 100, expected: 1},
		{name: "Zero rate", amount: 100000, rate: "0", basis: 100, expected: 0},
		{
			// balance=100000, 5% annual over 30 days: 100000 * 5*30 / 36500 = 410.96 -> 411
			name:     "Daily interest rounding",
			amount:   100000,
			rate:     "150",
			basis:    36500,
			expected: 411,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := New(tt.amount, "KES")
			got := m.MulRate(decimal.RequireFromString(tt.rate), tt.basis)
			assert.Equal(t, tt.expected, got.Amount())
			assert.Equal(t, "KES", got.Currency())
		})
	}
}

func TestCmp(t *testing.T) {
	a := New(100, "KES")
	b := New(200, "KES")

	c, err := a.Cmp(b)
	assert.NoError(t, err)
	assert.Equal(t, -1, c)

	less, err := b.LessThan(a)
	assert.NoError(t, err)
	assert.False(t, less)

	eq, err := a.Cmp(New(100, "KES"))
	assert.NoError(t, err)
	assert.Equal(t, 0, eq)
}

func TestPredicates(t *testing.T) {
	assert.True(t, New(-1, "KES").IsNegative())
	assert.True(t, Zero("KES").IsZero())
	assert.True(t, New(1, "KES").IsPositive())
	assert.False(t, New(1, "KES").IsNegative())
}

func TestFromDecimal(t *testing.T) {
	assert.Equal(t, int64(411), FromDecimal(decimal.RequireFromString("410.96"), "KES").Amount())
	assert.Equal(t, int64(410), FromDecimal(decimal.RequireFromString("410.49"), "KES").Amount())
	assert.Equal(t, int64(411), FromDecimal(decimal.RequireFromString("410.5"), "KES").Amount())
}
