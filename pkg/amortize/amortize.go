// Package amortize computes simple-interest loan schedules. It is pure: no
// clock, no randomness, no state beyond the configured bounds.
package amortize

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/mwangaza/saccoledger/pkg/money"
)

var (
	ErrPrincipalTooSmall = errors.New("principal below minimum")
	ErrTermOutOfRange    = errors.New("term out of range")
	ErrNegativeRate      = errors.New("interest rate must not be negative")
)

type Schedule struct {
	TotalInterest  money.Money
	TotalPayable   money.Money
	MonthlyPayment money.Money
}

type Calculator struct {
	minPrincipal  int64
	maxTermMonths int
}

func New(minPrincipal int64, maxTermMonths int) *Calculator {
	return &Calculator{
		minPrincipal:  minPrincipal,
		maxTermMonths: maxTermMonths,
	}
}

// Plan derives the repayment schedule for a flat-rate loan. The quoted annual
// percentage charges a tenth of its figure per month of term, so a 10% loan
// accrues 1% of principal each month:
//
//	totalInterest  = principal * (annualRatePct / 10) * termMonths / 100
//	totalPayable   = principal + totalInterest
//	monthlyPayment = totalPayable / termMonths
//
// Each derived quantity is rounded to the minor unit exactly once.
func (c *Calculator) Plan(principal money.Money, annualRatePct decimal.Decimal, termMonths int) (*Schedule, error) {
	if principal.Amount() < c.minPrincipal {
		return nil, fmt.Errorf("%w: got %d, minimum %d", ErrPrincipalTooSmall, principal.Amount(), c.minPrincipal)
	}
	if termMonths < 1 || termMonths > c.maxTermMonths {
		return nil, fmt.Errorf("%w: got %d, want [1,%d]", ErrTermOutOfRange, termMonths, c.maxTermMonths)
	}
	if annualRatePct.IsNegative() {
		return nil, ErrNegativeRate
	}

	totalInterest := principal.MulRate(annualRatePct.Mul(decimal.NewFromInt(int64(termMonths))), 1000)
	totalPayable, err := principal.Add(totalInterest)
	if err != nil {
		return nil, err
	}
	monthly := money.FromDecimal(
		totalPayable.Decimal().Div(decimal.NewFromInt(int64(termMonths))),
		totalPayable.Currency(),
	)

	return &Schedule{
		TotalInterest:  totalInterest,
		TotalPayable:   totalPayable,
		MonthlyPayment: monthly,
	}, nil
}
