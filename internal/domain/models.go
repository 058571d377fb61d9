package domain

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/mwangaza/saccoledger/pkg/money"
)

type LoanStatus string

const (
	// LoanStatusPending is an application received and awaiting review.
	LoanStatusPending LoanStatus = "pending"
	// LoanStatusApproved means review passed, funds not yet disbursed.
	LoanStatusApproved LoanStatus = "approved"
	// LoanStatusRejected is a declined application, terminal.
	LoanStatusRejected LoanStatus = "rejected"
	// LoanStatusActive means funds disbursed, repayment in progress.
	LoanStatusActive LoanStatus = "active"
	// LoanStatusPaid is a fully repaid loan, terminal.
	LoanStatusPaid LoanStatus = "paid"
)

// Open reports whether s is a non-terminal status. A member may hold at most
// one open loan.
func (s LoanStatus) Open() bool {
	return s == LoanStatusPending || s == LoanStatusApproved || s == LoanStatusActive
}

type TransactionType string

const (
	TransactionTypeDeposit      TransactionType = "deposit"
	TransactionTypeWithdrawal   TransactionType = "withdrawal"
	TransactionTypeLoanPayment  TransactionType = "loan_payment"
	TransactionTypeDisbursement TransactionType = "loan_disbursement"
	TransactionTypeInterest     TransactionType = "interest_earned"
)

type TransactionStatus string

const (
	TransactionStatusPending   TransactionStatus = "pending"
	TransactionStatusCompleted TransactionStatus = "completed"
	TransactionStatusFailed    TransactionStatus = "failed"
)

type PaymentType string

const (
	PaymentTypePartial PaymentType = "partial"
	PaymentTypeFull    PaymentType = "full"
)

type Member struct {
	ID             string
	Name           string
	SavingsBalance money.Money
	LoanBalance    money.Money
	Active         bool
	CreatedAt      time.Time
}

type Loan struct {
	ID               string
	MemberID         string
	Principal        money.Money
	InterestRatePct  decimal.Decimal
	TermMonths       int
	Purpose          string
	Collateral       string
	GuarantorIDs     []string
	Status           LoanStatus
	TotalInterest    money.Money
	TotalPayable     money.Money
	MonthlyPayment   money.Money
	RemainingBalance money.Money
	TotalPaid        money.Money
	ApprovedBy       string
	ApprovedAt       *time.Time
	DisbursedAt      *time.Time
	RejectReason     string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// PaymentProgress is TotalPaid/TotalPayable in [0,1], recomputed from the
// stored totals on every call.
func (l *Loan) PaymentProgress() decimal.Decimal {
	if !l.TotalPayable.IsPositive() {
		return decimal.Zero
	}
	return l.TotalPaid.Decimal().DivRound(l.TotalPayable.Decimal(), 4)
}

type Payment struct {
	ID           string
	LoanID       string
	Amount       money.Money
	Method       string
	BalanceAfter money.Money
	Type         PaymentType
	PaidAt       time.Time
}

// Transaction is an append-only ledger entry. Once written only Status may
// change (pending -> completed/failed for asynchronous payment methods).
type Transaction struct {
	ID           string
	Receipt      string
	MemberID     string
	Type         TransactionType
	Amount       money.Money
	BalanceAfter money.Money
	Method       string
	Description  string
	Status       TransactionStatus
	PeriodFrom   *time.Time
	PeriodTo     *time.Time
	CreatedAt    time.Time
}

// Signed returns the transaction's effect on the savings balance in minor
// units: credits positive, debits negative.
func (t *Transaction) Signed() int64 {
	switch t.Type {
	case TransactionTypeWithdrawal, TransactionTypeLoanPayment:
		return -t.Amount.Amount()
	case TransactionTypeDeposit, TransactionTypeInterest:
		return t.Amount.Amount()
	}
	return 0
}
