package loanrepo

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/mwangaza/saccoledger/internal/domain"
	"github.com/mwangaza/saccoledger/internal/pg"
	"github.com/mwangaza/saccoledger/pkg/money"
)

const loanColumns = `
        id, member_id, principal, currency, interest_rate_pct, term_months,
        purpose, collateral, guarantor_ids, status, total_interest, total_payable,
        monthly_payment, remaining_balance, total_paid, approved_by, approved_at,
        disbursed_at, reject_reason, created_at, updated_at`

type Repository struct {
	db        pg.Database
	txManager pg.TXManager
}

func New(db pg.Database, txManager pg.TXManager) *Repository {
	return &Repository{
		db:        db,
		txManager: txManager,
	}
}

func (r *Repository) FindByID(ctx context.Context, loanID string) (*domain.Loan, error) {
	query := `SELECT` + loanColumns + `
        FROM loans
        WHERE id = $1
    `
	loan, err := scanLoan(r.db.QueryRow(ctx, query, loanID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		zap.L().Error("can't find loan", zap.Error(err))
		return nil, err
	}
	return loan, nil
}

// FindOpenByMemberID returns the member's non-terminal loan, if any. At most
// one can exist.
func (r *Repository) FindOpenByMemberID(ctx context.Context, memberID string) (*domain.Loan, error) {
	query := `SELECT` + loanColumns + `
        FROM loans
        WHERE member_id = $1 AND status IN ('pending', 'approved', 'active')
        LIMIT 1
    `
	loan, err := scanLoan(r.db.QueryRow(ctx, query, memberID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		zap.L().Error("can't find open loan", zap.Error(err))
		return nil, err
	}
	return loan, nil
}

func (r *Repository) FindByMemberID(ctx context.Context, memberID string) ([]domain.Loan, error) {
	query := `SELECT` + loanColumns + `
        FROM loans
        WHERE member_id = $1
        ORDER BY created_at DESC
    `
	rows, err := r.db.Query(ctx, query, memberID)
	if err != nil {
		zap.L().Error("can't get loans", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var loans []domain.Loan
	for rows.Next() {
		loan, err := scanLoan(rows)
		if err != nil {
			zap.L().Error("can't scan loan row", zap.Error(err))
			return nil, err
		}
		loans = append(loans, *loan)
	}
	return loans, nil
}

func (r *Repository) Save(ctx context.Context, loan *domain.Loan) error {
	query := `
        INSERT INTO loans (id, member_id, principal, currency, interest_rate_pct, term_months,
            purpose, collateral, guarantor_ids, status, total_interest, total_payable,
            monthly_payment, remaining_balance, total_paid, approved_by, reject_reason,
            created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)
    `
	err := r.txManager.Begin(ctx, func(ctx context.Context) error {
		_, err := r.db.Exec(ctx, query,
			loan.ID,
			loan.MemberID,
			loan.Principal.Amount(),
			loan.Principal.Currency(),
			loan.InterestRatePct,
			loan.TermMonths,
			loan.Purpose,
			loan.Collateral,
			loan.GuarantorIDs,
			loan.Status,
			loan.TotalInterest.Amount(),
			loan.TotalPayable.Amount(),
			loan.MonthlyPayment.Amount(),
			loan.RemainingBalance.Amount(),
			loan.TotalPaid.Amount(),
			loan.ApprovedBy,
			loan.RejectReason,
			loan.CreatedAt,
			loan.UpdatedAt,
		)
		if err != nil {
			zap.L().Error("can't save loan", zap.Error(err))
			return err
		}
		return nil
	})
	return err
}

func (r *Repository) Update(ctx context.Context, loan *domain.Loan) error {
	query := `
        UPDATE loans
        SET status = $1, remaining_balance = $2, total_paid = $3, approved_by = $4,
            approved_at = $5, disbursed_at = $6, reject_reason = $7, updated_at = $8
        WHERE id = $9
    `
	err := r.txManager.Begin(ctx, func(ctx context.Context) error {
		_, err := r.db.Exec(ctx, query,
			loan.Status,
			loan.RemainingBalance.Amount(),
			loan.TotalPaid.Amount(),
			loan.ApprovedBy,
			loan.ApprovedAt,
			loan.DisbursedAt,
			loan.RejectReason,
			loan.UpdatedAt,
			loan.ID,
		)
		if err != nil {
			zap.L().Error("failed to update loan", zap.Error(err))
			return err
		}
		return nil
	})
	return err
}

func (r *Repository) CreatePayment(ctx context.Context, payment *domain.Payment) (*domain.Payment, error) {
	query := `
        INSERT INTO loan_payments (id, loan_id, amount, method, balance_after, payment_type, paid_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
        RETURNING id
    `
	err := r.db.QueryRow(ctx, query,
		payment.ID,
		payment.LoanID,
		payment.Amount.Amount(),
		payment.Method,
		payment.BalanceAfter.Amount(),
		payment.Type,
		payment.PaidAt,
	).Scan(&payment.ID)
	if err != nil {
		zap.L().Error("can't save loan payment", zap.Error(err))
		return nil, err
	}
	return payment, nil
}

func (r *Repository) FindPaymentsByLoanID(ctx context.Context, loanID string, currency string) ([]domain.Payment, error) {
	query := `
        SELECT id, loan_id, amount, method, balance_after, payment_type, paid_at
        FROM loan_payments
        WHERE loan_id = $1
        ORDER BY paid_at ASC
    `
	rows, err := r.db.Query(ctx, query, loanID)
	if err != nil {
		zap.L().Error("failed to fetch loan payments", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var payments []domain.Payment
	for rows.Next() {
		var (
			p            domain.Payment
			amount       int64
			balanceAfter int64
		)
		err := rows.Scan(&p.ID, &p.LoanID, &amount, &p.Method, &balanceAfter, &p.Type, &p.PaidAt)
		if err != nil {
			zap.L().Error("failed to scan loan payment row", zap.Error(err))
			return nil, err
		}
		p.Amount = money.New(amount, currency)
		p.BalanceAfter = money.New(balanceAfter, currency)
		payments = append(payments, p)
	}
	return payments, nil
}

func scanLoan(row pgx.Row) (*domain.Loan, error) {
	var (
		loan             domain.Loan
		principal        int64
		currency         string
		rate             decimal.Decimal
		totalInterest    int64
		totalPayable     int64
		monthlyPayment   int64
		remainingBalance int64
		totalPaid        int64
	)
	err := row.Scan(
		&loan.ID,
		&loan.MemberID,
		&principal,
		&currency,
		&rate,
		&loan.TermMonths,
		&loan.Purpose,
		&loan.Collateral,
		&loan.GuarantorIDs,
		&loan.Status,
		&totalInterest,
		&totalPayable,
		&monthlyPayment,
		&remainingBalance,
		&totalPaid,
		&loan.ApprovedBy,
		&loan.ApprovedAt,
		&loan.DisbursedAt,
		&loan.RejectReason,
		&loan.CreatedAt,
		&loan.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	loan.Principal = money.New(principal, currency)
	loan.InterestRatePct = rate
	loan.TotalInterest = money.New(totalInterest, currency)
	loan.TotalPayable = money.New(totalPayable, currency)
	loan.MonthlyPayment = money.New(monthlyPayment, currency)
	loan.RemainingBalance = money.New(remainingBalance, currency)
	loan.TotalPaid = money.New(totalPaid, currency)
	return &loan, nil
}
