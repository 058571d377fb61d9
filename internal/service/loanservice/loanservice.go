package loanservice

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/mwangaza/saccoledger/internal/domain"
	"github.com/mwangaza/saccoledger/internal/pg"
	"github.com/mwangaza/saccoledger/pkg/amortize"
	"github.com/mwangaza/saccoledger/pkg/idgen"
	"github.com/mwangaza/saccoledger/pkg/money"
)

type LoanRepo interface {
	FindByID(ctx context.Context, loanID string) (*domain.Loan, error)
	FindOpenByMemberID(ctx context.Context, memberID string) (*domain.Loan, error)
	FindByMemberID(ctx context.Context, memberID string) ([]domain.Loan, error)
	Save(ctx context.Context, loan *domain.Loan) error
	Update(ctx context.Context, loan *domain.Loan) error
	CreatePayment(ctx context.Context, payment *domain.Payment) (*domain.Payment, error)
	FindPaymentsByLoanID(ctx context.Context, loanID string, currency string) ([]domain.Payment, error)
}

type MemberRepo interface {
	GetMember(ctx context.Context, memberID string) (*domain.Member, error)
	UpdateBalances(ctx context.Context, member *domain.Member) (*domain.Member, error)
}

type TransactionRepo interface {
	CreateTransaction(ctx context.Context, txn *domain.Transaction) (*domain.Transaction, error)
}

// Savings debits loan payments from the member's savings balance.
// DebitForLoanPayment must be called under this service's guard and
// transaction scope so both ledgers commit together.
type Savings interface {
	DebitForLoanPayment(ctx context.Context, memberID string, amount money.Money, description string) (*domain.Member, *domain.Transaction, error)
}

type Guard interface {
	Do(ctx context.Context, memberID string, fn func(ctx context.Context) error) error
}

var (
	ErrMemberNotFound        = errors.New("member not found")
	ErrLoanNotFound          = errors.New("loan not found")
	ErrOpenLoanExists        = errors.New("member already has an open loan")
	ErrLoanNotPending        = errors.New("loan is not pending")
	ErrLoanNotApproved       = errors.New("loan is not approved")
	ErrLoanNotActive         = errors.New("loan is not active")
	ErrInvalidAmount         = errors.New("amount must be positive")
	ErrPaymentExceedsBalance = errors.New("payment exceeds remaining balance")
	ErrReasonRequired        = errors.New("rejection reason is required")
)

type Service struct {
	loanRepo   LoanRepo
	memberRepo MemberRepo
	txnRepo    TransactionRepo
	savings    Savings
	guard      Guard
	txManager  pg.TXManager
	calc       *amortize.Calculator
	ids        idgen.Generator
	loanRate   decimal.Decimal
}

func New(loanRepo LoanRepo, memberRepo MemberRepo, txnRepo TransactionRepo, savings Savings, guard Guard, txManager pg.TXManager, calc *amortize.Calculator, ids idgen.Generator, loanRate decimal.Decimal) *Service {
	return &Service{
		loanRepo:   loanRepo,
		memberRepo: memberRepo,
		txnRepo:    txnRepo,
		savings:    savings,
		guard:      guard,
		txManager:  txManager,
		calc:       calc,
		ids:        ids,
		loanRate:   loanRate,
	}
}

// ApplyForLoan creates a pending loan application. A member holds at most one
// open loan; the conflict check and the insert run under the member guard in
// one transaction so two concurrent applications cannot both pass the check.
func (s *Service) ApplyForLoan(ctx context.Context, memberID string, principal money.Money, purpose string, termMonths int, collateral string, guarantorIDs []string) (*domain.Loan, error) {
	var loan *domain.Loan
	err := s.guard.Do(ctx, memberID, func(ctx context.Context) error {
		return s.txManager.Begin(ctx, func(ctx context.Context) error {
			member, err := s.memberRepo.GetMember(ctx, memberID)
			if err != nil {
				zap.L().Error("failed to get member", zap.Error(err))
				return err
			}
			if member == nil {
				return ErrMemberNotFound
			}

			open, err := s.loanRepo.FindOpenByMemberID(ctx, memberID)
			if err != nil {
				zap.L().Error("failed to check open loans", zap.Error(err))
				return err
			}
			if open != nil {
				zap.L().Info("loan application rejected, open loan exists",
					zap.String("memberID", memberID), zap.String("openLoanID", open.ID))
				return ErrOpenLoanExists
			}

			schedule, err := s.calc.Plan(principal, s.loanRate, termMonths)
			if err != nil {
				return err
			}

			now := time.Now()
			loan = &domain.Loan{
				ID:               s.ids.NewID(),
				MemberID:         memberID,
				Principal:        principal,
				InterestRatePct:  s.loanRate,
				TermMonths:       termMonths,
				Purpose:          purpose,
				Collateral:       collateral,
				GuarantorIDs:     guarantorIDs,
				Status:           domain.LoanStatusPending,
				TotalInterest:    schedule.TotalInterest,
				TotalPayable:     schedule.TotalPayable,
				MonthlyPayment:   schedule.MonthlyPayment,
				RemainingBalance: schedule.TotalPayable,
				TotalPaid:        money.Zero(principal.Currency()),
				CreatedAt:        now,
				UpdatedAt:        now,
			}

			if err := s.loanRepo.Save(ctx, loan); err != nil {
				zap.L().Error("can't save loan", zap.Error(err))
				return err
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return loan, nil
}

// ApproveLoan moves a pending application to approved. Funds are not touched
// until disbursement.
func (s *Service) ApproveLoan(ctx context.Context, loanID, approverID string) (*domain.Loan, error) {
	loan, err := s.loanRepo.FindByID(ctx, loanID)
	if err != nil {
		return nil, err
	}
	if loan == nil {
		return nil, ErrLoanNotFound
	}
	if loan.Status != domain.LoanStatusPending {
		return nil, ErrLoanNotPending
	}

	now := time.Now()
	loan.Status = domain.LoanStatusApproved
	loan.ApprovedBy = approverID
	loan.ApprovedAt = &now
	loan.UpdatedAt = now

	if err := s.loanRepo.Update(ctx, loan); err != nil {
		zap.L().Error("failed to update loan", zap.Error(err))
		return nil, err
	}
	return loan, nil
}

// RejectLoan declines a pending application; rejection is terminal.
func (s *Service) RejectLoan(ctx context.Context, loanID, reason string) (*domain.Loan, error) {
	if reason == "" {
		return nil, ErrReasonRequired
	}

	loan, err := s.loanRepo.FindByID(ctx, loanID)
	if err != nil {
		return nil, err
	}
	if loan == nil {
		return nil, ErrLoanNotFound
	}
	if loan.Status != domain.LoanStatusPending {
		return nil, ErrLoanNotPending
	}

	loan.Status = domain.LoanStatusRejected
	loan.RejectReason = reason
	loan.UpdatedAt = time.Now()

	if err := s.loanRepo.Update(ctx, loan); err != nil {
		zap.L().Error("failed to update loan", zap.Error(err))
		return nil, err
	}
	return loan, nil
}

// DisburseLoan activates an approved loan: the member's loan balance is
// credited with the principal and a disbursement entry is written. Runs under
// the member guard so it cannot interleave with payments or withdrawals.
func (s *Service) DisburseLoan(ctx context.Context, loanID string) (*domain.Loan, error) {
	loan, err := s.loanRepo.FindByID(ctx, loanID)
	if err != nil {
		return nil, err
	}
	if loan == nil {
		return nil, ErrLoanNotFound
	}

	err = s.guard.Do(ctx, loan.MemberID, func(ctx context.Context) error {
		return s.txManager.Begin(ctx, func(ctx context.Context) error {
			loan, err = s.loanRepo.FindByID(ctx, loanID)
			if err != nil {
				return err
			}
			if loan == nil {
				return ErrLoanNotFound
			}
			if loan.Status != domain.LoanStatusApproved {
				return ErrLoanNotApproved
			}

			member, err := s.memberRepo.GetMember(ctx, loan.MemberID)
			if err != nil {
				return err
			}
			if member == nil {
				return ErrMemberNotFound
			}

			newLoanBalance, err := member.LoanBalance.Add(loan.Principal)
			if err != nil {
				return err
			}
			member.LoanBalance = newLoanBalance
			updated, err := s.memberRepo.UpdateBalances(ctx, member)
			if err != nil {
				zap.L().Error("failed to update member balances", zap.Error(err))
				return err
			}

			now := time.Now()
			loan.Status = domain.LoanStatusActive
			loan.DisbursedAt = &now
			loan.UpdatedAt = now
			if err := s.loanRepo.Update(ctx, loan); err != nil {
				zap.L().Error("failed to update loan", zap.Error(err))
				return err
			}

			txn := &domain.Transaction{
				ID:           s.ids.NewID(),
				Receipt:      s.ids.NewReceipt(),
				MemberID:     member.ID,
				Type:         domain.TransactionTypeDisbursement,
				Amount:       loan.Principal,
				BalanceAfter: updated.SavingsBalance,
				Method:       "system",
				Description:  fmt.Sprintf("disbursement of loan %s", loan.ID),
				Status:       domain.TransactionStatusCompleted,
				CreatedAt:    now,
			}
			if _, err := s.txnRepo.CreateTransaction(ctx, txn); err != nil {
				zap.L().Error("can't save disbursement transaction", zap.Error(err))
				return err
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return loan, nil
}

// RecordPayment debits the payment from savings and applies it to the loan in
// one transaction. The remaining balance is recomputed from the full payment
// history rather than decremented, so corrected entries stay consistent.
func (s *Service) RecordPayment(ctx context.Context, loanID string, amount money.Money, method string) (*domain.Loan, *domain.Transaction, error) {
	if !amount.IsPositive() {
		return nil, nil, ErrInvalidAmount
	}

	loan, err := s.loanRepo.FindByID(ctx, loanID)
	if err != nil {
		return nil, nil, err
	}
	if loan == nil {
		return nil, nil, ErrLoanNotFound
	}

	var txn *domain.Transaction
	err = s.guard.Do(ctx, loan.MemberID, func(ctx context.Context) error {
		return s.txManager.Begin(ctx, func(ctx context.Context) error {
			// Re-read under the guard: a concurrent payment may have already
			// shrunk the remaining balance.
			loan, err = s.loanRepo.FindByID(ctx, loanID)
			if err != nil {
				return err
			}
			if loan == nil {
				return ErrLoanNotFound
			}
			if loan.Status != domain.LoanStatusActive {
				return ErrLoanNotActive
			}
			exceeds, err := loan.RemainingBalance.LessThan(amount)
			if err != nil {
				return err
			}
			if exceeds {
				return ErrPaymentExceedsBalance
			}

			member, debitTxn, err := s.savings.DebitForLoanPayment(ctx, loan.MemberID, amount,
				fmt.Sprintf("payment for loan %s", loan.ID))
			if err != nil {
				return err
			}
			txn = debitTxn

			payments, err := s.loanRepo.FindPaymentsByLoanID(ctx, loan.ID, amount.Currency())
			if err != nil {
				return err
			}
			var paidTotal int64
			for _, p := range payments {
				paidTotal += p.Amount.Amount()
			}
			paidTotal += amount.Amount()

			remaining := loan.TotalPayable.Amount() - paidTotal
			if remaining < 0 {
				remaining = 0
			}

			paymentType := domain.PaymentTypePartial
			if remaining == 0 {
				paymentType = domain.PaymentTypeFull
			}

			now := time.Now()
			payment := &domain.Payment{
				ID:           s.ids.NewID(),
				LoanID:       loan.ID,
				Amount:       amount,
				Method:       method,
				BalanceAfter: money.New(remaining, amount.Currency()),
				Type:         paymentType,
				PaidAt:       now,
			}
			if _, err := s.loanRepo.CreatePayment(ctx, payment); err != nil {
				zap.L().Error("can't save loan payment", zap.Error(err))
				return err
			}

			loan.TotalPaid = money.New(paidTotal, amount.Currency())
			loan.RemainingBalance = money.New(remaining, amount.Currency())
			loan.UpdatedAt = now
			if remaining == 0 {
				loan.Status = domain.LoanStatusPaid
			}
			if err := s.loanRepo.Update(ctx, loan); err != nil {
				zap.L().Error("failed to update loan", zap.Error(err))
				return err
			}

			outstanding := member.LoanBalance.Amount() - amount.Amount()
			if outstanding < 0 {
				outstanding = 0
			}
			member.LoanBalance = money.New(outstanding, amount.Currency())
			if _, err := s.memberRepo.UpdateBalances(ctx, member); err != nil {
				zap.L().Error("failed to update member balances", zap.Error(err))
				return err
			}
			return nil
		})
	})
	if err != nil {
		return nil, nil, err
	}
	return loan, txn, nil
}

func (s *Service) GetLoan(ctx context.Context, loanID string) (*domain.Loan, error) {
	loan, err := s.loanRepo.FindByID(ctx, loanID)
	if err != nil {
		return nil, err
	}
	if loan == nil {
		return nil, ErrLoanNotFound
	}
	return loan, nil
}

func (s *Service) GetLoans(ctx context.Context, memberID string) ([]domain.Loan, error) {
	loans, err := s.loanRepo.FindByMemberID(ctx, memberID)
	if err != nil {
		zap.L().Error("failed to get loans", zap.Error(err))
		return nil, err
	}
	return loans, nil
}

// GetPaymentHistory returns the loan's ordered payments.
func (s *Service) GetPaymentHistory(ctx context.Context, loanID string) ([]domain.Payment, error) {
	loan, err := s.loanRepo.FindByID(ctx, loanID)
	if err != nil {
		return nil, err
	}
	if loan == nil {
		return nil, ErrLoanNotFound
	}
	return s.loanRepo.FindPaymentsByLoanID(ctx, loanID, loan.Principal.Currency())
}
