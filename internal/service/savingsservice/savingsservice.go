package savingsservice

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/mwangaza/saccoledger/internal/domain"
	"github.com/mwangaza/saccoledger/internal/pg"
	"github.com/mwangaza/saccoledger/pkg/idgen"
	"github.com/mwangaza/saccoledger/pkg/money"
)

type MemberRepo interface {
	CreateMember(ctx context.Context, member *domain.Member) (*domain.Member, error)
	GetMember(ctx context.Context, memberID string) (*domain.Member, error)
	UpdateBalances(ctx context.Context, member *domain.Member) (*domain.Member, error)
}

type TransactionRepo interface {
	CreateTransaction(ctx context.Context, txn *domain.Transaction) (*domain.Transaction, error)
	FindByID(ctx context.Context, transactionID string) (*domain.Transaction, error)
	FindByMemberID(ctx context.Context, memberID string) ([]domain.Transaction, error)
	UpdateStatus(ctx context.Context, transactionID string, status domain.TransactionStatus) error
}

// Guard serializes all mutations touching one member's combined state.
type Guard interface {
	Do(ctx context.Context, memberID string, fn func(ctx context.Context) error) error
}

var (
	ErrInsufficientFunds     = errors.New("insufficient funds")
	ErrMemberNotFound        = errors.New("member not found")
	ErrNameRequired          = errors.New("member name is required")
	ErrInvalidAmount         = errors.New("amount must be positive")
	ErrTransactionNotFound   = errors.New("transaction not found")
	ErrTransactionNotPending = errors.New("transaction is not pending")
)

type Service struct {
	memberRepo MemberRepo
	txnRepo    TransactionRepo
	guard      Guard
	txManager  pg.TXManager
	ids        idgen.Generator
}

func New(memberRepo MemberRepo, txnRepo TransactionRepo, guard Guard, txManager pg.TXManager, ids idgen.Generator) *Service {
	return &Service{
		memberRepo: memberRepo,
		txnRepo:    txnRepo,
		guard:      guard,
		txManager:  txManager,
		ids:        ids,
	}
}

// EnrollMember opens a new account with zero balances.
func (s *Service) EnrollMember(ctx context.Context, name, currency string) (*domain.Member, error) {
	if name == "" {
		return nil, ErrNameRequired
	}

	member := &domain.Member{
		ID:             s.ids.NewID(),
		Name:           name,
		SavingsBalance: money.Zero(currency),
		LoanBalance:    money.Zero(currency),
		Active:         true,
		CreatedAt:      time.Now().UTC(),
	}
	created, err := s.memberRepo.CreateMember(ctx, member)
	if err != nil {
		zap.L().Error("can't enroll member", zap.Error(err))
		return nil, err
	}
	zap.L().Info("member enrolled", zap.String("memberID", created.ID))
	return created, nil
}

func (s *Service) Deposit(ctx context.Context, memberID string, amount money.Money, method string) (*domain.Member, *domain.Transaction, error) {
	if !amount.IsPositive() {
		return nil, nil, ErrInvalidAmount
	}

	var (
		member *domain.Member
		txn    *domain.Transaction
	)
	err := s.guard.Do(ctx, memberID, func(ctx context.Context) error {
		return s.txManager.Begin(ctx, func(ctx context.Context) error {
			var err error
			member, txn, err = s.credit(ctx, memberID, amount, domain.TransactionTypeDeposit, method, "savings deposit", nil, nil)
			return err
		})
	})
	if err != nil {
		return nil, nil, err
	}
	return member, txn, nil
}

func (s *Service) Withdraw(ctx context.Context, memberID string, amount money.Money, method string) (*domain.Member, *domain.Transaction, error) {
	if !amount.IsPositive() {
		return nil, nil, ErrInvalidAmount
	}

	var (
		member *domain.Member
		txn    *domain.Transaction
	)
	err := s.guard.Do(ctx, memberID, func(ctx context.Context) error {
		return s.txManager.Begin(ctx, func(ctx context.Context) error {
			var err error
			member, txn, err = s.debit(ctx, memberID, amount, domain.TransactionTypeWithdrawal, method, "savings withdrawal")
			return err
		})
	})
	if err != nil {
		return nil, nil, err
	}
	return member, txn, nil
}

// DebitForLoanPayment moves funds out of savings to cover a loan payment. It
// does NOT acquire the member guard or open its own transaction: the loan
// ledger calls it from inside its own critical section so the savings debit
// and the payment record commit or roll back together.
func (s *Service) DebitForLoanPayment(ctx context.Context, memberID string, amount money.Money, description string) (*domain.Member, *domain.Transaction, error) {
	if !amount.IsPositive() {
		return nil, nil, ErrInvalidAmount
	}
	return s.debit(ctx, memberID, amount, domain.TransactionTypeLoanPayment, "savings", description)
}

// PostInterestEarned credits computed interest as an interest_earned entry
// carrying the covered period. Like DebitForLoanPayment it relies on the
// caller's guard and transaction scope.
func (s *Service) PostInterestEarned(ctx context.Context, memberID string, amount money.Money, from, to time.Time) (*domain.Member, *domain.Transaction, error) {
	if !amount.IsPositive() {
		return nil, nil, ErrInvalidAmount
	}
	description := fmt.Sprintf("interest earned for %s to %s", from.Format("2006-01-02"), to.Format("2006-01-02"))
	return s.credit(ctx, memberID, amount, domain.TransactionTypeInterest, "system", description, &from, &to)
}

func (s *Service) GetTransactions(ctx context.Context, memberID string) ([]domain.Transaction, error) {
	txns, err := s.txnRepo.FindByMemberID(ctx, memberID)
	if err != nil {
		zap.L().Error("failed to fetch transactions", zap.Error(err))
		return nil, err
	}
	return txns, nil
}

// SettleTransaction moves a pending entry to completed or failed. This is the
// only mutation ever applied to a written ledger entry; it exists for payment
// methods that confirm asynchronously.
func (s *Service) SettleTransaction(ctx context.Context, transactionID string, status domain.TransactionStatus) error {
	if status != domain.TransactionStatusCompleted && status != domain.TransactionStatusFailed {
		return fmt.Errorf("cannot settle to status %q", status)
	}

	txn, err := s.txnRepo.FindByID(ctx, transactionID)
	if err != nil {
		return err
	}
	if txn == nil {
		return ErrTransactionNotFound
	}
	if txn.Status != domain.TransactionStatusPending {
		return ErrTransactionNotPending
	}
	return s.txnRepo.UpdateStatus(ctx, transactionID, status)
}

func (s *Service) credit(ctx context.Context, memberID string, amount money.Money, txnType domain.TransactionType, method, description string, from, to *time.Time) (*domain.Member, *domain.Transaction, error) {
	member, err := s.memberRepo.GetMember(ctx, memberID)
	if err != nil {
		zap.L().Error("failed to get member", zap.Error(err))
		return nil, nil, err
	}
	if member == nil {
		return nil, nil, ErrMemberNotFound
	}

	newBalance, err := member.SavingsBalance.Add(amount)
	if err != nil {
		return nil, nil, err
	}
	member.SavingsBalance = newBalance

	updated, err := s.memberRepo.UpdateBalances(ctx, member)
	if err != nil {
		zap.L().Error("failed to update member balances", zap.Error(err))
		return nil, nil, err
	}

	txn, err := s.appendEntry(ctx, updated, amount, txnType, method, description, from, to)
	if err != nil {
		return nil, nil, err
	}
	return updated, txn, nil
}

func (s *Service) debit(ctx context.Context, memberID string, amount money.Money, txnType domain.TransactionType, method, description string) (*domain.Member, *domain.Transaction, error) {
	member, err := s.memberRepo.GetMember(ctx, memberID)
	if err != nil {
		zap.L().Error("failed to get member", zap.Error(err))
		return nil, nil, err
	}
	if member == nil {
		return nil, nil, ErrMemberNotFound
	}

	insufficient, err := member.SavingsBalance.LessThan(amount)
	if err != nil {
		return nil, nil, err
	}
	if insufficient {
		return nil, nil, ErrInsufficientFunds
	}

	newBalance, err := member.SavingsBalance.Sub(amount)
	if err != nil {
		return nil, nil, err
	}
	member.SavingsBalance = newBalance

	updated, err := s.memberRepo.UpdateBalances(ctx, member)
	if err != nil {
		zap.L().Error("failed to update member balances", zap.Error(err))
		return nil, nil, err
	}

	txn, err := s.appendEntry(ctx, updated, amount, txnType, method, description, nil, nil)
	if err != nil {
		return nil, nil, err
	}
	return updated, txn, nil
}

func (s *Service) appendEntry(ctx context.Context, member *domain.Member, amount money.Money, txnType domain.TransactionType, method, description string, from, to *time.Time) (*domain.Transaction, error) {
	txn := &domain.Transaction{
		ID:           s.ids.NewID(),
		Receipt:      s.ids.NewReceipt(),
		MemberID:     member.ID,
		Type:         txnType,
		Amount:       amount,
		BalanceAfter: member.SavingsBalance,
		Method:       method,
		Description:  description,
		Status:       domain.TransactionStatusCompleted,
		PeriodFrom:   from,
		PeriodTo:     to,
		CreatedAt:    time.Now(),
	}

	created, err := s.txnRepo.CreateTransaction(ctx, txn)
	if err != nil {
		zap.L().Error("can't save transaction record", zap.Error(err))
		return nil, err
	}
	return created, nil
}
