package interestservice

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/mwangaza/saccoledger/internal/domain"
	"github.com/mwangaza/saccoledger/internal/pg"
	"github.com/mwangaza/saccoledger/pkg/money"
)

const (
	daysPerYear    = 365
	memberLimit    = 1000
	maxConcurrency = 10
)

type MemberRepo interface {
	GetMember(ctx context.Context, memberID string) (*domain.Member, error)
	FindActiveMembers(ctx context.Context, limit uint32) ([]domain.Member, error)
}

type TransactionRepo interface {
	FindInterestOverlap(ctx context.Context, memberID string, from, to time.Time) (*domain.Transaction, error)
	FindByMemberIDBetween(ctx context.Context, memberID string, from, to time.Time) ([]domain.Transaction, error)
}

// Savings posts computed interest as a deposit tagged interest_earned.
// PostInterestEarned must run under this service's guard and transaction.
type Savings interface {
	PostInterestEarned(ctx context.Context, memberID string, amount money.Money, from, to time.Time) (*domain.Member, *domain.Transaction, error)
}

type Guard interface {
	Do(ctx context.Context, memberID string, fn func(ctx context.Context) error) error
}

var (
	ErrMemberNotFound = errors.New("member not found")
	ErrInvalidPeriod  = errors.New("period end must be after period start")
	ErrPeriodOverlap  = errors.New("interest already posted for an overlapping period")
)

// AccountOutcome reports one member's accrual within a bulk run.
type AccountOutcome struct {
	MemberID string
	Amount   money.Money
	Posted   bool
	Skipped  bool
	Err      string
}

// Result aggregates a bulk accrual run. A failed account never aborts the
// rest of the batch.
type Result struct {
	From      time.Time
	To        time.Time
	Processed int
	Posted    int
	Skipped   int
	Failed    int
	Outcomes  []AccountOutcome
}

type Service struct {
	memberRepo MemberRepo
	txnRepo    TransactionRepo
	savings    Savings
	guard      Guard
	txManager  pg.TXManager
}

func New(memberRepo MemberRepo, txnRepo TransactionRepo, savings Savings, guard Guard, txManager pg.TXManager) *Service {
	return &Service{
		memberRepo: memberRepo,
		txnRepo:    txnRepo,
		savings:    savings,
		guard:      guard,
		txManager:  txManager,
	}
}

// CalculateInterest computes simple daily interest on a balance over
// [from, to): days are counted with ceiling, the daily rate is
// annualRatePct/365/100, and the product is rounded to the minor unit once.
// Returns zero for a non-positive balance or a non-positive day count.
func CalculateInterest(balance money.Money, from, to time.Time, annualRatePct decimal.Decimal) money.Money {
	days := daysBetween(from, to)
	if !balance.IsPositive() || days <= 0 {
		return money.Zero(balance.Currency())
	}
	// balance * rate/100/365 * days in one multiplication keeps the single
	// rounding at the end.
	return balance.MulRate(annualRatePct.Mul(decimal.NewFromInt(days)), 100*daysPerYear)
}

// Accrue computes and posts interest for one member. Re-running for a period
// already covered by an earlier posting returns ErrPeriodOverlap instead of
// double-posting. A computed amount of zero posts nothing and returns nil.
func (s *Service) Accrue(ctx context.Context, memberID string, from, to time.Time, annualRatePct decimal.Decimal) (*domain.Transaction, error) {
	if !to.After(from) {
		return nil, ErrInvalidPeriod
	}

	var txn *domain.Transaction
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

			overlap, err := s.txnRepo.FindInterestOverlap(ctx, memberID, from, to)
			if err != nil {
				return err
			}
			if overlap != nil {
				zap.L().Info("skipping interest accrual, period already covered",
					zap.String("memberID", memberID), zap.String("existingTxn", overlap.ID))
				return ErrPeriodOverlap
			}

			amount := CalculateInterest(member.SavingsBalance, from, to, annualRatePct)
			if !amount.IsPositive() {
				return nil
			}

			_, posted, err := s.savings.PostInterestEarned(ctx, memberID, amount, from, to)
			if err != nil {
				return err
			}
			txn = posted
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return txn, nil
}

// AccrueAll runs Accrue for every active member. Accounts are processed
// concurrently but each member's accrual stays inside that member's critical
// section; one account's failure is recorded and the batch continues.
func (s *Service) AccrueAll(ctx context.Context, from, to time.Time, annualRatePct decimal.Decimal) (*Result, error) {
	if !to.After(from) {
		return nil, ErrInvalidPeriod
	}

	members, err := s.memberRepo.FindActiveMembers(ctx, memberLimit)
	if err != nil {
		zap.L().Error("failed to list active members", zap.Error(err))
		return nil, err
	}

	result := &Result{From: from, To: to}
	var mu sync.Mutex

	var g errgroup.Group
	g.SetLimit(maxConcurrency)
	for _, member := range members {
		member := member
		g.Go(func() error {
			txn, err := s.Accrue(ctx, member.ID, from, to, annualRatePct)

			outcome := AccountOutcome{MemberID: member.ID}
			switch {
			case errors.Is(err, ErrPeriodOverlap):
				outcome.Skipped = true
			case err != nil:
				outcome.Err = err.Error()
			case txn == nil:
				outcome.Skipped = true
			default:
				outcome.Posted = true
				outcome.Amount = txn.Amount
			}

			mu.Lock()
			defer mu.Unlock()
			result.Processed++
			switch {
			case outcome.Posted:
				result.Posted++
			case outcome.Skipped:
				result.Skipped++
			default:
				result.Failed++
			}
			result.Outcomes = append(result.Outcomes, outcome)
			return nil
		})
	}
	g.Wait()

	zap.L().Info("bulk interest accrual finished",
		zap.Int("processed", result.Processed),
		zap.Int("posted", result.Posted),
		zap.Int("skipped", result.Skipped),
		zap.Int("failed", result.Failed),
	)
	return result, nil
}

// AverageDailyBalance replays the member's transactions to reconstruct an
// end-of-day balance for each day in [from, to) and averages the series.
// Reporting helper only; not on any mutation path.
func (s *Service) AverageDailyBalance(ctx context.Context, memberID string, from, to time.Time) (money.Money, error) {
	if !to.After(from) {
		return money.Money{}, ErrInvalidPeriod
	}

	member, err := s.memberRepo.GetMember(ctx, memberID)
	if err != nil {
		return money.Money{}, err
	}
	if member == nil {
		return money.Money{}, ErrMemberNotFound
	}

	now := time.Now()
	txns, err := s.txnRepo.FindByMemberIDBetween(ctx, memberID, from, now)
	if err != nil {
		return money.Money{}, err
	}

	// Walk back from the current balance to the balance at the period start.
	opening := member.SavingsBalance.Amount()
	for i := range txns {
		opening -= txns[i].Signed()
	}

	currency := member.SavingsBalance.Currency()
	balance := opening
	var total int64
	days := int64(0)
	for day := from; day.Before(to); day = day.AddDate(0, 0, 1) {
		next := day.AddDate(0, 0, 1)
		for i := range txns {
			at := txns[i].CreatedAt
			if !at.Before(day) && at.Before(next) {
				balance += txns[i].Signed()
			}
		}
		total += balance
		days++
	}

	average := decimal.NewFromInt(total).Div(decimal.NewFromInt(days))
	return money.FromDecimal(average, currency), nil
}

func daysBetween(from, to time.Time) int64 {
	d := to.Sub(from)
	if d <= 0 {
		return 0
	}
	days := int64(d / (24 * time.Hour))
	if d%(24*time.Hour) > 0 {
		days++
	}
	return days
}
