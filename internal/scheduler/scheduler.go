// Package scheduler drives periodic interest accrual. Each sweep finds active
// members, derives the uncovered period per member from their last posted
// interest entry, and hands the accrual to the interest engine through a
// worker pool. Accounts currently being processed are skipped, not queued
// twice.
package scheduler

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/mwangaza/saccoledger/internal/domain"
	"github.com/mwangaza/saccoledger/internal/service/interestservice"
)

var accruingMembers sync.Map

type MemberRepo interface {
	FindActiveMembers(ctx context.Context, limit uint32) ([]domain.Member, error)
}

type TransactionRepo interface {
	LastInterestPeriodEnd(ctx context.Context, memberID string) (*time.Time, error)
}

type Accruer interface {
	Accrue(ctx context.Context, memberID string, from, to time.Time, annualRatePct decimal.Decimal) (*domain.Transaction, error)
}

type Service struct {
	memberRepo MemberRepo
	txnRepo    TransactionRepo
	accruer    Accruer
	rate       decimal.Decimal
	limit      uint32
	workerPool WorkerPoolI
	interval   time.Duration
}

func New(memberRepo MemberRepo, txnRepo TransactionRepo, accruer Accruer, rate decimal.Decimal, interval time.Duration) *Service {
	return &Service{
		memberRepo: memberRepo,
		txnRepo:    txnRepo,
		accruer:    accruer,
		rate:       rate,
		limit:      1000,
		workerPool: NewWorkerPool(10),
		interval:   interval,
	}
}

func (s *Service) Start(ctx context.Context) {
	zap.L().Info("Interest accrual scheduler started")
	go s.run(ctx)
}

func (s *Service) run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			zap.L().Info("Context canceled, stopping scheduler")
			s.workerPool.Close()
			return
		case <-ticker.C:
			s.processMembers(ctx)
		}
	}
}

func (s *Service) processMembers(ctx context.Context) {
	members, err := s.memberRepo.FindActiveMembers(ctx, s.limit)
	if err != nil {
		zap.L().Error("Failed to fetch members for accrual", zap.Error(err))
		return
	}

	var g errgroup.Group
	for _, member := range members {
		member := member

		if _, loaded := accruingMembers.LoadOrStore(member.ID, struct{}{}); loaded {
			continue
		}

		g.Go(func() error {
			err := s.workerPool.AddTask(ctx, func() error {
				defer accruingMembers.Delete(member.ID)
				return s.accrueMember(ctx, member)
			})
			if err != nil {
				accruingMembers.Delete(member.ID)
				return err
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		zap.L().Error("Error scheduling accrual tasks", zap.Error(err))
	}
}

// accrueMember posts interest for the span between the member's last covered
// period and the start of the current day. Members whose period is already
// covered, or not yet a full day long, are left for a later sweep.
func (s *Service) accrueMember(ctx context.Context, member domain.Member) error {
	lastEnd, err := s.txnRepo.LastInterestPeriodEnd(ctx, member.ID)
	if err != nil {
		return err
	}

	from := member.CreatedAt
	if lastEnd != nil {
		from = *lastEnd
	}
	to := time.Now().UTC().Truncate(24 * time.Hour)
	if !to.After(from) {
		return nil
	}

	txn, err := s.accruer.Accrue(ctx, member.ID, from, to, s.rate)
	if errors.Is(err, interestservice.ErrPeriodOverlap) {
		zap.L().Debug("Accrual already covered", zap.String("memberID", member.ID))
		return nil
	}
	if err != nil {
		return err
	}
	if txn != nil {
		zap.L().Info("Interest posted",
			zap.String("memberID", member.ID),
			zap.Int64("amount", txn.Amount.Amount()),
		)
	}
	return nil
}
