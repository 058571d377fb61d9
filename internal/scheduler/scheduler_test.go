package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"github.com/mwangaza/saccoledger/internal/domain"
	"github.com/mwangaza/saccoledger/internal/service/interestservice"
	"github.com/mwangaza/saccoledger/pkg/money"
)

func setupScheduler(t *testing.T) (*Service, *MockMemberRepo, *MockTransactionRepo, *MockAccruer, *MockWorkerPoolI) {
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	memberRepo := NewMockMemberRepo(ctrl)
	txnRepo := NewMockTransactionRepo(ctrl)
	accruer := NewMockAccruer(ctrl)
	pool := NewMockWorkerPoolI(ctrl)

	svc := New(memberRepo, txnRepo, accruer, decimal.NewFromInt(5), time.Hour)
	svc.workerPool = pool
	return svc, memberRepo, txnRepo, accruer, pool
}

func runTasksInline(pool *MockWorkerPoolI) {
	pool.EXPECT().
		AddTask(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, task Task) error {
			return task()
		}).
		AnyTimes()
}

func TestService_AccrueMember(t *testing.T) {
	ctx := context.Background()
	created := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	lastEnd := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	rate := decimal.NewFromInt(5)

	member := domain.Member{
		ID:        "member-1",
		CreatedAt: created,
	}

	tests := []struct {
		name       string
		setupMocks func(txnRepo *MockTransactionRepo, accruer *MockAccruer)
		wantErr    error
	}{
		{
			name: "first accrual starts at member creation",
			setupMocks: func(txnRepo *MockTransactionRepo, accruer *MockAccruer) {
				txnRepo.EXPECT().LastInterestPeriodEnd(ctx, "member-1").Return(nil, nil)
				accruer.EXPECT().
					Accrue(ctx, "member-1", created, gomock.Any(), rate).
					Return(&domain.Transaction{Amount: money.New(411, "KES")}, nil)
			},
		},
		{
			name: "continues from last posted period",
			setupMocks: func(txnRepo *MockTransactionRepo, accruer *MockAccruer) {
				end := lastEnd
				txnRepo.EXPECT().LastInterestPeriodEnd(ctx, "member-1").Return(&end, nil)
				accruer.EXPECT().
					Accrue(ctx, "member-1", lastEnd, gomock.Any(), rate).
					Return(&domain.Transaction{Amount: money.New(100, "KES")}, nil)
			},
		},
		{
			name: "period already covered is not an error",
			setupMocks: func(txnRepo *MockTransactionRepo, accruer *MockAccruer) {
				txnRepo.EXPECT().LastInterestPeriodEnd(ctx, "member-1").Return(nil, nil)
				accruer.EXPECT().
					Accrue(ctx, "member-1", created, gomock.Any(), rate).
					Return(nil, interestservice.ErrPeriodOverlap)
			},
		},
		{
			name: "period lookup failure",
			setupMocks: func(txnRepo *MockTransactionRepo, accruer *MockAccruer) {
				txnRepo.EXPECT().LastInterestPeriodEnd(ctx, "member-1").Return(nil, errors.New("db down"))
			},
			wantErr: errors.New("db down"),
		},
		{
			name: "accrual failure",
			setupMocks: func(txnRepo *MockTransactionRepo, accruer *MockAccruer) {
				txnRepo.EXPECT().LastInterestPeriodEnd(ctx, "member-1").Return(nil, nil)
				accruer.EXPECT().
					Accrue(ctx, "member-1", created, gomock.Any(), rate).
					Return(nil, errors.New("accrual failed"))
			},
			wantErr: errors.New("accrual failed"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _, txnRepo, accruer, _ := setupScheduler(t)
			tt.setupMocks(txnRepo, accruer)

			err := svc.accrueMember(ctx, member)
			if tt.wantErr != nil {
				assert.EqualError(t, err, tt.wantErr.Error())
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestService_AccrueMember_SkipsShortPeriod(t *testing.T) {
	ctx := context.Background()
	svc, _, txnRepo, _, _ := setupScheduler(t)

	// Last period already reaches the current day: nothing to post yet.
	end := time.Now().UTC().Truncate(24 * time.Hour)
	txnRepo.EXPECT().LastInterestPeriodEnd(ctx, "member-1").Return(&end, nil)

	err := svc.accrueMember(ctx, domain.Member{ID: "member-1", CreatedAt: end.AddDate(0, -1, 0)})
	assert.NoError(t, err)
}

func TestService_ProcessMembers(t *testing.T) {
	ctx := context.Background()
	created := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	t.Run("dispatches each member once", func(t *testing.T) {
		svc, memberRepo, txnRepo, accruer, pool := setupScheduler(t)
		runTasksInline(pool)

		members := []domain.Member{
			{ID: "member-1", CreatedAt: created},
			{ID: "member-2", CreatedAt: created},
		}
		memberRepo.EXPECT().FindActiveMembers(ctx, uint32(1000)).Return(members, nil)
		for _, m := range members {
			txnRepo.EXPECT().LastInterestPeriodEnd(ctx, m.ID).Return(nil, nil)
			accruer.EXPECT().
				Accrue(ctx, m.ID, created, gomock.Any(), gomock.Any()).
				Return(&domain.Transaction{Amount: money.New(1, "KES")}, nil)
		}

		svc.processMembers(ctx)
	})

	t.Run("member already in flight is skipped", func(t *testing.T) {
		svc, memberRepo, _, _, _ := setupScheduler(t)

		accruingMembers.Store("member-1", struct{}{})
		defer accruingMembers.Delete("member-1")

		memberRepo.EXPECT().
			FindActiveMembers(ctx, uint32(1000)).
			Return([]domain.Member{{ID: "member-1", CreatedAt: created}}, nil)

		svc.processMembers(ctx)
	})

	t.Run("member fetch failure aborts the sweep", func(t *testing.T) {
		svc, memberRepo, _, _, _ := setupScheduler(t)

		memberRepo.EXPECT().
			FindActiveMembers(ctx, uint32(1000)).
			Return(nil, errors.New("db down"))

		svc.processMembers(ctx)
	})

	t.Run("dedup entry is released when dispatch fails", func(t *testing.T) {
		svc, memberRepo, _, _, pool := setupScheduler(t)

		memberRepo.EXPECT().
			FindActiveMembers(ctx, uint32(1000)).
			Return([]domain.Member{{ID: "member-1", CreatedAt: created}}, nil)
		pool.EXPECT().
			AddTask(gomock.Any(), gomock.Any()).
			Return(context.Canceled)

		svc.processMembers(ctx)

		_, inFlight := accruingMembers.Load("member-1")
		assert.False(t, inFlight)
	})
}

func TestService_Run_StopsOnContextCancel(t *testing.T) {
	svc, memberRepo, txnRepo, accruer, pool := setupScheduler(t)
	runTasksInline(pool)
	pool.EXPECT().Close()
	svc.interval = 10 * time.Millisecond

	memberRepo.EXPECT().
		FindActiveMembers(gomock.Any(), uint32(1000)).
		Return([]domain.Member{{ID: "member-1", CreatedAt: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}}, nil).
		MinTimes(1)
	txnRepo.EXPECT().LastInterestPeriodEnd(gomock.Any(), "member-1").Return(nil, nil).AnyTimes()
	accruer.EXPECT().
		Accrue(gomock.Any(), "member-1", gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil, interestservice.ErrPeriodOverlap).
		AnyTimes()

	ctx, cancel := context.WithCancel(context.Background())
	svc.Start(ctx)

	time.Sleep(50 * time.Millisecond)
	cancel()
	time.Sleep(20 * time.Millisecond)
}
