package interestservice

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	gomock "go.uber.org/mock/gomock"

	"github.com/mwangaza/saccoledger/internal/domain"
	"github.com/mwangaza/saccoledger/internal/pg"
	"github.com/mwangaza/saccoledger/pkg/money"
)

type mocks struct {
	memberRepo *MockMemberRepo
	txnRepo    *MockTransactionRepo
	savings    *MockSavings
}

func NewMock(t *testing.T) (*Service, *mocks) {
	ctrl := gomock.NewController(t)
	m := &mocks{
		memberRepo: NewMockMemberRepo(ctrl),
		txnRepo:    NewMockTransactionRepo(ctrl),
		savings:    NewMockSavings(ctrl),
	}

	guard := NewMockGuard(ctrl)
	guard.EXPECT().Do(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, memberID string, fn func(context.Context) error) error {
			return fn(ctx)
		},
	).AnyTimes()

	txManager := pg.NewMockTXManager(ctrl)
	txManager.EXPECT().Begin(gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, fn func(context.Context) error) error {
			return fn(ctx)
		},
	).AnyTimes()

	service := New(m.memberRepo, m.txnRepo, m.savings, guard, txManager)
	return service, m
}

func member(id string, balance int64) *domain.Member {
	return &domain.Member{
		ID:             id,
		SavingsBalance: money.New(balance, "KES"),
		LoanBalance:    money.Zero("KES"),
		Active:         true,
	}
}

var (
	from = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	to   = time.Date(2026, 1, 31, 0, 0, 0, 0, time.UTC)
	rate = decimal.NewFromInt(5)
)

func TestCalculateInterest(t *testing.T) {
	tests := []struct {
		name     string
		balance  int64
		from     time.Time
		to       time.Time
		rate     string
		expected int64
	}{
		{
			// round(100000 * 0.05/365 * 30) = round(410.96) = 411
			name:     "Thirty day period",
			balance:  100000,
			from:     from,
			to:       to,
			rate:     "5",
			expected: 411,
		},
		{
			name:     "Zero balance",
			balance:  0,
			from:     from,
			to:       to,
			rate:     "5",
			expected: 0,
		},
		{
			name:     "Negative balance",
			balance:  -100,
			from:     from,
			to:       to,
			rate:     "5",
			expected: 0,
		},
		{
			name:     "Inverted period",
			balance:  100000,
			from:     to,
			to:       from,
			rate:     "5",
			expected: 0,
		},
		{
			name:     "Partial day rounds up to a full day",
			balance:  100000,
			from:     from,
			to:       from.Add(25 * time.Hour),
			rate:     "5",
			expected: 27, // 2 days: round(100000 * 0.05/365 * 2) = round(27.4)
		},
		{
			name:     "Zero rate",
			balance:  100000,
			from:     from,
			to:       to,
			rate:     "0",
			expected: 0,
		},
		{
			name:     "Full year",
			balance:  100000,
			from:     from,
			to:       from.AddDate(1, 0, 0),
			rate:     "5",
			expected: 5000,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CalculateInterest(money.New(tt.balance, "KES"), tt.from, tt.to, decimal.RequireFromString(tt.rate))
			assert.Equal(t, tt.expected, got.Amount())
			assert.False(t, got.IsNegative())
		})
	}
}

func TestAccrue(t *testing.T) {
	t.Run("Posts interest", func(t *testing.T) {
		service, m := NewMock(t)

		m.memberRepo.EXPECT().GetMember(gomock.Any(), "member-1").Return(member("member-1", 100000), nil)
		m.txnRepo.EXPECT().FindInterestOverlap(gomock.Any(), "member-1", from, to).Return(nil, nil)
		m.savings.EXPECT().PostInterestEarned(gomock.Any(), "member-1", money.New(411, "KES"), from, to).
			Return(member("member-1", 100411), &domain.Transaction{
				ID:     "txn-1",
				Type:   domain.TransactionTypeInterest,
				Amount: money.New(411, "KES"),
			}, nil)

		txn, err := service.Accrue(context.Background(), "member-1", from, to, rate)
		assert.NoError(t, err)
		assert.Equal(t, int64(411), txn.Amount.Amount())
	})

	t.Run("Overlapping period is rejected", func(t *testing.T) {
		service, m := NewMock(t)

		m.memberRepo.EXPECT().GetMember(gomock.Any(), "member-1").Return(member("member-1", 100000), nil)
		m.txnRepo.EXPECT().FindInterestOverlap(gomock.Any(), "member-1", from, to).
			Return(&domain.Transaction{ID: "txn-0"}, nil)

		_, err := service.Accrue(context.Background(), "member-1", from, to, rate)
		assert.ErrorIs(t, err, ErrPeriodOverlap)
	})

	t.Run("Zero balance posts nothing", func(t *testing.T) {
		service, m := NewMock(t)

		m.memberRepo.EXPECT().GetMember(gomock.Any(), "member-1").Return(member("member-1", 0), nil)
		m.txnRepo.EXPECT().FindInterestOverlap(gomock.Any(), "member-1", from, to).Return(nil, nil)

		txn, err := service.Accrue(context.Background(), "member-1", from, to, rate)
		assert.NoError(t, err)
		assert.Nil(t, txn)
	})

	t.Run("Inverted period", func(t *testing.T) {
		service, _ := NewMock(t)

		_, err := service.Accrue(context.Background(), "member-1", to, from, rate)
		assert.ErrorIs(t, err, ErrInvalidPeriod)
	})

	t.Run("Unknown member", func(t *testing.T) {
		service, m := NewMock(t)

		m.memberRepo.EXPECT().GetMember(gomock.Any(), "member-1").Return(nil, nil)

		_, err := service.Accrue(context.Background(), "member-1", from, to, rate)
		assert.ErrorIs(t, err, ErrMemberNotFound)
	})
}

func TestAccrueAll(t *testing.T) {
	service, m := NewMock(t)

	members := []domain.Member{
		*member("member-1", 100000), // posts 411
		*member("member-2", 0),      // skipped, nothing to post
		*member("member-3", 50000),  // fails at posting time
	}
	m.memberRepo.EXPECT().FindActiveMembers(gomock.Any(), uint32(memberLimit)).Return(members, nil)

	m.memberRepo.EXPECT().GetMember(gomock.Any(), "member-1").Return(member("member-1", 100000), nil)
	m.memberRepo.EXPECT().GetMember(gomock.Any(), "member-2").Return(member("member-2", 0), nil)
	m.memberRepo.EXPECT().GetMember(gomock.Any(), "member-3").Return(member("member-3", 50000), nil)

	m.txnRepo.EXPECT().FindInterestOverlap(gomock.Any(), gomock.Any(), from, to).Return(nil, nil).Times(3)

	m.savings.EXPECT().PostInterestEarned(gomock.Any(), "member-1", money.New(411, "KES"), from, to).
		Return(member("member-1", 100411), &domain.Transaction{ID: "txn-1", Amount: money.New(411, "KES")}, nil)
	m.savings.EXPECT().PostInterestEarned(gomock.Any(), "member-3", gomock.Any(), from, to).
		Return(nil, nil, errors.New("db error"))

	result, err := service.AccrueAll(context.Background(), from, to, rate)
	assert.NoError(t, err)
	assert.Equal(t, 3, result.Processed)
	assert.Equal(t, 1, result.Posted)
	assert.Equal(t, 1, result.Skipped)
	assert.Equal(t, 1, result.Failed)
	assert.Len(t, result.Outcomes, 3)
}

func TestAverageDailyBalance(t *testing.T) {
	service, m := NewMock(t)

	// Balance history: 10000 at period start, deposit of 5000 on day 2 of 4.
	deposit := domain.Transaction{
		Type:      domain.TransactionTypeDeposit,
		Amount:    money.New(5000, "KES"),
		CreatedAt: from.AddDate(0, 0, 1).Add(10 * time.Hour),
	}
	periodEnd := from.AddDate(0, 0, 4)

	m.memberRepo.EXPECT().GetMember(gomock.Any(), "member-1").Return(member("member-1", 15000), nil)
	m.txnRepo.EXPECT().FindByMemberIDBetween(gomock.Any(), "member-1", from, gomock.Any()).
		Return([]domain.Transaction{deposit}, nil)

	// Daily series: 10000, 15000, 15000, 15000 -> average 13750.
	avg, err := service.AverageDailyBalance(context.Background(), "member-1", from, periodEnd)
	assert.NoError(t, err)
	assert.Equal(t, int64(13750), avg.Amount())
}

func TestDaysBetween(t *testing.T) {
	assert.Equal(t, int64(30), daysBetween(from, to))
	assert.Equal(t, int64(1), daysBetween(from, from.Add(time.Hour)))
	assert.Equal(t, int64(0), daysBetween(from, from))
	assert.Equal(t, int64(0), daysBetween(to, from))
}
