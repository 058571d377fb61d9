package service

import (
	"testing"

	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	gomock "go.uber.org/mock/gomock"

	"github.com/mwangaza/saccoledger/internal/config"
	"github.com/mwangaza/saccoledger/internal/pg"
	"github.com/mwangaza/saccoledger/internal/repo"
)

func TestNew(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockDB, err := pgxmock.NewPool()
	assert.NoError(t, err)
	defer mockDB.Close()

	repos := repo.New(mockDB, pg.NewMockTXManager(ctrl))

	cfg := &config.Config{
		Currency:          "KES",
		SavingsRatePct:    "5",
		LoanRatePct:       "10",
		MinLoanPrincipal:  1000,
		MaxLoanTermMonths: 36,
	}

	services, err := New(repos, pg.NewMockTXManager(ctrl), cfg)
	assert.NoError(t, err)

	assert.NotNil(t, services.SavingsService)
	assert.NotNil(t, services.LoanService)
	assert.NotNil(t, services.InterestService)
}

func TestNew_InvalidLoanRate(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockDB, err := pgxmock.NewPool()
	assert.NoError(t, err)
	defer mockDB.Close()

	repos := repo.New(mockDB, pg.NewMockTXManager(ctrl))

	cfg := &config.Config{LoanRatePct: "not-a-rate"}

	services, err := New(repos, pg.NewMockTXManager(ctrl), cfg)
	assert.Error(t, err)
	assert.Nil(t, services)
}
