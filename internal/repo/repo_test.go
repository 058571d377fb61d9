package repo

import (
	"testing"

	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	gomock "go.uber.org/mock/gomock"

	"github.com/mwangaza/saccoledger/internal/pg"
	loanrepo "github.com/mwangaza/saccoledger/internal/repo/loan-repo"
	memberrepo "github.com/mwangaza/saccoledger/internal/repo/member-repo"
	transactionrepo "github.com/mwangaza/saccoledger/internal/repo/transaction-repo"
)

func NewMock(t *testing.T) (*Repositories, pgxmock.PgxPoolIface) {
	ctrl := gomock.NewController(t)
	mockDB, err := pgxmock.NewPool()
	mockTxManager := pg.NewMockTXManager(ctrl)
	assert.NoError(t, err)
	repo := New(mockDB, mockTxManager)
	defer mockDB.Close()

	return repo, mockDB
}

func TestNew(t *testing.T) {
	repo, mock := NewMock(t)

	assert.NotNil(t, repo.MemberRepo)
	assert.NotNil(t, repo.LoanRepo)
	assert.NotNil(t, repo.TransactionRepo)

	assert.IsType(t, &memberrepo.Repository{}, repo.MemberRepo)
	assert.IsType(t, &loanrepo.Repository{}, repo.LoanRepo)
	assert.IsType(t, &transactionrepo.Repository{}, repo.TransactionRepo)

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("there were unmet expectations: %v", err)
	}
}
