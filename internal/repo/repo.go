package repo

import (
	"github.com/mwangaza/saccoledger/internal/pg"
	loanrepo "github.com/mwangaza/saccoledger/internal/repo/loan-repo"
	memberrepo "github.com/mwangaza/saccoledger/internal/repo/member-repo"
	transactionrepo "github.com/mwangaza/saccoledger/internal/repo/transaction-repo"
)

// Repositories bundles the storage layer. The same member and transaction
// repositories back every service, so balances and ledger entries are read
// and written through a single code path.
type Repositories struct {
	MemberRepo      *memberrepo.Repository
	LoanRepo        *loanrepo.Repository
	TransactionRepo *transactionrepo.Repository
}

func New(conn pg.Database, txManager pg.TXManager) *Repositories {
	memberRepo := memberrepo.New(conn, txManager)
	loanRepo := loanrepo.New(conn, txManager)
	transactionRepo := transactionrepo.New(conn)

	return &Repositories{
		MemberRepo:      memberRepo,
		LoanRepo:        loanRepo,
		TransactionRepo: transactionRepo,
	}
}
