package service

import (
	"github.com/mwangaza/saccoledger/internal/config"
	"github.com/mwangaza/saccoledger/internal/coordinator"
	"github.com/mwangaza/saccoledger/internal/pg"
	"github.com/mwangaza/saccoledger/internal/repo"
	"github.com/mwangaza/saccoledger/internal/service/interestservice"
	"github.com/mwangaza/saccoledger/internal/service/loanservice"
	"github.com/mwangaza/saccoledger/internal/service/savingsservice"
	"github.com/mwangaza/saccoledger/pkg/amortize"
	"github.com/mwangaza/saccoledger/pkg/idgen"
)

type Services struct {
	SavingsService  *savingsservice.Service
	LoanService     *loanservice.Service
	InterestService *interestservice.Service
}

// New wires the service layer. All three services share one per-member
// coordinator so operations touching the same account serialize no matter
// which service initiated them.
func New(repos *repo.Repositories, txManager pg.TXManager, cfg *config.Config) (*Services, error) {
	loanRate, err := cfg.LoanRate()
	if err != nil {
		return nil, err
	}

	guard := coordinator.New()
	ids := idgen.New()
	calc := amortize.New(cfg.MinLoanPrincipal, cfg.MaxLoanTermMonths)

	savingsService := savingsservice.New(repos.MemberRepo, repos.TransactionRepo, guard, txManager, ids)
	loanService := loanservice.New(repos.LoanRepo, repos.MemberRepo, repos.TransactionRepo, savingsService, guard, txManager, calc, ids, loanRate)
	interestService := interestservice.New(repos.MemberRepo, repos.TransactionRepo, savingsService, guard, txManager)

	return &Services{
		SavingsService:  savingsService,
		LoanService:     loanService,
		InterestService: interestService,
	}, nil
}
