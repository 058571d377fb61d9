package memberrepo

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/mwangaza/saccoledger/internal/domain"
	"github.com/mwangaza/saccoledger/internal/pg"
	"github.com/mwangaza/saccoledger/pkg/money"
)

type Repository struct {
	db        pg.Database
	txManager pg.TXManager
}

func New(db pg.Database, txManager pg.TXManager) *Repository {
	return &Repository{
		db:        db,
		txManager: txManager,
	}
}

func (r *Repository) CreateMember(ctx context.Context, member *domain.Member) (*domain.Member, error) {
	query := `
        INSERT INTO members (id, name, savings_balance, loan_balance, currency, active, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
        RETURNING id
    `
	err := r.db.QueryRow(ctx, query,
		member.ID,
		member.Name,
		member.SavingsBalance.Amount(),
		member.LoanBalance.Amount(),
		member.SavingsBalance.Currency(),
		member.Active,
		member.CreatedAt,
	).Scan(&member.ID)
	if err != nil {
		zap.L().Error("can't save member", zap.Error(err))
		return nil, err
	}
	return member, nil
}

func (r *Repository) GetMember(ctx context.Context, memberID string) (*domain.Member, error) {
	query := `
        SELECT id, name, savings_balance, loan_balance, currency, active, created_at
        FROM members
        WHERE id = $1
    `
	member, err := scanMember(r.db.QueryRow(ctx, query, memberID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		zap.L().Error("failed to get member", zap.Error(err))
		return nil, err
	}
	return member, nil
}

// UpdateBalances writes both balances back in one transaction and returns the
// stored row.
func (r *Repository) UpdateBalances(ctx context.Context, member *domain.Member) (*domain.Member, error) {
	query := `
        UPDATE members
        SET savings_balance = $1, loan_balance = $2
        WHERE id = $3
        RETURNING id, name, savings_balance, loan_balance, currency, active, created_at
    `
	var updated *domain.Member
	err := r.txManager.Begin(ctx, func(ctx context.Context) error {
		row := r.db.QueryRow(ctx, query,
			member.SavingsBalance.Amount(),
			member.LoanBalance.Amount(),
			member.ID,
		)
		m, err := scanMember(row)
		if err != nil {
			zap.L().Error("failed to update member balances", zap.Error(err))
			return err
		}
		updated = m
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (r *Repository) FindActiveMembers(ctx context.Context, limit uint32) ([]domain.Member, error) {
	query := `
        SELECT id, name, savings_balance, loan_balance, currency, active, created_at
        FROM members
        WHERE active = TRUE
        ORDER BY created_at ASC
        LIMIT $1
    `
	rows, err := r.db.Query(ctx, query, limit)
	if err != nil {
		zap.L().Error("can't get active members", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var members []domain.Member
	for rows.Next() {
		member, err := scanMember(rows)
		if err != nil {
			zap.L().Error("can't scan member row", zap.Error(err))
			return nil, err
		}
		members = append(members, *member)
	}
	return members, nil
}

func scanMember(row pgx.Row) (*domain.Member, error) {
	var (
		member   domain.Member
		savings  int64
		loan     int64
		currency string
	)
	err := row.Scan(&member.ID, &member.Name, &savings, &loan, &currency, &member.Active, &member.CreatedAt)
	if err != nil {
		return nil, err
	}
	member.SavingsBalance = money.New(savings, currency)
	member.LoanBalance = money.New(loan, currency)
	return &member, nil
}
