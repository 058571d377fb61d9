package transactionrepo

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/mwangaza/saccoledger/internal/domain"
	"github.com/mwangaza/saccoledger/internal/pg"
	"github.com/mwangaza/saccoledger/pkg/money"
)

const transactionColumns = `
        id, receipt, member_id, type, amount, currency, balance_after,
        method, description, status, period_from, period_to, created_at`

type Repository struct {
	db pg.Database
}

func New(db pg.Database) *Repository {
	return &Repository{
		db: db,
	}
}

func (r *Repository) CreateTransaction(ctx context.Context, txn *domain.Transaction) (*domain.Transaction, error) {
	query := `
        INSERT INTO transactions (id, receipt, member_id, type, amount, currency, balance_after,
            method, description, status, period_from, period_to, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
        RETURNING id
    `
	err := r.db.QueryRow(ctx, query,
		txn.ID,
		txn.Receipt,
		txn.MemberID,
		txn.Type,
		txn.Amount.Amount(),
		txn.Amount.Currency(),
		txn.BalanceAfter.Amount(),
		txn.Method,
		txn.Description,
		txn.Status,
		txn.PeriodFrom,
		txn.PeriodTo,
		txn.CreatedAt,
	).Scan(&txn.ID)
	if err != nil {
		zap.L().Error("can't save transaction", zap.Error(err))
		return nil, err
	}
	return txn, nil
}

func (r *Repository) FindByID(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	query := `SELECT` + transactionColumns + `
        FROM transactions
        WHERE id = $1
    `
	txn, err := scanTransaction(r.db.QueryRow(ctx, query, transactionID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		zap.L().Error("can't find transaction", zap.Error(err))
		return nil, err
	}
	return txn, nil
}

func (r *Repository) FindByMemberID(ctx context.Context, memberID string) ([]domain.Transaction, error) {
	query := `SELECT` + transactionColumns + `
        FROM transactions
        WHERE member_id = $1
        ORDER BY created_at DESC
    `
	return r.queryTransactions(ctx, query, memberID)
}

func (r *Repository) FindByMemberIDBetween(ctx context.Context, memberID string, from, to time.Time) ([]domain.Transaction, error) {
	query := `SELECT` + transactionColumns + `
        FROM transactions
        WHERE member_id = $1 AND created_at >= $2 AND created_at < $3
        ORDER BY created_at ASC
    `
	return r.queryTransactions(ctx, query, memberID, from, to)
}

// FindInterestOverlap returns an interest posting whose covered period
// overlaps [from, to), if one exists. Used to keep accrual idempotent.
func (r *Repository) FindInterestOverlap(ctx context.Context, memberID string, from, to time.Time) (*domain.Transaction, error) {
	query := `SELECT` + transactionColumns + `
        FROM transactions
        WHERE member_id = $1 AND type = 'interest_earned'
            AND period_from < $3 AND period_to > $2
        LIMIT 1
    `
	txn, err := scanTransaction(r.db.QueryRow(ctx, query, memberID, from, to))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		zap.L().Error("can't check interest overlap", zap.Error(err))
		return nil, err
	}
	return txn, nil
}

// LastInterestPeriodEnd returns the end of the latest interest period posted
// for the member, or nil if interest has never been posted.
func (r *Repository) LastInterestPeriodEnd(ctx context.Context, memberID string) (*time.Time, error) {
	query := `
        SELECT period_to
        FROM transactions
        WHERE member_id = $1 AND type = 'interest_earned'
        ORDER BY period_to DESC
        LIMIT 1
    `
	var periodTo time.Time
	err := r.db.QueryRow(ctx, query, memberID).Scan(&periodTo)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		zap.L().Error("can't get last interest period", zap.Error(err))
		return nil, err
	}
	return &periodTo, nil
}

func (r *Repository) UpdateStatus(ctx context.Context, transactionID string, status domain.TransactionStatus) error {
	query := `
        UPDATE transactions
        SET status = $1
        WHERE id = $2
    `
	_, err := r.db.Exec(ctx, query, status, transactionID)
	if err != nil {
		zap.L().Error("failed to update transaction status", zap.Error(err))
		return err
	}
	return nil
}

func (r *Repository) queryTransactions(ctx context.Context, query string, args ...any) ([]domain.Transaction, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		zap.L().Error("failed to fetch transactions", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var txns []domain.Transaction
	for rows.Next() {
		txn, err := scanTransaction(rows)
		if err != nil {
			zap.L().Error("failed to scan transaction row", zap.Error(err))
			return nil, err
		}
		txns = append(txns, *txn)
	}
	return txns, nil
}

func scanTransaction(row pgx.Row) (*domain.Transaction, error) {
	var (
		txn          domain.Transaction
		amount       int64
		currency     string
		balanceAfter int64
	)
	err := row.Scan(
		&txn.ID,
		&txn.Receipt,
		&txn.MemberID,
		&txn.Type,
		&amount,
		&currency,
		&balanceAfter,
		&txn.Method,
		&txn.Description,
		&txn.Status,
		&txn.PeriodFrom,
		&txn.PeriodTo,
		&txn.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	txn.Amount = money.New(amount, currency)
	txn.BalanceAfter = money.New(balanceAfter, currency)
	return &txn, nil
}
