package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/quantabi/investment/internal/domain"
	"github.com/shopspring/decimal"
)

// AccountRepository handles all database operations for funds accounts. It is
// the mutation-aware backing store behind the balance oracle: reads answer
// "how much can this user commit right now", and ReserveFunds performs the
// check-and-deduct atomically under a row lock.
type AccountRepository struct {
	db *sqlx.DB
}

// NewAccountRepository creates a new AccountRepository.
func NewAccountRepository(db *sqlx.DB) *AccountRepository {
	return &AccountRepository{db: db}
}

// CreateTx opens a funds account for a user inside an existing transaction,
// seeded with the given opening balance.
func (r *AccountRepository) CreateTx(ctx context.Context, tx *sqlx.Tx, userID int64, opening decimal.Decimal) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO accounts (user_id, balance, created_at, updated_at)
		VALUES ($1, $2, now(), now())`,
		userID, opening)
	if err != nil {
		return fmt.Errorf("account_repo.CreateTx: %w", err)
	}
	return nil
}

// GetByUserID fetches the account belonging to a specific user.
func (r *AccountRepository) GetByUserID(ctx context.Context, userID int64) (*domain.Account, error) {
	var a domain.Account
	err := r.db.GetContext(ctx, &a, `SELECT * FROM accounts WHERE user_id = $1`, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrAccountNotFound
		}
		return nil, fmt.Errorf("account_repo.GetByUserID: %w", err)
	}
	return &a, nil
}

// GetAvailableBalance returns the funds the user can still commit. This is the
// read-only oracle view; callers about to move money must go through
// ReserveFunds instead, which re-checks under lock.
func (r *AccountRepository) GetAvailableBalance(ctx context.Context, userID int64) (decimal.Decimal, error) {
	var balance decimal.Decimal
	err := r.db.GetContext(ctx, &balance, `SELECT balance FROM accounts WHERE user_id = $1`, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return decimal.Zero, domain.ErrAccountNotFound
		}
		return decimal.Zero, fmt.Errorf("account_repo.GetAvailableBalance: %w", err)
	}
	return balance, nil
}

// ReserveFunds deducts amount from a user's balance inside a transaction.
// The row is locked with FOR UPDATE so the balance check and the deduction are
// one atomic unit: two concurrent reservations for the same user serialise on
// the lock, and the second sees the first's deduction. Returns
// domain.ErrInsufficientFunds when the balance would go negative.
func (r *AccountRepository) ReserveFunds(ctx context.Context, tx *sqlx.Tx, userID int64, amount decimal.Decimal) error {
	var balance decimal.Decimal
	err := tx.GetContext(ctx, &balance,
		`SELECT balance FROM accounts WHERE user_id = $1 FOR UPDATE`,
		userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ErrAccountNotFound
		}
		return fmt.Errorf("account_repo.ReserveFunds lock: %w", err)
	}

	if balance.LessThan(amount) {
		return domain.ErrInsufficientFunds
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE accounts SET balance = balance - $1, updated_at = now() WHERE user_id = $2`,
		amount, userID)
	if err != nil {
		return fmt.Errorf("account_repo.ReserveFunds update: %w", err)
	}
	return nil
}

// ReleaseFunds credits amount back to a user's account inside a transaction.
// Used by the administrative cancellation path.
func (r *AccountRepository) ReleaseFunds(ctx context.Context, tx *sqlx.Tx, userID int64, amount decimal.Decimal) error {
	_, err := tx.ExecContext(ctx,
		`UPDATE accounts SET balance = balance + $1, updated_at = now() WHERE user_id = $2`,
		amount, userID)
	if err != nil {
		return fmt.Errorf("account_repo.ReleaseFunds: %w", err)
	}
	return nil
}
