package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/quantabi/investment/internal/domain"
)

// InvestmentRepository handles all database operations for ledger rows.
// Rows are append-only apart from status transitions.
type InvestmentRepository struct {
	db *sqlx.DB
}

// NewInvestmentRepository creates a new InvestmentRepository.
func NewInvestmentRepository(db *sqlx.DB) *InvestmentRepository {
	return &InvestmentRepository{db: db}
}

// CreateTx appends an investment row inside an existing transaction and fills
// in the generated id. Must run in the same transaction as the balance
// reservation so the two commit or roll back together.
func (r *InvestmentRepository) CreateTx(ctx context.Context, tx *sqlx.Tx, inv *domain.Investment) error {
	err := tx.QueryRowxContext(ctx, `
		INSERT INTO investments
			(user_id, product_id, amount, expected_return, maturity_date, status, invested_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`,
		inv.UserID, inv.ProductID, inv.Amount, inv.ExpectedReturn,
		inv.MaturityDate, inv.Status, inv.InvestedAt,
	).Scan(&inv.ID)
	if err != nil {
		return fmt.Errorf("investment_repo.CreateTx: %w", err)
	}
	return nil
}

// GetByID fetches a single ledger row.
func (r *InvestmentRepository) GetByID(ctx context.Context, id int64) (*domain.Investment, error) {
	var inv domain.Investment
	err := r.db.GetContext(ctx, &inv, `SELECT * FROM investments WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrInvestmentNotFound
		}
		return nil, fmt.Errorf("investment_repo.GetByID: %w", err)
	}
	return &inv, nil
}

// ListByUser returns all of a user's investments joined with their product
// name, type, yield and risk level, newest first by invested_at. Reads go
// straight to the store, so a caller always sees its own committed writes.
func (r *InvestmentRepository) ListByUser(ctx context.Context, userID int64) ([]*domain.PortfolioEntry, error) {
	var entries []*domain.PortfolioEntry
	err := r.db.SelectContext(ctx, &entries, `
		SELECT i.*,
		       p.name            AS product_name,
		       p.investment_type AS product_type,
		       p.annual_yield    AS annual_yield,
		       p.risk_level      AS risk_level
		FROM investments i
		JOIN investment_products p ON p.id = i.product_id
		WHERE i.user_id = $1
		ORDER BY i.invested_at DESC`,
		userID)
	if err != nil {
		return nil, fmt.Errorf("investment_repo.ListByUser: %w", err)
	}
	return entries, nil
}

// ActiveSlices returns the (amount, risk_level) pairs for a user's active
// investments — the exact input the portfolio analytics reducer needs.
func (r *InvestmentRepository) ActiveSlices(ctx context.Context, userID int64) ([]domain.RiskSlice, error) {
	var slices []domain.RiskSlice
	rows, err := r.db.QueryxContext(ctx, `
		SELECT i.amount, p.risk_level
		FROM investments i
		JOIN investment_products p ON p.id = i.product_id
		WHERE i.user_id = $1 AND i.status = $2`,
		userID, domain.InvestmentActive)
	if err != nil {
		return nil, fmt.Errorf("investment_repo.ActiveSlices: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var s domain.RiskSlice
		if err := rows.Scan(&s.Amount, &s.RiskLevel); err != nil {
			return nil, fmt.Errorf("investment_repo.ActiveSlices scan: %w", err)
		}
		slices = append(slices, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("investment_repo.ActiveSlices rows: %w", err)
	}
	return slices, nil
}

// UpdateStatus transitions a single investment's status. Amount, product and
// the derived contract are immutable; this is the only mutating path.
func (r *InvestmentRepository) UpdateStatus(ctx context.Context, id int64, status domain.InvestmentStatus) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE investments SET status = $1 WHERE id = $2`,
		status, id)
	if err != nil {
		return fmt.Errorf("investment_repo.UpdateStatus: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrInvestmentNotFound
	}
	return nil
}

// MatureDue marks every active investment whose maturity date has passed as
// matured and returns how many rows transitioned. Called by the background
// sweep.
func (r *InvestmentRepository) MatureDue(ctx context.Context, now time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE investments
		SET status = $1
		WHERE status = $2 AND maturity_date <= $3`,
		domain.InvestmentMatured, domain.InvestmentActive, now)
	if err != nil {
		return 0, fmt.Errorf("investment_repo.MatureDue: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("investment_repo.MatureDue rows: %w", err)
	}
	return n, nil
}
