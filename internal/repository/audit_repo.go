package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/quantabi/investment/internal/domain"
)

// AuditRepository persists and queries the append-only request audit log.
// Inserts come from the async audit worker; the query methods serve the
// transactions listing endpoint.
type AuditRepository struct {
	db *sqlx.DB
}

// NewAuditRepository creates a new AuditRepository.
func NewAuditRepository(db *sqlx.DB) *AuditRepository {
	return &AuditRepository{db: db}
}

// Insert appends one audit entry. Entries are never updated or deleted.
func (r *AuditRepository) Insert(ctx context.Context, e *domain.AuditEntry) error {
	query := `
		INSERT INTO transaction_logs
			(user_id, email, endpoint, http_method, status_code, error_message, created_at)
		VALUES
			(:user_id, :email, :endpoint, :http_method, :status_code, :error_message, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, e); err != nil {
		return fmt.Errorf("audit_repo.Insert: %w", err)
	}
	return nil
}

// List returns audit entries newest first, optionally filtered by user id
// and/or email. Zero/empty filter values mean "all".
func (r *AuditRepository) List(ctx context.Context, userID int64, email string, limit int) ([]*domain.AuditEntry, error) {
	query := `SELECT * FROM transaction_logs WHERE 1=1`
	var args []interface{}
	if userID != 0 {
		args = append(args, userID)
		query += fmt.Sprintf(" AND user_id = $%d", len(args))
	}
	if email != "" {
		args = append(args, email)
		query += fmt.Sprintf(" AND email = $%d", len(args))
	}
	args = append(args, limit)
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d", len(args))

	var entries []*domain.AuditEntry
	if err := r.db.SelectContext(ctx, &entries, query, args...); err != nil {
		return nil, fmt.Errorf("audit_repo.List: %w", err)
	}
	return entries, nil
}

// ErrorSummary groups failed requests (status >= 400 with a recorded message)
// by endpoint, message and day for the given user, most frequent first.
func (r *AuditRepository) ErrorSummary(ctx context.Context, userID int64, email string) ([]*domain.ErrorSummaryRow, error) {
	query := `
		SELECT COUNT(*)                        AS total_errors,
		       endpoint,
		       error_message,
		       to_char(created_at::date, 'YYYY-MM-DD') AS error_date
		FROM transaction_logs
		WHERE status_code >= 400 AND error_message IS NOT NULL`
	var args []interface{}
	if userID != 0 {
		args = append(args, userID)
		query += fmt.Sprintf(" AND user_id = $%d", len(args))
	}
	if email != "" {
		args = append(args, email)
		query += fmt.Sprintf(" AND email = $%d", len(args))
	}
	query += `
		GROUP BY endpoint, error_message, created_at::date
		ORDER BY total_errors DESC, error_date DESC
		LIMIT 10`

	var rows []*domain.ErrorSummaryRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("audit_repo.ErrorSummary: %w", err)
	}
	return rows, nil
}

// CountSince returns how many requests were logged at or after the given
// status threshold. Used by operational dashboards and tests.
func (r *AuditRepository) CountSince(ctx context.Context, minStatus int) (int64, error) {
	var n int64
	err := r.db.GetContext(ctx, &n,
		`SELECT COUNT(*) FROM transaction_logs WHERE status_code >= $1`, minStatus)
	if err != nil {
		return 0, fmt.Errorf("audit_repo.CountSince: %w", err)
	}
	return n, nil
}
