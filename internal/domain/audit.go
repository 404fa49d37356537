package domain

import "time"

// ──────────────────────────────────────────────────────────────────────────────
// Audit log
// ──────────────────────────────────────────────────────────────────────────────

// AuditEntry is the durable record of one inbound request's terminal outcome.
// Append-only: never updated or deleted. Exactly one entry is written per
// request handled by the server, after the response is finalised, whether the
// request succeeded or not. Anonymous requests are logged with both identity
// fields NULL.
type AuditEntry struct {
	ID           int64     `json:"id"            db:"id"`
	UserID       *int64    `json:"user_id"       db:"user_id"`
	Email        *string   `json:"email"         db:"email"`
	Endpoint     string    `json:"endpoint"      db:"endpoint"` // path only, no query string
	HTTPMethod   string    `json:"http_method"   db:"http_method"`
	StatusCode   int       `json:"status_code"   db:"status_code"`
	ErrorMessage *string   `json:"error_message" db:"error_message"`
	CreatedAt    time.Time `json:"created_at"    db:"created_at"`
}

// IsError reports whether the entry records a failed request.
func (e *AuditEntry) IsError() bool {
	return e.StatusCode >= 400
}

// ErrorSummaryRow is one line of the grouped error report served alongside the
// audit log listing: how often a given endpoint failed with a given message on
// a given day.
type ErrorSummaryRow struct {
	TotalErrors  int    `json:"total_errors"  db:"total_errors"`
	Endpoint     string `json:"endpoint"      db:"endpoint"`
	ErrorMessage string `json:"error_message" db:"error_message"`
	ErrorDate    string `json:"error_date"    db:"error_date"`
}
