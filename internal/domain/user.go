package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ──────────────────────────────────────────────────────────────────────────────
// User
// ──────────────────────────────────────────────────────────────────────────────

// User is the domain entity for registered accounts. The ledger itself only
// consumes the resolved identity (id + email); profile fields exist for the
// auth collaborator surface.
type User struct {
	ID           int64     `json:"id"            db:"id"`
	FirstName    string    `json:"first_name"    db:"first_name"`
	LastName     string    `json:"last_name"     db:"last_name"`
	Email        string    `json:"email"         db:"email"`
	PasswordHash string    `json:"-"             db:"password_hash"` // never serialised
	RiskAppetite RiskLevel `json:"risk_appetite" db:"risk_appetite"`
	CreatedAt    time.Time `json:"created_at"    db:"created_at"`
}

// Identity is the caller identity fact the routing layer resolves for a
// request. Both fields are absent for anonymous requests.
type Identity struct {
	UserID int64
	Email  string
}

// ──────────────────────────────────────────────────────────────────────────────
// Account
// ──────────────────────────────────────────────────────────────────────────────

// Account holds a user's available funds. It backs the balance oracle: every
// successful investment deducts from Balance inside the same transaction that
// writes the ledger row.
type Account struct {
	ID        int64           `json:"id"         db:"id"`
	UserID    int64           `json:"user_id"    db:"user_id"`
	Balance   decimal.Decimal `json:"balance"    db:"balance"`
	CreatedAt time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt time.Time       `json:"updated_at" db:"updated_at"`
}
