package domain

import (
	"errors"
)

// ──────────────────────────────────────────────────────────────────────────────
// Sentinel errors — compare with errors.Is()
// ──────────────────────────────────────────────────────────────────────────────

// Ledger errors
var (
	// ErrInvalidAmount is returned when the investment amount is not a
	// positive numeric value.
	ErrInvalidAmount = errors.New("amount must be a positive number")

	// ErrProductNotFound is returned when no catalog product matches the
	// requested identifier.
	ErrProductNotFound = errors.New("product not found")

	// ErrInsufficientFunds is returned when the amount exceeds the caller's
	// available balance. The message directs the caller to top up.
	ErrInsufficientFunds = errors.New("insufficient funds, please top up your account")

	// ErrAmountOutOfRange is returned when the amount falls outside the
	// product's [min_investment, max_investment] window.
	ErrAmountOutOfRange = errors.New("amount is outside the product's investment limits")

	// ErrPersistence is returned when the ledger write fails or exceeds its
	// bounded timeout. The underlying cause is logged, never surfaced verbatim.
	ErrPersistence = errors.New("failed to record investment")

	// ErrInvestmentNotFound is returned when no ledger row matches the given id.
	ErrInvestmentNotFound = errors.New("investment not found")
)

// Catalog errors
var (
	// ErrInvalidProduct is returned when a catalog create/update payload fails
	// validation.
	ErrInvalidProduct = errors.New("invalid product payload")

	// ErrUnknownUpdateField is returned when a partial update carries a JSON
	// key that is not one of the mutable catalog fields.
	ErrUnknownUpdateField = errors.New("unknown field in product update")

	// ErrEmptyUpdate is returned when a partial update sets no field at all.
	ErrEmptyUpdate = errors.New("product update contains no fields")
)

// User / account errors
var (
	// ErrUserNotFound is returned when no user matches the given criteria.
	ErrUserNotFound = errors.New("user not found")

	// ErrAccountNotFound is returned when no funds account exists for the user.
	ErrAccountNotFound = errors.New("account not found")

	// ErrEmailTaken is returned on signup when the email already exists.
	ErrEmailTaken = errors.New("email already registered")

	// ErrInvalidCredentials is returned when login credentials are wrong.
	ErrInvalidCredentials = errors.New("invalid email or password")
)

// Auth errors
var (
	// ErrUnauthorized is returned when a valid token is not present.
	ErrUnauthorized = errors.New("access token required")

	// ErrTokenInvalid is returned when a token cannot be parsed or its
	// signature does not match.
	ErrTokenInvalid = errors.New("invalid or expired token")
)

// ──────────────────────────────────────────────────────────────────────────────
// Helper predicates
// ──────────────────────────────────────────────────────────────────────────────

// notFoundErrors collects all "entity not found" sentinel errors so that
// IsNotFound can stay in sync automatically.
var notFoundErrors = []error{
	ErrProductNotFound,
	ErrInvestmentNotFound,
	ErrUserNotFound,
	ErrAccountNotFound,
}

// IsNotFound returns true when err (or any error in its chain) is one of the
// domain "not found" errors. Use this instead of comparing error values
// directly when translating domain errors to HTTP 404 responses.
func IsNotFound(err error) bool {
	for _, target := range notFoundErrors {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// IsValidation returns true for caller-fixable errors that map to HTTP 400:
// bad input, out-of-range amounts, insufficient funds, malformed updates.
func IsValidation(err error) bool {
	validationErrors := []error{
		ErrInvalidAmount,
		ErrAmountOutOfRange,
		ErrInsufficientFunds,
		ErrInvalidProduct,
		ErrUnknownUpdateField,
		ErrEmptyUpdate,
	}
	for _, target := range validationErrors {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// IsAuthError returns true for authentication errors that map to HTTP 401.
func IsAuthError(err error) bool {
	authErrors := []error{
		ErrUnauthorized,
		ErrTokenInvalid,
		ErrInvalidCredentials,
	}
	for _, target := range authErrors {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
