package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ──────────────────────────────────────────────────────────────────────────────
// Types & constants
// ──────────────────────────────────────────────────────────────────────────────

// InvestmentStatus represents the lifecycle state of a committed investment.
type InvestmentStatus string

const (
	InvestmentActive    InvestmentStatus = "active"    // funds committed, tenure running
	InvestmentMatured   InvestmentStatus = "matured"   // maturity date passed
	InvestmentCancelled InvestmentStatus = "cancelled" // voided via administrative path
)

// IsValid returns true if the status is a recognised lifecycle state.
func (s InvestmentStatus) IsValid() bool {
	return s == InvestmentActive || s == InvestmentMatured || s == InvestmentCancelled
}

var oneHundred = decimal.NewFromInt(100)

// ──────────────────────────────────────────────────────────────────────────────
// Investment
// ──────────────────────────────────────────────────────────────────────────────

// Investment is a single commitment of funds into a product. Once created,
// amount, product and the derived maturity contract are immutable; only the
// status field transitions.
type Investment struct {
	ID             int64            `json:"id"              db:"id"`
	UserID         int64            `json:"user_id"         db:"user_id"`
	ProductID      int64            `json:"product_id"      db:"product_id"`
	Amount         decimal.Decimal  `json:"amount"          db:"amount"`
	ExpectedReturn decimal.Decimal  `json:"expected_return" db:"expected_return"`
	MaturityDate   time.Time        `json:"maturity_date"   db:"maturity_date"`
	Status         InvestmentStatus `json:"status"          db:"status"`
	InvestedAt     time.Time        `json:"invested_at"     db:"invested_at"`
}

// IsActive returns true while the investment still counts toward the portfolio.
func (i *Investment) IsActive() bool {
	return i.Status == InvestmentActive
}

// PortfolioEntry is an Investment joined with the product fields a portfolio
// view needs. Produced by the ledger read path, newest first.
type PortfolioEntry struct {
	Investment
	ProductName string          `json:"product_name"    db:"product_name"`
	ProductType InvestmentType  `json:"investment_type" db:"product_type"`
	AnnualYield decimal.Decimal `json:"annual_yield"    db:"annual_yield"`
	RiskLevel   RiskLevel       `json:"risk_level"      db:"risk_level"`
}

// InvestRequest carries the validated inputs for a ledger commitment.
type InvestRequest struct {
	UserID    int64
	ProductID int64
	Amount    decimal.Decimal
}

// ──────────────────────────────────────────────────────────────────────────────
// Derived contract maths
// ──────────────────────────────────────────────────────────────────────────────

// ExpectedReturn computes the maturity value of amount invested at the given
// annual yield over the full tenure:
//
//	expected_return = amount + amount × yield / 100
//
// Simple interest, not compounded, regardless of tenure length. Exact decimal
// arithmetic — no float rounding.
func ExpectedReturn(amount, annualYield decimal.Decimal) decimal.Decimal {
	return amount.Add(amount.Mul(annualYield).Div(oneHundred))
}

// AddMonths advances t by n calendar months, clamping the day of month to the
// last valid day of the target month. Jan 31 + 1 month is Feb 29 in a leap
// year and Feb 28 otherwise, never Mar 2.
func AddMonths(t time.Time, n int) time.Time {
	year, month, day := t.Date()
	first := time.Date(year, month, 1, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
	target := first.AddDate(0, n, 0)
	if last := daysIn(target.Month(), target.Year()); day > last {
		day = last
	}
	return time.Date(target.Year(), target.Month(), day,
		t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}

// daysIn returns the number of days in the given month.
func daysIn(m time.Month, year int) int {
	return time.Date(year, m+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// MaturityDate returns investedAt advanced by the product tenure.
func MaturityDate(investedAt time.Time, tenureMonths int) time.Time {
	return AddMonths(investedAt, tenureMonths)
}
