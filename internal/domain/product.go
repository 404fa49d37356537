// Package domain defines the core business entities and types for the
// investment ledger and portfolio analytics service.
package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ──────────────────────────────────────────────────────────────────────────────
// Types & constants
// ──────────────────────────────────────────────────────────────────────────────

// InvestmentType categorises a product on the catalog.
type InvestmentType string

const (
	TypeBond         InvestmentType = "bond"
	TypeFixedDeposit InvestmentType = "fixed_deposit"
	TypeMutualFund   InvestmentType = "mutual_fund"
	TypeETF          InvestmentType = "etf"
	TypeOther        InvestmentType = "other"
)

// IsValid returns true if the investment type is a recognised category.
func (t InvestmentType) IsValid() bool {
	switch t {
	case TypeBond, TypeFixedDeposit, TypeMutualFund, TypeETF, TypeOther:
		return true
	}
	return false
}

// RiskLevel is the coarse categorical risk label attached to a product.
type RiskLevel string

const (
	RiskLow      RiskLevel = "low"
	RiskModerate RiskLevel = "moderate"
	RiskHigh     RiskLevel = "high"
)

// RiskLevels lists every bucket in canonical order. Portfolio insights report
// all of them, including buckets with zero invested amount.
var RiskLevels = []RiskLevel{RiskLow, RiskModerate, RiskHigh}

// IsValid returns true if the risk level is one of the three buckets.
func (r RiskLevel) IsValid() bool {
	return r == RiskLow || r == RiskModerate || r == RiskHigh
}

// ──────────────────────────────────────────────────────────────────────────────
// Product
// ──────────────────────────────────────────────────────────────────────────────

// Product is a fixed-term investment product on the catalog. The ledger treats
// it as read-only: yield, tenure and limits are resolved at investment time and
// baked into the resulting contract.
type Product struct {
	ID            int64            `json:"id"             db:"id"`
	Name          string           `json:"name"           db:"name"`
	Type          InvestmentType   `json:"investment_type" db:"investment_type"`
	TenureMonths  int              `json:"tenure_months"  db:"tenure_months"`
	AnnualYield   decimal.Decimal  `json:"annual_yield"   db:"annual_yield"`
	RiskLevel     RiskLevel        `json:"risk_level"     db:"risk_level"`
	MinInvestment decimal.Decimal  `json:"min_investment" db:"min_investment"`
	MaxInvestment *decimal.Decimal `json:"max_investment" db:"max_investment"` // NULL = no upper bound
	Description   string           `json:"description"    db:"description"`
	CreatedAt     time.Time        `json:"created_at"     db:"created_at"`
}

// AllowsAmount reports whether amount falls inside the product's
// [min_investment, max_investment] window. A nil MaxInvestment means the
// product has no upper bound.
func (p *Product) AllowsAmount(amount decimal.Decimal) bool {
	if amount.LessThan(p.MinInvestment) {
		return false
	}
	if p.MaxInvestment != nil && amount.GreaterThan(*p.MaxInvestment) {
		return false
	}
	return true
}

// Validate checks a product payload before it is written to the catalog.
func (p *Product) Validate() error {
	if p.Name == "" {
		return ErrInvalidProduct
	}
	if !p.Type.IsValid() || !p.RiskLevel.IsValid() {
		return ErrInvalidProduct
	}
	if p.TenureMonths <= 0 {
		return ErrInvalidProduct
	}
	if p.AnnualYield.IsNegative() {
		return ErrInvalidProduct
	}
	if p.MinInvestment.IsNegative() {
		return ErrInvalidProduct
	}
	if p.MaxInvestment != nil && p.MaxInvestment.LessThan(p.MinInvestment) {
		return ErrInvalidProduct
	}
	return nil
}

// ──────────────────────────────────────────────────────────────────────────────
// ProductUpdate — typed partial update
// ──────────────────────────────────────────────────────────────────────────────

// ProductUpdate enumerates the mutable catalog fields for a partial update.
// Nil pointers mean "leave unchanged". Unknown JSON keys are rejected at the
// handler layer, so caller-provided field names never reach a SQL statement.
type ProductUpdate struct {
	Name          *string          `json:"name"`
	Type          *InvestmentType  `json:"investment_type"`
	TenureMonths  *int             `json:"tenure_months"`
	AnnualYield   *decimal.Decimal `json:"annual_yield"`
	RiskLevel     *RiskLevel       `json:"risk_level"`
	MinInvestment *decimal.Decimal `json:"min_investment"`
	MaxInvestment *decimal.Decimal `json:"max_investment"`
	Description   *string          `json:"description"`
}

// IsEmpty returns true when no field is set.
func (u *ProductUpdate) IsEmpty() bool {
	return u.Name == nil && u.Type == nil && u.TenureMonths == nil &&
		u.AnnualYield == nil && u.RiskLevel == nil && u.MinInvestment == nil &&
		u.MaxInvestment == nil && u.Description == nil
}

// Validate rejects updates that would leave the product in an invalid state.
func (u *ProductUpdate) Validate() error {
	if u.Type != nil && !u.Type.IsValid() {
		return ErrInvalidProduct
	}
	if u.RiskLevel != nil && !u.RiskLevel.IsValid() {
		return ErrInvalidProduct
	}
	if u.TenureMonths != nil && *u.TenureMonths <= 0 {
		return ErrInvalidProduct
	}
	if u.AnnualYield != nil && u.AnnualYield.IsNegative() {
		return ErrInvalidProduct
	}
	if u.MinInvestment != nil && u.MinInvestment.IsNegative() {
		return ErrInvalidProduct
	}
	return nil
}
