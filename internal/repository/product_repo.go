package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/quantabi/investment/internal/domain"
)

// ProductRepository handles all database operations for the product catalog.
// The ledger consumes it read-only; the mutating methods serve the admin
// catalog surface.
type ProductRepository struct {
	db *sqlx.DB
}

// NewProductRepository creates a new ProductRepository.
func NewProductRepository(db *sqlx.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

// GetByID fetches a single product. Returns domain.ErrProductNotFound when no
// product matches.
func (r *ProductRepository) GetByID(ctx context.Context, id int64) (*domain.Product, error) {
	var p domain.Product
	err := r.db.GetContext(ctx, &p, `SELECT * FROM investment_products WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrProductNotFound
		}
		return nil, fmt.Errorf("product_repo.GetByID: %w", err)
	}
	return &p, nil
}

// List returns products newest first, optionally filtered by type and/or risk
// level. Empty filter values mean "all".
func (r *ProductRepository) List(ctx context.Context, invType domain.InvestmentType, risk domain.RiskLevel) ([]*domain.Product, error) {
	query := `SELECT * FROM investment_products WHERE 1=1`
	var args []interface{}
	if invType != "" {
		args = append(args, invType)
		query += fmt.Sprintf(" AND investment_type = $%d", len(args))
	}
	if risk != "" {
		args = append(args, risk)
		query += fmt.Sprintf(" AND risk_level = $%d", len(args))
	}
	query += " ORDER BY created_at DESC"

	var products []*domain.Product
	if err := r.db.SelectContext(ctx, &products, query, args...); err != nil {
		return nil, fmt.Errorf("product_repo.List: %w", err)
	}
	return products, nil
}

// Create inserts a new catalog product and fills in the generated id.
func (r *ProductRepository) Create(ctx context.Context, p *domain.Product) error {
	err := r.db.QueryRowxContext(ctx, `
		INSERT INTO investment_products
			(name, investment_type, tenure_months, annual_yield, risk_level,
			 min_investment, max_investment, description, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id`,
		p.Name, p.Type, p.TenureMonths, p.AnnualYield, p.RiskLevel,
		p.MinInvestment, p.MaxInvestment, p.Description, p.CreatedAt,
	).Scan(&p.ID)
	if err != nil {
		return fmt.Errorf("product_repo.Create: %w", err)
	}
	return nil
}

// Update applies a typed partial update. Column names come from the fixed
// field list below, never from caller input; only the values are bound.
func (r *ProductRepository) Update(ctx context.Context, id int64, upd *domain.ProductUpdate) error {
	var sets []string
	var args []interface{}

	add := func(col string, val interface{}) {
		args = append(args, val)
		sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)))
	}

	if upd.Name != nil {
		add("name", *upd.Name)
	}
	if upd.Type != nil {
		add("investment_type", *upd.Type)
	}
	if upd.TenureMonths != nil {
		add("tenure_months", *upd.TenureMonths)
	}
	if upd.AnnualYield != nil {
		add("annual_yield", *upd.AnnualYield)
	}
	if upd.RiskLevel != nil {
		add("risk_level", *upd.RiskLevel)
	}
	if upd.MinInvestment != nil {
		add("min_investment", *upd.MinInvestment)
	}
	if upd.MaxInvestment != nil {
		add("max_investment", *upd.MaxInvestment)
	}
	if upd.Description != nil {
		add("description", *upd.Description)
	}

	if len(sets) == 0 {
		return domain.ErrEmptyUpdate
	}

	args = append(args, id)
	query := fmt.Sprintf(`UPDATE investment_products SET %s WHERE id = $%d`,
		strings.Join(sets, ", "), len(args))

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("product_repo.Update: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrProductNotFound
	}
	return nil
}

// Delete removes a product from the catalog.
func (r *ProductRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM investment_products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("product_repo.Delete: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrProductNotFound
	}
	return nil
}

// Recommended returns up to limit products matching the given risk appetite,
// highest yield first.
func (r *ProductRepository) Recommended(ctx context.Context, risk domain.RiskLevel, limit int) ([]*domain.Product, error) {
	var products []*domain.Product
	err := r.db.SelectContext(ctx, &products, `
		SELECT * FROM investment_products
		WHERE risk_level = $1
		ORDER BY annual_yield DESC
		LIMIT $2`,
		risk, limit)
	if err != nil {
		return nil, fmt.Errorf("product_repo.Recommended: %w", err)
	}
	return products, nil
}
