package service

import (
	"context"
	"fmt"
	"time"

	"github.com/quantabi/investment/internal/domain"
	"github.com/quantabi/investment/internal/repository"
)

// ProductService serves the catalog surface: public listing plus the
// administrative create / partial-update / delete operations. The ledger never
// goes through this service; it consumes the catalog read-only.
type ProductService struct {
	productRepo *repository.ProductRepository
}

// NewProductService creates a ProductService.
func NewProductService(productRepo *repository.ProductRepository) *ProductService {
	return &ProductService{productRepo: productRepo}
}

// List returns catalog products, optionally filtered by type and risk level.
func (s *ProductService) List(ctx context.Context, invType domain.InvestmentType, risk domain.RiskLevel) ([]*domain.Product, error) {
	if invType != "" && !invType.IsValid() {
		return nil, domain.ErrInvalidProduct
	}
	if risk != "" && !risk.IsValid() {
		return nil, domain.ErrInvalidProduct
	}
	products, err := s.productRepo.List(ctx, invType, risk)
	if err != nil {
		return nil, fmt.Errorf("product_service.List: %w", err)
	}
	return products, nil
}

// Get returns a single product by id.
func (s *ProductService) Get(ctx context.Context, id int64) (*domain.Product, error) {
	return s.productRepo.GetByID(ctx, id)
}

// Create validates and inserts a new catalog product, returning its id.
func (s *ProductService) Create(ctx context.Context, p *domain.Product) (int64, error) {
	if err := p.Validate(); err != nil {
		return 0, err
	}
	p.CreatedAt = time.Now().UTC()
	if err := s.productRepo.Create(ctx, p); err != nil {
		return 0, fmt.Errorf("product_service.Create: %w", err)
	}
	return p.ID, nil
}

// Update applies a typed partial update. Empty updates and invalid field
// values are rejected before touching the store.
func (s *ProductService) Update(ctx context.Context, id int64, upd *domain.ProductUpdate) error {
	if upd.IsEmpty() {
		return domain.ErrEmptyUpdate
	}
	if err := upd.Validate(); err != nil {
		return err
	}
	return s.productRepo.Update(ctx, id, upd)
}

// Delete removes a product from the catalog.
func (s *ProductService) Delete(ctx context.Context, id int64) error {
	return s.productRepo.Delete(ctx, id)
}

// Recommended returns the top products for the user's risk appetite.
func (s *ProductService) Recommended(ctx context.Context, risk domain.RiskLevel, limit int) ([]*domain.Product, error) {
	if !risk.IsValid() {
		risk = domain.RiskModerate
	}
	if limit <= 0 || limit > 20 {
		limit = 5
	}
	products, err := s.productRepo.Recommended(ctx, risk, limit)
	if err != nil {
		return nil, fmt.Errorf("product_service.Recommended: %w", err)
	}
	return products, nil
}
