// Package service contains the business services that orchestrate validation,
// derived-contract maths and transactional persistence on top of the
// repository layer.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/quantabi/investment/internal/config"
	"github.com/quantabi/investment/internal/domain"
	"github.com/quantabi/investment/internal/repository"
	"github.com/shopspring/decimal"
)

// ──────────────────────────────────────────────────────────────────────────────
// Collaborator interfaces
// ──────────────────────────────────────────────────────────────────────────────

// ProductCatalog is the read-only product lookup the ledger consumes.
// Implemented by repository.ProductRepository.
type ProductCatalog interface {
	GetByID(ctx context.Context, id int64) (*domain.Product, error)
}

// BalanceOracle answers how much a user can currently commit. Implemented by
// repository.AccountRepository; a stub or an external account service can back
// it in tests and other deployments.
type BalanceOracle interface {
	GetAvailableBalance(ctx context.Context, userID int64) (decimal.Decimal, error)
}

// SnapshotCache caches computed portfolio views between reads. Optional;
// injected post-construction. Implementations must treat every failure as a
// cache miss.
type SnapshotCache interface {
	Get(ctx context.Context, userID int64) (*PortfolioView, bool)
	Set(ctx context.Context, userID int64, view *PortfolioView)
	Invalidate(ctx context.Context, userID int64)
}

// PortfolioView bundles a user's ledger rows with the derived insights.
type PortfolioView struct {
	Portfolio []*domain.PortfolioEntry `json:"portfolio"`
	Insights  domain.PortfolioInsights `json:"insights"`
}

// ──────────────────────────────────────────────────────────────────────────────
// InvestmentService
// ──────────────────────────────────────────────────────────────────────────────

// InvestmentService validates and records commitments of funds into products
// and serves the aggregated portfolio view. All money movement happens inside
// a single PostgreSQL transaction.
type InvestmentService struct {
	db          *sqlx.DB
	investRepo  *repository.InvestmentRepository
	accountRepo *repository.AccountRepository
	catalog     ProductCatalog
	oracle      BalanceOracle
	cfg         *config.Config
	cache       SnapshotCache // optional, injected post-construction
}

// NewInvestmentService creates an InvestmentService.
func NewInvestmentService(
	db *sqlx.DB,
	investRepo *repository.InvestmentRepository,
	accountRepo *repository.AccountRepository,
	catalog ProductCatalog,
	oracle BalanceOracle,
	cfg *config.Config,
) *InvestmentService {
	return &InvestmentService{
		db:          db,
		investRepo:  investRepo,
		accountRepo: accountRepo,
		catalog:     catalog,
		oracle:      oracle,
		cfg:         cfg,
	}
}

// SetSnapshotCache injects the optional portfolio cache post-construction.
func (s *InvestmentService) SetSnapshotCache(c SnapshotCache) { s.cache = c }

// ──────────────────────────────────────────────────────────────────────────────
// Invest
// ──────────────────────────────────────────────────────────────────────────────

// Invest validates the request and atomically records the commitment.
//
// Preconditions are checked in order, each a distinct failure: positive
// amount, product exists, sufficient balance, amount within the product's
// limits. The derived contract is then computed and persisted.
//
// The oracle read gives fast feedback, but the authoritative balance check is
// the FOR UPDATE reservation inside the transaction: two concurrent calls for
// the same user serialise on the account row lock, so they can never jointly
// commit more than the available balance. The write path runs under a bounded
// timeout; any failure inside it rolls the whole unit back and surfaces as
// ErrPersistence with the cause kept to the internal log.
func (s *InvestmentService) Invest(ctx context.Context, req domain.InvestRequest) (*domain.Investment, error) {
	// ── 1. Input validation ──────────────────────────────────────────────────
	if !req.Amount.IsPositive() {
		return nil, domain.ErrInvalidAmount
	}

	// ── 2. Resolve product ───────────────────────────────────────────────────
	product, err := s.catalog.GetByID(ctx, req.ProductID)
	if err != nil {
		return nil, err // ErrProductNotFound or wrapped store error
	}

	// ── 3. Balance check ─────────────────────────────────────────────────────
	balance, err := s.oracle.GetAvailableBalance(ctx, req.UserID)
	if err != nil {
		return nil, fmt.Errorf("investment_service.Invest: balance: %w", err)
	}
	if req.Amount.GreaterThan(balance) {
		return nil, domain.ErrInsufficientFunds
	}

	// ── 4. Product limits ────────────────────────────────────────────────────
	if !product.AllowsAmount(req.Amount) {
		return nil, domain.ErrAmountOutOfRange
	}

	// ── 5. Derived contract ──────────────────────────────────────────────────
	now := time.Now().UTC()
	inv := &domain.Investment{
		UserID:         req.UserID,
		ProductID:      req.ProductID,
		Amount:         req.Amount,
		ExpectedReturn: domain.ExpectedReturn(req.Amount, product.AnnualYield),
		MaturityDate:   domain.MaturityDate(now, product.TenureMonths),
		Status:         domain.InvestmentActive,
		InvestedAt:     now,
	}

	// ── 6. Atomic reserve + append ───────────────────────────────────────────
	if err := s.commit(ctx, inv); err != nil {
		return nil, err
	}

	// Synchronous: the stale snapshot must be gone before the caller can
	// issue its next portfolio read.
	if s.cache != nil {
		s.invalidateSnapshot(req.UserID)
	}
	return inv, nil
}

// commit runs the balance reservation and the ledger append as one
// transaction under the configured write timeout.
func (s *InvestmentService) commit(ctx context.Context, inv *domain.Investment) error {
	txCtx, cancel := context.WithTimeout(ctx, s.cfg.Ledger.WriteTimeout)
	defer cancel()

	tx, err := s.db.BeginTxx(txCtx, nil)
	if err != nil {
		return s.persistenceFailure("begin tx", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	// Re-checks the balance under the row lock; the oracle read in Invest is
	// advisory only.
	if err = s.accountRepo.ReserveFunds(txCtx, tx, inv.UserID, inv.Amount); err != nil {
		if domain.IsValidation(err) || domain.IsNotFound(err) {
			return err
		}
		return s.persistenceFailure("reserve funds", err)
	}

	if err = s.investRepo.CreateTx(txCtx, tx, inv); err != nil {
		return s.persistenceFailure("append ledger row", err)
	}

	if err = tx.Commit(); err != nil {
		return s.persistenceFailure("commit", err)
	}
	return nil
}

// persistenceFailure logs the underlying cause and returns the generic
// persistence sentinel so callers never see store internals.
func (s *InvestmentService) persistenceFailure(stage string, cause error) error {
	slog.Error("investment write failed", "stage", stage, "err", cause)
	return fmt.Errorf("investment_service.Invest: %s: %w", stage, domain.ErrPersistence)
}

// invalidateSnapshot drops the user's cached portfolio after a committed
// write. It runs before Invest returns, so the caller's own next read never
// sees the pre-write snapshot. Detached from the request context: once the
// ledger write committed, the invalidation must happen even if the caller's
// deadline expired meanwhile.
func (s *InvestmentService) invalidateSnapshot(userID int64) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	s.cache.Invalidate(ctx, userID)
}

// ──────────────────────────────────────────────────────────────────────────────
// Reads
// ──────────────────────────────────────────────────────────────────────────────

// GetUserInvestments returns the user's ledger rows joined with product
// details, newest first.
func (s *InvestmentService) GetUserInvestments(ctx context.Context, userID int64) ([]*domain.PortfolioEntry, error) {
	entries, err := s.investRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("investment_service.GetUserInvestments: %w", err)
	}
	return entries, nil
}

// Portfolio returns the user's holdings with recomputed insights. When a
// snapshot cache is configured it is consulted first; writes invalidate it, so
// a caller always sees its own committed investments.
func (s *InvestmentService) Portfolio(ctx context.Context, userID int64) (*PortfolioView, error) {
	if s.cache != nil {
		if view, ok := s.cache.Get(ctx, userID); ok {
			return view, nil
		}
	}

	entries, err := s.investRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("investment_service.Portfolio: list: %w", err)
	}
	slices, err := s.investRepo.ActiveSlices(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("investment_service.Portfolio: slices: %w", err)
	}

	view := &PortfolioView{
		Portfolio: entries,
		Insights:  domain.ComputeInsights(slices),
	}
	if s.cache != nil {
		s.cache.Set(ctx, userID, view)
	}
	return view, nil
}
