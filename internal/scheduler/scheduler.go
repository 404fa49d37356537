// Package scheduler runs the background maturity sweep: investments whose
// maturity date has passed are marked matured out-of-band, so the request path
// never has to enforce the transition synchronously.
package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/quantabi/investment/internal/config"
	"github.com/quantabi/investment/internal/repository"
)

// Scheduler owns the maturity sweep loop. Call Start(ctx) once from main();
// cancel the context to shut it down gracefully.
type Scheduler struct {
	investRepo *repository.InvestmentRepository
	cfg        *config.Config
	logger     *slog.Logger
}

// NewScheduler creates a Scheduler.
func NewScheduler(investRepo *repository.InvestmentRepository, cfg *config.Config, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		investRepo: investRepo,
		cfg:        cfg,
		logger:     logger,
	}
}

// Start launches the sweep goroutine. It returns immediately; the loop runs
// until ctx is cancelled.
func (s *Scheduler) Start(ctx context.Context) {
	go s.maturitySweepLoop(ctx)
	s.logger.Info("scheduler started", "sweep_interval", s.cfg.Ledger.SweepInterval)
}

// maturitySweepLoop runs one sweep immediately, then on every tick.
func (s *Scheduler) maturitySweepLoop(ctx context.Context) {
	defer s.recoverAndLog("maturitySweepLoop")

	s.sweep(ctx)

	ticker := time.NewTicker(s.cfg.Ledger.SweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("maturitySweepLoop: shutting down")
			return
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

// sweep transitions every due investment to matured. Failures are logged and
// retried implicitly on the next tick; the sweep is idempotent.
func (s *Scheduler) sweep(ctx context.Context) {
	sweepCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	n, err := s.investRepo.MatureDue(sweepCtx, time.Now().UTC())
	if err != nil {
		s.logger.Error("maturity sweep failed", "err", err)
		return
	}
	if n > 0 {
		s.logger.Info("investments matured", "count", n)
	}
}

// recoverAndLog keeps a panicking loop from taking the process down.
func (s *Scheduler) recoverAndLog(loop string) {
	if r := recover(); r != nil {
		s.logger.Error("scheduler loop panicked", "loop", loop, "panic", r)
	}
}
