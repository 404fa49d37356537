package domain

import "github.com/shopspring/decimal"

// ──────────────────────────────────────────────────────────────────────────────
// Portfolio analytics — pure functions, no I/O
// ──────────────────────────────────────────────────────────────────────────────

// RiskSlice is the minimal input the analytics reducer needs per active
// investment: how much was committed and into which risk bucket.
type RiskSlice struct {
	Amount    decimal.Decimal
	RiskLevel RiskLevel
}

// PortfolioInsights is the derived, never-persisted snapshot of a user's
// active holdings, recomputed on every read.
type PortfolioInsights struct {
	RiskDistribution     map[RiskLevel]decimal.Decimal `json:"riskDistribution"`
	TotalInvested        decimal.Decimal               `json:"totalInvested"`
	DiversificationScore int                           `json:"diversificationScore"`
}

// scorePerBucket is the diversification credit for each populated risk bucket.
const scorePerBucket = 25

// ComputeInsights reduces a set of active investments into the portfolio
// snapshot: total invested, per-risk-bucket sums (all three buckets always
// present, zero when unused) and the diversification score.
//
// The score counts risk buckets with a strictly positive sum: one bucket (or
// an empty portfolio) scores 25; k buckets score min(100, 25k). Deliberately a
// coarse breadth-of-buckets proxy rather than a concentration measure —
// with three buckets it is adequate and explainable to an end user.
//
// Deterministic and order-independent: permuting the input yields the same
// snapshot.
func ComputeInsights(slices []RiskSlice) PortfolioInsights {
	dist := make(map[RiskLevel]decimal.Decimal, len(RiskLevels))
	for _, r := range RiskLevels {
		dist[r] = decimal.Zero
	}

	total := decimal.Zero
	for _, s := range slices {
		if _, ok := dist[s.RiskLevel]; !ok {
			// Unknown bucket: still counted so the cap stays meaningful.
			dist[s.RiskLevel] = decimal.Zero
		}
		dist[s.RiskLevel] = dist[s.RiskLevel].Add(s.Amount)
		total = total.Add(s.Amount)
	}

	populated := 0
	for _, sum := range dist {
		if sum.IsPositive() {
			populated++
		}
	}

	score := scorePerBucket
	if populated > 1 {
		score = populated * scorePerBucket
		if score > 100 {
			score = 100
		}
	}

	return PortfolioInsights{
		RiskDistribution:     dist,
		TotalInvested:        total,
		DiversificationScore: score,
	}
}
