package domain_test

import (
	"math/rand"
	"reflect"
	"testing"

	"github.com/quantabi/investment/internal/domain"
	"github.com/shopspring/decimal"
)

func slice(amount int64, risk domain.RiskLevel) domain.RiskSlice {
	return domain.RiskSlice{Amount: decimal.NewFromInt(amount), RiskLevel: risk}
}

func TestComputeInsights_EmptyPortfolio(t *testing.T) {
	got := domain.ComputeInsights(nil)

	if !got.TotalInvested.IsZero() {
		t.Errorf("totalInvested = %s, want 0", got.TotalInvested)
	}
	if got.DiversificationScore != 25 {
		t.Errorf("diversificationScore = %d, want 25", got.DiversificationScore)
	}
	// All three buckets must be present even with no holdings.
	for _, r := range domain.RiskLevels {
		sum, ok := got.RiskDistribution[r]
		if !ok {
			t.Errorf("bucket %q missing from distribution", r)
			continue
		}
		if !sum.IsZero() {
			t.Errorf("bucket %q = %s, want 0", r, sum)
		}
	}
}

func TestComputeInsights_DiversificationScore(t *testing.T) {
	cases := []struct {
		name   string
		slices []domain.RiskSlice
		want   int
	}{
		{
			"single bucket",
			[]domain.RiskSlice{slice(5000, domain.RiskLow)},
			25,
		},
		{
			"single bucket, many holdings",
			[]domain.RiskSlice{slice(1000, domain.RiskHigh), slice(2000, domain.RiskHigh), slice(3000, domain.RiskHigh)},
			25,
		},
		{
			"two buckets",
			[]domain.RiskSlice{slice(1000, domain.RiskLow), slice(1000, domain.RiskModerate)},
			50,
		},
		{
			"three buckets",
			[]domain.RiskSlice{slice(1000, domain.RiskLow), slice(1000, domain.RiskModerate), slice(1000, domain.RiskHigh)},
			75,
		},
		{
			"score capped at 100",
			[]domain.RiskSlice{
				slice(1000, domain.RiskLow),
				slice(1000, domain.RiskModerate),
				slice(1000, domain.RiskHigh),
				slice(1000, domain.RiskLevel("speculative")),
				slice(1000, domain.RiskLevel("frontier")),
			},
			100,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := domain.ComputeInsights(tc.slices)
			if got.DiversificationScore != tc.want {
				t.Errorf("diversificationScore = %d, want %d", got.DiversificationScore, tc.want)
			}
		})
	}
}

func TestComputeInsights_Distribution(t *testing.T) {
	got := domain.ComputeInsights([]domain.RiskSlice{
		slice(10000, domain.RiskLow),
		slice(2500, domain.RiskLow),
		slice(7000, domain.RiskHigh),
	})

	if !got.TotalInvested.Equal(decimal.NewFromInt(19500)) {
		t.Errorf("totalInvested = %s, want 19500", got.TotalInvested)
	}
	if !got.RiskDistribution[domain.RiskLow].Equal(decimal.NewFromInt(12500)) {
		t.Errorf("low bucket = %s, want 12500", got.RiskDistribution[domain.RiskLow])
	}
	if !got.RiskDistribution[domain.RiskModerate].IsZero() {
		t.Errorf("moderate bucket = %s, want 0", got.RiskDistribution[domain.RiskModerate])
	}
	if !got.RiskDistribution[domain.RiskHigh].Equal(decimal.NewFromInt(7000)) {
		t.Errorf("high bucket = %s, want 7000", got.RiskDistribution[domain.RiskHigh])
	}
	if got.DiversificationScore != 50 {
		t.Errorf("diversificationScore = %d, want 50", got.DiversificationScore)
	}
}

// TestComputeInsights_OrderIndependent permutes the same slices and asserts
// the snapshot never changes.
func TestComputeInsights_OrderIndependent(t *testing.T) {
	slices := []domain.RiskSlice{
		slice(100, domain.RiskLow),
		slice(200, domain.RiskModerate),
		slice(300, domain.RiskHigh),
		slice(400, domain.RiskLow),
		slice(500, domain.RiskHigh),
	}
	base := domain.ComputeInsights(slices)

	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 20; i++ {
		shuffled := make([]domain.RiskSlice, len(slices))
		copy(shuffled, slices)
		rng.Shuffle(len(shuffled), func(a, b int) {
			shuffled[a], shuffled[b] = shuffled[b], shuffled[a]
		})

		got := domain.ComputeInsights(shuffled)
		if !got.TotalInvested.Equal(base.TotalInvested) || got.DiversificationScore != base.DiversificationScore {
			t.Fatalf("permutation %d changed the snapshot: %+v vs %+v", i, got, base)
		}
		for r, sum := range base.RiskDistribution {
			if !got.RiskDistribution[r].Equal(sum) {
				t.Fatalf("permutation %d changed bucket %q: %s vs %s", i, r, got.RiskDistribution[r], sum)
			}
		}
	}
}

func TestRiskLevels_Canonical(t *testing.T) {
	want := []domain.RiskLevel{domain.RiskLow, domain.RiskModerate, domain.RiskHigh}
	if !reflect.DeepEqual(domain.RiskLevels, want) {
		t.Errorf("RiskLevels = %v, want %v", domain.RiskLevels, want)
	}
	for _, r := range want {
		if !r.IsValid() {
			t.Errorf("risk %q should be valid", r)
		}
	}
	if domain.RiskLevel("extreme").IsValid() {
		t.Error("risk \"extreme\" should be invalid")
	}
}
