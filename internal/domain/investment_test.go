package domain_test

import (
	"math/rand"
	"testing"
	"time"

	"github.com/quantabi/investment/internal/domain"
	"github.com/shopspring/decimal"
)

// TestExpectedReturn validates the maturity value formula with exact decimal
// arithmetic — no tolerance.
//
//	expected_return = amount + amount × yield / 100
func TestExpectedReturn(t *testing.T) {
	cases := []struct {
		name   string
		amount string
		yield  string
		want   string
	}{
		{"whole numbers", "10000", "12", "11200"},
		{"fractional yield", "2500", "7.25", "2681.25"},
		{"zero yield", "5000", "0", "5000"},
		{"small amount", "1", "50", "1.5"},
		{"repeating-looking decimal", "999.99", "10", "1099.989"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			amount := decimal.RequireFromString(tc.amount)
			yield := decimal.RequireFromString(tc.yield)
			want := decimal.RequireFromString(tc.want)

			got := domain.ExpectedReturn(amount, yield)
			if !got.Equal(want) {
				t.Errorf("ExpectedReturn(%s, %s) = %s, want %s", amount, yield, got, want)
			}
		})
	}
}

// TestExpectedReturn_Random checks the algebraic identity over random inputs:
// the return minus the principal must equal principal × yield / 100 exactly.
func TestExpectedReturn_Random(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	hundred := decimal.NewFromInt(100)

	for i := 0; i < 200; i++ {
		amount := decimal.NewFromInt(rng.Int63n(1_000_000) + 1).
			Add(decimal.NewFromInt(rng.Int63n(100)).Div(hundred)) // two decimal places
		yield := decimal.NewFromInt(rng.Int63n(2500)).Div(hundred) // 0.00–25.00 %

		got := domain.ExpectedReturn(amount, yield)
		wantInterest := amount.Mul(yield).Div(hundred)

		if !got.Sub(amount).Equal(wantInterest) {
			t.Fatalf("amount=%s yield=%s: return-amount = %s, want %s",
				amount, yield, got.Sub(amount), wantInterest)
		}
		if got.LessThan(amount) {
			t.Fatalf("amount=%s yield=%s: return %s below principal", amount, yield, got)
		}
	}
}

// TestAddMonths exercises calendar-month arithmetic, in particular the
// day-of-month clamp at short months and leap years.
func TestAddMonths(t *testing.T) {
	day := func(y int, m time.Month, d int) time.Time {
		return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	}

	cases := []struct {
		name   string
		start  time.Time
		months int
		want   time.Time
	}{
		{"plain month", day(2024, time.March, 15), 1, day(2024, time.April, 15)},
		{"jan 31 + 1 in leap year", day(2024, time.January, 31), 1, day(2024, time.February, 29)},
		{"jan 31 + 1 in common year", day(2023, time.January, 31), 1, day(2023, time.February, 28)},
		{"may 31 + 1 clamps to june 30", day(2024, time.May, 31), 1, day(2024, time.June, 30)},
		{"year rollover", day(2024, time.November, 30), 3, day(2025, time.February, 28)},
		{"multi-year tenure", day(2024, time.June, 10), 36, day(2027, time.June, 10)},
		{"dec 31 + 2 clamps at feb", day(2023, time.December, 31), 2, day(2024, time.February, 29)},
		{"zero months", day(2024, time.July, 4), 0, day(2024, time.July, 4)},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := domain.AddMonths(tc.start, tc.months)
			if !got.Equal(tc.want) {
				t.Errorf("AddMonths(%s, %d) = %s, want %s",
					tc.start.Format("2006-01-02"), tc.months,
					got.Format("2006-01-02"), tc.want.Format("2006-01-02"))
			}
		})
	}
}

// TestAddMonths_PreservesClock ensures the time-of-day component survives the
// month shift (maturity is derived from the invested_at timestamp).
func TestAddMonths_PreservesClock(t *testing.T) {
	start := time.Date(2024, time.January, 31, 14, 30, 45, 0, time.UTC)
	got := domain.AddMonths(start, 1)
	want := time.Date(2024, time.February, 29, 14, 30, 45, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("AddMonths = %s, want %s", got, want)
	}
}

func TestInvestmentStatusValidity(t *testing.T) {
	valid := []domain.InvestmentStatus{
		domain.InvestmentActive, domain.InvestmentMatured, domain.InvestmentCancelled,
	}
	for _, s := range valid {
		if !s.IsValid() {
			t.Errorf("status %q should be valid", s)
		}
	}
	if domain.InvestmentStatus("open").IsValid() {
		t.Error("status \"open\" should be invalid")
	}
}

func TestProductAllowsAmount(t *testing.T) {
	max := decimal.NewFromInt(50000)
	p := &domain.Product{
		MinInvestment: decimal.NewFromInt(1000),
		MaxInvestment: &max,
	}

	if p.AllowsAmount(decimal.NewFromInt(999)) {
		t.Error("amount below minimum should be rejected")
	}
	if !p.AllowsAmount(decimal.NewFromInt(1000)) {
		t.Error("amount at minimum should be allowed")
	}
	if !p.AllowsAmount(decimal.NewFromInt(50000)) {
		t.Error("amount at maximum should be allowed")
	}
	if p.AllowsAmount(decimal.NewFromInt(50001)) {
		t.Error("amount above maximum should be rejected")
	}

	unbounded := &domain.Product{MinInvestment: decimal.NewFromInt(100)}
	if !unbounded.AllowsAmount(decimal.NewFromInt(10_000_000)) {
		t.Error("product without max should allow any amount above minimum")
	}
}
