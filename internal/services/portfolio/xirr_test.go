package portfolio

import (
	"math"
	"testing"
	"time"

	"github.com/foliotrack/folio/internal/models"
)

func approxEqual(got, want, tol float64) bool {
	return math.Abs(got-want) <= tol
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestSolveRate_KnownSinglePeriodRate(t *testing.T) {
	// -1000 at t0, +1100 exactly 365 days later. With the 365.25-day year the
	// exact solution is 1.1^(365.25/365) - 1, a hair above 10%.
	flows := []models.CashFlow{
		{Date: date(2024, 1, 1), Amount: -1000},
		{Date: date(2024, 1, 1).AddDate(0, 0, 365), Amount: 1100},
	}

	rate := SolveRate(flows, DefaultRateGuess)
	if rate == nil {
		t.Fatal("SolveRate returned nil, want a rate")
	}

	want := math.Pow(1.1, 365.25/365.0) - 1
	if !approxEqual(*rate, want, 1e-6) {
		t.Errorf("SolveRate = %.8f, want %.8f", *rate, want)
	}
	if !approxEqual(*rate, 0.10, 1e-3) {
		t.Errorf("SolveRate = %.8f, want ~0.10", *rate)
	}
}

func TestSolveRate_SingleFlowReturnsNil(t *testing.T) {
	flows := []models.CashFlow{
		{Date: date(2024, 1, 1), Amount: -1000},
	}
	if rate := SolveRate(flows, DefaultRateGuess); rate != nil {
		t.Errorf("SolveRate = %v, want nil for a single flow", *rate)
	}
}

func TestSolveRate_NoSignChangeReturnsNil(t *testing.T) {
	allPositive := []models.CashFlow{
		{Date: date(2024, 1, 1), Amount: 1000},
		{Date: date(2025, 1, 1), Amount: 1100},
	}
	if rate := SolveRate(allPositive, DefaultRateGuess); rate != nil {
		t.Errorf("SolveRate = %v, want nil for all-positive flows", *rate)
	}

	allNegative := []models.CashFlow{
		{Date: date(2024, 1, 1), Amount: -1000},
		{Date: date(2025, 1, 1), Amount: -1100},
	}
	if rate := SolveRate(allNegative, DefaultRateGuess); rate != nil {
		t.Errorf("SolveRate = %v, want nil for all-negative flows", *rate)
	}
}

func TestSolveRate_ZeroAmountFlowsDoNotCountAsSignChange(t *testing.T) {
	flows := []models.CashFlow{
		{Date: date(2024, 1, 1), Amount: 0},
		{Date: date(2025, 1, 1), Amount: 1100},
	}
	if rate := SolveRate(flows, DefaultRateGuess); rate != nil {
		t.Errorf("SolveRate = %v, want nil when no negative flow exists", *rate)
	}
}

func TestSolveRate_MultipleFlows(t *testing.T) {
	// Two investments and a final value; verify NPV at the returned rate is ~0.
	flows := []models.CashFlow{
		{Date: date(2023, 1, 1), Amount: -10000},
		{Date: date(2023, 7, 1), Amount: -5000},
		{Date: date(2024, 3, 1), Amount: 800},
		{Date: date(2025, 1, 1), Amount: 17000},
	}

	rate := SolveRate(flows, DefaultRateGuess)
	if rate == nil {
		t.Fatal("SolveRate returned nil, want a rate")
	}

	base := flows[0].Date
	npv := 0.0
	for _, f := range flows {
		years := f.Date.Sub(base).Hours() / 24 / 365.25
		npv += f.Amount / math.Pow(1+*rate, years)
	}
	if math.Abs(npv) > 1e-4 {
		t.Errorf("NPV at solved rate = %.6f, want ~0 (rate=%.6f)", npv, *rate)
	}
}

func TestSolveRate_NegativeReturn(t *testing.T) {
	// Lose 20% over exactly one 365.25-day year.
	flows := []models.CashFlow{
		{Date: date(2024, 1, 1), Amount: -10000},
		{Date: date(2024, 1, 1).Add(time.Duration(365.25 * 24 * float64(time.Hour))), Amount: 8000},
	}

	rate := SolveRate(flows, DefaultRateGuess)
	if rate == nil {
		t.Fatal("SolveRate returned nil, want a rate")
	}
	if !approxEqual(*rate, -0.20, 1e-6) {
		t.Errorf("SolveRate = %.8f, want -0.20", *rate)
	}
}

func TestSolveRate_ExtremeGainClampsAtCap(t *testing.T) {
	// True rate far above +1000%; iterates pin at the cap and the stall rule
	// returns it rather than diverging.
	flows := []models.CashFlow{
		{Date: date(2024, 1, 1), Amount: -1},
		{Date: date(2025, 1, 1), Amount: 1e6},
	}

	rate := SolveRate(flows, DefaultRateGuess)
	if rate == nil {
		t.Fatal("SolveRate returned nil, want the clamped cap")
	}
	if !approxEqual(*rate, 10.0, 1e-6) {
		t.Errorf("SolveRate = %.8f, want 10.0 (cap)", *rate)
	}
}

func TestSolveRate_UnsortedFlowsUseEarliestAsBase(t *testing.T) {
	// Same flows in two orders must solve to the same rate.
	a := []models.CashFlow{
		{Date: date(2024, 1, 1), Amount: -1000},
		{Date: date(2025, 1, 1), Amount: 1150},
	}
	b := []models.CashFlow{a[1], a[0]}

	ra := SolveRate(a, DefaultRateGuess)
	rb := SolveRate(b, DefaultRateGuess)
	if ra == nil || rb == nil {
		t.Fatal("SolveRate returned nil for a solvable flow set")
	}
	if !approxEqual(*ra, *rb, 1e-9) {
		t.Errorf("order-dependent result: %.10f vs %.10f", *ra, *rb)
	}
}
