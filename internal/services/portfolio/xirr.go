package portfolio

import (
	"math"

	"github.com/foliotrack/folio/internal/models"
)

// DefaultRateGuess is the starting rate for Newton-Raphson iteration.
const DefaultRateGuess = 0.1

const (
	maxIterations = 100
	tolerance     = 1e-7
	minRate       = -0.99 // -99% annualized
	maxRate       = 10.0  // +1000% annualized
)

// SolveRate computes the annualized internal rate of return for a set of
// dated signed cash flows: the rate r such that
//
//	NPV(r) = sum of amount_i / (1+r)^years_i = 0
//
// where years_i is the day distance from the earliest flow divided by 365.25.
// The 365.25-day year matches spreadsheet XIRR annualization.
//
// Returns nil when no meaningful rate exists: fewer than two flows, all flows
// on the same side of zero, or no convergence within the iteration cap. A nil
// result means "rate unavailable", not a fault.
func SolveRate(flows []models.CashFlow, guess float64) *float64 {
	if len(flows) < 2 {
		return nil
	}

	hasNeg, hasPos := false, false
	for _, f := range flows {
		if f.Amount < 0 {
			hasNeg = true
		}
		if f.Amount > 0 {
			hasPos = true
		}
	}
	if !hasNeg || !hasPos {
		return nil
	}

	// Year fractions relative to the earliest flow date.
	base := flows[0].Date
	for _, f := range flows[1:] {
		if f.Date.Before(base) {
			base = f.Date
		}
	}
	years := make([]float64, len(flows))
	for i, f := range flows {
		days := f.Date.Sub(base).Hours() / 24
		years[i] = days / 365.25
	}

	rate := guess

	for iter := 0; iter < maxIterations; iter++ {
		npv := 0.0
		dnpv := 0.0

		for i, f := range flows {
			discount := math.Pow(1+rate, years[i])
			if discount == 0 {
				continue
			}
			npv += f.Amount / discount
			dnpv -= years[i] * f.Amount / (discount * (1 + rate))
		}

		if math.Abs(npv) < tolerance {
			r := rate
			return &r
		}

		if math.Abs(dnpv) < tolerance {
			// Flat slope: a Newton step would blow up. Nudge and retry.
			rate += 0.1
			continue
		}

		next := rate - npv/dnpv
		if next < minRate {
			next = minRate
		}
		if next > maxRate {
			next = maxRate
		}

		if math.Abs(next-rate) < tolerance {
			return &next
		}
		rate = next
	}

	return nil
}
