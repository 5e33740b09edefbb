package portfolio

import (
	"sort"
	"time"

	"github.com/foliotrack/folio/internal/models"
)

// DeriveCashFlows maps ledger events to signed cash flows from the investor's
// point of view:
//
//	cash_in    → negative (capital leaving the investor into the account)
//	cash_out   → positive
//	trade_buy  → negative, amount + fee
//	trade_sell → positive, amount (proceeds are recorded net upstream, so the
//	             fee is not subtracted again here)
//	dividend   → positive, amount
//	fee        → negative, amount
//
// When terminalValue > 0 a final positive flow at terminalDate is appended,
// treating the open position as liquidated at market value — the standard
// money-weighted-return technique for valuing an open portfolio.
func DeriveCashFlows(events []models.LedgerEvent, terminalValue float64, terminalDate time.Time) []models.CashFlow {
	flows := make([]models.CashFlow, 0, len(events)+1)

	for _, e := range events {
		switch e.Type {
		case models.EventCashIn:
			flows = append(flows, models.CashFlow{Date: e.Date, Amount: -e.Amount})
		case models.EventCashOut:
			flows = append(flows, models.CashFlow{Date: e.Date, Amount: e.Amount})
		case models.EventTradeBuy:
			flows = append(flows, models.CashFlow{Date: e.Date, Amount: -(e.Amount + e.Fee)})
		case models.EventTradeSell:
			flows = append(flows, models.CashFlow{Date: e.Date, Amount: e.Amount})
		case models.EventDividend:
			flows = append(flows, models.CashFlow{Date: e.Date, Amount: e.Amount})
		case models.EventFee:
			flows = append(flows, models.CashFlow{Date: e.Date, Amount: -e.Amount})
		}
	}

	if terminalValue > 0 {
		flows = append(flows, models.CashFlow{Date: terminalDate, Amount: terminalValue})
	}

	return flows
}

// DerivePortfolioMetrics accumulates portfolio-wide totals over all events and
// computes the money-weighted annualized return (XIRR) by valuing the supplied
// holdings at market as a terminal flow dated now.
//
// XIRR and XIRRPercent are nil when the solver cannot produce a rate; that is
// "return unavailable", not an error.
//
// Events are accumulated in canonical (date, ID) order so the same ledger
// produces bit-identical totals and rate regardless of the in-memory order of
// the slice; float summation is not associative.
func DerivePortfolioMetrics(events []models.LedgerEvent, holdings []models.Holding, now time.Time) models.PortfolioMetrics {
	ordered := make([]models.LedgerEvent, len(events))
	copy(ordered, events)
	sort.SliceStable(ordered, func(i, j int) bool {
		if !ordered[i].Date.Equal(ordered[j].Date) {
			return ordered[i].Date.Before(ordered[j].Date)
		}
		return ordered[i].ID < ordered[j].ID
	})

	m := models.PortfolioMetrics{}

	for _, e := range ordered {
		switch e.Type {
		case models.EventCashIn:
			m.TotalInvested += e.Amount
		case models.EventCashOut:
			m.TotalWithdrawn += e.Amount
		case models.EventDividend:
			m.TotalDividends += e.Amount
		case models.EventFee:
			m.TotalFees += e.Amount
		case models.EventTradeBuy, models.EventTradeSell:
			m.TotalFees += e.Fee
		}
	}
	m.NetCashFlow = m.TotalInvested - m.TotalWithdrawn

	for _, h := range holdings {
		m.CurrentValue += h.MarketValue
	}

	flows := DeriveCashFlows(ordered, m.CurrentValue, now)
	if rate := SolveRate(flows, DefaultRateGuess); rate != nil {
		m.XIRR = rate
		pct := *rate * 100
		m.XIRRPercent = &pct
	}

	return m
}
