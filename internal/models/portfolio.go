package models

import "time"

// Holding represents a derived position in one instrument. Holdings are
// recomputed from the full ledger on every request and never persisted as a
// source of truth.
type Holding struct {
	ISIN                   string  `json:"isin"`
	Ticker                 string  `json:"ticker"`
	Name                   string  `json:"name"`
	Quantity               float64 `json:"quantity"`
	CostBasis              float64 `json:"cost_basis"`
	AverageCostPerShare    float64 `json:"average_cost_per_share"`
	CurrentPrice           float64 `json:"current_price"`
	MarketValue            float64 `json:"market_value"`
	UnrealizedGain         float64 `json:"unrealized_gain"`
	UnrealizedGainPercent  float64 `json:"unrealized_gain_percent"`
	TotalDividendsReceived float64 `json:"total_dividends_received"`
}

// CashFlow is a dated, signed monetary amount from the investor's point of
// view: negative = money leaving the investor, positive = money received.
// Used only as solver input.
type CashFlow struct {
	Date   time.Time `json:"date"`
	Amount float64   `json:"amount"`
}

// PortfolioMetrics aggregates portfolio-wide performance figures.
// XIRR is nil when no meaningful rate exists for the ledger's cash flows.
type PortfolioMetrics struct {
	TotalInvested  float64  `json:"total_invested"`
	TotalWithdrawn float64  `json:"total_withdrawn"`
	NetCashFlow    float64  `json:"net_cash_flow"`
	CurrentValue   float64  `json:"current_value"`
	TotalDividends float64  `json:"total_dividends"`
	TotalFees      float64  `json:"total_fees"`
	XIRR           *float64 `json:"xirr"`
	XIRRPercent    *float64 `json:"xirr_percent"`
}
