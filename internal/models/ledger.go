// Package models defines data structures for Folio
package models

import "time"

// LedgerEventType discriminates the kinds of events in the ledger.
type LedgerEventType string

const (
	EventTradeBuy  LedgerEventType = "trade_buy"
	EventTradeSell LedgerEventType = "trade_sell"
	EventDividend  LedgerEventType = "dividend"
	EventFee       LedgerEventType = "fee"
	EventCashIn    LedgerEventType = "cash_in"
	EventCashOut   LedgerEventType = "cash_out"
)

// validLedgerEventTypes lists all accepted event types.
var validLedgerEventTypes = map[LedgerEventType]bool{
	EventTradeBuy:  true,
	EventTradeSell: true,
	EventDividend:  true,
	EventFee:       true,
	EventCashIn:    true,
	EventCashOut:   true,
}

// ValidLedgerEventType returns true if t is a valid ledger event type.
func ValidLedgerEventType(t LedgerEventType) bool {
	return validLedgerEventTypes[t]
}

// LedgerEvent is a single immutable entry in the append-only ledger.
// Events are never mutated or deleted; corrections are recorded as new
// offsetting events. Amount is stored non-negative — its economic sign is
// implied by the event type.
//
// Field usage by type:
//   - trade_buy / trade_sell: ISIN, Quantity, PricePerShare, Amount (gross
//     trade value excluding fee), optional Fee
//   - dividend: ISIN, Quantity (shares held at the time), Amount (total cash
//     received), PerShare
//   - fee: Amount and Description
//   - cash_in / cash_out: Amount only (account-level capital movement)
type LedgerEvent struct {
	ID            string          `json:"id" badgerhold:"key"`
	AccountID     string          `json:"account_id"`
	Type          LedgerEventType `json:"type"`
	Date          time.Time       `json:"date"` // calendar date, no time-of-day
	Amount        float64         `json:"amount"`
	Currency      string          `json:"currency"`
	ISIN          string          `json:"isin,omitempty"`
	Quantity      float64         `json:"quantity,omitempty"`
	PricePerShare float64         `json:"price_per_share,omitempty"`
	Fee           float64         `json:"fee,omitempty"`
	PerShare      float64         `json:"per_share,omitempty"`
	Description   string          `json:"description,omitempty"`
	Source        string          `json:"source,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
}

// IsTrade returns true for buy and sell events.
func (e *LedgerEvent) IsTrade() bool {
	return e.Type == EventTradeBuy || e.Type == EventTradeSell
}

// IsInstrumentEvent returns true for events tied to a specific ISIN
// (trades and dividends).
func (e *LedgerEvent) IsInstrumentEvent() bool {
	return e.IsTrade() || e.Type == EventDividend
}

// OffsettingType returns the event type that reverses t in the ledger.
// Trades offset to the opposite trade side. Dividends and fees are reversed
// through the cash movement that carries the opposite investor-perspective
// sign: a dividend (positive flow) is offset by cash_in (negative flow), a
// fee (negative flow) by cash_out (positive flow), so an event plus its
// offset nets to zero in the derived cash-flow series.
func OffsettingType(t LedgerEventType) LedgerEventType {
	switch t {
	case EventTradeBuy:
		return EventTradeSell
	case EventTradeSell:
		return EventTradeBuy
	case EventCashIn:
		return EventCashOut
	case EventCashOut:
		return EventCashIn
	case EventDividend:
		return EventCashIn
	case EventFee:
		return EventCashOut
	default:
		return t
	}
}
