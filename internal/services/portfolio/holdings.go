// Package portfolio derives holdings and money-weighted performance from the
// append-only ledger. All derivation functions are pure: they never mutate
// their inputs, allocate fresh outputs, and are safe to call concurrently.
package portfolio

import (
	"sort"

	"github.com/foliotrack/folio/internal/models"
)

// DeriveHoldings folds ledger events into per-instrument holdings using
// average-cost-basis accounting.
//
// Trades for each ISIN are processed in ascending date order (stable, so
// same-day events keep their supplied order). Every buy adds its gross cost
// (amount + fee) to the cost basis; every sell removes a proportional slice at
// the average cost prevailing at that point. A sell of more units than
// currently held liquidates the position entirely — quantity never goes
// negative.
//
// Holdings with zero remaining quantity are dropped. Missing instrument
// metadata is substituted (ticker synthesized from the ISIN), and a missing
// current price is treated as zero. The result is sorted by market value
// descending, ISIN ascending on ties.
func DeriveHoldings(events []models.LedgerEvent, instruments []models.Instrument, prices map[string]float64) []models.Holding {
	trades := make(map[string][]models.LedgerEvent)
	dividends := make(map[string]float64)

	for _, e := range events {
		switch e.Type {
		case models.EventTradeBuy, models.EventTradeSell:
			trades[e.ISIN] = append(trades[e.ISIN], e)
		case models.EventDividend:
			dividends[e.ISIN] += e.Amount
		case models.EventFee, models.EventCashIn, models.EventCashOut:
			// Account-level events carry no instrument position.
		}
	}

	byISIN := make(map[string]models.Instrument, len(instruments))
	for _, inst := range instruments {
		byISIN[inst.ISIN] = inst
	}

	holdings := make([]models.Holding, 0, len(trades))

	for isin, ts := range trades {
		sorted := make([]models.LedgerEvent, len(ts))
		copy(sorted, ts)
		sort.SliceStable(sorted, func(i, j int) bool {
			return sorted[i].Date.Before(sorted[j].Date)
		})

		quantity, costBasis := foldAverageCost(sorted)
		if quantity <= 0 {
			continue
		}

		ticker := models.SynthesizeTicker(isin)
		name := models.UnknownInstrumentName
		if inst, ok := byISIN[isin]; ok {
			ticker = inst.Ticker
			name = inst.Name
		}

		price := prices[isin]
		marketValue := quantity * price
		gain := marketValue - costBasis
		gainPct := 0.0
		if costBasis > 0 {
			gainPct = gain / costBasis * 100
		}

		holdings = append(holdings, models.Holding{
			ISIN:                   isin,
			Ticker:                 ticker,
			Name:                   name,
			Quantity:               quantity,
			CostBasis:              costBasis,
			AverageCostPerShare:    costBasis / quantity,
			CurrentPrice:           price,
			MarketValue:            marketValue,
			UnrealizedGain:         gain,
			UnrealizedGainPercent:  gainPct,
			TotalDividendsReceived: dividends[isin],
		})
	}

	// Largest positions first; ISIN breaks ties so output order does not
	// depend on map iteration.
	sort.SliceStable(holdings, func(i, j int) bool {
		if holdings[i].MarketValue != holdings[j].MarketValue {
			return holdings[i].MarketValue > holdings[j].MarketValue
		}
		return holdings[i].ISIN < holdings[j].ISIN
	})

	return holdings
}

// foldAverageCost runs the average-cost fold over date-sorted trades for one
// instrument, returning the remaining quantity and cost basis.
func foldAverageCost(trades []models.LedgerEvent) (quantity, costBasis float64) {
	for _, t := range trades {
		switch t.Type {
		case models.EventTradeBuy:
			costBasis += t.Amount + t.Fee
			quantity += t.Quantity
		case models.EventTradeSell:
			if quantity <= 0 {
				continue
			}
			if t.Quantity >= quantity {
				// Oversell clamps to full liquidation.
				quantity = 0
				costBasis = 0
				continue
			}
			costBasis -= t.Quantity * (costBasis / quantity)
			quantity -= t.Quantity
		}
	}
	return quantity, costBasis
}
