package models

import "time"

// UnknownInstrumentName is the placeholder used when no instrument record
// exists for a referenced ISIN.
const UnknownInstrumentName = "Unknown instrument"

// Instrument is static reference data for a tradable security, keyed by ISIN.
type Instrument struct {
	ISIN      string    `json:"isin" badgerhold:"key"`
	Ticker    string    `json:"ticker"`
	Name      string    `json:"name"`
	Currency  string    `json:"currency"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SynthesizeTicker derives a display ticker for an ISIN with no instrument
// record: the first 6 characters of the ISIN.
func SynthesizeTicker(isin string) string {
	if len(isin) > 6 {
		return isin[:6]
	}
	return isin
}

// InstrumentPrice is the latest known market price for an instrument.
// Prices arrive from the excluded quote collaborator via the price endpoint;
// a missing price is treated as zero downstream.
type InstrumentPrice struct {
	ISIN      string    `json:"isin" badgerhold:"key"`
	Price     float64   `json:"price"`
	UpdatedAt time.Time `json:"updated_at"`
}
