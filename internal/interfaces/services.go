package interfaces

import (
	"context"

	"github.com/foliotrack/folio/internal/models"
)

// LedgerService manages the append-only event ledger and its reference data.
type LedgerService interface {
	AddEvent(ctx context.Context, event models.LedgerEvent) (*models.LedgerEvent, error)
	ListEvents(ctx context.Context) ([]models.LedgerEvent, error)
	// RecordCorrection appends the offsetting event for a previously recorded
	// event. The original is never mutated.
	RecordCorrection(ctx context.Context, eventID string) (*models.LedgerEvent, error)

	UpsertInstrument(ctx context.Context, instrument models.Instrument) (*models.Instrument, error)
	ListInstruments(ctx context.Context) ([]models.Instrument, error)

	SetPrice(ctx context.Context, isin string, price float64) error
	Prices(ctx context.Context) (map[string]float64, error)
}

// PortfolioService derives holdings and performance metrics from the ledger.
// Every call recomputes from the full event history.
type PortfolioService interface {
	Holdings(ctx context.Context) ([]models.Holding, error)
	Metrics(ctx context.Context) (models.PortfolioMetrics, error)
}

// ReportService renders presentation artifacts from derived holdings.
type ReportService interface {
	AllocationChart(ctx context.Context) ([]byte, error)
}
