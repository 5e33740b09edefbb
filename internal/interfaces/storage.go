// Package interfaces defines service and storage contracts for Folio
package interfaces

import (
	"context"

	"github.com/foliotrack/folio/internal/models"
)

// StorageManager coordinates the storage backends.
type StorageManager interface {
	EventStore() EventStore
	InstrumentStore() InstrumentStore
	PriceStore() PriceStore

	// Lifecycle
	Close() error
}

// EventStore persists the append-only ledger. There is deliberately no update
// or delete: corrections are appended as new offsetting events.
type EventStore interface {
	Append(ctx context.Context, event *models.LedgerEvent) error
	Get(ctx context.Context, id string) (*models.LedgerEvent, error)
	// List returns all events in insertion order (ascending CreatedAt).
	List(ctx context.Context) ([]models.LedgerEvent, error)
	Count(ctx context.Context) (int, error)
}

// InstrumentStore manages instrument reference data keyed by ISIN.
type InstrumentStore interface {
	Upsert(ctx context.Context, instrument *models.Instrument) error
	Get(ctx context.Context, isin string) (*models.Instrument, error)
	List(ctx context.Context) ([]models.Instrument, error)
}

// PriceStore holds the latest known market price per ISIN.
type PriceStore interface {
	Upsert(ctx context.Context, price *models.InstrumentPrice) error
	// Snapshot returns the current ISIN → price map. Instruments without a
	// stored price are simply absent.
	Snapshot(ctx context.Context) (map[string]float64, error)
}
