// Package storage provides the top-level StorageManager over the BadgerHold
// data directory.
package storage

import (
	"fmt"

	"github.com/foliotrack/folio/internal/common"
	"github.com/foliotrack/folio/internal/interfaces"
	"github.com/foliotrack/folio/internal/storage/badger"
)

// Compile-time interface check
var _ interfaces.StorageManager = (*Manager)(nil)

// Manager implements interfaces.StorageManager over a single BadgerHold store.
type Manager struct {
	store       *badger.Store
	events      interfaces.EventStore
	instruments interfaces.InstrumentStore
	prices      interfaces.PriceStore
	logger      *common.Logger
}

// NewManager opens the data directory and wires the typed storages.
func NewManager(logger *common.Logger, config *common.Config) (*Manager, error) {
	store, err := badger.NewStore(logger, config.Storage.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open storage: %w", err)
	}

	logger.Info().
		Str("path", config.Storage.Path).
		Msg("Storage manager initialized")

	return &Manager{
		store:       store,
		events:      badger.NewEventStorage(store, logger),
		instruments: badger.NewInstrumentStorage(store, logger),
		prices:      badger.NewPriceStorage(store, logger),
		logger:      logger,
	}, nil
}

func (m *Manager) EventStore() interfaces.EventStore {
	return m.events
}

func (m *Manager) InstrumentStore() interfaces.InstrumentStore {
	return m.instruments
}

func (m *Manager) PriceStore() interfaces.PriceStore {
	return m.prices
}

// Close closes the underlying store.
func (m *Manager) Close() error {
	return m.store.Close()
}
