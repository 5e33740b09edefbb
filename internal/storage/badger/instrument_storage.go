package badger

import (
	"context"
	"fmt"
	"sort"

	"github.com/timshannon/badgerhold/v4"

	"github.com/foliotrack/folio/internal/common"
	"github.com/foliotrack/folio/internal/models"
)

type instrumentStorage struct {
	store  *Store
	logger *common.Logger
}

// NewInstrumentStorage creates an InstrumentStore backed by BadgerHold.
func NewInstrumentStorage(store *Store, logger *common.Logger) *instrumentStorage {
	return &instrumentStorage{store: store, logger: logger}
}

func (s *instrumentStorage) Upsert(_ context.Context, instrument *models.Instrument) error {
	if err := s.store.db.Upsert(instrument.ISIN, instrument); err != nil {
		return fmt.Errorf("failed to save instrument '%s': %w", instrument.ISIN, err)
	}
	s.logger.Debug().Str("isin", instrument.ISIN).Str("ticker", instrument.Ticker).Msg("Instrument saved")
	return nil
}

func (s *instrumentStorage) Get(_ context.Context, isin string) (*models.Instrument, error) {
	var instrument models.Instrument
	err := s.store.db.Get(isin, &instrument)
	if err != nil {
		if err == badgerhold.ErrNotFound {
			return nil, fmt.Errorf("instrument '%s' not found", isin)
		}
		return nil, fmt.Errorf("failed to get instrument '%s': %w", isin, err)
	}
	return &instrument, nil
}

func (s *instrumentStorage) List(_ context.Context) ([]models.Instrument, error) {
	var instruments []models.Instrument
	if err := s.store.db.Find(&instruments, nil); err != nil {
		return nil, fmt.Errorf("failed to list instruments: %w", err)
	}
	sort.Slice(instruments, func(i, j int) bool {
		return instruments[i].ISIN < instruments[j].ISIN
	})
	return instruments, nil
}
