package badger

import (
	"context"
	"fmt"

	"github.com/foliotrack/folio/internal/common"
	"github.com/foliotrack/folio/internal/models"
)

type priceStorage struct {
	store  *Store
	logger *common.Logger
}

// NewPriceStorage creates a PriceStore backed by BadgerHold.
func NewPriceStorage(store *Store, logger *common.Logger) *priceStorage {
	return &priceStorage{store: store, logger: logger}
}

func (s *priceStorage) Upsert(_ context.Context, price *models.InstrumentPrice) error {
	if err := s.store.db.Upsert(price.ISIN, price); err != nil {
		return fmt.Errorf("failed to save price for '%s': %w", price.ISIN, err)
	}
	s.logger.Debug().Str("isin", price.ISIN).Float64("price", price.Price).Msg("Price saved")
	return nil
}

func (s *priceStorage) Snapshot(_ context.Context) (map[string]float64, error) {
	var prices []models.InstrumentPrice
	if err := s.store.db.Find(&prices, nil); err != nil {
		return nil, fmt.Errorf("failed to list prices: %w", err)
	}
	snapshot := make(map[string]float64, len(prices))
	for _, p := range prices {
		snapshot[p.ISIN] = p.Price
	}
	return snapshot, nil
}
