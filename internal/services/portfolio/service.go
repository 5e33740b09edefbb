package portfolio

import (
	"context"
	"fmt"
	"time"

	"github.com/foliotrack/folio/internal/common"
	"github.com/foliotrack/folio/internal/interfaces"
	"github.com/foliotrack/folio/internal/models"
)

// Compile-time interface check
var _ interfaces.PortfolioService = (*Service)(nil)

// Service implements PortfolioService on top of the storage layer. It holds no
// derived state: every call reloads the ledger and recomputes from scratch,
// which keeps results correct under concurrent ledger appends.
type Service struct {
	storage interfaces.StorageManager
	logger  *common.Logger
}

// NewService creates a new portfolio service.
func NewService(storage interfaces.StorageManager, logger *common.Logger) *Service {
	return &Service{
		storage: storage,
		logger:  logger,
	}
}

// Holdings derives the current per-instrument holdings from the full ledger.
func (s *Service) Holdings(ctx context.Context) ([]models.Holding, error) {
	events, instruments, prices, err := s.loadInputs(ctx)
	if err != nil {
		return nil, err
	}

	holdings := DeriveHoldings(events, instruments, prices)

	s.logger.Debug().
		Int("events", len(events)).
		Int("holdings", len(holdings)).
		Msg("Holdings derived")

	return holdings, nil
}

// Metrics derives portfolio-wide totals and the money-weighted return.
func (s *Service) Metrics(ctx context.Context) (models.PortfolioMetrics, error) {
	events, instruments, prices, err := s.loadInputs(ctx)
	if err != nil {
		return models.PortfolioMetrics{}, err
	}

	holdings := DeriveHoldings(events, instruments, prices)
	metrics := DerivePortfolioMetrics(events, holdings, time.Now())

	s.logger.Debug().
		Int("events", len(events)).
		Float64("current_value", metrics.CurrentValue).
		Bool("xirr_available", metrics.XIRR != nil).
		Msg("Portfolio metrics derived")

	return metrics, nil
}

func (s *Service) loadInputs(ctx context.Context) ([]models.LedgerEvent, []models.Instrument, map[string]float64, error) {
	events, err := s.storage.EventStore().List(ctx)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to load ledger events: %w", err)
	}

	instruments, err := s.storage.InstrumentStore().List(ctx)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to load instruments: %w", err)
	}

	prices, err := s.storage.PriceStore().Snapshot(ctx)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to load prices: %w", err)
	}

	return events, instruments, prices, nil
}
