// Package ledger manages the append-only event ledger and its reference data
package ledger

import (
	"context"
	"fmt"
	"math"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/foliotrack/folio/internal/common"
	"github.com/foliotrack/folio/internal/interfaces"
	"github.com/foliotrack/folio/internal/models"
)

// Compile-time interface check
var _ interfaces.LedgerService = (*Service)(nil)

// Service implements LedgerService. Events pass through validation once on
// intake; downstream derivation trusts the stored ledger.
type Service struct {
	storage      interfaces.StorageManager
	logger       *common.Logger
	baseCurrency string

	mu            sync.Mutex
	lastCreatedAt time.Time
}

// NewService creates a new ledger service.
func NewService(storage interfaces.StorageManager, logger *common.Logger, baseCurrency string) *Service {
	return &Service{
		storage:      storage,
		logger:       logger,
		baseCurrency: baseCurrency,
	}
}

// generateEventID returns a unique ID with "evt_" prefix.
func generateEventID() string {
	return "evt_" + strings.ReplaceAll(uuid.New().String(), "-", "")[:12]
}

// nextCreatedAt returns a strictly increasing timestamp, so replay order from
// storage matches insertion order even when the clock does not advance
// between appends.
func (s *Service) nextCreatedAt() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	if !now.After(s.lastCreatedAt) {
		now = s.lastCreatedAt.Add(time.Nanosecond)
	}
	s.lastCreatedAt = now
	return now
}

// validateEvent checks that an event has valid field values for its type.
func validateEvent(e *models.LedgerEvent) error {
	if !models.ValidLedgerEventType(e.Type) {
		return fmt.Errorf("invalid event type %q", e.Type)
	}
	if e.Date.IsZero() {
		return fmt.Errorf("date is required")
	}
	if e.Date.After(time.Now().Add(24 * time.Hour)) {
		return fmt.Errorf("date cannot be in the future")
	}
	if math.IsInf(e.Amount, 0) || math.IsNaN(e.Amount) {
		return fmt.Errorf("amount must be finite")
	}
	if e.Amount < 0 {
		return fmt.Errorf("amount must not be negative; the event type carries the sign")
	}
	if e.Amount >= 1e15 {
		return fmt.Errorf("amount exceeds maximum (1e15)")
	}
	if len(e.Description) > 500 {
		return fmt.Errorf("description exceeds 500 characters")
	}

	switch e.Type {
	case models.EventTradeBuy, models.EventTradeSell:
		if strings.TrimSpace(e.ISIN) == "" {
			return fmt.Errorf("isin is required for trades")
		}
		if e.Quantity <= 0 {
			return fmt.Errorf("quantity must be positive for trades")
		}
		if e.Fee < 0 || math.IsInf(e.Fee, 0) || math.IsNaN(e.Fee) {
			return fmt.Errorf("fee must be a non-negative finite number")
		}
	case models.EventDividend:
		if strings.TrimSpace(e.ISIN) == "" {
			return fmt.Errorf("isin is required for dividends")
		}
	case models.EventFee:
		if strings.TrimSpace(e.Description) == "" {
			return fmt.Errorf("description is required for fees")
		}
	}

	return nil
}

// AddEvent validates and appends a new event to the ledger. The event date is
// normalized to a calendar date (midnight UTC); ID, CreatedAt, and fallback
// currency/source are assigned here.
func (s *Service) AddEvent(ctx context.Context, event models.LedgerEvent) (*models.LedgerEvent, error) {
	if err := validateEvent(&event); err != nil {
		return nil, fmt.Errorf("invalid event: %w", err)
	}

	event.ISIN = strings.ToUpper(strings.TrimSpace(event.ISIN))
	event.Date = truncateToDay(event.Date)
	if event.ID == "" {
		event.ID = generateEventID()
	}
	if event.Currency == "" {
		event.Currency = s.baseCurrency
	}
	if event.Source == "" {
		event.Source = "api"
	}
	event.CreatedAt = s.nextCreatedAt()

	if err := s.storage.EventStore().Append(ctx, &event); err != nil {
		return nil, fmt.Errorf("failed to append event: %w", err)
	}

	s.logger.Info().
		Str("id", event.ID).
		Str("type", string(event.Type)).
		Str("isin", event.ISIN).
		Float64("amount", event.Amount).
		Msg("Ledger event recorded")

	return &event, nil
}

// ListEvents returns the full ledger in insertion order.
func (s *Service) ListEvents(ctx context.Context) ([]models.LedgerEvent, error) {
	events, err := s.storage.EventStore().List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	return events, nil
}

// RecordCorrection appends the offsetting event for a previously recorded
// event. The offset carries the original's date so the average-cost fold
// cancels at the same point in the sequence; the original is left untouched.
// The offset carries no fee: the original's fee stays counted once in fee
// totals, and for a corrected buy its fee remains in the flow history as a
// cost actually incurred.
func (s *Service) RecordCorrection(ctx context.Context, eventID string) (*models.LedgerEvent, error) {
	original, err := s.storage.EventStore().Get(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("event %s not found: %w", eventID, err)
	}

	offset := models.LedgerEvent{
		ID:            generateEventID(),
		AccountID:     original.AccountID,
		Type:          models.OffsettingType(original.Type),
		Date:          original.Date,
		Amount:        original.Amount,
		Currency:      original.Currency,
		ISIN:          original.ISIN,
		Quantity:      original.Quantity,
		PricePerShare: original.PricePerShare,
		PerShare:      original.PerShare,
		Description:   fmt.Sprintf("correction of %s", original.ID),
		Source:        "correction",
		CreatedAt:     s.nextCreatedAt(),
	}

	if err := s.storage.EventStore().Append(ctx, &offset); err != nil {
		return nil, fmt.Errorf("failed to append correction: %w", err)
	}

	s.logger.Info().
		Str("id", offset.ID).
		Str("corrects", original.ID).
		Str("type", string(offset.Type)).
		Msg("Correction recorded")

	return &offset, nil
}

// UpsertInstrument creates or updates instrument reference data.
func (s *Service) UpsertInstrument(ctx context.Context, instrument models.Instrument) (*models.Instrument, error) {
	instrument.ISIN = strings.ToUpper(strings.TrimSpace(instrument.ISIN))
	if instrument.ISIN == "" {
		return nil, fmt.Errorf("isin is required")
	}
	if instrument.Ticker == "" {
		instrument.Ticker = models.SynthesizeTicker(instrument.ISIN)
	}
	if instrument.Currency == "" {
		instrument.Currency = s.baseCurrency
	}
	instrument.UpdatedAt = time.Now()

	if err := s.storage.InstrumentStore().Upsert(ctx, &instrument); err != nil {
		return nil, fmt.Errorf("failed to save instrument: %w", err)
	}
	return &instrument, nil
}

// ListInstruments returns all known instruments.
func (s *Service) ListInstruments(ctx context.Context) ([]models.Instrument, error) {
	instruments, err := s.storage.InstrumentStore().List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list instruments: %w", err)
	}
	return instruments, nil
}

// SetPrice stores the latest market price for an ISIN.
func (s *Service) SetPrice(ctx context.Context, isin string, price float64) error {
	isin = strings.ToUpper(strings.TrimSpace(isin))
	if isin == "" {
		return fmt.Errorf("isin is required")
	}
	if price < 0 || math.IsInf(price, 0) || math.IsNaN(price) {
		return fmt.Errorf("price must be a non-negative finite number")
	}

	return s.storage.PriceStore().Upsert(ctx, &models.InstrumentPrice{
		ISIN:      isin,
		Price:     price,
		UpdatedAt: time.Now(),
	})
}

// Prices returns the current ISIN → price snapshot.
func (s *Service) Prices(ctx context.Context) (map[string]float64, error) {
	prices, err := s.storage.PriceStore().Snapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load prices: %w", err)
	}
	return prices, nil
}

// truncateToDay strips the time-of-day, keeping a pure calendar date in UTC.
func truncateToDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
