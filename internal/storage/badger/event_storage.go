package badger

import (
	"context"
	"fmt"
	"sort"

	"github.com/timshannon/badgerhold/v4"

	"github.com/foliotrack/folio/internal/common"
	"github.com/foliotrack/folio/internal/models"
)

type eventStorage struct {
	store  *Store
	logger *common.Logger
}

// NewEventStorage creates an EventStore backed by BadgerHold.
func NewEventStorage(store *Store, logger *common.Logger) *eventStorage {
	return &eventStorage{store: store, logger: logger}
}

// Append inserts a new event. Insert (not Upsert) enforces the append-only
// contract: an existing ID is an error, never an overwrite.
func (s *eventStorage) Append(_ context.Context, event *models.LedgerEvent) error {
	if err := s.store.db.Insert(event.ID, event); err != nil {
		if err == badgerhold.ErrKeyExists {
			return fmt.Errorf("event '%s' already exists; ledger events are immutable", event.ID)
		}
		return fmt.Errorf("failed to append event: %w", err)
	}
	s.logger.Debug().Str("id", event.ID).Str("type", string(event.Type)).Msg("Event appended")
	return nil
}

func (s *eventStorage) Get(_ context.Context, id string) (*models.LedgerEvent, error) {
	var event models.LedgerEvent
	err := s.store.db.Get(id, &event)
	if err != nil {
		if err == badgerhold.ErrNotFound {
			return nil, fmt.Errorf("event '%s' not found", id)
		}
		return nil, fmt.Errorf("failed to get event '%s': %w", id, err)
	}
	return &event, nil
}

// List returns all events in insertion order (CreatedAt ascending, ID as
// tie-break). Same-date ledger ordering is load-bearing for the average-cost
// fold, so the order must be stable across restarts.
func (s *eventStorage) List(_ context.Context) ([]models.LedgerEvent, error) {
	var events []models.LedgerEvent
	if err := s.store.db.Find(&events, nil); err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}

	sort.SliceStable(events, func(i, j int) bool {
		if !events[i].CreatedAt.Equal(events[j].CreatedAt) {
			return events[i].CreatedAt.Before(events[j].CreatedAt)
		}
		return events[i].ID < events[j].ID
	})

	return events, nil
}

func (s *eventStorage) Count(_ context.Context) (int, error) {
	n, err := s.store.db.Count(&models.LedgerEvent{}, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to count events: %w", err)
	}
	return int(n), nil
}
