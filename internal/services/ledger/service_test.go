package ledger

import (
	"context"
	"fmt"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/foliotrack/folio/internal/common"
	"github.com/foliotrack/folio/internal/interfaces"
	"github.com/foliotrack/folio/internal/models"
)

// memStorage is an in-memory StorageManager for service tests.
type memStorage struct {
	events      map[string]models.LedgerEvent
	order       []string
	instruments map[string]models.Instrument
	prices      map[string]float64
}

func newMemStorage() *memStorage {
	return &memStorage{
		events:      map[string]models.LedgerEvent{},
		instruments: map[string]models.Instrument{},
		prices:      map[string]float64{},
	}
}

func (m *memStorage) EventStore() interfaces.EventStore           { return (*memEvents)(m) }
func (m *memStorage) InstrumentStore() interfaces.InstrumentStore { return (*memInstruments)(m) }
func (m *memStorage) PriceStore() interfaces.PriceStore           { return (*memPrices)(m) }
func (m *memStorage) Close() error                                { return nil }

type memEvents memStorage

func (m *memEvents) Append(_ context.Context, e *models.LedgerEvent) error {
	if _, exists := m.events[e.ID]; exists {
		return fmt.Errorf("event '%s' already exists", e.ID)
	}
	m.events[e.ID] = *e
	m.order = append(m.order, e.ID)
	return nil
}

func (m *memEvents) Get(_ context.Context, id string) (*models.LedgerEvent, error) {
	e, ok := m.events[id]
	if !ok {
		return nil, fmt.Errorf("event '%s' not found", id)
	}
	return &e, nil
}

func (m *memEvents) List(_ context.Context) ([]models.LedgerEvent, error) {
	out := make([]models.LedgerEvent, 0, len(m.order))
	for _, id := range m.order {
		out = append(out, m.events[id])
	}
	return out, nil
}

func (m *memEvents) Count(_ context.Context) (int, error) { return len(m.events), nil }

type memInstruments memStorage

func (m *memInstruments) Upsert(_ context.Context, inst *models.Instrument) error {
	m.instruments[inst.ISIN] = *inst
	return nil
}

func (m *memInstruments) Get(_ context.Context, isin string) (*models.Instrument, error) {
	inst, ok := m.instruments[isin]
	if !ok {
		return nil, fmt.Errorf("instrument '%s' not found", isin)
	}
	return &inst, nil
}

func (m *memInstruments) List(_ context.Context) ([]models.Instrument, error) {
	out := make([]models.Instrument, 0, len(m.instruments))
	for _, inst := range m.instruments {
		out = append(out, inst)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ISIN < out[j].ISIN })
	return out, nil
}

type memPrices memStorage

func (m *memPrices) Upsert(_ context.Context, p *models.InstrumentPrice) error {
	m.prices[p.ISIN] = p.Price
	return nil
}

func (m *memPrices) Snapshot(_ context.Context) (map[string]float64, error) {
	out := make(map[string]float64, len(m.prices))
	for k, v := range m.prices {
		out[k] = v
	}
	return out, nil
}

func newTestService() (*Service, *memStorage) {
	storage := newMemStorage()
	return NewService(storage, common.NewSilentLogger(), "EUR"), storage
}

func TestAddEvent_AssignsIDAndDefaults(t *testing.T) {
	svc, _ := newTestService()

	created, err := svc.AddEvent(context.Background(), models.LedgerEvent{
		Type:   models.EventCashIn,
		Date:   time.Date(2023, 5, 12, 14, 30, 0, 0, time.Local),
		Amount: 5000,
	})
	require.NoError(t, err)

	assert.Contains(t, created.ID, "evt_")
	assert.Equal(t, "EUR", created.Currency)
	assert.Equal(t, "api", created.Source)
	assert.False(t, created.CreatedAt.IsZero())

	// Date normalized to a pure calendar date in UTC.
	assert.Equal(t, time.UTC, created.Date.Location())
	assert.Equal(t, 0, created.Date.Hour())
	assert.Equal(t, 0, created.Date.Minute())
}

func TestAddEvent_UppercasesISIN(t *testing.T) {
	svc, _ := newTestService()

	created, err := svc.AddEvent(context.Background(), models.LedgerEvent{
		Type:     models.EventTradeBuy,
		Date:     time.Date(2023, 5, 12, 0, 0, 0, 0, time.UTC),
		ISIN:     " de0007164600 ",
		Quantity: 10,
		Amount:   1000,
	})
	require.NoError(t, err)
	assert.Equal(t, "DE0007164600", created.ISIN)
}

func TestAddEvent_Validation(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	someDate := time.Date(2023, 5, 12, 0, 0, 0, 0, time.UTC)

	cases := []struct {
		name  string
		event models.LedgerEvent
	}{
		{"invalid type", models.LedgerEvent{Type: "transfer", Date: someDate, Amount: 1}},
		{"zero date", models.LedgerEvent{Type: models.EventCashIn, Amount: 1}},
		{"future date", models.LedgerEvent{Type: models.EventCashIn, Date: time.Now().AddDate(0, 0, 2), Amount: 1}},
		{"negative amount", models.LedgerEvent{Type: models.EventCashIn, Date: someDate, Amount: -5}},
		{"trade without isin", models.LedgerEvent{Type: models.EventTradeBuy, Date: someDate, Quantity: 1, Amount: 10}},
		{"trade without quantity", models.LedgerEvent{Type: models.EventTradeSell, Date: someDate, ISIN: "X", Amount: 10}},
		{"trade negative fee", models.LedgerEvent{Type: models.EventTradeBuy, Date: someDate, ISIN: "X", Quantity: 1, Amount: 10, Fee: -1}},
		{"dividend without isin", models.LedgerEvent{Type: models.EventDividend, Date: someDate, Amount: 10}},
		{"fee without description", models.LedgerEvent{Type: models.EventFee, Date: someDate, Amount: 10}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.AddEvent(ctx, tc.event)
			assert.Error(t, err)
		})
	}
}

func TestListEvents_InsertionOrder(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := svc.AddEvent(ctx, models.LedgerEvent{
			Type:   models.EventCashIn,
			Date:   time.Date(2023, 5, 12, 0, 0, 0, 0, time.UTC),
			Amount: float64(100 * (i + 1)),
		})
		require.NoError(t, err)
	}

	events, err := svc.ListEvents(ctx)
	require.NoError(t, err)
	require.Len(t, events, 3)
	assert.Equal(t, 100.0, events[0].Amount)
	assert.Equal(t, 300.0, events[2].Amount)
}

func TestRecordCorrection_AppendsOffsetWithoutTouchingOriginal(t *testing.T) {
	svc, storage := newTestService()
	ctx := context.Background()

	original, err := svc.AddEvent(ctx, models.LedgerEvent{
		Type:     models.EventTradeBuy,
		Date:     time.Date(2023, 5, 12, 0, 0, 0, 0, time.UTC),
		ISIN:     "DE0007164600",
		Quantity: 10,
		Amount:   1000,
		Fee:      5,
	})
	require.NoError(t, err)

	offset, err := svc.RecordCorrection(ctx, original.ID)
	require.NoError(t, err)

	assert.Equal(t, models.EventTradeSell, offset.Type)
	assert.Equal(t, original.Date, offset.Date)
	assert.Equal(t, original.Amount, offset.Amount)
	assert.Equal(t, original.Quantity, offset.Quantity)
	assert.Zero(t, offset.Fee, "offset must not repeat the original's fee")
	assert.Equal(t, "correction", offset.Source)
	assert.Contains(t, offset.Description, original.ID)
	assert.NotEqual(t, original.ID, offset.ID)

	// Original untouched, ledger grew by one.
	stored, err := storage.EventStore().Get(ctx, original.ID)
	require.NoError(t, err)
	assert.Equal(t, models.EventTradeBuy, stored.Type)

	count, err := storage.EventStore().Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestRecordCorrection_CashAndIncomeOffsets(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	cases := []struct {
		in   models.LedgerEventType
		want models.LedgerEventType
	}{
		{models.EventCashIn, models.EventCashOut},
		{models.EventCashOut, models.EventCashIn},
		{models.EventDividend, models.EventCashIn},
		{models.EventFee, models.EventCashOut},
	}

	for _, tc := range cases {
		event := models.LedgerEvent{
			Type:        tc.in,
			Date:        time.Date(2023, 5, 12, 0, 0, 0, 0, time.UTC),
			Amount:      100,
			ISIN:        "DE0007164600",
			Description: "fixture",
		}
		created, err := svc.AddEvent(ctx, event)
		require.NoError(t, err)

		offset, err := svc.RecordCorrection(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, tc.want, offset.Type, "offset of %s", tc.in)
	}
}

func TestAddEvent_CreatedAtStrictlyIncreasing(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	var prev time.Time
	for i := 0; i < 50; i++ {
		created, err := svc.AddEvent(ctx, models.LedgerEvent{
			Type:   models.EventCashIn,
			Date:   time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC),
			Amount: 1,
		})
		require.NoError(t, err)
		assert.True(t, created.CreatedAt.After(prev),
			"CreatedAt %v not after previous %v", created.CreatedAt, prev)
		prev = created.CreatedAt
	}
}

func TestRecordCorrection_UnknownEvent(t *testing.T) {
	svc, _ := newTestService()
	_, err := svc.RecordCorrection(context.Background(), "evt_missing")
	assert.Error(t, err)
}

func TestUpsertInstrument_DefaultsAndValidation(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	saved, err := svc.UpsertInstrument(ctx, models.Instrument{ISIN: "de0007164600", Name: "SAP SE"})
	require.NoError(t, err)
	assert.Equal(t, "DE0007164600", saved.ISIN)
	assert.Equal(t, "DE0007", saved.Ticker) // synthesized
	assert.Equal(t, "EUR", saved.Currency)

	_, err = svc.UpsertInstrument(ctx, models.Instrument{})
	assert.Error(t, err)
}

func TestSetPrice_Validation(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	require.NoError(t, svc.SetPrice(ctx, "de0007164600", 123.45))

	prices, err := svc.Prices(ctx)
	require.NoError(t, err)
	assert.Equal(t, 123.45, prices["DE0007164600"])

	assert.Error(t, svc.SetPrice(ctx, "", 10))
	assert.Error(t, svc.SetPrice(ctx, "X", -1))
}
