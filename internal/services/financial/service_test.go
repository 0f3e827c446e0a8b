package financial

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bistboard/bistboard/internal/common"
	"github.com/bistboard/bistboard/internal/models"
)

type mockClient struct {
	fetchFunc func(ctx context.Context, symbol string, periods []models.Period) (*models.FinancialRecord, error)
	calls     int
	periods   []models.Period
}

func (m *mockClient) FetchFinancials(ctx context.Context, symbol string, periods []models.Period) (*models.FinancialRecord, error) {
	m.calls++
	m.periods = periods
	return m.fetchFunc(ctx, symbol, periods)
}

type mockStorage struct {
	records map[string]*models.FinancialRecord
	saves   int
}

func newMockStorage() *mockStorage {
	return &mockStorage{records: make(map[string]*models.FinancialRecord)}
}

func (m *mockStorage) GetFinancials(ctx context.Context, symbol string) (*models.FinancialRecord, error) {
	if r, ok := m.records[symbol]; ok {
		return r.Clone(), nil
	}
	return nil, models.NewNotFoundError(symbol)
}

func (m *mockStorage) SaveFinancials(ctx context.Context, record *models.FinancialRecord) error {
	m.saves++
	m.records[record.Symbol] = record.Clone()
	return nil
}

func (m *mockStorage) Symbols(ctx context.Context) ([]string, error) {
	out := make([]string, 0, len(m.records))
	for s := range m.records {
		out = append(out, s)
	}
	return out, nil
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func recordAt(symbol string, updated time.Time) *models.FinancialRecord {
	v := 1.0
	return &models.FinancialRecord{
		Symbol:      symbol,
		Periods:     []models.Period{{Year: 2025, Month: 6}},
		Items:       []models.LineItem{{Code: "1A", Label: "Kalem", Values: map[string]*float64{"2025/6": &v}}},
		LastUpdated: updated,
	}
}

func fetchedRecord(symbol string, periods []models.Period) *models.FinancialRecord {
	v := 2.0
	return &models.FinancialRecord{
		Symbol:      symbol,
		Periods:     periods,
		Items:       []models.LineItem{{Code: "1A", Label: "Kalem", Values: map[string]*float64{"2025/6": &v}}},
		LastUpdated: time.Now(),
	}
}

func TestGetFinancialsServesFreshCache(t *testing.T) {
	now := time.Date(2025, 8, 15, 12, 0, 0, 0, time.UTC)
	storage := newMockStorage()
	storage.records["THYAO"] = recordAt("THYAO", now.Add(-1*time.Hour))
	client := &mockClient{fetchFunc: func(ctx context.Context, symbol string, periods []models.Period) (*models.FinancialRecord, error) {
		t.Fatal("client must not be called for a fresh cache")
		return nil, nil
	}}

	svc := NewService(client, storage, common.NewSilentLogger(), WithClock(fixedClock(now)))

	got, err := svc.GetFinancials(context.Background(), "thyao", false)
	require.NoError(t, err)
	assert.Equal(t, "THYAO", got.Symbol)
	assert.Zero(t, client.calls)
}

func TestGetFinancialsRefetchesStaleCache(t *testing.T) {
	now := time.Date(2025, 8, 15, 12, 0, 0, 0, time.UTC)
	storage := newMockStorage()
	storage.records["THYAO"] = recordAt("THYAO", now.Add(-25*time.Hour))
	client := &mockClient{fetchFunc: func(ctx context.Context, symbol string, periods []models.Period) (*models.FinancialRecord, error) {
		return fetchedRecord(symbol, periods), nil
	}}

	svc := NewService(client, storage, common.NewSilentLogger(), WithClock(fixedClock(now)))

	got, err := svc.GetFinancials(context.Background(), "THYAO", false)
	require.NoError(t, err)
	assert.Equal(t, 1, client.calls)
	assert.Equal(t, 1, storage.saves)
	assert.Equal(t, 2.0, *got.Items[0].Values["2025/6"])

	// Mid-August: latest published quarter is Q2, twelve quarters requested.
	require.Len(t, client.periods, 12)
	assert.Equal(t, models.Period{Year: 2025, Month: 6}, client.periods[0])
	assert.Equal(t, models.Period{Year: 2022, Month: 9}, client.periods[11])
}

func TestGetFinancialsExactThresholdIsStale(t *testing.T) {
	now := time.Date(2025, 8, 15, 12, 0, 0, 0, time.UTC)
	storage := newMockStorage()
	storage.records["THYAO"] = recordAt("THYAO", now.Add(-24*time.Hour))
	client := &mockClient{fetchFunc: func(ctx context.Context, symbol string, periods []models.Period) (*models.FinancialRecord, error) {
		return fetchedRecord(symbol, periods), nil
	}}

	svc := NewService(client, storage, common.NewSilentLogger(), WithClock(fixedClock(now)))

	_, err := svc.GetFinancials(context.Background(), "THYAO", false)
	require.NoError(t, err)
	assert.Equal(t, 1, client.calls)
}

func TestGetFinancialsForceBypassesFreshness(t *testing.T) {
	now := time.Date(2025, 8, 15, 12, 0, 0, 0, time.UTC)
	storage := newMockStorage()
	storage.records["THYAO"] = recordAt("THYAO", now.Add(-1*time.Minute))
	client := &mockClient{fetchFunc: func(ctx context.Context, symbol string, periods []models.Period) (*models.FinancialRecord, error) {
		return fetchedRecord(symbol, periods), nil
	}}

	svc := NewService(client, storage, common.NewSilentLogger(), WithClock(fixedClock(now)))

	_, err := svc.GetFinancials(context.Background(), "THYAO", true)
	require.NoError(t, err)
	assert.Equal(t, 1, client.calls)
}

func TestGetFinancialsStaleFallbackOnFetchError(t *testing.T) {
	now := time.Date(2025, 8, 15, 12, 0, 0, 0, time.UTC)
	storage := newMockStorage()
	storage.records["THYAO"] = recordAt("THYAO", now.Add(-48*time.Hour))
	client := &mockClient{fetchFunc: func(ctx context.Context, symbol string, periods []models.Period) (*models.FinancialRecord, error) {
		return nil, models.NewNetworkError(symbol, errors.New("timeout"))
	}}

	svc := NewService(client, storage, common.NewSilentLogger(), WithClock(fixedClock(now)))

	got, err := svc.GetFinancials(context.Background(), "THYAO", false)
	require.NoError(t, err) // stale beats nothing
	assert.Equal(t, 1.0, *got.Items[0].Values["2025/6"])
	assert.Zero(t, storage.saves)
}

func TestGetFinancialsErrorWithoutCache(t *testing.T) {
	client := &mockClient{fetchFunc: func(ctx context.Context, symbol string, periods []models.Period) (*models.FinancialRecord, error) {
		return nil, models.NewNetworkError(symbol, errors.New("timeout"))
	}}

	svc := NewService(client, newMockStorage(), common.NewSilentLogger())

	_, err := svc.GetFinancials(context.Background(), "THYAO", false)
	require.Error(t, err)
}

func TestGetFinancialsEmptyFetchNotPersisted(t *testing.T) {
	client := &mockClient{fetchFunc: func(ctx context.Context, symbol string, periods []models.Period) (*models.FinancialRecord, error) {
		return &models.FinancialRecord{Symbol: symbol}, nil
	}}
	storage := newMockStorage()

	svc := NewService(client, storage, common.NewSilentLogger())

	_, err := svc.GetFinancials(context.Background(), "THYAO", false)
	require.Error(t, err)
	assert.True(t, models.IsNotFound(err))
	assert.Zero(t, storage.saves)
}

func TestRefreshStaleSkipsFreshAndFailures(t *testing.T) {
	now := time.Date(2025, 8, 15, 12, 0, 0, 0, time.UTC)
	storage := newMockStorage()
	storage.records["FRESH"] = recordAt("FRESH", now.Add(-1*time.Hour))
	storage.records["STALE"] = recordAt("STALE", now.Add(-30*time.Hour))
	storage.records["BROKEN"] = recordAt("BROKEN", now.Add(-30*time.Hour))

	client := &mockClient{fetchFunc: func(ctx context.Context, symbol string, periods []models.Period) (*models.FinancialRecord, error) {
		if symbol == "BROKEN" {
			return nil, models.NewNetworkError(symbol, errors.New("timeout"))
		}
		return fetchedRecord(symbol, periods), nil
	}}

	svc := NewService(client, storage, common.NewSilentLogger(), WithClock(fixedClock(now)))

	require.NoError(t, svc.RefreshStale(context.Background()))
	assert.Equal(t, 2, client.calls) // STALE and BROKEN, never FRESH
	assert.Equal(t, 1, storage.saves)
}

func TestRefreshStaleHonorsCancellation(t *testing.T) {
	storage := newMockStorage()
	storage.records["THYAO"] = recordAt("THYAO", time.Now().Add(-30*time.Hour))
	client := &mockClient{fetchFunc: func(ctx context.Context, symbol string, periods []models.Period) (*models.FinancialRecord, error) {
		return fetchedRecord(symbol, periods), nil
	}}

	svc := NewService(client, storage, common.NewSilentLogger())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := svc.RefreshStale(ctx)
	require.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, client.calls)
}
