package stocks

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bistboard/bistboard/internal/common"
	"github.com/bistboard/bistboard/internal/models"
)

type mockQuoteService struct {
	mu       sync.Mutex
	failFor  map[string]bool
	inFlight atomic.Int32
	peak     atomic.Int32
	calls    []string
}

func (m *mockQuoteService) GetQuote(ctx context.Context, symbol string) (*models.QuoteSnapshot, error) {
	cur := m.inFlight.Add(1)
	defer m.inFlight.Add(-1)
	for {
		peak := m.peak.Load()
		if cur <= peak || m.peak.CompareAndSwap(peak, cur) {
			break
		}
	}

	m.mu.Lock()
	m.calls = append(m.calls, symbol)
	m.mu.Unlock()

	if m.failFor[symbol] {
		return nil, models.NewNotFoundError(symbol)
	}
	return &models.QuoteSnapshot{Symbol: symbol, Price: 100}, nil
}

type mockClient struct {
	info      *models.QuoteInfo
	infoErr   error
	results   []models.SearchSuggestion
	searchErr error
}

func (m *mockClient) GetDailyHistory(ctx context.Context, symbol string, days int) ([]models.DailyBar, error) {
	return nil, nil
}

func (m *mockClient) GetQuoteInfo(ctx context.Context, symbol string) (*models.QuoteInfo, error) {
	return m.info, m.infoErr
}

func (m *mockClient) Search(ctx context.Context, query string) ([]models.SearchSuggestion, error) {
	return m.results, m.searchErr
}

type staticSectors struct{ sector string }

func (s *staticSectors) ResolveSector(ctx context.Context, symbol string) string {
	return s.sector
}

func newListService(quotes *mockQuoteService, universe []string, opts ...ServiceOption) *Service {
	opts = append([]ServiceOption{WithUniverse(universe)}, opts...)
	return NewService(quotes, nil, &mockClient{}, common.NewSilentLogger(), opts...)
}

func TestListQuotesPagination(t *testing.T) {
	quotes := &mockQuoteService{}
	universe := []string{"AAA", "BBB", "CCC", "DDD", "EEE"}
	svc := newListService(quotes, universe)

	page1, more, err := svc.ListQuotes(context.Background(), nil, 1, 2)
	require.NoError(t, err)
	assert.True(t, more)
	require.Len(t, page1, 2)
	assert.Equal(t, "AAA", page1[0].Symbol)
	assert.Equal(t, "BBB", page1[1].Symbol)

	page3, more, err := svc.ListQuotes(context.Background(), nil, 3, 2)
	require.NoError(t, err)
	assert.False(t, more) // final partial page
	require.Len(t, page3, 1)
	assert.Equal(t, "EEE", page3[0].Symbol)
}

func TestListQuotesPageBeyondEnd(t *testing.T) {
	svc := newListService(&mockQuoteService{}, []string{"AAA"})

	page, more, err := svc.ListQuotes(context.Background(), nil, 5, 10)
	require.NoError(t, err)
	assert.False(t, more)
	assert.Empty(t, page)
}

func TestListQuotesRequestedSymbolsFirst(t *testing.T) {
	quotes := &mockQuoteService{}
	svc := newListService(quotes, []string{"AAA", "BBB"})

	page, _, err := svc.ListQuotes(context.Background(), []string{"bbb.is", "ZZZ"}, 1, 10)
	require.NoError(t, err)
	require.Len(t, page, 3)
	// Requested first, deduplicated against defaults, order preserved.
	assert.Equal(t, "BBB", page[0].Symbol)
	assert.Equal(t, "ZZZ", page[1].Symbol)
	assert.Equal(t, "AAA", page[2].Symbol)
}

func TestListQuotesRequestedReordersFirstPage(t *testing.T) {
	quotes := &mockQuoteService{}
	svc := newListService(quotes, []string{"XXX", "YYY", "ZZZ"})

	page, more, err := svc.ListQuotes(context.Background(), []string{"YYY"}, 1, 2)
	require.NoError(t, err)
	assert.True(t, more)
	require.Len(t, page, 2)
	assert.Equal(t, "YYY", page[0].Symbol)
	assert.Equal(t, "XXX", page[1].Symbol)
}

func TestListQuotesDropsFailedSymbols(t *testing.T) {
	quotes := &mockQuoteService{failFor: map[string]bool{"BBB": true}}
	svc := newListService(quotes, []string{"AAA", "BBB", "CCC"})

	page, _, err := svc.ListQuotes(context.Background(), nil, 1, 3)
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, "AAA", page[0].Symbol)
	assert.Equal(t, "CCC", page[1].Symbol)
}

func TestListQuotesBoundsConcurrency(t *testing.T) {
	quotes := &mockQuoteService{}
	universe := make([]string, 40)
	for i := range universe {
		universe[i] = string(rune('A'+i%26)) + string(rune('A'+i/26)) + "X"
	}
	svc := newListService(quotes, universe, WithWorkers(3))

	_, _, err := svc.ListQuotes(context.Background(), nil, 1, 40)
	require.NoError(t, err)
	assert.LessOrEqual(t, quotes.peak.Load(), int32(3))
}

func TestListQuotesCancelledContext(t *testing.T) {
	quotes := &mockQuoteService{}
	svc := newListService(quotes, []string{"AAA", "BBB"})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := svc.ListQuotes(ctx, nil, 1, 2)
	require.ErrorIs(t, err, context.Canceled)
}

func TestGetDetail(t *testing.T) {
	client := &mockClient{info: &models.QuoteInfo{
		LongName:      "Türk Hava Yolları A.O.",
		Sector:        "Industrials",
		Industry:      "Airlines",
		Price:         314,
		PreviousClose: 311.75,
		Currency:      "TRY",
		MarketCap:     433e9,
	}}

	svc := NewService(&mockQuoteService{}, &staticSectors{sector: "Sanayi"}, client, common.NewSilentLogger())

	detail, err := svc.GetDetail(context.Background(), "thyao")
	require.NoError(t, err)
	assert.Equal(t, "THYAO", detail.Symbol)
	assert.Equal(t, "Türk Hava Yolları A.O.", detail.Name)
	assert.Equal(t, "Sanayi", detail.Sector) // resolver wins over raw provider label
	assert.InDelta(t, 2.25, detail.Change, 1e-9)
	assert.InDelta(t, 2.25/311.75*100, detail.ChangePercent, 1e-9)
}

func TestGetDetailNotFound(t *testing.T) {
	client := &mockClient{infoErr: models.NewNotFoundError("NOPE")}
	svc := NewService(&mockQuoteService{}, nil, client, common.NewSilentLogger())

	_, err := svc.GetDetail(context.Background(), "NOPE")
	require.Error(t, err)
	assert.True(t, models.IsNotFound(err))
}

func TestSearchLocalAndProvider(t *testing.T) {
	client := &mockClient{results: []models.SearchSuggestion{
		{Symbol: "THYAO.IS", Name: "Türk Hava Yolları A.O.", Exchange: "Istanbul"},
		{Symbol: "PGSUS.IS", Name: "Pegasus", Exchange: "Istanbul"},
	}}
	svc := NewService(&mockQuoteService{}, nil, client, common.NewSilentLogger(), WithUniverse([]string{"THYAO", "TUPRS"}))

	got, err := svc.Search(context.Background(), "thy")
	require.NoError(t, err)
	require.Len(t, got, 2)

	// Local match first; the provider's THYAO.IS deduplicates against it.
	assert.Equal(t, "THYAO", got[0].Symbol)
	assert.Equal(t, "BIST", got[0].Exchange)
	assert.Equal(t, "PGSUS.IS", got[1].Symbol)
}

func TestSearchLocalMatchesSubstring(t *testing.T) {
	svc := NewService(&mockQuoteService{}, nil, &mockClient{}, common.NewSilentLogger(),
		WithUniverse([]string{"AKBNK", "GARAN", "HALKB", "TSKB"}))

	// "kb" is not a prefix of any of these; containment still matches.
	got, err := svc.Search(context.Background(), "kb")
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "AKBNK", got[0].Symbol)
	assert.Equal(t, "HALKB", got[1].Symbol)
	assert.Equal(t, "TSKB", got[2].Symbol)
}

func TestSearchLocalMatchesCapped(t *testing.T) {
	universe := []string{"AKBNK", "HALKB", "KBORU", "SKBNK", "TSKB", "YKBNK"}
	svc := NewService(&mockQuoteService{}, nil, &mockClient{}, common.NewSilentLogger(),
		WithUniverse(universe))

	got, err := svc.Search(context.Background(), "kb")
	require.NoError(t, err)
	require.Len(t, got, maxLocalMatches)
	assert.Equal(t, "AKBNK", got[0].Symbol)
	assert.Equal(t, "TSKB", got[4].Symbol)
}

func TestSearchShortQuerySkipsLocal(t *testing.T) {
	client := &mockClient{results: []models.SearchSuggestion{
		{Symbol: "THYAO.IS", Name: "Türk Hava Yolları A.O."},
	}}
	svc := NewService(&mockQuoteService{}, nil, client, common.NewSilentLogger(), WithUniverse([]string{"THYAO"}))

	got, err := svc.Search(context.Background(), "t")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "THYAO.IS", got[0].Symbol)
}

func TestSearchProviderFailureDegrades(t *testing.T) {
	client := &mockClient{searchErr: errors.New("timeout")}
	svc := NewService(&mockQuoteService{}, nil, client, common.NewSilentLogger(), WithUniverse([]string{"THYAO"}))

	got, err := svc.Search(context.Background(), "thy")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "THYAO", got[0].Symbol)
}

func TestSearchEmptyQuery(t *testing.T) {
	svc := NewService(&mockQuoteService{}, nil, &mockClient{}, common.NewSilentLogger())

	got, err := svc.Search(context.Background(), "   ")
	require.NoError(t, err)
	assert.Empty(t, got)
}
