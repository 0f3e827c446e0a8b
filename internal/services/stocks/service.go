// Package stocks aggregates the quote universe: list pagination with
// bounded concurrent quote fan-out, single-symbol detail, and symbol search.
package stocks

import (
	"context"
	"strings"
	"sync"

	"github.com/bistboard/bistboard/internal/common"
	"github.com/bistboard/bistboard/internal/interfaces"
	"github.com/bistboard/bistboard/internal/models"
)

const (
	// DefaultWorkers bounds the per-page quote fan-out.
	DefaultWorkers = 10

	// minSearchLength gates local universe matching; shorter queries still go
	// to the provider.
	minSearchLength = 2

	// maxLocalMatches caps local universe matches so a short query does not
	// flood the suggestion list before provider results.
	maxLocalMatches = 5
)

// Service implements the StockService interface
type Service struct {
	quotes   interfaces.QuoteService
	sectors  interfaces.SectorService
	client   interfaces.QuoteClient
	logger   *common.Logger
	universe []string
	workers  int
}

// ServiceOption configures the service
type ServiceOption func(*Service)

// WithWorkers sets the quote fan-out worker count
func WithWorkers(workers int) ServiceOption {
	return func(s *Service) {
		if workers > 0 {
			s.workers = workers
		}
	}
}

// WithUniverse overrides the default symbol universe
func WithUniverse(universe []string) ServiceOption {
	return func(s *Service) {
		s.universe = universe
	}
}

// NewService creates a new stock service
func NewService(quotes interfaces.QuoteService, sectors interfaces.SectorService, client interfaces.QuoteClient, logger *common.Logger, opts ...ServiceOption) *Service {
	s := &Service{
		quotes:   quotes,
		sectors:  sectors,
		client:   client,
		logger:   logger,
		universe: models.DefaultUniverse,
		workers:  DefaultWorkers,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// ListQuotes returns one page of snapshots over the requested symbols
// followed by the default universe, deduplicated in order. Quotes for the
// page are fetched concurrently under the worker bound; symbols whose fetch
// fails are dropped from the page without failing the request. The boolean
// reports whether more pages exist.
func (s *Service) ListQuotes(ctx context.Context, requested []string, page, limit int) ([]*models.QuoteSnapshot, bool, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}

	universe := models.MergeUniverse(requested, s.universe)

	start := (page - 1) * limit
	if start >= len(universe) {
		return []*models.QuoteSnapshot{}, false, nil
	}
	end := start + limit
	if end > len(universe) {
		end = len(universe)
	}
	pageSymbols := universe[start:end]
	hasMore := end < len(universe)

	results := make([]*models.QuoteSnapshot, len(pageSymbols))

	var wg sync.WaitGroup
	sem := make(chan struct{}, s.workers)

	for i, symbol := range pageSymbols {
		wg.Add(1)
		go func(i int, symbol string) {
			defer wg.Done()

			sem <- struct{}{}
			defer func() { <-sem }()

			if ctx.Err() != nil {
				return
			}

			snapshot, err := s.quotes.GetQuote(ctx, symbol)
			if err != nil {
				s.logger.Debug().Str("symbol", symbol).Err(err).Msg("Quote dropped from page")
				return
			}
			results[i] = snapshot
		}(i, symbol)
	}

	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, false, err
	}

	// Page order is universe order; failed symbols leave no gap.
	snapshots := make([]*models.QuoteSnapshot, 0, len(results))
	for _, r := range results {
		if r != nil {
			snapshots = append(snapshots, r)
		}
	}

	return snapshots, hasMore, nil
}

// GetDetail returns extended metadata for one symbol.
func (s *Service) GetDetail(ctx context.Context, symbol string) (*models.StockDetail, error) {
	symbol = models.CanonicalSymbol(symbol)

	info, err := s.client.GetQuoteInfo(ctx, symbol)
	if err != nil {
		return nil, err
	}

	name := info.LongName
	if name == "" {
		name = info.ShortName
	}
	if name == "" {
		name = symbol
	}

	detail := &models.StockDetail{
		Symbol:           symbol,
		Name:             name,
		Description:      info.Description,
		Industry:         info.Industry,
		Website:          info.Website,
		Price:            info.Price,
		Currency:         info.Currency,
		MarketCap:        info.MarketCap,
		PERatio:          info.PERatio,
		DividendYield:    info.DividendYield,
		DayHigh:          info.DayHigh,
		DayLow:           info.DayLow,
		FiftyTwoWeekHigh: info.YearHigh,
		FiftyTwoWeekLow:  info.YearLow,
		AverageVolume:    info.AverageVolume,
		Open:             info.Open,
		PreviousClose:    info.PreviousClose,
	}

	if info.PreviousClose > 0 {
		detail.Change = info.Price - info.PreviousClose
		detail.ChangePercent = detail.Change / info.PreviousClose * 100
	}

	if s.sectors != nil {
		detail.Sector = s.sectors.ResolveSector(ctx, symbol)
	} else {
		detail.Sector = info.Sector
	}

	return detail, nil
}

// Search returns local universe substring matches (at most maxLocalMatches)
// followed by provider suggestions, deduplicated by canonical symbol. A
// provider failure degrades to local matches only.
func (s *Service) Search(ctx context.Context, query string) ([]models.SearchSuggestion, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []models.SearchSuggestion{}, nil
	}

	suggestions := make([]models.SearchSuggestion, 0, 10)
	seen := make(map[string]struct{})

	if len(query) >= minSearchLength {
		needle := models.CanonicalSymbol(query)
		for _, symbol := range s.universe {
			if !strings.Contains(symbol, needle) {
				continue
			}
			suggestions = append(suggestions, models.SearchSuggestion{
				Symbol:   symbol,
				Name:     symbol,
				Exchange: "BIST",
			})
			seen[symbol] = struct{}{}
			if len(suggestions) == maxLocalMatches {
				break
			}
		}
	}

	remote, err := s.client.Search(ctx, query)
	if err != nil {
		s.logger.Debug().Str("query", query).Err(err).Msg("Provider search failed")
		return suggestions, nil
	}

	for _, suggestion := range remote {
		key := models.CanonicalSymbol(suggestion.Symbol)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		suggestions = append(suggestions, suggestion)
	}

	return suggestions, nil
}

// Ensure Service implements StockService
var _ interfaces.StockService = (*Service)(nil)
