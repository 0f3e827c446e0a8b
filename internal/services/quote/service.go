// Package quote assembles per-symbol price snapshots from daily history and
// provider metadata, with explicit fallbacks for the fields the provider
// reports unreliably.
package quote

import (
	"context"
	"time"

	"github.com/bistboard/bistboard/internal/common"
	"github.com/bistboard/bistboard/internal/interfaces"
	"github.com/bistboard/bistboard/internal/models"
)

// historyDays is the daily-bar window requested per quote. Two closed
// sessions are enough for the change calculation; five absorbs holidays.
const historyDays = 5

// Service implements the QuoteService interface
type Service struct {
	client  interfaces.QuoteClient
	sectors interfaces.SectorService
	logger  *common.Logger
	now     func() time.Time
}

// ServiceOption configures the service
type ServiceOption func(*Service)

// WithSectorService attaches a sector resolver; snapshots then carry the
// resolved sector label
func WithSectorService(sectors interfaces.SectorService) ServiceOption {
	return func(s *Service) {
		s.sectors = sectors
	}
}

// WithClock injects the time source, for tests
func WithClock(now func() time.Time) ServiceOption {
	return func(s *Service) {
		s.now = now
	}
}

// NewService creates a new quote service
func NewService(client interfaces.QuoteClient, logger *common.Logger, opts ...ServiceOption) *Service {
	s := &Service{
		client: client,
		logger: logger,
		now:    time.Now,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// GetQuote builds a snapshot for one symbol. Price and change come from
// daily history; metadata failures degrade the snapshot instead of failing
// it. Only a symbol with no history at all yields an error.
func (s *Service) GetQuote(ctx context.Context, symbol string) (*models.QuoteSnapshot, error) {
	symbol = models.CanonicalSymbol(symbol)

	bars, err := s.client.GetDailyHistory(ctx, symbol, historyDays)
	if err != nil {
		return nil, err
	}
	if len(bars) == 0 {
		return nil, models.NewNotFoundError(symbol)
	}

	info, err := s.client.GetQuoteInfo(ctx, symbol)
	if err != nil {
		s.logger.Debug().Str("symbol", symbol).Err(err).Msg("Quote metadata unavailable")
		info = nil
	}

	last := bars[len(bars)-1]
	snapshot := &models.QuoteSnapshot{
		Symbol: symbol,
		Name:   displayName(symbol, info),
		Price:  last.Close,
		Open:   last.Open,
		Volume: resolveVolume(info, bars),
		AsOf:   s.now(),
	}

	snapshot.Change, snapshot.ChangePercent = computeChange(bars)

	if s.sectors != nil {
		snapshot.Sector = s.sectors.ResolveSector(ctx, symbol)
	}

	return snapshot, nil
}

// displayName picks the best available name: long name, then short name,
// then the ticker itself.
func displayName(symbol string, info *models.QuoteInfo) string {
	if info != nil {
		if info.LongName != "" {
			return info.LongName
		}
		if info.ShortName != "" {
			return info.ShortName
		}
	}
	return symbol
}

// resolveVolume prefers the provider's live volume, then the latest bar,
// then the prior bar. Live sessions often report zero volume on the current
// bar until trades settle.
func resolveVolume(info *models.QuoteInfo, bars []models.DailyBar) float64 {
	if info != nil && info.Volume > 0 {
		return info.Volume
	}
	if v := bars[len(bars)-1].Volume; v > 0 {
		return v
	}
	if len(bars) >= 2 {
		return bars[len(bars)-2].Volume
	}
	return 0
}

// computeChange derives the day change from history. With at least two
// sessions the baseline is the previous close; with a single session it is
// that session's open.
func computeChange(bars []models.DailyBar) (change, percent float64) {
	price := bars[len(bars)-1].Close

	var base float64
	switch {
	case len(bars) >= 2:
		base = bars[len(bars)-2].Close
	case len(bars) == 1:
		base = bars[0].Open
	}

	if base == 0 {
		return 0, 0
	}
	change = price - base
	percent = change / base * 100
	return change, percent
}

// Ensure Service implements QuoteService
var _ interfaces.QuoteService = (*Service)(nil)
