// Package financial serves quarterly statement records with a
// freshness-gated cache in front of the statement provider.
package financial

import (
	"context"
	"time"

	"github.com/bistboard/bistboard/internal/common"
	"github.com/bistboard/bistboard/internal/interfaces"
	"github.com/bistboard/bistboard/internal/models"
)

// Service implements the FinancialService interface
type Service struct {
	client  interfaces.FinancialsClient
	storage interfaces.FinancialStorage
	logger  *common.Logger

	periodCount  int
	anchorMonths []int
	maxAge       time.Duration
	now          func() time.Time
}

// ServiceOption configures the service
type ServiceOption func(*Service)

// WithPeriodCount sets how many quarters each fetch requests
func WithPeriodCount(count int) ServiceOption {
	return func(s *Service) {
		if count > 0 {
			s.periodCount = count
		}
	}
}

// WithAnchorMonths sets the month thresholds for the latest published quarter
func WithAnchorMonths(months []int) ServiceOption {
	return func(s *Service) {
		if len(months) == 3 {
			s.anchorMonths = months
		}
	}
}

// WithMaxAge sets the cache staleness threshold
func WithMaxAge(maxAge time.Duration) ServiceOption {
	return func(s *Service) {
		if maxAge > 0 {
			s.maxAge = maxAge
		}
	}
}

// WithClock injects the time source, for tests
func WithClock(now func() time.Time) ServiceOption {
	return func(s *Service) {
		s.now = now
	}
}

// NewService creates a new financial service
func NewService(client interfaces.FinancialsClient, storage interfaces.FinancialStorage, logger *common.Logger, opts ...ServiceOption) *Service {
	s := &Service{
		client:       client,
		storage:      storage,
		logger:       logger,
		periodCount:  12,
		anchorMonths: models.DefaultAnchorMonths,
		maxAge:       common.FreshnessFinancials,
		now:          time.Now,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// GetFinancials returns the symbol's statement record, serving the cached
// copy while it is younger than the staleness threshold. force refetches
// regardless of age. A failed refetch falls back to the stale cached copy
// rather than erroring; an empty fetch result is never persisted.
func (s *Service) GetFinancials(ctx context.Context, symbol string, force bool) (*models.FinancialRecord, error) {
	symbol = models.CanonicalSymbol(symbol)

	cached, cacheErr := s.storage.GetFinancials(ctx, symbol)
	if cacheErr == nil && !force && common.IsFreshAt(s.now(), cached.LastUpdated, s.maxAge) {
		s.logger.Debug().Str("symbol", symbol).Time("updated", cached.LastUpdated).Msg("Serving cached financials")
		return cached, nil
	}

	periods := models.RecentPeriodsAt(s.now(), s.periodCount, s.anchorMonths)

	fetched, err := s.client.FetchFinancials(ctx, symbol, periods)
	if err != nil {
		if cacheErr == nil {
			s.logger.Warn().Str("symbol", symbol).Err(err).Msg("Refresh failed, serving stale financials")
			return cached, nil
		}
		return nil, err
	}

	if fetched.IsEmpty() {
		if cacheErr == nil {
			return cached, nil
		}
		return nil, models.NewNotFoundError(symbol)
	}

	if err := s.storage.SaveFinancials(ctx, fetched); err != nil {
		s.logger.Error().Str("symbol", symbol).Err(err).Msg("Failed to persist financials")
	}

	return fetched, nil
}

// RefreshStale refetches every cached record older than the staleness
// threshold. Per-symbol failures are logged and skipped; cancellation stops
// the sweep between symbols.
func (s *Service) RefreshStale(ctx context.Context) error {
	symbols, err := s.storage.Symbols(ctx)
	if err != nil {
		return err
	}

	refreshed := 0
	for _, symbol := range symbols {
		if err := ctx.Err(); err != nil {
			return err
		}

		cached, err := s.storage.GetFinancials(ctx, symbol)
		if err == nil && common.IsFreshAt(s.now(), cached.LastUpdated, s.maxAge) {
			continue
		}

		if _, err := s.GetFinancials(ctx, symbol, true); err != nil {
			s.logger.Warn().Str("symbol", symbol).Err(err).Msg("Scheduled refresh failed")
			continue
		}
		refreshed++
	}

	s.logger.Info().Int("total", len(symbols)).Int("refreshed", refreshed).Msg("Stale financials refresh complete")
	return nil
}

// Ensure Service implements FinancialService
var _ interfaces.FinancialService = (*Service)(nil)
