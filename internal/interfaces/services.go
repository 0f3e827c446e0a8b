package interfaces

import (
	"context"

	"github.com/bistboard/bistboard/internal/models"
)

// FinancialService serves statement records with freshness-gated refresh.
type FinancialService interface {
	// GetFinancials returns the cached record when fresh, refetching
	// otherwise. force bypasses the freshness check entirely.
	GetFinancials(ctx context.Context, symbol string, force bool) (*models.FinancialRecord, error)

	// RefreshStale refetches every cached record older than the staleness
	// threshold. Per-symbol failures are logged and skipped.
	RefreshStale(ctx context.Context) error
}

// QuoteService assembles per-symbol price snapshots.
type QuoteService interface {
	// GetQuote returns a snapshot, or ErrNoData when no price history is
	// obtainable at all.
	GetQuote(ctx context.Context, symbol string) (*models.QuoteSnapshot, error)
}

// SectorService resolves and memoizes sector classifications.
type SectorService interface {
	// ResolveSector returns the local-taxonomy sector label for a symbol,
	// or the unknown sentinel when the provider has nothing.
	ResolveSector(ctx context.Context, symbol string) string
}

// StockService merges universes, paginates, and fans out quote fetches.
type StockService interface {
	// ListQuotes returns one page of snapshots over requested + default
	// universe and whether more pages exist.
	ListQuotes(ctx context.Context, requested []string, page, limit int) ([]*models.QuoteSnapshot, bool, error)

	// GetDetail returns extended single-symbol metadata.
	GetDetail(ctx context.Context, symbol string) (*models.StockDetail, error)

	// Search returns local universe matches followed by provider matches.
	Search(ctx context.Context, query string) ([]models.SearchSuggestion, error)
}
