// Package interfaces defines service contracts for bistboard
package interfaces

import (
	"context"

	"github.com/bistboard/bistboard/internal/models"
)

// FinancialsClient fetches multi-period statement data from the statement
// provider. Implementations own chunking and merging; the returned record is
// a pure function of the per-chunk responses (modulo LastUpdated).
type FinancialsClient interface {
	// FetchFinancials retrieves and merges statement rows for the given
	// periods. A partially failed fetch returns a record with null-filled
	// values for the failed periods; a fully failed fetch returns an empty
	// record and the last chunk error.
	FetchFinancials(ctx context.Context, symbol string, periods []models.Period) (*models.FinancialRecord, error)
}

// QuoteClient provides price history, symbol metadata, and symbol search
// from the quote provider.
type QuoteClient interface {
	// GetDailyHistory retrieves the most recent daily bars, oldest first.
	GetDailyHistory(ctx context.Context, symbol string, days int) ([]models.DailyBar, error)

	// GetQuoteInfo retrieves provider metadata for a symbol.
	GetQuoteInfo(ctx context.Context, symbol string) (*models.QuoteInfo, error)

	// Search returns symbol suggestions for a free-text query.
	Search(ctx context.Context, query string) ([]models.SearchSuggestion, error)
}
