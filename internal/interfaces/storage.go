package interfaces

import (
	"context"

	"github.com/bistboard/bistboard/internal/models"
)

// FinancialStorage persists merged statement records, one entry per symbol.
type FinancialStorage interface {
	// GetFinancials returns a snapshot copy of the cached record, or a
	// not-found error.
	GetFinancials(ctx context.Context, symbol string) (*models.FinancialRecord, error)

	// SaveFinancials overwrites the symbol's entry and rewrites the backing
	// document.
	SaveFinancials(ctx context.Context, record *models.FinancialRecord) error

	// Symbols lists the symbols currently cached.
	Symbols(ctx context.Context) ([]string, error)
}

// SectorStorage persists resolved sector labels, one entry per symbol.
// Entries are write-once per symbol unless explicitly invalidated.
type SectorStorage interface {
	GetSector(ctx context.Context, symbol string) (string, bool)
	SaveSector(ctx context.Context, symbol, sector string) error
	InvalidateSector(ctx context.Context, symbol string) error
}

// CacheManager owns the durable caches. Loaded in full at open, persisted on
// every mutation.
type CacheManager interface {
	Financials() FinancialStorage
	Sectors() SectorStorage
	Close() error
}
