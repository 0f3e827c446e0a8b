// Package cachefs provides file-backed caches for statement records and
// sector classifications. Each cache is one JSON document, loaded in full at
// open and rewritten atomically on every mutation.
package cachefs

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/bistboard/bistboard/internal/common"
	"github.com/bistboard/bistboard/internal/interfaces"
	"github.com/bistboard/bistboard/internal/models"
)

const (
	financialsFile = "financials.json"
	sectorsFile    = "sectors.json"
)

// Store owns both cache documents behind a single lock.
type Store struct {
	basePath string
	logger   *common.Logger

	mu         sync.RWMutex
	financials map[string]*models.FinancialRecord
	sectors    map[string]string
}

// Open loads the cache documents under basePath, creating the directory if
// needed. A missing or corrupt document starts empty with a warning; it is
// derived data and refetchable.
func Open(logger *common.Logger, basePath string) (*Store, error) {
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory %s: %w", basePath, err)
	}

	s := &Store{
		basePath:   basePath,
		logger:     logger,
		financials: make(map[string]*models.FinancialRecord),
		sectors:    make(map[string]string),
	}

	s.loadDocument(financialsFile, &s.financials)
	s.loadDocument(sectorsFile, &s.sectors)

	logger.Debug().
		Str("path", basePath).
		Int("financials", len(s.financials)).
		Int("sectors", len(s.sectors)).
		Msg("Cache store opened")

	return s, nil
}

// loadDocument reads one cache document into dest. Absent files are normal;
// unreadable or corrupt ones are logged and left empty.
func (s *Store) loadDocument(name string, dest interface{}) {
	path := filepath.Join(s.basePath, name)
	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			s.logger.Warn().Str("file", name).Err(err).Msg("Cache document unreadable, starting empty")
		}
		return
	}
	if err := json.Unmarshal(data, dest); err != nil {
		s.logger.Warn().Str("file", name).Err(err).Msg("Cache document corrupt, starting empty")
	}
}

// persistDocument marshals data to indented JSON and writes it atomically:
// temp file in the same directory, then rename.
func (s *Store) persistDocument(name string, data interface{}) error {
	target := filepath.Join(s.basePath, name)

	jsonData, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", name, err)
	}
	jsonData = append(jsonData, '\n')

	tmpFile, err := os.CreateTemp(s.basePath, ".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	if _, err := tmpFile.Write(jsonData); err != nil {
		tmpFile.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := os.Rename(tmpPath, target); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to rename temp file: %w", err)
	}

	return nil
}

// Financials returns the statement-record cache.
func (s *Store) Financials() interfaces.FinancialStorage {
	return (*financialStore)(s)
}

// Sectors returns the sector-label cache.
func (s *Store) Sectors() interfaces.SectorStorage {
	return (*sectorStore)(s)
}

// Close releases the store. Documents are persisted on every mutation, so
// there is nothing to flush.
func (s *Store) Close() error {
	s.logger.Debug().Str("path", s.basePath).Msg("Cache store closed")
	return nil
}

type financialStore Store

// GetFinancials returns a deep copy of the cached record so callers can
// never mutate cache state through a shared map.
func (fs *financialStore) GetFinancials(ctx context.Context, symbol string) (*models.FinancialRecord, error) {
	symbol = models.CanonicalSymbol(symbol)

	fs.mu.RLock()
	defer fs.mu.RUnlock()

	record, ok := fs.financials[symbol]
	if !ok {
		return nil, models.NewNotFoundError(symbol)
	}
	return record.Clone(), nil
}

// SaveFinancials overwrites the symbol's entry and rewrites the document.
func (fs *financialStore) SaveFinancials(ctx context.Context, record *models.FinancialRecord) error {
	if record == nil {
		return fmt.Errorf("nil record")
	}

	fs.mu.Lock()
	defer fs.mu.Unlock()

	fs.financials[models.CanonicalSymbol(record.Symbol)] = record.Clone()
	return (*Store)(fs).persistDocument(financialsFile, fs.financials)
}

// Symbols lists the cached symbols, sorted.
func (fs *financialStore) Symbols(ctx context.Context) ([]string, error) {
	fs.mu.RLock()
	defer fs.mu.RUnlock()

	symbols := make([]string, 0, len(fs.financials))
	for symbol := range fs.financials {
		symbols = append(symbols, symbol)
	}
	sort.Strings(symbols)
	return symbols, nil
}

type sectorStore Store

func (ss *sectorStore) GetSector(ctx context.Context, symbol string) (string, bool) {
	ss.mu.RLock()
	defer ss.mu.RUnlock()

	sector, ok := ss.sectors[models.CanonicalSymbol(symbol)]
	return sector, ok
}

// SaveSector records a resolved label. Entries are write-once: an existing
// label wins until InvalidateSector removes it.
func (ss *sectorStore) SaveSector(ctx context.Context, symbol, sector string) error {
	symbol = models.CanonicalSymbol(symbol)

	ss.mu.Lock()
	defer ss.mu.Unlock()

	if _, ok := ss.sectors[symbol]; ok {
		return nil
	}
	ss.sectors[symbol] = sector
	return (*Store)(ss).persistDocument(sectorsFile, ss.sectors)
}

// InvalidateSector drops a symbol's entry so the next resolve refetches.
func (ss *sectorStore) InvalidateSector(ctx context.Context, symbol string) error {
	symbol = models.CanonicalSymbol(symbol)

	ss.mu.Lock()
	defer ss.mu.Unlock()

	if _, ok := ss.sectors[symbol]; !ok {
		return nil
	}
	delete(ss.sectors, symbol)
	return (*Store)(ss).persistDocument(sectorsFile, ss.sectors)
}

// Ensure Store satisfies the cache contracts
var _ interfaces.CacheManager = (*Store)(nil)
var _ interfaces.FinancialStorage = (*financialStore)(nil)
var _ interfaces.SectorStorage = (*sectorStore)(nil)
