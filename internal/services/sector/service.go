// Package sector resolves provider sector classifications into the local
// Turkish taxonomy and memoizes the results.
package sector

import (
	"context"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/bistboard/bistboard/internal/common"
	"github.com/bistboard/bistboard/internal/interfaces"
	"github.com/bistboard/bistboard/internal/models"
)

// SectorUnknown is returned when the provider has no classification. It is
// never written to the cache, so the next resolve retries the provider.
const SectorUnknown = "Bilinmiyor"

// sectorNames maps the provider's English sector taxonomy onto the local
// Turkish labels.
var sectorNames = map[string]string{
	"Technology":             "Teknoloji",
	"Financial Services":     "Finans",
	"Industrials":            "Sanayi",
	"Consumer Cyclical":      "Döngüsel Tüketim",
	"Consumer Defensive":     "Temel Tüketim",
	"Basic Materials":        "Temel Malzemeler",
	"Energy":                 "Enerji",
	"Healthcare":             "Sağlık",
	"Communication Services": "İletişim",
	"Utilities":              "Kamu Hizmetleri",
	"Real Estate":            "Gayrimenkul",
}

// Service implements the SectorService interface
type Service struct {
	client  interfaces.QuoteClient
	storage interfaces.SectorStorage
	logger  *common.Logger
	caser   cases.Caser
}

// NewService creates a new sector service
func NewService(client interfaces.QuoteClient, storage interfaces.SectorStorage, logger *common.Logger) *Service {
	return &Service{
		client:  client,
		storage: storage,
		logger:  logger,
		caser:   cases.Title(language.Turkish),
	}
}

// ResolveSector returns the local-taxonomy label for a symbol, consulting
// the cache first. A provider miss yields the unknown sentinel without
// caching it; genuine labels are cached write-once.
func (s *Service) ResolveSector(ctx context.Context, symbol string) string {
	symbol = models.CanonicalSymbol(symbol)

	if sector, ok := s.storage.GetSector(ctx, symbol); ok {
		return sector
	}

	info, err := s.client.GetQuoteInfo(ctx, symbol)
	if err != nil {
		s.logger.Debug().Str("symbol", symbol).Err(err).Msg("Sector lookup failed")
		return SectorUnknown
	}

	label := localizeSector(s.caser, info.Sector)
	if label == SectorUnknown {
		return SectorUnknown
	}

	if err := s.storage.SaveSector(ctx, symbol, label); err != nil {
		s.logger.Warn().Str("symbol", symbol).Err(err).Msg("Failed to cache sector")
	}

	return label
}

// localizeSector maps a provider label to the Turkish taxonomy. Labels
// outside the known vocabulary pass through title-cased under Turkish
// casing rules.
func localizeSector(caser cases.Caser, provider string) string {
	provider = strings.TrimSpace(provider)
	if provider == "" {
		return SectorUnknown
	}
	if tr, ok := sectorNames[provider]; ok {
		return tr
	}
	return caser.String(provider)
}

// Ensure Service implements SectorService
var _ interfaces.SectorService = (*Service)(nil)
