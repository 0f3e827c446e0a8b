package app

import (
	"context"
	"time"

	"golang.org/x/time/rate"

	"github.com/bistboard/bistboard/internal/common"
	"github.com/bistboard/bistboard/internal/interfaces"
	"github.com/bistboard/bistboard/internal/models"
	"github.com/bistboard/bistboard/internal/services/sector"
)

// warmSectorScan walks the default universe and resolves any sector not yet
// cached, paced by the configured rate so the provider is never hammered at
// startup. The scan stops cleanly on cancellation.
func warmSectorScan(ctx context.Context, sectors interfaces.SectorService, storage interfaces.SectorStorage, symbolsPerSecond int, logger *common.Logger) {
	if symbolsPerSecond <= 0 {
		symbolsPerSecond = 1
	}
	limiter := rate.NewLimiter(rate.Limit(symbolsPerSecond), 1)

	start := time.Now()
	resolved := 0
	unknown := 0

	for _, symbol := range models.DefaultUniverse {
		if _, ok := storage.GetSector(ctx, symbol); ok {
			continue
		}

		if err := limiter.Wait(ctx); err != nil {
			logger.Info().Int("resolved", resolved).Msg("Warm scan: cancelled")
			return
		}

		if sectors.ResolveSector(ctx, symbol) == sector.SectorUnknown {
			unknown++
			continue
		}
		resolved++
	}

	logger.Info().
		Int("resolved", resolved).
		Int("unknown", unknown).
		Dur("elapsed", time.Since(start)).
		Msg("Warm scan: complete")
}
