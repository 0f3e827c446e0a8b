package app

import (
	"context"
	"time"

	"github.com/bistboard/bistboard/internal/common"
	"github.com/bistboard/bistboard/internal/interfaces"
)

// startRefreshScheduler sweeps the financials cache on a fixed interval,
// refetching records that have crossed the staleness threshold.
func startRefreshScheduler(ctx context.Context, financials interfaces.FinancialService, logger *common.Logger, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info().Msg("Refresh scheduler: stopped")
			return
		case <-ticker.C:
			start := time.Now()
			if err := financials.RefreshStale(ctx); err != nil {
				if ctx.Err() != nil {
					return
				}
				logger.Warn().Err(err).Msg("Refresh scheduler: sweep failed")
				continue
			}
			logger.Debug().Dur("elapsed", time.Since(start)).Msg("Refresh scheduler: sweep complete")
		}
	}
}
