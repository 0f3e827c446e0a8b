// Package app wires configuration, storage, clients, and services into the
// shared core used by cmd/bistboard-server.
package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/bistboard/bistboard/internal/clients/isyatirim"
	"github.com/bistboard/bistboard/internal/clients/yahoo"
	"github.com/bistboard/bistboard/internal/common"
	"github.com/bistboard/bistboard/internal/interfaces"
	"github.com/bistboard/bistboard/internal/services/financial"
	"github.com/bistboard/bistboard/internal/services/quote"
	"github.com/bistboard/bistboard/internal/services/sector"
	"github.com/bistboard/bistboard/internal/services/stocks"
	"github.com/bistboard/bistboard/internal/storage/cachefs"
)

// App holds all initialized services, clients, and storage.
type App struct {
	Config           *common.Config
	Logger           *common.Logger
	Cache            interfaces.CacheManager
	FinancialsClient interfaces.FinancialsClient
	QuoteClient      interfaces.QuoteClient
	FinancialService interfaces.FinancialService
	QuoteService     interfaces.QuoteService
	SectorService    interfaces.SectorService
	StockService     interfaces.StockService
	StartupTime      time.Time

	schedulerCancel context.CancelFunc
	warmScanCancel  context.CancelFunc
}

// getBinaryDir returns the directory containing the executable.
func getBinaryDir() string {
	exe, err := os.Executable()
	if err != nil {
		return "."
	}
	return filepath.Dir(exe)
}

// NewApp initializes storage, clients, and services.
// configPath may be empty, in which case the default resolution logic is used.
func NewApp(configPath string) (*App, error) {
	startupStart := time.Now()

	binDir := getBinaryDir()

	// Config resolution: explicit path, BISTBOARD_CONFIG, binary dir, then
	// the development fallback.
	if configPath == "" {
		configPath = os.Getenv("BISTBOARD_CONFIG")
	}
	if configPath == "" {
		configPath = filepath.Join(binDir, "bistboard.toml")
		if _, err := os.Stat(configPath); os.IsNotExist(err) {
			configPath = "config/bistboard.toml"
		}
	}

	config, err := common.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	// Resolve relative storage path to binary directory
	if config.Storage.Path != "" && !filepath.IsAbs(config.Storage.Path) {
		config.Storage.Path = filepath.Join(binDir, config.Storage.Path)
	}

	logger := common.NewLoggerFromConfig(config.Logging)

	cache, err := cachefs.Open(logger, config.Storage.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open cache store: %w", err)
	}

	financialsClient := isyatirim.NewClient(
		isyatirim.WithBaseURL(config.Clients.Isyatirim.BaseURL),
		isyatirim.WithUserAgent(config.Clients.Isyatirim.UserAgent),
		isyatirim.WithRateLimit(config.Clients.Isyatirim.RateLimit),
		isyatirim.WithTimeout(config.Clients.Isyatirim.GetTimeout()),
		isyatirim.WithChunkSize(config.Financials.ChunkSize),
		isyatirim.WithLogger(logger),
	)

	quoteClient := yahoo.NewClient(
		yahoo.WithBaseURL(config.Clients.Yahoo.BaseURL),
		yahoo.WithQueryBaseURL(config.Clients.Yahoo.QueryBaseURL),
		yahoo.WithUserAgent(config.Clients.Yahoo.UserAgent),
		yahoo.WithTimeout(config.Clients.Yahoo.GetTimeout()),
		yahoo.WithSearchTimeout(config.Clients.Yahoo.GetSearchTimeout()),
		yahoo.WithLogger(logger),
	)

	sectorService := sector.NewService(quoteClient, cache.Sectors(), logger)
	quoteService := quote.NewService(quoteClient, logger,
		quote.WithSectorService(sectorService),
	)
	financialService := financial.NewService(financialsClient, cache.Financials(), logger,
		financial.WithPeriodCount(config.Financials.PeriodCount),
		financial.WithAnchorMonths(config.Financials.AnchorMonths),
		financial.WithMaxAge(config.Financials.GetMaxAge()),
	)
	stockService := stocks.NewService(quoteService, sectorService, quoteClient, logger,
		stocks.WithWorkers(config.Scan.Workers),
	)

	a := &App{
		Config:           config,
		Logger:           logger,
		Cache:            cache,
		FinancialsClient: financialsClient,
		QuoteClient:      quoteClient,
		FinancialService: financialService,
		QuoteService:     quoteService,
		SectorService:    sectorService,
		StockService:     stockService,
		StartupTime:      startupStart,
	}

	logger.Info().
		Str("version", common.GetFullVersion()).
		Dur("startup", time.Since(startupStart)).
		Msg("App initialized")

	return a, nil
}

// Close releases all resources held by the App.
// Shutdown order: cancel scheduler, cancel warm scan, close the cache store.
func (a *App) Close() {
	if a.schedulerCancel != nil {
		a.schedulerCancel()
		a.schedulerCancel = nil
	}
	if a.warmScanCancel != nil {
		a.warmScanCancel()
		a.warmScanCancel = nil
	}
	if a.Cache != nil {
		a.Cache.Close()
		a.Cache = nil
	}
}

// StartRefreshScheduler launches the background financials refresh goroutine.
func (a *App) StartRefreshScheduler() {
	schedulerCtx, schedulerCancel := context.WithCancel(context.Background())
	a.schedulerCancel = schedulerCancel
	go startRefreshScheduler(schedulerCtx, a.FinancialService, a.Logger, a.Config.Financials.GetRefreshInterval())
}

// StartWarmScan launches the background sector warm scan goroutine.
func (a *App) StartWarmScan() {
	if !a.Config.Scan.Enabled {
		a.Logger.Info().Msg("Warm scan: disabled via config")
		return
	}
	scanCtx, scanCancel := context.WithCancel(context.Background())
	a.warmScanCancel = scanCancel
	go func() {
		defer scanCancel()
		warmSectorScan(scanCtx, a.SectorService, a.Cache.Sectors(), a.Config.Scan.RateLimit, a.Logger)
	}()
}
