// Package app wires configuration, storage, clients, and services into a
// single application core shared by the server binary and tests.
package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/bobmcallan/arkrank/internal/clients/gemini"
	"github.com/bobmcallan/arkrank/internal/common"
	"github.com/bobmcallan/arkrank/internal/interfaces"
	"github.com/bobmcallan/arkrank/internal/rank"
	"github.com/bobmcallan/arkrank/internal/services/portfolio"
	"github.com/bobmcallan/arkrank/internal/services/recommend"
	"github.com/bobmcallan/arkrank/internal/storage/ledgerdb"
	"github.com/bobmcallan/arkrank/internal/storage/snapshotfs"
)

// App holds all initialized services, clients, and storage.
type App struct {
	Config           *common.Config
	Logger           *common.Logger
	SnapshotStore    *snapshotfs.Store
	LedgerStore      interfaces.LedgerStore
	GeminiClient     interfaces.ModelClient
	RecommendService interfaces.RecommendService
	PortfolioService interfaces.PortfolioService
	StartupTime      time.Time

	scheduler *scheduler
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
// configPath may be empty, in which case ARKRANK_CONFIG and the binary
// directory are checked in turn.
func NewApp(configPath string) (*App, error) {
	startup := time.Now()

	binDir := getBinaryDir()

	if configPath == "" {
		configPath = os.Getenv("ARKRANK_CONFIG")
	}
	if configPath == "" {
		configPath = filepath.Join(binDir, "arkrank.toml")
		if _, err := os.Stat(configPath); os.IsNotExist(err) {
			configPath = "config/arkrank.toml"
		}
	}

	config, err := common.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	// Resolve relative storage paths to the binary directory.
	if config.Storage.Snapshots.Path != "" && !filepath.IsAbs(config.Storage.Snapshots.Path) {
		config.Storage.Snapshots.Path = filepath.Join(binDir, config.Storage.Snapshots.Path)
	}
	if config.Storage.Ledger.Path != "" && !filepath.IsAbs(config.Storage.Ledger.Path) {
		config.Storage.Ledger.Path = filepath.Join(binDir, config.Storage.Ledger.Path)
	}

	logger := common.NewLogger(config.Logging.Level)

	snapshotStore, err := snapshotfs.NewStore(logger, config.Storage.Snapshots.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize snapshot store: %w", err)
	}

	ledgerStore, err := ledgerdb.NewStore(logger, config.Storage.Ledger.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize ledger store: %w", err)
	}

	geminiKey := config.ResolveAPIKey()
	if geminiKey == "" && !config.Clients.Gemini.Disabled {
		logger.Warn().Msg("Gemini API key not configured - model text generation disabled")
	}
	geminiClient, err := gemini.NewClient(context.Background(), geminiKey,
		gemini.WithModel(config.Clients.Gemini.Model),
		gemini.WithRateLimit(config.Clients.Gemini.RateLimit),
		gemini.WithDisabled(config.Clients.Gemini.Disabled),
		gemini.WithLogger(logger),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize gemini client: %w", err)
	}

	rankConfig := engineConfig(config)

	recommendService := recommend.NewService(snapshotStore, snapshotStore, geminiClient, rankConfig, config.Benchmark, logger)
	portfolioService := portfolio.NewService(ledgerStore, logger)

	a := &App{
		Config:           config,
		Logger:           logger,
		SnapshotStore:    snapshotStore,
		LedgerStore:      ledgerStore,
		GeminiClient:     geminiClient,
		RecommendService: recommendService,
		PortfolioService: portfolioService,
		StartupTime:      startup,
	}

	if config.Scheduler.Enabled {
		sched, err := newScheduler(config.Scheduler.Cron, recommendService, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to start scheduler: %w", err)
		}
		a.scheduler = sched
	}

	logger.Info().
		Str("version", common.GetVersion()).
		Str("environment", config.Environment).
		Dur("startup", time.Since(startup)).
		Msg("Application initialized")

	return a, nil
}

// engineConfig overlays the exposed config tunables on the engine defaults.
func engineConfig(config *common.Config) rank.Config {
	rc := rank.DefaultConfig()
	if config.Engine.MaxPicks > 0 {
		rc.MaxPicks = config.Engine.MaxPicks
	}
	if config.Engine.MaxPortfolio > 0 {
		rc.MaxRows = config.Engine.MaxPortfolio
	}
	if config.Engine.PickThreshold > 0 {
		rc.PickThreshold = config.Engine.PickThreshold
	}
	return rc
}

// Close releases storage and background workers.
func (a *App) Close() error {
	if a.scheduler != nil {
		a.scheduler.stop()
	}
	if a.LedgerStore != nil {
		if err := a.LedgerStore.Close(); err != nil {
			a.Logger.Warn().Err(err).Msg("Ledger store close failed")
		}
	}
	a.Logger.Info().Msg("Application closed")
	return nil
}
