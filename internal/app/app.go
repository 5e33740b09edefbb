// Package app wires configuration, storage, and services into a runnable core
package app

import (
	"fmt"
	"time"

	"github.com/foliotrack/folio/internal/common"
	"github.com/foliotrack/folio/internal/interfaces"
	"github.com/foliotrack/folio/internal/services/ledger"
	"github.com/foliotrack/folio/internal/services/portfolio"
	"github.com/foliotrack/folio/internal/services/report"
	"github.com/foliotrack/folio/internal/storage"
)

// App holds all initialized services and storage. It is the shared core used
// by cmd/folio-server.
type App struct {
	Config           *common.Config
	Logger           *common.Logger
	Storage          interfaces.StorageManager
	LedgerService    interfaces.LedgerService
	PortfolioService interfaces.PortfolioService
	ReportService    interfaces.ReportService
	StartupTime      time.Time
}

// NewApp initializes configuration, logging, storage, and services.
func NewApp(configPath string) (*App, error) {
	config, err := common.LoadConfig(configPath, "folio.toml")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger := common.NewLogger(config.Logging.Level)

	storageManager, err := storage.NewManager(logger, config)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	portfolioService := portfolio.NewService(storageManager, logger)

	return &App{
		Config:           config,
		Logger:           logger,
		Storage:          storageManager,
		LedgerService:    ledger.NewService(storageManager, logger, config.BaseCurrency),
		PortfolioService: portfolioService,
		ReportService:    report.NewService(portfolioService, logger),
		StartupTime:      time.Now(),
	}, nil
}

// Close releases all resources.
func (a *App) Close() {
	if err := a.Storage.Close(); err != nil {
		a.Logger.Error().Err(err).Msg("Failed to close storage")
	}
}
