// Package app wires the signal-center components together.
package app

import (
	"github.com/fundedlabs/signal-center/internal/actions"
	"github.com/fundedlabs/signal-center/internal/bus"
	"github.com/fundedlabs/signal-center/internal/common"
	"github.com/fundedlabs/signal-center/internal/config"
	"github.com/fundedlabs/signal-center/internal/engine"
	"github.com/fundedlabs/signal-center/internal/handlers"
	"github.com/fundedlabs/signal-center/internal/interfaces"
	"github.com/fundedlabs/signal-center/internal/journal"
	"github.com/fundedlabs/signal-center/internal/ledger"
	"github.com/fundedlabs/signal-center/internal/mcp"
	"github.com/fundedlabs/signal-center/internal/source"
	"github.com/fundedlabs/signal-center/internal/storage"
)

// App holds all application components and dependencies.
type App struct {
	Config *config.Config
	Logger *common.Logger

	Storage interfaces.StorageManager
	Bus     *bus.Bus
	Ledger  *ledger.Ledger
	Store   *source.MessageStore
	Feed    *source.Feed
	Engine  *engine.Engine
	Journal *journal.Client
	Actions *actions.Handlers

	// HTTP handlers
	HealthHandler  *handlers.HealthHandler
	VersionHandler *handlers.VersionHandler
	SignalsHandler *handlers.SignalsHandler
	LedgerHandler  *handlers.LedgerHandler
	MCPHandler     *mcp.Handler
}

// New initializes the application with all dependencies.
func New(cfg *config.Config, logger *common.Logger) (*App, error) {
	a := &App{
		Config: cfg,
		Logger: logger,
		Bus:    bus.New(),
	}

	storageManager, err := storage.NewStorageManager(logger, &cfg.Storage)
	if err != nil {
		return nil, err
	}
	a.Storage = storageManager

	kv := storageManager.KeyValueStorage()
	a.Ledger = ledger.New(kv, a.Bus, logger)

	// The local message store backs both the local feed strategy and the
	// admin injection endpoint; other strategies have no authoring surface.
	if cfg.Source.Strategy == config.StrategyLocal {
		a.Store = source.NewMessageStore(kv, a.Bus)
	}

	a.Feed = source.New(cfg.Source, logger,
		source.WithLocalStore(a.Store),
		source.WithBus(a.Bus),
	)
	a.Engine = engine.New(a.Feed, a.Ledger, a.Bus, logger, cfg.Source.ResyncSeconds)

	a.Journal = journal.NewClient(cfg.Journal.URL)
	a.Actions = actions.New(a.Engine, a.Ledger, a.Journal, actions.NewMemoryClipboard(), logger, cfg.Journal.PropFirm)

	a.initHandlers()

	logger.Info().
		Str("strategy", cfg.Source.Strategy).
		Msg("application initialization complete")

	return a, nil
}

// initHandlers initializes all HTTP handlers.
func (a *App) initHandlers() {
	a.HealthHandler = handlers.NewHealthHandler(a.Logger, a.Config.Source.Strategy)
	a.VersionHandler = handlers.NewVersionHandler(a.Logger)
	a.SignalsHandler = handlers.NewSignalsHandler(a.Logger, a.Engine, a.Actions, a.Store)
	a.LedgerHandler = handlers.NewLedgerHandler(a.Logger, a.Ledger)
	a.MCPHandler = mcp.NewHandler(a.Logger, a.Engine, a.Ledger, a.Actions)

	a.Logger.Debug().Msg("HTTP handlers initialized")
}

// Close closes all application resources.
func (a *App) Close() error {
	if a.Storage != nil {
		return a.Storage.Close()
	}
	return nil
}
