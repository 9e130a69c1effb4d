package app

import (
	"fmt"

	"github.com/lecternlabs/lectern/internal/common"
	"github.com/lecternlabs/lectern/internal/handlers"
	"github.com/lecternlabs/lectern/internal/interfaces"
	"github.com/lecternlabs/lectern/internal/services/generation"
	"github.com/lecternlabs/lectern/internal/services/rag"
	"github.com/lecternlabs/lectern/internal/services/session"
	"github.com/lecternlabs/lectern/internal/services/tools"
	"github.com/lecternlabs/lectern/internal/storage/badger"
	"github.com/ternarybob/arbor"
)

// App holds all application components and dependencies
type App struct {
	Config *common.Config
	Logger arbor.ILogger

	// Storage
	DB          *badger.BadgerDB
	CourseStore *badger.CourseStore

	// Services
	SessionService *session.Service
	ToolRegistry   *tools.Registry
	Generator      *generation.Generator
	RAGService     interfaces.RAGService

	// HTTP handlers
	APIHandler    *handlers.APIHandler
	QueryHandler  *handlers.QueryHandler
	CourseHandler *handlers.CourseHandler
}

// New initializes the application with all dependencies
func New(cfg *common.Config, logger arbor.ILogger) (*App, error) {
	app := &App{
		Config: cfg,
		Logger: logger,
	}

	if err := app.initDatabase(); err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	if err := app.initServices(); err != nil {
		return nil, fmt.Errorf("failed to initialize services: %w", err)
	}

	app.initHandlers()

	logger.Info().
		Str("model", cfg.Claude.Model).
		Int("max_results", cfg.Search.MaxResults).
		Msg("Application initialization complete")

	return app, nil
}

// initDatabase initializes the storage layer (Badger)
func (a *App) initDatabase() error {
	db, err := badger.NewBadgerDB(a.Logger, &a.Config.Storage.Badger)
	if err != nil {
		return fmt.Errorf("failed to open badger store: %w", err)
	}

	a.DB = db
	a.Logger.Debug().
		Str("storage", "badger").
		Str("path", a.Config.Storage.Badger.Path).
		Msg("Storage layer initialized")

	return nil
}

// initServices initializes all business services in dependency order
func (a *App) initServices() error {
	// Course content store backs both retrieval tools and catalog analytics
	a.CourseStore = badger.NewCourseStore(a.DB, a.Config.Search.MaxResults, a.Logger)

	// Session service with scheduled pruning of expired sessions
	sessionStorage := badger.NewSessionStorage(a.DB, a.Logger)
	sessionService, err := session.NewService(&a.Config.Sessions, sessionStorage, a.Logger)
	if err != nil {
		return fmt.Errorf("failed to initialize session service: %w", err)
	}
	a.SessionService = sessionService
	a.Logger.Debug().Msg("Session service initialized")

	// Retrieval tools the model can call during generation
	a.ToolRegistry = tools.NewRegistry(a.Logger)
	a.ToolRegistry.Register(tools.NewContentSearchTool(a.CourseStore, a.Logger))
	a.ToolRegistry.Register(tools.NewOutlineTool(a.CourseStore, a.Logger))
	a.Logger.Debug().Int("tools", len(a.ToolRegistry.Definitions())).Msg("Tool registry initialized")

	// Answer generator (Anthropic messages client)
	generator, err := generation.NewGenerator(&a.Config.Claude, a.Logger)
	if err != nil {
		return fmt.Errorf("failed to initialize generator: %w", err)
	}
	a.Generator = generator
	a.Logger.Debug().Str("model", a.Config.Claude.Model).Msg("Generator initialized")

	ragService, err := rag.NewService(a.CourseStore, a.SessionService, a.Generator, a.ToolRegistry, a.Logger)
	if err != nil {
		return fmt.Errorf("failed to initialize rag service: %w", err)
	}
	a.RAGService = ragService
	a.Logger.Debug().Msg("RAG service initialized")

	return nil
}

// initHandlers initializes all HTTP handlers
func (a *App) initHandlers() {
	a.APIHandler = handlers.NewAPIHandler()
	a.QueryHandler = handlers.NewQueryHandler(a.RAGService, a.SessionService, a.Logger)
	a.CourseHandler = handlers.NewCourseHandler(a.RAGService, a.Logger)
}

// Close closes all application resources
func (a *App) Close() error {
	if a.SessionService != nil {
		a.SessionService.Stop()
		a.Logger.Info().Msg("Session service stopped")
	}

	if a.DB != nil {
		if err := a.DB.Close(); err != nil {
			return fmt.Errorf("failed to close storage: %w", err)
		}
		a.Logger.Info().Msg("Storage closed")
	}

	return nil
}
