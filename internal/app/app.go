package app

import (
	"context"
	"fmt"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/sermo/internal/common"
	"github.com/ternarybob/sermo/internal/handlers"
	"github.com/ternarybob/sermo/internal/interfaces"
	"github.com/ternarybob/sermo/internal/services/answer"
	"github.com/ternarybob/sermo/internal/services/chat"
	"github.com/ternarybob/sermo/internal/services/documents"
	"github.com/ternarybob/sermo/internal/services/embeddings"
	"github.com/ternarybob/sermo/internal/services/extract"
	"github.com/ternarybob/sermo/internal/services/llm"
	"github.com/ternarybob/sermo/internal/services/retrieval"
	"github.com/ternarybob/sermo/internal/services/scraper"
	"github.com/ternarybob/sermo/internal/services/sessions"
	"github.com/ternarybob/sermo/internal/storage/badger"
)

// App holds all application components and dependencies
type App struct {
	Config         *common.Config
	Logger         arbor.ILogger
	StorageManager interfaces.StorageManager

	// Corpus services
	ExtractService *extract.Service
	DocumentStore  interfaces.DocumentStore
	ScraperService interfaces.ScraperService

	// LLM and retrieval services
	LLMService       interfaces.LLMService
	EmbeddingService interfaces.EmbeddingService
	IndexBuilder     interfaces.IndexBuilder
	AnswerEngine     interfaces.AnswerEngine

	// Conversation services
	ChatService    interfaces.ConversationService
	SessionService interfaces.SessionService

	// HTTP handlers
	ChatHandler     *handlers.ChatHandler
	SessionHandler  *handlers.SessionHandler
	DocumentHandler *handlers.DocumentHandler
	HealthHandler   *handlers.HealthHandler
}

// New initializes the application with all dependencies
func New(cfg *common.Config, logger arbor.ILogger) (*App, error) {
	if logger == nil {
		logger = common.GetLogger()
	}

	app := &App{
		Config: cfg,
		Logger: logger,
	}

	// Initialize database
	if err := app.initDatabase(); err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	// Initialize services
	if err := app.initServices(); err != nil {
		return nil, fmt.Errorf("failed to initialize services: %w", err)
	}

	// Initialize handlers
	app.initHandlers()

	logger.Info().
		Str("llm_provider", string(cfg.LLM.DefaultProvider)).
		Msg("Application initialization complete")

	return app, nil
}

// initDatabase initializes the storage layer (Badger)
func (a *App) initDatabase() error {
	storageManager, err := badger.NewManager(a.Logger, &a.Config.Storage.Badger)
	if err != nil {
		return fmt.Errorf("failed to create storage manager: %w", err)
	}

	a.StorageManager = storageManager
	a.Logger.Debug().
		Str("storage", "badger").
		Str("path", a.Config.Storage.Badger.Path).
		Msg("Storage layer initialized")

	return nil
}

// initServices initializes all business services in dependency order
func (a *App) initServices() error {
	var err error

	// Text extraction and per-session document storage
	a.ExtractService = extract.NewService(a.Logger)
	a.DocumentStore = documents.NewStore(
		a.Config.Storage.Documents.Path,
		a.Config.Storage.Documents.MaxUploadSize,
		a.StorageManager.FileMetadataStore(),
		a.ExtractService,
		a.Logger,
	)

	// Web page scraper feeding the document store
	a.ScraperService = scraper.NewService(&a.Config.Scraper, a.DocumentStore, a.Logger)

	// LLM provider (Gemini, or Claude with Gemini embeddings)
	a.LLMService, err = llm.NewLLMService(a.Config, a.Logger)
	if err != nil {
		return fmt.Errorf("failed to initialize LLM service: %w", err)
	}
	if err := a.LLMService.HealthCheck(context.Background()); err != nil {
		// Startup proceeds; chat requests will surface provider errors
		a.Logger.Warn().Err(err).Msg("LLM health check failed at startup")
	}

	// Retrieval pipeline: embeddings, chunker, per-request index builder
	a.EmbeddingService = embeddings.NewService(a.LLMService, a.Config.Gemini.EmbedDim, a.Logger)
	chunker := retrieval.NewChunker(a.Config.Retrieval.ChunkSize, a.Config.Retrieval.ChunkOverlap)
	a.IndexBuilder = retrieval.NewBuilder(a.DocumentStore, a.EmbeddingService, chunker, a.Logger)

	// Answer engine with the configured per-request timeout
	a.AnswerEngine = answer.NewEngine(a.LLMService, a.Config.AnswerTimeoutDuration(), a.Logger)

	// Conversation and session services
	a.ChatService = chat.NewService(
		a.DocumentStore,
		a.IndexBuilder,
		a.AnswerEngine,
		a.StorageManager.MemoryStore(),
		a.Config.Retrieval.TopK,
		a.Logger,
	)
	a.SessionService = sessions.NewService(a.StorageManager.MemoryStore(), a.DocumentStore, a.Logger)

	return nil
}

// initHandlers initializes all HTTP handlers
func (a *App) initHandlers() {
	a.ChatHandler = handlers.NewChatHandler(a.ChatService, a.Logger)
	a.SessionHandler = handlers.NewSessionHandler(a.SessionService, a.Logger)
	a.DocumentHandler = handlers.NewDocumentHandler(a.DocumentStore, a.ScraperService, a.Logger)
	a.HealthHandler = handlers.NewHealthHandler(a.LLMService, a.Logger)
}

// Close shuts down application components in reverse dependency order
func (a *App) Close() error {
	var firstErr error

	if a.LLMService != nil {
		if err := a.LLMService.Close(); err != nil {
			a.Logger.Warn().Err(err).Msg("Failed to close LLM service")
			if firstErr == nil {
				firstErr = err
			}
		}
	}

	if a.StorageManager != nil {
		if err := a.StorageManager.Close(); err != nil {
			a.Logger.Warn().Err(err).Msg("Failed to close storage manager")
			if firstErr == nil {
				firstErr = err
			}
		}
	}

	a.Logger.Info().Msg("Application shutdown complete")
	return firstErr
}
