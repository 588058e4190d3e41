package api

import (
	"github.com/gofiber/adaptor/v2"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/omniverolabs/omnivero/api/mcp"
	"github.com/omniverolabs/omnivero/pkg/archive"
	"github.com/omniverolabs/omnivero/pkg/engram"
	"github.com/omniverolabs/omnivero/pkg/extract"
)

// Server is the API server for managing and querying the omnivero system.
type Server struct {
	config   Config
	archive  archive.Driver
	engrams  engram.Store
	pipeline *extract.Pipeline
	logger   *zap.Logger
	app      *fiber.App
}

// NewServer creates a new API server. The archive driver and engram store
// are injected to allow sharing with other components (e.g., the CLI when
// both run against the same dot-directory).
func NewServer(config Config, archiver archive.Driver, engrams engram.Store, logger *zap.Logger) (*Server, error) {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
	})

	pipeline := extract.NewPipeline(config.Extractor, engrams, archiver, logger)
	if config.VectorDriver != nil && config.Embedder != nil {
		pipeline = pipeline.WithIndexer(
			extract.NewIndexer(config.Embedder, config.VectorDriver, logger),
		)
	}

	s := &Server{
		config:   config,
		archive:  archiver,
		engrams:  engrams,
		pipeline: pipeline,
		logger:   logger,
		app:      app,
	}

	app.Get("/ping", s.handlePing)

	app.Post("/instruments", s.handleAnalyze)
	app.Get("/instruments", s.handleQueryInstruments)
	app.Get("/instruments/:id", s.handleGetInstrument)
	app.Delete("/instruments", s.handleClearArchive)
	app.Get("/archive/stats", s.handleArchiveStats)

	app.Get("/memory", s.handleListMemory)
	app.Post("/memory", s.handleCommitMemory)
	app.Delete("/memory/:id", s.handleRemoveMemory)
	app.Delete("/memory", s.handlePurgeMemory)

	app.Post("/trusts/draft", s.handleDraftTrust)

	app.Get("/search", s.handleSearchEndpoint)

	mcpServer, err := mcp.NewServer(mcp.Config{
		Archive:      archiver,
		Engrams:      engrams,
		VectorDriver: config.VectorDriver,
		Embedder:     config.Embedder,
		Noop:         config.VectorDriver == nil || config.Embedder == nil,
		Logger:       logger,
	})
	if err != nil {
		return nil, err
	}
	if mcpServer.Handler() != nil {
		app.All("/mcp", adaptor.HTTPHandler(mcpServer.Handler()))
	}

	return s, nil
}

// Run starts the API server on the configured address.
func (s *Server) Run() error {
	s.logger.Info("starting API server",
		zap.String("listen", s.config.ListenAddr),
	)
	return s.app.Listen(s.config.ListenAddr)
}

// Shutdown gracefully shuts down the API server.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}
