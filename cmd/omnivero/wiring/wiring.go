// Package wiring constructs the shared runtime components CLI commands
// need from the persistent configuration: archive drivers, engram stores,
// engines, and the semantic search stack.
package wiring

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/omniverolabs/omnivero/cmd/omnivero/dbpath"
	"github.com/omniverolabs/omnivero/pkg/archive"
	archiveinmemory "github.com/omniverolabs/omnivero/pkg/archive/inmemory"
	archivepostgres "github.com/omniverolabs/omnivero/pkg/archive/postgres"
	archivesqlite "github.com/omniverolabs/omnivero/pkg/archive/sqlite"
	"github.com/omniverolabs/omnivero/pkg/config"
	"github.com/omniverolabs/omnivero/pkg/dotdir"
	"github.com/omniverolabs/omnivero/pkg/embeddings"
	embeddingutils "github.com/omniverolabs/omnivero/pkg/embeddings/utils"
	"github.com/omniverolabs/omnivero/pkg/engram"
	engraminmemory "github.com/omniverolabs/omnivero/pkg/engram/inmemory"
	engramsqlite "github.com/omniverolabs/omnivero/pkg/engram/sqlite"
	"github.com/omniverolabs/omnivero/pkg/extract"
	"github.com/omniverolabs/omnivero/pkg/llm"
	"github.com/omniverolabs/omnivero/pkg/trust"
	"github.com/omniverolabs/omnivero/pkg/vector"
	vectorutils "github.com/omniverolabs/omnivero/pkg/vector/utils"
)

// LoadConfig resolves the effective configuration for a command run.
func LoadConfig(configDir string) (*config.Config, error) {
	cfger, err := config.NewConfiger(configDir)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return cfger.LoadConfig()
}

// ResolveSQLitePath returns the archive database path: the explicit
// override, the configured path, an existing database, or a fresh
// omnivero.db in the dot-directory.
func ResolveSQLitePath(cfg *config.Config, override, configDir string) (string, error) {
	if override != "" {
		return override, nil
	}
	if cfg.Storage.SQLitePath != "" {
		return cfg.Storage.SQLitePath, nil
	}

	if path, err := dbpath.ResolveSQLitePath(""); err == nil {
		return path, nil
	}

	dir, err := dotdir.NewManager().Target(configDir)
	if err != nil {
		return "", fmt.Errorf("resolving dot directory: %w", err)
	}
	return dbpath.DefaultSQLitePath(dir), nil
}

// NewArchiveDriver constructs the configured archive driver.
func NewArchiveDriver(ctx context.Context, cfg *config.Config, sqliteOverride, configDir string) (archive.Driver, error) {
	switch cfg.Storage.Driver {
	case "sqlite", "":
		path, err := ResolveSQLitePath(cfg, sqliteOverride, configDir)
		if err != nil {
			return nil, err
		}
		return archivesqlite.NewDriver(path)
	case "postgres":
		if cfg.Storage.PostgresTarget == "" {
			return nil, fmt.Errorf("storage.postgres_target is required for the postgres driver")
		}
		return archivepostgres.NewDriver(ctx, cfg.Storage.PostgresTarget)
	case "inmemory":
		return archiveinmemory.NewDriver(), nil
	default:
		return nil, fmt.Errorf("unsupported storage driver: %s", cfg.Storage.Driver)
	}
}

// NewEngramStore constructs the configured memory store, or nil when the
// memory layer is disabled.
func NewEngramStore(cfg *config.Config, sqliteOverride, configDir string) (engram.Store, error) {
	if !cfg.Memory.Enabled {
		return nil, nil
	}

	switch cfg.Memory.Provider {
	case "sqlite", "":
		path, err := ResolveSQLitePath(cfg, sqliteOverride, configDir)
		if err != nil {
			return nil, err
		}
		return engramsqlite.NewStore(path)
	case "inmemory":
		return engraminmemory.NewStore(), nil
	default:
		return nil, fmt.Errorf("unsupported memory provider: %s", cfg.Memory.Provider)
	}
}

// NewExtractor constructs the analysis engine. With stub set, a canned
// extractor runs instead of a live engine call.
func NewExtractor(cfg *config.Config, stub bool) (extract.Extractor, error) {
	if stub {
		return extract.StubExtractor{}, nil
	}

	call, err := llm.NewCaller(llm.CallerConfig{
		Provider: cfg.Engine.Provider,
		Model:    cfg.Engine.Model,
		BaseURL:  cfg.Engine.BaseURL,
	})
	if err != nil {
		return nil, fmt.Errorf("creating engine caller: %w", err)
	}

	return extract.NewLLMExtractor(call), nil
}

// NewDrafter constructs the trust drafting engine. With stub set, a canned
// drafter runs instead of a live engine call.
func NewDrafter(cfg *config.Config, stub bool) (trust.Drafter, error) {
	if stub {
		return trust.StubDrafter{}, nil
	}

	call, err := llm.NewCaller(llm.CallerConfig{
		Provider: cfg.Drafting.Provider,
		Model:    cfg.Drafting.Model,
		BaseURL:  cfg.Drafting.BaseURL,
	})
	if err != nil {
		return nil, fmt.Errorf("creating drafting caller: %w", err)
	}

	return trust.NewLLMDrafter(call), nil
}

// NewSearchStack constructs the vector driver and embedder for semantic
// search. An unset vector store target falls back to the dot directory's
// default database path.
func NewSearchStack(cfg *config.Config, configDir string, logger *zap.Logger) (vector.Driver, embeddings.Embedder, error) {
	target := cfg.VectorStore.Target
	if target == "" {
		dir, err := dotdir.NewManager().Target(configDir)
		if err != nil {
			return nil, nil, fmt.Errorf("resolving dot directory: %w", err)
		}
		target = dbpath.DefaultVectorPath(dir)
	}

	driver, err := vectorutils.NewVectorDriver(&vectorutils.NewVectorDriverOpts{
		ProviderType: cfg.VectorStore.Provider,
		Target:       target,
		Dimensions:   cfg.Embedding.Dimensions,
		Logger:       logger,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("creating vector driver: %w", err)
	}

	embedder, err := embeddingutils.NewEmbedder(&embeddingutils.NewEmbedderOpts{
		ProviderType: cfg.Embedding.Provider,
		TargetURL:    cfg.Embedding.Target,
		Model:        cfg.Embedding.Model,
	})
	if err != nil {
		driver.Close()
		return nil, nil, fmt.Errorf("creating embedder: %w", err)
	}

	return driver, embedder, nil
}
