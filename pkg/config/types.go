package config

import (
	"fmt"
	"strconv"
)

// Config represents the persistent omnivero configuration stored as
// config.toml in the .omnivero/ directory. The TOML layout uses sections
// for logical grouping.
type Config struct {
	Version     int               `toml:"version"`
	Storage     StorageConfig     `toml:"storage"`
	API         APIConfig         `toml:"api"`
	Engine      EngineConfig      `toml:"engine"`
	Drafting    DraftingConfig    `toml:"drafting"`
	VectorStore VectorStoreConfig `toml:"vector_store"`
	Embedding   EmbeddingConfig   `toml:"embedding"`
	Memory      MemoryConfig      `toml:"memory"`
}

// StorageConfig holds archive storage settings.
type StorageConfig struct {
	Driver         string `toml:"driver,omitempty"`
	SQLitePath     string `toml:"sqlite_path,omitempty"`
	PostgresTarget string `toml:"postgres_target,omitempty"`
}

// APIConfig holds API server settings.
type APIConfig struct {
	Listen string `toml:"listen,omitempty"`
}

// EngineConfig holds the extraction engine settings. API keys are never
// stored here; they come from the environment.
type EngineConfig struct {
	Provider string `toml:"provider,omitempty"`
	Model    string `toml:"model,omitempty"`
	BaseURL  string `toml:"base_url,omitempty"`
}

// DraftingConfig holds the trust drafting engine settings.
type DraftingConfig struct {
	Provider string `toml:"provider,omitempty"`
	Model    string `toml:"model,omitempty"`
	BaseURL  string `toml:"base_url,omitempty"`
}

// VectorStoreConfig holds vector store settings.
type VectorStoreConfig struct {
	Provider string `toml:"provider,omitempty"`
	Target   string `toml:"target,omitempty"`
}

// EmbeddingConfig holds embedding provider settings.
type EmbeddingConfig struct {
	Provider   string `toml:"provider,omitempty"`
	Target     string `toml:"target,omitempty"`
	Model      string `toml:"model,omitempty"`
	Dimensions uint   `toml:"dimensions,omitempty"`
}

// MemoryConfig holds engram memory settings.
type MemoryConfig struct {
	Provider string `toml:"provider,omitempty"`
	Enabled  bool   `toml:"enabled,omitempty"`
}

// configKeyInfo maps a user-facing dotted key name to a getter and setter on *Config.
type configKeyInfo struct {
	get func(c *Config) string
	set func(c *Config, v string) error
}

// configKeys is the authoritative map of all supported config keys.
// Keys use dotted notation matching the TOML section structure.
var configKeys = map[string]configKeyInfo{
	"storage.driver": {
		get: func(c *Config) string { return c.Storage.Driver },
		set: func(c *Config, v string) error { c.Storage.Driver = v; return nil },
	},
	"storage.sqlite_path": {
		get: func(c *Config) string { return c.Storage.SQLitePath },
		set: func(c *Config, v string) error { c.Storage.SQLitePath = v; return nil },
	},
	"storage.postgres_target": {
		get: func(c *Config) string { return c.Storage.PostgresTarget },
		set: func(c *Config, v string) error { c.Storage.PostgresTarget = v; return nil },
	},
	"api.listen": {
		get: func(c *Config) string { return c.API.Listen },
		set: func(c *Config, v string) error { c.API.Listen = v; return nil },
	},
	"engine.provider": {
		get: func(c *Config) string { return c.Engine.Provider },
		set: func(c *Config, v string) error { c.Engine.Provider = v; return nil },
	},
	"engine.model": {
		get: func(c *Config) string { return c.Engine.Model },
		set: func(c *Config, v string) error { c.Engine.Model = v; return nil },
	},
	"engine.base_url": {
		get: func(c *Config) string { return c.Engine.BaseURL },
		set: func(c *Config, v string) error { c.Engine.BaseURL = v; return nil },
	},
	"drafting.provider": {
		get: func(c *Config) string { return c.Drafting.Provider },
		set: func(c *Config, v string) error { c.Drafting.Provider = v; return nil },
	},
	"drafting.model": {
		get: func(c *Config) string { return c.Drafting.Model },
		set: func(c *Config, v string) error { c.Drafting.Model = v; return nil },
	},
	"drafting.base_url": {
		get: func(c *Config) string { return c.Drafting.BaseURL },
		set: func(c *Config, v string) error { c.Drafting.BaseURL = v; return nil },
	},
	"vector_store.provider": {
		get: func(c *Config) string { return c.VectorStore.Provider },
		set: func(c *Config, v string) error { c.VectorStore.Provider = v; return nil },
	},
	"vector_store.target": {
		get: func(c *Config) string { return c.VectorStore.Target },
		set: func(c *Config, v string) error { c.VectorStore.Target = v; return nil },
	},
	"embedding.provider": {
		get: func(c *Config) string { return c.Embedding.Provider },
		set: func(c *Config, v string) error { c.Embedding.Provider = v; return nil },
	},
	"embedding.target": {
		get: func(c *Config) string { return c.Embedding.Target },
		set: func(c *Config, v string) error { c.Embedding.Target = v; return nil },
	},
	"embedding.model": {
		get: func(c *Config) string { return c.Embedding.Model },
		set: func(c *Config, v string) error { c.Embedding.Model = v; return nil },
	},
	"embedding.dimensions": {
		get: func(c *Config) string {
			if c.Embedding.Dimensions == 0 {
				return ""
			}
			return strconv.FormatUint(uint64(c.Embedding.Dimensions), 10)
		},
		set: func(c *Config, v string) error {
			n, err := strconv.ParseUint(v, 10, 64)
			if err != nil {
				return fmt.Errorf("invalid value for embedding.dimensions: %w", err)
			}
			c.Embedding.Dimensions = uint(n)
			return nil
		},
	},
	"memory.provider": {
		get: func(c *Config) string { return c.Memory.Provider },
		set: func(c *Config, v string) error { c.Memory.Provider = v; return nil },
	},
	"memory.enabled": {
		get: func(c *Config) string { return strconv.FormatBool(c.Memory.Enabled) },
		set: func(c *Config, v string) error {
			b, err := strconv.ParseBool(v)
			if err != nil {
				return fmt.Errorf("invalid value for memory.enabled: %w", err)
			}
			c.Memory.Enabled = b
			return nil
		},
	},
}
