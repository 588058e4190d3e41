package config

const (
	defaultStorageDriver = "sqlite"
	defaultAPIListen     = ":8080"

	defaultEngineProvider = "gemini"
	defaultEngineModel    = "gemini-2.5-flash"

	defaultDraftingProvider = "gemini"
	defaultDraftingModel    = "gemini-3-pro-preview"

	defaultVectorProvider = "sqlite"

	defaultEmbeddingProvider   = "ollama"
	defaultEmbeddingTarget     = "http://localhost:11434"
	defaultEmbeddingModel      = "embeddinggemma"
	defaultEmbeddingDimensions = 768

	defaultMemoryProvider = "sqlite"
)

// NewDefaultConfig returns a Config with sane defaults for all fields.
// This is the single source of truth for default values.
func NewDefaultConfig() *Config {
	return &Config{
		Version: CurrentV,
		Storage: StorageConfig{
			Driver: defaultStorageDriver,
		},
		API: APIConfig{
			Listen: defaultAPIListen,
		},
		Engine: EngineConfig{
			Provider: defaultEngineProvider,
			Model:    defaultEngineModel,
		},
		Drafting: DraftingConfig{
			Provider: defaultDraftingProvider,
			Model:    defaultDraftingModel,
		},
		VectorStore: VectorStoreConfig{
			Provider: defaultVectorProvider,
		},
		Embedding: EmbeddingConfig{
			Provider:   defaultEmbeddingProvider,
			Target:     defaultEmbeddingTarget,
			Model:      defaultEmbeddingModel,
			Dimensions: defaultEmbeddingDimensions,
		},
		Memory: MemoryConfig{
			Provider: defaultMemoryProvider,
			Enabled:  true,
		},
	}
}
