package domain

const unknownDescription = "Unknown"

// Retrieval and ingestion defaults.
const (
	// DefaultChunkSize is the chunk window length in runes.
	DefaultChunkSize = 800

	// DefaultChunkOverlap is the number of runes shared by adjacent chunks.
	DefaultChunkOverlap = 100

	// DefaultTopK is the maximum number of chunks retrieved per question.
	DefaultTopK = 5

	// DefaultThreshold is the minimum cosine similarity for a chunk to be retrieved.
	DefaultThreshold = 0.5

	// DefaultEmbeddingDimensions matches text-embedding-3-small.
	DefaultEmbeddingDimensions = 1536

	// MaxFileSize is the largest accepted upload in bytes.
	MaxFileSize = 10 * 1024 * 1024

	// MaxQuestionLength is the longest accepted question in runes.
	MaxQuestionLength = 1000

	// DefaultMaxTokens bounds the generated answer length.
	DefaultMaxTokens = 1000

	// DefaultTemperature keeps answers close to the supplied context.
	DefaultTemperature = 0.3
)

// AIProvider identifies an AI service provider for embeddings or LLM.
type AIProvider string

// Available AI providers.
const (
	// AIProviderOllama is local Ollama instance.
	AIProviderOllama AIProvider = "ollama"

	// AIProviderOpenAI is OpenAI cloud API.
	AIProviderOpenAI AIProvider = "openai"

	// AIProviderAnthropic is Anthropic cloud API. Generation only.
	AIProviderAnthropic AIProvider = "anthropic"
)

// IsValid returns true if the AI provider is recognised.
func (p AIProvider) IsValid() bool {
	switch p {
	case AIProviderOllama, AIProviderOpenAI, AIProviderAnthropic:
		return true
	default:
		return false
	}
}

// RequiresAPIKey returns true if this provider needs an API key.
func (p AIProvider) RequiresAPIKey() bool {
	return p == AIProviderOpenAI || p == AIProviderAnthropic
}

// String returns the string representation.
func (p AIProvider) String() string {
	return string(p)
}

// Description returns a human-readable description of the provider.
func (p AIProvider) Description() string {
	switch p {
	case AIProviderOllama:
		return "Ollama (local)"
	case AIProviderOpenAI:
		return "OpenAI (cloud)"
	case AIProviderAnthropic:
		return "Anthropic (cloud)"
	default:
		return unknownDescription
	}
}

// StorageDriver selects the persistence backend.
type StorageDriver string

// Available storage drivers.
const (
	// StorageSQLite is an embedded database file. The default.
	StorageSQLite StorageDriver = "sqlite"

	// StoragePostgres is a PostgreSQL server with the pgvector extension.
	StoragePostgres StorageDriver = "postgres"

	// StorageMemory keeps everything in process. Lost on exit.
	StorageMemory StorageDriver = "memory"
)

// IsValid returns true if the driver is recognised.
func (d StorageDriver) IsValid() bool {
	switch d {
	case StorageSQLite, StoragePostgres, StorageMemory:
		return true
	default:
		return false
	}
}

// RAGSettings holds chunking and retrieval tunables.
type RAGSettings struct {
	// ChunkSize is the window length in runes.
	ChunkSize int

	// ChunkOverlap is the number of runes shared by adjacent windows.
	ChunkOverlap int

	// TopK is the maximum number of chunks returned per question.
	TopK int

	// Threshold is the minimum similarity score for retrieval.
	Threshold float64
}

// Validate checks the tunables are usable together.
func (r RAGSettings) Validate() error {
	if r.ChunkSize <= 0 {
		return ValidationError("settings", "chunk size must be positive, got %d", r.ChunkSize)
	}
	if r.ChunkOverlap < 0 || r.ChunkOverlap >= r.ChunkSize {
		return ValidationError("settings", "chunk overlap must be in [0, %d), got %d", r.ChunkSize, r.ChunkOverlap)
	}
	if r.TopK <= 0 {
		return ValidationError("settings", "top-k must be positive, got %d", r.TopK)
	}
	if r.Threshold < -1 || r.Threshold > 1 {
		return ValidationError("settings", "threshold must be in [-1, 1], got %g", r.Threshold)
	}
	return nil
}

// EmbeddingSettings holds embedding provider configuration.
type EmbeddingSettings struct {
	// Provider is the embedding service provider.
	Provider AIProvider

	// Model is the embedding model name.
	Model string

	// BaseURL is the API endpoint.
	BaseURL string

	// APIKey is the API key (for OpenAI).
	APIKey string

	// Dimensions is the vector size the provider returns.
	Dimensions int
}

// IsConfigured returns true if the embedding provider is set up.
// Anthropic offers no embeddings endpoint.
func (e EmbeddingSettings) IsConfigured() bool {
	if !e.Provider.IsValid() || e.Provider == AIProviderAnthropic {
		return false
	}
	if e.Provider.RequiresAPIKey() && e.APIKey == "" {
		return false
	}
	return true
}

// LLMSettings holds LLM provider configuration.
type LLMSettings struct {
	// Provider is the LLM service provider.
	Provider AIProvider

	// Model is the LLM model name.
	Model string

	// BaseURL is the API endpoint.
	BaseURL string

	// APIKey is the API key (for OpenAI/Anthropic).
	APIKey string
}

// IsConfigured returns true if the LLM provider is set up.
func (l LLMSettings) IsConfigured() bool {
	if !l.Provider.IsValid() {
		return false
	}
	if l.Provider.RequiresAPIKey() && l.APIKey == "" {
		return false
	}
	return true
}

// StorageSettings holds persistence configuration.
type StorageSettings struct {
	// Driver selects the backend.
	Driver StorageDriver

	// Path is the sqlite database file.
	Path string

	// DatabaseURL is the PostgreSQL connection string.
	DatabaseURL string
}

// AppSettings holds all application settings.
type AppSettings struct {
	RAG       RAGSettings
	Embedding EmbeddingSettings
	LLM       LLMSettings
	Storage   StorageSettings
}

// DefaultRAGSettings returns the documented chunking and retrieval defaults.
func DefaultRAGSettings() RAGSettings {
	return RAGSettings{
		ChunkSize:    DefaultChunkSize,
		ChunkOverlap: DefaultChunkOverlap,
		TopK:         DefaultTopK,
		Threshold:    DefaultThreshold,
	}
}

// DefaultAppSettings returns settings with sensible defaults.
// API keys are left empty and must be supplied by config or environment.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		RAG: DefaultRAGSettings(),
		Embedding: EmbeddingSettings{
			Provider:   AIProviderOpenAI,
			Model:      DefaultEmbeddingModels()[AIProviderOpenAI],
			Dimensions: DefaultEmbeddingDimensions,
		},
		LLM: LLMSettings{
			Provider: AIProviderOpenAI,
			Model:    DefaultLLMModels()[AIProviderOpenAI],
		},
		Storage: StorageSettings{
			Driver: StorageSQLite,
		},
	}
}

// AllEmbeddingProviders returns providers that support embeddings.
func AllEmbeddingProviders() []AIProvider {
	return []AIProvider{
		AIProviderOllama,
		AIProviderOpenAI,
	}
}

// AllLLMProviders returns providers that support answer generation.
func AllLLMProviders() []AIProvider {
	return []AIProvider{
		AIProviderOllama,
		AIProviderOpenAI,
		AIProviderAnthropic,
	}
}

// DefaultEmbeddingModels returns default models for each embedding provider.
func DefaultEmbeddingModels() map[AIProvider]string {
	return map[AIProvider]string{
		AIProviderOllama: "nomic-embed-text",
		AIProviderOpenAI: "text-embedding-3-small",
	}
}

// DefaultLLMModels returns default models for each LLM provider.
func DefaultLLMModels() map[AIProvider]string {
	return map[AIProvider]string{
		AIProviderOllama:    "llama3.2",
		AIProviderOpenAI:    "gpt-4-turbo",
		AIProviderAnthropic: "claude-3-5-sonnet-latest",
	}
}

// EmbeddingDimensions returns the vector dimensions for known models.
func EmbeddingDimensions() map[string]int {
	return map[string]int{
		"nomic-embed-text":       768,
		"mxbai-embed-large":      1024,
		"all-minilm":             384,
		"text-embedding-3-small": 1536,
		"text-embedding-3-large": 3072,
		"text-embedding-ada-002": 1536,
	}
}

// DimensionsForModel returns the known vector size for model, falling back to fallback.
func DimensionsForModel(model string, fallback int) int {
	if d, ok := EmbeddingDimensions()[model]; ok {
		return d
	}
	return fallback
}
