package services

import (
	"fmt"
	"strconv"

	"github.com/custodia-labs/codeaid/internal/core/domain"
	"github.com/custodia-labs/codeaid/internal/core/ports/driven"
	"github.com/custodia-labs/codeaid/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
const (
	KeyChunkSize       = "rag.chunk_size"
	KeyChunkOverlap    = "rag.chunk_overlap"
	KeyTopK            = "rag.top_k"
	KeyThreshold       = "rag.threshold"
	KeyEmbedProvider   = "embedding.provider"
	KeyEmbedModel      = "embedding.model"
	KeyEmbedBaseURL    = "embedding.base_url"
	KeyEmbedAPIKey     = "embedding.api_key"
	KeyEmbedDimensions = "embedding.dimensions"
	KeyLLMProvider     = "llm.provider"
	KeyLLMModel        = "llm.model"
	KeyLLMBaseURL      = "llm.base_url"
	KeyLLMAPIKey       = "llm.api_key"
	KeyStorageDriver   = "storage.driver"
	KeyStoragePath     = "storage.path"
	KeyDatabaseURL     = "storage.database_url"
)

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
	env         func(string) string
}

// NewSettingsService creates a new settings service.
// env looks up environment overrides; nil disables them.
func NewSettingsService(configStore driven.ConfigStore, env func(string) string) *SettingsService {
	if env == nil {
		env = func(string) string { return "" }
	}
	return &SettingsService{
		configStore: configStore,
		env:         env,
	}
}

// Get retrieves current application settings.
// OPENAI_API_KEY and CODEAID_DATABASE_URL override empty config values.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	defaults := domain.DefaultAppSettings()

	embedModel := s.getString(KeyEmbedModel, defaults.Embedding.Model)

	settings := &domain.AppSettings{
		RAG: domain.RAGSettings{
			ChunkSize:    s.getInt(KeyChunkSize, defaults.RAG.ChunkSize),
			ChunkOverlap: s.getIntAllowZero(KeyChunkOverlap, defaults.RAG.ChunkOverlap),
			TopK:         s.getInt(KeyTopK, defaults.RAG.TopK),
			Threshold:    s.getFloat(KeyThreshold, defaults.RAG.Threshold),
		},
		Embedding: domain.EmbeddingSettings{
			Provider:   s.getProvider(KeyEmbedProvider, defaults.Embedding.Provider),
			Model:      embedModel,
			BaseURL:    s.configStore.GetString(KeyEmbedBaseURL),
			APIKey:     s.configStore.GetString(KeyEmbedAPIKey),
			Dimensions: s.getInt(KeyEmbedDimensions, domain.DimensionsForModel(embedModel, defaults.Embedding.Dimensions)),
		},
		LLM: domain.LLMSettings{
			Provider: s.getProvider(KeyLLMProvider, defaults.LLM.Provider),
			Model:    s.getString(KeyLLMModel, defaults.LLM.Model),
			BaseURL:  s.configStore.GetString(KeyLLMBaseURL),
			APIKey:   s.configStore.GetString(KeyLLMAPIKey),
		},
		Storage: domain.StorageSettings{
			Driver:      s.getDriver(defaults.Storage.Driver),
			Path:        s.configStore.GetString(KeyStoragePath),
			DatabaseURL: s.configStore.GetString(KeyDatabaseURL),
		},
	}

	if key := s.env("OPENAI_API_KEY"); key != "" {
		if settings.Embedding.APIKey == "" && settings.Embedding.Provider == domain.AIProviderOpenAI {
			settings.Embedding.APIKey = key
		}
		if settings.LLM.APIKey == "" && settings.LLM.Provider == domain.AIProviderOpenAI {
			settings.LLM.APIKey = key
		}
	}
	if key := s.env("ANTHROPIC_API_KEY"); key != "" && settings.LLM.APIKey == "" &&
		settings.LLM.Provider == domain.AIProviderAnthropic {
		settings.LLM.APIKey = key
	}
	if url := s.env("CODEAID_DATABASE_URL"); url != "" && settings.Storage.DatabaseURL == "" {
		settings.Storage.DatabaseURL = url
	}

	return settings, nil
}

// Set updates a single setting by its config key.
// Values are parsed and the resulting settings validated before anything is saved.
func (s *SettingsService) Set(key, value string) error {
	settings, err := s.Get()
	if err != nil {
		return err
	}

	var stored any = value

	switch key {
	case KeyChunkSize, KeyChunkOverlap, KeyTopK, KeyEmbedDimensions:
		n, err := strconv.Atoi(value)
		if err != nil {
			return domain.ValidationError("settings", "%s must be an integer, got %q", key, value)
		}
		stored = n
		switch key {
		case KeyChunkSize:
			settings.RAG.ChunkSize = n
		case KeyChunkOverlap:
			settings.RAG.ChunkOverlap = n
		case KeyTopK:
			settings.RAG.TopK = n
		default:
			settings.Embedding.Dimensions = n
		}
	case KeyThreshold:
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return domain.ValidationError("settings", "%s must be a number, got %q", key, value)
		}
		stored = f
		settings.RAG.Threshold = f
	case KeyEmbedProvider, KeyLLMProvider:
		provider := domain.AIProvider(value)
		if !provider.IsValid() {
			return domain.ValidationError("settings", "unknown provider %q", value)
		}
		if key == KeyEmbedProvider {
			settings.Embedding.Provider = provider
		}
	case KeyStorageDriver:
		if !domain.StorageDriver(value).IsValid() {
			return domain.ValidationError("settings", "unknown storage driver %q", value)
		}
	case KeyEmbedModel, KeyEmbedBaseURL, KeyEmbedAPIKey,
		KeyLLMModel, KeyLLMBaseURL, KeyLLMAPIKey,
		KeyStoragePath, KeyDatabaseURL:
	default:
		return domain.ValidationError("settings", "unknown setting %q", key)
	}

	if err := validateSettings(settings); err != nil {
		return err
	}

	if err := s.configStore.Set(key, stored); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

// SetAPIKey stores the API key for a provider. The same key is applied to
// embedding and LLM settings that use the provider.
func (s *SettingsService) SetAPIKey(provider domain.AIProvider, apiKey string) error {
	if !provider.RequiresAPIKey() {
		return domain.ValidationError("settings", "provider %s does not use an API key", provider)
	}
	if apiKey == "" {
		return domain.ValidationError("settings", "API key is required for %s", provider)
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}

	applied := false
	if settings.Embedding.Provider == provider {
		if err := s.configStore.Set(KeyEmbedAPIKey, apiKey); err != nil {
			return fmt.Errorf("save embedding api_key: %w", err)
		}
		applied = true
	}
	if settings.LLM.Provider == provider {
		if err := s.configStore.Set(KeyLLMAPIKey, apiKey); err != nil {
			return fmt.Errorf("save llm api_key: %w", err)
		}
		applied = true
	}
	if !applied {
		return domain.ValidationError("settings", "no configured provider uses %s", provider)
	}
	return nil
}

// Validate checks the current settings are usable.
func (s *SettingsService) Validate() error {
	settings, err := s.Get()
	if err != nil {
		return err
	}
	return validateSettings(settings)
}

func validateSettings(settings *domain.AppSettings) error {
	if err := settings.RAG.Validate(); err != nil {
		return err
	}
	if settings.Embedding.Provider == domain.AIProviderAnthropic {
		return domain.ValidationError("settings", "provider %s does not support embeddings", settings.Embedding.Provider)
	}
	if settings.Embedding.Dimensions <= 0 {
		return domain.ValidationError("settings", "embedding dimensions must be positive")
	}
	return nil
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

// Helper methods for reading config with defaults.

func (s *SettingsService) getString(key, defaultVal string) string {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getInt(key string, defaultVal int) int {
	val := s.configStore.GetInt(key)
	if val == 0 {
		return defaultVal
	}
	return val
}

// getIntAllowZero distinguishes an explicit 0 from a missing key.
func (s *SettingsService) getIntAllowZero(key string, defaultVal int) int {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetInt(key)
}

func (s *SettingsService) getFloat(key string, defaultVal float64) float64 {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetFloat(key)
}

func (s *SettingsService) getProvider(key string, defaultVal domain.AIProvider) domain.AIProvider {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	provider := domain.AIProvider(val)
	if !provider.IsValid() {
		return defaultVal
	}
	return provider
}

func (s *SettingsService) getDriver(defaultVal domain.StorageDriver) domain.StorageDriver {
	val := s.configStore.GetString(KeyStorageDriver)
	if val == "" {
		return defaultVal
	}
	driver := domain.StorageDriver(val)
	if !driver.IsValid() {
		return defaultVal
	}
	return driver
}
