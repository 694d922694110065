package driven

import "github.com/custodia-labs/codeaid/internal/core/domain"

// AIConfigValidator checks provider settings against the live provider.
type AIConfigValidator interface {
	// ValidateEmbedding pings the configured embedding provider.
	// Unconfigured settings are not an error.
	ValidateEmbedding(config *domain.EmbeddingSettings) error

	// ValidateLLM pings the configured LLM provider.
	ValidateLLM(config *domain.LLMSettings) error
}
