package driven

import "context"

// LLMService generates answers from prompts.
//
// Implementations may include:
//   - OpenAI (GPT-4, GPT-4o)
//   - Anthropic (Claude)
//   - Ollama (local models)
type LLMService interface {
	// Complete sends one system instruction and one user turn and returns
	// the model's reply. An empty reply is returned as "".
	Complete(ctx context.Context, systemPrompt, userPrompt string, opts CompletionOptions) (string, error)

	// ModelName returns the name of the LLM model being used.
	ModelName() string

	// Ping validates the service is reachable by making a lightweight test request.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}

// CompletionOptions configures generation behaviour.
type CompletionOptions struct {
	// MaxTokens is the maximum number of tokens to generate.
	MaxTokens int

	// Temperature controls randomness (0.0 = deterministic, 1.0 = creative).
	Temperature float64
}

// ChatMessage is a single message sent to a chat endpoint.
type ChatMessage struct {
	// Role is one of "system", "user", or "assistant".
	Role string

	// Content is the message text.
	Content string
}
