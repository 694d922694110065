// Package openai provides an LLM service adapter using OpenAI API.
package openai

import (
	"context"
	"errors"
	"time"

	"github.com/custodia-labs/codeaid/internal/adapters/driven/ai/apiclient"
	"github.com/custodia-labs/codeaid/internal/core/ports/driven"
)

// Ensure LLMService implements the interface.
var _ driven.LLMService = (*LLMService)(nil)

// Default configuration values.
const (
	DefaultBaseURL    = "https://api.openai.com/v1"
	DefaultLLMModel   = "gpt-4-turbo"
	DefaultLLMTimeout = 120 * time.Second
)

// LLMConfig holds configuration for the OpenAI LLM service.
type LLMConfig struct {
	// APIKey is the OpenAI API key (required).
	APIKey string

	// BaseURL is the API base URL (default: https://api.openai.com/v1).
	// Can be changed for Azure OpenAI or compatible APIs.
	BaseURL string

	// Model is the LLM model to use (default: gpt-4-turbo).
	Model string

	// Timeout is the request timeout (default: 120s).
	Timeout time.Duration
}

// LLMService provides LLM operations using OpenAI API.
type LLMService struct {
	client *apiclient.Client
	model  string
}

// chatCompletionRequest is the OpenAI /chat/completions request format.
type chatCompletionRequest struct {
	Model       string              `json:"model"`
	Messages    []chatCompletionMsg `json:"messages"`
	MaxTokens   int                 `json:"max_tokens,omitempty"`
	Temperature *float64            `json:"temperature,omitempty"`
}

// chatCompletionMsg is the OpenAI chat message format.
type chatCompletionMsg struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// chatCompletionResponse is the OpenAI /chat/completions response format.
type chatCompletionResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
}

// NewLLMService creates a new OpenAI LLM service.
func NewLLMService(cfg LLMConfig) (*LLMService, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("openai: API key is required")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultLLMModel
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultLLMTimeout
	}

	return &LLMService{
		client: apiclient.New("openai", cfg.BaseURL, cfg.Timeout,
			map[string]string{
				"Authorization": "Bearer " + cfg.APIKey,
			},
			apiclient.WithRateLimiter(apiclient.NewRateLimiter(apiclient.DefaultRate, apiclient.DefaultBurst)),
		),
		model: cfg.Model,
	}, nil
}

// Complete sends the system and user prompts as a two-message chat.
func (s *LLMService) Complete(
	ctx context.Context,
	systemPrompt, userPrompt string,
	opts driven.CompletionOptions,
) (string, error) {
	messages := []driven.ChatMessage{
		{Role: "system", Content: systemPrompt},
		{Role: "user", Content: userPrompt},
	}
	return s.chat(ctx, messages, opts)
}

func (s *LLMService) chat(ctx context.Context, messages []driven.ChatMessage, opts driven.CompletionOptions) (string, error) {
	req := chatCompletionRequest{
		Model:     s.model,
		Messages:  make([]chatCompletionMsg, 0, len(messages)),
		MaxTokens: opts.MaxTokens,
	}
	for _, msg := range messages {
		if msg.Content == "" && msg.Role == "system" {
			continue
		}
		req.Messages = append(req.Messages, chatCompletionMsg{Role: msg.Role, Content: msg.Content})
	}
	temperature := opts.Temperature
	req.Temperature = &temperature

	var resp chatCompletionResponse
	if err := s.client.PostJSON(ctx, "/chat/completions", req, &resp); err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", nil
	}
	return resp.Choices[0].Message.Content, nil
}

// ModelName returns the name of the LLM model being used.
func (s *LLMService) ModelName() string {
	return s.model
}

// Ping lists models to check the key is accepted.
func (s *LLMService) Ping(ctx context.Context) error {
	return s.client.Get(ctx, "/models", nil)
}

// Close releases resources.
func (s *LLMService) Close() error {
	return nil
}
