package services

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/custodia-labs/codeaid/internal/core/domain"
	"github.com/custodia-labs/codeaid/internal/core/ports/driven"
	"github.com/custodia-labs/codeaid/internal/core/ports/driving"
	"github.com/custodia-labs/codeaid/internal/logger"
)

// Ensure RAGService implements the interface.
var _ driving.AskService = (*RAGService)(nil)

// NoDocumentsAnswer is returned when nothing relevant is stored.
const NoDocumentsAnswer = "No documents have been uploaded yet. " +
	"Please upload some technical files first so I can help answer your questions."

// NoResponseAnswer replaces an empty completion.
const NoResponseAnswer = "No response generated"

// SystemPrompt instructs the model to answer from the supplied context only.
const SystemPrompt = `You are CodeAid, a technical support assistant. ` +
	`Answer questions using ONLY the context provided from the uploaded documents.

Rules:
- If the context does not contain enough information to answer, say so clearly.
- Cite the specific parts of the context you used, referring to their source labels.
- Be concise but thorough.
- If you are unsure, admit it rather than guessing.`

// contextSeparator divides source blocks in the assembled context.
const contextSeparator = "\n\n---\n\n"

// RAGService answers questions from the stored corpus.
type RAGService struct {
	retriever        *Retriever
	embeddingService driven.EmbeddingService
	llmService       driven.LLMService
	rag              domain.RAGSettings
	completion       driven.CompletionOptions
	systemPrompt     string
}

// RAGOption configures a RAGService.
type RAGOption func(*RAGService)

// WithSystemPrompt replaces SystemPrompt. Blank prompts are ignored.
func WithSystemPrompt(prompt string) RAGOption {
	return func(s *RAGService) {
		if strings.TrimSpace(prompt) != "" {
			s.systemPrompt = prompt
		}
	}
}

// WithCompletionOptions overrides the generation limits.
func WithCompletionOptions(opts driven.CompletionOptions) RAGOption {
	return func(s *RAGService) {
		s.completion = opts
	}
}

// NewRAGService creates a question answering service.
func NewRAGService(
	retriever *Retriever,
	embeddingService driven.EmbeddingService,
	llmService driven.LLMService,
	rag domain.RAGSettings,
	opts ...RAGOption,
) *RAGService {
	s := &RAGService{
		retriever:        retriever,
		embeddingService: embeddingService,
		llmService:       llmService,
		rag:              rag,
		completion: driven.CompletionOptions{
			MaxTokens:   domain.DefaultMaxTokens,
			Temperature: domain.DefaultTemperature,
		},
		systemPrompt: SystemPrompt,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// AnswerQuestion embeds the question, retrieves the closest chunks and asks
// the LLM to answer from them. When nothing is retrieved it returns
// NoDocumentsAnswer without calling the LLM.
func (s *RAGService) AnswerQuestion(ctx context.Context, question string) (*domain.Answer, error) {
	const op = "ask"

	logger.Section("Answer Question")

	question = strings.TrimSpace(question)
	if question == "" {
		return nil, domain.ValidationError(op, "question is required")
	}
	if n := utf8.RuneCountInString(question); n > domain.MaxQuestionLength {
		return nil, domain.ValidationError(op, "question is %d characters, maximum is %d", n, domain.MaxQuestionLength)
	}
	if s.embeddingService == nil {
		return nil, domain.NewError(domain.KindUpstreamProvider, op, "", domain.ErrEmbeddingUnavailable)
	}

	logger.Debug("Question: %q", question)

	queryEmbedding, err := s.embeddingService.Embed(ctx, question)
	if err != nil {
		return nil, domain.NewError(domain.KindUpstreamProvider, op, "embedding question", err)
	}

	sources, err := s.retriever.FindSimilarChunks(ctx, queryEmbedding, s.rag.TopK, s.rag.Threshold)
	if err != nil {
		return nil, err
	}

	if len(sources) == 0 {
		logger.Debug("No chunks retrieved, skipping generation")
		return &domain.Answer{
			ID:       uuid.New().String(),
			Answer:   NoDocumentsAnswer,
			Sources:  []domain.ScoredChunk{},
			Question: question,
		}, nil
	}

	if s.llmService == nil {
		return nil, domain.NewError(domain.KindUpstreamProvider, op, "", domain.ErrLLMUnavailable)
	}

	userPrompt := BuildUserPrompt(BuildContext(sources), question)
	logger.Debug("Context: %d sources, %d characters", len(sources), len(userPrompt))

	stop := logger.Timed("generate answer")
	reply, err := s.llmService.Complete(ctx, s.systemPrompt, userPrompt, s.completion)
	stop()
	if err != nil {
		return nil, domain.NewError(domain.KindUpstreamProvider, op, "generating answer", err)
	}
	if strings.TrimSpace(reply) == "" {
		reply = NoResponseAnswer
	}

	return &domain.Answer{
		ID:       uuid.New().String(),
		Answer:   reply,
		Sources:  sources,
		Question: question,
	}, nil
}

// BuildContext labels each source with its rank and filename and joins them
// in rank order.
func BuildContext(sources []domain.ScoredChunk) string {
	blocks := make([]string, len(sources))
	for i := range sources {
		blocks[i] = fmt.Sprintf("[Source %d: %s]\n%s", i+1, sources[i].Document.Filename, sources[i].Chunk.Content)
	}
	return strings.Join(blocks, contextSeparator)
}

// BuildUserPrompt combines the assembled context and the question into the user turn.
func BuildUserPrompt(contextText, question string) string {
	return fmt.Sprintf("Context from uploaded documents:\n\n%s\n\nQuestion: %s", contextText, question)
}
