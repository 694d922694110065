// Command codeaid ingests technical documents and answers questions about
// them with retrieval-augmented generation.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"

	"github.com/custodia-labs/codeaid/internal/adapters/driven/ai"
	"github.com/custodia-labs/codeaid/internal/adapters/driven/config/file"
	"github.com/custodia-labs/codeaid/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/codeaid/internal/adapters/driven/storage/postgres"
	"github.com/custodia-labs/codeaid/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/codeaid/internal/adapters/driving/cli"
	"github.com/custodia-labs/codeaid/internal/chunker"
	"github.com/custodia-labs/codeaid/internal/core/domain"
	"github.com/custodia-labs/codeaid/internal/core/ports/driven"
	"github.com/custodia-labs/codeaid/internal/core/services"
	"github.com/custodia-labs/codeaid/internal/extractors"
	"github.com/custodia-labs/codeaid/internal/logger"
)

// version is overridden at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	if err := run(); err != nil {
		os.Exit(1)
	}
}

func run() error {
	// A missing .env file is normal.
	_ = godotenv.Load()

	configStore, err := file.NewConfigStore("")
	if err != nil {
		return report(fmt.Errorf("open config: %w", err))
	}
	settingsService := services.NewSettingsService(configStore, os.Getenv)

	settings, err := settingsService.Get()
	if err != nil {
		return report(fmt.Errorf("load settings: %w", err))
	}

	ctx := context.Background()

	stores, err := openStorage(ctx, settings)
	if err != nil {
		return report(err)
	}
	defer stores.Close()

	aiServices := ai.Init(settings)
	defer aiServices.Close()

	var ragOpts []services.RAGOption
	if prompts, err := file.NewPromptStore("", map[string]string{
		driven.PromptAnswerSystem: services.SystemPrompt,
	}); err != nil {
		logger.Warn("prompt overrides disabled: %v", err)
	} else if prompt, err := prompts.Load(driven.PromptAnswerSystem); err != nil {
		logger.Warn("loading %s prompt: %v", driven.PromptAnswerSystem, err)
	} else {
		ragOpts = append(ragOpts, services.WithSystemPrompt(prompt))
	}

	textChunker, err := chunker.New(
		chunker.WithChunkSize(settings.RAG.ChunkSize),
		chunker.WithOverlap(settings.RAG.ChunkOverlap),
	)
	if err != nil {
		return report(err)
	}

	cli.SetServices(cli.Services{
		Ingest: services.NewIngestService(
			stores.docs, extractors.Default(), aiServices.EmbeddingService, textChunker,
			settings.Embedding.Dimensions,
		),
		Ask: services.NewRAGService(
			services.NewRetriever(stores.docs), aiServices.EmbeddingService, aiServices.LLMService,
			settings.RAG, ragOpts...,
		),
		Documents: services.NewDocumentService(stores.docs),
		Feedback:  services.NewFeedbackService(stores.feedback),
		Settings:  settingsService,
		Validator: ai.NewConfigValidator(),
	})
	cli.SetVersion(version)

	return cli.Execute()
}

// storage is the opened persistence backend.
type storage struct {
	docs     driven.DocumentStore
	feedback driven.FeedbackStore
	closer   io.Closer
}

func (s *storage) Close() {
	if err := s.closer.Close(); err != nil {
		logger.Warn("closing storage: %v", err)
	}
}

func openStorage(ctx context.Context, settings *domain.AppSettings) (*storage, error) {
	switch settings.Storage.Driver {
	case domain.StorageMemory:
		store := memory.NewDocumentStore()
		return &storage{docs: store, feedback: store, closer: store}, nil

	case domain.StoragePostgres:
		store, err := postgres.NewStore(ctx, settings.Storage.DatabaseURL, settings.Embedding.Dimensions)
		if err != nil {
			return nil, fmt.Errorf("open postgres storage: %w", err)
		}
		return &storage{docs: store, feedback: store, closer: store}, nil

	default:
		dataDir := settings.Storage.Path
		if dataDir == "" {
			home, err := file.HomeDir()
			if err != nil {
				return nil, fmt.Errorf("get home directory: %w", err)
			}
			dataDir = filepath.Join(home, "data")
		}
		store, err := sqlite.NewStore(dataDir)
		if err != nil {
			return nil, fmt.Errorf("open sqlite storage: %w", err)
		}
		return &storage{docs: store.DocumentStore(), feedback: store.FeedbackStore(), closer: store}, nil
	}
}

// report prints err the way cobra prints command errors.
func report(err error) error {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	return err
}
