package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/codeaid/internal/chunker"
	"github.com/custodia-labs/codeaid/internal/core/domain"
	"github.com/custodia-labs/codeaid/internal/core/ports/driven"
	"github.com/custodia-labs/codeaid/internal/core/ports/driving"
	"github.com/custodia-labs/codeaid/internal/logger"
)

// Ensure IngestService implements the interface.
var _ driving.IngestService = (*IngestService)(nil)

// IngestService turns uploaded files into stored, embedded chunks.
type IngestService struct {
	docStore         driven.DocumentStore
	extractor        driven.TextExtractor
	embeddingService driven.EmbeddingService
	chunker          *chunker.Chunker
	dimensions       int
	now              func() time.Time
}

// NewIngestService creates an ingestion service.
// dimensions is the vector size every embedding must have; 0 disables the check.
func NewIngestService(
	docStore driven.DocumentStore,
	extractor driven.TextExtractor,
	embeddingService driven.EmbeddingService,
	c *chunker.Chunker,
	dimensions int,
) *IngestService {
	return &IngestService{
		docStore:         docStore,
		extractor:        extractor,
		embeddingService: embeddingService,
		chunker:          c,
		dimensions:       dimensions,
		now:              time.Now,
	}
}

// Ingest validates, extracts, chunks and embeds a file, then stores the
// document and its chunks as one unit of work.
// All validation happens before the embedding provider is called.
func (s *IngestService) Ingest(ctx context.Context, file domain.UploadedFile) (*domain.IngestResult, error) {
	const op = "ingest"

	logger.Section("Ingest " + file.Filename)

	if err := ValidateUpload(file); err != nil {
		return nil, err
	}
	if !s.extractor.Supports(file.ContentType, file.Filename) {
		return nil, domain.NewError(domain.KindContentExtraction, op,
			fmt.Sprintf("file type %q is not supported for %s", file.ContentType, file.Filename),
			domain.ErrUnsupportedType)
	}

	text, err := s.extractor.Extract(ctx, file)
	if err != nil {
		return nil, domain.NewError(domain.KindContentExtraction, op,
			fmt.Sprintf("extracting text from %s", file.Filename), err)
	}
	if strings.TrimSpace(text) == "" {
		return nil, domain.NewError(domain.KindValidation, op,
			fmt.Sprintf("%s contains no extractable text", file.Filename), domain.ErrEmptyContent)
	}

	doc := &domain.Document{
		ID:         uuid.New().String(),
		Filename:   file.Filename,
		FileType:   file.ContentType,
		FileSize:   file.Size(),
		UploadedAt: s.now().UTC(),
	}

	chunks, err := s.chunker.Chunks(doc.ID, text)
	if err != nil {
		return nil, fmt.Errorf("chunking %s: %w", file.Filename, err)
	}
	if len(chunks) == 0 {
		return nil, domain.NewError(domain.KindValidation, op,
			fmt.Sprintf("%s produced no chunks", file.Filename), domain.ErrEmptyContent)
	}
	logger.Debug("Extracted %d characters into %d chunks", len(text), len(chunks))

	if s.embeddingService == nil {
		return nil, domain.NewError(domain.KindUpstreamProvider, op, "", domain.ErrEmbeddingUnavailable)
	}

	texts := make([]string, len(chunks))
	for i := range chunks {
		texts[i] = chunks[i].Content
	}

	stop := logger.Timed("embed chunks")
	embeddings, err := s.embeddingService.EmbedBatch(ctx, texts)
	stop()
	if err != nil {
		return nil, domain.NewError(domain.KindUpstreamProvider, op, "embedding chunks", err)
	}
	if len(embeddings) != len(chunks) {
		return nil, domain.NewError(domain.KindUpstreamProvider, op,
			fmt.Sprintf("provider returned %d embeddings for %d chunks", len(embeddings), len(chunks)), nil)
	}

	want := s.dimensions
	for i := range chunks {
		if want == 0 {
			want = len(embeddings[i])
		}
		if len(embeddings[i]) != want {
			return nil, domain.NewError(domain.KindUpstreamProvider, op,
				fmt.Sprintf("embedding %d has %d dimensions, expected %d", i, len(embeddings[i]), want),
				domain.ErrDimensionMismatch)
		}
		chunks[i].Embedding = embeddings[i]
	}

	if err := s.docStore.CreateDocumentWithChunks(ctx, doc, chunks); err != nil {
		return nil, domain.NewError(domain.KindPersistence, op, "saving document", err)
	}

	logger.Info("Ingested %s as %s (%d chunks)", doc.Filename, doc.ID, len(chunks))

	return &domain.IngestResult{
		Document:      *doc,
		ChunksCreated: len(chunks),
	}, nil
}

// ValidateUpload checks an upload's shape before any extraction.
func ValidateUpload(file domain.UploadedFile) error {
	const op = "ingest"

	if strings.TrimSpace(file.Filename) == "" {
		return domain.ValidationError(op, "filename is required")
	}
	if file.Size() == 0 {
		return domain.ValidationError(op, "%s is empty", file.Filename)
	}
	if file.Size() > domain.MaxFileSize {
		return domain.ValidationError(op, "%s is %d bytes, maximum is %d", file.Filename, file.Size(), domain.MaxFileSize)
	}
	return nil
}
