// Package postgres provides a PostgreSQL implementation of the document and
// feedback stores, with embeddings held in a pgvector column.
//
// Similarity is still computed in process by the retriever; the column is
// plain storage and carries no ANN index.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"

	"github.com/custodia-labs/codeaid/internal/core/domain"
	"github.com/custodia-labs/codeaid/internal/core/ports/driven"
)

var (
	_ driven.DocumentStore = (*Store)(nil)
	_ driven.FeedbackStore = (*Store)(nil)
)

// Store is a pgxpool-backed document and feedback store.
type Store struct {
	pool       *pgxpool.Pool
	dimensions int
}

// NewStore connects to connStr, verifies the connection and creates the
// schema if needed. dimensions fixes the vector column size; 0 leaves it
// unconstrained.
func NewStore(ctx context.Context, connStr string, dimensions int) (*Store, error) {
	if connStr == "" {
		return nil, domain.ValidationError("postgres", "database URL is required")
	}

	pool, err := pgxpool.New(ctx, connStr)
	if err != nil {
		return nil, fmt.Errorf("creating pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	s := &Store{pool: pool, dimensions: dimensions}
	if err := s.Init(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return s, nil
}

// Init creates the extension, tables and indexes if they do not exist.
func (s *Store) Init(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schemaSQL(s.dimensions)); err != nil {
		return fmt.Errorf("creating tables: %w", err)
	}
	return nil
}

// schemaSQL returns the DDL for a vector column of the given size.
func schemaSQL(dimensions int) string {
	vectorType := "vector"
	if dimensions > 0 {
		vectorType = fmt.Sprintf("vector(%d)", dimensions)
	}

	return fmt.Sprintf(`
	CREATE EXTENSION IF NOT EXISTS vector;

	CREATE TABLE IF NOT EXISTS documents (
		id TEXT PRIMARY KEY,
		filename TEXT NOT NULL,
		file_type TEXT NOT NULL DEFAULT '',
		file_size BIGINT NOT NULL,
		uploaded_at TIMESTAMP WITH TIME ZONE NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_documents_uploaded_at ON documents(uploaded_at);

	CREATE TABLE IF NOT EXISTS chunks (
		id TEXT PRIMARY KEY,
		document_id TEXT NOT NULL REFERENCES documents(id) ON DELETE CASCADE,
		content TEXT NOT NULL,
		position INT NOT NULL,
		embedding %s,
		UNIQUE (document_id, position)
	);

	CREATE INDEX IF NOT EXISTS idx_chunks_document_id ON chunks(document_id);

	CREATE TABLE IF NOT EXISTS feedback (
		id TEXT PRIMARY KEY,
		message_id TEXT NOT NULL,
		rating INT NOT NULL CHECK (rating BETWEEN 1 AND 5),
		comment TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMP WITH TIME ZONE NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_feedback_message_id ON feedback(message_id);
	`, vectorType)
}

// CreateDocumentWithChunks inserts the document and its chunks in one transaction.
func (s *Store) CreateDocumentWithChunks(ctx context.Context, doc *domain.Document, chunks []domain.Chunk) error {
	for _, c := range chunks {
		if c.DocumentID != doc.ID {
			return domain.ValidationError("store", "chunk %s belongs to %s, not %s", c.ID, c.DocumentID, doc.ID)
		}
	}

	return pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `
			INSERT INTO documents (id, filename, file_type, file_size, uploaded_at)
			VALUES ($1, $2, $3, $4, $5)`,
			doc.ID, doc.Filename, doc.FileType, doc.FileSize, doc.UploadedAt.UTC())
		if err != nil {
			return fmt.Errorf("saving document: %w", err)
		}

		batch := &pgx.Batch{}
		for _, c := range chunks {
			batch.Queue(`
				INSERT INTO chunks (id, document_id, content, position, embedding)
				VALUES ($1, $2, $3, $4, $5)`,
				c.ID, c.DocumentID, c.Content, c.Position, pgvector.NewVector(c.Embedding))
		}

		results := tx.SendBatch(ctx, batch)
		for _, c := range chunks {
			if _, err := results.Exec(); err != nil {
				results.Close()
				return fmt.Errorf("saving chunk %d: %w", c.Position, err)
			}
		}
		return results.Close()
	})
}

// GetDocument retrieves a document by ID.
func (s *Store) GetDocument(ctx context.Context, id string) (*domain.Document, error) {
	var doc domain.Document
	err := s.pool.QueryRow(ctx, `
		SELECT id, filename, file_type, file_size, uploaded_at
		FROM documents WHERE id = $1`, id,
	).Scan(&doc.ID, &doc.Filename, &doc.FileType, &doc.FileSize, &doc.UploadedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning document: %w", err)
	}
	return &doc, nil
}

// ListDocuments returns every document with its chunk count, newest first.
func (s *Store) ListDocuments(ctx context.Context) ([]domain.DocumentSummary, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT d.id, d.filename, d.file_type, d.file_size, d.uploaded_at, COUNT(c.id)
		FROM documents d
		LEFT JOIN chunks c ON c.document_id = d.id
		GROUP BY d.id
		ORDER BY d.uploaded_at DESC, d.id`)
	if err != nil {
		return nil, fmt.Errorf("querying documents: %w", err)
	}
	defer rows.Close()

	docs := []domain.DocumentSummary{}
	for rows.Next() {
		var d domain.DocumentSummary
		if err := rows.Scan(&d.ID, &d.Filename, &d.FileType, &d.FileSize, &d.UploadedAt, &d.ChunkCount); err != nil {
			return nil, fmt.Errorf("scanning document: %w", err)
		}
		docs = append(docs, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating documents: %w", err)
	}
	return docs, nil
}

// DeleteDocument removes a document; its chunks go with it by cascade.
func (s *Store) DeleteDocument(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, "DELETE FROM documents WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("deleting document: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ListChunks returns a document's chunks ordered by position.
func (s *Store) ListChunks(ctx context.Context, documentID string) ([]domain.Chunk, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, document_id, content, position, embedding
		FROM chunks WHERE document_id = $1
		ORDER BY position`, documentID)
	if err != nil {
		return nil, fmt.Errorf("querying chunks: %w", err)
	}
	defer rows.Close()

	chunks := []domain.Chunk{}
	for rows.Next() {
		var c domain.Chunk
		var vec pgvector.Vector
		if err := rows.Scan(&c.ID, &c.DocumentID, &c.Content, &c.Position, &vec); err != nil {
			return nil, fmt.Errorf("scanning chunk: %w", err)
		}
		c.Embedding = vec.Slice()
		chunks = append(chunks, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating chunks: %w", err)
	}
	return chunks, nil
}

// ListAllChunks returns every chunk joined with its document in one statement.
func (s *Store) ListAllChunks(ctx context.Context) ([]domain.ChunkWithDocument, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT c.id, c.document_id, c.content, c.position, c.embedding,
		       d.id, d.filename, d.file_type, d.file_size, d.uploaded_at
		FROM chunks c
		JOIN documents d ON d.id = c.document_id
		ORDER BY d.uploaded_at, d.id, c.position`)
	if err != nil {
		return nil, fmt.Errorf("querying chunks: %w", err)
	}
	defer rows.Close()

	all := []domain.ChunkWithDocument{}
	for rows.Next() {
		var cw domain.ChunkWithDocument
		var vec pgvector.Vector
		if err := rows.Scan(
			&cw.Chunk.ID, &cw.Chunk.DocumentID, &cw.Chunk.Content, &cw.Chunk.Position, &vec,
			&cw.Document.ID, &cw.Document.Filename, &cw.Document.FileType, &cw.Document.FileSize,
			&cw.Document.UploadedAt,
		); err != nil {
			return nil, fmt.Errorf("scanning chunk: %w", err)
		}
		cw.Chunk.Embedding = vec.Slice()
		all = append(all, cw)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating chunks: %w", err)
	}
	return all, nil
}

// SaveFeedback stores a rating.
func (s *Store) SaveFeedback(ctx context.Context, fb *domain.Feedback) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO feedback (id, message_id, rating, comment, created_at)
		VALUES ($1, $2, $3, $4, $5)`,
		fb.ID, fb.MessageID, fb.Rating, fb.Comment, fb.CreatedAt.UTC())
	if err != nil {
		return fmt.Errorf("saving feedback: %w", err)
	}
	return nil
}

// ListFeedback returns ratings for a message, oldest first.
func (s *Store) ListFeedback(ctx context.Context, messageID string) ([]domain.Feedback, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, message_id, rating, comment, created_at
		FROM feedback
		WHERE $1 = '' OR message_id = $1
		ORDER BY created_at, id`, messageID)
	if err != nil {
		return nil, fmt.Errorf("querying feedback: %w", err)
	}
	defer rows.Close()

	items := []domain.Feedback{}
	for rows.Next() {
		var fb domain.Feedback
		if err := rows.Scan(&fb.ID, &fb.MessageID, &fb.Rating, &fb.Comment, &fb.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning feedback: %w", err)
		}
		items = append(items, fb)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating feedback: %w", err)
	}
	return items, nil
}

// Close closes the connection pool.
func (s *Store) Close() error {
	if s.pool != nil {
		s.pool.Close()
	}
	return nil
}
