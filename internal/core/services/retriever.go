package services

import (
	"context"
	"fmt"
	"sort"

	"github.com/custodia-labs/codeaid/internal/core/domain"
	"github.com/custodia-labs/codeaid/internal/core/ports/driven"
	"github.com/custodia-labs/codeaid/internal/logger"
)

// Retriever ranks stored chunks against a query vector by brute-force scan.
// The whole corpus is re-read on every call; nothing is cached.
type Retriever struct {
	docStore driven.DocumentStore
}

// NewRetriever creates a retriever over docStore.
func NewRetriever(docStore driven.DocumentStore) *Retriever {
	return &Retriever{docStore: docStore}
}

// FindSimilarChunks scores every stored chunk against query, keeps those
// scoring at least threshold, and returns up to topK of them ordered by
// descending score. Ties keep store order.
//
// An empty corpus, or one where nothing clears the threshold, returns an
// empty slice and no error.
func (r *Retriever) FindSimilarChunks(
	ctx context.Context, query []float32, topK int, threshold float64,
) ([]domain.ScoredChunk, error) {
	const op = "retrieve"

	if topK <= 0 {
		return nil, domain.ValidationError(op, "top-k must be positive, got %d", topK)
	}

	corpus, err := r.docStore.ListAllChunks(ctx)
	if err != nil {
		return nil, domain.NewError(domain.KindPersistence, op, "loading chunks", err)
	}

	scored := make([]domain.ScoredChunk, 0, len(corpus))
	for i := range corpus {
		score, err := CosineSimilarity(query, corpus[i].Chunk.Embedding)
		if err != nil {
			return nil, domain.NewError(domain.KindPersistence, op,
				fmt.Sprintf("scoring chunk %s", corpus[i].Chunk.ID), err)
		}
		if score < threshold {
			continue
		}
		scored = append(scored, domain.ScoredChunk{
			Chunk:    corpus[i].Chunk,
			Document: corpus[i].Document,
			Score:    score,
		})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	passed := len(scored)
	if passed > topK {
		scored = scored[:topK]
	}

	logger.Debug("Scanned %d chunks, %d at or above threshold %.2f, returning %d",
		len(corpus), passed, threshold, len(scored))
	if len(scored) > 0 {
		logger.Debug("Top score: %.4f (%s)", scored[0].Score, scored[0].Document.Filename)
	}

	return scored, nil
}
