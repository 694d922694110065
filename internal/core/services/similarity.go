package services

import (
	"fmt"
	"math"

	"github.com/custodia-labs/codeaid/internal/core/domain"
)

// CosineSimilarity returns dot(a, b) / (|a| * |b|).
//
// Vectors of different length fail with domain.ErrDimensionMismatch.
// If either vector has zero norm the result is exactly 0.
// Accumulation is done in float64.
func CosineSimilarity(a, b []float32) (float64, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("compare %d-d with %d-d vector: %w", len(a), len(b), domain.ErrDimensionMismatch)
	}

	var dot, normA, normB float64
	for i := range a {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		normA += x * x
		normB += y * y
	}

	if normA == 0 || normB == 0 {
		return 0, nil
	}

	score := dot / (math.Sqrt(normA) * math.Sqrt(normB))

	// Rounding can push parallel vectors just past the bounds.
	return math.Max(-1, math.Min(1, score)), nil
}
