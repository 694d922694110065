package services

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/codeaid/internal/core/domain"
	"github.com/custodia-labs/codeaid/internal/core/ports/driven"
	"github.com/custodia-labs/codeaid/internal/core/ports/driving"
)

// Ensure FeedbackService implements the interface.
var _ driving.FeedbackService = (*FeedbackService)(nil)

// Rating bounds.
const (
	MinRating = 1
	MaxRating = 5
)

// FeedbackService records answer ratings.
type FeedbackService struct {
	store driven.FeedbackStore
}

// NewFeedbackService creates a feedback service.
func NewFeedbackService(store driven.FeedbackStore) *FeedbackService {
	return &FeedbackService{store: store}
}

// Submit validates and stores a rating.
func (s *FeedbackService) Submit(
	ctx context.Context, messageID string, rating int, comment string,
) (*domain.Feedback, error) {
	const op = "feedback"

	messageID = strings.TrimSpace(messageID)
	if messageID == "" {
		return nil, domain.ValidationError(op, "message id is required")
	}
	if rating < MinRating || rating > MaxRating {
		return nil, domain.ValidationError(op, "rating must be between %d and %d, got %d", MinRating, MaxRating, rating)
	}

	fb := &domain.Feedback{
		ID:        uuid.New().String(),
		MessageID: messageID,
		Rating:    rating,
		Comment:   strings.TrimSpace(comment),
		CreatedAt: time.Now().UTC(),
	}
	if err := s.store.SaveFeedback(ctx, fb); err != nil {
		return nil, domain.NewError(domain.KindPersistence, op, "saving feedback", err)
	}
	return fb, nil
}

// List returns ratings for a message, or all ratings when messageID is empty.
func (s *FeedbackService) List(ctx context.Context, messageID string) ([]domain.Feedback, error) {
	items, err := s.store.ListFeedback(ctx, strings.TrimSpace(messageID))
	if err != nil {
		return nil, domain.NewError(domain.KindPersistence, "feedback", "listing feedback", err)
	}
	return items, nil
}
