package tui

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/codeaid/internal/core/domain"
)

// MockAskService implements driving.AskService for testing.
type MockAskService struct {
	AnswerFunc func(ctx context.Context, question string) (*domain.Answer, error)
}

func (m *MockAskService) AnswerQuestion(ctx context.Context, question string) (*domain.Answer, error) {
	if m.AnswerFunc != nil {
		return m.AnswerFunc(ctx, question)
	}
	return &domain.Answer{ID: "msg-1", Answer: "42", Question: question}, nil
}

// MockDocumentService implements driving.DocumentService for testing.
type MockDocumentService struct {
	ListFunc   func(ctx context.Context) ([]domain.DocumentSummary, error)
	ChunksFunc func(ctx context.Context, id string) ([]domain.Chunk, error)
	DeleteFunc func(ctx context.Context, id string) error
}

func (m *MockDocumentService) List(ctx context.Context) ([]domain.DocumentSummary, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx)
	}
	return nil, nil
}

func (m *MockDocumentService) Get(_ context.Context, id string) (*domain.Document, error) {
	return &domain.Document{ID: id}, nil
}

func (m *MockDocumentService) Chunks(ctx context.Context, id string) ([]domain.Chunk, error) {
	if m.ChunksFunc != nil {
		return m.ChunksFunc(ctx, id)
	}
	return nil, nil
}

func (m *MockDocumentService) Delete(ctx context.Context, id string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}

// MockFeedbackService implements driving.FeedbackService for testing.
type MockFeedbackService struct {
	SubmitFunc func(ctx context.Context, messageID string, rating int, comment string) (*domain.Feedback, error)
}

func (m *MockFeedbackService) Submit(
	ctx context.Context, messageID string, rating int, comment string,
) (*domain.Feedback, error) {
	if m.SubmitFunc != nil {
		return m.SubmitFunc(ctx, messageID, rating, comment)
	}
	return &domain.Feedback{ID: "fb-1", MessageID: messageID, Rating: rating}, nil
}

func (m *MockFeedbackService) List(context.Context, string) ([]domain.Feedback, error) {
	return nil, nil
}

func TestPorts_Validate(t *testing.T) {
	tests := []struct {
		name    string
		ports   *Ports
		wantErr error
	}{
		{"nil ports", nil, ErrInvalidPorts},
		{"missing ask", &Ports{Documents: &MockDocumentService{}}, ErrMissingAskService},
		{"ask only", &Ports{Ask: &MockAskService{}}, nil},
		{
			"all ports",
			&Ports{Ask: &MockAskService{}, Documents: &MockDocumentService{}, Feedback: &MockFeedbackService{}},
			nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.ports.Validate()
			if tt.wantErr == nil {
				require.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}
