// Package messages defines Bubbletea message types for the TUI.
// Messages represent events and commands that flow through the Elm architecture.
package messages

import (
	"github.com/custodia-labs/codeaid/internal/core/domain"
)

// ViewChanged is sent when navigating between views.
type ViewChanged struct {
	View ViewType
}

// ViewType identifies which view is currently active.
type ViewType int

const (
	// ViewMenu is the main navigation menu.
	ViewMenu ViewType = iota
	// ViewChat is the question and answer view.
	ViewChat
	// ViewDocuments lists uploaded documents.
	ViewDocuments
	// ViewChunks shows the chunks of one document.
	ViewChunks
	// ViewHelp is the help/keybindings view.
	ViewHelp
)

// String returns the string representation of the view type.
func (v ViewType) String() string {
	switch v {
	case ViewMenu:
		return "menu"
	case ViewChat:
		return "chat"
	case ViewDocuments:
		return "documents"
	case ViewChunks:
		return "chunks"
	case ViewHelp:
		return "help"
	default:
		return "unknown"
	}
}

// QuestionAsked is sent when the user submits a question.
type QuestionAsked struct {
	Question string
}

// AnswerReceived carries an answer, or the failure, back to the model.
type AnswerReceived struct {
	Question string
	Answer   *domain.Answer
	Err      error
}

// FeedbackSubmitted signals a rating was stored.
type FeedbackSubmitted struct {
	MessageID string
	Rating    int
	Err       error
}

// DocumentsLoaded carries the document list.
type DocumentsLoaded struct {
	Documents []domain.DocumentSummary
	Err       error
}

// DocumentSelected signals a document was chosen for inspection.
type DocumentSelected struct {
	Document domain.Document
}

// ChunksLoaded carries a document's chunks.
type ChunksLoaded struct {
	DocumentID string
	Chunks     []domain.Chunk
	Err        error
}

// DocumentDeleted signals a document was removed.
type DocumentDeleted struct {
	DocumentID string
	Err        error
}

// ErrorOccurred signals that an error happened.
type ErrorOccurred struct {
	Err error
}

// Quit signals the application should exit.
type Quit struct{}
