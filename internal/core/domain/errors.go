package domain

import (
	"errors"
	"fmt"
	"net/http"
)

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsupportedType indicates a file format no extractor handles.
	ErrUnsupportedType = errors.New("unsupported type")

	// ErrEmptyContent indicates a file produced no extractable text.
	ErrEmptyContent = errors.New("no extractable content")

	// ErrDimensionMismatch indicates two vectors of different length were compared.
	// Stored vectors of the wrong size mean the corpus is inconsistent.
	ErrDimensionMismatch = errors.New("vector dimension mismatch")

	// ErrLLMUnavailable indicates the LLM service is not configured.
	ErrLLMUnavailable = errors.New("LLM service unavailable")

	// ErrEmbeddingUnavailable indicates the embedding service is not configured.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")
)

// ErrorKind classifies a failure for the caller.
type ErrorKind string

// Error kinds.
const (
	// KindValidation is bad input shape or size.
	KindValidation ErrorKind = "validation"

	// KindNotFound is a reference to a missing document.
	KindNotFound ErrorKind = "not_found"

	// KindContentExtraction is an unreadable or unsupported file.
	KindContentExtraction ErrorKind = "content_extraction"

	// KindUpstreamProvider is an embedding or generation service failure.
	KindUpstreamProvider ErrorKind = "upstream_provider"

	// KindPersistence is a storage failure or inconsistent stored data.
	KindPersistence ErrorKind = "persistence"
)

// Error is the typed failure returned at service boundaries.
type Error struct {
	// Kind classifies the failure.
	Kind ErrorKind

	// Op names the operation that failed, e.g. "ingest".
	Op string

	// Message is the human-readable description.
	Message string

	// Err is the underlying cause, if any.
	Err error
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	} else if e.Err != nil {
		msg = msg + ": " + e.Err.Error()
	}
	if e.Op == "" {
		return msg
	}
	return e.Op + ": " + msg
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// NewError creates a typed error.
func NewError(kind ErrorKind, op, message string, err error) *Error {
	return &Error{Kind: kind, Op: op, Message: message, Err: err}
}

// ValidationError creates a validation failure wrapping ErrInvalidInput.
func ValidationError(op, format string, args ...any) *Error {
	return &Error{Kind: KindValidation, Op: op, Message: fmt.Sprintf(format, args...), Err: ErrInvalidInput}
}

// KindOf returns the kind of err, or KindPersistence when err carries no kind.
// Missing entities are reported as KindNotFound even when untyped.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	if errors.Is(err, ErrNotFound) {
		return KindNotFound
	}
	if errors.Is(err, ErrInvalidInput) {
		return KindValidation
	}
	return KindPersistence
}

// HTTPStatus maps a kind to the status code request surfaces respond with.
func HTTPStatus(kind ErrorKind) int {
	switch kind {
	case KindValidation:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindContentExtraction:
		return http.StatusUnprocessableEntity
	case KindUpstreamProvider:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// Title returns the display prefix used when a kind is shown to users.
func (k ErrorKind) Title() string {
	switch k {
	case KindValidation:
		return "Validation Error"
	case KindNotFound:
		return "Not Found"
	case KindContentExtraction:
		return "File Processing Error"
	case KindUpstreamProvider:
		return "Provider Error"
	default:
		return "Database Error"
	}
}
