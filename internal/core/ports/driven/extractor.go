package driven

import (
	"context"

	"github.com/custodia-labs/codeaid/internal/core/domain"
)

// TextExtractor turns an uploaded file into plain text.
// Each extractor handles specific MIME types and file extensions.
type TextExtractor interface {
	// SupportedMIMETypes returns the MIME types this extractor handles.
	SupportedMIMETypes() []string

	// SupportedExtensions returns lower-case file extensions, with the dot.
	SupportedExtensions() []string

	// Supports reports whether the file can be extracted.
	Supports(contentType, filename string) bool

	// Extract returns the file's text. Unsupported or unreadable files
	// fail with an error wrapping domain.ErrUnsupportedType or the cause.
	Extract(ctx context.Context, file domain.UploadedFile) (string, error)
}
