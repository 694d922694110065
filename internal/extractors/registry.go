package extractors

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/custodia-labs/codeaid/internal/core/domain"
	"github.com/custodia-labs/codeaid/internal/core/ports/driven"
	"github.com/custodia-labs/codeaid/internal/extractors/docx"
	"github.com/custodia-labs/codeaid/internal/extractors/filetype"
	"github.com/custodia-labs/codeaid/internal/extractors/pdf"
	"github.com/custodia-labs/codeaid/internal/extractors/plaintext"
	"github.com/custodia-labs/codeaid/internal/extractors/xlsx"
)

// Ensure Registry implements the interface.
var _ driven.TextExtractor = (*Registry)(nil)

// Registry dispatches files to the first extractor that handles them.
type Registry struct {
	extractors []driven.TextExtractor
}

// NewRegistry creates a registry holding extractors in priority order.
func NewRegistry(extractors ...driven.TextExtractor) *Registry {
	return &Registry{extractors: extractors}
}

// Default returns a registry with every built-in extractor.
func Default() *Registry {
	return NewRegistry(
		docx.New(),
		xlsx.New(),
		pdf.New(),
		plaintext.New(),
	)
}

// SupportedMIMETypes returns the MIME types of all registered extractors.
func (r *Registry) SupportedMIMETypes() []string {
	var out []string
	for _, e := range r.extractors {
		for _, t := range e.SupportedMIMETypes() {
			if !slices.Contains(out, t) {
				out = append(out, t)
			}
		}
	}
	return out
}

// SupportedExtensions returns the extensions of all registered extractors.
func (r *Registry) SupportedExtensions() []string {
	var out []string
	for _, e := range r.extractors {
		for _, ext := range e.SupportedExtensions() {
			if !slices.Contains(out, ext) {
				out = append(out, ext)
			}
		}
	}
	return out
}

// Supports reports whether any extractor handles the file.
func (r *Registry) Supports(contentType, filename string) bool {
	return r.find(contentType, filename) != nil
}

// Extract runs the matching extractor.
func (r *Registry) Extract(ctx context.Context, file domain.UploadedFile) (string, error) {
	e := r.find(file.ContentType, file.Filename)
	if e == nil {
		return "", fmt.Errorf("%w: %s (%s). Supported formats: %s",
			domain.ErrUnsupportedType, file.Filename, file.ContentType, strings.Join(r.SupportedExtensions(), ", "))
	}
	return e.Extract(ctx, file)
}

// find prefers an extension match so that files sent as
// application/octet-stream still reach the right extractor.
func (r *Registry) find(contentType, filename string) driven.TextExtractor {
	for _, e := range r.extractors {
		if filetype.MatchExtension(filename, e.SupportedExtensions()) {
			return e
		}
	}
	for _, e := range r.extractors {
		if e.Supports(contentType, "") {
			return e
		}
	}
	return nil
}
