// Package plaintext extracts text and source code files.
package plaintext

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/custodia-labs/codeaid/internal/core/domain"
	"github.com/custodia-labs/codeaid/internal/core/ports/driven"
	"github.com/custodia-labs/codeaid/internal/extractors/filetype"
)

// Ensure Extractor implements the interface.
var _ driven.TextExtractor = (*Extractor)(nil)

const utf8BOM = "\ufeff"

// Extractor handles plain text, logs, markdown and source code.
// Any text/* MIME type is accepted.
type Extractor struct{}

// New creates a new plain text extractor.
func New() *Extractor {
	return &Extractor{}
}

// SupportedMIMETypes returns the non text/* MIME types this extractor handles.
func (e *Extractor) SupportedMIMETypes() []string {
	return []string{
		"text/plain",
		"text/markdown",
		"text/x-log",
		"text/x-python",
		"text/x-java-source",
		"text/javascript",
		"application/javascript",
		"application/typescript",
		"application/json",
		"application/x-yaml",
		"application/toml",
	}
}

// SupportedExtensions returns the file extensions this extractor handles.
func (e *Extractor) SupportedExtensions() []string {
	return []string{
		".txt", ".log", ".md",
		".js", ".ts", ".py", ".java", ".go", ".rs", ".c", ".h", ".cpp", ".rb", ".sh", ".sql",
		".json", ".yaml", ".yml", ".toml", ".ini", ".csv",
	}
}

// Supports reports whether the file is text.
func (e *Extractor) Supports(contentType, filename string) bool {
	if strings.HasPrefix(filetype.BaseMIME(contentType), "text/") {
		return true
	}
	return filetype.MatchMIME(contentType, e.SupportedMIMETypes()) ||
		filetype.MatchExtension(filename, e.SupportedExtensions())
}

// Extract decodes the file as UTF-8. A leading byte order mark is dropped
// and invalid sequences become U+FFFD.
func (e *Extractor) Extract(_ context.Context, file domain.UploadedFile) (string, error) {
	text := strings.TrimPrefix(string(file.Data), utf8BOM)
	if !utf8.ValidString(text) {
		text = strings.ToValidUTF8(text, string(utf8.RuneError))
	}
	return text, nil
}
