// Package xlsx extracts the cell text of Excel workbooks.
package xlsx

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/custodia-labs/codeaid/internal/core/domain"
	"github.com/custodia-labs/codeaid/internal/core/ports/driven"
	"github.com/custodia-labs/codeaid/internal/extractors/filetype"
)

// Ensure Extractor implements the interface.
var _ driven.TextExtractor = (*Extractor)(nil)

// MIMEType is the Office Open XML spreadsheet type.
const MIMEType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Extractor handles XLSX workbooks.
type Extractor struct{}

// New creates a new XLSX extractor.
func New() *Extractor {
	return &Extractor{}
}

// SupportedMIMETypes returns the MIME types this extractor handles.
func (e *Extractor) SupportedMIMETypes() []string {
	return []string{MIMEType}
}

// SupportedExtensions returns the file extensions this extractor handles.
func (e *Extractor) SupportedExtensions() []string {
	return []string{".xlsx"}
}

// Supports reports whether the file is an XLSX workbook.
func (e *Extractor) Supports(contentType, filename string) bool {
	return filetype.MatchMIME(contentType, e.SupportedMIMETypes()) ||
		filetype.MatchExtension(filename, e.SupportedExtensions())
}

// Extract renders every sheet, in workbook order, as a "[Sheet: name]"
// line followed by its rows with cells separated by tabs. Sheets are
// separated by a blank line.
func (e *Extractor) Extract(_ context.Context, file domain.UploadedFile) (string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(file.Data))
	if err != nil {
		return "", fmt.Errorf("xlsx: open workbook: %w", err)
	}
	defer func() { _ = f.Close() }()

	sheets := f.GetSheetList()
	parts := make([]string, 0, len(sheets))
	for _, sheet := range sheets {
		rows, err := f.GetRows(sheet)
		if err != nil {
			return "", fmt.Errorf("xlsx: read sheet %q: %w", sheet, err)
		}
		parts = append(parts, renderSheet(sheet, rows))
	}
	return strings.Join(parts, "\n\n"), nil
}

func renderSheet(name string, rows [][]string) string {
	var b strings.Builder
	b.WriteString("[Sheet: ")
	b.WriteString(name)
	b.WriteString("]\n")
	for i, row := range rows {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(strings.Join(row, "\t"))
	}
	return b.String()
}
