package plaintext

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/codeaid/internal/core/domain"
)

func TestSupports(t *testing.T) {
	e := New()

	tests := []struct {
		name        string
		contentType string
		filename    string
		want        bool
	}{
		{name: "text/plain", contentType: "text/plain", filename: "a", want: true},
		{name: "any text type", contentType: "text/x-weird; charset=utf-8", filename: "a", want: true},
		{name: "javascript mime", contentType: "application/javascript", filename: "a", want: true},
		{name: "python by extension", contentType: "application/octet-stream", filename: "main.py", want: true},
		{name: "upper-case extension", contentType: "", filename: "APP.LOG", want: true},
		{name: "typescript", contentType: "", filename: "index.ts", want: true},
		{name: "pdf", contentType: "application/pdf", filename: "a.pdf", want: false},
		{name: "no hints", contentType: "", filename: "Makefile", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, e.Supports(tt.contentType, tt.filename))
		})
	}
}

func TestExtract(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want string
	}{
		{name: "plain", data: []byte("func main() {}\n"), want: "func main() {}\n"},
		{name: "bom", data: []byte("\xef\xbb\xbfhello"), want: "hello"},
		{name: "invalid utf8", data: []byte("ok\xffok"), want: "ok\uFFFDok"},
		{name: "multibyte", data: []byte("héllo ✓"), want: "héllo ✓"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := New().Extract(context.Background(), domain.UploadedFile{
				Filename: "f.txt",
				Data:     tt.data,
			})
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSupportedExtensions_IncludesOriginalSet(t *testing.T) {
	exts := New().SupportedExtensions()
	for _, ext := range []string{".txt", ".js", ".ts", ".py", ".java", ".log", ".md"} {
		assert.Contains(t, exts, ext)
	}
}
