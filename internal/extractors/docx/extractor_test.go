package docx

import (
	"archive/zip"
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/codeaid/internal/core/domain"
)

const wordNS = `xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"`

// buildDocx zips the given parts into a DOCX archive.
func buildDocx(t *testing.T, parts map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, content := range parts {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func extract(t *testing.T, data []byte) (string, error) {
	t.Helper()
	return New().Extract(context.Background(), domain.UploadedFile{
		Filename:    "guide.docx",
		ContentType: MIMEType,
		Data:        data,
	})
}

func TestSupports(t *testing.T) {
	e := New()

	assert.True(t, e.Supports(MIMEType, "x"))
	assert.True(t, e.Supports("application/octet-stream", "Runbook.DOCX"))
	assert.False(t, e.Supports("text/plain", "notes.txt"))
	assert.False(t, e.Supports("application/msword", "old.doc"))
}

func TestExtract_Paragraphs(t *testing.T) {
	doc := `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:document ` + wordNS + `><w:body>
<w:p><w:r><w:t>Deploy </w:t></w:r><w:r><w:t>steps</w:t></w:r></w:p>
<w:p><w:r><w:t>Step</w:t><w:tab/><w:t>one</w:t></w:r></w:p>
<w:p><w:r><w:t>line</w:t><w:br/><w:t>break</w:t></w:r></w:p>
</w:body></w:document>`

	got, err := extract(t, buildDocx(t, map[string]string{"word/document.xml": doc}))

	require.NoError(t, err)
	assert.Equal(t, "Deploy steps\nStep\tone\nline\nbreak", got)
}

func TestExtract_Tables(t *testing.T) {
	doc := `<w:document ` + wordNS + `><w:body>
<w:tbl><w:tr>
<w:tc><w:p><w:r><w:t>port</w:t></w:r></w:p></w:tc>
<w:tc><w:p><w:r><w:t>8080</w:t></w:r></w:p></w:tc>
</w:tr></w:tbl>
</w:body></w:document>`

	got, err := extract(t, buildDocx(t, map[string]string{"word/document.xml": doc}))

	require.NoError(t, err)
	assert.Equal(t, "port\n8080", got)
}

func TestExtract_IgnoresMarkupText(t *testing.T) {
	doc := `<w:document ` + wordNS + `><w:body>
<w:p><w:pPr><w:pStyle w:val="Heading1"/></w:pPr><w:r><w:instrText>PAGE</w:instrText><w:t>Title</w:t></w:r></w:p>
</w:body></w:document>`

	got, err := extract(t, buildDocx(t, map[string]string{"word/document.xml": doc}))

	require.NoError(t, err)
	assert.Equal(t, "Title", got)
}

func TestExtract_Errors(t *testing.T) {
	t.Run("not a zip", func(t *testing.T) {
		_, err := extract(t, []byte("plain text"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "open archive")
	})

	t.Run("missing document part", func(t *testing.T) {
		_, err := extract(t, buildDocx(t, map[string]string{"docProps/core.xml": "<x/>"}))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "not found")
	})

	t.Run("malformed xml", func(t *testing.T) {
		_, err := extract(t, buildDocx(t, map[string]string{"word/document.xml": "<w:document><w:body>"}))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "parse")
	})
}
