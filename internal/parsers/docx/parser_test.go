package docx

import (
	"archive/zip"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/recall-cli/internal/core/domain"
)

const documentXMLBody = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <w:body>
    <w:p><w:r><w:t>First paragraph.</w:t></w:r></w:p>
    <w:p><w:r><w:t>Second </w:t></w:r><w:r><w:t>paragraph.</w:t></w:r></w:p>
  </w:body>
</w:document>`

func writeDocx(t *testing.T, name string, parts map[string]string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)

	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	w := zip.NewWriter(f)
	for partName, content := range parts {
		pw, err := w.Create(partName)
		require.NoError(t, err)
		_, err = pw.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return path
}

func TestExtensions(t *testing.T) {
	assert.Equal(t, []string{".docx"}, New().Extensions())
}

func TestParseExtractsParagraphs(t *testing.T) {
	path := writeDocx(t, "report.docx", map[string]string{
		"word/document.xml": documentXMLBody,
		"[Content_Types].xml": `<Types/>`,
	})

	docs, err := New().Parse(context.Background(), path)
	require.NoError(t, err)
	require.Len(t, docs, 1)

	assert.Equal(t, "First paragraph. Second paragraph.", docs[0].Text)
	assert.Equal(t, "report.docx", docs[0].Metadata.Source)
	assert.Equal(t, ".docx", docs[0].Metadata.FileType)
}

func TestParseMissingDocumentPart(t *testing.T) {
	path := writeDocx(t, "hollow.docx", map[string]string{
		"[Content_Types].xml": `<Types/>`,
	})

	docs, err := New().Parse(context.Background(), path)
	require.NoError(t, err)
	assert.Empty(t, docs)
}

func TestParseNotAnArchive(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fake.docx")
	require.NoError(t, os.WriteFile(path, []byte("plain text, not a zip"), 0o644))

	_, err := New().Parse(context.Background(), path)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}