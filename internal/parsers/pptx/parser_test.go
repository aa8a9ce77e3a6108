package pptx

import (
	"archive/zip"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/recall-cli/internal/core/domain"
)

func slideXMLWith(texts ...string) string {
	body := ""
	for _, text := range texts {
		body += fmt.Sprintf(`<p:sp><p:txBody><a:p><a:r><a:t>%s</a:t></a:r></a:p></p:txBody></p:sp>`, text)
	}
	return `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<p:sld xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main"
       xmlns:p="http://schemas.openxmlformats.org/presentationml/2006/main">
  <p:cSld><p:spTree>` + body + `</p:spTree></p:cSld>
</p:sld>`
}

func writePptx(t *testing.T, name string, parts map[string]string) string {
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
	assert.Equal(t, []string{".pptx"}, New().Extensions())
}

func TestParseOrdersSlides(t *testing.T) {
	// Slide 10 after slide 2 checks numeric, not lexical, ordering.
	path := writePptx(t, "deck.pptx", map[string]string{
		"ppt/slides/slide10.xml": slideXMLWith("Closing remarks"),
		"ppt/slides/slide1.xml":  slideXMLWith("Title", "Subtitle"),
		"ppt/slides/slide2.xml":  slideXMLWith("Agenda"),
		"ppt/notesSlides/notesSlide1.xml": slideXMLWith("speaker notes"),
	})

	docs, err := New().Parse(context.Background(), path)
	require.NoError(t, err)
	require.Len(t, docs, 3)

	assert.Equal(t, "Title Subtitle", docs[0].Text)
	assert.Equal(t, 1, docs[0].Metadata.Slide)
	assert.Equal(t, "Agenda", docs[1].Text)
	assert.Equal(t, 2, docs[1].Metadata.Slide)
	assert.Equal(t, "Closing remarks", docs[2].Text)
	assert.Equal(t, 10, docs[2].Metadata.Slide)

	for _, doc := range docs {
		assert.Equal(t, "deck.pptx", doc.Metadata.Source)
		assert.Equal(t, ".pptx", doc.Metadata.FileType)
	}
}

func TestParseSkipsEmptySlides(t *testing.T) {
	path := writePptx(t, "sparse.pptx", map[string]string{
		"ppt/slides/slide1.xml": slideXMLWith("Only slide with text"),
		"ppt/slides/slide2.xml": slideXMLWith(),
	})

	docs, err := New().Parse(context.Background(), path)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, 1, docs[0].Metadata.Slide)
}

func TestParseNotAnArchive(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fake.pptx")
	require.NoError(t, os.WriteFile(path, []byte("not a zip"), 0o644))

	_, err := New().Parse(context.Background(), path)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}