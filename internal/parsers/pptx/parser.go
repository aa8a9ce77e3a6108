// Package pptx extracts text from PowerPoint presentations. PPTX files
// are ZIP archives with one XML part per slide under ppt/slides/.
package pptx

import (
	"archive/zip"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/custodia-labs/recall-cli/internal/core/domain"
	"github.com/custodia-labs/recall-cli/internal/core/ports/driven"
	"github.com/custodia-labs/recall-cli/internal/parsers"
)

// Ensure Parser implements the interface.
var _ driven.DocumentParser = (*Parser)(nil)

// slideNamePattern matches slide parts and captures the slide number.
var slideNamePattern = regexp.MustCompile(`^ppt/slides/slide(\d+)\.xml$`)

// Parser handles PPTX presentations.
type Parser struct{}

// New creates a new PPTX parser.
func New() *Parser {
	return &Parser{}
}

// Extensions returns the file extensions this parser handles.
func (p *Parser) Extensions() []string {
	return []string{".pptx"}
}

// Parse returns one document per slide, in slide order, each tagged
// with its slide number.
func (p *Parser) Parse(ctx context.Context, path string) ([]domain.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	reader, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s is not a valid pptx archive", domain.ErrInvalidInput, path)
	}
	defer reader.Close()

	type slide struct {
		number int
		text   string
	}

	var slides []slide
	for _, file := range reader.File {
		m := slideNamePattern.FindStringSubmatch(file.Name)
		if m == nil {
			continue
		}
		number, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}

		rc, err := file.Open()
		if err != nil {
			return nil, fmt.Errorf("open %s in %s: %w", file.Name, path, err)
		}
		content, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return nil, fmt.Errorf("read %s in %s: %w", file.Name, path, err)
		}

		slides = append(slides, slide{number: number, text: extractSlideText(content)})
	}

	sort.Slice(slides, func(i, j int) bool { return slides[i].number < slides[j].number })

	source := filepath.Base(path)
	var docs []domain.Document
	for _, s := range slides {
		text := parsers.CleanText(s.text)
		if text == "" {
			continue
		}
		docs = append(docs, domain.Document{
			Text: text,
			Metadata: domain.Metadata{
				Source:   source,
				FileType: ".pptx",
				Slide:    s.number,
			},
		})
	}
	return docs, nil
}

// slideXML captures every a:t element in a slide, which is where
// DrawingML keeps the visible text.
type slideXML struct {
	Texts []string `xml:"cSld>spTree>sp>txBody>p>r>t"`
}

// extractSlideText pulls the visible text out of one slide part.
func extractSlideText(content []byte) string {
	var s slideXML
	if err := xml.Unmarshal(content, &s); err != nil {
		return ""
	}
	return strings.Join(s.Texts, "\n")
}
