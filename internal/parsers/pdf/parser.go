// Package pdf extracts text from PDF files by shelling out to the
// poppler pdftotext utility.
package pdf

import (
	"context"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/custodia-labs/recall-cli/internal/core/domain"
	"github.com/custodia-labs/recall-cli/internal/core/ports/driven"
	"github.com/custodia-labs/recall-cli/internal/parsers"
)

// Ensure Parser implements the interface.
var _ driven.DocumentParser = (*Parser)(nil)

// CommandRunner executes an external command and returns its stdout.
// It exists so tests can stub the pdftotext invocation.
type CommandRunner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

// execRunner runs commands via os/exec.
type execRunner struct{}

func (execRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).Output()
}

// Parser handles PDF documents.
type Parser struct {
	runner CommandRunner
}

// New creates a PDF parser backed by the real pdftotext binary.
func New() *Parser {
	return &Parser{runner: execRunner{}}
}

// NewWithRunner creates a PDF parser with a custom command runner.
func NewWithRunner(runner CommandRunner) *Parser {
	return &Parser{runner: runner}
}

// Extensions returns the file extensions this parser handles.
func (p *Parser) Extensions() []string {
	return []string{".pdf"}
}

// Parse extracts text with pdftotext and returns one document per
// page. pdftotext separates pages with form feed characters.
func (p *Parser) Parse(ctx context.Context, path string) ([]domain.Document, error) {
	out, err := p.runner.Run(ctx, "pdftotext", "-layout", path, "-")
	if err != nil {
		return nil, fmt.Errorf("pdftotext %s: %w (is poppler-utils installed?)", path, err)
	}

	source := filepath.Base(path)
	pages := strings.Split(string(out), "\f")

	var docs []domain.Document
	for i, page := range pages {
		text := parsers.CleanText(page)
		if text == "" {
			continue
		}
		docs = append(docs, domain.Document{
			Text: text,
			Metadata: domain.Metadata{
				Source:   source,
				FileType: ".pdf",
				Page:     i + 1,
			},
		})
	}
	return docs, nil
}
