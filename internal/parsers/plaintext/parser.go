// Package plaintext handles plain text and Markdown documents.
package plaintext

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/custodia-labs/recall-cli/internal/core/domain"
	"github.com/custodia-labs/recall-cli/internal/core/ports/driven"
	"github.com/custodia-labs/recall-cli/internal/parsers"
)

// Ensure Parser implements the interface.
var _ driven.DocumentParser = (*Parser)(nil)

// Parser handles plain text documents. Markdown is read as-is; the
// markup survives into the index, where it rarely hurts retrieval.
type Parser struct{}

// New creates a new plain text parser.
func New() *Parser {
	return &Parser{}
}

// Extensions returns the file extensions this parser handles.
func (p *Parser) Extensions() []string {
	return []string{".txt", ".md"}
}

// Parse reads the whole file as one document.
func (p *Parser) Parse(ctx context.Context, path string) ([]domain.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	text := parsers.CleanText(string(raw))
	if text == "" {
		return nil, nil
	}

	return []domain.Document{{
		Text: text,
		Metadata: domain.Metadata{
			Source:   filepath.Base(path),
			FileType: strings.ToLower(filepath.Ext(path)),
		},
	}}, nil
}
