package driven

import (
	"context"

	"github.com/custodia-labs/recall-cli/internal/core/domain"
)

// DocumentParser extracts text and structural metadata from one source
// file. Parsers for binary formats are external collaborators; the core
// only sees the parsed records.
type DocumentParser interface {
	// Extensions lists the file extensions (with dot) this parser handles.
	Extensions() []string

	// Parse reads the file and returns one Document per page, slide or
	// file, each carrying source and file type metadata.
	Parse(ctx context.Context, path string) ([]domain.Document, error)
}

// ParserRegistry dispatches files to the parser registered for their
// extension.
type ParserRegistry interface {
	// Parse validates the file and hands it to the matching parser.
	// Unsupported extensions yield domain.ErrUnsupportedFile; files over
	// the size limit yield domain.ErrFileTooLarge.
	Parse(ctx context.Context, path string) ([]domain.Document, error)

	// Register adds a parser for each extension it reports.
	Register(parser DocumentParser)

	// SupportedExtensions returns all registered extensions.
	SupportedExtensions() []string
}
