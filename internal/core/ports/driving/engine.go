// Package driving provides interfaces for application entry points (primary/inbound ports).
package driving

import (
	"context"

	"github.com/custodia-labs/recall-cli/internal/core/domain"
)

// Engine is the top-level question answering contract: question in,
// answer plus sources out.
//
// One Engine instance holds one session's conversation memory; the
// vector index and embedder behind it are process-wide and shared.
type Engine interface {
	// Query answers a question grounded in the indexed documents.
	// It never fails: retrieval misses and language model errors are
	// reported through the returned result's Answer field.
	Query(ctx context.Context, question string, opts domain.QueryOptions) domain.QueryResult

	// Memory returns a copy of the session's conversation history,
	// oldest first.
	Memory() []domain.ConversationTurn

	// ClearMemory empties the session's conversation history.
	ClearMemory()
}

// Comparer compares the content of two or more indexed documents.
type Comparer interface {
	// Compare retrieves content for each named document and generates
	// an aspect-focused comparison. Fails with an
	// *domain.InsufficientDataError when fewer than two of the
	// requested documents have indexed content.
	Compare(ctx context.Context, docNames []string, aspect domain.CompareAspect) (domain.Comparison, error)

	// AvailableDocuments lists the source filenames present in the
	// index, sorted.
	AvailableDocuments(ctx context.Context) ([]string, error)
}

// Suggester proposes questions a user could ask about their documents.
type Suggester interface {
	// Suggest returns up to n question suggestions, scoped to one
	// source filename when filename is non-empty. Falls back to canned
	// suggestions on any failure; never errors.
	Suggest(ctx context.Context, filename string, n int) []string
}
