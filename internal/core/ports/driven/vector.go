package driven

import (
	"context"

	"github.com/custodia-labs/recall-cli/internal/core/domain"
)

// VectorIndex persists chunks with their embeddings and serves
// similarity search.
//
// Implementations must survive process restart: reopening the same
// location serves searches identically to the just-written index.
// Writes (Index, DeleteBySource, ClearAll) are mutually exclusive with
// each other and with reads; reads may run concurrently.
type VectorIndex interface {
	// Index embeds and persists the given chunks in one batch. Prior
	// entries for the same source filenames are replaced. Returns
	// false without error on empty input.
	Index(ctx context.Context, chunks []domain.Chunk) (bool, error)

	// Search embeds the query and returns the passages most similar to
	// it, ordered by descending cosine similarity, with scores below
	// the configured threshold removed and at most opts.TopK entries.
	// An empty or uninitialised index yields an empty slice, not an
	// error.
	Search(ctx context.Context, query string, opts domain.SearchOptions) ([]domain.SearchResult, error)

	// DeleteBySource removes every chunk originating from the given
	// source filename.
	DeleteBySource(ctx context.Context, source string) error

	// ClearAll destructively removes all entries, leaving an empty
	// index with the same configuration. Safe to call when already
	// empty.
	ClearAll(ctx context.Context) error

	// Count returns the number of indexed chunks, read from the
	// persisted store.
	Count(ctx context.Context) (int, error)

	// Stats returns a read-only snapshot for observability.
	Stats(ctx context.Context) (domain.IndexStats, error)

	// Sources returns the distinct source filenames present in the
	// index, sorted.
	Sources(ctx context.Context) ([]string, error)

	// Close releases resources.
	Close() error
}
