// Package driven provides interfaces for infrastructure adapters (secondary/outbound ports).
package driven

import "context"

// Embedder converts text into fixed-dimension vectors for semantic search.
//
// Implementations load their model lazily on first use; concurrent first
// callers must not trigger duplicate loads. A load failure surfaces as a
// wrapped domain.ErrEmbedding from every call.
//
// Empty or whitespace-only input embeds to the zero vector of
// Dimensions() length, never an error.
type Embedder interface {
	// Embed generates a vector embedding for the given text.
	Embed(ctx context.Context, text string) ([]float32, error)

	// EmbedBatch generates embeddings for multiple texts. The result is
	// order-preserving and has the same length as the input, including
	// zero-vector entries for empty strings.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)

	// EmbedQuery generates an embedding for a search query. By default
	// identical to Embed; models with a distinct query mode may differ.
	EmbedQuery(ctx context.Context, text string) ([]float32, error)

	// Dimensions returns the embedding vector size (e.g. 384, 768).
	// Constant across all calls for a given model.
	Dimensions() int

	// ModelName returns the name of the embedding model being used.
	ModelName() string

	// Close releases resources.
	Close() error
}
