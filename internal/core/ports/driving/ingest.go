package driving

import (
	"context"

	"github.com/custodia-labs/recall-cli/internal/core/domain"
)

// Ingestor loads documents into the vector index.
type Ingestor interface {
	// IngestFiles validates, parses, chunks and indexes the given
	// files as one batch. All chunks are written with a single index
	// call; any failure aborts the whole batch.
	IngestFiles(ctx context.Context, paths []string) (domain.IngestReport, error)

	// IngestDocuments chunks and indexes pre-parsed documents, the
	// boundary used by external format parsers.
	IngestDocuments(ctx context.Context, docs []domain.Document) (domain.IngestReport, error)
}
