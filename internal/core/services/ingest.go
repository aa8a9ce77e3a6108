package services

import (
	"context"
	"fmt"

	"github.com/custodia-labs/recall-cli/internal/core/domain"
	"github.com/custodia-labs/recall-cli/internal/core/ports/driven"
	"github.com/custodia-labs/recall-cli/internal/core/ports/driving"
	"github.com/custodia-labs/recall-cli/internal/logger"
)

// Ensure IngestService implements the interface.
var _ driving.Ingestor = (*IngestService)(nil)

// Splitter turns parsed documents into indexable chunks.
type Splitter interface {
	SplitAll(docs []domain.Document) []domain.Chunk
}

// IngestService parses, chunks and indexes documents.
type IngestService struct {
	parsers  driven.ParserRegistry
	splitter Splitter
	index    driven.VectorIndex
}

// NewIngestService creates an ingestion service.
func NewIngestService(parsers driven.ParserRegistry, splitter Splitter, index driven.VectorIndex) *IngestService {
	return &IngestService{
		parsers:  parsers,
		splitter: splitter,
		index:    index,
	}
}

// IngestFiles validates, parses, chunks and indexes the given files as
// one batch. Any failure aborts the whole batch so the index never
// holds a half-written file set.
func (s *IngestService) IngestFiles(ctx context.Context, paths []string) (domain.IngestReport, error) {
	logger.Section("Ingestion")
	logger.Debug("Ingesting %d files", len(paths))

	var docs []domain.Document
	for _, path := range paths {
		parsed, err := s.parsers.Parse(ctx, path)
		if err != nil {
			return domain.IngestReport{}, fmt.Errorf("parsing %s: %w", path, err)
		}
		if len(parsed) == 0 {
			logger.Warn("No content extracted from %s", path)
		}
		docs = append(docs, parsed...)
	}

	report, err := s.IngestDocuments(ctx, docs)
	if err != nil {
		return domain.IngestReport{}, err
	}
	report.Files = len(paths)
	return report, nil
}

// IngestDocuments chunks and indexes pre-parsed documents.
func (s *IngestService) IngestDocuments(ctx context.Context, docs []domain.Document) (domain.IngestReport, error) {
	chunks := s.splitter.SplitAll(docs)

	if _, err := s.index.Index(ctx, chunks); err != nil {
		return domain.IngestReport{}, fmt.Errorf("indexing %d chunks: %w", len(chunks), err)
	}

	logger.Debug("Indexed %d chunks from %d documents", len(chunks), len(docs))
	return domain.IngestReport{
		Documents: len(docs),
		Chunks:    len(chunks),
	}, nil
}
