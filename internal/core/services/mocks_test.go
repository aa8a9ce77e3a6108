package services

import (
	"context"

	"github.com/custodia-labs/recall-cli/internal/core/domain"
	"github.com/custodia-labs/recall-cli/internal/core/ports/driven"
)

// mockIndex is a test double for driven.VectorIndex.
type mockIndex struct {
	searchResults map[string][]domain.SearchResult // keyed by opts.Source, "" for unscoped
	searchErr     error
	searchCalls   []searchCall

	indexedChunks []domain.Chunk
	indexErr      error

	sources []string
}

type searchCall struct {
	query string
	opts  domain.SearchOptions
}

var _ driven.VectorIndex = (*mockIndex)(nil)

func (m *mockIndex) Index(_ context.Context, chunks []domain.Chunk) (bool, error) {
	if m.indexErr != nil {
		return false, m.indexErr
	}
	m.indexedChunks = append(m.indexedChunks, chunks...)
	return len(chunks) > 0, nil
}

func (m *mockIndex) Search(_ context.Context, query string, opts domain.SearchOptions) ([]domain.SearchResult, error) {
	m.searchCalls = append(m.searchCalls, searchCall{query: query, opts: opts})
	if m.searchErr != nil {
		return nil, m.searchErr
	}
	results := m.searchResults[opts.Source]
	if opts.TopK > 0 && len(results) > opts.TopK {
		results = results[:opts.TopK]
	}
	return results, nil
}

func (m *mockIndex) DeleteBySource(context.Context, string) error { return nil }
func (m *mockIndex) ClearAll(context.Context) error               { return nil }

func (m *mockIndex) Count(context.Context) (int, error) {
	return len(m.indexedChunks), nil
}

func (m *mockIndex) Stats(context.Context) (domain.IndexStats, error) {
	return domain.IndexStats{
		TotalDocuments: len(m.indexedChunks),
		CollectionName: domain.CollectionName,
	}, nil
}

func (m *mockIndex) Sources(context.Context) ([]string, error) { return m.sources, nil }
func (m *mockIndex) Close() error                              { return nil }

// mockLLM is a test double for driven.LLMService.
type mockLLM struct {
	response string
	err      error

	prompts []string
	opts    []driven.CompleteOptions
}

var _ driven.LLMService = (*mockLLM)(nil)

func (m *mockLLM) Complete(_ context.Context, prompt string, opts driven.CompleteOptions) (string, error) {
	m.prompts = append(m.prompts, prompt)
	m.opts = append(m.opts, opts)
	if m.err != nil {
		return "", m.err
	}
	return m.response, nil
}

func (m *mockLLM) ModelName() string         { return "mock-model" }
func (m *mockLLM) Ping(context.Context) error { return nil }
func (m *mockLLM) Close() error              { return nil }

// mockPrompts is a test double for driven.PromptStore.
type mockPrompts struct {
	prompts map[string]string
}

func (m *mockPrompts) Load(name string) (string, error) {
	if prompt, ok := m.prompts[name]; ok {
		return prompt, nil
	}
	return "", domain.ErrInvalidInput
}

func (m *mockPrompts) Reload() {}

// mockParsers is a test double for driven.ParserRegistry.
type mockParsers struct {
	docs map[string][]domain.Document // keyed by path
	err  error
}

var _ driven.ParserRegistry = (*mockParsers)(nil)

func (m *mockParsers) Parse(_ context.Context, path string) ([]domain.Document, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.docs[path], nil
}

func (m *mockParsers) Register(driven.DocumentParser) {}
func (m *mockParsers) SupportedExtensions() []string  { return []string{".txt"} }

// mockSplitter is a test double for Splitter: one chunk per document.
type mockSplitter struct{}

func (mockSplitter) SplitAll(docs []domain.Document) []domain.Chunk {
	chunks := make([]domain.Chunk, len(docs))
	for i, doc := range docs {
		chunks[i] = domain.Chunk{Text: doc.Text, Metadata: doc.Metadata, ChunkIndex: i}
	}
	return chunks
}
