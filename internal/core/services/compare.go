package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/custodia-labs/recall-cli/internal/core/domain"
	"github.com/custodia-labs/recall-cli/internal/core/ports/driven"
	"github.com/custodia-labs/recall-cli/internal/core/ports/driving"
	"github.com/custodia-labs/recall-cli/internal/logger"
)

// Ensure CompareService implements the interface.
var _ driving.Comparer = (*CompareService)(nil)

// Retrieval and generation tuning for comparisons.
const (
	// compareSearchDepth is how many passages to retrieve per document
	// before filtering to that document.
	compareSearchDepth = 20

	// compareChunksPerDoc is how many of a document's passages make it
	// into the comparison context.
	compareChunksPerDoc = 5

	// compareContextLimit caps each document's context in the prompt.
	compareContextLimit = 1500

	compareTemperature = 0.3
	compareMaxTokens   = 1500
)

// aspectInstructions maps each comparison aspect to its prompt
// instruction.
var aspectInstructions = map[domain.CompareAspect]string{
	domain.AspectGeneral:     "Compare the overall content, themes, and main points",
	domain.AspectMethodology: "Compare the methodologies, approaches, and techniques used",
	domain.AspectFindings:    "Compare the key findings, results, and conclusions",
	domain.AspectStructure:   "Compare the structure, organization, and format",
	domain.AspectTone:        "Compare the writing style, tone, and intended audience",
	domain.AspectTimeline:    "Compare any dates, timelines, or chronological aspects",
	domain.AspectAuthors:     "Compare authorship, credentials, and perspectives",
}

// CompareService generates aspect-focused comparisons between indexed
// documents.
type CompareService struct {
	index driven.VectorIndex
	llm   driven.LLMService
}

// NewCompareService creates a document comparison service.
func NewCompareService(index driven.VectorIndex, llm driven.LLMService) *CompareService {
	return &CompareService{
		index: index,
		llm:   llm,
	}
}

// Compare retrieves content for each named document and generates an
// aspect-focused comparison.
func (s *CompareService) Compare(ctx context.Context, docNames []string, aspect domain.CompareAspect) (domain.Comparison, error) {
	logger.Section("Document Comparison")
	logger.Debug("Documents: %v, aspect: %s", docNames, aspect)

	if len(docNames) < 2 {
		return domain.Comparison{}, fmt.Errorf(
			"%w: select at least 2 documents, got %d", domain.ErrInsufficientDocuments, len(docNames))
	}
	if !aspect.IsValid() {
		aspect = domain.AspectGeneral
	}

	// Pull each document's most representative passages.
	contexts := make(map[string]string)
	var found []string
	for _, name := range docNames {
		context, err := s.documentContext(ctx, name)
		if err != nil {
			return domain.Comparison{}, fmt.Errorf("retrieving content for %s: %w", name, err)
		}
		if context == "" {
			logger.Warn("No content found for %s", name)
			continue
		}
		contexts[name] = context
		found = append(found, name)
	}

	if len(found) < 2 {
		return domain.Comparison{}, &domain.InsufficientDataError{Found: found}
	}

	prompt := buildComparisonPrompt(found, contexts, aspect)

	text, err := s.llm.Complete(ctx, prompt, driven.CompleteOptions{
		Temperature: compareTemperature,
		MaxTokens:   compareMaxTokens,
	})
	if err != nil {
		return domain.Comparison{}, fmt.Errorf("generating comparison: %w", err)
	}

	logger.Debug("Comparison generated for %d documents", len(found))
	return domain.Comparison{
		Text:      strings.TrimSpace(text),
		Documents: found,
		Aspect:    aspect,
	}, nil
}

// AvailableDocuments lists the source filenames present in the index.
func (s *CompareService) AvailableDocuments(ctx context.Context) ([]string, error) {
	return s.index.Sources(ctx)
}

// documentContext retrieves a document's top passages joined into one
// context block. Empty means the document has no indexed content.
func (s *CompareService) documentContext(ctx context.Context, name string) (string, error) {
	results, err := s.index.Search(ctx,
		fmt.Sprintf("content from document %s", name),
		domain.SearchOptions{TopK: compareSearchDepth, Source: name})
	if err != nil {
		return "", err
	}

	if len(results) > compareChunksPerDoc {
		results = results[:compareChunksPerDoc]
	}

	texts := make([]string, len(results))
	for i, r := range results {
		texts[i] = r.Text
	}
	return strings.Join(texts, "\n\n"), nil
}

// buildComparisonPrompt assembles the comparison prompt: format
// instructions first, then each document's content.
func buildComparisonPrompt(names []string, contexts map[string]string, aspect domain.CompareAspect) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "You are comparing multiple documents. %s.\n\n", aspectInstructions[aspect])
	sb.WriteString("Provide your comparison in this clear format:\n\n")
	sb.WriteString("**SIMILARITIES:**\n- List all key similarities between the documents\n\n")
	sb.WriteString("**DIFFERENCES:**\n- List all notable differences\n\n")
	sb.WriteString("**UNIQUE TO EACH DOCUMENT:**\n")

	for _, name := range names {
		fmt.Fprintf(&sb, "\n**%s:**\n- Unique aspects or content\n", name)
	}

	sb.WriteString("\n\n---\n\n**DOCUMENT CONTENTS:**\n\n")

	for _, name := range names {
		context := truncateRunes(contexts[name], compareContextLimit)
		fmt.Fprintf(&sb, "### Document: %s\n%s\n\n---\n\n", name, context)
	}

	sb.WriteString("\nProvide a detailed, structured comparison following the format above:")
	return sb.String()
}
