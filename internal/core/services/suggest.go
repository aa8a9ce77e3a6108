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

// Ensure SuggestService implements the interface.
var _ driving.Suggester = (*SuggestService)(nil)

// Retrieval and generation tuning for suggestions.
const (
	suggestSearchDepth  = 5
	suggestContextDocs  = 3
	suggestSnippetLimit = 500
	suggestTemperature  = 0.7
	suggestMaxTokens    = 300
)

// defaultSuggestPrompt is the fallback template when no PromptStore is
// configured or the prompt cannot be loaded.
const defaultSuggestPrompt = `Based on this content from %s, generate %d insightful questions.

CONTENT:
%s

Generate %d diverse questions that:
1. Are directly answerable from the content
2. Cover different aspects
3. Are natural and conversational

Format: Return ONLY the questions, one per line.`

// defaultSuggestions are served when nothing is indexed or generation
// fails.
var defaultSuggestions = []string{
	"What are the main topics covered?",
	"Can you summarize the key points?",
	"What are the most important findings?",
	"Are there any dates or statistics mentioned?",
	"Who are the key people mentioned?",
}

// SuggestService proposes questions a user could ask about their
// documents.
type SuggestService struct {
	index   driven.VectorIndex
	llm     driven.LLMService
	prompts driven.PromptStore
}

// NewSuggestService creates a question suggestion service. The prompt
// store is optional.
func NewSuggestService(index driven.VectorIndex, llm driven.LLMService, prompts driven.PromptStore) *SuggestService {
	return &SuggestService{
		index:   index,
		llm:     llm,
		prompts: prompts,
	}
}

// Suggest returns up to n question suggestions, scoped to one source
// filename when filename is non-empty. Never errors: any failure falls
// back to canned suggestions.
func (s *SuggestService) Suggest(ctx context.Context, filename string, n int) []string {
	if n <= 0 {
		n = 5
	}
	logger.Debug("Generating %d suggestions for %s", n, displayRef(filename))

	query := "main topics and key information"
	if filename != "" {
		query = fmt.Sprintf("content from %s", filename)
	}

	results, err := s.index.Search(ctx, query,
		domain.SearchOptions{TopK: suggestSearchDepth, Source: filename})
	if err != nil || len(results) == 0 {
		if err != nil {
			logger.Warn("Suggestion retrieval failed: %v", err)
		}
		return fallbackSuggestions(n)
	}

	if len(results) > suggestContextDocs {
		results = results[:suggestContextDocs]
	}
	snippets := make([]string, len(results))
	for i, r := range results {
		snippets[i] = truncateRunes(r.Text, suggestSnippetLimit)
	}
	context := strings.Join(snippets, "\n\n")

	prompt := fmt.Sprintf(s.suggestTemplate(), displayRef(filename), n, context, n)

	response, err := s.llm.Complete(ctx, prompt, driven.CompleteOptions{
		Temperature: suggestTemperature,
		MaxTokens:   suggestMaxTokens,
	})
	if err != nil {
		logger.Warn("Suggestion generation failed: %v", err)
		return fallbackSuggestions(n)
	}

	questions := parseQuestions(response, n)
	if len(questions) == 0 {
		return fallbackSuggestions(n)
	}
	return questions
}

// suggestTemplate loads the suggestion prompt template, falling back to
// the embedded default.
func (s *SuggestService) suggestTemplate() string {
	if s.prompts == nil {
		return defaultSuggestPrompt
	}
	prompt, err := s.prompts.Load(driven.PromptSuggest)
	if err != nil {
		return defaultSuggestPrompt
	}
	return prompt
}

// displayRef names the content being suggested about.
func displayRef(filename string) string {
	if filename == "" {
		return "the uploaded documents"
	}
	return fmt.Sprintf("the document '%s'", filename)
}

// parseQuestions extracts up to n questions from an LLM response, one
// per line, dropping list markers and lines without a question mark.
func parseQuestions(response string, n int) []string {
	var questions []string
	for _, line := range strings.Split(response, "\n") {
		line = strings.TrimSpace(line)
		line = strings.TrimLeft(line, "1234567890.-*• ")
		if line == "" || !strings.Contains(line, "?") {
			continue
		}
		questions = append(questions, line)
		if len(questions) == n {
			break
		}
	}
	return questions
}

// fallbackSuggestions returns up to n canned suggestions.
func fallbackSuggestions(n int) []string {
	if n > len(defaultSuggestions) {
		n = len(defaultSuggestions)
	}
	out := make([]string, n)
	copy(out, defaultSuggestions[:n])
	return out
}
