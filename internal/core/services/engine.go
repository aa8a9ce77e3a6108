package services

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/custodia-labs/recall-cli/internal/core/domain"
	"github.com/custodia-labs/recall-cli/internal/core/ports/driven"
	"github.com/custodia-labs/recall-cli/internal/core/ports/driving"
	"github.com/custodia-labs/recall-cli/internal/logger"
)

// Ensure Engine implements the interface.
var _ driving.Engine = (*Engine)(nil)

// noResultsAnswer is returned when retrieval finds nothing relevant.
const noResultsAnswer = "I couldn't find any relevant information in your documents to answer this question."

// defaultAnswerPrompt is the fallback preamble when no PromptStore is
// configured or the prompt cannot be loaded.
//
//nolint:lll // Prompt content is intentionally long and should not be wrapped.
const defaultAnswerPrompt = `You are a helpful AI assistant that answers questions based ONLY on the provided context.

IMPORTANT RULES:
1. Answer ONLY using information from the context below
2. If the context doesn't contain relevant information, say "I don't have information about that in the uploaded documents"
3. Cite sources by mentioning the source name and page/slide number when possible
4. Be concise but thorough`

// sourcePreviewLength bounds citation text previews.
const sourcePreviewLength = 200

// EngineConfig holds tuning for the query engine.
type EngineConfig struct {
	// TopK is the default retrieval depth (default: 5).
	TopK int

	// Temperature for answer generation. Nil selects the default of
	// 0.1; pointing at zero requests fully deterministic sampling.
	Temperature *float64

	// MaxTokens bounds answer length (default: 1024).
	MaxTokens int

	// MemoryWindow is the number of question/answer pairs retained
	// (default: 3).
	MemoryWindow int
}

// Engine answers questions grounded in the indexed documents. One
// instance holds one session's conversation memory.
type Engine struct {
	index   driven.VectorIndex
	llm     driven.LLMService
	prompts driven.PromptStore
	memory  *conversationMemory

	topK        int
	temperature float64
	maxTokens   int
}

// NewEngine creates a query engine. The prompt store is optional.
func NewEngine(
	index driven.VectorIndex,
	llm driven.LLMService,
	prompts driven.PromptStore,
	cfg EngineConfig,
) *Engine {
	if cfg.TopK <= 0 {
		cfg.TopK = 5
	}
	temperature := 0.1
	if cfg.Temperature != nil {
		temperature = *cfg.Temperature
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = 1024
	}
	if cfg.MemoryWindow <= 0 {
		cfg.MemoryWindow = 3
	}

	return &Engine{
		index:       index,
		llm:         llm,
		prompts:     prompts,
		memory:      newConversationMemory(cfg.MemoryWindow),
		topK:        cfg.TopK,
		temperature: temperature,
		maxTokens:   cfg.MaxTokens,
	}
}

// Query answers a question grounded in the indexed documents. It never
// fails: retrieval misses and model errors surface through Answer.
func (e *Engine) Query(ctx context.Context, question string, opts domain.QueryOptions) domain.QueryResult {
	logger.Section("Query")
	logger.Debug("Question: %q", question)

	topK := opts.TopK
	if topK <= 0 {
		topK = e.topK
	}

	results, err := e.index.Search(ctx, question, domain.SearchOptions{TopK: topK})
	if err != nil {
		logger.Warn("Search failed: %v", err)
		return errorResult(question, err)
	}

	if len(results) == 0 {
		logger.Debug("No relevant documents found")
		return domain.QueryResult{
			Answer:  noResultsAnswer,
			Sources: []domain.SourceCitation{},
			Query:   question,
		}
	}

	prompt := e.buildPrompt(question, buildContext(results), opts.UseMemory)

	logger.Debug("Generating answer (%d retrieved passages)", len(results))
	answer, err := e.llm.Complete(ctx, prompt, driven.CompleteOptions{
		Temperature: e.temperature,
		MaxTokens:   e.maxTokens,
	})
	if err != nil {
		logger.Warn("Completion failed: %v", err)
		return errorResult(question, err)
	}
	answer = strings.TrimSpace(answer)

	if opts.UseMemory {
		e.memory.record(question, answer)
	}

	logger.Debug("Query completed with %d sources", len(results))
	return domain.QueryResult{
		Answer:  answer,
		Sources: formatSources(results),
		Query:   question,
	}
}

// Memory returns a copy of the session's conversation history.
func (e *Engine) Memory() []domain.ConversationTurn {
	return e.memory.snapshot()
}

// ClearMemory empties the session's conversation history.
func (e *Engine) ClearMemory() {
	e.memory.clear()
	logger.Debug("Conversation memory cleared")
}

// errorResult wraps a failure into a user-visible answer.
func errorResult(question string, err error) domain.QueryResult {
	return domain.QueryResult{
		Answer:  fmt.Sprintf("Error processing query: %v", err),
		Sources: []domain.SourceCitation{},
		Query:   question,
	}
}

// buildContext renders retrieved passages into the grounding block,
// one numbered source header per passage.
func buildContext(results []domain.SearchResult) string {
	parts := make([]string, len(results))
	for i, r := range results {
		sourceName := r.Metadata.Source
		if sourceName == "" {
			sourceName = "Unknown"
		}

		locus := ""
		if r.Metadata.Page > 0 {
			locus = fmt.Sprintf(", Page %d", r.Metadata.Page)
		} else if r.Metadata.Slide > 0 {
			locus = fmt.Sprintf(", Slide %d", r.Metadata.Slide)
		}

		parts[i] = fmt.Sprintf("[Source %d: %s%s] (Relevance: %.2f)\n%s\n",
			i+1, sourceName, locus, r.Score, r.Text)
	}
	return strings.Join(parts, "\n---\n")
}

// buildPrompt assembles the full completion prompt: preamble, context,
// optional conversation history, and the question.
func (e *Engine) buildPrompt(question, context string, useMemory bool) string {
	var sb strings.Builder

	sb.WriteString(e.answerPreamble())
	sb.WriteString("\n\nCONTEXT:\n")
	sb.WriteString(context)
	sb.WriteString("\n\n")

	if useMemory {
		if turns := e.memory.snapshot(); len(turns) > 0 {
			sb.WriteString("PREVIOUS CONVERSATION:\n")
			for _, turn := range turns {
				fmt.Fprintf(&sb, "%s: %s\n", strings.ToUpper(turn.Role), turn.Content)
			}
			sb.WriteString("\n")
		}
	}

	fmt.Fprintf(&sb, "QUESTION: %s\n\nANSWER:", question)
	return sb.String()
}

// answerPreamble loads the instruction preamble, falling back to the
// embedded default.
func (e *Engine) answerPreamble() string {
	if e.prompts == nil {
		return defaultAnswerPrompt
	}
	prompt, err := e.prompts.Load(driven.PromptAnswerSystem)
	if err != nil {
		return defaultAnswerPrompt
	}
	return prompt
}

// formatSources projects retrieval hits into display-oriented citations.
func formatSources(results []domain.SearchResult) []domain.SourceCitation {
	sources := make([]domain.SourceCitation, len(results))
	for i, r := range results {
		filename := r.Metadata.Source
		if filename == "" {
			filename = "Unknown"
		}

		preview := r.Text
		if truncated := truncateRunes(preview, sourcePreviewLength); truncated != preview {
			preview = truncated + "..."
		}

		sources[i] = domain.SourceCitation{
			Filename:     filename,
			TextPreview:  preview,
			Score:        roundTo(r.Score, 3),
			ScorePercent: roundTo(r.Score*100, 1),
			Page:         r.Metadata.Page,
			Slide:        r.Metadata.Slide,
		}
	}
	return sources
}

// roundTo rounds x to the given number of decimal places.
func roundTo(x float64, places int) float64 {
	factor := math.Pow(10, float64(places))
	return math.Round(x*factor) / factor
}

// truncateRunes cuts s to at most limit characters without splitting a
// multi-byte rune.
func truncateRunes(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
