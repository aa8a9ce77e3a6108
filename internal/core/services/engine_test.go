package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/recall-cli/internal/core/domain"
)

func policyResults() []domain.SearchResult {
	return []domain.SearchResult{
		{
			Text:     "The refund window is 30 days.",
			Metadata: domain.Metadata{Source: "policy.txt", FileType: ".txt", Page: 2},
			Score:    0.9234,
		},
		{
			Text:     "Returns require the original receipt.",
			Metadata: domain.Metadata{Source: "policy.txt", FileType: ".txt", Page: 3},
			Score:    0.61,
		},
	}
}

func TestQueryNoResults(t *testing.T) {
	index := &mockIndex{}
	llm := &mockLLM{}
	engine := NewEngine(index, llm, nil, EngineConfig{})

	result := engine.Query(context.Background(), "anything at all", domain.QueryOptions{UseMemory: true})

	assert.Equal(t, noResultsAnswer, result.Answer)
	assert.Empty(t, result.Sources)
	assert.Equal(t, "anything at all", result.Query)
	assert.Empty(t, llm.prompts, "model must not be called without context")
	assert.Empty(t, engine.Memory(), "failed queries must not pollute memory")
}

func TestQueryAnswersFromContext(t *testing.T) {
	index := &mockIndex{searchResults: map[string][]domain.SearchResult{"": policyResults()}}
	llm := &mockLLM{response: "  The refund window is 30 days. \n"}
	engine := NewEngine(index, llm, nil, EngineConfig{})

	result := engine.Query(context.Background(), "how long is the refund window",
		domain.QueryOptions{UseMemory: true})

	assert.Equal(t, "The refund window is 30 days.", result.Answer)
	assert.Equal(t, "how long is the refund window", result.Query)

	require.Len(t, result.Sources, 2)
	assert.Equal(t, "policy.txt", result.Sources[0].Filename)
	assert.Equal(t, 0.923, result.Sources[0].Score)
	assert.Equal(t, 92.3, result.Sources[0].ScorePercent)
	assert.Equal(t, 2, result.Sources[0].Page)

	require.Len(t, llm.prompts, 1)
	prompt := llm.prompts[0]
	assert.Contains(t, prompt, "CONTEXT:")
	assert.Contains(t, prompt, "[Source 1: policy.txt, Page 2] (Relevance: 0.92)")
	assert.Contains(t, prompt, "[Source 2: policy.txt, Page 3] (Relevance: 0.61)")
	assert.Contains(t, prompt, "\n---\n")
	assert.True(t, strings.HasSuffix(prompt, "QUESTION: how long is the refund window\n\nANSWER:"))

	require.Len(t, llm.opts, 1)
	assert.InDelta(t, 0.1, llm.opts[0].Temperature, 1e-9)
	assert.Equal(t, 1024, llm.opts[0].MaxTokens)
}

func TestQueryZeroTemperaturePassedThrough(t *testing.T) {
	index := &mockIndex{searchResults: map[string][]domain.SearchResult{"": policyResults()}}
	llm := &mockLLM{response: "answer"}
	zero := 0.0
	engine := NewEngine(index, llm, nil, EngineConfig{Temperature: &zero})

	engine.Query(context.Background(), "how long is the refund window", domain.QueryOptions{})

	require.Len(t, llm.opts, 1)
	assert.Zero(t, llm.opts[0].Temperature)
}

func TestQueryUsesCustomPreamble(t *testing.T) {
	index := &mockIndex{searchResults: map[string][]domain.SearchResult{"": policyResults()}}
	llm := &mockLLM{response: "answer"}
	prompts := &mockPrompts{prompts: map[string]string{"answer_system": "Custom preamble."}}
	engine := NewEngine(index, llm, prompts, EngineConfig{})

	engine.Query(context.Background(), "q", domain.QueryOptions{})

	require.Len(t, llm.prompts, 1)
	assert.True(t, strings.HasPrefix(llm.prompts[0], "Custom preamble.\n\nCONTEXT:"))
}

func TestQueryLLMFailure(t *testing.T) {
	index := &mockIndex{searchResults: map[string][]domain.SearchResult{"": policyResults()}}
	llm := &mockLLM{err: errors.New("rate limited")}
	engine := NewEngine(index, llm, nil, EngineConfig{})

	result := engine.Query(context.Background(), "a question", domain.QueryOptions{UseMemory: true})

	assert.Contains(t, result.Answer, "Error processing query:")
	assert.Contains(t, result.Answer, "rate limited")
	assert.Empty(t, result.Sources)
	assert.Empty(t, engine.Memory(), "failed queries must not pollute memory")
}

func TestQuerySearchFailure(t *testing.T) {
	index := &mockIndex{searchErr: errors.New("disk gone")}
	engine := NewEngine(index, &mockLLM{}, nil, EngineConfig{})

	result := engine.Query(context.Background(), "a question", domain.QueryOptions{})
	assert.Contains(t, result.Answer, "Error processing query:")
}

func TestQueryIncludesConversationHistory(t *testing.T) {
	index := &mockIndex{searchResults: map[string][]domain.SearchResult{"": policyResults()}}
	llm := &mockLLM{response: "first answer"}
	engine := NewEngine(index, llm, nil, EngineConfig{})

	engine.Query(context.Background(), "first question", domain.QueryOptions{UseMemory: true})

	llm.response = "second answer"
	engine.Query(context.Background(), "second question", domain.QueryOptions{UseMemory: true})

	require.Len(t, llm.prompts, 2)
	assert.NotContains(t, llm.prompts[0], "PREVIOUS CONVERSATION:")
	assert.Contains(t, llm.prompts[1], "PREVIOUS CONVERSATION:\nUSER: first question\nASSISTANT: first answer\n")
}

func TestQueryWithoutMemory(t *testing.T) {
	index := &mockIndex{searchResults: map[string][]domain.SearchResult{"": policyResults()}}
	llm := &mockLLM{response: "answer"}
	engine := NewEngine(index, llm, nil, EngineConfig{})

	engine.Query(context.Background(), "q1", domain.QueryOptions{UseMemory: false})
	assert.Empty(t, engine.Memory())

	engine.Query(context.Background(), "q2", domain.QueryOptions{UseMemory: false})
	assert.NotContains(t, llm.prompts[1], "PREVIOUS CONVERSATION:")
}

func TestMemoryWindowBound(t *testing.T) {
	index := &mockIndex{searchResults: map[string][]domain.SearchResult{"": policyResults()}}
	llm := &mockLLM{response: "answer"}
	engine := NewEngine(index, llm, nil, EngineConfig{MemoryWindow: 2})

	for i := 0; i < 5; i++ {
		engine.Query(context.Background(), fmt.Sprintf("question %d", i),
			domain.QueryOptions{UseMemory: true})
	}

	memory := engine.Memory()
	require.Len(t, memory, 4, "memory holds window*2 turns")
	assert.Equal(t, domain.RoleUser, memory[0].Role)
	assert.Equal(t, "question 3", memory[0].Content)
	assert.Equal(t, domain.RoleAssistant, memory[3].Role)
}

func TestClearMemory(t *testing.T) {
	index := &mockIndex{searchResults: map[string][]domain.SearchResult{"": policyResults()}}
	engine := NewEngine(index, &mockLLM{response: "a"}, nil, EngineConfig{})

	engine.Query(context.Background(), "q", domain.QueryOptions{UseMemory: true})
	require.NotEmpty(t, engine.Memory())

	engine.ClearMemory()
	assert.Empty(t, engine.Memory())
}

func TestQueryTopKOverride(t *testing.T) {
	index := &mockIndex{searchResults: map[string][]domain.SearchResult{"": policyResults()}}
	engine := NewEngine(index, &mockLLM{response: "a"}, nil, EngineConfig{TopK: 5})

	engine.Query(context.Background(), "q", domain.QueryOptions{TopK: 1})
	require.Len(t, index.searchCalls, 1)
	assert.Equal(t, 1, index.searchCalls[0].opts.TopK)

	engine.Query(context.Background(), "q", domain.QueryOptions{})
	assert.Equal(t, 5, index.searchCalls[1].opts.TopK)
}

func TestBuildContextSlideAndUnknown(t *testing.T) {
	context := buildContext([]domain.SearchResult{
		{Text: "Slide text.", Metadata: domain.Metadata{Source: "deck.pptx", Slide: 4}, Score: 0.8},
		{Text: "Anonymous text.", Score: 0.7},
	})

	assert.Contains(t, context, "[Source 1: deck.pptx, Slide 4] (Relevance: 0.80)")
	assert.Contains(t, context, "[Source 2: Unknown] (Relevance: 0.70)")
}

func TestFormatSourcesPreviewTruncation(t *testing.T) {
	long := strings.Repeat("x", 450)
	sources := formatSources([]domain.SearchResult{
		{Text: long, Metadata: domain.Metadata{Source: "big.txt"}, Score: 0.5},
		{Text: "short", Metadata: domain.Metadata{Source: "small.txt"}, Score: 0.5},
	})

	require.Len(t, sources, 2)
	assert.Len(t, sources[0].TextPreview, sourcePreviewLength+3)
	assert.True(t, strings.HasSuffix(sources[0].TextPreview, "..."))
	assert.Equal(t, "short", sources[1].TextPreview)
}

func TestFormatSourcesPreviewMultibyte(t *testing.T) {
	long := strings.Repeat("é", 450)
	sources := formatSources([]domain.SearchResult{
		{Text: long, Metadata: domain.Metadata{Source: "accents.txt"}, Score: 0.5},
	})

	require.Len(t, sources, 1)
	preview := sources[0].TextPreview
	assert.True(t, utf8.ValidString(preview))
	assert.Equal(t, sourcePreviewLength+3, utf8.RuneCountInString(preview))
	assert.True(t, strings.HasSuffix(preview, "..."))
}

func TestTruncateRunes(t *testing.T) {
	assert.Equal(t, "héllo", truncateRunes("héllo", 10))
	assert.Equal(t, "hé", truncateRunes("héllo", 2))
	assert.Equal(t, "日本", truncateRunes("日本語", 2))
	assert.Equal(t, "", truncateRunes("héllo", 0))
}