package tui

import (
	"context"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/recall-cli/internal/core/domain"
)

type mockEngine struct {
	result    domain.QueryResult
	questions []string
	cleared   bool
}

func (m *mockEngine) Query(_ context.Context, question string, _ domain.QueryOptions) domain.QueryResult {
	m.questions = append(m.questions, question)
	return m.result
}

func (m *mockEngine) Memory() []domain.ConversationTurn { return nil }
func (m *mockEngine) ClearMemory()                      { m.cleared = true }

type mockSuggester struct {
	suggestions []string
}

func (m *mockSuggester) Suggest(context.Context, string, int) []string {
	return m.suggestions
}

func sized(c *Chat) *Chat {
	model, _ := c.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	return model.(*Chat)
}

func TestChatReadyAfterWindowSize(t *testing.T) {
	c := NewChat(&mockEngine{}, nil)
	assert.Contains(t, c.View(), "Loading")

	c = sized(c)
	assert.Contains(t, c.View(), "Recall Chat")
}

func TestChatEnterWithEmptyInputDoesNothing(t *testing.T) {
	c := sized(NewChat(&mockEngine{}, nil))

	model, cmd := c.Update(tea.KeyMsg{Type: tea.KeyEnter})
	c = model.(*Chat)

	assert.Nil(t, cmd)
	assert.False(t, c.thinking)
	assert.Empty(t, c.Transcript())
}

func TestChatSubmitsQuestion(t *testing.T) {
	engine := &mockEngine{result: domain.QueryResult{
		Answer: "The refund window is 30 days.",
		Sources: []domain.SourceCitation{
			{Filename: "policy.txt", Page: 2, ScorePercent: 92.3},
		},
	}}
	c := sized(NewChat(engine, nil))
	c.input.SetValue("how long is the refund window")

	model, cmd := c.Update(tea.KeyMsg{Type: tea.KeyEnter})
	c = model.(*Chat)

	require.NotNil(t, cmd)
	assert.True(t, c.thinking)
	assert.Empty(t, c.input.Value())
	require.Len(t, c.Transcript(), 1)
	assert.Contains(t, c.Transcript()[0], "how long is the refund window")
}

func TestChatAppendsAnswerWithSources(t *testing.T) {
	engine := &mockEngine{}
	c := sized(NewChat(engine, nil))
	c.thinking = true

	model, _ := c.Update(answerReceived{result: domain.QueryResult{
		Answer: "The refund window is 30 days.",
		Sources: []domain.SourceCitation{
			{Filename: "policy.txt", Page: 2, ScorePercent: 92.3},
			{Filename: "deck.pptx", Slide: 4, ScorePercent: 61.0},
		},
	}})
	c = model.(*Chat)

	assert.False(t, c.thinking)
	transcript := c.Transcript()
	require.NotEmpty(t, transcript)
	assert.Contains(t, transcript[0], "The refund window is 30 days.")
	assert.Contains(t, transcript[1], "policy.txt, page 2 (92.3%)")
	assert.Contains(t, transcript[2], "deck.pptx, slide 4 (61.0%)")
}

func TestChatQueryUsesMemory(t *testing.T) {
	engine := &mockEngine{result: domain.QueryResult{Answer: "ok"}}
	c := sized(NewChat(engine, nil))

	cmd := c.performQuery("first question")
	msg := cmd()

	received, ok := msg.(answerReceived)
	require.True(t, ok)
	assert.Equal(t, "ok", received.result.Answer)
	assert.Equal(t, []string{"first question"}, engine.questions)
}

func TestChatClearMemory(t *testing.T) {
	engine := &mockEngine{}
	c := sized(NewChat(engine, nil))
	c.transcript = []string{"You: hello"}

	model, _ := c.Update(tea.KeyMsg{Type: tea.KeyCtrlL})
	c = model.(*Chat)

	assert.True(t, engine.cleared)
	assert.Empty(t, c.Transcript())
	assert.Contains(t, c.status, "cleared")
}

func TestChatSuggestions(t *testing.T) {
	suggester := &mockSuggester{suggestions: []string{
		"What are the main topics covered?",
		"Can you summarize the key points?",
	}}
	c := sized(NewChat(&mockEngine{}, suggester))

	model, cmd := c.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	c = model.(*Chat)
	require.NotNil(t, cmd)
	assert.True(t, c.thinking)

	model, _ = c.Update(suggestionsReceived{questions: suggester.suggestions})
	c = model.(*Chat)

	transcript := c.Transcript()
	require.NotEmpty(t, transcript)
	assert.Contains(t, transcript[1], "What are the main topics covered?")
}

func TestChatEscQuits(t *testing.T) {
	c := sized(NewChat(&mockEngine{}, nil))

	_, cmd := c.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}
