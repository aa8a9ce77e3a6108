// Package tui provides the interactive chat interface.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/recall-cli/internal/core/domain"
	"github.com/custodia-labs/recall-cli/internal/core/ports/driving"
)

// answerReceived carries a completed query result back into the update loop.
type answerReceived struct {
	result domain.QueryResult
}

// suggestionsReceived carries generated question suggestions.
type suggestionsReceived struct {
	questions []string
}

// Chat is the conversational TUI model following the Elm architecture.
type Chat struct {
	engine    driving.Engine
	suggester driving.Suggester
	ctx       context.Context

	styles   *Styles
	input    textinput.Model
	viewport viewport.Model
	spinner  spinner.Model

	transcript []string
	thinking   bool
	status     string

	width  int
	height int
	ready  bool
}

// Ensure Chat implements tea.Model.
var _ tea.Model = (*Chat)(nil)

// NewChat creates the chat model. The suggester is optional.
func NewChat(engine driving.Engine, suggester driving.Suggester) *Chat {
	s := DefaultStyles()

	input := textinput.New()
	input.Placeholder = "Ask a question about your documents..."
	input.Focus()
	input.CharLimit = 1024

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return &Chat{
		engine:    engine,
		suggester: suggester,
		ctx:       context.Background(),
		styles:    s,
		input:     input,
		spinner:   sp,
		status:    "Enter to send, Ctrl+L to clear memory, Ctrl+S for suggestions, Esc to quit",
		width:     80,
		height:    24,
	}
}

// WithContext sets the context used for queries.
func (c *Chat) WithContext(ctx context.Context) *Chat {
	c.ctx = ctx
	return c
}

// Init starts the input cursor blink.
func (c *Chat) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages for the chat model.
func (c *Chat) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		c.width = msg.Width
		c.height = msg.Height
		if !c.ready {
			c.viewport = viewport.New(msg.Width, c.viewportHeight())
			c.ready = true
		} else {
			c.viewport.Width = msg.Width
			c.viewport.Height = c.viewportHeight()
		}
		c.input.Width = msg.Width - 4
		c.refreshViewport()
		return c, nil

	case tea.KeyMsg:
		return c.handleKeyMsg(msg)

	case answerReceived:
		c.thinking = false
		c.appendAnswer(msg.result)
		return c, nil

	case suggestionsReceived:
		c.thinking = false
		c.appendSuggestions(msg.questions)
		return c, nil

	case spinner.TickMsg:
		if !c.thinking {
			return c, nil
		}
		var cmd tea.Cmd
		c.spinner, cmd = c.spinner.Update(msg)
		return c, cmd
	}

	var cmd tea.Cmd
	c.input, cmd = c.input.Update(msg)
	return c, cmd
}

func (c *Chat) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC, tea.KeyEsc:
		return c, tea.Quit

	case tea.KeyEnter:
		question := strings.TrimSpace(c.input.Value())
		if question == "" || c.thinking {
			return c, nil
		}
		c.input.SetValue("")
		c.appendQuestion(question)
		c.thinking = true
		return c, tea.Batch(c.spinner.Tick, c.performQuery(question))

	case tea.KeyCtrlL:
		c.engine.ClearMemory()
		c.transcript = nil
		c.refreshViewport()
		c.status = "Conversation memory cleared."
		return c, nil

	case tea.KeyCtrlS:
		if c.suggester == nil || c.thinking {
			return c, nil
		}
		c.thinking = true
		return c, tea.Batch(c.spinner.Tick, c.performSuggest())

	case tea.KeyUp, tea.KeyDown, tea.KeyPgUp, tea.KeyPgDown:
		var cmd tea.Cmd
		c.viewport, cmd = c.viewport.Update(msg)
		return c, cmd
	}

	var cmd tea.Cmd
	c.input, cmd = c.input.Update(msg)
	return c, cmd
}

// performQuery runs the engine query off the update loop.
func (c *Chat) performQuery(question string) tea.Cmd {
	return func() tea.Msg {
		result := c.engine.Query(c.ctx, question, domain.QueryOptions{UseMemory: true})
		return answerReceived{result: result}
	}
}

func (c *Chat) performSuggest() tea.Cmd {
	return func() tea.Msg {
		return suggestionsReceived{questions: c.suggester.Suggest(c.ctx, "", 5)}
	}
}

func (c *Chat) appendQuestion(question string) {
	c.transcript = append(c.transcript,
		c.styles.UserLabel.Render("You: ")+question)
	c.refreshViewport()
}

func (c *Chat) appendAnswer(result domain.QueryResult) {
	lines := []string{
		c.styles.AssistantLabel.Render("Recall: ") + c.styles.Answer.Render(result.Answer),
	}
	for i, src := range result.Sources {
		location := ""
		if src.Page > 0 {
			location = fmt.Sprintf(", page %d", src.Page)
		} else if src.Slide > 0 {
			location = fmt.Sprintf(", slide %d", src.Slide)
		}
		lines = append(lines, c.styles.Source.Render(
			fmt.Sprintf("  [%d] %s%s (%.1f%%)", i+1, src.Filename, location, src.ScorePercent)))
	}
	lines = append(lines, "")
	c.transcript = append(c.transcript, lines...)
	c.refreshViewport()
}

func (c *Chat) appendSuggestions(questions []string) {
	lines := []string{c.styles.AssistantLabel.Render("Try asking:")}
	for _, q := range questions {
		lines = append(lines, c.styles.Answer.Render("  • "+q))
	}
	lines = append(lines, "")
	c.transcript = append(c.transcript, lines...)
	c.refreshViewport()
}

func (c *Chat) refreshViewport() {
	if !c.ready {
		return
	}
	c.viewport.SetContent(strings.Join(c.transcript, "\n"))
	c.viewport.GotoBottom()
}

func (c *Chat) viewportHeight() int {
	// Header, input and status each take one line plus spacing.
	h := c.height - 5
	if h < 1 {
		h = 1
	}
	return h
}

// View renders the chat screen.
func (c *Chat) View() string {
	if !c.ready {
		return "Loading..."
	}

	var sb strings.Builder
	sb.WriteString(c.styles.Title.Render("Recall Chat"))
	sb.WriteString("\n")
	sb.WriteString(c.viewport.View())
	sb.WriteString("\n")
	if c.thinking {
		sb.WriteString(c.spinner.View())
		sb.WriteString(" Thinking...")
	} else {
		sb.WriteString(c.input.View())
	}
	sb.WriteString("\n")
	sb.WriteString(c.styles.Status.Render(c.status))
	return sb.String()
}

// Transcript returns the rendered conversation lines, for tests.
func (c *Chat) Transcript() []string {
	return c.transcript
}
