package cli

import (
	"errors"
	"fmt"
	"os"
	"runtime/debug"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/recall-cli/internal/adapters/driving/tui"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start an interactive chat session",
	Long: `Starts a conversational session over your indexed documents.

Answers use the recent conversation as context, so follow-up questions
work naturally.

Controls:
  Enter   - Send question
  Ctrl+L  - Clear conversation memory
  Ctrl+S  - Suggest questions
  Esc     - Quit`,
	RunE: runChat,
}

func init() {
	rootCmd.AddCommand(chatCmd)
}

func runChat(cmd *cobra.Command, _ []string) error {
	if engineService == nil {
		return errors.New("engine not configured")
	}

	// Recover with a stack trace so TUI panics are diagnosable.
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Panic in chat: %v\n", r)
			fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", debug.Stack())
		}
	}()

	chat := tui.NewChat(engineService, suggestService).WithContext(cmd.Context())

	p := tea.NewProgram(chat, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("chat error: %w", err)
	}
	return nil
}
