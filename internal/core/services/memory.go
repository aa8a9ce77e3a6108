package services

import (
	"sync"

	"github.com/custodia-labs/recall-cli/internal/core/domain"
)

// conversationMemory is a bounded FIFO of conversation turns. It keeps
// at most window question/answer pairs; older turns fall off the front.
type conversationMemory struct {
	mu     sync.Mutex
	turns  []domain.ConversationTurn
	window int
}

// newConversationMemory creates memory holding window pairs. A window
// of zero disables retention entirely.
func newConversationMemory(window int) *conversationMemory {
	return &conversationMemory{window: window}
}

// record appends one question/answer pair and trims to the window.
func (m *conversationMemory) record(question, answer string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.turns = append(m.turns,
		domain.ConversationTurn{Role: domain.RoleUser, Content: question},
		domain.ConversationTurn{Role: domain.RoleAssistant, Content: answer},
	)

	max := m.window * 2
	if len(m.turns) > max {
		m.turns = m.turns[len(m.turns)-max:]
	}
}

// snapshot returns a copy of the retained turns, oldest first.
func (m *conversationMemory) snapshot() []domain.ConversationTurn {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]domain.ConversationTurn, len(m.turns))
	copy(out, m.turns)
	return out
}

// clear discards all retained turns.
func (m *conversationMemory) clear() {
	m.mu.Lock()
	m.turns = nil
	m.mu.Unlock()
}
