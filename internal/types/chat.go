package types

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ChatRole is the author role of a chat message.
type ChatRole string

const (
	RoleSystem    ChatRole = "system"
	RoleUser      ChatRole = "user"
	RoleAssistant ChatRole = "assistant"
)

// ChatMessage is one persisted message in a user's chat history.
type ChatMessage struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	Role      ChatRole  `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// Validate checks the message before it reaches the storage boundary.
func (m *ChatMessage) Validate() error {
	switch m.Role {
	case RoleSystem, RoleUser, RoleAssistant:
	default:
		return fmt.Errorf("invalid chat role: %q", m.Role)
	}
	if m.Content == "" {
		return fmt.Errorf("chat message content is empty")
	}
	return nil
}
