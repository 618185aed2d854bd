package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/hirejourne/prep-agent/internal/types"
)

// SaveChatMessage appends a message to a user's chat history.
func (db *DB) SaveChatMessage(ctx context.Context, msg *types.ChatMessage) (uuid.UUID, error) {
	if err := msg.Validate(); err != nil {
		return uuid.Nil, fmt.Errorf("invalid chat message: %w", err)
	}

	var id uuid.UUID
	err := db.pool.QueryRow(ctx,
		`INSERT INTO chat_messages (user_id, role, content)
		 VALUES ($1, $2, $3)
		 RETURNING id`,
		msg.UserID, msg.Role, msg.Content,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to save chat message: %w", err)
	}
	return id, nil
}

// ListChatMessages retrieves a user's chat history, oldest first.
func (db *DB) ListChatMessages(ctx context.Context, userID uuid.UUID) ([]types.ChatMessage, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id, user_id, role, content, created_at
		 FROM chat_messages WHERE user_id = $1
		 ORDER BY created_at ASC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list chat messages: %w", err)
	}
	defer rows.Close()

	var messages []types.ChatMessage
	for rows.Next() {
		var m types.ChatMessage
		if err := rows.Scan(&m.ID, &m.UserID, &m.Role, &m.Content, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan chat message: %w", err)
		}
		messages = append(messages, m)
	}
	return messages, rows.Err()
}

// ClearChatMessages removes a user's entire chat history.
func (db *DB) ClearChatMessages(ctx context.Context, userID uuid.UUID) error {
	_, err := db.pool.Exec(ctx,
		`DELETE FROM chat_messages WHERE user_id = $1`, userID)
	if err != nil {
		return fmt.Errorf("failed to clear chat messages: %w", err)
	}
	return nil
}
