package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/hirejourne/prep-agent/internal/types"
)

// AddQuestion saves a question to a user's question bank.
func (db *DB) AddQuestion(ctx context.Context, userID uuid.UUID, text, category string) (uuid.UUID, error) {
	if text == "" {
		return uuid.Nil, fmt.Errorf("question text cannot be empty")
	}

	var id uuid.UUID
	err := db.pool.QueryRow(ctx,
		`INSERT INTO questions (user_id, text, category)
		 VALUES ($1, $2, NULLIF($3, ''))
		 RETURNING id`,
		userID, text, category,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to add question: %w", err)
	}
	return id, nil
}

// ListQuestions retrieves a user's saved questions, newest first.
func (db *DB) ListQuestions(ctx context.Context, userID uuid.UUID) ([]types.Question, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id, user_id, text, COALESCE(category, ''), created_at
		 FROM questions WHERE user_id = $1
		 ORDER BY created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list questions: %w", err)
	}
	defer rows.Close()

	var questions []types.Question
	for rows.Next() {
		var q types.Question
		if err := rows.Scan(&q.ID, &q.UserID, &q.Text, &q.Category, &q.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan question: %w", err)
		}
		questions = append(questions, q)
	}
	return questions, rows.Err()
}

// DeleteQuestion removes a question from a user's bank. Deleting an
// unknown question is a no-op.
func (db *DB) DeleteQuestion(ctx context.Context, userID, questionID uuid.UUID) error {
	_, err := db.pool.Exec(ctx,
		`DELETE FROM questions WHERE id = $1 AND user_id = $2`, questionID, userID)
	if err != nil {
		return fmt.Errorf("failed to delete question: %w", err)
	}
	return nil
}
