package analysis

import (
	"context"
	"fmt"

	"github.com/hirejourne/prep-agent/internal/llm"
	"github.com/hirejourne/prep-agent/internal/prompts"
	"github.com/hirejourne/prep-agent/internal/types"
)

// ChatReply answers the latest user message against the stored history.
// company and role, when known, are injected as context for grounding.
func (a *Analyzer) ChatReply(ctx context.Context, history []types.ChatMessage, company, role string) (string, error) {
	if len(history) == 0 {
		return "", fmt.Errorf("chat history is empty")
	}

	system, err := prompts.Get("chat.json", "system")
	if err != nil {
		return "", err
	}

	messages := []llm.Message{{Role: "system", Content: system}}
	if company != "" || role != "" {
		preamble, err := prompts.Get("chat.json", "context_preamble")
		if err != nil {
			return "", err
		}
		messages = append(messages, llm.Message{
			Role:    "system",
			Content: prompts.Format(preamble, map[string]string{"Company": company, "Role": role}),
		})
	}
	for _, msg := range history {
		messages = append(messages, llm.Message{Role: string(msg.Role), Content: msg.Content})
	}

	reply, err := a.llm.Complete(ctx, messages)
	if err != nil {
		return "", fmt.Errorf("failed to generate chat reply: %w", err)
	}
	return reply, nil
}
