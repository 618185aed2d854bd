// Package llm wraps the OpenAI chat-completions API behind a small client
// interface so orchestration code can run against a substitute in tests.
package llm

import (
	"context"
	"fmt"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// Message is one chat turn sent to the model.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Client is an abstraction over the chat-completion provider.
type Client interface {
	// Complete runs a chat completion and returns the assistant's text.
	Complete(ctx context.Context, messages []Message) (string, error)
	// CompleteJSON runs a chat completion expected to yield a JSON document
	// and returns the cleaned JSON text.
	CompleteJSON(ctx context.Context, system, user string) (string, error)
}

// OpenAIClient implements Client against the OpenAI API.
type OpenAIClient struct {
	client    *openai.Client
	model     openai.ChatModel
	modelName string
}

// NewOpenAIClient creates an OpenAI-backed client. The model defaults to
// GPT-4o; pass a non-empty model name to override.
func NewOpenAIClient(apiKey, model string) (*OpenAIClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required")
	}
	if model == "" {
		model = openai.ChatModelGPT4o
	}
	client := openai.NewClient(option.WithAPIKey(apiKey))
	return &OpenAIClient{
		client:    &client,
		model:     model,
		modelName: model,
	}, nil
}

// Complete runs a chat completion and returns the assistant's text.
func (c *OpenAIClient) Complete(ctx context.Context, messages []Message) (string, error) {
	params := openai.ChatCompletionNewParams{
		Model:    c.model,
		Messages: make([]openai.ChatCompletionMessageParamUnion, 0, len(messages)),
	}
	for _, m := range messages {
		switch m.Role {
		case "system":
			params.Messages = append(params.Messages, openai.SystemMessage(m.Content))
		case "assistant":
			params.Messages = append(params.Messages, openai.AssistantMessage(m.Content))
		default:
			params.Messages = append(params.Messages, openai.UserMessage(m.Content))
		}
	}

	resp, err := c.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("openai API error: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no response from openai")
	}
	return resp.Choices[0].Message.Content, nil
}

// CompleteJSON runs a system+user completion and strips any markdown fencing
// or surrounding prose from the returned JSON document.
func (c *OpenAIClient) CompleteJSON(ctx context.Context, system, user string) (string, error) {
	content, err := c.Complete(ctx, []Message{
		{Role: "system", Content: system},
		{Role: "user", Content: user},
	})
	if err != nil {
		return "", err
	}
	return CleanJSONResponse(content), nil
}

var _ Client = (*OpenAIClient)(nil)
