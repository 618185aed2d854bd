// Package analysis implements the LLM-backed generation features:
// resume and job-description parsing, resume matching, interview prep,
// STAR answers, company research text, interviewer assessments, and chat.
//
// Every JSON-producing completion is schema-validated before it is
// decoded, so malformed model output never reaches the pipeline.
package analysis

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hirejourne/prep-agent/internal/llm"
	"github.com/hirejourne/prep-agent/internal/prompts"
	"github.com/hirejourne/prep-agent/internal/schemas"
	"github.com/hirejourne/prep-agent/internal/types"
)

// TechStackCache persists generated tech stacks keyed by company domain.
type TechStackCache interface {
	GetCachedTechStack(ctx context.Context, domain string) ([]types.Technology, error)
	CacheTechStack(ctx context.Context, domain string, stack []types.Technology) error
}

// Analyzer runs the generation features against an LLM client.
type Analyzer struct {
	llm   llm.Client
	cache TechStackCache
}

// New builds an Analyzer. cache may be nil, which disables tech-stack caching.
func New(client llm.Client, cache TechStackCache) *Analyzer {
	return &Analyzer{llm: client, cache: cache}
}

// generate runs the <kind>_system / <kind>_user prompt pair from file,
// validates the completion against schemaName, and decodes it into out.
func (a *Analyzer) generate(ctx context.Context, file, kind string, data map[string]string, schemaName string, out any) error {
	system, err := prompts.Get(file, kind+"_system")
	if err != nil {
		return err
	}
	userTpl, err := prompts.Get(file, kind+"_user")
	if err != nil {
		return err
	}

	raw, err := a.llm.CompleteJSON(ctx, system, prompts.Format(userTpl, data))
	if err != nil {
		return fmt.Errorf("completion failed: %w", err)
	}
	if err := schemas.Validate(schemaName, []byte(raw)); err != nil {
		return fmt.Errorf("model output rejected: %w", err)
	}
	if err := json.Unmarshal([]byte(raw), out); err != nil {
		return fmt.Errorf("failed to decode model output: %w", err)
	}
	return nil
}

// generateText runs a prompt pair that yields plain text.
func (a *Analyzer) generateText(ctx context.Context, file, kind string, data map[string]string) (string, error) {
	system, err := prompts.Get(file, kind+"_system")
	if err != nil {
		return "", err
	}
	userTpl, err := prompts.Get(file, kind+"_user")
	if err != nil {
		return "", err
	}

	text, err := a.llm.Complete(ctx, []llm.Message{
		{Role: "system", Content: system},
		{Role: "user", Content: prompts.Format(userTpl, data)},
	})
	if err != nil {
		return "", fmt.Errorf("completion failed: %w", err)
	}
	return text, nil
}
