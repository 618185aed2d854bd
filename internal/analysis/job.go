package analysis

import (
	"context"
	"fmt"

	"github.com/hirejourne/prep-agent/internal/types"
)

// ParseJobDescription extracts the role title, responsibilities, and
// skill requirements from a job posting.
func (a *Analyzer) ParseJobDescription(ctx context.Context, jobDescription string) (*types.ParsedJobDescription, error) {
	if jobDescription == "" {
		return nil, fmt.Errorf("job description is empty")
	}

	var parsed types.ParsedJobDescription
	err := a.generate(ctx, "job.json", "parse",
		map[string]string{"JobDescription": jobDescription},
		"parsed_job_description.json", &parsed)
	if err != nil {
		return nil, fmt.Errorf("failed to parse job description: %w", err)
	}
	return &parsed, nil
}
