package analysis

import (
	"context"
	"fmt"

	"github.com/hirejourne/prep-agent/internal/types"
)

// GenerateInterviewPrep produces likely questions and closing statements
// tailored to the company, role, and candidate background.
func (a *Analyzer) GenerateInterviewPrep(ctx context.Context, company, role, jobDescription, resume string) (*types.InterviewPrep, error) {
	if jobDescription == "" {
		return nil, fmt.Errorf("job description is empty")
	}

	var prep types.InterviewPrep
	err := a.generate(ctx, "interview.json", "prep",
		map[string]string{
			"Company":        company,
			"Role":           role,
			"JobDescription": jobDescription,
			"Resume":         resume,
		},
		"interview_prep.json", &prep)
	if err != nil {
		return nil, fmt.Errorf("failed to generate interview prep: %w", err)
	}
	return &prep, nil
}
