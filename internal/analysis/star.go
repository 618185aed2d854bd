package analysis

import (
	"context"
	"fmt"
	"strings"

	"github.com/hirejourne/prep-agent/internal/types"
)

// GenerateBehavioralSTAR drafts STAR-format answers for behavioral
// questions, grounded in the candidate's resume.
func (a *Analyzer) GenerateBehavioralSTAR(ctx context.Context, questions []string, resume, role, company string) ([]types.STARAnswer, error) {
	return a.generateSTAR(ctx, "behavioral_star", questions, resume, role, company)
}

// GenerateTechnicalSTAR drafts STAR-format answers for technical
// questions with concrete examples from the candidate's experience.
func (a *Analyzer) GenerateTechnicalSTAR(ctx context.Context, questions []string, resume, role, company string) ([]types.STARAnswer, error) {
	return a.generateSTAR(ctx, "technical_star", questions, resume, role, company)
}

func (a *Analyzer) generateSTAR(ctx context.Context, kind string, questions []string, resume, role, company string) ([]types.STARAnswer, error) {
	if len(questions) == 0 {
		return nil, fmt.Errorf("no questions provided")
	}

	var answers []types.STARAnswer
	err := a.generate(ctx, "interview.json", kind,
		map[string]string{
			"Questions": formatQuestionList(questions),
			"Resume":    resume,
			"Role":      role,
			"Company":   company,
		},
		"star_answers.json", &answers)
	if err != nil {
		return nil, fmt.Errorf("failed to generate STAR answers: %w", err)
	}
	return answers, nil
}

func formatQuestionList(questions []string) string {
	var sb strings.Builder
	for i, q := range questions {
		fmt.Fprintf(&sb, "%d. %s\n", i+1, q)
	}
	return sb.String()
}
