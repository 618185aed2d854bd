package analysis

import (
	"context"
	"fmt"

	"github.com/hirejourne/prep-agent/internal/types"
)

// ParseResume extracts structured candidate information from resume text.
func (a *Analyzer) ParseResume(ctx context.Context, resume string) (*types.ParsedResume, error) {
	if resume == "" {
		return nil, fmt.Errorf("resume text is empty")
	}

	var parsed types.ParsedResume
	err := a.generate(ctx, "resume.json", "parse",
		map[string]string{"Resume": resume},
		"parsed_resume.json", &parsed)
	if err != nil {
		return nil, fmt.Errorf("failed to parse resume: %w", err)
	}
	return &parsed, nil
}

// AnalyzeResume scores a resume against a job description, yielding
// matched and missing skills plus per-role relevance.
func (a *Analyzer) AnalyzeResume(ctx context.Context, resume, jobDescription string) (*types.ResumeAnalysis, error) {
	if resume == "" {
		return nil, fmt.Errorf("resume text is empty")
	}
	if jobDescription == "" {
		return nil, fmt.Errorf("job description is empty")
	}

	var result types.ResumeAnalysis
	err := a.generate(ctx, "resume.json", "analyze",
		map[string]string{"Resume": resume, "JobDescription": jobDescription},
		"resume_analysis.json", &result)
	if err != nil {
		return nil, fmt.Errorf("failed to analyze resume: %w", err)
	}
	return &result, nil
}
