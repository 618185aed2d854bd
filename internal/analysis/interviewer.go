package analysis

import (
	"context"
	"fmt"
	"strings"

	"github.com/hirejourne/prep-agent/internal/research"
	"github.com/hirejourne/prep-agent/internal/types"
)

// AssessInterviewer turns a looked-up professional profile into coaching
// notes for the candidate. A nil profile produces general guidance
// instead of failing, so missing research never blocks a report.
func (a *Analyzer) AssessInterviewer(ctx context.Context, interviewer types.Interviewer, profile *research.PersonProfile, resume, role, company string) (*types.InterviewerProfile, error) {
	result := &types.InterviewerProfile{
		Name:        interviewer.Name,
		LinkedInURL: interviewer.LinkedInURL,
	}

	if profile == nil {
		notes, err := a.generateText(ctx, "interviewer.json", "assessment_fallback",
			map[string]string{
				"Name":    interviewer.Name,
				"Role":    role,
				"Company": company,
			})
		if err != nil {
			return nil, fmt.Errorf("failed to assess interviewer %s: %w", interviewer.Name, err)
		}
		result.AssessmentNotes = notes
		return result, nil
	}

	result.Title = profile.CurrentTitle
	result.CurrentCompany = profile.CurrentCompany

	notes, err := a.generateText(ctx, "interviewer.json", "assessment",
		map[string]string{
			"Name":    interviewer.Name,
			"Title":   profile.CurrentTitle,
			"Company": profile.CurrentCompany,
			"Profile": profileDigest(profile),
			"Resume":  resume,
		})
	if err != nil {
		return nil, fmt.Errorf("failed to assess interviewer %s: %w", interviewer.Name, err)
	}
	result.AssessmentNotes = notes
	return result, nil
}

func profileDigest(p *research.PersonProfile) string {
	var parts []string
	if p.Headline != "" {
		parts = append(parts, p.Headline)
	}
	if p.Summary != "" {
		parts = append(parts, p.Summary)
	}
	if p.ExperienceSummary != "" {
		parts = append(parts, "Experience: "+p.ExperienceSummary)
	}
	if p.EducationSummary != "" {
		parts = append(parts, "Education: "+p.EducationSummary)
	}
	if len(p.Skills) > 0 {
		parts = append(parts, "Skills: "+strings.Join(p.Skills, ", "))
	}
	return strings.Join(parts, "\n")
}
