// Package report turns pipeline results into the written report: the
// persisted text sections and the PDF rendered from an HTML layout.
package report

import (
	"embed"
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/hirejourne/prep-agent/internal/types"
)

//go:embed template.html
var templateFiles embed.FS

var reportTemplate = template.Must(template.ParseFS(templateFiles, "template.html"))

// Data is everything the report draws on. Any field may be nil or empty;
// the layout drops sections it has no data for.
type Data struct {
	CompanyName  string
	Role         string
	Company      *types.CompanyRecord
	Analysis     *types.ResumeAnalysis
	Prep         *types.InterviewPrep
	Behavioral   []types.STARAnswer
	Technical    []types.STARAnswer
	Interviewers []types.InterviewerProfile
	GeneratedAt  time.Time
}

// Compose derives the text sections persisted on the report row.
// The PDF URL is filled in after upload.
func Compose(d *Data) types.ReportContent {
	return types.ReportContent{
		Overview:    overview(d),
		Questions:   questionList(d.Prep),
		KeyInsights: keyInsights(d.Analysis),
	}
}

// RenderHTML produces the HTML document the PDF is printed from.
func RenderHTML(d *Data) (string, error) {
	var sb strings.Builder
	if err := reportTemplate.Execute(&sb, d); err != nil {
		return "", fmt.Errorf("failed to render report template: %w", err)
	}
	return sb.String(), nil
}

func overview(d *Data) string {
	if d.Company != nil && d.Company.CompanySummary != "" {
		return d.Company.CompanySummary
	}
	if d.Role == "" {
		return fmt.Sprintf("Interview preparation for your upcoming interview at %s.", d.CompanyName)
	}
	return fmt.Sprintf("Interview preparation for the %s role at %s.", d.Role, d.CompanyName)
}

func questionList(prep *types.InterviewPrep) string {
	if prep == nil {
		return ""
	}
	var lines []string
	for _, q := range prep.BehavioralQuestions {
		lines = append(lines, "- "+q)
	}
	for _, q := range prep.TechnicalQuestions {
		lines = append(lines, "- "+q)
	}
	return strings.Join(lines, "\n")
}

func keyInsights(a *types.ResumeAnalysis) string {
	if a == nil {
		return ""
	}
	var lines []string
	if len(a.MatchedSkills) > 0 {
		lines = append(lines, "Strengths to lead with: "+strings.Join(a.MatchedSkills, ", "))
	}
	if len(a.MissingSkills) > 0 {
		lines = append(lines, "Gaps to prepare for: "+strings.Join(a.MissingSkills, ", "))
	}
	for _, exp := range a.RelevantExperience {
		if exp.Relevance >= 0.7 {
			lines = append(lines, fmt.Sprintf("Highlight your %s experience (%.0f%% match)", exp.Role, exp.Relevance*100))
		}
	}
	return strings.Join(lines, "\n")
}
