package analysis

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hirejourne/prep-agent/internal/research"
	"github.com/hirejourne/prep-agent/internal/types"
)

func TestAssessInterviewerWithProfile(t *testing.T) {
	client := &fakeLLM{response: "Expect systems-design depth."}
	a := New(client, nil)

	interviewer := types.Interviewer{Name: "Sam Lee", LinkedInURL: "https://linkedin.com/in/samlee"}
	profile := &research.PersonProfile{
		CurrentTitle:   "Staff Engineer",
		CurrentCompany: "Acme",
		Headline:       "Distributed systems",
		Skills:         []string{"Go", "Kafka"},
	}

	result, err := a.AssessInterviewer(context.Background(), interviewer, profile, "resume", "SRE", "Acme")
	require.NoError(t, err)
	assert.Equal(t, "Sam Lee", result.Name)
	assert.Equal(t, "Staff Engineer", result.Title)
	assert.Equal(t, "Acme", result.CurrentCompany)
	assert.Equal(t, "Expect systems-design depth.", result.AssessmentNotes)
}

func TestAssessInterviewerWithoutProfile(t *testing.T) {
	client := &fakeLLM{response: "General guidance."}
	a := New(client, nil)

	interviewer := types.Interviewer{Name: "Sam Lee", LinkedInURL: "https://linkedin.com/in/samlee"}
	result, err := a.AssessInterviewer(context.Background(), interviewer, nil, "resume", "SRE", "Acme")
	require.NoError(t, err)
	assert.Empty(t, result.Title)
	assert.Equal(t, "General guidance.", result.AssessmentNotes)
	assert.Equal(t, "https://linkedin.com/in/samlee", result.LinkedInURL)
}

func TestProfileDigest(t *testing.T) {
	digest := profileDigest(&research.PersonProfile{
		Headline:          "Distributed systems",
		Summary:           "15 years in infra",
		ExperienceSummary: "Staff Engineer at Acme",
		Skills:            []string{"Go", "Kafka"},
	})
	assert.Contains(t, digest, "Distributed systems")
	assert.Contains(t, digest, "Experience: Staff Engineer at Acme")
	assert.Contains(t, digest, "Skills: Go, Kafka")
}
