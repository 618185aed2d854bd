package analysis

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hirejourne/prep-agent/internal/llm"
	"github.com/hirejourne/prep-agent/internal/schemas"
	"github.com/hirejourne/prep-agent/internal/types"
)

type fakeLLM struct {
	response string
	err      error

	lastSystem   string
	lastUser     string
	lastMessages []llm.Message
}

func (f *fakeLLM) Complete(_ context.Context, messages []llm.Message) (string, error) {
	f.lastMessages = messages
	return f.response, f.err
}

func (f *fakeLLM) CompleteJSON(_ context.Context, system, user string) (string, error) {
	f.lastSystem = system
	f.lastUser = user
	return f.response, f.err
}

type fakeCache struct {
	stored map[string][]types.Technology
}

func (f *fakeCache) GetCachedTechStack(_ context.Context, domain string) ([]types.Technology, error) {
	return f.stored[domain], nil
}

func (f *fakeCache) CacheTechStack(_ context.Context, domain string, stack []types.Technology) error {
	if f.stored == nil {
		f.stored = map[string][]types.Technology{}
	}
	f.stored[domain] = stack
	return nil
}

func TestParseResume(t *testing.T) {
	client := &fakeLLM{response: `{
		"summary": "Backend engineer",
		"skills": ["Go", "Postgres"],
		"experience": [{"role": "Engineer", "company": "Acme", "duration": "2020-2023", "highlights": ["Shipped the billing system"]}],
		"education": [{"institution": "State University", "degree": "BSc", "year": "2019"}]
	}`}
	a := New(client, nil)

	parsed, err := a.ParseResume(context.Background(), "resume text")
	require.NoError(t, err)
	assert.Equal(t, []string{"Go", "Postgres"}, parsed.Skills)
	require.Len(t, parsed.Experience, 1)
	assert.Equal(t, "Acme", parsed.Experience[0].Company)
	assert.Contains(t, client.lastUser, "resume text")
}

func TestParseResumeRejectsMalformedOutput(t *testing.T) {
	client := &fakeLLM{response: `{"summary": "missing required arrays"}`}
	a := New(client, nil)

	_, err := a.ParseResume(context.Background(), "resume text")
	require.Error(t, err)
	var ve *schemas.ValidationError
	assert.True(t, errors.As(err, &ve))
}

func TestParseResumeEmptyInput(t *testing.T) {
	a := New(&fakeLLM{}, nil)
	_, err := a.ParseResume(context.Background(), "")
	assert.Error(t, err)
}

func TestAnalyzeResume(t *testing.T) {
	client := &fakeLLM{response: `{
		"skills": ["Go", "Kubernetes"],
		"matchedSkills": ["Go"],
		"missingSkills": ["Rust"],
		"relevantExperience": [{"role": "Engineer", "relevance": 0.8, "matchingKeywords": ["Go"]}]
	}`}
	a := New(client, nil)

	result, err := a.AnalyzeResume(context.Background(), "resume", "job description")
	require.NoError(t, err)
	assert.Equal(t, []string{"Go"}, result.MatchedSkills)
	require.Len(t, result.RelevantExperience, 1)
	assert.InDelta(t, 0.8, result.RelevantExperience[0].Relevance, 1e-9)
}

func TestParseJobDescription(t *testing.T) {
	client := &fakeLLM{response: `{
		"jobTitle": "Platform Engineer",
		"responsibilities": ["Run the clusters"],
		"requiredSkills": ["Go"],
		"preferredSkills": ["Terraform"],
		"companyValues": ["Ownership"]
	}`}
	a := New(client, nil)

	parsed, err := a.ParseJobDescription(context.Background(), "posting")
	require.NoError(t, err)
	assert.Equal(t, "Platform Engineer", parsed.JobTitle)
}

func TestGenerateInterviewPrep(t *testing.T) {
	client := &fakeLLM{response: `{
		"behavioralQuestions": ["Tell me about a conflict"],
		"technicalQuestions": ["Design a rate limiter"],
		"closingStatements": ["What does success look like in 90 days?"]
	}`}
	a := New(client, nil)

	prep, err := a.GenerateInterviewPrep(context.Background(), "Acme", "SRE", "posting", "resume")
	require.NoError(t, err)
	assert.Len(t, prep.BehavioralQuestions, 1)
	assert.Contains(t, client.lastUser, "Acme")
	assert.Contains(t, client.lastUser, "SRE")
}

func TestGenerateBehavioralSTAR(t *testing.T) {
	client := &fakeLLM{response: `[{
		"question": "Tell me about a conflict",
		"star_i_answer": {
			"situation": "Two teams disagreed on API ownership",
			"task": "Broker a decision",
			"action": "Ran a design review",
			"result": "Shipped on time",
			"impact_pivot": "Relevant to cross-team work in this role"
		}
	}]`}
	a := New(client, nil)

	answers, err := a.GenerateBehavioralSTAR(context.Background(), []string{"Tell me about a conflict"}, "resume", "SRE", "Acme")
	require.NoError(t, err)
	require.Len(t, answers, 1)
	assert.Equal(t, "Broker a decision", answers[0].Answer.Task)
	assert.Contains(t, client.lastUser, "1. Tell me about a conflict")
}

func TestGenerateSTARNoQuestions(t *testing.T) {
	a := New(&fakeLLM{}, nil)
	_, err := a.GenerateTechnicalSTAR(context.Background(), nil, "resume", "SRE", "Acme")
	assert.Error(t, err)
}

func TestTechStackUsesCache(t *testing.T) {
	cached := []types.Technology{{Name: "Go", Category: "language"}}
	cache := &fakeCache{stored: map[string][]types.Technology{"acme.com": cached}}
	client := &fakeLLM{err: errors.New("must not be called")}
	a := New(client, cache)

	stack, err := a.TechStack(context.Background(), "Acme", "acme.com")
	require.NoError(t, err)
	assert.Equal(t, cached, stack)
}

func TestTechStackGeneratesAndCaches(t *testing.T) {
	cache := &fakeCache{}
	client := &fakeLLM{response: `[{"name": "Go", "category": "language", "description": "Primary backend language"}]`}
	a := New(client, cache)

	stack, err := a.TechStack(context.Background(), "Acme", "acme.com")
	require.NoError(t, err)
	require.Len(t, stack, 1)
	assert.Equal(t, "Go", stack[0].Name)
	assert.Len(t, cache.stored["acme.com"], 1)
}

func TestCompetitors(t *testing.T) {
	client := &fakeLLM{response: `[{"name": "Globex", "url": "https://globex.com", "description": "Competes on price"}]`}
	a := New(client, nil)

	competitors, err := a.Competitors(context.Background(), "Acme")
	require.NoError(t, err)
	require.Len(t, competitors, 1)
	assert.Equal(t, "Globex", competitors[0].Name)
}

func TestChatReplyInjectsContext(t *testing.T) {
	client := &fakeLLM{response: "Practice your STAR stories."}
	a := New(client, nil)

	history := []types.ChatMessage{{Role: types.RoleUser, Content: "How should I prepare?"}}
	reply, err := a.ChatReply(context.Background(), history, "Acme", "SRE")
	require.NoError(t, err)
	assert.Equal(t, "Practice your STAR stories.", reply)

	// system prompt, context preamble, then the user turn
	require.Len(t, client.lastMessages, 3)
	assert.Contains(t, client.lastMessages[1].Content, "Acme")
	assert.Equal(t, "user", client.lastMessages[2].Role)
}

func TestChatReplyEmptyHistory(t *testing.T) {
	a := New(&fakeLLM{}, nil)
	_, err := a.ChatReply(context.Background(), nil, "", "")
	assert.Error(t, err)
}
