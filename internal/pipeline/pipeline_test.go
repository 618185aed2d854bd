package pipeline

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hirejourne/prep-agent/internal/analysis"
	"github.com/hirejourne/prep-agent/internal/enrichment"
	"github.com/hirejourne/prep-agent/internal/llm"
	"github.com/hirejourne/prep-agent/internal/poll"
	"github.com/hirejourne/prep-agent/internal/research"
	"github.com/hirejourne/prep-agent/internal/types"
)

// scriptedLLM routes completions by prompt so one fake serves every
// generation feature the pipeline touches.
type scriptedLLM struct {
	mu         sync.Mutex
	jsonCalls  []string
	failSubstr string
}

func (s *scriptedLLM) Complete(context.Context, []llm.Message) (string, error) {
	return "Generated text.", nil
}

func (s *scriptedLLM) CompleteJSON(_ context.Context, system, _ string) (string, error) {
	s.mu.Lock()
	s.jsonCalls = append(s.jsonCalls, system)
	s.mu.Unlock()

	if s.failSubstr != "" && strings.Contains(system, s.failSubstr) {
		return "", errors.New("llm failure")
	}
	switch {
	case strings.Contains(system, "career coach"):
		return `{"skills": ["Go"], "matchedSkills": ["Go"], "missingSkills": [], "relevantExperience": []}`, nil
	case strings.Contains(system, "job-description parser"):
		return `{"jobTitle": "SRE", "responsibilities": [], "requiredSkills": ["Go"]}`, nil
	case strings.Contains(system, "preparing a candidate"):
		return `{"behavioralQuestions": ["Tell me about a conflict"], "technicalQuestions": ["Design a rate limiter"], "closingStatements": ["Any concerns?"]}`, nil
	case strings.Contains(system, "STAR format"):
		return `[{"question": "q", "star_i_answer": {"situation": "s", "task": "t", "action": "a", "result": "r"}}]`, nil
	case strings.Contains(system, "technology analyst"):
		return `[{"name": "Go", "category": "language"}]`, nil
	case strings.Contains(system, "competitors"):
		return `[{"name": "Globex"}]`, nil
	}
	return "", errors.New("unexpected prompt")
}

func (s *scriptedLLM) sawJSONCall(substr string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, sys := range s.jsonCalls {
		if strings.Contains(sys, substr) {
			return true
		}
	}
	return false
}

type fakeStore struct {
	mu            sync.Mutex
	sub           *types.Submission
	history       []types.SubmissionStatus
	failedMsg     string
	reportIDs     []uuid.UUID
	content       map[uuid.UUID]types.ReportContent
	company       *types.CompanyRecord
	upsertErr     error
	processingErr error
}

func newFakeStore(sub *types.Submission) *fakeStore {
	return &fakeStore{sub: sub, content: map[uuid.UUID]types.ReportContent{}}
}

func (f *fakeStore) GetSubmission(_ context.Context, id uuid.UUID) (*types.Submission, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.sub == nil || f.sub.SubmissionID != id {
		return nil, nil
	}
	cp := *f.sub
	return &cp, nil
}

func (f *fakeStore) SetProcessing(_ context.Context, id uuid.UUID) error {
	if f.processingErr != nil {
		return f.processingErr
	}
	f.setStatus(types.StatusProcessing)
	return nil
}

func (f *fakeStore) MarkComplete(_ context.Context, id uuid.UUID, reportLink string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sub.Status = types.StatusComplete
	f.sub.ReportLink = reportLink
	f.history = append(f.history, types.StatusComplete)
	return nil
}

func (f *fakeStore) MarkFailed(_ context.Context, id uuid.UUID, message string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sub.Status = types.StatusFailed
	f.failedMsg = message
	f.history = append(f.history, types.StatusFailed)
	return nil
}

func (f *fakeStore) ResetForReprocess(_ context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.sub.Status.Terminal() {
		return errors.New("submission is not in a terminal state")
	}
	f.sub.Status = types.StatusPending
	f.sub.ErrorMessage = ""
	f.history = append(f.history, types.StatusPending)
	return nil
}

func (f *fakeStore) CreateReport(_ context.Context, submissionID, userID uuid.UUID) (uuid.UUID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := uuid.New()
	f.reportIDs = append(f.reportIDs, id)
	return id, nil
}

func (f *fakeStore) UpdateReportContent(_ context.Context, reportID uuid.UUID, content types.ReportContent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.content[reportID] = content
	return nil
}

func (f *fakeStore) UpsertCompany(_ context.Context, submissionID uuid.UUID, rec types.CompanyRecord) (uuid.UUID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.upsertErr != nil {
		return uuid.Nil, f.upsertErr
	}
	f.company = &rec
	return uuid.New(), nil
}

func (f *fakeStore) setStatus(s types.SubmissionStatus) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sub.Status = s
	f.history = append(f.history, s)
}

type fakeObjects struct {
	resume    []byte
	resumeErr error
	uploadErr error
	uploaded  []byte
}

func (f *fakeObjects) Get(_ context.Context, bucket, key string) ([]byte, error) {
	return f.resume, f.resumeErr
}

func (f *fakeObjects) UploadReport(_ context.Context, reportID uuid.UUID, pdf []byte) (string, error) {
	if f.uploadErr != nil {
		return "", f.uploadErr
	}
	f.uploaded = pdf
	return "http://localhost:9000/reports/" + reportID.String() + ".pdf", nil
}

func (f *fakeObjects) ResumesBucket() string { return "resumes" }

type fakeRenderer struct {
	err error
}

func (f *fakeRenderer) Render(context.Context, string) ([]byte, error) {
	if f.err != nil {
		return nil, f.err
	}
	return []byte("%PDF-1.4 fake"), nil
}

type fakeOrgs struct{}

func (fakeOrgs) OrganizationByName(context.Context, string) (*research.Organization, error) {
	return nil, nil
}
func (fakeOrgs) FundingRounds(context.Context, string) ([]types.FundingRound, error) {
	return nil, nil
}
func (fakeOrgs) Competitors(context.Context, string) ([]types.Competitor, error) { return nil, nil }
func (fakeOrgs) Configured() bool                                                { return false }

func newTestPipeline(store *fakeStore, objects *fakeObjects, renderer *fakeRenderer, client llm.Client) *Pipeline {
	analyzer := analysis.New(client, nil)
	enricher := enrichment.New(fakeOrgs{}, analyzer)
	return New(store, objects, analyzer, enricher, nil, renderer, time.Minute)
}

func pendingSubmission() *types.Submission {
	return &types.Submission{
		SubmissionID: uuid.New(),
		UserID:       uuid.New(),
		CompanyName:  "Acme",
		JobDesc:      "SRE role. Run the platform.",
		Email:        "user@example.com",
		ResumeURL:    "http://localhost:9000/resumes/user-1/cv.pdf",
		Interviewers: []types.Interviewer{{Name: "Sam Lee", LinkedInURL: "https://linkedin.com/in/samlee"}},
		Status:       types.StatusPending,
	}
}

func TestProcessHappyPath(t *testing.T) {
	sub := pendingSubmission()
	store := newFakeStore(sub)
	objects := &fakeObjects{resume: []byte("resume text")}
	client := &scriptedLLM{}
	p := newTestPipeline(store, objects, &fakeRenderer{}, client)

	require.NoError(t, p.Process(context.Background(), sub.SubmissionID))

	assert.Equal(t, types.StatusComplete, store.sub.Status)
	assert.Contains(t, store.sub.ReportLink, ".pdf")
	assert.Equal(t, []types.SubmissionStatus{types.StatusProcessing, types.StatusComplete}, store.history)

	require.Len(t, store.reportIDs, 1)
	content := store.content[store.reportIDs[0]]
	assert.Equal(t, store.sub.ReportLink, content.PDFURL)
	assert.Contains(t, content.Questions, "Tell me about a conflict")

	require.NotNil(t, store.company)
	assert.Equal(t, "Acme", store.company.Name)
	assert.NotEmpty(t, objects.uploaded)
	assert.True(t, client.sawJSONCall("career coach"))
}

func TestProcessWithoutResumeSkipsAnalysis(t *testing.T) {
	sub := pendingSubmission()
	sub.ResumeURL = ""
	store := newFakeStore(sub)
	client := &scriptedLLM{}
	p := newTestPipeline(store, &fakeObjects{}, &fakeRenderer{}, client)

	require.NoError(t, p.Process(context.Background(), sub.SubmissionID))

	assert.Equal(t, types.StatusComplete, store.sub.Status)
	assert.False(t, client.sawJSONCall("career coach"), "resume analysis should be skipped")
}

func TestProcessEnrichmentFailureStillCompletes(t *testing.T) {
	sub := pendingSubmission()
	store := newFakeStore(sub)
	// Company lookups fail; the record falls back but processing finishes.
	client := &scriptedLLM{failSubstr: "analyst"}
	p := newTestPipeline(store, &fakeObjects{resume: []byte("resume text")}, &fakeRenderer{}, client)

	require.NoError(t, p.Process(context.Background(), sub.SubmissionID))

	assert.Equal(t, types.StatusComplete, store.sub.Status)
	require.NotNil(t, store.company)
	assert.Empty(t, store.company.TechStack)
}

func TestProcessPDFFailureMarksFailed(t *testing.T) {
	sub := pendingSubmission()
	store := newFakeStore(sub)
	p := newTestPipeline(store, &fakeObjects{}, &fakeRenderer{err: errors.New("chrome crashed")}, &scriptedLLM{})

	err := p.Process(context.Background(), sub.SubmissionID)
	require.Error(t, err)

	assert.Equal(t, types.StatusFailed, store.sub.Status)
	assert.Contains(t, store.failedMsg, "chrome crashed")
	assert.Empty(t, store.sub.ReportLink)
}

func TestProcessUploadFailureMarksFailed(t *testing.T) {
	sub := pendingSubmission()
	store := newFakeStore(sub)
	objects := &fakeObjects{uploadErr: errors.New("bucket gone")}
	p := newTestPipeline(store, objects, &fakeRenderer{}, &scriptedLLM{})

	require.Error(t, p.Process(context.Background(), sub.SubmissionID))
	assert.Equal(t, types.StatusFailed, store.sub.Status)
}

func TestProcessCompanyPersistenceFailureIsFatal(t *testing.T) {
	sub := pendingSubmission()
	store := newFakeStore(sub)
	store.upsertErr = errors.New("db down")
	p := newTestPipeline(store, &fakeObjects{}, &fakeRenderer{}, &scriptedLLM{})

	err := p.Process(context.Background(), sub.SubmissionID)
	require.Error(t, err)
	assert.Equal(t, types.StatusFailed, store.sub.Status)
	assert.Contains(t, store.failedMsg, "company data")
}

func TestFailedRunStillHasReportRow(t *testing.T) {
	tests := []struct {
		name  string
		setup func(store *fakeStore, objects *fakeObjects, renderer *fakeRenderer)
	}{
		{"company persistence failure", func(store *fakeStore, _ *fakeObjects, _ *fakeRenderer) {
			store.upsertErr = errors.New("db down")
		}},
		{"pdf failure", func(_ *fakeStore, _ *fakeObjects, renderer *fakeRenderer) {
			renderer.err = errors.New("chrome crashed")
		}},
		{"upload failure", func(_ *fakeStore, objects *fakeObjects, _ *fakeRenderer) {
			objects.uploadErr = errors.New("bucket gone")
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sub := pendingSubmission()
			store := newFakeStore(sub)
			objects := &fakeObjects{}
			renderer := &fakeRenderer{}
			tt.setup(store, objects, renderer)
			p := newTestPipeline(store, objects, renderer, &scriptedLLM{})

			require.Error(t, p.Process(context.Background(), sub.SubmissionID))

			assert.Equal(t, types.StatusFailed, store.sub.Status)
			assert.Len(t, store.reportIDs, 1, "a report row must exist once the submission leaves pending")
		})
	}
}

func TestProcessUnknownSubmission(t *testing.T) {
	store := newFakeStore(pendingSubmission())
	p := newTestPipeline(store, &fakeObjects{}, &fakeRenderer{}, &scriptedLLM{})

	err := p.Process(context.Background(), uuid.New())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestProcessTerminalSubmissionRejected(t *testing.T) {
	sub := pendingSubmission()
	sub.Status = types.StatusComplete
	store := newFakeStore(sub)
	p := newTestPipeline(store, &fakeObjects{}, &fakeRenderer{}, &scriptedLLM{})

	err := p.Process(context.Background(), sub.SubmissionID)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already complete")
}

func TestReprocessCreatesFreshReport(t *testing.T) {
	sub := pendingSubmission()
	store := newFakeStore(sub)
	p := newTestPipeline(store, &fakeObjects{}, &fakeRenderer{}, &scriptedLLM{})

	require.NoError(t, p.Process(context.Background(), sub.SubmissionID))
	firstLink := store.sub.ReportLink

	require.NoError(t, p.Reprocess(context.Background(), sub.SubmissionID))

	assert.Equal(t, types.StatusComplete, store.sub.Status)
	assert.Len(t, store.reportIDs, 2)
	assert.NotEqual(t, firstLink, store.sub.ReportLink)
}

func TestReprocessRequiresTerminalState(t *testing.T) {
	sub := pendingSubmission()
	store := newFakeStore(sub)
	p := newTestPipeline(store, &fakeObjects{}, &fakeRenderer{}, &scriptedLLM{})

	err := p.Reprocess(context.Background(), sub.SubmissionID)
	assert.Error(t, err)
}

func TestWaitForTerminal(t *testing.T) {
	sub := pendingSubmission()
	store := newFakeStore(sub)
	p := newTestPipeline(store, &fakeObjects{}, &fakeRenderer{}, &scriptedLLM{})

	go func() {
		time.Sleep(20 * time.Millisecond)
		store.setStatus(types.StatusComplete)
	}()

	status, err := p.WaitForTerminal(context.Background(), sub.SubmissionID, poll.Options{Interval: 5 * time.Millisecond})
	require.NoError(t, err)
	assert.Equal(t, types.StatusComplete, status)
}

func TestWaitForTerminalTimesOut(t *testing.T) {
	sub := pendingSubmission()
	store := newFakeStore(sub)
	p := newTestPipeline(store, &fakeObjects{}, &fakeRenderer{}, &scriptedLLM{})

	_, err := p.WaitForTerminal(context.Background(), sub.SubmissionID, poll.Options{Interval: time.Millisecond, MaxAttempts: 3})
	assert.ErrorIs(t, err, poll.ErrTimeout)
}
