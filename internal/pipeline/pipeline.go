// Package pipeline orchestrates submission processing: status
// transitions, parallel research and generation, report persistence,
// and PDF delivery.
//
// Failure policy: research and generation steps degrade to fallback or
// empty values; report persistence, PDF rendering, upload, and status
// writes are fatal and move the submission to failed.
package pipeline

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/hirejourne/prep-agent/internal/analysis"
	"github.com/hirejourne/prep-agent/internal/enrichment"
	"github.com/hirejourne/prep-agent/internal/poll"
	"github.com/hirejourne/prep-agent/internal/report"
	"github.com/hirejourne/prep-agent/internal/research"
	"github.com/hirejourne/prep-agent/internal/storage"
	"github.com/hirejourne/prep-agent/internal/types"
)

// Store is the persistence surface the orchestrator drives.
type Store interface {
	GetSubmission(ctx context.Context, submissionID uuid.UUID) (*types.Submission, error)
	SetProcessing(ctx context.Context, submissionID uuid.UUID) error
	MarkComplete(ctx context.Context, submissionID uuid.UUID, reportLink string) error
	MarkFailed(ctx context.Context, submissionID uuid.UUID, message string) error
	ResetForReprocess(ctx context.Context, submissionID uuid.UUID) error
	CreateReport(ctx context.Context, submissionID, userID uuid.UUID) (uuid.UUID, error)
	UpdateReportContent(ctx context.Context, reportID uuid.UUID, content types.ReportContent) error
	UpsertCompany(ctx context.Context, submissionID uuid.UUID, rec types.CompanyRecord) (uuid.UUID, error)
}

// ObjectStore is the object-storage surface the orchestrator uses.
type ObjectStore interface {
	Get(ctx context.Context, bucket, key string) ([]byte, error)
	UploadReport(ctx context.Context, reportID uuid.UUID, pdf []byte) (string, error)
	ResumesBucket() string
}

// ProfileSource looks up interviewer profiles.
type ProfileSource interface {
	PersonByURL(ctx context.Context, linkedinURL string) (*research.PersonProfile, error)
	Configured() bool
}

// Pipeline processes submissions end to end.
type Pipeline struct {
	store    Store
	objects  ObjectStore
	analyzer *analysis.Analyzer
	enricher *enrichment.Enricher
	profiles ProfileSource
	renderer report.PDFRenderer

	// callTimeout bounds each external call.
	callTimeout time.Duration
}

// New builds a Pipeline. callTimeout <= 0 defaults to 60s.
func New(store Store, objects ObjectStore, analyzer *analysis.Analyzer, enricher *enrichment.Enricher, profiles ProfileSource, renderer report.PDFRenderer, callTimeout time.Duration) *Pipeline {
	if callTimeout <= 0 {
		callTimeout = 60 * time.Second
	}
	return &Pipeline{
		store:       store,
		objects:     objects,
		analyzer:    analyzer,
		enricher:    enricher,
		profiles:    profiles,
		renderer:    renderer,
		callTimeout: callTimeout,
	}
}

// Process runs a submission to a terminal state. On a fatal error the
// submission is marked failed (best effort) and the error returned.
func (p *Pipeline) Process(ctx context.Context, submissionID uuid.UUID) error {
	sub, err := p.store.GetSubmission(ctx, submissionID)
	if err != nil {
		return fmt.Errorf("failed to load submission: %w", err)
	}
	if sub == nil {
		return fmt.Errorf("submission %s not found", submissionID)
	}
	if sub.Status.Terminal() {
		return fmt.Errorf("submission %s already %s", submissionID, sub.Status)
	}

	// The processing write precedes any external call so observers see
	// an in-flight submission immediately.
	if err := p.store.SetProcessing(ctx, submissionID); err != nil {
		return fmt.Errorf("failed to mark submission processing: %w", err)
	}

	// The report row is created up front, so one exists for every
	// submission that left pending, even when the run fails. Its
	// placeholder content is overwritten once generation finishes.
	reportID, err := p.store.CreateReport(ctx, submissionID, sub.UserID)
	if err != nil {
		err = fmt.Errorf("failed to create report: %w", err)
		p.markFailed(ctx, submissionID, err)
		return err
	}

	if err := p.run(ctx, sub, reportID); err != nil {
		p.markFailed(ctx, submissionID, err)
		return err
	}
	return nil
}

func (p *Pipeline) markFailed(ctx context.Context, submissionID uuid.UUID, cause error) {
	if err := p.store.MarkFailed(ctx, submissionID, cause.Error()); err != nil {
		log.Printf("Failed to mark submission %s failed: %v", submissionID, err)
	}
}

// Reprocess resets a terminal submission and runs it again. A fresh
// report row is created; the submission's report_link ends up pointing
// at the new PDF.
func (p *Pipeline) Reprocess(ctx context.Context, submissionID uuid.UUID) error {
	if err := p.store.ResetForReprocess(ctx, submissionID); err != nil {
		return err
	}
	return p.Process(ctx, submissionID)
}

// WaitForTerminal polls until the submission reaches complete or failed.
func (p *Pipeline) WaitForTerminal(ctx context.Context, submissionID uuid.UUID, opts poll.Options) (types.SubmissionStatus, error) {
	var status types.SubmissionStatus
	err := poll.Wait(ctx, func(ctx context.Context) (bool, error) {
		sub, err := p.store.GetSubmission(ctx, submissionID)
		if err != nil {
			return false, err
		}
		if sub == nil {
			return false, fmt.Errorf("submission %s not found", submissionID)
		}
		status = sub.Status
		return status.Terminal(), nil
	}, opts)
	return status, err
}

// results accumulates the parallel stage outputs feeding the report.
type results struct {
	companyName  string
	role         string
	company      *types.CompanyRecord
	analysis     *types.ResumeAnalysis
	prep         *types.InterviewPrep
	behavioral   []types.STARAnswer
	technical    []types.STARAnswer
	interviewers []types.InterviewerProfile
}

func (p *Pipeline) run(ctx context.Context, sub *types.Submission, reportID uuid.UUID) error {
	res := &results{companyName: sub.CompanyName}
	if res.companyName == "" {
		res.companyName = analysis.ExtractCompanyName(sub.JobDesc)
	}

	resumeText := p.fetchResumeText(ctx, sub.ResumeURL)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return p.enrichCompany(gctx, sub.SubmissionID, res) })
	g.Go(func() error {
		p.analyzeResume(gctx, resumeText, sub.JobDesc, res)
		return nil
	})
	g.Go(func() error {
		p.generatePrep(gctx, resumeText, sub.JobDesc, res)
		return nil
	})
	g.Go(func() error {
		res.interviewers = p.assessInterviewers(gctx, sub, res.companyName, resumeText)
		return nil
	})
	if err := g.Wait(); err != nil {
		return err
	}

	data := &report.Data{
		CompanyName:  res.companyName,
		Role:         res.role,
		Company:      res.company,
		Analysis:     res.analysis,
		Prep:         res.prep,
		Behavioral:   res.behavioral,
		Technical:    res.technical,
		Interviewers: res.interviewers,
		GeneratedAt:  time.Now(),
	}

	html, err := report.RenderHTML(data)
	if err != nil {
		return err
	}
	renderCtx, cancel := p.boundCtx(ctx)
	pdf, err := p.renderer.Render(renderCtx, html)
	cancel()
	if err != nil {
		return err
	}

	pdfURL, err := p.objects.UploadReport(ctx, reportID, pdf)
	if err != nil {
		return err
	}

	content := report.Compose(data)
	content.PDFURL = pdfURL
	if err := p.store.UpdateReportContent(ctx, reportID, content); err != nil {
		return fmt.Errorf("failed to persist report content: %w", err)
	}

	if err := p.store.MarkComplete(ctx, sub.SubmissionID, pdfURL); err != nil {
		return fmt.Errorf("failed to mark submission complete: %w", err)
	}
	return nil
}

// fetchResumeText pulls the stored resume. A missing URL or failed
// fetch skips resume-driven stages rather than failing the run.
func (p *Pipeline) fetchResumeText(ctx context.Context, resumeURL string) string {
	if resumeURL == "" {
		return ""
	}
	key, ok := storage.KeyFromURL(resumeURL, p.objects.ResumesBucket())
	if !ok {
		log.Printf("Unrecognized resume URL %q, skipping resume analysis", resumeURL)
		return ""
	}

	callCtx, cancel := p.boundCtx(ctx)
	defer cancel()
	data, err := p.objects.Get(callCtx, p.objects.ResumesBucket(), key)
	if err != nil {
		log.Printf("Failed to fetch resume %s: %v", key, err)
		return ""
	}
	return string(data)
}

// enrichCompany is the one parallel stage with a fatal tail: enrichment
// itself always yields a record, but persisting it must succeed.
func (p *Pipeline) enrichCompany(ctx context.Context, submissionID uuid.UUID, res *results) error {
	callCtx, cancel := p.boundCtx(ctx)
	defer cancel()
	record := p.enricher.Enrich(callCtx, res.companyName)
	if _, err := p.store.UpsertCompany(ctx, submissionID, *record); err != nil {
		return fmt.Errorf("failed to persist company data: %w", err)
	}
	res.company = record
	return nil
}

func (p *Pipeline) analyzeResume(ctx context.Context, resumeText, jobDesc string, res *results) {
	if resumeText == "" {
		return
	}
	callCtx, cancel := p.boundCtx(ctx)
	defer cancel()
	result, err := p.analyzer.AnalyzeResume(callCtx, resumeText, jobDesc)
	if err != nil {
		log.Printf("Resume analysis failed: %v", err)
		return
	}
	res.analysis = result
}

// generatePrep produces the question sets, the role title, and the STAR
// answers that depend on the questions.
func (p *Pipeline) generatePrep(ctx context.Context, resumeText, jobDesc string, res *results) {
	parseCtx, cancel := p.boundCtx(ctx)
	parsed, err := p.analyzer.ParseJobDescription(parseCtx, jobDesc)
	cancel()
	if err != nil {
		log.Printf("Job description parsing failed: %v", err)
	} else {
		res.role = parsed.JobTitle
	}

	prepCtx, cancel := p.boundCtx(ctx)
	prep, err := p.analyzer.GenerateInterviewPrep(prepCtx, res.companyName, res.role, jobDesc, resumeText)
	cancel()
	if err != nil {
		log.Printf("Interview prep generation failed: %v", err)
		return
	}
	res.prep = prep

	if len(prep.BehavioralQuestions) > 0 {
		starCtx, cancel := p.boundCtx(ctx)
		answers, err := p.analyzer.GenerateBehavioralSTAR(starCtx, prep.BehavioralQuestions, resumeText, res.role, res.companyName)
		cancel()
		if err != nil {
			log.Printf("Behavioral STAR generation failed: %v", err)
		} else {
			res.behavioral = answers
		}
	}
	if len(prep.TechnicalQuestions) > 0 {
		starCtx, cancel := p.boundCtx(ctx)
		answers, err := p.analyzer.GenerateTechnicalSTAR(starCtx, prep.TechnicalQuestions, resumeText, res.role, res.companyName)
		cancel()
		if err != nil {
			log.Printf("Technical STAR generation failed: %v", err)
		} else {
			res.technical = answers
		}
	}
}

// assessInterviewers researches each interviewer independently; one
// failed lookup never blocks the others.
func (p *Pipeline) assessInterviewers(ctx context.Context, sub *types.Submission, companyName, resumeText string) []types.InterviewerProfile {
	var profiles []types.InterviewerProfile
	for _, interviewer := range sub.Interviewers {
		var person *research.PersonProfile
		if p.profiles != nil && p.profiles.Configured() {
			lookupCtx, cancel := p.boundCtx(ctx)
			found, err := p.profiles.PersonByURL(lookupCtx, interviewer.LinkedInURL)
			cancel()
			if err != nil {
				log.Printf("Profile lookup for %s failed: %v", interviewer.Name, err)
			} else {
				person = found
			}
		}

		assessCtx, cancel := p.boundCtx(ctx)
		profile, err := p.analyzer.AssessInterviewer(assessCtx, interviewer, person, resumeText, "", companyName)
		cancel()
		if err != nil {
			log.Printf("Interviewer assessment for %s failed: %v", interviewer.Name, err)
			continue
		}
		profiles = append(profiles, *profile)
	}
	return profiles
}

func (p *Pipeline) boundCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, p.callTimeout)
}
