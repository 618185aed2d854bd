package db

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/hirejourne/prep-agent/internal/types"
)

// CreateSubmission inserts a new submission row in the pending state and
// returns its ID. Params are validated before the write.
func (db *DB) CreateSubmission(ctx context.Context, p types.NewSubmissionParams) (uuid.UUID, error) {
	if err := p.Validate(); err != nil {
		return uuid.Nil, fmt.Errorf("invalid submission: %w", err)
	}

	interviewers, err := json.Marshal(p.Interviewers)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to marshal interviewers: %w", err)
	}

	var id uuid.UUID
	err = db.pool.QueryRow(ctx,
		`INSERT INTO submissions (user_id, company_name, job_description, email, resume_url, interviewers_list, status)
		 VALUES ($1, $2, $3, $4, NULLIF($5, ''), $6, 'pending')
		 RETURNING submission_id`,
		p.UserID, p.CompanyName, p.JobDesc, p.Email, p.ResumeURL, interviewers,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to create submission: %w", err)
	}
	return id, nil
}

// GetSubmission retrieves a submission by ID. Returns nil if not found.
func (db *DB) GetSubmission(ctx context.Context, submissionID uuid.UUID) (*types.Submission, error) {
	var (
		s            types.Submission
		resumeURL    *string
		reportLink   *string
		errorMessage *string
		interviewers []byte
	)
	err := db.pool.QueryRow(ctx,
		`SELECT submission_id, user_id, company_name, job_description, email,
		        resume_url, interviewers_list, status, report_link, error_message, created_at
		 FROM submissions WHERE submission_id = $1`,
		submissionID,
	).Scan(&s.SubmissionID, &s.UserID, &s.CompanyName, &s.JobDesc, &s.Email,
		&resumeURL, &interviewers, &s.Status, &reportLink, &errorMessage, &s.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get submission: %w", err)
	}

	if resumeURL != nil {
		s.ResumeURL = *resumeURL
	}
	if reportLink != nil {
		s.ReportLink = *reportLink
	}
	if errorMessage != nil {
		s.ErrorMessage = *errorMessage
	}
	if len(interviewers) > 0 {
		if err := json.Unmarshal(interviewers, &s.Interviewers); err != nil {
			return nil, fmt.Errorf("failed to unmarshal interviewers: %w", err)
		}
	}
	return &s, nil
}

// ListSubmissions retrieves all submissions for a user, newest first.
func (db *DB) ListSubmissions(ctx context.Context, userID uuid.UUID) ([]types.Submission, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT submission_id, user_id, company_name, job_description, email,
		        COALESCE(resume_url, ''), interviewers_list, status,
		        COALESCE(report_link, ''), COALESCE(error_message, ''), created_at
		 FROM submissions WHERE user_id = $1
		 ORDER BY created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list submissions: %w", err)
	}
	defer rows.Close()

	var submissions []types.Submission
	for rows.Next() {
		var (
			s            types.Submission
			interviewers []byte
		)
		if err := rows.Scan(&s.SubmissionID, &s.UserID, &s.CompanyName, &s.JobDesc, &s.Email,
			&s.ResumeURL, &interviewers, &s.Status, &s.ReportLink, &s.ErrorMessage, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan submission: %w", err)
		}
		if len(interviewers) > 0 {
			if err := json.Unmarshal(interviewers, &s.Interviewers); err != nil {
				return nil, fmt.Errorf("failed to unmarshal interviewers: %w", err)
			}
		}
		submissions = append(submissions, s)
	}
	return submissions, rows.Err()
}

// SetProcessing transitions a submission to the processing state.
// Written before any external call begins so a crash mid-flight leaves an
// observable non-terminal state.
func (db *DB) SetProcessing(ctx context.Context, submissionID uuid.UUID) error {
	_, err := db.pool.Exec(ctx,
		`UPDATE submissions SET status = 'processing' WHERE submission_id = $1`,
		submissionID,
	)
	if err != nil {
		return fmt.Errorf("failed to set submission processing: %w", err)
	}
	return nil
}

// MarkComplete writes the terminal complete state together with the report link.
func (db *DB) MarkComplete(ctx context.Context, submissionID uuid.UUID, reportLink string) error {
	if reportLink == "" {
		return fmt.Errorf("report link cannot be empty for a complete submission")
	}
	_, err := db.pool.Exec(ctx,
		`UPDATE submissions SET status = 'complete', report_link = $1, error_message = NULL
		 WHERE submission_id = $2`,
		reportLink, submissionID,
	)
	if err != nil {
		return fmt.Errorf("failed to mark submission complete: %w", err)
	}
	return nil
}

// MarkFailed writes the terminal failed state with an error message.
func (db *DB) MarkFailed(ctx context.Context, submissionID uuid.UUID, message string) error {
	if message == "" {
		message = "Unknown error occurred"
	}
	_, err := db.pool.Exec(ctx,
		`UPDATE submissions SET status = 'failed', error_message = $1 WHERE submission_id = $2`,
		message, submissionID,
	)
	if err != nil {
		return fmt.Errorf("failed to mark submission failed: %w", err)
	}
	return nil
}

// ResetForReprocess returns a terminal submission to pending and clears its
// error message. The next orchestrator run creates a fresh report row; the
// submission's report_link keeps pointing at the previous report until then.
func (db *DB) ResetForReprocess(ctx context.Context, submissionID uuid.UUID) error {
	tag, err := db.pool.Exec(ctx,
		`UPDATE submissions SET status = 'pending', error_message = NULL
		 WHERE submission_id = $1 AND status IN ('complete', 'failed')`,
		submissionID,
	)
	if err != nil {
		return fmt.Errorf("failed to reset submission: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("submission %s is not in a terminal state", submissionID)
	}
	return nil
}

// URLRef is one row holding an object-storage URL reference.
type URLRef struct {
	SubmissionID uuid.UUID
	UserID       uuid.UUID
	URL          string
}

// ListResumeRefs returns all submissions with a non-null resume URL.
func (db *DB) ListResumeRefs(ctx context.Context) ([]URLRef, error) {
	return db.listRefs(ctx, `SELECT submission_id, user_id, resume_url FROM submissions WHERE resume_url IS NOT NULL`)
}

// ListReportRefs returns all submissions with a non-null report link.
func (db *DB) ListReportRefs(ctx context.Context) ([]URLRef, error) {
	return db.listRefs(ctx, `SELECT submission_id, user_id, report_link FROM submissions WHERE report_link IS NOT NULL`)
}

func (db *DB) listRefs(ctx context.Context, query string) ([]URLRef, error) {
	rows, err := db.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list references: %w", err)
	}
	defer rows.Close()

	var refs []URLRef
	for rows.Next() {
		var ref URLRef
		if err := rows.Scan(&ref.SubmissionID, &ref.UserID, &ref.URL); err != nil {
			return nil, fmt.Errorf("failed to scan reference: %w", err)
		}
		refs = append(refs, ref)
	}
	return refs, rows.Err()
}

// ClearResumeURL nulls a dangling resume reference.
func (db *DB) ClearResumeURL(ctx context.Context, submissionID uuid.UUID) error {
	_, err := db.pool.Exec(ctx,
		`UPDATE submissions SET resume_url = NULL WHERE submission_id = $1`, submissionID)
	if err != nil {
		return fmt.Errorf("failed to clear resume url: %w", err)
	}
	return nil
}

// ClearReportLink nulls a dangling report reference.
func (db *DB) ClearReportLink(ctx context.Context, submissionID uuid.UUID) error {
	_, err := db.pool.Exec(ctx,
		`UPDATE submissions SET report_link = NULL WHERE submission_id = $1`, submissionID)
	if err != nil {
		return fmt.Errorf("failed to clear report link: %w", err)
	}
	return nil
}

// RewriteResumeURL repoints every row referencing oldURL at newURL.
// Used by the storage migration to keep references consistent with moved objects.
func (db *DB) RewriteResumeURL(ctx context.Context, oldURL, newURL string) (int64, error) {
	tag, err := db.pool.Exec(ctx,
		`UPDATE submissions SET resume_url = $1 WHERE resume_url = $2`, newURL, oldURL)
	if err != nil {
		return 0, fmt.Errorf("failed to rewrite resume url: %w", err)
	}
	return tag.RowsAffected(), nil
}
