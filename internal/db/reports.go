package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/hirejourne/prep-agent/internal/types"
)

// CreateReport inserts a report row with placeholder content and returns its ID.
// A report row exists from the moment a submission leaves pending.
func (db *DB) CreateReport(ctx context.Context, submissionID, userID uuid.UUID) (uuid.UUID, error) {
	var id uuid.UUID
	err := db.pool.QueryRow(ctx,
		`INSERT INTO reports (submission_id, user_id, company_overview_summary, potential_interview_questions, key_insights)
		 VALUES ($1, $2, 'Generating report...', '[]', '[]')
		 RETURNING report_id`,
		submissionID, userID,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to create report: %w", err)
	}
	return id, nil
}

// UpdateReportContent writes the generated sections and PDF URL onto a report row.
func (db *DB) UpdateReportContent(ctx context.Context, reportID uuid.UUID, content types.ReportContent) error {
	_, err := db.pool.Exec(ctx,
		`UPDATE reports
		 SET report_pdf_url = $1, company_overview_summary = $2,
		     potential_interview_questions = $3, key_insights = $4
		 WHERE report_id = $5`,
		content.PDFURL, content.Overview, content.Questions, content.KeyInsights, reportID,
	)
	if err != nil {
		return fmt.Errorf("failed to update report: %w", err)
	}
	return nil
}

// GetLatestReport retrieves the most recently created report for a submission.
// Returns nil if the submission has no reports yet.
func (db *DB) GetLatestReport(ctx context.Context, submissionID uuid.UUID) (*types.Report, error) {
	var r types.Report
	err := db.pool.QueryRow(ctx,
		`SELECT report_id, submission_id, user_id, COALESCE(report_pdf_url, ''),
		        COALESCE(company_overview_summary, ''), COALESCE(potential_interview_questions, ''),
		        COALESCE(key_insights, ''), created_at
		 FROM reports WHERE submission_id = $1
		 ORDER BY created_at DESC LIMIT 1`,
		submissionID,
	).Scan(&r.ReportID, &r.SubmissionID, &r.UserID, &r.ReportPDFURL,
		&r.Overview, &r.Questions, &r.KeyInsights, &r.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get report: %w", err)
	}
	return &r, nil
}

// ListReports retrieves every report generated for a submission, newest first.
// Reprocessing accumulates rows; this is the submission's report history.
func (db *DB) ListReports(ctx context.Context, submissionID uuid.UUID) ([]types.Report, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT report_id, submission_id, user_id, COALESCE(report_pdf_url, ''),
		        COALESCE(company_overview_summary, ''), COALESCE(potential_interview_questions, ''),
		        COALESCE(key_insights, ''), created_at
		 FROM reports WHERE submission_id = $1
		 ORDER BY created_at DESC`,
		submissionID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}
	defer rows.Close()

	var reports []types.Report
	for rows.Next() {
		var r types.Report
		if err := rows.Scan(&r.ReportID, &r.SubmissionID, &r.UserID, &r.ReportPDFURL,
			&r.Overview, &r.Questions, &r.KeyInsights, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan report: %w", err)
		}
		reports = append(reports, r)
	}
	return reports, rows.Err()
}
