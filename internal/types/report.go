package types

import (
	"time"

	"github.com/google/uuid"
)

// Report is the generated interview-preparation report for a submission.
// Reprocessing a submission creates a fresh report row; the submission's
// report_link is the authoritative pointer to the current one.
type Report struct {
	ReportID     uuid.UUID `json:"report_id"`
	SubmissionID uuid.UUID `json:"submission_id"`
	UserID       uuid.UUID `json:"user_id"`
	ReportPDFURL string    `json:"report_pdf_url,omitempty"`
	Overview     string    `json:"company_overview_summary,omitempty"`
	Questions    string    `json:"potential_interview_questions,omitempty"`
	KeyInsights  string    `json:"key_insights,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// ReportContent holds the generated sections written back to a report row.
type ReportContent struct {
	PDFURL      string
	Overview    string
	Questions   string
	KeyInsights string
}

// Question is one saved entry in a user's question bank.
type Question struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	Text      string    `json:"text"`
	Category  string    `json:"category,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
