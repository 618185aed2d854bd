// Package types provides type definitions for structured data used throughout the interview-prep system.
package types

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// SubmissionStatus is the lifecycle state of a submission.
type SubmissionStatus string

const (
	StatusPending    SubmissionStatus = "pending"
	StatusProcessing SubmissionStatus = "processing"
	StatusComplete   SubmissionStatus = "complete"
	StatusFailed     SubmissionStatus = "failed"
)

// Terminal reports whether no further orchestrator-driven transition occurs from s.
func (s SubmissionStatus) Terminal() bool {
	return s == StatusComplete || s == StatusFailed
}

// Valid reports whether s is one of the known lifecycle states.
func (s SubmissionStatus) Valid() bool {
	switch s {
	case StatusPending, StatusProcessing, StatusComplete, StatusFailed:
		return true
	}
	return false
}

// Interviewer identifies one interviewer attached to a submission.
// It has no independent lifecycle; it lives and dies with its parent submission.
type Interviewer struct {
	Name        string `json:"name,omitempty"`
	LinkedInURL string `json:"linkedin_url" validate:"required,url"`
}

// Submission is one user request to generate an interview-preparation report
// for one company and job description.
type Submission struct {
	SubmissionID uuid.UUID        `json:"submission_id"`
	UserID       uuid.UUID        `json:"user_id"`
	CompanyName  string           `json:"company_name"`
	JobDesc      string           `json:"job_description"`
	Email        string           `json:"email"`
	ResumeURL    string           `json:"resume_url,omitempty"`
	Interviewers []Interviewer    `json:"interviewers_list"`
	Status       SubmissionStatus `json:"status"`
	ReportLink   string           `json:"report_link,omitempty"`
	ErrorMessage string           `json:"error_message,omitempty"`
	CreatedAt    time.Time        `json:"created_at"`
}

// NewSubmissionParams holds the fields required to create a submission row.
type NewSubmissionParams struct {
	UserID       uuid.UUID     `validate:"required"`
	CompanyName  string        `validate:"required,min=1"`
	JobDesc      string        `validate:"required,min=1"`
	Email        string        `validate:"required,email"`
	ResumeURL    string        `validate:"omitempty,url"`
	Interviewers []Interviewer `validate:"dive"`
}

// Validate checks the params before they reach the storage boundary.
func (p *NewSubmissionParams) Validate() error {
	validate := validator.New()
	return validate.Struct(p)
}
