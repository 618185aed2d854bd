package types

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// Competitor is one entry in a company's market map.
type Competitor struct {
	Name        string `json:"name" validate:"required"`
	URL         string `json:"url,omitempty" validate:"omitempty,url"`
	Description string `json:"description,omitempty"`
}

// Technology is one entry in a company's tech stack.
type Technology struct {
	Name        string `json:"name" validate:"required"`
	Category    string `json:"category" validate:"required"`
	Description string `json:"description,omitempty"`
}

// FundingRound is one financing event for a company.
type FundingRound struct {
	Date      string   `json:"date"`
	Round     string   `json:"round"`
	Amount    float64  `json:"amount"`
	Investors []string `json:"investors"`
}

// Company holds enrichment results for a submission's target company.
// A submission owns at most one company row; report generation tolerates its absence.
type Company struct {
	ID                uuid.UUID      `json:"id"`
	SubmissionID      uuid.UUID      `json:"submission_id"`
	Name              string         `json:"name"`
	CompanySummary    string         `json:"company_summary,omitempty"`
	MarketMap         []Competitor   `json:"market_map"`
	TechStack         []Technology   `json:"tech_stack"`
	FundingRounds     []FundingRound `json:"funding_rounds"`
	DueDiligenceNotes string         `json:"due_diligence_notes,omitempty"`
	CreatedAt         time.Time      `json:"created_at"`
}

// CompanyRecord is the enrichment payload written to a company row.
type CompanyRecord struct {
	Name              string         `validate:"required"`
	CompanySummary    string         ``
	MarketMap         []Competitor   `validate:"dive"`
	TechStack         []Technology   `validate:"dive"`
	FundingRounds     []FundingRound `validate:"dive"`
	DueDiligenceNotes string         ``
}

// Validate checks the record before it reaches the storage boundary.
func (r *CompanyRecord) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}
