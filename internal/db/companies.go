package db

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/hirejourne/prep-agent/internal/types"
)

// UpsertCompany creates or replaces the company row for a submission and
// returns its ID. A later enrichment pass overwrites the earlier one.
func (db *DB) UpsertCompany(ctx context.Context, submissionID uuid.UUID, rec types.CompanyRecord) (uuid.UUID, error) {
	if err := rec.Validate(); err != nil {
		return uuid.Nil, fmt.Errorf("invalid company record: %w", err)
	}

	marketMap, err := json.Marshal(emptyIfNilCompetitors(rec.MarketMap))
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to marshal market map: %w", err)
	}
	techStack, err := json.Marshal(emptyIfNilTechnologies(rec.TechStack))
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to marshal tech stack: %w", err)
	}
	fundingRounds, err := json.Marshal(emptyIfNilFunding(rec.FundingRounds))
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to marshal funding rounds: %w", err)
	}

	var id uuid.UUID
	err = db.pool.QueryRow(ctx,
		`INSERT INTO companies (submission_id, name, company_summary, market_map, tech_stack, funding_rounds, due_diligence_notes)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 ON CONFLICT (submission_id) DO UPDATE
		 SET name = $2, company_summary = $3, market_map = $4, tech_stack = $5,
		     funding_rounds = $6, due_diligence_notes = $7
		 RETURNING id`,
		submissionID, rec.Name, rec.CompanySummary, marketMap, techStack, fundingRounds, rec.DueDiligenceNotes,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to upsert company: %w", err)
	}
	return id, nil
}

// GetCompany retrieves the company row for a submission. Returns nil if the
// enrichment never produced one; report generation tolerates that.
func (db *DB) GetCompany(ctx context.Context, submissionID uuid.UUID) (*types.Company, error) {
	var (
		c             types.Company
		marketMap     []byte
		techStack     []byte
		fundingRounds []byte
	)
	err := db.pool.QueryRow(ctx,
		`SELECT id, submission_id, name, COALESCE(company_summary, ''),
		        market_map, tech_stack, funding_rounds, COALESCE(due_diligence_notes, ''), created_at
		 FROM companies WHERE submission_id = $1`,
		submissionID,
	).Scan(&c.ID, &c.SubmissionID, &c.Name, &c.CompanySummary,
		&marketMap, &techStack, &fundingRounds, &c.DueDiligenceNotes, &c.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get company: %w", err)
	}

	if err := json.Unmarshal(marketMap, &c.MarketMap); err != nil {
		return nil, fmt.Errorf("failed to unmarshal market map: %w", err)
	}
	if err := json.Unmarshal(techStack, &c.TechStack); err != nil {
		return nil, fmt.Errorf("failed to unmarshal tech stack: %w", err)
	}
	if err := json.Unmarshal(fundingRounds, &c.FundingRounds); err != nil {
		return nil, fmt.Errorf("failed to unmarshal funding rounds: %w", err)
	}
	return &c, nil
}

// jsonb columns store [] rather than null so readers never special-case.

func emptyIfNilCompetitors(v []types.Competitor) []types.Competitor {
	if v == nil {
		return []types.Competitor{}
	}
	return v
}

func emptyIfNilTechnologies(v []types.Technology) []types.Technology {
	if v == nil {
		return []types.Technology{}
	}
	return v
}

func emptyIfNilFunding(v []types.FundingRound) []types.FundingRound {
	if v == nil {
		return []types.FundingRound{}
	}
	return v
}
