package db

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/hirejourne/prep-agent/internal/types"
)

// GetCachedTechStack retrieves a previously analyzed tech stack for a domain.
// Returns nil on cache miss.
func (db *DB) GetCachedTechStack(ctx context.Context, domain string) ([]types.Technology, error) {
	var technologies []byte
	err := db.pool.QueryRow(ctx,
		`SELECT technologies FROM tech_stack WHERE domain = $1`, domain,
	).Scan(&technologies)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get cached tech stack: %w", err)
	}

	var stack []types.Technology
	if err := json.Unmarshal(technologies, &stack); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cached tech stack: %w", err)
	}
	return stack, nil
}

// CacheTechStack stores an analyzed tech stack for a domain, replacing any
// previous entry.
func (db *DB) CacheTechStack(ctx context.Context, domain string, stack []types.Technology) error {
	technologies, err := json.Marshal(stack)
	if err != nil {
		return fmt.Errorf("failed to marshal tech stack: %w", err)
	}

	_, err = db.pool.Exec(ctx,
		`INSERT INTO tech_stack (domain, technologies, last_updated)
		 VALUES ($1, $2, NOW())
		 ON CONFLICT (domain) DO UPDATE SET technologies = $2, last_updated = NOW()`,
		domain, technologies,
	)
	if err != nil {
		return fmt.Errorf("failed to cache tech stack: %w", err)
	}
	return nil
}
