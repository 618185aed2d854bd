package storage

import (
	"context"
	"fmt"
	"log"
	"path"
	"strings"

	"github.com/google/uuid"

	"github.com/hirejourne/prep-agent/internal/db"
)

// RefStore is the subset of database operations the maintenance jobs
// need to keep stored URLs consistent with objects.
type RefStore interface {
	ListResumeRefs(ctx context.Context) ([]db.URLRef, error)
	ListReportRefs(ctx context.Context) ([]db.URLRef, error)
	RewriteResumeURL(ctx context.Context, oldURL, newURL string) (int64, error)
	ClearResumeURL(ctx context.Context, submissionID uuid.UUID) error
	ClearReportLink(ctx context.Context, submissionID uuid.UUID) error
}

// MigrateResult summarizes a legacy-file migration run.
type MigrateResult struct {
	MigratedFiles int      `json:"migratedFiles"`
	Errors        []string `json:"errors"`
}

// SyncResult summarizes a reference sync run.
type SyncResult struct {
	Fixed int `json:"fixed"`
	Total int `json:"total"`
}

// MigrateLegacyFiles moves resume objects stored under legacy keys into
// the user-scoped {userID}/{uuid}.{ext} layout and repoints database
// references at the new location. Failures on individual files are
// collected rather than aborting the run, so a partially failed
// migration can be re-run safely.
func (c *Client) MigrateLegacyFiles(ctx context.Context, store RefStore) (*MigrateResult, error) {
	refs, err := store.ListResumeRefs(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list resume references: %w", err)
	}

	result := &MigrateResult{Errors: []string{}}
	for _, ref := range refs {
		key, ok := KeyFromURL(ref.URL, c.cfg.ResumesBucket)
		if !ok {
			result.Errors = append(result.Errors, fmt.Sprintf("%s: unrecognized resume URL %q", ref.SubmissionID, ref.URL))
			continue
		}
		if strings.HasPrefix(key, ref.UserID.String()+"/") {
			continue
		}

		newKey := fmt.Sprintf("%s/%s%s", ref.UserID, uuid.NewString(), path.Ext(key))
		if err := c.migrateObject(ctx, store, ref, key, newKey); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", key, err))
			continue
		}
		result.MigratedFiles++
	}

	log.Printf("Storage migration finished: %d files moved, %d errors", result.MigratedFiles, len(result.Errors))
	return result, nil
}

func (c *Client) migrateObject(ctx context.Context, store RefStore, ref db.URLRef, oldKey, newKey string) error {
	bucket := c.cfg.ResumesBucket
	if err := c.copy(ctx, bucket, oldKey, newKey); err != nil {
		return err
	}
	if _, err := store.RewriteResumeURL(ctx, ref.URL, c.PublicURL(bucket, newKey)); err != nil {
		// Reference still points at the old object, which remains in
		// place, so the submission stays usable.
		return err
	}
	if err := c.Delete(ctx, bucket, oldKey); err != nil {
		log.Printf("Migrated %s but failed to remove legacy object: %v", oldKey, err)
	}
	return nil
}

// SyncReferences clears database URLs whose objects no longer exist.
// It is idempotent: a second run over a consistent store fixes nothing.
func (c *Client) SyncReferences(ctx context.Context, store RefStore) (*SyncResult, error) {
	result := &SyncResult{}

	resumeRefs, err := store.ListResumeRefs(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list resume references: %w", err)
	}
	for _, ref := range resumeRefs {
		result.Total++
		if c.refDangling(ctx, ref.URL, c.cfg.ResumesBucket) {
			if err := store.ClearResumeURL(ctx, ref.SubmissionID); err != nil {
				return result, fmt.Errorf("failed to clear resume reference: %w", err)
			}
			result.Fixed++
		}
	}

	reportRefs, err := store.ListReportRefs(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list report references: %w", err)
	}
	for _, ref := range reportRefs {
		result.Total++
		if c.refDangling(ctx, ref.URL, c.cfg.ReportsBucket) {
			if err := store.ClearReportLink(ctx, ref.SubmissionID); err != nil {
				return result, fmt.Errorf("failed to clear report reference: %w", err)
			}
			result.Fixed++
		}
	}

	log.Printf("Storage sync finished: %d of %d references fixed", result.Fixed, result.Total)
	return result, nil
}

// refDangling treats backend errors as "present" so transient storage
// trouble never wipes valid references.
func (c *Client) refDangling(ctx context.Context, rawURL, bucket string) bool {
	key, ok := KeyFromURL(rawURL, bucket)
	if !ok {
		return true
	}
	exists, err := c.Exists(ctx, bucket, key)
	if err != nil {
		log.Printf("Skipping reference check for %s/%s: %v", bucket, key, err)
		return false
	}
	return !exists
}
