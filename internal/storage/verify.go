package storage

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/s3"
)

const verifyAttempts = 3

// ErrBucketsMissing indicates the backend is reachable but one or both
// required buckets do not exist.
var ErrBucketsMissing = errors.New("Required storage buckets are missing")

// VerifyWithRetry confirms both required buckets exist, retrying with
// exponential backoff (1s, 2s, 4s) to ride out transient backend
// unavailability during startup.
func (c *Client) VerifyWithRetry(ctx context.Context) error {
	backoff := c.backoff
	if backoff <= 0 {
		backoff = time.Second
	}
	var lastErr error

	for attempt := 1; attempt <= verifyAttempts; attempt++ {
		missing, err := c.missingBuckets(ctx)
		switch {
		case err != nil:
			lastErr = fmt.Errorf("failed to list buckets: %w", err)
		case len(missing) > 0:
			lastErr = fmt.Errorf("%w: %s", ErrBucketsMissing, strings.Join(missing, ", "))
		default:
			probeErr := c.probe(ctx)
			if probeErr == nil {
				return nil
			}
			lastErr = fmt.Errorf("storage round-trip probe failed: %w", probeErr)
		}
		log.Printf("Storage verification attempt %d/%d failed: %v", attempt, verifyAttempts, lastErr)

		if attempt < verifyAttempts {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoff):
			}
			backoff *= 2
		}
	}
	return lastErr
}

// probe round-trips a sentinel object through the reports bucket to
// confirm read/write access, not just bucket existence.
func (c *Client) probe(ctx context.Context) error {
	key := ".storage-probe"
	payload := []byte("ok")
	if err := c.put(ctx, c.cfg.ReportsBucket, key, payload, "text/plain"); err != nil {
		return err
	}
	got, err := c.Get(ctx, c.cfg.ReportsBucket, key)
	if err != nil {
		return err
	}
	if string(got) != string(payload) {
		return fmt.Errorf("probe object came back corrupted")
	}
	return c.Delete(ctx, c.cfg.ReportsBucket, key)
}

func (c *Client) missingBuckets(ctx context.Context) ([]string, error) {
	out, err := c.s3.ListBuckets(ctx, &s3.ListBucketsInput{})
	if err != nil {
		return nil, err
	}

	found := make(map[string]bool, len(out.Buckets))
	for _, b := range out.Buckets {
		if b.Name != nil {
			found[*b.Name] = true
		}
	}

	var missing []string
	for _, name := range []string{c.cfg.ResumesBucket, c.cfg.ReportsBucket} {
		if !found[name] {
			missing = append(missing, name)
		}
	}
	return missing, nil
}
