// Package poll waits for a condition to become true on a fixed interval.
// It replaces per-caller polling loops with one cancellable implementation.
package poll

import (
	"context"
	"fmt"
	"time"
)

// DefaultInterval is the pause between condition checks.
const DefaultInterval = 5 * time.Second

// Condition reports whether polling can stop. A returned error aborts
// the poll immediately.
type Condition func(ctx context.Context) (done bool, err error)

// Options tunes a poll. The zero value means DefaultInterval and no
// attempt bound.
type Options struct {
	Interval    time.Duration
	MaxAttempts int // 0 means unbounded
}

// ErrTimeout is wrapped into the error returned when MaxAttempts is
// exhausted before the condition holds.
var ErrTimeout = fmt.Errorf("polling timed out")

// Wait checks cond every interval until it reports done, errors, the
// context is cancelled, or MaxAttempts is exhausted. The first check
// runs immediately.
func Wait(ctx context.Context, cond Condition, opts Options) error {
	interval := opts.Interval
	if interval <= 0 {
		interval = DefaultInterval
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for attempt := 1; ; attempt++ {
		done, err := cond(ctx)
		if err != nil {
			return err
		}
		if done {
			return nil
		}
		if opts.MaxAttempts > 0 && attempt >= opts.MaxAttempts {
			return fmt.Errorf("%w after %d attempts", ErrTimeout, attempt)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}
