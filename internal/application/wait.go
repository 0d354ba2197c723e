package application

import (
	"context"
	"time"

	"github.com/prpilot/prpilot/internal/domain/port/driven"
)

// WaitOutcome is the terminal state of a wait loop.
type WaitOutcome int

const (
	// WaitActionable means the PR needs work: a thread awaits a reply or a
	// check failed.
	WaitActionable WaitOutcome = iota
	// WaitHappy means CI settled green with no threads awaiting a reply.
	WaitHappy
	// WaitTimedOut means the deadline passed before either condition held.
	WaitTimedOut
)

func (o WaitOutcome) String() string {
	switch o {
	case WaitActionable:
		return "actionable"
	case WaitHappy:
		return "happy"
	case WaitTimedOut:
		return "timed out"
	default:
		return "unknown"
	}
}

// WaitOptions controls the polling loops.
type WaitOptions struct {
	Timeout          time.Duration
	PollInterval     time.Duration
	MinWaitAfterPush time.Duration
}

// WaitUntilActionable blocks until the PR needs work or the timeout passes.
// The first check happens before any sleeping, so an already-actionable PR
// returns immediately. There is no happy exit: a green, quiet PR keeps the
// loop polling until timeout.
func (t *Triage) WaitUntilActionable(ctx context.Context, opts WaitOptions) (WaitOutcome, error) {
	start := time.Now()

	snap, err := t.CaptureSnapshot(ctx)
	if err != nil {
		return WaitTimedOut, err
	}
	if snap.IsActionable() {
		return WaitActionable, nil
	}

	t.logger.Info("waiting for PR to become actionable",
		"timeout", opts.Timeout, "poll_interval", opts.PollInterval)

	for {
		if time.Since(start) >= opts.Timeout {
			return WaitTimedOut, nil
		}

		if err := sleepCtx(ctx, opts.PollInterval); err != nil {
			return WaitTimedOut, err
		}

		snap, err := t.CaptureSnapshot(ctx)
		if err != nil {
			return WaitTimedOut, err
		}
		if snap.IsActionable() {
			return WaitActionable, nil
		}
	}
}

// WaitUntilActionableOrHappy blocks until the PR needs work, settles happy,
// or the timeout passes. Every iteration checks the timeout, captures a
// snapshot, and tests actionable before happy, so a PR that is somehow both
// reports actionable. A happy snapshot only ends the wait once enough time
// has passed since the last local commit; a push needs a grace period before
// its CI runs show up, and an instant happy right after pushing would be a
// false positive. The grace check reuses the normal poll sleep rather than
// sleeping out the full remainder, so state changes during the grace period
// are still noticed at poll granularity.
func (t *Triage) WaitUntilActionableOrHappy(ctx context.Context, git driven.GitClient, opts WaitOptions) (WaitOutcome, error) {
	start := time.Now()

	t.logger.Info("waiting for PR to become actionable or happy",
		"timeout", opts.Timeout, "poll_interval", opts.PollInterval)

	for {
		if time.Since(start) >= opts.Timeout {
			return WaitTimedOut, nil
		}

		snap, err := t.CaptureSnapshot(ctx)
		if err != nil {
			return WaitTimedOut, err
		}

		if snap.IsActionable() {
			return WaitActionable, nil
		}

		if snap.IsHappy() {
			lastCommit, err := git.LastCommitTime(ctx)
			if err != nil {
				// Cannot tell how fresh the last push is, so do not
				// trust the happy reading; keep polling.
				t.logger.Warn("reading last commit time failed, continuing to poll", "error", err)
			} else {
				sinceCommit := time.Since(lastCommit)
				if sinceCommit >= opts.MinWaitAfterPush {
					return WaitHappy, nil
				}
				t.logger.Info("PR looks happy, allowing time for CI to trigger",
					"remaining", (opts.MinWaitAfterPush - sinceCommit).Round(time.Second))
			}
		}

		if err := sleepCtx(ctx, opts.PollInterval); err != nil {
			return WaitTimedOut, err
		}
	}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
