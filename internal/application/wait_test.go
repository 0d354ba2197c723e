package application_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prpilot/prpilot/internal/application"
	"github.com/prpilot/prpilot/internal/domain/model"
)

func fastOpts() application.WaitOptions {
	return application.WaitOptions{
		Timeout:          50 * time.Millisecond,
		PollInterval:     time.Millisecond,
		MinWaitAfterPush: 30 * time.Second,
	}
}

func TestWaitUntilActionable(t *testing.T) {
	ctx := context.Background()

	t.Run("already-actionable PR returns without sleeping", func(t *testing.T) {
		checks := &fakeChecksFetcher{checks: []model.Check{check("test", model.CheckFail)}}
		triage := newTriage(checks, &fakeThreadsFetcher{}, nil, nil)

		opts := fastOpts()
		opts.PollInterval = time.Hour // would hang if the first check slept

		outcome, err := triage.WaitUntilActionable(ctx, opts)
		require.NoError(t, err)
		assert.Equal(t, application.WaitActionable, outcome)
	})

	t.Run("green quiet PR times out, not happy", func(t *testing.T) {
		checks := &fakeChecksFetcher{checks: []model.Check{check("build", model.CheckPass)}}
		triage := newTriage(checks, &fakeThreadsFetcher{}, nil, nil)

		outcome, err := triage.WaitUntilActionable(ctx, fastOpts())
		require.NoError(t, err)
		assert.Equal(t, application.WaitTimedOut, outcome)
	})

	t.Run("pattern error propagates", func(t *testing.T) {
		triage := newTriage(&fakeChecksFetcher{}, &fakeThreadsFetcher{}, []string{"[bad"}, nil)

		_, err := triage.WaitUntilActionable(ctx, fastOpts())
		require.Error(t, err)
	})
}

func TestWaitUntilActionableOrHappy(t *testing.T) {
	ctx := context.Background()

	t.Run("actionable PR reports actionable", func(t *testing.T) {
		threads := &fakeThreadsFetcher{threads: []model.ReviewThread{humanThread("T1", "fix")}}
		triage := newTriage(&fakeChecksFetcher{}, threads, nil, nil)
		git := &fakeGitClient{lastCommit: time.Now().Add(-time.Hour)}

		outcome, err := triage.WaitUntilActionableOrHappy(ctx, git, fastOpts())
		require.NoError(t, err)
		assert.Equal(t, application.WaitActionable, outcome)
	})

	t.Run("actionable beats happy when both hold", func(t *testing.T) {
		// A failed check is actionable; the thread set is empty, so without
		// the failure this would be happy.
		checks := &fakeChecksFetcher{checks: []model.Check{check("test", model.CheckFail)}}
		triage := newTriage(checks, &fakeThreadsFetcher{}, nil, nil)
		git := &fakeGitClient{lastCommit: time.Now().Add(-time.Hour)}

		outcome, err := triage.WaitUntilActionableOrHappy(ctx, git, fastOpts())
		require.NoError(t, err)
		assert.Equal(t, application.WaitActionable, outcome)
	})

	t.Run("happy PR with old commit reports happy", func(t *testing.T) {
		checks := &fakeChecksFetcher{checks: []model.Check{check("build", model.CheckPass)}}
		triage := newTriage(checks, &fakeThreadsFetcher{}, nil, nil)
		git := &fakeGitClient{lastCommit: time.Now().Add(-time.Hour)}

		outcome, err := triage.WaitUntilActionableOrHappy(ctx, git, fastOpts())
		require.NoError(t, err)
		assert.Equal(t, application.WaitHappy, outcome)
	})

	t.Run("happy PR with fresh commit keeps polling until timeout", func(t *testing.T) {
		checks := &fakeChecksFetcher{checks: []model.Check{check("build", model.CheckPass)}}
		triage := newTriage(checks, &fakeThreadsFetcher{}, nil, nil)
		git := &fakeGitClient{lastCommit: time.Now()}

		outcome, err := triage.WaitUntilActionableOrHappy(ctx, git, fastOpts())
		require.NoError(t, err)
		assert.Equal(t, application.WaitTimedOut, outcome)
	})

	t.Run("commit time failure keeps polling instead of trusting happy", func(t *testing.T) {
		checks := &fakeChecksFetcher{checks: []model.Check{check("build", model.CheckPass)}}
		triage := newTriage(checks, &fakeThreadsFetcher{}, nil, nil)
		git := &fakeGitClient{err: fmt.Errorf("not a git repo")}

		outcome, err := triage.WaitUntilActionableOrHappy(ctx, git, fastOpts())
		require.NoError(t, err)
		assert.Equal(t, application.WaitTimedOut, outcome)
	})

	t.Run("zero grace period reports happy immediately", func(t *testing.T) {
		checks := &fakeChecksFetcher{checks: []model.Check{check("build", model.CheckPass)}}
		triage := newTriage(checks, &fakeThreadsFetcher{}, nil, nil)
		git := &fakeGitClient{lastCommit: time.Now()}

		opts := fastOpts()
		opts.MinWaitAfterPush = 0

		outcome, err := triage.WaitUntilActionableOrHappy(ctx, git, opts)
		require.NoError(t, err)
		assert.Equal(t, application.WaitHappy, outcome)
	})
}

func TestSleepRespectsContextCancellation(t *testing.T) {
	checks := &fakeChecksFetcher{checks: []model.Check{check("build", model.CheckPass)}}
	triage := newTriage(checks, &fakeThreadsFetcher{}, nil, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	opts := application.WaitOptions{
		Timeout:      time.Hour,
		PollInterval: time.Hour,
	}
	_, err := triage.WaitUntilActionable(ctx, opts)
	assert.Error(t, err)
}
