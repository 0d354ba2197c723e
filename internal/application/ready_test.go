package application_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prpilot/prpilot/internal/application"
	"github.com/prpilot/prpilot/internal/domain/model"
)

func newReadier(checks *fakeChecksFetcher, threads *fakeThreadsFetcher, writer *fakeThreadWriter, pr *fakePRClient) *application.Readier {
	return application.NewReadier(
		discardLogger(),
		newTriage(checks, threads, nil, nil),
		newCleaner(threads, writer),
		pr,
		"owner", "repo", 1,
	)
}

func greenChecks() *fakeChecksFetcher {
	return &fakeChecksFetcher{checks: []model.Check{check("build", model.CheckPass)}}
}

func TestMakeReady_HappyPath(t *testing.T) {
	threads := &fakeThreadsFetcher{threads: []model.ReviewThread{
		pureAssistantThread("T1", true, 2),
	}}
	writer := newFakeThreadWriter()
	pr := &fakePRClient{
		draft:       true,
		commitCount: 1,
		body:        model.UpdateBodyWithStatus("## Summary\n\nA fix.", "iterating"),
	}

	err := newReadier(greenChecks(), threads, writer, pr).MakeReady(context.Background(), false)
	require.NoError(t, err)

	assert.True(t, pr.markedReady)
	assert.Equal(t, "## Summary\n\nA fix.", pr.body)
	assert.Len(t, writer.deleted, 2)
}

func TestMakeReady_RejectsNonDraft(t *testing.T) {
	pr := &fakePRClient{draft: false, commitCount: 1}

	err := newReadier(greenChecks(), &fakeThreadsFetcher{}, newFakeThreadWriter(), pr).MakeReady(context.Background(), false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "draft")
	assert.False(t, pr.markedReady)
}

func TestMakeReady_RequiresSingleCommit(t *testing.T) {
	pr := &fakePRClient{draft: true, commitCount: 3}

	err := newReadier(greenChecks(), &fakeThreadsFetcher{}, newFakeThreadWriter(), pr).MakeReady(context.Background(), false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "3 commits")
	assert.Contains(t, err.Error(), "squash")
	assert.False(t, pr.markedReady)
}

func TestMakeReady_RejectsUnresolvedThreads(t *testing.T) {
	// Answered but unresolved still blocks: resolution is the gate.
	threads := &fakeThreadsFetcher{threads: []model.ReviewThread{assistantRepliedThread("T1")}}
	pr := &fakePRClient{draft: true, commitCount: 1}

	err := newReadier(greenChecks(), threads, newFakeThreadWriter(), pr).MakeReady(context.Background(), false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unresolved")
	assert.False(t, pr.markedReady)
}

func TestMakeReady_RejectsFailingCI(t *testing.T) {
	checks := &fakeChecksFetcher{checks: []model.Check{
		check("build", model.CheckFail),
		check("a-test", model.CheckFail),
	}}
	pr := &fakePRClient{draft: true, commitCount: 1}

	err := newReadier(checks, &fakeThreadsFetcher{}, newFakeThreadWriter(), pr).MakeReady(context.Background(), false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failing")
	assert.Contains(t, err.Error(), "a-test, build")
}

func TestMakeReady_RejectsPendingCI(t *testing.T) {
	checks := &fakeChecksFetcher{checks: []model.Check{check("e2e", model.CheckPending)}}
	pr := &fakePRClient{draft: true, commitCount: 1}

	err := newReadier(checks, &fakeThreadsFetcher{}, newFakeThreadWriter(), pr).MakeReady(context.Background(), false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "pending")
}

func TestMakeReady_PreservesAssistantThreadsWhenAsked(t *testing.T) {
	threads := &fakeThreadsFetcher{threads: []model.ReviewThread{
		pureAssistantThread("T1", true, 2),
	}}
	writer := newFakeThreadWriter()
	pr := &fakePRClient{draft: true, commitCount: 1}

	err := newReadier(greenChecks(), threads, writer, pr).MakeReady(context.Background(), true)
	require.NoError(t, err)

	assert.True(t, pr.markedReady)
	assert.Empty(t, writer.deleted)
}
