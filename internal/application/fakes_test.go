package application_test

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/prpilot/prpilot/internal/application"
	"github.com/prpilot/prpilot/internal/domain/model"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func newTriage(checks *fakeChecksFetcher, threads *fakeThreadsFetcher, include, exclude []string) *application.Triage {
	return application.NewTriage(discardLogger(), checks, threads, "owner", "repo", 1, include, exclude)
}

type fakeChecksFetcher struct {
	checks []model.Check
	err    error
}

func (f *fakeChecksFetcher) FetchChecks(_ context.Context, _, _ string, _ int) ([]model.Check, error) {
	return f.checks, f.err
}

type fakeThreadsFetcher struct {
	threads []model.ReviewThread
	err     error
}

func (f *fakeThreadsFetcher) FetchThreads(_ context.Context, _, _ string, _ int) ([]model.ReviewThread, error) {
	return f.threads, f.err
}

func (f *fakeThreadsFetcher) FetchThreadByCommentID(_ context.Context, commentID string) (model.ReviewThread, error) {
	if f.err != nil {
		return model.ReviewThread{}, f.err
	}
	for _, t := range f.threads {
		for _, c := range t.Comments {
			if c.ID == commentID {
				return t, nil
			}
		}
	}
	return model.ReviewThread{}, fmt.Errorf("comment not found: %s", commentID)
}

type fakeThreadWriter struct {
	mu sync.Mutex

	replies        map[string]string // thread ID -> body
	deleted        []string
	updated        map[string]string // comment ID -> new body
	failDeletes    map[string]bool
	failUpdates    bool
	nextCommentID  string
	postReplyCalls int
}

func newFakeThreadWriter() *fakeThreadWriter {
	return &fakeThreadWriter{
		replies:       map[string]string{},
		updated:       map[string]string{},
		failDeletes:   map[string]bool{},
		nextCommentID: "NEW1",
	}
}

func (f *fakeThreadWriter) PostReply(_ context.Context, threadID, body string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.postReplyCalls++
	f.replies[threadID] = body
	return f.nextCommentID, nil
}

func (f *fakeThreadWriter) ResolveThread(_ context.Context, _ string) error {
	return nil
}

func (f *fakeThreadWriter) DeleteComment(_ context.Context, commentID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failDeletes[commentID] {
		return fmt.Errorf("boom")
	}
	f.deleted = append(f.deleted, commentID)
	return nil
}

func (f *fakeThreadWriter) UpdateComment(_ context.Context, commentID, body string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failUpdates {
		return fmt.Errorf("boom")
	}
	f.updated[commentID] = body
	return nil
}

type fakeGitClient struct {
	lastCommit time.Time
	err        error
}

func (f *fakeGitClient) LastCommitTime(_ context.Context) (time.Time, error) {
	return f.lastCommit, f.err
}

func (f *fakeGitClient) CurrentBranch(_ context.Context) (string, error) {
	return "feature", nil
}

func (f *fakeGitClient) RemoteURL(_ context.Context, _ string) (string, error) {
	return "git@github.com:owner/repo.git", nil
}

type fakePRClient struct {
	draft       bool
	commitCount int
	body        string
	markedReady bool

	draftErr error
}

func (f *fakePRClient) IsDraft(_ context.Context, _, _ string, _ int) (bool, error) {
	return f.draft, f.draftErr
}

func (f *fakePRClient) CommitCount(_ context.Context, _, _ string, _ int) (int, error) {
	return f.commitCount, nil
}

func (f *fakePRClient) Body(_ context.Context, _, _ string, _ int) (string, error) {
	return f.body, nil
}

func (f *fakePRClient) SetBody(_ context.Context, _, _ string, _ int, body string) error {
	f.body = body
	return nil
}

func (f *fakePRClient) MarkReady(_ context.Context, _, _ string, _ int) error {
	f.markedReady = true
	return nil
}

type fakeCIJobFetcher struct {
	details    model.CIJobDetails
	detailsErr error
	outputs    map[string]model.CIStepOutput // "index/step" -> output
}

func (f *fakeCIJobFetcher) FetchJobDetails(_ context.Context, _ model.CIJobInfo) (model.CIJobDetails, error) {
	return f.details, f.detailsErr
}

func (f *fakeCIJobFetcher) FetchStepOutput(_ context.Context, _ model.CIJobInfo, actionIndex, step int) (model.CIStepOutput, error) {
	out, ok := f.outputs[fmt.Sprintf("%d/%d", actionIndex, step)]
	if !ok {
		return model.CIStepOutput{}, fmt.Errorf("no output for %d/%d", actionIndex, step)
	}
	return out, nil
}

func humanThread(id, body string) model.ReviewThread {
	return model.ReviewThread{
		ID:   id,
		Path: "main.go",
		Line: 1,
		Comments: []model.ThreadComment{
			{ID: "comment_" + id, Author: "reviewer", Body: body},
		},
	}
}

func assistantRepliedThread(id string) model.ReviewThread {
	return model.ReviewThread{
		ID: id,
		Comments: []model.ThreadComment{
			{ID: "c1_" + id, Author: "reviewer", Body: "please fix"},
			{ID: "c2_" + id, Author: "bot", Body: model.AssistantMarker + " done"},
		},
	}
}
