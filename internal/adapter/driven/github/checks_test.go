package github_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prpilot/prpilot/internal/adapter/driven/github"
	"github.com/prpilot/prpilot/internal/domain/model"
)

func newTestClient(t *testing.T, handler http.Handler) *github.Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := github.NewClientWithHTTPClient(srv.Client(), srv.URL, "test-token")
	require.NoError(t, err)
	return client
}

func TestFetchChecks(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /repos/owner/repo/pulls/1", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{"number": 1, "head": {"sha": "abc123"}}`)
	})
	mux.HandleFunc("GET /repos/owner/repo/commits/abc123/check-runs", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{"total_count": 3, "check_runs": [
			{"name": "build", "status": "completed", "conclusion": "success", "details_url": "https://circleci.com/gh/owner/repo/100"},
			{"name": "lint", "status": "completed", "conclusion": "failure", "details_url": "https://circleci.com/gh/owner/repo/101"},
			{"name": "deploy", "status": "in_progress", "conclusion": null}
		]}`)
	})
	mux.HandleFunc("GET /repos/owner/repo/commits/abc123/status", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{"state": "failure", "statuses": [
			{"context": "ci/circleci: test", "state": "failure", "target_url": "https://circleci.com/gh/owner/repo/102"}
		]}`)
	})

	checks, err := newTestClient(t, mux).FetchChecks(context.Background(), "owner", "repo", 1)
	require.NoError(t, err)

	require.Len(t, checks, 4)
	assert.Equal(t, model.Check{Name: "build", Status: model.CheckPass, DetailURL: "https://circleci.com/gh/owner/repo/100"}, checks[0])
	assert.Equal(t, model.CheckFail, checks[1].Status)
	assert.Equal(t, model.CheckPending, checks[2].Status)
	assert.Equal(t, model.Check{Name: "ci/circleci: test", Status: model.CheckFail, DetailURL: "https://circleci.com/gh/owner/repo/102"}, checks[3])
}

func TestFetchChecks_NoHeadSHA(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /repos/owner/repo/pulls/1", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{"number": 1}`)
	})

	_, err := newTestClient(t, mux).FetchChecks(context.Background(), "owner", "repo", 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no head SHA")
}

func TestFetchChecks_CheckRunConclusions(t *testing.T) {
	tests := []struct {
		name       string
		status     string
		conclusion string
		want       model.CheckStatus
	}{
		{"completed success -> pass", "completed", "success", model.CheckPass},
		{"completed failure -> fail", "completed", "failure", model.CheckFail},
		{"completed timed_out -> fail", "completed", "timed_out", model.CheckFail},
		{"completed action_required -> fail", "completed", "action_required", model.CheckFail},
		{"completed skipped -> skipping", "completed", "skipped", model.CheckSkipping},
		{"completed neutral -> skipping", "completed", "neutral", model.CheckSkipping},
		{"completed cancelled -> cancelled", "completed", "cancelled", model.CheckCancelled},
		{"queued ignores conclusion", "queued", "success", model.CheckPending},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mux := http.NewServeMux()
			mux.HandleFunc("GET /repos/owner/repo/pulls/1", func(w http.ResponseWriter, _ *http.Request) {
				fmt.Fprint(w, `{"number": 1, "head": {"sha": "abc123"}}`)
			})
			mux.HandleFunc("GET /repos/owner/repo/commits/abc123/check-runs", func(w http.ResponseWriter, _ *http.Request) {
				fmt.Fprintf(w, `{"total_count": 1, "check_runs": [{"name": "job", "status": %q, "conclusion": %q}]}`, tt.status, tt.conclusion)
			})
			mux.HandleFunc("GET /repos/owner/repo/commits/abc123/status", func(w http.ResponseWriter, _ *http.Request) {
				fmt.Fprint(w, `{"state": "pending", "statuses": []}`)
			})

			checks, err := newTestClient(t, mux).FetchChecks(context.Background(), "owner", "repo", 1)
			require.NoError(t, err)
			require.Len(t, checks, 1)
			assert.Equal(t, tt.want, checks[0].Status)
		})
	}
}

func TestSplitRepo(t *testing.T) {
	owner, repo, err := github.SplitRepo("octocat/hello-world")
	require.NoError(t, err)
	assert.Equal(t, "octocat", owner)
	assert.Equal(t, "hello-world", repo)

	for _, bad := range []string{"octocat", "octocat/", "/hello-world", ""} {
		_, _, err := github.SplitRepo(bad)
		assert.Error(t, err, bad)
	}
}
