package github_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostReply(t *testing.T) {
	handler := &graphqlHandler{t: t, responses: map[string]func(map[string]any) string{
		"addPullRequestReviewThreadReply": func(variables map[string]any) string {
			assert.Equal(t, "T1", variables["threadId"])
			assert.Equal(t, "on it", variables["body"])
			return `{"data": {"addPullRequestReviewThreadReply": {"comment": {"id": "C9"}}}}`
		},
	}}

	id, err := newTestClient(t, handler).PostReply(context.Background(), "T1", "on it")
	require.NoError(t, err)
	assert.Equal(t, "C9", id)
}

func TestMarkReady(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /repos/owner/repo/pulls/1", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{"number": 1, "node_id": "PR_node123", "draft": true}`)
	})
	graphql := &graphqlHandler{t: t, responses: map[string]func(map[string]any) string{
		"markPullRequestReadyForReview": func(variables map[string]any) string {
			assert.Equal(t, "PR_node123", variables["id"])
			return `{"data": {"markPullRequestReadyForReview": {"pullRequest": {"isDraft": false}}}}`
		},
	}}
	mux.Handle("POST /graphql", graphql)

	err := newTestClient(t, mux).MarkReady(context.Background(), "owner", "repo", 1)
	require.NoError(t, err)
}

func TestSetBody(t *testing.T) {
	var gotBody string
	mux := http.NewServeMux()
	mux.HandleFunc("PATCH /repos/owner/repo/pulls/1", func(w http.ResponseWriter, r *http.Request) {
		var payload struct {
			Body string `json:"body"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		gotBody = payload.Body
		fmt.Fprint(w, `{"number": 1}`)
	})

	err := newTestClient(t, mux).SetBody(context.Background(), "owner", "repo", 1, "new description")
	require.NoError(t, err)
	assert.Equal(t, "new description", gotBody)
}
