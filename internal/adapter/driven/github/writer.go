package github

import (
	"context"
	"fmt"

	gh "github.com/google/go-github/v82/github"
)

const addReplyMutation = `mutation($threadId: ID!, $body: String!) {
	addPullRequestReviewThreadReply(input: {pullRequestReviewThreadId: $threadId, body: $body}) {
		comment { id }
	}
}`

const resolveThreadMutation = `mutation($threadId: ID!) {
	resolveReviewThread(input: {threadId: $threadId}) {
		thread { id isResolved }
	}
}`

const deleteCommentMutation = `mutation($id: ID!) {
	deletePullRequestReviewComment(input: {id: $id}) {
		pullRequestReview { id }
	}
}`

const updateCommentMutation = `mutation($id: ID!, $body: String!) {
	updatePullRequestReviewComment(input: {pullRequestReviewCommentId: $id, body: $body}) {
		pullRequestReviewComment { id }
	}
}`

const markReadyMutation = `mutation($id: ID!) {
	markPullRequestReadyForReview(input: {pullRequestId: $id}) {
		pullRequest { isDraft }
	}
}`

// PostReply adds a reply to a review thread and returns the new comment's ID.
func (c *Client) PostReply(ctx context.Context, threadID, body string) (string, error) {
	var data struct {
		AddPullRequestReviewThreadReply struct {
			Comment struct {
				ID string `json:"id"`
			} `json:"comment"`
		} `json:"addPullRequestReviewThreadReply"`
	}
	variables := map[string]any{"threadId": threadID, "body": body}
	if err := c.doGraphQL(ctx, addReplyMutation, variables, &data); err != nil {
		return "", fmt.Errorf("replying to thread %s: %w", threadID, err)
	}
	return data.AddPullRequestReviewThreadReply.Comment.ID, nil
}

// ResolveThread marks a review thread resolved.
func (c *Client) ResolveThread(ctx context.Context, threadID string) error {
	variables := map[string]any{"threadId": threadID}
	if err := c.doGraphQL(ctx, resolveThreadMutation, variables, nil); err != nil {
		return fmt.Errorf("resolving thread %s: %w", threadID, err)
	}
	return nil
}

// DeleteComment removes a single review comment.
func (c *Client) DeleteComment(ctx context.Context, commentID string) error {
	variables := map[string]any{"id": commentID}
	if err := c.doGraphQL(ctx, deleteCommentMutation, variables, nil); err != nil {
		return fmt.Errorf("deleting comment %s: %w", commentID, err)
	}
	return nil
}

// UpdateComment replaces a review comment's body.
func (c *Client) UpdateComment(ctx context.Context, commentID, body string) error {
	variables := map[string]any{"id": commentID, "body": body}
	if err := c.doGraphQL(ctx, updateCommentMutation, variables, nil); err != nil {
		return fmt.Errorf("updating comment %s: %w", commentID, err)
	}
	return nil
}

// IsDraft reports whether the pull request is a draft.
func (c *Client) IsDraft(ctx context.Context, owner, repo string, prNumber int) (bool, error) {
	pr, resp, err := c.gh.PullRequests.Get(ctx, owner, repo, prNumber)
	if err != nil {
		return false, fmt.Errorf("fetching PR %s/%s#%d: %w", owner, repo, prNumber, err)
	}
	logRateLimit(resp, fmt.Sprintf("%s/%s/pr", owner, repo), 0, 1)
	return pr.GetDraft(), nil
}

// CommitCount returns the number of commits on the pull request.
func (c *Client) CommitCount(ctx context.Context, owner, repo string, prNumber int) (int, error) {
	pr, resp, err := c.gh.PullRequests.Get(ctx, owner, repo, prNumber)
	if err != nil {
		return 0, fmt.Errorf("fetching PR %s/%s#%d: %w", owner, repo, prNumber, err)
	}
	logRateLimit(resp, fmt.Sprintf("%s/%s/pr", owner, repo), 0, 1)
	return pr.GetCommits(), nil
}

// Body returns the pull request description.
func (c *Client) Body(ctx context.Context, owner, repo string, prNumber int) (string, error) {
	pr, resp, err := c.gh.PullRequests.Get(ctx, owner, repo, prNumber)
	if err != nil {
		return "", fmt.Errorf("fetching PR %s/%s#%d: %w", owner, repo, prNumber, err)
	}
	logRateLimit(resp, fmt.Sprintf("%s/%s/pr", owner, repo), 0, 1)
	return pr.GetBody(), nil
}

// SetBody replaces the pull request description.
func (c *Client) SetBody(ctx context.Context, owner, repo string, prNumber int, body string) error {
	_, resp, err := c.gh.PullRequests.Edit(ctx, owner, repo, prNumber, &gh.PullRequest{Body: gh.Ptr(body)})
	if err != nil {
		return fmt.Errorf("updating body of PR %s/%s#%d: %w", owner, repo, prNumber, err)
	}
	logRateLimit(resp, fmt.Sprintf("%s/%s/pr-edit", owner, repo), 0, 1)
	return nil
}

// MarkReady converts a draft pull request to ready for review. The REST API
// cannot flip draft state, so this resolves the PR's node ID and runs the
// GraphQL mutation.
func (c *Client) MarkReady(ctx context.Context, owner, repo string, prNumber int) error {
	pr, resp, err := c.gh.PullRequests.Get(ctx, owner, repo, prNumber)
	if err != nil {
		return fmt.Errorf("fetching PR %s/%s#%d: %w", owner, repo, prNumber, err)
	}
	logRateLimit(resp, fmt.Sprintf("%s/%s/pr", owner, repo), 0, 1)

	variables := map[string]any{"id": pr.GetNodeID()}
	if err := c.doGraphQL(ctx, markReadyMutation, variables, nil); err != nil {
		return fmt.Errorf("marking PR %s/%s#%d ready: %w", owner, repo, prNumber, err)
	}
	return nil
}
