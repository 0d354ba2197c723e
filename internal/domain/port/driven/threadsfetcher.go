package driven

import (
	"context"

	"github.com/prpilot/prpilot/internal/domain/model"
)

// ThreadsFetcher retrieves review threads for a pull request.
type ThreadsFetcher interface {
	// FetchThreads returns all review threads, each with its comments in
	// chronological order.
	FetchThreads(ctx context.Context, owner, repo string, prNumber int) ([]model.ReviewThread, error)

	// FetchThreadByCommentID returns the thread containing the given comment.
	// It fails when no such comment exists.
	FetchThreadByCommentID(ctx context.Context, commentID string) (model.ReviewThread, error)
}

// ThreadWriter mutates review threads: replies, resolution, and comment
// cleanup.
type ThreadWriter interface {
	// PostReply adds a reply to a thread and returns the new comment's ID.
	PostReply(ctx context.Context, threadID, body string) (string, error)

	// ResolveThread marks a thread resolved.
	ResolveThread(ctx context.Context, threadID string) error

	// DeleteComment removes a single review comment.
	DeleteComment(ctx context.Context, commentID string) error

	// UpdateComment replaces a review comment's body.
	UpdateComment(ctx context.Context, commentID, body string) error
}
