package application

import (
	"context"
	"log/slog"
	"strings"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/prpilot/prpilot/internal/domain/model"
	"github.com/prpilot/prpilot/internal/domain/port/driven"
)

// deleteChunkSize bounds how many comment deletions run concurrently.
const deleteChunkSize = 10

// ThreadCleaner removes the assistant's own resolved threads and scrubs
// human-review flag markers from the threads left behind.
type ThreadCleaner struct {
	logger  *slog.Logger
	threads driven.ThreadsFetcher
	writer  driven.ThreadWriter

	owner    string
	repo     string
	prNumber int
}

// NewThreadCleaner builds a cleaner for one pull request.
func NewThreadCleaner(
	logger *slog.Logger,
	threads driven.ThreadsFetcher,
	writer driven.ThreadWriter,
	owner, repo string,
	prNumber int,
) *ThreadCleaner {
	return &ThreadCleaner{
		logger:   logger,
		threads:  threads,
		writer:   writer,
		owner:    owner,
		repo:     repo,
		prNumber: prNumber,
	}
}

// CleanResult summarizes a cleanup pass.
type CleanResult struct {
	ThreadsDeleted  int
	CommentsDeleted int
	DeleteFailures  int
	FlagsStripped   int
	StripFailures   int
}

// Clean deletes every resolved thread written entirely by the assistant,
// then strips the human-review flag markers from flagged threads. Deletion
// runs before stripping: if stripping ran first and deletion failed midway,
// a retry would no longer see the flags and could delete threads a human
// asked to keep.
func (c *ThreadCleaner) Clean(ctx context.Context, deleteAssistantThreads bool) (CleanResult, error) {
	threads, err := c.threads.FetchThreads(ctx, c.owner, c.repo, c.prNumber)
	if err != nil {
		return CleanResult{}, err
	}

	var result CleanResult

	if deleteAssistantThreads {
		var deletable []model.ReviewThread
		for _, t := range threads {
			if !t.HasHumanReviewFlag() && t.IsResolved && t.IsPureAssistant() {
				deletable = append(deletable, t)
			}
		}

		var commentIDs []string
		for _, t := range deletable {
			commentIDs = append(commentIDs, t.CommentIDs()...)
		}

		deleted, failed := c.deleteComments(ctx, commentIDs)
		result.ThreadsDeleted = len(deletable)
		result.CommentsDeleted = deleted
		result.DeleteFailures = failed
	}

	stripped, failed := c.stripHumanReviewFlags(ctx, threads)
	result.FlagsStripped = stripped
	result.StripFailures = failed

	return result, nil
}

// deleteComments removes comments in bounded concurrent chunks. Each chunk
// is fully joined before the next starts, and one comment failing never
// cancels its siblings.
func (c *ThreadCleaner) deleteComments(ctx context.Context, commentIDs []string) (deleted, failed int) {
	var deletedCount, failedCount atomic.Int64

	for start := 0; start < len(commentIDs); start += deleteChunkSize {
		end := min(start+deleteChunkSize, len(commentIDs))

		var g errgroup.Group
		for _, id := range commentIDs[start:end] {
			g.Go(func() error {
				if err := c.writer.DeleteComment(ctx, id); err != nil {
					c.logger.Warn("deleting comment failed", "comment_id", id, "error", err)
					failedCount.Add(1)
					return nil
				}
				deletedCount.Add(1)
				return nil
			})
		}
		_ = g.Wait() // goroutines always return nil; failures are counted
	}

	return int(deletedCount.Load()), int(failedCount.Load())
}

// stripHumanReviewFlags rewrites the comments of flagged threads with the
// flag markers removed. The threads themselves stay: they are preserved for
// a human reviewer, who should see the comments without the marker noise.
func (c *ThreadCleaner) stripHumanReviewFlags(ctx context.Context, threads []model.ReviewThread) (stripped, failed int) {
	for _, t := range threads {
		if !t.HasHumanReviewFlag() {
			continue
		}
		for _, comment := range t.Comments {
			if !strings.Contains(comment.Body, model.HumanReviewShortcode) &&
				!strings.Contains(comment.Body, model.HumanReviewEmoji) {
				continue
			}
			newBody := strings.ReplaceAll(comment.Body, model.HumanReviewShortcode, "")
			newBody = strings.ReplaceAll(newBody, model.HumanReviewEmoji, "")
			if err := c.writer.UpdateComment(ctx, comment.ID, newBody); err != nil {
				c.logger.Warn("stripping review flag failed", "comment_id", comment.ID, "error", err)
				failed++
				continue
			}
			stripped++
		}
	}
	return stripped, failed
}
