package application

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/prpilot/prpilot/internal/domain/model"
	"github.com/prpilot/prpilot/internal/domain/port/driven"
)

// staleReplySuffix is appended when humans commented after the comment being
// replied to, so the posted reply acknowledges them instead of appearing to
// ignore them.
const staleReplySuffix = "(Looks like you had something else to say here while I was working. I'll look at that now.)"

// Replier posts marked replies into review threads.
type Replier struct {
	logger  *slog.Logger
	threads driven.ThreadsFetcher
	writer  driven.ThreadWriter
}

// NewReplier builds a replier over the given thread ports.
func NewReplier(logger *slog.Logger, threads driven.ThreadsFetcher, writer driven.ThreadWriter) *Replier {
	return &Replier{logger: logger, threads: threads, writer: writer}
}

// ReplyResult reports what a reply did and what it found.
type ReplyResult struct {
	ThreadID      string
	CommentID     string
	NewerComments []model.ThreadComment
}

// Reply posts a reply to the thread containing inReplyTo. The message gets
// the assistant marker prefix. If humans commented on the thread after
// inReplyTo, the reply additionally acknowledges them and the newer comments
// come back in the result so the caller can surface them.
func (r *Replier) Reply(ctx context.Context, inReplyTo, message string) (ReplyResult, error) {
	thread, err := r.threads.FetchThreadByCommentID(ctx, inReplyTo)
	if err != nil {
		return ReplyResult{}, fmt.Errorf("fetching thread for comment %s: %w", inReplyTo, err)
	}

	newer, found := thread.HumanCommentsAfter(inReplyTo)
	if !found {
		return ReplyResult{}, fmt.Errorf("comment %s not found in thread %s", inReplyTo, thread.ID)
	}

	body := message
	if len(newer) > 0 {
		body = fmt.Sprintf("%s\n\n%s", message, staleReplySuffix)
	}
	body = fmt.Sprintf("%s %s", model.AssistantMarker, body)

	r.logger.Info("posting reply", "thread_id", thread.ID)

	commentID, err := r.writer.PostReply(ctx, thread.ID, body)
	if err != nil {
		return ReplyResult{}, fmt.Errorf("posting reply: %w", err)
	}

	return ReplyResult{
		ThreadID:      thread.ID,
		CommentID:     commentID,
		NewerComments: newer,
	}, nil
}
