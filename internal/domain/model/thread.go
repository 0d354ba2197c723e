package model

import (
	"fmt"
	"strings"
)

// AssistantMarker is the prefix the assistant puts on every comment it posts.
// Detection is a plain literal match: a human typing the marker verbatim
// into their own comment will be misclassified as the assistant.
const AssistantMarker = "🤖 From Claude:"

// A thread containing either form of the human-review flag anywhere in any
// comment is excluded from all automated actionability handling and left for
// a human reviewer.
const (
	HumanReviewShortcode = ":paperclip:"
	HumanReviewEmoji     = "📎"
)

// ThreadComment is a single comment within a review thread.
type ThreadComment struct {
	ID     string
	Author string
	Body   string
}

// IsAssistant reports whether the comment carries the assistant marker prefix.
func (c ThreadComment) IsAssistant() bool {
	return strings.HasPrefix(c.Body, AssistantMarker)
}

// ReviewThread is a threaded code-review discussion on a pull request.
// Comments are ordered oldest to newest, as returned by the provider.
// Comments may be empty (every comment in the thread was deleted).
type ReviewThread struct {
	ID         string
	IsResolved bool
	Path       string // empty when the thread is not anchored to a file
	Line       int    // 0 when the thread is not anchored to a line
	Comments   []ThreadComment
}

// LastComment returns the newest comment, or nil for an empty thread.
func (t ReviewThread) LastComment() *ThreadComment {
	if len(t.Comments) == 0 {
		return nil
	}
	return &t.Comments[len(t.Comments)-1]
}

// NeedsResponse reports whether the assistant owes this thread a reply:
// the thread is unresolved and its last comment is not assistant-marked.
func (t ReviewThread) NeedsResponse() bool {
	if t.IsResolved {
		return false
	}
	last := t.LastComment()
	if last == nil {
		return false
	}
	return !last.IsAssistant()
}

// HasHumanReviewFlag reports whether any comment in the thread carries the
// human-review flag (shortcode or emoji form).
func (t ReviewThread) HasHumanReviewFlag() bool {
	for _, c := range t.Comments {
		if strings.Contains(c.Body, HumanReviewShortcode) || strings.Contains(c.Body, HumanReviewEmoji) {
			return true
		}
	}
	return false
}

// IsPureAssistant reports whether every comment in the thread is attributable
// to the assistant: each comment either carries the marker itself or was
// written by an author who posted at least one marked comment in this thread.
// The author-identity rule covers shared logins used both interactively and
// by automation; once any of an identity's comments is marked, that identity
// counts as the assistant for the whole thread. An empty thread is never
// pure-assistant.
func (t ReviewThread) IsPureAssistant() bool {
	if len(t.Comments) == 0 {
		return false
	}

	assistantAuthors := make(map[string]struct{})
	for _, c := range t.Comments {
		if c.IsAssistant() {
			assistantAuthors[c.Author] = struct{}{}
		}
	}

	for _, c := range t.Comments {
		if c.IsAssistant() {
			continue
		}
		if _, ok := assistantAuthors[c.Author]; !ok {
			return false
		}
	}
	return true
}

// HumanCommentsAfter returns the comments strictly after the given comment ID
// whose bodies are not assistant-marked. The second result is false when the
// ID does not appear in the thread at all.
func (t ReviewThread) HumanCommentsAfter(commentID string) ([]ThreadComment, bool) {
	idx := -1
	for i, c := range t.Comments {
		if c.ID == commentID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, false
	}

	var after []ThreadComment
	for _, c := range t.Comments[idx+1:] {
		if !c.IsAssistant() {
			after = append(after, c)
		}
	}
	return after, true
}

// CommentIDs returns the IDs of all comments in the thread, in order.
func (t ReviewThread) CommentIDs() []string {
	ids := make([]string, 0, len(t.Comments))
	for _, c := range t.Comments {
		ids = append(ids, c.ID)
	}
	return ids
}

// ActionableThread wraps a thread known to need a response, with display
// context for the report.
type ActionableThread struct {
	Thread ReviewThread
}

// Location formats where the thread is anchored: "path:line", just the path,
// or "unknown location".
func (a ActionableThread) Location() string {
	switch {
	case a.Thread.Path != "" && a.Thread.Line > 0:
		return fmt.Sprintf("%s:%d", a.Thread.Path, a.Thread.Line)
	case a.Thread.Path != "":
		return a.Thread.Path
	default:
		return "unknown location"
	}
}

// FindActionableThreads returns the threads that need a response, in input order.
func FindActionableThreads(threads []ReviewThread) []ActionableThread {
	var actionable []ActionableThread
	for _, t := range threads {
		if t.NeedsResponse() {
			actionable = append(actionable, ActionableThread{Thread: t})
		}
	}
	return actionable
}
