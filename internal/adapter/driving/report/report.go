// Package report renders triage results as Markdown for the terminal.
// The output is consumed by the automation driving the PR as much as by
// humans, so section headings and command hints are part of the contract.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/prpilot/prpilot/internal/domain/model"
)

// maxLogBytes caps how much of a CI log stream is rendered.
const maxLogBytes = 2000

// Renderer writes Markdown reports to an output stream.
type Renderer struct {
	w io.Writer
}

// NewRenderer builds a renderer over the given writer.
func NewRenderer(w io.Writer) *Renderer {
	return &Renderer{w: w}
}

// Recommendation renders the analysis heading and the action-specific body.
func (r *Renderer) Recommendation(owner, repo string, prNumber int, summary model.CheckSummary, action model.NextAction, logs []model.FailedStepLog) {
	fmt.Fprintf(r.w, "# PR Analysis: %s/%s#%d\n\n", owner, repo, prNumber)

	switch a := action.(type) {
	case model.RespondToComments:
		r.respondToComments(a, summary)
	case model.FixCIFailures:
		r.fixCIFailures(a, logs)
	case model.WaitForCI:
		r.waitForCI(a)
	case model.PRReady:
		r.prReady()
	}
}

func (r *Renderer) respondToComments(a model.RespondToComments, summary model.CheckSummary) {
	fmt.Fprintf(r.w, "## ACTION REQUIRED: Respond to review comments\n\n")
	fmt.Fprintf(r.w, "There %s %d unaddressed review thread%s:\n\n",
		pluralVerb(len(a.Threads), "is", "are"), len(a.Threads), plural(len(a.Threads)))

	for i, actionable := range a.Threads {
		fmt.Fprintf(r.w, "### Thread %d - %s\n", i+1, actionable.Location())
		fmt.Fprintf(r.w, "Thread ID: `%s`\n\n", actionable.Thread.ID)

		for _, comment := range actionable.Thread.Comments {
			fmt.Fprintf(r.w, "**@%s** (comment `%s`):\n", comment.Author, comment.ID)
			for _, line := range strings.Split(comment.Body, "\n") {
				fmt.Fprintf(r.w, "> %s\n", line)
			}
			fmt.Fprintln(r.w)
		}

		if i < len(a.Threads)-1 {
			fmt.Fprintf(r.w, "---\n\n")
		}
	}

	fmt.Fprintf(r.w, "To reply, use:\n")
	fmt.Fprintf(r.w, "  prpilot reply --in-reply-to <COMMENT_ID> --message \"Your response\"\n\n")
	fmt.Fprintf(r.w, "The --in-reply-to should be the ID of the last comment shown above.\n")
	fmt.Fprintf(r.w, "Your message will be prefixed with %q\n", model.AssistantMarker)

	if a.AlsoHasCIFailures {
		fmt.Fprintf(r.w, "\n⚠ Note: %d CI check(s) have also failed.\n", len(summary.Failed()))
	}
	if a.CIPending {
		fmt.Fprintf(r.w, "\n○ Note: %d CI check(s) are still pending.\n", len(summary.Pending()))
	}
}

func (r *Renderer) fixCIFailures(a model.FixCIFailures, logs []model.FailedStepLog) {
	fmt.Fprintf(r.w, "## ACTION REQUIRED: Fix CI failures\n\n")
	fmt.Fprintf(r.w, "The following %d check%s failed:\n", len(a.FailedCheckNames), plural(len(a.FailedCheckNames)))
	for _, name := range a.FailedCheckNames {
		fmt.Fprintf(r.w, "  ✗ %s\n", name)
	}

	if len(logs) > 0 {
		fmt.Fprintf(r.w, "\n## CI Failure Details\n")
		r.FailureLogs(logs)
		fmt.Fprintf(r.w, "\nAnalyze the errors above and push fixes to resolve them.\n")
	} else {
		fmt.Fprintf(r.w, "\nUse the CI provider's web UI to investigate the failures:\n")
		fmt.Fprintf(r.w, "  - List recent pipelines for this project\n")
		fmt.Fprintf(r.w, "  - Get job details and logs for the failed workflow\n\n")
		fmt.Fprintf(r.w, "Then push fixes to resolve the issues.\n")
	}
}

func (r *Renderer) waitForCI(a model.WaitForCI) {
	fmt.Fprintf(r.w, "## WAITING: CI checks in progress\n\n")
	fmt.Fprintf(r.w, "The following %d check%s still running:\n",
		len(a.PendingCheckNames), pluralVerb(len(a.PendingCheckNames), " is", "s are"))
	for _, name := range a.PendingCheckNames {
		fmt.Fprintf(r.w, "  ○ %s\n", name)
	}
	fmt.Fprintf(r.w, "\nNo action needed. Wait for CI to complete.\n")
}

func (r *Renderer) prReady() {
	fmt.Fprintf(r.w, "## PR READY\n\n")
	fmt.Fprintf(r.w, "✓ All CI checks passed\n")
	fmt.Fprintf(r.w, "✓ No unaddressed review comments\n\n")
	fmt.Fprintf(r.w, "The PR is ready for merge or further review.\n")
}

// FailureLogs renders CI step logs. Stderr is truncated from the front,
// stdout from the back: failure summaries usually open stderr but close
// stdout.
func (r *Renderer) FailureLogs(logs []model.FailedStepLog) {
	for _, log := range logs {
		fmt.Fprintf(r.w, "\n### Job: %s / Step: %s\n", log.JobName, log.StepName)
		if log.Stderr != "" {
			fmt.Fprintf(r.w, "\n**Stderr:**\n```\n%s\n```\n", truncate(log.Stderr, maxLogBytes))
		}
		if log.Stdout != "" {
			fmt.Fprintf(r.w, "\n**Stdout (last lines):**\n```\n%s\n```\n", truncateTail(log.Stdout, maxLogBytes))
		}
	}
}

// NewerComments renders comments posted to a thread after the one that was
// just replied to, so the caller knows to address them.
func (r *Renderer) NewerComments(comments []model.ThreadComment, threadID string) {
	fmt.Fprintf(r.w, "\n## NEWER COMMENTS DETECTED\n\n")
	fmt.Fprintf(r.w, "The following %d comment%s %s posted to this thread while you were working.\n",
		len(comments), plural(len(comments)), pluralVerb(len(comments), "was", "were"))
	fmt.Fprintf(r.w, "Please address %s as well:\n\n", pluralVerb(len(comments), "it", "them"))

	for i, comment := range comments {
		fmt.Fprintf(r.w, "### Comment %d (in thread %s)\n", i+1, threadID)
		fmt.Fprintf(r.w, "**@%s:**\n", comment.Author)
		for _, line := range strings.Split(comment.Body, "\n") {
			fmt.Fprintf(r.w, "> %s\n", line)
		}
		fmt.Fprintln(r.w)
	}
}

// Checks renders the full check list grouped by status, failures first.
func (r *Renderer) Checks(owner, repo string, prNumber int, summary model.CheckSummary, logs []model.FailedStepLog) {
	fmt.Fprintf(r.w, "# CI Checks: %s/%s#%d\n\n", owner, repo, prNumber)

	if len(summary.Checks) == 0 {
		fmt.Fprintf(r.w, "No checks found.\n")
		return
	}

	groups := []struct {
		title  string
		symbol string
		status model.CheckStatus
	}{
		{"Failed", "✗", model.CheckFail},
		{"Pending", "○", model.CheckPending},
		{"Passed", "✓", model.CheckPass},
		{"Skipped", "⊘", model.CheckSkipping},
		{"Cancelled", "⊘", model.CheckCancelled},
	}

	for _, g := range groups {
		var names []string
		for _, check := range summary.Checks {
			if check.Status == g.status {
				names = append(names, check.Name)
			}
		}
		if len(names) == 0 {
			continue
		}
		fmt.Fprintf(r.w, "## %s (%d)\n", g.title, len(names))
		for _, name := range names {
			fmt.Fprintf(r.w, "  %s %s\n", g.symbol, name)
		}
		fmt.Fprintln(r.w)
	}

	if len(logs) > 0 {
		fmt.Fprintf(r.w, "## CI Failure Details\n")
		r.FailureLogs(logs)
	}
}

// ReplyPosted confirms a posted reply.
func (r *Renderer) ReplyPosted(commentID string) {
	fmt.Fprintf(r.w, "✓ Reply posted (comment ID: %s)\n", commentID)
}

func plural(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}

func pluralVerb(n int, singular, plural string) string {
	if n == 1 {
		return singular
	}
	return plural
}

// truncate keeps the head of s up to max bytes.
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return fmt.Sprintf("%s...\n[truncated, %d more bytes]", s[:max], len(s)-max)
}

// truncateTail keeps the tail of s up to max bytes, aligned to the next line
// boundary so the output does not start mid-line.
func truncateTail(s string, max int) string {
	if len(s) <= max {
		return s
	}
	start := len(s) - max
	if idx := strings.IndexByte(s[start:], '\n'); idx >= 0 {
		start += idx + 1
	}
	return fmt.Sprintf("[... %d bytes truncated]\n%s", start, s[start:])
}
