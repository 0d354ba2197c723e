// Package application contains the triage core: snapshotting PR state,
// deriving the next action, waiting for actionability, and the ready and
// cleanup workflows. It depends only on the domain model and the driven
// ports.
package application

import "github.com/prpilot/prpilot/internal/domain/model"

// Analyze derives the next action from the current check summary and review
// threads. Unresolved human threads take priority over CI failures, which
// take priority over pending checks. Threads flagged for human review are
// excluded before anything else is considered.
func Analyze(summary model.CheckSummary, threads []model.ReviewThread) model.NextAction {
	unflagged := make([]model.ReviewThread, 0, len(threads))
	for _, t := range threads {
		if !t.HasHumanReviewFlag() {
			unflagged = append(unflagged, t)
		}
	}

	actionable := model.FindActionableThreads(unflagged)
	failed := summary.Failed()
	pending := summary.Pending()

	if len(actionable) > 0 {
		return model.RespondToComments{
			Threads:           actionable,
			AlsoHasCIFailures: len(failed) > 0,
			CIPending:         len(pending) > 0,
		}
	}
	if len(failed) > 0 {
		return model.FixCIFailures{FailedCheckNames: summary.FailedNames()}
	}
	if len(pending) > 0 {
		return model.WaitForCI{PendingCheckNames: summary.PendingNames()}
	}
	return model.PRReady{}
}
