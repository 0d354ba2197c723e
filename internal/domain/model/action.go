package model

// NextAction is the single recommended action derived from one decision
// cycle. Exactly one of the four variants is produced; each carries the full
// context the presentation layer needs, not just a label.
type NextAction interface {
	isNextAction()
}

// RespondToComments: review threads await a reply. Human attention is the
// scarcest resource, so this dominates any CI state. The CI booleans are
// informational only.
type RespondToComments struct {
	Threads           []ActionableThread
	AlsoHasCIFailures bool
	CIPending         bool
}

// FixCIFailures: no threads need a reply, but CI checks failed.
type FixCIFailures struct {
	FailedCheckNames []string
}

// WaitForCI: nothing failed, but CI checks are still running.
type WaitForCI struct {
	PendingCheckNames []string
}

// PRReady: all checks passed and no thread needs a reply.
type PRReady struct{}

func (RespondToComments) isNextAction() {}
func (FixCIFailures) isNextAction()     {}
func (WaitForCI) isNextAction()         {}
func (PRReady) isNextAction()           {}
