package model

import "fmt"

// CIJobInfo identifies one CircleCI job, parsed from a check's detail URL.
type CIJobInfo struct {
	VCS       string // "gh", "bb", or a passthrough value
	Owner     string
	Repo      string
	JobNumber int
}

// ProjectSlug returns the "vcs/owner/repo" form used by CircleCI API paths.
func (j CIJobInfo) ProjectSlug() string {
	return fmt.Sprintf("%s/%s/%s", j.VCS, j.Owner, j.Repo)
}

// CIStepAction is one action within a job step.
type CIStepAction struct {
	Index  int
	Step   int
	Failed bool
}

// CIJobStep is a named step within a CircleCI job, with its ordered actions.
type CIJobStep struct {
	Name    string
	Actions []CIStepAction
}

// CIJobDetails is the step list for one job, in provider order.
type CIJobDetails struct {
	JobName string
	Steps   []CIJobStep
}

// CIStepOutput carries the raw stdout and stderr streams of one step action.
type CIStepOutput struct {
	Stdout string
	Stderr string
}

// FailedStepLog is the log record produced for one failed step action.
type FailedStepLog struct {
	JobName  string
	StepName string
	Stdout   string
	Stderr   string
}
