package driven

import (
	"context"

	"github.com/prpilot/prpilot/internal/domain/model"
)

// CIJobFetcher retrieves job metadata and step output from the CI provider.
type CIJobFetcher interface {
	// FetchJobDetails returns the job name and its steps.
	FetchJobDetails(ctx context.Context, job model.CIJobInfo) (model.CIJobDetails, error)

	// FetchStepOutput returns the stdout and stderr of a single step action.
	// A stream that cannot be fetched comes back empty rather than failing
	// the whole call.
	FetchStepOutput(ctx context.Context, job model.CIJobInfo, actionIndex, step int) (model.CIStepOutput, error)
}
