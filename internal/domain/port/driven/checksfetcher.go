// Package driven defines the outbound ports the application core depends on.
// The core never performs network or subprocess I/O itself; it works entirely
// through these interfaces, with production adapters under internal/adapter
// and in-memory fakes in tests.
package driven

import (
	"context"

	"github.com/prpilot/prpilot/internal/domain/model"
)

// ChecksFetcher retrieves the CI check results for a pull request.
type ChecksFetcher interface {
	FetchChecks(ctx context.Context, owner, repo string, prNumber int) ([]model.Check, error)
}
