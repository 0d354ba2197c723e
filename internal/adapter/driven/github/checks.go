package github

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	gh "github.com/google/go-github/v82/github"

	"github.com/prpilot/prpilot/internal/domain/model"
)

// FetchChecks retrieves the CI checks for a pull request's head commit.
// Modern check runs and legacy commit statuses are merged into one list,
// since a repository can carry both (CircleCI jobs frequently report as
// commit statuses).
func (c *Client) FetchChecks(ctx context.Context, owner, repo string, prNumber int) ([]model.Check, error) {
	pr, resp, err := c.gh.PullRequests.Get(ctx, owner, repo, prNumber)
	if err != nil {
		return nil, fmt.Errorf("fetching PR %s/%s#%d: %w", owner, repo, prNumber, err)
	}
	logRateLimit(resp, fmt.Sprintf("%s/%s/pr", owner, repo), 0, 1)

	ref := pr.GetHead().GetSHA()
	if ref == "" {
		return nil, fmt.Errorf("PR %s/%s#%d has no head SHA", owner, repo, prNumber)
	}

	var checks []model.Check

	runs, err := c.fetchCheckRuns(ctx, owner, repo, ref)
	if err != nil {
		return nil, err
	}
	checks = append(checks, runs...)

	statuses, err := c.fetchCommitStatuses(ctx, owner, repo, ref)
	if err != nil {
		return nil, err
	}
	checks = append(checks, statuses...)

	return checks, nil
}

func (c *Client) fetchCheckRuns(ctx context.Context, owner, repo, ref string) ([]model.Check, error) {
	opts := &gh.ListCheckRunsOptions{
		ListOptions: gh.ListOptions{PerPage: 100},
	}

	var checks []model.Check
	for {
		result, resp, err := c.gh.Checks.ListCheckRunsForRef(ctx, owner, repo, ref, opts)
		if err != nil {
			return nil, fmt.Errorf("listing check runs for %s/%s@%s (page %d): %w", owner, repo, ref, opts.Page, err)
		}

		logRateLimit(resp, fmt.Sprintf("%s/%s/check-runs", owner, repo), opts.Page, len(result.CheckRuns))

		for _, run := range result.CheckRuns {
			checks = append(checks, model.Check{
				Name:      run.GetName(),
				Status:    model.StatusFromBucket(checkRunBucket(run)),
				DetailURL: run.GetDetailsURL(),
			})
		}

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}
	return checks, nil
}

func (c *Client) fetchCommitStatuses(ctx context.Context, owner, repo, ref string) ([]model.Check, error) {
	cs, resp, err := c.gh.Repositories.GetCombinedStatus(ctx, owner, repo, ref, nil)
	if err != nil {
		return nil, fmt.Errorf("fetching combined status for %s/%s@%s: %w", owner, repo, ref, err)
	}

	logRateLimit(resp, fmt.Sprintf("%s/%s/status", owner, repo), 0, len(cs.Statuses))

	var checks []model.Check
	for _, s := range cs.Statuses {
		checks = append(checks, model.Check{
			Name:      s.GetContext(),
			Status:    model.StatusFromBucket(statusBucket(s.GetState())),
			DetailURL: s.GetTargetURL(),
		})
	}
	return checks, nil
}

// checkRunBucket reduces a check run's status/conclusion pair to a bucket
// string. A run that has not completed is pending regardless of conclusion.
func checkRunBucket(run *gh.CheckRun) string {
	if run.GetStatus() != "completed" {
		return "pending"
	}
	switch run.GetConclusion() {
	case "success":
		return "pass"
	case "failure", "timed_out", "action_required":
		return "fail"
	case "skipped", "neutral":
		return "skipping"
	case "cancelled":
		return "cancel"
	default:
		return "pending"
	}
}

// statusBucket reduces a legacy commit status state to a bucket string.
func statusBucket(state string) string {
	switch state {
	case "success":
		return "pass"
	case "failure", "error":
		return "fail"
	default:
		return "pending"
	}
}

// logRateLimit logs the GitHub API rate limit status after each call.
func logRateLimit(resp *gh.Response, endpoint string, page, count int) {
	if resp == nil {
		return
	}

	slog.Debug("github api call",
		"endpoint", endpoint,
		"page", page,
		"count", count,
		"rate_remaining", resp.Rate.Remaining,
		"rate_limit", resp.Rate.Limit,
	)

	if resp.Rate.Remaining < 100 {
		slog.Warn("github rate limit low",
			"remaining", resp.Rate.Remaining,
			"reset_in", time.Until(resp.Rate.Reset.Time).Round(time.Second),
		)
	}
}
