package github

import (
	"context"
	"fmt"
	"strings"

	gh "github.com/google/go-github/v82/github"

	"github.com/prpilot/prpilot/internal/domain/port/driven"
)

var _ driven.RepoDetector = (*Detector)(nil)

// Detector resolves the target repository and pull request from the local
// working copy when they are not given on the command line.
type Detector struct {
	client *Client
	git    driven.GitClient
}

// NewDetector builds a detector over the given API client and working copy.
func NewDetector(client *Client, git driven.GitClient) *Detector {
	return &Detector{client: client, git: git}
}

// DetectRepo returns the owner/repo slug parsed from the origin remote URL.
func (d *Detector) DetectRepo(ctx context.Context) (string, error) {
	remote, err := d.git.RemoteURL(ctx, "origin")
	if err != nil {
		return "", fmt.Errorf("reading origin remote: %w", err)
	}

	slug, err := parseRemoteURL(remote)
	if err != nil {
		return "", err
	}
	return slug, nil
}

// DetectPR returns the number of the open pull request whose head is the
// currently checked-out branch.
func (d *Detector) DetectPR(ctx context.Context, owner, repo string) (int, error) {
	branch, err := d.git.CurrentBranch(ctx)
	if err != nil {
		return 0, fmt.Errorf("reading current branch: %w", err)
	}

	opts := &gh.PullRequestListOptions{
		State:       "open",
		Head:        fmt.Sprintf("%s:%s", owner, branch),
		ListOptions: gh.ListOptions{PerPage: 10},
	}
	prs, resp, err := d.client.gh.PullRequests.List(ctx, owner, repo, opts)
	if err != nil {
		return 0, fmt.Errorf("listing PRs for branch %s: %w", branch, err)
	}
	logRateLimit(resp, fmt.Sprintf("%s/%s/pr-list", owner, repo), 0, len(prs))

	if len(prs) == 0 {
		return 0, fmt.Errorf("no open PR found for branch %s; pass the PR number explicitly", branch)
	}
	return prs[0].GetNumber(), nil
}

// parseRemoteURL extracts "owner/repo" from the common GitHub remote shapes:
//
//	git@github.com:owner/repo.git
//	https://github.com/owner/repo.git
//	ssh://git@github.com/owner/repo
func parseRemoteURL(remote string) (string, error) {
	remote = strings.TrimSpace(remote)
	remote = strings.TrimSuffix(remote, ".git")

	var path string
	switch {
	case strings.Contains(remote, "github.com:"):
		_, path, _ = strings.Cut(remote, "github.com:")
	case strings.Contains(remote, "github.com/"):
		_, path, _ = strings.Cut(remote, "github.com/")
	default:
		return "", fmt.Errorf("remote %q is not a GitHub URL", remote)
	}

	path = strings.Trim(path, "/")
	parts := strings.Split(path, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", fmt.Errorf("cannot parse owner/repo from remote %q", remote)
	}
	return parts[0] + "/" + parts[1], nil
}
