// Package git implements the GitClient port by shelling out to the git
// binary against the current working directory.
package git

import (
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/prpilot/prpilot/internal/domain/port/driven"
)

var _ driven.GitClient = (*Client)(nil)

// Client runs git commands in the process working directory.
type Client struct{}

// NewClient returns a git client for the current directory.
func NewClient() *Client {
	return &Client{}
}

// LastCommitTime returns the committer time of HEAD.
func (c *Client) LastCommitTime(ctx context.Context) (time.Time, error) {
	out, err := run(ctx, "log", "-1", "--format=%ct")
	if err != nil {
		return time.Time{}, err
	}

	epoch, err := strconv.ParseInt(out, 10, 64)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing commit timestamp %q: %w", out, err)
	}
	return time.Unix(epoch, 0), nil
}

// CurrentBranch returns the checked-out branch name.
func (c *Client) CurrentBranch(ctx context.Context) (string, error) {
	return run(ctx, "rev-parse", "--abbrev-ref", "HEAD")
}

// RemoteURL returns the fetch URL of the given remote.
func (c *Client) RemoteURL(ctx context.Context, remote string) (string, error) {
	return run(ctx, "remote", "get-url", remote)
}

func run(ctx context.Context, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	out, err := cmd.Output()
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok && len(exitErr.Stderr) > 0 {
			return "", fmt.Errorf("git %s: %s", strings.Join(args, " "), strings.TrimSpace(string(exitErr.Stderr)))
		}
		return "", fmt.Errorf("git %s: %w", strings.Join(args, " "), err)
	}
	return strings.TrimSpace(string(out)), nil
}
