package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	circleciadapter "github.com/prpilot/prpilot/internal/adapter/driven/circleci"
	gitadapter "github.com/prpilot/prpilot/internal/adapter/driven/git"
	githubadapter "github.com/prpilot/prpilot/internal/adapter/driven/github"
	"github.com/prpilot/prpilot/internal/adapter/driving/report"
	"github.com/prpilot/prpilot/internal/application"
	"github.com/prpilot/prpilot/internal/config"
	"github.com/prpilot/prpilot/internal/domain/model"
)

// Flags shared across commands.
var (
	flagRepo             string
	flagPR               int
	flagIncludeChecks    []string
	flagExcludeChecks    []string
	flagTimeout          time.Duration
	flagPollInterval     time.Duration
	flagMinWaitAfterPush time.Duration
	flagMaintainStatus   bool
	flagStatusMessage    string
)

// app holds the resolved configuration and wired clients for one invocation.
type app struct {
	cfg    *config.Config
	logger *slog.Logger
	gh     *githubadapter.Client
	git    *gitadapter.Client
	render *report.Renderer

	owner    string
	repo     string
	prNumber int
}

// newApp loads configuration, wires the adapters, and resolves which PR to
// operate on. When --maintain-status is set it also refreshes the status
// block before the command proper runs.
func newApp(ctx context.Context, cmd *cobra.Command) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger := slog.Default()

	if !cfg.HasCircleCIToken() {
		logger.Info("CIRCLECI_TOKEN not set, CI log details will be unavailable")
	}

	applyFlagOverrides(cfg, cmd)

	gh := githubadapter.NewClient(cfg.GitHubToken)
	git := gitadapter.NewClient()
	detector := githubadapter.NewDetector(gh, git)

	slug := flagRepo
	if slug == "" {
		slug, err = detector.DetectRepo(ctx)
		if err != nil {
			return nil, fmt.Errorf("detecting repository: %w", err)
		}
	}
	owner, repo, err := githubadapter.SplitRepo(slug)
	if err != nil {
		return nil, err
	}

	prNumber := flagPR
	if prNumber == 0 {
		prNumber, err = detector.DetectPR(ctx, owner, repo)
		if err != nil {
			return nil, fmt.Errorf("detecting pull request: %w", err)
		}
	}

	a := &app{
		cfg:      cfg,
		logger:   logger,
		gh:       gh,
		git:      git,
		render:   report.NewRenderer(os.Stdout),
		owner:    owner,
		repo:     repo,
		prNumber: prNumber,
	}

	if flagMaintainStatus {
		maintainer := application.NewStatusMaintainer(logger, gh, owner, repo, prNumber)
		if err := maintainer.Maintain(ctx, flagStatusMessage); err != nil {
			return nil, err
		}
	}

	return a, nil
}

// applyFlagOverrides lets explicitly-set flags win over environment values.
func applyFlagOverrides(cfg *config.Config, cmd *cobra.Command) {
	flags := cmd.Flags()
	if flags.Changed("include-checks") {
		cfg.IncludeChecks = flagIncludeChecks
	}
	if flags.Changed("exclude-checks") {
		cfg.ExcludeChecks = flagExcludeChecks
	}
	if flags.Changed("timeout") {
		cfg.Timeout = flagTimeout
	}
	if flags.Changed("poll-interval") {
		cfg.PollInterval = flagPollInterval
	}
	if flags.Changed("min-wait-after-push") {
		cfg.MinWaitAfterPush = flagMinWaitAfterPush
	}
}

func (a *app) triage() *application.Triage {
	return application.NewTriage(
		a.logger, a.gh, a.gh,
		a.owner, a.repo, a.prNumber,
		a.cfg.IncludeChecks, a.cfg.ExcludeChecks,
	)
}

func (a *app) cleaner() *application.ThreadCleaner {
	return application.NewThreadCleaner(a.logger, a.gh, a.gh, a.owner, a.repo, a.prNumber)
}

// failureLogs fetches CI step logs for the failed checks in summary.
// Without a CircleCI token there is nothing to fetch.
func (a *app) failureLogs(ctx context.Context, summary model.CheckSummary) []model.FailedStepLog {
	if !a.cfg.HasCircleCIToken() || len(summary.Failed()) == 0 {
		return nil
	}
	correlator := application.NewLogCorrelator(a.logger, circleciadapter.NewClient(a.cfg.CircleCIToken))
	return correlator.CorrelateFailureLogs(ctx, summary)
}

func (a *app) waitOptions() application.WaitOptions {
	return application.WaitOptions{
		Timeout:          a.cfg.Timeout,
		PollInterval:     a.cfg.PollInterval,
		MinWaitAfterPush: a.cfg.MinWaitAfterPush,
	}
}
