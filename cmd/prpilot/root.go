package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/prpilot/prpilot/internal/application"
)

var (
	flagWaitUntilActionable        bool
	flagWaitUntilActionableOrHappy bool
)

var rootCmd = &cobra.Command{
	Use:   "prpilot",
	Short: "Analyze a PR's CI checks and review threads and recommend the next action",
	Long: `prpilot inspects a pull request's CI checks and review threads and prints
a single recommended next action: respond to comments, fix CI failures,
wait for CI, or declare the PR ready.

With --wait-until-actionable or --wait-until-actionable-or-happy it first
polls until the PR reaches the corresponding state, then prints the report.`,
	SilenceUsage: true,
	RunE:         runAnalyze,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flagRepo, "repo", "", "Target repository as owner/repo (default: detect from origin remote)")
	pf.IntVar(&flagPR, "pr", 0, "Pull request number (default: detect from current branch)")
	pf.StringSliceVar(&flagIncludeChecks, "include-checks", nil, "Only consider checks matching these glob patterns")
	pf.StringSliceVar(&flagExcludeChecks, "exclude-checks", nil, "Ignore checks matching these glob patterns")
	pf.BoolVar(&flagMaintainStatus, "maintain-status", false, "Keep an iteration status block in the PR description (draft PRs only)")
	pf.StringVar(&flagStatusMessage, "status-message", "", "Free-form status line for the status block")

	flags := rootCmd.Flags()
	flags.BoolVar(&flagWaitUntilActionable, "wait-until-actionable", false, "Poll until the PR needs work, then report")
	flags.BoolVar(&flagWaitUntilActionableOrHappy, "wait-until-actionable-or-happy", false, "Poll until the PR needs work or settles green, then report")
	flags.DurationVar(&flagTimeout, "timeout", 30*time.Minute, "Give up polling after this long")
	flags.DurationVar(&flagPollInterval, "poll-interval", 5*time.Second, "Delay between polls")
	flags.DurationVar(&flagMinWaitAfterPush, "min-wait-after-push", 30*time.Second, "Do not report happy until this long after the last local commit")
	rootCmd.MarkFlagsMutuallyExclusive("wait-until-actionable", "wait-until-actionable-or-happy")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	a, err := newApp(ctx, cmd)
	if err != nil {
		return err
	}

	triage := a.triage()

	if flagWaitUntilActionable {
		outcome, err := triage.WaitUntilActionable(ctx, a.waitOptions())
		if err != nil {
			return fmt.Errorf("waiting: %w", err)
		}
		switch outcome {
		case application.WaitActionable:
			a.logger.Info("PR is now actionable")
		case application.WaitTimedOut:
			fmt.Fprintln(os.Stderr, "Timeout reached without PR becoming actionable.")
			os.Exit(2)
		}
	}

	if flagWaitUntilActionableOrHappy {
		outcome, err := triage.WaitUntilActionableOrHappy(ctx, a.git, a.waitOptions())
		if err != nil {
			return fmt.Errorf("waiting: %w", err)
		}
		switch outcome {
		case application.WaitActionable:
			a.logger.Info("PR is now actionable")
		case application.WaitHappy:
			fmt.Fprintln(os.Stderr, "PR is happy (CI passing, no comments).")
			os.Exit(0)
		case application.WaitTimedOut:
			fmt.Fprintln(os.Stderr, "Timeout reached.")
			os.Exit(2)
		}
	}

	summary, threads, err := triage.FetchState(ctx)
	if err != nil {
		return err
	}
	action := application.Analyze(summary, threads)

	logs := a.failureLogs(ctx, summary)
	a.render.Recommendation(a.owner, a.repo, a.prNumber, summary, action, logs)
	return nil
}
