package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/prpilot/prpilot/internal/application"
)

var flagPreserveAssistantThreads bool

var readyCmd = &cobra.Command{
	Use:   "ready",
	Short: "Validate a draft PR and mark it ready for review",
	Long: `Validates that the PR is a draft with a single commit, every review
thread resolved, and CI fully green, then cleans up the assistant's own
threads, removes the status block, and marks the PR ready for review.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		a, err := newApp(ctx, cmd)
		if err != nil {
			return err
		}

		readier := application.NewReadier(
			a.logger, a.triage(), a.cleaner(), a.gh,
			a.owner, a.repo, a.prNumber,
		)
		if err := readier.MakeReady(ctx, flagPreserveAssistantThreads); err != nil {
			return err
		}

		fmt.Println("🎉 PR is now ready for human review!")
		return nil
	},
}

func init() {
	readyCmd.Flags().BoolVar(&flagPreserveAssistantThreads, "preserve-assistant-threads", false,
		"Skip deleting the assistant's resolved threads")
	rootCmd.AddCommand(readyCmd)
}
