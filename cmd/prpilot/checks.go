package main

import (
	"github.com/spf13/cobra"
)

var checksCmd = &cobra.Command{
	Use:   "checks",
	Short: "Show CI check status grouped by result, with failure logs",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		a, err := newApp(ctx, cmd)
		if err != nil {
			return err
		}

		summary, err := a.triage().FetchCheckSummary(ctx)
		if err != nil {
			return err
		}

		logs := a.failureLogs(ctx, summary)
		a.render.Checks(a.owner, a.repo, a.prNumber, summary, logs)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(checksCmd)
}
