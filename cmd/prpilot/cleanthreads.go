package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var cleanThreadsCmd = &cobra.Command{
	Use:   "clean-threads",
	Short: "Delete the assistant's resolved threads and strip review-flag markers",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		a, err := newApp(ctx, cmd)
		if err != nil {
			return err
		}

		result, err := a.cleaner().Clean(ctx, true)
		if err != nil {
			return err
		}

		if result.ThreadsDeleted == 0 {
			fmt.Println("  (no resolved assistant threads found)")
		} else {
			fmt.Printf("✓ Deleted %d comment(s) from %d assistant thread(s)\n",
				result.CommentsDeleted, result.ThreadsDeleted)
			if result.DeleteFailures > 0 {
				fmt.Printf("  (%d deletion(s) failed)\n", result.DeleteFailures)
			}
		}
		if result.FlagsStripped > 0 {
			fmt.Printf("✓ Stripped review flag from %d comment(s)\n", result.FlagsStripped)
		}
		if result.StripFailures > 0 {
			fmt.Printf("  (%d update(s) failed)\n", result.StripFailures)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(cleanThreadsCmd)
}
