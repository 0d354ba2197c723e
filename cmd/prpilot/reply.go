package main

import (
	"github.com/spf13/cobra"

	"github.com/prpilot/prpilot/internal/application"
)

var (
	flagInReplyTo string
	flagMessage   string
)

var replyCmd = &cobra.Command{
	Use:   "reply",
	Short: "Post a marked reply to the review thread containing a comment",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		a, err := newApp(ctx, cmd)
		if err != nil {
			return err
		}

		replier := application.NewReplier(a.logger, a.gh, a.gh)

		a.logger.Info("replying", "in_reply_to", flagInReplyTo,
			"repo", a.owner+"/"+a.repo, "pr", a.prNumber)

		result, err := replier.Reply(ctx, flagInReplyTo, flagMessage)
		if err != nil {
			return err
		}

		a.render.ReplyPosted(result.CommentID)
		if len(result.NewerComments) > 0 {
			a.render.NewerComments(result.NewerComments, result.ThreadID)
		}
		return nil
	},
}

func init() {
	replyCmd.Flags().StringVar(&flagInReplyTo, "in-reply-to", "", "ID of the comment being replied to")
	replyCmd.Flags().StringVar(&flagMessage, "message", "", "Reply text (the assistant marker prefix is added automatically)")
	_ = replyCmd.MarkFlagRequired("in-reply-to")
	_ = replyCmd.MarkFlagRequired("message")
	rootCmd.AddCommand(replyCmd)
}
