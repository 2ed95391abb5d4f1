package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sandevgo/slackwatch/internal/core"
	"github.com/sandevgo/slackwatch/internal/service/ui"
)

var (
	moderateTeam string
	moderateText string
)

func newModerationCmd(action core.ModerationAction, short string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   string(action) + " <channel> <ts>",
		Short: short,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, flushLog := setupLogger(cmd.Context())
			defer flushLog()

			gw, err := loadGateway(ctx)
			if err != nil {
				return err
			}

			if err := moderate(ctx, gw, action, args[0], args[1]); err != nil {
				return fmt.Errorf("%s failed: %w", action, err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), ui.UsageStyle.Render(fmt.Sprintf("%s: %s %s", action, args[0], args[1])))
			return nil
		},
	}
	cmd.Flags().StringVar(&moderateTeam, "team", "", "workspace id of the message (omit for grid-level conversations)")
	if action == core.ActionTombstone {
		cmd.Flags().StringVar(&moderateText, "text", "", "replacement text shown in place of the message")
	}
	return cmd
}

func moderate(ctx context.Context, m core.Moderator, action core.ModerationAction, channel, ts string) error {
	switch action {
	case core.ActionTombstone:
		return m.Tombstone(ctx, ts, channel, moderateTeam, moderateText)
	case core.ActionRestore:
		return m.Restore(ctx, ts, channel, moderateTeam)
	case core.ActionDelete:
		return m.Delete(ctx, ts, channel, moderateTeam)
	default:
		return core.ErrUnknownAction
	}
}

func init() {
	rootCmd.AddCommand(
		newModerationCmd(core.ActionTombstone, "Replace a message with a tombstone"),
		newModerationCmd(core.ActionRestore, "Restore a tombstoned message"),
		newModerationCmd(core.ActionDelete, "Delete a message"),
	)
}
