package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/sandevgo/slackwatch/internal/config"
	"github.com/sandevgo/slackwatch/internal/core"
	"github.com/sandevgo/slackwatch/internal/service/ui"
	"github.com/sandevgo/slackwatch/internal/storage/sqlite"
)

var (
	archiveChannel string
	archiveLimit   int
)

var archiveCmd = &cobra.Command{
	Use:   "archive",
	Short: "Show archived messages and moderation actions",
}

var archiveMessagesCmd = &cobra.Command{
	Use:   "messages",
	Short: "List the newest archived messages",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, flushLog := setupLogger(cmd.Context())
		defer flushLog()

		repo, closeDB, err := openArchive(ctx)
		if err != nil {
			return err
		}
		defer closeDB()

		msgs, err := repo.RecentMessages(ctx, archiveChannel, archiveLimit)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), messagesTable(msgs))
		return nil
	},
}

var archiveActionsCmd = &cobra.Command{
	Use:   "actions",
	Short: "List the newest moderation actions",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, flushLog := setupLogger(cmd.Context())
		defer flushLog()

		repo, closeDB, err := openArchive(ctx)
		if err != nil {
			return err
		}
		defer closeDB()

		actions, err := repo.RecentActions(ctx, archiveLimit)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), actionsTable(actions))
		return nil
	},
}

func init() {
	archiveCmd.PersistentFlags().IntVarP(&archiveLimit, "limit", "n", 20, "number of rows")
	archiveMessagesCmd.Flags().StringVar(&archiveChannel, "channel", "", "only messages of this channel")
	archiveCmd.AddCommand(archiveMessagesCmd, archiveActionsCmd)
	rootCmd.AddCommand(archiveCmd)
}

func openArchive(ctx context.Context) (*sqlite.ArchiveRepo, func() error, error) {
	if err := initEnv(ctx, config.GetRuntimePath()); err != nil {
		return nil, nil, err
	}

	appCfg := config.NewAppConfig(ctx)
	path := appCfg.GetDatabasePath()
	if _, err := os.Stat(path); err != nil {
		return nil, nil, fmt.Errorf("no archive at %s (set ENABLE_ARCHIVE=true and run start): %w", path, err)
	}

	db, err := sqlite.NewDB(ctx, path)
	if err != nil {
		return nil, nil, err
	}
	return sqlite.NewArchiveRepo(db), db.Close, nil
}

func messagesTable(msgs []core.StoredMessage) string {
	rows := make([][]string, 0, len(msgs))
	for _, m := range msgs {
		rows = append(rows, []string{m.SeenAt.Local().Format(time.DateTime), m.ChannelID, m.TS, m.User, m.Text})
	}
	return ui.Table([]string{"SEEN", "CHANNEL", "TS", "USER", "TEXT"}, rows)
}

func actionsTable(actions []core.StoredAction) string {
	rows := make([][]string, 0, len(actions))
	for _, a := range actions {
		rows = append(rows, []string{a.CreatedAt.Local().Format(time.DateTime), a.Action, a.ChannelID, a.TS, a.Rule, a.Error})
	}
	return ui.Table([]string{"AT", "ACTION", "CHANNEL", "TS", "RULE", "ERROR"}, rows)
}
