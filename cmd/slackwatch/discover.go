package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sandevgo/slackwatch/internal/config"
	"github.com/sandevgo/slackwatch/internal/core"
	"github.com/sandevgo/slackwatch/internal/discovery"
	"github.com/sandevgo/slackwatch/internal/service/ui"
)

var conversationsCmd = &cobra.Command{
	Use:   "conversations",
	Short: "List every conversation visible to the Discovery token",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, flushLog := setupLogger(cmd.Context())
		defer flushLog()

		gw, err := loadGateway(ctx)
		if err != nil {
			return err
		}

		convs, err := gw.AllConversations(ctx)
		if err != nil {
			return fmt.Errorf("failed to list conversations: %w", err)
		}

		fmt.Fprintln(cmd.OutOrStdout(), conversationsTable(convs))
		return nil
	},
}

var teamsCmd = &cobra.Command{
	Use:   "teams",
	Short: "List the workspaces of the Enterprise Grid",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, flushLog := setupLogger(cmd.Context())
		defer flushLog()

		gw, err := loadGateway(ctx)
		if err != nil {
			return err
		}

		teams, err := gw.AllTeams(ctx)
		if err != nil {
			return fmt.Errorf("failed to list teams: %w", err)
		}

		fmt.Fprintln(cmd.OutOrStdout(), teamsTable(teams))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(conversationsCmd, teamsCmd)
}

// loadGateway builds a gateway for one-shot commands; configuration errors
// are returned instead of exiting.
func loadGateway(ctx context.Context) (*discovery.Gateway, error) {
	if err := initEnv(ctx, config.GetRuntimePath()); err != nil {
		return nil, err
	}

	slackCfg, err := config.LoadSlackConfig()
	if err != nil {
		return nil, err
	}
	listenerCfg, err := config.LoadListenerConfig()
	if err != nil {
		return nil, err
	}
	return newGateway(slackCfg, listenerCfg)
}

func conversationsTable(convs []core.Conversation) string {
	rows := make([][]string, 0, len(convs))
	for _, c := range convs {
		rows = append(rows, []string{c.ID, c.Team, c.Name, strings.Join(c.Types(), " ")})
	}
	return ui.Table([]string{"ID", "TEAM", "NAME", "TYPES"}, rows)
}

func teamsTable(teams []core.Team) string {
	rows := make([][]string, 0, len(teams))
	for _, t := range teams {
		rows = append(rows, []string{t.ID, t.Name, t.Domain})
	}
	return ui.Table([]string{"ID", "NAME", "DOMAIN"}, rows)
}
