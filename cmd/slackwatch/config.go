package main

import (
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/spf13/cobra"

	"github.com/sandevgo/slackwatch/internal/config"
	pkgenv "github.com/sandevgo/slackwatch/pkg/env"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective configuration as .env lines",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, flushLog := setupLogger(cmd.Context())
		defer flushLog()

		if err := initEnv(ctx, config.GetRuntimePath()); err != nil {
			return err
		}

		// Parsed without validation so an incomplete setup can be inspected.
		configs := []any{
			config.NewAppConfig(ctx),
			&config.SlackConfig{},
			&config.ListenerConfig{},
			&config.ModerationConfig{},
		}
		for _, c := range configs[1:] {
			if err := env.Parse(c); err != nil {
				return err
			}
		}

		out, err := pkgenv.MarshalEnv(configs...)
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), out)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
}
