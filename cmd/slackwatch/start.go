package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/sandevgo/slackwatch/pkg/log"
	"github.com/sandevgo/slackwatch/pkg/srv"
)

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start listening for new messages",
	Long: `Starts the listener and every configured consumer (moderation rules,
archive, Telegram alerts, metrics endpoint) and runs until interrupted.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		// logger setup
		var flushLog func()
		ctx, flushLog = setupLogger(ctx)
		defer flushLog()

		logger := log.FromCtx(ctx)
		logger.Info().Msg("starting slackwatch")

		services := NewServices(ctx)

		wg := srv.StartServices(ctx, services, stop)

		// Wait for shutdown signal
		srv.ShutdownServices(ctx, services)
		wg.Wait()
		logger.Info().Msg("slackwatch has been shut down gracefully")

		return nil
	},
}

func init() {
	rootCmd.AddCommand(startCmd)
}
