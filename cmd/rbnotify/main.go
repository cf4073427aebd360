package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/orris-inc/rbnotify/internal/interfaces/cli/bootstrap"
	"github.com/orris-inc/rbnotify/internal/interfaces/cli/migrate"
	"github.com/orris-inc/rbnotify/internal/interfaces/cli/notify"
	"github.com/orris-inc/rbnotify/internal/interfaces/cli/server"
	"github.com/orris-inc/rbnotify/internal/interfaces/cli/token"
	"github.com/orris-inc/rbnotify/internal/interfaces/cli/worker"
)

func main() {
	opts := &bootstrap.Options{}

	rootCmd := &cobra.Command{
		Use:   "rbnotify",
		Short: "Room blocking notifications",
		Long: `rbnotify asks room owners to confirm room blockings and tells blocking
creators about the outcome, by email, in each user's language.`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVarP(&opts.Env, "env", "e", "development", "Environment (development, test, production)")
	rootCmd.PersistentFlags().StringVarP(&opts.ConfigPath, "config", "c", "", "Path to config file (default: ./configs/config.yaml)")

	rootCmd.AddCommand(
		server.NewCommand(opts),
		worker.NewCommand(opts),
		migrate.NewCommand(opts),
		notify.NewCommand(opts),
		token.NewCommand(opts),
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
