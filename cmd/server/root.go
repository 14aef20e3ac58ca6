package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/harsh-0015/freelance-tracker/internal/config"
	"github.com/harsh-0015/freelance-tracker/pkg/logging"
)

type globalOptions struct {
	configPath string
}

func newRootCmd() *cobra.Command {
	opts := &globalOptions{}

	rootCmd := &cobra.Command{
		Use:   "freelance-tracker",
		Short: "Time tracking and invoicing API for freelancers",
		Long: `freelance-tracker serves a JSON API for recording billable time entries,
generating invoices and summarizing work on a dashboard.

Running it without a subcommand starts the server.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, opts)
		},
	}

	rootCmd.PersistentFlags().StringVar(&opts.configPath, "config", os.Getenv("CONFIG_PATH"),
		"path to a YAML config file (env: CONFIG_PATH)")

	rootCmd.AddCommand(newServeCmd(opts))
	rootCmd.AddCommand(newMigrateCmd(opts))
	rootCmd.AddCommand(newTokenCmd(opts))
	return rootCmd
}

// loadConfig reads the configuration and installs the logger it describes.
func loadConfig(opts *globalOptions) (*config.Config, *slog.Logger, error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return nil, nil, err
	}
	logger := logging.Setup(cfg.Log.Level, cfg.Log.Format)
	return cfg, logger, nil
}
