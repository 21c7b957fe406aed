package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/hyperifyio/fedwatch/internal/app"
)

var (
	flagConfig   string
	flagEnvFiles []string
	flagVerbose  bool
	flagLogFile  string
)

var rootCmd = newRootCmd()

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "fedwatch",
		Short:         "Federal research news reports",
		Long:          "fedwatch searches recent news for selected topics, scores and summarizes the articles and delivers a Markdown report.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&flagConfig, "config", "", "path to YAML or JSON config file")
	root.PersistentFlags().StringSliceVar(&flagEnvFiles, "env-file", []string{".env"}, "dotenv files to load, later files win")
	root.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "verbose logging")
	root.PersistentFlags().StringVar(&flagLogFile, "log-file", "", "also write logs to this rotating file")

	root.AddCommand(newServeCmd())
	root.AddCommand(newRunCmd())
	root.AddCommand(newVersionCmd())
	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "fedwatch %s (commit: %s, built: %s)\n", app.BuildVersion, app.BuildCommit, app.BuildDate)
		},
	}
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		log.Error().Err(err).Msg("fedwatch failed")
		os.Exit(1)
	}
}

// loadConfig resolves configuration with precedence flags > env > file > defaults.
func loadConfig(cmd *cobra.Command) (app.Config, error) {
	cfg := app.Defaults()
	if flagConfig != "" {
		fc, err := app.LoadConfigFile(flagConfig)
		if err != nil {
			return cfg, fmt.Errorf("load config %s: %w", flagConfig, err)
		}
		app.ApplyFileConfig(&cfg, fc)
	}
	if err := app.LoadEnvFiles(flagEnvFiles...); err != nil {
		return cfg, fmt.Errorf("load env files: %w", err)
	}
	app.ApplyEnvOverrides(&cfg)
	flags := cmd.Flags()
	if flags.Changed("verbose") {
		cfg.Verbose = flagVerbose
	}
	if flags.Changed("log-file") {
		cfg.LogFile = flagLogFile
	}
	return cfg, nil
}
