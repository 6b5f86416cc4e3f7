package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gamehoard/gamehoard/internal/client"
	"github.com/gamehoard/gamehoard/internal/config"
	"github.com/gamehoard/gamehoard/internal/events"
)

var (
	cfgFile  string
	logLevel string

	cfg       *config.Config
	logger    *events.Logger
	apiClient *client.Client
)

var rootCmd = &cobra.Command{
	Use:   "gamehoard",
	Short: "Scan storage backends for games and unify them into one catalog",
	Long: `Gamehoard discovers game files across storage backends, decomposes
their filenames into normalized identities, matches them against a
reference catalog, and unifies per-source detections into one logical
library.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error

		cfg, err = config.NewLoader(cfgFile).Load()
		if err != nil {
			return err
		}

		if logLevel != "" {
			cfg.Log.Level = logLevel
		}

		if err := cfg.EnsureDirectories(); err != nil {
			return err
		}

		logger, err = events.NewLogger(&cfg.Log)
		if err != nil {
			return fmt.Errorf("create logger: %w", err)
		}
		events.SetDefault(logger)

		apiClient, err = client.New(cfg, logger)
		if err != nil {
			return fmt.Errorf("initialize client: %w", err)
		}

		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if apiClient != nil {
			return apiClient.Close()
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "",
		"Config file path (default: search standard locations)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "",
		"Override log level (debug, info, warn, error)")
}
