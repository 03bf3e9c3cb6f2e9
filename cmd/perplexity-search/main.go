// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the perplexity-search CLI.
// It searches PubMed, scores every returned title with a language model,
// and shows the titles ranked from most to least surprising.
package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/pdiddy/perplexity-search/internal/config"
	"github.com/pdiddy/perplexity-search/internal/secrets"
)

// version is set at build time via ldflags.
var version = "dev"

var (
	// settings holds flags, config file and environment values.
	settings = config.New()

	// logger writes to stderr; its level is set before any command runs.
	logger = log.NewWithOptions(os.Stderr, log.Options{ReportTimestamp: true})

	// loadedSecrets holds credentials read from .secrets/ at startup.
	loadedSecrets secrets.Set
)

var rootCmd = &cobra.Command{
	Use:   "perplexity-search",
	Short: "Rank PubMed titles by how surprising a language model finds them",
	Long: `perplexity-search queries PubMed, fetches the titles of the matching
articles, scores each title's perplexity under a language model served over
an OpenAI-compatible completions API, and lists the titles from most to least
surprising.

Run "rank" for a one-shot search, "interactive" for a terminal form, or "mcp"
to expose the search as a tool to an MCP client.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level, err := log.ParseLevel(settings.GetString("log.level"))
		if err != nil {
			return fmt.Errorf("invalid log level: %w", err)
		}
		logger.SetLevel(level)

		s, err := secrets.Load(secrets.DefaultDir, logger)
		if err != nil {
			return err
		}
		loadedSecrets = s
		if len(s) > 0 {
			logger.Debug("loaded secrets", "keys", s.Keys())
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "config file (default: ./perplexity-search.yaml or ~/.config/perplexity-search/perplexity-search.yaml)")
	pf.String("log-level", "info", "log level (debug, info, warn, error)")
	pf.String("model", "", "model name served by the scoring endpoint (default gpt2)")
	pf.String("endpoint", "", "OpenAI-compatible completions API base URL")

	_ = settings.BindPFlag("log.level", pf.Lookup("log-level"))
	_ = settings.BindPFlag("scorer.model", pf.Lookup("model"))
	_ = settings.BindPFlag("scorer.endpoint", pf.Lookup("endpoint"))
}

func initConfig() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		logger.Warn("could not read .env", "error", err)
	}

	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		settings.SetConfigFile(cfgFile)
	} else {
		settings.SetConfigName("perplexity-search")
		settings.SetConfigType("yaml")
		settings.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			settings.AddConfigPath(filepath.Join(home, ".config", "perplexity-search"))
		}
	}

	if err := settings.ReadInConfig(); err == nil {
		logger.Info("using config file", "path", settings.ConfigFileUsed())
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
