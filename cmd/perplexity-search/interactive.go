package main

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/pdiddy/perplexity-search/internal/tui"
)

var interactiveCmd = &cobra.Command{
	Use:   "interactive",
	Short: "Open the terminal search form",
	Long: `Interactive opens a full-screen form with the query, max results and
email inputs. Enter runs a search; results are listed below the form with
any error banners above them. Logs go to --log-file, or nowhere.`,
	RunE: runInteractive,
}

func init() {
	interactiveCmd.Flags().String("log-file", "", "write logs to this file while the form is open")

	rootCmd.AddCommand(interactiveCmd)
}

func runInteractive(cmd *cobra.Command, args []string) error {
	l := log.New(io.Discard)
	if path, _ := cmd.Flags().GetString("log-file"); path != "" {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("opening log file: %w", err)
		}
		defer f.Close()
		l = log.NewWithOptions(f, log.Options{ReportTimestamp: true, Level: logger.GetLevel()})
	}

	runner, cfg, err := newRunner(l)
	if err != nil {
		return err
	}
	return tui.Run(cmd.Context(), runner, cfg.Entrez.Contact.Email)
}
