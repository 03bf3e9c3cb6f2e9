package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/perplexity-search/internal/rank"
	"github.com/pdiddy/perplexity-search/internal/ui"
	"github.com/pdiddy/perplexity-search/pkg/types"
)

var rankCmd = &cobra.Command{
	Use:   "rank",
	Short: "Search PubMed and print titles ranked by perplexity",
	Long: `Rank searches PubMed for --query, fetches up to --max-results titles,
scores each with the language model and prints them from most to least
surprising. A failing stage prints an error banner on stderr and the output
is empty; the command still exits 0.`,
	RunE: runRank,
}

func init() {
	rankCmd.Flags().String("query", "", "PubMed search term")
	rankCmd.Flags().Int("max-results", types.DefaultLimit, fmt.Sprintf("maximum number of papers (%d-%d)", types.MinLimit, types.MaxLimit))
	rankCmd.Flags().String("email", "", "contact email sent to NCBI (default from config or .secrets/ncbi-email)")
	rankCmd.Flags().String("format", string(rank.FormatText), fmt.Sprintf("output format %v", rank.Formats))
	rankCmd.Flags().Bool("no-spinner", false, "do not show a spinner on stderr")

	rootCmd.AddCommand(rankCmd)
}

func runRank(cmd *cobra.Command, args []string) error {
	term, _ := cmd.Flags().GetString("query")
	limit, _ := cmd.Flags().GetInt("max-results")
	email, _ := cmd.Flags().GetString("email")
	formatName, _ := cmd.Flags().GetString("format")
	noSpinner, _ := cmd.Flags().GetBool("no-spinner")

	format, err := rank.ParseFormat(formatName)
	if err != nil {
		return err
	}
	q := types.Query{Term: term, Limit: limit, Contact: types.Contact{Email: email}}
	if err := q.Validate(); err != nil {
		return err
	}

	runner, _, err := newRunner(logger)
	if err != nil {
		return err
	}
	runner.Notifier = ui.Banner{W: cmd.ErrOrStderr()}
	runner.Busy = ui.Spinner{W: cmd.ErrOrStderr()}
	if noSpinner {
		runner.Busy = ui.NopBusy{}
	}

	rep, err := runner.Run(cmd.Context(), q)
	if err != nil {
		return err
	}
	return rank.Render(cmd.OutOrStdout(), rep.Ranked, format)
}
