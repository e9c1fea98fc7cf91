package main

import (
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/nuttaphathuayudomsin-web/filingfetching/internal/model"
)

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Crawl DR filings for a date range",
	Long: `Crawl the SEC listing for DR filings whose first-filed date falls in
the selected range, enrich each with its underlying stock and SET
symbol, and print a summary. Use --json to save the records for the
export and email commands.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		dump, err := loadFilings(ctx, cmd)
		if err != nil {
			return err
		}

		printSummary(cmd, dump)

		if outPath, _ := cmd.Flags().GetString("json"); outPath != "" {
			data, err := json.MarshalIndent(dump, "", "  ")
			if err != nil {
				return eris.Wrap(err, "encode crawl dump")
			}
			if err := os.WriteFile(outPath, data, 0o644); err != nil {
				return eris.Wrapf(err, "write crawl dump %s", outPath)
			}
			cmd.Printf("wrote %d filings to %s\n", len(dump.Filings), outPath)
		}
		return nil
	},
}

func printSummary(cmd *cobra.Command, dump *crawlDump) {
	counts := make(map[model.Stage]int)
	for _, f := range dump.Filings {
		counts[f.Stage]++
	}

	cmd.Printf("%d filing(s) between %s and %s", len(dump.Filings), dump.From, dump.To)
	if dump.Partial {
		cmd.Printf(" (partial: crawl stopped early on a fetch failure)")
	}
	cmd.Println()

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 2, 4, 2, ' ', 0)
	for _, st := range []model.Stage{
		model.StageInitialFiling,
		model.StageFilingEffective,
		model.StageTradingStarted,
		model.StageUnknown,
	} {
		if counts[st] == 0 {
			continue
		}
		fmt.Fprintf(w, "  %s\t%d\n", st, counts[st])
	}
	_ = w.Flush()

	for _, f := range dump.Filings {
		sym := f.SETSymbol
		if sym == "" {
			sym = model.NotFound
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", f.Underlying, sym, f.Stage, f.Issuer)
	}
	_ = w.Flush()
}

func init() {
	addRangeFlags(fetchCmd)
	fetchCmd.Flags().String("json", "", "write the enriched filings to a JSON file")
	rootCmd.AddCommand(fetchCmd)
}
