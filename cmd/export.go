package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/nuttaphathuayudomsin-web/filingfetching/internal/report"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export DR filings to a styled XLSX workbook",
	Long: `Crawl (or replay a fetch --json dump with --in), apply any filters,
and write the filings to a single-sheet workbook with a frozen header
and stage-colored rows.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		dump, err := loadFilings(ctx, cmd)
		if err != nil {
			return err
		}

		fl, err := parseFilter(cmd)
		if err != nil {
			return err
		}
		filings := fl.Apply(dump.Filings)

		outPath, _ := cmd.Flags().GetString("out")
		if outPath == "" {
			outPath = fmt.Sprintf("DR_Filings_%s.xlsx", time.Now().Format("20060102_1504"))
		}

		f, err := os.Create(outPath)
		if err != nil {
			return eris.Wrapf(err, "create %s", outPath)
		}
		defer f.Close()

		if err := report.WriteXLSX(report.Materialize(filings), f); err != nil {
			return err
		}
		cmd.Printf("wrote %d filings to %s\n", len(filings), outPath)
		return nil
	},
}

func init() {
	addRangeFlags(exportCmd)
	addFilterFlags(exportCmd)
	exportCmd.Flags().String("in", "", "replay a fetch --json dump instead of crawling")
	exportCmd.Flags().String("out", "", "output path (default DR_Filings_<timestamp>.xlsx)")
	rootCmd.AddCommand(exportCmd)
}
