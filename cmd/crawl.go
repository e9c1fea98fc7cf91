package main

import (
	"context"
	"encoding/json"
	"os"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/nuttaphathuayudomsin-web/filingfetching/internal/model"
	"github.com/nuttaphathuayudomsin-web/filingfetching/internal/normalize"
	"github.com/nuttaphathuayudomsin-web/filingfetching/internal/report"
	"github.com/nuttaphathuayudomsin-web/filingfetching/internal/scrape"
	"github.com/nuttaphathuayudomsin-web/filingfetching/pkg/secmarket"
)

// crawlDump is the JSON shape written by fetch --json and accepted by
// the --in flag of export and email, so a single crawl can feed several
// outputs.
type crawlDump struct {
	GeneratedAt time.Time      `json:"generated_at"`
	From        string         `json:"from"`
	To          string         `json:"to"`
	Partial     bool           `json:"partial,omitempty"`
	Filings     []model.Filing `json:"filings"`
}

func newCrawler() *scrape.Crawler {
	client := secmarket.NewClient(
		secmarket.WithBaseURL(cfg.Crawl.BaseURL),
		secmarket.WithRequestInterval(time.Duration(cfg.Crawl.RequestIntervalMs)*time.Millisecond),
	)
	return scrape.NewCrawler(client, cfg.Crawl.MaxPages)
}

// loadFilings either replays a previous crawl dump (--in) or runs a
// fresh crawl over the flag-selected date range.
func loadFilings(ctx context.Context, cmd *cobra.Command) (*crawlDump, error) {
	if inPath, _ := cmd.Flags().GetString("in"); inPath != "" {
		data, err := os.ReadFile(inPath)
		if err != nil {
			return nil, eris.Wrapf(err, "read crawl dump %s", inPath)
		}
		var dump crawlDump
		if err := json.Unmarshal(data, &dump); err != nil {
			return nil, eris.Wrapf(err, "parse crawl dump %s", inPath)
		}
		return &dump, nil
	}

	from, to, err := parseRange(cmd)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate("crawl"); err != nil {
		return nil, err
	}

	res, err := newCrawler().Run(ctx, from, to)
	if err != nil {
		return nil, err
	}
	return &crawlDump{
		GeneratedAt: time.Now(),
		From:        normalize.FormatDate(from),
		To:          normalize.FormatDate(to),
		Partial:     res.Partial,
		Filings:     res.Filings,
	}, nil
}

// addFilterFlags registers the client-side filter flags shared by export
// and email commands.
func addFilterFlags(cmd *cobra.Command) {
	cmd.Flags().StringSlice("stage", nil, "filter by stage: initial, effective, trading")
	cmd.Flags().StringSlice("issuer", nil, "filter by issuer name")
	cmd.Flags().StringSlice("offer-type", nil, "filter by offer type")
	cmd.Flags().String("search", "", "substring match on underlying, symbol, or issuer")
}

func parseFilter(cmd *cobra.Command) (report.Filter, error) {
	var fl report.Filter

	stages, _ := cmd.Flags().GetStringSlice("stage")
	for _, s := range stages {
		switch s {
		case "initial", "1":
			fl.Stages = append(fl.Stages, model.StageInitialFiling)
		case "effective", "2":
			fl.Stages = append(fl.Stages, model.StageFilingEffective)
		case "trading", "3":
			fl.Stages = append(fl.Stages, model.StageTradingStarted)
		default:
			return fl, eris.Errorf("unknown stage %q (want initial, effective, or trading)", s)
		}
	}

	fl.Issuers, _ = cmd.Flags().GetStringSlice("issuer")
	fl.OfferTypes, _ = cmd.Flags().GetStringSlice("offer-type")
	fl.Search, _ = cmd.Flags().GetString("search")
	return fl, nil
}
