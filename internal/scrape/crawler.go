package scrape

import (
	"context"
	"fmt"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/nuttaphathuayudomsin-web/filingfetching/internal/model"
	"github.com/nuttaphathuayudomsin-web/filingfetching/internal/normalize"
	"github.com/nuttaphathuayudomsin-web/filingfetching/pkg/secmarket"
)

// DefaultMaxPages is the site's known page ceiling for DR filings.
const DefaultMaxPages = 34

// setQuoteURL is the SET price page for a DR symbol.
const setQuoteURL = "https://www.set.or.th/en/market/product/dr/quote/%s/price"

// Result is the outcome of one crawl.
type Result struct {
	Filings      []model.Filing
	PagesFetched int
	// Partial is set when a listing-page failure stopped the crawl
	// before its natural end; whatever was fetched so far is kept.
	Partial bool
}

// Crawler drives the paginated listing crawl and per-record enrichment.
// One Run owns all of its state; a Crawler carries no results between
// invocations.
type Crawler struct {
	client   secmarket.Client
	maxPages int
	log      *zap.Logger
}

// NewCrawler creates a crawler over the given client. maxPages <= 0
// selects the default page ceiling.
func NewCrawler(client secmarket.Client, maxPages int) *Crawler {
	if maxPages <= 0 {
		maxPages = DefaultMaxPages
	}
	return &Crawler{
		client:   client,
		maxPages: maxPages,
		log:      zap.L().Named("crawler"),
	}
}

// Run crawls listing pages newest-first, keeps records whose first-filed
// date falls inside [from, to] (inclusive), deduplicates across pages on
// (issuer, first-filed date), and enriches every retained record with
// its underlying security, synthesized SET symbol, and stage.
//
// The crawl stops at the first empty page, and early-stops once a page's
// oldest first-filed date precedes "from": the source orders newest
// first, so later pages cannot contribute in-range records. A listing
// fetch or parse failure stops the crawl but keeps partial results.
func (c *Crawler) Run(ctx context.Context, from, to time.Time) (*Result, error) {
	if from.After(to) {
		return nil, eris.Errorf("crawl: date_from %s after date_to %s",
			normalize.FormatDate(from), normalize.FormatDate(to))
	}

	res := &Result{}
	seen := make(map[string]struct{})

	for page := 0; page < c.maxPages; page++ {
		html, err := c.client.ListingPage(ctx, page)
		if err != nil {
			c.log.Warn("listing page failed, keeping partial results",
				zap.Int("page", page), zap.Error(err))
			res.Partial = true
			break
		}
		res.PagesFetched++

		filings, err := ParseListing(html)
		if err != nil {
			c.log.Warn("listing page unparseable, keeping partial results",
				zap.Int("page", page), zap.Error(err))
			res.Partial = true
			break
		}
		if len(filings) == 0 {
			c.log.Debug("empty listing page, crawl exhausted", zap.Int("page", page))
			break
		}

		var oldest *time.Time
		for _, f := range filings {
			if f.FirstFiled == nil {
				continue
			}
			if oldest == nil || f.FirstFiled.Before(*oldest) {
				oldest = f.FirstFiled
			}
		}

		for _, f := range filings {
			if f.FirstFiled == nil || f.FirstFiled.Before(from) || f.FirstFiled.After(to) {
				continue
			}
			if _, dup := seen[f.Key()]; dup {
				continue
			}
			seen[f.Key()] = struct{}{}
			res.Filings = append(res.Filings, f)
		}

		if oldest != nil && oldest.Before(from) {
			c.log.Debug("page reached below date_from, early stop",
				zap.Int("page", page), zap.Time("oldest", *oldest))
			break
		}
	}

	c.log.Info("listing crawl finished",
		zap.Int("pages", res.PagesFetched),
		zap.Int("retained", len(res.Filings)),
		zap.Bool("partial", res.Partial))

	c.enrich(ctx, res.Filings)
	return res, nil
}

// enrich fills underlying, SET symbol, quote link, and stage for every
// filing, sequentially. A failed detail fetch degrades only that record
// to the not-found sentinel; it never aborts the batch.
func (c *Crawler) enrich(ctx context.Context, filings []model.Filing) {
	for i := range filings {
		f := &filings[i]
		f.Underlying = model.NotFound

		if f.DetailURL != "" {
			html, err := c.client.DetailPage(ctx, f.DetailURL)
			if err != nil {
				c.log.Warn("detail page failed, underlying not found",
					zap.String("issuer", f.Issuer), zap.Error(err))
			} else if u := ExtractUnderlying(html); u != "" {
				f.Underlying = u
			}
		}

		if sym, ok := normalize.SynthesizeSymbol(f.Underlying, f.Issuer); ok {
			f.SETSymbol = sym
			f.SETLink = fmt.Sprintf(setQuoteURL, sym)
		}
		f.RefreshStage()
	}
}
