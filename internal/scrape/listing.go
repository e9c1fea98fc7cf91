// Package scrape turns SEC Thailand filing pages into Filing records:
// listing-table parsing, detail-page extraction, and the crawl
// orchestrator that ties them together.
package scrape

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/rotisserie/eris"

	"github.com/nuttaphathuayudomsin-web/filingfetching/internal/model"
	"github.com/nuttaphathuayudomsin-web/filingfetching/internal/normalize"
)

// Column positions in the listing table. This order is a contract with
// the source site; rows that do not carry at least the trade-start
// column are treated as malformed and skipped.
const (
	colIssuer = iota
	colSecurityType
	colOfferType
	colFirstFiled
	colAmended
	colEffective
	colTradeStart
	colOfferEnd
	colRemark

	minCells = colTradeStart + 1
)

// detailPathFragments identify anchors that point at a filing detail
// page when the final cell carries no link of its own.
var detailPathFragments = []string{"ViewFiling", "FilingID", "/project/"}

// ParseListing parses one page of the DR filing list into records.
// Header rows and rows with too few cells are skipped. Records are
// deduplicated within the page on (issuer, first-filed date).
func ParseListing(html string) ([]model.Filing, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, eris.Wrap(err, "scrape: parse listing html")
	}

	var filings []model.Filing
	seen := make(map[string]struct{})

	doc.Find("tr").Each(func(_ int, row *goquery.Selection) {
		if row.Find("th").Length() > 0 {
			return
		}
		cells := row.Find("td")
		if cells.Length() < minCells {
			return
		}

		cell := func(i int) string {
			if i >= cells.Length() {
				return ""
			}
			return strings.TrimSpace(cells.Eq(i).Text())
		}

		// The issuer cell may join several parties with "/"; only the
		// selling broker (first party) is retained.
		issuer := strings.TrimSpace(strings.SplitN(cell(colIssuer), "/", 2)[0])

		f := model.Filing{
			Issuer:        issuer,
			SecurityType:  cell(colSecurityType),
			OfferType:     cell(colOfferType),
			FirstFiledRaw: cell(colFirstFiled),
			AmendedRaw:    cell(colAmended),
			EffectiveRaw:  cell(colEffective),
			TradeStartRaw: cell(colTradeStart),
			OfferEndRaw:   cell(colOfferEnd),
			Remark:        cell(colRemark),
			DetailURL:     detailLink(row, cells),
		}
		if t, ok := normalize.ParseThaiDate(f.FirstFiledRaw); ok {
			f.FirstFiled = &t
		}
		if t, ok := normalize.ParseThaiDate(f.AmendedRaw); ok {
			f.Amended = &t
		}
		if t, ok := normalize.ParseThaiDate(f.EffectiveRaw); ok {
			f.Effective = &t
		}
		if t, ok := normalize.ParseThaiDate(f.TradeStartRaw); ok {
			f.TradeStart = &t
		}
		if t, ok := normalize.ParseThaiDate(f.OfferEndRaw); ok {
			f.OfferEnd = &t
		}

		if _, dup := seen[f.Key()]; dup {
			return
		}
		seen[f.Key()] = struct{}{}
		filings = append(filings, f)
	})

	return filings, nil
}

// detailLink picks the filing detail URL for a row: an anchor inside the
// final cell wins, then any anchor whose target looks like a detail-page
// path, then the last anchor in the row.
func detailLink(row, cells *goquery.Selection) string {
	if href, ok := cells.Eq(cells.Length() - 1).Find("a[href]").First().Attr("href"); ok && href != "" {
		return href
	}

	anchors := row.Find("a[href]")
	var last string
	var matched string
	anchors.Each(func(_ int, a *goquery.Selection) {
		href, _ := a.Attr("href")
		if href == "" {
			return
		}
		last = href
		if matched == "" {
			for _, frag := range detailPathFragments {
				if strings.Contains(href, frag) {
					matched = href
					break
				}
			}
		}
	})
	if matched != "" {
		return matched
	}
	return last
}
