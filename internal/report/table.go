// Package report builds the tabular projection of enriched filings and
// renders it as spreadsheets and HTML report emails.
package report

import (
	"strings"

	"github.com/nuttaphathuayudomsin-web/filingfetching/internal/model"
	"github.com/nuttaphathuayudomsin-web/filingfetching/internal/normalize"
)

// Columns are the export column labels, order-significant for the
// spreadsheet and matching the original bilingual report layout.
var Columns = []string{
	"Underlying Stock",
	"SET Symbol",
	"Stage",
	"Issuer",
	"Security Type",
	"Offer Type",
	"วันที่ยื่น Filing แรก",
	"วันที่แก้ไขล่าสุด",
	"วันที่ Filing มีผลบังคับ",
	"วันที่เริ่มเทรด",
	"วันที่สิ้นสุดการขาย",
	"หมายเหตุ",
	"SEC Filing URL",
	"SET Link",
}

// Index of the Stage column within Columns.
const stageCol = 2

// Table is the final tabular view handed to exports and emails.
type Table struct {
	Rows []Row
}

// Row is one materialized filing with display-ready cells.
type Row struct {
	Cells []string
	Stage model.Stage
}

// stageLabelPrefixes betray a stage string that leaked into the
// underlying field upstream.
var stageLabelPrefixes = []string{"1.", "2.", "3."}

// Materialize projects enriched filings into the fixed-column table,
// applying last-line data-quality guards: a stage label leaked into the
// underlying field, or a symbol that does not match the ticker pattern,
// is replaced with the not-found sentinel rather than exported as-is.
func Materialize(filings []model.Filing) *Table {
	t := &Table{Rows: make([]Row, 0, len(filings))}
	for i := range filings {
		f := &filings[i]

		underlying := f.Underlying
		if underlying == "" {
			underlying = model.NotFound
		}
		for _, p := range stageLabelPrefixes {
			if strings.HasPrefix(underlying, p) {
				underlying = model.NotFound
				break
			}
		}

		symbol := f.SETSymbol
		if !normalize.ValidSymbol(symbol) {
			symbol = model.NotFound
		}

		t.Rows = append(t.Rows, Row{
			Stage: f.Stage,
			Cells: []string{
				underlying,
				symbol,
				f.Stage.String(),
				f.Issuer,
				f.SecurityType,
				f.OfferType,
				f.FirstFiledRaw,
				f.AmendedRaw,
				f.EffectiveRaw,
				f.TradeStartRaw,
				f.OfferEndRaw,
				f.Remark,
				f.DetailURL,
				f.SETLink,
			},
		})
	}
	return t
}
