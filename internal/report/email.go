package report

import (
	"html/template"
	"strings"
	"time"

	"github.com/rotisserie/eris"

	"github.com/nuttaphathuayudomsin-web/filingfetching/internal/model"
	"github.com/nuttaphathuayudomsin-web/filingfetching/internal/normalize"
)

// emailRow is one filing prepared for the HTML templates.
type emailRow struct {
	Underlying string
	Symbol     string
	Stage      string
	Issuer     string
	OfferType  string
	FirstFiled string
	Effective  string
	TradeStart string
	DetailURL  string
	SETLink    string
}

type weeklyData struct {
	From  string
	To    string
	Count int
	Rows  []emailRow
}

type monthlySection struct {
	Title string
	Count int
	Rows  []emailRow
}

type monthlyData struct {
	Month    string
	Total    int
	Sections []monthlySection
}

var weeklyTmpl = template.Must(template.New("weekly").Parse(`<!DOCTYPE html>
<html><body style="font-family:Arial,sans-serif;color:#222;">
<h2 style="color:#1a3a5c;">DR Filing Weekly Report</h2>
<p>{{.Count}} filing(s) between {{.From}} and {{.To}}.</p>
<table border="1" cellpadding="6" cellspacing="0" style="border-collapse:collapse;font-size:13px;">
<tr style="background:#1a3a5c;color:#fff;">
<th>Underlying</th><th>SET Symbol</th><th>Stage</th><th>Issuer</th>
<th>Offer Type</th><th>First Filed</th><th>Effective</th><th>Trade Start</th>
</tr>
{{range .Rows}}<tr>
<td>{{if .DetailURL}}<a href="{{.DetailURL}}">{{.Underlying}}</a>{{else}}{{.Underlying}}{{end}}</td>
<td>{{if .SETLink}}<a href="{{.SETLink}}">{{.Symbol}}</a>{{else}}{{.Symbol}}{{end}}</td>
<td>{{.Stage}}</td><td>{{.Issuer}}</td><td>{{.OfferType}}</td>
<td>{{.FirstFiled}}</td><td>{{.Effective}}</td><td>{{.TradeStart}}</td>
</tr>
{{end}}</table>
</body></html>
`))

var monthlyTmpl = template.Must(template.New("monthly").Parse(`<!DOCTYPE html>
<html><body style="font-family:Arial,sans-serif;color:#222;">
<h2 style="color:#1a3a5c;">DR Filing Monthly Report — {{.Month}}</h2>
<p>{{.Total}} filing(s) in total.</p>
{{range .Sections}}
<h3 style="color:#1a3a5c;">{{.Title}} ({{.Count}})</h3>
{{if .Rows}}<table border="1" cellpadding="6" cellspacing="0" style="border-collapse:collapse;font-size:13px;">
<tr style="background:#1a3a5c;color:#fff;">
<th>Underlying</th><th>SET Symbol</th><th>Issuer</th><th>Offer Type</th>
<th>First Filed</th><th>Effective</th><th>Trade Start</th>
</tr>
{{range .Rows}}<tr>
<td>{{if .DetailURL}}<a href="{{.DetailURL}}">{{.Underlying}}</a>{{else}}{{.Underlying}}{{end}}</td>
<td>{{if .SETLink}}<a href="{{.SETLink}}">{{.Symbol}}</a>{{else}}{{.Symbol}}{{end}}</td>
<td>{{.Issuer}}</td><td>{{.OfferType}}</td>
<td>{{.FirstFiled}}</td><td>{{.Effective}}</td><td>{{.TradeStart}}</td>
</tr>
{{end}}</table>{{else}}<p>None.</p>{{end}}
{{end}}</body></html>
`))

// WeeklyHTML renders the flat weekly report body over a date window.
func WeeklyHTML(filings []model.Filing, from, to time.Time) (string, error) {
	data := weeklyData{
		From:  normalize.FormatDate(from),
		To:    normalize.FormatDate(to),
		Count: len(filings),
		Rows:  toEmailRows(filings),
	}
	var sb strings.Builder
	if err := weeklyTmpl.Execute(&sb, data); err != nil {
		return "", eris.Wrap(err, "report: render weekly email")
	}
	return sb.String(), nil
}

// MonthlyHTML renders the stage-grouped monthly report body: one section
// per lifecycle stage with its own count, in lifecycle order.
func MonthlyHTML(filings []model.Filing, month time.Time) (string, error) {
	order := []model.Stage{
		model.StageInitialFiling,
		model.StageFilingEffective,
		model.StageTradingStarted,
	}
	byStage := make(map[model.Stage][]model.Filing)
	for _, f := range filings {
		byStage[f.Stage] = append(byStage[f.Stage], f)
	}

	data := monthlyData{
		Month: month.Format("January 2006"),
		Total: len(filings),
	}
	for _, st := range order {
		data.Sections = append(data.Sections, monthlySection{
			Title: st.String(),
			Count: len(byStage[st]),
			Rows:  toEmailRows(byStage[st]),
		})
	}

	var sb strings.Builder
	if err := monthlyTmpl.Execute(&sb, data); err != nil {
		return "", eris.Wrap(err, "report: render monthly email")
	}
	return sb.String(), nil
}

func toEmailRows(filings []model.Filing) []emailRow {
	rows := make([]emailRow, 0, len(filings))
	for i := range filings {
		f := &filings[i]
		symbol := f.SETSymbol
		if !normalize.ValidSymbol(symbol) {
			symbol = model.NotFound
		}
		underlying := f.Underlying
		if underlying == "" {
			underlying = model.NotFound
		}
		rows = append(rows, emailRow{
			Underlying: underlying,
			Symbol:     symbol,
			Stage:      f.Stage.String(),
			Issuer:     f.Issuer,
			OfferType:  f.OfferType,
			FirstFiled: f.FirstFiledRaw,
			Effective:  f.EffectiveRaw,
			TradeStart: f.TradeStartRaw,
			DetailURL:  f.DetailURL,
			SETLink:    f.SETLink,
		})
	}
	return rows
}
