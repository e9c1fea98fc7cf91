// Package model defines the DR filing record and its lifecycle stage.
package model

import "time"

// NotFound is the sentinel rendered for fields that were looked up but
// could not be resolved (missing underlying, unsynthesizable symbol).
const NotFound = "—"

// Stage is the lifecycle phase of a DR filing.
type Stage int

const (
	StageUnknown Stage = iota
	StageInitialFiling
	StageFilingEffective
	StageTradingStarted
)

// String returns the display label used in exports and reports.
func (s Stage) String() string {
	switch s {
	case StageInitialFiling:
		return "1. Initial Filing"
	case StageFilingEffective:
		return "2. Filing Effective"
	case StageTradingStarted:
		return "3. Trading Started"
	default:
		return NotFound
	}
}

// DetectStage classifies a filing from its lifecycle dates. Checks are
// evaluated in fixed priority order: a later check only applies when the
// earlier ones fail.
func DetectStage(first, effective, tradeStart *time.Time) Stage {
	switch {
	case tradeStart != nil:
		return StageTradingStarted
	case effective != nil:
		return StageFilingEffective
	case first != nil:
		return StageInitialFiling
	default:
		return StageUnknown
	}
}

// Filing is one DR filing event scraped from the SEC listing.
//
// Raw date strings are kept alongside their parsed forms so exports can
// render exactly what the source published while range filtering and
// stage detection work on normalized dates.
type Filing struct {
	Issuer       string `json:"issuer"`
	SecurityType string `json:"security_type"`
	OfferType    string `json:"offer_type"`

	FirstFiledRaw string `json:"first_filed_raw"`
	AmendedRaw    string `json:"amended_raw"`
	EffectiveRaw  string `json:"effective_raw"`
	TradeStartRaw string `json:"trade_start_raw"`
	OfferEndRaw   string `json:"offer_end_raw"`

	FirstFiled *time.Time `json:"first_filed,omitempty"`
	Amended    *time.Time `json:"amended,omitempty"`
	Effective  *time.Time `json:"effective,omitempty"`
	TradeStart *time.Time `json:"trade_start,omitempty"`
	OfferEnd   *time.Time `json:"offer_end,omitempty"`

	Remark    string `json:"remark,omitempty"`
	DetailURL string `json:"detail_url,omitempty"`

	// Populated by enrichment.
	Underlying string `json:"underlying,omitempty"`
	SETSymbol  string `json:"set_symbol,omitempty"`
	SETLink    string `json:"set_link,omitempty"`
	Stage      Stage  `json:"stage"`
}

// Key is the dedup identity of a filing within one crawl: no two retained
// records may share the same issuer and first-filed date.
func (f *Filing) Key() string {
	return f.Issuer + "|" + f.FirstFiledRaw
}

// RefreshStage recomputes the cached stage from the lifecycle dates.
func (f *Filing) RefreshStage() {
	f.Stage = DetectStage(f.FirstFiled, f.Effective, f.TradeStart)
}
