package report

import (
	"strings"

	"github.com/nuttaphathuayudomsin-web/filingfetching/internal/model"
)

// Filter narrows an already-fetched filing set client-side, mirroring
// the dashboard's filter bar. Zero-value fields match everything.
type Filter struct {
	Stages     []model.Stage
	Issuers    []string
	OfferTypes []string
	// Search matches case-insensitively against underlying, SET symbol,
	// and issuer.
	Search string
}

// Apply returns the filings that pass every configured criterion.
func (fl Filter) Apply(filings []model.Filing) []model.Filing {
	out := make([]model.Filing, 0, len(filings))
	for _, f := range filings {
		if fl.matches(&f) {
			out = append(out, f)
		}
	}
	return out
}

func (fl Filter) matches(f *model.Filing) bool {
	if len(fl.Stages) > 0 && !containsStage(fl.Stages, f.Stage) {
		return false
	}
	if len(fl.Issuers) > 0 && !containsFold(fl.Issuers, f.Issuer) {
		return false
	}
	if len(fl.OfferTypes) > 0 && !containsFold(fl.OfferTypes, f.OfferType) {
		return false
	}
	if fl.Search != "" {
		q := strings.ToLower(fl.Search)
		if !strings.Contains(strings.ToLower(f.Underlying), q) &&
			!strings.Contains(strings.ToLower(f.SETSymbol), q) &&
			!strings.Contains(strings.ToLower(f.Issuer), q) {
			return false
		}
	}
	return true
}

func containsStage(stages []model.Stage, s model.Stage) bool {
	for _, v := range stages {
		if v == s {
			return true
		}
	}
	return false
}

func containsFold(values []string, s string) bool {
	for _, v := range values {
		if strings.EqualFold(v, s) {
			return true
		}
	}
	return false
}
