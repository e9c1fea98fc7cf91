package report

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nuttaphathuayudomsin-web/filingfetching/internal/model"
)

func sampleFilings() []model.Filing {
	return []model.Filing{
		{Issuer: "บล.บัวหลวง", OfferType: "PO", Underlying: "NVIDIA Corporation", SETSymbol: "NVIDIA01", Stage: model.StageTradingStarted},
		{Issuer: "บล.หยวนต้า", OfferType: "PP", Underlying: "Tesla Inc", SETSymbol: "TSLA19", Stage: model.StageInitialFiling},
		{Issuer: "บล.เคจีไอ", OfferType: "PO", Underlying: "Apple Inc", SETSymbol: "AAPL13", Stage: model.StageFilingEffective},
	}
}

func TestFilter_ZeroValueMatchesAll(t *testing.T) {
	t.Parallel()

	out := Filter{}.Apply(sampleFilings())
	assert.Len(t, out, 3)
}

func TestFilter_ByStage(t *testing.T) {
	t.Parallel()

	out := Filter{Stages: []model.Stage{model.StageTradingStarted}}.Apply(sampleFilings())
	require.Len(t, out, 1)
	assert.Equal(t, "NVIDIA Corporation", out[0].Underlying)
}

func TestFilter_ByIssuer(t *testing.T) {
	t.Parallel()

	out := Filter{Issuers: []string{"บล.หยวนต้า"}}.Apply(sampleFilings())
	require.Len(t, out, 1)
	assert.Equal(t, "Tesla Inc", out[0].Underlying)
}

func TestFilter_ByOfferType(t *testing.T) {
	t.Parallel()

	out := Filter{OfferTypes: []string{"po"}}.Apply(sampleFilings())
	assert.Len(t, out, 2, "offer type matching is case-insensitive")
}

func TestFilter_Search(t *testing.T) {
	t.Parallel()

	out := Filter{Search: "nvidia"}.Apply(sampleFilings())
	require.Len(t, out, 1)
	assert.Equal(t, "NVIDIA01", out[0].SETSymbol)

	out = Filter{Search: "TSLA"}.Apply(sampleFilings())
	require.Len(t, out, 1)
	assert.Equal(t, "Tesla Inc", out[0].Underlying)

	out = Filter{Search: "ไม่มีจริง"}.Apply(sampleFilings())
	assert.Empty(t, out)
}

func TestFilter_Combined(t *testing.T) {
	t.Parallel()

	out := Filter{
		OfferTypes: []string{"PO"},
		Search:     "apple",
	}.Apply(sampleFilings())
	require.Len(t, out, 1)
	assert.Equal(t, "AAPL13", out[0].SETSymbol)
}
