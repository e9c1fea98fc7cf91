package scrape

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nuttaphathuayudomsin-web/filingfetching/internal/model"
)

// fakeClient serves canned listing pages and detail pages and records
// which pages were requested.
type fakeClient struct {
	pages       map[int]string
	details     map[string]string
	detailErr   error
	listingErrs map[int]error
	requested   []int
}

func (f *fakeClient) ListingPage(_ context.Context, page int) (string, error) {
	f.requested = append(f.requested, page)
	if err, ok := f.listingErrs[page]; ok {
		return "", err
	}
	html, ok := f.pages[page]
	if !ok {
		return wrapTable(), nil
	}
	return html, nil
}

func (f *fakeClient) DetailPage(_ context.Context, url string) (string, error) {
	if f.detailErr != nil {
		return "", f.detailErr
	}
	return f.details[url], nil
}

func TestCrawler_RejectsInvertedRange(t *testing.T) {
	t.Parallel()

	fc := &fakeClient{}
	c := NewCrawler(fc, 5)

	_, err := c.Run(context.Background(),
		time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	require.Error(t, err)
	assert.Empty(t, fc.requested, "no network activity after range rejection")
}

func TestCrawler_EarlyStop(t *testing.T) {
	t.Parallel()

	// Page 0: all rows in range. Page 1: all rows older than date_from.
	// Page 2 must never be fetched.
	page0 := make([]string, 0, 10)
	for day := 10; day < 20; day++ {
		page0 = append(page0, listingRow(
			issuerN(day), dateRaw(day, 5, 2566), "", "", "", "", "", ""))
	}
	page1 := make([]string, 0, 5)
	for day := 1; day < 6; day++ {
		page1 = append(page1, listingRow(
			issuerN(100+day), dateRaw(day, 4, 2566), "", "", "", "", "", ""))
	}

	fc := &fakeClient{pages: map[int]string{
		0: wrapTable(page0...),
		1: wrapTable(page1...),
		2: wrapTable(listingRow("ต้องไม่ถูกอ่าน", "01/01/2566", "", "", "", "", "", "")),
	}}
	c := NewCrawler(fc, 34)

	res, err := c.Run(context.Background(),
		time.Date(2023, 5, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2023, 5, 31, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	assert.Equal(t, []int{0, 1}, fc.requested)
	assert.Len(t, res.Filings, 10)
	assert.False(t, res.Partial)
}

func TestCrawler_GlobalDedupAcrossPages(t *testing.T) {
	t.Parallel()

	dup := listingRow("บล.บัวหลวง", "15/05/2566", "", "", "", "", "", "")
	fc := &fakeClient{pages: map[int]string{
		0: wrapTable(dup),
		1: wrapTable(dup, listingRow("บล.หยวนต้า", "14/05/2566", "", "", "", "", "", "")),
	}}
	c := NewCrawler(fc, 34)

	res, err := c.Run(context.Background(),
		time.Date(2023, 5, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2023, 5, 31, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	require.Len(t, res.Filings, 2)
	seen := make(map[string]struct{})
	for _, f := range res.Filings {
		_, ok := seen[f.Key()]
		assert.False(t, ok, "duplicate key %s survived global dedup", f.Key())
		seen[f.Key()] = struct{}{}
	}
}

func TestCrawler_ListingFailureKeepsPartial(t *testing.T) {
	t.Parallel()

	fc := &fakeClient{
		pages: map[int]string{
			0: wrapTable(listingRow("บล.บัวหลวง", "15/05/2566", "", "", "", "", "", "")),
		},
		listingErrs: map[int]error{1: eris.New("connection reset")},
	}
	c := NewCrawler(fc, 34)

	res, err := c.Run(context.Background(),
		time.Date(2023, 5, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2023, 5, 31, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err, "a mid-crawl failure is not a batch failure")

	assert.True(t, res.Partial)
	assert.Len(t, res.Filings, 1)
}

func TestCrawler_EnrichmentFillsUnderlyingAndSymbol(t *testing.T) {
	t.Parallel()

	detailURL := "https://market.sec.or.th/ViewFiling?id=1"
	fc := &fakeClient{
		pages: map[int]string{
			0: wrapTable(listingRow("บล.บัวหลวง", "15/05/2566", "", "", "", "", "", detailURL)),
		},
		details: map[string]string{
			detailURL: `<html><body>ผู้เสนอขายหลักทรัพย์ อ้างอิงหุ้น (NVIDIA Corporation)</body></html>`,
		},
	}
	c := NewCrawler(fc, 34)

	res, err := c.Run(context.Background(),
		time.Date(2023, 5, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2023, 5, 31, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.Len(t, res.Filings, 1)

	f := res.Filings[0]
	assert.Equal(t, "NVIDIA Corporation", f.Underlying)
	assert.Equal(t, "NVIDIA01", f.SETSymbol)
	assert.Contains(t, f.SETLink, "NVIDIA01")
	assert.Equal(t, model.StageInitialFiling, f.Stage)
}

func TestCrawler_DetailFailureDegradesSingleRecord(t *testing.T) {
	t.Parallel()

	detailURL := "https://market.sec.or.th/ViewFiling?id=2"
	fc := &fakeClient{
		pages: map[int]string{
			0: wrapTable(
				listingRow("บล.บัวหลวง", "15/05/2566", "", "", "", "", "", detailURL),
				listingRow("บล.หยวนต้า", "14/05/2566", "", "", "", "", "", ""),
			),
		},
		detailErr: eris.New("timeout"),
	}
	c := NewCrawler(fc, 34)

	res, err := c.Run(context.Background(),
		time.Date(2023, 5, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2023, 5, 31, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.Len(t, res.Filings, 2)

	for _, f := range res.Filings {
		assert.Equal(t, model.NotFound, f.Underlying)
		assert.Empty(t, f.SETSymbol)
	}
}

func TestCrawler_StopsOnEmptyPage(t *testing.T) {
	t.Parallel()

	fc := &fakeClient{pages: map[int]string{
		0: wrapTable(listingRow("บล.บัวหลวง", "15/05/2566", "", "", "", "", "", "")),
		// page 1 defaults to an empty table
	}}
	c := NewCrawler(fc, 34)

	res, err := c.Run(context.Background(),
		time.Date(2023, 5, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2023, 5, 31, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	assert.Equal(t, []int{0, 1}, fc.requested)
	assert.Len(t, res.Filings, 1)
}

func issuerN(n int) string {
	return fmt.Sprintf("บล.ทดสอบ %d", n)
}

func dateRaw(day, month, beYear int) string {
	return fmt.Sprintf("%02d/%02d/%d", day, month, beYear)
}
