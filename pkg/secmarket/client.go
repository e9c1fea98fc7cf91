// Package secmarket provides a client for the SEC Thailand public filing
// pages (market.sec.or.th). The site has no API; both endpoints serve
// HTML, and the per-filing detail pages still use the legacy TIS-620
// single-byte Thai encoding.
package secmarket

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rotisserie/eris"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/time/rate"
)

// Client defines the SEC filing page operations.
type Client interface {
	// ListingPage fetches one page of the paginated DR filing list and
	// returns its HTML (UTF-8).
	ListingPage(ctx context.Context, page int) (string, error)
	// DetailPage fetches a filing detail page and returns its HTML
	// decoded from TIS-620 to UTF-8.
	DetailPage(ctx context.Context, url string) (string, error)
}

const (
	defaultBaseURL = "https://market.sec.or.th"
	listingPath    = "/public/idisc/th/ViewMore/filing-equity?SecuTypeCode=DS&FilingData=%d"

	listingTimeout = 15 * time.Second
	detailTimeout  = 10 * time.Second

	// One request every 800ms against the SEC site. The crawl is
	// sequential, so this is simply a fixed inter-request gap.
	defaultInterval = 800 * time.Millisecond

	userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/145.0.0.0 Safari/537.36"
)

// Option configures the secmarket client.
type Option func(*httpClient)

// WithBaseURL sets a custom base URL (for testing).
func WithBaseURL(url string) Option {
	return func(c *httpClient) {
		c.baseURL = url
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) {
		c.http = hc
	}
}

// WithRequestInterval sets the minimum gap between consecutive requests.
func WithRequestInterval(d time.Duration) Option {
	return func(c *httpClient) {
		c.limiter = rate.NewLimiter(rate.Every(d), 1)
	}
}

type httpClient struct {
	baseURL string
	http    *http.Client
	limiter *rate.Limiter
}

// NewClient creates a new SEC filing page client.
func NewClient(opts ...Option) Client {
	c := &httpClient{
		baseURL: defaultBaseURL,
		http: &http.Client{
			Transport: &http.Transport{
				MaxIdleConnsPerHost: 4,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		limiter: rate.NewLimiter(rate.Every(defaultInterval), 1),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *httpClient) ListingPage(ctx context.Context, page int) (string, error) {
	url := c.baseURL + fmt.Sprintf(listingPath, page)

	body, err := c.get(ctx, url, listingTimeout)
	if err != nil {
		return "", eris.Wrapf(err, "secmarket: listing page %d", page)
	}
	return string(body), nil
}

func (c *httpClient) DetailPage(ctx context.Context, url string) (string, error) {
	body, err := c.get(ctx, url, detailTimeout)
	if err != nil {
		return "", eris.Wrap(err, "secmarket: detail page")
	}

	decoded, err := charmap.Windows874.NewDecoder().Bytes(body)
	if err != nil {
		return "", eris.Wrap(err, "secmarket: decode TIS-620")
	}
	return string(decoded), nil
}

// get performs one polite GET: waits for the request interval, applies
// the per-request timeout, and reads the full body.
func (c *httpClient) get(ctx context.Context, url string, timeout time.Duration) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, eris.Wrap(err, "request interval wait")
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, eris.Wrap(err, "create request")
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "th-TH,th;q=0.9,en;q=0.8")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, eris.Errorf("unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, eris.Wrap(err, "read response body")
	}
	return body, nil
}
