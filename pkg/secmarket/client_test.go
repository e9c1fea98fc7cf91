package secmarket

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"
)

func TestListingPage(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/public/idisc/th/ViewMore/filing-equity", r.URL.Path)
		assert.Equal(t, "DS", r.URL.Query().Get("SecuTypeCode"))
		assert.Equal(t, "3", r.URL.Query().Get("FilingData"))
		assert.Contains(t, r.Header.Get("User-Agent"), "Mozilla/5.0")
		assert.Contains(t, r.Header.Get("Accept-Language"), "th-TH")

		w.Write([]byte("<html><table></table></html>"))
	}))
	defer srv.Close()

	c := NewClient(WithBaseURL(srv.URL), WithRequestInterval(time.Millisecond))
	html, err := c.ListingPage(context.Background(), 3)

	require.NoError(t, err)
	assert.Equal(t, "<html><table></table></html>", html)
}

func TestListingPage_ServerError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := NewClient(WithBaseURL(srv.URL), WithRequestInterval(time.Millisecond))
	_, err := c.ListingPage(context.Background(), 0)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
}

func TestDetailPage_DecodesTIS620(t *testing.T) {
	t.Parallel()

	const thai = "ผู้เสนอขายหลักทรัพย์ (NVIDIA Corporation)"
	encoded, err := charmap.Windows874.NewEncoder().Bytes([]byte(thai))
	require.NoError(t, err)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=TIS-620")
		w.Write(encoded)
	}))
	defer srv.Close()

	c := NewClient(WithRequestInterval(time.Millisecond))
	html, err := c.DetailPage(context.Background(), srv.URL+"/detail")

	require.NoError(t, err)
	assert.Equal(t, thai, html)
}

func TestRequestInterval_SpacesRequests(t *testing.T) {
	t.Parallel()

	var stamps []time.Time
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		stamps = append(stamps, time.Now())
		w.Write([]byte("ok"))
	}))
	defer srv.Close()

	const gap = 50 * time.Millisecond
	c := NewClient(WithBaseURL(srv.URL), WithRequestInterval(gap))

	ctx := context.Background()
	_, err := c.ListingPage(ctx, 0)
	require.NoError(t, err)
	_, err = c.ListingPage(ctx, 1)
	require.NoError(t, err)

	require.Len(t, stamps, 2)
	assert.GreaterOrEqual(t, stamps[1].Sub(stamps[0]), gap/2, "second request should wait for the interval")
}

func TestGet_ContextCancelled(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	c := NewClient(WithBaseURL(srv.URL), WithRequestInterval(time.Millisecond))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.ListingPage(ctx, 0)
	require.Error(t, err)
}
