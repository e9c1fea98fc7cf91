// Package normalize converts raw scraped strings into normalized dates
// and exchange symbols. Everything here is pure and culture-invariant.
package normalize

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/nuttaphathuayudomsin-web/filingfetching/internal/model"
)

// buddhistEraCutoff separates Buddhist-era years from Gregorian ones.
// The source site mixes both; any year above the cutoff is B.E.
const (
	buddhistEraCutoff = 2400
	buddhistEraOffset = 543
)

// ParseThaiDate parses a DD/MM/YYYY date as published by the SEC site.
// Years in the Buddhist era (> 2400) are converted to Gregorian.
// Empty strings, the not-found sentinel, and malformed input all return
// ok=false; parsing never panics or returns an error.
func ParseThaiDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" || s == model.NotFound {
		return time.Time{}, false
	}

	parts := strings.Split(s, "/")
	if len(parts) != 3 {
		return time.Time{}, false
	}

	day, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return time.Time{}, false
	}
	month, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return time.Time{}, false
	}
	year, err := strconv.Atoi(strings.TrimSpace(parts[2]))
	if err != nil {
		return time.Time{}, false
	}
	if year > buddhistEraCutoff {
		year -= buddhistEraOffset
	}

	if month < 1 || month > 12 || day < 1 || day > 31 {
		return time.Time{}, false
	}
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	// time.Date normalizes overflow (31/02 becomes 03/03); reject that.
	if t.Day() != day || t.Month() != time.Month(month) {
		return time.Time{}, false
	}
	return t, true
}

// FormatDate renders a normalized date back in the site's DD/MM/YYYY
// layout, Gregorian era.
func FormatDate(t time.Time) string {
	return fmt.Sprintf("%02d/%02d/%04d", t.Day(), int(t.Month()), t.Year())
}
