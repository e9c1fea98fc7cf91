package main

import (
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/nuttaphathuayudomsin-web/filingfetching/internal/normalize"
)

// presets maps --last values to a window ending today.
var presets = map[string]func(now time.Time) time.Time{
	"7d":  func(now time.Time) time.Time { return now.AddDate(0, 0, -7) },
	"30d": func(now time.Time) time.Time { return now.AddDate(0, 0, -30) },
	"90d": func(now time.Time) time.Time { return now.AddDate(0, 0, -90) },
	"ytd": func(now time.Time) time.Time {
		return time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
	},
}

// addRangeFlags registers the date-range flags shared by all crawl
// commands: either --last with a preset, or explicit --from/--to in the
// site's DD/MM/YYYY layout (Buddhist or Gregorian year).
func addRangeFlags(cmd *cobra.Command) {
	cmd.Flags().String("last", "", "preset window: 7d, 30d, 90d, or ytd")
	cmd.Flags().String("from", "", "start date, DD/MM/YYYY (inclusive)")
	cmd.Flags().String("to", "", "end date, DD/MM/YYYY (inclusive, default today)")
}

// parseRange resolves the flags into an inclusive [from, to] window.
func parseRange(cmd *cobra.Command) (time.Time, time.Time, error) {
	now := time.Now().UTC().Truncate(24 * time.Hour)

	last, _ := cmd.Flags().GetString("last")
	fromStr, _ := cmd.Flags().GetString("from")
	toStr, _ := cmd.Flags().GetString("to")

	if last != "" {
		if fromStr != "" || toStr != "" {
			return time.Time{}, time.Time{}, eris.New("use either --last or --from/--to, not both")
		}
		preset, ok := presets[last]
		if !ok {
			return time.Time{}, time.Time{}, eris.Errorf("unknown preset %q (want 7d, 30d, 90d, or ytd)", last)
		}
		return preset(now), now, nil
	}

	if fromStr == "" {
		return time.Time{}, time.Time{}, eris.New("a date range is required: --last or --from")
	}
	from, ok := normalize.ParseThaiDate(fromStr)
	if !ok {
		return time.Time{}, time.Time{}, eris.Errorf("invalid --from date %q", fromStr)
	}

	to := now
	if toStr != "" {
		if to, ok = normalize.ParseThaiDate(toStr); !ok {
			return time.Time{}, time.Time{}, eris.Errorf("invalid --to date %q", toStr)
		}
	}

	if from.After(to) {
		return time.Time{}, time.Time{}, eris.Errorf("--from %s is after --to %s",
			normalize.FormatDate(from), normalize.FormatDate(to))
	}
	return from, to, nil
}
