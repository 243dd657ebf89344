// Package report renders run results for the console: a fixed-column table
// of qualifying markets and the one-line filter summary.
package report

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/rabelson97/kalshi-telegram-notifier/internal/models"
	"github.com/rabelson97/kalshi-telegram-notifier/internal/notifier"
)

// RenderTable writes the qualifying candidates as an aligned table. With no
// candidates it prints a single informational line instead.
func RenderTable(w io.Writer, candidates []models.Candidate) {
	if len(candidates) == 0 {
		fmt.Fprintln(w, "No markets met the high-probability criteria.")
		return
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "TICKER\tEVENT\tMARKET\tOUTCOME\tYES BID\tYES ASK\tSPREAD\tROI\tCLOSES IN\t24H VOLUME")

	for i := range candidates {
		c := &candidates[i]
		outcome := c.MarketSubtitle
		if outcome == "" {
			outcome = "—"
		}
		volume := c.EventVolume24h
		if c.MarketVolume > volume {
			volume = c.MarketVolume
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d¢\t%d¢\t%d¢\t%d¢ (%.1f%%)\t%s\t%s\n",
			c.Ticker,
			truncate(c.EventTitle, 35),
			truncate(c.MarketTitle, 40),
			truncate(outcome, 30),
			c.YesBid,
			c.YesAsk,
			c.Spread,
			c.ROICents,
			c.ROIPct,
			notifier.FormatHours(c.HoursToClose),
			humanize.Comma(volume),
		)
	}

	tw.Flush()
}

// Summary builds the filter summary line reported after the filter stage.
func Summary(kept, considered int, tally models.RejectionTally) string {
	return fmt.Sprintf(
		"Filter summary: kept %d/%d markets (price rejects: %d, spread: %d, expiration: %d, volume: %d, odds: %d)",
		kept, considered, tally.Price, tally.Spread, tally.Expiration, tally.Volume, tally.NoOdds,
	)
}

// truncate shortens s to max runes, appending an ellipsis when it cuts.
func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "…"
}
