package notifier

import (
	"fmt"
	"html"
	"math"

	"github.com/dustin/go-humanize"
	"github.com/rabelson97/kalshi-telegram-notifier/internal/models"
	"github.com/rabelson97/kalshi-telegram-notifier/internal/screener"
)

// FormatMessage builds the HTML alert for a candidate: the event title as a
// hyperlink to the canonical market page, the outcome label, then prices,
// expected return, time to close, and 24h volume.
func FormatMessage(c *models.Candidate) string {
	outcome := c.MarketSubtitle
	if outcome == "" {
		outcome = c.MarketTitle
	}
	outcomeLabel := outcome
	if outcomeLabel == "" {
		outcomeLabel = c.Ticker
	}
	marketURL := screener.MarketURL(c.EventSlug, outcomeLabel, c.TickerBase)
	titleLink := fmt.Sprintf(`<a href="%s">%s</a>`, marketURL, html.EscapeString(c.EventTitle))

	volume := c.EventVolume24h
	if c.MarketVolume > volume {
		volume = c.MarketVolume
	}

	return fmt.Sprintf(
		"🎯 %s\n%s\n\n"+
			"Ticker: <code>%s</code>\n"+
			"Yes bid/ask: %d¢ / %d¢ (spread %d¢)\n"+
			"Expected return: %d¢ (%.1f%%)\n"+
			"Closes in: %s\n"+
			"24h volume: %s",
		titleLink,
		html.EscapeString(outcome),
		c.Ticker,
		c.YesBid,
		c.YesAsk,
		c.Spread,
		c.ROICents,
		c.ROIPct,
		FormatHours(c.HoursToClose),
		humanize.Comma(volume),
	)
}

// FormatHours renders a time-to-close in a compact human form: "unknown"
// for NaN, "closed" at or below zero, days at 24h and beyond, hours below.
func FormatHours(hours float64) string {
	switch {
	case math.IsNaN(hours):
		return "unknown"
	case hours <= 0:
		return "closed"
	case hours >= 24:
		return fmt.Sprintf("%.1fd", hours/24)
	default:
		return fmt.Sprintf("%.1fh", hours)
	}
}
