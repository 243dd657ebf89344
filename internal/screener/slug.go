package screener

import (
	"regexp"
	"strings"
)

// eventDateSuffix matches the trailing date segment of an event ticker
// (e.g. "-24jan05" in "kxhighny-24jan05") after lowercasing.
var eventDateSuffix = regexp.MustCompile(`-(\d{2}[a-z]{3}\d{2})$`)

// slugChars collapses every run of non-alphanumerics into a single dash.
var slugChars = regexp.MustCompile(`[^a-z0-9]+`)

// EventSlug derives the public site slug from an event ticker: lowercase,
// with a trailing date suffix stripped. Empty input yields "market".
func EventSlug(eventTicker string) string {
	if eventTicker == "" {
		return "market"
	}
	slug := strings.ToLower(eventTicker)
	if loc := eventDateSuffix.FindStringIndex(slug); loc != nil {
		slug = slug[:loc[0]]
	}
	return slug
}

// Slugify lowercases value and reduces it to dash-separated alphanumerics,
// falling back to "market" when nothing survives.
func Slugify(value string) string {
	slug := slugChars.ReplaceAllString(strings.ToLower(value), "-")
	slug = strings.Trim(slug, "-")
	if slug == "" {
		return "market"
	}
	return slug
}

// TickerBase strips the trailing variant segment from a market ticker and
// lowercases it; this is the final path element of the canonical market URL.
func TickerBase(ticker string) string {
	base := ticker
	if i := strings.LastIndex(ticker, "-"); i > 0 {
		base = ticker[:i]
	}
	return strings.ToLower(base)
}

// MarketURL builds the canonical public URL for a market from the
// precomputed event slug and ticker base carried on a candidate. The outcome
// label is slugified here; callers pass the ticker in its place when no
// label exists.
func MarketURL(eventSlug, outcome, tickerBase string) string {
	return "https://kalshi.com/markets/" + eventSlug + "/" + Slugify(outcome) + "/" + tickerBase
}
