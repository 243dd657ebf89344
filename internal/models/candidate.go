package models

import (
	"errors"
)

// Candidate is the join of a market summary and its odds snapshot after
// passing every qualification predicate. All price fields are in cents.
type Candidate struct {
	Ticker         string  `json:"ticker"`
	TickerBase     string  `json:"ticker_base"` // ticker with the trailing variant suffix stripped, lowercased
	EventTicker    string  `json:"event_ticker"`
	EventSlug      string  `json:"event_slug"`
	EventTitle     string  `json:"event_title"`
	MarketTitle    string  `json:"market_title"`
	MarketSubtitle string  `json:"market_subtitle"` // outcome label; may be empty
	YesBid         int     `json:"yes_bid"`
	YesAsk         int     `json:"yes_ask"`
	Spread         int     `json:"spread"`
	HoursToClose   float64 `json:"hours_to_close"`
	CloseTS        int64   `json:"close_ts"` // epoch seconds, UTC
	EventVolume24h int64   `json:"event_volume_24h"`
	MarketVolume   int64   `json:"market_volume"`
	ROICents       int     `json:"roi_cents"`
	ROIPct         float64 `json:"roi_pct"`
}

// Outcome returns the outcome label used for display and notification
// deduplication, falling back to the ticker when the subtitle is empty.
func (c *Candidate) Outcome() string {
	if c.MarketSubtitle != "" {
		return c.MarketSubtitle
	}
	return c.Ticker
}

// Validate checks the invariants every candidate must satisfy after filtering.
func (c *Candidate) Validate() error {
	if c.Ticker == "" {
		return errors.New("candidate ticker must not be empty")
	}
	if c.EventTicker == "" {
		return errors.New("candidate event ticker must not be empty")
	}
	if c.YesBid <= 0 {
		return errors.New("yes bid must be positive after filtering")
	}
	if c.YesAsk < c.YesBid {
		return errors.New("yes ask must not be below yes bid")
	}
	if c.Spread != c.YesAsk-c.YesBid {
		return errors.New("spread must equal yes ask minus yes bid")
	}
	if c.CloseTS <= 0 {
		return errors.New("close timestamp must be set")
	}
	wantROI := 100 - c.YesBid
	if wantROI < 0 {
		wantROI = 0
	}
	if c.ROICents != wantROI {
		return errors.New("roi cents must equal max(0, 100 - yes bid)")
	}
	if c.EventVolume24h < 0 || c.MarketVolume < 0 {
		return errors.New("volumes must not be negative")
	}
	return nil
}

// RejectionTally counts markets rejected per qualification predicate.
// A market is counted in the first predicate it fails; predicates are
// evaluated in the order existence, price, spread, expiration, volume.
type RejectionTally struct {
	NoOdds     int `json:"no_odds"`
	Price      int `json:"price"`
	Spread     int `json:"spread"`
	Expiration int `json:"expiration"`
	Volume     int `json:"volume"`
}

// Total returns the number of rejected markets across all categories.
func (t RejectionTally) Total() int {
	return t.NoOdds + t.Price + t.Spread + t.Expiration + t.Volume
}
