// Package models defines the core domain entities: events, market summaries,
// odds snapshots, qualified candidates, and the rejection tally.
//
// Terminology (matching Kalshi's own naming):
//   - Event: a grouping of related markets sharing a common question,
//     identified by an event ticker, with an aggregate 24h trading volume.
//   - Market: a single tradeable yes/no contract within an event,
//     identified by a ticker.
package models

import (
	"errors"
)

// Event represents a Kalshi event with its nested markets as fetched from the
// API. Immutable once fetched; its lifecycle is a single run.
type Event struct {
	Ticker    string          `json:"event_ticker"`
	Title     string          `json:"title"`
	Volume24h int64           `json:"volume_24h"`
	Markets   []MarketSummary `json:"markets"`
}

// MarketSummary holds the per-market fields the qualification filter needs.
// CloseTime is kept as the raw API string; parsing happens at filter time so
// a malformed timestamp rejects one market instead of failing the fetch.
type MarketSummary struct {
	Ticker    string `json:"ticker"`
	Title     string `json:"title"`
	Subtitle  string `json:"subtitle"`
	Volume    int64  `json:"volume"`
	Volume24h int64  `json:"volume_24h"`
	CloseTime string `json:"close_time"`
}

// EventMarkets pairs an event with its capped list of market summaries,
// produced by the normalizer.
type EventMarkets struct {
	Event   Event           `json:"event"`
	Markets []MarketSummary `json:"markets"`
}

// Validate checks event field constraints.
func (e *Event) Validate() error {
	if e.Ticker == "" {
		return errors.New("event ticker must not be empty")
	}
	if e.Volume24h < 0 {
		return errors.New("event 24h volume must not be negative")
	}
	return nil
}
