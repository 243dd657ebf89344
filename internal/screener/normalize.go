// Package screener turns raw event payloads into qualified, ranked
// candidates: it normalizes events into capped market lists, applies the
// ordered qualification predicates with a rejection tally, and ranks the
// survivors by expected return.
package screener

import (
	"sort"

	"github.com/rabelson97/kalshi-telegram-notifier/internal/models"
)

// Normalize flattens raw events into a mapping from event ticker to the
// event with at most maxMarketsPerEvent market summaries. Events without a
// ticker or without any markets are dropped silently; that is expected
// input, not an error.
func Normalize(events []models.Event, maxMarketsPerEvent int) map[string]models.EventMarkets {
	eventMarkets := make(map[string]models.EventMarkets, len(events))

	for _, event := range events {
		if event.Ticker == "" {
			continue
		}

		markets := event.Markets
		if len(markets) > maxMarketsPerEvent {
			markets = markets[:maxMarketsPerEvent]
		}
		if len(markets) == 0 {
			continue
		}

		summaries := make([]models.MarketSummary, len(markets))
		copy(summaries, markets)

		eventMarkets[event.Ticker] = models.EventMarkets{
			Event:   event,
			Markets: summaries,
		}
	}

	return eventMarkets
}

// TopEventsByVolume keeps the n events with the highest 24h volume when the
// mapping holds more than n. Ties are broken by event ticker ascending so
// the cut is deterministic.
func TopEventsByVolume(eventMarkets map[string]models.EventMarkets, n int) map[string]models.EventMarkets {
	if len(eventMarkets) <= n {
		return eventMarkets
	}

	tickers := make([]string, 0, len(eventMarkets))
	for ticker := range eventMarkets {
		tickers = append(tickers, ticker)
	}
	sort.Slice(tickers, func(i, j int) bool {
		vi := eventMarkets[tickers[i]].Event.Volume24h
		vj := eventMarkets[tickers[j]].Event.Volume24h
		if vi != vj {
			return vi > vj
		}
		return tickers[i] < tickers[j]
	})

	top := make(map[string]models.EventMarkets, n)
	for _, ticker := range tickers[:n] {
		top[ticker] = eventMarkets[ticker]
	}
	return top
}

// CountMarkets returns the number of markets with a usable ticker across
// the mapping; this is the denominator reported in the filter summary.
func CountMarkets(eventMarkets map[string]models.EventMarkets) int {
	total := 0
	for _, data := range eventMarkets {
		for _, market := range data.Markets {
			if market.Ticker != "" {
				total++
			}
		}
	}
	return total
}
