// Package fetcher retrieves order book snapshots for many tickers with a
// bounded-width concurrent fan-out. Tickers are partitioned into fixed-size
// batches; every call in a batch is issued concurrently and the whole batch
// settles before a fixed pause and the next batch. The pause is a cooperative
// yield for upstream rate limits, not an adaptive backoff.
package fetcher

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/rabelson97/kalshi-telegram-notifier/internal/logger"
	"github.com/rabelson97/kalshi-telegram-notifier/internal/models"
)

// OddsGetter is the gateway operation the fetcher consumes.
type OddsGetter interface {
	GetOdds(ctx context.Context, ticker string) (*models.Odds, error)
}

// BatchFetcher fetches odds in paced batches of bounded concurrency.
type BatchFetcher struct {
	client    OddsGetter
	batchSize int
	pause     time.Duration
}

// New creates a BatchFetcher. A non-positive batchSize defaults to 20 and a
// negative pause to 200ms; a pause of zero is kept and disables the pacing.
func New(client OddsGetter, batchSize int, pause time.Duration) *BatchFetcher {
	if batchSize <= 0 {
		batchSize = 20
	}
	if pause < 0 {
		pause = 200 * time.Millisecond
	}
	return &BatchFetcher{
		client:    client,
		batchSize: batchSize,
		pause:     pause,
	}
}

// CollectTickers returns every distinct market ticker across the normalized
// event mapping. Events are walked in sorted ticker order so the fetch order,
// and therefore the logs, are reproducible across runs.
func CollectTickers(eventMarkets map[string]models.EventMarkets) []string {
	eventTickers := make([]string, 0, len(eventMarkets))
	for ticker := range eventMarkets {
		eventTickers = append(eventTickers, ticker)
	}
	sort.Strings(eventTickers)

	seen := make(map[string]bool)
	var tickers []string
	for _, eventTicker := range eventTickers {
		for _, market := range eventMarkets[eventTicker].Markets {
			if market.Ticker == "" || seen[market.Ticker] {
				continue
			}
			seen[market.Ticker] = true
			tickers = append(tickers, market.Ticker)
		}
	}
	return tickers
}

// FetchAll retrieves odds for all tickers. Only tickers with a successful,
// non-empty response appear in the returned map; per-ticker failures are
// logged and dropped, never aborting the batch or the run.
func (f *BatchFetcher) FetchAll(ctx context.Context, tickers []string) map[string]models.Odds {
	odds := make(map[string]models.Odds, len(tickers))

	for start := 0; start < len(tickers); start += f.batchSize {
		end := start + f.batchSize
		if end > len(tickers) {
			end = len(tickers)
		}
		batch := tickers[start:end]

		// Results are matched back by index, not completion order.
		results := make([]*models.Odds, len(batch))
		errs := make([]error, len(batch))

		var wg sync.WaitGroup
		for i, ticker := range batch {
			wg.Add(1)
			go func(i int, ticker string) {
				defer wg.Done()
				results[i], errs[i] = f.client.GetOdds(ctx, ticker)
			}(i, ticker)
		}
		wg.Wait()

		for i, ticker := range batch {
			if errs[i] != nil {
				logger.Warn("Failed to load odds for %s: %v", ticker, errs[i])
				continue
			}
			if results[i] == nil {
				logger.Warn("No odds returned for %s", ticker)
				continue
			}
			odds[ticker] = *results[i]
		}

		logger.Debug("Odds batch %d-%d settled: %d/%d loaded so far",
			start, end-1, len(odds), end)

		if end < len(tickers) && f.pause > 0 {
			time.Sleep(f.pause)
		}
	}

	return odds
}
