// Package pipeline sequences the single-pass run: fetch events, normalize
// markets, fetch odds, filter, rank, notify. Each stage runs once with no
// retries; an empty stage output ends the run in the Aborted state, which is
// a successful, reported outcome rather than a failure. Only gateway
// authentication or connectivity failures surface as errors.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/rabelson97/kalshi-telegram-notifier/internal/fetcher"
	"github.com/rabelson97/kalshi-telegram-notifier/internal/logger"
	"github.com/rabelson97/kalshi-telegram-notifier/internal/models"
	"github.com/rabelson97/kalshi-telegram-notifier/internal/report"
	"github.com/rabelson97/kalshi-telegram-notifier/internal/screener"
)

// State names the stages of a run. Transitions are strictly forward;
// Aborted is terminal and reachable from any stage whose input is empty.
type State string

const (
	StateInit              State = "init"
	StateEventsFetched     State = "events_fetched"
	StateMarketsNormalized State = "markets_normalized"
	StateOddsFetched       State = "odds_fetched"
	StateFiltered          State = "filtered"
	StateNotified          State = "notified"
	StateDone              State = "done"
	StateAborted           State = "aborted"
)

// EventLister is the gateway operation the pipeline consumes directly.
type EventLister interface {
	ListEvents(ctx context.Context, limit int) ([]models.Event, error)
}

// OddsFetcher is the batch odds acquisition stage.
type OddsFetcher interface {
	FetchAll(ctx context.Context, tickers []string) map[string]models.Odds
}

// Notifier dispatches ranked candidates; a nil Notifier skips the stage.
type Notifier interface {
	Notify(candidates []models.Candidate) int
}

// Config holds the run parameters.
type Config struct {
	MaxEventsToAnalyze int
	MaxMarketsPerEvent int
	MaxHoursToClose    float64
	// MaxCloseTS, when positive, overrides the close-time window derived
	// from MaxHoursToClose for this run only.
	MaxCloseTS int64
}

// Result describes a completed run.
type Result struct {
	RunID      string
	State      State
	Reason     string // human-readable explanation for Aborted runs
	Candidates []models.Candidate
	Tally      models.RejectionTally
	Considered int // markets with a usable ticker that entered the filter
	Sent       int
}

// Pipeline wires the stages of a single run together.
type Pipeline struct {
	gateway  EventLister
	fetcher  OddsFetcher
	screener *screener.Screener
	notifier Notifier
	config   Config
	out      io.Writer
	now      func() time.Time
}

// New creates a Pipeline. notifier may be nil when the notification channel
// is not configured; out receives the console table.
func New(
	gateway EventLister,
	oddsFetcher OddsFetcher,
	scr *screener.Screener,
	notifier Notifier,
	config Config,
	out io.Writer,
) *Pipeline {
	return &Pipeline{
		gateway:  gateway,
		fetcher:  oddsFetcher,
		screener: scr,
		notifier: notifier,
		config:   config,
		out:      out,
		now:      time.Now,
	}
}

// overFetchFactor is how many times more events than max_events_to_analyze
// are requested, leaving room for the volume re-rank after normalization.
const overFetchFactor = 3

// Run executes the pipeline once. An error return means a gateway-level
// failure; every other anomaly degrades to fewer results or an Aborted
// state, and the process is expected to exit 0 either way.
func (p *Pipeline) Run(ctx context.Context) (Result, error) {
	result := Result{RunID: uuid.New().String(), State: StateInit}
	logger.Info("Run %s: fetching top events", result.RunID)

	events, err := p.gateway.ListEvents(ctx, p.config.MaxEventsToAnalyze*overFetchFactor)
	if err != nil {
		return result, fmt.Errorf("failed to fetch events: %w", err)
	}
	if len(events) == 0 {
		return p.abort(result, "no events returned"), nil
	}
	result.State = StateEventsFetched
	logger.Info("Run %s: retrieved %d events", result.RunID, len(events))

	eventMarkets := screener.Normalize(events, p.config.MaxMarketsPerEvent)
	if len(eventMarkets) == 0 {
		return p.abort(result, "no markets to process"), nil
	}
	eventMarkets = screener.TopEventsByVolume(eventMarkets, p.config.MaxEventsToAnalyze)
	result.State = StateMarketsNormalized
	result.Considered = screener.CountMarkets(eventMarkets)
	logger.Info("Run %s: prepared %d markets across %d events",
		result.RunID, result.Considered, len(eventMarkets))

	tickers := fetcher.CollectTickers(eventMarkets)
	odds := p.fetcher.FetchAll(ctx, tickers)
	if len(odds) == 0 {
		return p.abort(result, "unable to load market odds"), nil
	}
	result.State = StateOddsFetched
	logger.Info("Run %s: loaded odds for %d/%d markets", result.RunID, len(odds), len(tickers))

	now := p.now()
	maxCloseTS := p.config.MaxCloseTS
	if maxCloseTS <= 0 {
		maxCloseTS = now.Unix() + int64(p.config.MaxHoursToClose*3600)
	}

	candidates, tally := p.screener.Filter(eventMarkets, odds, now, maxCloseTS)
	result.State = StateFiltered
	result.Candidates = candidates
	result.Tally = tally
	logger.Info("Run %s: %s", result.RunID, report.Summary(len(candidates), result.Considered, tally))

	screener.Rank(result.Candidates)
	if p.out != nil {
		report.RenderTable(p.out, result.Candidates)
	}

	if len(result.Candidates) == 0 {
		return p.abort(result, "no qualifying markets this run"), nil
	}

	if p.notifier != nil {
		result.Sent = p.notifier.Notify(result.Candidates)
		result.State = StateNotified
		logger.Info("Run %s: sent %d notification(s)", result.RunID, result.Sent)
	} else {
		logger.Debug("Run %s: notification channel not configured, skipping", result.RunID)
	}

	result.State = StateDone
	return result, nil
}

// abort marks the run Aborted with an informational reason. Aborted runs
// are successful exits; absence of results is an expected outcome.
func (p *Pipeline) abort(result Result, reason string) Result {
	result.State = StateAborted
	result.Reason = reason
	logger.Info("Run %s aborted: %s", result.RunID, reason)
	return result
}
