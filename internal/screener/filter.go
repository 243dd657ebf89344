package screener

import (
	"sort"
	"time"

	"github.com/rabelson97/kalshi-telegram-notifier/internal/models"
)

// Config holds the qualification thresholds.
type Config struct {
	MinYesPriceCents int
	MinSpreadCents   int
	MaxYesAskCents   int
	MinVolume24h     int64
}

// Screener applies the qualification predicates to normalized markets.
type Screener struct {
	config Config
}

// New creates a Screener with the given thresholds.
func New(config Config) *Screener {
	return &Screener{config: config}
}

// Filter evaluates every (event, market) pair against the ordered
// predicates: odds existence, price, spread, expiration, volume. A market
// is tallied under the first predicate it fails. Survivors are emitted as
// candidates with ROI and hours-to-close computed from the frozen now.
//
// Events are walked in sorted ticker order so output order is reproducible;
// the ranker re-sorts anyway.
func (s *Screener) Filter(
	eventMarkets map[string]models.EventMarkets,
	odds map[string]models.Odds,
	now time.Time,
	maxCloseTS int64,
) ([]models.Candidate, models.RejectionTally) {
	var candidates []models.Candidate
	var tally models.RejectionTally
	nowTS := now.Unix()

	eventTickers := make([]string, 0, len(eventMarkets))
	for ticker := range eventMarkets {
		eventTickers = append(eventTickers, ticker)
	}
	sort.Strings(eventTickers)

	for _, eventTicker := range eventTickers {
		data := eventMarkets[eventTicker]
		eventVolume := data.Event.Volume24h
		eventSlug := EventSlug(eventTicker)

		for _, market := range data.Markets {
			if market.Ticker == "" {
				continue
			}

			marketOdds, ok := odds[market.Ticker]
			if !ok || !marketOdds.HasPrices() {
				tally.NoOdds++
				continue
			}

			yesBid := *marketOdds.YesBid
			yesAsk := *marketOdds.YesAsk
			if yesBid < s.config.MinYesPriceCents {
				tally.Price++
				continue
			}
			if s.config.MaxYesAskCents > 0 && yesAsk > s.config.MaxYesAskCents {
				tally.Price++
				continue
			}

			spread := yesAsk - yesBid
			if spread < s.config.MinSpreadCents {
				tally.Spread++
				continue
			}

			closeTime := marketOdds.CloseTime
			if closeTime == "" {
				closeTime = market.CloseTime
			}
			closeTS, ok := ParseCloseTime(closeTime)
			if !ok || closeTS <= nowTS {
				tally.Expiration++
				continue
			}
			if maxCloseTS > 0 && closeTS > maxCloseTS {
				tally.Expiration++
				continue
			}

			marketVolume := maxInt64(market.Volume24h, market.Volume, marketOdds.Volume)
			if maxInt64(eventVolume, marketVolume) < s.config.MinVolume24h {
				tally.Volume++
				continue
			}

			roiCents := 100 - yesBid
			if roiCents < 0 {
				roiCents = 0
			}
			// yesBid >= the price floor > 0 by this point, so the division is safe.
			roiPct := float64(roiCents) / float64(yesBid) * 100

			candidates = append(candidates, models.Candidate{
				Ticker:         market.Ticker,
				TickerBase:     TickerBase(market.Ticker),
				EventTicker:    eventTicker,
				EventSlug:      eventSlug,
				EventTitle:     data.Event.Title,
				MarketTitle:    market.Title,
				MarketSubtitle: market.Subtitle,
				YesBid:         yesBid,
				YesAsk:         yesAsk,
				Spread:         spread,
				HoursToClose:   float64(closeTS-nowTS) / 3600,
				CloseTS:        closeTS,
				EventVolume24h: eventVolume,
				MarketVolume:   marketVolume,
				ROICents:       roiCents,
				ROIPct:         roiPct,
			})
		}
	}

	return candidates, tally
}

func maxInt64(values ...int64) int64 {
	max := values[0]
	for _, v := range values[1:] {
		if v > max {
			max = v
		}
	}
	return max
}
