// Package notifier dispatches qualified candidates to the notification
// channel. It deduplicates by (event ticker, outcome), formats each alert,
// and stops after a configured number of successful sends. Delivery
// failures are logged and skipped; they do not consume a notification slot.
package notifier

import (
	"github.com/rabelson97/kalshi-telegram-notifier/internal/logger"
	"github.com/rabelson97/kalshi-telegram-notifier/internal/models"
)

// Sender is the channel operation the notifier consumes.
type Sender interface {
	SendHTML(text string) error
}

// Notifier sends ranked candidates to a notification channel.
type Notifier struct {
	sender    Sender
	maxPerRun int
}

// New creates a Notifier that stops after maxPerRun successful sends.
func New(sender Sender, maxPerRun int) *Notifier {
	return &Notifier{
		sender:    sender,
		maxPerRun: maxPerRun,
	}
}

// dedupKey identifies a notification within a run. The outcome label falls
// back to the ticker, so two outcome-less markets of one event still get
// distinct keys.
type dedupKey struct {
	eventTicker string
	outcome     string
}

// Notify walks ranked candidates in order and sends one message per unique
// (event, outcome) pair. Only successful sends count toward the cap; a
// failed delivery is logged and the loop moves on without consuming a slot.
// A candidate whose key was already attempted is skipped even when that
// attempt failed. Returns the number of messages actually delivered.
func (n *Notifier) Notify(candidates []models.Candidate) int {
	if len(candidates) == 0 || n.maxPerRun <= 0 {
		return 0
	}

	seen := make(map[dedupKey]bool)
	sent := 0

	for i := range candidates {
		candidate := &candidates[i]
		key := dedupKey{
			eventTicker: candidate.EventTicker,
			outcome:     candidate.Outcome(),
		}
		if seen[key] {
			continue
		}
		seen[key] = true

		message := FormatMessage(candidate)
		if err := n.sender.SendHTML(message); err != nil {
			logger.Error("Telegram send failed for %s: %v", candidate.Ticker, err)
			continue
		}

		logger.Info("Telegram alert sent for %s", candidate.Ticker)
		sent++
		if sent >= n.maxPerRun {
			break
		}
	}

	return sent
}
