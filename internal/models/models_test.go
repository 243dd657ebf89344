package models

import (
	"testing"
)

func intPtr(v int) *int { return &v }

func validCandidate() Candidate {
	return Candidate{
		Ticker:         "HIGHNY-24JAN05-T55",
		TickerBase:     "highny-24jan05",
		EventTicker:    "HIGHNY-24JAN05",
		EventSlug:      "highny",
		EventTitle:     "Highest temperature in NYC",
		MarketTitle:    "Will the high be above 55?",
		MarketSubtitle: "Above 55°",
		YesBid:         95,
		YesAsk:         97,
		Spread:         2,
		HoursToClose:   4.5,
		CloseTS:        1704500000,
		EventVolume24h: 12000,
		MarketVolume:   4000,
		ROICents:       5,
		ROIPct:         5.263157894736842,
	}
}

func TestCandidateValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Candidate)
		wantErr bool
	}{
		{"valid", func(c *Candidate) {}, false},
		{"empty ticker", func(c *Candidate) { c.Ticker = "" }, true},
		{"empty event ticker", func(c *Candidate) { c.EventTicker = "" }, true},
		{"zero yes bid", func(c *Candidate) { c.YesBid = 0 }, true},
		{"ask below bid", func(c *Candidate) { c.YesAsk = 90 }, true},
		{"spread mismatch", func(c *Candidate) { c.Spread = 7 }, true},
		{"missing close ts", func(c *Candidate) { c.CloseTS = 0 }, true},
		{"roi mismatch", func(c *Candidate) { c.ROICents = 10 }, true},
		{"negative market volume", func(c *Candidate) { c.MarketVolume = -1 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := validCandidate()
			tt.mutate(&c)
			err := c.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestCandidateROIAtPriceCap(t *testing.T) {
	c := validCandidate()
	c.YesBid = 100
	c.YesAsk = 100
	c.Spread = 0
	c.ROICents = 0
	c.ROIPct = 0
	if err := c.Validate(); err != nil {
		t.Errorf("Expected zero ROI to validate at 100¢ bid: %v", err)
	}
}

func TestCandidateOutcome(t *testing.T) {
	c := validCandidate()
	if got := c.Outcome(); got != "Above 55°" {
		t.Errorf("Outcome() = %q, want subtitle", got)
	}
	c.MarketSubtitle = ""
	if got := c.Outcome(); got != c.Ticker {
		t.Errorf("Outcome() = %q, want ticker fallback", got)
	}
}

func TestOddsHasPrices(t *testing.T) {
	tests := []struct {
		name string
		odds Odds
		want bool
	}{
		{"both prices", Odds{YesBid: intPtr(95), YesAsk: intPtr(97)}, true},
		{"missing bid", Odds{YesAsk: intPtr(97)}, false},
		{"missing ask", Odds{YesBid: intPtr(95)}, false},
		{"empty", Odds{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.odds.HasPrices(); got != tt.want {
				t.Errorf("HasPrices() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestOddsValidate(t *testing.T) {
	good := Odds{YesBid: intPtr(95), YesAsk: intPtr(97), Volume: 100}
	if err := good.Validate(); err != nil {
		t.Errorf("Unexpected error: %v", err)
	}
	bad := Odds{YesBid: intPtr(101)}
	if err := bad.Validate(); err == nil {
		t.Error("Expected error for out-of-range bid")
	}
	negative := Odds{Volume: -5}
	if err := negative.Validate(); err == nil {
		t.Error("Expected error for negative volume")
	}
}

func TestEventValidate(t *testing.T) {
	good := Event{Ticker: "HIGHNY-24JAN05", Volume24h: 100}
	if err := good.Validate(); err != nil {
		t.Errorf("Unexpected error: %v", err)
	}
	if err := (&Event{}).Validate(); err == nil {
		t.Error("Expected error for empty ticker")
	}
}

func TestRejectionTallyTotal(t *testing.T) {
	tally := RejectionTally{NoOdds: 1, Price: 2, Spread: 3, Expiration: 4, Volume: 5}
	if got := tally.Total(); got != 15 {
		t.Errorf("Total() = %d, want 15", got)
	}
	if got := (RejectionTally{}).Total(); got != 0 {
		t.Errorf("Total() = %d, want 0", got)
	}
}
