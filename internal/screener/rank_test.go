package screener

import (
	"math"
	"testing"

	"github.com/rabelson97/kalshi-telegram-notifier/internal/models"
)

func rankCandidate(ticker string, roiPct, hours float64) models.Candidate {
	return models.Candidate{Ticker: ticker, ROIPct: roiPct, HoursToClose: hours}
}

func tickersOf(candidates []models.Candidate) []string {
	tickers := make([]string, len(candidates))
	for i, c := range candidates {
		tickers[i] = c.Ticker
	}
	return tickers
}

func TestRankOrder(t *testing.T) {
	candidates := []models.Candidate{
		rankCandidate("LOW-ROI", 2.0, 1.0),
		rankCandidate("HIGH-ROI", 8.0, 20.0),
		rankCandidate("MID-LATE", 5.0, 12.0),
		rankCandidate("MID-SOON", 5.0, 3.0),
	}

	Rank(candidates)

	want := []string{"HIGH-ROI", "MID-SOON", "MID-LATE", "LOW-ROI"}
	got := tickersOf(candidates)
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Rank order = %v, want %v", got, want)
		}
	}
}

func TestRankUnknownHoursLast(t *testing.T) {
	candidates := []models.Candidate{
		rankCandidate("UNKNOWN", 5.0, math.NaN()),
		rankCandidate("KNOWN-LATE", 5.0, 48.0),
		rankCandidate("KNOWN-SOON", 5.0, 1.0),
	}

	Rank(candidates)

	got := tickersOf(candidates)
	if got[0] != "KNOWN-SOON" || got[1] != "KNOWN-LATE" || got[2] != "UNKNOWN" {
		t.Errorf("Rank order = %v, want unknown close sorted last", got)
	}
}

func TestRankStableOnFullTies(t *testing.T) {
	candidates := []models.Candidate{
		rankCandidate("FIRST", 5.0, 10.0),
		rankCandidate("SECOND", 5.0, 10.0),
		rankCandidate("THIRD", 5.0, 10.0),
	}

	Rank(candidates)

	got := tickersOf(candidates)
	if got[0] != "FIRST" || got[1] != "SECOND" || got[2] != "THIRD" {
		t.Errorf("Exact ties must keep insertion order, got %v", got)
	}
}

func TestRankAllUnknownHours(t *testing.T) {
	candidates := []models.Candidate{
		rankCandidate("A", 3.0, math.NaN()),
		rankCandidate("B", 7.0, math.NaN()),
	}

	Rank(candidates)

	if candidates[0].Ticker != "B" {
		t.Error("ROI percent must still order candidates with unknown close")
	}
}

func TestRankEmpty(t *testing.T) {
	Rank(nil)
	Rank([]models.Candidate{})
}
