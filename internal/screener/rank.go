package screener

import (
	"math"
	"sort"

	"github.com/rabelson97/kalshi-telegram-notifier/internal/models"
)

// Rank sorts candidates in place: ROI percent descending, ties broken by
// soonest close. A candidate whose hours-to-close is NaN sorts after every
// candidate with a known close. Exact ties on both keys keep their relative
// insertion order. No truncation happens here; that is the notifier's job.
func Rank(candidates []models.Candidate) {
	sort.SliceStable(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if a.ROIPct != b.ROIPct {
			return a.ROIPct > b.ROIPct
		}
		aUnknown := math.IsNaN(a.HoursToClose)
		bUnknown := math.IsNaN(b.HoursToClose)
		if aUnknown || bUnknown {
			return !aUnknown && bUnknown
		}
		return a.HoursToClose < b.HoursToClose
	})
}
