package models

import (
	"errors"
)

// Odds is a point-in-time order book snapshot for a single market.
// YesBid and YesAsk are in cents; nil means the exchange reported no price
// on that side. Absence of the whole snapshot is represented by the ticker
// missing from the odds map, never by a zeroed Odds value.
type Odds struct {
	YesBid    *int   `json:"yes_bid"`
	YesAsk    *int   `json:"yes_ask"`
	CloseTime string `json:"close_time"`
	Volume    int64  `json:"volume"`
}

// HasPrices reports whether both sides of the book carry a price.
func (o *Odds) HasPrices() bool {
	return o.YesBid != nil && o.YesAsk != nil
}

// Validate checks odds field constraints.
func (o *Odds) Validate() error {
	if o.YesBid != nil && (*o.YesBid < 0 || *o.YesBid > 100) {
		return errors.New("yes bid must be between 0 and 100 cents")
	}
	if o.YesAsk != nil && (*o.YesAsk < 0 || *o.YesAsk > 100) {
		return errors.New("yes ask must be between 0 and 100 cents")
	}
	if o.Volume < 0 {
		return errors.New("volume must not be negative")
	}
	return nil
}
