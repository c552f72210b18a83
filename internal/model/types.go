package model

import (
	"time"

	"github.com/google/uuid"
)

// Snapshot is one poll of a single security.
type Snapshot struct {
	ID       uuid.UUID // Primary key, assigned by the poller
	PolledAt time.Time
	CaseName string
	Period   int
	Tick     int

	Ticker   string
	Last     float64
	Bid      float64 // 0 when the book has no bids
	Ask      float64 // 0 when the book has no asks
	Position float64
	Volume   float64

	Bids []BookLevel // best first
	Asks []BookLevel // best first

	Prints []TimeAndSale // prints newer than the previous poll
}

// Spread returns Ask - Bid, or 0 when either side is empty.
func (s *Snapshot) Spread() float64 {
	if s.Bid == 0 || s.Ask == 0 {
		return 0
	}
	return s.Ask - s.Bid
}

// BookLevel is one resting order in the book.
type BookLevel struct {
	Price    float64 `json:"price"`
	Quantity float64 `json:"quantity"`
	Filled   float64 `json:"quantity_filled"`
	TraderID string  `json:"trader_id,omitempty"`
}

// Remaining returns the unfilled quantity.
func (l BookLevel) Remaining() float64 {
	return l.Quantity - l.Filled
}

// TimeAndSale is one print from the tape.
type TimeAndSale struct {
	ID       int64 // Server-assigned, increasing per ticker
	Ticker   string
	Period   int
	Tick     int
	Price    float64
	Quantity float64
}
