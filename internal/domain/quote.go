package domain

import "time"

// Quote is a point-in-time price snapshot for a single symbol.
// A new fetch produces a new Quote; it is never mutated in place.
type Quote struct {
	Symbol        string
	Price         float64
	Change        float64
	ChangePercent float64
	Volume        int64
	High          float64
	Low           float64
	Open          float64
	PreviousClose float64
	UpdatedAt     time.Time
	Source        string
	Synthetic     bool
}
