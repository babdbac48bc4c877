package domain

import "time"

// Candle is one OHLC point of a historical series.
type Candle struct {
	Time   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume int64
}
