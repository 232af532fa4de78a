package model

import "time"

// SeriesStats summarizes a price series for reports.
type SeriesStats struct {
	Symbol   string
	Last     float64
	LastDate time.Time
	Count    int
	SMA20    float64
	SMA50    float64
	RSI14    float64
	High     float64
	Low      float64
	Position float64 // 0.0 ~ 1.0 within [Low, High]
}
