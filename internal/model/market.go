package model

import "time"

// OHLCV represents a single candlestick bar.
type OHLCV struct {
	Time   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64
}

// Observation is a single (date, closing price) point of a price history.
type Observation struct {
	Date  time.Time `json:"date"`
	Price float64   `json:"price"`
}

// PriceSeries holds a fetched price history for one symbol and lookback period.
type PriceSeries struct {
	Symbol       string
	Period       string
	Observations []Observation
	FetchedAt    time.Time
}

// Closes returns the prices of the series in order.
func (s *PriceSeries) Closes() []float64 {
	return Closes(s.Observations)
}

// Last returns the most recent observation. ok is false for an empty series.
func (s *PriceSeries) Last() (obs Observation, ok bool) {
	if len(s.Observations) == 0 {
		return Observation{}, false
	}
	return s.Observations[len(s.Observations)-1], true
}

// Closes extracts the prices of the given observations.
func Closes(obs []Observation) []float64 {
	closes := make([]float64, len(obs))
	for i, o := range obs {
		closes[i] = o.Price
	}
	return closes
}

// Day truncates t to its calendar date at midnight UTC.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ObservationsFromBars reduces bars to observations on their close,
// one per calendar day. When two bars share a day the later one wins.
func ObservationsFromBars(bars []OHLCV) []Observation {
	obs := make([]Observation, 0, len(bars))
	for _, b := range bars {
		day := Day(b.Time)
		if n := len(obs); n > 0 && obs[n-1].Date.Equal(day) {
			obs[n-1].Price = b.Close
			continue
		}
		obs = append(obs, Observation{Date: day, Price: b.Close})
	}
	return obs
}
