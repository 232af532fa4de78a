package model

import "time"

// ForecastRequest is the input of a single forecast computation.
type ForecastRequest struct {
	Observations []Observation
	Horizon      int
}

// ForecastResult holds predicted prices and the dates they are labeled with.
// Prices and Dates are positionally aligned and both have length Horizon.
type ForecastResult struct {
	Prices []float64   `json:"prices"`
	Dates  []time.Time `json:"dates"`

	// Fitted model state, for diagnostics only.
	Alpha float64 `json:"alpha"`
	Beta  float64 `json:"beta"`
	Level float64 `json:"level"`
	Trend float64 `json:"trend"`
	SSE   float64 `json:"sse"`
}

// Horizon returns the number of forecast points.
func (r *ForecastResult) Horizon() int { return len(r.Prices) }
