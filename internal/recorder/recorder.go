package recorder

import "time"

// ForecastRun holds the summary of one forecast request.
type ForecastRun struct {
	Symbol        string
	Period        string
	Horizon       int
	Observations  int
	LastDate      time.Time
	LastClose     float64
	Alpha         float64
	Beta          float64
	SSE           float64
	FirstForecast float64
	LastForecast  float64
	Source        string // "dashboard", "cli", "telegram", "digest"
	Err           string // empty on success
}

// Recorder persists forecast runs for later analysis.
type Recorder interface {
	RecordForecast(run *ForecastRun) error
	Close() error
}
