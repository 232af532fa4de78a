// Package forecast extrapolates a daily price history with Holt's linear
// trend method and labels the predictions with calendar dates.
package forecast

import (
	"fmt"
	"time"

	"StockForecast/internal/model"
)

// Forecaster computes forecasts. The zero value steps forecast dates by one
// calendar day, weekends included.
type Forecaster struct {
	// SkipWeekends labels forecast points with Monday-Friday dates only.
	SkipWeekends bool
}

// Forecast fits the model with the default Forecaster.
func Forecast(obs []model.Observation, horizon int) (*model.ForecastResult, error) {
	return Forecaster{}.Forecast(obs, horizon)
}

// Run forecasts req.Horizon points past req.Observations.
func (f Forecaster) Run(req model.ForecastRequest) (*model.ForecastResult, error) {
	return f.Forecast(req.Observations, req.Horizon)
}

// Forecast fits an additive-trend exponential smoothing model to the prices
// of obs and predicts the next horizon points. obs must be ordered by date.
// A zero horizon returns an empty result without fitting.
func (f Forecaster) Forecast(obs []model.Observation, horizon int) (*model.ForecastResult, error) {
	if horizon < 0 {
		return nil, fail(ErrInvalidHorizon, fmt.Sprintf("got %d", horizon))
	}
	if horizon == 0 {
		return &model.ForecastResult{Prices: []float64{}, Dates: []time.Time{}}, nil
	}
	if len(obs) < 2 {
		return nil, fail(ErrInsufficientData, fmt.Sprintf("got %d", len(obs)))
	}

	h, err := FitHolt(model.Closes(obs))
	if err != nil {
		return nil, err
	}

	return &model.ForecastResult{
		Prices: h.Predict(horizon),
		Dates:  f.Dates(obs[len(obs)-1].Date, horizon),
		Alpha:  h.Alpha,
		Beta:   h.Beta,
		Level:  h.Level,
		Trend:  h.Trend,
		SSE:    h.SSE,
	}, nil
}

// Dates returns n dates following last, one calendar day apart, skipping
// Saturdays and Sundays when SkipWeekends is set.
func (f Forecaster) Dates(last time.Time, n int) []time.Time {
	dates := make([]time.Time, 0, n)
	d := model.Day(last)
	for len(dates) < n {
		d = d.AddDate(0, 0, 1)
		if f.SkipWeekends && (d.Weekday() == time.Saturday || d.Weekday() == time.Sunday) {
			continue
		}
		dates = append(dates, d)
	}
	return dates
}
