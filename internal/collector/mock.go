package collector

import (
	"context"
	"math"
	"sync/atomic"
	"time"

	"StockForecast/internal/model"
)

// MockFetcher returns controllable fixed data for development and testing.
type MockFetcher struct {
	Price        float64
	Observations []model.Observation
	Err          error
	End          time.Time

	calls atomic.Int32
}

func (m *MockFetcher) Name() string { return "mock" }

// Calls returns how many times FetchHistory has been called.
func (m *MockFetcher) Calls() int { return int(m.calls.Load()) }

func (m *MockFetcher) FetchHistory(_ context.Context, _ string, period string) ([]model.Observation, error) {
	m.calls.Add(1)
	if m.Err != nil {
		return nil, m.Err
	}
	if m.Observations != nil {
		return m.Observations, nil
	}
	end := m.End
	if end.IsZero() {
		end = time.Now()
	}
	start, err := PeriodStart(period, end)
	if err != nil {
		return nil, err
	}
	return generateMockSeries(m.Price, model.Day(start), model.Day(end)), nil
}

// generateMockSeries produces a gently trending, oscillating weekday series.
func generateMockSeries(basePrice float64, start, end time.Time) []model.Observation {
	if basePrice <= 0 {
		basePrice = 100
	}
	var obs []model.Observation
	i := 0
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		if d.Weekday() == time.Saturday || d.Weekday() == time.Sunday {
			continue
		}
		p := basePrice * (1 + float64(i)*0.001 + 0.01*math.Sin(float64(i)/5))
		obs = append(obs, model.Observation{Date: d, Price: p})
		i++
	}
	return obs
}
