package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"StockForecast/internal/collector"
	"StockForecast/internal/forecast"
	"StockForecast/internal/model"
	"StockForecast/internal/recorder"
)

type memRecorder struct {
	mu   sync.Mutex
	runs []*recorder.ForecastRun
}

func (m *memRecorder) RecordForecast(run *recorder.ForecastRun) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.runs = append(m.runs, run)
	return nil
}

func (m *memRecorder) Close() error { return nil }

func newService(f collector.Fetcher, rec recorder.Recorder) *Service {
	return New(collector.NewCollector(f), forecast.Forecaster{}, rec, 30)
}

func TestForecast_RecordsSuccess(t *testing.T) {
	rec := &memRecorder{}
	mock := &collector.MockFetcher{Price: 100, End: time.Date(2024, 6, 28, 0, 0, 0, 0, time.UTC)}
	series, res, err := newService(mock, rec).Forecast(context.Background(), "aapl", "3mo", 5, "cli")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Prices) != 5 {
		t.Fatalf("expected 5 prices, got %d", len(res.Prices))
	}
	last, _ := series.Last()
	if !res.Dates[0].Equal(last.Date.AddDate(0, 0, 1)) {
		t.Errorf("first forecast date %s does not follow %s", res.Dates[0], last.Date)
	}
	if len(rec.runs) != 1 || rec.runs[0].Err != "" || rec.runs[0].Symbol != "AAPL" {
		t.Fatalf("unexpected recorded runs %+v", rec.runs)
	}
}

func TestForecast_RecordsFitFailure(t *testing.T) {
	rec := &memRecorder{}
	mock := &collector.MockFetcher{Observations: []model.Observation{
		{Date: time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), Price: 10},
	}}
	_, _, err := newService(mock, rec).Forecast(context.Background(), "AAPL", "1y", 5, "dashboard")
	if !errors.Is(err, forecast.ErrInsufficientData) {
		t.Fatalf("expected ErrInsufficientData, got %v", err)
	}
	if len(rec.runs) != 1 || rec.runs[0].Err == "" {
		t.Fatalf("expected failed run to be recorded, got %+v", rec.runs)
	}
}

func TestForecast_HorizonLimit(t *testing.T) {
	mock := &collector.MockFetcher{Price: 100}
	_, _, err := newService(mock, nil).Forecast(context.Background(), "AAPL", "1y", 31, "dashboard")
	if !errors.Is(err, ErrHorizonTooLarge) {
		t.Fatalf("expected ErrHorizonTooLarge, got %v", err)
	}
	if mock.Calls() != 0 {
		t.Errorf("expected no fetch for rejected horizon, got %d", mock.Calls())
	}
}

func TestForecast_NegativeMaxHorizonIsUnlimited(t *testing.T) {
	mock := &collector.MockFetcher{Price: 100, End: time.Date(2024, 6, 28, 0, 0, 0, 0, time.UTC)}
	svc := New(collector.NewCollector(mock), forecast.Forecaster{}, nil, -1)
	_, res, err := svc.Forecast(context.Background(), "AAPL", "3mo", 500, "cli")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Prices) != 500 {
		t.Errorf("expected 500 prices, got %d", len(res.Prices))
	}
}
