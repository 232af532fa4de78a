// Package service runs history and forecast requests end to end: fetch,
// validate, fit, and record.
package service

import (
	"context"
	"errors"
	"fmt"
	"log"

	"StockForecast/internal/collector"
	"StockForecast/internal/forecast"
	"StockForecast/internal/model"
	"StockForecast/internal/recorder"
)

// ErrHorizonTooLarge is returned when days exceeds the configured maximum.
var ErrHorizonTooLarge = errors.New("forecast horizon too large")

type Service struct {
	Collector  *collector.Collector
	Forecaster forecast.Forecaster
	Recorder   recorder.Recorder
	MaxHorizon int
}

func New(col *collector.Collector, f forecast.Forecaster, rec recorder.Recorder, maxHorizon int) *Service {
	if rec == nil {
		rec = recorder.NewNoopRecorder()
	}
	return &Service{Collector: col, Forecaster: f, Recorder: rec, MaxHorizon: maxHorizon}
}

// History fetches the price series for symbol over period.
func (s *Service) History(ctx context.Context, symbol, period string) (*model.PriceSeries, error) {
	return s.Collector.Collect(ctx, symbol, period)
}

// Forecast fetches the history and forecasts days points ahead. Fit failures
// are returned as *forecast.FitError. Every attempt that reached the model is
// recorded, successful or not.
func (s *Service) Forecast(ctx context.Context, symbol, period string, days int, source string) (*model.PriceSeries, *model.ForecastResult, error) {
	if s.MaxHorizon > 0 && days > s.MaxHorizon {
		return nil, nil, fmt.Errorf("%w: %d > %d", ErrHorizonTooLarge, days, s.MaxHorizon)
	}
	series, err := s.Collector.Collect(ctx, symbol, period)
	if err != nil {
		return nil, nil, err
	}

	res, err := s.Forecaster.Run(model.ForecastRequest{Observations: series.Observations, Horizon: days})
	s.record(series, days, res, err, source)
	if err != nil {
		return series, nil, err
	}
	return series, res, nil
}

func (s *Service) record(series *model.PriceSeries, days int, res *model.ForecastResult, fitErr error, source string) {
	run := &recorder.ForecastRun{
		Symbol:       series.Symbol,
		Period:       series.Period,
		Horizon:      days,
		Observations: len(series.Observations),
		Source:       source,
	}
	if last, ok := series.Last(); ok {
		run.LastDate = last.Date
		run.LastClose = last.Price
	}
	if fitErr != nil {
		run.Err = fitErr.Error()
	} else {
		run.Alpha, run.Beta, run.SSE = res.Alpha, res.Beta, res.SSE
		if n := len(res.Prices); n > 0 {
			run.FirstForecast = res.Prices[0]
			run.LastForecast = res.Prices[n-1]
		}
	}
	if err := s.Recorder.RecordForecast(run); err != nil {
		log.Printf("[ERROR] record forecast %s: %v", series.Symbol, err)
	}
}
