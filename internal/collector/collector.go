package collector

import (
	"context"
	"fmt"
	"log"
	"time"

	"StockForecast/internal/calculator"
	"StockForecast/internal/model"
)

// Collector validates requests and fetches price series.
type Collector struct {
	Fetcher Fetcher
}

// NewCollector creates a new Collector.
func NewCollector(fetcher Fetcher) *Collector {
	return &Collector{Fetcher: fetcher}
}

// Collect validates symbol and period, fetches the history and guarantees a
// non-empty, date-ordered series. An empty period means DefaultPeriod.
func (c *Collector) Collect(ctx context.Context, symbol, period string) (*model.PriceSeries, error) {
	symbol = NormalizeSymbol(symbol)
	if err := ValidateSymbol(symbol); err != nil {
		return nil, err
	}
	if period == "" {
		period = DefaultPeriod
	}
	if !ValidPeriod(period) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidPeriod, period)
	}

	obs, err := c.Fetcher.FetchHistory(ctx, symbol, period)
	if err != nil {
		return nil, fmt.Errorf("fetch %s history: %w", symbol, err)
	}
	if len(obs) == 0 {
		return nil, fmt.Errorf("fetch %s history: %w", symbol, ErrNoData)
	}
	for i := 1; i < len(obs); i++ {
		if !obs[i].Date.After(obs[i-1].Date) {
			return nil, fmt.Errorf("fetch %s history: observations out of order at %s", symbol, obs[i].Date.Format("2006-01-02"))
		}
	}

	return &model.PriceSeries{
		Symbol:       symbol,
		Period:       period,
		Observations: obs,
		FetchedAt:    time.Now(),
	}, nil
}

// Summarize computes summary statistics for a series. Indicators that lack
// data fall back to neutral values.
func Summarize(series *model.PriceSeries) *model.SeriesStats {
	closes := series.Closes()
	last, _ := series.Last()
	st := &model.SeriesStats{Symbol: series.Symbol, Last: last.Price, LastDate: last.Date, Count: len(closes)}

	if ma, err := calculator.CalculateSMA(closes, 20); err != nil {
		log.Printf("[WARN] %s SMA20 calculation failed: %v, using last price", series.Symbol, err)
		st.SMA20 = last.Price
	} else {
		st.SMA20 = ma
	}

	if ma, err := calculator.CalculateSMA(closes, 50); err != nil {
		log.Printf("[WARN] %s SMA50 calculation failed: %v, using last price", series.Symbol, err)
		st.SMA50 = last.Price
	} else {
		st.SMA50 = ma
	}

	if rsi, err := calculator.CalculateRSI(closes, 14); err != nil {
		log.Printf("[WARN] %s RSI calculation failed: %v, defaulting to 50", series.Symbol, err)
		st.RSI14 = 50
	} else {
		st.RSI14 = rsi
	}

	if h, l, err := calculator.CalculateRange(closes); err != nil {
		log.Printf("[WARN] %s range calculation failed: %v", series.Symbol, err)
		st.High, st.Low = last.Price, last.Price
	} else {
		st.High, st.Low = h, l
	}

	if pos, err := calculator.CalculatePosition(last.Price, st.High, st.Low); err != nil {
		log.Printf("[WARN] %s range position calculation failed: %v", series.Symbol, err)
		st.Position = 0.5
	} else {
		st.Position = pos
	}

	return st
}
