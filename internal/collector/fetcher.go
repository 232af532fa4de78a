package collector

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"

	"StockForecast/internal/model"
)

var (
	ErrNoData        = errors.New("no price data returned")
	ErrInvalidSymbol = errors.New("invalid symbol")
	ErrInvalidPeriod = errors.New("invalid period")
)

// DefaultPeriod is the lookback used when none is given.
const DefaultPeriod = "1y"

// Fetcher defines the interface for fetching a daily closing-price history.
// period uses Yahoo range syntax (see ValidPeriod).
type Fetcher interface {
	FetchHistory(ctx context.Context, symbol, period string) ([]model.Observation, error)
	Name() string
}

var symbolRegexp = regexp.MustCompile(`^\^?[A-Z0-9][A-Z0-9.\-=]{0,14}$`)

// NormalizeSymbol trims and upper-cases a ticker.
func NormalizeSymbol(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}

// ValidateSymbol checks a normalized ticker such as AAPL, BRK.B, ^GSPC or EURUSD=X.
func ValidateSymbol(symbol string) error {
	if !symbolRegexp.MatchString(symbol) {
		return fmt.Errorf("%w: %q", ErrInvalidSymbol, symbol)
	}
	return nil
}

var periods = map[string]bool{
	"1mo": true, "3mo": true, "6mo": true,
	"1y": true, "2y": true, "5y": true, "10y": true,
	"ytd": true, "max": true,
}

// ValidPeriod reports whether period is a supported lookback.
func ValidPeriod(period string) bool { return periods[period] }

// PeriodStart returns the first day covered by period, counting back from now.
func PeriodStart(period string, now time.Time) (time.Time, error) {
	switch period {
	case "1mo":
		return now.AddDate(0, -1, 0), nil
	case "3mo":
		return now.AddDate(0, -3, 0), nil
	case "6mo":
		return now.AddDate(0, -6, 0), nil
	case "1y":
		return now.AddDate(-1, 0, 0), nil
	case "2y":
		return now.AddDate(-2, 0, 0), nil
	case "5y":
		return now.AddDate(-5, 0, 0), nil
	case "10y":
		return now.AddDate(-10, 0, 0), nil
	case "ytd":
		return time.Date(now.Year(), 1, 1, 0, 0, 0, 0, now.Location()), nil
	case "max":
		return time.Unix(0, 0).UTC(), nil
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidPeriod, period)
}

// normalize sorts bars chronologically and collapses them to one
// observation per day.
func normalize(bars []model.OHLCV) []model.Observation {
	sort.SliceStable(bars, func(i, j int) bool { return bars[i].Time.Before(bars[j].Time) })
	return model.ObservationsFromBars(bars)
}
