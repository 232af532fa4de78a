package strategy

import (
	"math"
	"testing"

	"StockForecast/internal/model"
)

func forecastTo(prices ...float64) *model.ForecastResult {
	return &model.ForecastResult{Prices: prices}
}

func TestEvaluate_Neutral(t *testing.T) {
	st := &model.SeriesStats{Last: 100, SMA20: 100, SMA50: 100, RSI14: 50, Position: 0.5}
	out := Evaluate(st, forecastTo(100.1, 100.2))
	if len(out.Factors) != 4 {
		t.Fatalf("expected 4 factors, got %d", len(out.Factors))
	}
	if out.Label != "neutral" {
		t.Errorf("expected neutral, got %s (%.3f)", out.Label, out.TotalScore)
	}
	if out.WarningMsg != "" {
		t.Errorf("unexpected warning: %s", out.WarningMsg)
	}
}

func TestEvaluate_StrongUptrend(t *testing.T) {
	st := &model.SeriesStats{Last: 100, SMA20: 95, SMA50: 90, RSI14: 40, Position: 0.5}
	out := Evaluate(st, forecastTo(104, 108, 112))
	if out.TotalScore < 0.8 {
		t.Errorf("expected strongly bullish score, got %.3f", out.TotalScore)
	}
	if out.Label != "strongly bullish" {
		t.Errorf("unexpected label %s", out.Label)
	}
}

func TestEvaluate_OverboughtDecline(t *testing.T) {
	st := &model.SeriesStats{Last: 100, SMA20: 105, SMA50: 110, RSI14: 90, Position: 0.02}
	out := Evaluate(st, forecastTo(95, 88))
	if out.TotalScore > -0.8 {
		t.Errorf("expected strongly bearish score, got %.3f", out.TotalScore)
	}
	if out.WarningMsg == "" {
		t.Error("expected overbought warning for RSI > 85")
	}
}

func TestEvaluate_EmptyForecast(t *testing.T) {
	st := &model.SeriesStats{Last: 100, SMA20: 100, SMA50: 100, RSI14: 50, Position: 0.5}
	out := Evaluate(st, forecastTo())
	if out.Factors[0].RawScore != 0 || out.Factors[0].Commentary != "no forecast" {
		t.Errorf("unexpected projected change factor %+v", out.Factors[0])
	}
}

func TestWeightsSumToOne(t *testing.T) {
	st := &model.SeriesStats{Last: 100, SMA20: 100, SMA50: 100, RSI14: 50, Position: 0.5}
	sum := 0.0
	for _, f := range Evaluate(st, forecastTo(100)).Factors {
		sum += f.Weight
	}
	if math.Abs(sum-1) > 1e-9 {
		t.Errorf("weights sum to %.3f", sum)
	}
}

func TestScoreProjectedChange(t *testing.T) {
	tests := []struct {
		target float64
		want   float64
	}{
		{115, 2.0},
		{106, 1.5},
		{103, 1.0},
		{101, 0.5},
		{100, 0},
		{99, -0.5},
		{97, -1.0},
		{92, -1.5},
		{80, -2.0},
	}
	st := &model.SeriesStats{Last: 100}
	for _, tt := range tests {
		if got := scoreProjectedChange(st, forecastTo(tt.target)).RawScore; got != tt.want {
			t.Errorf("target %.0f: expected %.1f, got %.1f", tt.target, tt.want, got)
		}
	}
}

func TestMapLabel(t *testing.T) {
	tests := []struct {
		score float64
		want  string
	}{
		{1.0, "strongly bullish"},
		{0.5, "bullish"},
		{0, "neutral"},
		{-0.5, "bearish"},
		{-1.0, "strongly bearish"},
	}
	for _, tt := range tests {
		if got := mapLabel(tt.score); got != tt.want {
			t.Errorf("mapLabel(%.1f) = %s, want %s", tt.score, got, tt.want)
		}
	}
}
