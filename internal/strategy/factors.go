package strategy

import (
	"fmt"

	"StockForecast/internal/model"
)

func factor(name string, score, weight float64, commentary string) model.FactorScore {
	return model.FactorScore{
		Name:       name,
		RawScore:   score,
		Weight:     weight,
		Weighted:   score * weight,
		Commentary: commentary,
	}
}

// scoreProjectedChange scores the percentage move from the last close to the
// final forecast price.
// Weight: 0.40
func scoreProjectedChange(st *model.SeriesStats, res *model.ForecastResult) model.FactorScore {
	n := len(res.Prices)
	if n == 0 || st.Last == 0 {
		return factor("Projected change", 0, 0.40, "no forecast")
	}
	change := (res.Prices[n-1] - st.Last) / st.Last * 100

	var score float64
	switch {
	case change >= 10:
		score = 2.0
	case change >= 5:
		score = 1.5
	case change >= 2:
		score = 1.0
	case change >= 0.5:
		score = 0.5
	case change > -0.5:
		score = 0
	case change > -2:
		score = -0.5
	case change > -5:
		score = -1.0
	case change > -10:
		score = -1.5
	default:
		score = -2.0
	}
	return factor("Projected change", score, 0.40, fmt.Sprintf("%+.1f%%", change))
}

// scoreTrendAlignment scores moving average alignment.
// Weight: 0.25
// Bull alignment: price > SMA20 > SMA50
// Bear alignment: price < SMA20 < SMA50
func scoreTrendAlignment(st *model.SeriesStats) model.FactorScore {
	bullish := st.Last > st.SMA20 && st.SMA20 > st.SMA50
	bearish := st.Last < st.SMA20 && st.SMA20 < st.SMA50

	switch {
	case bullish && st.Position >= 0.95:
		return factor("Trend", 1.5, 0.25, "bull alignment near range high")
	case bullish:
		return factor("Trend", 1.0, 0.25, "bull alignment")
	case bearish && st.Position <= 0.05:
		return factor("Trend", -1.5, 0.25, "bear alignment near range low")
	case bearish:
		return factor("Trend", -1.0, 0.25, "bear alignment")
	default:
		return factor("Trend", 0, 0.25, "sideways")
	}
}

// scoreRSI scores the daily RSI(14). Overbought readings pull the outlook down.
// Weight: 0.20
func scoreRSI(st *model.SeriesStats) model.FactorScore {
	rsi := st.RSI14
	var score float64
	switch {
	case rsi <= 25:
		score = 1.5
	case rsi <= 35:
		score = 1.0
	case rsi <= 45:
		score = 0.5
	case rsi <= 55:
		score = 0
	case rsi <= 65:
		score = -0.5
	case rsi <= 75:
		score = -1.0
	default:
		score = -1.5
	}
	return factor("RSI14", score, 0.20, fmt.Sprintf("RSI=%.0f", rsi))
}

// scoreRangePosition scores where the last close sits within the period range.
// Weight: 0.15
func scoreRangePosition(st *model.SeriesStats) model.FactorScore {
	pos := st.Position * 100
	var score float64
	switch {
	case pos <= 10:
		score = 1.0
	case pos <= 30:
		score = 0.5
	case pos <= 70:
		score = 0
	case pos <= 90:
		score = -0.5
	default:
		score = -1.0
	}
	return factor("Range position", score, 0.15, fmt.Sprintf("position=%.0f%%", pos))
}
