package strategy

import "StockForecast/internal/model"

// Labels maps total score bands to an outlook label, highest first.
var Labels = []struct {
	MinScore float64
	Label    string
}{
	{0.8, "strongly bullish"},
	{0.3, "bullish"},
	{-0.3, "neutral"},
	{-0.8, "bearish"},
}

// DefaultLabel is used for scores below every band.
const DefaultLabel = "strongly bearish"

func mapLabel(totalScore float64) string {
	for _, l := range Labels {
		if totalScore >= l.MinScore {
			return l.Label
		}
	}
	return DefaultLabel
}

// Evaluate scores a forecast against the summary of the series it was fitted on.
func Evaluate(st *model.SeriesStats, res *model.ForecastResult) *model.Outlook {
	factors := []model.FactorScore{
		scoreProjectedChange(st, res),
		scoreTrendAlignment(st),
		scoreRSI(st),
		scoreRangePosition(st),
	}

	total := 0.0
	for _, f := range factors {
		total += f.Weighted
	}

	out := &model.Outlook{
		Factors:    factors,
		TotalScore: total,
		Label:      mapLabel(total),
	}
	switch {
	case st.RSI14 > 85:
		out.WarningMsg = "⚠️ RSI above 85, the series is overbought"
	case st.RSI14 < 15:
		out.WarningMsg = "⚠️ RSI below 15, the series is oversold"
	}
	return out
}
