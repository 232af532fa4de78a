package notifier

import (
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"StockForecast/internal/model"
)

func price(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(2)
}

// forecastEdgeLines is how many leading and trailing forecast days are listed
// when a forecast is too long to show in full.
const forecastEdgeLines = 10

// FormatForecast renders a forecast with its series summary. out may be nil.
func FormatForecast(st *model.SeriesStats, res *model.ForecastResult, out *model.Outlook) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("🔮 <b>%s forecast</b> | %d days\n\n", html.EscapeString(st.Symbol), len(res.Prices)))
	b.WriteString(fmt.Sprintf("Last close: %s (%s)\n", price(st.Last), st.LastDate.Format("2006-01-02")))
	b.WriteString(fmt.Sprintf("α=%.3f β=%.3f\n\n", res.Alpha, res.Beta))

	line := func(i int) {
		b.WriteString(fmt.Sprintf("  %s  %s\n", res.Dates[i].Format("2006-01-02"), price(res.Prices[i])))
	}
	if n := len(res.Prices); n > 2*forecastEdgeLines {
		for i := 0; i < forecastEdgeLines; i++ {
			line(i)
		}
		b.WriteString(fmt.Sprintf("  … %d more days …\n", n-2*forecastEdgeLines))
		for i := n - forecastEdgeLines; i < n; i++ {
			line(i)
		}
	} else {
		for i := range res.Prices {
			line(i)
		}
	}

	if n := len(res.Prices); n > 0 && st.Last > 0 {
		change := (res.Prices[n-1] - st.Last) / st.Last * 100
		b.WriteString(fmt.Sprintf("\nProjected change: %+.2f%%\n", change))
	}
	if out != nil {
		b.WriteString(FormatOutlook(out))
	}
	return b.String()
}

// FormatOutlook renders the outlook label and its factor breakdown.
func FormatOutlook(out *model.Outlook) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("\nOutlook: <b>%s</b> (%+.3f)\n", out.Label, out.TotalScore))
	for _, f := range out.Factors {
		b.WriteString(fmt.Sprintf("  %s: %+.1f × %.2f = %+.3f (%s)\n", f.Name, f.RawScore, f.Weight, f.Weighted, f.Commentary))
	}
	if out.WarningMsg != "" {
		b.WriteString("\n" + out.WarningMsg + "\n")
	}
	return b.String()
}

// FormatSummary renders summary statistics of a price series.
func FormatSummary(st *model.SeriesStats) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("📈 <b>%s</b> | %s\n\n", html.EscapeString(st.Symbol), st.LastDate.Format("2006-01-02")))
	b.WriteString(fmt.Sprintf("Last close: %s\n", price(st.Last)))
	b.WriteString(fmt.Sprintf("SMA20: %s | SMA50: %s\n", price(st.SMA20), price(st.SMA50)))
	b.WriteString(fmt.Sprintf("RSI14: %.0f\n", st.RSI14))
	b.WriteString(fmt.Sprintf("Range: %s ~ %s (position %.0f%%)\n", price(st.Low), price(st.High), st.Position*100))
	b.WriteString(fmt.Sprintf("Observations: %d\n", st.Count))
	return b.String()
}

// DigestLine is one symbol's entry in the daily digest.
type DigestLine struct {
	Symbol string
	Last   float64
	Target float64
	Err    error
}

// FormatDigest renders the daily watchlist digest.
func FormatDigest(lines []DigestLine, horizon int, now time.Time) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("📊 <b>Forecast digest</b> | %s | %d days\n\n", now.Format("2006-01-02"), horizon))
	for _, l := range lines {
		if l.Err != nil {
			b.WriteString(fmt.Sprintf("❌ %s: %s\n", html.EscapeString(l.Symbol), html.EscapeString(l.Err.Error())))
			continue
		}
		change := 0.0
		if l.Last > 0 {
			change = (l.Target - l.Last) / l.Last * 100
		}
		b.WriteString(fmt.Sprintf("%s  %s → %s (%+.2f%%)\n", html.EscapeString(l.Symbol), price(l.Last), price(l.Target), change))
	}
	return b.String()
}

// HelpText lists the commands the bot understands.
func HelpText() string {
	return "Available commands:\n• /forecast SYMBOL [DAYS]\n• /history SYMBOL\n• /watchlist"
}
