package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/shopspring/decimal"

	"StockForecast/internal/collector"
	"StockForecast/internal/model"
	"StockForecast/internal/strategy"
)

// UI styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#7C3AED")).
			Padding(0, 1)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#3B82F6")).
			Padding(0, 1)

	cellStyle = lipgloss.NewStyle().Padding(0, 1)

	forecastCellStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#10B981")).
				Padding(0, 1)

	statsStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#F59E0B")).
			Padding(0, 2)

	upStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#10B981")).Bold(true)
	downStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#EF4444")).Bold(true)
)

func money(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(2)
}

func priceTable(headers []string, rows [][]string, style lipgloss.Style) string {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return style
		}).
		Render()
}

func renderStats(st *model.SeriesStats) string {
	lines := []string{
		fmt.Sprintf("Last close   %s (%s)", money(st.Last), st.LastDate.Format("2006-01-02")),
		fmt.Sprintf("Observations %d", st.Count),
		fmt.Sprintf("SMA20/SMA50  %s / %s", money(st.SMA20), money(st.SMA50)),
		fmt.Sprintf("RSI14        %.1f", st.RSI14),
		fmt.Sprintf("Range        %s ~ %s (%.0f%%)", money(st.Low), money(st.High), st.Position*100),
	}
	return statsStyle.Render(strings.Join(lines, "\n"))
}

func renderChange(from, to float64) string {
	if from == 0 {
		return ""
	}
	change := (to - from) / from * 100
	text := fmt.Sprintf("Projected change %+.2f%%", change)
	if change < 0 {
		return downStyle.Render(text)
	}
	return upStyle.Render(text)
}

func renderOutlook(out *model.Outlook) string {
	rows := make([][]string, len(out.Factors))
	for i, f := range out.Factors {
		rows[i] = []string{f.Name, fmt.Sprintf("%+.1f", f.RawScore), fmt.Sprintf("%.2f", f.Weight), fmt.Sprintf("%+.3f", f.Weighted), f.Commentary}
	}
	style := upStyle
	if out.TotalScore < 0 {
		style = downStyle
	}
	var b strings.Builder
	b.WriteString(style.Render(fmt.Sprintf("Outlook: %s (%+.3f)", out.Label, out.TotalScore)))
	b.WriteString("\n")
	b.WriteString(priceTable([]string{"Factor", "Score", "Weight", "Weighted", "Note"}, rows, cellStyle))
	if out.WarningMsg != "" {
		b.WriteString("\n" + out.WarningMsg)
	}
	return b.String()
}

// renderForecast prints the forecast table, fitted parameters and series stats.
func renderForecast(series *model.PriceSeries, res *model.ForecastResult) string {
	st := collector.Summarize(series)

	rows := make([][]string, len(res.Prices))
	for i, p := range res.Prices {
		rows[i] = []string{res.Dates[i].Format("2006-01-02"), money(p)}
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(fmt.Sprintf("%s Stock Price Forecast | %d days", series.Symbol, res.Horizon())))
	b.WriteString("\n")
	if len(rows) > 0 {
		b.WriteString(priceTable([]string{"Date", "Forecast"}, rows, forecastCellStyle))
		b.WriteString("\n")
	}
	b.WriteString(fmt.Sprintf("alpha=%.4f beta=%.4f level=%s trend=%s sse=%.4f\n",
		res.Alpha, res.Beta, money(res.Level), money(res.Trend), res.SSE))
	if n := len(res.Prices); n > 0 {
		b.WriteString(renderChange(st.Last, res.Prices[n-1]))
		b.WriteString("\n")
	}
	b.WriteString(renderOutlook(strategy.Evaluate(st, res)))
	b.WriteString("\n")
	b.WriteString(renderStats(st))
	return b.String()
}

// renderHistory prints the last rows of the series and its stats.
func renderHistory(series *model.PriceSeries, n int) string {
	obs := series.Observations
	if n > 0 && len(obs) > n {
		obs = obs[len(obs)-n:]
	}
	rows := make([][]string, len(obs))
	for i, o := range obs {
		rows[i] = []string{o.Date.Format("2006-01-02"), money(o.Price)}
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(fmt.Sprintf("%s Stock Price | %s", series.Symbol, series.Period)))
	b.WriteString("\n")
	b.WriteString(priceTable([]string{"Date", "Close"}, rows, cellStyle))
	b.WriteString("\n")
	b.WriteString(renderStats(collector.Summarize(series)))
	return b.String()
}
