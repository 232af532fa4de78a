package dashboard

import (
	"context"
	"embed"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"StockForecast/internal/chart"
	"StockForecast/internal/collector"
	"StockForecast/internal/forecast"
	"StockForecast/internal/service"
	"StockForecast/internal/strategy"
)

//go:embed index.html
var assets embed.FS

type pageData struct {
	Period     string
	MaxHorizon int
}

type figureResponse struct {
	Figure   *chart.Figure `json:"figure"`
	Forecast *forecastJSON `json:"forecast,omitempty"`
}

type forecastJSON struct {
	Dates   []string     `json:"dates"`
	Prices  []float64    `json:"prices"`
	Alpha   float64      `json:"alpha"`
	Beta    float64      `json:"beta"`
	Outlook *outlookJSON `json:"outlook,omitempty"`
}

type outlookJSON struct {
	Label   string  `json:"label"`
	Score   float64 `json:"score"`
	Warning string  `json:"warning,omitempty"`
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.page.Execute(w, s.pageData); err != nil {
		log.Printf("[ERROR] render page: %v", err)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleHistory answers the "Get Stock Data" button. A missing symbol yields
// an empty figure rather than an error.
func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	symbol := strings.TrimSpace(q.Get("symbol"))
	if symbol == "" {
		writeJSON(w, http.StatusOK, figureResponse{Figure: chart.Empty()})
		return
	}

	series, err := s.svc.History(r.Context(), symbol, q.Get("period"))
	if err != nil {
		s.writeServiceError(w, symbol, err)
		return
	}
	writeJSON(w, http.StatusOK, figureResponse{Figure: chart.HistoryFigure(series)})
}

// handleForecast answers the "Forecast" button. A missing symbol, or a
// missing or zero day count, yields an empty figure.
func (s *Server) handleForecast(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	symbol := strings.TrimSpace(q.Get("symbol"))
	rawDays := strings.TrimSpace(q.Get("days"))
	if symbol == "" || rawDays == "" {
		writeJSON(w, http.StatusOK, figureResponse{Figure: chart.Empty()})
		return
	}
	days, err := strconv.Atoi(rawDays)
	if err != nil || days < 0 {
		writeError(w, http.StatusBadRequest, "days must be a non-negative integer")
		return
	}
	if days == 0 {
		writeJSON(w, http.StatusOK, figureResponse{Figure: chart.Empty()})
		return
	}

	series, res, err := s.svc.Forecast(r.Context(), symbol, q.Get("period"), days, "dashboard")
	if err != nil {
		s.writeServiceError(w, symbol, err)
		return
	}

	fc := &forecastJSON{Prices: res.Prices, Alpha: res.Alpha, Beta: res.Beta}
	fc.Dates = make([]string, len(res.Dates))
	for i, d := range res.Dates {
		fc.Dates[i] = d.Format(time.DateOnly)
	}
	if len(res.Prices) > 0 {
		out := strategy.Evaluate(collector.Summarize(series), res)
		fc.Outlook = &outlookJSON{Label: out.Label, Score: out.TotalScore, Warning: out.WarningMsg}
	}
	writeJSON(w, http.StatusOK, figureResponse{Figure: chart.ForecastFigure(series, res), Forecast: fc})
}

func (s *Server) writeServiceError(w http.ResponseWriter, symbol string, err error) {
	var fitErr *forecast.FitError
	switch {
	case errors.Is(err, collector.ErrInvalidSymbol),
		errors.Is(err, collector.ErrInvalidPeriod),
		errors.Is(err, service.ErrHorizonTooLarge):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.As(err, &fitErr):
		writeError(w, http.StatusUnprocessableEntity, "cannot forecast "+symbol+": "+fitErr.Error())
	case errors.Is(err, collector.ErrNoData):
		writeError(w, http.StatusNotFound, "no price data for "+symbol)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		writeError(w, http.StatusGatewayTimeout, "request cancelled")
	default:
		log.Printf("[ERROR] %s: %v", symbol, err)
		writeError(w, http.StatusBadGateway, "failed to fetch price data")
	}
}
