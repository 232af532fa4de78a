package dashboard

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"StockForecast/internal/chart"
	"StockForecast/internal/collector"
	"StockForecast/internal/forecast"
	"StockForecast/internal/model"
	"StockForecast/internal/service"
)

func newTestServer(f collector.Fetcher, apiKey string) http.Handler {
	svc := service.New(collector.NewCollector(f), forecast.Forecaster{}, nil, 60)
	s := NewServer(svc, Options{Port: 0, APIKey: apiKey, DefaultPeriod: "1y"})
	return s.Handler("")
}

func mockFetcher() *collector.MockFetcher {
	return &collector.MockFetcher{Price: 150, End: time.Date(2024, 6, 28, 0, 0, 0, 0, time.UTC)}
}

type response struct {
	Figure   chart.Figure  `json:"figure"`
	Forecast *forecastJSON `json:"forecast"`
	Error    string        `json:"error"`
}

func get(t *testing.T, h http.Handler, url string) (int, response) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, url, nil)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	var body response
	if strings.HasPrefix(rr.Header().Get("Content-Type"), "application/json") {
		if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
			t.Fatalf("decode %s: %v", url, err)
		}
	}
	return rr.Code, body
}

func TestIndexPage(t *testing.T) {
	h := newTestServer(mockFetcher(), "")
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	for _, want := range []string{"Get Stock Data", "Forecast", "stock-input", "forecast-days"} {
		if !strings.Contains(rr.Body.String(), want) {
			t.Errorf("page missing %q", want)
		}
	}
}

func TestHistory(t *testing.T) {
	h := newTestServer(mockFetcher(), "")

	code, body := get(t, h, "/api/v1/history?symbol=aapl&period=3mo")
	if code != http.StatusOK {
		t.Fatalf("expected 200, got %d (%s)", code, body.Error)
	}
	if len(body.Figure.Data) != 1 || len(body.Figure.Data[0].Y) == 0 {
		t.Fatalf("expected one populated trace, got %+v", body.Figure.Data)
	}
	if body.Figure.Layout.Title.Text != "AAPL Stock Price" {
		t.Errorf("unexpected title %q", body.Figure.Layout.Title.Text)
	}
}

func TestHistory_MissingSymbolIsEmptyFigure(t *testing.T) {
	code, body := get(t, newTestServer(mockFetcher(), ""), "/api/v1/history")
	if code != http.StatusOK || len(body.Figure.Data) != 0 {
		t.Fatalf("expected empty figure, got %d %+v", code, body.Figure)
	}
}

func TestForecast(t *testing.T) {
	code, body := get(t, newTestServer(mockFetcher(), ""), "/api/v1/forecast?symbol=AAPL&days=7")
	if code != http.StatusOK {
		t.Fatalf("expected 200, got %d (%s)", code, body.Error)
	}
	if len(body.Figure.Data) != 2 {
		t.Fatalf("expected history and forecast traces, got %d", len(body.Figure.Data))
	}
	fc := body.Figure.Data[1]
	if fc.Line == nil || fc.Line.Dash != "dash" || len(fc.Y) != 7 {
		t.Errorf("unexpected forecast trace %+v", fc)
	}
	if body.Forecast == nil || len(body.Forecast.Dates) != 7 {
		t.Fatalf("expected 7 forecast dates, got %+v", body.Forecast)
	}
	if body.Forecast.Dates[0] != "2024-06-29" {
		t.Errorf("expected forecast to start the day after 2024-06-28, got %s", body.Forecast.Dates[0])
	}
	if body.Forecast.Outlook == nil || body.Forecast.Outlook.Label == "" {
		t.Errorf("expected an outlook, got %+v", body.Forecast.Outlook)
	}
}

func TestForecast_InputErrors(t *testing.T) {
	h := newTestServer(mockFetcher(), "")
	tests := []struct {
		url    string
		code   int
		traces int
	}{
		{"/api/v1/forecast?symbol=AAPL", http.StatusOK, 0},
		{"/api/v1/forecast?days=5", http.StatusOK, 0},
		{"/api/v1/forecast?symbol=AAPL&days=0", http.StatusOK, 0},
		{"/api/v1/forecast?symbol=AAPL&days=-3", http.StatusBadRequest, 0},
		{"/api/v1/forecast?symbol=AAPL&days=abc", http.StatusBadRequest, 0},
		{"/api/v1/forecast?symbol=AAPL&days=61", http.StatusBadRequest, 0},
		{"/api/v1/forecast?symbol=AAPL&days=5&period=9d", http.StatusBadRequest, 0},
		{"/api/v1/forecast?symbol=A%20B&days=5", http.StatusBadRequest, 0},
	}
	for _, tt := range tests {
		code, body := get(t, h, tt.url)
		if code != tt.code {
			t.Errorf("%s: expected %d, got %d", tt.url, tt.code, code)
		}
		if len(body.Figure.Data) != tt.traces {
			t.Errorf("%s: expected %d traces, got %d", tt.url, tt.traces, len(body.Figure.Data))
		}
	}
}

func TestForecast_FitFailure(t *testing.T) {
	single := &collector.MockFetcher{Observations: []model.Observation{
		{Date: time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), Price: 10},
	}}
	code, body := get(t, newTestServer(single, ""), "/api/v1/forecast?symbol=AAPL&days=5")
	if code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", code)
	}
	if body.Error == "" {
		t.Error("expected an error message")
	}
}

func TestHistory_NoData(t *testing.T) {
	code, _ := get(t, newTestServer(&collector.MockFetcher{Err: collector.ErrNoData}, ""), "/api/v1/history?symbol=ZZZZ")
	if code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", code)
	}
}

func TestAuthMiddleware(t *testing.T) {
	h := newTestServer(mockFetcher(), "secret123")

	req := httptest.NewRequest(http.MethodGet, "/api/v1/history?symbol=AAPL", nil)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without key, got %d", rr.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/v1/history?symbol=AAPL", nil)
	req.Header.Set("Authorization", "Bearer secret123")
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200 with key, got %d", rr.Code)
	}

	for _, path := range []string{"/", "/health"} {
		req = httptest.NewRequest(http.MethodGet, path, nil)
		rr = httptest.NewRecorder()
		h.ServeHTTP(rr, req)
		if rr.Code != http.StatusOK {
			t.Errorf("expected %s to bypass auth, got %d", path, rr.Code)
		}
	}
}

func TestCorsMiddleware_Preflight(t *testing.T) {
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("inner handler should not be called for OPTIONS")
	})
	handler := corsMiddleware(inner, "https://dash.example.com")

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/forecast", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200 for preflight, got %d", rr.Code)
	}
	if got := rr.Header().Get("Access-Control-Allow-Origin"); got != "https://dash.example.com" {
		t.Fatalf("expected custom origin, got %q", got)
	}
}

func TestIndexPage_HorizonLimitAttribute(t *testing.T) {
	page := func(maxHorizon int) string {
		svc := service.New(collector.NewCollector(mockFetcher()), forecast.Forecaster{}, nil, maxHorizon)
		rr := httptest.NewRecorder()
		NewServer(svc, Options{DefaultPeriod: "1y"}).Handler("").ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
		return rr.Body.String()
	}
	if body := page(60); !strings.Contains(body, `max="60"`) {
		t.Error("expected max attribute for a limited horizon")
	}
	if body := page(-1); strings.Contains(body, "max=") {
		t.Error("expected no max attribute for an unlimited horizon")
	}
}
