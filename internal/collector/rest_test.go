package collector

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestRESTFetcher_FetchHistory(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/bars/daily" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer k3y" {
			t.Errorf("unexpected Authorization header %q", got)
		}
		if r.URL.Query().Get("symbol") != "MSFT" || r.URL.Query().Get("period") != "6mo" {
			t.Errorf("unexpected query %s", r.URL.RawQuery)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"timestamp":1710338400,"close":12.5},{"timestamp":1710252000,"close":12.0}]`))
	}))
	defer srv.Close()

	obs, err := NewRESTFetcher(srv.URL, "k3y", "").FetchHistory(context.Background(), "MSFT", "6mo")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(obs) != 2 || obs[0].Price != 12.0 || obs[1].Price != 12.5 {
		t.Fatalf("unexpected observations %v", obs)
	}
}

func TestRESTFetcher_NotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := NewRESTFetcher(srv.URL, "", "").FetchHistory(context.Background(), "MSFT", "1y")
	if !errors.Is(err, ErrNoData) {
		t.Fatalf("expected ErrNoData, got %v", err)
	}
}
