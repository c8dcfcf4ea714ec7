package market

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/crisisalpha/crisisalpha/internal/config"
)

func chartPayload(symbol string, closes ...any) string {
	series := ""
	for i, c := range closes {
		if i > 0 {
			series += ","
		}
		if c == nil {
			series += "null"
		} else {
			series += fmt.Sprintf("%v", c)
		}
	}
	return fmt.Sprintf(`{"chart":{"result":[{"meta":{"symbol":"%s","regularMarketPrice":0},
		"indicators":{"quote":[{"close":[%s]}]}}],"error":null}}`, symbol, series)
}

func TestYahooFetchParsesLastClose(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("interval") != "1m" {
			t.Errorf("expected intraday interval, got %s", r.URL.Query().Get("interval"))
		}
		fmt.Fprint(w, chartPayload("GLD", 184.1, 184.9, nil))
	}))
	defer srv.Close()

	client := NewYahooClient(config.MarketConfig{BaseURL: srv.URL, Timeout: 5 * time.Second}, slog.Default())

	snapshot, err := client.Fetch(context.Background(), []string{"GLD"}, GranularityIntraday)
	if err != nil {
		t.Fatalf("Fetch returned error: %v", err)
	}

	quote, ok := snapshot["GLD"]
	if !ok || !quote.Valid {
		t.Fatalf("expected valid GLD quote, got %v", snapshot)
	}
	// Trailing null closes are skipped.
	if quote.Price != 184.9 {
		t.Errorf("expected last non-null close 184.9, got %v", quote.Price)
	}
}

func TestYahooFetchPartialFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/v8/finance/chart/BAD" {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		fmt.Fprint(w, chartPayload("LMT", 455.02))
	}))
	defer srv.Close()

	client := NewYahooClient(config.MarketConfig{BaseURL: srv.URL, Timeout: 5 * time.Second}, slog.Default())

	snapshot, err := client.Fetch(context.Background(), []string{"LMT", "BAD"}, GranularityDaily)
	if err != nil {
		t.Fatalf("partial failure should not error: %v", err)
	}

	if len(snapshot) != 1 {
		t.Fatalf("expected one quote, got %v", snapshot)
	}
	if snapshot["LMT"].Price != 455.02 {
		t.Errorf("unexpected LMT price: %v", snapshot["LMT"].Price)
	}
}

func TestYahooFetchTotalFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	client := NewYahooClient(config.MarketConfig{BaseURL: srv.URL, Timeout: 5 * time.Second}, slog.Default())

	snapshot, err := client.Fetch(context.Background(), []string{"GLD", "LMT"}, GranularityIntraday)
	if err == nil {
		t.Fatal("expected error when every symbol fails")
	}
	if len(snapshot) != 0 {
		t.Errorf("expected empty snapshot, got %v", snapshot)
	}
}
