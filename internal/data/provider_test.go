package data

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/contactkeval/option-pricer/internal/pricing"
)

func TestSyntheticQuote(t *testing.T) {
	prov := NewSyntheticProvider(100, 0.05, 0.2, 42)
	expiry := time.Now().AddDate(1, 0, 0)

	quote, err := prov.GetOptionQuote("AAPL", 100, expiry, pricing.Call)
	if err != nil {
		t.Fatalf("GetOptionQuote: %v", err)
	}
	if quote <= 0 || quote >= 100 {
		t.Fatalf("quote %f outside (0, spot)", quote)
	}

	// An ATM synthetic quote should invert to a vol near the baseline.
	p, err := pricing.New(100, 100, time.Until(expiry).Hours()/(24*365), 0.05, 0.2, pricing.Call)
	if err != nil {
		t.Fatalf("pricing.New: %v", err)
	}
	iv, err := p.ImpliedVolatility(quote)
	if err != nil {
		t.Fatalf("ImpliedVolatility: %v", err)
	}
	if iv < 0.19 || iv > 0.22 {
		t.Errorf("implied vol of synthetic quote = %f, want near 0.20", iv)
	}
}

func TestSyntheticQuoteExpiredContract(t *testing.T) {
	prov := NewSyntheticProvider(100, 0.05, 0.2, 1)
	if _, err := prov.GetOptionQuote("AAPL", 100, time.Now().AddDate(0, 0, -1), pricing.Call); err == nil {
		t.Error("expected error for expired contract")
	}
}

func TestOptionTicker(t *testing.T) {
	expiry := time.Date(2025, 12, 19, 0, 0, 0, 0, time.UTC)
	got := optionTicker("aapl", 100, expiry, pricing.Call)
	if want := "O:AAPL251219C00100000"; got != want {
		t.Errorf("optionTicker = %q, want %q", got, want)
	}
	got = optionTicker("SPY", 472.5, expiry, pricing.Put)
	if want := "O:SPY251219P00472500"; got != want {
		t.Errorf("optionTicker = %q, want %q", got, want)
	}
}

func TestHTTPQuote(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"OK","results":[{"c":12.34}]}`))
	}))
	defer srv.Close()

	prov := NewHTTPQuoteProvider("test-key", srv.URL, nil)
	quote, err := prov.GetOptionQuote("AAPL", 100, time.Now().AddDate(0, 6, 0), pricing.Call)
	if err != nil {
		t.Fatalf("GetOptionQuote: %v", err)
	}
	if quote != 12.34 {
		t.Errorf("quote = %f, want 12.34", quote)
	}
}

func TestHTTPQuoteFallsBackToSecondary(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	synth := NewSyntheticProvider(100, 0.05, 0.2, 7)
	prov := NewHTTPQuoteProvider("test-key", srv.URL, synth)

	quote, err := prov.GetOptionQuote("AAPL", 100, time.Now().AddDate(0, 6, 0), pricing.Call)
	if err != nil {
		t.Fatalf("GetOptionQuote with secondary: %v", err)
	}
	if quote <= 0 {
		t.Errorf("fallback quote = %f, want positive", quote)
	}
	if prov.Secondary() != synth {
		t.Error("Secondary() did not return the configured provider")
	}
}

func TestHTTPQuoteNoResults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"OK","results":[]}`))
	}))
	defer srv.Close()

	prov := NewHTTPQuoteProvider("test-key", srv.URL, nil)
	if _, err := prov.GetOptionQuote("AAPL", 100, time.Now().AddDate(0, 6, 0), pricing.Call); err == nil {
		t.Error("expected error for empty results")
	}
}
