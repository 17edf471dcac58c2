package report

import (
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/contactkeval/option-pricer/internal/pricing"
	"github.com/contactkeval/option-pricer/internal/sweep"
)

func pairOfPricers(t *testing.T) (pricing.Pricer, pricing.Pricer) {
	t.Helper()
	call, err := pricing.New(100, 100, 1, 0.05, 0.2, pricing.Call)
	if err != nil {
		t.Fatalf("pricing.New: %v", err)
	}
	put, err := pricing.New(100, 100, 1, 0.05, 0.2, pricing.Put)
	if err != nil {
		t.Fatalf("pricing.New: %v", err)
	}
	return call, put
}

func TestSummaryParityResidual(t *testing.T) {
	call, put := pairOfPricers(t)
	s := NewSummary(call, put)
	if math.Abs(s.ParityResidual) > 1e-9 {
		t.Errorf("parity residual = %g, want ~0", s.ParityResidual)
	}
	if s.Call.Price <= s.Put.Price {
		t.Errorf("ATM call with positive rate should exceed put: %f <= %f", s.Call.Price, s.Put.Price)
	}
}

func TestWriteJSON(t *testing.T) {
	call, put := pairOfPricers(t)
	dir := t.TempDir()

	if err := WriteJSON(NewSummary(call, put), dir); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}

	b, err := os.ReadFile(filepath.Join(dir, "metrics.json"))
	if err != nil {
		t.Fatalf("reading metrics.json: %v", err)
	}
	var got Summary
	if err := json.Unmarshal(b, &got); err != nil {
		t.Fatalf("unmarshaling metrics.json: %v", err)
	}
	if math.Abs(got.Call.Price-call.Price()) > 1e-9 {
		t.Errorf("round-tripped call price = %f, want %f", got.Call.Price, call.Price())
	}
	if got.Strike != 100 || got.Spot != 100 {
		t.Errorf("round-tripped contract params wrong: %+v", got)
	}
}

func TestWriteCSV(t *testing.T) {
	call, _ := pairOfPricers(t)
	curve, err := sweep.Run(call, sweep.Request{
		Parameter: sweep.Spot, From: "80", To: "120", Points: 5,
	})
	if err != nil {
		t.Fatalf("sweep.Run: %v", err)
	}

	dir := t.TempDir()
	if err := WriteCSV(curve, dir); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}

	b, err := os.ReadFile(filepath.Join(dir, "curves.csv"))
	if err != nil {
		t.Fatalf("reading curves.csv: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(b)), "\n")
	if len(lines) != 6 { // header + 5 points
		t.Fatalf("got %d lines, want 6", len(lines))
	}
	if want := "spot,price,delta,gamma,vega,theta,rho"; lines[0] != want {
		t.Errorf("header = %q, want %q", lines[0], want)
	}
}
