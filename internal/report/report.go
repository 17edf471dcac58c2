// Package report formats core pricing outputs for documentation: a JSON
// metrics summary for a call/put pair and a CSV dump of sweep curves.
// It consumes engine outputs only and feeds nothing back into the core.
package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"

	"github.com/contactkeval/option-pricer/internal/pricing"
	"github.com/contactkeval/option-pricer/internal/sweep"
)

// Metrics is the full query surface of one option.
type Metrics struct {
	Price float64 `json:"price"`
	Delta float64 `json:"delta"`
	Gamma float64 `json:"gamma"`
	Vega  float64 `json:"vega"`
	Theta float64 `json:"theta"`
	Rho   float64 `json:"rho"`
}

// Summary pairs call and put metrics for one contract, with the put-call
// parity residual as a built-in sanity check (should be ~0).
type Summary struct {
	Spot           float64 `json:"spot"`
	Strike         float64 `json:"strike"`
	ExpiryYears    float64 `json:"expiry_years"`
	Rate           float64 `json:"rate"`
	Vol            float64 `json:"vol"`
	Call           Metrics `json:"call"`
	Put            Metrics `json:"put"`
	ParityResidual float64 `json:"parity_residual"`
}

// NewMetrics evaluates the full query surface of one pricer.
func NewMetrics(p pricing.Pricer) Metrics {
	return Metrics{
		Price: p.Price(),
		Delta: p.Delta(),
		Gamma: p.Gamma(),
		Vega:  p.Vega(),
		Theta: p.Theta(),
		Rho:   p.Rho(),
	}
}

// NewSummary evaluates both pricers. The two must describe the same
// contract apart from the option type; the parity residual is
// call - put - (S - K*exp(-rT)).
func NewSummary(call, put pricing.Pricer) Summary {
	s := Summary{
		Spot:        call.Spot(),
		Strike:      call.Strike(),
		ExpiryYears: call.Expiry(),
		Rate:        call.Rate(),
		Vol:         call.Vol(),
		Call:        NewMetrics(call),
		Put:         NewMetrics(put),
	}
	forward := call.Spot() - call.Strike()*math.Exp(-call.Rate()*call.Expiry())
	s.ParityResidual = s.Call.Price - s.Put.Price - forward
	return s
}

func WriteJSON(s Summary, outdir string) error {
	b, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(outdir, "metrics.json"), b, 0644)
}

func WriteCSV(c *sweep.Curve, outdir string) error {
	f, err := os.Create(filepath.Join(outdir, "curves.csv"))
	if err != nil {
		return err
	}
	defer f.Close()
	w := csv.NewWriter(f)
	defer w.Flush()

	headers := []string{string(c.Parameter), "price", "delta", "gamma", "vega", "theta", "rho"}
	if err := w.Write(headers); err != nil {
		return err
	}
	for _, pt := range c.Points {
		row := []string{
			fmt.Sprintf("%.6f", pt.X),
			fmt.Sprintf("%.6f", pt.Price),
			fmt.Sprintf("%.6f", pt.Delta),
			fmt.Sprintf("%.6f", pt.Gamma),
			fmt.Sprintf("%.6f", pt.Vega),
			fmt.Sprintf("%.6f", pt.Theta),
			fmt.Sprintf("%.6f", pt.Rho),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return nil
}
