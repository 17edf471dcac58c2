package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/contactkeval/option-pricer/internal/config"
	"github.com/contactkeval/option-pricer/internal/data"
	"github.com/contactkeval/option-pricer/internal/logger"
	"github.com/contactkeval/option-pricer/internal/pricing"
	"github.com/contactkeval/option-pricer/internal/report"
	"github.com/contactkeval/option-pricer/internal/sweep"
)

func main() {
	configPath := flag.String("config", "configs/atm_call.json", "path to JSON job config")
	rest := flag.Bool("rest", false, "run as REST server (price/greeks/impliedvol/sweep)")
	port := flag.String("port", ":8080", "REST server listen address")
	flag.Parse()

	if *rest {
		serveREST(*port)
		return
	}

	start := time.Now()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}
	logger.SetVerbosity(cfg.Verbosity)

	typ, err := pricing.ParseOptionType(cfg.OptionType)
	if err != nil {
		log.Fatalf("invalid option type: %v", err)
	}

	call, err := pricing.New(cfg.Spot, cfg.Strike, cfg.ExpiryYears, cfg.Rate, cfg.Vol, pricing.Call)
	if err != nil {
		log.Fatalf("constructing pricer: %v", err)
	}
	put, err := pricing.New(cfg.Spot, cfg.Strike, cfg.ExpiryYears, cfg.Rate, cfg.Vol, pricing.Put)
	if err != nil {
		log.Fatalf("constructing pricer: %v", err)
	}

	summary := report.NewSummary(call, put)
	printSummary(summary)

	own := call
	if typ == pricing.Put {
		own = put
	}
	solveImpliedVol(cfg, own)

	if err := os.MkdirAll(cfg.ReportDir, 0755); err != nil {
		logger.Errorf("could not create report dir %s: %v", cfg.ReportDir, err)
	}
	if err := report.WriteJSON(summary, cfg.ReportDir); err != nil {
		logger.Errorf("writing metrics.json: %v", err)
	}

	if cfg.Sweep != nil {
		curve, err := sweep.Run(own, cfg.Sweep.Request())
		if err != nil {
			log.Fatalf("sweep failed: %v", err)
		}
		if err := report.WriteCSV(curve, cfg.ReportDir); err != nil {
			logger.Errorf("writing curves.csv: %v", err)
		}
		logger.Infof("swept %s over %d points", cfg.Sweep.Parameter, len(curve.Points))
	}

	logger.Infof("finished in %v, reports in %s", time.Since(start), cfg.ReportDir)
}

// printSummary renders the call/put metrics table on stdout.
func printSummary(s report.Summary) {
	fmt.Printf("%-14s | %-14s | %-14s\n", "Metric", "Call", "Put")
	fmt.Println("--------------------------------------------------")
	fmt.Printf("%-14s | %14.4f | %14.4f\n", "Price", s.Call.Price, s.Put.Price)
	fmt.Printf("%-14s | %14.4f | %14.4f\n", "Delta", s.Call.Delta, s.Put.Delta)
	fmt.Printf("%-14s | %14.4f | %14.4f\n", "Gamma", s.Call.Gamma, s.Put.Gamma)
	fmt.Printf("%-14s | %14.4f | %14.4f\n", "Vega", s.Call.Vega, s.Put.Vega)
	fmt.Printf("%-14s | %14.4f | %14.4f\n", "Theta (year)", s.Call.Theta, s.Put.Theta)
	fmt.Printf("%-14s | %14.4f | %14.4f\n", "Rho", s.Call.Rho, s.Put.Rho)
	fmt.Println("--------------------------------------------------")
	fmt.Printf("Put-call parity residual: %.6f\n", s.ParityResidual)
}

// solveImpliedVol runs the inverse problem when a target price is
// available: either straight from the config or quoted by a provider.
func solveImpliedVol(cfg *config.Config, own pricing.Pricer) {
	target := cfg.TargetPrice
	if target == 0 && cfg.Underlying != "" {
		prov := chooseProvider(cfg)
		expiry := time.Now().AddDate(0, 0, int(cfg.ExpiryYears*365))
		quote, err := prov.GetOptionQuote(cfg.Underlying, cfg.Strike, expiry, own.Type())
		if err != nil {
			logger.Errorf("fetching quote: %v", err)
			return
		}
		logger.Infof("quoted %s %v @ %.4f", cfg.Underlying, own.Type(), quote)
		target = quote
	}
	if target == 0 {
		return
	}

	iv, err := own.ImpliedVolatility(target)
	if err != nil {
		logger.Errorf("implied vol for target %.4f: %v", target, err)
		return
	}
	fmt.Printf("Implied vol for target %.4f: %.4f%%\n", target, iv*100)
}

func chooseProvider(cfg *config.Config) data.Provider {
	synth := data.NewSyntheticProvider(cfg.Spot, cfg.Rate, cfg.Vol, time.Now().UnixNano())
	apiKey := os.Getenv("POLYGON_API_KEY")
	if apiKey != "" {
		logger.Infof("polygon quote provider enabled")
		return data.NewHTTPQuoteProvider(apiKey, "https://api.polygon.io", synth)
	}
	logger.Infof("synthetic quote provider enabled")
	return synth
}

//
// --- REST mode ---
//

func serveREST(port string) {
	mux := http.NewServeMux()
	mux.HandleFunc("/price", handleQuery(func(p pricing.Pricer) any {
		return map[string]float64{"price": p.Price()}
	}))
	mux.HandleFunc("/greeks", handleQuery(func(p pricing.Pricer) any {
		return report.NewMetrics(p)
	}))
	mux.HandleFunc("/impliedvol", handleImpliedVol)
	mux.HandleFunc("/sweep", handleSweep)
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); w.Write([]byte("ok")) })
	log.Printf("[info] starting REST server on %s", port)
	log.Fatal(http.ListenAndServe(port, mux))
}

// pricerFromQuery builds a Pricer from s, k, t, r, sigma, type params.
func pricerFromQuery(q url.Values) (pricing.Pricer, error) {
	var vals [5]float64
	for i, name := range []string{"s", "k", "t", "r", "sigma"} {
		f, err := strconv.ParseFloat(q.Get(name), 64)
		if err != nil {
			return pricing.Pricer{}, fmt.Errorf("param %q: %w", name, err)
		}
		vals[i] = f
	}
	typ, err := pricing.ParseOptionType(q.Get("type"))
	if err != nil {
		return pricing.Pricer{}, err
	}
	return pricing.New(vals[0], vals[1], vals[2], vals[3], vals[4], typ)
}

func handleQuery(eval func(pricing.Pricer) any) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, err := pricerFromQuery(r.URL.Query())
		if err != nil {
			http.Error(w, err.Error(), statusFor(err))
			return
		}
		writeJSON(w, eval(p))
	}
}

func handleImpliedVol(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	p, err := pricerFromQuery(q)
	if err != nil {
		http.Error(w, err.Error(), statusFor(err))
		return
	}
	target, err := strconv.ParseFloat(q.Get("target"), 64)
	if err != nil {
		http.Error(w, fmt.Sprintf("param %q: %v", "target", err), http.StatusBadRequest)
		return
	}
	iv, err := p.ImpliedVolatility(target)
	if err != nil {
		http.Error(w, err.Error(), statusFor(err))
		return
	}
	writeJSON(w, map[string]float64{"implied_vol": iv})
}

func handleSweep(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	p, err := pricerFromQuery(q)
	if err != nil {
		http.Error(w, err.Error(), statusFor(err))
		return
	}
	points, err := strconv.Atoi(q.Get("points"))
	if err != nil {
		http.Error(w, fmt.Sprintf("param %q: %v", "points", err), http.StatusBadRequest)
		return
	}
	curve, err := sweep.Run(p, sweep.Request{
		Parameter: sweep.Parameter(q.Get("parameter")),
		From:      q.Get("from"),
		To:        q.Get("to"),
		Points:    points,
	})
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	writeJSON(w, curve)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, pricing.ErrInvalidParameter),
		errors.Is(err, pricing.ErrInvalidOptionType),
		errors.Is(err, pricing.ErrArbitrageViolation):
		return http.StatusBadRequest
	}
	var convErr *pricing.ConvergenceError
	if errors.As(err, &convErr) {
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
