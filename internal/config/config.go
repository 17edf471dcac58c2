// Package config loads and validates pricing job configs from JSON.
package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"

	"github.com/contactkeval/option-pricer/internal/sweep"
)

// Config describes one pricing job.
type Config struct {
	Underlying  string  `json:"underlying,omitempty"`                             // e.g. "AAPL", used to fetch quotes
	Spot        float64 `json:"spot" validate:"gt=0"`                             // underlying spot price
	Strike      float64 `json:"strike" validate:"gt=0"`                           // strike price
	ExpiryYears float64 `json:"expiry_years" validate:"gt=0"`                     // time to maturity in years
	Rate        float64 `json:"rate"`                                             // risk-free rate, any sign
	Vol         float64 `json:"vol" validate:"gt=0"`                              // annualized volatility
	OptionType  string  `json:"option_type" validate:"oneof=call put"`            // "call" or "put"
	TargetPrice float64 `json:"target_price,omitempty" validate:"omitempty,gt=0"` // solve implied vol against this; 0 = fetch a quote
	Sweep       *Sweep  `json:"sweep,omitempty"`                                  // optional curve sweep
	ReportDir   string  `json:"report_dir,omitempty"`                             // output directory, default "./out"
	Verbosity   int     `json:"verbosity,omitempty" validate:"min=0,max=3"`       // 0=errors,1=info,2=debug,3=trace
}

// Sweep mirrors sweep.Request with validation tags.
type Sweep struct {
	Parameter string `json:"parameter" validate:"oneof=spot vol"`
	From      string `json:"from" validate:"required"`
	To        string `json:"to" validate:"required"`
	Points    int    `json:"points" validate:"min=2"`
}

// Request converts the config block to a sweep.Request.
func (s *Sweep) Request() sweep.Request {
	return sweep.Request{
		Parameter: sweep.Parameter(s.Parameter),
		From:      s.From,
		To:        s.To,
		Points:    s.Points,
	}
}

var validate = validator.New()

// Load reads, unmarshals, and validates a job config.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(b, &cfg); err != nil {
		return nil, fmt.Errorf("invalid config JSON: %w", err)
	}

	// validator dives into the Sweep block on its own when present
	if err := validate.Struct(&cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	if cfg.ReportDir == "" {
		cfg.ReportDir = "./out"
	}
	return &cfg, nil
}
