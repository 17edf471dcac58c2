// Package data supplies observed option prices for the implied
// volatility solver. Providers are chainable: a provider may delegate to
// its Secondary() when it cannot serve a quote itself.
package data

import (
	"time"

	"github.com/contactkeval/option-pricer/internal/pricing"
)

// Provider supplies market option quotes.
type Provider interface {
	Secondary() Provider
	GetOptionQuote(underlying string, strike float64, expiry time.Time, typ pricing.OptionType) (float64, error)
}
