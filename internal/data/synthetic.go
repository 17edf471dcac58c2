package data

import (
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/contactkeval/option-pricer/internal/pricing"
)

// synthQuoteProvider generates model-consistent quotes: Black-Scholes
// prices at a baseline volatility with a small moneyness skew and
// bounded noise. Useful for demos and tests without an API key.
type synthQuoteProvider struct {
	spot      float64
	rate      float64
	baseVol   float64
	rng       *rand.Rand
	secondary Provider
}

// NewSyntheticProvider returns a Provider quoting off the given spot and
// rate at baseVol. The seed makes the noise reproducible.
func NewSyntheticProvider(spot, rate, baseVol float64, seed int64) Provider {
	return &synthQuoteProvider{
		spot:    spot,
		rate:    rate,
		baseVol: baseVol,
		rng:     rand.New(rand.NewSource(seed)),
	}
}

func (synthQuoteProv *synthQuoteProvider) Secondary() Provider {
	return synthQuoteProv.secondary
}

func (synthQuoteProv *synthQuoteProvider) GetOptionQuote(underlying string, strike float64, expiry time.Time, typ pricing.OptionType) (float64, error) {
	if synthQuoteProv.secondary != nil {
		return synthQuoteProv.secondary.GetOptionQuote(underlying, strike, expiry, typ)
	}

	years := time.Until(expiry).Hours() / (24 * 365)
	if years <= 0 {
		return 0, fmt.Errorf("expiry %s is not in the future", expiry.Format("2006-01-02"))
	}

	// Mild smile: vol rises away from the money, plus up to 5% relative noise.
	moneyness := math.Abs(math.Log(synthQuoteProv.spot / strike))
	vol := synthQuoteProv.baseVol * (1 + 0.25*moneyness + 0.05*synthQuoteProv.rng.Float64())

	p, err := pricing.New(synthQuoteProv.spot, strike, years, synthQuoteProv.rate, vol, typ)
	if err != nil {
		return 0, err
	}
	return p.Price(), nil
}
