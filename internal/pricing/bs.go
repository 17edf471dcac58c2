// Package pricing implements the Black-Scholes-Merton model for European
// options: the closed-form price, the five standard sensitivities (Delta,
// Gamma, Vega, Theta, Rho) and the inverse problem of extracting implied
// volatility from an observed market price.
//
// Conventions:
//   - Vega and Rho are raw per-unit sensitivities (no per-1% scaling).
//   - Theta is expressed per year; divide by 365 for a per-day figure.
//
// The implied volatility solver consumes the same raw Vega, so the Newton
// derivative is exact.
package pricing

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"gonum.org/v1/gonum/stat/distuv"
)

var (
	// ErrInvalidParameter reports a non-positive spot, strike, expiry,
	// volatility, or solver setting.
	ErrInvalidParameter = errors.New("invalid parameter")

	// ErrInvalidOptionType reports an option type outside {call, put}.
	ErrInvalidOptionType = errors.New("invalid option type")

	// ErrArbitrageViolation reports a target price outside the theoretical
	// no-arbitrage bounds for the contract.
	ErrArbitrageViolation = errors.New("target price violates no-arbitrage bounds")
)

// stdNormal is the unit normal distribution used for N(x) and n(x).
// distuv computes the CDF via math.Erf, accurate to well below 1e-8,
// which keeps the Newton iteration downstream stable.
var stdNormal = distuv.Normal{Mu: 0, Sigma: 1}

// OptionType is the contract variant: Call or Put.
type OptionType uint8

const (
	Call OptionType = iota + 1
	Put
)

// ParseOptionType maps "call"/"put" (case-insensitive) to an OptionType.
func ParseOptionType(s string) (OptionType, error) {
	switch strings.ToLower(s) {
	case "call":
		return Call, nil
	case "put":
		return Put, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidOptionType, s)
}

func (t OptionType) String() string {
	switch t {
	case Call:
		return "call"
	case Put:
		return "put"
	}
	return fmt.Sprintf("OptionType(%d)", uint8(t))
}

// Pricer holds the market and contract parameters of a single European
// option. It is immutable after construction: every method is a pure
// function of the stored parameters, so a Pricer may be shared across
// goroutines without synchronization.
type Pricer struct {
	spot   float64
	strike float64
	expiry float64 // time to maturity in years
	rate   float64 // continuously-compounded risk-free rate
	vol    float64 // annualized volatility
	typ    OptionType
}

// New constructs a Pricer.
//
// Parameters:
//   - spot: spot price of the underlying, must be > 0
//   - strike: strike price, must be > 0
//   - expiry: time to maturity in years, must be > 0
//   - rate: risk-free rate, any sign
//   - vol: annualized volatility, must be > 0
//   - typ: Call or Put
//
// Construction either fully succeeds or returns an error; no partially
// validated Pricer is ever observable. Because the constructor rejects
// degenerate inputs, the pricing and Greek methods never divide by zero.
func New(spot, strike, expiry, rate, vol float64, typ OptionType) (Pricer, error) {
	switch {
	case spot <= 0:
		return Pricer{}, fmt.Errorf("%w: spot must be positive, got %g", ErrInvalidParameter, spot)
	case strike <= 0:
		return Pricer{}, fmt.Errorf("%w: strike must be positive, got %g", ErrInvalidParameter, strike)
	case expiry <= 0:
		return Pricer{}, fmt.Errorf("%w: expiry must be positive, got %g", ErrInvalidParameter, expiry)
	case vol <= 0:
		return Pricer{}, fmt.Errorf("%w: volatility must be positive, got %g", ErrInvalidParameter, vol)
	}
	if typ != Call && typ != Put {
		return Pricer{}, fmt.Errorf("%w: %v", ErrInvalidOptionType, typ)
	}
	return Pricer{spot: spot, strike: strike, expiry: expiry, rate: rate, vol: vol, typ: typ}, nil
}

// Accessors for the stored parameters.
func (p Pricer) Spot() float64 { return p.spot }

func (p Pricer) Strike() float64 { return p.strike }

func (p Pricer) Expiry() float64 { return p.expiry }

func (p Pricer) Rate() float64 { return p.rate }

func (p Pricer) Vol() float64 { return p.vol }

func (p Pricer) Type() OptionType { return p.typ }

// withVol returns a copy of p with the volatility replaced. Used by the
// implied volatility solver; callers must guarantee vol > 0.
func (p Pricer) withVol(vol float64) Pricer {
	p.vol = vol
	return p
}

// d1 and d2 are the standard Black-Scholes moneyness/drift terms.
func (p Pricer) d1() float64 {
	return (math.Log(p.spot/p.strike) + (p.rate+0.5*p.vol*p.vol)*p.expiry) / (p.vol * math.Sqrt(p.expiry))
}

func (p Pricer) d2() float64 {
	return p.d1() - p.vol*math.Sqrt(p.expiry)
}

// Price returns the theoretical Black-Scholes price of the option.
//
// The result is non-negative and bounded above by the spot price for a
// call and by the discounted strike for a put.
func (p Pricer) Price() float64 {
	d1 := p.d1()
	d2 := d1 - p.vol*math.Sqrt(p.expiry)
	disc := p.strike * math.Exp(-p.rate*p.expiry)

	if p.typ == Call {
		return p.spot*stdNormal.CDF(d1) - disc*stdNormal.CDF(d2)
	}
	return disc*stdNormal.CDF(-d2) - p.spot*stdNormal.CDF(-d1)
}

// Delta is the sensitivity of the option price to the spot price, i.e.
// the hedge ratio. Lies in (0, 1) for calls and (-1, 0) for puts.
func (p Pricer) Delta() float64 {
	if p.typ == Call {
		return stdNormal.CDF(p.d1())
	}
	return stdNormal.CDF(p.d1()) - 1
}

// Gamma is the second derivative of the price with respect to spot. It is
// identical for calls and puts, always non-negative, and peaks near the
// money.
func (p Pricer) Gamma() float64 {
	return stdNormal.Prob(p.d1()) / (p.spot * p.vol * math.Sqrt(p.expiry))
}

// Vega is the sensitivity of the price to volatility, per unit of
// volatility (not per 1%). Identical for calls and puts, always
// non-negative.
func (p Pricer) Vega() float64 {
	return p.spot * stdNormal.Prob(p.d1()) * math.Sqrt(p.expiry)
}

// Theta is the time decay of the option price, expressed per year.
// Typically negative for long positions.
func (p Pricer) Theta() float64 {
	d1 := p.d1()
	d2 := d1 - p.vol*math.Sqrt(p.expiry)
	decay := -(p.spot * stdNormal.Prob(d1) * p.vol) / (2 * math.Sqrt(p.expiry))
	carry := p.rate * p.strike * math.Exp(-p.rate*p.expiry)

	if p.typ == Call {
		return decay - carry*stdNormal.CDF(d2)
	}
	return decay + carry*stdNormal.CDF(-d2)
}

// Rho is the sensitivity of the price to the risk-free rate, per unit of
// rate (not per 1%).
func (p Pricer) Rho() float64 {
	d2 := p.d2()
	disc := p.strike * p.expiry * math.Exp(-p.rate*p.expiry)

	if p.typ == Call {
		return disc * stdNormal.CDF(d2)
	}
	return -disc * stdNormal.CDF(-d2)
}
