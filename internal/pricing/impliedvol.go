package pricing

import (
	"fmt"
	"math"
)

// Solver defaults, overridable per call via SolverOption.
const (
	DefaultInitialGuess  = 0.20
	DefaultTolerance     = 1e-6
	DefaultMaxIterations = 100
)

const (
	// vegaEpsilon is the threshold below which the Newton step is
	// considered undefined and the solver falls back to bisection.
	vegaEpsilon = 1e-10

	// Bisection bracket for the fallback search. Price is strictly
	// increasing in volatility, so any attainable target is bracketed.
	bisectLow  = 1e-6
	bisectHigh = 5.0
)

// SolverOption overrides an ImpliedVolatility default.
type SolverOption func(*solverConfig)

type solverConfig struct {
	guess   float64
	tol     float64
	maxIter int
}

// WithInitialGuess sets the starting volatility, must be > 0.
func WithInitialGuess(guess float64) SolverOption {
	return func(c *solverConfig) { c.guess = guess }
}

// WithTolerance sets the price-space convergence tolerance, must be > 0.
func WithTolerance(tol float64) SolverOption {
	return func(c *solverConfig) { c.tol = tol }
}

// WithMaxIterations bounds the iteration count, must be > 0.
func WithMaxIterations(n int) SolverOption {
	return func(c *solverConfig) { c.maxIter = n }
}

// ConvergenceError reports that the solver exhausted its iteration budget
// without meeting the tolerance. It carries the last estimate and residual
// for diagnostics.
type ConvergenceError struct {
	LastEstimate float64 // volatility at the final iteration
	Residual     float64 // model price minus target at the final iteration
	Iterations   int
}

func (e *ConvergenceError) Error() string {
	return fmt.Sprintf("implied volatility did not converge after %d iterations (last estimate %g, residual %g)",
		e.Iterations, e.LastEstimate, e.Residual)
}

// ImpliedVolatility inverts the pricing formula with respect to
// volatility: it returns a sigma such that a Pricer with that sigma
// reproduces target within the tolerance. The receiver's own volatility
// is ignored; all other parameters are taken from it.
//
// The search is Newton-Raphson on the raw Vega. When Vega is numerically
// flat (deep in or out of the money) the solver falls back to bisection
// over [1e-6, 5.0]. A Newton step that would drive sigma non-positive is
// clamped to half the previous estimate, so the returned volatility is
// always positive.
//
// Errors:
//   - ErrInvalidParameter for non-positive guess, tolerance, or iteration cap
//   - ErrArbitrageViolation when target lies outside the theoretical bounds
//   - *ConvergenceError when the iteration budget is exhausted
func (p Pricer) ImpliedVolatility(target float64, opts ...SolverOption) (float64, error) {
	cfg := solverConfig{
		guess:   DefaultInitialGuess,
		tol:     DefaultTolerance,
		maxIter: DefaultMaxIterations,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	switch {
	case cfg.guess <= 0:
		return 0, fmt.Errorf("%w: initial guess must be positive, got %g", ErrInvalidParameter, cfg.guess)
	case cfg.tol <= 0:
		return 0, fmt.Errorf("%w: tolerance must be positive, got %g", ErrInvalidParameter, cfg.tol)
	case cfg.maxIter <= 0:
		return 0, fmt.Errorf("%w: max iterations must be positive, got %d", ErrInvalidParameter, cfg.maxIter)
	}

	if err := p.checkArbitrageBounds(target); err != nil {
		return 0, err
	}

	sigma := cfg.guess
	var diff float64
	for i := 0; i < cfg.maxIter; i++ {
		trial := p.withVol(sigma)
		diff = trial.Price() - target

		if math.Abs(diff) < cfg.tol {
			return sigma, nil
		}

		vega := trial.Vega()
		if vega < vegaEpsilon {
			// Flat derivative: Newton is undefined here.
			return p.bisect(target, cfg.tol, cfg.maxIter)
		}

		next := sigma - diff/vega
		if next <= 0 {
			next = sigma / 2
		}
		sigma = next
	}

	return 0, &ConvergenceError{LastEstimate: sigma, Residual: diff, Iterations: cfg.maxIter}
}

// checkArbitrageBounds rejects targets no volatility can reproduce:
// below intrinsic value or at/above the undiscounted spot (calls) or
// discounted strike (puts). Without this check Newton can diverge or
// chase a negative volatility.
func (p Pricer) checkArbitrageBounds(target float64) error {
	disc := p.strike * math.Exp(-p.rate*p.expiry)

	var lower, upper float64
	if p.typ == Call {
		lower = math.Max(0, p.spot-disc)
		upper = p.spot
	} else {
		lower = math.Max(0, disc-p.spot)
		upper = disc
	}

	if target <= lower || target >= upper {
		return fmt.Errorf("%w: target %g outside (%g, %g) for %v", ErrArbitrageViolation, target, lower, upper, p.typ)
	}
	return nil
}

// bisect searches [bisectLow, bisectHigh] for the target price, relying
// on the strict monotonicity of price in volatility.
func (p Pricer) bisect(target, tol float64, maxIter int) (float64, error) {
	low, high := bisectLow, bisectHigh
	mid, diff := low, math.Inf(1)

	for i := 0; i < maxIter; i++ {
		mid = (low + high) / 2
		diff = p.withVol(mid).Price() - target

		if math.Abs(diff) < tol {
			return mid, nil
		}
		if diff < 0 {
			low = mid
		} else {
			high = mid
		}
	}

	return 0, &ConvergenceError{LastEstimate: mid, Residual: diff, Iterations: maxIter}
}
