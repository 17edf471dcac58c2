// Package sweep evaluates the pricing query surface across a range of
// spot or volatility values, producing the price/Greek curves consumed by
// plotting and reporting tools. The engine side stops at the numbers;
// rendering is someone else's job.
package sweep

import (
	"errors"
	"fmt"

	"github.com/Knetic/govaluate"

	"github.com/contactkeval/option-pricer/internal/pricing"
)

var (
	ErrUnknownParameter = errors.New("unknown sweep parameter")
	ErrInvalidRange     = errors.New("invalid sweep range")
	ErrInvalidPoints    = errors.New("sweep needs at least two points")
	ErrBadExpression    = errors.New("invalid bound expression")
)

// Parameter names the axis a sweep varies.
type Parameter string

const (
	Spot Parameter = "spot"
	Vol  Parameter = "vol"
)

// Request describes one sweep. From and To are expressions over the base
// pricer's spot (S) and strike (K), e.g. "S * 0.5" or "120", so configs
// can describe ranges relative to the contract the way strike rules do.
type Request struct {
	Parameter Parameter `json:"parameter"`
	From      string    `json:"from"`
	To        string    `json:"to"`
	Points    int       `json:"points"`
}

// Point is one evaluation of the full query surface.
type Point struct {
	X     float64 `json:"x"`
	Price float64 `json:"price"`
	Delta float64 `json:"delta"`
	Gamma float64 `json:"gamma"`
	Vega  float64 `json:"vega"`
	Theta float64 `json:"theta"`
	Rho   float64 `json:"rho"`
}

// Curve is the result of a sweep.
type Curve struct {
	Parameter Parameter `json:"parameter"`
	Points    []Point   `json:"points"`
}

// Run sweeps the requested parameter over [From, To] with Points evenly
// spaced samples, holding the base pricer's remaining parameters fixed.
func Run(base pricing.Pricer, req Request) (*Curve, error) {
	if req.Parameter != Spot && req.Parameter != Vol {
		return nil, fmt.Errorf("%w: %q", ErrUnknownParameter, req.Parameter)
	}
	if req.Points < 2 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidPoints, req.Points)
	}

	from, err := resolveBound(req.From, base)
	if err != nil {
		return nil, fmt.Errorf("from bound: %w", err)
	}
	to, err := resolveBound(req.To, base)
	if err != nil {
		return nil, fmt.Errorf("to bound: %w", err)
	}
	if from <= 0 || to <= from {
		return nil, fmt.Errorf("%w: [%g, %g]", ErrInvalidRange, from, to)
	}

	step := (to - from) / float64(req.Points-1)
	curve := &Curve{Parameter: req.Parameter, Points: make([]Point, 0, req.Points)}

	for i := 0; i < req.Points; i++ {
		x := from + float64(i)*step

		var p pricing.Pricer
		switch req.Parameter {
		case Spot:
			p, err = pricing.New(x, base.Strike(), base.Expiry(), base.Rate(), base.Vol(), base.Type())
		case Vol:
			p, err = pricing.New(base.Spot(), base.Strike(), base.Expiry(), base.Rate(), x, base.Type())
		}
		if err != nil {
			return nil, err
		}

		curve.Points = append(curve.Points, Point{
			X:     x,
			Price: p.Price(),
			Delta: p.Delta(),
			Gamma: p.Gamma(),
			Vega:  p.Vega(),
			Theta: p.Theta(),
			Rho:   p.Rho(),
		})
	}

	return curve, nil
}

// resolveBound evaluates a bound expression with S and K bound to the
// base pricer's spot and strike. Plain numbers are valid expressions.
func resolveBound(expr string, base pricing.Pricer) (float64, error) {
	evalExpr, err := govaluate.NewEvaluableExpression(expr)
	if err != nil {
		return 0, fmt.Errorf("%w: %q: %v", ErrBadExpression, expr, err)
	}

	result, err := evalExpr.Evaluate(map[string]interface{}{
		"S": base.Spot(),
		"K": base.Strike(),
	})
	if err != nil {
		return 0, fmt.Errorf("%w: %q: %v", ErrBadExpression, expr, err)
	}

	f, ok := result.(float64)
	if !ok {
		return 0, fmt.Errorf("%w: %q is not numeric", ErrBadExpression, expr)
	}
	return f, nil
}
