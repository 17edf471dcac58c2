package sweep

import (
	"errors"
	"math"
	"testing"

	"github.com/contactkeval/option-pricer/internal/pricing"
)

func basePricer(t *testing.T, typ pricing.OptionType) pricing.Pricer {
	t.Helper()
	p, err := pricing.New(100, 100, 1, 0.05, 0.2, typ)
	if err != nil {
		t.Fatalf("pricing.New: %v", err)
	}
	return p
}

func TestSpotSweepCallPriceIncreasing(t *testing.T) {
	curve, err := Run(basePricer(t, pricing.Call), Request{
		Parameter: Spot, From: "50", To: "150", Points: 101,
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(curve.Points) != 101 {
		t.Fatalf("got %d points, want 101", len(curve.Points))
	}
	if first := curve.Points[0].X; !withinTol(first, 50, 1e-9) {
		t.Errorf("first x = %f, want 50", first)
	}
	if last := curve.Points[100].X; !withinTol(last, 150, 1e-9) {
		t.Errorf("last x = %f, want 150", last)
	}

	for i := 1; i < len(curve.Points); i++ {
		if curve.Points[i].Price <= curve.Points[i-1].Price {
			t.Fatalf("call price not increasing in spot at x=%f", curve.Points[i].X)
		}
	}
}

func TestSweepExpressionBounds(t *testing.T) {
	curve, err := Run(basePricer(t, pricing.Call), Request{
		Parameter: Spot, From: "S * 0.5", To: "S * 1.5", Points: 11,
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if x := curve.Points[0].X; !withinTol(x, 50, 1e-9) {
		t.Errorf("from bound resolved to %f, want 50", x)
	}
	if x := curve.Points[10].X; !withinTol(x, 150, 1e-9) {
		t.Errorf("to bound resolved to %f, want 150", x)
	}
}

func TestGammaPeaksNearTheMoney(t *testing.T) {
	curve, err := Run(basePricer(t, pricing.Call), Request{
		Parameter: Spot, From: "K * 0.5", To: "K * 1.5", Points: 201,
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	maxX, maxGamma := 0.0, math.Inf(-1)
	for _, pt := range curve.Points {
		if pt.Gamma > maxGamma {
			maxX, maxGamma = pt.X, pt.Gamma
		}
	}
	if math.Abs(maxX-100) > 10 {
		t.Errorf("gamma peak at x=%f, want near strike 100", maxX)
	}
}

func TestVolSweepPriceIncreasing(t *testing.T) {
	for _, typ := range []pricing.OptionType{pricing.Call, pricing.Put} {
		curve, err := Run(basePricer(t, typ), Request{
			Parameter: Vol, From: "0.05", To: "1.0", Points: 50,
		})
		if err != nil {
			t.Fatalf("Run(%v): %v", typ, err)
		}
		for i := 1; i < len(curve.Points); i++ {
			if curve.Points[i].Price <= curve.Points[i-1].Price {
				t.Fatalf("%v price not increasing in vol at x=%f", typ, curve.Points[i].X)
			}
		}
	}
}

func TestSweepErrors(t *testing.T) {
	base := basePricer(t, pricing.Call)

	cases := []struct {
		name string
		req  Request
		want error
	}{
		{"unknown parameter", Request{Parameter: "rate", From: "1", To: "2", Points: 5}, ErrUnknownParameter},
		{"too few points", Request{Parameter: Spot, From: "50", To: "150", Points: 1}, ErrInvalidPoints},
		{"malformed expression", Request{Parameter: Spot, From: "S *", To: "150", Points: 5}, ErrBadExpression},
		{"non-numeric expression", Request{Parameter: Spot, From: "S > K", To: "150", Points: 5}, ErrBadExpression},
		{"inverted range", Request{Parameter: Spot, From: "150", To: "50", Points: 5}, ErrInvalidRange},
		{"non-positive from", Request{Parameter: Vol, From: "0", To: "1", Points: 5}, ErrInvalidRange},
	}
	for _, c := range cases {
		_, err := Run(base, c.req)
		if !errors.Is(err, c.want) {
			t.Errorf("%s: got error %v, want %v", c.name, err, c.want)
		}
	}
}

func withinTol(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}
