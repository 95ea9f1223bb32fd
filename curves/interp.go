package curves

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/interp"
)

// dfInterpolator is the tagged interpolator variant: each case wraps its
// fitted spline state and maps the interpolated quantity back to a
// discount factor.
type dfInterpolator interface {
	df(t float64) float64
}

// expInterp interpolates log discount factors.
type expInterp struct {
	p interp.FittablePredictor
}

func (e expInterp) df(t float64) float64 {
	return math.Exp(e.p.Predict(t))
}

// cczrInterp interpolates continuously-compounded zero rates.
type cczrInterp struct {
	p     interp.FittablePredictor
	tEval float64
}

func (z cczrInterp) df(t float64) float64 {
	return math.Exp(z.p.Predict(t) * (t - z.tEval))
}

// rebuild fits the interpolator for the curve's mode over the extended
// pillar arrays.
func (c *Curve) rebuild() error {
	switch c.mode {
	case LinearLogDF, CubicLogDF:
		logdf := make([]float64, len(c.dfs))
		for i, df := range c.dfs {
			logdf[i] = math.Log(df)
		}
		p, err := fitPredictor(c.mode, c.times, logdf)
		if err != nil {
			return fmt.Errorf("%w: curve %s: %v", ErrInvariant, c.id, err)
		}
		c.interp = expInterp{p: p}
	case LinearCCZR:
		// CCZR at the eval date is undefined; it is taken from the first
		// pillar instead.
		cczr := make([]float64, len(c.dfs))
		for i := 1; i < len(c.dfs); i++ {
			cczr[i] = math.Log(c.dfs[i]) / (c.times[i] - c.evalDate)
		}
		cczr[0] = cczr[1]
		p := &interp.PiecewiseLinear{}
		if err := p.Fit(c.times, cczr); err != nil {
			return fmt.Errorf("%w: curve %s: %v", ErrInvariant, c.id, err)
		}
		c.interp = cczrInterp{p: p, tEval: c.evalDate}
	default:
		return fmt.Errorf("%w: curve %s: invalid interpolation mode %s", ErrInvariant, c.id, c.mode)
	}
	return nil
}

func fitPredictor(mode InterpolationMode, xs, ys []float64) (interp.FittablePredictor, error) {
	var p interp.FittablePredictor
	switch mode {
	case CubicLogDF:
		p = &interp.NotAKnotCubic{}
	default:
		p = &interp.PiecewiseLinear{}
	}
	if err := p.Fit(xs, ys); err != nil {
		return nil, err
	}
	return p, nil
}
