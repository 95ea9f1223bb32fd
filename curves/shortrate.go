package curves

import (
	"math"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"
)

// FromShortRateModel synthesises a curve from an Euler discretisation of a
// mean-reverting short-rate process
//
//	dr = speed·(mean − r)·dt + sigma·dW
//
// over the given time grid (days). The seed controls the Gaussian stream so
// fixtures are reproducible. Intended for generating test curves.
func FromShortRateModel(id string, times []float64, r0, speed, mean, sigma float64, mode InterpolationMode, seed uint64) (*Curve, error) {
	gauss := distuv.Normal{Mu: 0, Sigma: 1, Src: rand.NewSource(seed)}
	r := r0
	dfs := make([]float64, len(times)-1)
	df := 1.0
	for i := 0; i < len(times)-1; i++ {
		dt := (times[i+1] - times[i]) / 365.0
		df *= math.Exp(-r * dt)
		dfs[i] = df
		r += speed*(mean-r)*dt + sigma*gauss.Rand()*math.Sqrt(dt)
	}
	return NewCurve(id, times[0], times[1:], dfs, mode)
}
