package builder

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/meenmo/curvekit/config"
)

// residualFunc evaluates the residual vector at a parameter vector. It is
// a pure function of its argument given a fixed curve map structure.
type residualFunc func(x []float64) ([]float64, error)

// solveLeastSquares runs a damped (Levenberg-Marquardt) least-squares
// iteration with the parameter vector bounded below at
// cfg.MinDiscountFactor: numerical Jacobian, damped step, clamp, retry
// with stiffer damping on a rejected step.
func solveLeastSquares(fun residualFunc, x0 []float64, cfg config.Config) ([]float64, error) {
	n := len(x0)
	x := make([]float64, n)
	for i, v := range x0 {
		x[i] = math.Max(v, cfg.MinDiscountFactor)
	}
	r, err := fun(x)
	if err != nil {
		return nil, err
	}
	m := len(r)
	if m == 0 || n == 0 {
		return x, nil
	}

	lambda := cfg.LambdaInit
	for iter := 0; iter < cfg.MaxSolverIterations; iter++ {
		if maxAbs(r) < cfg.SolverTolerance {
			return x, nil
		}

		jac, err := numericalJacobian(fun, x, r, cfg.FiniteDifferenceStep)
		if err != nil {
			return nil, err
		}

		// Normal equations: (JᵀJ + λ·diag(JᵀJ)) δ = Jᵀ r.
		var jtj mat.Dense
		jtj.Mul(jac.T(), jac)
		g := make([]float64, n)
		for j := 0; j < n; j++ {
			s := 0.0
			for i := 0; i < m; i++ {
				s += jac.At(i, j) * r[i]
			}
			g[j] = s
		}

		accepted := false
		for k := 0; k < cfg.MaxDampingSteps; k++ {
			var a mat.Dense
			a.CloneFrom(&jtj)
			for j := 0; j < n; j++ {
				d := jtj.At(j, j)
				if d == 0 {
					d = 1.0
				}
				a.Set(j, j, d*(1.0+lambda))
			}
			var delta mat.VecDense
			if err := delta.SolveVec(&a, mat.NewVecDense(n, g)); err != nil {
				lambda *= cfg.LambdaUp
				continue
			}
			trial := make([]float64, n)
			for j := 0; j < n; j++ {
				trial[j] = math.Max(x[j]-delta.AtVec(j), cfg.MinDiscountFactor)
			}
			rTrial, err := fun(trial)
			if err != nil {
				return nil, err
			}
			if norm2(rTrial) < norm2(r) {
				x, r = trial, rTrial
				lambda = math.Max(lambda*cfg.LambdaDown, 1e-14)
				accepted = true
				break
			}
			lambda *= cfg.LambdaUp
		}
		if !accepted {
			break
		}
	}
	if maxAbs(r) < cfg.SolverTolerance {
		return x, nil
	}
	return nil, fmt.Errorf("%w: least squares did not converge (max residual %g)", ErrSolver, maxAbs(r))
}

// numericalJacobian builds the m-by-n forward-difference Jacobian of fun
// at x, reusing the already evaluated residual r0.
func numericalJacobian(fun residualFunc, x, r0 []float64, step float64) (*mat.Dense, error) {
	m, n := len(r0), len(x)
	jac := mat.NewDense(m, n, nil)
	bumped := make([]float64, n)
	copy(bumped, x)
	for j := 0; j < n; j++ {
		bumped[j] = x[j] + step
		r, err := fun(bumped)
		if err != nil {
			return nil, err
		}
		for i := 0; i < m; i++ {
			jac.Set(i, j, (r[i]-r0[i])/step)
		}
		bumped[j] = x[j]
	}
	return jac, nil
}

func maxAbs(v []float64) float64 {
	out := 0.0
	for _, x := range v {
		if a := math.Abs(x); a > out {
			out = a
		}
	}
	return out
}

func norm2(v []float64) float64 {
	s := 0.0
	for _, x := range v {
		s += x * x
	}
	return s
}
