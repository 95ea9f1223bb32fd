// Package risk computes delta risk of calibrated curves: the response of
// the curve map to par-rate bumps of selected instruments, either by a
// full re-solve or by one linear application of the cached Jacobian
// pseudo-inverse.
package risk

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/mat"

	"github.com/meenmo/curvekit/builder"
	"github.com/meenmo/curvekit/curves"
)

// ErrLookup marks a selection that resolves to no instruments.
var ErrLookup = errors.New("risk: not found")

// BumpType selects how the bumped curve map is produced.
type BumpType int

const (
	// FullRebuild re-solves the curves from bumped prices (authoritative).
	FullRebuild BumpType = iota
	// JacobianRebuild applies the inverse Jacobian linearly (fast).
	JacobianRebuild
)

// RiskCalculator bumps instrument par rates and rebuilds curves. The input
// build output is never mutated; full rebuilds are memoised per
// (instrument set, bump size).
type RiskCalculator struct {
	engine *builder.CurveBuilder
	output *builder.BuildOutput
	cache  map[string]*curves.CurveMap
}

// NewRiskCalculator wires a calculator to a curve builder and its build
// output.
func NewRiskCalculator(engine *builder.CurveBuilder, output *builder.BuildOutput) *RiskCalculator {
	return &RiskCalculator{
		engine: engine,
		output: output,
		cache:  make(map[string]*curves.CurveMap),
	}
}

// FindInstruments returns the sorted input-price names matching the
// regular expression (anchored at the start of the name). Zero matches is
// an error.
func (rc *RiskCalculator) FindInstruments(pattern string) ([]string, error) {
	rx, err := regexp.Compile("^(?:" + pattern + ")")
	if err != nil {
		return nil, fmt.Errorf("%w: invalid pattern %q: %v", ErrLookup, pattern, err)
	}
	names := rc.output.InputPrices.Names()
	sort.Strings(names)
	out := make([]string, 0, len(names))
	for _, n := range names {
		if rx.MatchString(n) {
			out = append(out, n)
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%w: regex pattern %q corresponds to no instruments", ErrLookup, pattern)
	}
	return out, nil
}

// BumpedCurveMap returns the curve map after bumping the par rates of the
// named instruments by bump.
func (rc *RiskCalculator) BumpedCurveMap(instrumentNames []string, bump float64, bt BumpType) (*curves.CurveMap, error) {
	switch bt {
	case FullRebuild:
		return rc.bumpedFull(instrumentNames, bump)
	case JacobianRebuild:
		return rc.bumpedJacobian(instrumentNames, bump)
	}
	return nil, fmt.Errorf("risk: unknown bump type %d", int(bt))
}

func cacheKey(instrumentNames []string, bump float64) string {
	sorted := append([]string(nil), instrumentNames...)
	sort.Strings(sorted)
	return strings.Join(sorted, "\x1f") + "\x1f" + strconv.FormatFloat(bump, 'g', -1, 64)
}

func (rc *RiskCalculator) bumpedFull(instrumentNames []string, bump float64) (*curves.CurveMap, error) {
	key := cacheKey(instrumentNames, bump)
	if cm, ok := rc.cache[key]; ok {
		return cm, nil
	}
	bumped := rc.output.InputPrices.Clone()
	for _, name := range instrumentNames {
		price, err := bumped.Get(name)
		if err != nil {
			return nil, err
		}
		inst, err := rc.engine.InstrumentByName(name)
		if err != nil {
			return nil, fmt.Errorf("%w: instrument %s", ErrLookup, name)
		}
		bumped.Set(name, price+bump*inst.DRDP())
	}
	out, err := rc.engine.BuildCurves(bumped)
	if err != nil {
		return nil, err
	}
	rc.cache[key] = out.OutputCurveMap
	return out.OutputCurveMap, nil
}

func (rc *RiskCalculator) bumpedJacobian(instrumentNames []string, bump float64) (*curves.CurveMap, error) {
	position := make(map[string]int, len(rc.output.Instruments))
	for i, inst := range rc.output.Instruments {
		position[inst.Name()] = i
	}
	rateBumps := make([]float64, len(rc.output.Instruments))
	for _, name := range instrumentNames {
		ix, ok := position[name]
		if !ok {
			return nil, fmt.Errorf("%w: instrument %s", ErrLookup, name)
		}
		rateBumps[ix] = bump
	}

	// dI/dP has pillar rows and instrument columns; the pillar response to
	// the rate bumps is b·pinv(dI/dP).
	responses, err := leftApplyPinv(rateBumps, rc.output.JacobianDIDP)
	if err != nil {
		return nil, err
	}

	bumped := rc.output.OutputCurveMap.Clone()
	ids := bumped.IDs()
	dofs := bumped.DOFs(ids)
	for i := range dofs {
		dofs[i] += responses[i]
	}
	if err := bumped.SetDOFs(ids, dofs); err != nil {
		return nil, err
	}
	return bumped, nil
}

// leftApplyPinv computes b·pinv(J) through the SVD of J, tolerating
// rank-deficient or non-square Jacobians. With J = U·Σ·Vᵀ the row-vector
// product is U·Σ⁺·Vᵀ·b.
func leftApplyPinv(b []float64, jac *mat.Dense) ([]float64, error) {
	var svd mat.SVD
	if ok := svd.Factorize(jac, mat.SVDThin); !ok {
		return nil, fmt.Errorf("risk: SVD of the Jacobian failed")
	}
	var u, v mat.Dense
	svd.UTo(&u)
	svd.VTo(&v)
	values := svd.Values(nil)

	rcond := 1e-15 * values[0]
	var t mat.VecDense
	t.MulVec(v.T(), mat.NewVecDense(len(b), b))
	for i := 0; i < t.Len(); i++ {
		if values[i] > rcond {
			t.SetVec(i, t.AtVec(i)/values[i])
		} else {
			t.SetVec(i, 0)
		}
	}
	var out mat.VecDense
	out.MulVec(&u, &t)
	return out.RawVector().Data, nil
}
