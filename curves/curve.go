// Package curves implements discount curves over pillar dates, their
// interpolation schemes in discount-factor space, and the ordered curve map
// whose degrees of freedom form the calibration parameter vector.
package curves

import (
	"errors"
	"fmt"
	"math"

	"github.com/meenmo/curvekit/conventions"
	"github.com/meenmo/curvekit/dates"
)

var (
	// ErrInvariant marks curve construction or queries violating the
	// curve's invariants.
	ErrInvariant = errors.New("curves: invariant violated")
	// ErrLookup marks an unknown curve id.
	ErrLookup = errors.New("curves: not found")
)

// InterpolationMode selects the quantity and scheme interpolated between
// pillars.
type InterpolationMode int

const (
	// LinearLogDF interpolates log discount factors piecewise linearly.
	LinearLogDF InterpolationMode = iota
	// LinearCCZR interpolates continuously-compounded zero rates piecewise
	// linearly.
	LinearCCZR
	// CubicLogDF interpolates log discount factors with a cubic spline.
	CubicLogDF
)

func (m InterpolationMode) String() string {
	switch m {
	case LinearLogDF:
		return "LINEAR_LOGDF"
	case LinearCCZR:
		return "LINEAR_CCZR"
	case CubicLogDF:
		return "CUBIC_LOGDF"
	}
	return fmt.Sprintf("InterpolationMode(%d)", int(m))
}

// ParseInterpolationMode reads the curve-properties table spelling.
func ParseInterpolationMode(s string) (InterpolationMode, error) {
	switch s {
	case "LINEAR_LOGDF":
		return LinearLogDF, nil
	case "LINEAR_CCZR":
		return LinearCCZR, nil
	case "CUBIC_LOGDF":
		return CubicLogDF, nil
	}
	return 0, fmt.Errorf("%w: unable to convert %q to an interpolation mode, possible values are LINEAR_LOGDF,LINEAR_CCZR,CUBIC_LOGDF", ErrInvariant, s)
}

// Curve holds discount factors at pillar times on an integer-day axis. The
// evaluation date is prepended internally with a discount factor of exactly
// 1.0; it is never supplied by the caller.
type Curve struct {
	id       string
	evalDate float64
	times    []float64 // eval date prepended
	dfs      []float64 // leading 1.0 aligned to the eval date
	mode     InterpolationMode
	interp   dfInterpolator
}

// NewCurve builds a curve from pillar times strictly after evalDate and
// their discount factors. times and dfs must have equal, non-zero length.
func NewCurve(id string, evalDate float64, times, dfs []float64, mode InterpolationMode) (*Curve, error) {
	if len(times) == 0 {
		return nil, fmt.Errorf("%w: unable to create curve %s: vector of times is empty", ErrInvariant, id)
	}
	if len(times) != len(dfs) {
		return nil, fmt.Errorf("%w: unable to create curve %s: %d times vs %d dfs", ErrInvariant, id, len(times), len(dfs))
	}
	if times[0] == evalDate {
		return nil, fmt.Errorf("%w: unable to create curve %s: DF at eval date cannot be provided externally, it is assumed to be 1.0 always", ErrInvariant, id)
	}
	prev := evalDate
	for i, t := range times {
		if t <= prev {
			return nil, fmt.Errorf("%w: unable to create curve %s: times must be strictly increasing after eval date %g", ErrInvariant, id, evalDate)
		}
		if dfs[i] <= 0 {
			return nil, fmt.Errorf("%w: unable to create curve %s: non-positive discount factor %g at time %g", ErrInvariant, id, dfs[i], t)
		}
		prev = t
	}
	c := &Curve{
		id:       id,
		evalDate: evalDate,
		times:    append([]float64{evalDate}, times...),
		dfs:      append([]float64{1.0}, dfs...),
		mode:     mode,
	}
	if err := c.rebuild(); err != nil {
		return nil, fmt.Errorf("unable to create curve %s: %w", id, err)
	}
	return c, nil
}

// ID returns the curve's identifier.
func (c *Curve) ID() string { return c.id }

// EvalDate returns the curve's evaluation time.
func (c *Curve) EvalDate() float64 { return c.evalDate }

// Mode returns the interpolation mode.
func (c *Curve) Mode() InterpolationMode { return c.mode }

// Times returns the pillar times including the prepended eval date.
func (c *Curve) Times() []float64 {
	out := make([]float64, len(c.times))
	copy(out, c.times)
	return out
}

func (c *Curve) String() string { return c.id }

// DF returns the interpolated discount factor at t. Queries outside the
// pillar range fail.
func (c *Curve) DF(t float64) (float64, error) {
	if err := c.checkRange(t, t); err != nil {
		return 0, err
	}
	return c.interp.df(t), nil
}

// DFs returns discount factors at each time in ts.
func (c *Curve) DFs(ts []float64) ([]float64, error) {
	if len(ts) == 0 {
		return nil, nil
	}
	if err := c.checkRange(ts[0], ts[len(ts)-1]); err != nil {
		return nil, err
	}
	out := make([]float64, len(ts))
	for i, t := range ts {
		if err := c.checkRange(t, t); err != nil {
			return nil, err
		}
		out[i] = c.interp.df(t)
	}
	return out, nil
}

func (c *Curve) checkRange(lo, hi float64) error {
	if lo < c.times[0] || hi > c.times[len(c.times)-1] {
		return fmt.Errorf("%w: unable to get discount factor for dates [%g..%g] from curve %s with dates range [%g..%g]",
			ErrInvariant, lo, hi, c.id, c.times[0], c.times[len(c.times)-1])
	}
	return nil
}

// ZeroRate returns the zero rate to t under the given compounding and day
// count.
func (c *Curve) ZeroRate(t float64, freq conventions.CouponFreq, dcc dates.DayCount) (float64, error) {
	df, err := c.DF(t)
	if err != nil {
		return 0, err
	}
	dcf := (t - c.evalDate) / dcc.Denominator()
	switch freq {
	case conventions.Zero:
		return (1.0/df - 1.0) / dcf, nil
	case conventions.Continuous:
		return -math.Log(df) / dcf, nil
	}
	return 0, fmt.Errorf("curves: zero rate for coupon frequency %s not supported", freq)
}

// FwdRate returns the forward rate between tStart and tEnd.
func (c *Curve) FwdRate(tStart, tEnd float64, freq conventions.CouponFreq, dcc dates.DayCount) (float64, error) {
	dfStart, err := c.DF(tStart)
	if err != nil {
		return 0, err
	}
	dfEnd, err := c.DF(tEnd)
	if err != nil {
		return 0, err
	}
	dcf := (tEnd - tStart) / dcc.Denominator()
	switch freq {
	case conventions.Zero:
		return (dfStart/dfEnd - 1.0) / dcf, nil
	case conventions.Continuous:
		return math.Log(dfStart/dfEnd) / dcf, nil
	}
	return 0, fmt.Errorf("curves: forward rate for coupon frequency %s not supported", freq)
}

// FwdRatesAligned returns the n-1 period forward rates of an accrual
// schedule, reusing each boundary's discount factor for the period on
// either side of it.
func (c *Curve) FwdRatesAligned(ts []float64, freq conventions.CouponFreq, dcc dates.DayCount) ([]float64, error) {
	dfs, err := c.DFs(ts)
	if err != nil {
		return nil, err
	}
	out := make([]float64, len(ts)-1)
	for i := range out {
		dcf := (ts[i+1] - ts[i]) / dcc.Denominator()
		switch freq {
		case conventions.Zero:
			out[i] = (dfs[i]/dfs[i+1] - 1.0) / dcf
		case conventions.Continuous:
			out[i] = math.Log(dfs[i]/dfs[i+1]) / dcf
		default:
			return nil, fmt.Errorf("curves: forward rate for coupon frequency %s not supported", freq)
		}
	}
	return out, nil
}

// AllDOFs returns the discount factors excluding the prepended 1.0.
func (c *Curve) AllDOFs() []float64 {
	out := make([]float64, len(c.dfs)-1)
	copy(out, c.dfs[1:])
	return out
}

// DOFCount returns the number of solver degrees of freedom.
func (c *Curve) DOFCount() int {
	return len(c.dfs) - 1
}

// SetAllDOFs replaces the interior discount factors and rebuilds the
// interpolator.
func (c *Curve) SetAllDOFs(dofs []float64) error {
	if len(dofs) != c.DOFCount() {
		return fmt.Errorf("%w: curve %s has %d dofs, got %d", ErrInvariant, c.id, c.DOFCount(), len(dofs))
	}
	for _, v := range dofs {
		if v <= 0 {
			return fmt.Errorf("%w: curve %s: non-positive discount factor %g", ErrInvariant, c.id, v)
		}
	}
	copy(c.dfs[1:], dofs)
	return c.rebuild()
}

// AddCurve multiplies this curve's discount factors pillar-by-pillar by
// another curve's, composing a basis curve onto a discount curve. Both
// curves must share identical pillar times.
func (c *Curve) AddCurve(other *Curve) error {
	if len(c.times) != len(other.times) {
		return fmt.Errorf("%w: cannot compose curve %s onto %s: pillar times differ", ErrInvariant, other.id, c.id)
	}
	for i := range c.times {
		if c.times[i] != other.times[i] {
			return fmt.Errorf("%w: cannot compose curve %s onto %s: pillar times differ", ErrInvariant, other.id, c.id)
		}
	}
	for i := range c.dfs {
		c.dfs[i] *= other.dfs[i]
	}
	return c.rebuild()
}

// Clone returns an independent copy of the curve.
func (c *Curve) Clone() *Curve {
	cp := &Curve{
		id:       c.id,
		evalDate: c.evalDate,
		times:    append([]float64(nil), c.times...),
		dfs:      append([]float64(nil), c.dfs...),
		mode:     c.mode,
	}
	// Pillars already validated; a rebuild over the same data cannot fail.
	if err := cp.rebuild(); err != nil {
		panic(err)
	}
	return cp
}
