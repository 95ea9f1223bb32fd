// Package builder constructs instruments and curves from the definition
// tables, calibrates the curves to quoted prices with a staged nonlinear
// least-squares solve, and produces the Jacobian consumed by the risk
// calculator.
package builder

import (
	"fmt"
	"math"
	"sort"

	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/mat"

	"github.com/meenmo/curvekit/config"
	"github.com/meenmo/curvekit/conventions"
	"github.com/meenmo/curvekit/curves"
	"github.com/meenmo/curvekit/dates"
	"github.com/meenmo/curvekit/instruments"
)

// CurveTemplate groups the instruments assigned to one output curve.
type CurveTemplate struct {
	CurveName     string
	Interpolation curves.InterpolationMode
	SolveStage    int
	Instruments   []instruments.Instrument
}

// InstrumentInfo is the definition-frame view of a constructed instrument.
type InstrumentInfo struct {
	Name   string
	Type   string
	Start  dates.Date
	Pillar dates.Date
}

// BuildOutput is the result of a calibration: the input prices, the
// calibrated curves, the dI/dP Jacobian (rows indexed by pillar degrees of
// freedom, columns by instruments) and the instrument list defining the
// column order.
type BuildOutput struct {
	InputPrices    *PriceLadder
	OutputCurveMap *curves.CurveMap
	JacobianDIDP   *mat.Dense
	Instruments    []instruments.Instrument
}

// CurveBuilder drives instrument construction and the staged calibration.
type CurveBuilder struct {
	Config config.Config

	evalDate       dates.Date
	templates      []*CurveTemplate
	stages         [][]string
	allInstruments []instruments.Instrument
	infos          []InstrumentInfo
	positions      map[string]int
	log            *logrus.Logger
}

// NewCurveBuilder constructs all enabled instruments from the definition
// rows, grouped into curve templates in table order, with solve stages
// taken from the curve-properties rows.
func NewCurveBuilder(instRows []InstrumentRow, curveRows []CurveRow, evalDate dates.Date, convs *conventions.Registry) (*CurveBuilder, error) {
	if len(curveRows) == 0 {
		return nil, fmt.Errorf("%w: no curves found in definitions", ErrInput)
	}
	b := &CurveBuilder{
		Config:    config.GetConfig(),
		evalDate:  evalDate,
		positions: make(map[string]int),
		log:       logrus.StandardLogger(),
	}

	curveNames := make(map[string]struct{}, len(curveRows))
	for _, cr := range curveRows {
		curveNames[cr.Curve] = struct{}{}
	}
	for _, row := range instRows {
		if _, ok := curveNames[row.Curve]; !ok {
			return nil, fmt.Errorf("%w: instrument %s references unknown curve %s", ErrInput, row.Name, row.Curve)
		}
	}

	for _, cr := range curveRows {
		mode, err := curves.ParseInterpolationMode(cr.Interpolation)
		if err != nil {
			return nil, fmt.Errorf("curve %s: %w", cr.Curve, err)
		}
		tpl := &CurveTemplate{CurveName: cr.Curve, Interpolation: mode, SolveStage: cr.SolveStage}
		for _, row := range instRows {
			if row.Curve != cr.Curve {
				continue
			}
			switch row.Enabled {
			case "Y":
			case "N":
				continue
			default:
				return nil, fmt.Errorf("%w: instrument %s: Enabled must be Y or N, got %q", ErrInput, row.Name, row.Enabled)
			}
			inst, err := b.buildInstrument(row, convs)
			if err != nil {
				return nil, fmt.Errorf("error processing instrument %s: %w", row.Name, err)
			}
			b.positions[inst.Name()] = len(b.allInstruments)
			b.allInstruments = append(b.allInstruments, inst)
			b.infos = append(b.infos, InstrumentInfo{Name: inst.Name(), Type: row.Type, Start: inst.StartDate(), Pillar: inst.PillarDate()})
			tpl.Instruments = append(tpl.Instruments, inst)
		}
		if len(tpl.Instruments) == 0 {
			return nil, fmt.Errorf("%w: no instruments found for curve template %s", ErrInput, cr.Curve)
		}
		b.templates = append(b.templates, tpl)
	}

	b.stages = groupStages(b.templates)
	return b, nil
}

func groupStages(templates []*CurveTemplate) [][]string {
	stageNums := []int{}
	seen := map[int]struct{}{}
	for _, tpl := range templates {
		if _, ok := seen[tpl.SolveStage]; !ok {
			seen[tpl.SolveStage] = struct{}{}
			stageNums = append(stageNums, tpl.SolveStage)
		}
	}
	sort.Ints(stageNums)
	out := make([][]string, 0, len(stageNums))
	for _, s := range stageNums {
		ids := []string{}
		for _, tpl := range templates {
			if tpl.SolveStage == s {
				ids = append(ids, tpl.CurveName)
			}
		}
		out = append(out, ids)
	}
	return out
}

func isSet(column string) bool { return column != "na" }

func (b *CurveBuilder) buildInstrument(row InstrumentRow, convs *conventions.Registry) (instruments.Instrument, error) {
	start, err := dates.Resolve(row.Start, b.evalDate)
	if err != nil {
		return nil, err
	}
	length, err := dates.ParseTenor(row.Length)
	if err != nil {
		return nil, err
	}
	conv := func(name string) (conventions.Convention, error) {
		return convs.Get(name)
	}

	switch row.Type {
	case "Deposit", "ZeroRate":
		if err := requireColumns(row, true, false, false, false); err != nil {
			return nil, err
		}
		cl, err := conv(row.ConventionL)
		if err != nil {
			return nil, err
		}
		if row.Type == "ZeroRate" {
			return instruments.NewZeroRate(row.Name, row.ForecastCurveL, start, length, cl)
		}
		return instruments.NewDeposit(row.Name, row.ForecastCurveL, start, length, cl)
	case "Future":
		if err := requireColumns(row, true, false, false, false); err != nil {
			return nil, err
		}
		return instruments.NewFuture(row.Name, row.ForecastCurveL, b.evalDate, start, length)
	case "Swap":
		if err := requireColumns(row, true, false, true, false); err != nil {
			return nil, err
		}
		cl, err := conv(row.ConventionL)
		if err != nil {
			return nil, err
		}
		cr, err := conv(row.ConventionR)
		if err != nil {
			return nil, err
		}
		return instruments.NewSwap(row.Name, row.ForecastCurveL, row.DiscountCurveL, start, length, cl, cr)
	case "BasisSwap":
		if err := requireColumns(row, true, true, true, false); err != nil {
			return nil, err
		}
		cl, err := conv(row.ConventionL)
		if err != nil {
			return nil, err
		}
		cr, err := conv(row.ConventionR)
		if err != nil {
			return nil, err
		}
		return instruments.NewBasisSwap(row.Name, row.ForecastCurveL, row.ForecastCurveR, row.DiscountCurveL, start, length, cl, cr)
	case "CrossCurrencySwap":
		if !isSet(row.DiscountCurveL) || !isSet(row.DiscountCurveR) {
			return nil, fmt.Errorf("%w: cross currency swap needs both discount curves", ErrInput)
		}
		if isSet(row.ForecastCurveL) == isSet(row.ForecastCurveR) {
			return nil, fmt.Errorf("%w: cross currency swap needs exactly one forecast curve", ErrInput)
		}
		cl, err := conv(row.ConventionL)
		if err != nil {
			return nil, err
		}
		cr, err := conv(row.ConventionR)
		if err != nil {
			return nil, err
		}
		// The fixed leg is whichever side has no forecast curve; orient
		// the kernel so the floating leg is the right leg.
		discL, discR, fcastR := row.DiscountCurveL, row.DiscountCurveR, row.ForecastCurveR
		if !isSet(row.ForecastCurveR) {
			discL, discR, fcastR = row.DiscountCurveR, row.DiscountCurveL, row.ForecastCurveL
			cl, cr = cr, cl
		}
		return instruments.NewCrossCurrencySwap(row.Name, discL, discR, fcastR, start, length, cl, cr)
	case "MtmCrossCurrencyBasisSwap":
		if err := requireColumns(row, true, true, true, true); err != nil {
			return nil, err
		}
		cl, err := conv(row.ConventionL)
		if err != nil {
			return nil, err
		}
		cr, err := conv(row.ConventionR)
		if err != nil {
			return nil, err
		}
		return instruments.NewMtmCrossCurrencyBasisSwap(row.Name, row.ForecastCurveL, row.ForecastCurveR, row.DiscountCurveL, row.DiscountCurveR, start, length, cl, cr)
	case "TermDeposit":
		if err := requireColumns(row, true, false, true, false); err != nil {
			return nil, err
		}
		cl, err := conv(row.ConventionL)
		if err != nil {
			return nil, err
		}
		return instruments.NewTermDeposit(row.Name, row.ForecastCurveL, row.DiscountCurveL, start, length, cl)
	}
	return nil, fmt.Errorf("%w: unknown instrument type %s", ErrInput, row.Type)
}

// requireColumns checks the per-type required/forbidden curve columns; a
// column that must be unused carries the sentinel "na".
func requireColumns(row InstrumentRow, fcastL, fcastR, discL, discR bool) error {
	checks := []struct {
		want  bool
		value string
		name  string
	}{
		{fcastL, row.ForecastCurveL, "Forecast Curve Left"},
		{fcastR, row.ForecastCurveR, "Forecast Curve Right"},
		{discL, row.DiscountCurveL, "Discount Curve Left"},
		{discR, row.DiscountCurveR, "Discount Curve Right"},
	}
	for _, c := range checks {
		if c.want && !isSet(c.value) {
			return fmt.Errorf("%w: column %q is required for type %s", ErrInput, c.name, row.Type)
		}
		if !c.want && isSet(c.value) {
			return fmt.Errorf("%w: column %q must be \"na\" for type %s", ErrInput, c.name, row.Type)
		}
	}
	return nil
}

// SetLogger replaces the builder's logger.
func (b *CurveBuilder) SetLogger(log *logrus.Logger) { b.log = log }

// EvalDate returns the builder's evaluation date.
func (b *CurveBuilder) EvalDate() dates.Date { return b.evalDate }

// CurveNames returns the template curve names in definition order.
func (b *CurveBuilder) CurveNames() []string {
	out := make([]string, len(b.templates))
	for i, tpl := range b.templates {
		out[i] = tpl.CurveName
	}
	return out
}

// Instruments returns all constructed instruments in definition order.
func (b *CurveBuilder) Instruments() []instruments.Instrument {
	return append([]instruments.Instrument(nil), b.allInstruments...)
}

// InstrumentInfos returns the definition-frame view of the instruments.
func (b *CurveBuilder) InstrumentInfos() []InstrumentInfo {
	return append([]InstrumentInfo(nil), b.infos...)
}

// InstrumentByName returns a constructed instrument.
func (b *CurveBuilder) InstrumentByName(name string) (instruments.Instrument, error) {
	pos, ok := b.positions[name]
	if !ok {
		return nil, fmt.Errorf("%w: instrument %s", ErrLookup, name)
	}
	return b.allInstruments[pos], nil
}

// BuildCurves calibrates the curves to the given prices. Stages are solved
// sequentially; each stage solves the degrees of freedom of its curves
// against the residuals of its instruments, warm-starting from the state
// left by earlier stages. After the final stage the full dI/dP Jacobian is
// computed by one-sided finite differences.
func (b *CurveBuilder) BuildCurves(prices *PriceLadder) (*BuildOutput, error) {
	cfg := b.Config
	cm := curves.NewCurveMap()
	pillarCount := 0
	for _, tpl := range b.templates {
		pillarSet := make(map[dates.Date]struct{}, len(tpl.Instruments))
		for _, inst := range tpl.Instruments {
			pillarSet[inst.PillarDate()] = struct{}{}
		}
		pillars := make([]float64, 0, len(pillarSet))
		for p := range pillarSet {
			pillars = append(pillars, p.Float())
		}
		sort.Float64s(pillars)
		dfs := make([]float64, len(pillars))
		for i, p := range pillars {
			dfs[i] = math.Exp(-cfg.InitialFlatRate * (p - b.evalDate.Float()) / 365.0)
		}
		b.log.Debugf("creating pillars %d-%d for curve %s", pillarCount, pillarCount+len(pillars), tpl.CurveName)
		pillarCount += len(pillars)
		curve, err := curves.NewCurve(tpl.CurveName, b.evalDate.Float(), pillars, dfs, tpl.Interpolation)
		if err != nil {
			return nil, err
		}
		cm.Add(curve)
	}

	for stageIdx, ids := range b.stages {
		insts := b.stageInstruments(ids)
		b.log.Debugf("solving stage %d: curves %v, %d instruments", stageIdx, ids, len(insts))
		fun := b.residualFunc(cm, ids, insts, prices)
		solution, err := solveLeastSquares(fun, cm.DOFs(ids), cfg)
		if err != nil {
			return nil, fmt.Errorf("stage %d (curves %v): %w", stageIdx, ids, err)
		}
		if err := cm.SetDOFs(ids, solution); err != nil {
			return nil, err
		}
	}

	jac, err := b.jacobian(cm, prices)
	if err != nil {
		return nil, err
	}
	return &BuildOutput{
		InputPrices:    prices.Clone(),
		OutputCurveMap: cm,
		JacobianDIDP:   jac,
		Instruments:    b.Instruments(),
	}, nil
}

func (b *CurveBuilder) stageInstruments(ids []string) []instruments.Instrument {
	in := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		in[id] = struct{}{}
	}
	var out []instruments.Instrument
	for _, tpl := range b.templates {
		if _, ok := in[tpl.CurveName]; ok {
			out = append(out, tpl.Instruments...)
		}
	}
	return out
}

// residualFunc builds the residual closure for a curve subset: residual of
// instrument i is its par rate off the curve map minus the rate implied by
// its quoted price.
func (b *CurveBuilder) residualFunc(cm *curves.CurveMap, ids []string, insts []instruments.Instrument, prices *PriceLadder) residualFunc {
	return func(x []float64) ([]float64, error) {
		for _, v := range x {
			if math.IsNaN(v) {
				return nil, fmt.Errorf("%w: NaN in parameter vector", ErrNumeric)
			}
		}
		if err := cm.SetDOFs(ids, x); err != nil {
			return nil, err
		}
		y := make([]float64, len(insts))
		for i, inst := range insts {
			actual, err := inst.ParRate(cm)
			if err != nil {
				return nil, fmt.Errorf("instrument %s: %w", inst.Name(), err)
			}
			price, err := prices.Get(inst.Name())
			if err != nil {
				return nil, err
			}
			y[i] = actual - inst.QuoteToRate(price)
		}
		return y, nil
	}
}

// jacobian computes dI/dP over all instruments and all degrees of freedom
// with a one-sided bump, restoring the curve map afterwards.
func (b *CurveBuilder) jacobian(cm *curves.CurveMap, prices *PriceLadder) (*mat.Dense, error) {
	allIDs := cm.IDs()
	fun := b.residualFunc(cm, allIDs, b.allInstruments, prices)
	x := cm.DOFs(allIDs)
	e0, err := fun(x)
	if err != nil {
		return nil, err
	}
	bump := b.Config.JacobianBump
	jac := mat.NewDense(len(x), len(b.allInstruments), nil)
	bumped := make([]float64, len(x))
	copy(bumped, x)
	for i := range x {
		bumped[i] = x[i] + bump
		e, err := fun(bumped)
		if err != nil {
			return nil, err
		}
		for j := range e {
			jac.Set(i, j, (e[j]-e0[j])/bump)
		}
		bumped[i] = x[i]
	}
	if err := cm.SetDOFs(allIDs, x); err != nil {
		return nil, err
	}
	return jac, nil
}

// Reprice values every instrument off the given curve map and returns the
// quotes as a price ladder in definition order. A nil curve map yields a
// ladder of zeros.
func (b *CurveBuilder) Reprice(cm *curves.CurveMap) (*PriceLadder, error) {
	out := NewPriceLadder()
	for _, tpl := range b.templates {
		for _, inst := range tpl.Instruments {
			if cm == nil {
				out.Set(inst.Name(), 0)
				continue
			}
			rate, err := inst.ParRate(cm)
			if err != nil {
				return nil, fmt.Errorf("instrument %s: %w", inst.Name(), err)
			}
			out.Set(inst.Name(), inst.RateToQuote(rate))
		}
	}
	return out, nil
}
