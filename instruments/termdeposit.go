package instruments

import (
	"github.com/meenmo/curvekit/conventions"
	"github.com/meenmo/curvekit/curves"
	"github.com/meenmo/curvekit/dates"
)

// TermDeposit is a deposit with intermediate floating accruals, priced
// against separate forecast and discount curves.
type TermDeposit struct {
	base
	forecastCurve string
	discountCurve string
	accruals      []float64
	dcfs          []float64
	dcc           dates.DayCount
}

// NewTermDeposit builds the accrual schedule on the convention's payment
// frequency.
func NewTermDeposit(name, forecastCurve, discountCurve string, start dates.Date, length dates.Tenor, conv conventions.Convention) (*TermDeposit, error) {
	b, schedule, err := period(name, start, length, conv.PaymentFrequency)
	if err != nil {
		return nil, err
	}
	return &TermDeposit{
		base:          b,
		forecastCurve: forecastCurve,
		discountCurve: discountCurve,
		accruals:      dates.Floats(schedule),
		dcfs:          dates.DCFs(schedule, conv.DCC),
		dcc:           conv.DCC,
	}, nil
}

func (t *TermDeposit) ParRate(cm *curves.CurveMap) (float64, error) {
	fcurve, err := cm.Get(t.forecastCurve)
	if err != nil {
		return 0, err
	}
	dcurve, err := cm.Get(t.discountCurve)
	if err != nil {
		return 0, err
	}
	fwds, err := fcurve.FwdRatesAligned(t.accruals, conventions.Zero, t.dcc)
	if err != nil {
		return 0, err
	}
	dfs, err := dcurve.DFs(t.accruals)
	if err != nil {
		return 0, err
	}
	numerator := 0.0
	for i, r := range fwds {
		numerator += r * t.dcfs[i] * dfs[i+1]
	}
	denominator := sumProduct(t.dcfs, dfs[1:])
	return (dfs[0] - dfs[len(dfs)-1] - numerator) / denominator, nil
}
