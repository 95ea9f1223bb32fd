package instruments

import (
	"github.com/meenmo/curvekit/conventions"
	"github.com/meenmo/curvekit/curves"
	"github.com/meenmo/curvekit/dates"
)

// Deposit is a single-period cash deposit quoted as a simply-compounded
// rate over its accrual schedule under the forecast curve.
type Deposit struct {
	base
	forecastCurve string
	accruals      []float64
	dcfs          []float64
}

// NewDeposit builds a deposit from start over the given length, with the
// accrual schedule on the convention's payment frequency.
func NewDeposit(name, forecastCurve string, start dates.Date, length dates.Tenor, conv conventions.Convention) (*Deposit, error) {
	b, schedule, err := period(name, start, length, conv.PaymentFrequency)
	if err != nil {
		return nil, err
	}
	return &Deposit{
		base:          b,
		forecastCurve: forecastCurve,
		accruals:      dates.Floats(schedule),
		dcfs:          dates.DCFs(schedule, conv.DCC),
	}, nil
}

// ParRate returns the exact average rate over the accrual schedule,
// (DF(start)/DF(end) − 1) / Σ dcf.
func (d *Deposit) ParRate(cm *curves.CurveMap) (float64, error) {
	fcurve, err := cm.Get(d.forecastCurve)
	if err != nil {
		return 0, err
	}
	dfs, err := fcurve.DFs(d.accruals)
	if err != nil {
		return 0, err
	}
	return (dfs[0]/dfs[len(dfs)-1] - 1.0) / sum(d.dcfs), nil
}

// ZeroRate is a quoted zero-rate point; it prices identically to a deposit
// over a single-period schedule under the forecast curve.
type ZeroRate struct {
	Deposit
}

// NewZeroRate builds a zero-rate instrument.
func NewZeroRate(name, forecastCurve string, start dates.Date, length dates.Tenor, conv conventions.Convention) (*ZeroRate, error) {
	d, err := NewDeposit(name, forecastCurve, start, length, conv)
	if err != nil {
		return nil, err
	}
	return &ZeroRate{Deposit: *d}, nil
}
