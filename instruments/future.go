package instruments

import (
	"github.com/meenmo/curvekit/curves"
	"github.com/meenmo/curvekit/dates"
)

// Future is an interest-rate future over a single accrual period, quoted
// as 100 minus the rate in percent, with a quadratic convexity adjustment
// in time to expiry.
type Future struct {
	base
	forecastCurve string
	accruals      []float64
	dcf           float64
	convexity     float64
}

const futureConvexityCoeff = 2e-5

// NewFuture builds a future; start is typically an IMM date resolved from
// an "nF" expression against the trade date.
func NewFuture(name, forecastCurve string, tradeDate, start dates.Date, length dates.Tenor) (*Future, error) {
	b, _, err := period(name, start, length, length)
	if err != nil {
		return nil, err
	}
	dcfTrade := dates.DCF(tradeDate, start, dates.Act360)
	return &Future{
		base:          b,
		forecastCurve: forecastCurve,
		accruals:      []float64{b.start.Float(), b.end.Float()},
		dcf:           dates.DCF(b.start, b.end, dates.Act360),
		convexity:     dcfTrade * dcfTrade * futureConvexityCoeff,
	}, nil
}

// ParRate returns the forward rate over the accrual period plus the
// convexity adjustment.
func (f *Future) ParRate(cm *curves.CurveMap) (float64, error) {
	fcurve, err := cm.Get(f.forecastCurve)
	if err != nil {
		return 0, err
	}
	dfs, err := fcurve.DFs(f.accruals)
	if err != nil {
		return 0, err
	}
	return (dfs[0]/dfs[1]-1.0)/f.dcf + f.convexity, nil
}

func (f *Future) RateToQuote(rate float64) float64 {
	return 100.0 - rate*1e2
}

func (f *Future) QuoteToRate(quote float64) float64 {
	return (100.0 - quote) * 1e-2
}

func (f *Future) DRDP() float64 { return -1e2 }
