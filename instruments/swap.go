package instruments

import (
	"github.com/meenmo/curvekit/conventions"
	"github.com/meenmo/curvekit/curves"
	"github.com/meenmo/curvekit/dates"
)

// Swap is a single-currency fixed-versus-float interest rate swap. The par
// rate is the fixed rate equating both legs under the discount curve, with
// floating forwards projected off the forecast curve.
type Swap struct {
	base
	forecastCurve string
	discountCurve string
	accrualsFixed []float64
	accrualsFloat []float64
	dcfFixed      []float64
	dcfFloat      []float64
	dccFloat      dates.DayCount
}

// NewSwap builds both leg schedules on their conventions' payment
// frequencies.
func NewSwap(name, forecastCurve, discountCurve string, start dates.Date, length dates.Tenor, convFixed, convFloat conventions.Convention) (*Swap, error) {
	b, fixed, err := period(name, start, length, convFixed.PaymentFrequency)
	if err != nil {
		return nil, err
	}
	_, float, err := period(name, start, length, convFloat.PaymentFrequency)
	if err != nil {
		return nil, err
	}
	return &Swap{
		base:          b,
		forecastCurve: forecastCurve,
		discountCurve: discountCurve,
		accrualsFixed: dates.Floats(fixed),
		accrualsFloat: dates.Floats(float),
		dcfFixed:      dates.DCFs(fixed, convFixed.DCC),
		dcfFloat:      dates.DCFs(float, convFloat.DCC),
		dccFloat:      convFloat.DCC,
	}, nil
}

func (s *Swap) ParRate(cm *curves.CurveMap) (float64, error) {
	fcurve, err := cm.Get(s.forecastCurve)
	if err != nil {
		return 0, err
	}
	dcurve, err := cm.Get(s.discountCurve)
	if err != nil {
		return 0, err
	}
	fwds, err := fcurve.FwdRatesAligned(s.accrualsFloat, conventions.Zero, s.dccFloat)
	if err != nil {
		return 0, err
	}
	dfFloat, err := dcurve.DFs(s.accrualsFloat)
	if err != nil {
		return 0, err
	}
	dfFixed, err := dcurve.DFs(s.accrualsFixed)
	if err != nil {
		return 0, err
	}
	numerator := 0.0
	for i, r := range fwds {
		numerator += r * s.dcfFloat[i] * dfFloat[i+1]
	}
	return numerator / sumProduct(s.dcfFixed, dfFixed[1:]), nil
}
