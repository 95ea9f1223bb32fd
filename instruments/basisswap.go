package instruments

import (
	"github.com/meenmo/curvekit/conventions"
	"github.com/meenmo/curvekit/curves"
	"github.com/meenmo/curvekit/dates"
)

// BasisSwap exchanges two floating legs in the same currency. The par rate
// is the spread added to the left leg.
type BasisSwap struct {
	base
	forecastCurveL string
	forecastCurveR string
	discountCurve  string
	accrualsL      []float64
	accrualsR      []float64
	dcfL           []float64
	dcfR           []float64
	dccL           dates.DayCount
	dccR           dates.DayCount
}

// NewBasisSwap builds both leg schedules on their conventions' payment
// frequencies; both legs discount on the shared discount curve.
func NewBasisSwap(name, forecastCurveL, forecastCurveR, discountCurve string, start dates.Date, length dates.Tenor, convL, convR conventions.Convention) (*BasisSwap, error) {
	b, left, err := period(name, start, length, convL.PaymentFrequency)
	if err != nil {
		return nil, err
	}
	_, right, err := period(name, start, length, convR.PaymentFrequency)
	if err != nil {
		return nil, err
	}
	return &BasisSwap{
		base:           b,
		forecastCurveL: forecastCurveL,
		forecastCurveR: forecastCurveR,
		discountCurve:  discountCurve,
		accrualsL:      dates.Floats(left),
		accrualsR:      dates.Floats(right),
		dcfL:           dates.DCFs(left, convL.DCC),
		dcfR:           dates.DCFs(right, convR.DCC),
		dccL:           convL.DCC,
		dccR:           convR.DCC,
	}, nil
}

func (s *BasisSwap) ParRate(cm *curves.CurveMap) (float64, error) {
	fcurveL, err := cm.Get(s.forecastCurveL)
	if err != nil {
		return 0, err
	}
	fcurveR, err := cm.Get(s.forecastCurveR)
	if err != nil {
		return 0, err
	}
	dcurve, err := cm.Get(s.discountCurve)
	if err != nil {
		return 0, err
	}
	fwdsL, err := fcurveL.FwdRatesAligned(s.accrualsL, conventions.Zero, s.dccL)
	if err != nil {
		return 0, err
	}
	fwdsR, err := fcurveR.FwdRatesAligned(s.accrualsR, conventions.Zero, s.dccR)
	if err != nil {
		return 0, err
	}
	dfL, err := dcurve.DFs(s.accrualsL)
	if err != nil {
		return 0, err
	}
	dfR, err := dcurve.DFs(s.accrualsR)
	if err != nil {
		return 0, err
	}
	numeratorL := 0.0
	for i, r := range fwdsL {
		numeratorL += r * s.dcfL[i] * dfL[i+1]
	}
	numeratorR := 0.0
	for i, r := range fwdsR {
		numeratorR += r * s.dcfR[i] * dfR[i+1]
	}
	return (numeratorR - numeratorL) / sumProduct(s.dcfL, dfL[1:]), nil
}
