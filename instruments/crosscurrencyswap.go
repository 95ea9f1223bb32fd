package instruments

import (
	"github.com/meenmo/curvekit/conventions"
	"github.com/meenmo/curvekit/curves"
	"github.com/meenmo/curvekit/dates"
)

// CrossCurrencySwap is a fixed-left versus floating-right swap with
// initial and final notional exchange, each leg discounted on its own
// currency's curve.
type CrossCurrencySwap struct {
	base
	discountCurveL string
	discountCurveR string
	forecastCurveR string
	accrualsL      []float64
	accrualsR      []float64
	dcfL           []float64
	dcfR           []float64
	dccR           dates.DayCount
}

// NewCrossCurrencySwap builds both leg schedules on their conventions'
// payment frequencies.
func NewCrossCurrencySwap(name, discountCurveL, discountCurveR, forecastCurveR string, start dates.Date, length dates.Tenor, convL, convR conventions.Convention) (*CrossCurrencySwap, error) {
	b, left, err := period(name, start, length, convL.PaymentFrequency)
	if err != nil {
		return nil, err
	}
	_, right, err := period(name, start, length, convR.PaymentFrequency)
	if err != nil {
		return nil, err
	}
	return &CrossCurrencySwap{
		base:           b,
		discountCurveL: discountCurveL,
		discountCurveR: discountCurveR,
		forecastCurveR: forecastCurveR,
		accrualsL:      dates.Floats(left),
		accrualsR:      dates.Floats(right),
		dcfL:           dates.DCFs(left, convL.DCC),
		dcfR:           dates.DCFs(right, convR.DCC),
		dccR:           convR.DCC,
	}, nil
}

func (s *CrossCurrencySwap) ParRate(cm *curves.CurveMap) (float64, error) {
	fcurveR, err := cm.Get(s.forecastCurveR)
	if err != nil {
		return 0, err
	}
	dcurveL, err := cm.Get(s.discountCurveL)
	if err != nil {
		return 0, err
	}
	dcurveR, err := cm.Get(s.discountCurveR)
	if err != nil {
		return 0, err
	}
	fwdsR, err := fcurveR.FwdRatesAligned(s.accrualsR, conventions.Zero, s.dccR)
	if err != nil {
		return 0, err
	}
	dfL, err := dcurveL.DFs(s.accrualsL)
	if err != nil {
		return 0, err
	}
	dfR, err := dcurveR.DFs(s.accrualsR)
	if err != nil {
		return 0, err
	}
	numeratorR := 0.0
	for i, r := range fwdsR {
		numeratorR += r * s.dcfR[i] * dfR[i+1]
	}
	notionalR := dfR[0] - dfR[len(dfR)-1]
	notionalL := dfL[0] - dfL[len(dfL)-1]
	return (numeratorR - notionalR + notionalL) / sumProduct(s.dcfL, dfL[1:]), nil
}
