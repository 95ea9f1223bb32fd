package instruments

import (
	"fmt"

	"github.com/meenmo/curvekit/conventions"
	"github.com/meenmo/curvekit/curves"
	"github.com/meenmo/curvekit/dates"
)

// MtmCrossCurrencyBasisSwap exchanges two floating legs in different
// currencies where the right leg's notional resets mark-to-market each
// period. The par rate is the spread on the left leg.
type MtmCrossCurrencyBasisSwap struct {
	base
	forecastCurveL string
	forecastCurveR string
	discountCurveL string
	discountCurveR string
	accrualsL      []float64
	accrualsR      []float64
	dcfL           []float64
	dcfR           []float64
	dccL           dates.DayCount
	dccR           dates.DayCount
}

// NewMtmCrossCurrencyBasisSwap builds both leg schedules on their
// conventions' payment frequencies.
func NewMtmCrossCurrencyBasisSwap(name, forecastCurveL, forecastCurveR, discountCurveL, discountCurveR string, start dates.Date, length dates.Tenor, convL, convR conventions.Convention) (*MtmCrossCurrencyBasisSwap, error) {
	b, left, err := period(name, start, length, convL.PaymentFrequency)
	if err != nil {
		return nil, err
	}
	_, right, err := period(name, start, length, convR.PaymentFrequency)
	if err != nil {
		return nil, err
	}
	// The reset factors pair left and right accrual boundaries one-to-one.
	if len(left) != len(right) {
		return nil, fmt.Errorf("%w: instrument %s: mark-to-market legs need aligned schedules (%d vs %d periods)",
			ErrInput, name, len(left)-1, len(right)-1)
	}
	return &MtmCrossCurrencyBasisSwap{
		base:           b,
		forecastCurveL: forecastCurveL,
		forecastCurveR: forecastCurveR,
		discountCurveL: discountCurveL,
		discountCurveR: discountCurveR,
		accrualsL:      dates.Floats(left),
		accrualsR:      dates.Floats(right),
		dcfL:           dates.DCFs(left, convL.DCC),
		dcfR:           dates.DCFs(right, convR.DCC),
		dccL:           convL.DCC,
		dccR:           convR.DCC,
	}, nil
}

func (s *MtmCrossCurrencyBasisSwap) ParRate(cm *curves.CurveMap) (float64, error) {
	fcurveL, err := cm.Get(s.forecastCurveL)
	if err != nil {
		return 0, err
	}
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
	fwdsL, err := fcurveL.FwdRatesAligned(s.accrualsL, conventions.Zero, s.dccL)
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
	n := len(dfR)

	// The right leg notional resets to x_i = DF_l_i / DF_r_i at each
	// period start; the final exchange happens at the last reset level.
	npvRight := -dfR[0] + dfR[n-1]*dfL[n-1]/dfR[n-1]
	for i, r := range fwdsR {
		npvRight += r * s.dcfR[i] * dfR[i+1] * dfL[i] / dfR[i]
	}
	for i := 1; i < n; i++ {
		npvRight -= (dfL[i]/dfR[i] - dfL[i-1]/dfR[i-1]) * dfR[i]
	}

	numeratorL := 0.0
	for i, r := range fwdsL {
		numeratorL += r * s.dcfL[i] * dfL[i+1]
	}
	return (npvRight + dfL[0] - dfL[len(dfL)-1] - numeratorL) / sumProduct(s.dcfL, dfL[1:]), nil
}
