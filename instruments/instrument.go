// Package instruments defines the pricing kernels of the linear rate
// instruments used to bootstrap curves. Each instrument precomputes its
// accrual schedule and day-count fractions at construction and prices to a
// par rate off a curve map.
package instruments

import (
	"errors"
	"fmt"

	"github.com/meenmo/curvekit/curves"
	"github.com/meenmo/curvekit/dates"
)

// ErrInput marks an instrument definition that cannot be constructed.
var ErrInput = errors.New("instruments: bad definition")

// Instrument is the closed pricing-kernel contract shared by all
// instrument kinds.
type Instrument interface {
	Name() string
	StartDate() dates.Date
	// PillarDate is the maturity used for curve pillaring.
	PillarDate() dates.Date
	// ParRate prices the instrument off the given curves.
	ParRate(cm *curves.CurveMap) (float64, error)
	// RateToQuote and QuoteToRate form the linear bijection between the
	// par rate and the market quote.
	RateToQuote(rate float64) float64
	QuoteToRate(quote float64) float64
	// DRDP is the sensitivity of the quote to a unit par-rate move.
	DRDP() float64
}

// base carries the name, period and the default rate-times-100 quoting.
type base struct {
	name  string
	start dates.Date
	end   dates.Date
}

func (b base) Name() string           { return b.name }
func (b base) StartDate() dates.Date  { return b.start }
func (b base) PillarDate() dates.Date { return b.end }

func (base) RateToQuote(rate float64) float64  { return rate * 1e2 }
func (base) QuoteToRate(quote float64) float64 { return quote * 1e-2 }
func (base) DRDP() float64                     { return 1e2 }

// period resolves the instrument's start/end pair and its accrual schedule
// at the given payment frequency.
func period(name string, start dates.Date, length dates.Tenor, freq dates.Tenor) (b base, schedule []dates.Date, err error) {
	end, err := dates.Step(start, length, false)
	if err != nil {
		return base{}, nil, fmt.Errorf("%w: instrument %s: %v", ErrInput, name, err)
	}
	schedule, err = dates.GenerateSchedule(start, end, freq, dates.StubBackShort)
	if err != nil {
		return base{}, nil, fmt.Errorf("%w: instrument %s: %v", ErrInput, name, err)
	}
	return base{name: name, start: start, end: end}, schedule, nil
}

func sumProduct(a, b []float64) float64 {
	s := 0.0
	for i := range a {
		s += a[i] * b[i]
	}
	return s
}

func sum(a []float64) float64 {
	s := 0.0
	for _, v := range a {
		s += v
	}
	return s
}
