// Package conventions bundles the reset, calculation and payment
// frequencies and the day-count convention of an index, and loads the
// convention table shipped alongside instrument definitions.
package conventions

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"

	"github.com/meenmo/curvekit/dates"
)

// ErrLookup marks an unknown convention or enum spelling.
var ErrLookup = errors.New("conventions: not found")

// CouponFreq is the compounding style of a rate query.
type CouponFreq int

const (
	Continuous CouponFreq = iota
	Daily
	Quarterly
	Zero
)

func (f CouponFreq) String() string {
	switch f {
	case Continuous:
		return "CONTINUOUS"
	case Daily:
		return "DAILY"
	case Quarterly:
		return "QUARTERLY"
	case Zero:
		return "ZERO"
	}
	return fmt.Sprintf("CouponFreq(%d)", int(f))
}

// Convention is an immutable frequency and day-count bundle.
type Convention struct {
	ResetFrequency       dates.Tenor
	CalculationFrequency dates.Tenor
	PaymentFrequency     dates.Tenor
	DCC                  dates.DayCount
}

// Registry maps index names to conventions.
type Registry struct {
	m map[string]Convention
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{m: make(map[string]Convention)}
}

// Register adds or replaces a named convention.
func (r *Registry) Register(name string, c Convention) {
	r.m[name] = c
}

// Get resolves a convention by index name.
func (r *Registry) Get(name string) (Convention, error) {
	c, ok := r.m[name]
	if !ok {
		return Convention{}, fmt.Errorf("%w: unable to get convention %s", ErrLookup, name)
	}
	return c, nil
}

// Load reads the tab-separated convention table:
//
//	Index, Reset Frequency, Calculation Period Frequency, Payment Frequency, Day Count Convention
//
// A reset frequency shorter than the calculation frequency indicates an
// averaging leg; a calculation frequency shorter than the payment frequency
// indicates a compounding leg.
func Load(r io.Reader) (*Registry, error) {
	cr := csv.NewReader(r)
	cr.Comma = '\t'
	cr.TrimLeadingSpace = true
	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("conventions: unable to read table: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("conventions: empty table")
	}
	col := make(map[string]int, len(rows[0]))
	for i, name := range rows[0] {
		col[name] = i
	}
	for _, name := range []string{"Index", "Reset Frequency", "Calculation Period Frequency", "Payment Frequency", "Day Count Convention"} {
		if _, ok := col[name]; !ok {
			return nil, fmt.Errorf("conventions: missing required column %q", name)
		}
	}
	reg := NewRegistry()
	for _, row := range rows[1:] {
		index := row[col["Index"]]
		reset, err := dates.ParseTenor(row[col["Reset Frequency"]])
		if err != nil {
			return nil, fmt.Errorf("conventions: row %s: %w", index, err)
		}
		calc, err := dates.ParseTenor(row[col["Calculation Period Frequency"]])
		if err != nil {
			return nil, fmt.Errorf("conventions: row %s: %w", index, err)
		}
		pay, err := dates.ParseTenor(row[col["Payment Frequency"]])
		if err != nil {
			return nil, fmt.Errorf("conventions: row %s: %w", index, err)
		}
		dcc, err := dates.ParseDayCount(row[col["Day Count Convention"]])
		if err != nil {
			return nil, fmt.Errorf("conventions: row %s: %w", index, err)
		}
		reg.Register(index, Convention{
			ResetFrequency:       reset,
			CalculationFrequency: calc,
			PaymentFrequency:     pay,
			DCC:                  dcc,
		})
	}
	return reg, nil
}
