package builder

import (
	"encoding/csv"
	"fmt"
	"io"
	"regexp"
	"strconv"
)

// PriceLadder is an insertion-ordered mapping from instrument name to
// quoted price.
type PriceLadder struct {
	names  []string
	prices map[string]float64
}

// NewPriceLadder returns an empty ladder.
func NewPriceLadder() *PriceLadder {
	return &PriceLadder{prices: make(map[string]float64)}
}

// Set inserts or updates a price, keeping first-insertion order.
func (p *PriceLadder) Set(name string, price float64) {
	if _, ok := p.prices[name]; !ok {
		p.names = append(p.names, name)
	}
	p.prices[name] = price
}

// Get returns the price for an instrument name.
func (p *PriceLadder) Get(name string) (float64, error) {
	v, ok := p.prices[name]
	if !ok {
		return 0, fmt.Errorf("%w: instrument %s has no price", ErrLookup, name)
	}
	return v, nil
}

// Names returns the instrument names in insertion order.
func (p *PriceLadder) Names() []string {
	return append([]string(nil), p.names...)
}

// Len returns the number of prices.
func (p *PriceLadder) Len() int { return len(p.names) }

// Clone deep-copies the ladder.
func (p *PriceLadder) Clone() *PriceLadder {
	out := NewPriceLadder()
	for _, n := range p.names {
		out.Set(n, p.prices[n])
	}
	return out
}

// Sublist returns the ladder entries whose names match the regular
// expression (anchored at the start of the name), preserving order.
func (p *PriceLadder) Sublist(pattern string) (*PriceLadder, error) {
	rx, err := regexp.Compile("^(?:" + pattern + ")")
	if err != nil {
		return nil, fmt.Errorf("%w: invalid pattern %q: %v", ErrInput, pattern, err)
	}
	out := NewPriceLadder()
	for _, n := range p.names {
		if rx.MatchString(n) {
			out.Set(n, p.prices[n])
		}
	}
	return out, nil
}

// ReadPriceLadder parses a two-column CSV table (Instrument, Price),
// preserving row order.
func ReadPriceLadder(r io.Reader) (*PriceLadder, error) {
	rows, err := csv.NewReader(r).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: unable to read price table: %v", ErrInput, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: empty price table", ErrInput)
	}
	out := NewPriceLadder()
	for _, row := range rows[1:] {
		if len(row) < 2 {
			return nil, fmt.Errorf("%w: price row %v has fewer than two columns", ErrInput, row)
		}
		v, err := strconv.ParseFloat(row[1], 64)
		if err != nil {
			return nil, fmt.Errorf("%w: unable to parse price %q for instrument %s", ErrInput, row[1], row[0])
		}
		out.Set(row[0], v)
	}
	return out, nil
}

// Write serialises the ladder to a two-column CSV table preserving order.
func (p *PriceLadder) Write(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"Instrument", "Price"}); err != nil {
		return err
	}
	for _, n := range p.names {
		if err := cw.Write([]string{n, strconv.FormatFloat(p.prices[n], 'g', -1, 64)}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
