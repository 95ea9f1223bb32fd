// Package calendars provides holiday calendars: the weekend-only calendar,
// enumerated holiday sets, calendar unions and a name-keyed registry.
package calendars

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/meenmo/curvekit/dates"
)

// ErrLookup marks a calendar name that is not registered.
var ErrLookup = errors.New("calendars: not found")

// Calendar answers whether a day is a non-business day.
type Calendar interface {
	IsHoliday(d dates.Date) bool
}

func isWeekend(d dates.Date) bool {
	wd := d.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

// WeekendCalendar treats only Saturdays and Sundays as holidays.
type WeekendCalendar struct{}

func (WeekendCalendar) IsHoliday(d dates.Date) bool {
	return isWeekend(d)
}

// EnumeratedCalendar is the weekend plus an explicit holiday set.
type EnumeratedCalendar struct {
	holidays map[dates.Date]struct{}
}

// NewEnumeratedCalendar copies the given holiday dates.
func NewEnumeratedCalendar(holidays ...dates.Date) *EnumeratedCalendar {
	m := make(map[dates.Date]struct{}, len(holidays))
	for _, h := range holidays {
		m[h] = struct{}{}
	}
	return &EnumeratedCalendar{holidays: m}
}

func (c *EnumeratedCalendar) IsHoliday(d dates.Date) bool {
	if isWeekend(d) {
		return true
	}
	_, ok := c.holidays[d]
	return ok
}

// Holidays returns the explicit holiday set, excluding weekends.
func (c *EnumeratedCalendar) Holidays() []dates.Date {
	out := make([]dates.Date, 0, len(c.holidays))
	for h := range c.holidays {
		out = append(out, h)
	}
	return out
}

// Union merges enumerated calendars into one over the combined holiday set.
func Union(cals ...*EnumeratedCalendar) (*EnumeratedCalendar, error) {
	if len(cals) == 0 {
		return nil, fmt.Errorf("calendars: union of zero calendars")
	}
	if len(cals) == 1 {
		return cals[0], nil
	}
	var all []dates.Date
	for _, c := range cals {
		all = append(all, c.Holidays()...)
	}
	return NewEnumeratedCalendar(all...), nil
}

// Registry resolves calendars by name. A name of the form "A+B" resolves to
// the union of A and B.
type Registry struct {
	cals map[string]*EnumeratedCalendar
}

// NewRegistry returns a registry pre-seeded with empty London and NewYork
// calendars; real holiday data is registered by the caller at startup.
func NewRegistry() *Registry {
	return &Registry{cals: map[string]*EnumeratedCalendar{
		"London":  NewEnumeratedCalendar(),
		"NewYork": NewEnumeratedCalendar(),
	}}
}

// Register adds or replaces a named calendar.
func (r *Registry) Register(name string, cal *EnumeratedCalendar) {
	r.cals[name] = cal
}

// Get resolves a single name or a "+"-joined union of names.
func (r *Registry) Get(name string) (*EnumeratedCalendar, error) {
	names := strings.Split(name, "+")
	if len(names) == 1 {
		cal, ok := r.cals[name]
		if !ok {
			return nil, fmt.Errorf("%w: calendar with name %s", ErrLookup, name)
		}
		return cal, nil
	}
	parts := make([]*EnumeratedCalendar, 0, len(names))
	for _, n := range names {
		cal, err := r.Get(n)
		if err != nil {
			return nil, err
		}
		parts = append(parts, cal)
	}
	return Union(parts...)
}
