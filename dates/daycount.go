package dates

import "fmt"

// DayCount is an accrual day-count convention.
type DayCount int

const (
	Act365 DayCount = iota
	Act360
)

// Denominator returns the convention's year denominator.
func (dcc DayCount) Denominator() float64 {
	switch dcc {
	case Act360:
		return 360.0
	case Act365:
		return 365.0
	}
	panic(fmt.Sprintf("dates: unknown day count %d", int(dcc)))
}

func (dcc DayCount) String() string {
	switch dcc {
	case Act360:
		return "ACT360"
	case Act365:
		return "ACT365"
	}
	return fmt.Sprintf("DayCount(%d)", int(dcc))
}

// ParseDayCount reads the convention-table spelling (ACT360, ACT365).
func ParseDayCount(s string) (DayCount, error) {
	switch s {
	case "ACT360":
		return Act360, nil
	case "ACT365":
		return Act365, nil
	}
	return 0, fmt.Errorf("%w: unable to convert %q to a day count, possible values are ACT360,ACT365", ErrInput, s)
}

// DCF is the day-count fraction between two dates.
func DCF(d0, d1 Date, dcc DayCount) float64 {
	return float64(d1-d0) / dcc.Denominator()
}

// DCFs returns the fractions of consecutive schedule periods.
func DCFs(schedule []Date, dcc DayCount) []float64 {
	out := make([]float64, len(schedule)-1)
	for i := range out {
		out[i] = DCF(schedule[i], schedule[i+1], dcc)
	}
	return out
}
