package dates

import (
	"fmt"
	"time"
)

// addMonths behaves like Excel's EDATE: the day of month is clamped to the
// target month's length instead of being normalized into the next month.
func addMonths(t time.Time, months int) time.Time {
	target := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, months, 0)
	if target.Month() == t.AddDate(0, months, 0).Month() {
		return t.AddDate(0, months, 0)
	}
	d := t.AddDate(0, months, 0)
	overshoot := d.Month()
	for d.Month() == overshoot {
		d = d.AddDate(0, 0, -1)
	}
	return d
}

func daysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// thirdWednesday returns the day of month of the third Wednesday.
func thirdWednesday(year int, month time.Month) int {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	sinceWed := (int(first.Weekday()) + 6) % 7 // Monday=0
	sinceWed -= 2
	tillWed := 7 - sinceWed
	if sinceWed >= 1 {
		return first.AddDate(0, 0, tillWed+14).Day()
	}
	return first.AddDate(0, 0, tillWed+7).Day()
}

// nextIMM returns the first IMM date (third Wednesday of Mar/Jun/Sep/Dec)
// strictly after t when t is itself an IMM date, otherwise the IMM date of
// t's quarter or the following one.
func nextIMM(t time.Time) time.Time {
	switch t.Month() {
	case time.March, time.June, time.September, time.December:
		wed := thirdWednesday(t.Year(), t.Month())
		if wed <= t.Day() {
			return nextIMM(addMonths(t, 1))
		}
		return time.Date(t.Year(), t.Month(), wed, 0, 0, 0, 0, time.UTC)
	default:
		m := time.Month((int(t.Month())-1)/3*3 + 3)
		return time.Date(t.Year(), m, thirdWednesday(t.Year(), m), 0, 0, 0, 0, time.UTC)
	}
}

// Step advances d by a tenor. Units D/M/Q/Y step the calendar date; unit F
// advances to the n-th IMM date after d. With preserveEOM, a date on the
// last day of its month stays on the last day of the target month.
func Step(d Date, tenor Tenor, preserveEOM bool) (Date, error) {
	t := d.Time()
	var stepped time.Time
	switch tenor.Unit {
	case 'F':
		if preserveEOM {
			return 0, fmt.Errorf("%w: cannot preserve end-of-month stepping tenor %s", ErrInput, tenor)
		}
		stepped = t
		for i := 0; i < tenor.N; i++ {
			stepped = nextIMM(stepped)
		}
	case 'D':
		stepped = t.AddDate(0, 0, tenor.N)
	case 'M':
		stepped = addMonths(t, tenor.N)
	case 'Q':
		stepped = addMonths(t, 3*tenor.N)
	case 'Y':
		stepped = addMonths(t, 12*tenor.N)
	default:
		return 0, fmt.Errorf("%w: unknown tenor unit %q", ErrInput, string(tenor.Unit))
	}
	if preserveEOM && t.Day() == daysInMonth(t.Year(), t.Month()) {
		stepped = time.Date(stepped.Year(), stepped.Month(), daysInMonth(stepped.Year(), stepped.Month()), 0, 0, 0, 0, time.UTC)
	}
	return FromTime(stepped)
}
