package dates_test

import (
	"errors"
	"testing"
	"time"

	"github.com/meenmo/curvekit/dates"
)

func mustDate(t *testing.T, s string) dates.Date {
	t.Helper()
	d, err := dates.Parse(s)
	if err != nil {
		t.Fatalf("Parse(%s) error: %v", s, err)
	}
	return d
}

func TestTenor(t *testing.T) {
	t.Parallel()

	tenor, err := dates.ParseTenor("3M")
	if err != nil {
		t.Fatalf("ParseTenor error: %v", err)
	}
	if tenor.N != 3 || tenor.Unit != 'M' {
		t.Fatalf("tenor mismatch: %+v", tenor)
	}
	if tenor.String() != "3M" {
		t.Fatalf("String mismatch: %s", tenor.String())
	}

	neg := tenor.Neg()
	if neg.N != -3 || neg.String() != "-3M" {
		t.Fatalf("negation mismatch: %+v", neg)
	}
	if !neg.Neg().Equal(tenor) {
		t.Fatalf("double negation should equal the original")
	}

	for _, bad := range []string{"", "M3", "3X", "-", "3m"} {
		if _, err := dates.ParseTenor(bad); !errors.Is(err, dates.ErrInput) {
			t.Fatalf("ParseTenor(%q): expected input error, got %v", bad, err)
		}
	}
}

func TestDateConversion(t *testing.T) {
	t.Parallel()

	d := mustDate(t, "2015-01-01")
	if d != 42005 {
		t.Fatalf("2015-01-01 should be day 42005, got %d", d)
	}
	if d.String() != "2015-01-01" {
		t.Fatalf("String mismatch: %s", d.String())
	}
	if d.Weekday() != time.Thursday {
		t.Fatalf("2015-01-01 was a Thursday, got %s", d.Weekday())
	}

	// Days below 61 fall into the 1900 leap-year anomaly.
	if _, err := dates.New(1900, time.February, 1); !errors.Is(err, dates.ErrInput) {
		t.Fatalf("expected input error for 1900-02-01, got %v", err)
	}
	if _, err := dates.New(1900, time.March, 1); err != nil {
		t.Fatalf("1900-03-01 should be valid: %v", err)
	}
}

func TestResolve(t *testing.T) {
	t.Parallel()

	ref := dates.Date(43000)
	if ref.String() != "2017-09-22" {
		t.Fatalf("day 43000 should be 2017-09-22, got %s", ref)
	}
	cases := []struct {
		expr string
		want dates.Date
	}{
		{"E", 43000},
		{"1M", 43030},
		{"E+1M", 43030},
		{"E+E+1Y+1M", mustDate(t, "2018-10-22")},
		{"2017-09-22", 43000},
	}
	for _, c := range cases {
		got, err := dates.Resolve(c.expr, ref)
		if err != nil {
			t.Fatalf("Resolve(%q) error: %v", c.expr, err)
		}
		if got != c.want {
			t.Fatalf("Resolve(%q) = %d, want %d", c.expr, got, c.want)
		}
	}

	if _, err := dates.Resolve("E+bogus", ref); !errors.Is(err, dates.ErrInput) {
		t.Fatalf("expected input error, got %v", err)
	}
}

func TestDayCountFractions(t *testing.T) {
	t.Parallel()

	d0 := mustDate(t, "1995-01-01")
	d1 := mustDate(t, "1996-01-01")
	d2 := mustDate(t, "1997-01-01")
	if got := dates.DCF(d0, d1, dates.Act365); got != 1.0 {
		t.Fatalf("ACT365 1995-1996 = %v, want 1", got)
	}
	if got := dates.DCF(d1, d2, dates.Act365); got != 366.0/365.0 {
		t.Fatalf("ACT365 1996-1997 = %v, want 366/365", got)
	}
	if got := dates.DCF(d1, d2, dates.Act360); got != 366.0/360.0 {
		t.Fatalf("ACT360 1996-1997 = %v, want 366/360", got)
	}

	dcfs := dates.DCFs([]dates.Date{d0, d1, d2}, dates.Act365)
	if len(dcfs) != 2 || dcfs[0] != 1.0 || dcfs[1] != 366.0/365.0 {
		t.Fatalf("DCFs mismatch: %v", dcfs)
	}
}

func TestParseDayCount(t *testing.T) {
	t.Parallel()

	if dcc, err := dates.ParseDayCount("ACT360"); err != nil || dcc != dates.Act360 {
		t.Fatalf("ParseDayCount(ACT360) = %v, %v", dcc, err)
	}
	if _, err := dates.ParseDayCount("ACT252"); !errors.Is(err, dates.ErrInput) {
		t.Fatalf("expected input error, got %v", err)
	}
}

func TestStepMonths(t *testing.T) {
	t.Parallel()

	// Month arithmetic clamps to the end of shorter months.
	got, err := dates.Step(mustDate(t, "2015-01-31"), dates.MustTenor("1M"), false)
	if err != nil {
		t.Fatalf("Step error: %v", err)
	}
	if got != mustDate(t, "2015-02-28") {
		t.Fatalf("2015-01-31 + 1M = %s", got)
	}

	got, err = dates.Step(mustDate(t, "2016-02-29"), dates.MustTenor("1Y"), false)
	if err != nil {
		t.Fatalf("Step error: %v", err)
	}
	if got != mustDate(t, "2017-02-28") {
		t.Fatalf("2016-02-29 + 1Y = %s", got)
	}

	got, err = dates.Step(mustDate(t, "2015-01-15"), dates.MustTenor("2Q"), false)
	if err != nil {
		t.Fatalf("Step error: %v", err)
	}
	if got != mustDate(t, "2015-07-15") {
		t.Fatalf("2015-01-15 + 2Q = %s", got)
	}

	got, err = dates.Step(mustDate(t, "2015-03-01"), dates.MustTenor("-1M"), false)
	if err != nil {
		t.Fatalf("Step error: %v", err)
	}
	if got != mustDate(t, "2015-02-01") {
		t.Fatalf("2015-03-01 - 1M = %s", got)
	}
}

func TestStepPreserveEOM(t *testing.T) {
	t.Parallel()

	// 28 Feb is the end of its month, so the target snaps to month end.
	got, err := dates.Step(mustDate(t, "2015-02-28"), dates.MustTenor("1M"), true)
	if err != nil {
		t.Fatalf("Step error: %v", err)
	}
	if got != mustDate(t, "2015-03-31") {
		t.Fatalf("2015-02-28 + 1M eom = %s", got)
	}

	// Without preservation the day of month is kept.
	got, err = dates.Step(mustDate(t, "2015-02-28"), dates.MustTenor("1M"), false)
	if err != nil {
		t.Fatalf("Step error: %v", err)
	}
	if got != mustDate(t, "2015-03-28") {
		t.Fatalf("2015-02-28 + 1M = %s", got)
	}

	if _, err := dates.Step(mustDate(t, "2015-02-28"), dates.MustTenor("1F"), true); !errors.Is(err, dates.ErrInput) {
		t.Fatalf("expected input error for F with eom, got %v", err)
	}
}

func TestStepIMM(t *testing.T) {
	t.Parallel()

	cases := []struct {
		from  string
		tenor string
		want  string
	}{
		{"2014-12-27", "1F", "2015-03-18"},
		{"2014-12-27", "2F", "2015-06-17"},
		{"2014-12-27", "3F", "2015-09-16"},
		// An IMM date steps to the next quarter's IMM date.
		{"2015-03-18", "1F", "2015-06-17"},
		{"2015-03-17", "1F", "2015-03-18"},
		{"2015-01-02", "1F", "2015-03-18"},
	}
	for _, c := range cases {
		got, err := dates.Step(mustDate(t, c.from), dates.MustTenor(c.tenor), false)
		if err != nil {
			t.Fatalf("Step(%s, %s) error: %v", c.from, c.tenor, err)
		}
		if got != mustDate(t, c.want) {
			t.Fatalf("Step(%s, %s) = %s, want %s", c.from, c.tenor, got, c.want)
		}
	}
}

func TestGenerateScheduleFrontStubShort(t *testing.T) {
	t.Parallel()

	got, err := dates.GenerateSchedule(mustDate(t, "1996-01-01"), mustDate(t, "1997-01-01"), dates.MustTenor("3M"), dates.StubFrontShort)
	if err != nil {
		t.Fatalf("GenerateSchedule error: %v", err)
	}
	want := []dates.Date{35065, 35156, 35247, 35339, 35431}
	if len(got) != len(want) {
		t.Fatalf("schedule length %d, want %d (%v)", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("schedule[%d] = %d, want %d", i, got[i], want[i])
		}
	}
}

func TestGenerateScheduleStubs(t *testing.T) {
	t.Parallel()

	start := mustDate(t, "2015-01-01")
	end := mustDate(t, "2015-08-01")
	step := dates.MustTenor("3M")

	cases := []struct {
		stub dates.StubType
		want []string
	}{
		{dates.StubBackShort, []string{"2015-01-01", "2015-04-01", "2015-07-01", "2015-08-01"}},
		{dates.StubBackLong, []string{"2015-01-01", "2015-04-01", "2015-08-01"}},
		{dates.StubFrontShort, []string{"2015-01-01", "2015-02-01", "2015-05-01", "2015-08-01"}},
		{dates.StubFrontLong, []string{"2015-01-01", "2015-05-01", "2015-08-01"}},
	}
	for _, c := range cases {
		got, err := dates.GenerateSchedule(start, end, step, c.stub)
		if err != nil {
			t.Fatalf("GenerateSchedule(%s) error: %v", c.stub, err)
		}
		if len(got) != len(c.want) {
			t.Fatalf("%s: schedule %v, want %v", c.stub, got, c.want)
		}
		for i := range c.want {
			if got[i] != mustDate(t, c.want[i]) {
				t.Fatalf("%s: schedule[%d] = %s, want %s", c.stub, i, got[i], c.want[i])
			}
		}
	}
}

func TestGenerateScheduleNotAllowed(t *testing.T) {
	t.Parallel()

	start := mustDate(t, "2015-01-01")
	step := dates.MustTenor("3M")

	got, err := dates.GenerateSchedule(start, mustDate(t, "2015-07-01"), step, dates.StubNotAllowed)
	if err != nil {
		t.Fatalf("GenerateSchedule error: %v", err)
	}
	if len(got) != 3 || got[2] != mustDate(t, "2015-07-01") {
		t.Fatalf("schedule mismatch: %v", got)
	}

	if _, err := dates.GenerateSchedule(start, mustDate(t, "2015-08-01"), step, dates.StubNotAllowed); !errors.Is(err, dates.ErrInput) {
		t.Fatalf("expected stub error, got %v", err)
	}
}

type weekendOnly struct{}

func (weekendOnly) IsHoliday(d dates.Date) bool {
	wd := d.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

func TestRoll(t *testing.T) {
	t.Parallel()

	sat := mustDate(t, "2015-01-03")
	got, err := dates.Roll(sat, dates.RollFollowing, weekendOnly{})
	if err != nil {
		t.Fatalf("Roll error: %v", err)
	}
	if got != mustDate(t, "2015-01-05") {
		t.Fatalf("FOLLOWING roll = %s", got)
	}

	got, err = dates.Roll(sat, dates.RollPreceding, weekendOnly{})
	if err != nil {
		t.Fatalf("Roll error: %v", err)
	}
	if got != mustDate(t, "2015-01-02") {
		t.Fatalf("PRECEDING roll = %s", got)
	}

	if _, err := dates.Roll(sat, dates.RollModifiedFollowing, weekendOnly{}); !errors.Is(err, dates.ErrInput) {
		t.Fatalf("expected input error for reserved roll type, got %v", err)
	}
}

func TestSpotDate(t *testing.T) {
	t.Parallel()

	// Friday + 2 business days crosses the weekend.
	got, err := dates.SpotDate(mustDate(t, "2015-01-02"), 2, weekendOnly{})
	if err != nil {
		t.Fatalf("SpotDate error: %v", err)
	}
	if got != mustDate(t, "2015-01-06") {
		t.Fatalf("spot date = %s", got)
	}

	if _, err := dates.SpotDate(mustDate(t, "2015-01-03"), 2, weekendOnly{}); !errors.Is(err, dates.ErrInput) {
		t.Fatalf("expected input error for holiday trade date, got %v", err)
	}
}
