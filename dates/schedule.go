package dates

import "fmt"

// StubType controls how GenerateSchedule handles a total length that is not
// an integer multiple of the step.
type StubType int

const (
	StubNotAllowed StubType = iota
	StubFrontShort
	StubFrontLong
	StubBackShort
	StubBackLong
)

func (st StubType) String() string {
	switch st {
	case StubNotAllowed:
		return "NOT_ALLOWED"
	case StubFrontShort:
		return "FRONT_STUB_SHORT"
	case StubFrontLong:
		return "FRONT_STUB_LONG"
	case StubBackShort:
		return "BACK_STUB_SHORT"
	case StubBackLong:
		return "BACK_STUB_LONG"
	}
	return fmt.Sprintf("StubType(%d)", int(st))
}

// GenerateSchedule builds the accrual dates from start to end stepping by
// the given tenor. Front stubs step backward from the end date, back stubs
// forward from the start; the short variants append the remainder period,
// the long variants absorb it into the neighbouring period.
func GenerateSchedule(start, end Date, step Tenor, stub StubType) ([]Date, error) {
	if end < start {
		return nil, fmt.Errorf("%w: schedule start %s after end %s", ErrInput, start, end)
	}
	switch stub {
	case StubNotAllowed:
		// Walk d <= end; the landing must be exact.
		out := []Date{}
		d := start
		for d <= end {
			out = append(out, d)
			next, err := forwardStep(d, step)
			if err != nil {
				return nil, err
			}
			d = next
		}
		if mismatch := out[len(out)-1] - end; mismatch != 0 {
			return nil, fmt.Errorf("%w: schedule for start=%s, end=%s, step=%s results in unallowed stub (mismatch %d days)",
				ErrInput, start, end, step, int(mismatch))
		}
		return out, nil
	case StubBackShort:
		out := []Date{}
		d := start
		for d < end {
			out = append(out, d)
			next, err := forwardStep(d, step)
			if err != nil {
				return nil, err
			}
			d = next
		}
		return appendUnlessLast(out, end), nil
	case StubBackLong:
		out := []Date{}
		d := start
		for {
			next, err := forwardStep(d, step)
			if err != nil {
				return nil, err
			}
			if next > end {
				break
			}
			out = append(out, d)
			d = next
		}
		if len(out) == 0 {
			out = append(out, start)
		}
		return appendUnlessLast(out, end), nil
	case StubFrontShort:
		out := []Date{}
		d := end
		for d > start {
			out = append(out, d)
			prev, err := backwardStep(d, step)
			if err != nil {
				return nil, err
			}
			d = prev
		}
		out = appendUnlessLast(out, start)
		reverse(out)
		return out, nil
	case StubFrontLong:
		out := []Date{}
		d := end
		for {
			prev, err := backwardStep(d, step)
			if err != nil {
				return nil, err
			}
			if prev < start {
				break
			}
			out = append(out, d)
			d = prev
		}
		if len(out) == 0 {
			out = append(out, end)
		}
		out = appendUnlessLast(out, start)
		reverse(out)
		return out, nil
	}
	return nil, fmt.Errorf("%w: stub type %s not supported", ErrInput, stub)
}

func forwardStep(d Date, step Tenor) (Date, error) {
	next, err := Step(d, step, false)
	if err != nil {
		return 0, err
	}
	if next <= d {
		return 0, fmt.Errorf("%w: schedule step %s does not advance from %s", ErrInput, step, d)
	}
	return next, nil
}

func backwardStep(d Date, step Tenor) (Date, error) {
	prev, err := Step(d, step.Neg(), false)
	if err != nil {
		return 0, err
	}
	if prev >= d {
		return 0, fmt.Errorf("%w: schedule step %s does not retreat from %s", ErrInput, step, d)
	}
	return prev, nil
}

func appendUnlessLast(out []Date, d Date) []Date {
	if len(out) == 0 || out[len(out)-1] != d {
		out = append(out, d)
	}
	return out
}

func reverse(ds []Date) {
	for i, j := 0, len(ds)-1; i < j; i, j = i+1, j-1 {
		ds[i], ds[j] = ds[j], ds[i]
	}
}
