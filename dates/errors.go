package dates

import "errors"

// ErrInput marks malformed tenors, unparseable dates, and schedules that
// violate their stub policy.
var ErrInput = errors.New("dates: bad input")
