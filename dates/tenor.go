package dates

import (
	"fmt"
	"strconv"
)

// Tenor is a signed period: a count and a unit. Unit F counts IMM dates
// rather than calendar periods.
type Tenor struct {
	N    int
	Unit byte // 'D', 'M', 'Q', 'Y' or 'F'
	str  string
}

// ParseTenor reads strings like "3M", "1Y", "2F", "-6M".
func ParseTenor(s string) (Tenor, error) {
	if len(s) < 1 {
		return Tenor{}, fmt.Errorf("%w: unable to parse tenor %q", ErrInput, s)
	}
	unit := s[len(s)-1]
	switch unit {
	case 'D', 'M', 'Q', 'Y', 'F':
	default:
		return Tenor{}, fmt.Errorf("%w: unable to parse tenor %q", ErrInput, s)
	}
	n := 0
	if body := s[:len(s)-1]; body != "" && body != "-" {
		var err error
		n, err = strconv.Atoi(body)
		if err != nil {
			return Tenor{}, fmt.Errorf("%w: unable to parse tenor %q", ErrInput, s)
		}
	} else if body == "-" {
		return Tenor{}, fmt.Errorf("%w: unable to parse tenor %q", ErrInput, s)
	}
	return Tenor{N: n, Unit: unit, str: s}, nil
}

// MustTenor is ParseTenor for literals known to be valid.
func MustTenor(s string) Tenor {
	t, err := ParseTenor(s)
	if err != nil {
		panic(err)
	}
	return t
}

// Neg flips the sign of the tenor.
func (t Tenor) Neg() Tenor {
	if len(t.str) > 0 && t.str[0] == '-' {
		return Tenor{N: -t.N, Unit: t.Unit, str: t.str[1:]}
	}
	return Tenor{N: -t.N, Unit: t.Unit, str: "-" + t.str}
}

// Equal compares tenors structurally on their source string.
func (t Tenor) Equal(other Tenor) bool {
	return t.str == other.str
}

func (t Tenor) String() string {
	return t.str
}
