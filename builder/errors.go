package builder

import "errors"

var (
	// ErrInput marks a malformed definition table or price set.
	ErrInput = errors.New("builder: bad input")
	// ErrSolver marks a least-squares solve that did not converge.
	ErrSolver = errors.New("builder: solver failed")
	// ErrLookup marks a missing instrument or price.
	ErrLookup = errors.New("builder: not found")
	// ErrNumeric marks a NaN in the parameter vector during residual
	// evaluation.
	ErrNumeric = errors.New("builder: numeric failure")
)
