// Package config holds solver and curve construction parameters.
package config

// Config holds the calibration knobs. These were previously hardcoded
// magic numbers throughout the codebase.
type Config struct {
	// SolverTolerance is the max-norm residual at which the least-squares
	// solve is considered converged.
	SolverTolerance float64

	// MaxSolverIterations caps the outer Levenberg-Marquardt iterations of
	// a stage solve.
	MaxSolverIterations int

	// MaxDampingSteps caps the damping retries within one iteration.
	MaxDampingSteps int

	// LambdaInit is the initial Levenberg-Marquardt damping factor;
	// LambdaUp and LambdaDown scale it after rejected and accepted steps.
	LambdaInit float64
	LambdaUp   float64
	LambdaDown float64

	// FiniteDifferenceStep is the bump used for the solver's internal
	// numerical Jacobian.
	FiniteDifferenceStep float64

	// JacobianBump is the one-sided bump for the output dI/dP Jacobian.
	JacobianBump float64

	// MinDiscountFactor is the lower bound on discount-factor degrees of
	// freedom; steps are clamped here to keep the parameter vector in
	// (0, +inf).
	MinDiscountFactor float64

	// InitialFlatRate seeds the unoptimized curves: the initial guess is
	// exp(-InitialFlatRate * (pillar - evalDate) / 365).
	InitialFlatRate float64
}

// DefaultConfig provides production-ready default values.
var DefaultConfig = Config{
	SolverTolerance:      1e-10,
	MaxSolverIterations:  200,
	MaxDampingSteps:      40,
	LambdaInit:           1e-3,
	LambdaUp:             10.0,
	LambdaDown:           0.1,
	FiniteDifferenceStep: 1e-8,
	JacobianBump:         1e-8,
	MinDiscountFactor:    1e-9,
	InitialFlatRate:      0.02,
}

// cfg is the active configuration. Defaults to DefaultConfig.
var cfg = DefaultConfig

// SetConfig replaces the active configuration.
func SetConfig(c Config) {
	cfg = c
}

// GetConfig returns the active configuration.
func GetConfig() Config {
	return cfg
}
