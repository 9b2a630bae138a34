package validation

import "errors"

// Calculation error taxonomy. Callers match with errors.Is; the wrapping
// message names the offending input.
var (
	// ErrInvalidInput reports malformed or insufficient input, such as a cash
	// flow list with fewer than two entries or a non-positive term.
	ErrInvalidInput = errors.New("invalid input")

	// ErrDegenerateInput reports input for which the rate solver has no usable
	// derivative, such as cash flows that all fall on one date.
	ErrDegenerateInput = errors.New("degenerate input")

	// ErrNonConvergence reports an iterative calculation that diverged or
	// could not reach its tolerance.
	ErrNonConvergence = errors.New("no convergence")
)
