package vasm

import "errors"

// Error text for the scanner's own failure modes. Symbol and emission
// errors are formatted inline at the call site (they need interpolated
// names/addresses), but these three are fixed strings reused from several
// call sites, so they live here once.
var (
	errMissingCloseParen = errors.New("Missing closing parenthesis")
	errMissingNumber     = errors.New("Missing number")
	errNumberTooBig      = errors.New("Number too big")
)
