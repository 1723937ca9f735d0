package window

import "errors"

// ErrUnknownType is returned by ParseType for an unrecognised window name.
var ErrUnknownType = errors.New("window: unknown window type")

var errMismatchedLength = errors.New("window: samples and coefficients must have same length")
