package tensor

import "errors"

// ErrCardinalityMismatch is returned when two tensors disagree on the
// domain size of a variable they both carry.
var ErrCardinalityMismatch = errors.New("tensor: cardinality mismatch")

// ErrShapeMismatch is returned when a Values slice does not match the size
// implied by Vars/Card.
var ErrShapeMismatch = errors.New("tensor: values length does not match shape")

// ErrDegenerate is returned by Normalize when every entry of a tensor is
// zero, so there is no proportional rescaling that sums to one.
var ErrDegenerate = errors.New("tensor: degenerate, all entries are zero")

// ErrUnknownVariable is returned when an operation names a variable absent
// from a tensor's Vars.
var ErrUnknownVariable = errors.New("tensor: unknown variable")
