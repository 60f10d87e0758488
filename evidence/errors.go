package evidence

import "errors"

// ErrDuplicateEvidence is returned by Add when the node already has an
// evidence entry; use Change to update an existing entry instead.
var ErrDuplicateEvidence = errors.New("evidence: entry already exists for node")

// ErrNoSuchEvidence is returned by Change/Erase when the node has no
// evidence entry.
var ErrNoSuchEvidence = errors.New("evidence: no entry for node")

// ErrIncompatibleEvidence is returned when a hard-evidence state is
// outside the variable's domain, or a soft-evidence likelihood has the
// wrong shape.
var ErrIncompatibleEvidence = errors.New("evidence: incompatible with variable domain")
