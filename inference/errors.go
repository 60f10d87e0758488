package inference

import "errors"

// ErrIncompatibleEvidence is returned by a posterior-family query when the
// observed evidence has zero joint probability (every entry of the final
// combined tensor is zero before normalisation).
var ErrIncompatibleEvidence = errors.New("inference: evidence is incompatible (zero probability)")

// ErrUndefinedTarget is returned by JointPosterior when the requested set
// is neither a declared joint target nor covered by any single clique of
// the compiled junction tree.
var ErrUndefinedTarget = errors.New("inference: queried set is not a declared or coverable target")

// ErrInvalidArgument covers malformed arguments: a soft-evidence tensor
// with a negative value, or an EvidenceImpact call whose target is in its
// conditioning set. A soft-evidence tensor over the wrong variable or of
// the wrong length, and an out-of-range hard state, are not reported with
// this error: they come back wrapping evidence.ErrIncompatibleEvidence.
var ErrInvalidArgument = errors.New("inference: invalid argument")
