package jtree

import "errors"

// ErrNoRelevantVariables is returned by Compile when, after barren-node
// pruning, no variable remains to build a junction tree over — every
// variable that matters is already hard evidence.
var ErrNoRelevantVariables = errors.New("jtree: no variables remain after pruning barren/evidence nodes")

// ErrUnassignedFactor is returned when a CPT (after evidence extraction)
// cannot be placed into any clique of the compiled junction tree. This
// would indicate a defect in moralisation or triangulation, not a normal
// runtime condition.
var ErrUnassignedFactor = errors.New("jtree: no clique found to hold a reduced factor")
