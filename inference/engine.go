// Package inference is the top-level query & cache layer (component H):
// Engine owns a compiled junction tree and answers posterior queries
// against it, recompiling or incrementally updating as evidence and
// targets change.
package inference

import (
	"github.com/JohnPierman/bnjt/bnet"
	"github.com/JohnPierman/bnjt/evidence"
	"github.com/JohnPierman/bnjt/graph"
	"github.com/JohnPierman/bnjt/jtree"
	"github.com/JohnPierman/bnjt/propagate"
	"github.com/JohnPierman/bnjt/target"
	"github.com/JohnPierman/bnjt/tensor"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// Engine is a single inference session over one Network: its evidence,
// its registered targets, and the compiled junction tree answering
// queries against them.
//
// Grounded on aGrUM's ShaferShenoyInference: New corresponds to
// makeInference's lazy-compile discipline (nothing is built until the
// first query), and the mutator/query split below mirrors its public
// surface (_posterior/_jointPosterior/evidenceProbability).
type Engine struct {
	net      bnet.Network
	evidence *evidence.Store
	targets  *target.Registry
	cfg      Config
	compiler *jtree.Compiler

	jt             *jtree.JunctionTree
	structureDirty bool

	posteriorCache map[graph.NodeID]*tensor.Tensor
	jointCache     map[string]*tensor.Tensor
}

// New creates an Engine over net. net is borrowed, never mutated; a
// caller that mutates it directly must call SetOutdatedStructure.
func New(net bnet.Network, opts ...Option) *Engine {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	card := make(map[graph.NodeID]int)
	for _, n := range net.Nodes() {
		v, _ := net.Variable(n)
		card[n] = v.Card
	}

	compiler := jtree.NewCompiler(cfg.Triangulation)
	compiler.PruneBarren = cfg.BarrenNodes
	compiler.BinaryJoinTree = cfg.BinaryJoinTree

	return &Engine{
		net:            net,
		evidence:       evidence.New(card),
		targets:        target.New(),
		cfg:            cfg,
		compiler:       compiler,
		structureDirty: true,
		posteriorCache: make(map[graph.NodeID]*tensor.Tensor),
		jointCache:     make(map[string]*tensor.Tensor),
	}
}

// Generation identifies the currently compiled junction tree, or the zero
// UUID if nothing has been compiled yet. A caller instrumenting a
// long-running session can correlate cached posteriors against the tree
// they were computed from across rebuilds.
func (e *Engine) Generation() uuid.UUID {
	if e.jt == nil {
		return uuid.UUID{}
	}
	return e.jt.Generation
}

// SetOutdatedStructure marks the engine's compiled tree stale, forcing a
// full recompile before the next query. Required after the caller mutates
// the underlying Network directly.
func (e *Engine) SetOutdatedStructure() {
	e.structureDirty = true
	e.invalidateCaches()
}

// --- Evidence mutators ---

// AddHardEvidence observes node in state.
func (e *Engine) AddHardEvidence(node graph.NodeID, state int) error {
	if err := e.evidence.AddHard(node, state); err != nil {
		return errors.Wrapf(err, "inference: add hard evidence for node %d", node)
	}
	e.invalidateCaches()
	return e.syncAfterEvidenceChange()
}

// AddSoftEvidence multiplies node's distribution by likelihood, which must
// be a single-variable, non-negative tensor over exactly node.
func (e *Engine) AddSoftEvidence(node graph.NodeID, likelihood *tensor.Tensor) error {
	if err := requireNonNegative(likelihood); err != nil {
		return err
	}
	if err := e.evidence.AddSoft(node, likelihood); err != nil {
		return errors.Wrapf(err, "inference: add soft evidence for node %d", node)
	}
	e.invalidateCaches()
	return e.syncAfterEvidenceChange()
}

// ChangeHardEvidence updates an existing entry for node to a new hard
// state.
func (e *Engine) ChangeHardEvidence(node graph.NodeID, state int) error {
	if err := e.evidence.ChangeHard(node, state); err != nil {
		return errors.Wrapf(err, "inference: change evidence for node %d", node)
	}
	e.invalidateCaches()
	// The compiled tree's CPTs were reduced against the old state, so a new
	// hard state always forces a full recompile.
	e.structureDirty = true
	e.evidence.ClearStructureDirty()
	e.evidence.ConsumeChanges()
	return nil
}

// ChangeSoftEvidence updates an existing entry for node to a new soft
// likelihood.
func (e *Engine) ChangeSoftEvidence(node graph.NodeID, likelihood *tensor.Tensor) error {
	if err := requireNonNegative(likelihood); err != nil {
		return err
	}
	if err := e.evidence.ChangeSoft(node, likelihood); err != nil {
		return errors.Wrapf(err, "inference: change evidence for node %d", node)
	}
	e.invalidateCaches()
	return e.syncAfterEvidenceChange()
}

// EraseEvidence removes node's evidence entry.
func (e *Engine) EraseEvidence(node graph.NodeID) error {
	if err := e.evidence.Erase(node); err != nil {
		return errors.Wrapf(err, "inference: erase evidence for node %d", node)
	}
	e.invalidateCaches()
	return e.syncAfterEvidenceChange()
}

// EraseAllEvidence removes every evidence entry.
func (e *Engine) EraseAllEvidence() error {
	e.evidence.EraseAll()
	e.invalidateCaches()
	return e.syncAfterEvidenceChange()
}

// syncAfterEvidenceChange applies the cheapest update the change actually
// requires: a full recompile if the tree's shape is now stale (a
// hard-evidence add/erase or a hard/soft kind flip), otherwise an
// in-place recomputation of just the cliques the changed nodes' factors
// live in.
func (e *Engine) syncAfterEvidenceChange() error {
	if e.evidence.StructureDirty() {
		e.structureDirty = true
		e.evidence.ClearStructureDirty()
		e.evidence.ConsumeChanges()
		return nil
	}
	if e.jt == nil {
		e.evidence.ConsumeChanges()
		return nil
	}

	changes := e.evidence.ConsumeChanges()
	for node := range changes {
		if !e.jt.Relevant.Contains(node) {
			// Evidence on a node the tree was pruned without widens the
			// ancestral set Compile moralises over.
			e.structureDirty = true
			return nil
		}
	}
	touched, err := jtree.Update(e.net, e.evidence, e.jt, changes)
	if err != nil {
		return errors.Wrap(err, "inference: incremental evidence update")
	}
	for _, cl := range touched {
		propagate.InvalidateFrom(e.jt, cl)
	}
	return nil
}

// --- Target mutators ---

// AddTarget registers node as a single-variable target.
func (e *Engine) AddTarget(node graph.NodeID) {
	if e.targets.HasSingle(node) {
		return
	}
	e.targets.AddSingle(node)
	e.structureDirty = true
	e.invalidateCaches()
}

// EraseTarget unregisters node as a single-variable target.
func (e *Engine) EraseTarget(node graph.NodeID) {
	e.targets.RemoveSingle(node)
	e.invalidateCaches()
}

// AddJointTarget registers vars as a joint target, applying the
// subsumption rules of target.Registry.AddJoint.
func (e *Engine) AddJointTarget(vars graph.NodeSet) {
	if e.targets.AddJoint(vars) {
		e.structureDirty = true
	}
	e.invalidateCaches()
}

// EraseJointTarget unregisters the joint target exactly matching vars.
func (e *Engine) EraseJointTarget(vars graph.NodeSet) {
	e.targets.RemoveJoint(vars)
	e.invalidateCaches()
}

// EraseAllTargets unregisters every single and joint target.
func (e *Engine) EraseAllTargets() {
	e.targets = target.New()
	e.invalidateCaches()
}

// AddAllSingleTargets registers every network variable as a single-variable
// target.
func (e *Engine) AddAllSingleTargets() {
	for _, n := range e.net.Nodes() {
		e.targets.AddSingle(n)
	}
	e.structureDirty = true
	e.invalidateCaches()
}

func (e *Engine) invalidateCaches() {
	e.posteriorCache = make(map[graph.NodeID]*tensor.Tensor)
	e.jointCache = make(map[string]*tensor.Tensor)
}

// ensureCompiled rebuilds the junction tree if it is missing or stale.
func (e *Engine) ensureCompiled() error {
	if e.jt != nil && !e.structureDirty {
		return nil
	}
	jt, err := e.compiler.Compile(e.net, e.evidence, e.targets)
	if err != nil {
		return errors.Wrap(err, "inference: compile")
	}
	e.jt = jt
	e.structureDirty = false
	e.evidence.ClearStructureDirty()
	e.evidence.ConsumeChanges()
	e.invalidateCaches()
	return nil
}

func requireNonNegative(t *tensor.Tensor) error {
	for _, v := range t.Values {
		if v < 0 {
			return errors.Wrap(ErrInvalidArgument, "inference: soft evidence must be non-negative")
		}
	}
	return nil
}
