// Package evidence implements the observed/likelihood store the engine
// conditions on — component D of the engine.
package evidence

import (
	"github.com/JohnPierman/bnjt/graph"
	"github.com/JohnPierman/bnjt/tensor"
	"github.com/pkg/errors"
)

// Kind distinguishes a hard observation from a soft (virtual) likelihood.
type Kind int

const (
	// Hard evidence fixes a variable to a single observed state.
	Hard Kind = iota
	// Soft evidence multiplies the variable's distribution by a
	// likelihood vector without forcing it to a single state.
	Soft
)

// ChangeClass is the pending-change state recorded for a node since the
// last time the engine consumed the change log (transition
// table).
type ChangeClass int

const (
	// Added means the node gained an entry this session with no prior
	// entry.
	Added ChangeClass = iota
	// Modified means an existing entry's value changed.
	Modified
	// Erased means an entry present at the last consume is now gone.
	Erased
)

type changeEvent int

const (
	eventAdd changeEvent = iota
	eventModify
	eventErase
)

// Entry is one node's evidence: either a fixed State (Kind == Hard) or a
// Likelihood tensor over just that node (Kind == Soft).
type Entry struct {
	Node       graph.NodeID
	Kind       Kind
	State      int
	Likelihood *tensor.Tensor
}

// Store holds at most one evidence entry per node, plus the pending change
// log consumed by the query layer (H) on its next structural or
// incremental update.
//
// New package: bngo has no evidence/inference-session concept
// (models.BayesianNetwork.Simulate/Predict take a one-shot
// map[string]int). Grounded on aGrUM's
// _onEvidenceAdded/_onEvidenceErased/_onEvidenceChanged
// (ShaferShenoyInference_tpl.h) for the transition semantics.
type Store struct {
	card           map[graph.NodeID]int
	entries        map[graph.NodeID]*Entry
	changeLog      map[graph.NodeID]ChangeClass
	structureDirty bool
}

// New creates an empty evidence store. card gives each variable's domain
// size, used to validate hard states and soft-likelihood shapes.
func New(card map[graph.NodeID]int) *Store {
	return &Store{
		card:      card,
		entries:   make(map[graph.NodeID]*Entry),
		changeLog: make(map[graph.NodeID]ChangeClass),
	}
}

// AddHard records node as observed in state. Fails with
// ErrDuplicateEvidence if node already has an entry, or
// ErrIncompatibleEvidence if state is out of range.
func (s *Store) AddHard(node graph.NodeID, state int) error {
	if _, ok := s.entries[node]; ok {
		return errors.Wrapf(ErrDuplicateEvidence, "node %d", node)
	}
	if state < 0 || state >= s.card[node] {
		return errors.Wrapf(ErrIncompatibleEvidence, "state %d out of range for node %d", state, node)
	}
	s.entries[node] = &Entry{Node: node, Kind: Hard, State: state}
	s.structureDirty = true
	s.record(node, eventAdd)
	return nil
}

// AddSoft records a soft likelihood for node. Fails with
// ErrDuplicateEvidence if node already has an entry.
func (s *Store) AddSoft(node graph.NodeID, likelihood *tensor.Tensor) error {
	if _, ok := s.entries[node]; ok {
		return errors.Wrapf(ErrDuplicateEvidence, "node %d", node)
	}
	if err := s.validateSoft(node, likelihood); err != nil {
		return err
	}
	s.entries[node] = &Entry{Node: node, Kind: Soft, Likelihood: likelihood}
	s.record(node, eventAdd)
	return nil
}

// ChangeHard updates an existing entry for node to a new hard state,
// converting a soft entry to hard if necessary. Fails with
// ErrNoSuchEvidence if node has no entry.
func (s *Store) ChangeHard(node graph.NodeID, state int) error {
	existing, ok := s.entries[node]
	if !ok {
		return errors.Wrapf(ErrNoSuchEvidence, "node %d", node)
	}
	if state < 0 || state >= s.card[node] {
		return errors.Wrapf(ErrIncompatibleEvidence, "state %d out of range for node %d", state, node)
	}
	if existing.Kind == Soft {
		s.structureDirty = true
	}
	existing.Kind = Hard
	existing.State = state
	existing.Likelihood = nil
	s.record(node, eventModify)
	return nil
}

// ChangeSoft updates an existing entry for node to a new soft likelihood,
// converting a hard entry to soft if necessary. Fails with
// ErrNoSuchEvidence if node has no entry.
func (s *Store) ChangeSoft(node graph.NodeID, likelihood *tensor.Tensor) error {
	existing, ok := s.entries[node]
	if !ok {
		return errors.Wrapf(ErrNoSuchEvidence, "node %d", node)
	}
	if err := s.validateSoft(node, likelihood); err != nil {
		return err
	}
	if existing.Kind == Hard {
		s.structureDirty = true
	}
	existing.Kind = Soft
	existing.Likelihood = likelihood
	s.record(node, eventModify)
	return nil
}

// Erase removes node's evidence entry. Fails with ErrNoSuchEvidence if
// node has no entry.
func (s *Store) Erase(node graph.NodeID) error {
	existing, ok := s.entries[node]
	if !ok {
		return errors.Wrapf(ErrNoSuchEvidence, "node %d", node)
	}
	if existing.Kind == Hard {
		s.structureDirty = true
	}
	delete(s.entries, node)
	s.record(node, eventErase)
	return nil
}

// EraseAll removes every evidence entry.
func (s *Store) EraseAll() {
	for node := range s.entries {
		_ = s.Erase(node)
	}
}

// Has reports whether node currently has an evidence entry.
func (s *Store) Has(node graph.NodeID) bool {
	_, ok := s.entries[node]
	return ok
}

// Get returns node's entry, if any.
func (s *Store) Get(node graph.NodeID) (*Entry, bool) {
	e, ok := s.entries[node]
	return e, ok
}

// Nodes returns every node with a current entry, in ascending order.
func (s *Store) Nodes() []graph.NodeID {
	set := graph.NewNodeSet()
	for node := range s.entries {
		set.Add(node)
	}
	return set.Slice()
}

// HardNodes returns every node currently carrying hard evidence, in
// ascending order — the set the junction-tree compiler removes from the
// moral graph before triangulating.
func (s *Store) HardNodes() []graph.NodeID {
	set := graph.NewNodeSet()
	for node, e := range s.entries {
		if e.Kind == Hard {
			set.Add(node)
		}
	}
	return set.Slice()
}

// ConsumeChanges returns the pending change log and clears it. The query
// layer (H) calls this once per update cycle to decide which cliques need
// recomputed potentials and which messages to invalidate.
func (s *Store) ConsumeChanges() map[graph.NodeID]ChangeClass {
	out := s.changeLog
	s.changeLog = make(map[graph.NodeID]ChangeClass)
	return out
}

// StructureDirty reports whether a change since the last consume requires
// a full junction-tree rebuild (a hard-evidence add/erase, or a
// hard/soft kind flip).
func (s *Store) StructureDirty() bool {
	return s.structureDirty
}

// ClearStructureDirty resets the dirty flag after the compiler has rebuilt
// the junction tree.
func (s *Store) ClearStructureDirty() {
	s.structureDirty = false
}

func (s *Store) validateSoft(node graph.NodeID, likelihood *tensor.Tensor) error {
	if likelihood == nil || len(likelihood.Vars) != 1 || likelihood.Vars[0] != node {
		return errors.Wrapf(ErrIncompatibleEvidence, "soft evidence for node %d must be a single-variable tensor over that node", node)
	}
	if len(likelihood.Values) != s.card[node] {
		return errors.Wrapf(ErrIncompatibleEvidence, "soft evidence for node %d has %d values, want %d", node, len(likelihood.Values), s.card[node])
	}
	return nil
}

func (s *Store) record(node graph.NodeID, event changeEvent) {
	cur, ok := s.changeLog[node]
	if !ok {
		switch event {
		case eventAdd:
			s.changeLog[node] = Added
		case eventModify:
			s.changeLog[node] = Modified
		case eventErase:
			s.changeLog[node] = Erased
		}
		return
	}

	switch cur {
	case Added:
		switch event {
		case eventErase:
			delete(s.changeLog, node)
		default:
			s.changeLog[node] = Added
		}
	case Modified:
		switch event {
		case eventErase:
			s.changeLog[node] = Erased
		default:
			s.changeLog[node] = Modified
		}
	case Erased:
		if event == eventAdd {
			s.changeLog[node] = Modified
		} else {
			s.changeLog[node] = Erased
		}
	}
}
