// Package bnet provides the minimal, discrete, read-only-from-the-engine's
// point of view Bayesian network type the junction-tree engine is built to
// consume. It intentionally does not implement parameter learning,
// structure learning, or continuous variables: the engine treats a Network
// as borrowed data, never as something it owns or fits.
package bnet

import (
	"github.com/JohnPierman/bnjt/graph"
	"github.com/JohnPierman/bnjt/tensor"
	"github.com/pkg/errors"
)

// ErrUnknownVariable is returned when a NodeID not present in the network
// is passed to one of its accessors.
var ErrUnknownVariable = errors.New("bnet: unknown variable")

// ErrCPDShapeMismatch is returned when AddCPT's values don't match the
// variable's declared cardinality times its parents' cardinalities.
var ErrCPDShapeMismatch = errors.New("bnet: CPT shape does not match variable/parent cardinalities")

// Variable describes one node of a network: its identity, display name,
// and domain size.
type Variable struct {
	ID   graph.NodeID
	Name string
	Card int
}

// Network is the read-only surface the junction-tree compiler and the
// message-passing engine consume. jtree.Compiler never mutates a Network
// and never assumes it owns one — callers that mutate the
// concrete network back it must call Engine.SetOutdatedStructure.
type Network interface {
	graph.DAGSource
	Variable(n graph.NodeID) (Variable, error)
	CPT(n graph.NodeID) (*tensor.Tensor, error)
}

// DiscreteNetwork is the concrete Network implementation the demo and
// tests construct networks with, in place of the file-format readers
// explicitly out of scope for this module.
//
// Adapted from JohnPierman/bngo's models.BayesianNetwork, trimmed to drop
// Gaussian CPDs, Fit/FitMixed/Predict/learnCPD*, and VariableType tracking
// (this package is discrete-only by construction).
type DiscreteNetwork struct {
	nextID   graph.NodeID
	vars     map[graph.NodeID]Variable
	order    []graph.NodeID
	parents  map[graph.NodeID][]graph.NodeID
	cpts     map[graph.NodeID]*tensor.Tensor
}

// New creates an empty network.
func New() *DiscreteNetwork {
	return &DiscreteNetwork{
		vars:    make(map[graph.NodeID]Variable),
		parents: make(map[graph.NodeID][]graph.NodeID),
		cpts:    make(map[graph.NodeID]*tensor.Tensor),
	}
}

// AddVariable declares a new discrete variable with the given display name
// and domain size, returning its id.
func (n *DiscreteNetwork) AddVariable(name string, card int) graph.NodeID {
	id := n.nextID
	n.nextID++
	n.vars[id] = Variable{ID: id, Name: name, Card: card}
	n.order = append(n.order, id)
	n.parents[id] = nil
	return id
}

// AddEdge declares parent as a parent of child. Returns ErrCycle if doing
// so would make the network's DAG view cyclic.
func (n *DiscreteNetwork) AddEdge(parent, child graph.NodeID) error {
	if _, ok := n.vars[parent]; !ok {
		return errors.Wrapf(ErrUnknownVariable, "parent %d", parent)
	}
	if _, ok := n.vars[child]; !ok {
		return errors.Wrapf(ErrUnknownVariable, "child %d", child)
	}

	n.parents[child] = append(n.parents[child], parent)
	view := graph.NewDAGView(n)
	if _, err := view.TopologicalSort(); err != nil {
		// undo
		n.parents[child] = n.parents[child][:len(n.parents[child])-1]
		return err
	}
	return nil
}

// AddCPT attaches a conditional probability table to variable, in
// row-major order over [variable's own states outer, then parents in the
// order returned by Parents, each varying fastest last] — i.e. the same
// convention bngo's TabularCPD uses, just generalized to NodeID.
func (n *DiscreteNetwork) AddCPT(variable graph.NodeID, values []float64) error {
	v, ok := n.vars[variable]
	if !ok {
		return errors.Wrapf(ErrUnknownVariable, "variable %d", variable)
	}

	parents := n.Parents(variable)
	vars := append([]graph.NodeID{variable}, parents...)
	card := make(map[graph.NodeID]int, len(vars))
	card[variable] = v.Card
	for _, p := range parents {
		card[p] = n.vars[p].Card
	}

	t, err := tensor.New(vars, card, values)
	if err != nil {
		return errors.Wrap(ErrCPDShapeMismatch, err.Error())
	}
	n.cpts[variable] = t
	return nil
}

// Nodes returns every variable id, in declaration order.
func (n *DiscreteNetwork) Nodes() []graph.NodeID {
	return append([]graph.NodeID(nil), n.order...)
}

// Parents returns the declared parents of variable, in declaration order.
func (n *DiscreteNetwork) Parents(variable graph.NodeID) []graph.NodeID {
	return append([]graph.NodeID(nil), n.parents[variable]...)
}

// Variable returns the Variable record for id.
func (n *DiscreteNetwork) Variable(id graph.NodeID) (Variable, error) {
	v, ok := n.vars[id]
	if !ok {
		return Variable{}, errors.Wrapf(ErrUnknownVariable, "%d", id)
	}
	return v, nil
}

// CPT returns the conditional probability table attached to variable.
func (n *DiscreteNetwork) CPT(variable graph.NodeID) (*tensor.Tensor, error) {
	t, ok := n.cpts[variable]
	if !ok {
		return nil, errors.Wrapf(ErrUnknownVariable, "no CPT for %d", variable)
	}
	return t, nil
}

// VariableByName looks a variable up by its display name, for callers (the
// CLI, tests) that build a network with readable names and then want to
// query by name instead of threading NodeIDs through by hand.
func (n *DiscreteNetwork) VariableByName(name string) (Variable, bool) {
	for _, v := range n.vars {
		if v.Name == name {
			return v, true
		}
	}
	return Variable{}, false
}

// Copy returns a deep copy of the network.
func (n *DiscreteNetwork) Copy() *DiscreteNetwork {
	out := New()
	out.nextID = n.nextID
	for id, v := range n.vars {
		out.vars[id] = v
	}
	out.order = append([]graph.NodeID(nil), n.order...)
	for id, ps := range n.parents {
		out.parents[id] = append([]graph.NodeID(nil), ps...)
	}
	for id, t := range n.cpts {
		out.cpts[id] = t.Copy()
	}
	return out
}
