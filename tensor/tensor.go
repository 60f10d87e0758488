// Package tensor implements the factor algebra the junction-tree engine
// runs on: combine (pointwise product), project-out (marginal sum),
// normalize, and the combined barren-variable-aware combine-and-project
// used when producing a message out of a clique.
package tensor

import (
	"fmt"
	"sort"

	"github.com/JohnPierman/bnjt/graph"
	perrors "github.com/pkg/errors"
)

// Tensor is a function from an assignment of Vars to a real value, stored
// densely in mixed-radix order. It plays the role of both a CPT and a
// clique/separator potential in the junction-tree engine.
//
// Adapted from bngo's factors.DiscreteFactor (string-keyed
// variables), generalized to graph.NodeID.
type Tensor struct {
	Vars   []graph.NodeID
	Card   map[graph.NodeID]int
	Values []float64
}

// New builds a Tensor, checking that len(values) matches the product of
// the cardinalities of vars.
func New(vars []graph.NodeID, card map[graph.NodeID]int, values []float64) (*Tensor, error) {
	size := 1
	for _, v := range vars {
		size *= card[v]
	}
	if len(values) != size {
		return nil, perrors.Wrapf(ErrShapeMismatch, "got %d values, want %d", len(values), size)
	}
	return &Tensor{Vars: vars, Card: card, Values: values}, nil
}

// Uniform builds a Tensor over vars whose every entry is 1, the identity
// element for Combine. Used as the seed of every clique's Φ(C) before the
// factors assigned to that clique are combined in.
func Uniform(vars []graph.NodeID, card map[graph.NodeID]int) *Tensor {
	size := 1
	for _, v := range vars {
		size *= card[v]
	}
	values := make([]float64, size)
	for i := range values {
		values[i] = 1
	}
	return &Tensor{Vars: append([]graph.NodeID(nil), vars...), Card: card, Values: values}
}

// Copy returns a deep copy.
func (t *Tensor) Copy() *Tensor {
	card := make(map[graph.NodeID]int, len(t.Card))
	for k, v := range t.Card {
		card[k] = v
	}
	vars := append([]graph.NodeID(nil), t.Vars...)
	values := append([]float64(nil), t.Values...)
	return &Tensor{Vars: vars, Card: card, Values: values}
}

// HasVar reports whether v is among t.Vars.
func (t *Tensor) HasVar(v graph.NodeID) bool {
	for _, existing := range t.Vars {
		if existing == v {
			return true
		}
	}
	return false
}

func sortedUnion(a, b []graph.NodeID) []graph.NodeID {
	set := graph.NewNodeSet(a...)
	for _, v := range b {
		set.Add(v)
	}
	return set.Slice()
}

func strideIndex(vars []graph.NodeID, assignment map[graph.NodeID]int, card map[graph.NodeID]int) int {
	idx := 0
	stride := 1
	for i := len(vars) - 1; i >= 0; i-- {
		v := vars[i]
		idx += assignment[v] * stride
		stride *= card[v]
	}
	return idx
}

// Get returns the value at the given full assignment of t.Vars.
func (t *Tensor) Get(assignment map[graph.NodeID]int) float64 {
	return t.Values[strideIndex(t.Vars, assignment, t.Card)]
}

// Set stores v at the given full assignment of t.Vars.
func (t *Tensor) Set(assignment map[graph.NodeID]int, v float64) {
	t.Values[strideIndex(t.Vars, assignment, t.Card)] = v
}

// Sum returns the sum of every entry.
func (t *Tensor) Sum() float64 {
	sum := 0.0
	for _, v := range t.Values {
		sum += v
	}
	return sum
}

// Normalize rescales Values in place so they sum to one. Returns
// ErrDegenerate if the current sum is zero.
func (t *Tensor) Normalize() error {
	sum := t.Sum()
	if sum == 0 {
		return ErrDegenerate
	}
	for i := range t.Values {
		t.Values[i] /= sum
	}
	return nil
}

// Combine returns the pointwise product of t and other over the union of
// their variables, failing if they disagree on a shared variable's
// cardinality.
func (t *Tensor) Combine(other *Tensor) (*Tensor, error) {
	newVars := sortedUnion(t.Vars, other.Vars)

	newCard := make(map[graph.NodeID]int, len(newVars))
	for k, v := range t.Card {
		newCard[k] = v
	}
	for k, v := range other.Card {
		if existing, ok := newCard[k]; ok && existing != v {
			return nil, perrors.Wrapf(ErrCardinalityMismatch, "variable %d", k)
		}
		newCard[k] = v
	}

	size := 1
	for _, v := range newVars {
		size *= newCard[v]
	}
	newValues := make([]float64, size)

	assignment := make(map[graph.NodeID]int, len(newVars))
	combineWalk(0, newVars, assignment, newCard, func() {
		idx := strideIndex(newVars, assignment, newCard)
		newValues[idx] = t.Get(assignment) * other.Get(assignment)
	})

	return New(newVars, newCard, newValues)
}

func combineWalk(depth int, vars []graph.NodeID, assignment map[graph.NodeID]int, card map[graph.NodeID]int, visit func()) {
	if depth == len(vars) {
		visit()
		return
	}
	v := vars[depth]
	for i := 0; i < card[v]; i++ {
		assignment[v] = i
		combineWalk(depth+1, vars, assignment, card, visit)
	}
}

// ProjectOut sums vars out of t, returning a tensor over the remaining
// variables. Projecting out every variable yields a scalar (zero-variable)
// tensor holding the total sum.
func (t *Tensor) ProjectOut(vars []graph.NodeID) (*Tensor, error) {
	remove := graph.NewNodeSet(vars...)

	newVars := make([]graph.NodeID, 0, len(t.Vars))
	for _, v := range t.Vars {
		if !remove.Contains(v) {
			newVars = append(newVars, v)
		}
	}
	sortNodeIDsLocal(newVars)

	if len(newVars) == 0 {
		return New(nil, map[graph.NodeID]int{}, []float64{t.Sum()})
	}

	newCard := make(map[graph.NodeID]int, len(newVars))
	for _, v := range newVars {
		newCard[v] = t.Card[v]
	}
	size := 1
	for _, v := range newVars {
		size *= newCard[v]
	}
	newValues := make([]float64, size)

	assignment := make(map[graph.NodeID]int, len(t.Vars))
	combineWalk(0, t.Vars, assignment, t.Card, func() {
		oldIdx := strideIndex(t.Vars, assignment, t.Card)
		newIdx := strideIndex(newVars, assignment, newCard)
		newValues[newIdx] += t.Values[oldIdx]
	})

	return New(newVars, newCard, newValues)
}

// Extract fixes the variables named in assignment to their given values
// and drops them, returning a tensor over whatever remains of t.Vars. This
// is the tensor-level counterpart of projecting hard evidence into a CPT
// or clique potential.
func (t *Tensor) Extract(assignment map[graph.NodeID]int) (*Tensor, error) {
	for v := range assignment {
		if !t.HasVar(v) {
			return nil, perrors.Wrapf(ErrUnknownVariable, "variable %d", v)
		}
	}

	newVars := make([]graph.NodeID, 0, len(t.Vars))
	for _, v := range t.Vars {
		if _, fixed := assignment[v]; !fixed {
			newVars = append(newVars, v)
		}
	}

	if len(newVars) == 0 {
		idx := strideIndex(t.Vars, assignment, t.Card)
		return New(nil, map[graph.NodeID]int{}, []float64{t.Values[idx]})
	}

	newCard := make(map[graph.NodeID]int, len(newVars))
	for _, v := range newVars {
		newCard[v] = t.Card[v]
	}
	size := 1
	for _, v := range newVars {
		size *= newCard[v]
	}
	newValues := make([]float64, size)

	full := make(map[graph.NodeID]int, len(t.Vars))
	for v, val := range assignment {
		full[v] = val
	}
	combineWalk(0, newVars, full, newCard, func() {
		oldIdx := strideIndex(t.Vars, full, t.Card)
		newIdx := strideIndex(newVars, full, newCard)
		newValues[newIdx] = t.Values[oldIdx]
	})

	return New(newVars, newCard, newValues)
}

// CombineAndProject combines factors pointwise and projects out every
// variable not in keep, pre-projecting barren variables out of individual
// factors before the full combine to minimize peak tensor size.
//
// A variable is barren here if it appears in exactly one of factors and is
// not in keep: summing it out of that single factor first, before
// combining, gives the same result as combining everything and projecting
// at the end, but never materializes the larger intermediate tensor.
// Grounded on aGrUM's __removeBarrenVariables (ShaferShenoyInference_tpl.h).
func CombineAndProject(factors []*Tensor, keep graph.NodeSet) (*Tensor, error) {
	if len(factors) == 0 {
		return nil, fmt.Errorf("tensor: CombineAndProject requires at least one factor")
	}

	occurrences := make(map[graph.NodeID]int)
	for _, f := range factors {
		for _, v := range f.Vars {
			occurrences[v]++
		}
	}

	reduced := make([]*Tensor, len(factors))
	for i, f := range factors {
		var barren []graph.NodeID
		for _, v := range f.Vars {
			if occurrences[v] == 1 && !keep.Contains(v) {
				barren = append(barren, v)
			}
		}
		if len(barren) == 0 {
			reduced[i] = f
			continue
		}
		projected, err := f.ProjectOut(barren)
		if err != nil {
			return nil, err
		}
		reduced[i] = projected
	}

	product := reduced[0]
	var err error
	for _, f := range reduced[1:] {
		product, err = product.Combine(f)
		if err != nil {
			return nil, err
		}
	}

	var remaining []graph.NodeID
	for _, v := range product.Vars {
		if !keep.Contains(v) {
			remaining = append(remaining, v)
		}
	}
	if len(remaining) == 0 {
		return product, nil
	}
	return product.ProjectOut(remaining)
}

func sortNodeIDsLocal(ids []graph.NodeID) {
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
}
