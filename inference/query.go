package inference

import (
	"fmt"

	"github.com/JohnPierman/bnjt/evidence"
	"github.com/JohnPierman/bnjt/graph"
	"github.com/JohnPierman/bnjt/propagate"
	"github.com/JohnPierman/bnjt/tensor"
	"github.com/pkg/errors"
)

// Posterior computes P(v | evidence), normalised. A node carrying hard
// evidence returns its indicator tensor directly.
//
// Grounded on aGrUM's ShaferShenoyInference::_posterior: collect toward
// node->clique(v), combine Φ(K) with every incoming message, project
// everything but v out, normalise.
func (e *Engine) Posterior(v graph.NodeID) (*tensor.Tensor, error) {
	if entry, ok := e.evidence.Get(v); ok && entry.Kind == evidence.Hard {
		variable, err := e.net.Variable(v)
		if err != nil {
			return nil, err
		}
		return indicatorTensor(v, variable.Card, entry.State), nil
	}

	if err := e.ensureCompiled(); err != nil {
		return nil, err
	}

	if cached, ok := e.posteriorCache[v]; ok {
		return cached.Copy(), nil
	}

	cl, ok := e.jt.CliqueOf(v)
	if !ok {
		return nil, errors.Wrapf(ErrUndefinedTarget, "node %d is not part of the compiled tree", v)
	}

	factors, err := propagate.IncomingMessages(e.jt, cl)
	if err != nil {
		return nil, err
	}
	combined, err := tensor.CombineAndProject(factors, graph.NewNodeSet(v))
	if err != nil {
		return nil, err
	}

	result, err := normalizeOrFail(combined)
	if err != nil {
		return nil, err
	}
	e.posteriorCache[v] = result
	return result.Copy(), nil
}

// JointPosterior computes P(S | evidence), normalised, for a registered or
// clique-coverable set S.
//
// If S is entirely hard-evidence nodes, the result is the product of
// their indicators. Otherwise the non-evidence remainder must be found in
// a single clique — via the declared joint-target assignment, or by
// falling back to the first clique (ascending id) whose label covers it.
// bnjt never synthesizes a containing clique by unioning several cliques'
// coverage (an Open Question the source left unresolved); if no single
// clique covers S\evidence, the query fails with ErrUndefinedTarget rather
// than guess at a combination.
func (e *Engine) JointPosterior(vars graph.NodeSet) (*tensor.Tensor, error) {
	key := jointCacheKey(vars)
	if cached, ok := e.jointCache[key]; ok {
		return cached.Copy(), nil
	}

	nonEvidence := graph.NewNodeSet()
	var indicators []*tensor.Tensor
	for v := range vars {
		if entry, ok := e.evidence.Get(v); ok && entry.Kind == evidence.Hard {
			variable, err := e.net.Variable(v)
			if err != nil {
				return nil, err
			}
			indicators = append(indicators, indicatorTensor(v, variable.Card, entry.State))
			continue
		}
		nonEvidence.Add(v)
	}

	var combined *tensor.Tensor
	var err error
	if len(nonEvidence) == 0 {
		combined = indicators[0]
		for _, ind := range indicators[1:] {
			if combined, err = combined.Combine(ind); err != nil {
				return nil, err
			}
		}
	} else {
		if err := e.ensureCompiled(); err != nil {
			return nil, err
		}
		cl, ok := e.jt.CliqueOfJoint(vars)
		if !ok {
			cl, ok = e.jt.JT.CliqueContaining(nonEvidence)
		}
		if !ok {
			return nil, errors.Wrapf(ErrUndefinedTarget, "set %v is not a declared or coverable target", vars.Slice())
		}

		factors, ferr := propagate.IncomingMessages(e.jt, cl)
		if ferr != nil {
			return nil, ferr
		}
		if combined, err = tensor.CombineAndProject(factors, nonEvidence); err != nil {
			return nil, err
		}
		for _, ind := range indicators {
			if combined, err = combined.Combine(ind); err != nil {
				return nil, err
			}
		}
	}

	result, err := normalizeOrFail(combined)
	if err != nil {
		return nil, err
	}
	e.jointCache[key] = result
	return result.Copy(), nil
}

// EvidenceProbability returns P(evidence): for each connected component of
// the junction tree, the unnormalised joint of an arbitrary variable in
// the component's root clique, summed, multiplied across components and
// by the scalar contribution of CPTs that reduced to a bare constant
// (jt.EvidenceScalar).
//
// Grounded on aGrUM's evidenceProbability().
func (e *Engine) EvidenceProbability() (float64, error) {
	if err := e.ensureCompiled(); err != nil {
		return 0, err
	}

	prob := e.jt.EvidenceScalar
	for _, root := range e.jt.Roots {
		label := e.jt.JT.Label(root)
		if len(label) == 0 {
			continue
		}
		v := label.Slice()[0]

		factors, err := propagate.IncomingMessages(e.jt, root)
		if err != nil {
			return 0, err
		}
		combined, err := tensor.CombineAndProject(factors, graph.NewNodeSet(v))
		if err != nil {
			return 0, err
		}
		prob *= combined.Sum()
	}

	if prob == 0 {
		return 0, ErrIncompatibleEvidence
	}
	return prob, nil
}

// EvidenceImpact returns the posterior of v as a function of joint
// assignments to conditioning: a tensor over {v} ∪ conditioning whose
// slice at each conditioning assignment is the posterior of v obtained by
// entering that assignment as evidence. v and conditioning must be
// disjoint. {v} ∪ conditioning is registered as a joint target of the
// engine (and stays registered) so that a single clique covers it.
//
// Grounded on aGrUM's _jointPosterior(wanted, declared) pattern: build the
// joint over the full set once, then renormalize per conditioning slice
// instead of recompiling per assignment.
func (e *Engine) EvidenceImpact(v graph.NodeID, conditioning graph.NodeSet) (*tensor.Tensor, error) {
	if conditioning.Contains(v) {
		return nil, errors.Wrapf(ErrInvalidArgument, "conditioning set must not include target node %d", v)
	}

	full := conditioning.Copy()
	full.Add(v)

	e.AddJointTarget(full)
	joint, err := e.JointPosterior(full)
	if err != nil {
		return nil, err
	}

	variable, err := e.net.Variable(v)
	if err != nil {
		return nil, err
	}

	result := joint.Copy()
	condVars := conditioning.Slice()
	forEachAssignment(condVars, joint.Card, func(assignment map[graph.NodeID]int) {
		total := 0.0
		for s := 0; s < variable.Card; s++ {
			assignment[v] = s
			total += joint.Get(assignment)
		}
		if total == 0 {
			delete(assignment, v)
			return
		}
		for s := 0; s < variable.Card; s++ {
			assignment[v] = s
			result.Set(assignment, joint.Get(assignment)/total)
		}
		delete(assignment, v)
	})

	return result, nil
}

func normalizeOrFail(t *tensor.Tensor) (*tensor.Tensor, error) {
	if t.Sum() == 0 {
		return nil, ErrIncompatibleEvidence
	}
	if err := t.Normalize(); err != nil {
		return nil, errors.Wrap(ErrIncompatibleEvidence, err.Error())
	}
	return t, nil
}

func indicatorTensor(v graph.NodeID, card, state int) *tensor.Tensor {
	values := make([]float64, card)
	values[state] = 1
	t, _ := tensor.New([]graph.NodeID{v}, map[graph.NodeID]int{v: card}, values)
	return t
}

func jointCacheKey(vars graph.NodeSet) string {
	return fmt.Sprint(vars.Slice())
}

// forEachAssignment visits every full assignment of vars given their
// cardinalities in card, depth-first.
func forEachAssignment(vars []graph.NodeID, card map[graph.NodeID]int, visit func(map[graph.NodeID]int)) {
	assignment := make(map[graph.NodeID]int, len(vars))
	var rec func(i int)
	rec = func(i int) {
		if i == len(vars) {
			visit(assignment)
			return
		}
		v := vars[i]
		for s := 0; s < card[v]; s++ {
			assignment[v] = s
			rec(i + 1)
		}
	}
	rec(0)
}
