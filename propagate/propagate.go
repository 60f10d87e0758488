// Package propagate implements Shafer-Shenoy message passing over a
// compiled junction tree — component G of the engine.
package propagate

import (
	"github.com/JohnPierman/bnjt/graph"
	"github.com/JohnPierman/bnjt/jtree"
	"github.com/JohnPierman/bnjt/tensor"
)

// Collect ensures every message flowing toward root is computed and
// cached on jt.Messages, computing only what is missing.
//
// Grounded on aGrUM's __collectMessage (ShaferShenoyInference_tpl.h),
// reworked from recursion into an explicit-stack traversal to avoid deep
// call stacks on wide or deep junction trees.
func Collect(jt *jtree.JunctionTree, root graph.CliqueID) error {
	visited := map[graph.CliqueID]bool{root: true}
	parent := make(map[graph.CliqueID]graph.CliqueID)
	order := []graph.CliqueID{root}

	stack := []graph.CliqueID{root}
	for len(stack) > 0 {
		c := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, n := range jt.JT.Neighbors(c) {
			if !visited[n] {
				visited[n] = true
				parent[n] = c
				order = append(order, n)
				stack = append(stack, n)
			}
		}
	}

	// order is a preorder DFS from root: every descendant of a clique
	// appears after it, so walking order in reverse visits every clique
	// after all of its descendants — exactly the bottom-up order messages
	// must be produced in.
	for i := len(order) - 1; i >= 0; i-- {
		c := order[i]
		if c == root {
			continue
		}
		p := parent[c]
		arc := jtree.Arc{From: c, To: p}
		if _, ok := jt.Messages[arc]; ok {
			continue
		}
		if _, err := ProduceMessage(jt, c, p); err != nil {
			return err
		}
	}
	return nil
}

// ProduceMessage computes (and caches) the message flowing from 'from' to
// its neighbour 'to': the product of from's local potential and every
// message from's other neighbours have sent it, projected down to the
// from-to separator.
//
// Grounded on aGrUM's __produceMessage, using tensor.CombineAndProject so
// barren variables (ones that appear in only one combined factor and
// aren't in the separator) are summed out before the full combine, as
// aGrUM's __removeBarrenVariables does.
func ProduceMessage(jt *jtree.JunctionTree, from, to graph.CliqueID) (*tensor.Tensor, error) {
	sep, _ := jt.JT.Separator(from, to)

	factors := []*tensor.Tensor{jt.Phi[from]}
	for _, n := range jt.JT.Neighbors(from) {
		if n == to {
			continue
		}
		if msg, ok := jt.Messages[jtree.Arc{From: n, To: from}]; ok {
			factors = append(factors, msg)
		}
	}

	msg, err := tensor.CombineAndProject(factors, sep)
	if err != nil {
		return nil, err
	}
	if jt.Messages == nil {
		jt.Messages = make(map[jtree.Arc]*tensor.Tensor)
	}
	jt.Messages[jtree.Arc{From: from, To: to}] = msg
	return msg, nil
}

// IncomingMessages collects every message flowing into c (running Collect
// with c as root) and returns c's own potential alongside them — the full
// set of factors a caller combines to get c's unnormalised joint
// potential Φ(C).
func IncomingMessages(jt *jtree.JunctionTree, c graph.CliqueID) ([]*tensor.Tensor, error) {
	if err := Collect(jt, c); err != nil {
		return nil, err
	}
	factors := []*tensor.Tensor{jt.Phi[c]}
	for _, n := range jt.JT.Neighbors(c) {
		if msg, ok := jt.Messages[jtree.Arc{From: n, To: c}]; ok {
			factors = append(factors, msg)
		}
	}
	return factors, nil
}

// InvalidateFrom drops every cached message on an arc reachable from start
// by following arcs whose message is currently cached, stopping diffusion
// along any direction whose message is already absent (it was never
// computed, or a previous invalidation already cleared it, so whatever
// depends on it is already consistent with no stale value).
//
// Grounded on aGrUM's __diffuseMessageInvalidations.
func InvalidateFrom(jt *jtree.JunctionTree, start graph.CliqueID) {
	visited := map[graph.CliqueID]bool{start: true}
	stack := []graph.CliqueID{start}
	for len(stack) > 0 {
		c := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, n := range jt.JT.Neighbors(c) {
			arc := jtree.Arc{From: c, To: n}
			if _, ok := jt.Messages[arc]; !ok {
				continue
			}
			delete(jt.Messages, arc)
			if !visited[n] {
				visited[n] = true
				stack = append(stack, n)
			}
		}
	}
}
