package main

import (
	"strconv"
	"strings"

	"github.com/JohnPierman/bnjt/bnet"
	"github.com/JohnPierman/bnjt/graph"
	"github.com/pkg/errors"
)

// ErrBadFlag covers a malformed --evidence/--target argument.
var ErrBadFlag = errors.New("bnjtctl: malformed flag value")

// parseEvidence parses a list of "Name=state" pairs against net, returning
// the resolved node/state assignment in the order given.
func parseEvidence(net *bnet.DiscreteNetwork, raw []string) ([]struct {
	Node  graph.NodeID
	State int
}, error) {
	var out []struct {
		Node  graph.NodeID
		State int
	}
	for _, entry := range raw {
		name, value, ok := strings.Cut(entry, "=")
		if !ok {
			return nil, errors.Wrapf(ErrBadFlag, "%q (want Name=state)", entry)
		}
		v, ok := net.VariableByName(name)
		if !ok {
			return nil, errors.Wrapf(bnet.ErrUnknownVariable, "%q", name)
		}
		state, err := strconv.Atoi(value)
		if err != nil {
			return nil, errors.Wrapf(ErrBadFlag, "%q: state must be an integer", entry)
		}
		if state < 0 || state >= v.Card {
			return nil, errors.Wrapf(ErrBadFlag, "%q: state out of range [0,%d)", entry, v.Card)
		}
		out = append(out, struct {
			Node  graph.NodeID
			State int
		}{v.ID, state})
	}
	return out, nil
}

// resolveNames looks up each display name in net, preserving order.
func resolveNames(net *bnet.DiscreteNetwork, names []string) ([]graph.NodeID, error) {
	ids := make([]graph.NodeID, 0, len(names))
	for _, name := range names {
		v, ok := net.VariableByName(name)
		if !ok {
			return nil, errors.Wrapf(bnet.ErrUnknownVariable, "%q", name)
		}
		ids = append(ids, v.ID)
	}
	return ids, nil
}
