package testfixtures_test

import (
	"testing"

	"github.com/JohnPierman/bnjt/bnet"
	"github.com/JohnPierman/bnjt/graph"
	"github.com/JohnPierman/bnjt/internal/testfixtures"
	"github.com/stretchr/testify/require"
)

func buildSprinklerNetwork(t *testing.T) (*bnet.DiscreteNetwork, graph.NodeID, graph.NodeID, graph.NodeID) {
	t.Helper()
	net := bnet.New()
	rain := net.AddVariable("Rain", 2)
	sprinkler := net.AddVariable("Sprinkler", 2)
	grassWet := net.AddVariable("GrassWet", 2)

	require.NoError(t, net.AddEdge(rain, sprinkler))
	require.NoError(t, net.AddEdge(sprinkler, grassWet))
	require.NoError(t, net.AddEdge(rain, grassWet))

	require.NoError(t, net.AddCPT(rain, []float64{0.8, 0.2}))
	require.NoError(t, net.AddCPT(sprinkler, []float64{
		0.6, 0.99,
		0.4, 0.01,
	}))
	require.NoError(t, net.AddCPT(grassWet, []float64{
		1.0, 0.2, 0.1, 0.01,
		0.0, 0.8, 0.9, 0.99,
	}))

	return net, rain, sprinkler, grassWet
}

func TestBruteForcePosteriorMatchesPriorWhenNoEvidence(t *testing.T) {
	net, rain, _, _ := buildSprinklerNetwork(t)

	post, err := testfixtures.BruteForcePosterior(net, []graph.NodeID{rain}, nil)
	require.NoError(t, err)
	require.InDelta(t, 0.8, post.Get(map[graph.NodeID]int{rain: 0}), 1e-9)
	require.InDelta(t, 0.2, post.Get(map[graph.NodeID]int{rain: 1}), 1e-9)
}

func TestBruteForcePosteriorWithHardEvidenceNormalizes(t *testing.T) {
	net, rain, sprinkler, grassWet := buildSprinklerNetwork(t)

	post, err := testfixtures.BruteForcePosterior(net, []graph.NodeID{rain}, map[graph.NodeID]int{grassWet: 1})
	require.NoError(t, err)
	require.InDelta(t, 1.0, post.Sum(), 1e-9)
	require.Greater(t, post.Get(map[graph.NodeID]int{rain: 1}), 0.2, "observing wet grass should raise P(Rain=1) above its 0.2 prior")

	_ = sprinkler
}
