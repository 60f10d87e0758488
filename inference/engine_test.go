package inference_test

import (
	"context"
	"testing"

	"github.com/JohnPierman/bnjt/bnet"
	"github.com/JohnPierman/bnjt/graph"
	"github.com/JohnPierman/bnjt/inference"
	"github.com/JohnPierman/bnjt/internal/testfixtures"
	"github.com/JohnPierman/bnjt/tensor"
	"github.com/stretchr/testify/require"
)

// buildSprinklerNetwork returns the classic Rain -> Sprinkler -> GrassWet,
// Rain -> GrassWet network (all binary), plus each variable's id.
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

func TestPosteriorWithNoEvidenceMatchesPrior(t *testing.T) {
	net, rain, _, _ := buildSprinklerNetwork(t)
	eng := inference.New(net)

	post, err := eng.Posterior(rain)
	require.NoError(t, err)
	require.InDelta(t, 0.8, post.Get(map[graph.NodeID]int{rain: 0}), 1e-9)
	require.InDelta(t, 0.2, post.Get(map[graph.NodeID]int{rain: 1}), 1e-9)
}

func TestPosteriorMatchesBruteForceWithHardEvidence(t *testing.T) {
	net, rain, _, grassWet := buildSprinklerNetwork(t)
	eng := inference.New(net)
	require.NoError(t, eng.AddHardEvidence(grassWet, 1))

	post, err := eng.Posterior(rain)
	require.NoError(t, err)

	want, err := testfixtures.BruteForcePosterior(net, []graph.NodeID{rain}, map[graph.NodeID]int{grassWet: 1})
	require.NoError(t, err)
	require.InDelta(t, want.Get(map[graph.NodeID]int{rain: 0}), post.Get(map[graph.NodeID]int{rain: 0}), 1e-6)
	require.InDelta(t, want.Get(map[graph.NodeID]int{rain: 1}), post.Get(map[graph.NodeID]int{rain: 1}), 1e-6)
}

func TestHardEvidenceReturnsIndicatorPosterior(t *testing.T) {
	net, rain, _, _ := buildSprinklerNetwork(t)
	eng := inference.New(net)
	require.NoError(t, eng.AddHardEvidence(rain, 1))

	post, err := eng.Posterior(rain)
	require.NoError(t, err)
	require.Equal(t, 0.0, post.Get(map[graph.NodeID]int{rain: 0}))
	require.Equal(t, 1.0, post.Get(map[graph.NodeID]int{rain: 1}))
}

func TestJointPosteriorMatchesBruteForce(t *testing.T) {
	net, _, sprinkler, grassWet := buildSprinklerNetwork(t)
	eng := inference.New(net)
	joint := graph.NewNodeSet(sprinkler, grassWet)
	eng.AddJointTarget(joint)

	got, err := eng.JointPosterior(joint)
	require.NoError(t, err)

	var want *tensor.Tensor
	want, err = bruteForceJoint(net, []graph.NodeID{sprinkler, grassWet}, nil)
	require.NoError(t, err)

	for s := 0; s < 2; s++ {
		for g := 0; g < 2; g++ {
			assignment := map[graph.NodeID]int{sprinkler: s, grassWet: g}
			require.InDelta(t, want.Get(assignment), got.Get(assignment), 1e-6)
		}
	}
}

func TestMarginalizationConsistency(t *testing.T) {
	net, rain, sprinkler, grassWet := buildSprinklerNetwork(t)
	eng := inference.New(net)
	joint := graph.NewNodeSet(sprinkler, grassWet)
	eng.AddJointTarget(joint)

	jointPost, err := eng.JointPosterior(joint)
	require.NoError(t, err)
	marginal, err := jointPost.ProjectOut([]graph.NodeID{grassWet})
	require.NoError(t, err)
	require.NoError(t, marginal.Normalize())

	sprinklerPost, err := eng.Posterior(sprinkler)
	require.NoError(t, err)

	for s := 0; s < 2; s++ {
		assignment := map[graph.NodeID]int{sprinkler: s}
		require.InDelta(t, sprinklerPost.Get(assignment), marginal.Get(assignment), 1e-6)
	}
	_ = rain
}

func TestIncompatibleEvidenceDetected(t *testing.T) {
	net := bnet.New()
	a := net.AddVariable("A", 2)
	b := net.AddVariable("B", 2)
	c := net.AddVariable("C", 2)
	require.NoError(t, net.AddEdge(a, b))
	require.NoError(t, net.AddEdge(a, c))
	require.NoError(t, net.AddCPT(a, []float64{0.5, 0.5}))
	// B = A deterministically.
	require.NoError(t, net.AddCPT(b, []float64{
		1, 0,
		0, 1,
	}))
	// C = not A deterministically.
	require.NoError(t, net.AddCPT(c, []float64{
		0, 1,
		1, 0,
	}))

	eng := inference.New(net)
	require.NoError(t, eng.AddHardEvidence(b, 0))
	require.NoError(t, eng.AddHardEvidence(c, 0))

	_, err := eng.Posterior(a)
	require.ErrorIs(t, err, inference.ErrIncompatibleEvidence)
}

func TestEraseEvidenceRestoresFreshEnginePosteriors(t *testing.T) {
	net, rain, _, grassWet := buildSprinklerNetwork(t)

	mutated := inference.New(net)
	require.NoError(t, mutated.AddHardEvidence(grassWet, 1))
	require.NoError(t, mutated.EraseEvidence(grassWet))
	mutatedPost, err := mutated.Posterior(rain)
	require.NoError(t, err)

	fresh := inference.New(net)
	freshPost, err := fresh.Posterior(rain)
	require.NoError(t, err)

	require.InDelta(t, freshPost.Get(map[graph.NodeID]int{rain: 0}), mutatedPost.Get(map[graph.NodeID]int{rain: 0}), 1e-9)
	require.InDelta(t, freshPost.Get(map[graph.NodeID]int{rain: 1}), mutatedPost.Get(map[graph.NodeID]int{rain: 1}), 1e-9)
}

func TestSoftEvidenceEquivalentToHardAtIndicator(t *testing.T) {
	net, rain, _, _ := buildSprinklerNetwork(t)

	hardEngine := inference.New(net)
	require.NoError(t, hardEngine.AddHardEvidence(rain, 0))
	hardPost, err := hardEngine.Posterior(rain)
	require.NoError(t, err)

	softEngine := inference.New(net)
	likelihood, err := tensor.New([]graph.NodeID{rain}, map[graph.NodeID]int{rain: 2}, []float64{1, 0})
	require.NoError(t, err)
	require.NoError(t, softEngine.AddSoftEvidence(rain, likelihood))
	softPost, err := softEngine.Posterior(rain)
	require.NoError(t, err)

	require.InDelta(t, hardPost.Get(map[graph.NodeID]int{rain: 0}), softPost.Get(map[graph.NodeID]int{rain: 0}), 1e-9)
	require.InDelta(t, hardPost.Get(map[graph.NodeID]int{rain: 1}), softPost.Get(map[graph.NodeID]int{rain: 1}), 1e-9)
}

func TestJointTargetSupersedesSubset(t *testing.T) {
	net, rain, sprinkler, grassWet := buildSprinklerNetwork(t)

	super := inference.New(net)
	small := graph.NewNodeSet(sprinkler, grassWet)
	super.AddJointTarget(small)
	super.AddJointTarget(graph.NewNodeSet(rain, sprinkler, grassWet))

	only := inference.New(net)
	only.AddJointTarget(small)

	gotSuper, err := super.JointPosterior(small)
	require.NoError(t, err)
	gotOnly, err := only.JointPosterior(small)
	require.NoError(t, err)

	for s := 0; s < 2; s++ {
		for g := 0; g < 2; g++ {
			assignment := map[graph.NodeID]int{sprinkler: s, grassWet: g}
			require.InDelta(t, gotOnly.Get(assignment), gotSuper.Get(assignment), 1e-9)
		}
	}
}

func TestEvidenceProbabilityMatchesUnnormalizedPosteriorSum(t *testing.T) {
	net, rain, _, grassWet := buildSprinklerNetwork(t)
	eng := inference.New(net)
	require.NoError(t, eng.AddHardEvidence(grassWet, 1))

	prob, err := eng.EvidenceProbability()
	require.NoError(t, err)
	require.Greater(t, prob, 0.0)
	require.Less(t, prob, 1.0)
	// P(GrassWet=1) = sum over Rain, Sprinkler of the unnormalised joint:
	// 0.8*0.4*0.9 + 0.2*0.99*0.8 + 0.2*0.01*0.99 = 0.44838.
	require.InDelta(t, 0.44838, prob, 1e-9)
	_ = rain
}

func TestEvidenceImpactSlicesMatchEnteringEachConditioningState(t *testing.T) {
	net := bnet.New()
	a := net.AddVariable("A", 2)
	b := net.AddVariable("B", 2)
	c := net.AddVariable("C", 2)
	require.NoError(t, net.AddEdge(a, b))
	require.NoError(t, net.AddEdge(b, c))
	require.NoError(t, net.AddCPT(a, []float64{0.4, 0.6}))
	require.NoError(t, net.AddCPT(b, []float64{0.7, 0.3, 0.2, 0.8}))
	require.NoError(t, net.AddCPT(c, []float64{0.9, 0.1, 0.1, 0.9}))

	eng := inference.New(net)
	impact, err := eng.EvidenceImpact(a, graph.NewNodeSet(c))
	require.NoError(t, err)

	for cState := 0; cState < 2; cState++ {
		direct := inference.New(net)
		require.NoError(t, direct.AddHardEvidence(c, cState))
		directPost, err := direct.Posterior(a)
		require.NoError(t, err)

		for aState := 0; aState < 2; aState++ {
			got := impact.Get(map[graph.NodeID]int{a: aState, c: cState})
			want := directPost.Get(map[graph.NodeID]int{a: aState})
			require.InDelta(t, want, got, 1e-6)
		}
	}
}

func TestQueryBatchRunsIndependentEngines(t *testing.T) {
	net, rain, sprinkler, _ := buildSprinklerNetwork(t)
	engA := inference.New(net)
	engB := inference.New(net)

	results, err := inference.QueryBatch(context.Background(), []inference.BatchQuery{
		{Engine: engA, Node: rain},
		{Engine: engB, Node: sprinkler},
	})
	require.NoError(t, err)
	require.Len(t, results, 2)
	require.InDelta(t, 0.8, results[0].Get(map[graph.NodeID]int{rain: 0}), 1e-9)
}

// bruteForceJoint is a thin wrapper so this file doesn't need to depend on
// testfixtures' exact signature more than once.
func bruteForceJoint(net *bnet.DiscreteNetwork, vars []graph.NodeID, evidence map[graph.NodeID]int) (*tensor.Tensor, error) {
	return testfixtures.BruteForcePosterior(net, vars, evidence)
}
