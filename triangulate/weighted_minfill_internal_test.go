package triangulate

import (
	"testing"

	"github.com/JohnPierman/bnjt/graph"
	"github.com/stretchr/testify/require"
)

// TestBetterRanksWeightBeforeFillCount pins the intended selection order:
// the candidate with the smaller weighted clique wins even when it would
// add more fill-in edges than the alternative. A prior revision ranked
// fill-in count first and only used weight as a tie-break, which picks the
// opposite candidate here.
func TestBetterRanksWeightBeforeFillCount(t *testing.T) {
	const (
		lowWeightMoreFill graph.NodeID = 1
		highWeightNoFill  graph.NodeID = 2
	)

	require.True(t, better(3, 10, lowWeightMoreFill, 0, 100, highWeightNoFill),
		"a candidate with more fill-ins but smaller weight must still win")
	require.False(t, better(0, 100, highWeightNoFill, 3, 10, lowWeightMoreFill),
		"a candidate with fewer fill-ins but larger weight must still lose")
}

// TestBetterFallsBackToFillCountThenNodeID confirms fill-in count still
// breaks a weight tie, and node id breaks a weight-and-fill tie.
func TestBetterFallsBackToFillCountThenNodeID(t *testing.T) {
	require.True(t, better(1, 10, 5, 2, 10, 5), "equal weight: fewer fill-ins should win")
	require.True(t, better(1, 10, 3, 1, 10, 7), "equal weight and fill: smaller node id should win")
	require.False(t, better(1, 10, 7, 1, 10, 3))
}
