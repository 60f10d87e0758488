package inference

import (
	"context"

	"github.com/JohnPierman/bnjt/graph"
	"github.com/JohnPierman/bnjt/tensor"
	"golang.org/x/sync/errgroup"
)

// BatchQuery names one read-only query to run as part of a QueryBatch: a
// single-variable Posterior if Joint is empty, a JointPosterior otherwise.
// Each entry carries its own Engine — distinct engine instances operating
// on disjoint data may run concurrently, but concurrent calls into a
// single Engine are never safe.
type BatchQuery struct {
	Engine *Engine
	Node   graph.NodeID
	Joint  graph.NodeSet
}

// run executes q against its Engine, honoring ctx cancellation before
// starting work the engine itself has no way to interrupt mid-combine: a
// long-running combine can only be cancelled by interrupting the
// goroutine running it.
func (q BatchQuery) run(ctx context.Context) (*tensor.Tensor, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(q.Joint) > 0 {
		return q.Engine.JointPosterior(q.Joint)
	}
	return q.Engine.Posterior(q.Node)
}

// QueryBatch runs queries concurrently over an errgroup and returns their
// results in the same order, or the first error encountered. This is the
// one concurrency surface the engine actually licenses: each query targets
// its own Engine, so there is no shared mutable state between goroutines
// beyond what each Engine privately owns.
func QueryBatch(ctx context.Context, queries []BatchQuery) ([]*tensor.Tensor, error) {
	results := make([]*tensor.Tensor, len(queries))
	g, gctx := errgroup.WithContext(ctx)
	for i, q := range queries {
		i, q := i, q
		g.Go(func() error {
			result, err := q.run(gctx)
			if err != nil {
				return err
			}
			results[i] = result
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
