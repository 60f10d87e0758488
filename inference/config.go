package inference

import "github.com/JohnPierman/bnjt/triangulate"

// Config holds the engine's compile-time knobs.
type Config struct {
	BarrenNodes    bool
	BinaryJoinTree bool
	Triangulation  triangulate.Strategy
}

// Option configures an Engine at construction time, following the
// functional-option idiom the pack's builder package uses for its own
// construction options.
type Option func(*Config)

// WithBarrenNodes toggles ancestral-set pruning before moralisation
// (default enabled).
func WithBarrenNodes(enabled bool) Option {
	return func(c *Config) { c.BarrenNodes = enabled }
}

// WithBinaryJoinTree toggles the binary-join-tree conversion pass after
// triangulation (default enabled).
func WithBinaryJoinTree(enabled bool) Option {
	return func(c *Config) { c.BinaryJoinTree = enabled }
}

// WithTriangulation overrides the default WeightedMinFill strategy.
func WithTriangulation(strategy triangulate.Strategy) Option {
	return func(c *Config) { c.Triangulation = strategy }
}

func defaultConfig() Config {
	return Config{
		BarrenNodes:    true,
		BinaryJoinTree: true,
		Triangulation:  triangulate.WeightedMinFill{},
	}
}
