package driven

import "context"

// VectorIndex answers exact nearest-neighbour queries over L2 distance.
// An index is immutable once built; there is no add or delete path.
type VectorIndex interface {
	// Search returns up to k hits ordered by ascending distance, ties broken
	// by ascending ordinal. k greater than Len is clamped. k <= 0 is an
	// invalid query, and a query of the wrong dimension is a dimension mismatch.
	Search(ctx context.Context, query []float32, k int) ([]VectorHit, error)

	// Len returns the number of stored vectors.
	Len() int

	// Dimension returns the vector size every stored vector shares.
	Dimension() int

	// BuildID identifies the build that produced this index.
	BuildID() string

	// Close releases resources.
	Close() error
}

// VectorHit is a single nearest-neighbour result.
type VectorHit struct {
	// Ordinal is the 0-based insertion position of the vector.
	Ordinal int

	// Distance is the squared Euclidean distance to the query.
	Distance float32
}
