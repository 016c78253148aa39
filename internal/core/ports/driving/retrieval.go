package driving

import (
	"context"

	"github.com/custodia-labs/verdict/internal/core/domain"
)

// RetrievalService finds the chunks nearest to a query.
type RetrievalService interface {
	// Retrieve returns min(topK, N) chunks in ascending distance order.
	// An empty query or topK <= 0 returns domain.ErrInvalidQuery.
	// Absent artifacts return domain.ErrMissingArtifact.
	Retrieve(ctx context.Context, query string, topK int) ([]domain.RetrievedChunk, error)

	// Chunk returns a single chunk by its ID.
	Chunk(ctx context.Context, chunkID string) (domain.Chunk, error)

	// Manifest returns the build record of the loaded artifacts.
	Manifest(ctx context.Context) (domain.Manifest, error)
}
