package driving

import (
	"context"

	"github.com/custodia-labs/verdict/internal/core/domain"
)

// IndexBuilder produces the index and metadata artifacts from a corpus.
type IndexBuilder interface {
	// Build chunks, embeds, and persists the corpus as a single build.
	Build(ctx context.Context, corpus *domain.Corpus) (*domain.BuildReport, error)
}
