package driven

import (
	"context"

	"github.com/custodia-labs/verdict/internal/core/domain"
)

// MetadataStore gives each vector ordinal its originating chunk.
// Records are held in ordinal order; Lookup is O(1).
type MetadataStore interface {
	// Lookup returns the chunk stored at ordinal.
	// Returns domain.ErrNotFound when the ordinal is out of range.
	Lookup(ordinal int) (domain.Chunk, error)

	// LookupByID returns the chunk with the given chunk_id.
	// Returns domain.ErrNotFound for an unknown id.
	LookupByID(chunkID string) (domain.Chunk, error)

	// Len returns the number of records.
	Len() int

	// Manifest returns the build record persisted alongside the chunks.
	Manifest() domain.Manifest

	// Close releases resources.
	Close() error
}

// ArtifactStore persists and reopens the pair of build artifacts.
// Both artifacts are written together and share the manifest's BuildID.
type ArtifactStore interface {
	// Write persists vectors and chunks as one build. vectors[i] must be the
	// embedding of chunks[i].
	Write(ctx context.Context, manifest domain.Manifest, chunks []domain.Chunk, vectors [][]float32) error

	// Open loads both artifacts. A missing file yields domain.ErrMissingArtifact;
	// an unreadable one yields domain.ErrCorruptedState.
	Open(ctx context.Context) (VectorIndex, MetadataStore, error)

	// Paths returns the index and metadata locations.
	Paths() (indexPath, metadataPath string)
}
