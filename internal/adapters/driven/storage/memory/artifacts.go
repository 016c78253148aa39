package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/custodia-labs/verdict/internal/adapters/driven/vector/flat"
	"github.com/custodia-labs/verdict/internal/core/domain"
	"github.com/custodia-labs/verdict/internal/core/ports/driven"
)

// Ensure ArtifactStore implements the interface.
var _ driven.ArtifactStore = (*ArtifactStore)(nil)

// ArtifactStore keeps a build in process memory. It backs tests and
// throwaway sessions where nothing should touch the disk.
type ArtifactStore struct {
	mu       sync.RWMutex
	manifest domain.Manifest
	chunks   []domain.Chunk
	vectors  [][]float32
	written  bool
	opens    int
}

// NewArtifactStore creates an empty store. Open fails with
// domain.ErrMissingArtifact until Write succeeds.
func NewArtifactStore() *ArtifactStore {
	return &ArtifactStore{}
}

// Write validates the build and keeps copies of its parts.
func (s *ArtifactStore) Write(_ context.Context, manifest domain.Manifest, chunks []domain.Chunk, vectors [][]float32) error {
	if len(chunks) != len(vectors) {
		return fmt.Errorf("memory: %d chunks for %d vectors: %w", len(chunks), len(vectors), domain.ErrInvalidInput)
	}
	if _, err := flat.Build(manifest.BuildID, vectors); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.manifest = manifest
	s.chunks = append([]domain.Chunk(nil), chunks...)
	s.vectors = append([][]float32(nil), vectors...)
	s.written = true
	return nil
}

// Open returns a fresh index and metadata store for the stored build, so
// closing one opened pair never affects another.
func (s *ArtifactStore) Open(_ context.Context) (driven.VectorIndex, driven.MetadataStore, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.written {
		return nil, nil, fmt.Errorf("memory: no build: %w", domain.ErrMissingArtifact)
	}
	ix, err := flat.Build(s.manifest.BuildID, s.vectors)
	if err != nil {
		return nil, nil, err
	}
	s.opens++
	return ix, NewMetadataStore(s.manifest, s.chunks), nil
}

// Paths reports placeholder locations.
func (s *ArtifactStore) Paths() (string, string) {
	return ":memory:/" + domain.IndexFileName, ":memory:/" + domain.MetadataFileName
}

// Opens returns how many times Open has succeeded.
func (s *ArtifactStore) Opens() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.opens
}
