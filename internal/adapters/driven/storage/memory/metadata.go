package memory

import (
	"fmt"
	"slices"

	"github.com/custodia-labs/verdict/internal/core/domain"
	"github.com/custodia-labs/verdict/internal/core/ports/driven"
)

// Ensure MetadataStore implements the interface.
var _ driven.MetadataStore = (*MetadataStore)(nil)

// MetadataStore is an in-memory implementation of driven.MetadataStore.
type MetadataStore struct {
	manifest domain.Manifest
	chunks   []domain.Chunk
	byID     map[string]int
}

// NewMetadataStore creates a store holding chunks in ordinal order.
func NewMetadataStore(manifest domain.Manifest, chunks []domain.Chunk) *MetadataStore {
	byID := make(map[string]int, len(chunks))
	for i, c := range chunks {
		byID[c.ID] = i
	}
	return &MetadataStore{
		manifest: manifest,
		chunks:   slices.Clone(chunks),
		byID:     byID,
	}
}

// Lookup returns the chunk at ordinal.
func (s *MetadataStore) Lookup(ordinal int) (domain.Chunk, error) {
	if ordinal < 0 || ordinal >= len(s.chunks) {
		return domain.Chunk{}, fmt.Errorf("memory: ordinal %d: %w", ordinal, domain.ErrNotFound)
	}
	return s.chunks[ordinal], nil
}

// LookupByID returns the chunk with the given chunk_id.
func (s *MetadataStore) LookupByID(chunkID string) (domain.Chunk, error) {
	i, ok := s.byID[chunkID]
	if !ok {
		return domain.Chunk{}, fmt.Errorf("memory: chunk %q: %w", chunkID, domain.ErrNotFound)
	}
	return s.chunks[i], nil
}

// Len returns the number of records.
func (s *MetadataStore) Len() int {
	return len(s.chunks)
}

// Manifest returns the build record.
func (s *MetadataStore) Manifest() domain.Manifest {
	return s.manifest
}

// Close is a no-op.
func (s *MetadataStore) Close() error {
	return nil
}
