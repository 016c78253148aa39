package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/custodia-labs/verdict/internal/core/domain"
	"github.com/custodia-labs/verdict/internal/core/ports/driven"
)

// KnowledgeBase pairs a vector index with its metadata store. The pair is
// checked once at construction; afterwards callers address chunks by id and
// never see an ordinal.
type KnowledgeBase struct {
	index    driven.VectorIndex
	metadata driven.MetadataStore
	ordinals map[string]int
}

// NewKnowledgeBase validates that index and metadata belong to the same build.
// Any disagreement is domain.ErrCorruptedState.
func NewKnowledgeBase(index driven.VectorIndex, metadata driven.MetadataStore) (*KnowledgeBase, error) {
	if index == nil || metadata == nil {
		return nil, fmt.Errorf("knowledge base: index and metadata are required: %w", domain.ErrInvalidInput)
	}

	m := metadata.Manifest()
	switch {
	case index.Len() != metadata.Len():
		return nil, fmt.Errorf("knowledge base: index has %d vectors, metadata has %d records: %w",
			index.Len(), metadata.Len(), domain.ErrCorruptedState)
	case m.VectorCount != index.Len():
		return nil, fmt.Errorf("knowledge base: manifest counts %d vectors, index has %d: %w",
			m.VectorCount, index.Len(), domain.ErrCorruptedState)
	case m.Dimension != index.Dimension():
		return nil, fmt.Errorf("knowledge base: manifest dimension %d, index dimension %d: %w",
			m.Dimension, index.Dimension(), domain.ErrDimensionMismatch)
	case m.BuildID != index.BuildID():
		return nil, fmt.Errorf("knowledge base: index build %q, metadata build %q: %w",
			index.BuildID(), m.BuildID, domain.ErrCorruptedState)
	}

	ordinals := make(map[string]int, metadata.Len())
	for i := 0; i < metadata.Len(); i++ {
		c, err := metadata.Lookup(i)
		if err != nil {
			return nil, fmt.Errorf("knowledge base: record %d: %w: %w", i, domain.ErrCorruptedState, err)
		}
		if _, dup := ordinals[c.ID]; dup {
			return nil, fmt.Errorf("knowledge base: duplicate chunk id %q: %w", c.ID, domain.ErrCorruptedState)
		}
		ordinals[c.ID] = i
	}

	return &KnowledgeBase{index: index, metadata: metadata, ordinals: ordinals}, nil
}

// Search returns the k nearest chunks to vec, nearest first.
func (kb *KnowledgeBase) Search(ctx context.Context, vec []float32, k int) ([]domain.RetrievedChunk, error) {
	if len(vec) != kb.index.Dimension() {
		return nil, fmt.Errorf("knowledge base: query has %d dimensions, index has %d: %w",
			len(vec), kb.index.Dimension(), domain.ErrDimensionMismatch)
	}

	hits, err := kb.index.Search(ctx, vec, k)
	if err != nil {
		return nil, err
	}

	results := make([]domain.RetrievedChunk, 0, len(hits))
	for _, h := range hits {
		c, err := kb.metadata.Lookup(h.Ordinal)
		if err != nil {
			return nil, fmt.Errorf("knowledge base: hit %d: %w: %w", h.Ordinal, domain.ErrCorruptedState, err)
		}
		results = append(results, domain.RetrievedChunk{Chunk: c, Distance: h.Distance})
	}
	return results, nil
}

// Chunk returns the chunk with the given id, or domain.ErrNotFound.
func (kb *KnowledgeBase) Chunk(chunkID string) (domain.Chunk, error) {
	ordinal, ok := kb.ordinals[chunkID]
	if !ok {
		return domain.Chunk{}, fmt.Errorf("chunk %q: %w", chunkID, domain.ErrNotFound)
	}
	return kb.metadata.Lookup(ordinal)
}

// Len returns the number of chunks.
func (kb *KnowledgeBase) Len() int {
	return kb.index.Len()
}

// Dimension returns the vector dimension of the build.
func (kb *KnowledgeBase) Dimension() int {
	return kb.index.Dimension()
}

// Manifest returns the build description.
func (kb *KnowledgeBase) Manifest() domain.Manifest {
	return kb.metadata.Manifest()
}

// Close releases both artifacts.
func (kb *KnowledgeBase) Close() error {
	return errors.Join(kb.index.Close(), kb.metadata.Close())
}
