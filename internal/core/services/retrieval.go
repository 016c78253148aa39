package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/custodia-labs/verdict/internal/core/domain"
	"github.com/custodia-labs/verdict/internal/core/ports/driving"
	"github.com/custodia-labs/verdict/internal/logger"
)

// Ensure RetrievalService implements the interface.
var _ driving.RetrievalService = (*RetrievalService)(nil)

// RetrievalService finds the chunks nearest to a query.
type RetrievalService struct {
	runtime *Runtime
}

// NewRetrievalService creates a retrieval service backed by runtime.
func NewRetrievalService(runtime *Runtime) *RetrievalService {
	return &RetrievalService{runtime: runtime}
}

// Retrieve returns up to topK chunks, nearest first. A topK larger than
// the corpus returns every chunk.
func (s *RetrievalService) Retrieve(ctx context.Context, query string, topK int) ([]domain.RetrievedChunk, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("%w: query is empty", domain.ErrInvalidQuery)
	}
	if topK <= 0 {
		return nil, fmt.Errorf("%w: top_k must be positive, got %d", domain.ErrInvalidQuery, topK)
	}

	h, err := s.runtime.Handles(ctx)
	if err != nil {
		return nil, err
	}

	logger.Debug("retrieve: query=%q top_k=%d", query, topK)
	vec, err := h.Encoder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("retrieve: embedding query: %w", err)
	}
	results, err := h.Knowledge.Search(ctx, vec, topK)
	if err != nil {
		return nil, fmt.Errorf("retrieve: %w", err)
	}
	logger.Debug("retrieve: %d results", len(results))
	return results, nil
}

// Chunk returns a single chunk by id.
func (s *RetrievalService) Chunk(ctx context.Context, chunkID string) (domain.Chunk, error) {
	h, err := s.runtime.Handles(ctx)
	if err != nil {
		return domain.Chunk{}, err
	}
	return h.Knowledge.Chunk(chunkID)
}

// Manifest describes the loaded build.
func (s *RetrievalService) Manifest(ctx context.Context) (domain.Manifest, error) {
	h, err := s.runtime.Handles(ctx)
	if err != nil {
		return domain.Manifest{}, err
	}
	return h.Knowledge.Manifest(), nil
}
