package mcp

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/verdict/internal/core/domain"
)

// mockAnswerService is a mock implementation of driving.AnswerService.
type mockAnswerService struct {
	answer *domain.Answer
	err    error
	query  string
	topK   int
}

func (m *mockAnswerService) Ask(_ context.Context, query string, topK int) (*domain.Answer, error) {
	m.query, m.topK = query, topK
	return m.answer, m.err
}

// mockRetrievalService is a mock implementation of driving.RetrievalService.
type mockRetrievalService struct {
	results  []domain.RetrievedChunk
	chunks   map[string]domain.Chunk
	manifest domain.Manifest
	err      error
	topK     int
}

func (m *mockRetrievalService) Retrieve(_ context.Context, _ string, topK int) ([]domain.RetrievedChunk, error) {
	m.topK = topK
	return m.results, m.err
}

func (m *mockRetrievalService) Chunk(_ context.Context, id string) (domain.Chunk, error) {
	if m.err != nil {
		return domain.Chunk{}, m.err
	}
	c, ok := m.chunks[id]
	if !ok {
		return domain.Chunk{}, domain.ErrNotFound
	}
	return c, nil
}

func (m *mockRetrievalService) Manifest(_ context.Context) (domain.Manifest, error) {
	return m.manifest, m.err
}

func tortChunk() domain.Chunk {
	return domain.Chunk{
		ID:       "Act B-sec-0",
		ActTitle: "Act B",
		Type:     domain.ChunkTypeSection,
		Content:  "A tort is a civil wrong.",
	}
}

func newTestServer(t *testing.T, answer *mockAnswerService, retrieval *mockRetrievalService) *Server {
	t.Helper()
	s, err := NewServer(&Ports{Answer: answer, Retrieval: retrieval}, 5)
	require.NoError(t, err)
	return s
}
