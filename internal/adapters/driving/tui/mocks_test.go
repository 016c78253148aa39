package tui

import (
	"context"

	"github.com/custodia-labs/verdict/internal/core/domain"
)

type mockAnswerService struct {
	answer *domain.Answer
	err    error
	topK   int
}

func (m *mockAnswerService) Ask(_ context.Context, _ string, topK int) (*domain.Answer, error) {
	m.topK = topK
	return m.answer, m.err
}

type mockRetrievalService struct {
	results []domain.RetrievedChunk
	err     error
}

func (m *mockRetrievalService) Retrieve(_ context.Context, _ string, _ int) ([]domain.RetrievedChunk, error) {
	return m.results, m.err
}

func (m *mockRetrievalService) Chunk(_ context.Context, _ string) (domain.Chunk, error) {
	return domain.Chunk{}, domain.ErrNotFound
}

func (m *mockRetrievalService) Manifest(_ context.Context) (domain.Manifest, error) {
	return domain.Manifest{}, m.err
}

func tortChunk() domain.RetrievedChunk {
	return domain.RetrievedChunk{
		Chunk: domain.Chunk{
			ID:       "Act B-sec-0",
			ActTitle: "Act B",
			Type:     domain.ChunkTypeSection,
			Content:  "A tort is a civil wrong.",
		},
		Distance: 0.2,
	}
}
