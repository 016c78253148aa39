package mcp

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/verdict/internal/core/domain"
)

func TestServer_handleAsk(t *testing.T) {
	ctx := context.Background()

	t.Run("returns answer with sources", func(t *testing.T) {
		answer := &mockAnswerService{answer: &domain.Answer{
			Text:    "A tort is a civil wrong.",
			Sources: []domain.RetrievedChunk{{Chunk: tortChunk(), Distance: 0.25}},
		}}
		server := newTestServer(t, answer, &mockRetrievalService{})

		_, output, err := server.handleAsk(ctx, nil, QueryInput{Query: "What is a tort?", TopK: 3})

		require.NoError(t, err)
		assert.Equal(t, "A tort is a civil wrong.", output.Answer)
		require.Len(t, output.Sources, 1)
		assert.Equal(t, "Act B-sec-0", output.Sources[0].ChunkID)
		assert.Equal(t, "section", output.Sources[0].ChunkType)
		assert.Equal(t, "verdict://chunks/Act%20B-sec-0", output.Sources[0].URI)
		assert.Equal(t, "What is a tort?", answer.query)
		assert.Equal(t, 3, answer.topK)
	})

	t.Run("missing top_k uses default", func(t *testing.T) {
		answer := &mockAnswerService{answer: &domain.Answer{Text: "ok"}}
		server := newTestServer(t, answer, &mockRetrievalService{})

		_, _, err := server.handleAsk(ctx, nil, QueryInput{Query: "q"})

		require.NoError(t, err)
		assert.Equal(t, 5, answer.topK)
	})

	t.Run("errors are rewritten without detail", func(t *testing.T) {
		tests := []struct {
			name string
			err  error
			want string
		}{
			{"invalid query", fmt.Errorf("%w: query is empty", domain.ErrInvalidQuery), "query is empty"},
			{"missing index", fmt.Errorf("open /secret/path: %w", domain.ErrMissingArtifact), "index not built"},
			{"no credential", fmt.Errorf("GEMINI_API_KEY: %w", domain.ErrMissingCredential), "not configured"},
			{"generation", fmt.Errorf("status 500 body: %w", domain.ErrGenerationUnavailable), "try again later"},
			{"unknown", errors.New("disk exploded at /secret/path"), "internal error"},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				server := newTestServer(t, &mockAnswerService{err: tt.err}, &mockRetrievalService{})

				_, _, err := server.handleAsk(ctx, nil, QueryInput{Query: "q"})

				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.want)
				assert.NotContains(t, err.Error(), "/secret/path")
			})
		}
	})
}

func TestServer_handleRetrieve(t *testing.T) {
	ctx := context.Background()

	t.Run("returns chunks in order", func(t *testing.T) {
		retrieval := &mockRetrievalService{results: []domain.RetrievedChunk{
			{Chunk: tortChunk(), Distance: 0.1},
			{Chunk: domain.Chunk{ID: "Act B-footnote-0", ActTitle: "Act B", Type: domain.ChunkTypeFootnote}, Distance: 0.4},
		}}
		server := newTestServer(t, &mockAnswerService{}, retrieval)

		_, output, err := server.handleRetrieve(ctx, nil, QueryInput{Query: "tort", TopK: 2})

		require.NoError(t, err)
		assert.Equal(t, 2, output.Count)
		assert.Equal(t, "Act B-sec-0", output.Chunks[0].ChunkID)
		assert.Equal(t, "footnote", output.Chunks[1].ChunkType)
		assert.InDelta(t, 0.4, output.Chunks[1].Distance, 1e-6)
		assert.Equal(t, 2, retrieval.topK)
	})

	t.Run("empty result is not an error", func(t *testing.T) {
		server := newTestServer(t, &mockAnswerService{}, &mockRetrievalService{})

		_, output, err := server.handleRetrieve(ctx, nil, QueryInput{Query: "tort"})

		require.NoError(t, err)
		assert.Equal(t, 0, output.Count)
		assert.NotNil(t, output.Chunks)
	})

	t.Run("returns error on retrieval failure", func(t *testing.T) {
		retrieval := &mockRetrievalService{err: domain.ErrMissingArtifact}
		server := newTestServer(t, &mockAnswerService{}, retrieval)

		_, _, err := server.handleRetrieve(ctx, nil, QueryInput{Query: "tort"})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "verdict build")
	})
}
