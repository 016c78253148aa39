package mcp

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/verdict/internal/core/domain"
)

func TestExtractChunkID(t *testing.T) {
	tests := []struct {
		name     string
		uri      string
		expected string
	}{
		{"plain id", "verdict://chunks/abc-sec-0", "abc-sec-0"},
		{"escaped id", "verdict://chunks/Act%20B-sec-0", "Act B-sec-0"},
		{"invalid prefix", "file://chunks/abc", ""},
		{"bad escape", "verdict://chunks/%zz", ""},
		{"empty URI", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, extractChunkID(tt.uri))
		})
	}
}

func TestChunkURI_RoundTrip(t *testing.T) {
	id := "Indian Contract Act, 1872-footnote-12"
	assert.Equal(t, id, extractChunkID(chunkURI(id)))
}

func makeReadResourceRequest(uri string) *mcp.ReadResourceRequest {
	return &mcp.ReadResourceRequest{
		Params: &mcp.ReadResourceParams{
			URI: uri,
		},
	}
}

func TestServer_handleChunkResource(t *testing.T) {
	ctx := context.Background()
	retrieval := &mockRetrievalService{chunks: map[string]domain.Chunk{"Act B-sec-0": tortChunk()}}
	server := newTestServer(t, &mockAnswerService{}, retrieval)

	t.Run("returns chunk as JSON", func(t *testing.T) {
		uri := chunkURI("Act B-sec-0")
		result, err := server.handleChunkResource(ctx, makeReadResourceRequest(uri))

		require.NoError(t, err)
		require.Len(t, result.Contents, 1)
		assert.Equal(t, uri, result.Contents[0].URI)
		assert.Equal(t, "application/json", result.Contents[0].MIMEType)

		var chunk domain.Chunk
		require.NoError(t, json.Unmarshal([]byte(result.Contents[0].Text), &chunk))
		assert.Equal(t, tortChunk(), chunk)
	})

	t.Run("unknown chunk is not found", func(t *testing.T) {
		_, err := server.handleChunkResource(ctx, makeReadResourceRequest(chunkURI("nope")))
		require.Error(t, err)
	})

	t.Run("malformed URI is not found", func(t *testing.T) {
		_, err := server.handleChunkResource(ctx, makeReadResourceRequest("verdict://other"))
		require.Error(t, err)
	})
}

func TestServer_handleManifestResource(t *testing.T) {
	ctx := context.Background()

	t.Run("returns manifest", func(t *testing.T) {
		retrieval := &mockRetrievalService{manifest: domain.Manifest{BuildID: "build-1", Model: "hashing-fnv-384", Dimension: 384, VectorCount: 3}}
		server := newTestServer(t, &mockAnswerService{}, retrieval)

		result, err := server.handleManifestResource(ctx, makeReadResourceRequest("verdict://manifest"))

		require.NoError(t, err)
		assert.Contains(t, result.Contents[0].Text, `"build_id": "build-1"`)
		assert.Contains(t, result.Contents[0].Text, `"vector_count": 3`)
	})

	t.Run("missing index", func(t *testing.T) {
		retrieval := &mockRetrievalService{err: domain.ErrMissingArtifact}
		server := newTestServer(t, &mockAnswerService{}, retrieval)

		_, err := server.handleManifestResource(ctx, makeReadResourceRequest("verdict://manifest"))

		require.Error(t, err)
		assert.Contains(t, err.Error(), "index not built")
	})
}
