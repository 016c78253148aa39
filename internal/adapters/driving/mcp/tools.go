package mcp

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/verdict/internal/core/domain"
	"github.com/custodia-labs/verdict/internal/logger"
)

// QueryInput is the input schema for the ask and retrieve tools.
type QueryInput struct {
	Query string `json:"query" jsonschema:"the legal question or search text"`
	TopK  int    `json:"top_k,omitempty" jsonschema:"number of chunks to consider (default from settings)"`
}

// AskOutput is the output schema for the ask tool.
type AskOutput struct {
	Answer  string        `json:"answer"`
	Sources []ChunkOutput `json:"sources"`
}

// RetrieveOutput is the output schema for the retrieve tool.
type RetrieveOutput struct {
	Chunks []ChunkOutput `json:"chunks"`
	Count  int           `json:"count"`
}

// ChunkOutput represents a single chunk.
type ChunkOutput struct {
	ChunkID   string  `json:"chunk_id"`
	ActTitle  string  `json:"act_title"`
	ChunkType string  `json:"chunk_type"`
	Content   string  `json:"content"`
	Distance  float32 `json:"distance"`
	URI       string  `json:"uri"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "ask",
		Description: "Answer a legal question from the indexed acts, citing the chunks used",
	}, s.handleAsk)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "retrieve",
		Description: "Find the sections and footnotes closest to a query",
	}, s.handleRetrieve)
}

func (s *Server) handleAsk(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input QueryInput,
) (*mcp.CallToolResult, AskOutput, error) {
	answer, err := s.ports.Answer.Ask(ctx, input.Query, s.topK(input))
	if err != nil {
		logger.Debug("mcp: ask failed: %v", err)
		return nil, AskOutput{}, toolError(err)
	}

	return nil, AskOutput{
		Answer:  answer.Text,
		Sources: chunkOutputs(answer.Sources),
	}, nil
}

func (s *Server) handleRetrieve(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input QueryInput,
) (*mcp.CallToolResult, RetrieveOutput, error) {
	results, err := s.ports.Retrieval.Retrieve(ctx, input.Query, s.topK(input))
	if err != nil {
		logger.Debug("mcp: retrieve failed: %v", err)
		return nil, RetrieveOutput{}, toolError(err)
	}

	chunks := chunkOutputs(results)
	return nil, RetrieveOutput{Chunks: chunks, Count: len(chunks)}, nil
}

func (s *Server) topK(input QueryInput) int {
	if input.TopK > 0 {
		return input.TopK
	}
	return s.defaultTopK
}

func chunkOutputs(results []domain.RetrievedChunk) []ChunkOutput {
	out := make([]ChunkOutput, len(results))
	for i, r := range results {
		out[i] = ChunkOutput{
			ChunkID:   r.Chunk.ID,
			ActTitle:  r.Chunk.ActTitle,
			ChunkType: r.Chunk.Type.String(),
			Content:   r.Chunk.Content,
			Distance:  r.Distance,
			URI:       chunkURI(r.Chunk.ID),
		}
	}
	return out
}
