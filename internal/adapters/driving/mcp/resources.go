package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/verdict/internal/core/domain"
)

const uriScheme = "verdict://"

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "manifest",
		Name:        "manifest",
		Description: "Build manifest of the loaded index",
		MIMEType:    "application/json",
	}, s.handleManifestResource)

	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "chunks/{chunk_id}",
		Name:        "chunk",
		Description: "A single section or footnote by chunk id",
		MIMEType:    "application/json",
	}, s.handleChunkResource)
}

func (s *Server) handleManifestResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	m, err := s.ports.Retrieval.Manifest(ctx)
	if err != nil {
		return nil, toolError(err)
	}
	return jsonResource(req.Params.URI, m)
}

func (s *Server) handleChunkResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	id := extractChunkID(req.Params.URI)
	if id == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	chunk, err := s.ports.Retrieval.Chunk(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}
	if err != nil {
		return nil, toolError(err)
	}
	return jsonResource(req.Params.URI, chunk)
}

func jsonResource(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling resource: %w", err)
	}
	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// chunkURI returns the resource URI for a chunk id. Ids carry spaces and
// punctuation from act titles, so they are path-escaped.
func chunkURI(id string) string {
	return uriScheme + "chunks/" + url.PathEscape(id)
}

// extractChunkID extracts the chunk ID from a URI like verdict://chunks/{chunk_id}.
func extractChunkID(uri string) string {
	const prefix = uriScheme + "chunks/"

	if !strings.HasPrefix(uri, prefix) {
		return ""
	}

	id, err := url.PathUnescape(strings.TrimPrefix(uri, prefix))
	if err != nil {
		return ""
	}
	return id
}
