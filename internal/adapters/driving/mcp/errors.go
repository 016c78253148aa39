// Package mcp exposes verdict retrieval and answering to MCP clients.
package mcp

import (
	"errors"

	"github.com/custodia-labs/verdict/internal/core/domain"
)

var (
	// ErrMissingAnswerService is returned when the answer service is not provided.
	ErrMissingAnswerService = errors.New("mcp: answer service is required")

	// ErrMissingRetrievalService is returned when the retrieval service is not provided.
	ErrMissingRetrievalService = errors.New("mcp: retrieval service is required")
)

// toolError rewrites a service error into the message an assistant sees.
// Internal detail is only kept for caller mistakes.
func toolError(err error) error {
	switch {
	case errors.Is(err, domain.ErrInvalidQuery):
		return err
	case errors.Is(err, domain.ErrMissingArtifact):
		return errors.New("index not built; run `verdict build` first")
	case errors.Is(err, domain.ErrConfiguration):
		return errors.New("generation service not configured")
	case errors.Is(err, domain.ErrNotFound):
		return errors.New("chunk not found")
	case errors.Is(err, domain.ErrGenerationService):
		return errors.New("generation service failed; try again later")
	default:
		return errors.New("internal error")
	}
}
