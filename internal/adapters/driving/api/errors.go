package api

import (
	"errors"
	"net/http"

	"github.com/custodia-labs/verdict/internal/core/domain"
)

const (
	msgIndexNotBuilt  = "index not built; rebuild required"
	msgNotConfigured  = "generation service not configured"
	msgInvalidRequest = "invalid request body"
	msgInternal       = "internal error"
	msgChunkNotFound  = "chunk not found"
)

// statusFor maps a service error to an HTTP status and a client message.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrMissingArtifact):
		return http.StatusServiceUnavailable, msgIndexNotBuilt
	case errors.Is(err, domain.ErrConfiguration):
		return http.StatusServiceUnavailable, msgNotConfigured
	case errors.Is(err, domain.ErrInvalidQuery):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, msgChunkNotFound
	default:
		return http.StatusInternalServerError, msgInternal
	}
}

// generationErrorKind labels a failed answer for the error counter, or
// returns "" when the failure did not come from generation.
func generationErrorKind(err error) string {
	switch {
	case errors.Is(err, domain.ErrMalformedResponse):
		return "malformed"
	case errors.Is(err, domain.ErrGenerationUnavailable):
		return "unavailable"
	case errors.Is(err, domain.ErrGenerationService):
		return "service"
	case errors.Is(err, domain.ErrMissingCredential):
		return "credential"
	default:
		return ""
	}
}
