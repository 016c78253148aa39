package domain

import (
	"errors"
	"fmt"
)

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsupportedType indicates an unknown provider or chunk type.
	ErrUnsupportedType = errors.New("unsupported type")

	// ErrSchema indicates the corpus does not match the expected schema.
	ErrSchema = fmt.Errorf("%w: schema violation", ErrInvalidInput)

	// Retrieval Errors.

	// ErrMissingArtifact indicates the index or metadata artifact is absent.
	// The index must be rebuilt before queries can be served.
	ErrMissingArtifact = errors.New("missing artifact")

	// ErrCorruptedState indicates the index and metadata artifacts disagree.
	// The process must refuse to serve rather than return misaligned results.
	ErrCorruptedState = errors.New("corrupted state")

	// ErrDimensionMismatch indicates vectors of different dimensionality met.
	ErrDimensionMismatch = fmt.Errorf("%w: dimension mismatch", ErrCorruptedState)

	// ErrInvalidQuery indicates an empty query or a non-positive top_k.
	ErrInvalidQuery = errors.New("invalid query")

	// Configuration Errors.

	// ErrConfiguration indicates settings that cannot produce a working runtime.
	ErrConfiguration = errors.New("configuration error")

	// ErrMissingCredential indicates the generation credential is not set.
	ErrMissingCredential = fmt.Errorf("%w: missing credential", ErrConfiguration)

	// ErrEmbeddingUnavailable indicates the embedding service cannot be reached.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// ErrLLMUnavailable indicates the LLM service cannot be reached.
	ErrLLMUnavailable = errors.New("LLM service unavailable")

	// Generation Errors.

	// ErrGenerationService indicates the external generation call failed.
	ErrGenerationService = errors.New("generation service error")

	// ErrGenerationUnavailable indicates a transient network or service failure.
	ErrGenerationUnavailable = fmt.Errorf("%w: unavailable", ErrGenerationService)

	// ErrMalformedResponse indicates the generation service answered with
	// something that could not be interpreted.
	ErrMalformedResponse = fmt.Errorf("%w: malformed response", ErrGenerationService)

	// ErrRateLimited indicates the API rate limit was exceeded.
	ErrRateLimited = errors.New("rate limited")
)
