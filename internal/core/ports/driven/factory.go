package driven

import "github.com/custodia-labs/verdict/internal/core/domain"

// AIFactory creates AI services from settings.
// Credentials are resolved from the environment variables the settings name.
type AIFactory interface {
	// CreateEmbeddingService returns an encoder for the configured provider.
	CreateEmbeddingService(settings *domain.EmbeddingSettings) (EmbeddingService, error)

	// CreateLLMService returns a generation client for the configured provider.
	// A missing credential returns domain.ErrMissingCredential.
	CreateLLMService(settings *domain.GenerationSettings) (LLMService, error)
}
