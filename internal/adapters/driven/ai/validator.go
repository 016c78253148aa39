package ai

import (
	"github.com/custodia-labs/verdict/internal/core/domain"
	"github.com/custodia-labs/verdict/internal/core/ports/driven"
)

// Ensure ConfigValidator implements the interface.
var _ driven.AIConfigValidator = (*ConfigValidator)(nil)

// ConfigValidator validates AI provider configurations by building the
// service and pinging it.
type ConfigValidator struct {
	factory *Factory
}

// NewConfigValidator creates a new AI config validator.
func NewConfigValidator(factory *Factory) *ConfigValidator {
	if factory == nil {
		factory = NewFactory()
	}
	return &ConfigValidator{factory: factory}
}

// ValidateEmbedding validates an embedding configuration by pinging the provider.
func (v *ConfigValidator) ValidateEmbedding(config *domain.EmbeddingSettings) error {
	svc, err := v.factory.CreateAndValidateEmbeddingService(config)
	if err != nil {
		return err
	}
	return svc.Close()
}

// ValidateGeneration validates a generation configuration by pinging the provider.
func (v *ConfigValidator) ValidateGeneration(config *domain.GenerationSettings) error {
	svc, err := v.factory.CreateAndValidateLLMService(config)
	if err != nil {
		return err
	}
	return svc.Close()
}
