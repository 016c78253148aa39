// Package ai creates AI service adapters from settings.
package ai

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/custodia-labs/verdict/internal/adapters/driven/embedding/hashing"
	ollamaembed "github.com/custodia-labs/verdict/internal/adapters/driven/embedding/ollama"
	openaiembed "github.com/custodia-labs/verdict/internal/adapters/driven/embedding/openai"
	anthropicllm "github.com/custodia-labs/verdict/internal/adapters/driven/llm/anthropic"
	geminillm "github.com/custodia-labs/verdict/internal/adapters/driven/llm/gemini"
	ollamallm "github.com/custodia-labs/verdict/internal/adapters/driven/llm/ollama"
	openaillm "github.com/custodia-labs/verdict/internal/adapters/driven/llm/openai"
	"github.com/custodia-labs/verdict/internal/core/domain"
	"github.com/custodia-labs/verdict/internal/core/ports/driven"
)

// pingTimeout is the maximum time to wait for service connectivity validation.
const pingTimeout = 5 * time.Second

// Ensure Factory implements the interface.
var _ driven.AIFactory = (*Factory)(nil)

// Factory builds embedding and generation services. Credentials are read
// from the environment variable each settings block names.
type Factory struct {
	// LookupEnv resolves credential variables. Defaults to os.LookupEnv.
	LookupEnv func(key string) (string, bool)
}

// NewFactory creates a factory that reads credentials from the process environment.
func NewFactory() *Factory {
	return &Factory{LookupEnv: os.LookupEnv}
}

// CreateEmbeddingService creates the encoder for the configured provider.
func (f *Factory) CreateEmbeddingService(settings *domain.EmbeddingSettings) (driven.EmbeddingService, error) {
	if settings == nil {
		return nil, fmt.Errorf("%w: embedding settings are missing", domain.ErrConfiguration)
	}

	switch settings.Provider {
	case domain.AIProviderHashing:
		return hashing.NewEmbeddingService(hashing.Config{
			Dimensions: embeddingDimensions(settings, hashing.DefaultDimensions),
		}), nil

	case domain.AIProviderOllama:
		return ollamaembed.NewEmbeddingService(ollamaembed.Config{
			BaseURL:           settings.BaseURL,
			Model:             settings.Model,
			Dimensions:        embeddingDimensions(settings, ollamaembed.DefaultDimensions),
			RequestsPerSecond: settings.RequestsPerSecond,
		}), nil

	case domain.AIProviderOpenAI:
		key, err := f.credential(settings.Provider, settings.APIKeyEnv)
		if err != nil {
			return nil, err
		}
		return openaiembed.NewEmbeddingService(openaiembed.Config{
			APIKey:            key,
			BaseURL:           settings.BaseURL,
			Model:             settings.Model,
			Dimensions:        settings.Dimensions,
			RequestsPerSecond: settings.RequestsPerSecond,
		})

	case domain.AIProviderAnthropic, domain.AIProviderGemini:
		return nil, fmt.Errorf("%w: %s does not support embeddings, use hashing, ollama or openai",
			domain.ErrUnsupportedType, settings.Provider)

	default:
		return nil, fmt.Errorf("%w: embedding provider %q", domain.ErrUnsupportedType, settings.Provider)
	}
}

// CreateLLMService creates the generation client for the configured provider.
// A missing credential is reported before any network call.
func (f *Factory) CreateLLMService(settings *domain.GenerationSettings) (driven.LLMService, error) {
	if settings == nil {
		return nil, fmt.Errorf("%w: generation settings are missing", domain.ErrConfiguration)
	}

	switch settings.Provider {
	case domain.AIProviderOllama:
		return ollamallm.NewLLMService(ollamallm.LLMConfig{
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
		}), nil

	case domain.AIProviderGemini:
		key, err := f.credential(settings.Provider, settings.APIKeyEnv)
		if err != nil {
			return nil, err
		}
		return geminillm.NewLLMService(context.Background(), geminillm.Config{
			APIKey:   key,
			Model:    settings.Model,
			Endpoint: settings.BaseURL,
		})

	case domain.AIProviderOpenAI:
		key, err := f.credential(settings.Provider, settings.APIKeyEnv)
		if err != nil {
			return nil, err
		}
		return openaillm.NewLLMService(openaillm.LLMConfig{
			APIKey:  key,
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
		})

	case domain.AIProviderAnthropic:
		key, err := f.credential(settings.Provider, settings.APIKeyEnv)
		if err != nil {
			return nil, err
		}
		return anthropicllm.NewLLMService(anthropicllm.Config{
			APIKey:  key,
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
		})

	case domain.AIProviderHashing:
		return nil, fmt.Errorf("%w: hashing cannot generate answers", domain.ErrUnsupportedType)

	default:
		return nil, fmt.Errorf("%w: generation provider %q", domain.ErrUnsupportedType, settings.Provider)
	}
}

// CreateAndValidateEmbeddingService creates an embedding service and validates connectivity.
func (f *Factory) CreateAndValidateEmbeddingService(settings *domain.EmbeddingSettings) (driven.EmbeddingService, error) {
	svc, err := f.CreateEmbeddingService(settings)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()

	if err := svc.Ping(ctx); err != nil {
		_ = svc.Close()
		return nil, fmt.Errorf("%w: service unreachable (%w). Run 'verdict settings' to check the configuration",
			domain.ErrEmbeddingUnavailable, err)
	}
	return svc, nil
}

// CreateAndValidateLLMService creates a generation service and validates connectivity.
func (f *Factory) CreateAndValidateLLMService(settings *domain.GenerationSettings) (driven.LLMService, error) {
	svc, err := f.CreateLLMService(settings)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()

	if err := svc.Ping(ctx); err != nil {
		_ = svc.Close()
		return nil, fmt.Errorf("%w: service unreachable (%w). Run 'verdict settings' to check the configuration",
			domain.ErrLLMUnavailable, err)
	}
	return svc, nil
}

// credential resolves the API key for a provider. An empty variable name
// falls back to the provider's conventional one.
func (f *Factory) credential(provider domain.AIProvider, envName string) (string, error) {
	if envName == "" {
		envName = domain.DefaultAPIKeyEnv()[provider]
	}
	if envName == "" {
		return "", fmt.Errorf("%w: no credential variable configured for %s", domain.ErrMissingCredential, provider)
	}

	lookup := f.LookupEnv
	if lookup == nil {
		lookup = os.LookupEnv
	}
	value, ok := lookup(envName)
	if !ok || value == "" {
		return "", fmt.Errorf("%w: %s is not set", domain.ErrMissingCredential, envName)
	}
	return value, nil
}

// embeddingDimensions picks the explicit override, then the known model
// size, then the adapter default.
func embeddingDimensions(settings *domain.EmbeddingSettings, fallback int) int {
	if settings.Dimensions > 0 {
		return settings.Dimensions
	}
	if dims := domain.EmbeddingDimensions()[settings.Model]; dims > 0 {
		return dims
	}
	return fallback
}
