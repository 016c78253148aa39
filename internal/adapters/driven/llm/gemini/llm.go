// Package gemini provides an LLM service adapter for Google Gemini models
// using the generative-ai-go client.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/custodia-labs/verdict/internal/core/domain"
	"github.com/custodia-labs/verdict/internal/core/ports/driven"
)

// Ensure LLMService implements the interface.
var _ driven.LLMService = (*LLMService)(nil)

// Default configuration values.
const (
	DefaultModel       = "gemini-2.5-flash"
	DefaultTemperature = 0.2
)

// Config holds configuration for the Gemini LLM service.
type Config struct {
	// APIKey is the Google AI Studio key (required).
	APIKey string

	// Model is the model name (default: gemini-2.5-flash).
	Model string

	// Endpoint overrides the API endpoint. Empty uses the public endpoint.
	Endpoint string
}

// contentGenerator is the part of *genai.GenerativeModel the service calls.
// Tests substitute it when no client is configured.
type contentGenerator interface {
	GenerateContent(ctx context.Context, parts ...genai.Part) (*genai.GenerateContentResponse, error)
}

// LLMService generates answers with a Gemini model.
type LLMService struct {
	client    *genai.Client
	generator contentGenerator
	modelName string
}

// NewLLMService creates a Gemini client. A missing key fails here,
// before any network call is attempted.
func NewLLMService(ctx context.Context, cfg Config) (*LLMService, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini: API key is required: %w", domain.ErrMissingCredential)
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}

	opts := []option.ClientOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.Endpoint != "" {
		opts = append(opts, option.WithEndpoint(cfg.Endpoint))
	}

	client, err := genai.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("%w: gemini: create client: %w", domain.ErrConfiguration, err)
	}

	return &LLMService{
		client:    client,
		modelName: cfg.Model,
	}, nil
}

// Generate sends the prompt as a single text part and returns the joined
// text of the first candidate.
func (s *LLMService) Generate(ctx context.Context, prompt string, opts driven.GenerateOptions) (string, error) {
	gen := s.generator
	if s.client != nil {
		// A fresh model per call keeps option changes off shared state.
		model := s.client.GenerativeModel(s.modelName)
		temperature := opts.Temperature
		if temperature == 0 {
			temperature = DefaultTemperature
		}
		model.SetTemperature(float32(temperature))
		if opts.MaxTokens > 0 {
			model.SetMaxOutputTokens(int32(opts.MaxTokens))
		}
		model.StopSequences = opts.StopWords
		gen = model
	}

	resp, err := gen.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", classify(err)
	}
	return responseText(resp)
}

// classify maps client errors onto the generation taxonomy. Blocked
// prompts are permanent; everything else is treated as transient.
func classify(err error) error {
	var blocked *genai.BlockedError
	if errors.As(err, &blocked) {
		return fmt.Errorf("%w: gemini: %w", domain.ErrGenerationService, err)
	}
	return fmt.Errorf("%w: gemini: %w", domain.ErrGenerationUnavailable, err)
}

// responseText extracts the text parts of the first candidate.
func responseText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		return "", fmt.Errorf("%w: gemini: no candidates returned", domain.ErrMalformedResponse)
	}

	candidate := resp.Candidates[0]
	if candidate == nil || candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		reason := genai.FinishReasonUnspecified
		if candidate != nil {
			reason = candidate.FinishReason
		}
		return "", fmt.Errorf("%w: gemini: candidate has no parts (finish reason %s)",
			domain.ErrMalformedResponse, reason)
	}

	var b strings.Builder
	for _, part := range candidate.Content.Parts {
		if text, ok := part.(genai.Text); ok {
			b.WriteString(string(text))
		}
	}
	if strings.TrimSpace(b.String()) == "" {
		return "", fmt.Errorf("%w: gemini: empty text", domain.ErrMalformedResponse)
	}
	return b.String(), nil
}

// ModelName returns the name of the LLM model being used.
func (s *LLMService) ModelName() string {
	return s.modelName
}

// Ping fetches model metadata, which validates the key without inference.
func (s *LLMService) Ping(ctx context.Context) error {
	if s.client == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if _, err := s.client.GenerativeModel(s.modelName).Info(ctx); err != nil {
		return fmt.Errorf("%w: gemini: %w", domain.ErrLLMUnavailable, err)
	}
	return nil
}

// Close releases the underlying client connection.
func (s *LLMService) Close() error {
	if s.client == nil {
		return nil
	}
	return s.client.Close()
}
