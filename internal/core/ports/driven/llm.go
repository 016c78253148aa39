package driven

import "context"

// LLMService generates answers from composed prompts.
//
// Implementations may include:
//   - Gemini (gemini-2.5-flash)
//   - OpenAI (GPT-4o)
//   - Anthropic (Claude)
//   - Ollama (local models)
//
// Errors follow a fixed taxonomy: a missing credential is reported by the
// constructor as domain.ErrMissingCredential before any network call,
// transport failures as domain.ErrGenerationUnavailable, and unusable
// replies as domain.ErrMalformedResponse.
type LLMService interface {
	// Generate produces text completion from a prompt.
	// Cancelling ctx aborts the outbound call.
	Generate(ctx context.Context, prompt string, opts GenerateOptions) (string, error)

	// ModelName returns the name of the LLM model being used.
	ModelName() string

	// Ping validates the service is reachable by making a lightweight test request.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}

// GenerateOptions configures text generation behaviour.
type GenerateOptions struct {
	// MaxTokens is the maximum number of tokens to generate.
	MaxTokens int

	// Temperature controls randomness (0.0 = deterministic, 1.0 = creative).
	Temperature float64

	// StopWords are sequences that stop generation when encountered.
	StopWords []string
}
