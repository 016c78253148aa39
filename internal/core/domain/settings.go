package domain

import (
	"path/filepath"
	"time"
)

const unknownDescription = "Unknown"

// Artifact file names inside the artifacts directory.
const (
	IndexFileName    = "chunks.index"
	MetadataFileName = "chunk_metadata.db"
)

// AIProvider identifies an AI service provider for embeddings or generation.
type AIProvider string

// Available AI providers.
const (
	// AIProviderHashing is the built-in deterministic feature-hashing encoder.
	AIProviderHashing AIProvider = "hashing"

	// AIProviderOllama is local Ollama instance.
	AIProviderOllama AIProvider = "ollama"

	// AIProviderOpenAI is OpenAI cloud API.
	AIProviderOpenAI AIProvider = "openai"

	// AIProviderAnthropic is Anthropic cloud API.
	AIProviderAnthropic AIProvider = "anthropic"

	// AIProviderGemini is Google Gemini cloud API.
	AIProviderGemini AIProvider = "gemini"
)

// IsValid returns true if the AI provider is recognised.
func (p AIProvider) IsValid() bool {
	switch p {
	case AIProviderHashing, AIProviderOllama, AIProviderOpenAI, AIProviderAnthropic, AIProviderGemini:
		return true
	default:
		return false
	}
}

// RequiresAPIKey returns true if this provider needs an API key.
func (p AIProvider) RequiresAPIKey() bool {
	return p == AIProviderOpenAI || p == AIProviderAnthropic || p == AIProviderGemini
}

// IsLocal returns true if this provider runs locally.
func (p AIProvider) IsLocal() bool {
	return p == AIProviderOllama || p == AIProviderHashing
}

// SupportsEmbedding returns true if the provider can encode text.
func (p AIProvider) SupportsEmbedding() bool {
	return p == AIProviderHashing || p == AIProviderOllama || p == AIProviderOpenAI
}

// SupportsGeneration returns true if the provider can generate answers.
func (p AIProvider) SupportsGeneration() bool {
	return p == AIProviderOllama || p == AIProviderOpenAI || p == AIProviderAnthropic || p == AIProviderGemini
}

// String returns the string representation.
func (p AIProvider) String() string {
	return string(p)
}

// Description returns a human-readable description of the provider.
func (p AIProvider) Description() string {
	switch p {
	case AIProviderHashing:
		return "Hashing (built-in, offline)"
	case AIProviderOllama:
		return "Ollama (local)"
	case AIProviderOpenAI:
		return "OpenAI (cloud)"
	case AIProviderAnthropic:
		return "Anthropic (cloud)"
	case AIProviderGemini:
		return "Gemini (cloud)"
	default:
		return unknownDescription
	}
}

// ArtifactSettings locates the build artifacts.
type ArtifactSettings struct {
	// Dir holds the index and metadata files.
	Dir string `validate:"required"`
}

// IndexPath returns the path of the vector index file.
func (a ArtifactSettings) IndexPath() string {
	return filepath.Join(a.Dir, IndexFileName)
}

// MetadataPath returns the path of the metadata database.
func (a ArtifactSettings) MetadataPath() string {
	return filepath.Join(a.Dir, MetadataFileName)
}

// EmbeddingSettings holds embedding provider configuration.
type EmbeddingSettings struct {
	// Provider is the embedding service provider.
	Provider AIProvider `validate:"oneof=hashing ollama openai"`

	// Model is the embedding model name.
	Model string `validate:"required"`

	// BaseURL is the API endpoint (for Ollama).
	BaseURL string

	// APIKeyEnv names the environment variable holding the API key.
	APIKeyEnv string

	// Dimensions overrides the model's known vector size when non-zero.
	Dimensions int `validate:"gte=0"`

	// BatchSize is the number of texts sent per EmbedBatch call during a build.
	BatchSize int `validate:"gte=1"`

	// Concurrency bounds the number of batches in flight during a build.
	Concurrency int `validate:"gte=1"`

	// RequestsPerSecond limits remote calls. Zero disables the limiter.
	RequestsPerSecond float64 `validate:"gte=0"`
}

// GenerationSettings holds generation provider configuration.
type GenerationSettings struct {
	// Provider is the generation service provider.
	Provider AIProvider `validate:"oneof=gemini openai anthropic ollama"`

	// Model is the generation model name.
	Model string `validate:"required"`

	// BaseURL is the API endpoint (for Ollama or compatible gateways).
	BaseURL string

	// APIKeyEnv names the environment variable holding the API key.
	// The key itself is never stored in settings.
	APIKeyEnv string

	// Timeout bounds a single answer, retries included.
	Timeout time.Duration `validate:"gt=0"`

	// MaxRetries is the number of retries after a transient failure.
	MaxRetries int `validate:"gte=0"`

	// RetryBaseDelay is the first backoff interval.
	RetryBaseDelay time.Duration `validate:"gte=0"`

	// MaxContextTokens caps the prompt size. Zero disables fitting.
	MaxContextTokens int `validate:"gte=0"`

	// MaxTokens caps the generated answer. Zero uses the provider default.
	MaxTokens int `validate:"gte=0"`

	// Temperature is passed through to the provider.
	Temperature float64 `validate:"gte=0,lte=2"`
}

// RetrievalSettings holds retrieval configuration.
type RetrievalSettings struct {
	// TopK is the default number of chunks per query.
	TopK int `validate:"gte=1"`
}

// ServerSettings holds HTTP server configuration.
type ServerSettings struct {
	// Addr is the listen address.
	Addr string `validate:"required"`

	// JSONLogs switches the logger to JSON output while serving.
	JSONLogs bool
}

// AppSettings holds all application settings.
type AppSettings struct {
	Artifacts  ArtifactSettings
	Embedding  EmbeddingSettings
	Generation GenerationSettings
	Retrieval  RetrievalSettings
	Server     ServerSettings
}

// DefaultAppSettings returns settings with sensible defaults.
// Embeddings default to the offline hashing encoder so an index can be
// built without any network access.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		Artifacts: ArtifactSettings{
			Dir: "embeddings",
		},
		Embedding: EmbeddingSettings{
			Provider:    AIProviderHashing,
			Model:       DefaultEmbeddingModels()[AIProviderHashing],
			BatchSize:   64,
			Concurrency: 4,
		},
		Generation: GenerationSettings{
			Provider:         AIProviderGemini,
			Model:            DefaultLLMModels()[AIProviderGemini],
			APIKeyEnv:        DefaultAPIKeyEnv()[AIProviderGemini],
			Timeout:          60 * time.Second,
			MaxRetries:       0,
			RetryBaseDelay:   500 * time.Millisecond,
			MaxContextTokens: 24000,
			Temperature:      0.2,
		},
		Retrieval: RetrievalSettings{
			TopK: DefaultTopK,
		},
		Server: ServerSettings{
			Addr: ":8000",
		},
	}
}

// AllEmbeddingProviders returns providers that support embeddings.
func AllEmbeddingProviders() []AIProvider {
	return []AIProvider{
		AIProviderHashing,
		AIProviderOllama,
		AIProviderOpenAI,
	}
}

// AllLLMProviders returns providers that support generation.
func AllLLMProviders() []AIProvider {
	return []AIProvider{
		AIProviderGemini,
		AIProviderOllama,
		AIProviderOpenAI,
		AIProviderAnthropic,
	}
}

// DefaultEmbeddingModels returns default models for each embedding provider.
func DefaultEmbeddingModels() map[AIProvider]string {
	return map[AIProvider]string{
		AIProviderHashing: "hashing-fnv-384",
		AIProviderOllama:  "all-minilm",
		AIProviderOpenAI:  "text-embedding-3-small",
	}
}

// DefaultLLMModels returns default models for each LLM provider.
func DefaultLLMModels() map[AIProvider]string {
	return map[AIProvider]string{
		AIProviderGemini:    "gemini-2.5-flash",
		AIProviderOllama:    "llama3.2",
		AIProviderOpenAI:    "gpt-4o-mini",
		AIProviderAnthropic: "claude-3-5-sonnet-latest",
	}
}

// DefaultAPIKeyEnv returns the conventional credential variable per provider.
func DefaultAPIKeyEnv() map[AIProvider]string {
	return map[AIProvider]string{
		AIProviderGemini:    "GEMINI_API_KEY",
		AIProviderOpenAI:    "OPENAI_API_KEY",
		AIProviderAnthropic: "ANTHROPIC_API_KEY",
	}
}

// EmbeddingDimensions returns the vector dimensions for known models.
func EmbeddingDimensions() map[string]int {
	return map[string]int{
		// Built-in
		"hashing-fnv-384": 384,

		"nomic-embed-text":  768,
		"mxbai-embed-large": 1024,
		"all-minilm":        384,

		"text-embedding-3-small": 1536,
		"text-embedding-3-large": 3072,
		"text-embedding-ada-002": 1536,
	}
}

// SettingSource records where an effective setting value came from.
type SettingSource string

// Setting sources, in increasing precedence.
const (
	SettingSourceDefault SettingSource = "default"
	SettingSourceConfig  SettingSource = "config"
	SettingSourceEnv     SettingSource = "env"
)

// SettingEntry is one effective setting, as shown by `verdict settings show`.
type SettingEntry struct {
	Key    string
	Value  string
	Source SettingSource
}
