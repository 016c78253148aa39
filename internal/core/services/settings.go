package services

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/custodia-labs/verdict/internal/core/domain"
	"github.com/custodia-labs/verdict/internal/core/ports/driven"
	"github.com/custodia-labs/verdict/internal/core/ports/driving"
	"github.com/custodia-labs/verdict/internal/validation"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// EnvPrefix prefixes environment overrides: generation.timeout is
// overridden by VERDICT_GENERATION_TIMEOUT.
const EnvPrefix = "VERDICT_"

// setting binds a config key to a field of domain.AppSettings.
type setting struct {
	key   string
	get   func(s *domain.AppSettings) any
	apply func(s *domain.AppSettings, raw string) error
}

// settingsTable lists every configurable key in display order.
var settingsTable = []setting{
	{"artifacts.dir",
		func(s *domain.AppSettings) any { return s.Artifacts.Dir },
		func(s *domain.AppSettings, v string) error { s.Artifacts.Dir = v; return nil }},

	{"embedding.provider",
		func(s *domain.AppSettings) any { return s.Embedding.Provider.String() },
		func(s *domain.AppSettings, v string) error { s.Embedding.Provider = domain.AIProvider(v); return nil }},
	{"embedding.model",
		func(s *domain.AppSettings) any { return s.Embedding.Model },
		func(s *domain.AppSettings, v string) error { s.Embedding.Model = v; return nil }},
	{"embedding.base_url",
		func(s *domain.AppSettings) any { return s.Embedding.BaseURL },
		func(s *domain.AppSettings, v string) error { s.Embedding.BaseURL = v; return nil }},
	{"embedding.api_key_env",
		func(s *domain.AppSettings) any { return s.Embedding.APIKeyEnv },
		func(s *domain.AppSettings, v string) error { s.Embedding.APIKeyEnv = v; return nil }},
	{"embedding.dimensions",
		func(s *domain.AppSettings) any { return s.Embedding.Dimensions },
		func(s *domain.AppSettings, v string) error { return parseInt(v, &s.Embedding.Dimensions) }},
	{"embedding.batch_size",
		func(s *domain.AppSettings) any { return s.Embedding.BatchSize },
		func(s *domain.AppSettings, v string) error { return parseInt(v, &s.Embedding.BatchSize) }},
	{"embedding.concurrency",
		func(s *domain.AppSettings) any { return s.Embedding.Concurrency },
		func(s *domain.AppSettings, v string) error { return parseInt(v, &s.Embedding.Concurrency) }},
	{"embedding.requests_per_second",
		func(s *domain.AppSettings) any { return s.Embedding.RequestsPerSecond },
		func(s *domain.AppSettings, v string) error { return parseFloat(v, &s.Embedding.RequestsPerSecond) }},

	{"generation.provider",
		func(s *domain.AppSettings) any { return s.Generation.Provider.String() },
		func(s *domain.AppSettings, v string) error { s.Generation.Provider = domain.AIProvider(v); return nil }},
	{"generation.model",
		func(s *domain.AppSettings) any { return s.Generation.Model },
		func(s *domain.AppSettings, v string) error { s.Generation.Model = v; return nil }},
	{"generation.base_url",
		func(s *domain.AppSettings) any { return s.Generation.BaseURL },
		func(s *domain.AppSettings, v string) error { s.Generation.BaseURL = v; return nil }},
	{"generation.api_key_env",
		func(s *domain.AppSettings) any { return s.Generation.APIKeyEnv },
		func(s *domain.AppSettings, v string) error { s.Generation.APIKeyEnv = v; return nil }},
	{"generation.timeout",
		func(s *domain.AppSettings) any { return s.Generation.Timeout },
		func(s *domain.AppSettings, v string) error { return parseDuration(v, &s.Generation.Timeout) }},
	{"generation.max_retries",
		func(s *domain.AppSettings) any { return s.Generation.MaxRetries },
		func(s *domain.AppSettings, v string) error { return parseInt(v, &s.Generation.MaxRetries) }},
	{"generation.retry_base_delay",
		func(s *domain.AppSettings) any { return s.Generation.RetryBaseDelay },
		func(s *domain.AppSettings, v string) error { return parseDuration(v, &s.Generation.RetryBaseDelay) }},
	{"generation.max_context_tokens",
		func(s *domain.AppSettings) any { return s.Generation.MaxContextTokens },
		func(s *domain.AppSettings, v string) error { return parseInt(v, &s.Generation.MaxContextTokens) }},
	{"generation.max_tokens",
		func(s *domain.AppSettings) any { return s.Generation.MaxTokens },
		func(s *domain.AppSettings, v string) error { return parseInt(v, &s.Generation.MaxTokens) }},
	{"generation.temperature",
		func(s *domain.AppSettings) any { return s.Generation.Temperature },
		func(s *domain.AppSettings, v string) error { return parseFloat(v, &s.Generation.Temperature) }},

	{"retrieval.top_k",
		func(s *domain.AppSettings) any { return s.Retrieval.TopK },
		func(s *domain.AppSettings, v string) error { return parseInt(v, &s.Retrieval.TopK) }},

	{"server.addr",
		func(s *domain.AppSettings) any { return s.Server.Addr },
		func(s *domain.AppSettings, v string) error { s.Server.Addr = v; return nil }},

	{"log.json",
		func(s *domain.AppSettings) any { return s.Server.JSONLogs },
		func(s *domain.AppSettings, v string) error { return parseBool(v, &s.Server.JSONLogs) }},
}

// SettingsService manages application settings.
// Values resolve in order: defaults, config store, VERDICT_* environment.
type SettingsService struct {
	configStore driven.ConfigStore
	aiValidator driven.AIConfigValidator
	validator   *validation.Validator
	lookupEnv   func(string) (string, bool)
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore, aiValidator driven.AIConfigValidator) *SettingsService {
	return &SettingsService{
		configStore: configStore,
		aiValidator: aiValidator,
		validator:   validation.New(),
		lookupEnv:   os.LookupEnv,
	}
}

// WithEnv replaces the environment lookup. Tests use it to avoid touching
// the process environment.
func (s *SettingsService) WithEnv(lookup func(string) (string, bool)) *SettingsService {
	s.lookupEnv = lookup
	return s
}

// EnvName returns the environment variable that overrides key.
func EnvName(key string) string {
	return EnvPrefix + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
}

// Get retrieves current application settings.
// A value that does not parse is reported as domain.ErrConfiguration.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	settings := domain.DefaultAppSettings()
	for _, st := range settingsTable {
		raw, _, ok := s.resolve(st.key)
		if !ok {
			continue
		}
		if err := st.apply(&settings, raw); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", domain.ErrConfiguration, st.key, err)
		}
	}

	// A provider switch without an explicit model picks that provider's default.
	if _, _, ok := s.resolve("embedding.model"); !ok {
		if m, found := domain.DefaultEmbeddingModels()[settings.Embedding.Provider]; found {
			settings.Embedding.Model = m
		}
	}
	if _, _, ok := s.resolve("generation.model"); !ok {
		if m, found := domain.DefaultLLMModels()[settings.Generation.Provider]; found {
			settings.Generation.Model = m
		}
	}
	if _, _, ok := s.resolve("generation.api_key_env"); !ok {
		settings.Generation.APIKeyEnv = domain.DefaultAPIKeyEnv()[settings.Generation.Provider]
	}

	return &settings, nil
}

// Entries lists every setting with its effective value and source.
func (s *SettingsService) Entries() ([]domain.SettingEntry, error) {
	settings, err := s.Get()
	if err != nil {
		return nil, err
	}

	entries := make([]domain.SettingEntry, 0, len(settingsTable))
	for _, st := range settingsTable {
		_, source, ok := s.resolve(st.key)
		if !ok {
			source = domain.SettingSourceDefault
		}
		entries = append(entries, domain.SettingEntry{
			Key:    st.key,
			Value:  format(st.get(settings)),
			Source: source,
		})
	}
	return entries, nil
}

// Save validates and persists application settings.
func (s *SettingsService) Save(settings *domain.AppSettings) error {
	if err := s.Validate(settings); err != nil {
		return err
	}
	for _, st := range settingsTable {
		if err := s.configStore.Set(st.key, storable(st.get(settings))); err != nil {
			return fmt.Errorf("save %s: %w", st.key, err)
		}
	}
	return s.configStore.Save()
}

// Set stores a single setting by key. The value is parsed and the
// resulting settings validated before anything is written.
func (s *SettingsService) Set(key, value string) error {
	st, ok := lookupSetting(key)
	if !ok {
		return fmt.Errorf("%w: unknown setting %q", domain.ErrInvalidInput, key)
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}
	if err := st.apply(settings, value); err != nil {
		return fmt.Errorf("%w: %s: %w", domain.ErrInvalidInput, key, err)
	}
	if err := s.Validate(settings); err != nil {
		return err
	}

	return s.configStore.Set(key, storable(st.get(settings)))
}

// Validate checks the settings for values that cannot produce a runtime.
func (s *SettingsService) Validate(settings *domain.AppSettings) error {
	if settings == nil {
		return fmt.Errorf("%w: settings are missing", domain.ErrConfiguration)
	}
	return s.validator.Struct(settings, domain.ErrConfiguration)
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

// ValidateEmbeddingConfig validates the current embedding configuration by pinging the provider.
func (s *SettingsService) ValidateEmbeddingConfig() error {
	if s.aiValidator == nil {
		return nil
	}
	settings, err := s.Get()
	if err != nil {
		return err
	}
	return s.aiValidator.ValidateEmbedding(&settings.Embedding)
}

// ValidateGenerationConfig validates the current generation configuration by pinging the provider.
func (s *SettingsService) ValidateGenerationConfig() error {
	if s.aiValidator == nil {
		return nil
	}
	settings, err := s.Get()
	if err != nil {
		return err
	}
	return s.aiValidator.ValidateGeneration(&settings.Generation)
}

// resolve returns the raw value for key from the environment or the
// config store, with its source.
func (s *SettingsService) resolve(key string) (string, domain.SettingSource, bool) {
	if s.lookupEnv != nil {
		if v, ok := s.lookupEnv(EnvName(key)); ok {
			return v, domain.SettingSourceEnv, true
		}
	}
	if s.configStore != nil {
		if v, ok := s.configStore.Get(key); ok {
			return format(v), domain.SettingSourceConfig, true
		}
	}
	return "", "", false
}

func lookupSetting(key string) (setting, bool) {
	for _, st := range settingsTable {
		if st.key == key {
			return st, true
		}
	}
	return setting{}, false
}

// format renders a value the way it is written in config files.
func format(v any) string {
	switch val := v.(type) {
	case time.Duration:
		return val.String()
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	default:
		return fmt.Sprint(val)
	}
}

// storable converts a value to a TOML-friendly type.
func storable(v any) any {
	if d, ok := v.(time.Duration); ok {
		return d.String()
	}
	return v
}

func parseInt(raw string, dst *int) error {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return fmt.Errorf("not an integer: %q", raw)
	}
	*dst = n
	return nil
}

func parseFloat(raw string, dst *float64) error {
	f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return fmt.Errorf("not a number: %q", raw)
	}
	*dst = f
	return nil
}

func parseBool(raw string, dst *bool) error {
	b, err := strconv.ParseBool(strings.TrimSpace(raw))
	if err != nil {
		return fmt.Errorf("not a boolean: %q", raw)
	}
	*dst = b
	return nil
}

func parseDuration(raw string, dst *time.Duration) error {
	d, err := time.ParseDuration(strings.TrimSpace(raw))
	if err != nil {
		return fmt.Errorf("not a duration: %q", raw)
	}
	*dst = d
	return nil
}
