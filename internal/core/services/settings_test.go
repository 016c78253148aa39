package services

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/verdict/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/verdict/internal/core/domain"
)

func noEnv(string) (string, bool) { return "", false }

func envMap(vars map[string]string) func(string) (string, bool) {
	return func(k string) (string, bool) {
		v, ok := vars[k]
		return v, ok
	}
}

// mockAIValidator records which configurations were validated.
type mockAIValidator struct {
	embedding  *domain.EmbeddingSettings
	generation *domain.GenerationSettings
	err        error
}

func (m *mockAIValidator) ValidateEmbedding(cfg *domain.EmbeddingSettings) error {
	m.embedding = cfg
	return m.err
}

func (m *mockAIValidator) ValidateGeneration(cfg *domain.GenerationSettings) error {
	m.generation = cfg
	return m.err
}

func TestSettingsService_Get_Defaults(t *testing.T) {
	service := NewSettingsService(memory.NewConfigStore(), nil).WithEnv(noEnv)

	settings, err := service.Get()

	require.NoError(t, err)
	assert.Equal(t, domain.DefaultAppSettings(), *settings)
	assert.Equal(t, "GEMINI_API_KEY", settings.Generation.APIKeyEnv)
	assert.Equal(t, 60*time.Second, settings.Generation.Timeout)
	assert.Equal(t, 0, settings.Generation.MaxRetries)
	assert.Equal(t, 5, settings.Retrieval.TopK)
}

func TestSettingsService_Get_StoredValues(t *testing.T) {
	store := memory.NewConfigStore()
	_ = store.Set("generation.timeout", "15s")
	_ = store.Set("generation.max_context_tokens", int64(0))
	_ = store.Set("generation.temperature", 0.7)
	_ = store.Set("retrieval.top_k", int64(8))
	_ = store.Set("log.json", true)

	settings, err := NewSettingsService(store, nil).WithEnv(noEnv).Get()

	require.NoError(t, err)
	assert.Equal(t, 15*time.Second, settings.Generation.Timeout)
	assert.Equal(t, 0, settings.Generation.MaxContextTokens, "explicit zero disables fitting")
	assert.InDelta(t, 0.7, settings.Generation.Temperature, 1e-9)
	assert.Equal(t, 8, settings.Retrieval.TopK)
	assert.True(t, settings.Server.JSONLogs)
}

func TestSettingsService_Get_EnvOverridesConfig(t *testing.T) {
	store := memory.NewConfigStore()
	_ = store.Set("artifacts.dir", "/from/config")
	_ = store.Set("generation.provider", "anthropic")

	service := NewSettingsService(store, nil).WithEnv(envMap(map[string]string{
		"VERDICT_ARTIFACTS_DIR":          "/from/env",
		"VERDICT_GENERATION_PROVIDER":    "openai",
		"VERDICT_GENERATION_MAX_RETRIES": "2",
	}))

	settings, err := service.Get()

	require.NoError(t, err)
	assert.Equal(t, "/from/env", settings.Artifacts.Dir)
	assert.Equal(t, domain.AIProviderOpenAI, settings.Generation.Provider)
	assert.Equal(t, "gpt-4o-mini", settings.Generation.Model, "provider default model")
	assert.Equal(t, "OPENAI_API_KEY", settings.Generation.APIKeyEnv, "provider default credential variable")
	assert.Equal(t, 2, settings.Generation.MaxRetries)
}

func TestSettingsService_Get_UnparsableValue(t *testing.T) {
	service := NewSettingsService(memory.NewConfigStore(), nil).WithEnv(envMap(map[string]string{
		"VERDICT_GENERATION_TIMEOUT": "soon",
	}))

	_, err := service.Get()

	assert.ErrorIs(t, err, domain.ErrConfiguration)
	assert.Contains(t, err.Error(), "generation.timeout")
}

func TestSettingsService_Set(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		value   string
		wantErr error
		check   func(t *testing.T, s *domain.AppSettings)
	}{
		{
			name: "top k", key: "retrieval.top_k", value: "10",
			check: func(t *testing.T, s *domain.AppSettings) { assert.Equal(t, 10, s.Retrieval.TopK) },
		},
		{
			name: "retry delay", key: "generation.retry_base_delay", value: "250ms",
			check: func(t *testing.T, s *domain.AppSettings) {
				assert.Equal(t, 250*time.Millisecond, s.Generation.RetryBaseDelay)
			},
		},
		{
			name: "provider", key: "embedding.provider", value: "ollama",
			check: func(t *testing.T, s *domain.AppSettings) {
				assert.Equal(t, domain.AIProviderOllama, s.Embedding.Provider)
				assert.Equal(t, "all-minilm", s.Embedding.Model)
			},
		},
		{name: "unknown key", key: "search.mode", value: "x", wantErr: domain.ErrInvalidInput},
		{name: "not a number", key: "retrieval.top_k", value: "many", wantErr: domain.ErrInvalidInput},
		{name: "zero top k", key: "retrieval.top_k", value: "0", wantErr: domain.ErrConfiguration},
		{name: "negative retries", key: "generation.max_retries", value: "-1", wantErr: domain.ErrConfiguration},
		{name: "zero timeout", key: "generation.timeout", value: "0s", wantErr: domain.ErrConfiguration},
		{name: "bad provider", key: "generation.provider", value: "hashing", wantErr: domain.ErrConfiguration},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := memory.NewConfigStore()
			service := NewSettingsService(store, nil).WithEnv(noEnv)

			err := service.Set(tt.key, tt.value)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Empty(t, store.Keys(), "nothing written on failure")
				return
			}
			require.NoError(t, err)
			settings, err := service.Get()
			require.NoError(t, err)
			tt.check(t, settings)
		})
	}
}

func TestSettingsService_Validate_NamesField(t *testing.T) {
	service := NewSettingsService(memory.NewConfigStore(), nil)
	settings := domain.DefaultAppSettings()
	settings.Retrieval.TopK = 0

	err := service.Validate(&settings)

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrConfiguration)
	assert.Contains(t, err.Error(), "retrieval.top_k")
}

func TestSettingsService_SaveRoundTrip(t *testing.T) {
	store := memory.NewConfigStore()
	service := NewSettingsService(store, nil).WithEnv(noEnv)

	settings := domain.DefaultAppSettings()
	settings.Generation.Timeout = 90 * time.Second
	settings.Embedding.Concurrency = 2
	require.NoError(t, service.Save(&settings))

	assert.Equal(t, "1m30s", store.GetString("generation.timeout"))

	got, err := service.Get()
	require.NoError(t, err)
	assert.Equal(t, settings, *got)
}

func TestSettingsService_Entries(t *testing.T) {
	store := memory.NewConfigStore()
	_ = store.Set("retrieval.top_k", 7)
	service := NewSettingsService(store, nil).WithEnv(envMap(map[string]string{
		"VERDICT_SERVER_ADDR": ":9000",
	}))

	entries, err := service.Entries()
	require.NoError(t, err)

	byKey := make(map[string]domain.SettingEntry, len(entries))
	for _, e := range entries {
		byKey[e.Key] = e
	}
	assert.Equal(t, domain.SettingEntry{Key: "retrieval.top_k", Value: "7", Source: domain.SettingSourceConfig}, byKey["retrieval.top_k"])
	assert.Equal(t, domain.SettingEntry{Key: "server.addr", Value: ":9000", Source: domain.SettingSourceEnv}, byKey["server.addr"])
	assert.Equal(t, domain.SettingEntry{Key: "generation.timeout", Value: "1m0s", Source: domain.SettingSourceDefault}, byKey["generation.timeout"])
}

func TestSettingsService_ValidateProviders(t *testing.T) {
	validator := &mockAIValidator{err: errors.New("unreachable")}
	service := NewSettingsService(memory.NewConfigStore(), validator).WithEnv(noEnv)

	assert.Error(t, service.ValidateEmbeddingConfig())
	assert.Error(t, service.ValidateGenerationConfig())
	require.NotNil(t, validator.embedding)
	assert.Equal(t, domain.AIProviderHashing, validator.embedding.Provider)
	require.NotNil(t, validator.generation)
	assert.Equal(t, domain.AIProviderGemini, validator.generation.Provider)

	assert.NoError(t, NewSettingsService(memory.NewConfigStore(), nil).ValidateGenerationConfig())
}

func TestEnvName(t *testing.T) {
	assert.Equal(t, "VERDICT_GENERATION_API_KEY_ENV", EnvName("generation.api_key_env"))
	assert.Equal(t, "VERDICT_LOG_JSON", EnvName("log.json"))
}
