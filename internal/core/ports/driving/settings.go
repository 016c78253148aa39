package driving

import "github.com/custodia-labs/verdict/internal/core/domain"

// SettingsService manages application settings.
type SettingsService interface {
	// Get retrieves current application settings, with defaults and
	// environment overrides applied.
	Get() (*domain.AppSettings, error)

	// Save persists application settings.
	Save(settings *domain.AppSettings) error

	// Set stores a single setting by its dotted key, after validation.
	Set(key, value string) error

	// Validate checks the settings for values that cannot produce a runtime.
	Validate(settings *domain.AppSettings) error

	// Entries lists every setting key with its effective value and source.
	Entries() ([]domain.SettingEntry, error)

	// GetDefaults returns default settings.
	GetDefaults() domain.AppSettings

	// ValidateEmbeddingConfig validates the current embedding configuration by pinging the provider.
	ValidateEmbeddingConfig() error

	// ValidateGenerationConfig validates the current generation configuration by pinging the provider.
	ValidateGenerationConfig() error
}
