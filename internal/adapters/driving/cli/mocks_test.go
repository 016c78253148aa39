package cli

import (
	"context"
	"errors"
	"time"

	"github.com/custodia-labs/verdict/internal/core/domain"
)

// mockSettingsService implements driving.SettingsService for testing.
type mockSettingsService struct {
	entries  []domain.SettingEntry
	set      map[string]string
	setErr   error
	genErr   error
	defaults domain.AppSettings
}

func newMockSettingsService() *mockSettingsService {
	return &mockSettingsService{
		entries: []domain.SettingEntry{
			{Key: "artifacts.dir", Value: "embeddings", Source: domain.SettingSourceDefault},
			{Key: "generation.api_key_env", Value: "VERDICT_TEST_UNSET_KEY", Source: domain.SettingSourceConfig},
			{Key: "generation.provider", Value: "gemini", Source: domain.SettingSourceEnv},
		},
		set:      map[string]string{},
		defaults: domain.DefaultAppSettings(),
	}
}

func (m *mockSettingsService) Get() (*domain.AppSettings, error) {
	s := m.defaults
	return &s, nil
}

func (m *mockSettingsService) Save(_ *domain.AppSettings) error { return nil }

func (m *mockSettingsService) Set(key, value string) error {
	if m.setErr != nil {
		return m.setErr
	}
	m.set[key] = value
	return nil
}

func (m *mockSettingsService) Validate(_ *domain.AppSettings) error { return nil }

func (m *mockSettingsService) Entries() ([]domain.SettingEntry, error) { return m.entries, nil }

func (m *mockSettingsService) GetDefaults() domain.AppSettings { return m.defaults }

func (m *mockSettingsService) ValidateEmbeddingConfig() error { return nil }

func (m *mockSettingsService) ValidateGenerationConfig() error { return m.genErr }

// mockRetrievalService implements driving.RetrievalService for testing.
type mockRetrievalService struct {
	results  []domain.RetrievedChunk
	manifest domain.Manifest
	err      error
	gotTopK  int
}

func (m *mockRetrievalService) Retrieve(_ context.Context, _ string, topK int) ([]domain.RetrievedChunk, error) {
	m.gotTopK = topK
	return m.results, m.err
}

func (m *mockRetrievalService) Chunk(_ context.Context, chunkID string) (domain.Chunk, error) {
	for _, r := range m.results {
		if r.Chunk.ID == chunkID {
			return r.Chunk, nil
		}
	}
	return domain.Chunk{}, domain.ErrNotFound
}

func (m *mockRetrievalService) Manifest(_ context.Context) (domain.Manifest, error) {
	return m.manifest, m.err
}

// mockAnswerService implements driving.AnswerService for testing.
type mockAnswerService struct {
	answer   *domain.Answer
	err      error
	gotQuery string
	gotTopK  int
}

func (m *mockAnswerService) Ask(_ context.Context, query string, topK int) (*domain.Answer, error) {
	m.gotQuery, m.gotTopK = query, topK
	if m.err != nil {
		return nil, m.err
	}
	return m.answer, nil
}

// mockIndexBuilder implements driving.IndexBuilder for testing.
type mockIndexBuilder struct {
	err    error
	corpus *domain.Corpus
}

func (m *mockIndexBuilder) Build(_ context.Context, corpus *domain.Corpus) (*domain.BuildReport, error) {
	m.corpus = corpus
	if m.err != nil {
		return nil, m.err
	}
	return &domain.BuildReport{
		Manifest:     domain.Manifest{BuildID: "build-1", Model: "hashing-fnv-384", Dimension: 384, VectorCount: 3},
		Acts:         2,
		Sections:     2,
		Footnotes:    1,
		Chunks:       3,
		IndexPath:    "embeddings/chunks.index",
		MetadataPath: "embeddings/chunk_metadata.db",
		Duration:     1500 * time.Millisecond,
	}, nil
}

type testServices struct {
	settings  *mockSettingsService
	retrieval *mockRetrievalService
	answer    *mockAnswerService
	builder   *mockIndexBuilder
	loaded    []string
}

// setupTestServices installs mock services and returns a cleanup func.
func setupTestServices() func() {
	_, cleanup := setupTestServicesWith()
	return cleanup
}

// setupTestServicesWith installs mock services and returns them for
// inspection.
func setupTestServicesWith() (*testServices, func()) {
	ts := &testServices{
		settings: newMockSettingsService(),
		retrieval: &mockRetrievalService{
			results: []domain.RetrievedChunk{{
				Chunk:    domain.Chunk{ID: "Act B-sec-1", ActTitle: "Act B", Type: domain.ChunkTypeSection, Content: "A tort is a civil wrong."},
				Distance: 0.25,
			}},
			manifest: domain.Manifest{BuildID: "build-1", Model: "hashing-fnv-384", Dimension: 384, VectorCount: 3},
		},
		answer:  &mockAnswerService{answer: &domain.Answer{Text: "A tort is a civil wrong."}},
		builder: &mockIndexBuilder{},
	}
	ts.answer.answer.Sources = ts.retrieval.results

	original := services
	services = &Services{
		Settings:  ts.settings,
		Retrieval: ts.retrieval,
		Answer:    ts.answer,
		Builder:   ts.builder,
		Corpus: func(_ context.Context, path string) (*domain.Corpus, error) {
			ts.loaded = append(ts.loaded, path)
			if path == "missing.json" {
				return nil, errors.New("corpus file not found")
			}
			return &domain.Corpus{}, nil
		},
		Config: domain.DefaultAppSettings(),
	}
	return ts, func() { services = original }
}
