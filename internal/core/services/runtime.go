package services

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/custodia-labs/verdict/internal/core/domain"
	"github.com/custodia-labs/verdict/internal/core/ports/driven"
	"github.com/custodia-labs/verdict/internal/logger"
)

// Handles are the read-only serving resources of a loaded build.
type Handles struct {
	Encoder   driven.EmbeddingService
	Knowledge *KnowledgeBase
}

// Runtime owns the serving resources of one process. Nothing is loaded at
// construction; the first caller of Handles or Generator performs the load
// and concurrent callers wait for it.
//
// Successful loads and corrupted artifacts are remembered. Missing
// artifacts and configuration errors are not, so a later call picks up a
// rebuild or a corrected environment without a restart.
type Runtime struct {
	settings  domain.AppSettings
	artifacts driven.ArtifactStore
	factory   driven.AIFactory

	mu        sync.Mutex
	handles   *Handles
	generator driven.LLMService
	fatal     error
	loads     int
}

// NewRuntime creates a runtime for the given settings.
func NewRuntime(settings *domain.AppSettings, artifacts driven.ArtifactStore, factory driven.AIFactory) *Runtime {
	s := domain.DefaultAppSettings()
	if settings != nil {
		s = *settings
	}
	return &Runtime{settings: s, artifacts: artifacts, factory: factory}
}

// Settings returns the settings the runtime was built with.
func (r *Runtime) Settings() domain.AppSettings {
	return r.settings
}

// Handles returns the encoder and knowledge base, loading them on first use.
func (r *Runtime) Handles(ctx context.Context) (*Handles, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.fatal != nil {
		return nil, r.fatal
	}
	if r.handles != nil {
		return r.handles, nil
	}

	h, err := r.load(ctx)
	if err != nil {
		if errors.Is(err, domain.ErrCorruptedState) {
			logger.Error("runtime: artifacts are corrupted, refusing to serve: %v", err)
			r.fatal = err
		}
		return nil, err
	}
	r.handles = h
	return h, nil
}

func (r *Runtime) load(ctx context.Context) (*Handles, error) {
	r.loads++
	logger.Section("Loading artifacts")

	index, metadata, err := r.artifacts.Open(ctx)
	if err != nil {
		return nil, err
	}
	kb, err := NewKnowledgeBase(index, metadata)
	if err != nil {
		_ = index.Close()
		_ = metadata.Close()
		return nil, err
	}

	encoder, err := r.factory.CreateEmbeddingService(&r.settings.Embedding)
	if err != nil {
		_ = kb.Close()
		return nil, fmt.Errorf("runtime: embedding: %w", asConfiguration(err))
	}

	m := kb.Manifest()
	if encoder.ModelName() != m.Model || encoder.Dimensions() != m.Dimension {
		_ = encoder.Close()
		_ = kb.Close()
		return nil, fmt.Errorf("runtime: encoder %s/%d does not match build %s/%d, rebuild or change embedding settings: %w",
			encoder.ModelName(), encoder.Dimensions(), m.Model, m.Dimension, domain.ErrConfiguration)
	}

	logger.Info("Loaded build %s: %d chunks, model %s", m.BuildID, kb.Len(), m.Model)
	return &Handles{Encoder: encoder, Knowledge: kb}, nil
}

// Generator returns the generation client, creating it on first use.
// Retrieval never needs it, so a missing credential only affects answers.
func (r *Runtime) Generator(_ context.Context) (driven.LLMService, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.generator != nil {
		return r.generator, nil
	}
	llm, err := r.factory.CreateLLMService(&r.settings.Generation)
	if err != nil {
		return nil, fmt.Errorf("runtime: generation: %w", asConfiguration(err))
	}
	logger.Debug("runtime: generation client %s ready", llm.ModelName())
	r.generator = llm
	return llm, nil
}

// Loads reports how many artifact loads were attempted.
func (r *Runtime) Loads() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.loads
}

// Close releases every loaded resource. The runtime can load again afterwards.
func (r *Runtime) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var errs []error
	if r.handles != nil {
		errs = append(errs, r.handles.Encoder.Close(), r.handles.Knowledge.Close())
		r.handles = nil
	}
	if r.generator != nil {
		errs = append(errs, r.generator.Close())
		r.generator = nil
	}
	return errors.Join(errs...)
}

// asConfiguration marks provider construction failures as configuration
// errors unless they already are.
func asConfiguration(err error) error {
	if errors.Is(err, domain.ErrConfiguration) {
		return err
	}
	return fmt.Errorf("%w: %w", domain.ErrConfiguration, err)
}
