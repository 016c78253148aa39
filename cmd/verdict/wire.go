package main

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/custodia-labs/verdict/internal/adapters/driven/ai"
	"github.com/custodia-labs/verdict/internal/adapters/driven/config/file"
	"github.com/custodia-labs/verdict/internal/adapters/driven/corpus/jsonfile"
	"github.com/custodia-labs/verdict/internal/adapters/driven/storage/artifacts"
	"github.com/custodia-labs/verdict/internal/adapters/driven/tokens"
	"github.com/custodia-labs/verdict/internal/adapters/driving/cli"
	"github.com/custodia-labs/verdict/internal/core/domain"
	"github.com/custodia-labs/verdict/internal/core/services"
	"github.com/custodia-labs/verdict/internal/logger"
)

// wire builds the application from the parsed global flags. Settings are
// always returned so "verdict config" works before anything else is set up.
func wire(opts cli.Options) (*cli.Services, error) {
	store, configDir, err := openConfig(opts.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}

	factory := ai.NewFactory()
	settingsSvc := services.NewSettingsService(store, ai.NewConfigValidator(factory))

	settings, err := settingsSvc.Get()
	if err != nil {
		return &cli.Services{Settings: settingsSvc, Unavailable: err}, nil
	}
	logger.Debug("artifacts in %s, generation via %s", settings.Artifacts.Dir, settings.Generation.Provider)

	prompts, err := file.NewPromptStore(filepath.Join(configDir, "prompts"))
	if err != nil {
		return &cli.Services{Settings: settingsSvc, Unavailable: err}, nil
	}

	artifactStore := artifacts.NewStore(settings.Artifacts.Dir)
	runtime := services.NewRuntime(settings, artifactStore, factory)
	retrieval := services.NewRetrievalService(runtime)
	answer := services.NewAnswerService(
		runtime,
		retrieval,
		services.NewPromptComposer(prompts),
		tokens.New(tokens.DefaultEncoding),
	)

	return &cli.Services{
		Settings:  settingsSvc,
		Retrieval: retrieval,
		Answer:    answer,
		Builder:   services.NewIndexBuilder(settings.Embedding, artifactStore, factory),
		Corpus: func(ctx context.Context, path string) (*domain.Corpus, error) {
			return jsonfile.New(path).Load(ctx)
		},
		Config:       *settings,
		WatchPrompts: prompts.Watch,
		Close:        runtime.Close,
	}, nil
}

// openConfig opens the config store and returns the directory holding it.
func openConfig(path string) (*file.ConfigStore, string, error) {
	if path != "" {
		store, err := file.NewConfigStoreAt(path)
		return store, filepath.Dir(path), err
	}

	dir, err := file.DefaultConfigDir()
	if err != nil {
		return nil, "", err
	}
	store, err := file.NewConfigStore(dir)
	return store, dir, err
}
