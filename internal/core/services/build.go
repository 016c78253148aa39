package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/custodia-labs/verdict/internal/core/domain"
	"github.com/custodia-labs/verdict/internal/core/ports/driven"
	"github.com/custodia-labs/verdict/internal/core/ports/driving"
	"github.com/custodia-labs/verdict/internal/logger"
)

// Ensure IndexBuilder implements the interface.
var _ driving.IndexBuilder = (*IndexBuilder)(nil)

const (
	defaultBatchSize   = 64
	defaultConcurrency = 4
)

// IndexBuilder turns a corpus into a vector index and metadata artifact.
type IndexBuilder struct {
	settings  domain.EmbeddingSettings
	artifacts driven.ArtifactStore
	factory   driven.AIFactory
}

// NewIndexBuilder creates a builder that encodes with the given embedding
// settings and writes to artifacts.
func NewIndexBuilder(settings domain.EmbeddingSettings, artifacts driven.ArtifactStore, factory driven.AIFactory) *IndexBuilder {
	return &IndexBuilder{settings: settings, artifacts: artifacts, factory: factory}
}

// Build chunks, embeds and writes the corpus. Existing artifacts are only
// replaced once the new pair is completely written.
func (b *IndexBuilder) Build(ctx context.Context, corpus *domain.Corpus) (*domain.BuildReport, error) {
	start := time.Now()
	logger.Section("Build")

	if corpus == nil {
		return nil, fmt.Errorf("build: %w: no corpus", domain.ErrInvalidInput)
	}
	chunks, stats := ChunkCorpus(corpus.Acts)
	if len(chunks) == 0 {
		return nil, fmt.Errorf("build: %w: corpus produced no chunks", domain.ErrInvalidInput)
	}
	logger.Info("Chunked %d acts into %d chunks (%d empty entries dropped)", stats.Acts, len(chunks), stats.DroppedEmpty)

	encoder, err := b.factory.CreateEmbeddingService(&b.settings)
	if err != nil {
		return nil, fmt.Errorf("build: %w", asConfiguration(err))
	}
	defer encoder.Close()

	vectors, err := b.embed(ctx, encoder, chunks)
	if err != nil {
		return nil, err
	}

	manifest := domain.Manifest{
		BuildID:     uuid.NewString(),
		Model:       encoder.ModelName(),
		Dimension:   encoder.Dimensions(),
		VectorCount: len(vectors),
		CreatedAt:   time.Now().UTC(),
	}
	if err := b.artifacts.Write(ctx, manifest, chunks, vectors); err != nil {
		return nil, fmt.Errorf("build: %w", err)
	}

	indexPath, metadataPath := b.artifacts.Paths()
	report := &domain.BuildReport{
		Manifest:     manifest,
		Acts:         stats.Acts,
		Sections:     stats.Sections,
		Footnotes:    stats.Footnotes,
		DroppedEmpty: stats.DroppedEmpty,
		Chunks:       len(chunks),
		IndexPath:    indexPath,
		MetadataPath: metadataPath,
		Duration:     time.Since(start),
	}
	logger.Info("Build %s: %d vectors of dimension %d in %s", manifest.BuildID, len(vectors), manifest.Dimension, report.Duration)
	return report, nil
}

// embed encodes chunks in batches, running up to Concurrency batches at
// once. Vectors keep chunk order.
func (b *IndexBuilder) embed(ctx context.Context, encoder driven.EmbeddingService, chunks []domain.Chunk) ([][]float32, error) {
	batchSize := b.settings.BatchSize
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}
	concurrency := b.settings.Concurrency
	if concurrency <= 0 {
		concurrency = defaultConcurrency
	}
	dim := encoder.Dimensions()
	vectors := make([][]float32, len(chunks))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)
	for lo := 0; lo < len(chunks); lo += batchSize {
		hi := min(lo+batchSize, len(chunks))
		g.Go(func() error {
			texts := make([]string, hi-lo)
			for i := range texts {
				texts[i] = chunks[lo+i].Content
			}
			out, err := encoder.EmbedBatch(ctx, texts)
			if err != nil {
				return fmt.Errorf("build: embedding chunks %d-%d: %w", lo, hi-1, err)
			}
			if len(out) != len(texts) {
				return fmt.Errorf("build: encoder returned %d vectors for %d chunks: %w",
					len(out), len(texts), domain.ErrEmbeddingUnavailable)
			}
			for i, v := range out {
				if len(v) != dim {
					return fmt.Errorf("build: chunk %s has %d dimensions, expected %d: %w",
						chunks[lo+i].ID, len(v), dim, domain.ErrDimensionMismatch)
				}
				vectors[lo+i] = v
			}
			logger.Debug("build: embedded chunks %d-%d", lo, hi-1)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return vectors, nil
}
