// Package artifacts stores a build as a pair of files: a flat vector index
// and a SQLite metadata database, side by side in one directory.
package artifacts

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/custodia-labs/verdict/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/verdict/internal/adapters/driven/vector/flat"
	"github.com/custodia-labs/verdict/internal/core/domain"
	"github.com/custodia-labs/verdict/internal/core/ports/driven"
	"github.com/custodia-labs/verdict/internal/logger"
)

const tmpSuffix = ".tmp"

// Ensure Store implements the interface.
var _ driven.ArtifactStore = (*Store)(nil)

// Store reads and writes the artifact pair under a directory.
type Store struct {
	dir string
}

// NewStore creates a store rooted at dir.
func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// Paths returns the index and metadata file locations.
func (s *Store) Paths() (string, string) {
	return filepath.Join(s.dir, domain.IndexFileName), filepath.Join(s.dir, domain.MetadataFileName)
}

// Write persists a build. Both files are written to temporary names first
// and renamed into place only when both succeeded, metadata last.
func (s *Store) Write(ctx context.Context, manifest domain.Manifest, chunks []domain.Chunk, vectors [][]float32) error {
	if len(chunks) != len(vectors) {
		return fmt.Errorf("artifacts: %d chunks for %d vectors: %w", len(chunks), len(vectors), domain.ErrInvalidInput)
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("artifacts: creating %s: %w", s.dir, err)
	}

	indexPath, metaPath := s.Paths()
	indexTmp, metaTmp := indexPath+tmpSuffix, metaPath+tmpSuffix
	cleanup := func() {
		_ = os.Remove(indexTmp)
		_ = os.Remove(metaTmp)
	}

	ix, err := flat.Build(manifest.BuildID, vectors)
	if err != nil {
		return fmt.Errorf("artifacts: %w", err)
	}
	if err := flat.Save(indexTmp, ix); err != nil {
		cleanup()
		return fmt.Errorf("artifacts: %w", err)
	}
	if err := sqlite.Write(ctx, metaTmp, manifest, chunks); err != nil {
		cleanup()
		return fmt.Errorf("artifacts: %w", err)
	}

	if err := os.Rename(indexTmp, indexPath); err != nil {
		cleanup()
		return fmt.Errorf("artifacts: installing index: %w", err)
	}
	if err := os.Rename(metaTmp, metaPath); err != nil {
		cleanup()
		return fmt.Errorf("artifacts: installing metadata: %w", err)
	}

	logger.Debug("artifacts: wrote %s and %s (build %s)", indexPath, metaPath, manifest.BuildID)
	return nil
}

// Open loads both artifacts. If either is absent the result is
// domain.ErrMissingArtifact, naming every missing file.
func (s *Store) Open(ctx context.Context) (driven.VectorIndex, driven.MetadataStore, error) {
	indexPath, metaPath := s.Paths()

	var missing []string
	for _, p := range []string{indexPath, metaPath} {
		if _, err := os.Stat(p); errors.Is(err, fs.ErrNotExist) {
			missing = append(missing, p)
		}
	}
	if len(missing) > 0 {
		return nil, nil, fmt.Errorf("artifacts: %v not found, run `verdict build`: %w", missing, domain.ErrMissingArtifact)
	}

	ix, err := flat.Open(indexPath)
	if err != nil {
		return nil, nil, fmt.Errorf("artifacts: %w", err)
	}
	meta, err := sqlite.Open(ctx, metaPath)
	if err != nil {
		ix.Close()
		return nil, nil, fmt.Errorf("artifacts: %w", err)
	}

	logger.Debug("artifacts: loaded %d vectors (dim %d) and %d records", ix.Len(), ix.Dimension(), meta.Len())
	return ix, meta, nil
}
