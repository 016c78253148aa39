package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/verdict/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/custodia-labs/verdict/internal/core/domain"
	"github.com/custodia-labs/verdict/internal/core/ports/driven"
)

// Manifest keys.
const (
	keyBuildID     = "build_id"
	keyModel       = "model"
	keyDimension   = "dimension"
	keyVectorCount = "vector_count"
	keyCreatedAt   = "created_at"
)

// Ensure Store implements the interface.
var _ driven.MetadataStore = (*Store)(nil)

// Store is a loaded metadata artifact.
type Store struct {
	path     string
	chunks   []domain.Chunk
	byID     map[string]int
	manifest domain.Manifest
}

// openDB opens the database at path. The artifact is kept in a single file
// (rollback journal rather than WAL) so it can be renamed into place.
func openDB(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(DELETE)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	return db, nil
}

// Write creates a fresh metadata database at path holding chunks in ordinal
// order. Any existing file at path is replaced.
func Write(ctx context.Context, path string, manifest domain.Manifest, chunks []domain.Chunk) error {
	if manifest.VectorCount != len(chunks) {
		return fmt.Errorf("sqlite: manifest counts %d vectors for %d chunks: %w",
			manifest.VectorCount, len(chunks), domain.ErrInvalidInput)
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("sqlite: removing stale %s: %w", path, err)
	}

	db, err := openDB(path)
	if err != nil {
		return fmt.Errorf("sqlite: %w", err)
	}
	defer db.Close()

	if err := migrate(db, migrations.FS); err != nil {
		return fmt.Errorf("sqlite: running migrations: %w", err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlite: begin: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	entries := map[string]string{
		keyBuildID:     manifest.BuildID,
		keyModel:       manifest.Model,
		keyDimension:   strconv.Itoa(manifest.Dimension),
		keyVectorCount: strconv.Itoa(manifest.VectorCount),
		keyCreatedAt:   manifest.CreatedAt.UTC().Format(time.RFC3339Nano),
	}
	for k, v := range entries {
		if _, err := tx.ExecContext(ctx, `INSERT INTO manifest (key, value) VALUES (?, ?)`, k, v); err != nil {
			return fmt.Errorf("sqlite: writing manifest %s: %w", k, err)
		}
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO chunks (ordinal, chunk_id, act_title, chunk_type, content) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("sqlite: preparing insert: %w", err)
	}
	defer stmt.Close()

	for i, c := range chunks {
		if _, err := stmt.ExecContext(ctx, i, c.ID, c.ActTitle, c.Type.String(), c.Content); err != nil {
			return fmt.Errorf("sqlite: writing chunk %q: %w", c.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("sqlite: commit: %w", err)
	}
	return nil
}

// Open loads the metadata database at path into memory.
// A missing file is reported as domain.ErrMissingArtifact; an unreadable
// or internally inconsistent one as domain.ErrCorruptedState.
func Open(ctx context.Context, path string) (*Store, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("sqlite: %s: %w", path, domain.ErrMissingArtifact)
		}
		return nil, fmt.Errorf("sqlite: stat %s: %w", path, err)
	}

	db, err := openDB(path)
	if err != nil {
		return nil, fmt.Errorf("sqlite: %w", err)
	}
	defer db.Close()

	manifest, err := readManifest(ctx, db)
	if err != nil {
		return nil, fmt.Errorf("sqlite: %s: %w", path, err)
	}

	chunks, err := readChunks(ctx, db)
	if err != nil {
		return nil, fmt.Errorf("sqlite: %s: %w", path, err)
	}

	if manifest.VectorCount != len(chunks) {
		return nil, fmt.Errorf("sqlite: %s: manifest counts %d vectors, found %d chunks: %w",
			path, manifest.VectorCount, len(chunks), domain.ErrCorruptedState)
	}

	byID := make(map[string]int, len(chunks))
	for i, c := range chunks {
		byID[c.ID] = i
	}

	return &Store{path: path, chunks: chunks, byID: byID, manifest: manifest}, nil
}

func readManifest(ctx context.Context, db *sql.DB) (domain.Manifest, error) {
	rows, err := db.QueryContext(ctx, `SELECT key, value FROM manifest`)
	if err != nil {
		return domain.Manifest{}, fmt.Errorf("reading manifest: %v: %w", err, domain.ErrCorruptedState)
	}
	defer rows.Close()

	values := make(map[string]string)
	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			return domain.Manifest{}, fmt.Errorf("scanning manifest: %w", err)
		}
		values[k] = v
	}
	if err := rows.Err(); err != nil {
		return domain.Manifest{}, fmt.Errorf("iterating manifest: %w", err)
	}

	for _, k := range []string{keyBuildID, keyModel, keyDimension, keyVectorCount} {
		if _, ok := values[k]; !ok {
			return domain.Manifest{}, fmt.Errorf("manifest missing %q: %w", k, domain.ErrCorruptedState)
		}
	}

	dim, err := strconv.Atoi(values[keyDimension])
	if err != nil {
		return domain.Manifest{}, fmt.Errorf("manifest dimension %q: %w", values[keyDimension], domain.ErrCorruptedState)
	}
	count, err := strconv.Atoi(values[keyVectorCount])
	if err != nil {
		return domain.Manifest{}, fmt.Errorf("manifest vector_count %q: %w", values[keyVectorCount], domain.ErrCorruptedState)
	}

	m := domain.Manifest{
		BuildID:     values[keyBuildID],
		Model:       values[keyModel],
		Dimension:   dim,
		VectorCount: count,
	}
	if ts, ok := values[keyCreatedAt]; ok {
		// A bad timestamp is informational only and does not invalidate the build.
		if t, err := time.Parse(time.RFC3339Nano, ts); err == nil {
			m.CreatedAt = t
		}
	}
	return m, nil
}

func readChunks(ctx context.Context, db *sql.DB) ([]domain.Chunk, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT ordinal, chunk_id, act_title, chunk_type, content FROM chunks ORDER BY ordinal`)
	if err != nil {
		return nil, fmt.Errorf("reading chunks: %v: %w", err, domain.ErrCorruptedState)
	}
	defer rows.Close()

	var chunks []domain.Chunk
	for rows.Next() {
		var (
			ordinal int
			c       domain.Chunk
			typ     string
		)
		if err := rows.Scan(&ordinal, &c.ID, &c.ActTitle, &typ, &c.Content); err != nil {
			return nil, fmt.Errorf("scanning chunk: %w", err)
		}
		if ordinal != len(chunks) {
			return nil, fmt.Errorf("chunk ordinals not contiguous at %d: %w", len(chunks), domain.ErrCorruptedState)
		}
		if c.Type, err = domain.ParseChunkType(typ); err != nil {
			return nil, fmt.Errorf("chunk %q: %v: %w", c.ID, err, domain.ErrCorruptedState)
		}
		chunks = append(chunks, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating chunks: %w", err)
	}
	return chunks, nil
}

// Lookup returns the chunk at ordinal.
func (s *Store) Lookup(ordinal int) (domain.Chunk, error) {
	if ordinal < 0 || ordinal >= len(s.chunks) {
		return domain.Chunk{}, fmt.Errorf("sqlite: ordinal %d: %w", ordinal, domain.ErrNotFound)
	}
	return s.chunks[ordinal], nil
}

// LookupByID returns the chunk with the given chunk_id.
func (s *Store) LookupByID(chunkID string) (domain.Chunk, error) {
	i, ok := s.byID[chunkID]
	if !ok {
		return domain.Chunk{}, fmt.Errorf("sqlite: chunk %q: %w", chunkID, domain.ErrNotFound)
	}
	return s.chunks[i], nil
}

// Len returns the number of records.
func (s *Store) Len() int {
	return len(s.chunks)
}

// Manifest returns the build record.
func (s *Store) Manifest() domain.Manifest {
	return s.manifest
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// Close drops the in-memory records. The database handle is already closed
// once Open returns.
func (s *Store) Close() error {
	s.chunks = nil
	s.byID = nil
	return nil
}

// migrate runs all pending migrations.
func migrate(db *sql.DB, fsys embed.FS) error {
	// Ensure schema_migrations table exists
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	// Get current version
	var currentVersion int
	row := db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	// Find all up migrations
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// Extract version number (e.g., "001_initial.up.sql" -> 1)
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue
		}

		if version <= currentVersion {
			continue
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}

		if _, err := db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
	}

	return nil
}
