// Package sqlite persists the chunk metadata artifact as a SQLite database.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that requires
// no CGO, enabling easy cross-compilation. The database holds two tables:
//
//   - chunks: one row per chunk, keyed by its vector ordinal
//   - manifest: the build record (build id, model, dimension, vector count)
//
// # Schema
//
// The database schema is managed through versioned migrations stored in the
// migrations/ directory. Each migration is a pair of .up.sql and .down.sql files.
//
// # Data Location
//
// By default, the database is stored at embeddings/chunk_metadata.db next to
// the vector index.
//
// # Thread Safety
//
// A Store is written once by Write and read-only after Open. All records are
// held in memory, so Lookup is O(1) and safe for concurrent use.
package sqlite
