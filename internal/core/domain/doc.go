// Package domain defines the core business entities for Verdict.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Corpus, Act, Section, Footnote: the structured legal input
//   - Chunk: a uniquely identified unit of act text
//   - RetrievedChunk: a chunk paired with its query distance
//   - Manifest: the build record shared by the index and metadata artifacts
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
