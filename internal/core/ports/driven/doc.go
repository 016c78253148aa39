// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Build-time Interfaces
//
//   - CorpusSource: Reads and validates the structured legal corpus
//   - EmbeddingService: Encodes chunk text in batches
//   - ArtifactStore: Persists the vector index and metadata as one build
//
// # Serve-time Interfaces
//
//   - ArtifactStore: Opens a VectorIndex and its companion MetadataStore
//   - EmbeddingService: Encodes a single query
//   - LLMService: Generates an answer from a composed prompt
//   - TokenCounter: Measures prompt size against the context budget
//   - PromptStore: Supplies the answer preamble
//
// # Configuration
//
//   - ConfigStore: Application configuration
//   - AIFactory: Builds AI services from settings
//   - AIConfigValidator: Checks provider connectivity
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
