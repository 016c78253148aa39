package driven

import "context"

// EmbeddingService generates vector embeddings from text.
//
// Embed and EmbedBatch must apply identical preprocessing: the vector for a
// text is the same whether it was encoded alone or as part of a batch. Query
// vectors are only comparable to corpus vectors when this holds.
//
// Implementations may include:
//   - Hashing (built-in, deterministic, offline)
//   - OpenAI (text-embedding-3-small, text-embedding-3-large)
//   - Ollama (all-minilm, nomic-embed-text)
type EmbeddingService interface {
	// Embed generates a vector embedding for the given text.
	Embed(ctx context.Context, text string) ([]float32, error)

	// EmbedBatch generates embeddings for multiple texts, in input order.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)

	// Dimensions returns the embedding vector size (e.g., 384, 1536, 3072).
	// This is determined by the model and must match the built index.
	Dimensions() int

	// ModelName returns the name of the embedding model being used.
	// It is recorded in the build manifest and checked at load.
	ModelName() string

	// Ping validates the service is reachable by making a lightweight test request.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}
