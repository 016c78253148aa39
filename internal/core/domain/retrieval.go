package domain

import "time"

// DefaultTopK is the number of chunks retrieved when the caller does not say.
const DefaultTopK = 5

// RetrievedChunk pairs a chunk with its distance from the query vector.
// Lower distances are closer.
type RetrievedChunk struct {
	Chunk    Chunk   `json:"chunk"`
	Distance float32 `json:"distance"`
}

// Answer is the result of a question answered against the corpus.
type Answer struct {
	// Text is the generated answer.
	Text string

	// Sources are the chunks that were placed in the prompt, in rank order.
	Sources []RetrievedChunk
}

// Manifest records how a pair of artifacts was built.
// The index header and the metadata store carry the same BuildID.
type Manifest struct {
	BuildID     string    `json:"build_id"`
	Model       string    `json:"model"`
	Dimension   int       `json:"dimension"`
	VectorCount int       `json:"vector_count"`
	CreatedAt   time.Time `json:"created_at"`
}

// BuildReport summarises an index build.
type BuildReport struct {
	Manifest Manifest

	Acts         int
	Sections     int
	Footnotes    int
	DroppedEmpty int
	Chunks       int
	IndexPath    string
	MetadataPath string
	Duration     time.Duration
}
