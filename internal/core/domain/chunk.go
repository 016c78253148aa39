package domain

import (
	"fmt"
	"strings"
)

// ChunkType distinguishes section text from footnote text.
type ChunkType string

// Available chunk types.
const (
	// ChunkTypeSection is body text of an act.
	ChunkTypeSection ChunkType = "section"

	// ChunkTypeFootnote is a footnote attached to an act.
	ChunkTypeFootnote ChunkType = "footnote"
)

// IsValid returns true if the chunk type is recognised.
func (t ChunkType) IsValid() bool {
	return t == ChunkTypeSection || t == ChunkTypeFootnote
}

// String returns the string representation.
func (t ChunkType) String() string {
	return string(t)
}

// Short returns the abbreviation used inside chunk IDs.
func (t ChunkType) Short() string {
	switch t {
	case ChunkTypeSection:
		return "sec"
	case ChunkTypeFootnote:
		return "footnote"
	default:
		return string(t)
	}
}

// Label returns the capitalised name used when rendering prompts.
func (t ChunkType) Label() string {
	if t == "" {
		return ""
	}
	s := string(t)
	return strings.ToUpper(s[:1]) + s[1:]
}

// ParseChunkType converts a stored string back to a ChunkType.
func ParseChunkType(s string) (ChunkType, error) {
	t := ChunkType(s)
	if !t.IsValid() {
		return "", fmt.Errorf("%w: chunk type %q", ErrUnsupportedType, s)
	}
	return t, nil
}

// Chunk is the minimal addressable unit of corpus text.
type Chunk struct {
	// ID is "{act_title}-{sec|footnote}-{ordinal}" and unique in a corpus.
	ID string `json:"chunk_id"`

	// ActTitle is the title of the originating act.
	ActTitle string `json:"act_title"`

	// Type is section or footnote.
	Type ChunkType `json:"chunk_type"`

	// Content is trimmed and never empty.
	Content string `json:"content"`
}

// ChunkID derives the deterministic identifier of a chunk.
// Ordinals are 1-based within an (act, type) group.
func ChunkID(actTitle string, t ChunkType, ordinal int) string {
	return fmt.Sprintf("%s-%s-%d", actTitle, t.Short(), ordinal)
}
