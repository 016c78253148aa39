package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChunkType_IsValid(t *testing.T) {
	tests := []struct {
		name     string
		chunk    ChunkType
		expected bool
	}{
		{"section is valid", ChunkTypeSection, true},
		{"footnote is valid", ChunkTypeFootnote, true},
		{"empty is invalid", ChunkType(""), false},
		{"abbreviation is invalid", ChunkType("sec"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.chunk.IsValid())
		})
	}
}

func TestChunkType_ShortAndLabel(t *testing.T) {
	assert.Equal(t, "sec", ChunkTypeSection.Short())
	assert.Equal(t, "footnote", ChunkTypeFootnote.Short())
	assert.Equal(t, "Section", ChunkTypeSection.Label())
	assert.Equal(t, "Footnote", ChunkTypeFootnote.Label())
	assert.Empty(t, ChunkType("").Label())
}

func TestParseChunkType(t *testing.T) {
	ct, err := ParseChunkType("footnote")
	require.NoError(t, err)
	assert.Equal(t, ChunkTypeFootnote, ct)

	_, err = ParseChunkType("appendix")
	assert.ErrorIs(t, err, ErrUnsupportedType)
}

func TestChunkID(t *testing.T) {
	assert.Equal(t, "Indian Contract Act-sec-1", ChunkID("Indian Contract Act", ChunkTypeSection, 1))
	assert.Equal(t, "Act B-footnote-12", ChunkID("Act B", ChunkTypeFootnote, 12))
}

func TestSectionAndFootnote_NilContent(t *testing.T) {
	assert.Empty(t, Section{}.Text())
	assert.Empty(t, Footnote{}.Body())
	assert.Equal(t, "x", NewSection("x").Text())
	assert.Equal(t, "y", NewFootnote("y").Body())
}

func TestArtifactSettings_Paths(t *testing.T) {
	a := ArtifactSettings{Dir: "embeddings"}
	assert.Equal(t, "embeddings/chunks.index", a.IndexPath())
	assert.Equal(t, "embeddings/chunk_metadata.db", a.MetadataPath())
}
