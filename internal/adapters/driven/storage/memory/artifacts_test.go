package memory

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/verdict/internal/core/domain"
)

func TestArtifactStore_OpenBeforeWrite(t *testing.T) {
	store := NewArtifactStore()

	_, _, err := store.Open(context.Background())
	assert.ErrorIs(t, err, domain.ErrMissingArtifact)
	assert.Zero(t, store.Opens())
}

func TestArtifactStore_WriteAndOpen(t *testing.T) {
	store := NewArtifactStore()
	chunks := []domain.Chunk{
		{ID: "Act A-sec-1", ActTitle: "Act A", Type: domain.ChunkTypeSection, Content: "alpha"},
		{ID: "Act A-sec-2", ActTitle: "Act A", Type: domain.ChunkTypeSection, Content: "beta"},
	}
	manifest := domain.Manifest{BuildID: uuid.NewString(), Model: "m", Dimension: 2, VectorCount: 2}

	require.NoError(t, store.Write(context.Background(), manifest, chunks, [][]float32{{1, 0}, {0, 1}}))

	index, metadata, err := store.Open(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, store.Opens())
	assert.Equal(t, manifest.BuildID, index.BuildID())
	assert.Equal(t, 2, metadata.Len())

	hits, err := index.Search(context.Background(), []float32{0, 1}, 1)
	require.NoError(t, err)
	got, err := metadata.Lookup(hits[0].Ordinal)
	require.NoError(t, err)
	assert.Equal(t, "Act A-sec-2", got.ID)

	indexPath, metaPath := store.Paths()
	assert.Contains(t, indexPath, domain.IndexFileName)
	assert.Contains(t, metaPath, domain.MetadataFileName)
}

func TestArtifactStore_WriteMismatch(t *testing.T) {
	store := NewArtifactStore()
	err := store.Write(context.Background(), domain.Manifest{BuildID: uuid.NewString()}, []domain.Chunk{{ID: "x"}}, nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestMetadataStore_Lookup(t *testing.T) {
	chunks := []domain.Chunk{{ID: "a"}, {ID: "b"}}
	store := NewMetadataStore(domain.Manifest{VectorCount: 2}, chunks)

	chunks[0].ID = "mutated"
	got, err := store.Lookup(0)
	require.NoError(t, err)
	assert.Equal(t, "a", got.ID, "store must not alias the caller's slice")

	_, err = store.Lookup(2)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	got, err = store.LookupByID("b")
	require.NoError(t, err)
	assert.Equal(t, "b", got.ID)
	_, err = store.LookupByID("mutated")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Equal(t, 2, store.Manifest().VectorCount)
	assert.NoError(t, store.Close())
}

func TestArtifactStore_ReopenAfterClose(t *testing.T) {
	store := NewArtifactStore()
	manifest := domain.Manifest{BuildID: uuid.NewString(), Model: "m", Dimension: 2, VectorCount: 1}
	require.NoError(t, store.Write(context.Background(), manifest, []domain.Chunk{{ID: "a"}}, [][]float32{{1, 0}}))

	first, _, err := store.Open(context.Background())
	require.NoError(t, err)
	require.NoError(t, first.Close())

	second, _, err := store.Open(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, second.Len())
	assert.Equal(t, 2, store.Opens())
}
