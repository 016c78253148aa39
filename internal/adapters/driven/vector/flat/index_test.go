package flat

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/verdict/internal/core/domain"
)

func testBuildID() string {
	return uuid.NewString()
}

func buildTestIndex(t *testing.T) *Index {
	t.Helper()
	ix, err := Build(testBuildID(), [][]float32{
		{0, 0},
		{1, 0},
		{0, 2},
		{3, 3},
	})
	require.NoError(t, err)
	return ix
}

func TestBuild(t *testing.T) {
	ix := buildTestIndex(t)

	assert.Equal(t, 4, ix.Len())
	assert.Equal(t, 2, ix.Dimension())
	_, err := uuid.Parse(ix.BuildID())
	assert.NoError(t, err)
}

func TestBuild_Errors(t *testing.T) {
	tests := []struct {
		name    string
		buildID string
		vectors [][]float32
		wantErr error
	}{
		{"no vectors", testBuildID(), nil, domain.ErrInvalidInput},
		{"zero dimension", testBuildID(), [][]float32{{}}, domain.ErrInvalidInput},
		{"ragged", testBuildID(), [][]float32{{1, 2}, {1}}, domain.ErrDimensionMismatch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Build(tt.buildID, tt.vectors)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	_, err := Build("not-a-uuid", [][]float32{{1}})
	assert.Error(t, err)
}

func TestSearch_OrdersByDistance(t *testing.T) {
	ix := buildTestIndex(t)

	hits, err := ix.Search(context.Background(), []float32{0.9, 0}, 4)
	require.NoError(t, err)
	require.Len(t, hits, 4)

	assert.Equal(t, 1, hits[0].Ordinal)
	assert.InDelta(t, 0.01, hits[0].Distance, 1e-6)
	assert.Equal(t, 0, hits[1].Ordinal)
	for i := 1; i < len(hits); i++ {
		assert.LessOrEqual(t, hits[i-1].Distance, hits[i].Distance)
	}
}

func TestSearch_TiesBreakByOrdinal(t *testing.T) {
	ix, err := Build(testBuildID(), [][]float32{
		{1, 0},
		{0, 1},
		{-1, 0},
		{0, -1},
	})
	require.NoError(t, err)

	hits, err := ix.Search(context.Background(), []float32{0, 0}, 4)
	require.NoError(t, err)

	ordinals := make([]int, len(hits))
	for i, h := range hits {
		ordinals[i] = h.Ordinal
		assert.Equal(t, float32(1), h.Distance)
	}
	assert.Equal(t, []int{0, 1, 2, 3}, ordinals)
}

func TestSearch_ClampsTopK(t *testing.T) {
	ix := buildTestIndex(t)

	hits, err := ix.Search(context.Background(), []float32{0, 0}, 100)
	require.NoError(t, err)
	assert.Len(t, hits, 4)
}

func TestSearch_InvalidTopK(t *testing.T) {
	ix := buildTestIndex(t)

	for _, k := range []int{0, -1} {
		_, err := ix.Search(context.Background(), []float32{0, 0}, k)
		assert.ErrorIs(t, err, domain.ErrInvalidQuery)
	}
}

func TestSearch_DimensionMismatch(t *testing.T) {
	ix := buildTestIndex(t)

	_, err := ix.Search(context.Background(), []float32{0, 0, 0}, 1)
	assert.ErrorIs(t, err, domain.ErrDimensionMismatch)
	assert.ErrorIs(t, err, domain.ErrCorruptedState)
}

func TestSearch_CancelledContext(t *testing.T) {
	ix := buildTestIndex(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := ix.Search(ctx, []float32{0, 0}, 1)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestVector(t *testing.T) {
	ix := buildTestIndex(t)

	v, err := ix.Vector(3)
	require.NoError(t, err)
	assert.Equal(t, []float32{3, 3}, v)

	v[0] = 99
	again, _ := ix.Vector(3)
	assert.Equal(t, float32(3), again[0], "Vector must return a copy")

	_, err = ix.Vector(4)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRoundTrip(t *testing.T) {
	ix := buildTestIndex(t)

	var buf bytes.Buffer
	n, err := ix.WriteTo(&buf)
	require.NoError(t, err)
	assert.Equal(t, int64(buf.Len()), n)
	assert.Equal(t, headerSize+4*2*4+trailerSize, buf.Len())

	loaded, err := Read(&buf)
	require.NoError(t, err)

	assert.Equal(t, ix.Len(), loaded.Len())
	assert.Equal(t, ix.Dimension(), loaded.Dimension())
	assert.Equal(t, ix.BuildID(), loaded.BuildID())

	query := []float32{2.5, 2}
	want, err := ix.Search(context.Background(), query, 4)
	require.NoError(t, err)
	got, err := loaded.Search(context.Background(), query, 4)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestRead_Corruption(t *testing.T) {
	ix := buildTestIndex(t)
	var buf bytes.Buffer
	_, err := ix.WriteTo(&buf)
	require.NoError(t, err)
	good := buf.Bytes()

	tests := []struct {
		name   string
		mutate func([]byte) []byte
	}{
		{"empty", func([]byte) []byte { return nil }},
		{"bad magic", func(b []byte) []byte { b[0] = 'X'; return b }},
		{"bad version", func(b []byte) []byte { b[8] = 9; return b }},
		{"truncated body", func(b []byte) []byte { return b[:len(b)-6] }},
		{"flipped vector byte", func(b []byte) []byte { b[headerSize+1] ^= 0xFF; return b }},
		{"zero dimension", func(b []byte) []byte { b[12], b[13], b[14], b[15] = 0, 0, 0, 0; return b }},
		{"inflated count", func(b []byte) []byte { b[16] = 200; return b }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := tt.mutate(bytes.Clone(good))
			_, err := Read(bytes.NewReader(data))
			assert.ErrorIs(t, err, domain.ErrCorruptedState)
		})
	}
}

func TestSaveAndOpen(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "chunks.index")
	ix := buildTestIndex(t)

	require.NoError(t, Save(path, ix))

	loaded, err := Open(path)
	require.NoError(t, err)
	assert.Equal(t, ix.BuildID(), loaded.BuildID())
	assert.NoError(t, loaded.Close())
	assert.Zero(t, loaded.Len())
}

func TestOpen_Missing(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "absent.index"))
	assert.ErrorIs(t, err, domain.ErrMissingArtifact)
}

func TestOpen_Garbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chunks.index")
	require.NoError(t, os.WriteFile(path, []byte("not an index at all, clearly"), 0o644))

	_, err := Open(path)
	assert.ErrorIs(t, err, domain.ErrCorruptedState)
}
