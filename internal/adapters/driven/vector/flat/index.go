// Package flat provides an exact, brute-force L2 vector index.
//
// Every query scans all vectors, so rankings are exact and reproducible:
// results are ordered by ascending squared Euclidean distance with ties
// broken by ascending ordinal. The index is immutable after Build.
//
// # File Format
//
// All integers are little-endian.
//
//	magic      [8]byte  "VRDXFLAT"
//	version    uint16
//	reserved   uint16
//	dimension  uint32
//	count      uint64
//	build id   [16]byte (UUID)
//	vectors    count*dimension float32, row-major
//	checksum   uint32   CRC-32 (IEEE) of every preceding byte
package flat

import (
	"bufio"
	"cmp"
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"hash/crc32"
	"io"
	"io/fs"
	"math"
	"os"
	"slices"

	"github.com/google/uuid"

	"github.com/custodia-labs/verdict/internal/core/domain"
	"github.com/custodia-labs/verdict/internal/core/ports/driven"
)

const (
	magic         = "VRDXFLAT"
	formatVersion = uint16(1)
	headerSize    = 8 + 2 + 2 + 4 + 8 + 16
	trailerSize   = 4

	// cancelCheckInterval is how many rows are scanned between context checks.
	cancelCheckInterval = 4096
)

// Ensure Index implements the interface.
var _ driven.VectorIndex = (*Index)(nil)

// Index is an in-memory flat vector index.
type Index struct {
	dim     int
	count   int
	buildID uuid.UUID
	data    []float32
}

// Build creates an index from vectors in ordinal order.
// All vectors must share one non-zero dimension.
func Build(buildID string, vectors [][]float32) (*Index, error) {
	id, err := uuid.Parse(buildID)
	if err != nil {
		return nil, fmt.Errorf("flat: build id: %w", err)
	}
	if len(vectors) == 0 {
		return nil, fmt.Errorf("flat: %w: no vectors", domain.ErrInvalidInput)
	}

	dim := len(vectors[0])
	if dim == 0 {
		return nil, fmt.Errorf("flat: %w: zero-dimension vectors", domain.ErrInvalidInput)
	}

	data := make([]float32, 0, len(vectors)*dim)
	for i, v := range vectors {
		if len(v) != dim {
			return nil, fmt.Errorf("flat: vector %d has %d dimensions, want %d: %w",
				i, len(v), dim, domain.ErrDimensionMismatch)
		}
		data = append(data, v...)
	}

	return &Index{dim: dim, count: len(vectors), buildID: id, data: data}, nil
}

// Search returns the k nearest vectors to query.
func (ix *Index) Search(ctx context.Context, query []float32, k int) ([]driven.VectorHit, error) {
	if k <= 0 {
		return nil, fmt.Errorf("flat: top_k must be positive, got %d: %w", k, domain.ErrInvalidQuery)
	}
	if len(query) != ix.dim {
		return nil, fmt.Errorf("flat: query has %d dimensions, index has %d: %w",
			len(query), ix.dim, domain.ErrDimensionMismatch)
	}

	hits := make([]driven.VectorHit, ix.count)
	for i := 0; i < ix.count; i++ {
		if i%cancelCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		hits[i] = driven.VectorHit{
			Ordinal:  i,
			Distance: squaredL2(query, ix.data[i*ix.dim:(i+1)*ix.dim]),
		}
	}

	slices.SortFunc(hits, func(a, b driven.VectorHit) int {
		if c := cmp.Compare(a.Distance, b.Distance); c != 0 {
			return c
		}
		return cmp.Compare(a.Ordinal, b.Ordinal)
	})

	if k > len(hits) {
		k = len(hits)
	}
	return hits[:k], nil
}

// Len returns the number of stored vectors.
func (ix *Index) Len() int {
	return ix.count
}

// Dimension returns the vector size.
func (ix *Index) Dimension() int {
	return ix.dim
}

// BuildID returns the UUID of the build that produced the index.
func (ix *Index) BuildID() string {
	return ix.buildID.String()
}

// Vector returns a copy of the vector at ordinal.
func (ix *Index) Vector(ordinal int) ([]float32, error) {
	if ordinal < 0 || ordinal >= ix.count {
		return nil, fmt.Errorf("flat: ordinal %d: %w", ordinal, domain.ErrNotFound)
	}
	return slices.Clone(ix.data[ordinal*ix.dim : (ordinal+1)*ix.dim]), nil
}

// Close releases the vector data.
func (ix *Index) Close() error {
	ix.data = nil
	ix.count = 0
	return nil
}

func squaredL2(a, b []float32) float32 {
	var sum float32
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return sum
}

// WriteTo serialises the index in the flat file format.
func (ix *Index) WriteTo(w io.Writer) (int64, error) {
	crc := crc32.NewIEEE()
	bw := bufio.NewWriter(io.MultiWriter(w, crc))

	header := make([]byte, headerSize)
	copy(header[0:8], magic)
	binary.LittleEndian.PutUint16(header[8:10], formatVersion)
	binary.LittleEndian.PutUint32(header[12:16], uint32(ix.dim))
	binary.LittleEndian.PutUint64(header[16:24], uint64(ix.count))
	copy(header[24:40], ix.buildID[:])

	written := int64(0)
	n, err := bw.Write(header)
	written += int64(n)
	if err != nil {
		return written, fmt.Errorf("flat: write header: %w", err)
	}

	buf := make([]byte, 4)
	for _, f := range ix.data {
		binary.LittleEndian.PutUint32(buf, math.Float32bits(f))
		n, err = bw.Write(buf)
		written += int64(n)
		if err != nil {
			return written, fmt.Errorf("flat: write vectors: %w", err)
		}
	}
	if err := bw.Flush(); err != nil {
		return written, fmt.Errorf("flat: flush: %w", err)
	}

	binary.LittleEndian.PutUint32(buf, crc.Sum32())
	n, err = w.Write(buf)
	written += int64(n)
	if err != nil {
		return written, fmt.Errorf("flat: write checksum: %w", err)
	}
	return written, nil
}

// Read parses an index previously written by WriteTo.
// Any structural problem is reported as domain.ErrCorruptedState.
func Read(r io.Reader) (*Index, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("flat: read: %w", err)
	}
	if len(raw) < headerSize+trailerSize {
		return nil, corrupted("truncated header")
	}
	if string(raw[0:8]) != magic {
		return nil, corrupted("bad magic")
	}
	if v := binary.LittleEndian.Uint16(raw[8:10]); v != formatVersion {
		return nil, corrupted(fmt.Sprintf("unsupported version %d", v))
	}

	dim := int(binary.LittleEndian.Uint32(raw[12:16]))
	count := binary.LittleEndian.Uint64(raw[16:24])
	if dim == 0 {
		return nil, corrupted("zero dimension")
	}

	body := len(raw) - headerSize - trailerSize
	if count > uint64(body/4/dim) || int(count)*dim*4 != body {
		return nil, corrupted(fmt.Sprintf("expected %d vectors of %d dimensions, body has %d bytes", count, dim, body))
	}

	want := binary.LittleEndian.Uint32(raw[len(raw)-trailerSize:])
	if got := crc32.ChecksumIEEE(raw[:len(raw)-trailerSize]); got != want {
		return nil, corrupted("checksum mismatch")
	}

	var id uuid.UUID
	copy(id[:], raw[24:40])

	n := int(count)
	data := make([]float32, n*dim)
	payload := raw[headerSize : headerSize+body]
	for i := range data {
		data[i] = math.Float32frombits(binary.LittleEndian.Uint32(payload[i*4:]))
	}

	return &Index{dim: dim, count: n, buildID: id, data: data}, nil
}

// Save writes the index to path.
func Save(path string, ix *Index) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("flat: create %s: %w", path, err)
	}
	if _, err := ix.WriteTo(f); err != nil {
		f.Close()
		return err
	}
	if err := f.Sync(); err != nil {
		f.Close()
		return fmt.Errorf("flat: sync %s: %w", path, err)
	}
	return f.Close()
}

// Open loads the index stored at path.
// A missing file is reported as domain.ErrMissingArtifact.
func Open(path string) (*Index, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("flat: %s: %w", path, domain.ErrMissingArtifact)
		}
		return nil, fmt.Errorf("flat: open %s: %w", path, err)
	}
	defer f.Close()

	ix, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return ix, nil
}

func corrupted(reason string) error {
	return fmt.Errorf("flat: %s: %w", reason, domain.ErrCorruptedState)
}
