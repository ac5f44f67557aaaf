package metastream_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vectorbase-go/dbcore/pkg/metastream"
	"github.com/vectorbase-go/dbcore/pkg/storage"
)

const testBlockSize = 4096

var errUnknownBlock = errors.New("fakeAllocator: unknown block")

// fakeAllocator is a minimal in-memory [metastream.BlockAllocator] used to
// test the stream in isolation from pkg/blockmanager.
type fakeAllocator struct {
	blocks map[storage.BlockID]*storage.FileBuffer
	next   storage.BlockID
}

func newFakeAllocator() *fakeAllocator {
	return &fakeAllocator{blocks: make(map[storage.BlockID]*storage.FileBuffer)}
}

func (a *fakeAllocator) CreateBlock() (*storage.Block, error) {
	id := a.next
	a.next++

	buf := storage.NewFileBuffer(testBlockSize)
	a.blocks[id] = buf

	return &storage.Block{ID: id, Buffer: buf}, nil
}

func (a *fakeAllocator) Read(block *storage.Block) error {
	src, ok := a.blocks[block.ID]
	if !ok {
		return errUnknownBlock
	}

	copy(block.Buffer.Payload(), src.Payload())

	return nil
}

func (a *fakeAllocator) Write(block *storage.Block) error {
	dst, ok := a.blocks[block.ID]
	if !ok {
		dst = storage.NewFileBuffer(testBlockSize)
		a.blocks[block.ID] = dst
	}

	copy(dst.Payload(), block.Buffer.Payload())

	return nil
}

func (a *fakeAllocator) BlockSize() int {
	return testBlockSize
}

// P5: round-tripping S bytes (S > block size) through a writer/reader pair
// yields the same byte sequence.
func TestMetaStream_RoundTrip(t *testing.T) {
	alloc := newFakeAllocator()

	w, err := metastream.NewWriter(alloc)
	require.NoError(t, err)

	size := testBlockSize*2 + 17
	want := make([]byte, size)
	for i := range want {
		want[i] = byte((i * 31) % 256)
	}

	n, err := w.Write(want)
	require.NoError(t, err)
	require.Equal(t, size, n)
	require.NoError(t, w.Flush())
	require.NoError(t, w.Close())

	root := w.RootBlockID()

	r, err := metastream.OpenReader(alloc, root)
	require.NoError(t, err)

	got := make([]byte, size)
	n, err = r.Read(got)
	require.NoError(t, err)
	require.Equal(t, size, n)
	require.Equal(t, want, got)
	require.NoError(t, r.Close())
}

func TestMetaStream_EmptyFlushIsNoop(t *testing.T) {
	alloc := newFakeAllocator()

	w, err := metastream.NewWriter(alloc)
	require.NoError(t, err)
	require.NoError(t, w.Flush())
	require.NoError(t, w.Close())
}
