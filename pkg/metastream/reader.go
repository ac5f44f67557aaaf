package metastream

import (
	"encoding/binary"
	"io"

	"github.com/vectorbase-go/dbcore/pkg/storage"
)

// MetaBlockReader walks a chain of blocks a [MetaBlockWriter] produced,
// presenting it as a byte stream. It is single-pass: a reader may be
// reopened against the same root id, but it cannot rewind in place.
type MetaBlockReader struct {
	alloc  BlockAllocator
	block  *storage.Block
	offset int
	nextID storage.BlockID
}

// OpenReader reads the block at rootID (recording it in the allocator's
// used-block tracking, the same as any other [BlockAllocator.Read]) and
// returns a reader positioned at the start of its payload.
func OpenReader(alloc BlockAllocator, rootID storage.BlockID) (*MetaBlockReader, error) {
	block := &storage.Block{
		ID:     rootID,
		Buffer: storage.NewFileBuffer(alloc.BlockSize()),
	}

	err := alloc.Read(block)
	if err != nil {
		return nil, err
	}

	nextID := storage.BlockID(binary.LittleEndian.Uint64(block.Buffer.Payload()[0:nextBlockHeaderSize]))

	return &MetaBlockReader{
		alloc:  alloc,
		block:  block,
		offset: nextBlockHeaderSize,
		nextID: nextID,
	}, nil
}

// Read fills dst completely from the chain, crossing block boundaries as
// needed. It returns [io.EOF] if it must move past a block whose
// next_block_id is [storage.InvalidBlock] before dst is filled. A chain
// written by [MetaBlockWriter] leaves its last next_block_id at 0, so
// reading past the end of such a chain is not detected: it follows the
// link to block 0.
func (r *MetaBlockReader) Read(dst []byte) (int, error) {
	read := 0

	for len(dst) > 0 {
		payload := r.block.Buffer.Payload()
		avail := len(payload) - r.offset

		if avail <= 0 {
			if r.nextID == storage.InvalidBlock {
				return read, io.EOF
			}

			r.block.ID = r.nextID

			err := r.alloc.Read(r.block)
			if err != nil {
				return read, err
			}

			r.nextID = storage.BlockID(binary.LittleEndian.Uint64(payload[0:nextBlockHeaderSize]))
			r.offset = nextBlockHeaderSize

			continue
		}

		n := min(len(dst), avail)
		copy(dst[:n], payload[r.offset:r.offset+n])
		r.offset += n
		read += n
		dst = dst[n:]
	}

	return read, nil
}

// Close releases the reader's block buffer.
func (r *MetaBlockReader) Close() error {
	r.block = nil
	return nil
}
