package metastream

import (
	"encoding/binary"

	"github.com/vectorbase-go/dbcore/pkg/storage"
)

// nextBlockHeaderSize is the width of the next_block_id field at the front
// of every meta-stream block's payload (spec §4.4).
const nextBlockHeaderSize = 8

// MetaBlockWriter is a byte stream over a chain of blocks allocated from a
// [BlockAllocator]. Writes that overflow the current block allocate a new
// one, link it in via the current block's next_block_id slot, and flush
// the filled block to disk.
type MetaBlockWriter struct {
	alloc  BlockAllocator
	block  *storage.Block
	offset int
	rootID storage.BlockID
}

// NewWriter allocates a root block and returns a writer positioned at its
// start. The root's BlockID is available immediately via
// [MetaBlockWriter.RootBlockID] — a caller doesn't need to wait for Close
// to learn where the chain begins (e.g. to store it in a DatabaseHeader).
func NewWriter(alloc BlockAllocator) (*MetaBlockWriter, error) {
	block, err := alloc.CreateBlock()
	if err != nil {
		return nil, err
	}

	return &MetaBlockWriter{
		alloc:  alloc,
		block:  block,
		offset: nextBlockHeaderSize,
		rootID: block.ID,
	}, nil
}

// RootBlockID returns the BlockID of the first block in the chain.
func (w *MetaBlockWriter) RootBlockID() storage.BlockID {
	return w.rootID
}

// Write copies p into the current block, rolling over to freshly allocated
// blocks as it fills. It satisfies [io.Writer].
func (w *MetaBlockWriter) Write(p []byte) (int, error) {
	written := 0

	for len(p) > 0 {
		payload := w.block.Buffer.Payload()
		avail := len(payload) - w.offset

		n := min(len(p), avail)
		copy(payload[w.offset:w.offset+n], p[:n])
		w.offset += n
		written += n
		p = p[n:]

		if len(p) == 0 {
			break
		}

		newBlock, err := w.alloc.CreateBlock()
		if err != nil {
			return written, err
		}

		binary.LittleEndian.PutUint64(payload[0:nextBlockHeaderSize], uint64(newBlock.ID))

		err = w.alloc.Write(w.block)
		if err != nil {
			return written, err
		}

		w.block = newBlock
		w.offset = nextBlockHeaderSize
	}

	return written, nil
}

// Flush writes the current block to disk if any user data has been written
// to it since the last flush. A flush with nothing pending is a no-op. The
// final block's next_block_id slot is left at its zero value — readers
// must trust the serialized length they were given and not walk past it.
func (w *MetaBlockWriter) Flush() error {
	if w.offset <= nextBlockHeaderSize {
		return nil
	}

	err := w.alloc.Write(w.block)
	if err != nil {
		return err
	}

	w.offset = nextBlockHeaderSize

	return nil
}

// Close flushes any pending data and releases the writer's block buffer.
func (w *MetaBlockWriter) Close() error {
	err := w.Flush()
	w.block = nil

	return err
}
