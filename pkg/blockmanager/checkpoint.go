package blockmanager

import (
	"encoding/binary"
	"fmt"

	"github.com/vectorbase-go/dbcore/pkg/metastream"
	"github.com/vectorbase-go/dbcore/pkg/storage"
)

// WriteHeader performs an atomic checkpoint (spec §4.3.1): it serializes
// the blocks read since the last checkpoint into a free-list meta-stream,
// commits header (with iteration, block_count, and free_list_id filled in
// by this call) to the alternate header slot, and fsyncs.
//
// header.MetaBlock is the caller's responsibility: by the time WriteHeader
// is called, the caller must already have flushed whatever meta-stream
// header.MetaBlock points at, so the id is reachable the moment this
// checkpoint becomes durable. WriteHeader does not validate this.
//
// On success, the active header switches to the slot just written, and the
// blocks touched since the last checkpoint become the free list for the
// next epoch. On failure, active_header and the free/used block sets are
// left exactly as they were — the ordering below is load-bearing.
func (m *BlockManager) WriteHeader(header DatabaseHeader) error {
	header.Iteration = m.iterationCount + 1
	header.BlockCount = uint64(m.maxBlock)

	// Allocating the free-list meta-stream may pop ids off m.freeList;
	// put the free list back if the checkpoint does not complete.
	savedFreeList := m.freeList
	committed := false

	defer func() {
		if !committed {
			m.freeList = savedFreeList
		}
	}()

	if len(m.usedBlocks) > 0 {
		rootID, err := m.serializeFreeList(m.usedBlocks)
		if err != nil {
			return fmt.Errorf("write header: serialize free list: %w", err)
		}

		header.FreeListID = rootID
	} else {
		header.FreeListID = storage.InvalidBlock
	}

	alternate := 1 - m.activeHeader

	m.headerBuffer.Clear()
	encodeDatabaseHeader(header, m.headerBuffer.Payload())

	err := m.headerBuffer.Write(m.handle, databaseHeaderOffset(alternate))
	if err != nil {
		return fmt.Errorf("write header: write header slot %d: %w", alternate, err)
	}

	err = m.handle.Sync()
	if err != nil {
		return fmt.Errorf("write header: sync: %w", err)
	}

	m.activeHeader = alternate
	m.iterationCount = header.Iteration
	m.metaBlock = header.MetaBlock

	// Move, don't alias: used_blocks becomes the new free_list; used_blocks
	// is re-initialized to a fresh, empty slice with no shared backing
	// array (spec §4.3.1, §5).
	m.freeList = m.usedBlocks
	m.usedBlocks = nil
	committed = true

	return nil
}

// serializeFreeList writes count then each id as a little-endian BlockID
// through a fresh meta-stream and returns its root block id.
func (m *BlockManager) serializeFreeList(ids []storage.BlockID) (storage.BlockID, error) {
	writer, err := metastream.NewWriter(m)
	if err != nil {
		return storage.InvalidBlock, err
	}

	rootID := writer.RootBlockID()

	var buf [8]byte

	binary.LittleEndian.PutUint64(buf[:], uint64(len(ids)))

	_, err = writer.Write(buf[:])
	if err != nil {
		return storage.InvalidBlock, err
	}

	idBuf := make([]byte, 8*len(ids))
	for i, id := range ids {
		binary.LittleEndian.PutUint64(idBuf[i*8:i*8+8], uint64(id))
	}

	_, err = writer.Write(idBuf)
	if err != nil {
		return storage.InvalidBlock, err
	}

	err = writer.Close()
	if err != nil {
		return storage.InvalidBlock, err
	}

	return rootID, nil
}
