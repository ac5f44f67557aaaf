package blockmanager

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/vectorbase-go/dbcore/pkg/metastream"
	"github.com/vectorbase-go/dbcore/pkg/storage"
)

// BlockManager owns a single file and implements pageable storage: page
// allocation, checksummed read/write, free-list accounting, and the dual
// header checkpoint protocol (spec §3, §4.3).
//
// A BlockManager is not safe for concurrent use — spec §5 scopes
// concurrent multi-threaded block access out of v1. All operations on a
// BlockManager and the meta-streams it feeds are expected to come from one
// logical caller at a time.
type BlockManager struct {
	handle storage.FileHandle

	activeHeader   int // 0 or 1: which DatabaseHeader slot is active
	iterationCount uint64
	maxBlock       storage.BlockID
	metaBlock      storage.BlockID
	freeList       []storage.BlockID
	usedBlocks     []storage.BlockID
	headerBuffer   *storage.FileBuffer

	closed bool
}

// Open opens the database file at path, creating it fresh if createNew is
// true. See [OpenHandle] for the underlying logic and [errors] this can
// return.
func Open(path string, createNew bool) (*BlockManager, error) {
	flags := osOpenFlags(createNew)

	handle, err := storage.OpenOSFile(path, flags, 0o644) //nolint:mnd // standard file perms
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	manager, err := OpenHandle(handle, createNew)
	if err != nil {
		_ = handle.Close()
		return nil, err
	}

	return manager, nil
}

// OpenHandle opens a database over an arbitrary [storage.FileHandle] —
// the entry point tests use to run the checkpoint protocol against an
// in-memory backend instead of a real file.
func OpenHandle(handle storage.FileHandle, createNew bool) (*BlockManager, error) {
	if createNew {
		return createDatabase(handle)
	}

	return openDatabase(handle)
}

func createDatabase(handle storage.FileHandle) (*BlockManager, error) {
	master := storage.NewFileBuffer(HeaderSize)
	encodeMasterHeader(MasterHeader{Version: VersionNumber}, master.Payload())

	err := master.Write(handle, 0)
	if err != nil {
		return nil, fmt.Errorf("create database: write master header: %w", err)
	}

	zero := DatabaseHeader{MetaBlock: storage.InvalidBlock, FreeListID: storage.InvalidBlock}

	for slot, iteration := range []uint64{0, 1} {
		header := zero
		header.Iteration = iteration

		buf := storage.NewFileBuffer(HeaderSize)
		encodeDatabaseHeader(header, buf.Payload())

		err = buf.Write(handle, databaseHeaderOffset(slot))
		if err != nil {
			return nil, fmt.Errorf("create database: write header %d: %w", slot, err)
		}
	}

	err = handle.Sync()
	if err != nil {
		return nil, fmt.Errorf("create database: sync: %w", err)
	}

	return &BlockManager{
		handle:         handle,
		activeHeader:   1, // the slot-1 header was written with iteration=1
		iterationCount: 1,
		maxBlock:       0,
		metaBlock:      storage.InvalidBlock,
		headerBuffer:   storage.NewFileBuffer(HeaderSize),
	}, nil
}

func openDatabase(handle storage.FileHandle) (*BlockManager, error) {
	master := storage.NewFileBuffer(HeaderSize)

	err := master.Read(handle, 0)
	if err != nil {
		if errors.Is(err, storage.ErrChecksumMismatch) {
			return nil, ErrCorruptDatabase
		}

		return nil, fmt.Errorf("open database: read master header: %w", err)
	}

	masterHeader := decodeMasterHeader(master.Payload())
	if masterHeader.Version != VersionNumber {
		return nil, ErrVersionMismatch
	}

	headers := [2]DatabaseHeader{}
	valid := [2]bool{}

	for slot := range headers {
		buf := storage.NewFileBuffer(HeaderSize)

		readErr := buf.Read(handle, databaseHeaderOffset(slot))
		if readErr == nil {
			headers[slot] = decodeDatabaseHeader(buf.Payload())
			valid[slot] = true

			continue
		}

		if !errors.Is(readErr, storage.ErrChecksumMismatch) {
			return nil, fmt.Errorf("open database: read header %d: %w", slot, readErr)
		}
	}

	active, ok := chooseActiveHeader(headers, valid)
	if !ok {
		return nil, ErrCorruptDatabase
	}

	manager := &BlockManager{
		handle:         handle,
		activeHeader:   active,
		iterationCount: headers[active].Iteration,
		maxBlock:       storage.BlockID(headers[active].BlockCount),
		metaBlock:      headers[active].MetaBlock,
		headerBuffer:   storage.NewFileBuffer(HeaderSize),
	}

	freeList, err := readFreeList(manager, headers[active].FreeListID)
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("open database: read free list: %w", ErrCorruptDatabase)
		}

		return nil, fmt.Errorf("open database: read free list: %w", err)
	}

	manager.freeList = freeList

	return manager, nil
}

// chooseActiveHeader implements spec §4.3's "Instantiation" rule: the
// active header is the one whose checksum verifies and whose iteration is
// larger; if only one verifies, it is active; if neither verifies, the
// database is corrupt.
func chooseActiveHeader(headers [2]DatabaseHeader, valid [2]bool) (int, bool) {
	switch {
	case valid[0] && valid[1]:
		if headers[1].Iteration > headers[0].Iteration {
			return 1, true
		}

		return 0, true
	case valid[0]:
		return 0, true
	case valid[1]:
		return 1, true
	default:
		return 0, false
	}
}

func readFreeList(manager *BlockManager, rootID storage.BlockID) ([]storage.BlockID, error) {
	if rootID == storage.InvalidBlock {
		return nil, nil
	}

	reader, err := metastream.OpenReader(manager, rootID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = reader.Close() }()

	var countBuf [8]byte

	_, err = reader.Read(countBuf[:])
	if err != nil {
		return nil, err
	}

	count := binary.LittleEndian.Uint64(countBuf[:])
	freeList := make([]storage.BlockID, count)

	idBuf := make([]byte, 8*count)

	_, err = reader.Read(idBuf)
	if err != nil {
		return nil, err
	}

	for i := range freeList {
		freeList[i] = storage.BlockID(binary.LittleEndian.Uint64(idBuf[i*8 : i*8+8]))
	}

	return freeList, nil
}

// CreateBlock allocates a fresh BlockID (see [BlockManager.GetFreeBlockID])
// and a zeroed buffer for it.
func (m *BlockManager) CreateBlock() (*storage.Block, error) {
	return &storage.Block{
		ID:     m.GetFreeBlockID(),
		Buffer: storage.NewFileBuffer(BlockSize),
	}, nil
}

// Read populates block.Buffer from disk at the block's offset and records
// block.ID in the used-block set, marking it eligible for recycling at the
// next checkpoint.
func (m *BlockManager) Read(block *storage.Block) error {
	if block.Buffer == nil {
		block.Buffer = storage.NewFileBuffer(BlockSize)
	}

	err := block.Buffer.Read(m.handle, blockOffset(block.ID))
	if err != nil {
		return err
	}

	m.usedBlocks = append(m.usedBlocks, block.ID)

	return nil
}

// Write writes block.Buffer to disk at the block's offset. It does not add
// block.ID to the used-block set — only [BlockManager.Read] does.
func (m *BlockManager) Write(block *storage.Block) error {
	return block.Buffer.Write(m.handle, blockOffset(block.ID))
}

// GetFreeBlockID returns a BlockID to allocate: the tail of the free list
// if non-empty, otherwise a fresh id bumped off the high-water mark.
func (m *BlockManager) GetFreeBlockID() storage.BlockID {
	if n := len(m.freeList); n > 0 {
		id := m.freeList[n-1]
		m.freeList = m.freeList[:n-1]

		return id
	}

	id := m.maxBlock
	m.maxBlock++

	return id
}

// BlockSize reports the fixed page size. It satisfies
// [metastream.BlockAllocator].
func (m *BlockManager) BlockSize() int {
	return BlockSize
}

// BlockCount returns the high-water mark of allocated block ids.
func (m *BlockManager) BlockCount() uint64 {
	return uint64(m.maxBlock)
}

// MetaBlock returns the meta_block recorded by the active header —
// the root of the caller's persisted catalog/metadata stream, or
// [storage.InvalidBlock] if none has been committed yet.
func (m *BlockManager) MetaBlock() storage.BlockID {
	return m.metaBlock
}

// Close syncs and closes the underlying file handle. Per spec §5, the
// FileHandle is owned by the BlockManager: closing the manager closes the
// handle.
func (m *BlockManager) Close() error {
	if m.closed {
		return ErrClosed
	}

	m.closed = true

	err := m.handle.Sync()
	closeErr := m.handle.Close()

	if err != nil {
		return err
	}

	return closeErr
}

func osOpenFlags(createNew bool) int {
	if createNew {
		return osCreateFlags
	}

	return osExistingFlags
}

// Compile-time interface check: BlockManager satisfies metastream's
// allocator contract, since write_header opens a writer on itself.
var _ metastream.BlockAllocator = (*BlockManager)(nil)
