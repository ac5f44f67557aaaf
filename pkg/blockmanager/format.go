package blockmanager

import (
	"encoding/binary"

	"github.com/vectorbase-go/dbcore/pkg/storage"
)

// On-disk layout constants (spec §6). Fixed at v1 and then immutable.
const (
	// VersionNumber is the MasterHeader version this package writes and
	// requires on open.
	VersionNumber = 1

	// HeaderSize is the size in bytes of each of the three fixed header
	// regions (MasterHeader, DatabaseHeader1, DatabaseHeader2).
	HeaderSize = 4096

	// BlockSize is the size in bytes of every page in the data region.
	BlockSize = 262144

	// DataAreaStart is the file offset where the data region begins, after
	// the three fixed header regions.
	DataAreaStart = 3 * HeaderSize
)

// masterHeaderReservedWords is the count of reserved u64 slots in the
// MasterHeader payload, carried for future compatibility fields.
const masterHeaderReservedWords = 4

// MasterHeader is the payload of the file's first fixed header region,
// written once at creation and validated on every open.
type MasterHeader struct {
	Version  uint64
	Reserved [masterHeaderReservedWords]uint64
}

func encodeMasterHeader(h MasterHeader, payload []byte) {
	binary.LittleEndian.PutUint64(payload[0:8], h.Version)
	for i, v := range h.Reserved {
		off := 8 + i*8
		binary.LittleEndian.PutUint64(payload[off:off+8], v)
	}
}

func decodeMasterHeader(payload []byte) MasterHeader {
	var h MasterHeader

	h.Version = binary.LittleEndian.Uint64(payload[0:8])
	for i := range h.Reserved {
		off := 8 + i*8
		h.Reserved[i] = binary.LittleEndian.Uint64(payload[off : off+8])
	}

	return h
}

// DatabaseHeader is the payload of one of the two alternating checkpoint
// header slots (spec §3).
type DatabaseHeader struct {
	// Iteration is the monotonically increasing checkpoint counter. The
	// header with the greater valid iteration is active on open.
	Iteration uint64

	// MetaBlock is the root block of the persisted catalog/metadata
	// stream, or [storage.InvalidBlock].
	MetaBlock storage.BlockID

	// FreeListID is the root block of a meta-stream listing pages
	// recycled by the last checkpoint, or [storage.InvalidBlock].
	FreeListID storage.BlockID

	// BlockCount is the high-water mark of allocated block ids.
	BlockCount uint64
}

func encodeDatabaseHeader(h DatabaseHeader, payload []byte) {
	binary.LittleEndian.PutUint64(payload[0:8], h.Iteration)
	binary.LittleEndian.PutUint64(payload[8:16], uint64(h.MetaBlock))
	binary.LittleEndian.PutUint64(payload[16:24], uint64(h.FreeListID))
	binary.LittleEndian.PutUint64(payload[24:32], h.BlockCount)
}

func decodeDatabaseHeader(payload []byte) DatabaseHeader {
	return DatabaseHeader{
		Iteration:  binary.LittleEndian.Uint64(payload[0:8]),
		MetaBlock:  storage.BlockID(binary.LittleEndian.Uint64(payload[8:16])),
		FreeListID: storage.BlockID(binary.LittleEndian.Uint64(payload[16:24])),
		BlockCount: binary.LittleEndian.Uint64(payload[24:32]),
	}
}

// blockOffset returns the on-disk offset of page id.
func blockOffset(id storage.BlockID) int64 {
	return DataAreaStart + int64(id)*BlockSize
}

// databaseHeaderOffset returns the on-disk offset of header slot (0 or 1).
func databaseHeaderOffset(slot int) int64 {
	return int64(HeaderSize) * int64(slot+1)
}
