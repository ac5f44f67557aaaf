package metastream

import "github.com/vectorbase-go/dbcore/pkg/storage"

// BlockAllocator is the slice of [pkg/blockmanager.BlockManager]'s surface
// a meta-stream needs: allocate a fresh block, populate a block's buffer
// from disk, and flush a block's buffer to disk. It is declared here
// (rather than metastream depending on the blockmanager package directly)
// because the dependency actually runs in both directions — a checkpoint
// opens a MetaBlockWriter to serialize its free list — and Go doesn't allow
// import cycles between packages.
type BlockAllocator interface {
	// CreateBlock allocates a fresh BlockID and a zeroed buffer for it.
	CreateBlock() (*storage.Block, error)

	// Read populates block.Buffer from disk at block.ID's offset.
	Read(block *storage.Block) error

	// Write flushes block.Buffer to disk at block.ID's offset.
	Write(block *storage.Block) error

	// BlockSize reports the fixed internal size of every block's buffer,
	// so a [MetaBlockReader] opened against a root id it didn't allocate
	// itself knows how large a buffer to stage reads into.
	BlockSize() int
}
